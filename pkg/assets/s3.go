package assets

import (
	"fmt"
	"mime"
	"mime/multipart"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// S3Store keeps assets in an S3 bucket instead of local disk. Playback
// then goes through the bucket's public URL rather than the /uploads
// mount.
type S3Store struct {
	bucket   string
	uploader *s3manager.Uploader
	client   *s3.S3
}

var _ Store = (*S3Store)(nil)

// NewS3Store opens an AWS session for the given region and bucket.
func NewS3Store(region, bucket string) (*S3Store, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}
	return &S3Store{
		bucket:   bucket,
		uploader: s3manager.NewUploader(sess),
		client:   s3.New(sess),
	}, nil
}

func (s *S3Store) Save(file *multipart.FileHeader) (string, error) {
	name := uniqueName(file.Filename)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if _, err := s.uploader.Upload(&s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(name),
		Body:        src,
		ContentType: aws.String(contentType),
	}); err != nil {
		return "", fmt.Errorf("upload %s to s3: %w", name, err)
	}
	return name, nil
}

func (s *S3Store) Remove(name string) error {
	if name == "" {
		return fmt.Errorf("invalid asset name %q", name)
	}
	_, err := s.client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		return fmt.Errorf("delete %s from s3: %w", name, err)
	}
	return nil
}
