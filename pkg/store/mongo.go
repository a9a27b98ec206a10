package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"video-share/pkg/models"
)

const mongoOpTimeout = 10 * time.Second

// MongoStore implements Store on top of the official MongoDB driver.
// Ids are ObjectID hex strings; atomicity of like increments rides on
// $inc, and import deduplication on a unique index over filename.
type MongoStore struct {
	client   *mongo.Client
	users    *mongo.Collection
	videos   *mongo.Collection
	comments *mongo.Collection
}

var _ Store = (*MongoStore)(nil)

type mongoUser struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	Email    string             `bson:"email"`
	Password string             `bson:"password"`
}

type mongoVideo struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Filename    string             `bson:"filename"`
	Category    string             `bson:"category"`
	Thumbnail   string             `bson:"thumbnail"`
	Likes       int                `bson:"likes"`
	VideoURL    string             `bson:"videoUrl"`
	IsDefault   bool               `bson:"is_default"`
	Description string             `bson:"description"`
}

type mongoComment struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	UserID  string             `bson:"user_id"`
	VideoID string             `bson:"video_id"`
	Comment string             `bson:"comment"`
}

// NewMongo connects to the given MongoDB deployment and prepares the
// collections and indexes the catalog relies on.
func NewMongo(uri, database string) (*MongoStore, error) {
	ctx, cancel := opCtx()
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(database)
	s := &MongoStore{
		client:   client,
		users:    db.Collection("users"),
		videos:   db.Collection("videos"),
		comments: db.Collection("comments"),
	}

	if _, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("email index: %w", err)
	}

	// Heal rows that predate the filename constraint, then enforce it.
	if _, err := s.DeduplicateByFilename(); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("deduplicate: %w", err)
	}
	if _, err := s.videos.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "filename", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("filename index: %w", err)
	}

	return s, nil
}

func opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), mongoOpTimeout)
}

func (s *MongoStore) CreateUser(u *models.User) error {
	ctx, cancel := opCtx()
	defer cancel()

	res, err := s.users.InsertOne(ctx, mongoUser{Name: u.Name, Email: u.Email, Password: u.Password})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create user: %w", err)
	}
	u.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (s *MongoStore) UserByEmail(email string) (*models.User, error) {
	ctx, cancel := opCtx()
	defer cancel()

	var row mongoUser
	if err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&row); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("user by email: %w", err)
	}
	return row.model(), nil
}

func (s *MongoStore) UserByID(id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	ctx, cancel := opCtx()
	defer cancel()

	var row mongoUser
	if err := s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&row); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("user by id: %w", err)
	}
	return row.model(), nil
}

func (s *MongoStore) CreateVideo(v *models.Video) error {
	ctx, cancel := opCtx()
	defer cancel()

	res, err := s.videos.InsertOne(ctx, mongoVideo{
		Title:       v.Title,
		Filename:    v.Filename,
		Category:    v.Category,
		Thumbnail:   v.Thumbnail,
		Likes:       v.Likes,
		VideoURL:    v.PlaybackURL,
		IsDefault:   v.IsDefault,
		Description: v.Description,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateVideo
		}
		return fmt.Errorf("create video: %w", err)
	}
	v.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (s *MongoStore) ListVideos(query string) ([]models.Video, error) {
	ctx, cancel := opCtx()
	defer cancel()

	filter := bson.M{}
	if query != "" {
		filter["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	}
	cur, err := s.videos.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer cur.Close(ctx)

	videos := []models.Video{}
	for cur.Next(ctx) {
		var row mongoVideo
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode video: %w", err)
		}
		videos = append(videos, *row.model())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	return videos, nil
}

func (s *MongoStore) LikeVideo(id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	ctx, cancel := opCtx()
	defer cancel()

	res, err := s.videos.UpdateByID(ctx, oid, bson.M{"$inc": bson.M{"likes": 1}})
	if err != nil {
		return fmt.Errorf("like video: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteVideo(id string) (*models.Video, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	ctx, cancel := opCtx()
	defer cancel()

	var row mongoVideo
	if err := s.videos.FindOne(ctx, bson.M{"_id": oid}).Decode(&row); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("delete video: %w", err)
	}
	if row.IsDefault {
		return nil, ErrDefaultVideo
	}
	if _, err := s.videos.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return nil, fmt.Errorf("delete video: %w", err)
	}
	if _, err := s.comments.DeleteMany(ctx, bson.M{"video_id": id}); err != nil {
		return nil, fmt.Errorf("delete comments: %w", err)
	}
	return row.model(), nil
}

func (s *MongoStore) ClearAll() error {
	ctx, cancel := opCtx()
	defer cancel()

	if _, err := s.videos.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("clear videos: %w", err)
	}
	if _, err := s.comments.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("clear comments: %w", err)
	}
	return nil
}

func (s *MongoStore) AddComment(c *models.Comment) error {
	ctx, cancel := opCtx()
	defer cancel()

	res, err := s.comments.InsertOne(ctx, mongoComment{UserID: c.UserID, VideoID: c.VideoID, Comment: c.Text})
	if err != nil {
		return fmt.Errorf("add comment: %w", err)
	}
	c.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (s *MongoStore) ListComments(videoID string) ([]models.Comment, error) {
	ctx, cancel := opCtx()
	defer cancel()

	cur, err := s.comments.Find(ctx, bson.M{"video_id": videoID},
		options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer cur.Close(ctx)

	comments := []models.Comment{}
	for cur.Next(ctx) {
		var row mongoComment
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode comment: %w", err)
		}
		comments = append(comments, models.Comment{
			ID:      row.ID.Hex(),
			UserID:  row.UserID,
			VideoID: row.VideoID,
			Text:    row.Comment,
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// SeedIfEmpty uses an unordered bulk insert: one bad seed entry does not
// stop the rest. Partial failures are logged, not fatal.
func (s *MongoStore) SeedIfEmpty(seeds []SeedVideo) (int, error) {
	ctx, cancel := opCtx()
	defer cancel()

	count, err := s.videos.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count videos: %w", err)
	}
	if count > 0 || len(seeds) == 0 {
		return 0, nil
	}

	docs := make([]interface{}, 0, len(seeds))
	for _, seed := range seeds {
		v := seed.Video()
		docs = append(docs, mongoVideo{
			Title:       v.Title,
			Filename:    v.Filename,
			Category:    v.Category,
			Thumbnail:   v.Thumbnail,
			Likes:       v.Likes,
			VideoURL:    v.PlaybackURL,
			IsDefault:   v.IsDefault,
			Description: v.Description,
		})
	}
	res, err := s.videos.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil {
		var bulkErr mongo.BulkWriteException
		if !errors.As(err, &bulkErr) {
			return 0, fmt.Errorf("seed videos: %w", err)
		}
		log.Printf("seed: %d of %d default videos failed to insert: %v",
			len(seeds)-len(res.InsertedIDs), len(seeds), err)
	}
	return len(res.InsertedIDs), nil
}

func (s *MongoStore) DeduplicateByFilename() (int, error) {
	ctx, cancel := opCtx()
	defer cancel()

	cur, err := s.videos.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}).
			SetProjection(bson.M{"filename": 1}))
	if err != nil {
		return 0, fmt.Errorf("scan filenames: %w", err)
	}
	defer cur.Close(ctx)

	seen := map[string]bool{}
	var extra []primitive.ObjectID
	for cur.Next(ctx) {
		var row mongoVideo
		if err := cur.Decode(&row); err != nil {
			return 0, fmt.Errorf("decode video: %w", err)
		}
		if seen[row.Filename] {
			extra = append(extra, row.ID)
			continue
		}
		seen[row.Filename] = true
	}
	if err := cur.Err(); err != nil {
		return 0, fmt.Errorf("scan filenames: %w", err)
	}
	if len(extra) == 0 {
		return 0, nil
	}

	if _, err := s.videos.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": extra}}); err != nil {
		return 0, fmt.Errorf("delete duplicates: %w", err)
	}
	ids := make([]string, len(extra))
	for i, oid := range extra {
		ids[i] = oid.Hex()
	}
	if _, err := s.comments.DeleteMany(ctx, bson.M{"video_id": bson.M{"$in": ids}}); err != nil {
		return 0, fmt.Errorf("delete duplicate comments: %w", err)
	}
	return len(extra), nil
}

func (s *MongoStore) Ping() error {
	ctx, cancel := opCtx()
	defer cancel()
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Close() error {
	ctx, cancel := opCtx()
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (u mongoUser) model() *models.User {
	return &models.User{ID: u.ID.Hex(), Name: u.Name, Email: u.Email, Password: u.Password}
}

func (v mongoVideo) model() *models.Video {
	return &models.Video{
		ID:          v.ID.Hex(),
		Title:       v.Title,
		Filename:    v.Filename,
		Category:    v.Category,
		Thumbnail:   v.Thumbnail,
		Likes:       v.Likes,
		PlaybackURL: v.VideoURL,
		IsDefault:   v.IsDefault,
		Description: v.Description,
	}
}
