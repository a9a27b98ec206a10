package store

import (
	"errors"

	"video-share/pkg/models"
)

// Sentinel errors shared by every backend. Handlers map these to HTTP
// statuses; anything else is treated as an internal error.
var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrDuplicateVideo = errors.New("video already exists")
	ErrDefaultVideo   = errors.New("default videos cannot be deleted")
)

// Store is the storage-agnostic catalog interface. The business rules —
// email uniqueness, filename uniqueness for YouTube imports, atomic like
// increments, default-video delete protection, comment cascade — hold for
// every implementation and are exercised by a shared contract test suite.
type Store interface {
	// CreateUser inserts a new account and fills in its id. The password
	// must already be hashed. Returns ErrDuplicateEmail when the email is
	// taken.
	CreateUser(u *models.User) error
	// UserByEmail returns ErrNotFound when no account matches.
	UserByEmail(email string) (*models.User, error)
	UserByID(id string) (*models.User, error)

	// CreateVideo inserts a catalog entry and fills in its id. Filename
	// carries a unique index; a collision returns ErrDuplicateVideo. The
	// index, not a prior read, is what makes concurrent imports of the
	// same YouTube id safe.
	CreateVideo(v *models.Video) error
	// ListVideos returns the catalog newest-first, optionally filtered by
	// case-insensitive substring match on the title.
	ListVideos(query string) ([]models.Video, error)
	// LikeVideo atomically increments the like counter by one. Returns
	// ErrNotFound when the id does not exist.
	LikeVideo(id string) error
	// DeleteVideo removes the entry and all of its comments, returning
	// the removed video so the caller can clean up asset files. Returns
	// ErrNotFound when absent and ErrDefaultVideo for seeded entries.
	DeleteVideo(id string) (*models.Video, error)
	// ClearAll deletes every video and every comment, default entries
	// included. Administrative operation.
	ClearAll() error

	// AddComment inserts a comment and fills in its id. The referenced
	// video is deliberately not checked for existence.
	AddComment(c *models.Comment) error
	ListComments(videoID string) ([]models.Comment, error)

	// SeedIfEmpty inserts the given entries as undeletable defaults when
	// the catalog holds no videos at all, and reports how many were
	// inserted. A non-empty catalog makes it a no-op.
	SeedIfEmpty(seeds []SeedVideo) (int, error)
	// DeduplicateByFilename keeps the earliest entry of every filename
	// group and deletes the rest along with their comments. It exists to
	// heal data that predates the filename unique index and runs once
	// when a backend is opened.
	DeduplicateByFilename() (int, error)

	Ping() error
	Close() error
}
