package models

// User is an account record. Passwords are stored as bcrypt hashes and
// never serialized.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"-"`
}

// Video is a catalog entry. Filename is the source key: the stored file
// name for local uploads, or the 11-character YouTube video id for imports.
// PlaybackURL is empty for local uploads and an embed URL for imports.
// IDs are strings at the API boundary; the SQL backends format their
// integer ids as decimal strings, Mongo uses ObjectID hex.
type Video struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Filename    string `json:"filename"`
	Category    string `json:"category"`
	Thumbnail   string `json:"thumbnail"`
	Likes       int    `json:"likes"`
	PlaybackURL string `json:"videoUrl"`
	IsDefault   bool   `json:"is_default"`
	Description string `json:"description"`
}

// Comment belongs to a video. UserID is free text and may be empty; the
// comment flow never requires a login.
type Comment struct {
	ID      string `json:"id"`
	UserID  string `json:"user_id"`
	VideoID string `json:"video_id"`
	Text    string `json:"comment"`
}
