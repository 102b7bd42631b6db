package models

import "time"

// User represents a registered user
type User struct {
	ID                string    `json:"id"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"-"`
	ProfilePictureURL *string   `json:"profile_picture_url,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// Post represents a forum post with denormalized interaction counters.
// The count columns are derived values and always equal the number of
// corresponding relation rows after a toggle completes.
type Post struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Username       string    `json:"username,omitempty"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	ImageURL       *string   `json:"image_url,omitempty"`
	LikesCount     int64     `json:"likes_count"`
	FavoritesCount int64     `json:"favorites_count"`
	CommentsCount  int64     `json:"comments_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Comment represents a comment on a post
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ToggleResult is the canonical outcome of a like/favorite toggle:
// the new relation state for the calling user and the authoritative
// post-wide count at response time.
type ToggleResult struct {
	Active bool  `json:"active"`
	Count  int64 `json:"count"`
}

// PostRef identifies a post inside a user's like or favorite set
type PostRef struct {
	PostID string `json:"post_id"`
}
