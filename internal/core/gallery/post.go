// Package gallery publishes images as posts: the image goes to object
// storage and the post record to the database, and the two never diverge.
package gallery

import (
	"context"
	"errors"
	"time"
)

var (
	ErrPromptRequired = errors.New("please enter a prompt")
	ErrUserRequired   = errors.New("please sign in to create posts")
	ErrNotFound       = errors.New("post not found")
)

// Post is a published image.
type Post struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Prompt    string    `json:"prompt"`
	ImagePath string    `json:"image_path"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

// PostStore persists post records.
type PostStore interface {
	Create(ctx context.Context, p Post) (int64, error)
	Get(ctx context.Context, id int64) (Post, error)
	List(ctx context.Context, userID string) ([]Post, error)
	Delete(ctx context.Context, id int64) error
}
