package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/colonyops/pixelfeed/internal/core/gallery"
	"github.com/colonyops/pixelfeed/internal/data/db"
)

// PostStore implements gallery.PostStore using SQLite.
type PostStore struct {
	db *db.DB
}

var _ gallery.PostStore = (*PostStore)(nil)

// NewPostStore creates a new SQLite-backed post store.
func NewPostStore(db *db.DB) *PostStore {
	return &PostStore{db: db}
}

// Create inserts p and returns its auto-generated ID.
func (s *PostStore) Create(ctx context.Context, p gallery.Post) (int64, error) {
	id, err := s.db.Queries().InsertPost(ctx, db.InsertPostParams{
		UserID:    p.UserID,
		Prompt:    p.Prompt,
		ImagePath: p.ImagePath,
		ImageUrl:  p.ImageURL,
		CreatedAt: p.CreatedAt.UnixNano(),
	})
	if err != nil {
		if IsBusyError(err) {
			return 0, fmt.Errorf("insert post: database is busy, try again: %w", err)
		}
		return 0, fmt.Errorf("insert post: %w", err)
	}
	return id, nil
}

// Get returns the post with the given ID, or gallery.ErrNotFound.
func (s *PostStore) Get(ctx context.Context, id int64) (gallery.Post, error) {
	row, err := s.db.Queries().GetPost(ctx, id)
	if err != nil {
		if IsNotFoundError(err) {
			return gallery.Post{}, gallery.ErrNotFound
		}
		return gallery.Post{}, fmt.Errorf("get post %d: %w", id, err)
	}
	return rowToPost(row), nil
}

// List returns posts newest first. An empty userID lists every user's posts.
func (s *PostStore) List(ctx context.Context, userID string) ([]gallery.Post, error) {
	var (
		rows []db.Post
		err  error
	)
	if userID == "" {
		rows, err = s.db.Queries().ListPosts(ctx)
	} else {
		rows, err = s.db.Queries().ListPostsByUser(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	result := make([]gallery.Post, 0, len(rows))
	for _, row := range rows {
		result = append(result, rowToPost(row))
	}
	return result, nil
}

// Delete removes the post with the given ID, or returns gallery.ErrNotFound.
func (s *PostStore) Delete(ctx context.Context, id int64) error {
	affected, err := s.db.Queries().DeletePost(ctx, id)
	if err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	if affected == 0 {
		return gallery.ErrNotFound
	}
	return nil
}

// Count returns how many posts userID has published.
func (s *PostStore) Count(ctx context.Context, userID string) (int64, error) {
	count, err := s.db.Queries().CountPostsByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}

func rowToPost(row db.Post) gallery.Post {
	return gallery.Post{
		ID:        row.ID,
		UserID:    row.UserID,
		Prompt:    row.Prompt,
		ImagePath: row.ImagePath,
		ImageURL:  row.ImageUrl,
		CreatedAt: time.Unix(0, row.CreatedAt),
	}
}
