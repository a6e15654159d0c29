package gallery

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/colonyops/pixelfeed/internal/core/blob"
)

const imageContentType = "image/png"

// PublishInput is a request to publish one image.
type PublishInput struct {
	UserID string
	Prompt string
	Image  io.Reader
}

// Service publishes, lists and deletes posts.
type Service struct {
	posts  PostStore
	blobs  blob.Storage
	logger zerolog.Logger
	now    func() time.Time
	newID  func() string
}

// NewService wires a gallery over a post store and a blob store.
func NewService(posts PostStore, blobs blob.Storage, logger zerolog.Logger) *Service {
	return &Service{
		posts:  posts,
		blobs:  blobs,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Publish uploads the image and records the post. When the record cannot
// be committed the uploaded object is deleted again, so a stored image
// always has a post.
func (s *Service) Publish(ctx context.Context, in PublishInput) (Post, error) {
	prompt := strings.TrimSpace(in.Prompt)
	if prompt == "" {
		return Post{}, ErrPromptRequired
	}
	if in.UserID == "" {
		return Post{}, ErrUserRequired
	}
	if in.Image == nil {
		return Post{}, fmt.Errorf("no image to upload")
	}

	now := s.now()
	path := s.imagePath(in.UserID, now)

	if err := s.blobs.Upload(ctx, path, in.Image, imageContentType); err != nil {
		return Post{}, fmt.Errorf("failed to upload image: %w", err)
	}
	s.logger.Debug().Ctx(ctx).Str("path", path).Msg("image uploaded")

	post := Post{
		UserID:    in.UserID,
		Prompt:    prompt,
		ImagePath: path,
		ImageURL:  s.blobs.URL(path),
		CreatedAt: now,
	}

	id, err := s.posts.Create(ctx, post)
	if err != nil {
		s.logger.Warn().Ctx(ctx).Err(err).Str("path", path).Msg("post insert failed, removing uploaded image")
		if delErr := s.blobs.Delete(context.WithoutCancel(ctx), path); delErr != nil {
			s.logger.Error().Err(delErr).Str("path", path).Msg("failed to clean up uploaded image")
		}
		return Post{}, fmt.Errorf("failed to create post: %w", err)
	}

	post.ID = id
	s.logger.Info().Ctx(ctx).Int64("post_id", id).Msg("post published")
	return post, nil
}

// List returns posts newest first. An empty userID lists every user's posts.
func (s *Service) List(ctx context.Context, userID string) ([]Post, error) {
	return s.posts.List(ctx, userID)
}

// Delete removes the post record, then its image. A failure to delete the
// image is logged but does not fail the call.
func (s *Service) Delete(ctx context.Context, id int64) (Post, error) {
	post, err := s.posts.Get(ctx, id)
	if err != nil {
		return Post{}, err
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return Post{}, err
	}

	if err := s.blobs.Delete(ctx, post.ImagePath); err != nil {
		s.logger.Error().Err(err).Str("path", post.ImagePath).Msg("failed to delete image")
	}
	return post, nil
}

func (s *Service) imagePath(userID string, now time.Time) string {
	return fmt.Sprintf("%s/%d-%s.png", userID, now.UnixMilli(), s.newID())
}
