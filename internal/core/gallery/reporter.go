package gallery

import (
	"context"

	"github.com/colonyops/pixelfeed/internal/core/logging"
	"github.com/colonyops/pixelfeed/internal/core/notify"
)

const msgPublished = "Image generated and posted successfully!"

// Reporter runs gallery operations and reports every outcome as a toast.
type Reporter struct {
	svc *Service
	bus *notify.Bus
}

// NewReporter wraps svc so that results are published on bus.
func NewReporter(svc *Service, bus *notify.Bus) *Reporter {
	return &Reporter{svc: svc, bus: bus}
}

// Publish publishes an image and reports the result.
func (r *Reporter) Publish(ctx context.Context, in PublishInput) (Post, error) {
	ctx = logging.WithUserID(ctx, in.UserID)

	post, err := r.svc.Publish(ctx, in)
	if err != nil {
		r.bus.Error(ctx, err)
		return Post{}, err
	}

	r.bus.Successf(ctx, msgPublished)
	return post, nil
}

// Delete deletes a post and reports the result.
func (r *Reporter) Delete(ctx context.Context, id int64) (Post, error) {
	post, err := r.svc.Delete(ctx, id)
	if err != nil {
		r.bus.Error(ctx, err)
		return Post{}, err
	}

	r.bus.Successf(ctx, "Post deleted")
	return post, nil
}

// List lists posts, reporting failures.
func (r *Reporter) List(ctx context.Context, userID string) ([]Post, error) {
	posts, err := r.svc.List(ctx, userID)
	if err != nil {
		r.bus.Error(ctx, err)
		return nil, err
	}
	return posts, nil
}
