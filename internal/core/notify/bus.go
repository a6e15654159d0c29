package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/pixelfeed/internal/core/logging"
	"github.com/colonyops/pixelfeed/internal/core/toast"
)

const (
	titleError   = "Error"
	titleSuccess = "Success"
)

// Bus is the producer side of the notification system. Each published
// notification is saved to history and enqueued as a toast.
type Bus struct {
	toasts  *toast.Store
	history Store
	logger  zerolog.Logger
	now     func() time.Time
}

// NewBus creates a bus that enqueues into toasts. If history is nil,
// notifications are shown but not persisted.
func NewBus(toasts *toast.Store, history Store, logger zerolog.Logger) *Bus {
	return &Bus{
		toasts:  toasts,
		history: history,
		logger:  logger,
		now:     time.Now,
	}
}

// Publish enqueues n as a toast and records it in history. Persistence
// failures are logged and never block the toast.
func (b *Bus) Publish(ctx context.Context, n Notification) Notification {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = b.now()
	}
	if n.Variant == "" {
		n.Variant = toast.VariantDefault
	}

	n.ToastID = b.toasts.Enqueue(toast.Toast{
		Title:       n.Title,
		Description: n.Description,
		Variant:     n.Variant,
	})

	if b.history != nil {
		id, err := b.history.Save(ctx, n)
		if err != nil {
			b.logger.Error().Ctx(logging.WithToastID(ctx, n.ToastID)).Err(err).Str("title", n.Title).Msg("failed to persist notification")
		} else {
			n.ID = id
		}
	}

	return n
}

// Errorf publishes a destructive notification titled "Error".
func (b *Bus) Errorf(ctx context.Context, format string, args ...any) Notification {
	return b.Publish(ctx, Notification{
		Variant:     toast.VariantDestructive,
		Title:       titleError,
		Description: fmt.Sprintf(format, args...),
	})
}

// Successf publishes a notification titled "Success".
func (b *Bus) Successf(ctx context.Context, format string, args ...any) Notification {
	return b.Publish(ctx, Notification{
		Title:       titleSuccess,
		Description: fmt.Sprintf(format, args...),
	})
}

// Infof publishes an untitled notification.
func (b *Bus) Infof(ctx context.Context, format string, args ...any) Notification {
	return b.Publish(ctx, Notification{
		Description: fmt.Sprintf(format, args...),
	})
}

// Error publishes err as a destructive notification. A nil error is ignored.
func (b *Bus) Error(ctx context.Context, err error) {
	if err == nil {
		return
	}
	b.Errorf(ctx, "%s", err.Error())
}

// History returns all persisted notifications (newest first).
// Returns nil if no store is configured.
func (b *Bus) History(ctx context.Context) ([]Notification, error) {
	if b.history == nil {
		return nil, nil
	}
	return b.history.List(ctx)
}

// Clear deletes all persisted notifications.
func (b *Bus) Clear(ctx context.Context) error {
	if b.history == nil {
		return nil
	}
	return b.history.Clear(ctx)
}

// Toasts returns the toast store the bus publishes into.
func (b *Bus) Toasts() *toast.Store {
	return b.toasts
}
