// Package notify records user-facing notifications and feeds them into the
// toast queue.
package notify

import (
	"context"
	"time"

	"github.com/colonyops/pixelfeed/internal/core/toast"
)

// Notification is a published notification as kept in history.
type Notification struct {
	ID          int64         `json:"id"`
	ToastID     string        `json:"toast_id,omitempty"`
	Variant     toast.Variant `json:"variant"`
	Title       string        `json:"title,omitempty"`
	Description string        `json:"description"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Store persists notifications to durable storage.
type Store interface {
	Save(ctx context.Context, n Notification) (int64, error)
	List(ctx context.Context) ([]Notification, error)
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}
