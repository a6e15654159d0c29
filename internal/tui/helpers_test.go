package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/pixelfeed/internal/core/gallery"
	"github.com/colonyops/pixelfeed/internal/core/notify"
	"github.com/colonyops/pixelfeed/internal/core/toast"
	"github.com/colonyops/pixelfeed/internal/core/toast/toasttest"
)

// memHistory is an in-memory notify.Store.
type memHistory struct {
	mu    sync.Mutex
	items []notify.Notification
}

func (m *memHistory) Save(_ context.Context, n notify.Notification) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n.ID = int64(len(m.items) + 1)
	m.items = append([]notify.Notification{n}, m.items...)
	return n.ID, nil
}

func (m *memHistory) List(_ context.Context) ([]notify.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notify.Notification(nil), m.items...), nil
}

func (m *memHistory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
	return nil
}

func (m *memHistory) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.items)), nil
}

// fakeGallery is an in-memory Gallery.
type fakeGallery struct {
	mu      sync.Mutex
	posts   []gallery.Post
	deleted []int64
	listErr error
}

func (f *fakeGallery) List(_ context.Context, userID string) ([]gallery.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}

	var out []gallery.Post
	for _, p := range f.posts {
		if userID == "" || p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeGallery) Delete(_ context.Context, id int64) (gallery.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.posts {
		if p.ID == id {
			f.posts = append(f.posts[:i], f.posts[i+1:]...)
			f.deleted = append(f.deleted, id)
			return p, nil
		}
	}
	return gallery.Post{}, errors.New("post not found")
}

func newTestStore(t *testing.T, limit int) (*toast.Store, *toasttest.Clock) {
	t.Helper()
	clock := toasttest.NewClock()
	store := toast.New(toast.Options{
		Limit:       limit,
		RemoveDelay: time.Second,
		Clock:       clock,
		Logger:      zerolog.Nop(),
	})
	t.Cleanup(store.Close)
	return store, clock
}

func newTestController(t *testing.T, limit int) (*ToastController, *toast.Store, *toasttest.Clock) {
	t.Helper()
	store, clock := newTestStore(t, limit)
	c := NewToastController(store, 2*time.Second)
	t.Cleanup(c.Close)
	return c, store, clock
}

// syncController applies the latest pending store snapshot, if any.
func syncController(c *ToastController) {
	select {
	case toasts := <-c.updates:
		c.Apply(toasts)
	default:
	}
}

func samplePosts() []gallery.Post {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []gallery.Post{
		{ID: 3, UserID: "alice", Prompt: "a lighthouse at dusk", CreatedAt: base.Add(2 * time.Hour)},
		{ID: 2, UserID: "bob", Prompt: "a cat wearing a hat", CreatedAt: base.Add(time.Hour)},
		{ID: 1, UserID: "alice", Prompt: "mountains in fog", CreatedAt: base},
	}
}

func newTestModel(t *testing.T) (Model, *fakeGallery, *toast.Store, *memHistory) {
	t.Helper()
	store, _ := newTestStore(t, 3)
	history := &memHistory{}
	bus := notify.NewBus(store, history, zerolog.Nop())
	g := &fakeGallery{posts: samplePosts()}

	m := New(Options{Gallery: g, Bus: bus, ToastTTL: 300 * time.Millisecond})
	t.Cleanup(m.Close)

	result, _ := m.Update(m.loadPosts()())
	m = result.(Model)
	require.Len(t, m.posts, 3)
	return m, g, store, history
}
