package gallery

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/pixelfeed/internal/core/blob"
)

type memBlobs struct {
	mu        sync.Mutex
	objects   map[string][]byte
	uploadErr error
	deleteErr error
	deleted   []string
}

var _ blob.Storage = (*memBlobs)(nil)

func newMemBlobs() *memBlobs {
	return &memBlobs{objects: map[string][]byte{}}
}

func (m *memBlobs) Upload(_ context.Context, path string, r io.Reader, _ string) error {
	if m.uploadErr != nil {
		return m.uploadErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[path] = data
	return nil
}

func (m *memBlobs) URL(path string) string {
	return "https://cdn.test/images/" + path
}

func (m *memBlobs) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, path)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.objects, path)
	return nil
}

type memPosts struct {
	posts     map[int64]Post
	nextID    int64
	createErr error
}

var _ PostStore = (*memPosts)(nil)

func newMemPosts() *memPosts {
	return &memPosts{posts: map[int64]Post{}}
}

func (m *memPosts) Create(_ context.Context, p Post) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	m.nextID++
	p.ID = m.nextID
	m.posts[p.ID] = p
	return p.ID, nil
}

func (m *memPosts) Get(_ context.Context, id int64) (Post, error) {
	p, ok := m.posts[id]
	if !ok {
		return Post{}, ErrNotFound
	}
	return p, nil
}

func (m *memPosts) List(_ context.Context, userID string) ([]Post, error) {
	var out []Post
	for _, p := range m.posts {
		if userID == "" || p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPosts) Delete(_ context.Context, id int64) error {
	if _, ok := m.posts[id]; !ok {
		return ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

func newTestService(posts *memPosts, blobs *memBlobs) *Service {
	svc := NewService(posts, blobs, zerolog.Nop())
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	svc.newID = func() string { return "abc" }
	return svc
}

func TestService_Publish(t *testing.T) {
	posts, blobs := newMemPosts(), newMemBlobs()
	svc := newTestService(posts, blobs)

	post, err := svc.Publish(context.Background(), PublishInput{
		UserID: "user-1",
		Prompt: "  a cat in space  ",
		Image:  bytes.NewReader([]byte("png-bytes")),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), post.ID)
	assert.Equal(t, "a cat in space", post.Prompt)
	assert.Equal(t, "user-1/1700000000000-abc.png", post.ImagePath)
	assert.Equal(t, "https://cdn.test/images/user-1/1700000000000-abc.png", post.ImageURL)
	assert.Equal(t, []byte("png-bytes"), blobs.objects[post.ImagePath])
	assert.Equal(t, post, posts.posts[1])
}

func TestService_Publish_requires_prompt(t *testing.T) {
	posts, blobs := newMemPosts(), newMemBlobs()
	svc := newTestService(posts, blobs)

	_, err := svc.Publish(context.Background(), PublishInput{
		UserID: "user-1",
		Prompt: "   ",
		Image:  strings.NewReader("x"),
	})

	require.ErrorIs(t, err, ErrPromptRequired)
	assert.Empty(t, blobs.objects)
}

func TestService_Publish_requires_user(t *testing.T) {
	svc := newTestService(newMemPosts(), newMemBlobs())

	_, err := svc.Publish(context.Background(), PublishInput{
		Prompt: "cat",
		Image:  strings.NewReader("x"),
	})

	require.ErrorIs(t, err, ErrUserRequired)
}

func TestService_Publish_upload_failure_creates_no_post(t *testing.T) {
	posts, blobs := newMemPosts(), newMemBlobs()
	blobs.uploadErr = errors.New("bucket unavailable")
	svc := newTestService(posts, blobs)

	_, err := svc.Publish(context.Background(), PublishInput{
		UserID: "user-1",
		Prompt: "cat",
		Image:  strings.NewReader("x"),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upload image")
	assert.Empty(t, posts.posts)
}

func TestService_Publish_insert_failure_deletes_upload(t *testing.T) {
	posts, blobs := newMemPosts(), newMemBlobs()
	insertErr := errors.New("constraint failed")
	posts.createErr = insertErr
	svc := newTestService(posts, blobs)

	_, err := svc.Publish(context.Background(), PublishInput{
		UserID: "user-1",
		Prompt: "cat",
		Image:  strings.NewReader("x"),
	})

	require.ErrorIs(t, err, insertErr)
	assert.Empty(t, blobs.objects, "uploaded image must not outlive a failed insert")
	assert.Equal(t, []string{"user-1/1700000000000-abc.png"}, blobs.deleted)
}

func TestService_Publish_insert_failure_reports_insert_error_when_cleanup_fails(t *testing.T) {
	posts, blobs := newMemPosts(), newMemBlobs()
	insertErr := errors.New("constraint failed")
	posts.createErr = insertErr
	blobs.deleteErr = errors.New("delete denied")
	svc := newTestService(posts, blobs)

	_, err := svc.Publish(context.Background(), PublishInput{
		UserID: "user-1",
		Prompt: "cat",
		Image:  strings.NewReader("x"),
	})

	require.ErrorIs(t, err, insertErr)
	assert.Len(t, blobs.deleted, 1)
}

func TestService_Delete(t *testing.T) {
	posts, blobs := newMemPosts(), newMemBlobs()
	svc := newTestService(posts, blobs)
	ctx := context.Background()

	post, err := svc.Publish(ctx, PublishInput{UserID: "u", Prompt: "p", Image: strings.NewReader("x")})
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, deleted.ID)
	assert.Empty(t, posts.posts)
	assert.Empty(t, blobs.objects)

	_, err = svc.Delete(ctx, post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Delete_blob_failure_is_not_fatal(t *testing.T) {
	posts, blobs := newMemPosts(), newMemBlobs()
	svc := newTestService(posts, blobs)
	ctx := context.Background()

	post, err := svc.Publish(ctx, PublishInput{UserID: "u", Prompt: "p", Image: strings.NewReader("x")})
	require.NoError(t, err)
	blobs.deleteErr = errors.New("gone already")

	_, err = svc.Delete(ctx, post.ID)
	assert.NoError(t, err)
	assert.Empty(t, posts.posts)
}
