package pixelfeed

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/pixelfeed/internal/core/config"
	"github.com/colonyops/pixelfeed/internal/core/doctor"
	"github.com/colonyops/pixelfeed/internal/core/gallery"
	"github.com/colonyops/pixelfeed/internal/core/toast"
	"github.com/colonyops/pixelfeed/internal/data/blobstore"
	"github.com/colonyops/pixelfeed/internal/data/db"
	"github.com/colonyops/pixelfeed/pkg/tuitest"
)

func newTestApp(t *testing.T) *App {
	t.Helper()

	dataDir := t.TempDir()
	cfg, err := config.Load("", dataDir)
	require.NoError(t, err)
	cfg.Toasts.Limit = 5

	database, err := db.Open(dataDir, db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	blobs, err := NewBlobStorage(context.Background(), cfg)
	require.NoError(t, err)

	app := NewApp(cfg, database, blobs)
	t.Cleanup(app.Close)
	return app
}

func TestApp_PublishReportsAndPersists(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	post, err := app.Gallery.Publish(ctx, gallery.PublishInput{
		UserID: "alice",
		Prompt: "a lighthouse at dusk",
		Image:  strings.NewReader("png-bytes"),
	})
	require.NoError(t, err)
	assert.NotZero(t, post.ID)

	posts, err := app.Posts.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, post.ID, posts[0].ID)

	toasts := app.Toasts.Snapshot()
	require.Len(t, toasts, 1)
	assert.Equal(t, "Success", toasts[0].Title)

	history, err := app.Bus.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, toasts[0].ID, history[0].ToastID)
}

func TestApp_FailedPublishIsDestructiveToast(t *testing.T) {
	app := newTestApp(t)

	_, err := app.Gallery.Publish(context.Background(), gallery.PublishInput{
		UserID: "alice",
		Image:  strings.NewReader("png-bytes"),
	})
	require.ErrorIs(t, err, gallery.ErrPromptRequired)

	toasts := app.Toasts.Snapshot()
	require.Len(t, toasts, 1)
	assert.Equal(t, toast.VariantDestructive, toasts[0].Variant)
}

func TestApp_DoctorHealthy(t *testing.T) {
	app := newTestApp(t)

	results := app.Doctor.RunChecks(context.Background(), "")

	require.Len(t, results, 3)
	assert.True(t, doctor.Healthy(results))
}

func TestNewBlobStorage(t *testing.T) {
	ctx := context.Background()

	cfg := config.DefaultConfig()
	cfg.Storage.Local.Dir = t.TempDir()
	blobs, err := NewBlobStorage(ctx, &cfg)
	require.NoError(t, err)
	assert.IsType(t, &blobstore.Local{}, blobs)

	cfg.Storage.Driver = config.DriverS3
	cfg.Storage.S3 = config.S3Storage{Bucket: "images", Region: "us-east-1", AccessKeyID: "id", SecretKey: "secret"}
	blobs, err = NewBlobStorage(ctx, &cfg)
	require.NoError(t, err)
	assert.IsType(t, &blobstore.S3{}, blobs)
	assert.Equal(t, "https://images.s3.us-east-1.amazonaws.com/a.png", blobs.URL("a.png"))

	cfg.Storage.Driver = "ftp"
	_, err = NewBlobStorage(ctx, &cfg)
	require.Error(t, err)
}

func TestAttachConsole(t *testing.T) {
	store := toast.New(toast.Options{Limit: 3, RemoveDelay: toast.DefaultRemoveDelay, Clock: toast.SystemClock{}})
	t.Cleanup(store.Close)

	existing := store.Enqueue(toast.Toast{Title: "Before", Description: "already queued"})

	var out bytes.Buffer
	detach := AttachConsole(store, &out)

	store.Enqueue(toast.Toast{Title: "Error", Description: "upload failed", Variant: toast.VariantDestructive})
	store.Update(existing, toast.Patch{Description: toast.Ptr("changed")})
	store.Enqueue(toast.Toast{Description: "no title"})

	detach()
	store.Enqueue(toast.Toast{Title: "After"})

	lines := strings.Split(tuitest.StripANSI(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasSuffix(lines[0], "Before: already queued"))
	assert.True(t, strings.HasSuffix(lines[1], "Error: upload failed"))
	assert.True(t, strings.HasSuffix(lines[2], " no title"))
}

func TestAttachConsole_SkipsClosed(t *testing.T) {
	store := toast.New(toast.Options{Limit: 3, RemoveDelay: toast.DefaultRemoveDelay, Clock: toast.SystemClock{}})
	t.Cleanup(store.Close)

	id := store.Enqueue(toast.Toast{Title: "Gone"})
	store.Dismiss(id)

	var out bytes.Buffer
	detach := AttachConsole(store, &out)
	defer detach()

	assert.Empty(t, out.String())
}
