// Package pixelfeed wires the gallery, the notification bus and the toast
// store into the application consumed by commands and the TUI.
package pixelfeed

import (
	"context"
	"fmt"

	"github.com/colonyops/pixelfeed/internal/core/blob"
	"github.com/colonyops/pixelfeed/internal/core/config"
	"github.com/colonyops/pixelfeed/internal/core/gallery"
	"github.com/colonyops/pixelfeed/internal/core/logging"
	"github.com/colonyops/pixelfeed/internal/core/notify"
	"github.com/colonyops/pixelfeed/internal/core/toast"
	"github.com/colonyops/pixelfeed/internal/data/blobstore"
	"github.com/colonyops/pixelfeed/internal/data/db"
	"github.com/colonyops/pixelfeed/internal/data/stores"
)

// App is the central entry point for all pixelfeed operations.
// Commands and TUI consume App instead of cherry-picking raw dependencies.
type App struct {
	Config  *config.Config
	DB      *db.DB
	Blobs   blob.Storage
	Toasts  *toast.Store
	Bus     *notify.Bus
	Posts   *gallery.Service
	Gallery *gallery.Reporter
	Doctor  *DoctorService
}

// NewApp constructs an App from an open database and blob storage. The
// toast store is created here and must be released with Close.
func NewApp(cfg *config.Config, database *db.DB, blobs blob.Storage) *App {
	toasts := toast.New(toast.Options{
		Limit:       cfg.Toasts.Limit,
		RemoveDelay: cfg.Toasts.RemoveDelay,
		Clock:       toast.SystemClock{},
		Logger:      logging.Component("toast"),
	})

	bus := notify.NewBus(toasts, stores.NewNotifyStore(database), logging.Component("notify"))
	posts := gallery.NewService(stores.NewPostStore(database), blobs, logging.Component("gallery"))

	return &App{
		Config:  cfg,
		DB:      database,
		Blobs:   blobs,
		Toasts:  toasts,
		Bus:     bus,
		Posts:   posts,
		Gallery: gallery.NewReporter(posts, bus),
		Doctor:  NewDoctorService(cfg, database, blobs),
	}
}

// Close stops pending toast removals. The database is owned by the caller.
func (a *App) Close() {
	a.Toasts.Close()
}

// NewBlobStorage builds the image storage selected by cfg.Storage.Driver.
func NewBlobStorage(ctx context.Context, cfg *config.Config) (blob.Storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverLocal:
		local, err := blobstore.NewLocal(cfg.Storage.Local.Dir, cfg.Storage.Local.BaseURL)
		if err != nil {
			return nil, err
		}
		return local, nil
	case config.DriverS3:
		s3 := cfg.Storage.S3
		bucket, err := blobstore.NewS3(ctx, blobstore.S3Config{
			Bucket:         s3.Bucket,
			Region:         s3.Region,
			AccessKeyID:    s3.AccessKeyID,
			SecretKey:      s3.SecretKey,
			Endpoint:       s3.Endpoint,
			BaseURL:        s3.BaseURL,
			ForcePathStyle: s3.ForcePathStyle,
		}, nil)
		if err != nil {
			return nil, err
		}
		return bucket, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
