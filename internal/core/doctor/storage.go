package doctor

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/colonyops/pixelfeed/internal/core/blob"
)

const probePrefix = ".doctor"

// StorageCheck writes and deletes a probe object to prove the image
// storage accepts uploads.
type StorageCheck struct {
	blobs  blob.Storage
	driver string
}

func NewStorageCheck(blobs blob.Storage, driver string) *StorageCheck {
	return &StorageCheck{blobs: blobs, driver: driver}
}

func (c *StorageCheck) Name() string {
	return "Image Storage"
}

func (c *StorageCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}
	result.Items = append(result.Items, CheckItem{Label: "driver", Status: StatusPass, Detail: c.driver})

	path := probePrefix + "/" + uuid.NewString() + ".txt"
	if err := c.blobs.Upload(ctx, path, strings.NewReader("ok"), "text/plain"); err != nil {
		result.Items = append(result.Items, CheckItem{Label: "upload", Status: StatusFail, Detail: err.Error()})
		return result
	}
	result.Items = append(result.Items, CheckItem{Label: "upload", Status: StatusPass, Detail: c.blobs.URL(path)})

	if err := c.blobs.Delete(ctx, path); err != nil {
		result.Items = append(result.Items, CheckItem{Label: "delete", Status: StatusWarn, Detail: err.Error()})
		return result
	}
	result.Items = append(result.Items, CheckItem{Label: "delete", Status: StatusPass})

	return result
}
