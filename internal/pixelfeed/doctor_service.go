package pixelfeed

import (
	"context"
	"path/filepath"

	"github.com/colonyops/pixelfeed/internal/core/blob"
	"github.com/colonyops/pixelfeed/internal/core/config"
	"github.com/colonyops/pixelfeed/internal/core/doctor"
	"github.com/colonyops/pixelfeed/internal/data/db"
)

// DoctorService runs health checks on the pixelfeed setup.
type DoctorService struct {
	config *config.Config
	db     *db.DB
	blobs  blob.Storage
}

// NewDoctorService creates a new DoctorService.
func NewDoctorService(cfg *config.Config, database *db.DB, blobs blob.Storage) *DoctorService {
	return &DoctorService{
		config: cfg,
		db:     database,
		blobs:  blobs,
	}
}

// RunChecks executes all doctor checks and returns results.
func (d *DoctorService) RunChecks(ctx context.Context, configPath string) []doctor.Result {
	checks := []doctor.Check{
		doctor.NewConfigCheck(d.config, configPath),
		doctor.NewDatabaseCheck(d.db.Conn(), filepath.Join(d.config.DataDir, db.FileName)),
		doctor.NewStorageCheck(d.blobs, d.config.Storage.Driver),
	}
	return doctor.RunAll(ctx, checks)
}
