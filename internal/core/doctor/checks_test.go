package doctor

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/pixelfeed/internal/core/config"
	"github.com/colonyops/pixelfeed/internal/data/blobstore"
	"github.com/colonyops/pixelfeed/internal/data/db"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dataDir := t.TempDir()
	cfg, err := config.Load(filepath.Join(dataDir, "missing.yaml"), dataDir)
	require.NoError(t, err)
	cfg.User = "alice"
	return cfg
}

func TestConfigCheck_Defaults(t *testing.T) {
	cfg := testConfig(t)

	result := NewConfigCheck(cfg, filepath.Join(cfg.DataDir, "missing.yaml")).Run(context.Background())

	assert.Equal(t, "Configuration", result.Name)
	require.Len(t, result.Items, 2)
	assert.Equal(t, StatusWarn, result.Items[0].Status)
	assert.Equal(t, "validation", result.Items[1].Label)
	assert.Equal(t, StatusPass, result.Items[1].Status)
}

func TestConfigCheck_FieldErrors(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Local.BaseURL = "not a url"

	path := filepath.Join(cfg.DataDir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("user: alice\n"), 0o600))

	result := NewConfigCheck(cfg, path).Run(context.Background())

	require.Len(t, result.Items, 2)
	assert.Equal(t, StatusPass, result.Items[0].Status)
	assert.Equal(t, "storage.local.base_url", result.Items[1].Label)
	assert.Equal(t, StatusFail, result.Items[1].Status)
}

func TestConfigCheck_Warnings(t *testing.T) {
	cfg := testConfig(t)
	cfg.User = ""

	result := NewConfigCheck(cfg, "").Run(context.Background())

	last := result.Items[len(result.Items)-1]
	assert.Equal(t, "User", last.Label)
	assert.Equal(t, StatusWarn, last.Status)
}

func TestDatabaseCheck(t *testing.T) {
	dir := t.TempDir()
	database, err := db.Open(dir, db.DefaultOpenOptions())
	require.NoError(t, err)

	result := NewDatabaseCheck(database.Conn(), filepath.Join(dir, db.FileName)).Run(context.Background())
	require.Len(t, result.Items, 2)
	assert.Equal(t, StatusPass, result.Items[0].Status)
	assert.Equal(t, StatusPass, result.Items[1].Status)

	require.NoError(t, database.Close())

	result = NewDatabaseCheck(database.Conn(), "").Run(context.Background())
	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusFail, result.Items[0].Status)
}

func TestStorageCheck_Local(t *testing.T) {
	root := t.TempDir()
	local, err := blobstore.NewLocal(root, "")
	require.NoError(t, err)

	result := NewStorageCheck(local, config.DriverLocal).Run(context.Background())

	require.Len(t, result.Items, 3)
	for _, item := range result.Items {
		assert.Equal(t, StatusPass, item.Status, item.Label)
	}

	leftovers, err := os.ReadDir(filepath.Join(root, probePrefix))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

type brokenStorage struct {
	uploadErr error
	deleteErr error
}

func (b brokenStorage) Upload(context.Context, string, io.Reader, string) error { return b.uploadErr }
func (b brokenStorage) URL(path string) string                               { return "mem://" + path }
func (b brokenStorage) Delete(context.Context, string) error                 { return b.deleteErr }

func TestStorageCheck_Failures(t *testing.T) {
	result := NewStorageCheck(brokenStorage{uploadErr: errors.New("denied")}, config.DriverS3).Run(context.Background())
	require.Len(t, result.Items, 2)
	assert.Equal(t, StatusFail, result.Items[1].Status)
	assert.Equal(t, "denied", result.Items[1].Detail)

	result = NewStorageCheck(brokenStorage{deleteErr: errors.New("gone")}, config.DriverS3).Run(context.Background())
	require.Len(t, result.Items, 3)
	assert.Equal(t, StatusPass, result.Items[1].Status)
	assert.Equal(t, StatusWarn, result.Items[2].Status)
}
