package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/pixelfeed/internal/core/config"
	"github.com/colonyops/pixelfeed/internal/data/db"
	"github.com/colonyops/pixelfeed/internal/pixelfeed"
)

type harness struct {
	flags *Flags
	app   *pixelfeed.App
	dir   string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	dataDir := t.TempDir()
	configPath := filepath.Join(dataDir, "config.yaml")

	cfg, err := config.Load(configPath, dataDir)
	require.NoError(t, err)
	cfg.User = "alice"
	cfg.Toasts.Limit = 10

	database, err := db.Open(dataDir, db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	blobs, err := pixelfeed.NewBlobStorage(context.Background(), cfg)
	require.NoError(t, err)

	app := pixelfeed.NewApp(cfg, database, blobs)
	t.Cleanup(app.Close)

	return &harness{
		flags: &Flags{ConfigPath: configPath, DataDir: dataDir, Config: cfg},
		app:   app,
		dir:   dataDir,
	}
}

// writeImage creates a fake image file and returns its path.
func (h *harness) writeImage(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(h.dir, name)
	require.NoError(t, os.WriteFile(path, []byte("png:"+name), 0o600))
	return path
}

type registrar interface {
	Register(app *cli.Command) *cli.Command
}

// run executes args against a root command carrying only cmds and returns
// what was written to stdout and stderr.
func run(t *testing.T, cmds []registrar, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	root := &cli.Command{
		Name:           "pixelfeed",
		Writer:         &stdout,
		ErrWriter:      &stderr,
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
	for _, c := range cmds {
		root = c.Register(root)
	}

	err := root.Run(context.Background(), append([]string{"pixelfeed"}, args...))
	return stdout.String(), stderr.String(), err
}
