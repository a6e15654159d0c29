package commands

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/pixelfeed/internal/core/notify"
	"github.com/colonyops/pixelfeed/internal/core/toast"
)

func TestNotificationsCmd_List(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.app.Bus.Successf(ctx, "saved %d", 1)
	h.app.Bus.Errorf(ctx, "upload failed")

	stdout, _, err := run(t, []registrar{NewNotificationsCmd(h.flags, h.app)}, "notifications", "ls")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "DESCRIPTION")
	assert.Contains(t, lines[1], "upload failed")
	assert.Contains(t, lines[2], "saved 1")
}

func TestNotificationsCmd_ListJSON(t *testing.T) {
	h := newHarness(t)
	h.app.Bus.Errorf(context.Background(), "boom")

	stdout, _, err := run(t, []registrar{NewNotificationsCmd(h.flags, h.app)}, "notif", "ls", "--json")
	require.NoError(t, err)

	var n notify.Notification
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(stdout)), &n))
	assert.Equal(t, "boom", n.Description)
	assert.Equal(t, toast.VariantDestructive, n.Variant)
	assert.NotEmpty(t, n.ToastID)
}

func TestNotificationsCmd_Clear(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.app.Bus.Infof(ctx, "one")
	h.app.Bus.Infof(ctx, "two")

	_, stderr, err := run(t, []registrar{NewNotificationsCmd(h.flags, h.app)}, "notifications", "clear")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Cleared 2 notification(s)")

	history, err := h.app.Bus.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)

	_, stderr, err = run(t, []registrar{NewNotificationsCmd(h.flags, h.app)}, "notifications", "ls")
	require.NoError(t, err)
	assert.Contains(t, stderr, "No notifications")
}
