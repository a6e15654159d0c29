package commands

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/pixelfeed/internal/core/gallery"
)

func publishPost(t *testing.T, h *harness, user, prompt string) gallery.Post {
	t.Helper()
	post, err := h.app.Posts.Publish(context.Background(), gallery.PublishInput{
		UserID: user,
		Prompt: prompt,
		Image:  strings.NewReader("png:" + prompt),
	})
	require.NoError(t, err)
	return post
}

func TestPostsCmd_List(t *testing.T) {
	h := newHarness(t)
	publishPost(t, h, "alice", "first")
	publishPost(t, h, "bob", "second")

	stdout, _, err := run(t, []registrar{NewPostsCmd(h.flags, h.app)}, "posts", "ls")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "second")
	assert.Contains(t, lines[2], "first")
}

func TestPostsCmd_ListJSONByUser(t *testing.T) {
	h := newHarness(t)
	publishPost(t, h, "alice", "first")
	publishPost(t, h, "bob", "second")

	stdout, _, err := run(t, []registrar{NewPostsCmd(h.flags, h.app)}, "posts", "ls", "--user", "bob", "--json")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 1)

	var post gallery.Post
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &post))
	assert.Equal(t, "bob", post.UserID)
	assert.Equal(t, "second", post.Prompt)
}

func TestPostsCmd_ListEmpty(t *testing.T) {
	h := newHarness(t)

	stdout, stderr, err := run(t, []registrar{NewPostsCmd(h.flags, h.app)}, "posts", "ls")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "No posts found")
}

func TestPostsCmd_Remove(t *testing.T) {
	h := newHarness(t)
	post := publishPost(t, h, "alice", "doomed")

	_, stderr, err := run(t, []registrar{NewPostsCmd(h.flags, h.app)}, "posts", "rm", "1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), post.ID)
	assert.Contains(t, stderr, "Post deleted")

	posts, err := h.app.Posts.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostsCmd_RemoveErrors(t *testing.T) {
	h := newHarness(t)

	_, _, err := run(t, []registrar{NewPostsCmd(h.flags, h.app)}, "posts", "rm", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid post id")

	_, stderr, err := run(t, []registrar{NewPostsCmd(h.flags, h.app)}, "posts", "rm", "42")
	require.ErrorIs(t, err, gallery.ErrNotFound)
	assert.Contains(t, stderr, "Error:")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "日本語…", truncate("日本語テキスト", 4))
}
