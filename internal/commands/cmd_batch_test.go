package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   BatchInput
		wantErr string
	}{
		{
			name:    "empty posts",
			input:   BatchInput{Posts: []BatchPost{}},
			wantErr: "posts",
		},
		{
			name: "missing prompt",
			input: BatchInput{Posts: []BatchPost{
				{User: "alice", Image: "a.png"},
			}},
			wantErr: "prompt",
		},
		{
			name: "whitespace prompt",
			input: BatchInput{Posts: []BatchPost{
				{User: "alice", Prompt: "   ", Image: "a.png"},
			}},
			wantErr: "prompt",
		},
		{
			name: "missing user",
			input: BatchInput{Posts: []BatchPost{
				{Prompt: "fox", Image: "a.png"},
			}},
			wantErr: "user",
		},
		{
			name: "user with separator",
			input: BatchInput{Posts: []BatchPost{
				{User: "alice/bob", Prompt: "fox", Image: "a.png"},
			}},
			wantErr: "user",
		},
		{
			name: "missing image",
			input: BatchInput{Posts: []BatchPost{
				{User: "alice", Prompt: "fox"},
			}},
			wantErr: "image",
		},
		{
			name: "duplicate images",
			input: BatchInput{Posts: []BatchPost{
				{User: "alice", Prompt: "fox", Image: "a.png"},
				{User: "alice", Prompt: "owl", Image: "a.png"},
			}},
			wantErr: "duplicate",
		},
		{
			name: "valid input",
			input: BatchInput{Posts: []BatchPost{
				{User: "alice", Prompt: "fox", Image: "a.png"},
				{User: "bob", Prompt: "owl", Image: "b.png"},
			}},
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err, "expected error containing %q, got nil", tt.wantErr)
			assert.Contains(t, err.Error(), tt.wantErr, "expected error containing %q, got %q", tt.wantErr, err.Error())
		})
	}
}

func TestBatchInput_WithDefaultUser(t *testing.T) {
	input := BatchInput{Posts: []BatchPost{
		{Prompt: "fox", Image: "a.png"},
		{User: "bob", Prompt: "owl", Image: "b.png"},
	}}

	got := input.WithDefaultUser("alice")

	assert.Equal(t, "alice", got.Posts[0].User)
	assert.Equal(t, "bob", got.Posts[1].User)
	assert.Empty(t, input.Posts[0].User, "original input is not modified")
}

func TestBatchInput_JSON(t *testing.T) {
	jsonInput := `{
		"posts": [
			{"prompt": "fox", "image": "fox.png"},
			{"user": "bob", "prompt": "owl", "image": "owl.png"}
		]
	}`

	var input BatchInput
	require.NoError(t, json.Unmarshal([]byte(jsonInput), &input))

	assert.Len(t, input.Posts, 2, "expected 2 posts, got %d", len(input.Posts))
	assert.Equal(t, "fox.png", input.Posts[0].Image)
	assert.Equal(t, "bob", input.Posts[1].User)
}

func writeBatchFile(t *testing.T, h *harness, input BatchInput) string {
	t.Helper()
	data, err := json.Marshal(input)
	require.NoError(t, err)
	path := filepath.Join(h.dir, "batch.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestBatchCmd_Run(t *testing.T) {
	h := newHarness(t)
	path := writeBatchFile(t, h, BatchInput{Posts: []BatchPost{
		{Prompt: "fox", Image: h.writeImage(t, "fox.png")},
		{Prompt: "ghost", Image: filepath.Join(h.dir, "missing.png")},
		{User: "bob", Prompt: "owl", Image: h.writeImage(t, "owl.png")},
	}})

	stdout, _, err := run(t, []registrar{NewBatchCmd(h.flags, h.app)}, "batch", "-f", path)
	require.NoError(t, err)

	var out BatchOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Len(t, out.BatchID, 8)
	require.Len(t, out.Results, 3)
	assert.Equal(t, StatusCreated, out.Results[0].Status)
	assert.NotZero(t, out.Results[0].PostID)
	assert.Equal(t, StatusFailed, out.Results[1].Status)
	assert.Contains(t, out.Results[1].Error, "open image")
	assert.Equal(t, StatusCreated, out.Results[2].Status)

	assert.Equal(t, 2, countByStatus(out.Results, StatusCreated))
}

func TestBatchCmd_StopsAfterMaxFailures(t *testing.T) {
	h := newHarness(t)
	posts := make([]BatchPost, 0, maxFailures+2)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		posts = append(posts, BatchPost{Prompt: name, Image: filepath.Join(h.dir, name+".png")})
	}
	path := writeBatchFile(t, h, BatchInput{Posts: posts})

	stdout, _, err := run(t, []registrar{NewBatchCmd(h.flags, h.app)}, "batch", "-f", path)
	require.NoError(t, err)

	var out BatchOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.Len(t, out.Results, 5)
	assert.Equal(t, maxFailures, countByStatus(out.Results, StatusFailed))
	assert.Equal(t, 2, countByStatus(out.Results, StatusSkipped))
	assert.Equal(t, StatusSkipped, out.Results[4].Status)
}

func TestBatchOutput_JSON(t *testing.T) {
	output := BatchOutput{
		BatchID: "abc123",
		Results: []BatchResult{
			{Image: "a.png", PostID: 7, URL: "https://img/a.png", Status: StatusCreated},
			{Image: "b.png", Status: StatusFailed, Error: "upload failed"},
			{Image: "c.png", Status: StatusSkipped},
		},
	}

	data, err := json.Marshal(output)
	require.NoError(t, err)

	var decoded BatchOutput
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "abc123", decoded.BatchID)
	assert.Len(t, decoded.Results, 3, "expected 3 results, got %d", len(decoded.Results))
	assert.Equal(t, int64(7), decoded.Results[0].PostID)
	assert.Equal(t, "upload failed", decoded.Results[1].Error)
	assert.Equal(t, StatusSkipped, decoded.Results[2].Status)
}
