package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoctorCmd_JSON(t *testing.T) {
	h := newHarness(t)

	stdout, _, err := run(t, []registrar{NewDoctorCmd(h.flags, h.app)}, "doctor", "--format", "json")
	require.NoError(t, err)

	var out struct {
		Healthy bool `json:"healthy"`
		Summary struct {
			Failed int `json:"failed"`
		} `json:"summary"`
		Checks []struct {
			Name string `json:"name"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.True(t, out.Healthy)
	assert.Zero(t, out.Summary.Failed)
	require.Len(t, out.Checks, 3)
	assert.Equal(t, "Configuration", out.Checks[0].Name)
}

func TestDoctorCmd_Text(t *testing.T) {
	h := newHarness(t)

	_, stderr, err := run(t, []registrar{NewDoctorCmd(h.flags, h.app)}, "doctor")
	require.NoError(t, err)
	assert.Contains(t, stderr, "pixelfeed doctor")
	assert.Contains(t, stderr, "Image Storage")
	assert.Contains(t, stderr, "0 failed")
}
