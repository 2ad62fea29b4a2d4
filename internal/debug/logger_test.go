package debug

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledByDefault(t *testing.T) {
	SetOutput(io.Discard)
	assert.False(t, Enabled())
	Log("dropped %d", 1)
	Dump("dropped", struct{}{})
}

func TestLogWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(io.Discard)

	require.True(t, Enabled())
	Log("radius changed to %.0f km", 250.0)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "radius changed to 250 km", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestModuleLogger(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(io.Discard)

	log := Logger("cache")
	log.Info().Str("file", "coastline").Msg("downloaded")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "cache", entry["module"])
	assert.Equal(t, "coastline", entry["file"])
}

func TestDump(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(io.Discard)

	Dump("scale", struct {
		Total float64
		Label string
	}{2.5, "km"})

	out := buf.String()
	assert.True(t, strings.Contains(out, "Total"), out)
	assert.True(t, strings.Contains(out, "2.5"), out)
	assert.True(t, strings.Contains(out, `\"km\"`), out)
}
