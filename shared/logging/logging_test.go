package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("WARN"))
	assert.Equal(t, zerolog.TraceLevel, ParseLevel("Trace"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("bogus"))
}

func TestNewTagsComponent(t *testing.T) {
	prev, prevLevel := out, zerolog.GlobalLevel()
	t.Cleanup(func() {
		out = prev
		zerolog.SetGlobalLevel(prevLevel)
	})

	var buf bytes.Buffer
	Setup("info", &buf)

	log := New("weapon")
	log.Debug().Msg("hidden")
	log.Info().Int("clip", 30).Msg("equipped")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "weapon", line["component"])
	assert.Equal(t, "equipped", line["message"])
	assert.EqualValues(t, 30, line["clip"])
}
