package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLevel(t *testing.T) {
	assert.Equal(t, zerolog.WarnLevel, Level(-1))
	assert.Equal(t, zerolog.WarnLevel, Level(0))
	assert.Equal(t, zerolog.InfoLevel, Level(1))
	assert.Equal(t, zerolog.DebugLevel, Level(2))
	assert.Equal(t, zerolog.TraceLevel, Level(7))
}

func TestGetLoggerTagsComponent(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	Setup(1, &buf)
	log := GetLogger("collapse")
	log.Info().Msg("merged")
	log.Debug().Msg("hidden")

	out := buf.String()
	assert.Contains(t, out, "merged")
	assert.Contains(t, out, "component=")
	assert.Contains(t, out, "collapse")
	assert.NotContains(t, out, "hidden")
}
