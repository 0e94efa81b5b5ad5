package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	testCases := map[string]Level{
		"off":     LevelOff,
		"SILENT":  LevelOff,
		"debug":   LevelDebug,
		" info ":  LevelInfo,
		"unknown": LevelInfo,
		"":        LevelInfo,
	}
	for input, want := range testCases {
		assert.Equal(t, want, ParseLevel(input), input)
	}
}

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelInfo, &buf)

	log.Debug("hidden %d", 1)
	log.Info("burner %d on", 2)
	log.Error("boom")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[INF] ")
	assert.Contains(t, out, "burner 2 on")
	assert.Contains(t, out, "[ERR] ")

	buf.Reset()
	log.SetLevel(LevelDebug)
	log.Debug("shown")
	assert.Contains(t, buf.String(), "[DBG] ")

	buf.Reset()
	log.SetLevel(LevelOff)
	log.Warn("quiet")
	assert.Empty(t, buf.String())
}
