package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_InfoHasFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New("development", buf)

	log.Info().Str("key", "value").Msg("info-test")

	out := buf.String()
	assert.Contains(t, out, "info-test")
	assert.Contains(t, out, `"key":"value"`)
	assert.Contains(t, out, `"level":"info"`)
	assert.Contains(t, out, `"time":`)
}

func TestNew_DebugShownInDevelopment(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New("development", buf)

	log.Debug().Msg("debug-test")

	assert.Contains(t, buf.String(), "debug-test")
}

func TestNew_DebugHiddenInProduction(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New("production", buf)

	log.Debug().Msg("debug-hidden")
	assert.Empty(t, buf.String())

	log.Warn().Msg("warn-shown")
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestNew_LevelsAreIndependent(t *testing.T) {
	prodBuf := &bytes.Buffer{}
	devBuf := &bytes.Buffer{}
	prod := New("production", prodBuf)
	dev := New("development", devBuf)

	prod.Debug().Msg("p")
	dev.Debug().Msg("d")

	assert.Empty(t, prodBuf.String())
	assert.Contains(t, devBuf.String(), `"message":"d"`)
}
