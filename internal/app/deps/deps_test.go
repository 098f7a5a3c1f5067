package deps

import (
	dl "eventreminder/internal/core/domain/logging"
	"eventreminder/internal/implementations/logging"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNamedLoggerWithoutZap(t *testing.T) {
	// Setup ---
	logger := dl.NewFakeLogger()
	deps := &Deps{Logger: logger}

	// Exercise ---
	named := deps.NamedLogger("scheduler")

	// Verify ---
	assert := require.New(t)
	assert.Same(logger, named)
}

func TestNamedLoggerWithZap(t *testing.T) {
	// Setup ---
	logger := logging.NewZapLogger(false)
	deps := &Deps{Logger: logger, zapLogger: logger}

	// Exercise ---
	named := deps.NamedLogger("scheduler")

	// Verify ---
	assert := require.New(t)
	assert.IsType(&logging.ZapLogger{}, named)
	assert.NotSame(logger, named)
}
