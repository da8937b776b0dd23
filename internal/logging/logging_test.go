package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, Fatal, ParseLevel("fatal"))
	assert.Equal(t, Warn, ParseLevel("warning"))
	assert.Equal(t, Trace, ParseLevel("trace"))
	assert.Equal(t, Info, ParseLevel("nonsense"))
}

func TestSetLevelFilters(t *testing.T) {
	defer SetLevel(Info)
	SetLevel(Warn)
	assert.Equal(t, int32(Warn), threshold.Load())
	assert.True(t, Enabled(Error))
	assert.False(t, Enabled(Info))
	// below the threshold, must not panic or print
	LogCLI("hidden", Debug)
	Logf(Info, "hidden %d", 1)
}

func TestDefaultLevelHidesDebug(t *testing.T) {
	defer SetLevel(Info)
	SetLevel(ParseLevel("info"))
	assert.True(t, Enabled(Info))
	assert.True(t, Enabled(Warn))
	assert.False(t, Enabled(Debug))
	assert.False(t, Enabled(Trace))

	SetLevel(ParseLevel("debug"))
	assert.True(t, Enabled(Info))
	assert.True(t, Enabled(Debug))
	assert.False(t, Enabled(Trace))
}
