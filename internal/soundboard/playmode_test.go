package soundboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayModeCycle(t *testing.T) {
	m := Toggle
	var seen []PlayMode
	for i := 0; i < 4; i++ {
		m = m.Next()
		seen = append(seen, m)
	}
	assert.Equal(t, []PlayMode{Solo, Parallel, Hold, Toggle}, seen)
}

func TestPlayModeIndicator(t *testing.T) {
	assert.Equal(t, ColorYellow, Parallel.Indicator())
	assert.Equal(t, ColorRed, Hold.Indicator())
	assert.Equal(t, ColorGreen, Toggle.Indicator())
	assert.Equal(t, ColorOff, Solo.Indicator())
}

func TestParsePlayMode(t *testing.T) {
	for m := Parallel; m < numPlayModes; m++ {
		got, err := ParsePlayMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	got, err := ParsePlayMode(" SOLO ")
	require.NoError(t, err)
	assert.Equal(t, Solo, got)

	_, err = ParsePlayMode("shuffle")
	assert.Error(t, err)
}

func TestPlayModeStringOutOfRange(t *testing.T) {
	assert.Equal(t, "PlayMode(9)", PlayMode(9).String())
	assert.Equal(t, "PlayMode(0)", PlayMode(0).String())
}

func TestUnsetPlayModeNextIsToggle(t *testing.T) {
	var m PlayMode
	assert.Equal(t, Toggle, m.Next())
}
