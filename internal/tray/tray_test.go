package tray

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuRunsCallbacks(t *testing.T) {
	var got []string
	menu := Menu(Callbacks{
		OnShow:    func() { got = append(got, "show") },
		OnStopAll: func() { got = append(got, "stop") },
		OnQuit:    func() { got = append(got, "quit") },
	})

	var labels []string
	for _, item := range menu.Items {
		if item.IsSeparator {
			continue
		}
		labels = append(labels, item.Label)
		item.Action()
	}

	assert.Equal(t, []string{"Show Pad", "Stop All Sounds", "Quit Soundpad"}, labels)
	assert.Equal(t, []string{"show", "stop", "quit"}, got)
	require.True(t, menu.Items[len(menu.Items)-1].IsQuit)
}

func TestSetupWithoutDesktopDriver(t *testing.T) {
	app := test.NewTempApp(t)
	assert.NotPanics(t, func() { Setup(app, Callbacks{}) })
}
