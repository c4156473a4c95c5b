package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/gopxl/beep/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mutax/soundpad/internal/audio"
	"github.com/mutax/soundpad/internal/config"
	"github.com/mutax/soundpad/internal/grid"
	"github.com/mutax/soundpad/internal/midi"
	"github.com/mutax/soundpad/internal/soundboard"
	"github.com/mutax/soundpad/internal/sounds"
	"github.com/mutax/soundpad/internal/tray"
	"github.com/mutax/soundpad/internal/window"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "soundpad dir [dir]...",
		Short: "Play sound clips from a Launchpad grid",
		Long: `Each dir may contain wav or ogg files. They are assigned to the pads
in file name order, 64 per page, up to 8 pages.
Files that share one sample rate work best.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Usage()
			}
			return run(cmd.Context(), args)
		},
	}
}

func run(ctx context.Context, dirs []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Device.Type == config.DeviceTypeVirtual {
		return runVirtual(ctx, cfg, dirs)
	}

	// Initialize MIDI manager
	midiManager := midi.NewManager()
	defer midiManager.Close()

	lp, err := midi.Open(midiManager, midi.Options{
		Type:    midi.DeviceType(cfg.Device.Type),
		InPort:  cfg.Device.InPort,
		OutPort: cfg.Device.OutPort,
		Logger:  logrus.WithField("component", "midi"),
	})
	if errors.Is(err, midi.ErrNoDevice) {
		return fmt.Errorf("did not find a %s Launchpad, is it connected? (inputs: %s; outputs: %s): %w",
			cfg.Device.Type,
			portList(midiManager.ListInPorts()),
			portList(midiManager.ListOutPorts()),
			err)
	}
	if err != nil {
		return err
	}

	return runBoard(ctx, cfg, lp, dirs)
}

// runVirtual shows the on-screen pad. fyne needs the main goroutine, so
// the board loop runs beside it and quits the app when it ends.
func runVirtual(ctx context.Context, cfg *config.Config, dirs []string) error {
	fyneApp := app.NewWithID("io.github.mutax.soundpad")
	pad := window.NewVirtualPad(fyneApp, logrus.WithField("component", "window"))
	tray.Setup(fyneApp, tray.Callbacks{
		OnShow:    pad.Show,
		OnStopAll: func() { pad.Tap(grid.StopAll) },
		OnQuit:    pad.Quit,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, 1)
	go func() {
		errc <- runBoard(ctx, cfg, pad, dirs)
		fyne.Do(fyneApp.Quit)
	}()

	pad.Show()
	fyneApp.Run()

	cancel()
	return <-errc
}

// runBoard owns hw from here on: it is reset and closed on every path.
func runBoard(ctx context.Context, cfg *config.Config, hw soundboard.Hardware, dirs []string) error {
	released := false
	defer func() {
		if !released {
			_ = hw.Reset()
			_ = hw.Close()
		}
	}()

	engine, err := audio.New(audio.Options{
		SampleRate: beep.SampleRate(cfg.Audio.SampleRate),
		Buffer:     cfg.Audio.Buffer(),
		Volume:     cfg.Audio.Volume,
		MaxVoices:  cfg.Audio.MaxVoices,
		Logger:     logrus.WithField("component", "audio"),
	})
	if err != nil {
		return err
	}
	defer engine.Close()

	mode, err := soundboard.ParsePlayMode(cfg.Playback.InitialMode)
	if err != nil {
		logrus.WithError(err).Warn("using default play mode")
	}

	board := soundboard.New(engine, hw, soundboard.Options{
		FadeOut:     cfg.Playback.FadeOut(),
		SoloFadeOut: cfg.Playback.SoloFadeOut(),
		SoloGrace:   cfg.Playback.SoloGrace(),
		Idle:        cfg.Loop.Idle(),
		BlinkTicks:  cfg.Loop.BlinkTicks,
		InitialMode: mode,
		Logger:      logrus.WithField("component", "board"),
	})

	loader := sounds.Loader{
		Rate:   engine.SampleRate(),
		Logger: logrus.WithField("component", "sounds"),
	}
	for _, dir := range dirs {
		if err := loadDir(ctx, board, loader, dir); err != nil {
			return err
		}
	}

	printLegend()

	released = true
	err = board.Run(ctx)
	logrus.Info("quitting")
	return err
}

func loadDir(ctx context.Context, board *soundboard.Board, loader sounds.Loader, dir string) error {
	log := logrus.WithField("dir", dir)
	log.Info("loading files")

	entries, err := sounds.List(dir)
	if err != nil {
		return err
	}
	clips, err := loader.Load(ctx, entries)
	if err != nil {
		return err
	}

	res := board.Load(clips)
	log.WithFields(logrus.Fields{
		"assigned": res.Assigned,
		"pages":    board.Pages(),
	}).Info("files loaded")
	return nil
}

func setupLogging(cfg *config.Config) {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

func printLegend() {
	for _, line := range []string{
		"Press buttons 1-8 to select a page",
		"Press A9 to toggle play mode",
		"Press B9 to stop all sounds",
		"Hold H9 while pressing a sound button to loop that sound",
		"Press 1 + 8 simultaneously to quit and turn off all LEDs",
		"Play modes:",
		"  A9 off: stop all sounds when starting a new one (solo)",
		"  A9 red: sound plays while button is held down",
		"  A9 yellow: same sound plays each time a button is pressed (in parallel)",
		"  A9 green: a second press stops the sound",
	} {
		logrus.Info(line)
	}
}

func portList(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}
