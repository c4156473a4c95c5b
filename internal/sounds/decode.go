package sounds

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/mutax/soundpad/internal/audio"
	"github.com/mutax/soundpad/internal/soundboard"
)

type decodeFunc func(io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

var decoders = map[string]decodeFunc{
	".wav": func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
		return wav.Decode(rc)
	},
	".ogg": vorbis.Decode,
}

// Decode reads the file at path into memory at the given sample rate.
func Decode(path string, rate beep.SampleRate) (*audio.Clip, error) {
	dec, ok := decoders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupported)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	s, format, err := dec(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	defer s.Close()
	return audio.NewClip(filepath.Base(path), s, format, rate)
}

// Loader decodes entries concurrently.
type Loader struct {
	Rate beep.SampleRate
	// Workers bounds concurrent decodes, 0 means GOMAXPROCS.
	Workers int
	Logger  logrus.FieldLogger
}

// Load decodes entries in parallel and returns the clips in entry order.
// Files that fail to decode are logged and skipped. Only a canceled ctx
// fails the whole load.
func (l Loader) Load(ctx context.Context, entries []Entry) ([]soundboard.Clip, error) {
	log := l.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	workers := l.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	decoded := make([]*audio.Clip, len(entries))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, e := range entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := Decode(e.Path, l.Rate)
			if err != nil {
				log.WithError(err).WithField("path", e.Path).Warn("skipping clip")
				return nil
			}
			decoded[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	clips := make([]soundboard.Clip, 0, len(entries))
	for i, c := range decoded {
		if c == nil {
			continue
		}
		clips = append(clips, soundboard.Clip{
			Name:    entries[i].Name,
			Sound:   c,
			FadeOut: entries[i].FadeOut,
		})
	}
	log.WithFields(logrus.Fields{
		"found":   len(entries),
		"decoded": len(clips),
	}).Info("clips decoded")
	return clips, nil
}
