package main

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	chimeRate = beep.SampleRate(44100)
	chimeNote = 90 * time.Millisecond
)

// Chime plays a short two-note sound when a link is opened.
type Chime struct {
	enabled bool
	volume  float64
	rate    beep.SampleRate
	logger  *slog.Logger
}

// NewChime initialises the speaker. When no audio device is available the chime
// stays silent and the error is returned for logging.
func NewChime(volume float64, logger *slog.Logger) (*Chime, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Chime{volume: volume, rate: chimeRate, logger: logger}
	if volume <= 0 {
		return c, nil
	}
	if err := speaker.Init(chimeRate, chimeRate.N(time.Second/10)); err != nil {
		return c, fmt.Errorf("audio unavailable: %w", err)
	}
	c.enabled = true
	return c, nil
}

// Play starts the chime without blocking.
func (c *Chime) Play() {
	if !c.enabled {
		return
	}
	s, err := chimeStreamer(c.rate, c.volume)
	if err != nil {
		c.logger.Debug("chime skipped", "error", err)
		return
	}
	speaker.Play(s)
}

// Close releases the audio device.
func (c *Chime) Close() {
	if c.enabled {
		speaker.Close()
		c.enabled = false
	}
}

// chimeStreamer builds the sound: a rising fifth, each note fading out.
func chimeStreamer(rate beep.SampleRate, volume float64) (beep.Streamer, error) {
	var notes []beep.Streamer
	for _, freq := range []float64{880, 1318.51} {
		tone, err := generators.SineTone(rate, freq)
		if err != nil {
			return nil, err
		}
		n := rate.N(chimeNote)
		notes = append(notes, &fade{streamer: beep.Take(n, tone), total: n})
	}
	return &effects.Volume{
		Streamer: beep.Seq(notes...),
		Base:     2,
		Volume:   math.Log2(volume),
	}, nil
}

// fade scales a finite stream linearly down to silence.
type fade struct {
	streamer beep.Streamer
	pos      int
	total    int
}

func (f *fade) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = f.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		g := 1 - float64(f.pos)/float64(f.total)
		if g < 0 {
			g = 0
		}
		samples[i][0] *= g
		samples[i][1] *= g
		f.pos++
	}
	return n, ok
}

func (f *fade) Err() error { return f.streamer.Err() }
