// Package audio plays the short feedback sounds of the wrap viewer.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	gomath "math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// DefaultSampleRate is the playback sample rate.
const DefaultSampleRate = beep.SampleRate(44100)

// ErrNotInitialized is returned when playing before Init.
var ErrNotInitialized = errors.New("audio not initialized")

// Click tone shape.
const (
	clickDuration = 40 * time.Millisecond
	clickDecay    = 6.0 // Envelope exp(-decay*t/duration)
	clickBaseHz   = 520.0
	clickRangeHz  = 660.0
)

// Manager mixes sound effects onto the speaker.
type Manager struct {
	mu sync.RWMutex

	initialized bool
	sampleRate  beep.SampleRate

	sfxVolLevel float64 // 0.0 to 1.0
	muted       bool

	// Decoded custom click, replayed from memory.
	click *beep.Buffer

	sfxMixer *beep.Mixer
}

// New creates a new audio manager.
func New() *Manager {
	return &Manager{
		sampleRate:  DefaultSampleRate,
		sfxVolLevel: 1.0,
		sfxMixer:    &beep.Mixer{},
	}
}

// Init opens the speaker.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}
	if err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.sfxMixer)

	m.initialized = true
	return nil
}

// Close stops all playback.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		speaker.Clear()
	}
	m.initialized = false
}

// IsInitialized returns whether the speaker is open.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// SetSFXVolume sets the effect volume (0.0 to 1.0).
func (m *Manager) SetSFXVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sfxVolLevel = clamp(vol, 0, 1)
}

// SFXVolume returns the effect volume.
func (m *Manager) SFXVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sfxVolLevel
}

// SetMuted silences all effects.
func (m *Manager) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = muted
}

// Muted reports whether effects are silenced.
func (m *Manager) Muted() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.muted
}

// LoadClick replaces the synthesized click with a WAV sample.
func (m *Manager) LoadClick(data []byte) error {
	streamer, format, err := wav.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return fmt.Errorf("decode wav: %w", err)
	}
	defer streamer.Close()

	m.mu.Lock()
	defer m.mu.Unlock()

	buf := beep.NewBuffer(beep.Format{SampleRate: m.sampleRate, NumChannels: 2, Precision: 2})
	if format.SampleRate != m.sampleRate {
		buf.Append(beep.Resample(4, format.SampleRate, m.sampleRate, streamer))
	} else {
		buf.Append(streamer)
	}
	m.click = buf
	return nil
}

// PlayClick plays the placement click. pitch in [0,1] raises the tone, so a wrap audibly
// climbs as it progresses; a loaded sample ignores it.
func (m *Manager) PlayClick(pitch float64) error {
	m.mu.RLock()
	initialized := m.initialized
	vol := m.sfxVolLevel
	muted := m.muted
	sr := m.sampleRate
	click := m.click
	m.mu.RUnlock()

	if !initialized {
		return ErrNotInitialized
	}
	if muted || vol <= 0 {
		return nil
	}

	var s beep.Streamer
	if click != nil {
		s = click.Streamer(0, click.Len())
	} else {
		tone, err := clickTone(sr, pitch)
		if err != nil {
			return err
		}
		s = tone
	}

	speaker.Lock()
	m.sfxMixer.Add(&effects.Volume{
		Streamer: s,
		Base:     10,
		Volume:   volumeToDb(vol) / 20,
	})
	speaker.Unlock()
	return nil
}

// clickTone returns a short sine burst with an exponential decay.
func clickTone(sr beep.SampleRate, pitch float64) (beep.Streamer, error) {
	freq := clickBaseHz + clickRangeHz*clamp(pitch, 0, 1)
	tone, err := generators.SineTone(sr, freq)
	if err != nil {
		return nil, fmt.Errorf("click tone: %w", err)
	}
	n := sr.N(clickDuration)
	return &decay{s: beep.Take(n, tone), total: n}, nil
}

// decay scales a finite streamer by exp(-clickDecay*pos/total).
type decay struct {
	s     beep.Streamer
	pos   int
	total int
}

func (d *decay) Stream(samples [][2]float64) (int, bool) {
	n, ok := d.s.Stream(samples)
	for i := range samples[:n] {
		g := gomath.Exp(-clickDecay * float64(d.pos) / float64(d.total))
		samples[i][0] *= g
		samples[i][1] *= g
		d.pos++
	}
	return n, ok
}

func (d *decay) Err() error {
	return d.s.Err()
}

// volumeToDb converts a 0-1 volume to decibels: 1 is 0 dB, 0.5 about -6 dB.
func volumeToDb(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return 20 * gomath.Log10(vol)
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
