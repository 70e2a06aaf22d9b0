// engine.go - Sample mixing engine: construction, commands and driver lifecycle

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package mixer

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
)

// Status is returned to the driver after each block.
type Status int

const (
	// StatusContinue asks the driver to keep calling Process.
	StatusContinue Status = iota
)

// BlockRenderer fills an interleaved stereo buffer with frames frames.
type BlockRenderer interface {
	Process(out []float32, frames int) Status
}

// Driver owns the audio device. Between Start and Stop it calls the renderer
// from a single goroutine on its own schedule.
type Driver interface {
	Start(r BlockRenderer) error
	Stop() error
}

var (
	ErrNoDriver           = errors.New("mixer: no audio driver")
	ErrAlreadyStarted     = errors.New("mixer: engine already started")
	ErrInvalidSampleRate  = errors.New("mixer: sample rate must be positive")
	ErrInvalidBlockFrames = errors.New("mixer: block ceiling must be positive")
)

// Config fixes the engine parameters for its lifetime.
type Config struct {
	SampleRate     int
	MaxBlockFrames int // Zero selects MAX_BLOCK_FRAMES
}

// mixBus holds the per-block accumulation buses. Audio goroutine only.
type mixBus struct {
	dryL, dryR       []float32
	reverbL, reverbR []float32
	delayL, delayR   []float32
}

func newMixBus(frames int) mixBus {
	return mixBus{
		dryL:    make([]float32, frames),
		dryR:    make([]float32, frames),
		reverbL: make([]float32, frames),
		reverbR: make([]float32, frames),
		delayL:  make([]float32, frames),
		delayR:  make([]float32, frames),
	}
}

func (b *mixBus) reset(n int) {
	clear(b.dryL[:n])
	clear(b.dryR[:n])
	clear(b.reverbL[:n])
	clear(b.reverbR[:n])
	clear(b.delayL[:n])
	clear(b.delayR[:n])
}

// Engine mixes triggered pad samples through a delay and a reverb line into
// a soft-clipped stereo output.
//
// LoadSample, UnloadSample and Trigger may be called from any goroutine.
// Process must only be called by one goroutine at a time (the driver's).
type Engine struct {
	sampleRate int
	maxBlock   int

	// Shared with producers
	mutex   sync.Mutex
	samples *SampleStore
	voices  *VoicePool // pending list guarded by mutex, active list audio-only

	// Audio goroutine state
	bus    mixBus
	delay  *FeedbackDelayLine
	reverb *FeedbackDelayLine

	// Published after each block for observers
	activeVoices   atomic.Int32
	voicesAdmitted atomic.Uint64
	voicesRetired  atomic.Uint64

	driverMutex sync.Mutex
	driver      Driver
	started     bool
}

// New creates an engine with the default block ceiling. A non-positive
// sample rate falls back to DEFAULT_RATE.
func New(sampleRate int) *Engine {
	if sampleRate <= 0 {
		sampleRate = DEFAULT_RATE
	}
	e, _ := NewWithConfig(Config{SampleRate: sampleRate})
	return e
}

// NewWithConfig creates an engine from cfg, validating it.
func NewWithConfig(cfg Config) (*Engine, error) {
	if cfg.SampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}
	if cfg.MaxBlockFrames < 0 {
		return nil, ErrInvalidBlockFrames
	}
	if cfg.MaxBlockFrames == 0 {
		cfg.MaxBlockFrames = MAX_BLOCK_FRAMES
	}

	return &Engine{
		sampleRate: cfg.SampleRate,
		maxBlock:   cfg.MaxBlockFrames,
		samples:    NewSampleStore(),
		voices:     NewVoicePool(),
		bus:        newMixBus(cfg.MaxBlockFrames),
		delay:      newTimedDelayLine(cfg.SampleRate, DELAY_BUFFER_SECONDS, DELAY_TAP_SECONDS, DELAY_FEEDBACK),
		reverb:     newTimedDelayLine(cfg.SampleRate, REVERB_BUFFER_SECONDS, REVERB_TAP_SECONDS, REVERB_FEEDBACK),
	}, nil
}

func (e *Engine) SampleRate() int     { return e.sampleRate }
func (e *Engine) MaxBlockFrames() int { return e.maxBlock }

// Stats is a snapshot of voice counters as of the last processed block.
type Stats struct {
	ActiveVoices int
	Admitted     uint64 // Voices moved from pending to active since creation
	Retired      uint64 // Voices removed after finishing since creation
}

// ActiveVoices returns the active voice count as of the last processed block.
func (e *Engine) ActiveVoices() int { return int(e.activeVoices.Load()) }

// Stats returns the voice counters. Safe to call from any goroutine.
func (e *Engine) Stats() Stats {
	return Stats{
		ActiveVoices: int(e.activeVoices.Load()),
		Admitted:     e.voicesAdmitted.Load(),
		Retired:      e.voicesRetired.Load(),
	}
}

// LoadSample stores or replaces the interleaved stereo buffer for pad. The
// copy is made before the lock is taken; only the publish is serialised.
// Voices already playing the pad keep their previous buffer.
func (e *Engine) LoadSample(pad int, frames []float32) {
	s := NewSample(frames)

	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.samples.Set(pad, s)
}

// UnloadSample forgets pad. Pending voices on it are dropped at admission;
// voices already admitted finish on their snapshot.
func (e *Engine) UnloadSample(pad int) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.samples.Remove(pad)
}

// HasSample reports whether pad currently has a sample loaded.
func (e *Engine) HasSample(pad int) bool {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	_, ok := e.samples.Get(pad)
	return ok
}

// Trigger queues a voice on pad. startOffsetSeconds delays the first audible
// frame by round(seconds * sampleRate) output frames, counted from the start
// of the block that admits the voice, saturating at MAX_START_DELAY_FRAMES.
// NaN and negative offsets start immediately. Unknown pads are ignored.
func (e *Engine) Trigger(pad int, velocity, reverbSend, delaySend float32, startOffsetSeconds float64) {
	startDelay := 0
	if startOffsetSeconds > 0 {
		frames := math.Round(startOffsetSeconds * float64(e.sampleRate))
		startDelay = int(min(frames, MAX_START_DELAY_FRAMES))
	}

	e.mutex.Lock()
	defer e.mutex.Unlock()

	if _, ok := e.samples.Get(pad); !ok {
		return
	}
	e.voices.enqueue(Voice{
		pad:        pad,
		velocity:   velocity,
		reverbSend: reverbSend,
		delaySend:  delaySend,
		startDelay: startDelay,
		active:     true,
	})
}

// Start hands the engine to d, which begins calling Process.
func (e *Engine) Start(d Driver) error {
	e.driverMutex.Lock()
	defer e.driverMutex.Unlock()

	if d == nil {
		return ErrNoDriver
	}
	if e.started {
		return ErrAlreadyStarted
	}
	if err := d.Start(e); err != nil {
		return fmt.Errorf("mixer: start driver: %w", err)
	}
	e.driver = d
	e.started = true
	return nil
}

// Stop releases the driver. Stopping an idle engine is a no-op.
func (e *Engine) Stop() error {
	e.driverMutex.Lock()
	defer e.driverMutex.Unlock()

	if !e.started {
		return nil
	}
	err := e.driver.Stop()
	e.driver = nil
	e.started = false
	if err != nil {
		return fmt.Errorf("mixer: stop driver: %w", err)
	}
	return nil
}

func (e *Engine) IsStarted() bool {
	e.driverMutex.Lock()
	defer e.driverMutex.Unlock()
	return e.started
}
