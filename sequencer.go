// sequencer.go - Step sequencer with lookahead scheduling

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

package main

import (
	"context"
	"sync"
	"time"
)

type StepState uint8

const (
	STEP_OFF StepState = iota
	STEP_NORMAL
	STEP_ACCENT
	STEP_STATES
)

const (
	NORMAL_VELOCITY   = 0.7
	ACCENT_VELOCITY   = 1.0
	LIVE_VELOCITY     = 1.0
	MAX_SWING         = 0.5
	MIN_BPM           = 20.0
	MAX_BPM           = 300.0
	SEQUENCER_TICK    = 5 * time.Millisecond
	DEFAULT_LOOKAHEAD = 25 * time.Millisecond
	MIN_STEP_DURATION = time.Millisecond
)

func (s StepState) Velocity() float32 {
	switch s {
	case STEP_NORMAL:
		return NORMAL_VELOCITY
	case STEP_ACCENT:
		return ACCENT_VELOCITY
	}
	return 0
}

type Track struct {
	Pad   int
	Steps []StepState
}

type Pattern struct {
	Tracks      []Track
	BPM         float64
	BeatsPerBar int
}

// NewEmptyPattern returns one silent track per configured pad.
func NewEmptyPattern(cfg *GrooveboxConfig) *Pattern {
	p := &Pattern{BPM: cfg.BPM, BeatsPerBar: cfg.BeatsPerBar}
	for _, pad := range cfg.Pads {
		p.Tracks = append(p.Tracks, Track{Pad: pad.ID, Steps: make([]StepState, cfg.BeatsPerBar)})
	}
	return p
}

func (p *Pattern) Clone() *Pattern {
	c := &Pattern{BPM: p.BPM, BeatsPerBar: p.BeatsPerBar, Tracks: make([]Track, len(p.Tracks))}
	for i, t := range p.Tracks {
		c.Tracks[i] = Track{Pad: t.Pad, Steps: append([]StepState(nil), t.Steps...)}
	}
	return c
}

func (p *Pattern) track(pad int) *Track {
	for i := range p.Tracks {
		if p.Tracks[i].Pad == pad {
			return &p.Tracks[i]
		}
	}
	return nil
}

// PadPlayer receives the hits the sequencer schedules.
type PadPlayer interface {
	Play(pad int, velocity float32, offsetSeconds float64)
}

// Sequencer walks a pattern in real time. Each Tick dispatches every step
// falling inside the lookahead window, passing how far in the future it is
// due so the engine can start it mid-block.
type Sequencer struct {
	mutex       sync.Mutex
	pattern     *Pattern
	player      PadPlayer
	playing     bool
	recording   bool
	currentStep int
	swing       float64
	nextStepAt  time.Time
	lookahead   time.Duration
}

func NewSequencer(p *Pattern, player PadPlayer) *Sequencer {
	return &Sequencer{pattern: p, player: player, lookahead: DEFAULT_LOOKAHEAD}
}

// SetLookahead sets how far ahead of now steps are dispatched. The offline
// renderer uses one block.
func (s *Sequencer) SetLookahead(d time.Duration) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.lookahead = max(0, d)
}

func (s *Sequencer) SetBPM(bpm float64) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.pattern.BPM = clampBPM(bpm)
}

// clampBPM bounds a tempo to [MIN_BPM, MAX_BPM]; NaN becomes MIN_BPM.
func clampBPM(bpm float64) float64 {
	if !(bpm >= MIN_BPM) {
		return MIN_BPM
	}
	return min(MAX_BPM, bpm)
}

func (s *Sequencer) BPM() float64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.pattern.BPM
}

func (s *Sequencer) SetSwing(swing float64) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if !(swing >= 0) {
		swing = 0
	}
	s.swing = min(MAX_SWING, swing)
}

func (s *Sequencer) Swing() float64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.swing
}

// TogglePlay starts or stops playback. Starting plays the current step on the
// next tick.
func (s *Sequencer) TogglePlay(now time.Time) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.playing = !s.playing
	if s.playing {
		s.nextStepAt = now
	}
	return s.playing
}

func (s *Sequencer) Stop() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.playing = false
}

func (s *Sequencer) ToggleRecord() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.recording = !s.recording
	return s.recording
}

func (s *Sequencer) IsPlaying() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.playing
}

func (s *Sequencer) IsRecording() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.recording
}

// CurrentStep is the index of the next step to be dispatched.
func (s *Sequencer) CurrentStep() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.currentStep
}

// Pattern returns a copy of the pattern being played.
func (s *Sequencer) Pattern() *Pattern {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.pattern.Clone()
}

// SetPattern swaps in a copy of p with its tempo clamped like SetBPM.
func (s *Sequencer) SetPattern(p *Pattern) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.pattern = p.Clone()
	s.pattern.BPM = clampBPM(s.pattern.BPM)
	if s.pattern.BeatsPerBar <= 0 {
		s.pattern.BeatsPerBar = DEFAULT_BEATS_PER_BAR
	}
	s.currentStep %= s.pattern.BeatsPerBar
}

func (s *Sequencer) SetStep(pad, step int, state StepState) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	t := s.pattern.track(pad)
	if t == nil || step < 0 || step >= len(t.Steps) || state >= STEP_STATES {
		return false
	}
	t.Steps[step] = state
	return true
}

// CycleStep advances a step through off, normal and accent.
func (s *Sequencer) CycleStep(pad, step int) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.cycleStep(pad, step)
}

func (s *Sequencer) cycleStep(pad, step int) bool {
	t := s.pattern.track(pad)
	if t == nil || step < 0 || step >= len(t.Steps) {
		return false
	}
	t.Steps[step] = (t.Steps[step] + 1) % STEP_STATES
	return true
}

// HandlePadPress plays a pad live and, while recording and playing, cycles
// the pad's step at the current position.
func (s *Sequencer) HandlePadPress(pad int, velocity float32) {
	s.player.Play(pad, velocity, 0)

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.recording && s.playing {
		s.cycleStep(pad, s.currentStep)
	}
}

// StepDuration is the time between the step before index step and step itself.
func (s *Sequencer) StepDuration(step int) time.Duration {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.stepDuration(step)
}

func (s *Sequencer) stepDuration(step int) time.Duration {
	base := 60.0 / s.pattern.BPM / float64(s.pattern.BeatsPerBar) * 4
	if s.swing != 0 {
		if step%2 == 0 {
			base *= 1 - s.swing
		} else {
			base *= 1 + s.swing
		}
	}
	// Tick only terminates if every step moves the clock forward.
	return max(MIN_STEP_DURATION, time.Duration(base*float64(time.Second)))
}

// Tick dispatches every step due before now plus the lookahead window.
func (s *Sequencer) Tick(now time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if !s.playing || s.pattern.BeatsPerBar <= 0 {
		return
	}

	// After a stall, resync instead of firing a burst of stale steps.
	if now.Sub(s.nextStepAt) > 2*s.stepDuration(s.currentStep) {
		s.nextStepAt = now
	}

	horizon := now.Add(s.lookahead)
	for !s.nextStepAt.After(horizon) {
		offset := max(0, s.nextStepAt.Sub(now)).Seconds()
		for _, t := range s.pattern.Tracks {
			if s.currentStep < len(t.Steps) && t.Steps[s.currentStep] != STEP_OFF {
				s.player.Play(t.Pad, t.Steps[s.currentStep].Velocity(), offset)
			}
		}
		s.currentStep = (s.currentStep + 1) % s.pattern.BeatsPerBar
		s.nextStepAt = s.nextStepAt.Add(s.stepDuration(s.currentStep))
	}
}

// Run ticks the sequencer from the wall clock until ctx is done.
func (s *Sequencer) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			s.Tick(now)
		}
	}
}
