// input_events.go - Pad and transport events shared by all inputs

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
	"fmt"
	"time"
)

const (
	BPM_STEP   = 5.0
	SWING_STEP = 0.05
)

// PadEvent is a pad hit or release from any input device.
type PadEvent struct {
	Pad      int
	Pressed  bool
	Velocity float32
}

type Control int

const (
	CONTROL_NONE Control = iota
	CONTROL_PLAY
	CONTROL_RECORD
	CONTROL_BPM_UP
	CONTROL_BPM_DOWN
	CONTROL_SWING_UP
	CONTROL_SWING_DOWN
	CONTROL_QUIT
)

// InputEvent carries either a pad event or a transport control.
type InputEvent struct {
	Control Control
	Pad     PadEvent
}

func padDown(pad int, velocity float32) InputEvent {
	return InputEvent{Pad: PadEvent{Pad: pad, Pressed: true, Velocity: velocity}}
}

func control(c Control) InputEvent {
	return InputEvent{Control: c}
}

// Controller applies input events to the sequencer.
type Controller struct {
	seq  *Sequencer
	quit func()
	now  func() time.Time
}

func NewController(seq *Sequencer, quit func()) *Controller {
	return &Controller{seq: seq, quit: quit, now: time.Now}
}

func (c *Controller) Handle(ev InputEvent) {
	switch ev.Control {
	case CONTROL_NONE:
		if ev.Pad.Pressed {
			c.seq.HandlePadPress(ev.Pad.Pad, ev.Pad.Velocity)
		}
	case CONTROL_PLAY:
		playing := c.seq.TogglePlay(c.now())
		fmt.Printf("Playing: %v\n", playing)
	case CONTROL_RECORD:
		recording := c.seq.ToggleRecord()
		fmt.Printf("Recording: %v\n", recording)
	case CONTROL_BPM_UP:
		c.seq.SetBPM(c.seq.BPM() + BPM_STEP)
	case CONTROL_BPM_DOWN:
		c.seq.SetBPM(c.seq.BPM() - BPM_STEP)
	case CONTROL_SWING_UP:
		c.seq.SetSwing(c.seq.Swing() + SWING_STEP)
	case CONTROL_SWING_DOWN:
		c.seq.SetSwing(c.seq.Swing() - SWING_STEP)
	case CONTROL_QUIT:
		if c.quit != nil {
			c.quit()
		}
	}
}

// Run applies events until ctx is done or events is closed.
func (c *Controller) Run(ctx context.Context, events <-chan InputEvent) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			c.Handle(ev)
		}
	}
}

// sendEvent delivers ev unless ctx ends first.
func sendEvent(ctx context.Context, events chan<- InputEvent, ev InputEvent) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// noteEvent maps a MIDI note-on to a pad hit scaled by note velocity.
func noteEvent(cfg *GrooveboxConfig, note, velocity uint8) (InputEvent, bool) {
	pad, ok := cfg.PadByNote(int(note))
	if !ok || velocity == 0 {
		return InputEvent{}, false
	}
	return padDown(pad.ID, float32(velocity)/127), true
}
