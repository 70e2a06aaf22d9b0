// session.go - Save and restore pads, pattern and tempo

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
	"encoding/json"
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
)

// Session is the on-disk groovebox state. Map keys are pad ids.
type Session struct {
	Paths   map[int]string   `json:"paths"`
	States  map[int]PadState `json:"states"`
	BPM     float64          `json:"bpm"`
	Swing   float64          `json:"swing"`
	Pattern string           `json:"pattern,omitempty"`
}

// CaptureSession snapshots the bank and sequencer.
func CaptureSession(bank *PadBank, seq *Sequencer) (*Session, error) {
	text, err := seq.Pattern().MarshalText()
	if err != nil {
		return nil, err
	}
	return &Session{
		Paths:   bank.Paths(),
		States:  bank.States(),
		BPM:     seq.BPM(),
		Swing:   seq.Swing(),
		Pattern: string(text),
	}, nil
}

// Apply loads the session's samples, edit states and pattern. A sample that
// fails to load is reported and skipped.
func (s *Session) Apply(bank *PadBank, seq *Sequencer) error {
	for pad, path := range s.Paths {
		if err := bank.LoadPad(pad, path); err != nil {
			fmt.Fprintf(os.Stderr, "session: %v\n", err)
			continue
		}
		if st, ok := s.States[pad]; ok {
			if err := bank.SetState(pad, st); err != nil {
				return err
			}
		}
	}

	if s.Pattern != "" {
		p, err := ParsePatternText([]byte(s.Pattern))
		if err != nil {
			return errors.Wrap(err, "session pattern")
		}
		seq.SetPattern(MergePattern(seq.Pattern(), p))
	}
	if s.BPM > 0 {
		seq.SetBPM(s.BPM)
	}
	seq.SetSwing(s.Swing)
	return nil
}

func SaveSession(path string, bank *PadBank, seq *Sequencer) error {
	s, err := CaptureSession(bank, seq)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode session")
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return errors.Wrapf(err, "expand session path %q", path)
	}
	return errors.Wrap(os.WriteFile(expanded, data, 0o644), "write session")
}

// LoadSession restores a saved session. A missing file is not an error.
func LoadSession(path string, bank *PadBank, seq *Sequencer) (bool, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return false, errors.Wrapf(err, "expand session path %q", path)
	}
	data, err := os.ReadFile(expanded)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "read session")
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return false, errors.Wrap(err, "parse session")
	}
	return true, s.Apply(bank, seq)
}
