// groovebox_config.go - Pad configuration file

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
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
)

const (
	DEFAULT_CONFIG_PATH   = "config/pad.json"
	DEFAULT_BEATS_PER_BAR = 16
	FIRST_MIDI_PAD_NOTE   = 36 // GM kick; pads without a note count up from here
)

// PadConfig describes one pad slot.
type PadConfig struct {
	ID         int     `json:"id"`
	Key        string  `json:"key"`
	Name       string  `json:"name"`
	Sample     string  `json:"sample"`
	MIDINote   int     `json:"midi_note,omitempty"`
	ReverbSend float32 `json:"reverb_send,omitempty"`
	DelaySend  float32 `json:"delay_send,omitempty"`
}

// GrooveboxConfig is the pad layout and default tempo.
type GrooveboxConfig struct {
	BPM         float64     `json:"bpm"`
	BeatsPerBar int         `json:"beats_per_bar"`
	Pads        []PadConfig `json:"pads"`

	baseDir string // Directory relative sample paths resolve against
}

// LoadGrooveboxConfig reads and validates a pad configuration file. A leading
// ~ in path expands to the user's home directory.
func LoadGrooveboxConfig(path string) (*GrooveboxConfig, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.Wrapf(err, "expand config path %q", path)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	return ParseGrooveboxConfig(data, filepath.Dir(expanded))
}

// ParseGrooveboxConfig decodes a configuration; relative sample paths are
// resolved against baseDir.
func ParseGrooveboxConfig(data []byte, baseDir string) (*GrooveboxConfig, error) {
	var cfg GrooveboxConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	cfg.baseDir = baseDir
	if cfg.BeatsPerBar == 0 {
		cfg.BeatsPerBar = DEFAULT_BEATS_PER_BAR
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	nextNote := FIRST_MIDI_PAD_NOTE
	for i := range cfg.Pads {
		if cfg.Pads[i].MIDINote == 0 {
			cfg.Pads[i].MIDINote = nextNote
		}
		nextNote = cfg.Pads[i].MIDINote + 1
		cfg.Pads[i].Key = strings.ToLower(cfg.Pads[i].Key)
	}
	return &cfg, nil
}

func (c *GrooveboxConfig) Validate() error {
	if c.BPM <= 0 {
		return errors.Errorf("config: bpm must be positive, got %v", c.BPM)
	}
	if c.BeatsPerBar <= 0 {
		return errors.Errorf("config: beats_per_bar must be positive, got %d", c.BeatsPerBar)
	}

	ids := make(map[int]bool, len(c.Pads))
	keys := make(map[string]int, len(c.Pads))
	for _, pad := range c.Pads {
		if ids[pad.ID] {
			return errors.Errorf("config: duplicate pad id %d", pad.ID)
		}
		ids[pad.ID] = true

		key := strings.ToLower(pad.Key)
		if key == "" {
			continue
		}
		if other, ok := keys[key]; ok {
			return errors.Errorf("config: key %q bound to pads %d and %d", pad.Key, other, pad.ID)
		}
		keys[key] = pad.ID
	}
	return nil
}

// SamplePath resolves a pad's sample path.
func (c *GrooveboxConfig) SamplePath(pad PadConfig) string {
	p, err := homedir.Expand(pad.Sample)
	if err != nil {
		p = pad.Sample
	}
	if p == "" || filepath.IsAbs(p) || c.baseDir == "" {
		return p
	}
	return filepath.Join(c.baseDir, p)
}

func (c *GrooveboxConfig) PadByID(id int) (PadConfig, bool) {
	for _, pad := range c.Pads {
		if pad.ID == id {
			return pad, true
		}
	}
	return PadConfig{}, false
}

func (c *GrooveboxConfig) PadByKey(key string) (PadConfig, bool) {
	key = strings.ToLower(key)
	for _, pad := range c.Pads {
		if pad.Key != "" && pad.Key == key {
			return pad, true
		}
	}
	return PadConfig{}, false
}

func (c *GrooveboxConfig) PadByNote(note int) (PadConfig, bool) {
	for _, pad := range c.Pads {
		if pad.MIDINote == note {
			return pad, true
		}
	}
	return PadConfig{}, false
}
