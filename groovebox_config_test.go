package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseGrooveboxConfig(t *testing.T) {
	data := []byte(`{
		"bpm": 110,
		"pads": [
			{"id": 1, "key": "A", "name": "kick", "sample": "samples/kick.wav"},
			{"id": 2, "key": "s", "name": "snare", "sample": "/abs/snare.wav", "midi_note": 40},
			{"id": 3, "key": "d", "name": "hat", "sample": "hat.wav", "delay_send": 0.4}
		]
	}`)
	cfg, err := ParseGrooveboxConfig(data, "/kits/808")
	if err != nil {
		t.Fatalf("ParseGrooveboxConfig: %v", err)
	}

	if cfg.BeatsPerBar != DEFAULT_BEATS_PER_BAR {
		t.Errorf("BeatsPerBar = %d, want default %d", cfg.BeatsPerBar, DEFAULT_BEATS_PER_BAR)
	}
	if got := cfg.SamplePath(cfg.Pads[0]); got != filepath.Join("/kits/808", "samples/kick.wav") {
		t.Errorf("relative sample path = %s", got)
	}
	if got := cfg.SamplePath(cfg.Pads[1]); got != "/abs/snare.wav" {
		t.Errorf("absolute sample path = %s", got)
	}

	notes := []int{FIRST_MIDI_PAD_NOTE, 40, 41}
	for i, want := range notes {
		if cfg.Pads[i].MIDINote != want {
			t.Errorf("pad %d note = %d, want %d", cfg.Pads[i].ID, cfg.Pads[i].MIDINote, want)
		}
	}

	if pad, ok := cfg.PadByKey("a"); !ok || pad.ID != 1 {
		t.Errorf("PadByKey(a) = %+v, %v", pad, ok)
	}
	if pad, ok := cfg.PadByNote(41); !ok || pad.ID != 3 || pad.DelaySend != 0.4 {
		t.Errorf("PadByNote(41) = %+v, %v", pad, ok)
	}
	if _, ok := cfg.PadByID(9); ok {
		t.Error("PadByID found a pad that does not exist")
	}
}

func TestGrooveboxConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"zero bpm", `{"bpm": 0, "pads": []}`},
		{"negative beats", `{"bpm": 120, "beats_per_bar": -4, "pads": []}`},
		{"duplicate id", `{"bpm": 120, "pads": [{"id": 1}, {"id": 1}]}`},
		{"duplicate key", `{"bpm": 120, "pads": [{"id": 1, "key": "a"}, {"id": 2, "key": "A"}]}`},
		{"bad json", `{"bpm": `},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseGrooveboxConfig([]byte(tc.json), ""); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestLoadGrooveboxConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pad.json")
	os.WriteFile(path, []byte(`{"bpm": 90, "beats_per_bar": 8, "pads": [{"id": 1, "key": "a", "sample": "k.wav"}]}`), 0o644)

	cfg, err := LoadGrooveboxConfig(path)
	if err != nil {
		t.Fatalf("LoadGrooveboxConfig: %v", err)
	}
	if cfg.BeatsPerBar != 8 || cfg.SamplePath(cfg.Pads[0]) != filepath.Join(dir, "k.wav") {
		t.Errorf("loaded %+v", cfg)
	}

	if _, err := LoadGrooveboxConfig(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
