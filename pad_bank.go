// pad_bank.go - Per-pad sample editing and triggering

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
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

const (
	NORMALIZE_PEAK   = 0.95
	WAVEFORM_SCALE   = 32767
	DEFAULT_TRIM_IN  = 0.0
	DEFAULT_TRIM_OUT = 1.0
)

// SampleEngine is the part of the mixer a pad bank drives.
type SampleEngine interface {
	LoadSample(pad int, frames []float32)
	UnloadSample(pad int)
	Trigger(pad int, velocity, reverbSend, delaySend float32, startOffsetSeconds float64)
}

// PadState is the edit state applied to a pad's raw sample.
type PadState struct {
	TrimStart  float64 `json:"trim_start"`
	TrimEnd    float64 `json:"trim_end"`
	Reverse    bool    `json:"reverse"`
	Normalized bool    `json:"normalized"`
}

func defaultPadState() PadState {
	return PadState{TrimStart: DEFAULT_TRIM_IN, TrimEnd: DEFAULT_TRIM_OUT}
}

type padSlot struct {
	path      string
	raw       []float32
	processed []float32
	state     PadState
	reverb    float32
	delay     float32
}

// PadBank owns the raw and edited audio for each pad and publishes the edited
// buffer to the engine whenever it changes.
type PadBank struct {
	mutex      sync.Mutex
	engine     SampleEngine
	sampleRate int
	pads       map[int]*padSlot
}

func NewPadBank(engine SampleEngine, sampleRate int) *PadBank {
	return &PadBank{
		engine:     engine,
		sampleRate: sampleRate,
		pads:       make(map[int]*padSlot),
	}
}

// LoadConfig loads every configured pad. Pads whose sample fails to load are
// reported and left silent.
func (pb *PadBank) LoadConfig(cfg *GrooveboxConfig) {
	for _, pad := range cfg.Pads {
		pb.SetSends(pad.ID, pad.ReverbSend, pad.DelaySend)
		if pad.Sample == "" {
			continue
		}
		if err := pb.LoadPad(pad.ID, cfg.SamplePath(pad)); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Could not load sample for pad %d (%s): %v\n", pad.ID, pad.Name, err)
		}
	}
}

// LoadPad decodes a file onto a pad and resets its edit state.
func (pb *PadBank) LoadPad(pad int, path string) error {
	decoded, err := LoadSampleFile(path)
	if err != nil {
		return errors.Wrapf(err, "pad %d", pad)
	}
	warnRateMismatch(path, decoded.SampleRate, pb.sampleRate)
	pb.LoadPadFrames(pad, path, decoded.Frames)
	return nil
}

// LoadPadFrames installs already decoded stereo frames.
func (pb *PadBank) LoadPadFrames(pad int, path string, frames []float32) {
	pb.mutex.Lock()
	defer pb.mutex.Unlock()

	slot := pb.slot(pad)
	slot.path = path
	slot.raw = frames
	slot.state = defaultPadState()
	pb.render(pad, slot)
}

func (pb *PadBank) UnloadPad(pad int) {
	pb.mutex.Lock()
	defer pb.mutex.Unlock()

	if slot, ok := pb.pads[pad]; ok {
		slot.path = ""
		slot.raw = nil
		slot.processed = nil
	}
	pb.engine.UnloadSample(pad)
}

func (pb *PadBank) SetSends(pad int, reverb, delay float32) {
	pb.mutex.Lock()
	defer pb.mutex.Unlock()
	slot := pb.slot(pad)
	slot.reverb = reverb
	slot.delay = delay
}

// SetTrim keeps the [start, end) fraction of the raw sample. An empty or
// inverted range plays the whole sample.
func (pb *PadBank) SetTrim(pad int, start, end float64) error {
	return pb.edit(pad, func(st *PadState) {
		st.TrimStart = clamp01(start)
		st.TrimEnd = clamp01(end)
	})
}

func (pb *PadBank) ToggleReverse(pad int) error {
	return pb.edit(pad, func(st *PadState) { st.Reverse = !st.Reverse })
}

func (pb *PadBank) ToggleNormalize(pad int) error {
	return pb.edit(pad, func(st *PadState) { st.Normalized = !st.Normalized })
}

// SetState replaces a pad's edit state, as when restoring a session. Trim
// points are clamped to [0, 1].
func (pb *PadBank) SetState(pad int, state PadState) error {
	state.TrimStart = clamp01(state.TrimStart)
	state.TrimEnd = clamp01(state.TrimEnd)
	return pb.edit(pad, func(st *PadState) { *st = state })
}

func (pb *PadBank) State(pad int) (PadState, bool) {
	pb.mutex.Lock()
	defer pb.mutex.Unlock()
	slot, ok := pb.pads[pad]
	if !ok || slot.raw == nil {
		return PadState{}, false
	}
	return slot.state, true
}

func (pb *PadBank) Path(pad int) string {
	pb.mutex.Lock()
	defer pb.mutex.Unlock()
	if slot, ok := pb.pads[pad]; ok {
		return slot.path
	}
	return ""
}

// Processed returns a copy of the buffer currently published for pad.
func (pb *PadBank) Processed(pad int) []float32 {
	pb.mutex.Lock()
	defer pb.mutex.Unlock()
	if slot, ok := pb.pads[pad]; ok {
		return slices.Clone(slot.processed)
	}
	return nil
}

// Waveform returns the published buffer as interleaved int16, for display.
func (pb *PadBank) Waveform(pad int) []int16 {
	pb.mutex.Lock()
	defer pb.mutex.Unlock()
	slot, ok := pb.pads[pad]
	if !ok {
		return nil
	}
	out := make([]int16, len(slot.processed))
	for i, v := range slot.processed {
		out[i] = int16(max(-1, min(1, v)) * WAVEFORM_SCALE)
	}
	return out
}

// Play triggers a pad with its configured effect sends.
func (pb *PadBank) Play(pad int, velocity float32, offsetSeconds float64) {
	pb.mutex.Lock()
	var reverb, delay float32
	if slot, ok := pb.pads[pad]; ok {
		reverb, delay = slot.reverb, slot.delay
	}
	pb.mutex.Unlock()
	pb.engine.Trigger(pad, velocity, reverb, delay, offsetSeconds)
}

// CycleSample moves a pad to the next (dir > 0) or previous .wav file in the
// directory of its current sample.
func (pb *PadBank) CycleSample(pad int, dir int) (string, error) {
	current := pb.Path(pad)
	if current == "" {
		return "", errors.Errorf("pad %d has no sample to cycle from", pad)
	}
	entries, err := os.ReadDir(filepath.Dir(current))
	if err != nil {
		return "", errors.Wrap(err, "list sample directory")
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".wav") {
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return "", errors.Errorf("no .wav files next to %s", current)
	}
	slices.Sort(files)

	idx := slices.Index(files, filepath.Base(current))
	switch {
	case idx < 0:
		idx = 0
	case dir >= 0:
		idx = (idx + 1) % len(files)
	default:
		idx = (idx - 1 + len(files)) % len(files)
	}

	next := filepath.Join(filepath.Dir(current), files[idx])
	if err := pb.LoadPad(pad, next); err != nil {
		return "", err
	}
	return next, nil
}

// Paths returns the sample path of every loaded pad.
func (pb *PadBank) Paths() map[int]string {
	pb.mutex.Lock()
	defer pb.mutex.Unlock()
	out := make(map[int]string, len(pb.pads))
	for id, slot := range pb.pads {
		if slot.path != "" {
			out[id] = slot.path
		}
	}
	return out
}

// States returns the edit state of every loaded pad.
func (pb *PadBank) States() map[int]PadState {
	pb.mutex.Lock()
	defer pb.mutex.Unlock()
	out := make(map[int]PadState, len(pb.pads))
	for id, slot := range pb.pads {
		if slot.raw != nil {
			out[id] = slot.state
		}
	}
	return out
}

func (pb *PadBank) edit(pad int, fn func(*PadState)) error {
	pb.mutex.Lock()
	defer pb.mutex.Unlock()
	slot, ok := pb.pads[pad]
	if !ok || slot.raw == nil {
		return errors.Errorf("pad %d has no sample", pad)
	}
	fn(&slot.state)
	pb.render(pad, slot)
	return nil
}

func (pb *PadBank) slot(pad int) *padSlot {
	slot, ok := pb.pads[pad]
	if !ok {
		slot = &padSlot{state: defaultPadState()}
		pb.pads[pad] = slot
	}
	return slot
}

// render applies trim, then reverse, then normalize, and publishes the result.
func (pb *PadBank) render(pad int, slot *padSlot) {
	slot.processed = processPad(slot.raw, slot.state)
	pb.engine.LoadSample(pad, slot.processed)
}

func processPad(raw []float32, st PadState) []float32 {
	frames := len(raw) / 2
	start := int(float64(frames) * clamp01(st.TrimStart))
	end := int(float64(frames) * clamp01(st.TrimEnd))
	if start >= end {
		start, end = 0, frames
	}
	out := slices.Clone(raw[start*2 : end*2])

	if st.Reverse {
		for i, j := 0, len(out)/2-1; i < j; i, j = i+1, j-1 {
			out[i*2], out[j*2] = out[j*2], out[i*2]
			out[i*2+1], out[j*2+1] = out[j*2+1], out[i*2+1]
		}
	}

	if st.Normalized {
		var peak float32
		for _, v := range out {
			peak = max(peak, float32(math.Abs(float64(v))))
		}
		if peak > 0 {
			gain := NORMALIZE_PEAK / peak
			for i := range out {
				out[i] *= gain
			}
		}
	}
	return out
}

// clamp01 bounds v to [0, 1]; NaN becomes 0.
func clamp01(v float64) float64 {
	if !(v >= 0) {
		return 0
	}
	return min(1, v)
}
