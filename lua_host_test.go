package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type fixedVoices int

func (f fixedVoices) ActiveVoices() int { return int(f) }

func newTestScriptHost() (*ScriptHost, *recordingEngine, *PadBank, *Sequencer) {
	eng := newRecordingEngine()
	bank := NewPadBank(eng, 44100)
	seq := NewSequencer(NewEmptyPattern(testConfig()), bank)
	h := NewScriptHost(bank, seq, eng, fixedVoices(3))
	h.now = func() time.Time { return time.Unix(0, 0) }
	return h, eng, bank, seq
}

func TestScriptDrivesPadsAndSequencer(t *testing.T) {
	h, eng, bank, seq := newTestScriptHost()
	var slept []time.Duration
	h.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	dir := t.TempDir()
	kick := filepath.Join(dir, "kick.wav")
	writeTestWAV(t, kick, 44100, 16, 1, []int{100, 200, 300, 400})

	script := fmt.Sprintf(`
		groove.load(1, %q)
		groove.trim(1, 0.5, 1)
		groove.reverse(1)
		groove.trigger(1, 0.8, 0.1, 0.2, 0.005)
		assert(groove.bpm(100) == 100)
		groove.swing(0.25)
		groove.step(2, 4, 2)
		groove.play()
		groove.sleep(0.5)
		assert(groove.voices() == 3)
	`, kick)
	if err := h.RunString(context.Background(), script); err != nil {
		t.Fatalf("script: %v", err)
	}

	st, ok := bank.State(1)
	if !ok || !st.Reverse || st.TrimStart != 0.5 {
		t.Errorf("pad state = %+v, %v", st, ok)
	}
	if len(eng.loaded[1]) != 4 {
		t.Errorf("published %d samples, want 4 after trim", len(eng.loaded[1]))
	}
	calls := eng.calls()
	want := triggerCall{1, 0.8, 0.1, 0.2, 0.005}
	if len(calls) == 0 || calls[0] != want {
		t.Errorf("trigger = %+v, want %+v", calls, want)
	}
	if seq.BPM() != 100 || seq.Swing() != 0.25 || !seq.IsPlaying() {
		t.Errorf("sequencer bpm %v swing %v playing %v", seq.BPM(), seq.Swing(), seq.IsPlaying())
	}
	if seq.Pattern().track(2).Steps[3] != STEP_ACCENT {
		t.Error("groove.step did not set the 1-based step")
	}
	if len(slept) != 1 || slept[0] != 500*time.Millisecond {
		t.Errorf("slept %v", slept)
	}
}

func TestScriptPatternText(t *testing.T) {
	h, _, _, seq := newTestScriptHost()
	err := h.RunString(context.Background(), `
		local text = groove.pattern("1: x.x.")
		assert(string.find(text, "1: x.x. ....", 1, true))
	`)
	if err != nil {
		t.Fatalf("script: %v", err)
	}
	if seq.Pattern().track(1).Steps[2] != STEP_NORMAL {
		t.Error("pattern text not merged")
	}
}

func TestScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{"missing sample", `groove.load(1, "/nowhere/x.wav")`, "pad 1"},
		{"edit empty pad", `groove.reverse(5)`, "no sample"},
		{"bad step state", `groove.step(1, 1, 7)`, "state must be"},
		{"step out of range", `groove.step(1, 17, 1)`, "no step 17"},
		{"syntax", `groove.play(`, "script"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, _, _, _ := newTestScriptHost()
			err := h.RunString(context.Background(), tc.script)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error = %v, want it to mention %q", err, tc.want)
			}
		})
	}
}

func TestScriptSleepHonoursCancel(t *testing.T) {
	h, _, _, _ := newTestScriptHost()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := h.RunString(ctx, `groove.sleep(10)`); err == nil {
		t.Error("cancelled script finished without error")
	}
}
