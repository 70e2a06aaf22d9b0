package main

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/intuitionamiga/IntuitionGroove/mixer"
)

func constFrames(frames int, v float32) []float32 {
	out := make([]float32, frames*2)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestWAVRendererRoundTrip(t *testing.T) {
	engine := mixer.New(44100)
	engine.LoadSample(1, constFrames(300, 0.5))
	engine.Trigger(1, 1, 0, 0, 0)

	path := filepath.Join(t.TempDir(), "out.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	wr := &WAVRenderer{SampleRate: 44100, BlockFrames: 256}
	if err := wr.Render(context.Background(), engine, f, 1000); err != nil {
		t.Fatalf("Render: %v", err)
	}
	f.Close()

	got, err := LoadSampleFile(path)
	if err != nil {
		t.Fatalf("decode render: %v", err)
	}
	if got.SampleRate != 44100 || got.FrameCount() != 1000 {
		t.Fatalf("rendered %d frames at %d Hz, want 1000 at 44100", got.FrameCount(), got.SampleRate)
	}

	want := math.Tanh(0.5)
	for i := 0; i < 300; i++ {
		if math.Abs(float64(got.Frames[i*2])-want) > 1e-3 {
			t.Fatalf("frame %d = %v, want tanh(0.5)", i, got.Frames[i*2])
		}
	}
	for i := 300; i < 1000; i++ {
		if got.Frames[i*2] != 0 || got.Frames[i*2+1] != 0 {
			t.Fatalf("frame %d not silent after the sample ended", i)
		}
	}
}

func TestWAVRendererHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	wr := &WAVRenderer{SampleRate: 44100}
	err := wr.RenderFile(ctx, mixer.New(44100), filepath.Join(t.TempDir(), "x.wav"), 1)
	if err == nil {
		t.Error("cancelled render returned no error")
	}
}

func TestOfflineRenderPlacesStepsSampleAccurately(t *testing.T) {
	cfg := testConfig()
	engine := mixer.New(44100)
	bank := NewPadBank(engine, 44100)
	bank.LoadPadFrames(1, "", constFrames(100, 0.5))
	seq := NewSequencer(NewEmptyPattern(cfg), bank)
	seq.SetStep(1, 0, STEP_NORMAL)
	seq.SetStep(1, 2, STEP_NORMAL) // due at 250ms

	g := &groovebox{cfg: cfg, engine: engine, bank: bank, seq: seq, block: 256}
	path := filepath.Join(t.TempDir(), "pattern.wav")
	if err := g.render(path, 0.3); err != nil {
		t.Fatalf("render: %v", err)
	}

	got, err := LoadSampleFile(path)
	if err != nil {
		t.Fatalf("decode render: %v", err)
	}
	if got.Frames[0] == 0 {
		t.Error("step 0 did not start on frame 0")
	}

	onset := -1
	for i := 100; i < got.FrameCount(); i++ {
		if got.Frames[i*2] != 0 {
			onset = i
			break
		}
	}
	t.Logf("second hit onset at frame %d", onset)
	if onset < 11024 || onset > 11026 {
		t.Errorf("step 2 onset = frame %d, want 11025", onset)
	}
}
