// engine_test.go - Mixing engine block behaviour tests

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
	"math"
	"testing"
)

const testRate = 44100

// constSample returns frames stereo pairs all set to value.
func constSample(frames int, value float32) []float32 {
	data := make([]float32, frames*STEREO)
	for i := range data {
		data[i] = value
	}
	return data
}

// renderFrames runs blocks of blockFrames until total frames have been
// produced and returns the concatenated interleaved output.
func renderFrames(e *Engine, total, blockFrames int) []float32 {
	out := make([]float32, 0, total*STEREO)
	block := make([]float32, blockFrames*STEREO)
	for done := 0; done < total; done += blockFrames {
		e.Process(block, blockFrames)
		out = append(out, block...)
	}
	return out[:total*STEREO]
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestEngine_EndToEndScenario(t *testing.T) {
	e := New(testRate)
	e.LoadSample(0, []float32{1, 1, 0.5, 0.5, 0, 0, -0.5, -0.5})
	e.Trigger(0, 1.0, 0, 0, 0)

	out := make([]float32, 8)
	if status := e.Process(out, 4); status != StatusContinue {
		t.Fatalf("Process returned %v, want StatusContinue", status)
	}

	want := []float64{1, 0.5, 0, -0.5}
	for i, w := range want {
		expected := math.Tanh(w)
		if !approxEqual(float64(out[i*2]), expected, 1e-5) || !approxEqual(float64(out[i*2+1]), expected, 1e-5) {
			t.Errorf("frame %d: got (%f, %f), want %f", i, out[i*2], out[i*2+1], expected)
		}
	}
	if n := e.ActiveVoices(); n != 0 {
		t.Errorf("voice should finish with its last frame, %d still active", n)
	}
}

func TestEngine_VoiceCompletion(t *testing.T) {
	tests := []struct {
		sampleFrames int
		blockFrames  int
	}{
		{4, 4},
		{10, 4},
		{1, 64},
		{256, 256},
		{1000, 256},
		{2049, 1024},
	}

	for _, tc := range tests {
		e := New(testRate)
		e.LoadSample(3, constSample(tc.sampleFrames, 0.5))
		e.Trigger(3, 0.8, 0, 0, 0)

		blocks := (tc.sampleFrames + tc.blockFrames - 1) / tc.blockFrames
		out := renderFrames(e, blocks*tc.blockFrames, tc.blockFrames)

		audible := 0
		for i := 0; i < len(out); i += 2 {
			if out[i] != 0 {
				audible++
			}
		}
		if audible != tc.sampleFrames {
			t.Errorf("M=%d N=%d: %d audible frames, want %d", tc.sampleFrames, tc.blockFrames, audible, tc.sampleFrames)
		}
		stats := e.Stats()
		if stats.ActiveVoices != 0 || stats.Retired != 1 {
			t.Errorf("M=%d N=%d: stats %+v, want voice retired after %d blocks", tc.sampleFrames, tc.blockFrames, stats, blocks)
		}
	}
}

func TestEngine_StartOffsetAccuracy(t *testing.T) {
	const blockFrames = 256
	const sampleFrames = 8

	for _, k := range []int{0, 1, 100, 255, 256, 257, 600, 1024, 5000} {
		e := New(testRate)
		e.LoadSample(0, constSample(sampleFrames, 0.25))
		e.Trigger(0, 1, 0, 0, float64(k)/testRate)

		total := ((k+sampleFrames)/blockFrames + 2) * blockFrames
		out := renderFrames(e, total, blockFrames)

		first, audible := -1, 0
		for i := 0; i < total; i++ {
			if out[i*2] != 0 {
				if first < 0 {
					first = i
				}
				audible++
			}
		}
		if first != k {
			t.Errorf("offset %d frames: first audible frame %d", k, first)
		}
		if audible != sampleFrames {
			t.Errorf("offset %d frames: %d audible frames, want %d", k, audible, sampleFrames)
		}
	}
}

func TestEngine_NegativeOffsetStartsImmediately(t *testing.T) {
	e := New(testRate)
	e.LoadSample(0, constSample(2, 0.5))
	e.Trigger(0, 1, 0, 0, -0.5)

	out := make([]float32, 8)
	e.Process(out, 4)
	if out[0] == 0 {
		t.Fatalf("negative offset should clamp to zero, got silent first frame")
	}
}

func TestEngine_HugeOffsetSaturates(t *testing.T) {
	for _, offset := range []float64{math.Inf(1), 1e300, float64(math.MaxInt64)} {
		e := New(testRate)
		e.LoadSample(0, constSample(2, 0.5))
		e.Trigger(0, 1, 0, 0, offset)

		out := renderFrames(e, 64, 16)
		for i, v := range out {
			if v != 0 {
				t.Fatalf("offset %v: sample %d = %v, want silence while the voice waits", offset, i, v)
			}
		}
		if e.ActiveVoices() != 1 {
			t.Errorf("offset %v: active voices = %d, want the waiting voice", offset, e.ActiveVoices())
		}
	}
}

func TestEngine_NaNOffsetStartsImmediately(t *testing.T) {
	e := New(testRate)
	e.LoadSample(0, constSample(2, 0.5))
	e.Trigger(0, 1, 0, 0, math.NaN())

	out := make([]float32, 8)
	e.Process(out, 4)
	if out[0] == 0 {
		t.Fatalf("NaN offset should start at once, got silent first frame")
	}
}

func TestEngine_MixLinearity(t *testing.T) {
	sample := []float32{0.1, -0.1, -0.2, 0.2, 0.3, -0.3, 0.05, 0.4}
	const v1, v2 = float32(0.25), float32(0.5)

	e := New(testRate)
	e.LoadSample(7, sample)
	e.Trigger(7, v1, 0, 0, 0)
	e.Trigger(7, v2, 0, 0, 0)

	out := make([]float32, len(sample))
	e.Process(out, len(sample)/2)

	for i := 0; i < len(sample)/2; i++ {
		wantL := v1*sample[i*2] + v2*sample[i*2]
		wantR := v1*sample[i*2+1] + v2*sample[i*2+1]
		if !approxEqual(float64(e.bus.dryL[i]), float64(wantL), 1e-6) {
			t.Errorf("frame %d left: dry %f, want %f", i, e.bus.dryL[i], wantL)
		}
		if !approxEqual(float64(e.bus.dryR[i]), float64(wantR), 1e-6) {
			t.Errorf("frame %d right: dry %f, want %f", i, e.bus.dryR[i], wantR)
		}
	}
}

func TestEngine_DelaySendEchoes(t *testing.T) {
	e := New(testRate)
	e.LoadSample(1, []float32{0.5, 0.5})
	e.Trigger(1, 1, 0, 1, 0)

	tap := e.delay.Tap()
	total := 2*tap + 1
	out := renderFrames(e, total+256, 256)

	expect := map[int]float64{
		0:       0.5,
		tap:     0.5,
		2 * tap: 0.25,
	}
	for i := 0; i < total; i++ {
		want, echo := expect[i]
		got := float64(out[i*2])
		switch {
		case echo && !approxEqual(got, math.Tanh(want), 1e-5):
			t.Errorf("frame %d: got %f, want tanh(%f)", i, got, want)
		case !echo && got != 0:
			t.Fatalf("frame %d: unexpected output %f between echoes", i, got)
		}
	}
}

func TestEngine_ReverbSendIsAttenuated(t *testing.T) {
	e := New(testRate)
	e.LoadSample(1, []float32{0.5, 0.5})
	e.Trigger(1, 1, 1, 0, 0)

	tap := e.reverb.Tap()
	out := renderFrames(e, 2*tap+1, 441)

	first := float64(out[tap*2])
	second := float64(out[2*tap*2])
	if !approxEqual(first, math.Tanh(0.5*REVERB_MIX_LEVEL), 1e-5) {
		t.Errorf("first reflection %f, want tanh(%f)", first, 0.5*REVERB_MIX_LEVEL)
	}
	if !approxEqual(second, math.Tanh(0.5*REVERB_FEEDBACK*REVERB_MIX_LEVEL), 1e-5) {
		t.Errorf("second reflection %f, want tanh(%f)", second, 0.5*REVERB_FEEDBACK*REVERB_MIX_LEVEL)
	}
}

func TestEngine_OutputBound(t *testing.T) {
	e := New(testRate)
	e.LoadSample(0, constSample(4096, 1))
	e.LoadSample(1, constSample(4096, -1))
	for i := 0; i < 32; i++ {
		e.Trigger(i%2, 1e6, 1, 1, float64(i)/1000)
	}

	out := renderFrames(e, 8192, 512)
	for i, v := range out {
		if !(v > -1 && v < 1) {
			t.Fatalf("sample %d = %v escapes (-1, 1)", i, v)
		}
	}
}

func TestEngine_BlockCeilingLeavesSilence(t *testing.T) {
	e, err := NewWithConfig(Config{SampleRate: testRate, MaxBlockFrames: 16})
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}
	e.LoadSample(0, constSample(64, 0.5))
	e.Trigger(0, 1, 0, 0, 0)

	out := make([]float32, 40*2)
	for i := range out {
		out[i] = 7
	}
	e.Process(out, 40)

	for i := 0; i < 40; i++ {
		got := out[i*2]
		if i < 16 && got == 0 {
			t.Errorf("frame %d under the ceiling is silent", i)
		}
		if i >= 16 && got != 0 {
			t.Errorf("frame %d past the ceiling = %f, want silence", i, got)
		}
	}

	// The voice advanced only by the rendered frames
	if c := e.voices.active[0].Cursor(); c != 16 {
		t.Errorf("cursor %d after clipped block, want 16", c)
	}
}

func TestEngine_ShortOutputBuffer(t *testing.T) {
	e := New(testRate)
	e.LoadSample(0, constSample(8, 0.5))
	e.Trigger(0, 1, 0, 0, 0)

	out := make([]float32, 6)
	e.Process(out, 100)
	for i, v := range out {
		if v == 0 {
			t.Errorf("sample %d silent, want 3 rendered frames", i)
		}
	}
	e.Process(nil, 16)
	e.Process(out, -3)
}

func TestEngine_UnknownPadIgnored(t *testing.T) {
	e := New(testRate)
	e.Trigger(42, 1, 0, 0, 0)

	out := make([]float32, 64)
	e.Process(out, 32)
	if stats := e.Stats(); stats.Admitted != 0 {
		t.Fatalf("trigger on unknown pad admitted %d voices", stats.Admitted)
	}
	for i, v := range out {
		if v != 0 {
			t.Fatalf("sample %d = %f, want silence", i, v)
		}
	}
}

func TestEngine_UnloadBeforeAdmissionDropsVoice(t *testing.T) {
	e := New(testRate)
	e.LoadSample(2, constSample(8, 0.5))
	e.Trigger(2, 1, 0, 0, 0)
	e.UnloadSample(2)

	out := make([]float32, 16)
	e.Process(out, 8)
	if e.HasSample(2) {
		t.Fatal("pad 2 still loaded after UnloadSample")
	}
	if stats := e.Stats(); stats.Admitted != 0 {
		t.Fatalf("stale voice admitted: %+v", stats)
	}
}

func TestEngine_ReplacedSampleKeepsSnapshot(t *testing.T) {
	e := New(testRate)
	e.LoadSample(0, constSample(8, 0.5))
	e.Trigger(0, 1, 0, 0, 0)

	out := make([]float32, 8)
	e.Process(out, 4)

	e.LoadSample(0, constSample(8, -0.5))
	e.Process(out, 4)
	for i := 0; i < 4; i++ {
		if out[i*2] <= 0 {
			t.Fatalf("frame %d = %f: in-flight voice switched buffers", i, out[i*2])
		}
	}

	e.Trigger(0, 1, 0, 0, 0)
	e.Process(out, 4)
	if out[0] >= 0 {
		t.Fatalf("new voice should play the replacement, got %f", out[0])
	}
}

func TestEngine_UnloadDuringPlaybackFinishesSnapshot(t *testing.T) {
	e := New(testRate)
	e.LoadSample(0, constSample(8, 0.5))
	e.Trigger(0, 1, 0, 0, 0)

	out := make([]float32, 8)
	e.Process(out, 4)
	e.UnloadSample(0)
	e.Process(out, 4)

	if out[6] == 0 {
		t.Fatal("admitted voice stopped when its pad was unloaded")
	}
	if e.ActiveVoices() != 0 {
		t.Fatal("voice should have finished on its snapshot")
	}
}

func TestEngine_OddLengthSampleIgnoresTrailingValue(t *testing.T) {
	e := New(testRate)
	e.LoadSample(0, []float32{0.5, 0.5, 0.5, 0.5, 0.9})
	e.Trigger(0, 1, 0, 0, 0)

	out := make([]float32, 8)
	e.Process(out, 4)
	if out[4] != 0 || out[5] != 0 {
		t.Fatalf("frame 2 = (%f, %f): half pair was played", out[4], out[5])
	}
}

func TestNewWithConfig_Validation(t *testing.T) {
	if _, err := NewWithConfig(Config{SampleRate: 0}); !errors.Is(err, ErrInvalidSampleRate) {
		t.Errorf("zero sample rate: got %v", err)
	}
	if _, err := NewWithConfig(Config{SampleRate: testRate, MaxBlockFrames: -1}); !errors.Is(err, ErrInvalidBlockFrames) {
		t.Errorf("negative ceiling: got %v", err)
	}

	e := New(0)
	if e.SampleRate() != DEFAULT_RATE || e.MaxBlockFrames() != MAX_BLOCK_FRAMES {
		t.Errorf("New(0) = rate %d ceiling %d", e.SampleRate(), e.MaxBlockFrames())
	}
	if e.delay.Length() != 2*DEFAULT_RATE || e.reverb.Length() != 3*DEFAULT_RATE {
		t.Errorf("effect lines sized %d/%d frames", e.delay.Length(), e.reverb.Length())
	}
}

type fakeDriver struct {
	renderer BlockRenderer
	starts   int
	stops    int
	startErr error
}

func (d *fakeDriver) Start(r BlockRenderer) error {
	if d.startErr != nil {
		return d.startErr
	}
	d.renderer = r
	d.starts++
	return nil
}

func (d *fakeDriver) Stop() error {
	d.stops++
	d.renderer = nil
	return nil
}

func TestEngine_DriverLifecycle(t *testing.T) {
	e := New(testRate)

	if err := e.Start(nil); !errors.Is(err, ErrNoDriver) {
		t.Fatalf("Start(nil) = %v", err)
	}
	if err := e.Stop(); err != nil {
		t.Fatalf("Stop on idle engine = %v", err)
	}

	d := &fakeDriver{}
	if err := e.Start(d); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !e.IsStarted() || d.renderer == nil {
		t.Fatal("driver did not receive the engine")
	}
	if err := e.Start(d); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("second Start = %v", err)
	}

	out := make([]float32, 16)
	if d.renderer.Process(out, 8) != StatusContinue {
		t.Fatal("renderer did not continue")
	}

	if err := e.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if e.IsStarted() || d.stops != 1 {
		t.Fatalf("after Stop: started=%v stops=%d", e.IsStarted(), d.stops)
	}

	boom := errors.New("device busy")
	if err := e.Start(&fakeDriver{startErr: boom}); !errors.Is(err, boom) {
		t.Fatalf("failing driver: got %v", err)
	}
	if e.IsStarted() {
		t.Fatal("engine marked started after driver failure")
	}
}
