package mixer

import (
	"math"
	"testing"
)

func TestFeedbackDelayLine_ImpulseEchoes(t *testing.T) {
	tests := []struct {
		length   int
		tap      int
		feedback float32
	}{
		{100, 10, 0.5},
		{8, 3, 0.5},     // wraps many times
		{64, 63, 0.8},   // tap at the far end
		{1000, 1, 0.25}, // adjacent echoes
	}

	for _, tc := range tests {
		d := NewFeedbackDelayLine(tc.length, tc.tap, tc.feedback)
		frames := tc.tap*6 + 1

		amplitude := 1.0
		for i := 0; i < frames; i++ {
			in := float32(0)
			if i == 0 {
				in = 1
			}
			wetL, wetR := d.ProcessFrame(in, 0)
			if wetR != 0 {
				t.Fatalf("len=%d tap=%d: right channel leaked %f at frame %d", tc.length, tc.tap, wetR, i)
			}

			if i > 0 && i%tc.tap == 0 {
				if math.Abs(float64(wetL)-amplitude) > 1e-6 {
					t.Errorf("len=%d tap=%d: echo at frame %d = %f, want %f", tc.length, tc.tap, i, wetL, amplitude)
				}
				amplitude *= float64(tc.feedback)
				continue
			}
			if wetL != 0 {
				t.Errorf("len=%d tap=%d: frame %d = %f between echoes", tc.length, tc.tap, i, wetL)
			}
		}
	}
}

func TestFeedbackDelayLine_ProcessAddsScaledWet(t *testing.T) {
	d := NewFeedbackDelayLine(16, 4, 0.5)

	in := make([]float32, 12)
	in[0] = 1
	zero := make([]float32, 12)
	outL := make([]float32, 12)
	outR := make([]float32, 12)
	for i := range outL {
		outL[i] = 0.1
	}

	d.Process(in, zero, outL, outR, 0.5)

	want := map[int]float32{4: 0.1 + 0.5, 8: 0.1 + 0.25}
	for i, v := range outL {
		w, ok := want[i]
		if !ok {
			w = 0.1
		}
		if math.Abs(float64(v-w)) > 1e-6 {
			t.Errorf("outL[%d] = %f, want %f", i, v, w)
		}
	}

	d.Process(nil, nil, nil, nil, 1)
}

func TestFeedbackDelayLine_Clamping(t *testing.T) {
	d := NewFeedbackDelayLine(0, 0, 2)
	if d.Length() != 2 || d.Tap() != 1 || d.Feedback() != MAX_FEEDBACK {
		t.Errorf("degenerate line: len=%d tap=%d fb=%f", d.Length(), d.Tap(), d.Feedback())
	}

	d = NewFeedbackDelayLine(10, 50, -1)
	if d.Tap() != 9 || d.Feedback() != 0 {
		t.Errorf("oversized tap: tap=%d fb=%f", d.Tap(), d.Feedback())
	}
}

func TestFeedbackDelayLine_TimedSizing(t *testing.T) {
	d := newTimedDelayLine(44100, DELAY_BUFFER_SECONDS, DELAY_TAP_SECONDS, DELAY_FEEDBACK)
	if d.Length() != 88200 || d.Tap() != 16537 {
		t.Errorf("delay line: len=%d tap=%d", d.Length(), d.Tap())
	}

	r := newTimedDelayLine(48000, REVERB_BUFFER_SECONDS, REVERB_TAP_SECONDS, REVERB_FEEDBACK)
	if r.Length() != 144000 || r.Tap() != 4800 {
		t.Errorf("reverb line: len=%d tap=%d", r.Length(), r.Tap())
	}
}

func TestFeedbackDelayLine_Reset(t *testing.T) {
	d := NewFeedbackDelayLine(8, 2, 0.5)
	d.ProcessFrame(1, 1)
	d.ProcessFrame(0, 0)
	d.Reset()

	for i := 0; i < 16; i++ {
		if l, r := d.ProcessFrame(0, 0); l != 0 || r != 0 {
			t.Fatalf("frame %d after Reset = (%f, %f)", i, l, r)
		}
	}
}
