package main

import "testing"

func TestUILayoutHitTesting(t *testing.T) {
	l := uiLayout{pads: 10, steps: 16}

	for i := 0; i < l.pads; i++ {
		r := l.padRect(i)
		c := r.Min.Add(r.Size().Div(2))
		if got, ok := l.padAt(c.X, c.Y); !ok || got != i {
			t.Errorf("centre of pad %d hit %d, %v", i, got, ok)
		}
		if r.Max.X > UI_WIDTH {
			t.Errorf("pad %d overflows the window: %v", i, r)
		}
	}

	if l.gridTop() <= l.padRect(9).Max.Y {
		t.Errorf("grid top %d overlaps the pads", l.gridTop())
	}

	for _, tc := range []struct{ track, step int }{{0, 0}, {3, 7}, {9, 15}} {
		r := l.cellRect(tc.track, tc.step)
		track, step, ok := l.cellAt(r.Min.X+1, r.Min.Y+1)
		if !ok || track != tc.track || step != tc.step {
			t.Errorf("cell (%d,%d) hit (%d,%d), %v", tc.track, tc.step, track, step, ok)
		}
	}
	if _, _, ok := l.cellAt(UI_MARGIN, l.gridTop()+1); ok {
		t.Error("track label area hit a cell")
	}
	if _, _, ok := l.cellAt(UI_MARGIN+UI_LABEL_W+1, l.gridTop()+10*UI_ROW_H+1); ok {
		t.Error("area below the last track hit a cell")
	}
}

func TestWaveformPeaks(t *testing.T) {
	wave := []int16{100, -200, 50, 50, -32768, 0, 10, 10}
	got := waveformPeaks(wave, 2)
	if len(got) != 2 || got[0] != 200 || got[1] != 32767 {
		t.Errorf("peaks = %v, want [200 32767]", got)
	}
	if waveformPeaks(nil, 4) != nil {
		t.Error("empty waveform produced peaks")
	}
	if got := waveformPeaks(wave, 8); len(got) != 8 || got[0] != 200 {
		t.Errorf("more columns than frames = %v", got)
	}
}
