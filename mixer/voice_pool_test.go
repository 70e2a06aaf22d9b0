package mixer

import "testing"

func TestVoicePool_DrainKeepsInsertionOrder(t *testing.T) {
	store := NewSampleStore()
	for pad := 1; pad <= 3; pad++ {
		store.Set(pad, NewSample(constSample(4, 0.5)))
	}

	vp := NewVoicePool()
	for _, pad := range []int{3, 1, 2} {
		vp.enqueue(Voice{pad: pad, active: true})
	}
	vp.drainPendingIntoActive(store)

	if vp.PendingLen() != 0 {
		t.Fatalf("pending not cleared: %d left", vp.PendingLen())
	}
	want := []int{3, 1, 2}
	for i, v := range vp.active {
		if v.Pad() != want[i] {
			t.Errorf("active[%d] pad %d, want %d", i, v.Pad(), want[i])
		}
		if v.sample == nil {
			t.Errorf("active[%d] has no sample snapshot", i)
		}
	}
}

func TestVoicePool_DrainDropsMissingAndEmptyPads(t *testing.T) {
	store := NewSampleStore()
	store.Set(1, NewSample(constSample(4, 0.5)))
	store.Set(2, NewSample(nil))

	vp := NewVoicePool()
	vp.enqueue(Voice{pad: 1, active: true})
	vp.enqueue(Voice{pad: 2, active: true})
	vp.enqueue(Voice{pad: 9, active: true})
	vp.drainPendingIntoActive(store)

	if vp.ActiveLen() != 1 || vp.active[0].Pad() != 1 {
		t.Fatalf("expected only pad 1 admitted, got %d voices", vp.ActiveLen())
	}
}

func TestVoicePool_RetireFinished(t *testing.T) {
	s := NewSample(constSample(4, 0.5))
	vp := NewVoicePool()
	vp.active = append(vp.active,
		Voice{pad: 0, sample: s, active: false},
		Voice{pad: 1, sample: s, active: true},
		Voice{pad: 2, sample: s, active: false},
		Voice{pad: 3, sample: s, active: true},
		Voice{pad: 4, sample: s, active: false},
	)

	vp.retireFinished()

	if vp.ActiveLen() != 2 {
		t.Fatalf("%d voices remain, want 2", vp.ActiveLen())
	}
	seen := map[int]bool{}
	for _, v := range vp.active {
		seen[v.Pad()] = true
	}
	if !seen[1] || !seen[3] {
		t.Errorf("survivors %v, want pads 1 and 3", seen)
	}

	tail := vp.active[len(vp.active):5]
	for i, v := range tail {
		if v.sample != nil {
			t.Errorf("retired slot %d still holds its sample", i)
		}
	}
}

func TestVoicePool_RetireAllAndNone(t *testing.T) {
	vp := NewVoicePool()
	vp.retireFinished()

	vp.active = append(vp.active, Voice{active: true}, Voice{active: true})
	vp.retireFinished()
	if vp.ActiveLen() != 2 {
		t.Fatalf("active voices retired: %d left", vp.ActiveLen())
	}

	vp.active[0].active = false
	vp.active[1].active = false
	vp.retireFinished()
	if vp.ActiveLen() != 0 {
		t.Fatalf("finished voices kept: %d left", vp.ActiveLen())
	}
}

func TestSampleStore_ReplaceAndRemove(t *testing.T) {
	store := NewSampleStore()
	first := NewSample([]float32{1, 1})
	store.Set(5, first)

	second := NewSample([]float32{2, 2, 3, 3})
	store.Set(5, second)
	got, ok := store.Get(5)
	if !ok || got != second || got.Frames() != 2 {
		t.Fatalf("replacement not published")
	}
	if l, _ := first.Frame(0); l != 1 {
		t.Fatalf("old snapshot mutated: %f", l)
	}

	store.Remove(5)
	if _, ok := store.Get(5); ok || store.Len() != 0 {
		t.Fatal("pad 5 still present after Remove")
	}
}

func TestNewSample_Copies(t *testing.T) {
	src := []float32{0.1, 0.2, 0.3, 0.4}
	s := NewSample(src)
	src[0] = 9

	if l, r := s.Frame(0); l != 0.1 || r != 0.2 {
		t.Fatalf("sample aliases caller buffer: (%f, %f)", l, r)
	}
	var nilSample *Sample
	if nilSample.Frames() != 0 {
		t.Fatal("nil sample should report zero frames")
	}
}
