package main

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/intuitionamiga/IntuitionGroove/mixer"
)

// countingRenderer fills each block with an increasing sample counter.
type countingRenderer struct {
	next   float32
	blocks int
}

func (c *countingRenderer) Process(out []float32, frames int) mixer.Status {
	c.blocks++
	for i := range out[:frames*2] {
		out[i] = c.next
		c.next++
	}
	return mixer.StatusContinue
}

func TestBlockPumpSplitsBlocksAcrossReads(t *testing.T) {
	r := &countingRenderer{}
	pump := newBlockPump(r, 4) // 8 samples per block

	var got []float32
	for _, size := range []int{12, 20, 4, 40} {
		buf := make([]byte, size)
		n, err := pump.Read(buf)
		if err != nil || n != size {
			t.Fatalf("Read(%d) = %d, %v", size, n, err)
		}
		for i := 0; i < n; i += 4 {
			got = append(got, math.Float32frombits(binary.LittleEndian.Uint32(buf[i:])))
		}
	}

	for i, v := range got {
		if v != float32(i) {
			t.Fatalf("sample %d = %v, want a continuous stream", i, v)
		}
	}
	if r.blocks != 3 {
		t.Errorf("rendered %d blocks for 19 samples, want 3", r.blocks)
	}
}

func TestBlockPumpDetachedReadsSilence(t *testing.T) {
	r := &countingRenderer{next: 1}
	pump := newBlockPump(r, 4)
	pump.detach()

	buf := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	n, _ := pump.Read(buf)
	if n != len(buf) || r.blocks != 0 {
		t.Fatalf("detached Read = %d bytes, %d blocks", n, r.blocks)
	}
	for i, b := range buf {
		if b != 0 {
			t.Errorf("byte %d = %d, want silence", i, b)
		}
	}
}
