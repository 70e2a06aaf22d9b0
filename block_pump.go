// block_pump.go - Serializes engine blocks for byte-stream audio sinks

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
	"encoding/binary"
	"math"
	"sync/atomic"

	"github.com/intuitionamiga/IntuitionGroove/mixer"
)

const (
	DEFAULT_BLOCK_FRAMES = 512
	BYTES_PER_FRAME      = 8 // stereo float32
)

type rendererSlot struct {
	r mixer.BlockRenderer
}

// blockPump is an io.Reader that renders the engine one block at a time and
// hands out the interleaved float32 little-endian bytes. A detached pump
// reads silence.
type blockPump struct {
	renderer    atomic.Pointer[rendererSlot] // Atomic for lock-free Read()
	blockFrames int
	block       []float32
	pending     []float32 // Rendered samples not yet read
}

func newBlockPump(r mixer.BlockRenderer, blockFrames int) *blockPump {
	if blockFrames <= 0 {
		blockFrames = DEFAULT_BLOCK_FRAMES
	}
	bp := &blockPump{
		blockFrames: blockFrames,
		block:       make([]float32, blockFrames*mixer.STEREO),
	}
	bp.renderer.Store(&rendererSlot{r: r})
	return bp
}

func (bp *blockPump) detach() {
	bp.renderer.Store(nil)
}

func (bp *blockPump) Read(p []byte) (int, error) {
	slot := bp.renderer.Load()
	if slot == nil {
		clear(p)
		return len(p), nil
	}

	n := 0
	for len(p)-n >= 4 {
		if len(bp.pending) == 0 {
			slot.r.Process(bp.block, bp.blockFrames)
			bp.pending = bp.block
		}
		k := min(len(bp.pending), (len(p)-n)/4)
		for i, v := range bp.pending[:k] {
			binary.LittleEndian.PutUint32(p[n+i*4:], math.Float32bits(v))
		}
		bp.pending = bp.pending[k:]
		n += k * 4
	}
	return n, nil
}
