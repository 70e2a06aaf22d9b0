// wav_render.go - Offline render of the engine to a WAV file

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
	"context"
	"io"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/intuitionamiga/IntuitionGroove/mixer"
	"github.com/pkg/errors"
)

const (
	RENDER_BIT_DEPTH = 16
	RENDER_PCM_SCALE = 32767
)

// WAVRenderer pulls blocks from a renderer as fast as it can and writes them
// as 16-bit PCM. BeforeBlock runs ahead of every block with the stream
// position, which lets the sequencer run on a virtual clock.
type WAVRenderer struct {
	SampleRate  int
	BlockFrames int
	BeforeBlock func(at time.Duration)
}

// Render writes frames of audio to w.
func (wr *WAVRenderer) Render(ctx context.Context, r mixer.BlockRenderer, w io.WriteSeeker, frames int) error {
	blockFrames := wr.BlockFrames
	if blockFrames <= 0 {
		blockFrames = DEFAULT_BLOCK_FRAMES
	}

	enc := wav.NewEncoder(w, wr.SampleRate, RENDER_BIT_DEPTH, mixer.STEREO, WAVE_FORMAT_PCM)
	block := make([]float32, blockFrames*mixer.STEREO)
	pcm := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: mixer.STEREO, SampleRate: wr.SampleRate},
		Data:           make([]int, len(block)),
		SourceBitDepth: RENDER_BIT_DEPTH,
	}

	for done := 0; done < frames; done += blockFrames {
		if err := ctx.Err(); err != nil {
			enc.Close()
			return err
		}
		if wr.BeforeBlock != nil {
			wr.BeforeBlock(time.Duration(done) * time.Second / time.Duration(wr.SampleRate))
		}

		n := min(blockFrames, frames-done)
		r.Process(block, n)
		pcm.Data = pcm.Data[:n*mixer.STEREO]
		for i, v := range block[:n*mixer.STEREO] {
			pcm.Data[i] = int(max(-1, min(1, v)) * RENDER_PCM_SCALE)
		}
		if err := enc.Write(pcm); err != nil {
			enc.Close()
			return errors.Wrap(err, "write WAV block")
		}
	}
	return errors.Wrap(enc.Close(), "finish WAV")
}

// RenderFile renders seconds of audio into a new WAV file at path.
func (wr *WAVRenderer) RenderFile(ctx context.Context, r mixer.BlockRenderer, path string, seconds float64) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create render file")
	}
	frames := int(seconds * float64(wr.SampleRate))
	if err := wr.Render(ctx, r, f, frames); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "close render file")
}
