// sample_loader.go - WAV and MP3 decoding to stereo float frames

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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/pkg/errors"
)

const (
	WAVE_FORMAT_PCM        = 1
	WAVE_FORMAT_EXTENSIBLE = 0xFFFE
)

// DecodedSample is interleaved stereo float32 audio in [-1, 1].
type DecodedSample struct {
	Frames     []float32
	SampleRate int
}

func (d *DecodedSample) FrameCount() int {
	return len(d.Frames) / 2
}

// LoadSampleFile decodes a WAV or MP3 file by extension.
func LoadSampleFile(path string) (*DecodedSample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open sample")
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return DecodeMP3(f)
	case ".wav", ".wave":
		return DecodeWAV(f)
	default:
		return nil, errors.Errorf("unsupported sample format %q", filepath.Ext(path))
	}
}

// DecodeWAV reads integer PCM WAV data. Mono is duplicated to both channels
// and anything wider than stereo keeps its first two channels.
func DecodeWAV(r io.ReadSeeker) (*DecodedSample, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, errors.New("not a valid WAV file")
	}
	if dec.WavAudioFormat != WAVE_FORMAT_PCM && dec.WavAudioFormat != WAVE_FORMAT_EXTENSIBLE {
		return nil, errors.Errorf("unsupported WAV encoding 0x%04x", dec.WavAudioFormat)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "decode WAV")
	}

	channels := int(dec.NumChans)
	if channels < 1 {
		return nil, errors.New("WAV has no channels")
	}
	bitDepth := int(dec.BitDepth)
	scale := float32(int64(1) << (bitDepth - 1))
	offset := 0
	if bitDepth == 8 {
		offset = 128 // 8-bit WAV is unsigned
	}

	frames := len(buf.Data) / channels
	out := make([]float32, frames*2)
	for i := 0; i < frames; i++ {
		l := float32(buf.Data[i*channels]-offset) / scale
		r := l
		if channels > 1 {
			r = float32(buf.Data[i*channels+1]-offset) / scale
		}
		out[i*2] = l
		out[i*2+1] = r
	}
	return &DecodedSample{Frames: out, SampleRate: int(dec.SampleRate)}, nil
}

// DecodeMP3 decodes a whole MP3 stream. The decoder always yields 16-bit
// little-endian stereo.
func DecodeMP3(r io.Reader) (*DecodedSample, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, errors.Wrap(err, "open MP3")
	}
	pcm, err := io.ReadAll(dec)
	if err != nil {
		return nil, errors.Wrap(err, "decode MP3")
	}

	frames := len(pcm) / 4
	out := make([]float32, frames*2)
	for i := range out {
		out[i] = float32(int16(binary.LittleEndian.Uint16(pcm[i*2:]))) / 32768
	}
	return &DecodedSample{Frames: out, SampleRate: dec.SampleRate()}, nil
}

// warnRateMismatch reports samples that will play at the wrong pitch.
func warnRateMismatch(path string, sampleRate, engineRate int) {
	if sampleRate != engineRate {
		fmt.Fprintf(os.Stderr, "samples: %s is %d Hz, engine runs at %d Hz; playback pitch will shift\n",
			filepath.Base(path), sampleRate, engineRate)
	}
}
