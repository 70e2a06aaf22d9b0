package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// writeTestWAV encodes integer PCM data as a WAV file.
func writeTestWAV(t *testing.T, path string, rate, bitDepth, channels int, data []int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, rate, bitDepth, channels, WAVE_FORMAT_PCM)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("finish %s: %v", path, err)
	}
}

func assertFrames(t *testing.T, got, want []float32, tol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > tol {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDecodeWAVFormats(t *testing.T) {
	tests := []struct {
		name     string
		bitDepth int
		channels int
		data     []int
		want     []float32
	}{
		{"stereo16", 16, 2, []int{16384, -16384, 0, 8192}, []float32{0.5, -0.5, 0, 0.25}},
		{"mono16", 16, 1, []int{8192, -8192}, []float32{0.25, 0.25, -0.25, -0.25}},
		{"mono8", 8, 1, []int{192, 128, 64}, []float32{0.5, 0.5, 0, 0, -0.5, -0.5}},
		{"stereo24", 24, 2, []int{4194304, -4194304}, []float32{0.5, -0.5}},
		{"quad16", 16, 4, []int{16384, 8192, 100, 200}, []float32{0.5, 0.25}},
	}

	dir := t.TempDir()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name+".wav")
			writeTestWAV(t, path, 22050, tc.bitDepth, tc.channels, tc.data)

			got, err := LoadSampleFile(path)
			if err != nil {
				t.Fatalf("LoadSampleFile: %v", err)
			}
			if got.SampleRate != 22050 {
				t.Errorf("SampleRate = %d, want 22050", got.SampleRate)
			}
			assertFrames(t, got.Frames, tc.want, 1e-6)
		})
	}
}

func TestLoadSampleFileRejectsUnknownAndBrokenFiles(t *testing.T) {
	dir := t.TempDir()

	txt := filepath.Join(dir, "notes.txt")
	os.WriteFile(txt, []byte("hello"), 0o644)
	if _, err := LoadSampleFile(txt); err == nil {
		t.Error("expected an error for a .txt file")
	}

	bogus := filepath.Join(dir, "bogus.wav")
	os.WriteFile(bogus, []byte("RIFF nope"), 0o644)
	if _, err := LoadSampleFile(bogus); err == nil {
		t.Error("expected an error for a corrupt WAV")
	}

	if _, err := LoadSampleFile(filepath.Join(dir, "missing.wav")); err == nil {
		t.Error("expected an error for a missing file")
	}

	bad := filepath.Join(dir, "bad.mp3")
	os.WriteFile(bad, []byte{0, 1, 2, 3}, 0o644)
	if _, err := LoadSampleFile(bad); err == nil {
		t.Error("expected an error for a corrupt MP3")
	}
}
