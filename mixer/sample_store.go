// sample_store.go - Immutable per-pad sample storage

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

// Sample is an interleaved stereo buffer (left, right, left, right, ...).
// A published Sample is never written again: replacing a pad publishes a new
// Sample, so a voice holding the old pointer keeps reading stable data.
type Sample struct {
	data   []float32
	frames int
}

// NewSample copies frames into a new Sample. A trailing odd value is kept in
// the copy but never read, since a voice needs a full stereo pair.
func NewSample(frames []float32) *Sample {
	data := make([]float32, len(frames))
	copy(data, frames)
	return &Sample{data: data, frames: len(data) / STEREO}
}

// Frames returns the number of complete stereo pairs.
func (s *Sample) Frames() int {
	if s == nil {
		return 0
	}
	return s.frames
}

// Frame returns the stereo pair at index i.
func (s *Sample) Frame(i int) (left, right float32) {
	return s.data[i*STEREO], s.data[i*STEREO+1]
}

// SampleStore maps pad identifiers to published samples.
// It has no lock of its own; the owning Engine serialises access.
type SampleStore struct {
	samples map[int]*Sample
}

func NewSampleStore() *SampleStore {
	return &SampleStore{samples: make(map[int]*Sample)}
}

func (st *SampleStore) Set(pad int, s *Sample) {
	st.samples[pad] = s
}

func (st *SampleStore) Remove(pad int) {
	delete(st.samples, pad)
}

func (st *SampleStore) Get(pad int) (*Sample, bool) {
	s, ok := st.samples[pad]
	return s, ok
}

func (st *SampleStore) Len() int {
	return len(st.samples)
}
