// feedback_delay.go - Stereo circular-buffer feedback delay line

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

// FeedbackDelayLine is a stereo circular buffer with a single read tap whose
// output is fed back into the write position. Length, tap and feedback are
// fixed at construction; the buffer is never resized.
type FeedbackDelayLine struct {
	buffer   []float32 // Interleaved stereo history
	length   int       // Buffer length in frames
	writePos int       // Next frame to overwrite
	tap      int       // Read tap distance behind writePos, in frames
	feedback float32   // Gain applied to the tapped frame before rewriting
}

// NewFeedbackDelayLine builds a line holding lengthFrames of history. The tap
// is clamped to [1, lengthFrames-1] and feedback to [0, MAX_FEEDBACK].
func NewFeedbackDelayLine(lengthFrames, tapFrames int, feedback float32) *FeedbackDelayLine {
	lengthFrames = max(lengthFrames, 2)
	tapFrames = min(max(tapFrames, 1), lengthFrames-1)
	feedback = min(max(feedback, 0), MAX_FEEDBACK)

	return &FeedbackDelayLine{
		buffer:   make([]float32, lengthFrames*STEREO),
		length:   lengthFrames,
		tap:      tapFrames,
		feedback: feedback,
	}
}

// newTimedDelayLine sizes a line from durations at the given sample rate.
// Frame counts truncate, matching how the tap positions were tuned.
func newTimedDelayLine(sampleRate int, bufferSeconds, tapSeconds float64, feedback float32) *FeedbackDelayLine {
	return NewFeedbackDelayLine(
		int(float64(sampleRate)*bufferSeconds),
		int(float64(sampleRate)*tapSeconds),
		feedback,
	)
}

// ProcessFrame pushes one stereo input frame through the line and returns
// the tapped frame, read before the write.
func (d *FeedbackDelayLine) ProcessFrame(inL, inR float32) (wetL, wetR float32) {
	readPos := (d.writePos - d.tap + d.length) % d.length
	wetL = d.buffer[readPos*STEREO]
	wetR = d.buffer[readPos*STEREO+1]

	d.buffer[d.writePos*STEREO] = inL + wetL*d.feedback
	d.buffer[d.writePos*STEREO+1] = inR + wetR*d.feedback

	d.writePos = (d.writePos + 1) % d.length
	return wetL, wetR
}

// Process runs a block of input through the line and adds the wet output,
// scaled by level, into outL/outR. All four slices share the same length.
func (d *FeedbackDelayLine) Process(inL, inR, outL, outR []float32, level float32) {
	n := len(inL)
	_ = inR[:n]
	_ = outL[:n]
	_ = outR[:n]
	for i := 0; i < n; i++ {
		wetL, wetR := d.ProcessFrame(inL[i], inR[i])
		outL[i] += wetL * level
		outR[i] += wetR * level
	}
}

// Reset silences the history and rewinds the write cursor.
func (d *FeedbackDelayLine) Reset() {
	clear(d.buffer)
	d.writePos = 0
}

func (d *FeedbackDelayLine) Length() int       { return d.length }
func (d *FeedbackDelayLine) Tap() int          { return d.tap }
func (d *FeedbackDelayLine) Feedback() float32 { return d.feedback }
