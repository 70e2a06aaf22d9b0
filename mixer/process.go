// process.go - Real-time block rendering

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

// Process renders one block of frames interleaved stereo frames into out.
// It never blocks beyond the brief admission lock and never fails.
//
// Only the first MaxBlockFrames frames are rendered; any frames past the
// ceiling are left silent. If out is shorter than frames*2 the block is
// shortened to fit.
func (e *Engine) Process(out []float32, frames int) Status {
	frames = max(frames, 0)
	frames = min(frames, len(out)/STEREO)
	clear(out[:frames*STEREO])

	n := min(frames, e.maxBlock)
	e.bus.reset(n)

	before := e.voices.ActiveLen()
	e.mutex.Lock()
	e.voices.drainPendingIntoActive(e.samples)
	e.mutex.Unlock()
	admitted := e.voices.ActiveLen()

	active := e.voices.active
	for i := range active {
		e.renderVoice(&active[i], n)
	}
	e.voices.retireFinished()
	remaining := e.voices.ActiveLen()

	e.voicesAdmitted.Add(uint64(admitted - before))
	e.voicesRetired.Add(uint64(admitted - remaining))
	e.activeVoices.Store(int32(remaining))

	b := &e.bus
	e.delay.Process(b.delayL[:n], b.delayR[:n], b.dryL[:n], b.dryR[:n], 1)
	e.reverb.Process(b.reverbL[:n], b.reverbR[:n], b.dryL[:n], b.dryR[:n], REVERB_MIX_LEVEL)

	for i := 0; i < n; i++ {
		out[i*STEREO] = softClip(b.dryL[i])
		out[i*STEREO+1] = softClip(b.dryR[i])
	}
	return StatusContinue
}

// renderVoice accumulates up to n frames of v into the buses.
func (e *Engine) renderVoice(v *Voice, n int) {
	if !v.active {
		return
	}
	if v.startDelay >= n {
		v.startDelay -= n
		return
	}
	start := 0
	if v.startDelay > 0 {
		start = v.startDelay
		v.startDelay = 0
	}

	s := v.sample
	end := s.Frames()
	if v.cursor >= end {
		v.active = false
		return
	}

	gain := v.velocity
	reverbGain := gain * v.reverbSend
	delayGain := gain * v.delaySend
	b := &e.bus

	for i := start; i < n; i++ {
		l, r := s.Frame(v.cursor)

		b.dryL[i] += l * gain
		b.dryR[i] += r * gain
		b.reverbL[i] += l * reverbGain
		b.reverbR[i] += r * reverbGain
		b.delayL[i] += l * delayGain
		b.delayR[i] += r * delayGain

		v.cursor++
		if v.cursor >= end {
			v.active = false
			return
		}
	}
}
