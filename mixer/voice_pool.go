// voice_pool.go - Pending and active playback voices

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

// initialVoiceCapacity pre-sizes both voice lists so the audio goroutine
// rarely grows a slice during normal pad playing.
const initialVoiceCapacity = 64

// Voice is one in-flight playback of a pad's sample.
type Voice struct {
	// Hot fields touched per rendered frame
	sample     *Sample // Snapshot resolved at admission, nil while pending
	cursor     int     // Next stereo pair to read
	velocity   float32 // Linear gain for both channels
	reverbSend float32 // Share of the voice routed to the reverb bus
	delaySend  float32 // Share of the voice routed to the delay bus

	startDelay int  // Output frames of silence before the first sample
	pad        int  // Pad the voice was triggered on
	active     bool // Cleared once the sample is exhausted
}

// Pad returns the pad identifier the voice plays.
func (v *Voice) Pad() int { return v.pad }

// Cursor returns the index of the next stereo pair to read.
func (v *Voice) Cursor() int { return v.cursor }

// Active reports whether the voice still contributes audio.
func (v *Voice) Active() bool { return v.active }

// StartDelay returns the frames left before the voice becomes audible.
func (v *Voice) StartDelay() int { return v.startDelay }

// VoicePool holds voices awaiting admission (pending) and voices being
// rendered (active). Pending is shared with producers and guarded by the
// engine lock; active belongs to the audio goroutine alone.
type VoicePool struct {
	pending []Voice
	active  []Voice
}

func NewVoicePool() *VoicePool {
	return &VoicePool{
		pending: make([]Voice, 0, initialVoiceCapacity),
		active:  make([]Voice, 0, initialVoiceCapacity),
	}
}

// enqueue appends a new voice to pending. Caller holds the engine lock.
func (vp *VoicePool) enqueue(v Voice) {
	vp.pending = append(vp.pending, v)
}

// drainPendingIntoActive admits every pending voice, resolving its sample
// snapshot from store. A voice whose pad was unloaded since the trigger is
// dropped. Caller holds the engine lock.
func (vp *VoicePool) drainPendingIntoActive(store *SampleStore) {
	if len(vp.pending) == 0 {
		return
	}
	for i := range vp.pending {
		v := vp.pending[i]
		s, ok := store.Get(v.pad)
		if !ok || s.Frames() == 0 {
			continue
		}
		v.sample = s
		vp.active = append(vp.active, v)
	}
	clear(vp.pending)
	vp.pending = vp.pending[:0]
}

// retireFinished removes inactive voices with swap-remove. Order of the
// survivors is not preserved.
func (vp *VoicePool) retireFinished() {
	n := len(vp.active)
	for i := 0; i < n; {
		if vp.active[i].active {
			i++
			continue
		}
		n--
		vp.active[i] = vp.active[n]
	}
	// Release sample snapshots held by the retired tail
	clear(vp.active[n:])
	vp.active = vp.active[:n]
}

// PendingLen returns the number of voices awaiting admission.
// Caller holds the engine lock.
func (vp *VoicePool) PendingLen() int { return len(vp.pending) }

// ActiveLen returns the number of admitted voices. Audio goroutine only.
func (vp *VoicePool) ActiveLen() int { return len(vp.active) }
