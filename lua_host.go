// lua_host.go - Lua scripting for pads and sequencer

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
	"time"

	"github.com/pkg/errors"
	lua "github.com/yuin/gopher-lua"
)

// VoiceCounter reports how many voices are sounding.
type VoiceCounter interface {
	ActiveVoices() int
}

// ScriptHost exposes the groovebox to Lua as the global table "groove".
type ScriptHost struct {
	bank   *PadBank
	seq    *Sequencer
	voices VoiceCounter
	engine SampleEngine
	sleep  func(ctx context.Context, d time.Duration) error
	now    func() time.Time
}

func NewScriptHost(bank *PadBank, seq *Sequencer, engine SampleEngine, voices VoiceCounter) *ScriptHost {
	return &ScriptHost{
		bank:   bank,
		seq:    seq,
		voices: voices,
		engine: engine,
		sleep:  sleepContext,
		now:    time.Now,
	}
}

// RunFile executes a script until it returns or ctx is cancelled.
func (h *ScriptHost) RunFile(ctx context.Context, path string) error {
	L := h.newState(ctx)
	defer L.Close()
	return errors.Wrapf(L.DoFile(path), "script %s", path)
}

func (h *ScriptHost) RunString(ctx context.Context, src string) error {
	L := h.newState(ctx)
	defer L.Close()
	return errors.Wrap(L.DoString(src), "script")
}

func (h *ScriptHost) newState(ctx context.Context) *lua.LState {
	L := lua.NewState()
	L.SetContext(ctx)
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"load":      h.luaLoad,
		"trigger":   h.luaTrigger,
		"play_pad":  h.luaPlayPad,
		"trim":      h.luaTrim,
		"reverse":   h.luaReverse,
		"normalize": h.luaNormalize,
		"bpm":       h.luaBPM,
		"swing":     h.luaSwing,
		"step":      h.luaStep,
		"pattern":   h.luaPattern,
		"play":      h.luaPlay,
		"stop":      h.luaStop,
		"record":    h.luaRecord,
		"sleep":     h.luaSleep,
		"voices":    h.luaVoices,
	})
	L.SetGlobal("groove", mod)
	return L
}

func (h *ScriptHost) luaLoad(L *lua.LState) int {
	if err := h.bank.LoadPad(L.CheckInt(1), L.CheckString(2)); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

// groove.trigger(pad[, vel[, reverb[, delay[, offset]]]]) bypasses the pad's
// configured sends.
func (h *ScriptHost) luaTrigger(L *lua.LState) int {
	pad := L.CheckInt(1)
	vel := float32(L.OptNumber(2, 1))
	rev := float32(L.OptNumber(3, 0))
	dly := float32(L.OptNumber(4, 0))
	offset := float64(L.OptNumber(5, 0))
	h.engine.Trigger(pad, vel, rev, dly, offset)
	return 0
}

// groove.play_pad(pad[, vel]) uses the pad's configured sends.
func (h *ScriptHost) luaPlayPad(L *lua.LState) int {
	h.bank.Play(L.CheckInt(1), float32(L.OptNumber(2, LIVE_VELOCITY)), 0)
	return 0
}

func (h *ScriptHost) luaTrim(L *lua.LState) int {
	if err := h.bank.SetTrim(L.CheckInt(1), float64(L.CheckNumber(2)), float64(L.CheckNumber(3))); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

func (h *ScriptHost) luaReverse(L *lua.LState) int {
	if err := h.bank.ToggleReverse(L.CheckInt(1)); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

func (h *ScriptHost) luaNormalize(L *lua.LState) int {
	if err := h.bank.ToggleNormalize(L.CheckInt(1)); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

// groove.bpm([v]) sets the tempo when given one and returns the current tempo.
func (h *ScriptHost) luaBPM(L *lua.LState) int {
	if L.GetTop() >= 1 {
		h.seq.SetBPM(float64(L.CheckNumber(1)))
	}
	L.Push(lua.LNumber(h.seq.BPM()))
	return 1
}

func (h *ScriptHost) luaSwing(L *lua.LState) int {
	if L.GetTop() >= 1 {
		h.seq.SetSwing(float64(L.CheckNumber(1)))
	}
	L.Push(lua.LNumber(h.seq.Swing()))
	return 1
}

// groove.step(pad, step, state) with 1-based steps and state 0, 1 or 2.
func (h *ScriptHost) luaStep(L *lua.LState) int {
	pad := L.CheckInt(1)
	step := L.CheckInt(2)
	state := L.CheckInt(3)
	if state < 0 || state >= int(STEP_STATES) {
		L.ArgError(3, "state must be 0, 1 or 2")
	}
	if !h.seq.SetStep(pad, step-1, StepState(state)) {
		L.RaiseError("no step %d on pad %d", step, pad)
	}
	return 0
}

// groove.pattern([text]) replaces steps from pattern text and returns the
// current pattern as text.
func (h *ScriptHost) luaPattern(L *lua.LState) int {
	if L.GetTop() >= 1 {
		p, err := ParsePatternText([]byte(L.CheckString(1)))
		if err != nil {
			L.RaiseError("%v", err)
		}
		h.seq.SetPattern(MergePattern(h.seq.Pattern(), p))
	}
	text, _ := h.seq.Pattern().MarshalText()
	L.Push(lua.LString(text))
	return 1
}

func (h *ScriptHost) luaPlay(L *lua.LState) int {
	if !h.seq.IsPlaying() {
		h.seq.TogglePlay(h.now())
	}
	return 0
}

func (h *ScriptHost) luaStop(L *lua.LState) int {
	h.seq.Stop()
	return 0
}

func (h *ScriptHost) luaRecord(L *lua.LState) int {
	L.Push(lua.LBool(h.seq.ToggleRecord()))
	return 1
}

func (h *ScriptHost) luaSleep(L *lua.LState) int {
	d := time.Duration(float64(L.CheckNumber(1)) * float64(time.Second))
	if err := h.sleep(L.Context(), d); err != nil {
		L.RaiseError("sleep interrupted: %v", err)
	}
	return 0
}

func (h *ScriptHost) luaVoices(L *lua.LState) int {
	n := 0
	if h.voices != nil {
		n = h.voices.ActiveVoices()
	}
	L.Push(lua.LNumber(n))
	return 1
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
