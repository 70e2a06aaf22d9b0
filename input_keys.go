// input_keys.go - Terminal key decoding

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

import "strings"

const (
	KEY_ESC    = 0x1b
	KEY_CTRL_C = 0x03
)

// keyDecoder turns raw terminal bytes into input events. Arrow keys arrive as
// ESC [ A..D and may be split across reads, so the decoder keeps state.
type keyDecoder struct {
	cfg   *GrooveboxConfig
	state int
}

const (
	decodeIdle = iota
	decodeEsc
	decodeCSI
)

func newKeyDecoder(cfg *GrooveboxConfig) *keyDecoder {
	return &keyDecoder{cfg: cfg}
}

func (d *keyDecoder) Feed(b byte) (InputEvent, bool) {
	switch d.state {
	case decodeEsc:
		if b == '[' {
			d.state = decodeCSI
			return InputEvent{}, false
		}
		d.state = decodeIdle
		// A lone ESC quits and consumes the byte that followed it.
		return control(CONTROL_QUIT), true
	case decodeCSI:
		d.state = decodeIdle
		switch b {
		case 'A':
			return control(CONTROL_BPM_UP), true
		case 'B':
			return control(CONTROL_BPM_DOWN), true
		case 'C':
			return control(CONTROL_SWING_UP), true
		case 'D':
			return control(CONTROL_SWING_DOWN), true
		}
		return InputEvent{}, false
	}

	switch b {
	case KEY_ESC:
		d.state = decodeEsc
		return InputEvent{}, false
	case KEY_CTRL_C:
		return control(CONTROL_QUIT), true
	}
	return keyEvent(d.cfg, string(rune(b)))
}

// keyEvent maps a key name to a transport control or a pad. Controls win over
// pad bindings on the same key.
func keyEvent(cfg *GrooveboxConfig, key string) (InputEvent, bool) {
	switch strings.ToLower(key) {
	case " ", "space":
		return control(CONTROL_PLAY), true
	case "r":
		return control(CONTROL_RECORD), true
	case "q":
		return control(CONTROL_QUIT), true
	case "+", "=":
		return control(CONTROL_BPM_UP), true
	case "-":
		return control(CONTROL_BPM_DOWN), true
	case ">", ".":
		return control(CONTROL_SWING_UP), true
	case "<", ",":
		return control(CONTROL_SWING_DOWN), true
	}
	if pad, ok := cfg.PadByKey(key); ok {
		return padDown(pad.ID, LIVE_VELOCITY), true
	}
	return InputEvent{}, false
}
