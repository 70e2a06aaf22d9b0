//go:build !windows

// input_terminal.go - Raw terminal keyboard as pads

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
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

// TerminalPads reads stdin in raw mode and turns key presses into events.
type TerminalPads struct {
	decoder *keyDecoder
}

func NewTerminalPads(cfg *GrooveboxConfig) *TerminalPads {
	return &TerminalPads{decoder: newKeyDecoder(cfg)}
}

// Run reads keys until ctx is done or a quit key is seen. The terminal is
// restored before returning.
func (tp *TerminalPads) Run(ctx context.Context, events chan<- InputEvent) error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("terminal input needs a TTY on stdin")
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return errors.Wrap(err, "set raw mode")
	}
	defer term.Restore(fd, oldState)

	if err := syscall.SetNonblock(fd, true); err != nil {
		return errors.Wrap(err, "set nonblocking stdin")
	}
	defer syscall.SetNonblock(fd, false)

	fmt.Print("Keys: pads per config, space play, r record, arrows bpm/swing, q quit\r\n")

	buf := make([]byte, 16)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		n, err := syscall.Read(fd, buf)
		for _, b := range buf[:max(n, 0)] {
			ev, ok := tp.decoder.Feed(b)
			if !ok {
				continue
			}
			if !sendEvent(ctx, events, ev) {
				return nil
			}
			if ev.Control == CONTROL_QUIT {
				return nil
			}
		}
		if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK || n == 0 {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		if err != nil {
			return errors.Wrap(err, "read stdin")
		}
	}
}
