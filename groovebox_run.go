// groovebox_run.go - Wiring of engine, pads, sequencer and inputs

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
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/intuitionamiga/IntuitionGroove/mixer"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const INPUT_QUEUE = 64

type groovebox struct {
	cfg    *GrooveboxConfig
	engine *mixer.Engine
	bank   *PadBank
	seq    *Sequencer
	block  int
}

func newGroovebox(opts runOptions) (*groovebox, error) {
	cfg, err := LoadGrooveboxConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	engine, err := mixer.NewWithConfig(mixer.Config{
		SampleRate:     SAMPLE_RATE,
		MaxBlockFrames: max(opts.blockFrames, mixer.MAX_BLOCK_FRAMES),
	})
	if err != nil {
		return nil, err
	}

	bank := NewPadBank(engine, SAMPLE_RATE)
	bank.LoadConfig(cfg)
	seq := NewSequencer(NewEmptyPattern(cfg), bank)

	if opts.sessionPath != "" {
		found, err := LoadSession(opts.sessionPath, bank, seq)
		if err != nil {
			return nil, err
		}
		if found {
			fmt.Printf("Session restored from %s\n", opts.sessionPath)
		}
	}

	return &groovebox{cfg: cfg, engine: engine, bank: bank, seq: seq, block: opts.blockFrames}, nil
}

// render plays the pattern from the top on a virtual clock and writes it to a
// WAV file.
func (g *groovebox) render(path string, seconds float64) error {
	origin := time.Unix(0, 0)
	g.seq.SetLookahead(time.Duration(g.block) * time.Second / SAMPLE_RATE)
	g.seq.TogglePlay(origin)

	wr := &WAVRenderer{
		SampleRate:  SAMPLE_RATE,
		BlockFrames: g.block,
		BeforeBlock: func(at time.Duration) { g.seq.Tick(origin.Add(at)) },
	}
	if err := wr.RenderFile(context.Background(), g.engine, path, seconds); err != nil {
		return err
	}
	fmt.Printf("Rendered %.1fs to %s\n", seconds, path)
	return nil
}

// reportStop runs stop and prints any error it returns to w.
func reportStop(w io.Writer, stop func() error) {
	if err := stop(); err != nil {
		fmt.Fprintf(w, "audio: %v\n", err)
	}
}

// runLive starts the audio device and the sequencer clock, then runs the
// foreground input mode on the calling goroutine until it quits.
func (g *groovebox) runLive(opts runOptions) error {
	driver, err := NewOtoDriver(SAMPLE_RATE, g.block)
	if err != nil {
		return err
	}
	if err := g.engine.Start(driver); err != nil {
		return err
	}
	defer reportStop(os.Stderr, g.engine.Stop)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	group, ctx := errgroup.WithContext(ctx)

	events := make(chan InputEvent, INPUT_QUEUE)
	ctrl := NewController(g.seq, cancel)
	if opts.autoplay {
		ctrl.Handle(control(CONTROL_PLAY))
	}

	group.Go(func() error { return g.seq.Run(ctx, SEQUENCER_TICK) })
	group.Go(func() error { return ctrl.Run(ctx, events) })
	if opts.midiPort != "" {
		group.Go(func() error { return NewMIDIPads(g.cfg, opts.midiPort).Run(ctx, events) })
	}

	var runErr error
	switch {
	case opts.scriptPath != "":
		runErr = NewScriptHost(g.bank, g.seq, g.engine, g.engine).RunFile(ctx, opts.scriptPath)
	case opts.terminal:
		runErr = NewTerminalPads(g.cfg).Run(ctx, events)
	default:
		runErr = RunUI(NewGrooveboxUI(ctx, g.cfg, g.bank, g.seq, ctrl, g.engine))
	}
	cancel()

	if err := group.Wait(); err != nil && runErr == nil {
		runErr = err
	}
	if opts.sessionPath != "" {
		if err := SaveSession(opts.sessionPath, g.bank, g.seq); err != nil {
			return errors.Wrap(err, "save session")
		}
		fmt.Printf("Session saved to %s\n", opts.sessionPath)
	}
	return runErr
}
