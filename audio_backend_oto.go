//go:build !headless

// audio_backend_oto.go - OTO v3 audio output for the mixer

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
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/intuitionamiga/IntuitionGroove/mixer"
	"github.com/pkg/errors"
)

// OtoDriver plays the engine through the system audio device. Oto allows one
// context per process, so build one driver and reuse it.
type OtoDriver struct {
	ctx         *oto.Context
	player      *oto.Player
	pump        *blockPump
	blockFrames int
	started     bool
	mutex       sync.Mutex // Only for setup/control operations
}

func NewOtoDriver(sampleRate, blockFrames int) (*OtoDriver, error) {
	if blockFrames <= 0 {
		blockFrames = DEFAULT_BLOCK_FRAMES
	}
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: mixer.STEREO,
		Format:       oto.FormatFloat32LE,
		BufferSize:   2 * time.Duration(blockFrames) * time.Second / time.Duration(sampleRate),
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, errors.Wrap(err, "open audio device")
	}
	<-ready

	return &OtoDriver{ctx: ctx, blockFrames: blockFrames}, nil
}

func (od *OtoDriver) Start(r mixer.BlockRenderer) error {
	od.mutex.Lock()
	defer od.mutex.Unlock()

	if od.started {
		return mixer.ErrAlreadyStarted
	}
	od.pump = newBlockPump(r, od.blockFrames)
	od.player = od.ctx.NewPlayer(od.pump)
	od.player.SetBufferSize(od.blockFrames * BYTES_PER_FRAME)
	od.player.Play()
	od.started = true
	return nil
}

func (od *OtoDriver) Stop() error {
	od.mutex.Lock()
	defer od.mutex.Unlock()

	if !od.started {
		return nil
	}
	od.pump.detach()
	err := od.player.Close()
	od.player = nil
	od.started = false
	return err
}
