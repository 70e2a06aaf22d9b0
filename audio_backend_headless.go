//go:build headless

// audio_backend_headless.go - Clock-driven stand-in for the audio device

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

	"github.com/intuitionamiga/IntuitionGroove/mixer"
)

// OtoDriver renders blocks on a wall-clock schedule and discards them, so
// headless builds keep real-time voice behaviour without an audio device.
type OtoDriver struct {
	sampleRate  int
	blockFrames int
	stopCh      chan struct{}
	done        chan struct{}
	started     bool
	mutex       sync.Mutex
}

func NewOtoDriver(sampleRate, blockFrames int) (*OtoDriver, error) {
	if blockFrames <= 0 {
		blockFrames = DEFAULT_BLOCK_FRAMES
	}
	return &OtoDriver{sampleRate: sampleRate, blockFrames: blockFrames}, nil
}

func (od *OtoDriver) Start(r mixer.BlockRenderer) error {
	od.mutex.Lock()
	defer od.mutex.Unlock()

	if od.started {
		return mixer.ErrAlreadyStarted
	}
	od.stopCh = make(chan struct{})
	od.done = make(chan struct{})
	od.started = true

	period := time.Duration(od.blockFrames) * time.Second / time.Duration(od.sampleRate)
	go func(stopCh, done chan struct{}) {
		defer close(done)
		block := make([]float32, od.blockFrames*mixer.STEREO)
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				r.Process(block, od.blockFrames)
			}
		}
	}(od.stopCh, od.done)
	return nil
}

func (od *OtoDriver) Stop() error {
	od.mutex.Lock()
	defer od.mutex.Unlock()

	if !od.started {
		return nil
	}
	close(od.stopCh)
	<-od.done
	od.started = false
	return nil
}
