//go:build !headless

// ui_ebiten.go - Ebiten pad and step grid window

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
	"image/color"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"
)

const (
	UI_FLASH_TIME     = 120 * time.Millisecond
	UI_MAX_PASTE_SIZE = 16384
)

var (
	colorBackground = color.RGBA{18, 18, 24, 255}
	colorPad        = color.RGBA{52, 56, 72, 255}
	colorPadHit     = color.RGBA{240, 160, 40, 255}
	colorWave       = color.RGBA{110, 190, 230, 255}
	colorLabel      = color.RGBA{190, 190, 190, 255}
	colorStepOff    = color.RGBA{40, 40, 48, 255}
	colorStepNormal = color.RGBA{0, 160, 70, 255}
	colorStepAccent = color.RGBA{0, 230, 100, 255}
	colorPlayhead   = color.RGBA{255, 255, 255, 60}
	colorRecord     = color.RGBA{230, 40, 40, 255}
)

// GrooveboxUI is the ebiten game showing pads, the step grid and transport.
type GrooveboxUI struct {
	ctx    context.Context
	cfg    *GrooveboxConfig
	bank   *PadBank
	seq    *Sequencer
	ctrl   *Controller
	voices VoiceCounter
	layout uiLayout

	flashUntil map[int]time.Time
	peaks      map[int][]int16
	message    string

	clipboardOnce sync.Once
	clipboardOK   bool
}

func NewGrooveboxUI(ctx context.Context, cfg *GrooveboxConfig, bank *PadBank, seq *Sequencer, ctrl *Controller, voices VoiceCounter) *GrooveboxUI {
	return &GrooveboxUI{
		ctx:        ctx,
		cfg:        cfg,
		bank:       bank,
		seq:        seq,
		ctrl:       ctrl,
		voices:     voices,
		layout:     uiLayout{pads: len(cfg.Pads), steps: cfg.BeatsPerBar},
		flashUntil: make(map[int]time.Time),
		peaks:      make(map[int][]int16),
	}
}

// RunUI opens the window and blocks until it is closed or ctx ends.
func RunUI(ui *GrooveboxUI) error {
	ebiten.SetWindowSize(UI_WIDTH, UI_HEIGHT)
	ebiten.SetWindowTitle("Intuition Groove")
	return ebiten.RunGame(ui)
}

func (ui *GrooveboxUI) Update() error {
	if ebiten.IsWindowBeingClosed() || ui.ctx.Err() != nil {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		ui.ctrl.Handle(control(CONTROL_QUIT))
		return ebiten.Termination
	}

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	if ctrl {
		switch {
		case inpututil.IsKeyJustPressed(ebiten.KeyC):
			ui.copyPattern()
		case inpututil.IsKeyJustPressed(ebiten.KeyV):
			ui.pastePattern()
		}
	} else {
		for _, r := range ebiten.AppendInputChars(nil) {
			if ev, ok := keyEvent(ui.cfg, string(r)); ok {
				ui.handle(ev)
			}
		}
	}

	arrows := map[ebiten.Key]Control{
		ebiten.KeyArrowUp:    CONTROL_BPM_UP,
		ebiten.KeyArrowDown:  CONTROL_BPM_DOWN,
		ebiten.KeyArrowRight: CONTROL_SWING_UP,
		ebiten.KeyArrowLeft:  CONTROL_SWING_DOWN,
	}
	for key, c := range arrows {
		if inpututil.IsKeyJustPressed(key) {
			ui.handle(control(c))
		}
	}

	ui.handleMouse()
	if ui.ctx.Err() != nil {
		return ebiten.Termination
	}
	return nil
}

func (ui *GrooveboxUI) handle(ev InputEvent) {
	if ev.Control == CONTROL_NONE && ev.Pad.Pressed {
		ui.flashUntil[ev.Pad.Pad] = time.Now().Add(UI_FLASH_TIME)
	}
	ui.ctrl.Handle(ev)
}

// Left click plays a pad or cycles a step; right click on a pad loads the
// next sample from its folder.
func (ui *GrooveboxUI) handleMouse() {
	left := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	right := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)
	if !left && !right {
		return
	}
	x, y := ebiten.CursorPosition()

	if i, ok := ui.layout.padAt(x, y); ok {
		pad := ui.cfg.Pads[i]
		if left {
			ui.handle(padDown(pad.ID, LIVE_VELOCITY))
			return
		}
		next, err := ui.bank.CycleSample(pad.ID, 1)
		if err != nil {
			ui.message = err.Error()
			return
		}
		delete(ui.peaks, pad.ID)
		ui.message = fmt.Sprintf("pad %d: %s", pad.ID, next)
		return
	}

	if track, step, ok := ui.layout.cellAt(x, y); ok && left {
		ui.seq.CycleStep(ui.cfg.Pads[track].ID, step)
	}
}

func (ui *GrooveboxUI) copyPattern() {
	if !ui.initClipboard() {
		return
	}
	data, err := ui.seq.Pattern().MarshalText()
	if err != nil {
		ui.message = err.Error()
		return
	}
	clipboard.Write(clipboard.FmtText, data)
	ui.message = "pattern copied"
}

func (ui *GrooveboxUI) pastePattern() {
	if !ui.initClipboard() {
		return
	}
	data := clipboard.Read(clipboard.FmtText)
	if len(data) == 0 || len(data) > UI_MAX_PASTE_SIZE {
		return
	}
	p, err := ParsePatternText(data)
	if err != nil {
		ui.message = err.Error()
		return
	}
	ui.seq.SetPattern(MergePattern(ui.seq.Pattern(), p))
	ui.message = "pattern pasted"
}

func (ui *GrooveboxUI) initClipboard() bool {
	ui.clipboardOnce.Do(func() {
		ui.clipboardOK = clipboard.Init() == nil
		if !ui.clipboardOK {
			ui.message = "clipboard unavailable"
		}
	})
	return ui.clipboardOK
}

func (ui *GrooveboxUI) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)
	ui.drawStatus(screen)

	now := time.Now()
	face := basicfont.Face7x13
	for i, pad := range ui.cfg.Pads {
		r := ui.layout.padRect(i)
		fill := colorPad
		if now.Before(ui.flashUntil[pad.ID]) {
			fill = colorPadHit
		}
		vector.DrawFilledRect(screen, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), fill, false)
		ui.drawWaveform(screen, pad.ID, r.Min.X, r.Min.Y+20, r.Dx(), r.Dy()-24)
		text.Draw(screen, fmt.Sprintf("%s [%s]", pad.Name, pad.Key), face, r.Min.X+4, r.Min.Y+14, colorLabel)
	}

	pattern := ui.seq.Pattern()
	current := ui.seq.CurrentStep()
	for t, track := range pattern.Tracks {
		top := ui.layout.cellRect(t, 0).Min.Y
		name := fmt.Sprintf("%d", track.Pad)
		if pad, ok := ui.cfg.PadByID(track.Pad); ok {
			name = pad.Name
		}
		text.Draw(screen, name, face, UI_MARGIN, top+14, colorLabel)
		for s, st := range track.Steps {
			r := ui.layout.cellRect(t, s)
			c := colorStepOff
			switch st {
			case STEP_NORMAL:
				c = colorStepNormal
			case STEP_ACCENT:
				c = colorStepAccent
			}
			vector.DrawFilledRect(screen, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), c, false)
			if s == current && ui.seq.IsPlaying() {
				vector.DrawFilledRect(screen, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), colorPlayhead, false)
			}
		}
	}

	if ui.message != "" {
		text.Draw(screen, ui.message, face, UI_MARGIN, UI_HEIGHT-UI_MARGIN, colorLabel)
	}
}

func (ui *GrooveboxUI) drawStatus(screen *ebiten.Image) {
	face := basicfont.Face7x13
	status := fmt.Sprintf("BPM %.0f  SWING %.2f  VOICES %d", ui.seq.BPM(), ui.seq.Swing(), ui.voices.ActiveVoices())
	text.Draw(screen, status, face, UI_MARGIN, 16, colorLabel)

	x := UI_MARGIN + text.BoundString(face, status).Dx() + 16
	if ui.seq.IsPlaying() {
		text.Draw(screen, "PLAY", face, x, 16, colorStepAccent)
	}
	if ui.seq.IsRecording() {
		text.Draw(screen, "REC", face, x+40, 16, colorRecord)
	}

	legend := "SPACE play  R rec  arrows bpm/swing  ^C/^V pattern  ESC quit"
	lx := max(UI_WIDTH-text.BoundString(face, legend).Dx()-UI_MARGIN, x+80)
	text.Draw(screen, legend, face, lx, 16, colorLabel)
}

func (ui *GrooveboxUI) drawWaveform(screen *ebiten.Image, pad, x, y, w, h int) {
	peaks, ok := ui.peaks[pad]
	if !ok {
		peaks = waveformPeaks(ui.bank.Waveform(pad), w)
		ui.peaks[pad] = peaks
	}
	mid := float32(y) + float32(h)/2
	for i, p := range peaks {
		ph := float32(p) / WAVEFORM_SCALE * float32(h) / 2
		vector.DrawFilledRect(screen, float32(x+i), mid-ph, 1, max(2*ph, 1), colorWave, false)
	}
}

func (ui *GrooveboxUI) Layout(outsideWidth, outsideHeight int) (int, int) {
	return UI_WIDTH, UI_HEIGHT
}
