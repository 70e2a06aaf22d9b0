// ui_layout.go - Screen geometry for the pad and step grid view

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

import "image"

const (
	UI_WIDTH       = 800
	UI_HEIGHT      = 600
	UI_MARGIN      = 8
	UI_STATUS_H    = 24
	UI_PAD_COLUMNS = 8
	UI_PAD_H       = 64
	UI_GAP         = 4
	UI_LABEL_W     = 96
	UI_ROW_H       = 22
)

// uiLayout places pad tiles in rows of UI_PAD_COLUMNS and the step grid below
// them, one row per track.
type uiLayout struct {
	pads  int
	steps int
}

func (l uiLayout) padRect(i int) image.Rectangle {
	w := (UI_WIDTH - 2*UI_MARGIN - (UI_PAD_COLUMNS-1)*UI_GAP) / UI_PAD_COLUMNS
	col, row := i%UI_PAD_COLUMNS, i/UI_PAD_COLUMNS
	x := UI_MARGIN + col*(w+UI_GAP)
	y := UI_STATUS_H + UI_MARGIN + row*(UI_PAD_H+UI_GAP)
	return image.Rect(x, y, x+w, y+UI_PAD_H)
}

func (l uiLayout) gridTop() int {
	rows := (l.pads + UI_PAD_COLUMNS - 1) / UI_PAD_COLUMNS
	return UI_STATUS_H + UI_MARGIN + rows*(UI_PAD_H+UI_GAP) + UI_MARGIN
}

func (l uiLayout) cellWidth() int {
	if l.steps == 0 {
		return 0
	}
	return (UI_WIDTH - 2*UI_MARGIN - UI_LABEL_W) / l.steps
}

func (l uiLayout) cellRect(track, step int) image.Rectangle {
	w := l.cellWidth()
	x := UI_MARGIN + UI_LABEL_W + step*w
	y := l.gridTop() + track*UI_ROW_H
	return image.Rect(x, y, x+w-2, y+UI_ROW_H-2)
}

// padAt returns the pad tile index under a point.
func (l uiLayout) padAt(x, y int) (int, bool) {
	p := image.Pt(x, y)
	for i := 0; i < l.pads; i++ {
		if p.In(l.padRect(i)) {
			return i, true
		}
	}
	return 0, false
}

// cellAt returns the track and step under a point.
func (l uiLayout) cellAt(x, y int) (track, step int, ok bool) {
	w := l.cellWidth()
	if w == 0 {
		return 0, 0, false
	}
	gx := x - UI_MARGIN - UI_LABEL_W
	gy := y - l.gridTop()
	if gx < 0 || gy < 0 {
		return 0, 0, false
	}
	track, step = gy/UI_ROW_H, gx/w
	if track >= l.pads || step >= l.steps {
		return 0, 0, false
	}
	return track, step, true
}

// waveformPeaks reduces an interleaved int16 buffer to one peak per column.
func waveformPeaks(wave []int16, columns int) []int16 {
	frames := len(wave) / 2
	if frames == 0 || columns <= 0 {
		return nil
	}
	peaks := make([]int16, columns)
	for c := 0; c < columns; c++ {
		from := c * frames / columns
		to := max((c+1)*frames/columns, from+1)
		var peak int16
		for f := from; f < to && f < frames; f++ {
			for _, v := range wave[f*2 : f*2+2] {
				if v < 0 {
					v = -max(v, -32767)
				}
				peak = max(peak, v)
			}
		}
		peaks[c] = peak
	}
	return peaks
}
