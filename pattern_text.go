// pattern_text.go - Plain text step grid for copy and paste

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
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Pattern text is one line per track, "<pad>: <steps>", where '.' is off,
// 'x' normal and 'X' accent. Spaces inside the step field are ignored so bars
// can be grouped. An optional "bpm: <n>" line carries the tempo.

const (
	STEP_CHAR_OFF    = '.'
	STEP_CHAR_NORMAL = 'x'
	STEP_CHAR_ACCENT = 'X'
)

func (p *Pattern) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "bpm: %s\n", strconv.FormatFloat(p.BPM, 'f', -1, 64))
	for _, t := range p.Tracks {
		fmt.Fprintf(&buf, "%d: ", t.Pad)
		for i, st := range t.Steps {
			if i > 0 && i%4 == 0 {
				buf.WriteByte(' ')
			}
			buf.WriteByte(stepChar(st))
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func (p *Pattern) UnmarshalText(text []byte) error {
	parsed, err := ParsePatternText(text)
	if err != nil {
		return err
	}
	*p = *parsed
	return nil
}

// ParsePatternText reads a pattern written by MarshalText. Every track must
// have the same number of steps.
func ParsePatternText(text []byte) (*Pattern, error) {
	p := &Pattern{}
	scanner := bufio.NewScanner(bytes.NewReader(text))
	line := 0
	for scanner.Scan() {
		line++
		s := strings.TrimSpace(scanner.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		head, body, ok := strings.Cut(s, ":")
		if !ok {
			return nil, errors.Errorf("pattern line %d: missing ':'", line)
		}
		head = strings.TrimSpace(head)
		body = strings.TrimSpace(body)

		if strings.EqualFold(head, "bpm") {
			bpm, err := strconv.ParseFloat(body, 64)
			if err != nil || bpm <= 0 {
				return nil, errors.Errorf("pattern line %d: bad bpm %q", line, body)
			}
			p.BPM = bpm
			continue
		}

		pad, err := strconv.Atoi(head)
		if err != nil {
			return nil, errors.Wrapf(err, "pattern line %d: pad id", line)
		}
		steps, err := parseSteps(body)
		if err != nil {
			return nil, errors.Wrapf(err, "pattern line %d", line)
		}
		if p.BeatsPerBar == 0 {
			p.BeatsPerBar = len(steps)
		} else if len(steps) != p.BeatsPerBar {
			return nil, errors.Errorf("pattern line %d: %d steps, expected %d", line, len(steps), p.BeatsPerBar)
		}
		if p.track(pad) != nil {
			return nil, errors.Errorf("pattern line %d: pad %d listed twice", line, pad)
		}
		p.Tracks = append(p.Tracks, Track{Pad: pad, Steps: steps})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read pattern")
	}
	if len(p.Tracks) == 0 {
		return nil, errors.New("pattern has no tracks")
	}
	return p, nil
}

// MergePattern copies the steps of src onto the tracks of dst that share a
// pad id, truncating or padding with silence to dst's length. The tempo is
// taken from src unclamped; Sequencer.SetPattern bounds it.
func MergePattern(dst, src *Pattern) *Pattern {
	out := dst.Clone()
	if src.BPM > 0 {
		out.BPM = src.BPM
	}
	for i := range out.Tracks {
		from := src.track(out.Tracks[i].Pad)
		if from == nil {
			continue
		}
		clear(out.Tracks[i].Steps)
		copy(out.Tracks[i].Steps, from.Steps)
	}
	return out
}

func parseSteps(s string) ([]StepState, error) {
	var steps []StepState
	for _, r := range s {
		switch r {
		case ' ', '\t', '|':
		case STEP_CHAR_OFF, '-', '0':
			steps = append(steps, STEP_OFF)
		case STEP_CHAR_NORMAL, '1':
			steps = append(steps, STEP_NORMAL)
		case STEP_CHAR_ACCENT, '2':
			steps = append(steps, STEP_ACCENT)
		default:
			return nil, errors.Errorf("unknown step %q", r)
		}
	}
	if len(steps) == 0 {
		return nil, errors.New("no steps")
	}
	return steps, nil
}

func stepChar(st StepState) byte {
	switch st {
	case STEP_NORMAL:
		return STEP_CHAR_NORMAL
	case STEP_ACCENT:
		return STEP_CHAR_ACCENT
	}
	return STEP_CHAR_OFF
}
