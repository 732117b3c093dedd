// Copyright 2020-2026 The Playout Authors.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; version 2.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package producer

import (
	"encoding/hex"
	"fmt"
	"strings"

	"playout/pkg/format"
	"playout/pkg/frame"
)

// colorProducer is a still, unbounded solid-color frame source.
type colorProducer struct {
	argb [4]byte // a, r, g, b
	leaf frame.Const
}

// NewColor builds a producer for a "#AARRGGBB" or "#RRGGBB" hex string.
func NewColor(desc format.Desc, hexColor string) (Producer, error) {
	argb, err := parseColor(hexColor)
	if err != nil {
		return nil, err
	}

	d := frame.NewBGRADesc(desc.Width, desc.Height)
	plane := make([]byte, d.Size())
	for i := 0; i+4 <= len(plane); i += 4 {
		plane[i+0] = argb[3] // B
		plane[i+1] = argb[2] // G
		plane[i+2] = argb[1] // R
		plane[i+3] = argb[0] // A
	}

	leaf := frame.NewConst(nil, d, [][]byte{plane}, nil)
	return &colorProducer{argb: argb, leaf: leaf}, nil
}

func parseColor(s string) ([4]byte, error) {
	s = strings.TrimPrefix(s, "#")
	var raw []byte
	var err error
	switch len(s) {
	case 6:
		raw, err = hex.DecodeString(s)
		if err == nil {
			raw = append([]byte{0xFF}, raw...)
		}
	case 8:
		raw, err = hex.DecodeString(s)
	default:
		err = fmt.Errorf("color: invalid length")
	}
	if err != nil {
		return [4]byte{}, fmt.Errorf("color: invalid color %q: %w", s, err)
	}
	return [4]byte{raw[0], raw[1], raw[2], raw[3]}, nil
}

// ColorFactory claims params of the form []string{"[clip]COLOR", "<hex>"}.
func ColorFactory(desc format.Desc, params []string) (Producer, error) {
	if len(params) < 2 || !strings.EqualFold(params[0], "COLOR") {
		return nil, fmt.Errorf("color: does not match")
	}
	return NewColor(desc, params[1])
}

func (p *colorProducer) Receive(Field, int) (frame.DrawFrame, error) {
	return frame.NewLeaf(p.leaf), nil
}
func (p *colorProducer) LastFrame(Field) frame.DrawFrame  { return frame.NewLeaf(p.leaf) }
func (p *colorProducer) FirstFrame(Field) frame.DrawFrame { return frame.NewLeaf(p.leaf) }
func (p *colorProducer) NbFrames() int64                  { return -1 }
func (p *colorProducer) FrameNumber() int64                { return 0 }
func (p *colorProducer) Call([]string) (string, error)    { return "", fmt.Errorf("color: no commands") }
func (p *colorProducer) LeadingProducer(Producer)          {}
func (p *colorProducer) FollowingProducer() Producer        { return nil }
func (p *colorProducer) AutoPlayDelta() int64               { return -1 }
func (p *colorProducer) IsReady() bool                      { return true }
func (p *colorProducer) Paused(bool)                        {}
func (p *colorProducer) Name() string                       { return "color" }
func (p *colorProducer) Print() string {
	return fmt.Sprintf("color[%02X%02X%02X%02X]", p.argb[0], p.argb[1], p.argb[2], p.argb[3])
}
func (p *colorProducer) State() State {
	return State{"name": p.Name(), "color": p.Print()}
}
