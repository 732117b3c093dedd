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
	"fmt"

	"playout/pkg/frame"
)

// separatedProducer pairs a fill and a key producer field-for-field,
// masking the fill's alpha with the key's luma each tick.
type separatedProducer struct {
	fill, key Producer
}

// NewSeparated pairs fill and key into one producer whose output is
// draw_frame::mask(fill, key).
func NewSeparated(fill, key Producer) Producer {
	return &separatedProducer{fill: fill, key: key}
}

func (p *separatedProducer) Receive(field Field, nbSamples int) (frame.DrawFrame, error) {
	fillFrame, err := p.fill.Receive(field, nbSamples)
	if err != nil {
		return frame.DrawFrame{}, fmt.Errorf("separated: fill: %w", err)
	}
	keyFrame, err := p.key.Receive(field, 0)
	if err != nil {
		return frame.DrawFrame{}, fmt.Errorf("separated: key: %w", err)
	}
	return frame.Mask(fillFrame, keyFrame), nil
}

func (p *separatedProducer) LastFrame(field Field) frame.DrawFrame {
	return frame.Mask(p.fill.LastFrame(field), p.key.LastFrame(field))
}

func (p *separatedProducer) FirstFrame(field Field) frame.DrawFrame {
	return frame.Mask(p.fill.FirstFrame(field), p.key.FirstFrame(field))
}

func (p *separatedProducer) NbFrames() int64 {
	fillN, keyN := p.fill.NbFrames(), p.key.NbFrames()
	if fillN < 0 {
		return keyN
	}
	if keyN < 0 {
		return fillN
	}
	if fillN < keyN {
		return fillN
	}
	return keyN
}

func (p *separatedProducer) FrameNumber() int64 { return p.fill.FrameNumber() }

func (p *separatedProducer) Call(params []string) (string, error) { return p.fill.Call(params) }

func (p *separatedProducer) LeadingProducer(leading Producer) {
	p.fill.LeadingProducer(leading)
}

func (p *separatedProducer) FollowingProducer() Producer {
	if f := p.fill.FollowingProducer(); f != nil {
		return f
	}
	return nil
}

func (p *separatedProducer) AutoPlayDelta() int64 { return p.fill.AutoPlayDelta() }

func (p *separatedProducer) IsReady() bool { return p.fill.IsReady() && p.key.IsReady() }

func (p *separatedProducer) Paused(paused bool) {
	p.fill.Paused(paused)
	p.key.Paused(paused)
}

func (p *separatedProducer) Name() string { return "separated" }

func (p *separatedProducer) Print() string {
	return fmt.Sprintf("separated[%s|%s]", p.fill.Print(), p.key.Print())
}

func (p *separatedProducer) State() State {
	return State{"name": p.Name(), "fill": p.fill.Print(), "key": p.key.Print()}
}
