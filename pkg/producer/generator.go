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
	"math"
	"strings"

	"playout/pkg/format"
	"playout/pkg/frame"
)

// generatorProducer synthesizes deterministic test-pattern frames: a
// moving color-bar pattern plus a sine-wave audio tone. Used by tests and
// as a placeholder source when no media backend is wired.
type generatorProducer struct {
	desc   format.Desc
	pos    int64
	toneHz float64
}

// NewGenerator builds a test-pattern producer.
func NewGenerator(desc format.Desc, toneHz float64) Producer {
	return &generatorProducer{desc: desc, toneHz: toneHz}
}

// GeneratorFactory claims []string{"[clip]GENERATOR"}.
func GeneratorFactory(desc format.Desc, params []string) (Producer, error) {
	if len(params) < 1 || !strings.EqualFold(params[0], "GENERATOR") {
		return nil, fmt.Errorf("generator: does not match")
	}
	return NewGenerator(desc, 440), nil
}

func (p *generatorProducer) Receive(field Field, nbSamples int) (frame.DrawFrame, error) {
	d := frame.NewBGRADesc(p.desc.Width, p.desc.Height)
	plane := make([]byte, d.Size())
	bars := [][4]byte{
		{255, 255, 255, 255}, {255, 255, 255, 0}, {255, 0, 255, 255},
		{255, 0, 255, 0}, {255, 0, 0, 255}, {255, 0, 0, 0},
	}
	barWidth := p.desc.Width / len(bars)
	if barWidth == 0 {
		barWidth = 1
	}
	shift := int(p.pos) % p.desc.Width
	for y := 0; y < p.desc.Height; y++ {
		for x := 0; x < p.desc.Width; x++ {
			bar := ((x + shift) / barWidth) % len(bars)
			c := bars[bar]
			i := (y*p.desc.Width + x) * 4
			plane[i+0], plane[i+1], plane[i+2], plane[i+3] = c[3], c[2], c[1], c[0]
		}
	}

	audio := make([]int32, nbSamples*p.desc.AudioChannels)
	const amplitude = 1 << 26
	for i := 0; i < nbSamples; i++ {
		sampleTime := float64(p.pos*int64(nbSamples)+int64(i)) / float64(p.desc.AudioSampleRate)
		v := int32(amplitude * math.Sin(2*math.Pi*p.toneHz*sampleTime))
		for c := 0; c < p.desc.AudioChannels; c++ {
			audio[i*p.desc.AudioChannels+c] = v
		}
	}

	p.pos++
	leaf := frame.NewConst(nil, d, [][]byte{plane}, audio)
	return frame.NewLeaf(leaf), nil
}

// LastFrame and FirstFrame return an empty frame: the generator keeps no
// produced frame, and FirstFrame does not rewind the pattern.
func (p *generatorProducer) LastFrame(field Field) frame.DrawFrame  { return frame.Empty() }
func (p *generatorProducer) FirstFrame(field Field) frame.DrawFrame { return frame.Empty() }
func (p *generatorProducer) NbFrames() int64                        { return -1 }
func (p *generatorProducer) FrameNumber() int64                     { return p.pos }
func (p *generatorProducer) Call([]string) (string, error) {
	return "", fmt.Errorf("generator: no commands")
}
func (p *generatorProducer) LeadingProducer(Producer)   {}
func (p *generatorProducer) FollowingProducer() Producer { return nil }
func (p *generatorProducer) AutoPlayDelta() int64        { return -1 }
func (p *generatorProducer) IsReady() bool               { return true }
func (p *generatorProducer) Paused(bool)                 {}
func (p *generatorProducer) Name() string                { return "generator" }
func (p *generatorProducer) Print() string               { return "generator[testpattern]" }
func (p *generatorProducer) State() State {
	return State{"name": p.Name(), "frame": fmt.Sprintf("%d", p.pos)}
}
