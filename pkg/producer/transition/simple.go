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

// Package transition wraps a (source, destination) producer pair behind a
// counter-driven Producer that exposes the destination as its
// FollowingProducer once the transition completes — the layer swaps to it
// transparently, the way a real cut never outlives a single tick.
package transition

import (
	"fmt"

	"playout/pkg/frame"
	"playout/pkg/producer"
)

// Type names a simple transition's visual style.
type Type int

// Simple transition types.
const (
	Cut Type = iota
	Mix
	Push
	Slide
	Wipe
)

// Direction names the axis a push/slide/wipe travels along.
type Direction int

// Directions.
const (
	FromLeft Direction = iota
	FromRight
	FromTop
	FromBottom
)

// Info configures a simple transition.
type Info struct {
	Type      Type
	Duration  int // ticks
	Direction Direction
	TweenName string // reserved for named easing curves; "" means linear
}

type simple struct {
	source, dest producer.Producer
	info         Info
	frameNumber  int64
}

// NewSimple wraps source/dest behind a simple transition. A Cut with
// duration 0 (or Duration<=0 for Cut specifically) behaves like an
// instantaneous switch: the first Receive already returns dest's frame,
// matching CasparCG's historical "cut on the same tick it is requested"
// quirk.
func NewSimple(source, dest producer.Producer, info Info) producer.Producer {
	if info.Type == Cut {
		info.Duration = 0
	}
	if info.Duration < 0 {
		info.Duration = 0
	}
	return &simple{source: source, dest: dest, info: info}
}

func (s *simple) done() bool { return s.frameNumber >= int64(s.info.Duration) }

func (s *simple) Receive(field producer.Field, nbSamples int) (frame.DrawFrame, error) {
	if s.done() {
		return s.dest.Receive(field, nbSamples)
	}

	destFrame, err := s.dest.Receive(field, nbSamples)
	if err != nil {
		return frame.DrawFrame{}, fmt.Errorf("transition: dest: %w", err)
	}
	srcFrame, err := s.source.Receive(field, nbSamples)
	if err != nil {
		srcFrame = frame.Empty()
	}

	progress := 0.0
	if s.info.Duration > 0 {
		progress = float64(s.frameNumber) / float64(s.info.Duration)
	}
	s.frameNumber++

	return compose(s.info, srcFrame, destFrame, progress), nil
}

// compose builds the transition's composite tree for one tick's progress
// in [0,1). Mix cross-fades opacity; push/slide/wipe translate the
// incoming and outgoing content along the transition's axis.
func compose(info Info, src, dst frame.DrawFrame, progress float64) frame.DrawFrame {
	switch info.Type {
	case Cut:
		return dst
	case Mix:
		dst.Transform.Image.Opacity = progress
		src.Transform.Image.Opacity = 1 - progress
		return frame.Over(src, dst)
	case Push, Slide, Wipe:
		dx, dy := axisDelta(info.Direction, progress)
		dst.Transform.Image.FillTranslation.X += dx
		dst.Transform.Image.FillTranslation.Y += dy
		if info.Type == Push {
			sdx, sdy := axisDelta(info.Direction, progress-1)
			src.Transform.Image.FillTranslation.X += sdx
			src.Transform.Image.FillTranslation.Y += sdy
		}
		return frame.Over(src, dst)
	default:
		return dst
	}
}

func axisDelta(dir Direction, progress float64) (float64, float64) {
	switch dir {
	case FromLeft:
		return -(1 - progress), 0
	case FromRight:
		return (1 - progress), 0
	case FromTop:
		return 0, -(1 - progress)
	case FromBottom:
		return 0, (1 - progress)
	default:
		return 0, 0
	}
}

func (s *simple) LastFrame(field producer.Field) frame.DrawFrame {
	return s.dest.LastFrame(field)
}
func (s *simple) FirstFrame(field producer.Field) frame.DrawFrame {
	return s.dest.FirstFrame(field)
}
func (s *simple) NbFrames() int64     { return s.dest.NbFrames() }
func (s *simple) FrameNumber() int64  { return s.frameNumber }
func (s *simple) Call(params []string) (string, error) {
	return s.dest.Call(params)
}
// LeadingProducer captures the producer this transition is replacing as its
// source — the layer calls this exactly once, at play time, when the
// transition was staged as a background with only its destination known.
func (s *simple) LeadingProducer(leading producer.Producer) {
	s.source = leading
	s.dest.LeadingProducer(leading)
}
func (s *simple) FollowingProducer() producer.Producer {
	if s.done() {
		return s.dest
	}
	return nil
}
func (s *simple) AutoPlayDelta() int64 { return s.dest.AutoPlayDelta() }
func (s *simple) IsReady() bool        { return s.dest.IsReady() }
func (s *simple) Paused(paused bool) {
	s.source.Paused(paused)
	s.dest.Paused(paused)
}
func (s *simple) Name() string { return "transition" }
func (s *simple) Print() string {
	return fmt.Sprintf("transition[%s->%s]", s.source.Print(), s.dest.Print())
}
func (s *simple) State() producer.State {
	return producer.State{
		"name":     s.Name(),
		"progress": fmt.Sprintf("%d/%d", s.frameNumber, s.info.Duration),
	}
}
