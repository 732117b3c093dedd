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

import "playout/pkg/frame"

// stillProducer freezes a single draw_frame, repeating it forever. Used to
// hand a transition a frozen snapshot of a layer's previous foreground when
// that foreground is itself the empty producer — `play()`'s
// "foreground or still(foreground.last_frame())" fallback.
type stillProducer struct {
	df frame.DrawFrame
}

// NewStill wraps a single frame as an unbounded still producer.
func NewStill(df frame.DrawFrame) Producer {
	return &stillProducer{df: df}
}

func (p *stillProducer) Receive(Field, int) (frame.DrawFrame, error) { return p.df, nil }
func (p *stillProducer) LastFrame(Field) frame.DrawFrame             { return p.df }
func (p *stillProducer) FirstFrame(Field) frame.DrawFrame            { return p.df }
func (p *stillProducer) NbFrames() int64                             { return -1 }
func (p *stillProducer) FrameNumber() int64                          { return 0 }
func (p *stillProducer) Call([]string) (string, error) {
	return "", nil
}
func (p *stillProducer) LeadingProducer(Producer)     {}
func (p *stillProducer) FollowingProducer() Producer  { return nil }
func (p *stillProducer) AutoPlayDelta() int64         { return -1 }
func (p *stillProducer) IsReady() bool                { return true }
func (p *stillProducer) Paused(bool)                  {}
func (p *stillProducer) Name() string                 { return "still" }
func (p *stillProducer) Print() string                { return "still" }
func (p *stillProducer) State() State                 { return State{"name": p.Name()} }
