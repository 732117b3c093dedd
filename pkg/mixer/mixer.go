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

// Package mixer implements the frame_visitor that turns a tick's per-layer
// draw_frame tree into one composite const_frame: an AudioMixer that
// always runs, and a pluggable ImageMixer for video compositing.
package mixer

import (
	"playout/pkg/format"
	"playout/pkg/frame"
	"playout/pkg/future"
)

// ImageMixer is the pluggable video compositor contract: a frame_visitor
// that, once fed a tick's layers, yields the composited pixel planes.
type ImageMixer interface {
	frame.Visitor
	// Composite returns a future for the finished frame's pixel planes,
	// once every layer for this tick has been visited.
	Composite(desc frame.Desc) future.Future[[][]byte]
}

// Mixer combines an AudioMixer (always active) with a pluggable
// ImageMixer to produce one composite const_frame per tick. The composite
// is held behind a one-tick FIFO: Mix enqueues the tick it just built and
// returns the previous one, so the first call after construction returns
// an empty frame while the pipeline primes.
type Mixer struct {
	Audio *AudioMixer
	Image ImageMixer

	queue []frame.Const
}

// New returns a Mixer wrapping the given image compositor.
func New(image ImageMixer) *Mixer {
	return &Mixer{Audio: NewAudioMixer(), Image: image}
}

// Mix visits every layer's draw_frame (by ascending index, already applied
// by the stage) through both the audio and image mixers, enqueues the
// result on the one-tick FIFO, and returns the oldest queued composite (an
// empty const_frame while the queue is still priming).
func (m *Mixer) Mix(tickIndex uint64, videoDesc format.Desc, pixelDesc frame.Desc, layers map[int]frame.DrawFrame, indexes []int) (frame.Const, error) {
	nbSamples := videoDesc.CadenceAt(tickIndex)
	m.Audio.BeginTick(videoDesc, nbSamples)

	for _, idx := range indexes {
		df := layers[idx]
		df.Accept(m.Audio)
		df.WithLayerDepth(1).Accept(m.Image)
	}

	audio := m.Audio.FlushMixedSamples(nbSamples)

	fut := m.Image.Composite(pixelDesc)
	planes, err := fut.Await()
	if err != nil {
		return frame.Const{}, err
	}

	m.queue = append(m.queue, frame.NewConst(nil, pixelDesc, planes, audio))
	if len(m.queue) < 2 {
		return frame.Const{}, nil
	}
	out := m.queue[0]
	m.queue = m.queue[1:]
	return out, nil
}
