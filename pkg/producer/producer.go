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

// Package producer defines the frame source contract and the registry
// producers are created through, modeled on the monitor package's
// hook/registry pattern: a small interface plus factories keyed by name.
package producer

import (
	"playout/pkg/frame"
)

// Field selects which field of an interlaced source to pull, or the whole
// frame for progressive sources.
type Field int

// Field values.
const (
	FieldProgressive Field = iota
	FieldA
	FieldB
	FieldBoth
)

// State reports what a producer is currently doing, for diagnostics.
type State map[string]string

// Producer is anything that can be asked for frames: a clip, a still, a
// color generator, a transition wrapper, or a route source.
type Producer interface {
	// Receive pulls the next frame for field, advancing internal position.
	Receive(field Field, nbSamples int) (frame.DrawFrame, error)
	// LastFrame returns the most recently produced frame without advancing.
	LastFrame(field Field) frame.DrawFrame
	// FirstFrame seeks to position zero and returns its frame, for preview.
	FirstFrame(field Field) frame.DrawFrame

	// NbFrames returns the total frame count, or -1 if unknown/unbounded.
	NbFrames() int64
	// FrameNumber returns the current read position.
	FrameNumber() int64

	// Call invokes a producer-specific command (AMCP-style parameter list)
	// and returns a textual reply.
	Call(params []string) (string, error)

	// LeadingProducer lets a producer observe the one it is about to
	// replace, to allow state handoff (e.g. a transition hooking onto it).
	LeadingProducer(leading Producer)
	// FollowingProducer returns the producer that should replace this one
	// once it completes, or nil.
	FollowingProducer() Producer

	// AutoPlayDelta returns the number of frames before the end at which
	// the layer should auto-advance to its background producer, or -1 if
	// auto-play is not requested.
	AutoPlayDelta() int64

	// IsReady reports whether the producer has buffered enough to play.
	IsReady() bool

	// State returns a diagnostics snapshot.
	State() State
	// Paused notifies the producer that layer playback paused or resumed.
	Paused(paused bool)

	// Name identifies the producer kind, e.g. "color", "separated".
	Name() string
	// Print returns a one-line human description, e.g. "color[FF0000FF]".
	Print() string
}

// Empty is the producer every layer holds before anything is loaded.
type emptyProducer struct{}

// Empty returns the shared no-op producer.
func Empty() Producer { return emptyProducer{} }

func (emptyProducer) Receive(Field, int) (frame.DrawFrame, error) { return frame.Empty(), nil }
func (emptyProducer) LastFrame(Field) frame.DrawFrame             { return frame.Empty() }
func (emptyProducer) FirstFrame(Field) frame.DrawFrame            { return frame.Empty() }
func (emptyProducer) NbFrames() int64                             { return 0 }
func (emptyProducer) FrameNumber() int64                          { return 0 }
func (emptyProducer) Call([]string) (string, error)               { return "", nil }
func (emptyProducer) LeadingProducer(Producer)                    {}
func (emptyProducer) FollowingProducer() Producer                 { return nil }
func (emptyProducer) AutoPlayDelta() int64                        { return -1 }
func (emptyProducer) IsReady() bool                               { return true }
func (emptyProducer) State() State                                { return State{"name": "empty"} }
func (emptyProducer) Paused(bool)                                 {}
func (emptyProducer) Name() string                                { return "empty" }
func (emptyProducer) Print() string                               { return "empty" }

// IsEmpty reports whether p is the shared empty producer.
func IsEmpty(p Producer) bool {
	_, ok := p.(emptyProducer)
	return ok
}
