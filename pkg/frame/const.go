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

package frame

// constCore is the shared, reference-counted-by-the-GC representation
// backing every Const copy produced from the same source. Const's identity
// (equality, ordering) is the identity of this pointer.
type constCore struct {
	streamTag StreamTag
	desc      Desc
	geometry  Geometry
	planes    [][]byte
	audioData []int32
	opaque    interface{}
}

// Const is an immutable, cheap-to-copy handle to a composited or source
// frame. Two Const values compare equal iff they share the same
// underlying core.
type Const struct {
	core *constCore
}

func newConstFrame(tag StreamTag, desc Desc, geom Geometry, planes [][]byte, audio []int32, opaque interface{}) Const {
	return Const{core: &constCore{
		streamTag: tag,
		desc:      desc,
		geometry:  geom,
		planes:    planes,
		audioData: audio,
		opaque:    opaque,
	}}
}

// NewConst constructs a Const directly from read-only plane buffers and
// audio, without going through a Mutable/Commit cycle. Used by generator
// and color producers, and by the mixer to package its composited output.
func NewConst(tag StreamTag, desc Desc, planes [][]byte, audio []int32) Const {
	return newConstFrame(tag, desc, DefaultGeometry(), planes, audio, nil)
}

// IsValid reports "non-empty and valid format" — the bool-conversion
// semantics from the data model.
func (c Const) IsValid() bool {
	return c.core != nil && c.core.desc.Valid()
}

// Desc returns the pixel format descriptor.
func (c Const) Desc() Desc {
	if c.core == nil {
		return Desc{}
	}
	return c.core.desc
}

// Geometry returns the frame's texture geometry.
func (c Const) Geometry() Geometry {
	if c.core == nil {
		return Geometry{}
	}
	return c.core.geometry
}

// Planes returns the read-only image planes.
func (c Const) Planes() [][]byte {
	if c.core == nil {
		return nil
	}
	return c.core.planes
}

// AudioData returns the interleaved audio samples, or nil if this frame
// carries no audio.
func (c Const) AudioData() []int32 {
	if c.core == nil {
		return nil
	}
	return c.core.audioData
}

// StreamTag returns the identity used for audio cadence/volume bookkeeping.
func (c Const) StreamTag() StreamTag {
	if c.core == nil {
		return nil
	}
	return c.core.streamTag
}

// Opaque returns the GPU (or otherwise external) handle stashed by Commit,
// or nil if the frame was constructed directly.
func (c Const) Opaque() interface{} {
	if c.core == nil {
		return nil
	}
	return c.core.opaque
}

// Equal compares by identity of the shared inner representation.
func (c Const) Equal(o Const) bool {
	return c.core == o.core
}

// Less provides an arbitrary but stable pointer ordering, matching the
// data model's "ordering is pointer order".
func (c Const) Less(o Const) bool {
	return uintptr(ptrOf(c.core)) < uintptr(ptrOf(o.core))
}
