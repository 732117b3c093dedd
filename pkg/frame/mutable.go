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

// CommitFunc uploads a mutable frame's planes (to the GPU, typically) and
// returns an opaque handle that the resulting const_frame carries.
type CommitFunc func(planes [][]byte) (opaque interface{}, err error)

// Mutable is a writable frame tied to a producer's stream tag. It owns its
// image planes and interleaved audio buffer until Freeze converts it into
// an immutable Const.
type Mutable struct {
	StreamTag StreamTag
	Desc      Desc
	Geometry  Geometry
	Planes    [][]byte
	AudioData []int32
	Commit    CommitFunc
}

// NewMutable allocates zeroed planes sized per desc.
func NewMutable(tag StreamTag, desc Desc) *Mutable {
	planes := make([][]byte, len(desc.Planes))
	for i, p := range desc.Planes {
		planes[i] = make([]byte, p.Size())
	}
	return &Mutable{
		StreamTag: tag,
		Desc:      desc,
		Geometry:  DefaultGeometry(),
		Planes:    planes,
	}
}

// Freeze consumes the mutable frame: it runs Commit (if set) and returns
// an immutable Const carrying the resulting opaque handle, the raw planes,
// and the audio data.
func (m *Mutable) Freeze() (Const, error) {
	var opaque interface{}
	if m.Commit != nil {
		var err error
		opaque, err = m.Commit(m.Planes)
		if err != nil {
			return Const{}, err
		}
	}
	return newConstFrame(m.StreamTag, m.Desc, m.Geometry, m.Planes, m.AudioData, opaque), nil
}
