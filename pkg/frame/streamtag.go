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

// StreamTag is an opaque identity the audio mixer uses to keep per-source
// cadence carryover and volume memory across ticks. Each producer owns
// exactly one, allocated once at construction.
type StreamTag = *streamTagHandle

type streamTagHandle struct{ name string }

// NewStreamTag allocates a fresh, unique stream tag. name is for
// diagnostics only; identity is the pointer.
func NewStreamTag(name string) StreamTag {
	return &streamTagHandle{name: name}
}

// String returns the tag's diagnostic name.
func (h *streamTagHandle) String() string {
	if h == nil {
		return "<nil>"
	}
	return h.name
}
