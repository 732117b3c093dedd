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

// Package frame implements the zero-copy frame composition tree: pixel
// formats, geometry, mutable and immutable frames, transforms and the
// recursive draw_frame tree that the mixer walks every tick.
package frame

// PixelFormat tags the layout of a frame's planes.
type PixelFormat int

// Pixel formats, matching the tagged variant in the data model.
const (
	PixelFormatInvalid PixelFormat = iota
	PixelFormatGray
	PixelFormatBGRA
	PixelFormatRGBA
	PixelFormatARGB
	PixelFormatABGR
	PixelFormatYCbCr
	PixelFormatYCbCrA
	PixelFormatLuma
	PixelFormatBGR
	PixelFormatRGB
	PixelFormatUYVY
)

// Plane describes one image plane's memory layout.
type Plane struct {
	Width  int
	Height int
	Stride int // bytes per pixel for this plane
}

// Linesize is the number of bytes per row.
func (p Plane) Linesize() int {
	return p.Width * p.Stride
}

// Size is the total byte size of the plane.
func (p Plane) Size() int {
	return p.Width * p.Height * p.Stride
}

// Desc describes a frame's pixel format: its tag and plane layout.
type Desc struct {
	Format PixelFormat
	Planes []Plane
}

// Size is the sum of all plane sizes.
func (d Desc) Size() int {
	total := 0
	for _, p := range d.Planes {
		total += p.Size()
	}
	return total
}

// Valid reports whether the descriptor carries a usable format and planes.
func (d Desc) Valid() bool {
	return d.Format != PixelFormatInvalid && len(d.Planes) > 0
}

// NewBGRADesc returns the single-plane BGRA descriptor the reference
// image_mixer emits, sized for width x height.
func NewBGRADesc(width, height int) Desc {
	return Desc{
		Format: PixelFormatBGRA,
		Planes: []Plane{{Width: width, Height: height, Stride: 4}},
	}
}
