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

// Vertex is one corner of a geometry quad.
type Vertex struct {
	VertexX, VertexY   float64
	TextureX, TextureY float64
	TextureR, TextureQ float64
}

// Geometry is a quad: exactly four vertices.
type Geometry struct {
	Vertices [4]Vertex
}

// DefaultGeometry is the unit quad with 1:1 texture mapping.
func DefaultGeometry() Geometry {
	return Geometry{Vertices: [4]Vertex{
		{VertexX: 0, VertexY: 0, TextureX: 0, TextureY: 0, TextureR: 1, TextureQ: 1},
		{VertexX: 1, VertexY: 0, TextureX: 1, TextureY: 0, TextureR: 1, TextureQ: 1},
		{VertexX: 1, VertexY: 1, TextureX: 1, TextureY: 1, TextureR: 1, TextureQ: 1},
		{VertexX: 0, VertexY: 1, TextureX: 0, TextureY: 1, TextureR: 1, TextureQ: 1},
	}}
}

// VFlipGeometry is the unit quad with the texture coordinates flipped
// vertically.
func VFlipGeometry() Geometry {
	g := DefaultGeometry()
	g.Vertices[0].TextureY, g.Vertices[3].TextureY = g.Vertices[3].TextureY, g.Vertices[0].TextureY
	g.Vertices[1].TextureY, g.Vertices[2].TextureY = g.Vertices[2].TextureY, g.Vertices[1].TextureY
	return g
}
