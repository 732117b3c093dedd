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

// Package imagemixer is the reference CPU image_mixer: a frame_visitor
// that composites a tick's layers, back to front, via alpha-over blending,
// scaled and translated per layer using x/image/draw.
package imagemixer

import (
	"image"
	"image/draw"

	ximage "golang.org/x/image/draw"

	"playout/pkg/frame"
	"playout/pkg/future"
)

type layerEntry struct {
	transform frame.Transform
	img       *image.NRGBA
}

// Mixer is the reference image_mixer.
type Mixer struct {
	stack   []frame.Transform
	layers  []layerEntry
	pending *image.NRGBA // set by Visit, consumed on Pop at depth 1
}

// New returns an empty reference image mixer.
func New() *Mixer { return &Mixer{} }

// Push records transform onto the composition stack.
func (m *Mixer) Push(t frame.Transform) {
	top := frame.Default()
	if len(m.stack) > 0 {
		top = m.stack[len(m.stack)-1]
	}
	m.stack = append(m.stack, top.Mul(t))
}

// Pop closes the current composition scope. At top level (the layer's own
// Push/Pop pair) it commits the last leaf visited within as the layer's
// composited entry, placed with the top-level transform; earlier leaves of
// the same layer and the transforms of nested nodes are not composited.
func (m *Mixer) Pop() {
	if len(m.stack) == 0 {
		return
	}
	if len(m.stack) == 1 && m.pending != nil {
		m.layers = append(m.layers, layerEntry{transform: m.stack[0], img: m.pending})
		m.pending = nil
	}
	m.stack = m.stack[:len(m.stack)-1]
}

// Visit converts a leaf const_frame's BGRA plane into an image.NRGBA ready
// for compositing.
func (m *Mixer) Visit(c frame.Const) {
	if !c.IsValid() {
		return
	}
	desc := c.Desc()
	if len(desc.Planes) == 0 {
		return
	}
	w, h := desc.Planes[0].Width, desc.Planes[0].Height
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	src := c.Planes()[0]
	for y := 0; y < h; y++ {
		srcRow := src[y*desc.Planes[0].Stride : y*desc.Planes[0].Stride+w*4]
		dstRow := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			b, g, r, a := srcRow[x*4+0], srcRow[x*4+1], srcRow[x*4+2], srcRow[x*4+3]
			dstRow[x*4+0], dstRow[x*4+1], dstRow[x*4+2], dstRow[x*4+3] = r, g, b, a
		}
	}
	m.pending = img
}

// Composite blends every committed layer back-to-front into a frame of
// the requested pixel format, returning it as a future the way the mixer
// contract specifies (the caller may Await immediately; this reference
// implementation has no actual concurrency to offer).
func (m *Mixer) Composite(desc frame.Desc) future.Future[[][]byte] {
	w, h := 0, 0
	if len(desc.Planes) > 0 {
		w, h = desc.Planes[0].Width, desc.Planes[0].Height
	}
	canvas := image.NewNRGBA(image.Rect(0, 0, w, h))

	for _, l := range m.layers {
		placed := place(l.img, l.transform, w, h)
		if l.transform.Image.Opacity < 1 {
			mask := image.NewUniform(alphaFromOpacity(l.transform.Image.Opacity))
			draw.DrawMask(canvas, canvas.Bounds(), placed, image.Point{}, mask, image.Point{}, draw.Over)
		} else {
			draw.Draw(canvas, canvas.Bounds(), placed, image.Point{}, draw.Over)
		}
	}

	m.layers = nil

	plane := nrgbaToBGRA(canvas)
	return future.Ready([][]byte{plane}, nil)
}

// place scales and translates src per transform's fill scale/translation
// into a w x h canvas-sized image, using x/image/draw's high quality
// scaler.
func place(src *image.NRGBA, t frame.Transform, w, h int) *image.NRGBA {
	dstW := int(float64(w) * t.Image.FillScale.X)
	dstH := int(float64(h) * t.Image.FillScale.Y)
	if dstW <= 0 {
		dstW = 1
	}
	if dstH <= 0 {
		dstH = 1
	}

	scaled := image.NewNRGBA(image.Rect(0, 0, dstW, dstH))
	ximage.CatmullRom.Scale(scaled, scaled.Bounds(), src, src.Bounds(), ximage.Over, nil)

	x0 := int(t.Image.FillTranslation.X * float64(w))
	y0 := int(t.Image.FillTranslation.Y * float64(h))

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, image.Rect(x0, y0, x0+dstW, y0+dstH), scaled, image.Point{}, draw.Src)
	return out
}

func alphaFromOpacity(o float64) color16 {
	if o < 0 {
		o = 0
	}
	if o > 1 {
		o = 1
	}
	return color16{a: uint8(o * 255)}
}

// color16 implements image/color.Color as a flat alpha mask.
type color16 struct{ a uint8 }

func (c color16) RGBA() (r, g, b, a uint32) {
	v := uint32(c.a) * 0x101
	return v, v, v, v
}

func nrgbaToBGRA(img *image.NRGBA) []byte {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	out := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		srcRow := img.Pix[y*img.Stride : y*img.Stride+w*4]
		dstRow := out[y*w*4 : y*w*4+w*4]
		for x := 0; x < w; x++ {
			r, g, b, a := srcRow[x*4+0], srcRow[x*4+1], srcRow[x*4+2], srcRow[x*4+3]
			dstRow[x*4+0], dstRow[x*4+1], dstRow[x*4+2], dstRow[x*4+3] = b, g, r, a
		}
	}
	return out
}
