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

// BlendMode selects how a layer composites onto what is beneath it.
type BlendMode int

// Blend modes, ordered so that composing two transforms can take the max.
const (
	BlendNormal BlendMode = iota
	BlendLighten
	BlendDarken
	BlendMultiply
	BlendAverage
	BlendAdd
	BlendSubtract
	BlendDifference
	BlendNegation
	BlendExclusion
	BlendScreen
	BlendOverlay
	BlendSoftLight
	BlendHardLight
	BlendColorDodge
	BlendColorBurn
	BlendLinearDodge
	BlendLinearBurn
	BlendLinearLight
	BlendVividLight
	BlendPinLight
	BlendHardMix
	BlendReflect
	BlendGlow
	BlendPhoenix
	BlendContrast
	BlendSaturation
	BlendColor
	BlendLuminosity
)

// Point2D is a 2D float coordinate.
type Point2D struct{ X, Y float64 }

// Rect is an axis aligned crop rectangle in unit (0..1) coordinates.
type Rect struct {
	UpperLeftX, UpperLeftY   float64
	LowerRightX, LowerRightY float64
}

// DefaultRect covers the whole frame.
func DefaultRect() Rect {
	return Rect{UpperLeftX: 0, UpperLeftY: 0, LowerRightX: 1, LowerRightY: 1}
}

// Perspective is a four corner quadrilateral warp.
type Perspective struct {
	UpperLeft, UpperRight, LowerLeft, LowerRight Point2D
}

// DefaultPerspective is the identity quad.
func DefaultPerspective() Perspective {
	return Perspective{
		UpperLeft:  Point2D{0, 0},
		UpperRight: Point2D{1, 0},
		LowerLeft:  Point2D{0, 1},
		LowerRight: Point2D{1, 1},
	}
}

// Levels remaps the input range to the output range through gamma.
type Levels struct {
	MinInput, MaxInput   float64
	Gamma                float64
	MinOutput, MaxOutput float64
}

// DefaultLevels is the identity mapping.
func DefaultLevels() Levels {
	return Levels{MinInput: 0, MaxInput: 1, Gamma: 1, MinOutput: 0, MaxOutput: 1}
}

// Chroma configures chroma keying.
type Chroma struct {
	Enable               bool
	ShowMask             bool
	TargetHue            float64
	HueWidth             float64
	MinSaturation        float64
	MinBrightness        float64
	Softness             float64
	SpillSuppress        float64
	SpillSuppressSaturation float64
}

// ImageTransform is the image part of a frame_transform.
type ImageTransform struct {
	Opacity    float64
	Contrast   float64
	Brightness float64
	Saturation float64

	Anchor         Point2D
	FillTranslation Point2D
	FillScale      Point2D
	ClipTranslation Point2D
	ClipScale      Point2D
	Angle          float64

	Crop        Rect
	Perspective Perspective
	Levels      Levels
	Chroma      Chroma

	IsKey  bool
	Invert bool
	IsMix  bool

	BlendMode  BlendMode
	LayerDepth int
}

// DefaultImageTransform is the identity image transform.
func DefaultImageTransform() ImageTransform {
	return ImageTransform{
		Opacity:         1,
		Contrast:        1,
		Brightness:      1,
		Saturation:      1,
		FillScale:       Point2D{1, 1},
		ClipScale:       Point2D{1, 1},
		Crop:            DefaultRect(),
		Perspective:     DefaultPerspective(),
		Levels:          DefaultLevels(),
		BlendMode:       BlendNormal,
		LayerDepth:      0,
	}
}

// AudioTransform is the audio part of a frame_transform.
type AudioTransform struct {
	Volume          float64
	ImmediateVolume bool
}

// DefaultAudioTransform is the identity audio transform.
func DefaultAudioTransform() AudioTransform {
	return AudioTransform{Volume: 1}
}

// SideDataTransform carries side-channel toggles.
type SideDataTransform struct {
	UseClosedCaptions bool
}

// Transform is the product of the image, audio and side-data transforms
// that every draw_frame node carries.
type Transform struct {
	Image    ImageTransform
	Audio    AudioTransform
	SideData SideDataTransform
}

// Default returns the identity transform.
func Default() Transform {
	return Transform{
		Image: DefaultImageTransform(),
		Audio: DefaultAudioTransform(),
	}
}

// Mul composes two transforms: numeric fields multiply pointwise, sticky
// booleans OR, blend_mode takes the max, layer_depth takes the destination
// (the argument o plays the role of "dst": its layer_depth, crop,
// perspective, levels and chroma replace the receiver's).
func (t Transform) Mul(o Transform) Transform {
	out := Transform{
		Image: ImageTransform{
			Opacity:         t.Image.Opacity * o.Image.Opacity,
			Contrast:        t.Image.Contrast * o.Image.Contrast,
			Brightness:      t.Image.Brightness * o.Image.Brightness,
			Saturation:      t.Image.Saturation * o.Image.Saturation,
			Anchor:          addPoint(t.Image.Anchor, o.Image.Anchor),
			FillTranslation: addPoint(t.Image.FillTranslation, o.Image.FillTranslation),
			FillScale:       mulPoint(t.Image.FillScale, o.Image.FillScale),
			ClipTranslation: addPoint(t.Image.ClipTranslation, o.Image.ClipTranslation),
			ClipScale:       mulPoint(t.Image.ClipScale, o.Image.ClipScale),
			Angle:           t.Image.Angle + o.Image.Angle,
			Crop:            o.Image.Crop,
			Perspective:     o.Image.Perspective,
			Levels:          o.Image.Levels,
			Chroma:          o.Image.Chroma,
			IsKey:           t.Image.IsKey || o.Image.IsKey,
			Invert:          t.Image.Invert || o.Image.Invert,
			IsMix:           t.Image.IsMix || o.Image.IsMix,
			BlendMode:       maxBlendMode(t.Image.BlendMode, o.Image.BlendMode),
			LayerDepth:      o.Image.LayerDepth,
		},
		Audio: AudioTransform{
			Volume:          t.Audio.Volume * o.Audio.Volume,
			ImmediateVolume: t.Audio.ImmediateVolume || o.Audio.ImmediateVolume,
		},
		SideData: SideDataTransform{
			UseClosedCaptions: t.SideData.UseClosedCaptions || o.SideData.UseClosedCaptions,
		},
	}
	return out
}

func addPoint(a, b Point2D) Point2D { return Point2D{a.X + b.X, a.Y + b.Y} }
func mulPoint(a, b Point2D) Point2D { return Point2D{a.X * b.X, a.Y * b.Y} }

func maxBlendMode(a, b BlendMode) BlendMode {
	if a > b {
		return a
	}
	return b
}

// Easing is a tween easing function, t in [0, duration] -> eased value
// scaled between 0 and 1 (matches the well known ease(t, b, c, d) shape
// with b=0, c=1).
type Easing func(t, duration int) float64

// Linear is the identity easing.
func Linear(t, duration int) float64 {
	if duration <= 0 {
		return 1
	}
	return float64(t) / float64(duration)
}

// Tween produces a per-field eased interpolation between src and dst.
// duration and easing govern how far along the tween `t` (0..duration) is.
func Tween(t int, src, dst Transform, duration int, easing Easing) Transform {
	if easing == nil {
		easing = Linear
	}
	if t >= duration {
		return dst
	}
	delta := easing(t, duration)
	lerp := func(a, b float64) float64 { return a + (b-a)*delta }
	lerpPt := func(a, b Point2D) Point2D { return Point2D{lerp(a.X, b.X), lerp(a.Y, b.Y)} }

	out := dst
	out.Image.Opacity = lerp(src.Image.Opacity, dst.Image.Opacity)
	out.Image.Contrast = lerp(src.Image.Contrast, dst.Image.Contrast)
	out.Image.Brightness = lerp(src.Image.Brightness, dst.Image.Brightness)
	out.Image.Saturation = lerp(src.Image.Saturation, dst.Image.Saturation)
	out.Image.Anchor = lerpPt(src.Image.Anchor, dst.Image.Anchor)
	out.Image.FillTranslation = lerpPt(src.Image.FillTranslation, dst.Image.FillTranslation)
	out.Image.FillScale = lerpPt(src.Image.FillScale, dst.Image.FillScale)
	out.Image.ClipTranslation = lerpPt(src.Image.ClipTranslation, dst.Image.ClipTranslation)
	out.Image.ClipScale = lerpPt(src.Image.ClipScale, dst.Image.ClipScale)
	out.Image.Angle = lerp(src.Image.Angle, dst.Image.Angle)
	out.Image.BlendMode = maxBlendMode(src.Image.BlendMode, dst.Image.BlendMode)
	out.Image.LayerDepth = dst.Image.LayerDepth
	out.Audio.Volume = lerp(src.Audio.Volume, dst.Audio.Volume)
	out.Audio.ImmediateVolume = dst.Audio.ImmediateVolume
	return out
}
