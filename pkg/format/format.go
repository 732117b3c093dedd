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

// Package format implements video_format_desc: predefined and custom video
// formats, and the audio cadence tables that give fractional frame rates
// sample-exact audio.
package format

import "fmt"

// Tag names a predefined format, or Custom for an arbitrary one.
type Tag int

// Predefined format tags. Custom formats are distinguished by
// (Width, Height, numerator/denominator) equality instead.
const (
	Custom Tag = iota
	PAL
	NTSC
	F576p2500
	F720p2500
	F720p5000
	F720p5994
	F720p6000
	F1080p2398
	F1080p2400
	F1080i5000
	F1080i5994
	F1080i6000
	F1080p2500
	F1080p2997
	F1080p3000
	F1080p5000
	F1080p5994
	F1080p6000
	F2160p2398
	F2160p2400
	F2160p2500
	F2160p2997
	F2160p3000
)

// Rational is a numerator/denominator pair, used for time_scale/duration.
type Rational struct {
	Num, Den int
}

// Desc describes one video format: its timing, geometry and audio cadence.
type Desc struct {
	Tag Tag

	FieldCount int // 1 progressive, 2 interlaced

	Width, Height             int
	SquarePixelWidth, SquarePixelHeight int

	TimeScale Rational
	Duration  Rational

	AudioSampleRate int
	AudioChannels   int
	AudioCadence    []int
}

// Hz returns the field rate in hertz.
func (d Desc) Hz() float64 {
	if d.Duration.Num == 0 {
		return 0
	}
	return float64(d.TimeScale.Num) / float64(d.TimeScale.Den) * float64(d.Duration.Den) / float64(d.Duration.Num)
}

// FPS returns the frame (not field) rate in hertz.
func (d Desc) FPS() float64 {
	return d.Hz() / float64(d.FieldCount)
}

// Framerate returns the frame rate as a reduced numerator/denominator
// pair, the wire shape used by published channel state.
func (d Desc) Framerate() (num, den int) {
	if d.Duration.Num == 0 {
		return 0, 1
	}
	num = d.TimeScale.Num * d.Duration.Den
	den = d.TimeScale.Den * d.Duration.Num * d.FieldCount
	if g := gcd(num, den); g > 1 {
		num /= g
		den /= g
	}
	return num, den
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

// Equal compares two formats per the data model: predefined formats by
// tag, custom formats by (width, height, framerate).
func (d Desc) Equal(o Desc) bool {
	if d.Tag != Custom && d.Tag == o.Tag {
		return true
	}
	if d.Tag == Custom && o.Tag == Custom {
		return d.Width == o.Width && d.Height == o.Height &&
			d.TimeScale == o.TimeScale && d.Duration == o.Duration
	}
	return false
}

// String returns a diagnostic name for the format.
func (d Desc) String() string {
	return fmt.Sprintf("%dx%d@%.2f", d.Width, d.Height, d.FPS())
}

// CadenceAt returns the samples-per-frame count for tick index n,
// rotating the cadence cyclically: samples_on_tick_k = cadence[k mod len].
func (d Desc) CadenceAt(tickIndex uint64) int {
	if len(d.AudioCadence) == 0 {
		return d.AudioSampleRate / int(d.FPS())
	}
	return d.AudioCadence[int(tickIndex)%len(d.AudioCadence)]
}

// VariableCadence reports whether the cadence has more than one slot
// (fractional rate formats like 60000/1001).
func (d Desc) VariableCadence() bool {
	return len(d.AudioCadence) > 1
}

// MaxCadenceSamples returns the largest samples-per-frame value in the
// cadence table.
func (d Desc) MaxCadenceSamples() int {
	max := 0
	for _, c := range d.AudioCadence {
		if c > max {
			max = c
		}
	}
	return max
}
