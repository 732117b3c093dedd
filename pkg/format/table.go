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

package format

const audioSampleRate = 48000
const audioChannels = 2

// cadence60000_1001 realizes 60000/1001 fps (59.94) audio sample-exactly.
var cadence60000_1001 = []int{801, 800, 801, 801, 801}

// cadence30000_1001 realizes 30000/1001 fps (29.97) audio sample-exactly.
var cadence30000_1001 = []int{1602, 1601, 1602, 1601, 1602}

// cadence24000_1001 realizes 24000/1001 fps (23.98) audio sample-exactly.
var cadence24000_1001 = []int{2002}

func flat(samples int) []int { return []int{samples} }

// Table is the predefined set of standard video formats, keyed by Tag.
var Table = map[Tag]Desc{
	PAL: {
		Tag: PAL, FieldCount: 2, Width: 720, Height: 576,
		SquarePixelWidth: 1024, SquarePixelHeight: 576,
		TimeScale: Rational{25, 1}, Duration: Rational{1, 2},
		AudioSampleRate: audioSampleRate, AudioChannels: audioChannels,
		AudioCadence: flat(audioSampleRate / 25),
	},
	NTSC: {
		Tag: NTSC, FieldCount: 2, Width: 720, Height: 486,
		SquarePixelWidth: 720, SquarePixelHeight: 540,
		TimeScale: Rational{30000, 1001}, Duration: Rational{1, 2},
		AudioSampleRate: audioSampleRate, AudioChannels: audioChannels,
		AudioCadence: cadence30000_1001,
	},
	F576p2500: {
		Tag: F576p2500, FieldCount: 1, Width: 720, Height: 576,
		SquarePixelWidth: 1024, SquarePixelHeight: 576,
		TimeScale: Rational{25, 1}, Duration: Rational{1, 1},
		AudioSampleRate: audioSampleRate, AudioChannels: audioChannels,
		AudioCadence: flat(audioSampleRate / 25),
	},
	F720p2500: {
		Tag: F720p2500, FieldCount: 1, Width: 1280, Height: 720,
		SquarePixelWidth: 1280, SquarePixelHeight: 720,
		TimeScale: Rational{25, 1}, Duration: Rational{1, 1},
		AudioSampleRate: audioSampleRate, AudioChannels: audioChannels,
		AudioCadence: flat(audioSampleRate / 25),
	},
	F720p5000: {
		Tag: F720p5000, FieldCount: 1, Width: 1280, Height: 720,
		SquarePixelWidth: 1280, SquarePixelHeight: 720,
		TimeScale: Rational{50, 1}, Duration: Rational{1, 1},
		AudioSampleRate: audioSampleRate, AudioChannels: audioChannels,
		AudioCadence: flat(audioSampleRate / 50),
	},
	F720p5994: {
		Tag: F720p5994, FieldCount: 1, Width: 1280, Height: 720,
		SquarePixelWidth: 1280, SquarePixelHeight: 720,
		TimeScale: Rational{60000, 1001}, Duration: Rational{1, 1},
		AudioSampleRate: audioSampleRate, AudioChannels: audioChannels,
		AudioCadence: cadence60000_1001,
	},
	F720p6000: {
		Tag: F720p6000, FieldCount: 1, Width: 1280, Height: 720,
		SquarePixelWidth: 1280, SquarePixelHeight: 720,
		TimeScale: Rational{60, 1}, Duration: Rational{1, 1},
		AudioSampleRate: audioSampleRate, AudioChannels: audioChannels,
		AudioCadence: flat(audioSampleRate / 60),
	},
	F1080p2398: {
		Tag: F1080p2398, FieldCount: 1, Width: 1920, Height: 1080,
		SquarePixelWidth: 1920, SquarePixelHeight: 1080,
		TimeScale: Rational{24000, 1001}, Duration: Rational{1, 1},
		AudioSampleRate: audioSampleRate, AudioChannels: audioChannels,
		AudioCadence: cadence24000_1001,
	},
	F1080p2400: {
		Tag: F1080p2400, FieldCount: 1, Width: 1920, Height: 1080,
		SquarePixelWidth: 1920, SquarePixelHeight: 1080,
		TimeScale: Rational{24, 1}, Duration: Rational{1, 1},
		AudioSampleRate: audioSampleRate, AudioChannels: audioChannels,
		AudioCadence: flat(audioSampleRate / 24),
	},
	F1080i5000: {
		Tag: F1080i5000, FieldCount: 2, Width: 1920, Height: 1080,
		SquarePixelWidth: 1920, SquarePixelHeight: 1080,
		TimeScale: Rational{25, 1}, Duration: Rational{1, 2},
		AudioSampleRate: audioSampleRate, AudioChannels: audioChannels,
		AudioCadence: flat(audioSampleRate / 25),
	},
	F1080i5994: {
		Tag: F1080i5994, FieldCount: 2, Width: 1920, Height: 1080,
		SquarePixelWidth: 1920, SquarePixelHeight: 1080,
		TimeScale: Rational{30000, 1001}, Duration: Rational{1, 2},
		AudioSampleRate: audioSampleRate, AudioChannels: audioChannels,
		AudioCadence: cadence30000_1001,
	},
	F1080i6000: {
		Tag: F1080i6000, FieldCount: 2, Width: 1920, Height: 1080,
		SquarePixelWidth: 1920, SquarePixelHeight: 1080,
		TimeScale: Rational{30, 1}, Duration: Rational{1, 2},
		AudioSampleRate: audioSampleRate, AudioChannels: audioChannels,
		AudioCadence: flat(audioSampleRate / 60 * 2),
	},
	F1080p2500: {
		Tag: F1080p2500, FieldCount: 1, Width: 1920, Height: 1080,
		SquarePixelWidth: 1920, SquarePixelHeight: 1080,
		TimeScale: Rational{25, 1}, Duration: Rational{1, 1},
		AudioSampleRate: audioSampleRate, AudioChannels: audioChannels,
		AudioCadence: flat(audioSampleRate / 25),
	},
	F1080p2997: {
		Tag: F1080p2997, FieldCount: 1, Width: 1920, Height: 1080,
		SquarePixelWidth: 1920, SquarePixelHeight: 1080,
		TimeScale: Rational{30000, 1001}, Duration: Rational{1, 1},
		AudioSampleRate: audioSampleRate, AudioChannels: audioChannels,
		AudioCadence: cadence30000_1001,
	},
	F1080p3000: {
		Tag: F1080p3000, FieldCount: 1, Width: 1920, Height: 1080,
		SquarePixelWidth: 1920, SquarePixelHeight: 1080,
		TimeScale: Rational{30, 1}, Duration: Rational{1, 1},
		AudioSampleRate: audioSampleRate, AudioChannels: audioChannels,
		AudioCadence: flat(audioSampleRate / 30),
	},
	F1080p5000: {
		Tag: F1080p5000, FieldCount: 1, Width: 1920, Height: 1080,
		SquarePixelWidth: 1920, SquarePixelHeight: 1080,
		TimeScale: Rational{50, 1}, Duration: Rational{1, 1},
		AudioSampleRate: audioSampleRate, AudioChannels: audioChannels,
		AudioCadence: flat(audioSampleRate / 50),
	},
	F1080p5994: {
		Tag: F1080p5994, FieldCount: 1, Width: 1920, Height: 1080,
		SquarePixelWidth: 1920, SquarePixelHeight: 1080,
		TimeScale: Rational{60000, 1001}, Duration: Rational{1, 1},
		AudioSampleRate: audioSampleRate, AudioChannels: audioChannels,
		AudioCadence: cadence60000_1001,
	},
	F1080p6000: {
		Tag: F1080p6000, FieldCount: 1, Width: 1920, Height: 1080,
		SquarePixelWidth: 1920, SquarePixelHeight: 1080,
		TimeScale: Rational{60, 1}, Duration: Rational{1, 1},
		AudioSampleRate: audioSampleRate, AudioChannels: audioChannels,
		AudioCadence: flat(audioSampleRate / 60),
	},
	F2160p2398: {
		Tag: F2160p2398, FieldCount: 1, Width: 3840, Height: 2160,
		SquarePixelWidth: 3840, SquarePixelHeight: 2160,
		TimeScale: Rational{24000, 1001}, Duration: Rational{1, 1},
		AudioSampleRate: audioSampleRate, AudioChannels: audioChannels,
		AudioCadence: cadence24000_1001,
	},
	F2160p2400: {
		Tag: F2160p2400, FieldCount: 1, Width: 3840, Height: 2160,
		SquarePixelWidth: 3840, SquarePixelHeight: 2160,
		TimeScale: Rational{24, 1}, Duration: Rational{1, 1},
		AudioSampleRate: audioSampleRate, AudioChannels: audioChannels,
		AudioCadence: flat(audioSampleRate / 24),
	},
	F2160p2500: {
		Tag: F2160p2500, FieldCount: 1, Width: 3840, Height: 2160,
		SquarePixelWidth: 3840, SquarePixelHeight: 2160,
		TimeScale: Rational{25, 1}, Duration: Rational{1, 1},
		AudioSampleRate: audioSampleRate, AudioChannels: audioChannels,
		AudioCadence: flat(audioSampleRate / 25),
	},
	F2160p2997: {
		Tag: F2160p2997, FieldCount: 1, Width: 3840, Height: 2160,
		SquarePixelWidth: 3840, SquarePixelHeight: 2160,
		TimeScale: Rational{30000, 1001}, Duration: Rational{1, 1},
		AudioSampleRate: audioSampleRate, AudioChannels: audioChannels,
		AudioCadence: cadence30000_1001,
	},
	F2160p3000: {
		Tag: F2160p3000, FieldCount: 1, Width: 3840, Height: 2160,
		SquarePixelWidth: 3840, SquarePixelHeight: 2160,
		TimeScale: Rational{30, 1}, Duration: Rational{1, 1},
		AudioSampleRate: audioSampleRate, AudioChannels: audioChannels,
		AudioCadence: flat(audioSampleRate / 30),
	},
}

// ByTag looks up a predefined format.
func ByTag(t Tag) (Desc, bool) {
	d, ok := Table[t]
	return d, ok
}

// NewCustom builds a custom format with a flat (non-fractional) audio
// cadence derived from the frame rate.
func NewCustom(width, height int, num, den int, fieldCount int) Desc {
	d := Desc{
		Tag: Custom, FieldCount: fieldCount,
		Width: width, Height: height,
		SquarePixelWidth: width, SquarePixelHeight: height,
		TimeScale: Rational{num, den}, Duration: Rational{1, 1},
		AudioSampleRate: audioSampleRate, AudioChannels: audioChannels,
	}
	fps := d.FPS()
	if fps > 0 {
		d.AudioCadence = flat(int(float64(audioSampleRate) / fps))
	}
	return d
}
