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

// TweenedTransform is the (source, dest, duration, easing) triple plus an
// integer clock that the stage keeps per layer.
type TweenedTransform struct {
	Source   Transform
	Dest     Transform
	Duration int
	Easing   Easing
	Time     int
}

// NewTweenedTransform returns an already-settled tween at dst (duration 0).
func NewTweenedTransform(dst Transform) TweenedTransform {
	return TweenedTransform{Source: dst, Dest: dst, Duration: 0, Easing: Linear}
}

// Fetch returns dest once the tween has fully elapsed, else the eased
// interpolation between source and dest at the current time.
func (tt TweenedTransform) Fetch() Transform {
	if tt.Time >= tt.Duration {
		return tt.Dest
	}
	return Tween(tt.Time, tt.Source, tt.Dest, tt.Duration, tt.Easing)
}

// Tick advances the tween by n frames, saturating at Duration.
func (tt TweenedTransform) Tick(n int) TweenedTransform {
	tt.Time += n
	if tt.Time > tt.Duration {
		tt.Time = tt.Duration
	}
	return tt
}
