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

package mixer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"playout/pkg/format"
	"playout/pkg/frame"
)

func testVideoFormat() format.Desc {
	return format.NewCustom(4, 4, 25, 1, 1)
}

func TestAudioMixerSumsTwoStreams(t *testing.T) {
	am := NewAudioMixer()
	am.BeginTick(testVideoFormat(), 2)

	tag1 := frame.NewStreamTag("a")
	tag2 := frame.NewStreamTag("b")

	c1 := frame.NewConst(tag1, frame.Desc{}, nil, []int32{100, 100, 100, 100})
	c2 := frame.NewConst(tag2, frame.Desc{}, nil, []int32{200, 200, 200, 200})

	am.Push(frame.Default())
	am.Visit(c1)
	am.Pop()

	am.Push(frame.Default())
	am.Visit(c2)
	am.Pop()

	out := am.FlushMixedSamples(2)
	require.Equal(t, []int32{300, 300, 300, 300}, out)
}

func TestAudioMixerSaturates(t *testing.T) {
	am := NewAudioMixer()
	am.BeginTick(testVideoFormat(), 1)

	tag := frame.NewStreamTag("loud")
	c := frame.NewConst(tag, frame.Desc{}, nil, []int32{math.MaxInt32, math.MaxInt32})

	am.Push(frame.Default())
	am.Visit(c)
	am.Pop()
	am.Visit(c) // visited twice without a transform push uses Default via top().

	out := am.FlushMixedSamples(1)
	require.Equal(t, int32(math.MaxInt32), out[0])
	require.Greater(t, am.ClippedSamples(), int64(0))
}

func TestAudioMixerRespectsVolume(t *testing.T) {
	am := NewAudioMixer()
	am.BeginTick(testVideoFormat(), 1)

	tag := frame.NewStreamTag("s")
	c := frame.NewConst(tag, frame.Desc{}, nil, []int32{1000, 1000})

	half := frame.Default()
	half.Audio.Volume = 0.5
	half.Audio.ImmediateVolume = true

	am.Push(half)
	am.Visit(c)
	am.Pop()

	out := am.FlushMixedSamples(1)
	require.Equal(t, int32(500), out[0])
}
