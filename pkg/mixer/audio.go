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
	"sync"

	"playout/pkg/format"
	"playout/pkg/frame"
)

// audioChannels is fixed at stereo throughout the core, matching every
// predefined video_format_desc entry's AudioChannels.
const audioChannels = 2

// minAudibleVolume below which a leaf's audio is dropped rather than mixed.
const minAudibleVolume = 0.002

// tagState remembers, per source stream tag, the volume a fade should
// continue ramping from and any leftover samples a producer's cadence
// didn't consume on the previous tick.
type tagState struct {
	lastVolume float64
	carry      []int32
}

// AudioMixer sums every visited leaf's audio into one f64 accumulation
// buffer per tick, scaled by the composed transform volume along the way,
// then saturates to int32 on flush.
type AudioMixer struct {
	mu sync.Mutex

	stack []frame.Transform

	accum []float64
	tags  map[frame.StreamTag]*tagState

	videoFormat     format.Desc
	variableCadence bool
	maxBufferSize   int // in samples (not frames), i.e. groups * audioChannels

	clipped  int64 // diagnostics: samples saturated since the mixer was created
	overflow int64 // diagnostics: cadence-carryover tails truncated to the cap
	peak     [audioChannels]int32
}

// NewAudioMixer returns an empty audio mixer.
func NewAudioMixer() *AudioMixer {
	return &AudioMixer{tags: map[frame.StreamTag]*tagState{}}
}

// Push multiplies transform onto the stack's current top (Default if the
// stack is empty).
func (m *AudioMixer) Push(t frame.Transform) {
	top := frame.Default()
	if len(m.stack) > 0 {
		top = m.stack[len(m.stack)-1]
	}
	m.stack = append(m.stack, top.Mul(t))
}

// Pop restores the transform stack to before the matching Push.
func (m *AudioMixer) Pop() {
	if len(m.stack) == 0 {
		return
	}
	m.stack = m.stack[:len(m.stack)-1]
}

func (m *AudioMixer) top() frame.Transform {
	if len(m.stack) == 0 {
		return frame.Default()
	}
	return m.stack[len(m.stack)-1]
}

// Visit mixes one leaf's audio into the accumulation buffer, ramping its
// volume from the previous tick's level unless ImmediateVolume is set. A
// leaf below minAudibleVolume or carrying no audio at all is dropped.
func (m *AudioMixer) Visit(c frame.Const) {
	transform := m.top()
	volume := transform.Audio.Volume
	raw := c.AudioData()
	if volume < minAudibleVolume || raw == nil {
		return
	}

	tag := c.StreamTag()
	st, seen := m.tags[tag]
	if !seen {
		st = &tagState{lastVolume: volume}
		if m.variableCadence {
			// First appearance under a variable cadence: prepend one
			// silent frame so the stream doesn't drift a frame early.
			st.carry = make([]int32, audioChannels)
		}
		m.tags[tag] = st
	}

	leftover := st.carry
	st.carry = nil
	leftoverGroups := len(leftover) / audioChannels
	itemGroups := len(raw) / audioChannels
	if leftoverGroups == 0 && itemGroups == 0 {
		return
	}

	needed := len(m.accum) / audioChannels
	targetVolume := volume
	startVolume := st.lastVolume
	if transform.Audio.ImmediateVolume {
		startVolume = targetVolume
	}

	for g := 0; g < needed; g++ {
		ramp := 1.0
		if needed > 1 {
			ramp = float64(g) / float64(needed-1)
		}
		vol := startVolume + (targetVolume-startVolume)*ramp

		for ch := 0; ch < audioChannels; ch++ {
			var sample int32
			switch {
			case g < leftoverGroups:
				sample = leftover[g*audioChannels+ch]
			case itemGroups > 0:
				// Item shorter than the tick needs: wrap back into it
				// rather than leaving the tail silent.
				idx := (g - leftoverGroups) % itemGroups
				sample = raw[idx*audioChannels+ch]
			}
			m.accum[g*audioChannels+ch] += float64(sample) * vol
		}
	}
	st.lastVolume = targetVolume

	if !m.variableCadence {
		return
	}
	consumed := leftoverGroups + itemGroups
	if consumed <= needed {
		return
	}
	combined := append(append([]int32(nil), leftover...), raw...)
	tailStart := needed * audioChannels
	tail := combined[tailStart:]
	capSamples := m.maxBufferSize
	if capSamples > 0 && len(tail) > capSamples {
		m.mu.Lock()
		m.overflow++
		m.mu.Unlock()
		tail = tail[:capSamples]
	}
	st.carry = append([]int32(nil), tail...)
}

// BeginTick resets the accumulation buffer to nbSamples frames of silence.
// A format change clears cadence carryover and volume memory, since neither
// is meaningful across a format switch.
func (m *AudioMixer) BeginTick(desc format.Desc, nbSamples int) {
	if !desc.Equal(m.videoFormat) {
		m.videoFormat = desc
		m.variableCadence = desc.VariableCadence()
		m.maxBufferSize = 2 * audioChannels * desc.MaxCadenceSamples()
		m.tags = map[frame.StreamTag]*tagState{}
	}
	m.accum = make([]float64, nbSamples*audioChannels)
	m.stack = m.stack[:0]
}

// FlushMixedSamples saturates the accumulated f64 buffer into int32 PCM,
// records the per-channel peak, and starts a fresh accumulator for the next
// tick.
func (m *AudioMixer) FlushMixedSamples(nbSamples int) []int32 {
	out := make([]int32, len(m.accum))
	var clipped int64
	var peak [audioChannels]int32
	for i, v := range m.accum {
		s := saturate(v)
		out[i] = s
		if v > int32Max || v < int32Min {
			clipped++
		}
		abs := s
		if abs < 0 {
			abs = -abs
		}
		ch := i % audioChannels
		if abs > peak[ch] {
			peak[ch] = abs
		}
	}
	m.mu.Lock()
	m.clipped += clipped
	m.peak = peak
	m.mu.Unlock()

	desc := m.videoFormat
	m.BeginTick(desc, nbSamples)
	return out
}

const (
	int32Max = float64(math.MaxInt32)
	int32Min = float64(math.MinInt32)
)

func saturate(v float64) int32 {
	if v > int32Max {
		return math.MaxInt32
	}
	if v < int32Min {
		return math.MinInt32
	}
	return int32(v)
}

// ClippedSamples reports how many samples have saturated since start, a
// diagnostics counter surfaced on the channel's audio overflow report.
func (m *AudioMixer) ClippedSamples() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clipped
}

// OverflowCount reports how many times a cadence-carryover tail has been
// truncated to maxBufferSize, the audio-buffer-overflow diagnostic.
func (m *AudioMixer) OverflowCount() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.overflow
}

// Peak returns the most recently flushed tick's per-channel absolute peak,
// published on the channel as mixer/audio/volume.
func (m *AudioMixer) Peak() []int32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int32, audioChannels)
	copy(out, m.peak[:])
	return out
}
