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

// Package layer implements one stage layer's foreground/background
// producer state machine: load, play, pause, stop, and the per-tick
// foreground/background handoff including auto-play.
package layer

import (
	"sync"

	"playout/pkg/frame"
	"playout/pkg/producer"
)

// State names a layer's play state, for diagnostics.
type State int

// States.
const (
	StateEmpty State = iota
	StatePlaying
	StatePaused
	StateBackgroundLoaded
	StateBackgroundPreview
)

// String names the state.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateBackgroundLoaded:
		return "background_loaded"
	case StateBackgroundPreview:
		return "background_preview"
	default:
		return "unknown"
	}
}

// Layer holds one stage layer's foreground and background producers.
type Layer struct {
	mu sync.Mutex

	foreground producer.Producer
	background producer.Producer

	playing      bool
	autoPlay     bool
	backgroundIsPreview bool

	lastFrame frame.DrawFrame
}

// New returns an empty layer.
func New() *Layer {
	return &Layer{
		foreground: producer.Empty(),
		background: producer.Empty(),
		lastFrame:  frame.Empty(),
	}
}

// LoadBackground stages p as the background producer. autoPlay requests an
// automatic cut to it once the foreground exhausts its AutoPlayDelta.
// preview freezes the layer on p's first frame for operator monitoring,
// without starting playback.
func (l *Layer) LoadBackground(p producer.Producer, autoPlay, preview bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	old := l.background
	l.background = p
	l.autoPlay = autoPlay
	l.backgroundIsPreview = preview
	producer.Destroy(old)
}

// Play cuts immediately to the staged background producer, or resumes a
// paused foreground if no background is staged.
func (l *Layer) Play() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !producer.IsEmpty(l.background) {
		l.swapToBackgroundLocked()
	}
	l.playing = true
	l.foreground.Paused(false)
}

// Pause halts the foreground producer on its current frame.
func (l *Layer) Pause() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.playing = false
	l.foreground.Paused(true)
}

// Resume continues a paused foreground producer.
func (l *Layer) Resume() {
	l.Play()
}

// Stop clears the foreground back to empty, keeping any staged background.
func (l *Layer) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	old := l.foreground
	l.foreground = producer.Empty()
	l.playing = false
	producer.Destroy(old)
}

// Clear empties both foreground and background.
func (l *Layer) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	oldFg, oldBg := l.foreground, l.background
	l.foreground = producer.Empty()
	l.background = producer.Empty()
	l.playing = false
	l.autoPlay = false
	producer.Destroy(oldFg)
	producer.Destroy(oldBg)
}

// Load is a convenience for LoadBackground immediately followed by Play —
// CasparCG's LOAD command.
func (l *Layer) Load(p producer.Producer) {
	l.LoadBackground(p, false, false)
	l.Play()
}

// swapToBackgroundLocked cuts to the staged background, first letting it
// observe the producer it is replacing — the hook a transition producer
// uses to capture its source — or a frozen still of the foreground's last
// frame if the foreground itself is empty.
func (l *Layer) swapToBackgroundLocked() {
	old := l.foreground
	leading := old
	if producer.IsEmpty(leading) {
		leading = producer.NewStill(frame.Still(leading.LastFrame(producer.FieldProgressive)))
	}
	l.background.LeadingProducer(leading)

	l.foreground = l.background
	l.background = producer.Empty()
	l.autoPlay = false
	l.backgroundIsPreview = false
	producer.Destroy(old)
}

// Receive advances the foreground producer one tick, handling auto-play
// handoff to the background producer when the foreground's
// AutoPlayDelta indicates it is about to run out.
func (l *Layer) Receive(field producer.Field, nbSamples int) (frame.DrawFrame, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.backgroundIsPreview && producer.IsEmpty(l.foreground) {
		df := l.background.FirstFrame(field)
		l.lastFrame = frame.Still(df)
		return l.lastFrame, nil
	}

	if !l.playing {
		return l.lastFrame, nil
	}

	if l.autoPlay && !producer.IsEmpty(l.background) {
		if delta := l.background.AutoPlayDelta(); delta >= 0 {
			if nb := l.foreground.NbFrames(); nb >= 0 {
				if framesLeft := nb - l.foreground.FrameNumber() - delta; framesLeft < 1 {
					l.swapToBackgroundLocked()
				}
			}
		}
	}

	if following := l.foreground.FollowingProducer(); following != nil {
		old := l.foreground
		l.foreground = following
		if old != following {
			producer.Destroy(old)
		}
	}

	df, err := l.foreground.Receive(field, nbSamples)
	if err != nil {
		return frame.DrawFrame{}, err
	}
	l.lastFrame = df
	return df, nil
}

// ReceiveBackground fetches the staged background producer's first frame,
// for a route subscribed to this layer's background or next mode. It never
// advances the background's playhead — first_frame is defined as a preview
// peek. If the background panics, it is cleared and ok is false.
func (l *Layer) ReceiveBackground(field producer.Field) (df frame.DrawFrame, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if producer.IsEmpty(l.background) {
		return frame.DrawFrame{}, false
	}

	defer func() {
		if r := recover(); r != nil {
			l.background = producer.Empty()
			df, ok = frame.DrawFrame{}, false
		}
	}()

	return l.background.FirstFrame(field), true
}

// Status reports the layer's current state for diagnostics.
func (l *Layer) Status() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch {
	case producer.IsEmpty(l.foreground) && producer.IsEmpty(l.background):
		return StateEmpty
	case !l.playing && !producer.IsEmpty(l.foreground):
		return StatePaused
	case l.playing:
		return StatePlaying
	case l.backgroundIsPreview:
		return StateBackgroundPreview
	case !producer.IsEmpty(l.background):
		return StateBackgroundLoaded
	default:
		return StateEmpty
	}
}

// Foreground returns the current foreground producer.
func (l *Layer) Foreground() producer.Producer {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.foreground
}

// Background returns the currently staged background producer.
func (l *Layer) Background() producer.Producer {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.background
}

// IsPlaying reports whether the layer is actively advancing.
func (l *Layer) IsPlaying() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.playing
}
