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

// Package stage holds a channel's ordered set of layers and serializes
// every operation against them (loads, transform changes, ticks) through
// a single executor goroutine, the way the channel owns one goroutine per
// tick in the core loop.
package stage

import (
	"sort"
	"unsafe"

	"playout/pkg/frame"
	"playout/pkg/layer"
	"playout/pkg/producer"
)

// task is a closure executed on the stage's serial executor goroutine.
type task func()

// Stage owns the layers of one channel.
type Stage struct {
	layers     map[int]*layer.Layer
	transforms map[int]frame.TweenedTransform

	exec chan task
	done chan struct{}
}

// New starts a stage's executor goroutine.
func New() *Stage {
	s := &Stage{
		layers:     map[int]*layer.Layer{},
		transforms: map[int]frame.TweenedTransform{},
		exec:       make(chan task),
		done:       make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *Stage) run() {
	for {
		select {
		case t := <-s.exec:
			t()
		case <-s.done:
			return
		}
	}
}

// Close stops the executor goroutine.
func (s *Stage) Close() {
	close(s.done)
}

// do runs fn on the executor and blocks until it completes, mirroring
// CasparCG's synchronous stage command dispatch.
func (s *Stage) do(fn func()) {
	result := make(chan struct{})
	s.exec <- func() {
		fn()
		close(result)
	}
	<-result
}

func (s *Stage) layerLocked(index int) *layer.Layer {
	l, ok := s.layers[index]
	if !ok {
		l = layer.New()
		s.layers[index] = l
		s.transforms[index] = frame.NewTweenedTransform(frame.Default())
	}
	return l
}

// Layer returns (creating if necessary) the layer at index.
func (s *Stage) Layer(index int) *layer.Layer {
	var l *layer.Layer
	s.do(func() { l = s.layerLocked(index) })
	return l
}

// LoadBackground stages a producer on a layer's background slot.
func (s *Stage) LoadBackground(index int, p producer.Producer, autoPlay, preview bool) {
	s.do(func() { s.layerLocked(index).LoadBackground(p, autoPlay, preview) })
}

// Load stages and immediately plays a producer on a layer.
func (s *Stage) Load(index int, p producer.Producer) {
	s.do(func() { s.layerLocked(index).Load(p) })
}

// Play cuts a layer to its staged background, or resumes it.
func (s *Stage) Play(index int) {
	s.do(func() { s.layerLocked(index).Play() })
}

// Pause freezes a layer on its current frame.
func (s *Stage) Pause(index int) {
	s.do(func() { s.layerLocked(index).Pause() })
}

// Stop clears a layer's foreground producer.
func (s *Stage) Stop(index int) {
	s.do(func() { s.layerLocked(index).Stop() })
}

// Clear empties a layer entirely, or every layer if index < 0.
func (s *Stage) Clear(index int) {
	s.do(func() {
		if index < 0 {
			for _, l := range s.layers {
				l.Clear()
			}
			return
		}
		s.layerLocked(index).Clear()
	})
}

// SetTransform queues a tween from a layer's current transform to dest
// over duration ticks.
func (s *Stage) SetTransform(index int, dest frame.Transform, duration int, easing frame.Easing) {
	s.do(func() {
		cur := s.transforms[index].Fetch()
		s.transforms[index] = frame.TweenedTransform{
			Source: cur, Dest: dest, Duration: duration, Easing: easing,
		}
	})
}

// SwapLayer exchanges the layers at indexes a and b between this stage and
// other (other may be this same stage). Indexes are locked in ascending
// numeric order of (stage pointer, index) to avoid cross-stage deadlock
// when two swaps run concurrently in opposite directions.
func SwapLayer(a *Stage, aIndex int, b *Stage, bIndex int) {
	swap := func(first *Stage, firstIdx int, second *Stage, secondIdx int) {
		fl := first.layerLocked(firstIdx)
		sl := second.layerLocked(secondIdx)
		first.layers[firstIdx] = sl
		second.layers[secondIdx] = fl

		ft := first.transforms[firstIdx]
		first.transforms[firstIdx] = second.transforms[secondIdx]
		second.transforms[secondIdx] = ft
	}

	if a == b {
		// Same executor: no second goroutine to hand off to, run inline.
		a.do(func() { swap(a, aIndex, b, bIndex) })
		return
	}

	first, second := a, b
	firstIdx, secondIdx := aIndex, bIndex
	if uintptr(unsafe.Pointer(b)) < uintptr(unsafe.Pointer(a)) {
		first, second = b, a
		firstIdx, secondIdx = bIndex, aIndex
	}

	done := make(chan struct{})
	first.exec <- func() {
		second.do(func() { swap(first, firstIdx, second, secondIdx) })
		close(done)
	}
	<-done
}

// LayerFrame is one layer's per-tick result: its composited foreground
// (transform already applied), and — when the layer's index was requested
// in the routed background set — its staged background's first frame.
type LayerFrame struct {
	Foreground    frame.DrawFrame
	Background    frame.DrawFrame
	HasBackground bool
}

// RouteFunc is invoked once per layer, in index order, as soon as that
// layer's LayerFrame is ready, so routes can fan a layer's frame out to
// another channel before the mixer composites it.
type RouteFunc func(index int, lf LayerFrame)

// Tick advances every layer's tween one step and returns each layer
// index's LayerFrame keyed by index; layers are received in ascending
// index order, but the returned map carries no order. routedBackground names the layer indices whose
// staged background should also be fetched this tick (for a route tapping
// that layer's background or next mode); routeFn may be nil.
func (s *Stage) Tick(field producer.Field, nbSamples int, routedBackground map[int]bool, routeFn RouteFunc) map[int]LayerFrame {
	out := map[int]LayerFrame{}
	s.do(func() {
		indexes := make([]int, 0, len(s.layers))
		for idx := range s.layers {
			indexes = append(indexes, idx)
		}
		sort.Ints(indexes)

		for _, idx := range indexes {
			l := s.layers[idx]
			tw := s.transforms[idx]

			df, err := l.Receive(field, nbSamples)
			if err != nil {
				df = frame.Empty()
			}
			transform := tw.Fetch()
			fg := frame.PushTransform(df, transform).WithLayerDepth(idx)
			s.transforms[idx] = tw.Tick(1)

			lf := LayerFrame{Foreground: fg}
			if routedBackground[idx] {
				if bg, ok := l.ReceiveBackground(field); ok {
					lf.Background = bg
					lf.HasBackground = true
				}
			}
			out[idx] = lf
			if routeFn != nil {
				routeFn(idx, lf)
			}
		}
	})
	return out
}
