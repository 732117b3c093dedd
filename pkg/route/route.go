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

// Package route implements named cross-channel taps: a route is a
// subscription to one layer's composited frames on another channel,
// fanned out to per-subscriber buffered feeds held in a mutex-guarded map.
package route

import (
	"sync"

	"playout/pkg/frame"
)

// Mode selects which stage of a layer a route taps.
type Mode int

// Tap modes.
const (
	ModeForeground Mode = iota
	ModeBackground
	ModeNext
)

type feed chan frame.DrawFrame

// CancelFunc stops a route subscription.
type CancelFunc func()

// Source is a single layer's publication point: the channel loop pushes
// this tick's composited draw_frame for a layer index into it, and every
// active route for that layer/mode receives a copy.
type Source struct {
	mu   sync.Mutex
	subs map[Mode]map[feed]struct{}
}

// NewSource returns an empty publication point for one layer.
func NewSource() *Source {
	return &Source{subs: map[Mode]map[feed]struct{}{}}
}

// Subscribe taps mode on this layer, returning a read-only feed of its
// subsequent frames and a function to stop receiving them.
func (s *Source) Subscribe(mode Mode) (<-chan frame.DrawFrame, CancelFunc) {
	ch := make(feed, 1)
	s.mu.Lock()
	if s.subs[mode] == nil {
		s.subs[mode] = map[feed]struct{}{}
	}
	s.subs[mode][ch] = struct{}{}
	s.mu.Unlock()

	return ch, func() {
		s.mu.Lock()
		delete(s.subs[mode], ch)
		s.mu.Unlock()
	}
}

// Publish fans df out to every subscriber of mode, dropping the frame for
// any subscriber whose buffer is still full rather than blocking the
// channel tick on a slow route consumer.
func (s *Source) Publish(mode Mode, df frame.DrawFrame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs[mode] {
		select {
		case ch <- df:
		default:
		}
	}
}

// Table maps route names to their publication point and mode, so
// ADD/MIX-style commands can reference a route by a stable string.
type Table struct {
	mu     sync.Mutex
	routes map[string]*entry
}

type entry struct {
	source *Source
	mode   Mode
}

// NewTable returns an empty route table.
func NewTable() *Table {
	return &Table{routes: map[string]*entry{}}
}

// Register names a layer's publication point under name/mode.
func (t *Table) Register(name string, source *Source, mode Mode) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.routes[name] = &entry{source: source, mode: mode}
}

// Unregister removes a named route.
func (t *Table) Unregister(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.routes, name)
}

// Subscribe taps a named route.
func (t *Table) Subscribe(name string) (<-chan frame.DrawFrame, CancelFunc, bool) {
	t.mu.Lock()
	e, ok := t.routes[name]
	t.mu.Unlock()
	if !ok {
		return nil, nil, false
	}
	ch, cancel := e.source.Subscribe(e.mode)
	return ch, cancel, true
}
