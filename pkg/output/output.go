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

// Package output fans a channel's composited frames out to consumers,
// removing a consumer once its Send has failed maxConsumerFailures times
// in a row; a single failed Send does not remove it.
package output

import (
	"context"
	"fmt"
	"sync"

	"playout/pkg/frame"
	"playout/pkg/future"
)

// Consumer receives composited frames. Send must not block past a
// reasonable per-tick budget; a consumer that cannot keep up should drop
// frames internally rather than backing up the channel.
type Consumer interface {
	Send(ctx context.Context, f frame.Const) future.Future[struct{}]
	Name() string
	// Clock reports whether this consumer paces playback (true, e.g. a
	// hardware SDI card) rather than being paced by the channel's own
	// ticker (false, e.g. a file writer).
	Clock() bool
	Close() error
}

type entry struct {
	consumer Consumer
	failures int
}

// Output owns the consumer set for one channel.
type Output struct {
	mu        sync.Mutex
	consumers map[string]*entry

	onRemove func(name string, err error)
}

// New returns an empty Output.
func New() *Output {
	return &Output{consumers: map[string]*entry{}}
}

// OnRemove registers a callback invoked whenever a consumer is dropped
// for failing to accept frames.
func (o *Output) OnRemove(fn func(name string, err error)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.onRemove = fn
}

// Add attaches a consumer. Adding a consumer under a name already in use
// replaces and closes the previous one.
func (o *Output) Add(c Consumer) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if old, ok := o.consumers[c.Name()]; ok {
		old.consumer.Close()
	}
	o.consumers[c.Name()] = &entry{consumer: c}
}

// Remove detaches and closes a consumer by name.
func (o *Output) Remove(name string) {
	o.mu.Lock()
	e, ok := o.consumers[name]
	delete(o.consumers, name)
	o.mu.Unlock()
	if ok {
		e.consumer.Close()
	}
}

// HasClockedConsumer reports whether any attached consumer paces playback,
// so the channel loop can decide whether it needs its own ticker.
func (o *Output) HasClockedConsumer() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, e := range o.consumers {
		if e.consumer.Clock() {
			return true
		}
	}
	return false
}

const maxConsumerFailures = 3

// Send fans f out to every consumer concurrently and waits for all of
// them, dropping any consumer that has now failed maxConsumerFailures
// times in a row.
func (o *Output) Send(ctx context.Context, f frame.Const) {
	o.mu.Lock()
	entries := make([]*entry, 0, len(o.consumers))
	for _, e := range o.consumers {
		entries = append(entries, e)
	}
	o.mu.Unlock()

	var wg sync.WaitGroup
	for _, e := range entries {
		wg.Add(1)
		go func(e *entry) {
			defer wg.Done()
			_, err := e.consumer.Send(ctx, f).Await()
			o.mu.Lock()
			if err != nil {
				e.failures++
			} else {
				e.failures = 0
			}
			drop := e.failures >= maxConsumerFailures
			if drop {
				delete(o.consumers, e.consumer.Name())
			}
			onRemove := o.onRemove
			o.mu.Unlock()

			if drop {
				e.consumer.Close()
				if onRemove != nil {
					onRemove(e.consumer.Name(), fmt.Errorf("consumer failed %d times: %w", e.failures, err))
				}
			}
		}(e)
	}
	wg.Wait()
}

// Names returns the attached consumer names.
func (o *Output) Names() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, 0, len(o.consumers))
	for name := range o.consumers {
		out = append(out, name)
	}
	return out
}

// Port is one consumer's published diagnostics.
type Port struct {
	Name     string `json:"name"`
	Clock    bool   `json:"clock"`
	Failures int    `json:"failures"`
}

// Ports returns one Port per attached consumer, for state publication.
func (o *Output) Ports() []Port {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Port, 0, len(o.consumers))
	for _, e := range o.consumers {
		out = append(out, Port{
			Name:     e.consumer.Name(),
			Clock:    e.consumer.Clock(),
			Failures: e.failures,
		})
	}
	return out
}

// Range calls fn for each attached consumer, e.g. to notify format-aware
// consumers of a video_format_desc change.
func (o *Output) Range(fn func(Consumer)) {
	o.mu.Lock()
	entries := make([]Consumer, 0, len(o.consumers))
	for _, e := range o.consumers {
		entries = append(entries, e.consumer)
	}
	o.mu.Unlock()
	for _, c := range entries {
		fn(c)
	}
}
