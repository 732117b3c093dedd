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

// Package future implements the small single-value future used wherever
// a component needs a future<T>: consumer.send, image_mixer's composite,
// and producer.call. It is a thin generic wrapper over a buffered
// channel, favoring plain goroutines and channels over a futures library.
package future

// Result carries either a value or an error, never both.
type Result[T any] struct {
	Value T
	Err   error
}

// Future is a single-value, single-reader future.
type Future[T any] struct {
	ch chan Result[T]
}

// New returns a Future and the function used to resolve it. Resolve must
// be called exactly once.
func New[T any]() (Future[T], func(T, error)) {
	ch := make(chan Result[T], 1)
	resolve := func(v T, err error) {
		ch <- Result[T]{Value: v, Err: err}
	}
	return Future[T]{ch: ch}, resolve
}

// Ready returns an already-resolved future.
func Ready[T any](v T, err error) Future[T] {
	f, resolve := New[T]()
	resolve(v, err)
	return f
}

// Await blocks until the future resolves.
func (f Future[T]) Await() (T, error) {
	r := <-f.ch
	return r.Value, r.Err
}
