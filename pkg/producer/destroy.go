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

package producer

import "io"

// maxConcurrentDestructions bounds how many producer teardowns (closing
// file handles, draining decoder goroutines) run at once, so a burst of
// CLEAR/LOADBG calls cannot pile up unbounded background work.
const maxConcurrentDestructions = 8

// destroySem is a buffered-channel semaphore: acquiring is sending into it,
// releasing is receiving from it.
var destroySem = make(chan struct{}, maxConcurrentDestructions)

// Destroy tears down a producer's resources off the calling goroutine,
// the way the channel tick loop discards a replaced foreground producer
// without stalling the next tick on its cleanup.
func Destroy(p Producer) {
	if p == nil {
		return
	}
	closer, ok := p.(io.Closer)
	if !ok {
		return
	}
	destroySem <- struct{}{}
	go func() {
		defer func() { <-destroySem }()
		_ = closer.Close()
	}()
}
