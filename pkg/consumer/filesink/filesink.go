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

// Package filesink is the simplest Consumer: it appends every frame's raw
// planes and audio to a file, for piping into ffmpeg as a raw video sink.
package filesink

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"

	"playout/pkg/frame"
	"playout/pkg/future"
)

// Sink writes raw BGRA planes and interleaved PCM audio to a file.
type Sink struct {
	name string
	f    *os.File
}

// New opens path for writing, truncating any existing content.
func New(name, path string) (*Sink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("filesink: %w", err)
	}
	return &Sink{name: name, f: f}, nil
}

// Send writes one frame's video planes then its audio, length-prefixed.
func (s *Sink) Send(ctx context.Context, fr frame.Const) future.Future[struct{}] {
	resolve := func(err error) future.Future[struct{}] { return future.Ready(struct{}{}, err) }

	for _, plane := range fr.Planes() {
		if _, err := s.f.Write(plane); err != nil {
			return resolve(fmt.Errorf("filesink: write video: %w", err))
		}
	}

	audio := fr.AudioData()
	buf := make([]byte, 4*len(audio))
	for i, v := range audio {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(v))
	}
	if _, err := s.f.Write(buf); err != nil {
		return resolve(fmt.Errorf("filesink: write audio: %w", err))
	}
	return resolve(nil)
}

// Name identifies this consumer instance.
func (s *Sink) Name() string { return s.name }

// Clock reports false: a file sink is paced by the channel's ticker.
func (s *Sink) Clock() bool { return false }

// Close flushes and closes the underlying file.
func (s *Sink) Close() error { return s.f.Close() }
