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

// Package imageseq is a still/image-sequence Producer that watches a
// directory for already-rendered raw BGRA frames and advances through
// them in filename order, using fsnotify to pick up new files as they
// land.
package imageseq

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"

	"playout/pkg/format"
	"playout/pkg/frame"
	"playout/pkg/producer"
)

// Producer plays a directory of raw BGRA frame files back as a sequence,
// appending newly-written files as they arrive.
type Producer struct {
	dir     string
	desc    frame.Desc
	watcher *fsnotify.Watcher

	mu      sync.Mutex
	files   []string
	pos     int64
	current frame.Const

	cancel context.CancelFunc
}

// New starts watching dir for raw BGRA frame files sized for videoDesc,
// loading any that already exist and appending later arrivals.
func New(dir string, videoDesc format.Desc) (*Producer, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("imageseq: watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("imageseq: watch %v: %w", dir, err)
	}

	existing, err := listFrameFiles(dir)
	if err != nil {
		watcher.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Producer{
		dir:     dir,
		desc:    frame.NewBGRADesc(videoDesc.Width, videoDesc.Height),
		watcher: watcher,
		files:   existing,
		cancel:  cancel,
	}
	go p.watch(ctx)
	return p, nil
}

func listFrameFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("imageseq: readdir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".bgra" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func (p *Producer) watch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 || filepath.Ext(ev.Name) != ".bgra" {
				continue
			}
			p.mu.Lock()
			known := false
			for _, f := range p.files {
				if f == ev.Name {
					known = true
					break
				}
			}
			if !known {
				p.files = append(p.files, ev.Name)
				sort.Strings(p.files)
			}
			p.mu.Unlock()
		case <-p.watcher.Errors:
			// a watch error leaves the already-discovered files playable
		}
	}
}

func (p *Producer) loadLocked(index int64) (frame.Const, error) {
	if index < 0 || index >= int64(len(p.files)) {
		return frame.Const{}, fmt.Errorf("imageseq: index %d out of range", index)
	}
	path := p.files[index]
	data, err := os.ReadFile(path)
	if err != nil {
		return frame.Const{}, fmt.Errorf("imageseq: read %v: %w", path, err)
	}
	if len(data) != p.desc.Size() {
		return frame.Const{}, fmt.Errorf("imageseq: %v: expected %d bytes, got %d", path, p.desc.Size(), len(data))
	}
	return frame.NewConst(nil, p.desc, [][]byte{data}, nil), nil
}

// Receive advances to and returns the next frame in sequence, holding on
// the last frame once the directory is exhausted (still-image behavior).
func (p *Producer) Receive(field producer.Field, nbSamples int) (frame.DrawFrame, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.files) == 0 {
		return frame.Empty(), nil
	}
	if p.pos >= int64(len(p.files)) {
		p.pos = int64(len(p.files)) - 1
	}
	c, err := p.loadLocked(p.pos)
	if err != nil {
		return frame.Empty(), err
	}
	p.current = c
	if p.pos < int64(len(p.files))-1 {
		p.pos++
	}
	return frame.NewLeaf(c), nil
}

// LastFrame returns the most recently produced frame without advancing.
func (p *Producer) LastFrame(producer.Field) frame.DrawFrame {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.current.IsValid() {
		return frame.Empty()
	}
	return frame.NewLeaf(p.current)
}

// FirstFrame seeks to position zero and returns its frame.
func (p *Producer) FirstFrame(producer.Field) frame.DrawFrame {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.files) == 0 {
		return frame.Empty()
	}
	c, err := p.loadLocked(0)
	if err != nil {
		return frame.Empty()
	}
	p.pos = 0
	p.current = c
	return frame.NewLeaf(c)
}

// NbFrames returns the number of frame files discovered so far.
func (p *Producer) NbFrames() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return int64(len(p.files))
}

// FrameNumber returns the current read position.
func (p *Producer) FrameNumber() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pos
}

// Call has no producer-specific commands.
func (p *Producer) Call([]string) (string, error) { return "", fmt.Errorf("imageseq: no commands") }

// LeadingProducer is a no-op: an image sequence has no state to inherit.
func (p *Producer) LeadingProducer(producer.Producer) {}

// FollowingProducer never auto-chains.
func (p *Producer) FollowingProducer() producer.Producer { return nil }

// AutoPlayDelta reports no auto-play request.
func (p *Producer) AutoPlayDelta() int64 { return -1 }

// IsReady reports whether at least one frame has been discovered.
func (p *Producer) IsReady() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.files) > 0
}

// State returns a diagnostics snapshot.
func (p *Producer) State() producer.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return producer.State{
		"name":  p.Name(),
		"dir":   p.dir,
		"files": fmt.Sprint(len(p.files)),
	}
}

// Paused is a no-op: there is no decode pipeline to throttle.
func (p *Producer) Paused(bool) {}

// Name identifies the producer kind.
func (p *Producer) Name() string { return "imageseq" }

// Print returns a one-line description.
func (p *Producer) Print() string { return fmt.Sprintf("imageseq[%v]", p.dir) }

// Close stops the directory watch.
func (p *Producer) Close() error {
	p.cancel()
	return p.watcher.Close()
}
