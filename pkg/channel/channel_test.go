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

package channel

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"playout/pkg/format"
	"playout/pkg/frame"
	"playout/pkg/future"
	"playout/pkg/log"
	"playout/pkg/mixer/imagemixer"
	"playout/pkg/producer"
	"playout/pkg/producer/transition"
	"playout/pkg/route"
	"playout/pkg/state"
)

func testFormat() format.Desc {
	return format.NewCustom(4, 4, 200, 1, 1) // 200fps, tiny canvas: fast ticks, cheap mixing
}

type countingConsumer struct {
	name  string
	count int32
}

func (c *countingConsumer) Send(ctx context.Context, f frame.Const) future.Future[struct{}] {
	atomic.AddInt32(&c.count, 1)
	return future.Ready(struct{}{}, nil)
}
func (c *countingConsumer) Name() string { return c.name }
func (c *countingConsumer) Clock() bool  { return false }
func (c *countingConsumer) Close() error { return nil }

func TestChannelTicksAndSendsToConsumer(t *testing.T) {
	ch := New("ch1", testFormat(), imagemixer.New(), log.NewMockLogger(), nil)
	defer ch.Close()

	cons := &countingConsumer{name: "counter"}
	ch.Output().Add(cons)

	p, err := producer.NewColor(testFormat(), "#FF0000FF")
	require.NoError(t, err)
	ch.Load(0, p)

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&cons.count) >= 3
	}, time.Second, 5*time.Millisecond)
}

func TestChannelPublishesStateToOnTick(t *testing.T) {
	ch := New("ch1", testFormat(), imagemixer.New(), log.NewMockLogger(), nil)
	defer ch.Close()

	got := make(chan State, 8)
	ch.OnTick(func(s State) { got <- s })

	select {
	case s := <-got:
		require.Equal(t, "ch1", s.ChannelID)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a tick")
	}
}

func TestChannelPersistsStateSnapshot(t *testing.T) {
	store, err := state.Open(filepath.Join(t.TempDir(), "state.bbolt"))
	require.NoError(t, err)
	defer store.Close()

	ch := New("ch1", testFormat(), imagemixer.New(), log.NewMockLogger(), store)
	defer ch.Close()

	require.Eventually(t, func() bool {
		_, ok, err := store.Last("ch1")
		return err == nil && ok
	}, time.Second, 5*time.Millisecond)
}

func TestChannelRoutePublishesLayerFrames(t *testing.T) {
	ch := New("ch1", testFormat(), imagemixer.New(), log.NewMockLogger(), nil)
	defer ch.Close()

	ch.Route("tap", 0, route.ModeForeground)
	feed, cancel, ok := ch.Subscribe("tap")
	require.True(t, ok)
	defer cancel()

	p, err := producer.NewColor(testFormat(), "#00FF00FF")
	require.NoError(t, err)
	ch.Load(0, p)

	select {
	case df := <-feed:
		require.False(t, df.IsNothing())
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a routed frame")
	}
}

// pixelConsumer records the top-left BGRA pixel of every valid composite
// it receives, so a test can ask which color currently dominates the
// channel's output without pinning exact blend byte values.
type pixelConsumer struct {
	name string

	mu   sync.Mutex
	bgra [4]byte
	seen bool
}

func (c *pixelConsumer) Send(ctx context.Context, f frame.Const) future.Future[struct{}] {
	planes := f.Planes()
	if len(planes) > 0 && len(planes[0]) >= 4 {
		c.mu.Lock()
		copy(c.bgra[:], planes[0][:4])
		c.seen = true
		c.mu.Unlock()
	}
	return future.Ready(struct{}{}, nil)
}
func (c *pixelConsumer) Name() string { return c.name }
func (c *pixelConsumer) Clock() bool  { return false }
func (c *pixelConsumer) Close() error { return nil }

// dominant names whichever of blue/green/red has the largest channel value
// in the last pixel received, or "" if nothing valid has arrived yet.
func (c *pixelConsumer) dominant() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.seen {
		return ""
	}
	b, g, r := c.bgra[0], c.bgra[1], c.bgra[2]
	switch {
	case r >= g && r >= b:
		return "red"
	case g >= r && g >= b:
		return "green"
	default:
		return "blue"
	}
}

// fixedLength wraps a producer, overriding NbFrames — used to give a
// looping color producer a finite length, matching a sting overlay's
// short frame sequence.
type fixedLength struct {
	producer.Producer
	n int64
}

func (f fixedLength) NbFrames() int64 { return f.n }

// TestChannelMixTransitionHandsOffToDestination drives a mix transition
// through the public Load/LoadBackground/Play API end to end: red plays,
// a mix transition to green is staged as the background and played, and
// the channel's real tick loop must eventually settle on green once the
// transition's following_producer takes over.
func TestChannelMixTransitionHandsOffToDestination(t *testing.T) {
	ch := New("ch1", testFormat(), imagemixer.New(), log.NewMockLogger(), nil)
	defer ch.Close()

	cons := &pixelConsumer{name: "px"}
	ch.Output().Add(cons)

	src, err := producer.NewColor(testFormat(), "#FFFF0000")
	require.NoError(t, err)
	dst, err := producer.NewColor(testFormat(), "#FF00FF00")
	require.NoError(t, err)

	ch.Load(0, src)

	tr := transition.NewSimple(producer.Empty(), dst, transition.Info{Type: transition.Mix, Duration: 5})
	ch.LoadBackground(0, tr, false, false)
	ch.Play(0)

	require.Eventually(t, func() bool {
		return cons.dominant() == "green"
	}, time.Second, 5*time.Millisecond)
}

// TestChannelStingCutTransitionHandsOffToDestination drives a
// mask_filename=="empty" sting (overlay-only cut) through the same public
// API: a 7-frame blue overlay occludes the cut from red to green, and the
// channel settles on plain green once the overlay is exhausted and the
// layer has swapped to the destination producer directly.
func TestChannelStingCutTransitionHandsOffToDestination(t *testing.T) {
	ch := New("ch1", testFormat(), imagemixer.New(), log.NewMockLogger(), nil)
	defer ch.Close()

	cons := &pixelConsumer{name: "px"}
	ch.Output().Add(cons)

	src, err := producer.NewColor(testFormat(), "#FFFF0000")
	require.NoError(t, err)
	dst, err := producer.NewColor(testFormat(), "#FF00FF00")
	require.NoError(t, err)
	overlayColor, err := producer.NewColor(testFormat(), "#FF0000FF")
	require.NoError(t, err)
	overlay := fixedLength{Producer: overlayColor, n: 7}

	ch.Load(0, src)

	tr := transition.NewSting(producer.Empty(), dst, overlay, producer.Empty(), "empty", transition.StingInfo{TriggerPoint: 3})
	ch.LoadBackground(0, tr, false, false)
	ch.Play(0)

	require.Eventually(t, func() bool {
		return cons.dominant() == "blue"
	}, time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		return cons.dominant() == "green"
	}, time.Second, 5*time.Millisecond)
}
