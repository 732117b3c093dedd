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

package output

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"playout/pkg/frame"
	"playout/pkg/future"
)

type fakeConsumer struct {
	name    string
	clock   bool
	fail    bool
	sent    int32
	closed  int32
}

func (f *fakeConsumer) Send(ctx context.Context, fr frame.Const) future.Future[struct{}] {
	atomic.AddInt32(&f.sent, 1)
	if f.fail {
		return future.Ready(struct{}{}, fmt.Errorf("boom"))
	}
	return future.Ready(struct{}{}, nil)
}
func (f *fakeConsumer) Name() string  { return f.name }
func (f *fakeConsumer) Clock() bool   { return f.clock }
func (f *fakeConsumer) Close() error  { atomic.AddInt32(&f.closed, 1); return nil }

func TestOutputSendsToAllConsumers(t *testing.T) {
	o := New()
	a := &fakeConsumer{name: "a"}
	b := &fakeConsumer{name: "b"}
	o.Add(a)
	o.Add(b)

	o.Send(context.Background(), frame.Const{})
	require.EqualValues(t, 1, a.sent)
	require.EqualValues(t, 1, b.sent)
}

func TestOutputDropsFailingConsumer(t *testing.T) {
	o := New()
	var removed string
	o.OnRemove(func(name string, err error) { removed = name })

	bad := &fakeConsumer{name: "bad", fail: true}
	o.Add(bad)

	for i := 0; i < maxConsumerFailures; i++ {
		o.Send(context.Background(), frame.Const{})
	}

	require.Equal(t, "bad", removed)
	require.EqualValues(t, 1, bad.closed)
	require.Empty(t, o.Names())
}

func TestHasClockedConsumer(t *testing.T) {
	o := New()
	require.False(t, o.HasClockedConsumer())
	o.Add(&fakeConsumer{name: "clk", clock: true})
	require.True(t, o.HasClockedConsumer())
}
