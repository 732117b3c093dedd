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

package route

import (
	"testing"

	"github.com/stretchr/testify/require"

	"playout/pkg/frame"
)

func TestSourcePublishesToSubscriber(t *testing.T) {
	s := NewSource()
	feed, cancel := s.Subscribe(ModeForeground)
	defer cancel()

	s.Publish(ModeForeground, frame.Empty())
	got := <-feed
	require.True(t, got.IsNothing())
}

func TestSourceDoesNotPublishToOtherMode(t *testing.T) {
	s := NewSource()
	feed, cancel := s.Subscribe(ModeBackground)
	defer cancel()

	s.Publish(ModeForeground, frame.Empty())
	select {
	case <-feed:
		t.Fatal("expected no frame on background feed")
	default:
	}
}

func TestTableRegisterAndSubscribe(t *testing.T) {
	table := NewTable()
	s := NewSource()
	table.Register("cam1", s, ModeForeground)

	feed, cancel, ok := table.Subscribe("cam1")
	require.True(t, ok)
	defer cancel()

	s.Publish(ModeForeground, frame.Empty())
	<-feed

	table.Unregister("cam1")
	_, _, ok = table.Subscribe("cam1")
	require.False(t, ok)
}
