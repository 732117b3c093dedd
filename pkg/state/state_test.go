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

package state

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func prepareStore(t *testing.T) *Store {
	path := filepath.Join(t.TempDir(), "state.bbolt")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStorePutAndLast(t *testing.T) {
	s := prepareStore(t)

	for tick := uint64(1); tick <= 3; tick++ {
		require.NoError(t, s.Put(Snapshot{
			ChannelID: "ch1",
			Tick:      tick,
			Time:      time.Unix(int64(tick), 0).UTC(),
			Data:      json.RawMessage(`{"playing":true}`),
		}))
	}

	got, ok, err := s.Last("ch1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(3), got.Tick)
}

func TestStoreLastOnEmptyChannel(t *testing.T) {
	s := prepareStore(t)

	_, ok, err := s.Last("missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStoreAtFallsBackToPriorTick(t *testing.T) {
	s := prepareStore(t)
	require.NoError(t, s.Put(Snapshot{ChannelID: "ch1", Tick: 10, Data: json.RawMessage(`{}`)}))
	require.NoError(t, s.Put(Snapshot{ChannelID: "ch1", Tick: 20, Data: json.RawMessage(`{}`)}))

	got, ok, err := s.At("ch1", 15)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(10), got.Tick)
}

func TestStoreEvictsOldestWhenFull(t *testing.T) {
	s := prepareStore(t)
	s.maxPerCh = 2

	for tick := uint64(1); tick <= 3; tick++ {
		require.NoError(t, s.Put(Snapshot{ChannelID: "ch1", Tick: tick, Data: json.RawMessage(`{}`)}))
	}

	_, ok, err := s.At("ch1", 1)
	require.NoError(t, err)
	require.False(t, ok, "oldest snapshot should have been evicted")

	got, ok, err := s.Last("ch1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(3), got.Tick)
}
