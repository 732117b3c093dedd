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

// Package state durably persists each channel's published state tree so
// a control surface can read "last published state" after a crash. Each
// channel gets its own bbolt bucket, keyed by tick number.
package state

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

const defaultMaxSnapshots = 1000

// Snapshot is one channel's published state at a tick.
type Snapshot struct {
	ChannelID string          `json:"channelId"`
	Tick      uint64          `json:"tick"`
	Time      time.Time       `json:"time"`
	Data      json.RawMessage `json:"data"`
}

// Store is a durable per-channel snapshot store.
type Store struct {
	db       *bolt.DB
	maxPerCh int
}

// Open opens (creating if necessary) the bbolt database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("state: open: %w", err)
	}
	return &Store{db: db, maxPerCh: defaultMaxSnapshots}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Put persists snap, evicting the channel's oldest snapshot first if its
// bucket has reached the retention limit.
func (s *Store) Put(snap Snapshot) error {
	value, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("state: marshal: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(snap.ChannelID))
		if err != nil {
			return fmt.Errorf("state: bucket: %w", err)
		}
		if b.Stats().KeyN >= s.maxPerCh {
			if k, _ := b.Cursor().First(); k != nil {
				if err := b.Delete(k); err != nil {
					return fmt.Errorf("state: evict: %w", err)
				}
			}
		}
		return b.Put(encodeTick(snap.Tick), value)
	})
}

// Last returns the most recently persisted snapshot for channelID.
func (s *Store) Last(channelID string) (Snapshot, bool, error) {
	var snap Snapshot
	var found bool

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(channelID))
		if b == nil {
			return nil
		}
		_, value := b.Cursor().Last()
		if value == nil {
			return nil
		}
		if err := json.Unmarshal(value, &snap); err != nil {
			return fmt.Errorf("state: unmarshal: %w", err)
		}
		found = true
		return nil
	})
	if err != nil {
		return Snapshot{}, false, err
	}
	return snap, found, nil
}

// At returns the snapshot at or immediately before tick for channelID.
func (s *Store) At(channelID string, tick uint64) (Snapshot, bool, error) {
	var snap Snapshot
	var found bool

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(channelID))
		if b == nil {
			return nil
		}
		c := b.Cursor()
		k, value := c.Seek(encodeTick(tick))
		if k == nil || decodeTick(k) != tick {
			k, value = c.Prev()
		}
		if k == nil {
			return nil
		}
		if err := json.Unmarshal(value, &snap); err != nil {
			return fmt.Errorf("state: unmarshal: %w", err)
		}
		found = true
		return nil
	})
	if err != nil {
		return Snapshot{}, false, err
	}
	return snap, found, nil
}

func encodeTick(tick uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, tick)
	return buf
}

func decodeTick(key []byte) uint64 {
	return binary.BigEndian.Uint64(key)
}
