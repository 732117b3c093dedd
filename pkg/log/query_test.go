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

package log

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func newTestLogger(t *testing.T) (context.Context, func(), *Logger) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "logs.sqlite3")

	var wg sync.WaitGroup
	logger, err := NewLogger(dbPath, &wg)
	if err != nil {
		t.Fatalf("could not create logger: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := logger.Start(ctx); err != nil {
		t.Fatalf("could not start logger: %v", err)
	}

	teardown := func() {
		cancel()
		wg.Wait()
	}
	return ctx, teardown, logger
}

func TestQuery(t *testing.T) {
	msg1 := Log{
		Level:   LevelError,
		Time:    4000,
		Src:     "s1",
		Channel: "m1",
		Msg:     "msg1",
	}
	msg2 := Log{
		Level: LevelWarning,
		Time:  3000,
		Src:   "s1",
		Msg:   "msg2",
	}
	msg3 := Log{
		Level:   LevelInfo,
		Time:    2000,
		Src:     "s2",
		Channel: "m2",
		Msg:     "msg3",
	}

	ctx, cancel, logger := newTestLogger(t)
	defer cancel()

	go logger.LogToDB(ctx)

	// Populate database.
	time.Sleep(1 * time.Millisecond)
	logger.Error().Src("s1").Channel("m1").Time(time.Unix(0, 4000000)).Msg("msg1")
	logger.Warn().Src("s1").Time(time.Unix(0, 3000000)).Msg("msg2")
	logger.Info().Src("s2").Channel("m2").Time(time.Unix(0, 2000000)).Msg("msg3")
	time.Sleep(10 * time.Millisecond)

	cases := []struct {
		name     string
		input    Query
		expected *[]Log
	}{
		{
			name: "singleLevel",
			input: Query{
				Levels:  []Level{LevelWarning},
				Sources: []string{"s1"},
			},
			expected: &[]Log{msg2},
		},
		{
			name: "multipleLevels",
			input: Query{
				Levels:  []Level{LevelError, LevelWarning},
				Sources: []string{"s1"},
			},
			expected: &[]Log{msg1, msg2},
		},
		{
			name: "multipleSources",
			input: Query{
				Levels:  []Level{LevelError, LevelInfo},
				Sources: []string{"s1", "s2"},
			},
			expected: &[]Log{msg1, msg3},
		},
		{
			name: "singleChannel",
			input: Query{
				Levels:   []Level{LevelError, LevelInfo},
				Sources:  []string{"s1", "s2"},
				Channels: []string{"m1"},
			},
			expected: &[]Log{msg1},
		},
		{
			name: "multipleChannels",
			input: Query{
				Levels:   []Level{LevelError, LevelInfo},
				Sources:  []string{"s1", "s2"},
				Channels: []string{"m1", "m2"},
			},
			expected: &[]Log{msg1, msg3},
		},
		{
			name: "all",
			input: Query{
				Levels:  []Level{LevelError, LevelWarning, LevelInfo, LevelDebug},
				Sources: []string{"s1", "s2"},
			},
			expected: &[]Log{msg1, msg2, msg3},
		},
		{
			name: "limit",
			input: Query{
				Levels:  []Level{LevelError, LevelWarning, LevelInfo, LevelDebug},
				Sources: []string{"s1", "s2"},
				Limit:   2,
			},
			expected: &[]Log{msg1, msg2},
		},
		{
			name: "time",
			input: Query{
				Levels:  []Level{LevelError, LevelWarning, LevelInfo, LevelDebug},
				Sources: []string{"s1", "s2"},
				Time:    4000,
			},
			expected: &[]Log{msg2, msg3},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logs, err := logger.Query(tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			actual := fmt.Sprintf("%v", logs)
			expected := fmt.Sprintf("%v", tc.expected)

			if actual != expected {
				t.Fatalf("\nexpected:\n%v.\ngot:\n%v", expected, actual)
			}
		})
	}
}
