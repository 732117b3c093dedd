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

package layer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"playout/pkg/format"
	"playout/pkg/producer"
)

func testDesc() format.Desc {
	d, _ := format.ByTag(format.F1080p2500)
	return d
}

func mustColor(t *testing.T, hex string) producer.Producer {
	t.Helper()
	p, err := producer.NewColor(testDesc(), hex)
	require.NoError(t, err)
	return p
}

func TestNewLayerIsEmpty(t *testing.T) {
	l := New()
	require.Equal(t, StateEmpty, l.Status())
}

func TestLoadBackgroundThenPlay(t *testing.T) {
	l := New()
	l.LoadBackground(mustColor(t, "#FFFF0000"), false, false)
	require.Equal(t, StateBackgroundLoaded, l.Status())

	l.Play()
	require.Equal(t, StatePlaying, l.Status())

	df, err := l.Receive(producer.FieldProgressive, 0)
	require.NoError(t, err)
	require.False(t, df.IsNothing())
}

func TestPauseFreezesOnLastFrame(t *testing.T) {
	l := New()
	l.Load(mustColor(t, "#FFFF0000"))
	first, err := l.Receive(producer.FieldProgressive, 0)
	require.NoError(t, err)

	l.Pause()
	require.Equal(t, StatePaused, l.Status())

	second, err := l.Receive(producer.FieldProgressive, 0)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestBackgroundPreviewFreezesOnFirstFrame(t *testing.T) {
	l := New()
	l.LoadBackground(mustColor(t, "#FF00FF00"), false, true)
	require.Equal(t, StateBackgroundPreview, l.Status())

	df, err := l.Receive(producer.FieldProgressive, 0)
	require.NoError(t, err)
	require.False(t, df.IsNothing())
	require.Equal(t, 0.0, df.Transform.Audio.Volume)
}

func TestClearResetsToEmpty(t *testing.T) {
	l := New()
	l.Load(mustColor(t, "#FFFF0000"))
	l.Clear()
	require.Equal(t, StateEmpty, l.Status())
}
