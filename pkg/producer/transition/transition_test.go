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

package transition

import (
	"testing"

	"github.com/stretchr/testify/require"

	"playout/pkg/format"
	"playout/pkg/frame"
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

func TestCutSwitchesImmediately(t *testing.T) {
	src := mustColor(t, "#FFFF0000")
	dst := mustColor(t, "#FF00FF00")
	tr := NewSimple(src, dst, Info{Type: Cut})

	_, err := tr.Receive(producer.FieldProgressive, 0)
	require.NoError(t, err)
	require.NotNil(t, tr.FollowingProducer())
	require.Equal(t, dst, tr.FollowingProducer())
}

func TestMixRunsForDuration(t *testing.T) {
	src := mustColor(t, "#FFFF0000")
	dst := mustColor(t, "#FF00FF00")
	tr := NewSimple(src, dst, Info{Type: Mix, Duration: 4})

	for i := 0; i < 4; i++ {
		require.Nil(t, tr.FollowingProducer())
		_, err := tr.Receive(producer.FieldProgressive, 0)
		require.NoError(t, err)
	}
	require.NotNil(t, tr.FollowingProducer())
}

func TestStingTriggersAtTriggerPoint(t *testing.T) {
	src := mustColor(t, "#FFFF0000")
	dst := mustColor(t, "#FF00FF00")
	overlayFill := mustColor(t, "#FF0000FF")
	overlayKey := mustColor(t, "#FFFFFFFF")
	overlay := producer.NewSeparated(overlayFill, overlayKey)

	tr := NewSting(src, dst, overlay, producer.Empty(), "empty", StingInfo{TriggerPoint: 2, AudioFadeStart: 1, AudioFadeDuration: 2})
	s := tr.(*sting)

	for i := 0; i < 2; i++ {
		_, err := tr.Receive(producer.FieldProgressive, 0)
		require.NoError(t, err)
	}
	require.Equal(t, phaseTriggered, s.phase)

	for int64(s.overlayTick) < s.overlayLen {
		_, err := tr.Receive(producer.FieldProgressive, 0)
		require.NoError(t, err)
	}
	require.NotNil(t, tr.FollowingProducer())
}

func TestStingMaskedModeCrossfadesUntilMaskEnds(t *testing.T) {
	src := mustColor(t, "#FFFF0000")
	dst := mustColor(t, "#FF00FF00")
	mask, err := producer.NewColor(testDesc(), "#FFFFFFFF")
	require.NoError(t, err)

	tr := NewSting(src, dst, producer.Empty(), mask, "luma_mask.png", StingInfo{TriggerPoint: 1})
	s := tr.(*sting)
	require.False(t, s.cutMode)

	df, err := tr.Receive(producer.FieldProgressive, 0)
	require.NoError(t, err)
	require.Equal(t, frame.KindList, df.Kind)
	require.Nil(t, tr.FollowingProducer())

	for !s.done() {
		_, err := tr.Receive(producer.FieldProgressive, 0)
		require.NoError(t, err)
	}
	require.NotNil(t, tr.FollowingProducer())
	require.Equal(t, dst, tr.FollowingProducer())
}
