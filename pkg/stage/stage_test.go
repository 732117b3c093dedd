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

package stage

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

func TestStageTickOrdersByLayerIndex(t *testing.T) {
	s := New()
	defer s.Close()

	s.Load(2, mustColor(t, "#FF0000FF"))
	s.Load(1, mustColor(t, "#FF00FF00"))

	out := s.Tick(producer.FieldProgressive, 0, nil, nil)
	require.Len(t, out, 2)
	require.Equal(t, 1, out[1].Foreground.Transform.Image.LayerDepth)
	require.Equal(t, 2, out[2].Foreground.Transform.Image.LayerDepth)
}

func TestStageTransformTweens(t *testing.T) {
	s := New()
	defer s.Close()
	s.Load(1, mustColor(t, "#FFFFFFFF"))

	dest := frame.Default()
	dest.Image.Opacity = 0
	s.SetTransform(1, dest, 2, nil)

	s.Tick(producer.FieldProgressive, 0, nil, nil)
	out := s.Tick(producer.FieldProgressive, 0, nil, nil)
	require.Less(t, out[1].Foreground.Transform.Image.Opacity, 1.0)
}

func TestSwapLayerWithinSameStage(t *testing.T) {
	s := New()
	defer s.Close()
	s.Load(1, mustColor(t, "#FFFF0000"))
	s.Load(2, mustColor(t, "#FF00FF00"))

	l1Before := s.Layer(1)
	l2Before := s.Layer(2)

	SwapLayer(s, 1, s, 2)

	require.Same(t, l1Before, s.Layer(2))
	require.Same(t, l2Before, s.Layer(1))
}

func TestSwapLayerAcrossStages(t *testing.T) {
	a := New()
	defer a.Close()
	b := New()
	defer b.Close()

	a.Load(1, mustColor(t, "#FFFF0000"))
	aLayer := a.Layer(1)

	SwapLayer(a, 1, b, 1)

	require.Same(t, aLayer, b.Layer(1))
}
