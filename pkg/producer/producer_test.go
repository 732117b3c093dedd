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

package producer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"playout/pkg/format"
)

func testDesc() format.Desc {
	d, _ := format.ByTag(format.F1080p2500)
	return d
}

func TestColorProducer(t *testing.T) {
	p, err := NewColor(testDesc(), "#FF102030")
	require.NoError(t, err)
	require.Equal(t, "color[FF102030]", p.Print())

	df, err := p.Receive(FieldProgressive, 0)
	require.NoError(t, err)
	require.False(t, df.IsNothing())
	require.Equal(t, int64(-1), p.NbFrames())
}

func TestColorProducerInvalid(t *testing.T) {
	_, err := NewColor(testDesc(), "notacolor")
	require.Error(t, err)
}

func TestRegistryTriesInOrder(t *testing.T) {
	r := NewRegistry()
	r.Register("color", ColorFactory)
	r.Register("generator", GeneratorFactory)

	p, err := r.Create(testDesc(), []string{"COLOR", "#FFFFFFFF"})
	require.NoError(t, err)
	require.Equal(t, "color", p.Name())

	p, err = r.Create(testDesc(), []string{"GENERATOR"})
	require.NoError(t, err)
	require.Equal(t, "generator", p.Name())

	_, err = r.Create(testDesc(), []string{"NOPE"})
	require.Error(t, err)
}

func TestSeparatedProducerMasksKeyOntoFill(t *testing.T) {
	fill, err := NewColor(testDesc(), "#FFFF0000")
	require.NoError(t, err)
	key, err := NewColor(testDesc(), "#FFFFFFFF")
	require.NoError(t, err)

	sep := NewSeparated(fill, key)
	df, err := sep.Receive(FieldProgressive, 0)
	require.NoError(t, err)
	require.Equal(t, 2, len(df.Children))
	require.True(t, df.Children[0].Transform.Image.IsKey)
}

func TestGeneratorProducerAdvancesPosition(t *testing.T) {
	g := NewGenerator(testDesc(), 1000)
	_, err := g.Receive(FieldProgressive, 1920)
	require.NoError(t, err)
	require.Equal(t, int64(1), g.FrameNumber())
}

func TestEmptyProducer(t *testing.T) {
	e := Empty()
	require.True(t, IsEmpty(e))
	df, err := e.Receive(FieldProgressive, 0)
	require.NoError(t, err)
	require.True(t, df.IsNothing())
}
