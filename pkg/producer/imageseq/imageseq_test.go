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

package imageseq

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"playout/pkg/format"
	"playout/pkg/frame"
	"playout/pkg/producer"
)

func testDesc() format.Desc {
	d, _ := format.ByTag(format.F576p2500)
	return d
}

func writeFrameFile(t *testing.T, dir, name string, desc format.Desc, fill byte) {
	size := desc.Width * desc.Height * 4
	data := make([]byte, size)
	for i := range data {
		data[i] = fill
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o600))
}

func TestImageSeqPlaysExistingFiles(t *testing.T) {
	dir := t.TempDir()
	desc := testDesc()
	writeFrameFile(t, dir, "0001.bgra", desc, 0x10)
	writeFrameFile(t, dir, "0002.bgra", desc, 0x20)

	p, err := New(dir, desc)
	require.NoError(t, err)
	defer p.Close()

	require.Equal(t, int64(2), p.NbFrames())

	df, err := p.Receive(producer.FieldProgressive, 0)
	require.NoError(t, err)
	require.Equal(t, frame.KindLeaf, df.Kind)

	df, err = p.Receive(producer.FieldProgressive, 0)
	require.NoError(t, err)
	require.Equal(t, frame.KindLeaf, df.Kind)
}

func TestImageSeqPicksUpNewFile(t *testing.T) {
	dir := t.TempDir()
	desc := testDesc()

	p, err := New(dir, desc)
	require.NoError(t, err)
	defer p.Close()
	require.False(t, p.IsReady())

	writeFrameFile(t, dir, "0001.bgra", desc, 0x30)

	require.Eventually(t, func() bool {
		return p.IsReady()
	}, time.Second, 10*time.Millisecond)
}

func TestImageSeqFirstFrameSeeksToStart(t *testing.T) {
	dir := t.TempDir()
	desc := testDesc()
	writeFrameFile(t, dir, "0001.bgra", desc, 0x10)
	writeFrameFile(t, dir, "0002.bgra", desc, 0x20)

	p, err := New(dir, desc)
	require.NoError(t, err)
	defer p.Close()

	_, _ = p.Receive(producer.FieldProgressive, 0)
	_, _ = p.Receive(producer.FieldProgressive, 0)
	require.Equal(t, int64(1), p.FrameNumber())

	df := p.FirstFrame(producer.FieldProgressive)
	require.Equal(t, frame.KindLeaf, df.Kind)
	require.Equal(t, int64(0), p.FrameNumber())
}
