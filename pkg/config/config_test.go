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

package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChannelConfigRoundTrip(t *testing.T) {
	c := ChannelConfig{
		ID:     "ch1",
		Format: FormatConfig{Tag: "1080p5000"},
		Layers: 10,
		Consumers: []ConsumerConfig{
			{Kind: "file", Name: "rec", Path: "/tmp/out.raw", Enabled: true},
			{Kind: "rtp", Name: "sdi1", Address: "127.0.0.1:5004", SSRC: 1, Payload: 96, Enabled: true},
		},
		Routes: []RouteConfig{
			{Name: "ch1-layer1", SourceChannel: "ch1", Layer: 1, Mode: "foreground"},
		},
	}
	require.NoError(t, c.Validate())

	data, err := c.Marshal()
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, c, got)
}

func TestFormatConfigDescPredefined(t *testing.T) {
	f := FormatConfig{Tag: "PAL"}
	desc, err := f.Desc()
	require.NoError(t, err)
	require.Equal(t, 720, desc.Width)
	require.Equal(t, 576, desc.Height)
}

func TestFormatConfigDescCustom(t *testing.T) {
	f := FormatConfig{Tag: "CUSTOM", Width: 1024, Height: 768, FPSNum: 30, FPSDen: 1}
	desc, err := f.Desc()
	require.NoError(t, err)
	require.Equal(t, 1024, desc.Width)
	require.InDelta(t, 30.0, desc.FPS(), 0.01)
}

func TestFormatConfigDescUnknownTag(t *testing.T) {
	f := FormatConfig{Tag: "NOT_A_FORMAT"}
	_, err := f.Desc()
	require.Error(t, err)
}

func TestChannelConfigValidateRejectsMissingID(t *testing.T) {
	c := ChannelConfig{Format: FormatConfig{Tag: "PAL"}, Layers: 1}
	require.Error(t, c.Validate())
}

func TestChannelConfigValidateRejectsZeroLayers(t *testing.T) {
	c := ChannelConfig{ID: "ch1", Format: FormatConfig{Tag: "PAL"}, Layers: 0}
	require.Error(t, c.Validate())
}

func TestConfigAccessors(t *testing.T) {
	c := Config{"kind": "rtp", "name": "sdi1", "address": "127.0.0.1:5004", "enabled": "false"}
	require.Equal(t, "rtp", c.Kind())
	require.Equal(t, "sdi1", c.Name())
	require.Equal(t, "127.0.0.1:5004", c.Address())
	require.False(t, c.Enabled())
}
