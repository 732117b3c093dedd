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

// Package config defines the shape of a channel's configuration: its
// video format, layer count, consumers and routes. It uses a free-form
// map[string]string pattern for per-component settings, plus a typed
// ChannelConfig that (de)serializes as YAML. Reading configuration from
// disk and wiring channels from it belongs to the control surface and
// is out of scope here; this package only defines and (de)serializes
// the document.
package config

import (
	"fmt"

	"gopkg.in/yaml.v2"

	"playout/pkg/format"
)

// Config is a free-form key/value settings bag, used for consumer and
// route definitions whose fields vary by kind (address, payload type,
// file path, ...).
type Config map[string]string

// Kind getter.
func (c Config) Kind() string { return c["kind"] }

// Name getter.
func (c Config) Name() string { return c["name"] }

// Address getter, used by network consumers (rtpsink).
func (c Config) Address() string { return c["address"] }

// Path getter, used by filesystem-backed components (filesink, imageseq).
func (c Config) Path() string { return c["path"] }

// enabled reports whether the component should be instantiated.
func (c Config) enabled() bool { return c["enabled"] != "false" }

// Enabled getter.
func (c Config) Enabled() bool { return c.enabled() }

// ConsumerConfig is a single consumer's settings.
type ConsumerConfig struct {
	Kind     string `yaml:"kind"`
	Name     string `yaml:"name"`
	Address  string `yaml:"address,omitempty"`
	Path     string `yaml:"path,omitempty"`
	SSRC     uint32 `yaml:"ssrc,omitempty"`
	Payload  uint8  `yaml:"payload,omitempty"`
	Enabled  bool   `yaml:"enabled"`
}

// RouteConfig names a cross-channel tap: layer Index of SourceChannel is
// published under Name for Mode (foreground/background/next, by name so
// the document stays human-editable).
type RouteConfig struct {
	Name          string `yaml:"name"`
	SourceChannel string `yaml:"sourceChannel"`
	Layer         int    `yaml:"layer"`
	Mode          string `yaml:"mode"`
}

// FormatConfig names either a predefined video_format_desc tag or, when
// Tag is "CUSTOM", an explicit geometry/framerate.
type FormatConfig struct {
	Tag          string `yaml:"tag"`
	Width        int    `yaml:"width,omitempty"`
	Height       int    `yaml:"height,omitempty"`
	FPSNum       int    `yaml:"fpsNum,omitempty"`
	FPSDen       int    `yaml:"fpsDen,omitempty"`
	Interlaced   bool   `yaml:"interlaced,omitempty"`
}

// ChannelConfig is one channel's complete configuration document.
type ChannelConfig struct {
	ID        string           `yaml:"id"`
	Format    FormatConfig     `yaml:"format"`
	Layers    int              `yaml:"layers"`
	Consumers []ConsumerConfig `yaml:"consumers"`
	Routes    []RouteConfig    `yaml:"routes,omitempty"`
}

// nameToTag maps the human-readable format names a document may use to
// the predefined table's Tag values.
var nameToTag = map[string]format.Tag{
	"PAL": format.PAL, "NTSC": format.NTSC,
	"576p2500": format.F576p2500,
	"720p2500": format.F720p2500, "720p5000": format.F720p5000,
	"720p5994": format.F720p5994, "720p6000": format.F720p6000,
	"1080p2398": format.F1080p2398, "1080p2400": format.F1080p2400,
	"1080i5000": format.F1080i5000, "1080i5994": format.F1080i5994,
	"1080i6000": format.F1080i6000,
	"1080p2500": format.F1080p2500, "1080p2997": format.F1080p2997,
	"1080p3000": format.F1080p3000, "1080p5000": format.F1080p5000,
	"1080p5994": format.F1080p5994, "1080p6000": format.F1080p6000,
	"2160p2398": format.F2160p2398, "2160p2400": format.F2160p2400,
	"2160p2500": format.F2160p2500, "2160p2997": format.F2160p2997,
	"2160p3000": format.F2160p3000,
}

// Desc resolves f into a format.Desc, looking it up in the predefined
// table unless Tag is "CUSTOM".
func (f FormatConfig) Desc() (format.Desc, error) {
	if f.Tag == "CUSTOM" {
		fieldCount := 1
		if f.Interlaced {
			fieldCount = 2
		}
		return format.NewCustom(f.Width, f.Height, f.FPSNum, f.FPSDen, fieldCount), nil
	}
	tag, ok := nameToTag[f.Tag]
	if !ok {
		return format.Desc{}, fmt.Errorf("config: unknown format tag %q", f.Tag)
	}
	desc, ok := format.ByTag(tag)
	if !ok {
		return format.Desc{}, fmt.Errorf("config: format tag %q not in table", f.Tag)
	}
	return desc, nil
}

// Validate checks the document for the errors a channel constructor
// cannot recover from: a missing id, zero layers, or an unresolvable
// format.
func (c ChannelConfig) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("config: channel id is required")
	}
	if c.Layers <= 0 {
		return fmt.Errorf("config: channel %q: layers must be positive", c.ID)
	}
	if _, err := c.Format.Desc(); err != nil {
		return fmt.Errorf("config: channel %q: %w", c.ID, err)
	}
	for _, cons := range c.Consumers {
		if cons.Kind == "" {
			return fmt.Errorf("config: channel %q: consumer missing kind", c.ID)
		}
	}
	return nil
}

// Marshal serializes c as a YAML document.
func (c ChannelConfig) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Unmarshal parses a YAML document into a ChannelConfig.
func Unmarshal(data []byte) (ChannelConfig, error) {
	var c ChannelConfig
	if err := yaml.Unmarshal(data, &c); err != nil {
		return ChannelConfig{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return c, nil
}
