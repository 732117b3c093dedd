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

// Package wsconsumer streams per-tick frame metadata to a browser preview
// or telemetry client as JSON websocket messages, the same
// upgrade-then-push pattern the log package's live log view uses.
package wsconsumer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"playout/pkg/frame"
	"playout/pkg/future"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1 << 20,
}

// frameMeta is the JSON document written for each tick: enough for a
// telemetry client to plot frame size and audio level without decoding
// the actual pixel/sample data.
type frameMeta struct {
	Size      int   `json:"size"`
	AudioPeak int32 `json:"audioPeak"`
	Samples   int   `json:"samples"`
	Empty     bool  `json:"empty"`
}

// Consumer streams one frameMeta document per message to an upgraded
// websocket connection, dropping frames rather than blocking if the
// client falls behind (preview consumers never pace playback).
type Consumer struct {
	name string
	mu   sync.Mutex
	conn *websocket.Conn
}

// Upgrade upgrades an incoming HTTP request to a websocket and returns a
// Consumer writing to it.
func Upgrade(name string, w http.ResponseWriter, r *http.Request) (*Consumer, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, fmt.Errorf("wsconsumer: upgrade: %w", err)
	}
	return &Consumer{name: name, conn: conn}, nil
}

// Send writes a JSON summary of fr: total plane bytes, sample count, and
// peak absolute audio amplitude.
func (c *Consumer) Send(ctx context.Context, fr frame.Const) future.Future[struct{}] {
	meta := frameMeta{Empty: !fr.IsValid()}
	for _, plane := range fr.Planes() {
		meta.Size += len(plane)
	}
	audio := fr.AudioData()
	meta.Samples = len(audio)
	for _, v := range audio {
		if v < 0 {
			v = -v
		}
		if v > meta.AudioPeak {
			meta.AudioPeak = v
		}
	}

	buf, err := json.Marshal(meta)
	if err != nil {
		return future.Ready(struct{}{}, fmt.Errorf("wsconsumer: marshal: %w", err))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.WriteMessage(websocket.TextMessage, buf); err != nil {
		return future.Ready(struct{}{}, fmt.Errorf("wsconsumer: write: %w", err))
	}
	return future.Ready(struct{}{}, nil)
}

// Name identifies this consumer instance.
func (c *Consumer) Name() string { return c.name }

// Clock reports false: a browser preview is paced by the channel.
func (c *Consumer) Clock() bool { return false }

// Close closes the underlying websocket connection.
func (c *Consumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}
