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

// Package rtpsink packetizes a composite's mixed audio samples as RTP
// packets over a UDP socket, splitting each tick's PCM into MTU-sized
// payloads the way an SDI/IP output stage streams a channel to a remote
// decoder. Video packetization needs an RTP payloader for a real codec
// (H.264/etc.) and is out of scope; audio is raw L16 PCM.
package rtpsink

import (
	"context"
	"encoding/binary"
	"fmt"
	"net"

	"github.com/pion/rtp/v2"

	"playout/pkg/frame"
	"playout/pkg/future"
)

const (
	maxPayloadSize = 1400
	clockRate      = 48000
	samplesPerPkt  = maxPayloadSize / 4 // 2 channels * 2 bytes/sample (L16)
)

// Sink streams a channel's mixed audio as RTP packets to a fixed UDP
// destination.
type Sink struct {
	name      string
	conn      net.Conn
	ssrc      uint32
	seq       uint16
	payload   uint8
	timestamp uint32
}

// New dials a UDP destination for RTP output.
func New(name, addr string, ssrc uint32, payloadType uint8) (*Sink, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("rtpsink: dial: %w", err)
	}
	return &Sink{name: name, conn: conn, ssrc: ssrc, payload: payloadType}, nil
}

// Send fragments fr's mixed audio samples (16-bit truncation of the
// int32 accumulator, interleaved stereo) across consecutively-sequenced
// RTP packets, marking the final fragment.
func (s *Sink) Send(ctx context.Context, fr frame.Const) future.Future[struct{}] {
	audio := fr.AudioData()
	if len(audio) == 0 {
		return future.Ready(struct{}{}, nil)
	}

	pcm := make([]byte, 2*len(audio))
	for i, v := range audio {
		binary.BigEndian.PutUint16(pcm[i*2:], uint16(int16(v>>16)))
	}

	for offset := 0; offset < len(pcm); offset += maxPayloadSize {
		end := offset + maxPayloadSize
		if end > len(pcm) {
			end = len(pcm)
		}
		last := end == len(pcm)

		packet := &rtp.Packet{
			Header: rtp.Header{
				Version:        2,
				Marker:         last,
				PayloadType:    s.payload,
				SequenceNumber: s.seq,
				Timestamp:      s.timestamp,
				SSRC:           s.ssrc,
			},
			Payload: pcm[offset:end],
		}
		s.seq++

		buf, err := packet.Marshal()
		if err != nil {
			return future.Ready(struct{}{}, fmt.Errorf("rtpsink: marshal: %w", err))
		}
		if _, err := s.conn.Write(buf); err != nil {
			return future.Ready(struct{}{}, fmt.Errorf("rtpsink: write: %w", err))
		}
	}
	s.timestamp += uint32(len(audio) / 2)
	return future.Ready(struct{}{}, nil)
}

// Name identifies this consumer instance.
func (s *Sink) Name() string { return s.name }

// Clock reports true: an RTP/SDI style sink wants to drive its own pacing.
func (s *Sink) Clock() bool { return true }

// Close closes the UDP socket.
func (s *Sink) Close() error { return s.conn.Close() }
