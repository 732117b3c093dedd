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
	"fmt"

	"playout/pkg/frame"
	"playout/pkg/producer"
)

// stingFallbackFrames is used when neither the mask/overlay nor the audio
// fade window reports a length: 600 frames, 20s at 30fps, is long enough
// to cover any real sting animation without hanging forever.
const stingFallbackFrames = 600

// StingInfo configures a sting transition: an overlay producer (itself
// normally a separated fill+key pair) plus the tick offsets, within the
// transition's own timeline, at which the destination is cut in and the
// overlay's own audio should start fading.
type StingInfo struct {
	TriggerPoint int // frame at which dest replaces source
	AudioFadeStart int
	AudioFadeDuration int
}

type stingPhase int

const (
	phaseEntering stingPhase = iota
	phaseTriggered
	phaseDone
)

type sting struct {
	source, dest, overlay, mask producer.Producer
	cutMode                     bool
	info                        StingInfo
	overlayTick                 int64
	phase                       stingPhase
	overlayLen                  int64
}

// NewSting builds a sting transition. overlay is normally built from
// NewSeparated over a fill+key producer pair loaded from the same sting
// template name. mask is the template's luminance key driving the true
// "sting mode" crossfade between source and destination; pass
// maskFilename "empty" (with mask == producer.Empty()) for a template
// whose mask_filename is literally "empty", which falls back to a plain
// overlay cut at the trigger point instead of a masked crossfade.
func NewSting(source, dest, overlay, mask producer.Producer, maskFilename string, info StingInfo) producer.Producer {
	s := &sting{
		source:  source,
		dest:    dest,
		overlay: overlay,
		mask:    mask,
		cutMode: maskFilename == "" || maskFilename == "empty" || producer.IsEmpty(mask),
		info:    info,
	}
	s.overlayLen = s.targetDuration()
	return s
}

func (s *sting) done() bool { return s.phase == phaseDone }

// targetDuration picks the transition's length: in sting mode from the
// mask's own auto_play_delta/nb_frames, in cut mode from the overlay's
// nb_frames, falling back to the audio fade window and finally to
// stingFallbackFrames.
func (s *sting) targetDuration() int64 {
	if !s.cutMode {
		if delta := s.mask.AutoPlayDelta(); delta >= 0 {
			if nb := s.mask.NbFrames(); nb >= 0 {
				if d := nb - delta; d > 0 {
					return d
				}
			}
		}
		if nb := s.mask.NbFrames(); nb > 0 {
			return nb
		}
	} else if nb := s.overlay.NbFrames(); nb > 0 {
		return nb
	}
	if fade := int64(s.info.AudioFadeStart + s.info.AudioFadeDuration); fade > 0 {
		return fade
	}
	return stingFallbackFrames
}

func (s *sting) audioDelta() float64 {
	if s.info.AudioFadeDuration <= 0 {
		return 1
	}
	t := int(s.overlayTick) - s.info.AudioFadeStart
	if t <= 0 {
		return 1
	}
	if t >= s.info.AudioFadeDuration {
		return 0
	}
	return 1 - float64(t)/float64(s.info.AudioFadeDuration)
}

func (s *sting) Receive(field producer.Field, nbSamples int) (frame.DrawFrame, error) {
	if s.done() {
		return s.dest.Receive(field, nbSamples)
	}

	if s.overlayTick >= int64(s.info.TriggerPoint) && s.phase == phaseEntering {
		s.phase = phaseTriggered
	}

	var composite frame.DrawFrame
	var err error
	if s.cutMode {
		composite, err = s.receiveCut(field, nbSamples)
	} else {
		composite, err = s.receiveMasked(field, nbSamples)
	}
	if err != nil {
		return frame.DrawFrame{}, err
	}

	s.overlayTick++
	if s.overlayTick >= int64(s.info.TriggerPoint) && s.phase == phaseEntering {
		s.phase = phaseTriggered
	}
	if s.overlayTick >= s.overlayLen {
		s.phase = phaseDone
	}
	return composite, nil
}

// receiveCut is the mask_filename=="empty" fallback: the overlay alone
// cuts source to destination underneath it at the trigger point.
func (s *sting) receiveCut(field producer.Field, nbSamples int) (frame.DrawFrame, error) {
	overlayFrame, err := s.overlay.Receive(field, nbSamples)
	if err != nil {
		return frame.DrawFrame{}, fmt.Errorf("sting: overlay: %w", err)
	}
	overlayFrame.Transform.Audio.Volume *= s.audioDelta()

	var under frame.DrawFrame
	if s.phase == phaseEntering {
		under, err = s.source.Receive(field, nbSamples)
	} else {
		under, err = s.dest.Receive(field, nbSamples)
	}
	if err != nil {
		under = frame.Empty()
	}
	return frame.Over(under, overlayFrame), nil
}

// receiveMasked builds the named "sting" mode's real composite: the
// mask's luminance keys destination in as it keys source out
// ([inverted-mask-key, src, mask-key, dst]), with the overlay, if any,
// drawn on top.
func (s *sting) receiveMasked(field producer.Field, nbSamples int) (frame.DrawFrame, error) {
	maskFrame, err := s.mask.Receive(field, nbSamples)
	if err != nil {
		return frame.DrawFrame{}, fmt.Errorf("sting: mask: %w", err)
	}

	srcFrame, err := s.source.Receive(field, nbSamples)
	if err != nil {
		srcFrame = frame.Empty()
	}
	dstFrame, err := s.dest.Receive(field, nbSamples)
	if err != nil {
		return frame.DrawFrame{}, fmt.Errorf("sting: dest: %w", err)
	}

	invertedMask := maskFrame
	invertedMask.Transform.Image.Invert = true
	srcMasked := frame.Mask(srcFrame, invertedMask)
	dstMasked := frame.Mask(dstFrame, maskFrame)
	crossfade := frame.Over(srcMasked, dstMasked)

	if producer.IsEmpty(s.overlay) {
		return crossfade, nil
	}
	overlayFrame, err := s.overlay.Receive(field, nbSamples)
	if err != nil {
		return frame.DrawFrame{}, fmt.Errorf("sting: overlay: %w", err)
	}
	overlayFrame.Transform.Audio.Volume *= s.audioDelta()
	return frame.Over(crossfade, overlayFrame), nil
}

func (s *sting) LastFrame(field producer.Field) frame.DrawFrame  { return s.dest.LastFrame(field) }
func (s *sting) FirstFrame(field producer.Field) frame.DrawFrame { return s.dest.FirstFrame(field) }
func (s *sting) NbFrames() int64                                 { return s.dest.NbFrames() }
func (s *sting) FrameNumber() int64                              { return s.overlayTick }
func (s *sting) Call(params []string) (string, error)            { return s.dest.Call(params) }

// LeadingProducer captures the producer this sting is replacing as its
// source — the layer calls this exactly once, at play time, when the
// sting was staged as a background with only its destination known.
func (s *sting) LeadingProducer(leading producer.Producer) {
	s.source = leading
	s.dest.LeadingProducer(leading)
}
func (s *sting) FollowingProducer() producer.Producer {
	if s.done() {
		return s.dest
	}
	return nil
}
func (s *sting) AutoPlayDelta() int64 { return s.dest.AutoPlayDelta() }
func (s *sting) IsReady() bool        { return s.overlay.IsReady() && s.mask.IsReady() && s.dest.IsReady() }
func (s *sting) Paused(paused bool) {
	s.source.Paused(paused)
	s.dest.Paused(paused)
	s.overlay.Paused(paused)
	s.mask.Paused(paused)
}
func (s *sting) Name() string { return "sting" }
func (s *sting) Print() string {
	return fmt.Sprintf("sting[%s->%s]", s.source.Print(), s.dest.Print())
}
func (s *sting) State() producer.State {
	phase := "entering"
	if s.phase == phaseTriggered {
		phase = "triggered"
	} else if s.phase == phaseDone {
		phase = "done"
	}
	mode := "sting"
	if s.cutMode {
		mode = "cut"
	}
	return producer.State{
		"name":  s.Name(),
		"mode":  mode,
		"phase": phase,
		"tick":  fmt.Sprintf("%d/%d", s.overlayTick, s.overlayLen),
	}
}
