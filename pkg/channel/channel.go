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

// Package channel ties one channel's stage, mixer, output and routes
// together into the tick loop: one goroutine, started at construction,
// that produces, mixes, outputs and publishes state every frame until
// told to stop.
package channel

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"playout/pkg/format"
	"playout/pkg/frame"
	"playout/pkg/layer"
	"playout/pkg/log"
	"playout/pkg/mixer"
	"playout/pkg/output"
	"playout/pkg/producer"
	"playout/pkg/route"
	"playout/pkg/stage"
	"playout/pkg/state"
)

// AudioState is the mixer's published audio diagnostics.
type AudioState struct {
	// Volume is the most recently flushed tick's per-channel absolute peak.
	Volume []int32 `json:"volume"`
	// Overflow counts cadence-carryover truncations (audio-buffer-overflow).
	Overflow int64 `json:"overflow"`
	Clipped  int64 `json:"clipped"`
}

// MixerState is the channel's published mixer diagnostics.
type MixerState struct {
	Audio AudioState `json:"audio"`
}

// State is the per-tick diagnostics snapshot a channel publishes.
type State struct {
	ChannelID string               `json:"channelId"`
	Tick      uint64               `json:"tick"`
	Layers    map[int]layer.State  `json:"layers"`
	Consumers []string             `json:"consumers"`
	Mixer     MixerState           `json:"mixer"`
	Output    []output.Port        `json:"output"`
	Framerate [2]int               `json:"framerate"`
	Timing    TimingDiagnostics    `json:"timing"`
	Host      HostStats            `json:"host"`
}

// OnTick is invoked with the state snapshot after every tick.
type OnTick func(State)

// Channel owns a stage, a mixer, an output, and a route table for one
// playout channel, and drives them from a single tick-producing loop.
type Channel struct {
	id string

	fmtMu  sync.Mutex
	format format.Desc

	stage  *stage.Stage
	mixer  *mixer.Mixer
	output *output.Output
	routes *route.Table

	srcMu   sync.Mutex
	sources map[int]*route.Source

	idxMu   sync.Mutex
	indexes map[int]struct{}

	log    *log.Logger
	states *state.Store

	host *hostSampler

	onTickMu sync.Mutex
	onTick   OnTick

	tick         uint64
	abort        atomic.Bool
	lastOverflow atomic.Int64
	done         chan struct{}
	hostCancel   context.CancelFunc
}

// New constructs a channel and starts its tick loop. image builds the
// pluggable video compositor; states may be nil to disable durable
// snapshotting.
func New(id string, desc format.Desc, image mixer.ImageMixer, logger *log.Logger, states *state.Store) *Channel {
	hostCtx, hostCancel := context.WithCancel(context.Background())
	c := &Channel{
		id:         id,
		format:     desc,
		stage:      stage.New(),
		mixer:      mixer.New(image),
		output:     output.New(),
		routes:     route.NewTable(),
		sources:    map[int]*route.Source{},
		indexes:    map[int]struct{}{},
		log:        logger,
		states:     states,
		host:       newHostSampler(logger),
		done:       make(chan struct{}),
		hostCancel: hostCancel,
	}
	go c.host.Loop(hostCtx)
	go c.run()
	return c
}

// ID returns the channel's identifier.
func (c *Channel) ID() string { return c.id }

// Stage returns the underlying stage, for callers that need direct
// access (e.g. cross-channel SwapLayer).
func (c *Channel) Stage() *stage.Stage { return c.stage }

// Output returns the underlying output, for attaching/removing consumers.
func (c *Channel) Output() *output.Output { return c.output }

func (c *Channel) markIndex(index int) {
	c.idxMu.Lock()
	c.indexes[index] = struct{}{}
	c.idxMu.Unlock()
}

// LoadBackground stages p on layer index's background slot.
func (c *Channel) LoadBackground(index int, p producer.Producer, autoPlay, preview bool) {
	c.markIndex(index)
	c.stage.LoadBackground(index, p, autoPlay, preview)
}

// Load stages and immediately plays p on layer index.
func (c *Channel) Load(index int, p producer.Producer) {
	c.markIndex(index)
	c.stage.Load(index, p)
}

// Play cuts layer index to its staged background, or resumes it.
func (c *Channel) Play(index int) { c.stage.Play(index) }

// Pause freezes layer index on its current frame.
func (c *Channel) Pause(index int) { c.stage.Pause(index) }

// Stop clears layer index's foreground producer.
func (c *Channel) Stop(index int) { c.stage.Stop(index) }

// Clear empties layer index, or every layer if index < 0.
func (c *Channel) Clear(index int) { c.stage.Clear(index) }

// SetTransform queues a tween on layer index.
func (c *Channel) SetTransform(index int, dest frame.Transform, duration int, easing frame.Easing) {
	c.stage.SetTransform(index, dest, duration, easing)
}

// Route registers a named tap onto layer index's published frames,
// creating the layer's route source if absent.
func (c *Channel) Route(name string, index int, mode route.Mode) {
	c.srcMu.Lock()
	src, ok := c.sources[index]
	if !ok {
		src = route.NewSource()
		c.sources[index] = src
	}
	c.srcMu.Unlock()
	c.routes.Register(name, src, mode)
}

// Unroute removes a named tap.
func (c *Channel) Unroute(name string) { c.routes.Unregister(name) }

// Subscribe taps a named route registered on any channel sharing this
// channel's route table.
func (c *Channel) Subscribe(name string) (<-chan frame.DrawFrame, route.CancelFunc, bool) {
	return c.routes.Subscribe(name)
}

// FormatAware is implemented by consumers that need to reinitialize when
// the channel's video format changes, e.g. to resize an internal buffer.
type FormatAware interface {
	Initialize(desc format.Desc, channelID string) error
}

// SetFormat changes the channel's video format, clearing the stage first
// (a format change invalidates every layer's in-flight frames) and
// notifying any attached FormatAware consumer; one that returns an error
// is removed.
func (c *Channel) SetFormat(desc format.Desc) {
	c.stage.Clear(-1)

	c.fmtMu.Lock()
	c.format = desc
	c.fmtMu.Unlock()

	var failed []string
	c.output.Range(func(cons output.Consumer) {
		aware, ok := cons.(FormatAware)
		if !ok {
			return
		}
		if err := aware.Initialize(desc, c.id); err != nil {
			c.log.Error().Src("output").Channel(c.id).Msgf("consumer %v rejected format change: %v", cons.Name(), err)
			failed = append(failed, cons.Name())
		}
	})
	for _, name := range failed {
		c.output.Remove(name)
	}
}

// Format returns the channel's current video format.
func (c *Channel) Format() format.Desc {
	c.fmtMu.Lock()
	defer c.fmtMu.Unlock()
	return c.format
}

// OnTick registers the callback invoked with each tick's published
// state.
func (c *Channel) OnTick(fn OnTick) {
	c.onTickMu.Lock()
	c.onTick = fn
	c.onTickMu.Unlock()
}

// Close requests the tick loop stop and waits for it to exit.
func (c *Channel) Close() {
	c.abort.Store(true)
	<-c.done
	c.hostCancel()
	c.stage.Close()
	for _, name := range c.output.Names() {
		c.output.Remove(name)
	}
}

func (c *Channel) run() {
	defer close(c.done)

	desc := c.Format()
	fps := desc.FPS()
	var ticker *time.Ticker
	if !c.output.HasClockedConsumer() && fps > 0 {
		ticker = time.NewTicker(time.Duration(float64(time.Second) / fps))
		defer ticker.Stop()
	}

	for !c.abort.Load() {
		c.runTick()
		if ticker != nil {
			<-ticker.C
		}
	}
}

// runTick executes exactly one produce/mix/consume pass, recovering from
// any panic in the loop body so a single bad tick never brings the
// channel down.
func (c *Channel) runTick() {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error().Src("channel").Channel(c.id).Msgf("tick panic: %v", r)
		}
	}()

	desc := c.Format()
	tickIndex := atomic.AddUint64(&c.tick, 1) - 1
	nbSamples := desc.CadenceAt(tickIndex)

	c.srcMu.Lock()
	routedBackground := make(map[int]bool, len(c.sources))
	for idx := range c.sources {
		routedBackground[idx] = true
	}
	c.srcMu.Unlock()

	produceStart := time.Now()
	layerFrames := c.stage.Tick(producer.FieldProgressive, nbSamples, routedBackground, c.publishRoutes)
	produceTime := time.Since(produceStart)

	layers := make(map[int]frame.DrawFrame, len(layerFrames))
	indexes := make([]int, 0, len(layerFrames))
	for idx, lf := range layerFrames {
		layers[idx] = lf.Foreground
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	pixelDesc := frame.NewBGRADesc(desc.Width, desc.Height)

	mixStart := time.Now()
	composite, err := c.mixer.Mix(tickIndex, desc, pixelDesc, layers, indexes)
	mixTime := time.Since(mixStart)
	if err != nil {
		c.log.Error().Src("mixer").Channel(c.id).Msgf("mix failed: %v", err)
		return
	}

	consumeStart := time.Now()
	c.output.Send(context.Background(), composite)
	consumeTime := time.Since(consumeStart)

	statuses := map[int]layer.State{}
	c.idxMu.Lock()
	for idx := range c.indexes {
		statuses[idx] = c.stage.Layer(idx).Status()
	}
	c.idxMu.Unlock()

	fps := desc.FPS()
	num, den := desc.Framerate()
	if overflow := c.mixer.Audio.OverflowCount(); overflow > c.lastOverflow.Load() {
		c.log.Warn().Src("mixer").Channel(c.id).Msgf("audio-buffer-overflow: %d cadence tail(s) truncated", overflow)
	}
	c.lastOverflow.Store(c.mixer.Audio.OverflowCount())

	st := State{
		ChannelID: c.id,
		Tick:      tickIndex,
		Layers:    statuses,
		Consumers: c.output.Names(),
		Mixer: MixerState{
			Audio: AudioState{
				Volume:   c.mixer.Audio.Peak(),
				Overflow: c.mixer.Audio.OverflowCount(),
				Clipped:  c.mixer.Audio.ClippedSamples(),
			},
		},
		Output:    c.output.Ports(),
		Framerate: [2]int{num, den},
		Timing: TimingDiagnostics{
			ProduceTime: scaleForGraph(produceTime, fps),
			MixTime:     scaleForGraph(mixTime, fps),
			ConsumeTime: scaleForGraph(consumeTime, fps),
			FrameTime:   scaleForGraph(produceTime+mixTime+consumeTime, fps),
		},
		Host: c.host.Status(),
	}

	if c.states != nil {
		data, err := json.Marshal(st)
		if err != nil {
			c.log.Warn().Src("channel").Channel(c.id).Msgf("could not marshal state: %v", err)
		} else if err := c.states.Put(state.Snapshot{
			ChannelID: c.id, Tick: tickIndex, Time: time.Now(), Data: data,
		}); err != nil {
			c.log.Warn().Src("channel").Channel(c.id).Msgf("could not persist state: %v", err)
		}
	}

	c.onTickMu.Lock()
	onTick := c.onTick
	c.onTickMu.Unlock()
	if onTick != nil {
		onTick(st)
	}
}

// publishRoutes is the stage's per-layer RouteFunc: it fans a layer's
// foreground out under ModeForeground, and — when the stage fetched a
// background for this tick — the background out under ModeBackground and
// ModeNext. A route tapping next before any background is staged simply
// receives nothing that tick, per next's "whatever will play next" sense.
func (c *Channel) publishRoutes(index int, lf stage.LayerFrame) {
	c.srcMu.Lock()
	src, ok := c.sources[index]
	c.srcMu.Unlock()
	if !ok {
		return
	}
	src.Publish(route.ModeForeground, frame.Pop(lf.Foreground))
	if lf.HasBackground {
		src.Publish(route.ModeBackground, frame.Pop(lf.Background))
		src.Publish(route.ModeNext, frame.Pop(lf.Background))
	}
}
