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

package channel

import (
	"context"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"playout/pkg/log"
)

// HostStats is the host resource sample augmenting per-tick timing,
// refreshed periodically and cached under a mutex.
type HostStats struct {
	CPUPercent float64 `json:"cpuPercent"`
	RAMPercent float64 `json:"ramPercent"`
}

type (
	cpuFunc func(context.Context, time.Duration, bool) ([]float64, error)
	ramFunc func() (*mem.VirtualMemoryStat, error)
)

// hostSampler periodically refreshes HostStats in the background so the
// channel loop never blocks a tick on a syscall.
type hostSampler struct {
	cpu cpuFunc
	ram ramFunc

	duration time.Duration

	mu     sync.Mutex
	status HostStats

	log *log.Logger
}

func newHostSampler(l *log.Logger) *hostSampler {
	return &hostSampler{
		cpu:      cpu.PercentWithContext,
		ram:      mem.VirtualMemory,
		duration: 2 * time.Second,
		log:      l,
	}
}

// Loop samples host resources until ctx is canceled.
func (h *hostSampler) Loop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		if err := h.update(ctx); err != nil {
			h.log.Warn().Src("channel").Msgf("could not update host stats: %v", err)
		}
	}
}

func (h *hostSampler) update(ctx context.Context) error {
	cpuUsage, err := h.cpu(ctx, h.duration, false)
	if err != nil {
		return err
	}
	ramUsage, err := h.ram()
	if err != nil {
		return err
	}

	h.mu.Lock()
	if len(cpuUsage) > 0 {
		h.status.CPUPercent = cpuUsage[0]
	}
	h.status.RAMPercent = ramUsage.UsedPercent
	h.mu.Unlock()
	return nil
}

// Status returns the most recently cached sample.
func (h *hostSampler) Status() HostStats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

// TimingDiagnostics is the per-tick timing breakdown, scaled by fps*0.5
// for graph display.
type TimingDiagnostics struct {
	ProduceTime float64 `json:"produceTime"`
	MixTime     float64 `json:"mixTime"`
	ConsumeTime float64 `json:"consumeTime"`
	FrameTime   float64 `json:"frameTime"`
	OscTime     float64 `json:"oscTime"`
}

func scaleForGraph(d time.Duration, fps float64) float64 {
	if fps <= 0 {
		return 0
	}
	return d.Seconds() * fps * 0.5
}
