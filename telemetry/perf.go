// Package telemetry measures frame timing and writes run artifacts.
package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase names for one frame.
const (
	PhaseStep   = "step"
	PhaseRender = "render"
)

// frameTiming is one frame's measurement.
type frameTiming struct {
	total  time.Duration
	phases map[string]time.Duration
}

// PerfCollector keeps the last N frame timings in a ring. The frame loop
// owns it; it has no locking.
type PerfCollector struct {
	ring   []frameTiming
	next   int // ring slot the next frame lands in
	filled int // slots holding data, capped at len(ring)

	open      map[string]time.Duration // phases of the frame in progress
	begun     time.Time
	phase     string
	phaseFrom time.Time

	prevFrame time.Time
	interval  time.Duration // wall clock between the last two frames
}

// NewPerfCollector returns a collector over a window of frames.
// Non-positive sizes fall back to 60.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		ring: make([]frameTiming, windowSize),
		open: make(map[string]time.Duration),
	}
}

// WindowSize is the ring length in frames.
func (p *PerfCollector) WindowSize() int {
	return len(p.ring)
}

// StartTick marks the start of a frame's work.
func (p *PerfCollector) StartTick() {
	p.begun = time.Now()
	p.open = make(map[string]time.Duration, 2)
	p.phase = ""
}

// StartPhase switches the running phase, charging elapsed time to the old one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	p.phase = phase
	p.phaseFrom = now
}

// EndTick closes the frame and pushes it into the ring.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)

	p.ring[p.next] = frameTiming{total: now.Sub(p.begun), phases: p.open}
	p.next = (p.next + 1) % len(p.ring)
	p.filled = min(p.filled+1, len(p.ring))
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase != "" {
		p.open[p.phase] += now.Sub(p.phaseFrom)
	}
}

// RecordFrame notes a frame boundary for the FPS figure.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.prevFrame.IsZero() {
		p.interval = now.Sub(p.prevFrame)
	}
	p.prevFrame = now
}

// PerfStats summarizes the frames currently in the window.
type PerfStats struct {
	AvgTickDuration time.Duration
	StdTickDuration time.Duration
	P95TickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	PhaseAvg map[string]time.Duration // mean time per phase
	PhasePct map[string]float64       // phase mean as a share of the tick mean

	TicksPerSecond float64 // 1 / mean tick, i.e. unpaced throughput

	FrameDuration time.Duration
	FPS           float64
}

// Stats summarizes the window. An empty window yields zero timings.
func (p *PerfCollector) Stats() PerfStats {
	out := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.interval,
	}
	if p.interval > 0 {
		out.FPS = float64(time.Second) / float64(p.interval)
	}
	if p.filled == 0 {
		return out
	}

	totals := make([]float64, p.filled)
	sums := make(map[string]time.Duration)
	for i, ft := range p.ring[:p.filled] {
		totals[i] = float64(ft.total)
		for name, d := range ft.phases {
			sums[name] += d
		}
	}

	mean, std := stat.MeanStdDev(totals, nil)
	if p.filled == 1 {
		std = 0
	}
	sort.Float64s(totals)

	out.AvgTickDuration = time.Duration(mean)
	out.StdTickDuration = time.Duration(std)
	out.P95TickDuration = time.Duration(stat.Quantile(0.95, stat.Empirical, totals, nil))
	out.MinTickDuration = time.Duration(totals[0])
	out.MaxTickDuration = time.Duration(totals[len(totals)-1])

	for name, sum := range sums {
		avg := sum / time.Duration(p.filled)
		out.PhaseAvg[name] = avg
		if out.AvgTickDuration > 0 {
			out.PhasePct[name] = 100 * float64(avg) / float64(out.AvgTickDuration)
		}
	}
	if out.AvgTickDuration > 0 {
		out.TicksPerSecond = float64(time.Second) / float64(out.AvgTickDuration)
	}
	return out
}

// LogValue renders the summary as a slog group in microseconds.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("std_tick_us", s.StdTickDuration.Microseconds()),
		slog.Int64("p95_tick_us", s.P95TickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}

	for _, phase := range []string{PhaseStep, PhaseRender} {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd   uint64  `csv:"window_end"`
	Particles   int     `csv:"particles"`
	Links       int     `csv:"links"`
	AvgTickUS   int64   `csv:"avg_tick_us"`
	StdTickUS   int64   `csv:"std_tick_us"`
	P95TickUS   int64   `csv:"p95_tick_us"`
	MinTickUS   int64   `csv:"min_tick_us"`
	MaxTickUS   int64   `csv:"max_tick_us"`
	TicksPerSec float64 `csv:"ticks_per_sec"`
	FPS         float64 `csv:"fps"`
	StepPct     float64 `csv:"step_pct"`
	RenderPct   float64 `csv:"render_pct"`
}

// ToCSV flattens the summary for the window ending at frame windowEnd.
func (s PerfStats) ToCSV(windowEnd uint64, particles, links int) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:   windowEnd,
		Particles:   particles,
		Links:       links,
		AvgTickUS:   s.AvgTickDuration.Microseconds(),
		StdTickUS:   s.StdTickDuration.Microseconds(),
		P95TickUS:   s.P95TickDuration.Microseconds(),
		MinTickUS:   s.MinTickDuration.Microseconds(),
		MaxTickUS:   s.MaxTickDuration.Microseconds(),
		TicksPerSec: s.TicksPerSecond,
		FPS:         s.FPS,
		StepPct:     s.PhasePct[PhaseStep],
		RenderPct:   s.PhasePct[PhaseRender],
	}
}
