// Package game drives the simulation: the mount/run/teardown lifecycle, the
// frame loop and pointer/resize plumbing.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"reflect"
	"sync"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/molecule/components"
	"github.com/pthm-cable/molecule/config"
	"github.com/pthm-cable/molecule/renderer"
	"github.com/pthm-cable/molecule/systems"
	"github.com/pthm-cable/molecule/telemetry"
)

// Phase is the controller lifecycle state.
type Phase uint8

const (
	PhaseUninitialized Phase = iota
	PhaseRunning
	PhaseStopped
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseRunning:
		return "running"
	case PhaseStopped:
		return "stopped"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

var (
	// ErrNoSurface is returned by Mount when no drawing surface is available.
	// The controller stays uninitialized and draws nothing.
	ErrNoSurface = errors.New("no drawing surface")
	// ErrMounted is returned by Mount on a running controller.
	ErrMounted = errors.New("controller already mounted")
	// ErrStopped is returned by Mount after Unmount; stopping is terminal.
	ErrStopped = errors.New("controller stopped")
)

// Options configures a Controller.
type Options struct {
	Count   int
	Init    systems.InitParams
	Physics systems.PhysicsParams
	Style   renderer.Style
	Seed    int64 // 0 = time-based
	Logger  *slog.Logger
	Perf    *telemetry.PerfCollector // optional

	// OnFrame runs at the end of every frame with the live state. It must
	// not retain st or call back into the Controller.
	OnFrame func(frame uint64, st *systems.State)
}

// DefaultOptions returns options matching the embedded config defaults.
func DefaultOptions() Options {
	return Options{
		Count:   60,
		Init:    systems.DefaultInitParams(),
		Physics: systems.DefaultPhysicsParams(),
		Style:   renderer.DefaultStyle(),
	}
}

// OptionsFromConfig builds controller options from config.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	style, err := renderer.StyleFrom(cfg)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Count:   cfg.Particles.Count,
		Init:    systems.InitParamsFrom(cfg.Particles),
		Physics: systems.PhysicsParamsFrom(cfg.Particles, cfg.Physics),
		Style:   style,
	}, nil
}

// Reseeded returns a copy whose controller lays particles out differently.
// A fixed seed advances by one so the sequence stays reproducible; a
// time-based seed stays time-based.
func (o Options) Reseeded() Options {
	if o.Seed != 0 {
		o.Seed++
	}
	return o
}

// frameToken is the cancellation token carried by one scheduled frame.
type frameToken struct {
	cancelled bool
}

// Controller owns the simulation state and drawing surface of one mounted
// background and runs its frame loop. All methods are safe to call from
// any goroutine; frames and event handlers are serialized.
type Controller struct {
	mu sync.Mutex

	sched   Scheduler
	opts    Options
	log     *slog.Logger
	rng     *rand.Rand
	surface renderer.Surface

	state   systems.State
	phase   Phase
	token   *frameToken
	frameID FrameID
	frames  uint64
}

// NewController creates an unmounted controller that schedules frames on sched.
func NewController(sched Scheduler, opts Options) *Controller {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		sched: sched,
		opts:  opts,
		log:   logger,
		rng:   rand.New(rand.NewSource(seed)),
		state: systems.State{Pointer: components.AbsentPointer},
	}
}

// Mount initializes the simulation for a width x height surface and starts
// the frame loop. A nil surface leaves the controller uninitialized.
func (c *Controller) Mount(s renderer.Surface, width, height float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.phase {
	case PhaseRunning:
		return ErrMounted
	case PhaseStopped:
		return ErrStopped
	}
	if !surfaceAvailable(s) {
		c.log.Warn("mount_skipped", "reason", ErrNoSurface.Error())
		return ErrNoSurface
	}

	c.surface = s
	c.resetLocked(width, height)
	c.phase = PhaseRunning
	c.requestFrameLocked()

	c.log.Info("mounted",
		"width", width,
		"height", height,
		"particles", c.state.Len(),
	)
	return nil
}

// Resize re-initializes the simulation for a new viewport without stopping
// the loop. Particles are re-randomized; nothing carries over.
// Unchanged sizes and calls outside the running phase are ignored.
func (c *Controller) Resize(width, height float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseRunning {
		return
	}
	if width == c.state.Width && height == c.state.Height {
		return
	}
	c.resetLocked(width, height)
	c.log.Info("resize_reset",
		"width", width,
		"height", height,
		"particles", c.state.Len(),
	)
}

// Reset re-randomizes all particles at the current viewport size.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseRunning {
		return
	}
	c.resetLocked(c.state.Width, c.state.Height)
}

// PointerMove records the pointer position in surface coordinates.
func (c *Controller) PointerMove(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseRunning {
		return
	}
	c.state.Pointer = r2.Vec{X: x, Y: y}
}

// PointerLeave removes pointer influence.
func (c *Controller) PointerLeave() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseRunning {
		return
	}
	c.state.Pointer = components.AbsentPointer
}

// Unmount stops the loop and releases the surface. When it returns no
// further frame will read or write state or draw. Stopping is terminal.
func (c *Controller) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase == PhaseStopped {
		return
	}
	wasRunning := c.phase == PhaseRunning

	if c.token != nil {
		c.token.cancelled = true
		c.token = nil
	}
	if c.frameID != 0 {
		c.sched.CancelFrame(c.frameID)
		c.frameID = 0
	}
	c.surface = nil
	c.phase = PhaseStopped

	if wasRunning {
		c.log.Info("unmounted", "frames", c.frames)
	}
}

// Phase returns the current lifecycle phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Frames returns the number of frames executed so far.
func (c *Controller) Frames() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}

// Snapshot returns a copy of the simulation state.
func (c *Controller) Snapshot() systems.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// surfaceAvailable reports whether s can be drawn on. A nil pointer stored
// in the interface counts as no surface.
func surfaceAvailable(s renderer.Surface) bool {
	if s == nil {
		return false
	}
	v := reflect.ValueOf(s)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return !v.IsNil()
	}
	return true
}

func (c *Controller) resetLocked(width, height float64) {
	c.state = systems.Initialize(width, height, c.opts.Count, c.opts.Init, c.rng)
	if r, ok := c.surface.(renderer.Resizer); ok {
		r.Resize(int(c.state.Width), int(c.state.Height))
	}
}

func (c *Controller) requestFrameLocked() {
	tok := &frameToken{}
	c.token = tok
	c.frameID = c.sched.RequestFrame(func() { c.runFrame(tok) })
}

// runFrame is one loop iteration: step, render, schedule the next.
func (c *Controller) runFrame(tok *frameToken) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// A frame dequeued before Unmount must not touch state afterwards
	if tok.cancelled || c.phase != PhaseRunning {
		return
	}

	perf := c.opts.Perf
	if perf != nil {
		perf.RecordFrame()
		perf.StartTick()
		perf.StartPhase(telemetry.PhaseStep)
	}

	systems.Step(&c.state, c.opts.Physics)

	if perf != nil {
		perf.StartPhase(telemetry.PhaseRender)
	}

	renderer.Render(c.surface, &c.state, c.opts.Style)

	if perf != nil {
		perf.EndTick()
	}

	c.frames++
	if c.opts.OnFrame != nil {
		c.opts.OnFrame(c.frames, &c.state)
	}

	c.requestFrameLocked()
}
