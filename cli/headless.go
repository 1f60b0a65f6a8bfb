package cli

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/molecule/config"
	"github.com/pthm-cable/molecule/game"
	"github.com/pthm-cable/molecule/renderer"
	"github.com/pthm-cable/molecule/systems"
	"github.com/pthm-cable/molecule/telemetry"
)

// headlessOptions are the flags of the headless command.
type headlessOptions struct {
	Frames       int     // stop after this many frames (0 = until interrupted)
	FPS          float64 // pacing (0 = unpaced)
	Width        int
	Height       int
	Snapshot     string // PNG path for the final frame
	OutputDir    string // perf.csv + config.yaml
	PointerOrbit bool   // sweep a synthetic pointer around the centre
}

func newHeadlessCommand(a *app) *cobra.Command {
	var ho headlessOptions

	cmd := &cobra.Command{
		Use:   "headless",
		Short: "Run the simulation offscreen on a timer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.options()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("fps") {
				ho.FPS = float64(a.cfg.Screen.TargetFPS)
			}
			if ho.Width == 0 {
				ho.Width = a.cfg.Screen.Width
			}
			if ho.Height == 0 {
				ho.Height = a.cfg.Screen.Height
			}
			return runHeadless(cmd.Context(), a.cfg, opts, ho)
		},
	}

	f := cmd.Flags()
	f.IntVar(&ho.Frames, "frames", 600, "Stop after N frames (0 = until interrupted)")
	f.Float64Var(&ho.FPS, "fps", 0, "Frames per second (default screen.target_fps, 0 = unpaced)")
	f.IntVar(&ho.Width, "width", 0, "Surface width (default screen.width)")
	f.IntVar(&ho.Height, "height", 0, "Surface height (default screen.height)")
	f.StringVar(&ho.Snapshot, "snapshot", "", "Write the last frame to this PNG file")
	f.StringVar(&ho.OutputDir, "output-dir", "", "Directory for perf.csv and config snapshot")
	f.BoolVar(&ho.PointerOrbit, "pointer-orbit", false, "Move a synthetic pointer in a circle")

	return cmd
}

func runHeadless(ctx context.Context, cfg *config.Config, opts game.Options, ho headlessOptions) error {
	out, err := telemetry.NewOutputManager(ho.OutputDir)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		return err
	}

	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	window := uint64(perf.WindowSize())
	done := make(chan struct{})
	var once sync.Once
	var writeErr error

	opts.Perf = perf
	opts.OnFrame = func(frame uint64, st *systems.State) {
		if frame%window == 0 {
			stats := perf.Stats()
			links := systems.CountConnections(st.Particles, opts.Style.ConnectionDistance)
			slog.Info("perf", "frame", frame, "particles", st.Len(), "links", links, "stats", stats)
			if err := out.WritePerf(stats.ToCSV(frame, st.Len(), links)); err != nil && writeErr == nil {
				writeErr = err
			}
		}
		if ho.Frames > 0 && frame >= uint64(ho.Frames) {
			once.Do(func() { close(done) })
		}
	}

	surface := renderer.NewRasterSurface(ho.Width, ho.Height, opts.Style.Background)
	sched := game.NewTickerScheduler(ho.FPS)
	ctl := game.NewController(sched, opts)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		return sched.Run(gctx)
	})

	if err := ctl.Mount(surface, float64(ho.Width), float64(ho.Height)); err != nil {
		cancel()
		_ = g.Wait()
		return err
	}

	g.Go(func() error {
		defer cancel()
		select {
		case <-done:
		case <-gctx.Done():
		}
		ctl.Unmount()
		return nil
	})

	if ho.PointerOrbit {
		g.Go(func() error {
			orbitPointer(gctx, ctl, float64(ho.Width), float64(ho.Height))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	// Unmount has returned, so no frame can touch writeErr or the surface now
	if writeErr != nil {
		return writeErr
	}

	if ho.Snapshot != "" {
		if err := writeSnapshot(ho.Snapshot, surface); err != nil {
			return err
		}
	}

	slog.Info("headless_done", "frames", ctl.Frames(), "output_dir", out.Dir(), "snapshot", ho.Snapshot)
	return nil
}

// orbitPointer sweeps the pointer around the surface centre until ctx ends.
func orbitPointer(ctx context.Context, ctl *game.Controller, width, height float64) {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	cx, cy := width/2, height/2
	r := math.Min(width, height) / 3
	var angle float64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			angle += 0.02
			ctl.PointerMove(cx+r*math.Cos(angle), cy+r*math.Sin(angle))
		}
	}
}

func writeSnapshot(path string, s *renderer.RasterSurface) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	if err := s.WritePNG(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing snapshot: %w", err)
	}
	return nil
}
