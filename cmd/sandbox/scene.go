package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/sandbox/internal/config"
	"github.com/san-kum/sandbox/internal/export"
	"github.com/san-kum/sandbox/internal/metrics"
	"github.com/san-kum/sandbox/internal/sim"
	"github.com/san-kum/sandbox/internal/storage"
	"github.com/san-kum/sandbox/internal/viz"
)

// resolveConfig layers the preset named in args, then --config, then any
// flag set on the command line. It returns the config and the scene name.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, string, error) {
	name := "reference"
	if len(args) > 0 {
		name = args[0]
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
	}

	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		if len(args) == 0 {
			base := filepath.Base(configFile)
			name = strings.TrimSuffix(base, filepath.Ext(base))
		}
	}

	flags := cmd.Flags()
	if flags.Changed("gravity") {
		cfg.World.GravityEnabled = gravity
	}
	if flags.Changed("friction") {
		cfg.Forces.FrictionEnabled = friction
	}
	if flags.Changed("drag") {
		cfg.Forces.DragEnabled = drag
	}
	if flags.Changed("attraction") {
		cfg.Forces.Attraction = attraction
	}
	if flags.Changed("dt") {
		cfg.Run.Dt = dt
	}
	if flags.Changed("frames") {
		cfg.Run.Frames = frames
	}
	if flags.Changed("fps") {
		cfg.Run.FPS = frameRate
	}
	if flags.Changed("max-dt") {
		cfg.Run.MaxDt = maxDt
		if !flags.Changed("dt") && cfg.Run.Dt > cfg.Run.MaxDt {
			cfg.Run.Dt = cfg.Run.MaxDt
		}
	}
	if flags.Lookup("seed") != nil && (flags.Changed("seed") || cfg.Run.Seed == 0) {
		cfg.Run.Seed, _ = flags.GetInt64("seed")
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, name, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	log, closeLog, err := liveLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	log.Info("starting live view", "scene", name, "fps", cfg.Run.FPS, "seed", cfg.Run.Seed)
	return viz.Run(viz.Options{Scene: name, Config: cfg, Theme: theme, Log: log})
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	log := stderrLogger()

	schedule, err := parseSchedule(spawns, pushes, holds, releases)
	if err != nil {
		return err
	}
	if _, err := metrics.Build(metricList); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runCfg := sim.RunConfig{
		Dt:       cfg.Run.Dt,
		Frames:   cfg.Run.Frames,
		Record:   record || jsonOut,
		Schedule: schedule,
	}

	log.Info("running scene", "scene", name, "frames", runCfg.Frames, "dt", runCfg.Dt, "seed", cfg.Run.Seed, "runs", numRuns)
	start := time.Now()

	results, seeds, err := execute(ctx, cfg, runCfg, log)
	if err != nil {
		return err
	}
	log.Debug("run finished", "elapsed", time.Since(start))

	if jsonOut {
		for i, res := range results {
			if err := storage.WriteJSON(os.Stdout, storage.NewExportData(name, seeds[i], runCfg.Dt, res)); err != nil {
				return err
			}
		}
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	for i, res := range results {
		runID, err := st.Save(name, seeds[i], runCfg.Dt, res)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
		fmt.Printf("frames: %d  sim time: %.3fs  bodies: %d  bounces: %d\n", res.FramesRun, res.SimTime, res.BodyCount, res.Bounces)
		printMetrics(res.Metrics)
	}
	fmt.Printf("completed in %v\n", time.Since(start).Round(time.Millisecond))
	return nil
}

func printMetrics(values map[string]float64) {
	fmt.Println("metrics:")
	for _, n := range metrics.Names() {
		if v, ok := values[n]; ok {
			fmt.Printf("  %s: %.6f\n", n, v)
		}
	}
}

// execute runs one world, or an ensemble of numRuns seeds starting at the
// configured one.
func execute(ctx context.Context, cfg *config.Config, runCfg sim.RunConfig, log *slog.Logger) ([]*sim.Result, []int64, error) {
	newMetrics := func() []sim.Metric {
		ms, _ := metrics.Build(metricList)
		return ms
	}

	if numRuns <= 1 {
		w, err := sim.FromConfig(cfg, nil, log)
		if err != nil {
			return nil, nil, err
		}
		r := sim.NewRunner(w)
		for _, m := range newMetrics() {
			r.AddMetric(m)
		}
		res, err := r.Run(ctx, runCfg)
		if err != nil {
			return nil, nil, err
		}
		return []*sim.Result{res}, []int64{cfg.Run.Seed}, nil
	}

	factory := func(s int64) (*sim.World, error) {
		c := *cfg
		c.Run.Seed = s
		return sim.FromConfig(&c, nil, nil)
	}
	results, err := sim.NewEnsemble(factory, newMetrics, numRuns, cfg.Run.Seed).Run(ctx, runCfg)
	if err != nil {
		return nil, nil, err
	}
	seeds := make([]int64, numRuns)
	for i := range seeds {
		seeds[i] = cfg.Run.Seed + int64(i)
	}
	log.Info("ensemble finished", "runs", numRuns)
	return results, seeds, nil
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	w, err := sim.FromConfig(cfg, nil, stderrLogger())
	if err != nil {
		return err
	}
	if _, err := sim.NewRunner(w).Run(context.Background(), sim.RunConfig{Dt: cfg.Run.Dt, Frames: cfg.Run.Frames}); err != nil {
		return err
	}

	liquid := w.Liquid()
	if !w.Forces().DragEnabled {
		liquid.W, liquid.H = 0, 0
	}
	svg := export.FrameToSVG(w.Snapshot(), w.Bounds(), liquid)
	outPath, _ := cmd.Flags().GetString("out")
	if err := os.WriteFile(outPath, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("%s after %d frames written to %s\n", name, cfg.Run.Frames, outPath)
	return nil
}

// parseSchedule turns x,y@frame and dir@frame flag values into commands.
func parseSchedule(spawns, pushes, holds, releases []string) ([]sim.Scheduled, error) {
	out := make([]sim.Scheduled, 0, len(spawns)+len(pushes)+len(holds)+len(releases))

	for _, s := range spawns {
		at, frame, err := splitAt(s)
		if err != nil {
			return nil, err
		}
		xy := strings.Split(at, ",")
		if len(xy) != 2 {
			return nil, fmt.Errorf("spawn %q: want x,y@frame", s)
		}
		x, errX := strconv.ParseFloat(strings.TrimSpace(xy[0]), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(xy[1]), 64)
		if errX != nil || errY != nil {
			return nil, fmt.Errorf("spawn %q: bad coordinates", s)
		}
		out = append(out, sim.Scheduled{Frame: frame, Cmd: sim.Spawn(x, y)})
	}

	dirCmds := []struct {
		values []string
		build  func(sim.Direction) sim.Command
	}{
		{pushes, sim.Push},
		{holds, sim.Hold},
		{releases, sim.Release},
	}
	for _, dc := range dirCmds {
		for _, s := range dc.values {
			at, frame, err := splitAt(s)
			if err != nil {
				return nil, err
			}
			dir, err := sim.ParseDirection(strings.ToLower(strings.TrimSpace(at)))
			if err != nil {
				return nil, fmt.Errorf("%q: %w", s, err)
			}
			out = append(out, sim.Scheduled{Frame: frame, Cmd: dc.build(dir)})
		}
	}
	return out, nil
}

func splitAt(s string) (string, int, error) {
	i := strings.LastIndex(s, "@")
	if i < 0 {
		return "", 0, fmt.Errorf("%q: missing @frame", s)
	}
	frame, err := strconv.Atoi(s[i+1:])
	if err != nil {
		return "", 0, fmt.Errorf("%q: bad frame: %w", s, err)
	}
	return s[:i], frame, nil
}
