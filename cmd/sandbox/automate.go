package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/sandbox/internal/automation"
	"github.com/san-kum/sandbox/internal/storage"
)

// Kept apart from the scene flags: pflag writes a flag's default into its
// variable at registration, so sharing would clobber those defaults.
var (
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	mcMetric   string
	mcRuns     int
	mcSpawns   []string
	autoFrames int
	autoDt     float64
	autoSeed   int64
)

func automationCommands() []*cobra.Command {
	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "vary one parameter and report energy and peak speed",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "g", "parameter to vary ("+strings.Join(sweepParamNames(), ", ")+")")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 200, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().IntVar(&autoFrames, "frames", 300, "frames per run")
	sweepCmd.Flags().Float64Var(&autoDt, "dt", 0, "timestep (s), defaults to the preset's")
	sweepCmd.Flags().Int64Var(&autoSeed, "seed", 1, "random seed")

	mcCmd := &cobra.Command{
		Use:   "montecarlo [preset]",
		Short: "run a preset over many seeds and summarize one metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	mcCmd.Flags().StringVar(&mcMetric, "metric", "kinetic_energy", "metric to summarize")
	mcCmd.Flags().IntVar(&mcRuns, "runs", 20, "number of seeds")
	mcCmd.Flags().Int64Var(&autoSeed, "seed", 1, "first seed")
	mcCmd.Flags().IntVar(&autoFrames, "frames", 300, "frames per run")
	mcCmd.Flags().Float64Var(&autoDt, "dt", 0, "timestep (s), defaults to the preset's")
	mcCmd.Flags().StringArrayVar(&mcSpawns, "spawn", nil, "spawn a body, as x,y@frame")

	return []*cobra.Command{scenarioCmd, sweepCmd, mcCmd}
}

func sweepParamNames() []string {
	names := make([]string, 0, len(automation.SweepParams))
	for n := range automation.SweepParams {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func presetArg(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return "reference"
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("Scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("  %s\n", sc.Description)
	}
	results, err := automation.RunScenario(ctx, sc, st, stderrLogger())
	for i, r := range results {
		fmt.Printf("\nstep %d: %s, %d frames, %d bodies, %d bounces\n",
			i+1, presetArg([]string{r.Step.Preset}), r.Result.FramesRun, r.Result.BodyCount, r.Result.Bounces)
		printMetrics(r.Result.Metrics)
		if r.RunID != "" {
			fmt.Printf("  saved: %s\n", r.RunID)
		}
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	preset := presetArg(args)
	results, err := automation.RunSweep(ctx, &automation.Sweep{
		Preset:   preset,
		Param:    sweepParam,
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepSteps,
		Frames:   autoFrames,
		Dt:       autoDt,
		Seed:     autoSeed,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Sweep of %s on %s\n\n", sweepParam, preset)
	fmt.Printf("  %12s %16s %12s %8s\n", sweepParam, "kinetic_energy", "peak_speed", "bounces")
	energy := make([]float64, len(results))
	for i, r := range results {
		fmt.Printf("  %12.4f %16.2f %12.2f %8d\n", r.ParamValue, r.KineticEnergy, r.PeakSpeed, r.Bounces)
		energy[i] = r.KineticEnergy
	}
	if len(energy) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(energy, asciigraph.Height(8), asciigraph.Caption("kinetic energy vs "+sweepParam)))
	}
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	schedule, err := parseSchedule(mcSpawns, nil, nil, nil)
	if err != nil {
		return err
	}
	inputs := make([]automation.Input, 0, len(schedule))
	for _, s := range schedule {
		inputs = append(inputs, automation.Input{Frame: s.Frame, Spawn: []float64{s.Cmd.At.X, s.Cmd.At.Y}})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	preset := presetArg(args)
	res, err := automation.RunMonteCarlo(ctx, &automation.MonteCarlo{
		Preset:    preset,
		Metric:    mcMetric,
		NumRuns:   mcRuns,
		SeedStart: autoSeed,
		Frames:    autoFrames,
		Dt:        autoDt,
		Inputs:    inputs,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s over %d seeds of %s\n", mcMetric, len(res.Values), preset)
	fmt.Printf("  mean   %.4f\n  stddev %.4f\n  min    %.4f\n  max    %.4f\n", res.Mean, res.StdDev, res.Min, res.Max)
	return nil
}
