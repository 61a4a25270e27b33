package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/sandbox/internal/config"
	"github.com/san-kum/sandbox/internal/logging"
	"github.com/san-kum/sandbox/internal/viz"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	seed       int64
	dt         float64
	frames     int
	frameRate  int
	maxDt      float64
	gravity    bool
	friction   bool
	drag       bool
	attraction string
	theme      string
	logFile    string
	record     bool
	numRuns    int
	metricList []string
	spawns     []string
	pushes     []string
	holds      []string
	releases   []string
	bodyID     int
	jsonOut    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "sandbox",
		Short:        "interactive 2d physics sandbox",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, closeLog, err := liveLogger()
			if err != nil {
				return err
			}
			defer closeLog()
			return viz.RunMenu(viz.Options{Theme: theme, Log: log})
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".sandbox", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (DEBUG, INFO, WARN, ERROR); defaults to $"+logging.EnvLevel)
	rootCmd.Flags().StringVar(&theme, "theme", "", "color theme")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file while the view is open")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run a scene with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	sceneFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	liveCmd.Flags().Float64Var(&maxDt, "max-dt", config.DefaultMaxDt, "largest delta time per frame (s)")
	liveCmd.Flags().StringVar(&theme, "theme", "", "color theme")
	liveCmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file while the view is open")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scene headless at a fixed timestep",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHeadless,
	}
	sceneFlags(runCmd)
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultMaxDt, "timestep (s)")
	runCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "number of frames")
	runCmd.Flags().BoolVar(&record, "record", true, "record every frame to the run directory")
	runCmd.Flags().IntVar(&numRuns, "runs", 1, "number of seeds to run concurrently")
	runCmd.Flags().StringSliceVar(&metricList, "metrics", nil, "metrics to collect (default all)")
	runCmd.Flags().StringArrayVar(&spawns, "spawn", nil, "spawn a body, as x,y@frame")
	runCmd.Flags().StringArrayVar(&pushes, "push", nil, "push the controlled body for one frame, as dir@frame")
	runCmd.Flags().StringArrayVar(&holds, "hold", nil, "start pushing the controlled body, as dir@frame")
	runCmd.Flags().StringArrayVar(&releases, "release", nil, "stop pushing the controlled body, as dir@frame")
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "print the result as JSON instead of saving")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [preset]",
		Short: "run a scene headless and write the last frame as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSnapshot,
	}
	sceneFlags(snapshotCmd)
	snapshotCmd.Flags().Float64Var(&dt, "dt", config.DefaultMaxDt, "timestep (s)")
	snapshotCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "number of frames")
	snapshotCmd.Flags().StringP("out", "o", "snapshot.svg", "output file")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the trajectory and speed of one body",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&bodyID, "body", 0, "body id")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export recorded frames as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringP("out", "o", "", "output file (default stdout)")

	trajectoryCmd := &cobra.Command{
		Use:   "trajectory [run_id]",
		Short: "write the path of one body as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportTrajectory,
	}
	trajectoryCmd.Flags().IntVar(&bodyID, "body", 0, "body id")
	trajectoryCmd.Flags().StringP("out", "o", "trajectory.svg", "output file")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available scenes",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Printf("  %-10s %d bodies, attraction %s\n", name, len(cfg.Bodies), cfg.Forces.Attraction)
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [path] [preset]",
		Short: "write the config of a preset to a yaml file",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := resolveConfig(cmd, args[1:])
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(liveCmd, runCmd, snapshotCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, trajectoryCmd, presetsCmd, initCmd)
	rootCmd.AddCommand(automationCommands()...)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// sceneFlags registers the flags shared by every command that builds a world.
func sceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().BoolVar(&gravity, "gravity", false, "enable uniform gravity")
	cmd.Flags().BoolVar(&friction, "friction", false, "enable friction on every body")
	cmd.Flags().BoolVar(&drag, "drag", false, "enable drag inside the liquid region")
	cmd.Flags().StringVar(&attraction, "attraction", config.AttractionFirstPair, "attraction mode (none, first_pair, all_pairs)")
}

// stderrLogger logs to stderr for headless commands.
func stderrLogger() *slog.Logger {
	return logging.FromEnv(os.Stderr, logLevel)
}

// liveLogger logs to --log-file, or nowhere, since the live view owns the terminal.
func liveLogger() (*slog.Logger, func(), error) {
	if logFile == "" {
		return logging.Discard(), func() {}, nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return logging.FromEnv(io.Writer(f), logLevel), func() { f.Close() }, nil
}
