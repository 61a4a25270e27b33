package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/sandbox/internal/export"
	"github.com/san-kum/sandbox/internal/physics"
	"github.com/san-kum/sandbox/internal/storage"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tFRAMES\tDT\tBODIES\tBOUNCES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4fs\t%d\t%d\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Dt,
			run.Bodies,
			run.Bounces,
		)
	}

	return w.Flush()
}

func loadTrajectory(st *storage.Store, runID string, id int) ([]storage.Sample, error) {
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return nil, err
	}
	traj := storage.Trajectory(samples, id)
	if len(traj) == 0 {
		return nil, fmt.Errorf("no recorded samples for body %d", id)
	}
	return traj, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	traj, err := loadTrajectory(st, runID, bodyID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("samples: %d\n\n", len(traj))

	series := []struct {
		caption string
		value   func(storage.Sample) float64
	}{
		{"x position", func(s storage.Sample) float64 { return s.Position.X }},
		{"y position", func(s storage.Sample) float64 { return s.Position.Y }},
		{"speed", func(s storage.Sample) float64 { return s.Velocity.Len() }},
		{"kinetic energy", func(s storage.Sample) float64 { return 0.5 * s.Mass * s.Velocity.LenSq() }},
	}

	for _, sr := range series {
		data := make([]float64, len(traj))
		for i, s := range traj {
			data[i] = sr.value(s)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("body %d %s", bodyID, sr.caption)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if _, err := st.Load(args[0]); err != nil {
		return err
	}

	in, err := os.Open(filepath.Join(dataDir, args[0], "frames.csv"))
	if err != nil {
		return err
	}
	defer in.Close()

	var out io.Writer = os.Stdout
	if path, _ := cmd.Flags().GetString("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	_, err = io.Copy(out, in)
	return err
}

func exportTrajectory(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	traj, err := loadTrajectory(st, args[0], bodyID)
	if err != nil {
		return err
	}
	bounds := physics.Rect{W: meta.Width, H: meta.Height}

	points := make([]physics.Vec2, len(traj))
	for i, s := range traj {
		points[i] = s.Position
	}
	svg := export.TrajectoryToSVG(points, bounds, "#00ffff")
	if svg == "" {
		return fmt.Errorf("body %d has fewer than two samples", bodyID)
	}
	outPath, _ := cmd.Flags().GetString("out")
	if err := os.WriteFile(outPath, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("trajectory of body %d written to %s\n", bodyID, outPath)
	return nil
}
