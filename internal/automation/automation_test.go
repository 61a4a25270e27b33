package automation

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/sandbox/internal/config"
	"github.com/san-kum/sandbox/internal/metrics"
	"github.com/san-kum/sandbox/internal/sim"
	"github.com/san-kum/sandbox/internal/storage"
)

const scenarioYAML = `
name: demo
description: spawn then push
steps:
  - preset: reference
    frames: 10
    seed: 7
    inputs:
      - frame: 2
        spawn: [400, 100]
      - frame: 3
        push: right
  - preset: friction
    frames: 5
    dt: 0.01
    save_as: friction_run
`

func TestParseScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if sc.Name != "demo" || len(sc.Steps) != 2 {
		t.Fatalf("got %+v", sc)
	}
	first := sc.Steps[0]
	if first.Seed != 7 || len(first.Inputs) != 2 {
		t.Errorf("first step = %+v", first)
	}
	if first.Inputs[0].Spawn[0] != 400 || first.Inputs[1].Push != "right" {
		t.Errorf("inputs = %+v", first.Inputs)
	}
	if sc.Steps[1].SaveAs != "friction_run" || sc.Steps[1].Dt != 0.01 {
		t.Errorf("second step = %+v", sc.Steps[1])
	}
}

func TestParseScenarioErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no steps", "name: empty\n"},
		{"bad yaml", "steps: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseScenario([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.yaml")
	if err := os.WriteFile(path, []byte(scenarioYAML), 0644); err != nil {
		t.Fatal(err)
	}
	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatal(err)
	}
	if sc.Name != "demo" {
		t.Errorf("name = %q", sc.Name)
	}
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestInputCommand(t *testing.T) {
	tests := []struct {
		name    string
		in      Input
		want    sim.Command
		wantErr bool
	}{
		{"spawn", Input{Frame: 1, Spawn: []float64{10, 20}}, sim.Spawn(10, 20), false},
		{"push", Input{Frame: 1, Push: "left"}, sim.Push(sim.Left), false},
		{"hold", Input{Frame: 1, Hold: "up"}, sim.Hold(sim.Up), false},
		{"release", Input{Frame: 1, Release: "down"}, sim.Release(sim.Down), false},
		{"nothing", Input{Frame: 1}, sim.Command{}, true},
		{"two commands", Input{Frame: 1, Push: "left", Hold: "up"}, sim.Command{}, true},
		{"bad direction", Input{Frame: 1, Push: "sideways"}, sim.Command{}, true},
		{"short spawn", Input{Frame: 1, Spawn: []float64{1}}, sim.Command{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.in.Command()
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRunScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	st := storage.New(t.TempDir())

	results, err := RunScenario(context.Background(), sc, st, nil)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results", len(results))
	}

	first := results[0]
	if first.Result.FramesRun != 10 || first.Result.BodyCount != 3 {
		t.Errorf("first step ran %d frames with %d bodies", first.Result.FramesRun, first.Result.BodyCount)
	}
	if first.RunID != "" || len(first.Result.Frames) != 0 {
		t.Error("unsaved step should not record")
	}
	for _, name := range metrics.Names() {
		if _, ok := first.Result.Metrics[name]; !ok {
			t.Errorf("metric %s missing", name)
		}
	}

	second := results[1]
	if second.RunID == "" {
		t.Fatal("saved step has no run id")
	}
	meta, err := st.Load(second.RunID)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Scene != "friction_run" || meta.Frames != 5 || meta.Dt != 0.01 {
		t.Errorf("metadata = %+v", meta)
	}
	samples, err := st.LoadSamples(second.RunID)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 6 {
		t.Errorf("got %d samples, want 6", len(samples))
	}
}

func TestRunScenarioUnknownPreset(t *testing.T) {
	sc := &Scenario{Steps: []ScenarioStep{{Preset: "nope", Frames: 1}}}
	if _, err := RunScenario(context.Background(), sc, nil, nil); err == nil {
		t.Error("expected error")
	}
}

func TestRunScenarioCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sc := &Scenario{Steps: []ScenarioStep{{Preset: "reference", Frames: 10}}}
	if _, err := RunScenario(ctx, sc, nil, nil); err == nil {
		t.Error("expected error from canceled context")
	}
}

func TestRunSweep(t *testing.T) {
	results, err := RunSweep(context.Background(), &Sweep{
		Preset:   "friction",
		Param:    "friction",
		Min:      0,
		Max:      10,
		NumSteps: 3,
		Frames:   20,
		Dt:       0.016,
	})
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}

	wantParams := []float64{0, 5, 10}
	for i, r := range results {
		if r.ParamValue != wantParams[i] {
			t.Errorf("step %d param = %v, want %v", i, r.ParamValue, wantParams[i])
		}
	}
	// 0.5 * 2 * (300^2 + 200^2), unchanged without friction
	if math.Abs(results[0].KineticEnergy-130000) > 1e-6 {
		t.Errorf("frictionless energy = %v, want 130000", results[0].KineticEnergy)
	}
	if !(results[2].KineticEnergy < results[1].KineticEnergy && results[1].KineticEnergy < results[0].KineticEnergy) {
		t.Errorf("energy should fall with friction: %+v", results)
	}
	if results[0].PeakSpeed < results[2].PeakSpeed {
		t.Error("peak speed should not grow with friction")
	}
}

func TestRunSweepErrors(t *testing.T) {
	tests := []struct {
		name  string
		sweep Sweep
	}{
		{"unknown param", Sweep{Preset: "reference", Param: "mass", NumSteps: 2}},
		{"no steps", Sweep{Preset: "reference", Param: "g", NumSteps: 0}},
		{"unknown preset", Sweep{Preset: "nope", Param: "g", NumSteps: 1, Frames: 1}},
		{"invalid value", Sweep{Preset: "reference", Param: "restitution", Min: -1, Max: -1, NumSteps: 1, Frames: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := RunSweep(context.Background(), &tt.sweep); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRunMonteCarlo(t *testing.T) {
	res, err := RunMonteCarlo(context.Background(), &MonteCarlo{
		Preset:    "reference",
		Metric:    "kinetic_energy",
		NumRuns:   4,
		SeedStart: 1,
		Frames:    10,
		Inputs:    []Input{{Frame: 1, Spawn: []float64{400, 100}}},
	})
	if err != nil {
		t.Fatalf("monte carlo failed: %v", err)
	}
	if len(res.Values) != 4 {
		t.Fatalf("got %d values", len(res.Values))
	}
	if res.Min > res.Mean || res.Mean > res.Max {
		t.Errorf("min %v mean %v max %v out of order", res.Min, res.Mean, res.Max)
	}
	if res.StdDev < 0 {
		t.Errorf("negative std dev %v", res.StdDev)
	}
}

func TestRunMonteCarloErrors(t *testing.T) {
	if _, err := RunMonteCarlo(context.Background(), &MonteCarlo{Preset: "reference", Metric: "kinetic_energy"}); err == nil {
		t.Error("expected error for zero runs")
	}
	if _, err := RunMonteCarlo(context.Background(), &MonteCarlo{Preset: "reference", Metric: "bogus", NumRuns: 1}); err == nil {
		t.Error("expected error for unknown metric")
	}
}

func TestSummarize(t *testing.T) {
	res := summarize([]float64{1, 2, 3})
	if res.Mean != 2 || res.Min != 1 || res.Max != 3 {
		t.Errorf("got %+v", res)
	}
	if math.Abs(res.StdDev-math.Sqrt(2.0/3.0)) > 1e-12 {
		t.Errorf("std dev = %v", res.StdDev)
	}
}

func TestRunSweepEnablesForce(t *testing.T) {
	// each preset leaves the swept force switched off
	tests := []struct {
		param  string
		preset string
		max    float64
	}{
		{"friction", "reference", 5},
		{"gravity", "reference", 1000},
		{"drag", "gravity", 1},
	}
	for _, tt := range tests {
		param := tt.param
		t.Run(param, func(t *testing.T) {
			results, err := RunSweep(context.Background(), &Sweep{
				Preset:   tt.preset,
				Param:    param,
				Min:      0,
				Max:      tt.max,
				NumSteps: 3,
				Frames:   200,
				Seed:     1,
			})
			if err != nil {
				t.Fatal(err)
			}
			first, last := results[0].KineticEnergy, results[2].KineticEnergy
			if first == last {
				t.Errorf("kinetic energy unchanged across %s values: %v", param, first)
			}
		})
	}
}

func TestScenarioStepRejectsLargeDt(t *testing.T) {
	sc := &Scenario{Steps: []ScenarioStep{{Preset: "reference", Frames: 1, Dt: 5}}}
	_, err := RunScenario(context.Background(), sc, nil, nil)
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}

	_, err = RunSweep(context.Background(), &Sweep{Preset: "reference", Param: "g", NumSteps: 1, Frames: 1, Dt: 0.5})
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("sweep err = %v, want ErrInvalidConfig", err)
	}
}
