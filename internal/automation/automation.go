package automation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/sandbox/internal/config"
	"github.com/san-kum/sandbox/internal/logging"
	"github.com/san-kum/sandbox/internal/metrics"
	"github.com/san-kum/sandbox/internal/sim"
	"github.com/san-kum/sandbox/internal/storage"
)

// Scenario is a scripted sequence of headless runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep runs one preset for a number of frames with scripted input.
type ScenarioStep struct {
	Preset string  `yaml:"preset"`
	Frames int     `yaml:"frames"`
	Dt     float64 `yaml:"dt"`
	Seed   int64   `yaml:"seed"`
	Inputs []Input `yaml:"inputs"`
	SaveAs string  `yaml:"save_as"`
}

// Input is one scripted command. Exactly one of Spawn, Push, Hold or
// Release is set.
type Input struct {
	Frame   int       `yaml:"frame"`
	Spawn   []float64 `yaml:"spawn,omitempty"`
	Push    string    `yaml:"push,omitempty"`
	Hold    string    `yaml:"hold,omitempty"`
	Release string    `yaml:"release,omitempty"`
}

// StepResult pairs a step with its outcome. RunID is set when the step was
// saved.
type StepResult struct {
	Step   ScenarioStep
	Result *sim.Result
	RunID  string
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// Command converts the input to a sim command.
func (in Input) Command() (sim.Command, error) {
	set := 0
	var cmd sim.Command
	if in.Spawn != nil {
		if len(in.Spawn) != 2 {
			return cmd, fmt.Errorf("frame %d: spawn wants [x, y]", in.Frame)
		}
		cmd = sim.Spawn(in.Spawn[0], in.Spawn[1])
		set++
	}
	for _, dc := range []struct {
		dir   string
		build func(sim.Direction) sim.Command
	}{
		{in.Push, sim.Push},
		{in.Hold, sim.Hold},
		{in.Release, sim.Release},
	} {
		if dc.dir == "" {
			continue
		}
		d, err := sim.ParseDirection(strings.ToLower(strings.TrimSpace(dc.dir)))
		if err != nil {
			return cmd, fmt.Errorf("frame %d: %w", in.Frame, err)
		}
		cmd = dc.build(d)
		set++
	}
	if set != 1 {
		return cmd, fmt.Errorf("frame %d: want exactly one of spawn, push, hold, release", in.Frame)
	}
	return cmd, nil
}

func (s ScenarioStep) build() (*config.Config, sim.RunConfig, error) {
	preset := s.Preset
	if preset == "" {
		preset = "reference"
	}
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, sim.RunConfig{}, fmt.Errorf("unknown preset: %s", preset)
	}
	cfg.Run.Seed = s.Seed
	if s.Dt > 0 {
		cfg.Run.Dt = s.Dt
	}
	if s.Frames > 0 {
		cfg.Run.Frames = s.Frames
	}
	if err := cfg.Validate(); err != nil {
		return nil, sim.RunConfig{}, err
	}

	runCfg := sim.RunConfig{Dt: cfg.Run.Dt, Frames: cfg.Run.Frames}
	for _, in := range s.Inputs {
		cmd, err := in.Command()
		if err != nil {
			return nil, sim.RunConfig{}, err
		}
		runCfg.Schedule = append(runCfg.Schedule, sim.Scheduled{Frame: in.Frame, Cmd: cmd})
	}
	return cfg, runCfg, nil
}

// RunScenario executes all steps in order, collecting every metric. Steps
// with SaveAs set are recorded and written to st when st is non-nil.
func RunScenario(ctx context.Context, scenario *Scenario, st *storage.Store, log *slog.Logger) ([]StepResult, error) {
	if log == nil {
		log = logging.Discard()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		log.Info("running step", "step", i+1, "of", len(scenario.Steps), "preset", step.Preset)

		cfg, runCfg, err := step.build()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		runCfg.Record = step.SaveAs != ""

		w, err := sim.FromConfig(cfg, nil, log)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		r := sim.NewRunner(w)
		ms, _ := metrics.Build(nil)
		for _, m := range ms {
			r.AddMetric(m)
		}

		result, err := r.Run(ctx, runCfg)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}
		sr := StepResult{Step: step, Result: result}
		if st != nil && step.SaveAs != "" {
			sr.RunID, err = st.Save(step.SaveAs, cfg.Run.Seed, runCfg.Dt, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			log.Info("saved step", "step", i+1, "run", sr.RunID)
		}
		results = append(results, sr)
	}

	return results, nil
}

// Sweep varies one world parameter across a range and runs a preset at each
// value.
type Sweep struct {
	Preset   string
	Param    string
	Min, Max float64
	NumSteps int
	Frames   int
	Dt       float64
	Seed     int64
}

type SweepResult struct {
	ParamValue    float64
	KineticEnergy float64
	PeakSpeed     float64
	Bounces       int
}

// SweepParams lists the parameters a Sweep can vary. Setting a force
// coefficient also switches that force on.
var SweepParams = map[string]func(*config.Config, float64){
	"g":           func(c *config.Config, v float64) { c.Forces.G = v },
	"restitution": func(c *config.Config, v float64) { c.World.Restitution = v },
	"impulse":     func(c *config.Config, v float64) { c.Forces.Impulse = v },
	"friction": func(c *config.Config, v float64) {
		c.Forces.FrictionEnabled = true
		c.Forces.Friction = v
	},
	"drag": func(c *config.Config, v float64) {
		c.Forces.DragEnabled = true
		c.Forces.Drag = v
	},
	"gravity": func(c *config.Config, v float64) {
		c.World.GravityEnabled = true
		c.World.Gravity.Y = v
	},
}

func RunSweep(ctx context.Context, sweep *Sweep) ([]SweepResult, error) {
	set, ok := SweepParams[sweep.Param]
	if !ok {
		return nil, fmt.Errorf("unknown sweep parameter: %s", sweep.Param)
	}
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		val := sweep.Min + float64(i)*paramStep

		step := ScenarioStep{Preset: sweep.Preset, Frames: sweep.Frames, Dt: sweep.Dt, Seed: sweep.Seed}
		cfg, runCfg, err := step.build()
		if err != nil {
			return nil, err
		}
		set(cfg, val)

		w, err := sim.FromConfig(cfg, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("%s=%v: %w", sweep.Param, val, err)
		}
		ke, peak := metrics.NewKineticEnergy(), metrics.NewPeakSpeed()
		r := sim.NewRunner(w)
		r.AddMetric(ke)
		r.AddMetric(peak)

		res, err := r.Run(ctx, runCfg)
		if err != nil {
			return nil, err
		}
		results = append(results, SweepResult{
			ParamValue:    val,
			KineticEnergy: ke.Value(),
			PeakSpeed:     peak.Value(),
			Bounces:       res.Bounces,
		})
	}

	return results, nil
}

// MonteCarlo runs a preset over consecutive seeds and summarizes one metric.
type MonteCarlo struct {
	Preset    string
	Metric    string
	NumRuns   int
	SeedStart int64
	Frames    int
	Dt        float64
	Inputs    []Input
}

type MonteCarloResult struct {
	Values []float64
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

func RunMonteCarlo(ctx context.Context, mc *MonteCarlo) (*MonteCarloResult, error) {
	if mc.NumRuns < 1 {
		return nil, fmt.Errorf("monte carlo needs at least one run, got %d", mc.NumRuns)
	}
	if _, err := metrics.Build([]string{mc.Metric}); err != nil {
		return nil, err
	}

	step := ScenarioStep{Preset: mc.Preset, Frames: mc.Frames, Dt: mc.Dt, Inputs: mc.Inputs}
	base, runCfg, err := step.build()
	if err != nil {
		return nil, err
	}

	factory := func(seed int64) (*sim.World, error) {
		cfg := *base
		cfg.Run.Seed = seed
		return sim.FromConfig(&cfg, nil, nil)
	}
	newMetrics := func() []sim.Metric {
		ms, _ := metrics.Build([]string{mc.Metric})
		return ms
	}

	runs, err := sim.NewEnsemble(factory, newMetrics, mc.NumRuns, mc.SeedStart).Run(ctx, runCfg)
	if err != nil {
		return nil, err
	}

	values := make([]float64, len(runs))
	for i, r := range runs {
		values[i] = r.Metrics[mc.Metric]
	}
	return summarize(values), nil
}

func summarize(values []float64) *MonteCarloResult {
	res := &MonteCarloResult{Values: values, Min: math.Inf(1), Max: math.Inf(-1)}
	var sum float64
	for _, v := range values {
		sum += v
		res.Min = math.Min(res.Min, v)
		res.Max = math.Max(res.Max, v)
	}
	res.Mean = sum / float64(len(values))

	var sq float64
	for _, v := range values {
		sq += (v - res.Mean) * (v - res.Mean)
	}
	res.StdDev = math.Sqrt(sq / float64(len(values)))
	return res
}
