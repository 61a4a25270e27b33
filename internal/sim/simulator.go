package sim

import (
	"context"
	"fmt"
)

// Runner drives a World headlessly for a fixed number of frames at a fixed dt.
type Runner struct {
	world     *World
	metrics   []Metric
	observers []Observer
}

func NewRunner(w *World) *Runner {
	return &Runner{
		world:     w,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (r *Runner) World() *World { return r.world }

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Run steps the world cfg.Frames times. The context is checked between
// frames; a canceled run returns the partial result with ctx.Err().
func (r *Runner) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if err := validateRunConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{Metrics: make(map[string]float64)}
	if cfg.Record {
		result.Frames = make([]Frame, 0, cfg.Frames+1)
	}
	for _, m := range r.metrics {
		m.Reset()
	}

	schedule := make(map[int][]Command)
	for _, s := range cfg.Schedule {
		schedule[s.Frame] = append(schedule[s.Frame], s.Cmd)
	}

	watching := cfg.Record || len(r.metrics) > 0 || len(r.observers) > 0
	if watching {
		r.emit(result, r.world.Snapshot(), cfg.Record)
	}

	for i := 1; i <= cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			r.finish(result)
			return result, ctx.Err()
		default:
		}

		for _, cmd := range schedule[i] {
			r.world.Submit(cmd)
		}
		r.world.Step(cfg.Dt)
		result.FramesRun++

		if watching {
			f := r.world.Snapshot()
			if err := checkFinite(f); err != nil {
				r.finish(result)
				return result, err
			}
			r.emit(result, f, cfg.Record)
		}
	}

	r.finish(result)
	return result, nil
}

func (r *Runner) emit(result *Result, f Frame, record bool) {
	for _, m := range r.metrics {
		m.Observe(f)
	}
	for _, o := range r.observers {
		o.OnFrame(f)
	}
	if record {
		result.Frames = append(result.Frames, f)
	}
}

func (r *Runner) finish(result *Result) {
	result.SimTime = r.world.Elapsed()
	result.BodyCount = r.world.Len()
	result.Bounces = r.world.Bounces()
	result.Bounds = r.world.Bounds()
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateRunConfig(cfg RunConfig) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Frames < 0 {
		return fmt.Errorf("frames must be non-negative, got %d", cfg.Frames)
	}
	for _, s := range cfg.Schedule {
		if s.Frame < 1 || s.Frame > cfg.Frames {
			return fmt.Errorf("scheduled command at frame %d outside [1, %d]", s.Frame, cfg.Frames)
		}
	}
	return nil
}

func checkFinite(f Frame) error {
	for _, b := range f.Bodies {
		if !b.Position.IsFinite() || !b.Velocity.IsFinite() {
			return StepError{Frame: f.Index, Message: fmt.Sprintf("body %d has non-finite state", b.ID)}
		}
	}
	return nil
}
