package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth          = 800.0
	DefaultHeight         = 600.0
	DefaultRestitution    = 0.9
	DefaultGravityY       = 9.8 * 50
	DefaultFPS            = 60
	DefaultMaxDt          = 0.016
	DefaultG              = 100.0
	DefaultFriction       = 0.1 * 50
	DefaultDrag           = 0.02
	DefaultImpulse        = 500.0
	DefaultFrames         = 600
	DefaultBodyRadius     = 20.0
	DefaultControlledBody = 0
)

// Attraction modes select which pairs feel gravitational attraction.
const (
	AttractionNone      = "none"
	AttractionFirstPair = "first_pair"
	AttractionAllPairs  = "all_pairs"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	World      WorldConfig  `yaml:"world"`
	Forces     ForceConfig  `yaml:"forces"`
	Spawn      SpawnConfig  `yaml:"spawn"`
	Run        RunConfig    `yaml:"run"`
	Bodies     []BodyConfig `yaml:"bodies"`
	Controlled int          `yaml:"controlled"`
}

type WorldConfig struct {
	Width          float64    `yaml:"width"`
	Height         float64    `yaml:"height"`
	Restitution    float64    `yaml:"restitution"`
	GravityEnabled bool       `yaml:"gravity_enabled"`
	Gravity        VecConfig  `yaml:"gravity"`
	Liquid         RectConfig `yaml:"liquid"`
}

type VecConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type RectConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

type ForceConfig struct {
	G               float64 `yaml:"g"`
	Attraction      string  `yaml:"attraction"`
	FrictionEnabled bool    `yaml:"friction_enabled"`
	Friction        float64 `yaml:"friction"`
	DragEnabled     bool    `yaml:"liquid_drag_enabled"`
	Drag            float64 `yaml:"drag"`
	Impulse         float64 `yaml:"impulse"`
}

// Range is a half-open interval [Min, Max).
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

type SpawnConfig struct {
	Velocity        Range    `yaml:"velocity"`
	Acceleration    Range    `yaml:"acceleration"`
	Mass            Range    `yaml:"mass"`
	Radius          Range    `yaml:"radius"`
	AngularVelocity Range    `yaml:"angular_velocity"`
	Shapes          []string `yaml:"shapes"`
}

type RunConfig struct {
	FPS    int     `yaml:"fps"`
	MaxDt  float64 `yaml:"max_dt"`
	Dt     float64 `yaml:"dt"`
	Frames int     `yaml:"frames"`
	Seed   int64   `yaml:"seed"`
}

type BodyConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	VX     float64 `yaml:"vx"`
	VY     float64 `yaml:"vy"`
	Mass   float64 `yaml:"mass"`
	Radius float64 `yaml:"radius"`
	Shape  string  `yaml:"shape"`
}

// DefaultConfig is the reference scene: a heavy and a light circle
// attracting each other in an 800x600 viewport, gravity off.
func DefaultConfig() *Config {
	return &Config{
		World: WorldConfig{
			Width:       DefaultWidth,
			Height:      DefaultHeight,
			Restitution: DefaultRestitution,
			Gravity:     VecConfig{Y: DefaultGravityY},
			Liquid:      RectConfig{X: 0, Y: DefaultHeight / 2, W: DefaultWidth, H: DefaultHeight / 2},
		},
		Forces: ForceConfig{
			G:          DefaultG,
			Attraction: AttractionFirstPair,
			Friction:   DefaultFriction,
			Drag:       DefaultDrag,
			Impulse:    DefaultImpulse,
		},
		Spawn: SpawnConfig{
			Velocity:        Range{Min: -100, Max: 100},
			Acceleration:    Range{Min: -100, Max: 100},
			Mass:            Range{Min: 1, Max: 100},
			Radius:          Range{Min: 1, Max: 25},
			AngularVelocity: Range{Min: -3, Max: 3},
			Shapes:          []string{"circle", "polygon"},
		},
		Run: RunConfig{
			FPS:    DefaultFPS,
			MaxDt:  DefaultMaxDt,
			Dt:     DefaultMaxDt,
			Frames: DefaultFrames,
		},
		Bodies: []BodyConfig{
			{X: 200, Y: 300, Mass: 10, Radius: DefaultBodyRadius, Shape: "circle"},
			{X: 300, Y: 200, Mass: 1, Radius: DefaultBodyRadius, Shape: "circle"},
		},
		Controlled: DefaultControlledBody,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML over DefaultConfig and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	w := c.World
	if w.Width <= 0 || w.Height <= 0 {
		return invalid("world size must be positive, got %gx%g", w.Width, w.Height)
	}
	if w.Restitution < 0 || w.Restitution > 1 {
		return invalid("restitution must be in [0, 1], got %g", w.Restitution)
	}
	if w.Liquid.W < 0 || w.Liquid.H < 0 {
		return invalid("liquid region size must be non-negative")
	}

	switch c.Forces.Attraction {
	case AttractionNone, AttractionFirstPair, AttractionAllPairs:
	default:
		return invalid("unknown attraction mode %q", c.Forces.Attraction)
	}
	if c.Forces.Friction < 0 || c.Forces.Drag < 0 {
		return invalid("friction and drag coefficients must be non-negative")
	}

	if c.Run.FPS <= 0 {
		return invalid("fps must be positive, got %d", c.Run.FPS)
	}
	if c.Run.MaxDt <= 0 {
		return invalid("max_dt must be positive, got %g", c.Run.MaxDt)
	}
	if c.Run.Dt <= 0 {
		return invalid("dt must be positive, got %g", c.Run.Dt)
	}
	if c.Run.Dt > c.Run.MaxDt {
		return invalid("dt %g above max_dt %g", c.Run.Dt, c.Run.MaxDt)
	}
	if c.Run.Frames < 0 {
		return invalid("frames must be non-negative, got %d", c.Run.Frames)
	}

	s := c.Spawn
	for name, r := range map[string]Range{
		"velocity":         s.Velocity,
		"acceleration":     s.Acceleration,
		"mass":             s.Mass,
		"radius":           s.Radius,
		"angular_velocity": s.AngularVelocity,
	} {
		if r.Min > r.Max {
			return invalid("spawn %s range min %g above max %g", name, r.Min, r.Max)
		}
	}
	if s.Mass.Min <= 0 {
		return invalid("spawn mass must be positive, got min %g", s.Mass.Min)
	}
	if s.Radius.Min < 0 {
		return invalid("spawn radius must be non-negative, got min %g", s.Radius.Min)
	}
	for _, shape := range s.Shapes {
		if !validShape(shape) {
			return invalid("unknown spawn shape %q", shape)
		}
	}

	for i, b := range c.Bodies {
		if b.Mass <= 0 {
			return invalid("body %d: mass must be positive, got %g", i, b.Mass)
		}
		if b.Radius < 0 {
			return invalid("body %d: radius must be non-negative, got %g", i, b.Radius)
		}
		if !validShape(b.Shape) {
			return invalid("body %d: unknown shape %q", i, b.Shape)
		}
	}
	if len(c.Bodies) > 0 && (c.Controlled < 0 || c.Controlled >= len(c.Bodies)) {
		return invalid("controlled body %d out of range [0, %d)", c.Controlled, len(c.Bodies))
	}
	return nil
}

func validShape(s string) bool {
	switch s {
	case "", "none", "circle", "polygon":
		return true
	}
	return false
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
