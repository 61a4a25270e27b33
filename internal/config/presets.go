package config

import "sort"

// Presets builds named scenes on top of DefaultConfig.
var Presets = map[string]func() *Config{
	"reference": DefaultConfig,
	"gravity": func() *Config {
		cfg := DefaultConfig()
		cfg.World.GravityEnabled = true
		cfg.Forces.Attraction = AttractionNone
		return cfg
	},
	"liquid": func() *Config {
		cfg := DefaultConfig()
		cfg.World.GravityEnabled = true
		cfg.Forces.Attraction = AttractionNone
		cfg.Forces.DragEnabled = true
		cfg.Bodies = []BodyConfig{
			{X: 200, Y: 50, Mass: 5, Radius: 10, Shape: "circle"},
			{X: 400, Y: 50, Mass: 20, Radius: 15, Shape: "circle"},
			{X: 600, Y: 50, Mass: 50, Radius: 20, Shape: "polygon"},
		}
		return cfg
	},
	"friction": func() *Config {
		cfg := DefaultConfig()
		cfg.Forces.Attraction = AttractionNone
		cfg.Forces.FrictionEnabled = true
		cfg.Bodies = []BodyConfig{
			{X: 400, Y: 300, VX: 300, VY: -200, Mass: 2, Radius: 12, Shape: "circle"},
		}
		return cfg
	},
	"cluster": func() *Config {
		cfg := DefaultConfig()
		cfg.Forces.Attraction = AttractionAllPairs
		cfg.Bodies = []BodyConfig{
			{X: 400, Y: 300, Mass: 40, Radius: 20, Shape: "circle"},
			{X: 300, Y: 300, VY: 60, Mass: 2, Radius: 6, Shape: "circle"},
			{X: 500, Y: 300, VY: -60, Mass: 2, Radius: 6, Shape: "circle"},
			{X: 400, Y: 180, VX: -60, Mass: 1, Radius: 4, Shape: "none"},
		}
		return cfg
	},
}

// GetPreset returns a fresh config for name, or nil if it does not exist.
func GetPreset(name string) *Config {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
