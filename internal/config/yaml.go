package config

import (
	"gopkg.in/yaml.v3"
)

// yamlExtruder and yamlDoc mirror fileConfig's shape for dump-config's
// --format yaml output, a rendering of the resolved limits. Load does not
// read this format back: it decodes JSON5, and this document carries
// filament_area instead of filament_diameter and omits kinematics and
// move_kinds.
type yamlExtruder struct {
	MaxVelocity     float64 `yaml:"max_velocity"`
	MaxAccel        float64 `yaml:"max_accel"`
	PressureAdvance float64 `yaml:"pressure_advance"`
	SmoothTime      float64 `yaml:"smooth_time"`
}

type yamlDoc struct {
	MaxVelocity          float64                 `yaml:"max_velocity"`
	MaxAccel             float64                 `yaml:"max_accel"`
	MaxAccelToDecel      float64                 `yaml:"max_accel_to_decel"`
	SquareCornerVelocity float64                 `yaml:"square_corner_velocity"`
	MaxZVelocity         float64                 `yaml:"max_z_velocity"`
	MaxZAccel            float64                 `yaml:"max_z_accel"`
	FilamentArea         float64                 `yaml:"filament_area"`
	Extruders            map[string]yamlExtruder `yaml:"extruders"`
}

// MarshalYAML renders a resolved Result back out as YAML, for dump-config
// --format yaml.
func MarshalYAML(res *Result) ([]byte, error) {
	doc := yamlDoc{
		MaxVelocity:          res.Limits.MaxVelocity,
		MaxAccel:             res.Limits.MaxAccel,
		MaxAccelToDecel:      res.Limits.MaxAccelToDecel,
		SquareCornerVelocity: res.Limits.SquareCornerVelocity,
		MaxZVelocity:         res.Limits.MaxZVelocity,
		MaxZAccel:            res.Limits.MaxZAccel,
		FilamentArea:         res.FilamentArea,
		Extruders:            make(map[string]yamlExtruder, len(res.Limits.Extruders)),
	}
	for name, e := range res.Limits.Extruders {
		doc.Extruders[name] = yamlExtruder(e)
	}
	return yaml.Marshal(doc)
}
