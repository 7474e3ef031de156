// Package config loads PrinterLimits from a JSON5 file or a Moonraker HTTP
// endpoint and projects the looser wire format into the frozen runtime
// limits the planner consumes (§6, §4.7).
package config

import (
	"math"
	"os"

	"github.com/yosuke-furukawa/json5/encoding/json5"

	"printestimate/internal/errs"
	"printestimate/internal/limits"
)

// extruderConfig is the on-disk shape of one extruder's limits.
type extruderConfig struct {
	MaxVelocity     float64 `json:"max_velocity"`
	MaxAccel        float64 `json:"max_accel"`
	PressureAdvance float64 `json:"pressure_advance"`
	SmoothTime      float64 `json:"smooth_time"`
}

// fileConfig is the on-disk/wire representation of a printer's limits —
// looser than limits.PrinterLimits because fields may be absent and get
// filled in by applyDefaults.
type fileConfig struct {
	MaxVelocity          float64                   `json:"max_velocity"`
	MaxAccel             float64                   `json:"max_accel"`
	MaxAccelToDecel      float64                   `json:"max_accel_to_decel"`
	SquareCornerVelocity float64                   `json:"square_corner_velocity"`
	MaxZVelocity         float64                   `json:"max_z_velocity"`
	MaxZAccel            float64                   `json:"max_z_accel"`
	Kinematics           string                    `json:"kinematics"`
	FilamentDiameter     float64                   `json:"filament_diameter"`
	Extruders            map[string]extruderConfig `json:"extruders"`
	MoveKinds            map[string]string         `json:"move_kinds"`
}

// Result bundles the derived PrinterLimits together with values the rest of
// the pipeline needs but that don't belong on the frozen limits struct
// itself (filament cross-section area for volume accounting) and any
// non-fatal warning encountered while loading (e.g. unsupported
// kinematics).
type Result struct {
	Limits       *limits.PrinterLimits
	FilamentArea float64
	Warning      error
}

// Load reads path as JSON5 (comments, trailing commas, and unquoted keys
// are all tolerated, matching hand-edited printer.cfg-adjacent config
// files) and projects it into a Result.
func Load(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &errs.IoError{Op: "reading config file " + path, Err: err}
	}

	var fc fileConfig
	if err := json5.Unmarshal(data, &fc); err != nil {
		return nil, &errs.IoError{Op: "decoding config file " + path, Err: err}
	}

	return build(&fc)
}

// Default returns the built-in printer limits (Klipper-typical cartesian
// defaults) with no file or HTTP source, for dump-config and as the
// fallback when the CLI is given neither --config_file nor
// --config_moonraker_url.
func Default() *Result {
	res, err := build(&fileConfig{})
	if err != nil {
		// applyDefaults always produces a valid limits set; a failure here
		// would be a bug in the defaults themselves, not a runtime error.
		panic(err)
	}
	return res
}

func applyDefaults(fc *fileConfig) {
	if fc.MaxVelocity == 0 {
		fc.MaxVelocity = 300
	}
	if fc.MaxAccel == 0 {
		fc.MaxAccel = 3000
	}
	if fc.MaxAccelToDecel == 0 {
		fc.MaxAccelToDecel = fc.MaxAccel / 2
	}
	if fc.SquareCornerVelocity == 0 {
		fc.SquareCornerVelocity = 5
	}
	if fc.MaxZVelocity == 0 {
		fc.MaxZVelocity = 10
	}
	if fc.MaxZAccel == 0 {
		fc.MaxZAccel = 100
	}
	if fc.FilamentDiameter == 0 {
		fc.FilamentDiameter = 1.75
	}
	if fc.Kinematics == "" {
		fc.Kinematics = "cartesian"
	}
	if fc.Extruders == nil {
		fc.Extruders = map[string]extruderConfig{}
	}
	if _, ok := fc.Extruders["extruder"]; !ok {
		fc.Extruders["extruder"] = extruderConfig{
			MaxVelocity: 120,
			MaxAccel:    1500,
			SmoothTime:  0.04,
		}
	}
	for name, e := range fc.Extruders {
		if e.MaxVelocity == 0 {
			e.MaxVelocity = 120
		}
		if e.MaxAccel == 0 {
			e.MaxAccel = 1500
		}
		if e.SmoothTime == 0 {
			e.SmoothTime = 0.04
		}
		fc.Extruders[name] = e
	}
	if fc.MoveKinds == nil {
		fc.MoveKinds = defaultMoveKinds()
	}
}

func build(fc *fileConfig) (*Result, error) {
	applyDefaults(fc)

	lim := &limits.PrinterLimits{
		MaxVelocity:          fc.MaxVelocity,
		MaxAccel:             fc.MaxAccel,
		MaxAccelToDecel:      fc.MaxAccelToDecel,
		SquareCornerVelocity: fc.SquareCornerVelocity,
		MaxZVelocity:         fc.MaxZVelocity,
		MaxZAccel:            fc.MaxZAccel,
		MoveKinds:            fc.MoveKinds,
		Extruders:            make(map[string]limits.ExtruderLimits, len(fc.Extruders)),
	}
	for name, e := range fc.Extruders {
		lim.Extruders[name] = limits.ExtruderLimits{
			MaxVelocity:     e.MaxVelocity,
			MaxAccel:        e.MaxAccel,
			PressureAdvance: e.PressureAdvance,
			SmoothTime:      e.SmoothTime,
		}
	}

	if err := lim.Validate(); err != nil {
		return nil, err
	}

	var warning error
	if fc.Kinematics != "cartesian" && fc.Kinematics != "corexy" {
		warning = &errs.UnsupportedKinematics{Kind: fc.Kinematics}
	}

	return &Result{
		Limits:       lim,
		FilamentArea: filamentArea(fc.FilamentDiameter),
		Warning:      warning,
	}, nil
}

func filamentArea(diameterMM float64) float64 {
	r := diameterMM / 2
	return math.Pi * r * r
}
