package config

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"printestimate/internal/errs"
)

// moonrakerTimeout bounds the single blocking I/O boundary the config
// loader introduces into an otherwise synchronous core (§5).
const moonrakerTimeout = 10 * time.Second

type printerSection struct {
	MaxVelocity          float64 `json:"max_velocity"`
	MaxAccel             float64 `json:"max_accel"`
	MaxAccelToDecel      float64 `json:"max_accel_to_decel"`
	SquareCornerVelocity float64 `json:"square_corner_velocity"`
	MaxZVelocity         float64 `json:"max_z_velocity"`
	MaxZAccel            float64 `json:"max_z_accel"`
	Kinematics           string  `json:"kinematics"`
}

type extruderSection struct {
	MaxExtrudeOnlyVelocity    float64 `json:"max_extrude_only_velocity"`
	MaxExtrudeOnlyAccel       float64 `json:"max_extrude_only_accel"`
	PressureAdvance           float64 `json:"pressure_advance"`
	PressureAdvanceSmoothTime float64 `json:"pressure_advance_smooth_time"`
	FilamentDiameter          float64 `json:"filament_diameter"`
}

type settingsEnvelope struct {
	Result struct {
		Status struct {
			Configfile struct {
				Settings map[string]json.RawMessage `json:"settings"`
			} `json:"configfile"`
		} `json:"status"`
	} `json:"result"`
}

// LoadFromMoonraker fetches {baseURL}/printer/objects/query?configfile=settings
// and projects configfile.settings.printer.* / extruder*.* into a Result,
// the same shape Load produces from a file.
func LoadFromMoonraker(ctx context.Context, baseURL string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, moonrakerTimeout)
	defer cancel()

	url := strings.TrimRight(baseURL, "/") + "/printer/objects/query?configfile=settings"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &errs.IoError{Op: "building moonraker request", Err: err}
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, &errs.IoError{Op: "fetching moonraker config", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errs.IoError{Op: "reading moonraker response", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &errs.IoError{Op: "fetching moonraker config", Err: &httpStatusError{resp.StatusCode}}
	}

	var env settingsEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &errs.IoError{Op: "decoding moonraker response", Err: err}
	}

	fc := &fileConfig{Extruders: map[string]extruderConfig{}}

	if raw, ok := env.Result.Status.Configfile.Settings["printer"]; ok {
		var p printerSection
		if err := json.Unmarshal(raw, &p); err == nil {
			fc.MaxVelocity = p.MaxVelocity
			fc.MaxAccel = p.MaxAccel
			fc.MaxAccelToDecel = p.MaxAccelToDecel
			fc.SquareCornerVelocity = p.SquareCornerVelocity
			fc.MaxZVelocity = p.MaxZVelocity
			fc.MaxZAccel = p.MaxZAccel
			fc.Kinematics = p.Kinematics
		}
	}

	for key, raw := range env.Result.Status.Configfile.Settings {
		if key != "extruder" && !strings.HasPrefix(key, "extruder") {
			continue
		}
		var e extruderSection
		if err := json.Unmarshal(raw, &e); err != nil {
			continue
		}
		if fc.FilamentDiameter == 0 && e.FilamentDiameter > 0 {
			fc.FilamentDiameter = e.FilamentDiameter
		}
		fc.Extruders[key] = extruderConfig{
			MaxVelocity:     e.MaxExtrudeOnlyVelocity,
			MaxAccel:        e.MaxExtrudeOnlyAccel,
			PressureAdvance: e.PressureAdvance,
			SmoothTime:      e.PressureAdvanceSmoothTime,
		}
	}

	return build(fc)
}

type httpStatusError struct {
	code int
}

func (e *httpStatusError) Error() string {
	return http.StatusText(e.code)
}
