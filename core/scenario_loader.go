package core

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/signalsfoundry/coverage-engine/model"
)

// internal JSON shapes – kept unexported so we're free to evolve them.
type sitePlanJSON struct {
	ScalePxPerM  float64           `json:"scale_px_per_m"`
	StepPx       float64           `json:"step_px"`
	ColorMode    string            `json:"color_mode"` // "test" | "standard" | "manual"
	Thresholds   *thresholdsJSON   `json:"thresholds"` // manual mode only
	Transmitters []transmitterJSON `json:"transmitters"`
	Obstacles    []obstacleJSON    `json:"obstacles"`
}

type transmitterJSON struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	PowerDbm float64 `json:"power_dbm"`
}

type obstacleJSON struct {
	ID            string   `json:"id"`
	X1            float64  `json:"x1"`
	Y1            float64  `json:"y1"`
	X2            float64  `json:"x2"`
	Y2            float64  `json:"y2"`
	ThicknessM    float64  `json:"thickness_m"`
	Material      string   `json:"material"`
	AttenuationDb *float64 `json:"attenuation_db"` // optional override
}

type thresholdsJSON struct {
	Red    float64 `json:"red"`
	Orange float64 `json:"orange"`
	Yellow float64 `json:"yellow"`
	Green  float64 `json:"green"`
	Blue   float64 `json:"blue"`
}

// LoadSitePlan reads a JSON site plan from r and returns the pass input the
// engine consumes. It deliberately fails only on JSON / structural errors;
// unknown materials and colour modes fall back to tolerant defaults the same
// way direct SitePlan construction would.
func LoadSitePlan(r io.Reader) (*SitePlan, error) {
	var payload sitePlanJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("LoadSitePlan: decode failed: %w", err)
	}

	plan := &SitePlan{
		ScalePxPerM: payload.ScalePxPerM,
		StepPx:      payload.StepPx,
		Mode:        colorModeFromJSON(payload.ColorMode, payload.Thresholds),
	}

	for _, jsTX := range payload.Transmitters {
		if jsTX.ID == "" {
			return nil, fmt.Errorf("LoadSitePlan: transmitter with empty id")
		}
		plan.Transmitters = append(plan.Transmitters, model.Transmitter{
			ID:       jsTX.ID,
			Position: r2.Vec{X: jsTX.X, Y: jsTX.Y},
			PowerDbm: jsTX.PowerDbm,
		})
	}

	for _, jsOB := range payload.Obstacles {
		if jsOB.ID == "" {
			return nil, fmt.Errorf("LoadSitePlan: obstacle with empty id")
		}
		plan.Obstacles = append(plan.Obstacles, model.Obstacle{
			ID:            jsOB.ID,
			A:             r2.Vec{X: jsOB.X1, Y: jsOB.Y1},
			B:             r2.Vec{X: jsOB.X2, Y: jsOB.Y2},
			ThicknessM:    jsOB.ThicknessM,
			Material:      materialFromString(jsOB.Material),
			AttenuationDb: jsOB.AttenuationDb,
		})
	}

	return plan, nil
}

// colorModeFromJSON maps the JSON selector to a ColorMode variant. Manual
// mode without threshold values renders nothing, which is what DisabledMode
// encodes; unknown / empty selectors default to the standard preset.
func colorModeFromJSON(mode string, th *thresholdsJSON) ColorMode {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "test":
		return TestMode{}
	case "manual":
		if th == nil {
			return DisabledMode{}
		}
		return ThresholdMode{Thresholds: model.ColorThresholds{
			RedDbm:    th.Red,
			OrangeDbm: th.Orange,
			YellowDbm: th.Yellow,
			GreenDbm:  th.Green,
			BlueDbm:   th.Blue,
		}}
	default:
		return ThresholdMode{Thresholds: model.DefaultThresholds}
	}
}

// materialFromString maps the JSON "material" string to our Material tags.
//
// We keep this tolerant: unknown / empty values stay as-is and resolve to
// the default profile in model.Material.Profile. Only common aliases are
// folded here.
func materialFromString(s string) model.Material {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "sheetrock", "plasterboard", "gypsum":
		return model.MaterialDrywall
	case "window", "glazing":
		return model.MaterialGlass
	case "timber", "plywood":
		return model.MaterialWood
	case "cement", "masonry":
		return model.MaterialConcrete
	case "steel", "aluminium", "aluminum":
		return model.MaterialMetal
	default:
		return model.Material(v)
	}
}
