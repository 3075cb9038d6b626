package storage

import (
	"encoding/json"
	"io"
	"math"
	"strconv"

	"github.com/san-kum/mechsim/internal/dynamo"
)

// Number encodes non-finite values as null, which plain float64 cannot.
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

type ExportData struct {
	Model       string             `json:"model"`
	Preset      string             `json:"preset,omitempty"`
	Seed        int64              `json:"seed"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	Steps       int                `json:"steps"`
	EnergyDrift Number             `json:"energy_drift"`
	Labels      []string           `json:"labels"`
	Times       []float64          `json:"times"`
	States      [][]Number         `json:"states"`
	Metrics     map[string]float64 `json:"metrics"`
}

func NewExportData(info RunInfo, result *dynamo.Result) ExportData {
	data := ExportData{
		Model:       info.Model,
		Preset:      info.Preset,
		Seed:        info.Seed,
		Dt:          info.Dt,
		Duration:    info.Duration,
		Steps:       result.StepsTaken,
		EnergyDrift: Number(result.EnergyDrift),
		Labels:      labelsFor(info.Labels, result.States),
		Times:       result.Times,
		States:      make([][]Number, len(result.States)),
		Metrics:     finiteMetrics(result.Metrics),
	}

	for i, x := range result.States {
		row := make([]Number, len(x))
		for j, v := range x {
			row[j] = Number(v)
		}
		data.States[i] = row
	}

	return data
}

// ExportJSON writes the whole run as one indented JSON document.
func ExportJSON(w io.Writer, info RunInfo, result *dynamo.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewExportData(info, result))
}
