package experiment

import (
	"fmt"

	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/gravity"
	"github.com/san-kum/mechsim/internal/pendulum"
	"github.com/san-kum/mechsim/internal/storage"
)

// Describe records what is needed to reinterpret the states of a run of sys
// later: labels plus the physical parameters that are not part of the state.
func Describe(cfg *config.Config, preset string, sys dynamo.System) storage.RunInfo {
	info := storage.RunInfo{
		Model:    cfg.Model,
		Preset:   preset,
		Seed:     cfg.Seed,
		Dt:       cfg.Dt,
		Duration: cfg.Duration,
		Labels:   sys.StateLabels(),
		Params:   make(map[string]float64),
	}

	switch s := sys.(type) {
	case *pendulum.System:
		info.Params["l1"] = s.First().Length
		info.Params["l2"] = s.Second().Length
		info.Params["m1"] = s.First().Mass
		info.Params["m2"] = s.Second().Mass
		info.Params["g"] = s.Gravity()
	case *gravity.Simulator:
		info.Params["G"] = s.G
		for i := 0; i < s.Len(); i++ {
			info.Params[fmt.Sprintf("m%d", i)] = s.Body(i).Mass
		}
	}
	return info
}
