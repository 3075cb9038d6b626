package main

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/mechsim/internal/analysis"
	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/experiment"
	"github.com/san-kum/mechsim/internal/storage"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"
)

func phasePlot(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	states, _, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}

	portrait, err := analysis.NewPhasePortrait(states, xAxis, yAxis)
	if err != nil {
		return err
	}

	fmt.Printf("phase space plot: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Model)
	fmt.Printf("x-axis: %s, y-axis: %s\n\n", label(meta.Labels, xAxis), label(meta.Labels, yAxis))
	fmt.Println(analysis.PhasePortraitToASCII(portrait, 70, 20))
	return nil
}

func poincarePlot(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	states, _, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}

	points, err := analysis.PoincareSection(states, crossIdx, level, sectionX, sectionY)
	if err != nil {
		return err
	}

	fmt.Printf("poincare section: %s\n", meta.ID)
	fmt.Printf("%s crossing %g upward, %d points\n", label(meta.Labels, crossIdx), level, len(points))
	fmt.Printf("x-axis: %s, y-axis: %s\n\n", label(meta.Labels, sectionX), label(meta.Labels, sectionY))
	if len(points) == 0 {
		fmt.Println("no crossings")
		return nil
	}
	fmt.Println(analysis.PointsToASCII(points, 70, 20))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	states, times, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(states) < 4 {
		return fmt.Errorf("not enough data")
	}
	if err := checkIndex(len(states[0]), varIdx); err != nil {
		return err
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("model: %s\n\n", meta.Model)

	data := analysis.Column(states, varIdx)
	ps := analysis.PowerSpectrum(data)
	if hann {
		ps = analysis.WindowedPowerSpectrum(data)
	}
	plotData := ps[1:]
	if len(plotData) > 16 {
		plotData = plotData[:len(plotData)/4]
	}

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (%s)", label(meta.Labels, varIdx))),
	)
	fmt.Println(graph)
	fmt.Println()

	freq, err := analysis.DominantFrequency(data, times[1]-times[0])
	if err != nil {
		return err
	}
	fmt.Printf("dominant frequency: %.4f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.4f s\n", 1.0/freq)
	}
	return nil
}

func lyapunovRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	a, err := registry.Build(cfg, rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		return err
	}
	b, err := registry.Build(cfg, rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		return err
	}

	log.Printf("estimating lyapunov exponent for %s over %gs (d0=%g)", cfg.Model, cfg.Duration, d0)
	lambda, err := analysis.LyapunovExponent(a, b, d0, cfg.Dt, cfg.Duration)
	if err != nil {
		return err
	}

	fmt.Printf("lyapunov exponent: %.6f\n", lambda)
	if lambda > 0 {
		fmt.Printf("chaotic (doubling time %.3f s)\n", math.Ln2/lambda)
	} else {
		fmt.Println("not chaotic over this horizon")
	}
	return nil
}

func sweepRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	if paramN < 2 {
		return fmt.Errorf("need at least 2 parameter values, got %d", paramN)
	}

	registry := experiment.NewRegistry()
	build := func(param float64) (dynamo.System, error) {
		sys, err := registry.Build(cfg, rand.New(rand.NewSource(cfg.Seed)))
		if err != nil {
			return nil, err
		}
		x := sys.State()
		if err := checkIndex(len(x), paramIdx); err != nil {
			return nil, err
		}
		x[paramIdx] = param
		if err := sys.SetState(x); err != nil {
			return nil, err
		}
		return sys, nil
	}

	params := make([]float64, paramN)
	for i := range params {
		params[i] = paramFrom + (paramTo-paramFrom)*float64(i)/float64(paramN-1)
	}

	log.Printf("sweeping x%d over [%g, %g] in %d values", paramIdx, paramFrom, paramTo, paramN)
	data, err := analysis.Sweep(cmd.Context(), build, params, recordIdx, cfg.Dt, transient, record)
	if err != nil {
		return err
	}

	fmt.Printf("sweep: %s, recording x%d\n\n", cfg.Model, recordIdx)
	fmt.Println(analysis.SweepToASCII(data, 70, 20))
	return nil
}

func ensembleRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	if numRuns < 1 {
		return fmt.Errorf("runs must be positive, got %d", numRuns)
	}

	registry := experiment.NewRegistry()
	build, err := registry.EnsembleBuilder(cfg)
	if err != nil {
		return err
	}

	ens := dynamo.NewEnsemble(build, numRuns, cfg.Seed).
		WithMetrics(func(sys dynamo.System) []dynamo.Metric {
			return registry.DefaultMetrics(cfg.Model, sys)
		})

	log.Printf("running %d %s simulations for %gs", numRuns, cfg.Model, cfg.Duration)
	results, err := ens.Run(cmd.Context(), runConfig(cfg))
	if err != nil {
		return err
	}

	drifts := make([]float64, 0, len(results))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tSTEPS\tDRIFT\tERRORS")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%.3e\t%d\n", cfg.Seed+int64(i), r.StepsTaken, r.EnergyDrift, len(r.Errors))
		if len(r.Errors) == 0 && !math.IsNaN(r.EnergyDrift) && !math.IsInf(r.EnergyDrift, 0) {
			drifts = append(drifts, r.EnergyDrift)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(drifts) > 1 {
		mean, std := stat.MeanStdDev(drifts, nil)
		fmt.Printf("\nenergy drift: mean %.3e, std %.3e over %d stable runs\n", mean, std, len(drifts))
	}
	return nil
}
