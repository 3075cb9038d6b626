package main

import (
	"fmt"
	"log"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/mechsim/internal/analysis"
	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/experiment"
	"github.com/san-kum/mechsim/internal/storage"
	"github.com/spf13/cobra"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}

	exp := experiment.New(cfg, experiment.NewRegistry())
	if err := exp.Setup(); err != nil {
		return err
	}

	log.Printf("running %s for %gs (dt=%g, seed=%d)", cfg.Model, cfg.Duration, cfg.Dt, cfg.Seed)
	start := time.Now()
	result, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	st := storage.New(dataDir)
	runID, err := st.Save(experiment.Describe(cfg, preset, exp.System()), result)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", runID)
	fmt.Printf("steps: %d (%v)\n", result.StepsTaken, elapsed.Round(time.Millisecond))
	fmt.Printf("energy drift: %.3e\n", result.EnergyDrift)

	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%s: %.6g\n", name, result.Metrics[name])
	}

	for _, e := range result.Errors {
		log.Printf("warning: %v", e)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tPRESET\tSTEPS\tDRIFT\tTIMESTAMP")
	for _, r := range runs {
		drift := "-"
		if r.EnergyDrift != nil {
			drift = fmt.Sprintf("%.3e", *r.EnergyDrift)
		}
		p := r.Preset
		if p == "" {
			p = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			r.ID, r.Model, p, r.Steps, drift, r.Timestamp.Format(time.RFC3339))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	states, _, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}
	if err := checkIndex(len(states[0]), varIdx); err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n\n", meta.Model)

	graph := asciigraph.Plot(analysis.Column(states, varIdx),
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(label(meta.Labels, varIdx)),
	)
	fmt.Println(graph)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	models := []string{config.ModelGravity, config.ModelPendulum}
	if len(args) == 1 {
		models = args
	}
	for _, model := range models {
		names := config.ListPresets(model)
		if names == nil {
			return fmt.Errorf("unknown model: %s", model)
		}
		fmt.Printf("%s:\n", model)
		for _, name := range names {
			p := config.GetPreset(model, name)
			fmt.Printf("  %-12s dt=%g time=%g\n", name, p.Dt, p.Duration)
		}
	}
	return nil
}

func listModels(cmd *cobra.Command, args []string) error {
	for _, name := range experiment.NewRegistry().ListModels() {
		fmt.Println(name)
	}
	return nil
}
