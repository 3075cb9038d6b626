package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	dt         float64
	duration   float64
	seed       int64
	numBodies  int
	theta1     float64
	theta2     float64
	omega1     float64
	omega2     float64

	varIdx int
	hann   bool
	xAxis  int
	yAxis  int

	crossIdx int
	level    float64
	sectionX int
	sectionY int

	d0 float64

	paramIdx  int
	recordIdx int
	paramFrom float64
	paramTo   float64
	paramN    int
	transient float64
	record    float64

	numRuns      int
	numTrials    int
	perturbation float64

	output    string
	seriesIdx int
	bodyIdx   int
	theme     string
	substeps  int
	trailLen  int
	gifPath   string
	frameSize []int
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("mechsim: ")

	rootCmd := &cobra.Command{
		Use:          "mechsim",
		Short:        "n-body gravity and double pendulum simulator",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".mechsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run simulation and store the result",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	addModelFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot one state component over time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&varIdx, "var", 0, "state component index")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase space plot",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&xAxis, "x", 0, "state index for x-axis")
	phaseCmd.Flags().IntVar(&yAxis, "y", 1, "state index for y-axis")

	poincareCmd := &cobra.Command{
		Use:   "poincare [run_id]",
		Short: "poincare section of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  poincarePlot,
	}
	poincareCmd.Flags().IntVar(&crossIdx, "cross", 0, "state index whose upward crossings are sampled")
	poincareCmd.Flags().Float64Var(&level, "level", 0, "crossing level")
	poincareCmd.Flags().IntVar(&sectionX, "x", 1, "state index for x-axis")
	poincareCmd.Flags().IntVar(&sectionY, "y", 3, "state index for y-axis")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&varIdx, "var", 0, "state component index")
	analyzeCmd.Flags().BoolVar(&hann, "window", false, "apply a hann window before the transform")

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov [model]",
		Short: "estimate the largest lyapunov exponent",
		Args:  cobra.ExactArgs(1),
		RunE:  lyapunovRun,
	}
	addModelFlags(lyapunovCmd)
	lyapunovCmd.Flags().Float64Var(&d0, "d0", 1e-8, "initial separation")

	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "sweep one initial state component",
		Args:  cobra.ExactArgs(1),
		RunE:  sweepRun,
	}
	addModelFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&paramIdx, "param", 0, "state index that is swept")
	sweepCmd.Flags().Float64Var(&paramFrom, "from", 0.1, "first parameter value")
	sweepCmd.Flags().Float64Var(&paramTo, "to", 3.0, "last parameter value")
	sweepCmd.Flags().IntVar(&paramN, "n", 60, "number of parameter values")
	sweepCmd.Flags().IntVar(&recordIdx, "var", 1, "state index that is recorded")
	sweepCmd.Flags().Float64Var(&transient, "transient", 5, "settling time before recording")
	sweepCmd.Flags().Float64Var(&record, "record", 5, "recording time")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [model]",
		Short: "run seeded copies concurrently",
		Args:  cobra.ExactArgs(1),
		RunE:  ensembleRun,
	}
	addModelFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 8, "number of runs")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted batch of simulations",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [model]",
		Short: "count stable runs under random initial perturbations",
		Args:  cobra.ExactArgs(1),
		RunE:  runMonteCarlo,
	}
	addModelFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&numTrials, "trials", 50, "number of trials")
	monteCarloCmd.Flags().Float64Var(&perturbation, "perturbation", 0.01, "half-width of the uniform initial noise")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write run states as csv to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write run as json to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportPNGCmd := &cobra.Command{
		Use:   "export-png [run_id]",
		Short: "render trajectories or a time series to png",
		Args:  cobra.ExactArgs(1),
		RunE:  exportPNG,
	}
	exportPNGCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <run_id>.png)")
	exportPNGCmd.Flags().IntVar(&seriesIdx, "var", -1, "plot this state component over time instead of trajectories")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render one trajectory to svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().IntVar(&bodyIdx, "body", -1, "body or bob index (default last)")
	exportSVGCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "color theme")

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "run simulation with live visualization",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addModelFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "color theme")
	liveCmd.Flags().IntVar(&substeps, "substeps", 10, "steps per frame")
	liveCmd.Flags().IntVar(&trailLen, "trail", 200, "trail length")
	liveCmd.Flags().StringVar(&gifPath, "gif", "simulation.gif", "gif recording path")
	liveCmd.Flags().IntSliceVar(&frameSize, "size", []int{80, 24}, "canvas width,height in cells")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [model]",
		Short: "simulate and write the final frame as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshotRun,
	}
	addModelFlags(snapshotCmd)
	snapshotCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <model>.svg)")
	snapshotCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "color theme")
	snapshotCmd.Flags().IntVar(&trailLen, "trail", 200, "trail length")
	snapshotCmd.Flags().IntSliceVar(&frameSize, "size", []int{80, 24}, "canvas width,height in cells")

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list models",
		Args:  cobra.NoArgs,
		RunE:  listModels,
	}

	rootCmd.AddCommand(
		runCmd, listCmd, plotCmd, phaseCmd, poincareCmd, analyzeCmd,
		lyapunovCmd, sweepCmd, ensembleCmd, scenarioCmd, monteCarloCmd,
		exportCSVCmd, exportJSONCmd, exportPNGCmd, exportSVGCmd,
		liveCmd, snapshotCmd, presetsCmd, modelsCmd,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&dt, "dt", 0.01, "timestep")
	cmd.Flags().Float64Var(&duration, "time", 10.0, "duration")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	cmd.Flags().IntVar(&numBodies, "bodies", 5, "number of random bodies (gravity)")
	cmd.Flags().Float64Var(&theta1, "theta1", 0.5, "first angle (pendulum)")
	cmd.Flags().Float64Var(&theta2, "theta2", 0.5, "second angle (pendulum)")
	cmd.Flags().Float64Var(&omega1, "omega1", 0, "first angular velocity (pendulum)")
	cmd.Flags().Float64Var(&omega2, "omega2", 0, "second angular velocity (pendulum)")
}
