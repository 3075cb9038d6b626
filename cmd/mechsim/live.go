package main

import (
	"fmt"
	"log"
	"os"

	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/experiment"
	"github.com/san-kum/mechsim/internal/export"
	"github.com/san-kum/mechsim/internal/viz"
	"github.com/spf13/cobra"
)

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	if len(frameSize) != 2 {
		return fmt.Errorf("size wants width,height, got %v", frameSize)
	}

	exp := experiment.New(cfg, experiment.NewRegistry())
	if err := exp.Setup(); err != nil {
		return err
	}
	sys := exp.System()

	drawer, err := viz.NewDrawer(sys, trailLen)
	if err != nil {
		return err
	}

	title := cfg.Model
	if preset != "" {
		title += " / " + preset
	}

	m := viz.NewModel(sys, drawer, viz.Options{
		Title:         title,
		Dt:            cfg.Dt,
		StepsPerFrame: substeps,
		Width:         frameSize[0],
		Height:        frameSize[1],
		Theme:         theme,
		GIFPath:       gifPath,
	})
	return viz.Run(m)
}

// snapshotRun advances a system for the configured duration, feeding the
// drawer's trail on every step, and writes the final frame as SVG.
func snapshotRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	if len(frameSize) != 2 {
		return fmt.Errorf("size wants width,height, got %v", frameSize)
	}

	exp := experiment.New(cfg, experiment.NewRegistry())
	if err := exp.Setup(); err != nil {
		return err
	}
	drawer, err := viz.NewDrawer(exp.System(), trailLen)
	if err != nil {
		return err
	}

	err = exp.Simulator().RunWithCallback(cmd.Context(), exp.RunConfig(), func(dynamo.State, float64) bool {
		drawer.Observe()
		return true
	})
	if err != nil {
		return err
	}

	th := viz.GetTheme(theme)
	canvas := viz.NewCanvas(frameSize[0], frameSize[1])
	view := viz.NewView(canvas)
	view.Fit(drawer.Extent())
	if focus := drawer.Focus(); focus.IsFinite() {
		view.Center = focus
	}
	drawer.Draw(canvas, view, th)

	path := output
	if path == "" {
		path = cfg.Model + ".svg"
	}
	if err := os.WriteFile(path, []byte(export.CanvasToSVG(canvas, 4, string(th.Primary))), 0644); err != nil {
		return err
	}

	log.Printf("wrote %s at t=%gs", path, cfg.Duration)
	return nil
}
