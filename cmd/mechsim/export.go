package main

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/san-kum/mechsim/internal/analysis"
	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/export"
	"github.com/san-kum/mechsim/internal/storage"
	"github.com/san-kum/mechsim/internal/viz"
	"github.com/spf13/cobra"
)

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	states, times, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(cmd.OutOrStdout())

	header := []string{"time"}
	for i := range states[0] {
		header = append(header, label(meta.Labels, i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range states {
		row := []string{strconv.FormatFloat(times[i], 'f', 6, 64)}
		for _, val := range states[i] {
			row = append(row, strconv.FormatFloat(val, 'g', 10, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	_, info, result, err := storedRun(storage.New(dataDir), args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, info, result)
}

// paths rebuilds the position trajectories of a stored run.
func paths(meta *storage.RunMetadata, states []dynamo.State) ([]export.Series, error) {
	switch meta.Model {
	case config.ModelGravity:
		return export.BodyPaths(states)
	case config.ModelPendulum:
		l1, ok1 := meta.Params["l1"]
		l2, ok2 := meta.Params["l2"]
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("run %s does not record segment lengths", meta.ID)
		}
		return export.BobPaths(states, l1, l2)
	default:
		return nil, fmt.Errorf("unknown model: %s", meta.Model)
	}
}

func exportPNG(cmd *cobra.Command, args []string) error {
	meta, _, result, err := storedRun(storage.New(dataDir), args[0])
	if err != nil {
		return err
	}

	path := output
	if path == "" {
		path = meta.ID + ".png"
	}

	if seriesIdx >= 0 {
		if err := checkIndex(len(result.States[0]), seriesIdx); err != nil {
			return err
		}
		name := label(meta.Labels, seriesIdx)
		err = export.TimeSeriesPNG(path, fmt.Sprintf("%s: %s", meta.ID, name), name,
			result.Times, analysis.Column(result.States, seriesIdx))
	} else {
		var series []export.Series
		series, err = paths(meta, result.States)
		if err == nil {
			err = export.TrajectoryPNG(path, meta.ID, series)
		}
	}
	if err != nil {
		return err
	}

	log.Printf("wrote %s", path)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, _, result, err := storedRun(storage.New(dataDir), args[0])
	if err != nil {
		return err
	}

	series, err := paths(meta, result.States)
	if err != nil {
		return err
	}
	idx := bodyIdx
	if idx < 0 {
		idx = len(series) - 1
	}
	if idx < 0 || idx >= len(series) {
		return fmt.Errorf("index %d out of range (%d paths)", bodyIdx, len(series))
	}

	stroke := string(viz.GetTheme(theme).EntityColor(idx))
	svg := export.TrajectoryToSVG(series[idx].Points, 800, 800, stroke)
	if svg == "" {
		return fmt.Errorf("path %s has fewer than 2 finite points", series[idx].Name)
	}

	path := output
	if path == "" {
		path = meta.ID + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}

	log.Printf("wrote %s (%s)", path, series[idx].Name)
	return nil
}
