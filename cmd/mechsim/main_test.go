package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/storage"
	"github.com/spf13/cobra"
)

func newTestCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	addModelFlags(cmd)
	configFile, preset = "", ""
	return cmd
}

func TestLoadConfigDefaults(t *testing.T) {
	cmd := newTestCommand()
	cfg, err := loadConfig(cmd, config.ModelGravity)
	if err != nil {
		t.Fatalf("load config failed: %v", err)
	}
	if cfg.Model != config.ModelGravity {
		t.Errorf("expected gravity model, got %s", cfg.Model)
	}
	if cfg.Dt != config.DefaultDt || cfg.Seed != 0 {
		t.Errorf("unset flags should not override defaults: %+v", cfg)
	}
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	cmd := newTestCommand()
	if err := cmd.ParseFlags([]string{"--preset", "gentle", "--dt", "0.005", "--theta2", "1.2", "--seed", "7"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(cmd, config.ModelPendulum)
	if err != nil {
		t.Fatalf("load config failed: %v", err)
	}
	if cfg.Dt != 0.005 || cfg.Seed != 7 {
		t.Errorf("flags not applied: dt=%g seed=%d", cfg.Dt, cfg.Seed)
	}
	if cfg.Pendulum.Second.Angle != 1.2 {
		t.Errorf("expected theta2 1.2, got %g", cfg.Pendulum.Second.Angle)
	}
	if cfg.Pendulum.First.Angle != 0.3 || cfg.Duration != 30 {
		t.Errorf("preset values lost: %+v", cfg.Pendulum.First)
	}

	if p := config.GetPreset(config.ModelPendulum, "gentle"); p.Dt != 0.001 {
		t.Error("flag override leaked into preset table")
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name  string
		model string
		flags []string
	}{
		{"unknown preset", config.ModelPendulum, []string{"--preset", "nope"}},
		{"preset of other model", config.ModelGravity, []string{"--preset", "chaos"}},
		{"unknown model", "cartpole", nil},
		{"bad dt", config.ModelPendulum, []string{"--dt=-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newTestCommand()
			if err := cmd.ParseFlags(tt.flags); err != nil {
				t.Fatal(err)
			}
			if _, err := loadConfig(cmd, tt.model); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestPaths(t *testing.T) {
	states := []dynamo.State{{0, 0, 0, 0}, {0.1, 0.2, 0, 0}}

	series, err := paths(&storage.RunMetadata{Model: config.ModelPendulum, Params: map[string]float64{"l1": 1, "l2": 1}}, states)
	if err != nil {
		t.Fatalf("pendulum paths failed: %v", err)
	}
	if len(series) != 2 || series[1].Points[0].Y != -2 {
		t.Errorf("unexpected bob paths %+v", series)
	}

	series, err = paths(&storage.RunMetadata{Model: config.ModelGravity}, states)
	if err != nil {
		t.Fatalf("gravity paths failed: %v", err)
	}
	if len(series) != 1 || series[0].Points[1].X != 0.1 {
		t.Errorf("unexpected body paths %+v", series)
	}

	if _, err := paths(&storage.RunMetadata{Model: config.ModelPendulum}, states); err == nil {
		t.Error("expected error without segment lengths")
	}
}

func TestStoredRunRoundTrip(t *testing.T) {
	st := storage.New(t.TempDir())
	result := &dynamo.Result{
		States:      []dynamo.State{{1, 2, 3, 4}, {1.5, 2, 3, 4}},
		Times:       []float64{0, 0.01},
		Metrics:     map[string]float64{"stability": 1},
		EnergyDrift: 2e-6,
		StepsTaken:  1,
	}
	info := storage.RunInfo{Model: config.ModelPendulum, Dt: 0.01, Duration: 0.01, Params: map[string]float64{"l1": 1, "l2": 2}}

	runID, err := st.Save(info, result)
	if err != nil {
		t.Fatal(err)
	}

	meta, loaded, got, err := storedRun(st, runID)
	if err != nil {
		t.Fatalf("stored run failed: %v", err)
	}
	if meta.ID != runID || loaded.Params["l2"] != 2 {
		t.Errorf("unexpected info %+v", loaded)
	}
	if got.EnergyDrift != 2e-6 || got.StepsTaken != 1 || len(got.States) != 2 {
		t.Errorf("unexpected result %+v", got)
	}
}

func TestLabel(t *testing.T) {
	labels := []string{"theta1", "theta2"}
	if got := label(labels, 1); got != "theta2" {
		t.Errorf("label(1) = %s", got)
	}
	if got := label(labels, 5); got != "x5" {
		t.Errorf("label(5) = %s", got)
	}
}

func TestSeedDefaultsToZero(t *testing.T) {
	cmd := newTestCommand()
	if def := cmd.Flags().Lookup("seed").DefValue; def != "0" {
		t.Errorf("expected seed default 0, got %s", def)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestExportCSV(t *testing.T) {
	dataDir = t.TempDir()
	st := storage.New(dataDir)
	result := &dynamo.Result{
		States: []dynamo.State{{1, 2, 3, 4}, {1.5, 2, 3, 4}},
		Times:  []float64{0, 0.01},
	}
	info := storage.RunInfo{Model: config.ModelPendulum, Dt: 0.01, Duration: 0.01, Labels: []string{"theta1", "theta2", "omega1", "omega2"}}
	runID, err := st.Save(info, result)
	if err != nil {
		t.Fatal(err)
	}

	cmd := &cobra.Command{Use: "test"}
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	if err := exportCSV(cmd, []string{runID}); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 || lines[0] != "time,theta1,theta2,omega1,omega2" {
		t.Errorf("unexpected csv %q", buf.String())
	}

	cmd.SetOut(failingWriter{})
	if err := exportCSV(cmd, []string{runID}); err == nil {
		t.Error("expected write error to be returned")
	}
}
