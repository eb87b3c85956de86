package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/karnalakavya0/hospital-readmission-proj/pkg/admission"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/config"
)

func TestRootSubcommands(t *testing.T) {
	root := newRootCmd()
	want := []string{"score", "report", "explain", "export", "serve", "mcp", "migrate"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("missing subcommand %q", name)
		}
	}
	for _, flag := range []string{"config", "source", "driver", "log-level"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing persistent flag: %s", flag)
		}
	}
}

func TestReportCmdFlags(t *testing.T) {
	cmd := newReportCmd(&globalOpts{})
	f := cmd.Flags()

	format, _ := f.GetString("format")
	if format != "terminal" {
		t.Errorf("default format = %q, want terminal", format)
	}
	for _, flag := range []string{"patient", "format", "pdf", "out-dir"} {
		if f.Lookup(flag) == nil {
			t.Errorf("missing flag: %s", flag)
		}
	}
}

func TestScoreCmdFlags(t *testing.T) {
	cmd := newScoreCmd(&globalOpts{})
	outputFmt, _ := cmd.Flags().GetString("output")
	if outputFmt != "text" {
		t.Errorf("default output = %q, want text", outputFmt)
	}
}

func TestMigrateSubcommands(t *testing.T) {
	cmd := newMigrateCmd(&globalOpts{})
	for _, name := range []string{"up", "down", "version"} {
		sub, _, err := cmd.Find([]string{name})
		if err != nil || sub.Name() != name {
			t.Errorf("missing migrate subcommand %q", name)
		}
	}
}

func TestFirstNonEmpty(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"a", "b", "c"}, "a"},
		{[]string{"", "b", "c"}, "b"},
		{[]string{"", "", "c"}, "c"},
		{[]string{"", "", ""}, ""},
	}

	for _, tt := range tests {
		got := firstNonEmpty(tt.args...)
		if got != tt.want {
			t.Errorf("firstNonEmpty(%v) = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("source:\n  driver: sqlite\n  path: ward.db\nlogging:\n  level: warn\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(&globalOpts{configPath: path, driver: config.DriverJSON, sourcePath: "fixture.json"})
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Source.Driver != config.DriverJSON || cfg.Source.Path != "fixture.json" {
		t.Errorf("source = %+v, want json fixture.json", cfg.Source)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("log level = %q, want warn", cfg.Logging.Level)
	}

	if _, err := loadConfig(&globalOpts{configPath: path, driver: "oracle"}); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestWriteScoreTable(t *testing.T) {
	records := []admission.Record{
		{PatientID: "p1", Name: "Ada", RiskScore: 96.84, RiskLevel: admission.RiskHigh,
			ReadmitProb: 0.72, ReadmitFlag: admission.FlagHigh, ExpectedSaving: 10168.2},
	}
	var buf bytes.Buffer
	if err := writeScoreTable(&buf, records, 10168.2); err != nil {
		t.Fatalf("writeScoreTable() error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"PATIENT", "96.84%", "⚠ High-Risk (72.0%)", "$10,168.20", "Estimated Overall Savings: $10,168.20"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}
