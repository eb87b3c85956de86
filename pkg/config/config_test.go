package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Source.Driver != DriverSQLite {
		t.Errorf("expected default driver sqlite, got %q", cfg.Source.Driver)
	}
	if cfg.Source.Table != "admissions_scored" {
		t.Errorf("expected default table admissions_scored, got %q", cfg.Source.Table)
	}
	if cfg.Scoring.Weights.Diabetes != 1.5 {
		t.Errorf("expected default diabetes weight 1.5, got %f", cfg.Scoring.Weights.Diabetes)
	}
	if cfg.Impact.CostPerPatient != 15000 {
		t.Errorf("expected default cost per patient 15000, got %f", cfg.Impact.CostPerPatient)
	}
	if cfg.Impact.Ceiling != 3.9e9 {
		t.Errorf("expected default ceiling 3.9e9, got %f", cfg.Impact.Ceiling)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		missing bool
		wantErr bool
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name:    "non-existent file returns defaults",
			missing: true,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Source.Path != "hospital.db" {
					t.Errorf("expected default path, got %q", cfg.Source.Path)
				}
				if cfg.Server.Addr != ":8080" {
					t.Errorf("expected default addr, got %q", cfg.Server.Addr)
				}
			},
		},
		{
			name: "valid YAML overrides defaults",
			yaml: `
source:
  driver: postgres
  dsn: "postgres://localhost/readmit"
scoring:
  weights:
    diabetes: 2.0
impact:
  cost_per_patient: 20000
model:
  url: "http://model:9000"
  timeout: 3
`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Source.Driver != DriverPostgres {
					t.Errorf("expected driver postgres, got %q", cfg.Source.Driver)
				}
				if cfg.Scoring.Weights.Diabetes != 2.0 {
					t.Errorf("expected diabetes weight 2.0, got %f", cfg.Scoring.Weights.Diabetes)
				}
				// Unset weights keep their defaults.
				if cfg.Scoring.Weights.Hypertension != 1.0 {
					t.Errorf("expected hypertension weight 1.0, got %f", cfg.Scoring.Weights.Hypertension)
				}
				if cfg.Impact.CostPerPatient != 20000 {
					t.Errorf("expected cost 20000, got %f", cfg.Impact.CostPerPatient)
				}
				if cfg.Impact.PreventionSuccessRate != 0.7 {
					t.Errorf("expected default success rate, got %f", cfg.Impact.PreventionSuccessRate)
				}
				if cfg.ModelTimeout().Seconds() != 3 {
					t.Errorf("expected 3s model timeout, got %v", cfg.ModelTimeout())
				}
			},
		},
		{
			name:    "invalid YAML returns error",
			yaml:    "{{invalid yaml",
			wantErr: true,
		},
		{
			name:    "postgres without dsn is rejected",
			yaml:    "source:\n  driver: postgres\n",
			wantErr: true,
		},
		{
			name:    "unknown driver is rejected",
			yaml:    "source:\n  driver: oracle\n",
			wantErr: true,
		},
		{
			name:    "unknown storage backend is rejected",
			yaml:    "storage:\n  backend: ftp\n",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if !tc.missing {
				if err := os.WriteFile(path, []byte(tc.yaml), 0o644); err != nil {
					t.Fatalf("write test config: %v", err)
				}
			}

			cfg, err := Load(path)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.check != nil {
				tc.check(t, cfg)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	root := t.TempDir()
	cfgDir := filepath.Join(root, ".readmit")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(cfgDir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	if got := FindConfigFile(nested); got != cfgPath {
		t.Errorf("FindConfigFile = %q, want %q", got, cfgPath)
	}
	if got := FindConfigFile(t.TempDir()); got != "" {
		t.Errorf("expected no config file, got %q", got)
	}
}

func TestReportDir(t *testing.T) {
	dir := ReportDir("/srv/data/hospital.db")
	slug := "data_hospital.db"
	if !strings.HasSuffix(dir, filepath.Join(slug, "reports")) {
		t.Errorf("ReportDir should end with %q, got %q", filepath.Join(slug, "reports"), dir)
	}
	if got := sourceSlug("/home/user/warehouse/admissions.json"); got != "warehouse_admissions.json" {
		t.Errorf("sourceSlug = %q", got)
	}
}
