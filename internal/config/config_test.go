package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })
	t.Setenv("HOME", home)
	return home
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	isolateHome(t)

	cfg, err := Load(viper.New(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := Default()
	if cfg.File != "" {
		t.Errorf("File = %q, want none", cfg.File)
	}
	cfg.File = ""
	if cfg != want {
		t.Errorf("Load() = %+v, want %+v", cfg, want)
	}
}

func TestLoadDefaultFile(t *testing.T) {
	home := isolateHome(t)
	dir := filepath.Join(home, ".config", "chromamatch")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := writeConfig(t, dir, "clusters: 3\n")

	cfg, err := Load(viper.New(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Clusters != 3 || cfg.File != path {
		t.Errorf("Load() clusters = %d file = %q", cfg.Clusters, cfg.File)
	}
}

func TestLoadExplicitFile(t *testing.T) {
	isolateHome(t)
	path := writeConfig(t, t.TempDir(), strings.Join([]string{
		"clusters: 4",
		"seed: 7",
		"tolerance: 0.01",
		"undertone_margin: 3.5",
		"labels:",
		"  skin: 2",
		"  hair: 17",
	}, "\n"))

	cfg, err := Load(viper.New(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Clusters != 4 || cfg.Seed != 7 || cfg.Tolerance != 0.01 || cfg.UndertoneMargin != 3.5 {
		t.Errorf("scalar keys not read: %+v", cfg)
	}
	if cfg.Labels.Skin != 2 || cfg.Labels.Hair != 17 || cfg.Labels.LeftEye != DefaultLabelLeftEye {
		t.Errorf("labels = %+v", cfg.Labels)
	}
	if cfg.Inits != Default().Inits {
		t.Errorf("unset key inits = %d, want default", cfg.Inits)
	}
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	isolateHome(t)
	path := writeConfig(t, t.TempDir(), "clusters: 4\nlabels:\n  skin: 2\n")
	t.Setenv("CHROMAMATCH_CLUSTERS", "5")
	t.Setenv("CHROMAMATCH_LABELS_SKIN", "9")

	cfg, err := Load(viper.New(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Clusters != 5 || cfg.Labels.Skin != 9 {
		t.Errorf("environment not applied: clusters=%d skin=%d", cfg.Clusters, cfg.Labels.Skin)
	}
}

func TestBindFlagsOverrideEnvironment(t *testing.T) {
	isolateHome(t)
	t.Setenv("CHROMAMATCH_SEED", "11")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int64("seed", 42, "")
	fs.Int("skin", DefaultLabelSkin, "")
	if err := fs.Parse([]string{"--seed", "99"}); err != nil {
		t.Fatal(err)
	}

	v := viper.New()
	err := BindFlags(v, fs, map[string]string{
		"seed":    KeySeed,
		"skin":    KeyLabelSkin,
		"missing": KeyClusters,
	})
	if err != nil {
		t.Fatalf("BindFlags() error = %v", err)
	}

	cfg, err := Load(v, "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Seed != 99 {
		t.Errorf("seed = %d, want flag value 99", cfg.Seed)
	}
	if cfg.Labels.Skin != DefaultLabelSkin {
		t.Errorf("unchanged flag overrode default: skin = %d", cfg.Labels.Skin)
	}
}

func TestLoadErrors(t *testing.T) {
	isolateHome(t)
	dir := t.TempDir()

	tests := []struct {
		name string
		body string
		path string
		want string
	}{
		{name: "missing explicit file", path: filepath.Join(dir, "nope.yaml"), want: "not accessible"},
		{name: "zero clusters", body: "clusters: 0\n", want: "cluster count"},
		{name: "negative margin", body: "undertone_margin: -1\n", want: KeyUndertoneMargin},
		{name: "label out of range", body: "labels:\n  hair: 300\n", want: KeyLabelHair},
		{name: "malformed yaml", body: "clusters: [\n", want: "failed to read config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path
			if path == "" {
				sub := t.TempDir()
				path = writeConfig(t, sub, tt.body)
			}
			_, err := Load(viper.New(), path)
			if err == nil {
				t.Fatalf("Load() succeeded, want error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestExtractorConfig(t *testing.T) {
	cfg := Default()
	cfg.Clusters = 3
	cfg.Seed = 1

	ec := cfg.ExtractorConfig()
	if ec.Clusters != 3 || ec.Seed != 1 || ec.Inits != cfg.Inits || ec.MaxIterations != cfg.MaxIterations {
		t.Errorf("ExtractorConfig() = %+v", ec)
	}
}
