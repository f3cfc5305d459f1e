package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"sigwatch/internal/analysis"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sigwatch.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
paths = ["src", "lib"]

[exclude]
dirs = ["vendor"]
files = ["*.min.js"]

[resolver]
modules = ["@preact/signals", "my-signals"]
suffix_pattern = "Sig$"
suffix_mode = "always"
hook_pattern = "^use[A-Z]"

[budget]
max_nodes = 5000
max_time_ms = 250
max_memory_mb = 64
metrics = true

[budget.op_caps]
"hook-scan" = 100

[rules.prefer-batch]
severity = "off"

[rules.prefer-value-read]
severity = "warn"
exempt_dirs = ["src/legacy"]

[watch]
debounce = 250000000
rescans_per_sec = 2.0
rescan_burst = 3

[output]
sarif = "out/report.sarif"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(cfg.Paths) != 2 || cfg.Paths[0] != "src" {
		t.Errorf("paths = %v", cfg.Paths)
	}
	if len(cfg.Exclude.Dirs) != 1 || cfg.Exclude.Dirs[0] != "vendor" {
		t.Errorf("exclude dirs = %v", cfg.Exclude.Dirs)
	}
	if cfg.Resolver.SuffixMode != "always" || cfg.Resolver.SuffixPattern != "Sig$" {
		t.Errorf("resolver = %+v", cfg.Resolver)
	}
	if cfg.Budget.MaxNodes != 5000 || cfg.Budget.MaxTimeMs != 250 {
		t.Errorf("budget = %+v", cfg.Budget)
	}
	if cfg.Budget.OpCaps["hook-scan"] != 100 {
		t.Errorf("op caps = %v", cfg.Budget.OpCaps)
	}
	if cfg.Rules["prefer-batch"].Severity != "off" {
		t.Errorf("rules = %+v", cfg.Rules)
	}
	if cfg.Rules["prefer-value-read"].ExemptDirs[0] != "src/legacy" {
		t.Errorf("exempt dirs = %v", cfg.Rules["prefer-value-read"].ExemptDirs)
	}
	if cfg.Watch.Debounce != 250*time.Millisecond || cfg.Watch.RescanBurst != 3 {
		t.Errorf("watch = %+v", cfg.Watch)
	}
	if cfg.Output.SARIF != "out/report.sarif" {
		t.Errorf("output = %+v", cfg.Output)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ``))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(cfg.Paths) != 1 || cfg.Paths[0] != "." {
		t.Errorf("default paths = %v", cfg.Paths)
	}
	found := false
	for _, d := range cfg.Exclude.Dirs {
		if d == "node_modules" {
			found = true
		}
	}
	if !found {
		t.Errorf("node_modules should be excluded by default, got %v", cfg.Exclude.Dirs)
	}
	if cfg.Resolver.SuffixMode != string(analysis.SuffixFallback) {
		t.Errorf("default suffix mode = %q", cfg.Resolver.SuffixMode)
	}
	if cfg.Budget.MaxNodes != analysis.DefaultMaxNodes {
		t.Errorf("default max nodes = %d", cfg.Budget.MaxNodes)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("default debounce = %v", cfg.Watch.Debounce)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("missing file must error")
	}
}

func TestDefaultMatchesEmptyLoad(t *testing.T) {
	cfg := Default()
	loaded, err := Load(writeConfig(t, ``))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Budget.MaxNodes != loaded.Budget.MaxNodes ||
		cfg.Resolver.SuffixPattern != loaded.Resolver.SuffixPattern {
		t.Error("Default() and an empty file must agree")
	}
}

func TestAnalysisOptions(t *testing.T) {
	cfg := Default()
	cfg.Budget.MaxNodes = 123
	cfg.Budget.MaxTimeMs = 40
	cfg.Resolver.Modules = []string{"my-signals"}

	opts := cfg.AnalysisOptions()
	if opts.Budget.MaxNodes != 123 || opts.Budget.MaxTime != 40*time.Millisecond {
		t.Errorf("budget = %+v", opts.Budget)
	}
	if len(opts.Modules) != 1 || opts.Modules[0] != "my-signals" {
		t.Errorf("modules = %v", opts.Modules)
	}
	if opts.SuffixMode != analysis.SuffixFallback {
		t.Errorf("suffix mode = %v", opts.SuffixMode)
	}
}
