package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"sigwatch/internal/analysis"
)

type Config struct {
	Paths    []string        `toml:"paths"`
	Exclude  Exclude         `toml:"exclude"`
	Resolver Resolver        `toml:"resolver"`
	Budget   Budget          `toml:"budget"`
	Rules    map[string]Rule `toml:"rules"`
	Watch    Watch           `toml:"watch"`
	Output   Output          `toml:"output"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Resolver struct {
	Modules       []string `toml:"modules"`
	SuffixPattern string   `toml:"suffix_pattern"`
	SuffixMode    string   `toml:"suffix_mode"` // off | fallback | always
	HookPattern   string   `toml:"hook_pattern"`
}

type Budget struct {
	MaxNodes    int            `toml:"max_nodes"`
	MaxTimeMs   int            `toml:"max_time_ms"`
	MaxMemoryMB uint64         `toml:"max_memory_mb"`
	OpCaps      map[string]int `toml:"op_caps"`
	Metrics     bool           `toml:"metrics"`
	Verbose     bool           `toml:"verbose"`
}

type Rule struct {
	Severity   string   `toml:"severity"` // error | warn | off
	ExemptDirs []string `toml:"exempt_dirs"`
}

type Watch struct {
	Debounce      time.Duration `toml:"debounce"`
	RescansPerSec float64       `toml:"rescans_per_sec"`
	RescanBurst   int           `toml:"rescan_burst"`
}

type Output struct {
	SARIF string `toml:"sarif"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() {
	if len(cfg.Paths) == 0 {
		cfg.Paths = []string{"."}
	}
	if len(cfg.Exclude.Dirs) == 0 {
		cfg.Exclude.Dirs = []string{".git", "node_modules", "dist", "build"}
	}
	if cfg.Resolver.SuffixMode == "" {
		cfg.Resolver.SuffixMode = string(analysis.SuffixFallback)
	}
	if cfg.Resolver.SuffixPattern == "" {
		cfg.Resolver.SuffixPattern = analysis.DefaultSuffixPattern
	}
	if cfg.Budget.MaxNodes == 0 {
		cfg.Budget.MaxNodes = analysis.DefaultMaxNodes
	}
	if cfg.Budget.MaxTimeMs == 0 {
		cfg.Budget.MaxTimeMs = 1000
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.RescansPerSec == 0 {
		cfg.Watch.RescansPerSec = 10
	}
	if cfg.Watch.RescanBurst == 0 {
		cfg.Watch.RescanBurst = 5
	}
}

// AnalysisOptions translates the config into the per-file core options.
func (cfg *Config) AnalysisOptions() analysis.Options {
	return analysis.Options{
		Modules:       cfg.Resolver.Modules,
		SuffixPattern: cfg.Resolver.SuffixPattern,
		SuffixMode:    analysis.SuffixMode(cfg.Resolver.SuffixMode),
		HookPattern:   cfg.Resolver.HookPattern,
		Budget: analysis.Budget{
			MaxNodes:    cfg.Budget.MaxNodes,
			MaxTime:     time.Duration(cfg.Budget.MaxTimeMs) * time.Millisecond,
			MaxMemoryMB: cfg.Budget.MaxMemoryMB,
			OpCaps:      cfg.Budget.OpCaps,
		},
	}
}
