package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sigwatch/internal/app"
	"sigwatch/internal/config"
	"sigwatch/internal/report"
)

var (
	configPath  = flag.String("config", "./sigwatch.toml", "Path to config file")
	watch       = flag.Bool("watch", false, "Re-analyze files on change instead of a single scan")
	sarifPath   = flag.String("sarif", "", "Write a SARIF report to this path")
	metricsAddr = flag.String("metrics", "", "Serve Prometheus metrics on this address")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	version     = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("sigwatch v%s\n", VERSION)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	cfg, err := config.Load(*configPath)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Info("no config file found, using defaults", "path", *configPath)
			cfg = config.Default()
		} else {
			slog.Error("failed to load config", "path", *configPath, "error", err)
			os.Exit(2)
		}
	}
	if *verbose {
		cfg.Budget.Verbose = true
	}
	if flag.NArg() > 0 {
		cfg.Paths = flag.Args()
	}

	analyzer, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(2)
	}

	if *metricsAddr != "" {
		cfg.Budget.Metrics = true
		go serveMetrics(*metricsAddr)
	}

	if *watch {
		runWatch(analyzer)
		return
	}
	runOnce(analyzer, cfg)
}

func runOnce(analyzer *app.App, cfg *config.Config) {
	result, err := analyzer.ScanOnce()
	if err != nil {
		slog.Error("scan failed", "error", err)
		os.Exit(2)
	}

	fmt.Print(report.FormatText(result.Diagnostics))
	slog.Info("scan complete",
		"files", result.FilesAnalyzed,
		"diagnostics", len(result.Diagnostics),
		"over_budget", result.BudgetExceeded)

	sarifOut := *sarifPath
	if sarifOut == "" {
		sarifOut = cfg.Output.SARIF
	}
	if sarifOut != "" {
		root, _ := os.Getwd()
		if err := analyzer.WriteSARIF(sarifOut, root, result.Diagnostics); err != nil {
			slog.Error("failed to write SARIF report", "path", sarifOut, "error", err)
			os.Exit(2)
		}
	}

	for _, d := range result.Diagnostics {
		if d.Severity == report.SeverityError {
			os.Exit(1)
		}
	}
}

func runWatch(analyzer *app.App) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := analyzer.Watch(ctx, func(result *app.Result) {
		fmt.Print(report.FormatText(result.Diagnostics))
		slog.Info("re-analyzed changed files",
			"files", result.FilesAnalyzed, "diagnostics", len(result.Diagnostics))
	})
	if err != nil {
		slog.Error("watch failed", "error", err)
		os.Exit(2)
	}
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	slog.Info("serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("metrics server stopped", "error", err)
	}
}
