// Package app wires the analyzer together: it walks the configured roots,
// parses each supported file, runs the rule set under a fresh per-file
// analysis instance, and collects diagnostics for the output layer.
package app

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gobwas/glob"
	sitter "github.com/tree-sitter/go-tree-sitter"

	"sigwatch/internal/analysis"
	"sigwatch/internal/config"
	coreerrors "sigwatch/internal/core/errors"
	"sigwatch/internal/parser"
	"sigwatch/internal/report"
	"sigwatch/internal/rules"
	"sigwatch/internal/shared/observability"
	"sigwatch/internal/shared/util"
	"sigwatch/internal/watcher"
)

type App struct {
	cfg    *config.Config
	parser *parser.Parser
	rules  []rules.Rule

	excludeDirs  []glob.Glob
	excludeFiles []glob.Glob
}

type Result struct {
	Diagnostics    []report.Diagnostic
	FilesAnalyzed  int
	BudgetExceeded int
}

func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg:    cfg,
		parser: parser.NewParser(parser.NewGrammarLoader()),
		rules:  rules.All(),
	}
	a.excludeDirs = compileGlobs(cfg.Exclude.Dirs)
	a.excludeFiles = compileGlobs(cfg.Exclude.Files)
	return a, nil
}

// compileGlobs drops malformed patterns with a warning instead of failing
// the run; a bad pattern only disables itself.
func compileGlobs(patterns []string) []glob.Glob {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			slog.Warn("invalid exclude pattern, ignoring", "pattern", pattern, "error", err)
			continue
		}
		globs = append(globs, g)
	}
	return globs
}

func (a *App) Rules() []rules.Rule {
	return a.rules
}

// ScanOnce analyzes every supported file under the configured roots.
func (a *App) ScanOnce() (*Result, error) {
	result := &Result{}
	for _, root := range a.cfg.Paths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if a.matchesAny(a.excludeDirs, filepath.Base(path)) {
					return filepath.SkipDir
				}
				return nil
			}
			a.scanFile(path, result)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (a *App) scanFile(path string, result *Result) {
	if parser.DetectLanguage(path) == "" || a.matchesAny(a.excludeFiles, filepath.Base(path)) {
		return
	}
	content, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("failed to read file", "path", path, "error", err)
		return
	}
	diagnostics, err := a.AnalyzeFile(path, content)
	if err != nil {
		slog.Warn("failed to analyze file", "path", path, "error", err)
		return
	}
	result.FilesAnalyzed++
	for _, d := range diagnostics {
		if d.Rule == budgetRuleID {
			result.BudgetExceeded++
		}
	}
	result.Diagnostics = append(result.Diagnostics, diagnostics...)
}

const budgetRuleID = "budget-exceeded"

// BudgetRuleInfo is the synthetic rule entry for over-budget diagnostics.
var BudgetRuleInfo = report.RuleInfo{
	ID:          budgetRuleID,
	Description: "Analysis stopped early because the traversal budget ran out",
	Severity:    report.SeverityWarn,
}

// AnalyzeFile runs the full rule set over one file. All analysis state is
// constructed here and discarded before returning; nothing leaks across
// files.
func (a *App) AnalyzeFile(path string, content []byte) ([]report.Diagnostic, error) {
	start := time.Now()
	file, err := a.parser.ParseFile(path, content)
	if err != nil {
		if a.cfg.Budget.Metrics {
			observability.FilesSkippedTotal.Inc()
		}
		return nil, err
	}
	defer file.Close()
	if a.cfg.Budget.Metrics {
		observability.ParsingDuration.WithLabelValues(file.Language).Observe(time.Since(start).Seconds())
	}

	an := analysis.New(file, a.cfg.AnalysisOptions())
	active := a.activeRules(path)

	collector := &report.Collector{}
	emit := func(d report.Diagnostic) {
		if severity, ok := a.severityFor(d.Rule); ok {
			d.Severity = severity
		}
		if a.cfg.Budget.Metrics {
			observability.DiagnosticsTotal.WithLabelValues(d.Rule).Inc()
		}
		collector.Report(d)
	}

	// A failing rule is disabled for the rest of the file; the others keep
	// running. Only the budget condition stops the walk itself.
	failed := make(map[string]bool)
	walkErr := an.Walk(func(node *sitter.Node) error {
		for _, rule := range active {
			if failed[rule.Name()] {
				continue
			}
			if err := rule.Visit(an, node, emit); err != nil {
				if coreerrors.IsCode(err, coreerrors.CodeBudgetExceeded) {
					return err
				}
				slog.Error("rule failed, disabling for this file",
					"rule", rule.Name(), "path", path, "error", err)
				failed[rule.Name()] = true
			}
		}
		return nil
	})

	if walkErr != nil {
		if !coreerrors.IsCode(walkErr, coreerrors.CodeBudgetExceeded) {
			return nil, walkErr
		}
		collector.Report(a.budgetDiagnostic(path, walkErr))
		if a.cfg.Budget.Metrics {
			observability.BudgetExceededTotal.Inc()
		}
	}

	if a.cfg.Budget.Metrics {
		observability.FilesAnalyzedTotal.Inc()
		observability.NodesVisitedTotal.Add(float64(an.Budget.Nodes()))
		observability.AnalysisDuration.WithLabelValues(file.Language).Observe(time.Since(start).Seconds())
	}
	if a.cfg.Budget.Verbose {
		slog.Debug("analyzed file", "path", path,
			"nodes", an.Budget.Nodes(), "diagnostics", len(collector.Diagnostics))
	}
	return collector.Diagnostics, nil
}

// budgetDiagnostic is the single over-budget finding per file: warning
// level, naming the file and the work done before the cap tripped.
func (a *App) budgetDiagnostic(path string, err error) report.Diagnostic {
	message := "analysis budget exceeded; remaining checks skipped"
	if elapsed, ok := coreerrors.GetContext(err, coreerrors.CtxElapsed); ok {
		if s, ok := elapsed.(string); ok {
			message += " (after " + s + ")"
		}
	}
	return report.Diagnostic{
		Rule:     budgetRuleID,
		Severity: report.SeverityWarn,
		Location: parser.Location{File: path, Line: 1, Column: 1},
		Message:  message,
	}
}

// activeRules filters the rule set for one file: severity "off" disables a
// rule globally, exempt_dirs disables it for matching path prefixes.
func (a *App) activeRules(path string) []rules.Rule {
	active := make([]rules.Rule, 0, len(a.rules))
	for _, rule := range a.rules {
		rc, ok := a.cfg.Rules[rule.Name()]
		if ok {
			if rc.Severity == string(report.SeverityOff) {
				continue
			}
			exempt := false
			for _, dir := range rc.ExemptDirs {
				if util.HasPathPrefix(path, dir) {
					exempt = true
					break
				}
			}
			if exempt {
				continue
			}
		}
		active = append(active, rule)
	}
	return active
}

func (a *App) severityFor(ruleName string) (report.Severity, bool) {
	rc, ok := a.cfg.Rules[ruleName]
	if !ok || rc.Severity == "" {
		return "", false
	}
	severity, err := report.ParseSeverity(rc.Severity)
	if err != nil {
		slog.Warn("invalid severity override, keeping rule default",
			"rule", ruleName, "severity", rc.Severity)
		return "", false
	}
	return severity, true
}

// Watch re-analyzes changed files until the context is canceled. Rescans are
// rate limited so editor save storms cannot monopolize the process.
func (a *App) Watch(ctx context.Context, onBatch func(*Result)) error {
	limiter := util.NewLimiter(a.cfg.Watch.RescansPerSec, a.cfg.Watch.RescanBurst)

	w, err := watcher.NewWatcher(a.cfg.Watch.Debounce, a.cfg.Exclude.Dirs, a.cfg.Exclude.Files,
		func(paths []string) {
			result := &Result{}
			for _, path := range paths {
				if err := limiter.Wait(ctx, 1); err != nil {
					return
				}
				a.scanFile(path, result)
			}
			onBatch(result)
		})
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Watch(a.cfg.Paths); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

// WriteSARIF renders the diagnostics as SARIF at the given path.
func (a *App) WriteSARIF(path, projectRoot string, diagnostics []report.Diagnostic) error {
	infos := append(rules.Infos(a.rules), BudgetRuleInfo)
	doc, err := report.GenerateSARIF(projectRoot, infos, diagnostics)
	if err != nil {
		return err
	}
	return util.WriteFileWithDirs(path, doc, 0o644)
}

func (a *App) matchesAny(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}
