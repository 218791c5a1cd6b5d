/*
Package app runs the file-combiner pipeline.

A run is strictly sequential:

	enumerate roots -> filter by pattern -> select -> combine

Each stage consumes the previous stage's list. Empty lists end the run early
with a notice and no output file. Fatal errors are returned to the caller;
anything already written to the output stays there.

Usage:

	a := app.New(cfg)
	report, err := a.Run(ctx)
*/
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jkasimotto/file-combiner/internal/config"
	"github.com/jkasimotto/file-combiner/pkg/combiner"
	"github.com/jkasimotto/file-combiner/pkg/filter"
	"github.com/jkasimotto/file-combiner/pkg/logger"
	"github.com/jkasimotto/file-combiner/pkg/output"
	"github.com/jkasimotto/file-combiner/pkg/progress"
	"github.com/jkasimotto/file-combiner/pkg/scanner"
	"github.com/jkasimotto/file-combiner/pkg/selector"
	"github.com/samber/lo"
	"github.com/spf13/afero"
)

// Outcome tells how a run ended
type Outcome int

const (
	// OutcomeCombined means the output file was written
	OutcomeCombined Outcome = iota

	// OutcomeNoFiles means no regular file was found under the roots
	OutcomeNoFiles

	// OutcomeNoMatches means the pattern matched nothing
	OutcomeNoMatches

	// OutcomeNoSelection means the user deselected everything
	OutcomeNoSelection

	// OutcomePlanned means a dry run printed its plan
	OutcomePlanned
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCombined:
		return "combined"
	case OutcomeNoFiles:
		return "no files"
	case OutcomeNoMatches:
		return "no matches"
	case OutcomeNoSelection:
		return "no selection"
	case OutcomePlanned:
		return "planned"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Report describes a finished run
type Report struct {
	Outcome Outcome

	// Candidates is the number of files found under the roots
	Candidates int

	// Matched is the number of candidates left after filtering
	Matched int

	// Selected holds the files chosen for combining, in output order
	Selected []string

	// Warnings lists the roots that were skipped
	Warnings []scanner.RootError

	// Summary is set when Outcome is OutcomeCombined
	Summary combiner.Summary
}

// App wires the pipeline stages together for one configuration
type App struct {
	config config.Config
	log    logger.Logger

	fs      afero.Fs
	chooser selector.Chooser
	stdout  io.Writer
	stderr  io.Writer
	workDir string

	console *console
}

// Option customizes an App
type Option func(*App)

// WithFs sets the filesystem used for reading and writing
func WithFs(fs afero.Fs) Option {
	return func(a *App) { a.fs = fs }
}

// WithChooser replaces the terminal prompt used in interactive mode
func WithChooser(c selector.Chooser) Option {
	return func(a *App) { a.chooser = c }
}

// WithStdout sets where notices and dry-run plans are printed
func WithStdout(w io.Writer) Option {
	return func(a *App) { a.stdout = w }
}

// WithStderr sets where logs, progress and the prompt are drawn
func WithStderr(w io.Writer) Option {
	return func(a *App) { a.stderr = w }
}

// WithWorkDir sets the directory interactive labels are relative to
func WithWorkDir(dir string) Option {
	return func(a *App) { a.workDir = dir }
}

// WithLogger replaces the default zap logger
func WithLogger(log logger.Logger) Option {
	return func(a *App) { a.log = log }
}

// New creates an application for cfg
func New(cfg config.Config, opts ...Option) *App {
	a := &App{
		config: cfg,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.log == nil {
		a.log = logger.NewLogger(logger.Config{
			Verbosity: cfg.Verbose,
			Output:    a.stderr,
		})
	}
	if a.fs == nil {
		a.fs = afero.NewOsFs()
	}
	if a.workDir == "" {
		if wd, err := os.Getwd(); err == nil {
			a.workDir = wd
		} else {
			a.log.WithError(err).Warn("Cannot determine working directory, labels will not be shortened")
		}
	}
	if a.chooser == nil {
		a.chooser = &selector.TeaChooser{
			Output:  a.stderr,
			NoColor: cfg.NoColor,
		}
	}

	// dry-run plans own stdout
	noticeOut := a.stdout
	if cfg.DryRun {
		noticeOut = a.stderr
	}
	a.console = newConsole(noticeOut, cfg.NoColor)

	a.log.WithFields(logger.Fields{
		"config": cfg.String(),
	}).Debug("Application initialized")

	return a
}

// Run executes the pipeline once
func (a *App) Run(ctx context.Context) (Report, error) {
	var report Report

	if err := a.config.Validate(); err != nil {
		return report, err
	}

	ctx, stop := a.handleSignals(ctx)
	defer stop()

	// an invalid pattern must fail before any file is touched
	pattern, err := filter.Compile(a.config.Regex)
	if err != nil {
		a.log.WithError(err).Error("Invalid pattern")
		return report, err
	}

	scan, err := scanner.NewScanner(scanner.Config{
		FollowSymlinks: a.config.FollowSymlinks,
	}, a.fs, a.log).Enumerate(ctx, a.config.Dirs)
	if err != nil {
		return report, fmt.Errorf("enumeration interrupted: %w", err)
	}

	report.Warnings = scan.Warnings
	for _, w := range scan.Warnings {
		a.console.warnRoot(w)
	}

	report.Candidates = len(scan.Files)
	if len(scan.Files) == 0 {
		a.console.notice("No files found in the specified paths.")
		report.Outcome = OutcomeNoFiles
		return report, nil
	}

	matched := pattern.Apply(scan.Files)
	report.Matched = len(matched)

	a.log.WithFields(logger.Fields{
		"candidates": len(scan.Files),
		"matched":    len(matched),
		"pattern":    pattern.String(),
	}).Info("Filtered candidates")

	if len(matched) == 0 {
		a.console.notice("No files matched the specified pattern.")
		report.Outcome = OutcomeNoMatches
		return report, nil
	}

	selected, err := a.selector().Select(ctx, matched)
	if err != nil {
		if errors.Is(err, selector.ErrCancelled) {
			a.log.Info("Selection cancelled by user")
		}
		return report, err
	}
	report.Selected = selected

	if len(selected) == 0 {
		a.console.notice("No files selected for combining.")
		report.Outcome = OutcomeNoSelection
		return report, nil
	}

	if a.config.DryRun {
		if err := a.printPlan(selected); err != nil {
			return report, err
		}
		report.Outcome = OutcomePlanned
		return report, nil
	}

	summary, err := combiner.NewCombiner(combiner.Config{
		RateLimit: a.config.RateLimit,
		Progress:  a.progress(),
	}, a.fs, a.log).Combine(ctx, selected, a.config.Output)
	report.Summary = summary
	if err != nil {
		return report, err
	}

	a.console.combined(summary.Files, a.config.Output)
	report.Outcome = OutcomeCombined
	return report, nil
}

func (a *App) selector() selector.Selector {
	if a.config.Interactive {
		return selector.NewInteractive(a.chooser, a.workDir, a.log)
	}
	return selector.Passthrough{}
}

func (a *App) progress() progress.Progress {
	if a.config.NoProgress {
		return progress.Nop()
	}
	return progress.NewAuto(a.progressConfig(), a.log)
}

func (a *App) progressConfig() progress.Config {
	style := progress.Style(a.config.ProgressStyle)
	if style == "" {
		style = progress.StyleBar
	}
	return progress.Config{
		Style:             style,
		NoColor:           a.config.NoColor,
		HideAfterComplete: true,
		Output:            a.stderr,
	}
}

// printPlan writes what a real run would combine
func (a *App) printPlan(files []string) error {
	plan := output.Plan{
		Output: a.config.Output,
		Files: lo.Map(files, func(path string, _ int) output.PlanFile {
			file := output.PlanFile{Path: path}
			if info, err := a.fs.Stat(path); err == nil {
				file.Size = info.Size()
			} else {
				a.log.WithError(err).WithFields(logger.Fields{"path": path}).Warn("Cannot stat planned file")
			}
			return file
		}),
	}

	text, err := output.NewFormatter(output.Config{
		Format:     output.Format(a.config.Format),
		WithStats:  a.config.Format == string(config.PlanFormatTree),
		WithColors: !a.config.NoColor && progress.IsTerminal(a.stdout),
	}, a.log).Format(plan)
	if err != nil {
		return fmt.Errorf("failed to format plan: %w", err)
	}

	if _, err := io.WriteString(a.stdout, text); err != nil {
		return fmt.Errorf("failed to print plan: %w", err)
	}
	return nil
}
