package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp/syntax"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/jkasimotto/file-combiner/internal/config"
	"github.com/jkasimotto/file-combiner/pkg/combiner"
	"github.com/jkasimotto/file-combiner/pkg/filter"
	"github.com/jkasimotto/file-combiner/pkg/logger"
	"github.com/jkasimotto/file-combiner/pkg/progress"
	"github.com/jkasimotto/file-combiner/pkg/selector"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLogger struct {
	logs []string
}

func (m *mockLogger) Info(msg string)                               { m.logs = append(m.logs, "INFO: "+msg) }
func (m *mockLogger) Debug(msg string)                              { m.logs = append(m.logs, "DEBUG: "+msg) }
func (m *mockLogger) Error(msg string)                              { m.logs = append(m.logs, "ERROR: "+msg) }
func (m *mockLogger) Warn(msg string)                               { m.logs = append(m.logs, "WARN: "+msg) }
func (m *mockLogger) Trace(msg string)                              { m.logs = append(m.logs, "TRACE: "+msg) }
func (m *mockLogger) WithFields(fields logger.Fields) logger.Logger { return m }
func (m *mockLogger) WithError(err error) logger.Logger             { return m }

// fakeChooser answers the prompt without a terminal. before runs first,
// which lets a test change the filesystem between enumeration and combine.
type fakeChooser struct {
	indices []int
	err     error
	before  func()
	shown   []string
}

func (f *fakeChooser) Choose(_ context.Context, labels []string) ([]int, error) {
	f.shown = labels
	if f.before != nil {
		f.before()
	}
	if f.indices == nil && f.err == nil {
		all := make([]int, len(labels))
		for i := range all {
			all[i] = i
		}
		return all, nil
	}
	return f.indices, f.err
}

const outputPath = "/out/combined.txt"

func setupTestFS(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
	}
	return fs
}

func projectFS(t *testing.T) afero.Fs {
	return setupTestFS(t, map[string]string{
		"/project/a.txt":     "alpha",
		"/project/b.md":      "bravo",
		"/project/sub/c.txt": "charlie",
	})
}

func baseConfig() config.Config {
	return config.Config{
		Output:     outputPath,
		Dirs:       []string{"/project"},
		Format:     string(config.PlanFormatList),
		NoProgress: true,
		NoColor:    true,
	}
}

func newTestApp(cfg config.Config, fs afero.Fs, chooser selector.Chooser) (*App, *bytes.Buffer, *mockLogger) {
	stdout := &bytes.Buffer{}
	log := &mockLogger{}
	opts := []Option{
		WithFs(fs),
		WithStdout(stdout),
		WithStderr(&bytes.Buffer{}),
		WithWorkDir("/project"),
		WithLogger(log),
	}
	if chooser != nil {
		opts = append(opts, WithChooser(chooser))
	}
	return New(cfg, opts...), stdout, log
}

func readOutput(t *testing.T, fs afero.Fs) string {
	t.Helper()
	data, err := afero.ReadFile(fs, outputPath)
	require.NoError(t, err)
	return string(data)
}

func assertNoOutput(t *testing.T, fs afero.Fs) {
	t.Helper()
	_, err := fs.Stat(outputPath)
	assert.True(t, os.IsNotExist(err), "output file must not exist")
}

func TestRunCombinesMatchingFiles(t *testing.T) {
	fs := projectFS(t)
	cfg := baseConfig()
	cfg.Regex = `\.txt$`

	a, stdout, _ := newTestApp(cfg, fs, nil)
	report, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeCombined, report.Outcome)
	assert.Equal(t, 3, report.Candidates)
	assert.Equal(t, 2, report.Matched)
	assert.Equal(t, []string{"/project/a.txt", "/project/sub/c.txt"}, report.Selected)
	assert.Equal(t, 2, report.Summary.Files)

	assert.Equal(t,
		"\n// ===== FILE: /project/a.txt =====\n\nalpha\n"+
			"\n// ===== FILE: /project/sub/c.txt =====\n\ncharlie\n",
		readOutput(t, fs))
	assert.Equal(t, "Successfully combined 2 files into /out/combined.txt\n", stdout.String())
}

func TestRunInvalidPattern(t *testing.T) {
	fs := projectFS(t)
	require.NoError(t, afero.WriteFile(fs, outputPath, []byte("previous"), 0644))

	cfg := baseConfig()
	cfg.Regex = "[unclosed"

	a, stdout, _ := newTestApp(cfg, fs, nil)
	_, err := a.Run(context.Background())

	var patternErr *filter.PatternError
	require.True(t, errors.As(err, &patternErr))
	var syntaxErr *syntax.Error
	assert.True(t, errors.As(err, &syntaxErr))

	assert.Equal(t, "previous", readOutput(t, fs))
	assert.Empty(t, stdout.String())
}

func TestRunEarlyExits(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		mutate  func(*config.Config)
		chooser *fakeChooser
		outcome Outcome
		notice  string
	}{
		{
			name:    "only a missing root",
			files:   map[string]string{},
			mutate:  func(c *config.Config) { c.Dirs = []string{"/nothing"}; c.Regex = "." },
			outcome: OutcomeNoFiles,
			notice:  "No files found in the specified paths.",
		},
		{
			name:    "nothing matches",
			files:   map[string]string{"/project/a.txt": "a"},
			mutate:  func(c *config.Config) { c.Regex = `\.rs$` },
			outcome: OutcomeNoMatches,
			notice:  "No files matched the specified pattern.",
		},
		{
			name:    "user selects nothing",
			files:   map[string]string{"/project/a.txt": "a", "/project/b.txt": "b", "/project/c.txt": "c"},
			mutate:  func(c *config.Config) { c.Interactive = true },
			chooser: &fakeChooser{indices: []int{}},
			outcome: OutcomeNoSelection,
			notice:  "No files selected for combining.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := setupTestFS(t, tt.files)
			cfg := baseConfig()
			tt.mutate(&cfg)

			var chooser selector.Chooser
			if tt.chooser != nil {
				chooser = tt.chooser
			}

			a, stdout, _ := newTestApp(cfg, fs, chooser)
			report, err := a.Run(context.Background())
			require.NoError(t, err)

			assert.Equal(t, tt.outcome, report.Outcome)
			assert.Contains(t, stdout.String(), tt.notice)
			assertNoOutput(t, fs)
		})
	}
}

func TestRunEmptyRoot(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/empty", 0755))

	cfg := baseConfig()
	cfg.Dirs = []string{"/empty"}
	cfg.Regex = "."

	a, stdout, _ := newTestApp(cfg, fs, nil)
	report, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeNoFiles, report.Outcome)
	assert.Empty(t, report.Warnings)
	assert.Equal(t, "No files found in the specified paths.\n", stdout.String())
	assertNoOutput(t, fs)
}

func TestRunMissingRootIsWarning(t *testing.T) {
	fs := projectFS(t)
	cfg := baseConfig()
	cfg.Dirs = []string{"/missing", "/project"}
	cfg.Regex = `a\.txt$`

	a, stdout, _ := newTestApp(cfg, fs, nil)
	report, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeCombined, report.Outcome)
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, "/missing", report.Warnings[0].Path)
	assert.True(t, strings.HasPrefix(stdout.String(), "Warning: Directory not found: /missing\n"))
	assert.Contains(t, stdout.String(), "Successfully combined 1 file into /out/combined.txt")
}

func TestRunInteractive(t *testing.T) {
	fs := projectFS(t)
	cfg := baseConfig()
	cfg.Interactive = true
	chooser := &fakeChooser{indices: []int{0, 2}}

	a, _, _ := newTestApp(cfg, fs, chooser)
	report, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"a.txt", "b.md", filepath.Join("sub", "c.txt")}, chooser.shown)
	assert.Equal(t, []string{"/project/a.txt", "/project/sub/c.txt"}, report.Selected)
	assert.Contains(t, readOutput(t, fs), "// ===== FILE: /project/sub/c.txt =====")
}

func TestRunInteractiveWithPattern(t *testing.T) {
	fs := projectFS(t)
	cfg := baseConfig()
	cfg.Interactive = true
	cfg.Regex = `\.md$`
	chooser := &fakeChooser{}

	a, _, _ := newTestApp(cfg, fs, chooser)
	report, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"b.md"}, chooser.shown)
	assert.Equal(t, []string{"/project/b.md"}, report.Selected)
}

func TestRunCancelledSelection(t *testing.T) {
	fs := projectFS(t)
	cfg := baseConfig()
	cfg.Interactive = true

	a, _, log := newTestApp(cfg, fs, &fakeChooser{err: selector.ErrCancelled})
	_, err := a.Run(context.Background())

	assert.ErrorIs(t, err, selector.ErrCancelled)
	assert.Contains(t, log.logs, "INFO: Selection cancelled by user")
	assertNoOutput(t, fs)
}

func TestRunFileDeletedBeforeCombine(t *testing.T) {
	fs := projectFS(t)
	cfg := baseConfig()
	cfg.Interactive = true
	chooser := &fakeChooser{before: func() {
		_ = fs.Remove("/project/b.md")
	}}

	a, stdout, _ := newTestApp(cfg, fs, chooser)
	report, err := a.Run(context.Background())

	var readErr *combiner.ReadError
	require.True(t, errors.As(err, &readErr))
	assert.Equal(t, "/project/b.md", readErr.Path)
	assert.Equal(t, 1, report.Summary.Files)

	assert.Equal(t, "\n// ===== FILE: /project/a.txt =====\n\nalpha\n", readOutput(t, fs))
	assert.NotContains(t, stdout.String(), "Successfully")
}

func TestRunIsIdempotent(t *testing.T) {
	fs := projectFS(t)
	cfg := baseConfig()
	cfg.Regex = "."

	a, _, _ := newTestApp(cfg, fs, nil)
	_, err := a.Run(context.Background())
	require.NoError(t, err)
	first := readOutput(t, fs)

	_, err = a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, readOutput(t, fs))
}

func TestRunDryRun(t *testing.T) {
	fs := projectFS(t)
	cfg := baseConfig()
	cfg.Regex = `\.txt$`
	cfg.DryRun = true
	cfg.Format = string(config.PlanFormatJSON)

	a, stdout, _ := newTestApp(cfg, fs, nil)
	report, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomePlanned, report.Outcome)
	assertNoOutput(t, fs)

	var plan struct {
		Output string `json:"output"`
		Files  []struct {
			Path string `json:"path"`
			Size int64  `json:"size"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &plan))
	assert.Equal(t, outputPath, plan.Output)
	require.Len(t, plan.Files, 2)
	assert.Equal(t, "/project/a.txt", plan.Files[0].Path)
	assert.Equal(t, int64(5), plan.Files[0].Size)
	assert.Equal(t, "/project/sub/c.txt", plan.Files[1].Path)
}

func TestRunRequiresSelectionMode(t *testing.T) {
	fs := projectFS(t)
	a, _, _ := newTestApp(baseConfig(), fs, nil)

	_, err := a.Run(context.Background())
	assert.ErrorIs(t, err, config.ErrNoSelectionMode)
	assertNoOutput(t, fs)
}

func TestRunCancelledContext(t *testing.T) {
	cfg := baseConfig()
	cfg.Regex = "."
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a, _, _ := newTestApp(cfg, projectFS(t), nil)
	_, err := a.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProgressConfig(t *testing.T) {
	tests := []struct {
		name  string
		style string
		want  progress.Style
	}{
		{name: "default is bar", style: "", want: progress.StyleBar},
		{name: "bar", style: "bar", want: progress.StyleBar},
		{name: "simple", style: "simple", want: progress.StyleSimple},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			cfg.NoProgress = false
			cfg.ProgressStyle = tt.style
			a, _, _ := newTestApp(cfg, projectFS(t), nil)

			got := a.progressConfig()
			assert.Equal(t, tt.want, got.Style)
			assert.True(t, got.NoColor)
			assert.True(t, got.HideAfterComplete)
		})
	}
}

func TestRunWithProgressEnabled(t *testing.T) {
	cfg := baseConfig()
	cfg.Regex = `\.txt$`
	cfg.NoProgress = false
	cfg.ProgressStyle = string(config.ProgressStyleSimple)
	a, _, _ := newTestApp(cfg, projectFS(t), nil)

	report, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeCombined, report.Outcome)
	assert.Equal(t, 2, report.Summary.Files)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "combined", OutcomeCombined.String())
	assert.Equal(t, "no selection", OutcomeNoSelection.String())
	assert.Equal(t, "Outcome(42)", Outcome(42).String())
}

func TestUsage(t *testing.T) {
	var buf bytes.Buffer
	Usage(&buf, true)
	assert.Equal(t, "Error: You must specify either --regex or --interactive\n", buf.String())
}

func TestWatchSignals(t *testing.T) {
	codes := make(chan int, 1)
	exit = func(code int) { codes <- code }
	defer func() { exit = os.Exit }()

	a, _, _ := newTestApp(baseConfig(), afero.NewMemMapFs(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 2)
	done := make(chan struct{})
	finished := make(chan struct{})

	go func() {
		a.watchSignals(sigChan, cancel, done)
		close(finished)
	}()

	sigChan <- syscall.SIGINT
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not cancelled by the first signal")
	}

	sigChan <- syscall.SIGTERM
	select {
	case code := <-codes:
		assert.Equal(t, 1, code)
	case <-time.After(time.Second):
		t.Fatal("second signal did not exit")
	}

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("watcher did not return")
	}
}
