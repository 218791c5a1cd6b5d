/*
Package selector decides which of the filtered files get combined.

Non-interactive runs use Passthrough, which returns its input unchanged.
Interactive runs show every file to the user through a Chooser, all of them
pre-checked, and keep the ones still checked on confirmation. Labels shown to
the user are relative to the working directory when possible; the paths
returned are always the original ones.
*/
package selector

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jkasimotto/file-combiner/pkg/logger"
	"github.com/samber/lo"
)

// ErrCancelled is returned when the user aborts the interactive prompt
var ErrCancelled = errors.New("selection cancelled")

// ErrNotTerminal is returned when interactive selection is asked for but the
// input is not a terminal
var ErrNotTerminal = errors.New("interactive selection requires a terminal on stdin")

// Selector picks the files to combine out of the candidates
type Selector interface {
	Select(ctx context.Context, files []string) ([]string, error)
}

// Chooser presents labels to a human and returns the indices that were
// chosen, in ascending order. Aborting returns ErrCancelled.
type Chooser interface {
	Choose(ctx context.Context, labels []string) ([]int, error)
}

// Passthrough selects every file
type Passthrough struct{}

func (Passthrough) Select(_ context.Context, files []string) ([]string, error) {
	return files, nil
}

// Interactive asks a Chooser which files to keep
type Interactive struct {
	chooser Chooser
	workDir string
	log     logger.Logger
}

// NewInteractive creates an interactive selector. Labels are made relative
// to workDir; an empty workDir shows paths unchanged.
func NewInteractive(chooser Chooser, workDir string, log logger.Logger) *Interactive {
	return &Interactive{
		chooser: chooser,
		workDir: workDir,
		log:     log,
	}
}

func (s *Interactive) Select(ctx context.Context, files []string) ([]string, error) {
	if len(files) == 0 {
		return []string{}, nil
	}

	labels := lo.Map(files, func(path string, _ int) string {
		return DisplayLabel(path, s.workDir)
	})

	s.log.WithFields(logger.Fields{
		"candidates": len(files),
		"workDir":    s.workDir,
	}).Debug("Presenting files for selection")

	indices, err := s.chooser.Choose(ctx, labels)
	if err != nil {
		return nil, fmt.Errorf("interactive selection failed: %w", err)
	}

	if err := checkIndices(indices, len(files)); err != nil {
		return nil, err
	}

	selected := lo.Map(indices, func(i int, _ int) string {
		return files[i]
	})

	s.log.WithFields(logger.Fields{
		"candidates": len(files),
		"selected":   len(selected),
	}).Info("Selection confirmed")

	return selected, nil
}

// checkIndices enforces the Chooser contract: in range and strictly ascending.
func checkIndices(indices []int, n int) error {
	prev := -1
	for _, i := range indices {
		if i < 0 || i >= n {
			return fmt.Errorf("chooser returned index %d out of range [0,%d)", i, n)
		}
		if i <= prev {
			return fmt.Errorf("chooser returned indices out of order: %d after %d", i, prev)
		}
		prev = i
	}
	return nil
}

// DisplayLabel renders path relative to workDir when path lies below it.
// Anything else, including relative paths, is returned unchanged.
func DisplayLabel(path, workDir string) string {
	if workDir == "" || !filepath.IsAbs(path) {
		return path
	}

	rel, err := filepath.Rel(workDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
