/*
Package scanner enumerates the regular files reachable from a set of root
directories.

Roots are processed in the order given and every root is walked depth-first
with directory entries in lexical order, so the candidate list is stable for
a given tree. Roots that do not exist, or are not directories, are skipped
and reported as warnings. Errors on individual entries below a root are
logged and skipped.

Basic usage:

	s := scanner.NewScanner(scanner.Config{}, afero.NewOsFs(), log)
	result, err := s.Enumerate(ctx, []string{"./src", "./docs"})
*/
package scanner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jkasimotto/file-combiner/pkg/logger"
	"github.com/spf13/afero"
)

// maxLinkHops bounds symlink chains resolved without OS support.
const maxLinkHops = 40

// Scanner defines the interface for file enumeration
type Scanner interface {
	// Enumerate returns every regular file under roots. Only context
	// cancellation is returned as an error.
	Enumerate(ctx context.Context, roots []string) (Result, error)
}

type scanner struct {
	config Config
	fs     afero.Fs
	log    logger.Logger
}

// NewScanner creates a scanner reading from fs
func NewScanner(config Config, fs afero.Fs, log logger.Logger) Scanner {
	return &scanner{
		config: config,
		fs:     fs,
		log:    log,
	}
}

// walkState is the per-root bookkeeping of a walk
type walkState struct {
	// ancestors holds the canonical paths of the directories currently being
	// walked; a followed link pointing at one of them is a cycle.
	ancestors map[string]bool
	result    *Result
}

func (s *scanner) Enumerate(ctx context.Context, roots []string) (Result, error) {
	result := Result{
		Files: []string{},
		Stats: ScanStats{StartTime: time.Now()},
	}

	s.log.WithFields(logger.Fields{
		"roots":          roots,
		"followSymlinks": s.config.FollowSymlinks,
	}).Info("Starting enumeration")

	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		info, err := s.fs.Stat(root)
		if err != nil {
			reason := reasonUnreadable
			if os.IsNotExist(err) {
				reason = reasonNotFound
			}
			s.skipRoot(&result, &RootError{Path: root, Reason: reason, Err: err})
			continue
		}
		if !info.IsDir() {
			s.skipRoot(&result, &RootError{Path: root, Reason: reasonNotDirectory})
			continue
		}

		before := len(result.Files)
		state := &walkState{
			ancestors: make(map[string]bool),
			result:    &result,
		}
		if err := s.walkDir(ctx, root, state); err != nil {
			return result, err
		}

		s.log.WithFields(logger.Fields{
			"root":  root,
			"files": len(result.Files) - before,
		}).Debug("Root enumerated")
	}

	result.Stats.EndTime = time.Now()
	result.Stats.Duration = result.Stats.EndTime.Sub(result.Stats.StartTime)

	s.log.WithFields(logger.Fields{
		"files":          result.Stats.TotalFiles,
		"dirs":           result.Stats.TotalDirs,
		"size":           result.Stats.TotalSize,
		"skippedEntries": result.Stats.SkippedEntries,
		"skippedRoots":   result.Stats.SkippedRoots,
		"duration":       result.Stats.Duration,
	}).Info("Enumeration completed")

	return result, nil
}

func (s *scanner) skipRoot(result *Result, rootErr *RootError) {
	s.log.WithFields(logger.Fields{
		"path":   rootErr.Path,
		"reason": rootErr.Reason,
	}).Warn("Skipping search root")

	result.Warnings = append(result.Warnings, *rootErr)
	result.Stats.SkippedRoots++
}

// walkDir collects the files below dir. Only cancellation stops it.
func (s *scanner) walkDir(ctx context.Context, dir string, state *walkState) error {
	var key string
	if s.config.FollowSymlinks {
		key = s.canonical(dir)
		state.ancestors[key] = true
		defer delete(state.ancestors, key)
	}

	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		s.log.WithFields(logger.Fields{
			"error": err,
			"path":  dir,
		}).Warn("Failed to read directory")
		state.result.Stats.SkippedEntries++
		return nil
	}
	state.result.Stats.TotalDirs++

	s.log.WithFields(logger.Fields{
		"path":    dir,
		"entries": len(entries),
	}).Trace("Reading directory")

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		path := joinPath(dir, entry.Name())
		mode := entry.Mode()

		switch {
		case mode.IsRegular():
			s.addFile(state.result, path, entry.Size())

		case mode.IsDir():
			if err := s.walkDir(ctx, path, state); err != nil {
				return err
			}

		case mode&os.ModeSymlink != 0:
			if !s.config.FollowSymlinks {
				s.log.WithFields(logger.Fields{
					"path": path,
				}).Trace("Not following symlink")
				continue
			}
			if err := s.followLink(ctx, path, state); err != nil {
				return err
			}

		default:
			s.log.WithFields(logger.Fields{
				"path": path,
				"mode": mode.String(),
			}).Debug("Skipping special file")
		}
	}

	return nil
}

func (s *scanner) followLink(ctx context.Context, path string, state *walkState) error {
	info, err := s.fs.Stat(path)
	if err != nil {
		s.log.WithFields(logger.Fields{
			"error": err,
			"path":  path,
		}).Warn("Failed to resolve symlink")
		state.result.Stats.SkippedEntries++
		return nil
	}

	switch {
	case info.Mode().IsRegular():
		s.addFile(state.result, path, info.Size())
	case info.IsDir():
		if state.ancestors[s.canonical(path)] {
			s.log.WithFields(logger.Fields{
				"path": path,
			}).Warn("Symlink cycle detected, not descending")
			state.result.Stats.SymlinkCycles++
			return nil
		}
		return s.walkDir(ctx, path, state)
	}

	return nil
}

func (s *scanner) addFile(result *Result, path string, size int64) {
	result.Files = append(result.Files, path)
	result.Stats.TotalFiles++
	result.Stats.TotalSize += size
}

// canonical returns an identity for a directory that is the same for every
// path reaching it through links.
func (s *scanner) canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}

	if _, ok := s.fs.(*afero.OsFs); ok {
		if real, err := filepath.EvalSymlinks(abs); err == nil {
			return real
		}
		return abs
	}

	reader, ok := s.fs.(afero.LinkReader)
	if !ok {
		return abs
	}
	for i := 0; i < maxLinkHops; i++ {
		target, err := reader.ReadlinkIfPossible(abs)
		if err != nil {
			break
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(abs), target)
		}
		abs = filepath.Clean(target)
	}
	return abs
}

// joinPath appends name to dir without cleaning, so paths keep the shape
// the root was given in ("./a.txt" stays "./a.txt").
func joinPath(dir, name string) string {
	if strings.HasSuffix(dir, string(filepath.Separator)) || strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + string(filepath.Separator) + name
}
