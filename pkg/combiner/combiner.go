/*
Package combiner concatenates files into a single text artifact.

Each file becomes one block:

	<blank line>
	// ===== FILE: <path> =====
	<blank line>
	<content>
	<newline>

Blocks are written in the order given, one file in memory at a time. A failure
aborts the run but keeps whatever was already written.
*/
package combiner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/jkasimotto/file-combiner/pkg/logger"
	"github.com/jkasimotto/file-combiner/pkg/progress"
	"github.com/spf13/afero"
	"golang.org/x/time/rate"
)

const (
	markerPrefix = "// ===== FILE: "
	markerSuffix = " ====="
)

// Config tunes a Combiner
type Config struct {
	// RateLimit caps files read per second (0 = unlimited)
	RateLimit int

	// Progress receives per-file updates. Nil draws nothing.
	Progress progress.Progress
}

// Summary describes a finished combine
type Summary struct {
	Files int
	Bytes int64
}

// Combiner writes selected files into one output file
type Combiner interface {
	Combine(ctx context.Context, files []string, outputPath string) (Summary, error)
}

type combiner struct {
	config   Config
	fs       afero.Fs
	log      logger.Logger
	limiter  *rate.Limiter
	progress progress.Progress
}

// NewCombiner creates a Combiner reading and writing through fs
func NewCombiner(config Config, fs afero.Fs, log logger.Logger) Combiner {
	c := &combiner{
		config:   config,
		fs:       fs,
		log:      log,
		progress: config.Progress,
	}

	if config.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
	}
	if c.progress == nil {
		c.progress = progress.Nop()
	}

	return c
}

// FormatBlock renders one file's block exactly as it appears in the output
func FormatBlock(path string, content []byte) []byte {
	header := "\n" + markerPrefix + path + markerSuffix + "\n\n"
	block := make([]byte, 0, len(header)+len(content)+1)
	block = append(block, header...)
	block = append(block, content...)
	return append(block, '\n')
}

func (c *combiner) Combine(ctx context.Context, files []string, outputPath string) (summary Summary, err error) {
	c.log.WithFields(logger.Fields{
		"files":     len(files),
		"output":    outputPath,
		"rateLimit": c.config.RateLimit,
	}).Info("Starting combine")

	out, err := c.fs.Create(outputPath)
	if err != nil {
		return summary, &CreateError{Path: outputPath, Err: err}
	}

	w := bufio.NewWriter(out)
	defer func() {
		// earlier blocks must reach the disk even on failure
		if ferr := w.Flush(); ferr != nil && err == nil {
			err = &WriteError{Path: outputPath, Err: ferr}
		}
		if cerr := out.Close(); cerr != nil && err == nil {
			err = &WriteError{Path: outputPath, Err: cerr}
		}
		if err != nil {
			c.progress.Error(fmt.Sprintf("Failed after %d of %d files", summary.Files, len(files)))
		}
		c.progress.Stop()
	}()

	c.progress.Start("Combining")

	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return summary, err
			}
		}

		content, err := c.readText(path)
		if err != nil {
			c.log.WithError(err).WithFields(logger.Fields{
				"path":    path,
				"written": summary.Files,
			}).Error("Failed to read file")
			return summary, err
		}

		if _, err := w.Write(FormatBlock(path, content)); err != nil {
			return summary, &WriteError{Path: outputPath, Err: err}
		}

		summary.Files++
		summary.Bytes += int64(len(content))

		c.log.WithFields(logger.Fields{
			"path":  path,
			"bytes": len(content),
		}).Debug("File appended")

		c.progress.Update(progress.Status{
			Current:     int64(i + 1),
			Total:       int64(len(files)),
			CurrentItem: path,
			BytesRead:   summary.Bytes,
		})
	}

	c.progress.Complete(fmt.Sprintf("Combined %d files", summary.Files))

	c.log.WithFields(logger.Fields{
		"files":  summary.Files,
		"bytes":  summary.Bytes,
		"output": outputPath,
	}).Info("Combine completed")

	return summary, nil
}

// readText loads a whole file and rejects content that is not UTF-8
func (c *combiner) readText(path string) ([]byte, error) {
	content, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	if !utf8.Valid(content) {
		return nil, &ReadError{Path: path, Err: errInvalidUTF8}
	}
	return content, nil
}

// IsReadError reports whether err came from reading an input file
func IsReadError(err error) bool {
	var re *ReadError
	return errors.As(err, &re)
}
