/*
Package output renders a combine plan for --dry-run in list, tree, JSON or
YAML form. It supports colored output and statistics inclusion.

Basic usage:

	formatter := output.NewFormatter(output.Config{
		Format:     output.FormatTree,
		WithStats:  true,
		WithColors: true,
	}, log)

	result, err := formatter.Format(plan)
*/
package output

import (
	"fmt"

	"github.com/jkasimotto/file-combiner/pkg/logger"
)

// Format represents the output format type
type Format string

const (
	FormatList Format = "list"
	FormatTree Format = "tree"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Config holds formatter configuration
type Config struct {
	Format     Format
	WithStats  bool
	WithColors bool
}

// PlanFile is one file that would be combined
type PlanFile struct {
	Path string `json:"path" yaml:"path"`
	Size int64  `json:"size" yaml:"size"`
}

// Plan lists the files a run would combine, in output order
type Plan struct {
	Files  []PlanFile
	Output string
}

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(plan Plan) (string, error)
}

type formatter struct {
	config Config
	log    logger.Logger
}

// NewFormatter creates a new formatter instance
func NewFormatter(config Config, log logger.Logger) Formatter {
	return &formatter{
		config: config,
		log:    log,
	}
}

// Format renders the plan according to the configured format
func (f *formatter) Format(plan Plan) (string, error) {
	f.log.WithFields(logger.Fields{
		"format":     f.config.Format,
		"files":      len(plan.Files),
		"withStats":  f.config.WithStats,
		"withColors": f.config.WithColors,
	}).Debug("Starting format operation")

	switch f.config.Format {
	case FormatList, "":
		return f.formatList(plan)
	case FormatTree:
		return f.formatTree(plan)
	case FormatJSON:
		return f.formatJSON(plan)
	case FormatYAML:
		return f.formatYAML(plan)
	default:
		err := fmt.Errorf("unsupported format: %s", f.config.Format)
		f.log.Error(err.Error())
		return "", err
	}
}
