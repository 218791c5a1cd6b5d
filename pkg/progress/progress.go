package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/jkasimotto/file-combiner/pkg/logger"
	"golang.org/x/term"
)

type progress struct {
	config Config
	log    logger.Logger
	writer io.Writer

	// State
	status     Status
	startTime  time.Time
	lastRender time.Time
	message    string
	isActive   bool
	hasError   bool

	renderer renderer
	width    int

	mu sync.Mutex
}

// New creates a new progress visualization instance
func New(config Config, log logger.Logger) Progress {
	if config.RefreshRate == 0 {
		config.RefreshRate = 100 * time.Millisecond
	}
	if config.Output == nil {
		config.Output = os.Stderr
	}

	p := &progress{
		config: config,
		log:    log,
		writer: config.Output,
	}

	if p.config.Width == 0 {
		p.width = p.terminalWidth()
	} else {
		p.width = p.config.Width
	}

	p.renderer = p.createRenderer()

	p.log.WithFields(logger.Fields{
		"style":     p.config.Style,
		"width":     p.width,
		"showStats": p.config.ShowStats,
		"noColor":   p.config.NoColor,
		"refresh":   p.config.RefreshRate,
	}).Debug("Created new progress instance")

	return p
}

// NewAuto returns a Progress for config.Output, or a silent one when the
// output is not a terminal.
func NewAuto(config Config, log logger.Logger) Progress {
	if config.Output == nil {
		config.Output = os.Stderr
	}
	if !IsTerminal(config.Output) {
		log.Debug("Progress disabled, output is not a terminal")
		return Nop()
	}
	return New(config, log)
}

// IsTerminal reports whether w is a terminal
func IsTerminal(w io.Writer) bool {
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

func (p *progress) Start(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.log.WithFields(logger.Fields{
		"message": message,
	}).Debug("Starting progress")

	p.message = message
	p.startTime = time.Now()
	p.status = Status{}
	p.isActive = true
	p.hasError = false
	p.render()
}

func (p *progress) Update(status Status) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.log.WithFields(logger.Fields{
		"current": status.Current,
		"total":   status.Total,
		"item":    status.CurrentItem,
	}).Trace("Updating progress")

	p.status = status
	if !p.isActive {
		return
	}

	last := status.Total > 0 && status.Current >= status.Total
	if last || time.Since(p.lastRender) >= p.config.RefreshRate {
		p.render()
	}
}

func (p *progress) Complete(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.log.WithFields(logger.Fields{
		"message": message,
	}).Debug("Completing progress")

	if !p.isActive {
		return
	}

	p.message = message
	p.status.Current = p.status.Total
	p.render()

	if p.config.HideAfterComplete {
		p.clearLine()
	} else {
		fmt.Fprintln(p.writer)
	}
	p.isActive = false
}

func (p *progress) Error(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.log.WithFields(logger.Fields{
		"message": message,
	}).Debug("Error in progress")

	if !p.isActive {
		return
	}

	p.message = message
	p.hasError = true
	p.render()
	fmt.Fprintln(p.writer)
	p.isActive = false
}

func (p *progress) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.log.Debug("Stopping progress")

	if p.isActive {
		p.clearLine()
		p.isActive = false
	}
}

func (p *progress) render() {
	line := p.renderer.render(p.status, p.message, p.calculateStats(), p.hasError)
	p.clearLine()
	fmt.Fprint(p.writer, line)
	p.lastRender = time.Now()
}

func (p *progress) clearLine() {
	if IsTerminal(p.writer) {
		fmt.Fprint(p.writer, "\r\033[K")
	} else {
		fmt.Fprint(p.writer, "\r")
	}
}

func (p *progress) terminalWidth() int {
	if f, ok := p.writer.(interface{ Fd() uintptr }); ok && IsTerminal(p.writer) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil {
			return w
		}
	}
	return 80
}

func (p *progress) calculateStats() Statistics {
	now := time.Now()
	elapsed := now.Sub(p.startTime)

	stats := Statistics{
		StartTime:      p.startTime,
		ElapsedTime:    elapsed,
		BytesProcessed: p.status.BytesRead,
	}

	if p.status.Total > 0 {
		stats.ProgressPercentage = float64(p.status.Current) / float64(p.status.Total) * 100
	}

	if elapsed > 0 && p.status.Current > 0 {
		stats.ItemsPerSecond = float64(p.status.Current) / elapsed.Seconds()
		if remaining := p.status.Total - p.status.Current; remaining > 0 {
			stats.RemainingTime = time.Duration(float64(remaining) / stats.ItemsPerSecond * float64(time.Second))
		}
	}

	return stats
}

func (p *progress) createRenderer() renderer {
	switch p.config.Style {
	case StyleSimple:
		return &simpleRenderer{
			noColor:   p.config.NoColor,
			showStats: p.config.ShowStats,
		}
	default:
		return &barRenderer{
			width:     p.width,
			noColor:   p.config.NoColor,
			showStats: p.config.ShowStats,
		}
	}
}

type nop struct{}

// Nop returns a Progress that draws nothing
func Nop() Progress { return nop{} }

func (nop) Start(string)    {}
func (nop) Update(Status)   {}
func (nop) Complete(string) {}
func (nop) Error(string)    {}
func (nop) Stop()           {}
