package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jkasimotto/file-combiner/pkg/scanner"
	"github.com/jkasimotto/file-combiner/pkg/util"
)

// console prints the user-facing notices of a run. These are separate from
// the structured log.
type console struct {
	out    io.Writer
	yellow *color.Color
	green  *color.Color
	red    *color.Color
}

func newConsole(out io.Writer, noColor bool) *console {
	c := &console{
		out:    out,
		yellow: color.New(color.FgYellow),
		green:  color.New(color.FgGreen),
		red:    color.New(color.FgRed),
	}
	if noColor {
		c.yellow.DisableColor()
		c.green.DisableColor()
		c.red.DisableColor()
	}
	return c
}

func (c *console) notice(msg string) {
	fmt.Fprintln(c.out, c.yellow.Sprint(msg))
}

// warnRoot reports a skipped search root, e.g. "Warning: Directory not found: ./x"
func (c *console) warnRoot(err scanner.RootError) {
	reason := err.Reason
	if reason != "" {
		reason = strings.ToUpper(reason[:1]) + reason[1:]
	}
	fmt.Fprintf(c.out, "%s %s\n", c.yellow.Sprintf("Warning: %s:", reason), err.Path)
}

func (c *console) combined(n int, output string) {
	fmt.Fprintf(c.out, "%s %d %s %s\n",
		c.green.Sprint("Successfully combined"),
		n,
		c.green.Sprintf("%s into", util.Plural(n, "file")),
		output)
}

// Usage prints the guidance shown when no selection mode was given
func Usage(out io.Writer, noColor bool) {
	c := newConsole(out, noColor)
	fmt.Fprintln(out, c.red.Sprint("Error: You must specify either --regex or --interactive"))
}
