package output

import (
	"fmt"
	"strings"

	"github.com/jkasimotto/file-combiner/pkg/util"
)

// formatList prints one path per line, in combine order
func (f *formatter) formatList(plan Plan) (string, error) {
	f.log.Debug("Formatting list output")

	var builder strings.Builder
	for _, file := range plan.Files {
		builder.WriteString(file.Path)
		builder.WriteString("\n")
	}

	if f.config.WithStats {
		f.writeStats(&builder, plan)
	}

	return builder.String(), nil
}

func (f *formatter) writeStats(builder *strings.Builder, plan Plan) {
	f.log.Debug("Adding statistics to output")
	s := f.calculateStats(plan)
	builder.WriteString("\nStatistics:\n")
	builder.WriteString(fmt.Sprintf("  Total Files: %d\n", s.Files))
	builder.WriteString(fmt.Sprintf("  Directories: %d\n", s.Dirs))
	builder.WriteString(fmt.Sprintf("  Total Size: %s\n", util.FormatSize(s.TotalSize)))
	if plan.Output != "" {
		builder.WriteString(fmt.Sprintf("  Output: %s\n", plan.Output))
	}
}
