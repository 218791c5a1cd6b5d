package output

import (
	"path/filepath"

	"github.com/jkasimotto/file-combiner/pkg/logger"
	"github.com/samber/lo"
)

// stats summarizes a plan
type stats struct {
	Files     int   `json:"totalFiles" yaml:"totalFiles"`
	Dirs      int   `json:"totalDirectories" yaml:"totalDirectories"`
	TotalSize int64 `json:"totalSize" yaml:"totalSize"`
}

func (f *formatter) calculateStats(plan Plan) *stats {
	f.log.Debug("Calculating plan statistics")

	dirs := lo.Uniq(lo.Map(plan.Files, func(file PlanFile, _ int) string {
		return filepath.Dir(file.Path)
	}))

	s := &stats{
		Files: len(plan.Files),
		Dirs:  len(dirs),
		TotalSize: lo.SumBy(plan.Files, func(file PlanFile) int64 {
			return file.Size
		}),
	}

	f.log.WithFields(logger.Fields{
		"files": s.Files,
		"dirs":  s.Dirs,
		"size":  s.TotalSize,
	}).Debug("Statistics calculated")

	return s
}
