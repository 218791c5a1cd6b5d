package output

import (
	"encoding/json"
	"time"
)

// planOutput is the document written for json and yaml
type planOutput struct {
	Output     string     `json:"output" yaml:"output"`
	Files      []PlanFile `json:"files" yaml:"files"`
	Statistics *stats     `json:"statistics,omitempty" yaml:"statistics,omitempty"`
	Generated  time.Time  `json:"generated" yaml:"generated"`
}

func (f *formatter) document(plan Plan) *planOutput {
	files := plan.Files
	if files == nil {
		files = []PlanFile{}
	}

	doc := &planOutput{
		Output:    plan.Output,
		Files:     files,
		Generated: time.Now().UTC(),
	}

	if f.config.WithStats {
		f.log.Debug("Adding statistics to output")
		doc.Statistics = f.calculateStats(plan)
	}

	return doc
}

func (f *formatter) formatJSON(plan Plan) (string, error) {
	f.log.Debug("Formatting JSON output")

	bytes, err := json.MarshalIndent(f.document(plan), "", "  ")
	if err != nil {
		f.log.WithError(err).Error("Failed to marshal JSON")
		return "", err
	}

	return string(bytes) + "\n", nil
}
