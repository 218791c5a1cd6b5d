package output

import (
	"gopkg.in/yaml.v3"
)

func (f *formatter) formatYAML(plan Plan) (string, error) {
	f.log.Debug("Formatting YAML output")

	bytes, err := yaml.Marshal(f.document(plan))
	if err != nil {
		f.log.WithError(err).Error("Failed to marshal YAML")
		return "", err
	}

	return string(bytes), nil
}
