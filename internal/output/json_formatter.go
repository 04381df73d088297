package output

import (
	"encoding/json"

	"github.com/rgehrsitz/goalcalc/internal/analyzer"
	"github.com/rgehrsitz/goalcalc/internal/domain"
	"gopkg.in/yaml.v3"
)

// JSONFormatter serializes results as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) FormatResult(result *domain.AnalysisResult) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}

func (j JSONFormatter) FormatBatch(batch *analyzer.BatchResult) ([]byte, error) {
	return json.MarshalIndent(batch, "", "  ")
}

// YAMLFormatter serializes results as YAML.
type YAMLFormatter struct{}

func (y YAMLFormatter) Name() string { return "yaml" }

func (y YAMLFormatter) FormatResult(result *domain.AnalysisResult) ([]byte, error) {
	return yaml.Marshal(result)
}

func (y YAMLFormatter) FormatBatch(batch *analyzer.BatchResult) ([]byte, error) {
	return yaml.Marshal(batch)
}
