package output

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rgehrsitz/goalcalc/internal/analyzer"
	"github.com/rgehrsitz/goalcalc/internal/domain"
)

// Formatter renders analysis results. Implementations are pure: no side
// effects besides deterministic formatting.
type Formatter interface {
	FormatResult(result *domain.AnalysisResult) ([]byte, error)
	FormatBatch(batch *analyzer.BatchResult) ([]byte, error)
	// Name returns a short identifier for flags and logging.
	Name() string
}

// builtInFormatters stores the available formatters
var builtInFormatters = []Formatter{
	ConsoleFormatter{},
	CSVFormatter{},
	JSONFormatter{},
	YAMLFormatter{},
}

// aliasMap provides user-friendly synonyms for format names.
var aliasMap = map[string]string{
	"text":        "console",
	"table":       "console",
	"json-pretty": "json",
	"yml":         "yaml",
}

// GetFormatterByName fetches a registered formatter, or nil if none matches.
func GetFormatterByName(name string) Formatter {
	n := NormalizeFormatName(name)
	for _, f := range builtInFormatters {
		if f.Name() == n {
			return f
		}
	}
	return nil
}

// NormalizeFormatName lowers and resolves aliases.
func NormalizeFormatName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if mapped, ok := aliasMap[n]; ok {
		return mapped
	}
	return n
}

// AvailableFormatterNames returns the canonical formatter names.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(builtInFormatters))
	for _, f := range builtInFormatters {
		names = append(names, f.Name())
	}
	sort.Strings(names)
	return names
}

// FormatForPath picks a formatter from a file extension, defaulting to CSV
// so that batch output matches the batch input format.
func FormatForPath(path string) Formatter {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if f := GetFormatterByName(ext); f != nil && f.Name() != "console" {
		return f
	}
	return CSVFormatter{}
}

// WriteBatch formats a batch and writes it to filename
func WriteBatch(f Formatter, batch *analyzer.BatchResult, filename string) error {
	data, err := f.FormatBatch(batch)
	if err != nil {
		return fmt.Errorf("failed to format %s output: %w", f.Name(), err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}
