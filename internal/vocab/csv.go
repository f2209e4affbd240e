// Package vocab loads and validates vocabulary datasets: CSV files of
// (concept, definition) pairs and the dataset manifest that indexes
// them.
package vocab

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Pair is one vocabulary entry.
type Pair struct {
	Concept    string `json:"concept"`
	Definition string `json:"definition"`
}

// Dataset is a loaded vocabulary file plus any validation warnings
// collected while reading it.
type Dataset struct {
	Pairs    []Pair
	Warnings []string
}

// Length thresholds that trigger validation warnings.
const (
	maxConceptLen    = 100
	maxDefinitionLen = 300
	minUsefulPairs   = 3
)

// headerWords are cell values that mark the first row as a header.
var headerWords = map[string]bool{
	"concept": true, "definition": true, "term": true, "meaning": true,
	"word": true, "description": true, "vocabulary": true,
	"explanation": true, "phrase": true, "translation": true,
}

// LoadCSV reads a vocabulary CSV file. The delimiter (comma, semicolon,
// or tab) is detected from the first line, a header row is skipped if
// present, and malformed or duplicate rows are recorded as warnings
// rather than errors.
func LoadCSV(path string) (*Dataset, error) {
	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		return nil, fmt.Errorf("%s is not a CSV file", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	return parseCSV(f)
}

// parseCSV parses CSV content from a reader. Split out from LoadCSV so
// tests can feed strings directly.
func parseCSV(r io.Reader) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.Comma = detectDelimiter(string(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	ds := &Dataset{}
	seen := make(map[string]bool)
	rowNum := 0

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV: %w", err)
		}
		rowNum++

		if rowNum == 1 && isHeaderRow(row) {
			continue
		}

		if len(row) < 2 {
			ds.warnf("row %d has insufficient columns (need at least 2)", rowNum)
			continue
		}

		concept := strings.TrimSpace(row[0])
		definition := strings.TrimSpace(row[1])
		if concept == "" || definition == "" {
			ds.warnf("row %d has empty concept or definition", rowNum)
			continue
		}

		key := strings.ToLower(concept)
		if seen[key] {
			ds.warnf("duplicate concept %q at row %d", concept, rowNum)
			continue
		}
		seen[key] = true

		ds.Pairs = append(ds.Pairs, Pair{Concept: concept, Definition: definition})
	}

	return ds, nil
}

// Validate checks the loaded data, appending warnings for marginal
// datasets. An empty dataset is an error.
func (d *Dataset) Validate() error {
	if len(d.Pairs) == 0 {
		return fmt.Errorf("no valid vocabulary pairs found")
	}

	if len(d.Pairs) < minUsefulPairs {
		d.warnf("very few vocabulary pairs found; sessions work best with %d+", minUsefulPairs)
	}

	for i, p := range d.Pairs {
		if len(p.Concept) > maxConceptLen {
			d.warnf("concept at position %d is very long (%d chars)", i+1, len(p.Concept))
		}
		if len(p.Definition) > maxDefinitionLen {
			d.warnf("definition at position %d is very long (%d chars)", i+1, len(p.Definition))
		}
	}

	return nil
}

// Stats summarizes a loaded dataset.
type Stats struct {
	TotalPairs          int     `json:"total_pairs"`
	AvgConceptLength    float64 `json:"avg_concept_length"`
	AvgDefinitionLength float64 `json:"avg_definition_length"`
	MaxConceptLength    int     `json:"max_concept_length"`
	MaxDefinitionLength int     `json:"max_definition_length"`
}

// Stats computes summary statistics for the dataset.
func (d *Dataset) Stats() Stats {
	s := Stats{TotalPairs: len(d.Pairs)}
	if len(d.Pairs) == 0 {
		return s
	}

	conceptSum, definitionSum := 0, 0
	for _, p := range d.Pairs {
		conceptSum += len(p.Concept)
		definitionSum += len(p.Definition)
		if len(p.Concept) > s.MaxConceptLength {
			s.MaxConceptLength = len(p.Concept)
		}
		if len(p.Definition) > s.MaxDefinitionLength {
			s.MaxDefinitionLength = len(p.Definition)
		}
	}
	s.AvgConceptLength = float64(conceptSum) / float64(len(d.Pairs))
	s.AvgDefinitionLength = float64(definitionSum) / float64(len(d.Pairs))

	return s
}

// exportEnvelope is the JSON layout written by ExportJSON.
type exportEnvelope struct {
	Metadata struct {
		TotalPairs    int    `json:"total_pairs"`
		FormatVersion string `json:"format_version"`
	} `json:"metadata"`
	VocabularyPairs []Pair `json:"vocabulary_pairs"`
}

// ExportJSON writes the dataset to path as JSON with a metadata block.
func (d *Dataset) ExportJSON(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var env exportEnvelope
	env.Metadata.TotalPairs = len(d.Pairs)
	env.Metadata.FormatVersion = "1.0"
	env.VocabularyPairs = d.Pairs

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, append(data, '\n'), 0644)
}

func (d *Dataset) warnf(format string, args ...any) {
	d.Warnings = append(d.Warnings, fmt.Sprintf(format, args...))
}

// detectDelimiter picks the delimiter with the most occurrences in the
// first line. Comma wins ties.
func detectDelimiter(data string) rune {
	line := data
	if idx := strings.IndexByte(data, '\n'); idx >= 0 {
		line = data[:idx]
	}

	best, bestCount := ',', strings.Count(line, ",")
	for _, cand := range []rune{';', '\t'} {
		if c := strings.Count(line, string(cand)); c > bestCount {
			best, bestCount = cand, c
		}
	}
	return best
}

// isHeaderRow reports whether the row looks like a column header.
func isHeaderRow(row []string) bool {
	if len(row) < 2 {
		return false
	}

	first := strings.ToLower(strings.TrimSpace(row[0]))
	second := strings.ToLower(strings.TrimSpace(row[1]))

	return headerWords[first] || headerWords[second] ||
		strings.Contains(first, "concept") || strings.Contains(second, "definition")
}
