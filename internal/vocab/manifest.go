package vocab

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Manifest indexes the CSV datasets available under a data directory.
// It is written as datasets.json next to the files it lists.
type Manifest struct {
	Datasets      []string `json:"datasets"`
	LastUpdated   string   `json:"last_updated"`
	TotalDatasets int      `json:"total_datasets"`
}

// ManifestFile is the name of the manifest inside the data directory.
const ManifestFile = "datasets.json"

// ScanDatasets lists the CSV files in dir, sorted by name. The
// manifest itself and non-CSV files are skipped.
func ScanDatasets(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	return names, nil
}

// WriteManifest scans dir for CSV datasets and writes datasets.json
// there. The returned manifest reflects what was written.
func WriteManifest(dir string, now time.Time) (*Manifest, error) {
	names, err := ScanDatasets(dir)
	if err != nil {
		return nil, err
	}

	m := &Manifest{
		Datasets:      names,
		LastUpdated:   now.UTC().Format(time.RFC3339),
		TotalDatasets: len(names),
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, ManifestFile)
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}

	return m, nil
}

// ReadManifest loads an existing datasets.json from dir.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	return &m, nil
}
