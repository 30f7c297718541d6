package batch

import (
	"encoding/json"
	"os"
)

// ManifestEntry represents one written frame in the output manifest.
type ManifestEntry struct {
	Frame    int        `json:"frame"`
	Image    string     `json:"image"`
	Rotation [3]float64 `json:"rotation"`
}

// WriteManifest writes the successful results as a JSON list to path.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, 0, len(results))
	for _, r := range results {
		if !r.Success {
			continue
		}
		entries = append(entries, ManifestEntry{
			Frame:    r.Index,
			Image:    r.File,
			Rotation: r.Rotation,
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
