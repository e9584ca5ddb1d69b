package analysis

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const (
	ResultFile     = "result.json"
	TranscriptFile = "transcript.json"
)

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// persistResult writes the result record and the transcript into the output
// directory, silently overwriting previous runs with the same target.
func persistResult(outDir string, res *Result) error {
	if err := writeJSON(filepath.Join(outDir, TranscriptFile), res.Transcript); err != nil {
		return err
	}
	return writeJSON(filepath.Join(outDir, ResultFile), res)
}
