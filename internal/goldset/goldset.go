// Package goldset loads labeled input/candidate pairs for offline
// precision/recall evaluation of the match engine. It is never on the
// request path; only matchd evaluate touches it. Grounded on
// original_source/src/utils/gold_set.rs's CSV/JSON loaders.
package goldset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Record is one labeled pair from a gold set: whether candidate_id is
// considered a true match for input_id.
type Record struct {
	InputID     string
	CandidateID string
	IsMatch     bool
}

// jsonRecord mirrors the original's JSON field names (input_id,
// candidate_id, label) so existing fixture files load unchanged.
type jsonRecord struct {
	InputID     string `json:"input_id"`
	CandidateID string `json:"candidate_id"`
	Label       int    `json:"label"`
}

// LoadCSV reads a gold set with header row "input_id,candidate_id,label".
// Rows with fewer than 3 fields are skipped, matching the original's
// tolerant parsing.
func LoadCSV(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("goldset: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var out []Record
	first := true
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("goldset: read %s: %w", path, err)
		}
		if first {
			first = false
			continue
		}
		if len(row) < 3 {
			continue
		}
		label, _ := strconv.Atoi(strings.TrimSpace(row[2]))
		out = append(out, Record{
			InputID:     row[0],
			CandidateID: row[1],
			IsMatch:     label == 1,
		})
	}
	return out, nil
}

// LoadJSON reads a gold set as a JSON array of {input_id, candidate_id,
// label} objects.
func LoadJSON(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("goldset: open %s: %w", path, err)
	}

	var rows []jsonRecord
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("goldset: parse %s: %w", path, err)
	}

	out := make([]Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, Record{
			InputID:     r.InputID,
			CandidateID: r.CandidateID,
			IsMatch:     r.Label == 1,
		})
	}
	return out, nil
}

// Load picks LoadCSV or LoadJSON by file extension, matching the
// original's load_gold_set dispatch.
func Load(path string) ([]Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(path)
	case ".json":
		return LoadJSON(path)
	default:
		return nil, fmt.Errorf("goldset: unsupported file format %q", path)
	}
}
