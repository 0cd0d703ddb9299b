package edit

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Status is the outcome the edit-application collaborator reports for a file.
type Status string

const (
	StatusApplied Status = "applied"
	StatusFailed  Status = "failed"
	StatusPending Status = "pending"
)

// Result is an externally supplied outcome for one edit. An empty Reason
// means no reason was given; a nil EstimatedLine means unknown.
type Result struct {
	FilePath      string `yaml:"file_path" json:"file_path"`
	Status        Status `yaml:"status" json:"status"`
	Reason        string `yaml:"reason,omitempty" json:"reason,omitempty"`
	EstimatedLine *int   `yaml:"estimated_line,omitempty" json:"estimated_line,omitempty"`
}

// NormalizePath strips a leading "./", converts backslashes to forward
// slashes and trims whitespace.
func NormalizePath(p string) string {
	p = strings.TrimSpace(p)
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimPrefix(p, "./")
	return strings.TrimSpace(p)
}

// ResultIndex matches closed blocks to results by normalized path. The k-th
// lookup for a path returns the k-th result recorded for it; lookups past the
// last result keep returning the last one.
type ResultIndex struct {
	byPath map[string][]Result
	used   map[string]int
}

// IndexResults builds a lookup index over results, preserving their order.
func IndexResults(results []Result) *ResultIndex {
	ix := &ResultIndex{
		byPath: make(map[string][]Result, len(results)),
		used:   make(map[string]int),
	}
	for _, r := range results {
		key := NormalizePath(r.FilePath)
		ix.byPath[key] = append(ix.byPath[key], r)
	}
	return ix
}

// Next returns the result for the next block targeting path.
func (ix *ResultIndex) Next(path string) (Result, bool) {
	if ix == nil {
		return Result{}, false
	}
	key := NormalizePath(path)
	rs := ix.byPath[key]
	if len(rs) == 0 {
		return Result{}, false
	}
	i := ix.used[key]
	ix.used[key] = i + 1
	if i >= len(rs) {
		i = len(rs) - 1
	}
	return rs[i], true
}

// LoadResults decodes a YAML (or JSON) list of results. Missing statuses are
// treated as pending.
func LoadResults(r io.Reader) ([]Result, error) {
	var results []Result
	if err := yaml.NewDecoder(r).Decode(&results); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode results: %w", err)
	}

	for i := range results {
		switch results[i].Status {
		case "":
			results[i].Status = StatusPending
		case StatusApplied, StatusFailed, StatusPending:
		default:
			return nil, fmt.Errorf("result %d (%s): unknown status %q", i, results[i].FilePath, results[i].Status)
		}
	}
	return results, nil
}
