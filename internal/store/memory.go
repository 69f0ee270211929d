// Package store provides the row sources the trend engine can run
// against: a pgx-backed Postgres source and an in-memory source fed from
// a JSON dataset file (offline CLI runs and tests).
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pitchside/trendlens/internal/model"
	"github.com/pitchside/trendlens/internal/trend"
)

// Dataset is the JSON file shape the in-memory source loads.
type Dataset struct {
	Teams   []model.Team           `json:"teams"`
	Matches []model.Match          `json:"matches"`
	Stats   []model.TeamMatchStats `json:"stats"`
}

// LoadDataset reads a dataset from a JSON file.
func LoadDataset(path string) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("read dataset: %w", err)
	}
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return Dataset{}, fmt.Errorf("decode dataset %s: %w", path, err)
	}
	return ds, nil
}

// MemorySource serves candidate rows from an immutable in-memory dataset.
type MemorySource struct {
	rows []model.StatRow
}

// NewMemorySource joins the dataset's stat lines with their matches.
// Stat lines referencing an unknown match are dropped.
func NewMemorySource(ds Dataset) *MemorySource {
	matches := make(map[int]model.Match, len(ds.Matches))
	for _, m := range ds.Matches {
		matches[m.ID] = m
	}
	rows := make([]model.StatRow, 0, len(ds.Stats))
	for _, s := range ds.Stats {
		m, ok := matches[s.MatchID]
		if !ok {
			continue
		}
		rows = append(rows, model.StatRow{Match: m, Stats: s})
	}
	return &MemorySource{rows: rows}
}

// FetchCandidateRows returns the finished-match rows inside the scope.
func (s *MemorySource) FetchCandidateRows(ctx context.Context, scope trend.Scope) ([]model.StatRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []model.StatRow
	for _, row := range s.rows {
		if row.Match.Status != model.StatusFinished {
			continue
		}
		if !scope.Matches(row.Match, row.Stats) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}
