package trend

import (
	"fmt"
	"sort"
	"time"

	"github.com/pitchside/trendlens/internal/model"
)

// Sample-size tiers attached to the quality block.
const (
	TierLow    = "low"
	TierMedium = "medium"
	TierHigh   = "high"
)

// Meta echoes the query identity back to the caller.
type Meta struct {
	QueryID     string   `json:"queryId"`
	CacheKey    string   `json:"cacheKey"`
	Competition string   `json:"competition"`
	Seasons     []string `json:"seasons"`
	TeamID      *int     `json:"teamId,omitempty"`
	ElapsedMs   float64  `json:"elapsedMs"`
}

// MatchSummary is one entry of the echoed match list.
type MatchSummary struct {
	ID          int       `json:"id"`
	Competition string    `json:"competition"`
	Season      string    `json:"season"`
	MatchDate   time.Time `json:"matchDate"`
	HomeTeamID  int       `json:"homeTeamId"`
	AwayTeamID  int       `json:"awayTeamId"`
	HomeGoals   *int      `json:"homeGoals,omitempty"`
	AwayGoals   *int      `json:"awayGoals,omitempty"`
}

// Quality describes how trustworthy the aggregates are.
type Quality struct {
	SampleSizeTier string   `json:"sampleSizeTier"`
	Warnings       []string `json:"warnings"`
}

// TrendResult is the full response document for one query.
type TrendResult struct {
	Meta    Meta               `json:"meta"`
	KPIs    KPIs               `json:"kpis"`
	Rates   map[string]float64 `json:"rates"`
	Matches []MatchSummary     `json:"matches"`
	Quality Quality            `json:"quality"`
}

// rowFindings collects the per-row observations made while evaluating
// predicates, fed into the quality warnings.
type rowFindings struct {
	missingByField map[string]int // rows excluded because a filtered field was absent
	flagCounts     map[string]int // ingestion-time quality flags on matched rows
	sameTeamIDs    []int          // matched matches with homeTeamId == awayTeamId
}

func newRowFindings() *rowFindings {
	return &rowFindings{
		missingByField: make(map[string]int),
		flagCounts:     make(map[string]int),
	}
}

// assemble packages aggregates, the capped match list, and the quality
// block. The cap bounds only the echoed list; n and every KPI/rate were
// already computed over the full matching set.
func assemble(q TrendQuery, matched []model.StatRow, agg aggregation, findings *rowFindings, cfg Config) *TrendResult {
	res := &TrendResult{
		KPIs:  agg.kpis,
		Rates: agg.rates,
	}

	// Match list: one entry per distinct match, matchDate ascending with
	// matchId as the tie-break, capped.
	seen := make(map[int]bool, len(matched))
	list := make([]MatchSummary, 0, len(matched))
	for _, row := range matched {
		m := row.Match
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		list = append(list, MatchSummary{
			ID:          m.ID,
			Competition: m.Competition,
			Season:      m.Season,
			MatchDate:   m.MatchDate,
			HomeTeamID:  m.HomeTeamID,
			AwayTeamID:  m.AwayTeamID,
			HomeGoals:   m.HomeGoals,
			AwayGoals:   m.AwayGoals,
		})
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].MatchDate.Equal(list[j].MatchDate) {
			return list[i].MatchDate.Before(list[j].MatchDate)
		}
		return list[i].ID < list[j].ID
	})
	if cfg.MatchListCap > 0 && len(list) > cfg.MatchListCap {
		list = list[:cfg.MatchListCap]
	}
	res.Matches = list

	res.Quality = Quality{
		SampleSizeTier: tierFor(agg.kpis.N, cfg),
		Warnings:       buildWarnings(q, agg, findings),
	}
	return res
}

func tierFor(n int, cfg Config) string {
	switch {
	case n >= cfg.TierHigh:
		return TierHigh
	case n >= cfg.TierMedium:
		return TierMedium
	default:
		return TierLow
	}
}

func buildWarnings(q TrendQuery, agg aggregation, findings *rowFindings) []string {
	warnings := []string{}

	if agg.kpis.N == 0 {
		warnings = append(warnings, "empty-result")
	}
	for _, field := range sortedKeys(findings.missingByField) {
		warnings = append(warnings, "missing-field: "+field)
	}
	if agg.resultMismatches > 0 {
		warnings = append(warnings, fmt.Sprintf("result-mismatch: %d rows", agg.resultMismatches))
	}
	for _, flag := range sortedKeys(findings.flagCounts) {
		warnings = append(warnings, fmt.Sprintf("data-flag: %s (%d rows)", flag, findings.flagCounts[flag]))
	}
	sort.Ints(findings.sameTeamIDs)
	for i, id := range findings.sameTeamIDs {
		if i > 0 && id == findings.sameTeamIDs[i-1] {
			continue
		}
		warnings = append(warnings, fmt.Sprintf("same-team-match: %d", id))
	}
	for _, name := range q.IgnoredOutcomes {
		warnings = append(warnings, "unknown-outcome: "+name)
	}
	return warnings
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
