// Package model defines the domain entities the trend engine reads:
// teams, matches, and per-team-per-match stat lines. All three are owned
// by the external store and treated as immutable inputs for the duration
// of one query.
package model

import "time"

// MatchStatus is the lifecycle state of a match.
type MatchStatus string

const (
	StatusScheduled MatchStatus = "scheduled"
	StatusFinished  MatchStatus = "finished"
)

// Result is a match outcome from one team's perspective.
type Result string

const (
	ResultWin  Result = "W"
	ResultDraw Result = "D"
	ResultLoss Result = "L"
)

// Team identifies a club. Country and league are optional metadata.
type Team struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
	League  string `json:"league,omitempty"`
}

// Match is a single fixture. HomeGoals/AwayGoals are present iff the
// match is finished.
type Match struct {
	ID          int         `json:"id"`
	Competition string      `json:"competition"`
	Season      string      `json:"season"`
	MatchDate   time.Time   `json:"matchDate"`
	HomeTeamID  int         `json:"homeTeamId"`
	AwayTeamID  int         `json:"awayTeamId"`
	HomeGoals   *int        `json:"homeGoals,omitempty"`
	AwayGoals   *int        `json:"awayGoals,omitempty"`
	Status      MatchStatus `json:"status"`
}

// TeamMatchStats is one stat line per (match, team) pair. The optional
// numeric fields are nil when the provider did not report them; nil means
// "unknown", never zero.
//
// QualityFlags carries ingestion-time anomaly markers (for example a
// possession sum that does not add up across both teams). The engine
// surfaces these flags, it does not recompute them.
type TeamMatchStats struct {
	MatchID      int    `json:"matchId"`
	TeamID       int    `json:"teamId"`
	IsHome       bool   `json:"isHome"`
	GoalsFor     int    `json:"goalsFor"`
	GoalsAgainst int    `json:"goalsAgainst"`
	Result       Result `json:"result"`

	Possession    *float64 `json:"possession,omitempty"`
	Corners       *float64 `json:"corners,omitempty"`
	Shots         *float64 `json:"shots,omitempty"`
	ShotsOnTarget *float64 `json:"shotsOnTarget,omitempty"`
	XG            *float64 `json:"xg,omitempty"`
	XGA           *float64 `json:"xga,omitempty"`
	Fouls         *float64 `json:"fouls,omitempty"`
	Yellow        *float64 `json:"yellow,omitempty"`
	Red           *float64 `json:"red,omitempty"`

	QualityFlags []string `json:"qualityFlags,omitempty"`
}

// DerivedResult recomputes the W/D/L outcome from the goal columns.
// The stored Result column is treated as a cache of this function and is
// verified against it, never trusted blindly.
func (s TeamMatchStats) DerivedResult() Result {
	switch {
	case s.GoalsFor > s.GoalsAgainst:
		return ResultWin
	case s.GoalsFor < s.GoalsAgainst:
		return ResultLoss
	default:
		return ResultDraw
	}
}

// StatRow pairs a stat line with its match, the unit the row source
// returns and the engine aggregates over.
type StatRow struct {
	Match Match          `json:"match"`
	Stats TeamMatchStats `json:"stats"`
}
