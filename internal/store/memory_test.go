package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/trendlens/internal/model"
	"github.com/pitchside/trendlens/internal/trend"
)

func ip(v int) *int { return &v }

func testDataset() Dataset {
	date := func(day int) time.Time {
		return time.Date(2024, 2, day, 15, 0, 0, 0, time.UTC)
	}
	return Dataset{
		Teams: []model.Team{
			{ID: 7, Name: "Arsenal", Country: "England"},
			{ID: 9, Name: "Chelsea", Country: "England"},
		},
		Matches: []model.Match{
			{ID: 1, Competition: "EPL", Season: "2023-2024", MatchDate: date(1),
				HomeTeamID: 7, AwayTeamID: 9, HomeGoals: ip(2), AwayGoals: ip(1),
				Status: model.StatusFinished},
			{ID: 2, Competition: "EPL", Season: "2022-2023", MatchDate: date(2),
				HomeTeamID: 9, AwayTeamID: 7, HomeGoals: ip(0), AwayGoals: ip(0),
				Status: model.StatusFinished},
			{ID: 3, Competition: "La Liga", Season: "2023-2024", MatchDate: date(3),
				HomeTeamID: 7, AwayTeamID: 9, HomeGoals: ip(1), AwayGoals: ip(3),
				Status: model.StatusFinished},
			{ID: 4, Competition: "EPL", Season: "2023-2024", MatchDate: date(4),
				HomeTeamID: 7, AwayTeamID: 9, Status: model.StatusScheduled},
		},
		Stats: []model.TeamMatchStats{
			{MatchID: 1, TeamID: 7, IsHome: true, GoalsFor: 2, GoalsAgainst: 1},
			{MatchID: 1, TeamID: 9, IsHome: false, GoalsFor: 1, GoalsAgainst: 2},
			{MatchID: 2, TeamID: 7, IsHome: false, GoalsFor: 0, GoalsAgainst: 0},
			{MatchID: 3, TeamID: 7, IsHome: true, GoalsFor: 1, GoalsAgainst: 3},
			{MatchID: 4, TeamID: 7, IsHome: true, GoalsFor: 0, GoalsAgainst: 0},
			{MatchID: 99, TeamID: 7, IsHome: true, GoalsFor: 5, GoalsAgainst: 0}, // orphan
		},
	}
}

func TestMemorySource_ScopeFiltering(t *testing.T) {
	src := NewMemorySource(testDataset())
	team := 7

	tests := []struct {
		name      string
		scope     trend.Scope
		wantMatch []int
	}{
		{
			name:      "competition and season",
			scope:     trend.Scope{Competition: "epl", Seasons: []string{"2023-2024"}},
			wantMatch: []int{1, 1}, // both team rows of match 1; match 4 is scheduled
		},
		{
			name:      "team scoped",
			scope:     trend.Scope{TeamID: &team, Competition: "epl", Seasons: []string{"2022-2023", "2023-2024"}},
			wantMatch: []int{1, 2},
		},
		{
			name:      "other competition",
			scope:     trend.Scope{Competition: "la liga", Seasons: []string{"2023-2024"}},
			wantMatch: []int{3},
		},
		{
			name:      "no such season",
			scope:     trend.Scope{Competition: "epl", Seasons: []string{"2019-2020"}},
			wantMatch: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := src.FetchCandidateRows(context.Background(), tt.scope)
			require.NoError(t, err)
			got := make([]int, 0, len(rows))
			for _, r := range rows {
				got = append(got, r.Match.ID)
			}
			assert.ElementsMatch(t, tt.wantMatch, got)
		})
	}
}

func TestMemorySource_DropsOrphanStats(t *testing.T) {
	src := NewMemorySource(testDataset())
	rows, err := src.FetchCandidateRows(context.Background(), trend.Scope{})
	require.NoError(t, err)
	for _, r := range rows {
		assert.NotEqual(t, 99, r.Stats.MatchID)
	}
}

func TestMemorySource_HonorsCancellation(t *testing.T) {
	src := NewMemorySource(testDataset())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.FetchCandidateRows(ctx, trend.Scope{})
	assert.ErrorIs(t, err, context.Canceled)
}
