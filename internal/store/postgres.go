package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pitchside/trendlens/internal/model"
	"github.com/pitchside/trendlens/internal/trend"
)

// PostgresSource fetches candidate rows through the pool's prepared
// statements (registered in internal/db). The scope predicates run in
// SQL; the remaining filter predicates are evaluated by the engine.
type PostgresSource struct {
	pool *pgxpool.Pool
}

// NewPostgresSource wraps a connection pool as a trend.RowSource.
func NewPostgresSource(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

// FetchCandidateRows returns finished-match stat rows joined with their
// matches, already narrowed by team, competition, and seasons.
func (s *PostgresSource) FetchCandidateRows(ctx context.Context, scope trend.Scope) ([]model.StatRow, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if scope.TeamID != nil {
		rows, err = s.pool.Query(ctx, "trend_candidate_rows_team",
			scope.Competition, scope.Seasons, *scope.TeamID)
	} else {
		rows, err = s.pool.Query(ctx, "trend_candidate_rows",
			scope.Competition, scope.Seasons)
	}
	if err != nil {
		return nil, fmt.Errorf("query candidate rows: %w", err)
	}
	defer rows.Close()

	var out []model.StatRow
	for rows.Next() {
		var r model.StatRow
		if err := rows.Scan(
			&r.Match.ID, &r.Match.Competition, &r.Match.Season, &r.Match.MatchDate,
			&r.Match.HomeTeamID, &r.Match.AwayTeamID,
			&r.Match.HomeGoals, &r.Match.AwayGoals, &r.Match.Status,
			&r.Stats.MatchID, &r.Stats.TeamID, &r.Stats.IsHome,
			&r.Stats.GoalsFor, &r.Stats.GoalsAgainst, &r.Stats.Result,
			&r.Stats.Possession, &r.Stats.Corners, &r.Stats.Shots,
			&r.Stats.ShotsOnTarget, &r.Stats.XG, &r.Stats.XGA,
			&r.Stats.Fouls, &r.Stats.Yellow, &r.Stats.Red,
			&r.Stats.QualityFlags,
		); err != nil {
			return nil, fmt.Errorf("scan candidate row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
