// Package db provides a pgxpool-based connection pool with prepared
// statement registration and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pitchside/trendlens/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// candidateRowColumns is the joined projection every candidate-row
// statement returns, in the order store.PostgresSource scans.
const candidateRowColumns = `
	m.id, m.competition, m.season, m.match_date,
	m.home_team_id, m.away_team_id, m.home_goals, m.away_goals, m.status,
	s.match_id, s.team_id, s.is_home, s.goals_for, s.goals_against, s.result,
	s.possession, s.corners, s.shots, s.shots_on_target, s.xg, s.xga,
	s.fouls, s.yellow, s.red, s.quality_flags`

// registerPreparedStatements registers the statements the API and CLI
// use. Prepared statements eliminate parse overhead on every request.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Trend engine: candidate rows inside the scope predicates.
		// Only finished matches ever reach the engine.
		"trend_candidate_rows": `
			SELECT ` + candidateRowColumns + `
			FROM team_match_stats s
			JOIN matches m ON m.id = s.match_id
			WHERE m.status = 'finished'
			  AND lower(m.competition) = $1
			  AND m.season = ANY($2)
			ORDER BY m.match_date, m.id`,

		"trend_candidate_rows_team": `
			SELECT ` + candidateRowColumns + `
			FROM team_match_stats s
			JOIN matches m ON m.id = s.match_id
			WHERE m.status = 'finished'
			  AND lower(m.competition) = $1
			  AND m.season = ANY($2)
			  AND s.team_id = $3
			ORDER BY m.match_date, m.id`,
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
