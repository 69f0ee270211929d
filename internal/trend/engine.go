package trend

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pitchside/trendlens/internal/model"
)

// RowSource is the storage capability the engine consumes. The source
// must honor the scope predicates (team, competition, seasons) and return
// only finished-match stat rows; the engine evaluates the remaining
// filter predicates in-process. The fetch is the engine's single blocking
// point and must respect ctx cancellation.
type RowSource interface {
	FetchCandidateRows(ctx context.Context, scope Scope) ([]model.StatRow, error)
}

// Config fixes the engine's server-side tuning. None of it is
// client-tunable.
type Config struct {
	// MatchListCap bounds the echoed match list. KPIs are always
	// computed over the full matching set regardless of the cap.
	MatchListCap int
	// TierMedium and TierHigh are the sample-size tier thresholds:
	// n < TierMedium is low, n < TierHigh is medium, otherwise high.
	TierMedium int
	TierHigh   int
	// RatePrecision is the number of decimal places for rates and
	// averages.
	RatePrecision int
	// FetchTimeout bounds the candidate-row fetch. Zero disables it.
	FetchTimeout time.Duration
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		MatchListCap:  100,
		TierMedium:    10,
		TierHigh:      30,
		RatePrecision: 3,
		FetchTimeout:  5 * time.Second,
	}
}

// Engine runs canonical trend queries against a row source. It holds no
// mutable state, so one Engine serves concurrent requests without
// coordination.
type Engine struct {
	source RowSource
	cfg    Config
	logger *slog.Logger
}

// New creates an engine. A nil logger falls back to slog.Default.
func New(source RowSource, cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{source: source, cfg: cfg, logger: logger}
}

// Run executes a validated, canonical query: translate to predicates,
// fetch candidate rows, evaluate, aggregate, assemble. A failed or
// timed-out fetch returns a *DataSourceError and no partial aggregate.
// Run performs no retries.
func (e *Engine) Run(ctx context.Context, q TrendQuery) (*TrendResult, error) {
	start := time.Now()
	ps := Translate(q)

	fetchCtx := ctx
	if e.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, e.cfg.FetchTimeout)
		defer cancel()
	}
	rows, err := e.source.FetchCandidateRows(fetchCtx, ps.Scope)
	if err != nil {
		timeout := errors.Is(err, context.DeadlineExceeded)
		e.logger.Error("candidate row fetch failed",
			"competition", q.Competition, "timeout", timeout, "error", err)
		return nil, &DataSourceError{Op: "fetchCandidateRows", Timeout: timeout, Err: err}
	}

	matched := make([]model.StatRow, 0, len(rows))
	findings := newRowFindings()
	for _, row := range rows {
		// Rows from unfinished matches carry no trustworthy goals and
		// are excluded upstream; tolerate a source that leaks them.
		if row.Match.Status != model.StatusFinished {
			continue
		}
		if !ps.Scope.Matches(row.Match, row.Stats) {
			continue
		}
		ok, missing := ps.Eval(row.Stats)
		for _, field := range missing {
			findings.missingByField[field]++
		}
		if !ok {
			continue
		}
		matched = append(matched, row)
		for _, flag := range row.Stats.QualityFlags {
			findings.flagCounts[flag]++
		}
		if row.Match.HomeTeamID == row.Match.AwayTeamID {
			findings.sameTeamIDs = append(findings.sameTeamIDs, row.Match.ID)
		}
	}

	agg := aggregate(matched, q.Outcomes, e.cfg.RatePrecision)
	res := assemble(q, matched, agg, findings, e.cfg)
	res.Meta = Meta{
		QueryID:     uuid.NewString(),
		CacheKey:    CacheKey(q),
		Competition: q.Competition,
		Seasons:     q.Seasons,
		TeamID:      q.TeamID,
		ElapsedMs:   float64(time.Since(start).Microseconds()) / 1000.0,
	}

	e.logger.Info("trend query executed",
		"query_id", res.Meta.QueryID,
		"competition", q.Competition,
		"candidates", len(rows),
		"matched", agg.kpis.N,
		"tier", res.Quality.SampleSizeTier,
		"elapsed_ms", res.Meta.ElapsedMs)
	return res, nil
}
