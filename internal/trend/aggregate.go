package trend

import (
	"math"

	"github.com/pitchside/trendlens/internal/model"
)

// KPIs is the team-centric aggregate block: counts over the matched stat
// rows from the queried team's perspective. Ratio fields are pointers so
// an undefined value (n = 0) is omitted from the response rather than
// reported as zero.
type KPIs struct {
	N               int      `json:"n"`
	Wins            int      `json:"wins"`
	Draws           int      `json:"draws"`
	Losses          int      `json:"losses"`
	WinRate         *float64 `json:"winRate,omitempty"`
	AvgGoalsFor     *float64 `json:"avgGoalsFor,omitempty"`
	AvgGoalsAgainst *float64 `json:"avgGoalsAgainst,omitempty"`
}

// aggregation is the intermediate output of the two aggregation passes,
// consumed by the result assembler.
type aggregation struct {
	kpis  KPIs
	rates map[string]float64

	// resultMismatches counts rows whose stored result disagreed with
	// the one recomputed from goals. A data-quality finding, not an error.
	resultMismatches int
}

// aggregate computes KPIs and requested rates over the rows that survived
// predicate evaluation. Two groupings run side by side: KPI counts are
// per stat row, while match-level rates (btts, over-N) first de-duplicate
// by match ID so a match where both teams' rows survived is counted once.
// Every denominator-zero case is guarded; undefined values are simply
// absent from the rates map.
func aggregate(rows []model.StatRow, outcomes []string, precision int) aggregation {
	agg := aggregation{rates: make(map[string]float64, len(outcomes))}

	// Pass 1: row-level, team perspective.
	var goalsFor, goalsAgainst, cleanSheets, failedToScore int
	for _, row := range rows {
		derived := row.Stats.DerivedResult()
		if row.Stats.Result != "" && row.Stats.Result != derived {
			agg.resultMismatches++
		}
		switch derived {
		case model.ResultWin:
			agg.kpis.Wins++
		case model.ResultDraw:
			agg.kpis.Draws++
		case model.ResultLoss:
			agg.kpis.Losses++
		}
		goalsFor += row.Stats.GoalsFor
		goalsAgainst += row.Stats.GoalsAgainst
		if row.Stats.GoalsAgainst == 0 {
			cleanSheets++
		}
		if row.Stats.GoalsFor == 0 {
			failedToScore++
		}
	}
	agg.kpis.N = len(rows)

	if n := agg.kpis.N; n > 0 {
		agg.kpis.WinRate = roundPtr(float64(agg.kpis.Wins)/float64(n), precision)
		agg.kpis.AvgGoalsFor = roundPtr(float64(goalsFor)/float64(n), precision)
		agg.kpis.AvgGoalsAgainst = roundPtr(float64(goalsAgainst)/float64(n), precision)
	}

	// Pass 2: match-level, de-duplicated by match ID. Total goals and
	// btts are symmetric between the two stat rows of a match, so the
	// first surviving row of each match is representative.
	seen := make(map[int]bool, len(rows))
	var matches, btts, over15, over25, over35 int
	for _, row := range rows {
		if seen[row.Stats.MatchID] {
			continue
		}
		seen[row.Stats.MatchID] = true
		matches++

		total := row.Stats.GoalsFor + row.Stats.GoalsAgainst
		if row.Stats.GoalsFor > 0 && row.Stats.GoalsAgainst > 0 {
			btts++
		}
		if total > 1 {
			over15++
		}
		if total > 2 {
			over25++
		}
		if total > 3 {
			over35++
		}
	}

	for _, name := range outcomes {
		var num, den int
		switch name {
		case "win_rate":
			num, den = agg.kpis.Wins, agg.kpis.N
		case "clean_sheet_rate":
			num, den = cleanSheets, agg.kpis.N
		case "failed_to_score_rate":
			num, den = failedToScore, agg.kpis.N
		case "btts_rate":
			num, den = btts, matches
		case "over_1_5_rate":
			num, den = over15, matches
		case "over_2_5_rate":
			num, den = over25, matches
		case "over_3_5_rate":
			num, den = over35, matches
		default:
			continue
		}
		if den == 0 {
			continue // undefined, reported as absent
		}
		agg.rates[name] = round(float64(num)/float64(den), precision)
	}

	return agg
}

func round(v float64, precision int) float64 {
	pow := math.Pow(10, float64(precision))
	return math.Round(v*pow) / pow
}

func roundPtr(v float64, precision int) *float64 {
	r := round(v, precision)
	return &r
}
