package trend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pitchside/trendlens/internal/model"
)

func TestAggregate_TeamLevelRates(t *testing.T) {
	rows := []model.StatRow{
		teamRow(1, 2, 0, nil), // win, clean sheet
		teamRow(2, 0, 0, nil), // draw, clean sheet, failed to score
		teamRow(3, 0, 3, nil), // loss, failed to score
		teamRow(4, 1, 1, nil), // draw
	}

	agg := aggregate(rows, []string{"win_rate", "clean_sheet_rate", "failed_to_score_rate"}, 3)

	assert.Equal(t, 4, agg.kpis.N)
	assert.Equal(t, 1, agg.kpis.Wins)
	assert.Equal(t, 2, agg.kpis.Draws)
	assert.Equal(t, 1, agg.kpis.Losses)
	assert.Equal(t, 0.25, agg.rates["win_rate"])
	assert.Equal(t, 0.5, agg.rates["clean_sheet_rate"])
	assert.Equal(t, 0.5, agg.rates["failed_to_score_rate"])
}

func TestAggregate_EmptySetGuardsEveryDenominator(t *testing.T) {
	agg := aggregate(nil, []string{"win_rate", "btts_rate", "over_2_5_rate"}, 3)

	assert.Equal(t, 0, agg.kpis.N)
	assert.Nil(t, agg.kpis.WinRate)
	assert.Nil(t, agg.kpis.AvgGoalsFor)
	assert.Nil(t, agg.kpis.AvgGoalsAgainst)
	assert.Empty(t, agg.rates, "undefined rates are absent, never zero")
}

func TestAggregate_OverRateLadder(t *testing.T) {
	rows := []model.StatRow{
		teamRow(1, 1, 0, nil), // 1 goal
		teamRow(2, 1, 1, nil), // 2 goals
		teamRow(3, 2, 1, nil), // 3 goals
		teamRow(4, 3, 2, nil), // 5 goals
	}

	agg := aggregate(rows, []string{"over_1_5_rate", "over_2_5_rate", "over_3_5_rate"}, 3)

	assert.Equal(t, 0.75, agg.rates["over_1_5_rate"])
	assert.Equal(t, 0.5, agg.rates["over_2_5_rate"])
	assert.Equal(t, 0.25, agg.rates["over_3_5_rate"])
}

func TestRound(t *testing.T) {
	tests := []struct {
		v         float64
		precision int
		want      float64
	}{
		{2.0 / 3.0, 3, 0.667},
		{1.0 / 3.0, 3, 0.333},
		{0.5, 3, 0.5},
		{2.0 / 3.0, 2, 0.67},
		{1, 3, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, round(tt.v, tt.precision))
	}
}

func TestAggregate_StoredResultVerified(t *testing.T) {
	rows := []model.StatRow{
		teamRow(1, 2, 0, func(s *model.TeamMatchStats) { s.Result = model.ResultWin }),  // agrees
		teamRow(2, 0, 1, func(s *model.TeamMatchStats) { s.Result = model.ResultDraw }), // drifted
	}

	agg := aggregate(rows, nil, 3)

	assert.Equal(t, 1, agg.kpis.Wins)
	assert.Equal(t, 1, agg.kpis.Losses, "derived result wins over the stored one")
	assert.Equal(t, 0, agg.kpis.Draws)
	assert.Equal(t, 1, agg.resultMismatches)
}
