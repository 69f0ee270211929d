package trend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/trendlens/internal/model"
)

func fp(v float64) *float64 { return &v }

func statLine(opts func(*model.TeamMatchStats)) model.TeamMatchStats {
	s := model.TeamMatchStats{MatchID: 1, TeamID: 7, GoalsFor: 1, GoalsAgainst: 0}
	if opts != nil {
		opts(&s)
	}
	return s
}

func mustQuery(t *testing.T, doc string) TrendQuery {
	t.Helper()
	q, err := ParseAndValidate([]byte(doc))
	require.NoError(t, err)
	return *q
}

func TestTranslate_BetweenIsInclusive(t *testing.T) {
	q := mustQuery(t, `{"competition": "epl", "seasons": ["2023-2024"],
		"filters": [{"field": "possession", "op": "between", "value": [40, 60]}]}`)
	ps := Translate(q)

	tests := []struct {
		name       string
		possession *float64
		want       bool
	}{
		{"below low", fp(39.9), false},
		{"exactly low", fp(40), true},
		{"inside", fp(50), true},
		{"exactly high", fp(60), true},
		{"above high", fp(60.1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := statLine(func(s *model.TeamMatchStats) { s.Possession = tt.possession })
			got, missing := ps.Eval(s)
			assert.Equal(t, tt.want, got)
			assert.Empty(t, missing)
		})
	}
}

func TestTranslate_MissingFieldExcludesRow(t *testing.T) {
	q := mustQuery(t, `{"competition": "epl", "seasons": ["2023-2024"],
		"filters": [{"field": "xg", "op": ">", "value": 1}]}`)
	ps := Translate(q)

	matched, missing := ps.Eval(statLine(nil)) // no xg on the row
	assert.False(t, matched, "unknown is treated as does-not-match")
	assert.Equal(t, []string{"xg"}, missing)
}

func TestTranslate_Operators(t *testing.T) {
	tests := []struct {
		op    string
		value float64
		want  bool
	}{
		{"=", 7, true},
		{"=", 8, false},
		{"!=", 8, true},
		{"!=", 7, false},
		{"<", 8, true},
		{"<", 7, false},
		{"<=", 7, true},
		{"<=", 6, false},
		{">", 6, true},
		{">", 7, false},
		{">=", 7, true},
		{">=", 8, false},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			f := Filter{Field: "corners", Op: Operator(tt.op), Num: &tt.value}
			p := compile(f)
			s := statLine(func(s *model.TeamMatchStats) { s.Corners = fp(7) })
			assert.Equal(t, tt.want, p.Eval(s) == triTrue)
		})
	}
}

func TestTranslate_BooleanField(t *testing.T) {
	q := mustQuery(t, `{"competition": "epl", "seasons": ["2023-2024"],
		"filters": [{"field": "isHome", "op": "!=", "value": false}]}`)
	ps := Translate(q)

	home := statLine(func(s *model.TeamMatchStats) { s.IsHome = true })
	away := statLine(nil)

	matched, _ := ps.Eval(home)
	assert.True(t, matched)
	matched, _ = ps.Eval(away)
	assert.False(t, matched)
}

func TestTranslate_ConjunctiveFiltersOnlyShrink(t *testing.T) {
	rows := []model.TeamMatchStats{
		statLine(func(s *model.TeamMatchStats) { s.Possession = fp(45); s.Corners = fp(6); s.IsHome = true }),
		statLine(func(s *model.TeamMatchStats) { s.Possession = fp(55); s.Corners = fp(6); s.IsHome = true }),
		statLine(func(s *model.TeamMatchStats) { s.Possession = fp(40); s.Corners = fp(2); s.IsHome = true }),
		statLine(func(s *model.TeamMatchStats) { s.Possession = fp(48); s.Corners = fp(9) }),
	}

	base := mustQuery(t, `{"competition": "epl", "seasons": ["2023-2024"], "filters": []}`)
	narrower := []TrendQuery{
		mustQuery(t, `{"competition": "epl", "seasons": ["2023-2024"],
			"filters": [{"field": "possession", "op": "<", "value": 50}]}`),
		mustQuery(t, `{"competition": "epl", "seasons": ["2023-2024"],
			"filters": [{"field": "possession", "op": "<", "value": 50},
				{"field": "corners", "op": ">=", "value": 5}]}`),
		mustQuery(t, `{"competition": "epl", "seasons": ["2023-2024"],
			"filters": [{"field": "possession", "op": "<", "value": 50},
				{"field": "corners", "op": ">=", "value": 5},
				{"field": "isHome", "op": "=", "value": true}]}`),
	}

	count := func(q TrendQuery) int {
		ps := Translate(q)
		n := 0
		for _, s := range rows {
			if ok, _ := ps.Eval(s); ok {
				n++
			}
		}
		return n
	}

	prev := count(base)
	assert.Equal(t, len(rows), prev)
	for _, q := range narrower {
		cur := count(q)
		assert.LessOrEqual(t, cur, prev, "adding a filter can only shrink or preserve the match count")
		prev = cur
	}
	assert.Equal(t, 1, prev)
}

func TestScope_Matches(t *testing.T) {
	m := model.Match{
		ID: 1, Competition: "EPL", Season: "2023-2024",
		MatchDate: time.Date(2024, 3, 2, 15, 0, 0, 0, time.UTC),
		HomeTeamID: 7, AwayTeamID: 9, Status: model.StatusFinished,
	}
	s := model.TeamMatchStats{MatchID: 1, TeamID: 7}

	team := 7
	otherTeam := 8
	tests := []struct {
		name  string
		scope Scope
		want  bool
	}{
		{"empty scope", Scope{}, true},
		{"competition case-insensitive", Scope{Competition: "epl"}, true},
		{"wrong competition", Scope{Competition: "la liga"}, false},
		{"season member", Scope{Seasons: []string{"2022-2023", "2023-2024"}}, true},
		{"season not member", Scope{Seasons: []string{"2021-2022"}}, false},
		{"team match", Scope{TeamID: &team}, true},
		{"team mismatch", Scope{TeamID: &otherTeam}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.scope.Matches(m, s))
		})
	}
}
