package trend

import (
	"sort"

	"github.com/pitchside/trendlens/internal/model"
)

// FieldKind is the value type a filterable field expects.
type FieldKind string

const (
	KindBool    FieldKind = "bool"
	KindNumeric FieldKind = "numeric"
)

// Field is one entry in the closed enumeration of filterable fields.
// Validation and translation both read from this table so the two cannot
// drift apart.
type Field struct {
	Name     string    `json:"name"`
	Kind     FieldKind `json:"kind"`
	Optional bool      `json:"optional"`

	// numeric extracts the field's value from a stat line; nil result
	// means the value is unknown for that row. Unset for bool fields.
	numeric func(s model.TeamMatchStats) *float64
}

var fieldTable = map[string]Field{
	"isHome": {Name: "isHome", Kind: KindBool},
	"possession": {Name: "possession", Kind: KindNumeric, Optional: true,
		numeric: func(s model.TeamMatchStats) *float64 { return s.Possession }},
	"corners": {Name: "corners", Kind: KindNumeric, Optional: true,
		numeric: func(s model.TeamMatchStats) *float64 { return s.Corners }},
	"shots": {Name: "shots", Kind: KindNumeric, Optional: true,
		numeric: func(s model.TeamMatchStats) *float64 { return s.Shots }},
	"shotsOnTarget": {Name: "shotsOnTarget", Kind: KindNumeric, Optional: true,
		numeric: func(s model.TeamMatchStats) *float64 { return s.ShotsOnTarget }},
	"xg": {Name: "xg", Kind: KindNumeric, Optional: true,
		numeric: func(s model.TeamMatchStats) *float64 { return s.XG }},
	"xga": {Name: "xga", Kind: KindNumeric, Optional: true,
		numeric: func(s model.TeamMatchStats) *float64 { return s.XGA }},
	"fouls": {Name: "fouls", Kind: KindNumeric, Optional: true,
		numeric: func(s model.TeamMatchStats) *float64 { return s.Fouls }},
	"yellow": {Name: "yellow", Kind: KindNumeric, Optional: true,
		numeric: func(s model.TeamMatchStats) *float64 { return s.Yellow }},
	"red": {Name: "red", Kind: KindNumeric, Optional: true,
		numeric: func(s model.TeamMatchStats) *float64 { return s.Red }},
}

// FieldByName looks up a filterable field by its DSL name.
func FieldByName(name string) (Field, bool) {
	f, ok := fieldTable[name]
	return f, ok
}

// Fields returns the filterable-field enumeration sorted by name.
func Fields() []Field {
	out := make([]Field, 0, len(fieldTable))
	for _, f := range fieldTable {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// --------------------------------------------------------------------------
// Outcomes
// --------------------------------------------------------------------------

// OutcomeLevel distinguishes team-centric rates (computed per stat row,
// from the queried team's perspective) from match-level rates (computed
// once per distinct match).
type OutcomeLevel string

const (
	LevelTeam  OutcomeLevel = "team"
	LevelMatch OutcomeLevel = "match"
)

// Outcome is one entry in the closed enumeration of requestable rates.
type Outcome struct {
	Name  string       `json:"name"`
	Level OutcomeLevel `json:"level"`
}

var outcomeTable = map[string]Outcome{
	"win_rate":             {Name: "win_rate", Level: LevelTeam},
	"clean_sheet_rate":     {Name: "clean_sheet_rate", Level: LevelTeam},
	"failed_to_score_rate": {Name: "failed_to_score_rate", Level: LevelTeam},
	"btts_rate":            {Name: "btts_rate", Level: LevelMatch},
	"over_1_5_rate":        {Name: "over_1_5_rate", Level: LevelMatch},
	"over_2_5_rate":        {Name: "over_2_5_rate", Level: LevelMatch},
	"over_3_5_rate":        {Name: "over_3_5_rate", Level: LevelMatch},
}

// OutcomeByName looks up a requestable outcome by its DSL name.
func OutcomeByName(name string) (Outcome, bool) {
	o, ok := outcomeTable[name]
	return o, ok
}

// Outcomes returns the outcome enumeration sorted by name.
func Outcomes() []Outcome {
	out := make([]Outcome, 0, len(outcomeTable))
	for _, o := range outcomeTable {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
