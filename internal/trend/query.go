// Package trend implements the trend query engine: DSL validation and
// normalization, translation of filters into an executable predicate set,
// aggregation of matching stat rows into KPIs and rates, and assembly of
// the response document. The engine is a pure function of (query, dataset)
// and holds no mutable state across requests.
package trend

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Operator is a filter comparison operator.
type Operator string

const (
	OpEq      Operator = "="
	OpNe      Operator = "!="
	OpLt      Operator = "<"
	OpLe      Operator = "<="
	OpGt      Operator = ">"
	OpGe      Operator = ">="
	OpBetween Operator = "between"
)

var operators = map[Operator]bool{
	OpEq: true, OpNe: true, OpLt: true, OpLe: true,
	OpGt: true, OpGe: true, OpBetween: true,
}

// RawQuery is the wire shape of an incoming trend query before validation.
// Filter values stay as raw JSON so a scalar and a [low, high] pair can
// both be accepted and type-checked explicitly.
type RawQuery struct {
	TeamID      *int        `json:"teamId,omitempty"`
	Competition string      `json:"competition"`
	Seasons     []string    `json:"seasons"`
	Filters     []RawFilter `json:"filters"`
	Outcomes    []string    `json:"outcomes"`
}

// RawFilter is one unvalidated filter clause.
type RawFilter struct {
	Field string          `json:"field"`
	Op    string          `json:"op"`
	Value json.RawMessage `json:"value"`
}

// TrendQuery is the validated, canonical form of a query. Instances are
// produced by Validate and are already normalized: filters and seasons
// sorted, competition lower-cased, values typed.
type TrendQuery struct {
	TeamID      *int     `json:"teamId,omitempty"`
	Competition string   `json:"competition"`
	Seasons     []string `json:"seasons"`
	Filters     []Filter `json:"filters"`
	Outcomes    []string `json:"outcomes"`

	// IgnoredOutcomes holds requested outcome names that failed the
	// allow-list. They do not participate in aggregation or in the cache
	// key; the assembler reports them as quality warnings.
	IgnoredOutcomes []string `json:"-"`
}

// Filter is one validated filter clause. Exactly one value form is set:
// Bool for boolean fields, Num for scalar numeric comparisons, Low/High
// for between.
type Filter struct {
	Field string
	Op    Operator
	Bool  *bool
	Num   *float64
	Low   *float64
	High  *float64
}

// MarshalJSON renders the clause in the canonical wire shape
// {"field": ..., "op": ..., "value": ...}.
func (f Filter) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`{"field":%q,"op":%q,"value":%s}`,
		f.Field, f.Op, f.valueJSON())), nil
}

// valueJSON returns the canonical serialization of the clause value:
// shortest round-trip float formatting, no leading zeros. It doubles as
// the tie-break key when sorting filters.
func (f Filter) valueJSON() string {
	switch {
	case f.Bool != nil:
		return strconv.FormatBool(*f.Bool)
	case f.Low != nil && f.High != nil:
		return "[" + formatNum(*f.Low) + "," + formatNum(*f.High) + "]"
	case f.Num != nil:
		return formatNum(*f.Num)
	default:
		return "null"
	}
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
