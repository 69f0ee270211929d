package trend

import (
	"strings"

	"github.com/pitchside/trendlens/internal/model"
)

// Scope holds the coarse predicates the backing store can index on.
// They narrow the candidate set before per-row filter evaluation.
type Scope struct {
	TeamID      *int
	Competition string
	Seasons     []string
}

// Matches reports whether a match falls inside the scope. The in-memory
// source uses it to filter, and the engine re-checks it on every fetched
// row.
func (s Scope) Matches(m model.Match, stats model.TeamMatchStats) bool {
	if s.TeamID != nil && stats.TeamID != *s.TeamID {
		return false
	}
	if s.Competition != "" && strings.ToLower(m.Competition) != s.Competition {
		return false
	}
	if len(s.Seasons) > 0 {
		found := false
		for _, season := range s.Seasons {
			if m.Season == season {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// tri is the outcome of one predicate against one row. Unknown arises
// when the filtered field is absent on the row; the engine treats it as
// "does not match" and reports the exclusion in the quality block.
type tri int

const (
	triFalse tri = iota
	triTrue
	triUnknown
)

// Predicate is one compiled filter clause.
type Predicate struct {
	Field string
	test  func(s model.TeamMatchStats) tri
}

// Eval applies the predicate to a single stat line.
func (p Predicate) Eval(s model.TeamMatchStats) tri { return p.test(s) }

// PredicateSet is the executable form of a canonical query: scope
// predicates plus AND-combined filter predicates. Translation is pure;
// the set only describes tests, it never touches storage.
type PredicateSet struct {
	Scope      Scope
	Predicates []Predicate
}

// Translate compiles a canonical query into its predicate set. Filters
// reference only allow-listed fields, so compilation cannot fail after
// validation.
func Translate(q TrendQuery) PredicateSet {
	set := PredicateSet{
		Scope: Scope{
			TeamID:      q.TeamID,
			Competition: q.Competition,
			Seasons:     q.Seasons,
		},
		Predicates: make([]Predicate, 0, len(q.Filters)),
	}
	for _, f := range q.Filters {
		set.Predicates = append(set.Predicates, compile(f))
	}
	return set
}

// Eval runs every filter predicate against a row. A row matches only if
// all predicates are true (conjunctive DSL, no OR). The names of fields
// whose absence excluded the row are returned for quality reporting.
func (ps PredicateSet) Eval(s model.TeamMatchStats) (matched bool, missing []string) {
	matched = true
	for _, p := range ps.Predicates {
		switch p.Eval(s) {
		case triFalse:
			matched = false
		case triUnknown:
			matched = false
			missing = append(missing, p.Field)
		}
	}
	return matched, missing
}

func compile(f Filter) Predicate {
	field, _ := FieldByName(f.Field)

	if field.Kind == KindBool {
		want := *f.Bool
		eq := f.Op == OpEq
		return Predicate{Field: f.Field, test: func(s model.TeamMatchStats) tri {
			if (s.IsHome == want) == eq {
				return triTrue
			}
			return triFalse
		}}
	}

	if f.Op == OpBetween {
		low, high := *f.Low, *f.High
		return Predicate{Field: f.Field, test: func(s model.TeamMatchStats) tri {
			v := field.numeric(s)
			if v == nil {
				return triUnknown
			}
			// Inclusive on both ends.
			if *v >= low && *v <= high {
				return triTrue
			}
			return triFalse
		}}
	}

	want := *f.Num
	op := f.Op
	return Predicate{Field: f.Field, test: func(s model.TeamMatchStats) tri {
		v := field.numeric(s)
		if v == nil {
			return triUnknown
		}
		if compareNum(*v, want, op) {
			return triTrue
		}
		return triFalse
	}}
}

func compareNum(v, want float64, op Operator) bool {
	switch op {
	case OpEq:
		return v == want
	case OpNe:
		return v != want
	case OpLt:
		return v < want
	case OpLe:
		return v <= want
	case OpGt:
		return v > want
	case OpGe:
		return v >= want
	default:
		return false
	}
}
