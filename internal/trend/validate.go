package trend

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/xeipuuv/gojsonschema"
)

// querySchema guards the document shape before semantic validation runs.
// Filter values are deliberately untyped here: scalar vs [low, high] is
// checked per-field by the semantic pass.
const querySchema = `{
	"type": "object",
	"required": ["competition", "seasons"],
	"additionalProperties": false,
	"properties": {
		"teamId": {"type": "integer"},
		"competition": {"type": "string", "minLength": 1},
		"seasons": {"type": "array", "minItems": 1, "items": {"type": "string", "minLength": 1}},
		"filters": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["field", "op"],
				"additionalProperties": false,
				"properties": {
					"field": {"type": "string"},
					"op": {"type": "string"},
					"value": {}
				}
			}
		},
		"outcomes": {"type": "array", "items": {"type": "string"}}
	}
}`

var schemaLoader = gojsonschema.NewStringLoader(querySchema)

// ParseAndValidate runs the full validation pipeline on a raw JSON query
// document: structural schema check, semantic allow-list and type checks,
// then normalization. On failure the returned error is a
// *ValidationErrors listing every violation found, each tagged with the
// path of the offending field.
func ParseAndValidate(doc []byte) (*TrendQuery, error) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(doc))
	if err != nil {
		verrs := &ValidationErrors{}
		verrs.add("$", CodeMalformedQuery, "not a valid JSON document: %v", err)
		return nil, verrs
	}
	if !result.Valid() {
		verrs := &ValidationErrors{}
		for _, desc := range result.Errors() {
			verrs.add(jsonPath(desc.Field()), CodeMalformedQuery, "%s", desc.Description())
		}
		return nil, verrs
	}

	var raw RawQuery
	if err := json.Unmarshal(doc, &raw); err != nil {
		verrs := &ValidationErrors{}
		verrs.add("$", CodeMalformedQuery, "decode query: %v", err)
		return nil, verrs
	}
	return Validate(raw)
}

// Validate checks a structurally sound query against the field, operator,
// and outcome allow-lists and returns its canonical form. All violations
// are collected before returning; validation never stops at the first.
// Unknown outcome names alone do not fail validation: they are stripped
// from the query and echoed back as quality warnings.
func Validate(raw RawQuery) (*TrendQuery, error) {
	verrs := &ValidationErrors{}

	q := &TrendQuery{
		TeamID:      raw.TeamID,
		Competition: raw.Competition,
		Seasons:     append([]string(nil), raw.Seasons...),
		Filters:     make([]Filter, 0, len(raw.Filters)),
		Outcomes:    make([]string, 0, len(raw.Outcomes)),
	}

	for i, rf := range raw.Filters {
		if f, ok := validateFilter(i, rf, verrs); ok {
			q.Filters = append(q.Filters, f)
		}
	}

	fatal := len(verrs.Violations) > 0

	for i, name := range raw.Outcomes {
		if _, ok := OutcomeByName(name); ok {
			q.Outcomes = append(q.Outcomes, name)
		} else {
			q.IgnoredOutcomes = append(q.IgnoredOutcomes, name)
			verrs.add(fmt.Sprintf("outcomes[%d]", i), CodeUnknownOutcome,
				"unknown outcome %q", name)
		}
	}

	if fatal {
		return nil, verrs
	}

	Normalize(q)
	return q, nil
}

// validateFilter type-checks one clause. It reports every violation it
// finds and returns ok=false if the clause cannot be compiled.
func validateFilter(i int, rf RawFilter, verrs *ValidationErrors) (Filter, bool) {
	path := func(part string) string { return fmt.Sprintf("filters[%d].%s", i, part) }

	field, fieldOK := FieldByName(rf.Field)
	if !fieldOK {
		verrs.add(path("field"), CodeUnknownField, "unknown field %q", rf.Field)
	}

	op := Operator(rf.Op)
	if !operators[op] {
		verrs.add(path("op"), CodeUnknownOperator, "unknown operator %q", rf.Op)
		return Filter{}, false
	}
	if !fieldOK {
		return Filter{}, false
	}

	f := Filter{Field: field.Name, Op: op}

	switch {
	case op == OpBetween:
		if field.Kind != KindNumeric {
			verrs.add(path("op"), CodeTypeMismatch,
				"operator %q requires a numeric field, %q is %s", op, field.Name, field.Kind)
			return Filter{}, false
		}
		var bounds []float64
		if rf.Value == nil || json.Unmarshal(rf.Value, &bounds) != nil || len(bounds) != 2 {
			verrs.add(path("value"), CodeMalformedRange,
				"operator %q requires a [low, high] pair of numbers", op)
			return Filter{}, false
		}
		if bounds[0] > bounds[1] {
			verrs.add(path("value"), CodeMalformedRange,
				"range low %s exceeds high %s", formatNum(bounds[0]), formatNum(bounds[1]))
			return Filter{}, false
		}
		f.Low, f.High = &bounds[0], &bounds[1]

	case field.Kind == KindBool:
		if op != OpEq && op != OpNe {
			verrs.add(path("op"), CodeTypeMismatch,
				"operator %q not applicable to boolean field %q", op, field.Name)
			return Filter{}, false
		}
		var b bool
		if rf.Value == nil || json.Unmarshal(rf.Value, &b) != nil {
			verrs.add(path("value"), CodeTypeMismatch,
				"field %q requires a boolean value", field.Name)
			return Filter{}, false
		}
		f.Bool = &b

	default: // numeric scalar
		var n float64
		if rf.Value == nil || json.Unmarshal(rf.Value, &n) != nil {
			verrs.add(path("value"), CodeTypeMismatch,
				"field %q requires a numeric value", field.Name)
			return Filter{}, false
		}
		f.Num = &n
	}

	return f, true
}

var dotIndex = regexp.MustCompile(`\.(\d+)`)

// jsonPath rewrites gojsonschema's dotted paths ("filters.0.op") into the
// bracketed form the semantic pass uses ("filters[0].op").
func jsonPath(field string) string {
	if field == "(root)" {
		return "$"
	}
	return dotIndex.ReplaceAllString(field, "[$1]")
}
