package trend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndValidate_Valid(t *testing.T) {
	doc := []byte(`{
		"teamId": 7,
		"competition": "EPL",
		"seasons": ["2023-2024", "2022-2023"],
		"filters": [
			{"field": "possession", "op": "<", "value": 50},
			{"field": "isHome", "op": "=", "value": true},
			{"field": "corners", "op": "between", "value": [3, 8]}
		],
		"outcomes": ["win_rate", "btts_rate"]
	}`)

	q, err := ParseAndValidate(doc)
	require.NoError(t, err)
	require.NotNil(t, q)

	assert.Equal(t, "epl", q.Competition, "competition is lower-cased")
	assert.Equal(t, []string{"2022-2023", "2023-2024"}, q.Seasons, "seasons sorted ascending")
	require.NotNil(t, q.TeamID)
	assert.Equal(t, 7, *q.TeamID)

	// Filters sorted by field, operator, value.
	require.Len(t, q.Filters, 3)
	assert.Equal(t, "corners", q.Filters[0].Field)
	assert.Equal(t, "isHome", q.Filters[1].Field)
	assert.Equal(t, "possession", q.Filters[2].Field)

	assert.Equal(t, []string{"btts_rate", "win_rate"}, q.Outcomes)
	assert.Empty(t, q.IgnoredOutcomes)
}

func TestParseAndValidate_Violations(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		wantCode string
		wantPath string
	}{
		{
			name: "unknown field",
			doc: `{"competition": "epl", "seasons": ["2023-2024"],
				"filters": [{"field": "unknownStat", "op": "<", "value": 5}]}`,
			wantCode: CodeUnknownField,
			wantPath: "filters[0].field",
		},
		{
			name: "unknown operator",
			doc: `{"competition": "epl", "seasons": ["2023-2024"],
				"filters": [{"field": "corners", "op": "~", "value": 5}]}`,
			wantCode: CodeUnknownOperator,
			wantPath: "filters[0].op",
		},
		{
			name: "boolean value for numeric field",
			doc: `{"competition": "epl", "seasons": ["2023-2024"],
				"filters": [{"field": "possession", "op": "<", "value": true}]}`,
			wantCode: CodeTypeMismatch,
			wantPath: "filters[0].value",
		},
		{
			name: "numeric value for boolean field",
			doc: `{"competition": "epl", "seasons": ["2023-2024"],
				"filters": [{"field": "isHome", "op": "=", "value": 5}]}`,
			wantCode: CodeTypeMismatch,
			wantPath: "filters[0].value",
		},
		{
			name: "ordering operator on boolean field",
			doc: `{"competition": "epl", "seasons": ["2023-2024"],
				"filters": [{"field": "isHome", "op": "<", "value": true}]}`,
			wantCode: CodeTypeMismatch,
			wantPath: "filters[0].op",
		},
		{
			name: "between with scalar value",
			doc: `{"competition": "epl", "seasons": ["2023-2024"],
				"filters": [{"field": "xg", "op": "between", "value": 2}]}`,
			wantCode: CodeMalformedRange,
			wantPath: "filters[0].value",
		},
		{
			name: "between with reversed bounds",
			doc: `{"competition": "epl", "seasons": ["2023-2024"],
				"filters": [{"field": "xg", "op": "between", "value": [3, 1]}]}`,
			wantCode: CodeMalformedRange,
			wantPath: "filters[0].value",
		},
		{
			name: "between with three elements",
			doc: `{"competition": "epl", "seasons": ["2023-2024"],
				"filters": [{"field": "xg", "op": "between", "value": [1, 2, 3]}]}`,
			wantCode: CodeMalformedRange,
			wantPath: "filters[0].value",
		},
		{
			name: "missing value",
			doc: `{"competition": "epl", "seasons": ["2023-2024"],
				"filters": [{"field": "shots", "op": ">"}]}`,
			wantCode: CodeTypeMismatch,
			wantPath: "filters[0].value",
		},
		{
			name:     "missing competition",
			doc:      `{"seasons": ["2023-2024"]}`,
			wantCode: CodeMalformedQuery,
			wantPath: "$",
		},
		{
			name:     "empty seasons",
			doc:      `{"competition": "epl", "seasons": []}`,
			wantCode: CodeMalformedQuery,
			wantPath: "seasons",
		},
		{
			name:     "teamId wrong type",
			doc:      `{"teamId": "seven", "competition": "epl", "seasons": ["2023-2024"]}`,
			wantCode: CodeMalformedQuery,
			wantPath: "teamId",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := ParseAndValidate([]byte(tt.doc))
			assert.Nil(t, q, "no partial result on validation failure")
			var verrs *ValidationErrors
			require.ErrorAs(t, err, &verrs)

			found := false
			for _, v := range verrs.Violations {
				if v.Code == tt.wantCode && v.Path == tt.wantPath {
					found = true
				}
			}
			assert.True(t, found, "want violation %s at %s, got %+v",
				tt.wantCode, tt.wantPath, verrs.Violations)
		})
	}
}

func TestParseAndValidate_CollectsAllViolations(t *testing.T) {
	doc := []byte(`{
		"competition": "epl",
		"seasons": ["2023-2024"],
		"filters": [
			{"field": "bogus", "op": "<", "value": 1},
			{"field": "corners", "op": "~", "value": 1},
			{"field": "xg", "op": "between", "value": [9, 2]}
		],
		"outcomes": ["nope"]
	}`)

	q, err := ParseAndValidate(doc)
	assert.Nil(t, q)
	var verrs *ValidationErrors
	require.ErrorAs(t, err, &verrs)

	codes := make([]string, len(verrs.Violations))
	for i, v := range verrs.Violations {
		codes[i] = v.Code
	}
	assert.Contains(t, codes, CodeUnknownField)
	assert.Contains(t, codes, CodeUnknownOperator)
	assert.Contains(t, codes, CodeMalformedRange)
	assert.Contains(t, codes, CodeUnknownOutcome, "outcome violations are reported alongside")
	assert.Len(t, verrs.Violations, 4)
}

func TestParseAndValidate_UnknownOutcomeIsNotFatal(t *testing.T) {
	doc := []byte(`{
		"competition": "epl",
		"seasons": ["2023-2024"],
		"filters": [],
		"outcomes": ["win_rate", "sacked_manager_rate"]
	}`)

	q, err := ParseAndValidate(doc)
	require.NoError(t, err, "unknown outcome alone does not fail validation")
	require.NotNil(t, q)
	assert.Equal(t, []string{"win_rate"}, q.Outcomes)
	assert.Equal(t, []string{"sacked_manager_rate"}, q.IgnoredOutcomes)
}

func TestParseAndValidate_OutOfBoundsValueIsLegal(t *testing.T) {
	// possession > 100 is syntactically legal; it just matches nothing.
	doc := []byte(`{
		"competition": "epl",
		"seasons": ["2023-2024"],
		"filters": [{"field": "possession", "op": ">", "value": 150}]}`)

	q, err := ParseAndValidate(doc)
	require.NoError(t, err)
	require.Len(t, q.Filters, 1)
	assert.Equal(t, 150.0, *q.Filters[0].Num)
}
