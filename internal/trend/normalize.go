package trend

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
)

// Normalize rewrites a query into its canonical, cache-key-stable form:
// competition lower-cased, seasons and outcomes sorted and de-duplicated,
// filters ordered by field, then operator, then serialized value. The
// operation is idempotent and insensitive to the input ordering of
// filters and seasons, so two semantically identical queries normalize
// to byte-identical canonical documents.
func Normalize(q *TrendQuery) {
	q.Competition = strings.ToLower(q.Competition)
	q.Seasons = sortUnique(q.Seasons)
	q.Outcomes = sortUnique(q.Outcomes)

	sort.SliceStable(q.Filters, func(i, j int) bool {
		a, b := q.Filters[i], q.Filters[j]
		if a.Field != b.Field {
			return a.Field < b.Field
		}
		if a.Op != b.Op {
			return a.Op < b.Op
		}
		return a.valueJSON() < b.valueJSON()
	})
}

// CanonicalJSON returns the canonical serialization of a query. The input
// is re-normalized first so the result is stable no matter where the
// query came from.
func CanonicalJSON(q TrendQuery) []byte {
	q.Seasons = append([]string(nil), q.Seasons...)
	q.Outcomes = append([]string(nil), q.Outcomes...)
	q.Filters = append([]Filter(nil), q.Filters...)
	Normalize(&q)

	// Filters marshal through Filter.MarshalJSON; struct field order is
	// fixed, so the output is deterministic.
	out, err := json.Marshal(q)
	if err != nil {
		// Only reachable with NaN/Inf filter values, which validation
		// cannot produce from a JSON document.
		panic("trend: canonical serialization failed: " + err.Error())
	}
	return out
}

// CacheKey derives the cache key for a query from its canonical form.
// Queries that normalize identically share a key even when submitted in
// different literal forms.
func CacheKey(q TrendQuery) string {
	sum := sha256.Sum256(CanonicalJSON(q))
	return hex.EncodeToString(sum[:])
}

func sortUnique(in []string) []string {
	if len(in) == 0 {
		return in
	}
	sort.Strings(in)
	out := in[:1]
	for _, s := range in[1:] {
		if s != out[len(out)-1] {
			out = append(out, s)
		}
	}
	return out
}
