// internal/engine/evaluate.go
package engine

import (
	"strings"

	"github.com/solatis/tablekeeper/internal/types"
)

/*
 * Predicate evaluation.
 *
 * Matches applies an ordered filter list to one row with AND semantics and
 * short-circuits on the first non-match. Evaluation fails closed: a missing
 * value, an incomparable type pair, or an operator outside the declared set
 * excludes the row rather than including it, and nothing here ever panics
 * or returns an error.
 *
 * Why function-based: ten operators via switch statement is cleaner than ten
 * interface implementations with minimal behavior variation.
 */

// Matches reports whether the row satisfies every filter in order.
// An empty filter list matches every row.
func Matches(row types.Row, filters []types.DataFilter) bool {
	for _, f := range filters {
		if !matchFilter(row, f) {
			return false
		}
	}
	return true
}

// matchFilter evaluates one filter: missing value check, harmonization,
// operator comparison.
func matchFilter(row types.Row, f types.DataFilter) bool {
	val, ok := row[f.Column]
	if !ok || val.IsAbsent() {
		return false
	}

	a, b := harmonize(val, f.Value)
	return compare(f.Operator, a, b)
}

// compare applies the operator to harmonized values.
// Unknown operators are a guaranteed non-match.
func compare(op types.FilterOperator, a, b types.Value) bool {
	switch op {
	case types.OpEq:
		return equalValues(a, b)
	case types.OpNeq:
		return !equalValues(a, b)
	case types.OpGt:
		return compareNumeric(a, b, func(x, y float64) bool { return x > y })
	case types.OpLt:
		return compareNumeric(a, b, func(x, y float64) bool { return x < y })
	case types.OpGte:
		return compareNumeric(a, b, func(x, y float64) bool { return x >= y })
	case types.OpLte:
		return compareNumeric(a, b, func(x, y float64) bool { return x <= y })
	case types.OpContains:
		return compareStrings(a, b, strings.Contains)
	case types.OpNotContains:
		return compareStrings(a, b, func(s, sub string) bool { return !strings.Contains(s, sub) })
	case types.OpStartsWith:
		return compareStrings(a, b, strings.HasPrefix)
	case types.OpEndsWith:
		return compareStrings(a, b, strings.HasSuffix)
	default:
		return false
	}
}

// equalValues compares case-insensitively only when both sides remained
// strings after harmonization; everything else compares strictly. Lists and
// opaque payloads are never equal to anything, matching the reference
// semantics of identity comparison on collections.
func equalValues(a, b types.Value) bool {
	as, aok := a.AsString()
	bs, bok := b.AsString()
	if aok && bok {
		return strings.EqualFold(as, bs)
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case types.KindNumber:
		an, _ := a.AsNumber()
		bn, _ := b.AsNumber()
		return an == bn
	case types.KindBool:
		ab, _ := a.AsBool()
		bb, _ := b.AsBool()
		return ab == bb
	default:
		return false
	}
}

// compareNumeric requires both sides numeric after harmonization.
func compareNumeric(a, b types.Value, cmp func(x, y float64) bool) bool {
	an, aok := a.AsNumber()
	bn, bok := b.AsNumber()
	if !aok || !bok {
		return false
	}
	return cmp(an, bn)
}

// compareStrings requires both sides to be strings; comparison is
// case-insensitive.
func compareStrings(a, b types.Value, cmp func(s, sub string) bool) bool {
	as, aok := a.AsString()
	bs, bok := b.AsString()
	if !aok || !bok {
		return false
	}
	return cmp(strings.ToLower(as), strings.ToLower(bs))
}
