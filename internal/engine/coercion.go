// internal/engine/coercion.go
package engine

import (
	"strconv"
	"strings"

	"github.com/solatis/tablekeeper/internal/types"
)

/*
 * Type harmonization for predicate evaluation.
 *
 * Filters arrive with whatever scalar shape the UI or AI collaborator chose,
 * while rows carry whatever the spreadsheet parser produced. Before operator
 * comparison the two sides are harmonized under deliberately narrow rules:
 *
 *   - string <-> number: a string that parses cleanly to a number is coerced
 *     when the other side is already numeric. Whitespace-only and empty
 *     strings are not valid numbers.
 *   - string <-> boolean: only the literals "true"/"false" (case-insensitive)
 *     coerce when the other side is already boolean.
 *
 * Nothing else converts. In particular eq/neq case-insensitivity applies only
 * when both sides remain strings after harmonization; a side coerced from
 * string to number or boolean compares strictly. Widening this (e.g. to
 * case-insensitive numeric strings) was considered and rejected: the narrow
 * behavior is what callers observe today.
 */

// parseNumber attempts a clean numeric parse of a string.
// Empty and whitespace-only strings are not valid numbers.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseBoolLiteral accepts only "true"/"false", case-insensitive.
func parseBoolLiteral(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}

// harmonize applies the narrow cross-type coercions to a row value and a
// filter value before comparison. Values that do not qualify pass through
// unchanged; the operator layer decides what incomparable pairs mean.
func harmonize(rowVal, filterVal types.Value) (types.Value, types.Value) {
	// string <-> number, both directions
	if s, ok := rowVal.AsString(); ok {
		if _, isNum := filterVal.AsNumber(); isNum {
			if f, parsed := parseNumber(s); parsed {
				return types.Number(f), filterVal
			}
		}
	}
	if s, ok := filterVal.AsString(); ok {
		if _, isNum := rowVal.AsNumber(); isNum {
			if f, parsed := parseNumber(s); parsed {
				return rowVal, types.Number(f)
			}
		}
	}

	// string <-> boolean, literals only
	if s, ok := rowVal.AsString(); ok {
		if _, isBool := filterVal.AsBool(); isBool {
			if b, parsed := parseBoolLiteral(s); parsed {
				return types.Bool(b), filterVal
			}
		}
	}
	if s, ok := filterVal.AsString(); ok {
		if _, isBool := rowVal.AsBool(); isBool {
			if b, parsed := parseBoolLiteral(s); parsed {
				return rowVal, types.Bool(b)
			}
		}
	}

	return rowVal, filterVal
}
