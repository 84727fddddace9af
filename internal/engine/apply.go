// internal/engine/apply.go
package engine

import (
	"github.com/solatis/tablekeeper/internal/types"
)

/*
 * Action application.
 *
 * ApplyActions runs an ordered action list against one already-selected row
 * and returns a fresh copy; the caller's row is never touched. Actions apply
 * strictly in list order against the row's evolving state, so later actions
 * see earlier mutations within the same row.
 *
 * Graceful degradation: a type-incompatible operation is a no-op recorded as
 * a SkippedAction, and an operation outside the declared set is likewise a
 * recorded no-op. Nothing here ever returns an error or panics; the caller
 * decides how to surface the diagnostics.
 *
 * Only set creates a column that does not exist yet. The arithmetic and
 * concatenation operations read the missing value as the current value and
 * fail its type check instead of auto-initializing; silently conjuring a zero
 * or empty string would hide upstream data problems.
 */

// ApplyActions applies actions to a copy of row, reporting whether any
// action actually changed a value and which actions were skipped.
func ApplyActions(row types.Row, actions []types.DataModificationAction) (types.Row, bool, []types.SkippedAction) {
	out := row.Clone()
	changed := false
	var skipped []types.SkippedAction

	for _, action := range actions {
		op := action.Operation
		if op == "" {
			op = types.OpSet
		}

		current := out[action.Column]

		switch op {
		case types.OpSet:
			if !current.Equal(action.NewValue) {
				out[action.Column] = action.NewValue.Clone()
				changed = true
			}

		case types.OpIncrement, types.OpDecrement:
			cur, curOK := current.AsNumber()
			delta, newOK := action.NewValue.AsNumber()
			if !curOK || !newOK {
				skipped = append(skipped, skip(action.Column, op,
					"requires numeric current value and numeric newValue"))
				continue
			}
			if op == types.OpDecrement {
				delta = -delta
			}
			out[action.Column] = types.Number(cur + delta)
			changed = true

		case types.OpAppend, types.OpPrepend:
			if next, ok := concatenate(current, action.NewValue, op == types.OpPrepend); ok {
				out[action.Column] = next
				changed = true
			} else {
				skipped = append(skipped, skip(action.Column, op,
					"requires both values to be strings or both to be lists"))
			}

		default:
			skipped = append(skipped, skip(action.Column, op, "unknown operation"))
		}
	}

	return out, changed, skipped
}

// concatenate joins two strings or two lists, ordering by direction.
func concatenate(current, addition types.Value, prepend bool) (types.Value, bool) {
	if cs, ok := current.AsString(); ok {
		as, ok := addition.AsString()
		if !ok {
			return types.Value{}, false
		}
		if prepend {
			return types.String(as + cs), true
		}
		return types.String(cs + as), true
	}

	if cl, ok := current.AsList(); ok {
		al, ok := addition.AsList()
		if !ok {
			return types.Value{}, false
		}
		merged := make([]types.Value, 0, len(cl)+len(al))
		if prepend {
			merged = append(merged, al...)
			merged = append(merged, cl...)
		} else {
			merged = append(merged, cl...)
			merged = append(merged, al...)
		}
		// Elements are cloned so the result shares nothing with either input
		out := make([]types.Value, len(merged))
		for i, e := range merged {
			out[i] = e.Clone()
		}
		return types.List(out...), true
	}

	return types.Value{}, false
}

func skip(column string, op types.ActionOperation, reason string) types.SkippedAction {
	return types.SkippedAction{
		Column:    column,
		Operation: op,
		Reason:    reason,
	}
}
