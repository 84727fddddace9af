// internal/engine/structural.go
package engine

import (
	"fmt"

	"github.com/solatis/tablekeeper/internal/types"
)

/*
 * Structural validation of externally supplied instructions.
 *
 * Filter/action bundles may come from an AI collaborator that translated
 * free text; the shapes are checked defensively before any row is touched.
 * Rejection is wholesale: a bundle with one malformed entry applies nothing.
 *
 * Distinct from schema validation: this guards the instruction itself, not
 * the data. Unknown operators inside an accepted bundle still evaluate as
 * non-matches; the structural check exists so a caller learns about a
 * malformed instruction up front instead of silently matching zero rows.
 */

// ValidateInstructions shape-checks a filter/action bundle.
// Both arrays must be present (empty is allowed), every column named, and
// every operator and operation inside the declared sets.
func ValidateInstructions(instr types.DataModificationInstructions) error {
	if instr.Filters == nil {
		return fmt.Errorf("%w: filters array missing", types.ErrStructural)
	}
	if instr.Actions == nil {
		return fmt.Errorf("%w: actions array missing", types.ErrStructural)
	}

	for i, f := range instr.Filters {
		if f.Column == "" {
			return fmt.Errorf("%w: filter %d has no column", types.ErrStructural, i)
		}
		if !types.KnownOperator(f.Operator) {
			return fmt.Errorf("%w: filter %d: %q: %s",
				types.ErrStructural, i, f.Operator, types.ErrUnknownOperator)
		}
	}

	for i, a := range instr.Actions {
		if a.Column == "" {
			return fmt.Errorf("%w: action %d has no column", types.ErrStructural, i)
		}
		if !types.KnownOperation(a.Operation) {
			return fmt.Errorf("%w: action %d: %q: %s",
				types.ErrStructural, i, a.Operation, types.ErrUnknownOperation)
		}
	}

	return nil
}
