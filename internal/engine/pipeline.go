// internal/engine/pipeline.go
package engine

import (
	"github.com/solatis/tablekeeper/internal/types"
)

/*
 * Table-level pipeline: predicate evaluation plus action application over a
 * whole dataset, followed by a fresh validation pass.
 *
 * The input dataset is deep-copied before anything runs; the caller's rows
 * and their list cells are never mutated. The structural check runs first so
 * a malformed instruction bundle rejects wholesale with zero rows touched.
 */

// PipelineResult is the outcome of one bulk modification run.
type PipelineResult struct {
	Rows        []types.Row             `json:"rows"`
	ChangedRows int                     `json:"changedRows"`
	Skipped     []types.SkippedAction   `json:"skippedActions"`
	Issues      []types.ValidationIssue `json:"issues"`
}

// Run selects rows with the instruction's filters, applies its actions in
// order, and re-validates the resulting dataset. Returns an error only for
// structurally invalid instructions; per-action incompatibilities surface as
// skipped-action diagnostics in the result.
func Run(rows []types.Row, category types.Category, instr types.DataModificationInstructions) (*PipelineResult, error) {
	if err := ValidateInstructions(instr); err != nil {
		return nil, err
	}

	out := types.CloneRows(rows)
	result := &PipelineResult{Skipped: make([]types.SkippedAction, 0)}

	for i := range out {
		if !Matches(out[i], instr.Filters) {
			continue
		}
		next, changed, skipped := ApplyActions(out[i], instr.Actions)
		out[i] = next
		if changed {
			result.ChangedRows++
		}
		result.Skipped = append(result.Skipped, skipped...)
	}

	result.Rows = out
	result.Issues = Validate(out, category)
	return result, nil
}
