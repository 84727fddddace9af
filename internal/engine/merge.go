// internal/engine/merge.go
package engine

import (
	"strings"

	"github.com/solatis/tablekeeper/internal/types"
)

// MergeIssues folds AI-proposed issues into a static issue list.
//
// An AI issue identical in (row, column case-insensitive, message) to an
// existing static issue is a duplicate: it only contributes a missing
// suggestedCorrection or confidence onto the existing entry. Everything else
// is appended as new. Neither input slice is mutated.
func MergeIssues(static, ai []types.ValidationIssue) []types.ValidationIssue {
	merged := make([]types.ValidationIssue, len(static))
	copy(merged, static)

	for _, candidate := range ai {
		idx := -1
		for i, existing := range merged {
			if existing.Row == candidate.Row &&
				strings.EqualFold(existing.Column, candidate.Column) &&
				existing.Message == candidate.Message {
				idx = i
				break
			}
		}

		if idx == -1 {
			merged = append(merged, candidate)
			continue
		}

		if merged[idx].Suggested == nil && candidate.Suggested != nil {
			suggestion := *candidate.Suggested
			merged[idx].Suggested = &suggestion
		}
		if merged[idx].AIConfidence == 0 && candidate.AIConfidence != 0 {
			merged[idx].AIConfidence = candidate.AIConfidence
		}
	}

	return merged
}
