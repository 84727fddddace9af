// internal/rules/ruleset.go
package rules

import (
	"fmt"

	"github.com/solatis/tablekeeper/internal/types"
)

/*
 * RuleSet is an immutable snapshot of the caller-owned rule collection.
 *
 * The engine holds no rule state between calls: every update produces a new
 * RuleSet and the caller decides what to do with it. This keeps the
 * precedence resolver trivially pure and makes concurrent readers safe
 * without locking (concurrent writers are the caller's problem, as with any
 * snapshot type).
 */

// RuleSet is an ordered, immutable rule collection. Order is insertion
// order, which the precedence resolver uses as the fallback ordering.
type RuleSet struct {
	rules []types.Rule
}

// NewRuleSet builds a snapshot from a rule sequence, validating every rule
// and rejecting duplicates and oversized collections.
func NewRuleSet(rules []types.Rule) (RuleSet, error) {
	if len(rules) > types.MaxRuleSetSize {
		return RuleSet{}, types.ErrRuleSetTooLarge
	}
	seen := make(map[types.RuleID]struct{}, len(rules))
	for i, r := range rules {
		if err := ValidateRule(r); err != nil {
			return RuleSet{}, fmt.Errorf("rule %d (%s): %w", i, r.ID, err)
		}
		if _, dup := seen[r.ID]; dup {
			return RuleSet{}, fmt.Errorf("%w: %s", types.ErrDuplicateRuleID, r.ID)
		}
		seen[r.ID] = struct{}{}
	}

	snapshot := make([]types.Rule, len(rules))
	copy(snapshot, rules)
	return RuleSet{rules: snapshot}, nil
}

// Len returns the number of rules in the set.
func (s RuleSet) Len() int { return len(s.rules) }

// All returns the rules in insertion order. The slice is a copy.
func (s RuleSet) All() []types.Rule {
	out := make([]types.Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Get looks a rule up by id.
func (s RuleSet) Get(id types.RuleID) (types.Rule, bool) {
	for _, r := range s.rules {
		if r.ID == id {
			return r, true
		}
	}
	return types.Rule{}, false
}

// Add returns a new set with the rule appended.
func (s RuleSet) Add(rule types.Rule) (RuleSet, error) {
	if err := ValidateRule(rule); err != nil {
		return RuleSet{}, err
	}
	if _, exists := s.Get(rule.ID); exists {
		return RuleSet{}, fmt.Errorf("%w: %s", types.ErrDuplicateRuleID, rule.ID)
	}
	if len(s.rules)+1 > types.MaxRuleSetSize {
		return RuleSet{}, types.ErrRuleSetTooLarge
	}
	next := make([]types.Rule, len(s.rules), len(s.rules)+1)
	copy(next, s.rules)
	return RuleSet{rules: append(next, rule)}, nil
}

// Remove returns a new set without the identified rule. Removing an unknown
// id returns the set unchanged.
func (s RuleSet) Remove(id types.RuleID) RuleSet {
	next := make([]types.Rule, 0, len(s.rules))
	for _, r := range s.rules {
		if r.ID != id {
			next = append(next, r)
		}
	}
	return RuleSet{rules: next}
}

// SetEnabled returns a new set with the identified rule toggled.
func (s RuleSet) SetEnabled(id types.RuleID, enabled bool) RuleSet {
	next := make([]types.Rule, len(s.rules))
	copy(next, s.rules)
	for i := range next {
		if next[i].ID == id {
			next[i].Enabled = enabled
		}
	}
	return RuleSet{rules: next}
}
