// internal/rules/resolve.go
package rules

import (
	"github.com/solatis/tablekeeper/internal/types"
)

/*
 * Precedence resolution.
 *
 * ResolveOrder computes the deterministic execution order of enabled,
 * non-override rules that a downstream allocation analyzer consumes. The
 * ordering is advisory data; no allocation logic lives here.
 *
 * Totality and uniqueness invariant: every enabled non-override rule appears
 * exactly once in the output even when the manual ordering is incomplete or
 * references unknown/disabled ids. Unknown ids are silently dropped rather
 * than erroring, so a stale override never blocks resolution.
 */

// ResolveOrder returns enabled non-override rules in execution order.
//
// With an enabled precedenceOverride carrying a non-empty ruleIds list, the
// listed ids are placed first (ids not resolving to an enabled non-override
// rule are dropped), then every remaining enabled non-override rule follows
// in its original insertion order. Without one, insertion order stands.
// The override rule itself is never part of the ordering it produces.
func ResolveOrder(set RuleSet) []types.Rule {
	enabled := make([]types.Rule, 0, set.Len())
	var override *types.Rule

	for _, r := range set.All() {
		if !r.Enabled {
			continue
		}
		if r.Kind == types.RulePrecedenceOverride {
			// At most one override is meaningful; the first enabled wins
			if override == nil {
				o := r
				override = &o
			}
			continue
		}
		enabled = append(enabled, r)
	}

	if override == nil || len(override.PrecedenceOverride.RuleIDs) == 0 {
		return enabled
	}

	byID := make(map[types.RuleID]types.Rule, len(enabled))
	for _, r := range enabled {
		byID[r.ID] = r
	}

	ordered := make([]types.Rule, 0, len(enabled))
	placed := make(map[types.RuleID]struct{}, len(enabled))

	for _, id := range override.PrecedenceOverride.RuleIDs {
		r, ok := byID[id]
		if !ok {
			continue
		}
		if _, dup := placed[id]; dup {
			continue
		}
		ordered = append(ordered, r)
		placed[id] = struct{}{}
	}

	for _, r := range enabled {
		if _, done := placed[r.ID]; !done {
			ordered = append(ordered, r)
		}
	}

	return ordered
}

// VisibleRules lists the rules surfaced to downstream consumers: everything
// except precedenceOverride entries, in insertion order, enabled or not.
func VisibleRules(set RuleSet) []types.Rule {
	out := make([]types.Rule, 0, set.Len())
	for _, r := range set.All() {
		if r.Kind == types.RulePrecedenceOverride {
			continue
		}
		out = append(out, r)
	}
	return out
}
