// internal/rules/resolve_test.go
package rules

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/solatis/tablekeeper/internal/types"
)

func coRunRule(id string, enabled bool) types.Rule {
	return types.Rule{
		ID:      types.RuleID(id),
		Kind:    types.RuleCoRun,
		Enabled: enabled,
		Source:  types.SourceManual,
		CoRun:   &types.CoRunSpec{TaskIDs: []string{"T1", "T2"}},
	}
}

func overrideRule(id string, enabled bool, ids ...types.RuleID) types.Rule {
	return types.Rule{
		ID:                 types.RuleID(id),
		Kind:               types.RulePrecedenceOverride,
		Enabled:            enabled,
		Source:             types.SourceManual,
		PrecedenceOverride: &types.PrecedenceOverrideSpec{RuleIDs: append([]types.RuleID{}, ids...)},
	}
}

func mustSet(t *testing.T, ruleList ...types.Rule) RuleSet {
	t.Helper()
	set, err := NewRuleSet(ruleList)
	if err != nil {
		t.Fatalf("NewRuleSet() error = %v", err)
	}
	return set
}

func orderedIDs(ruleList []types.Rule) []types.RuleID {
	out := make([]types.RuleID, len(ruleList))
	for i, r := range ruleList {
		out[i] = r.ID
	}
	return out
}

func sameIDs(a []types.RuleID, b ...types.RuleID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestResolveOrder_InsertionOrderWithoutOverride(t *testing.T) {
	set := mustSet(t, coRunRule("R1", true), coRunRule("R2", true), coRunRule("R3", true))

	got := orderedIDs(ResolveOrder(set))
	if !sameIDs(got, "R1", "R2", "R3") {
		t.Errorf("order = %v, want [R1 R2 R3]", got)
	}
}

func TestResolveOrder_OverridePlacesListedFirst(t *testing.T) {
	set := mustSet(t,
		coRunRule("R1", true),
		coRunRule("R2", true),
		coRunRule("R3", true),
		overrideRule("O1", true, "R3", "R1"),
	)

	got := orderedIDs(ResolveOrder(set))
	if !sameIDs(got, "R3", "R1", "R2") {
		t.Errorf("order = %v, want [R3 R1 R2]", got)
	}
}

func TestResolveOrder_DisabledRulesExcluded(t *testing.T) {
	set := mustSet(t,
		coRunRule("R1", true),
		coRunRule("R2", false),
		coRunRule("R3", true),
		overrideRule("O1", true, "R2", "R3"),
	)

	// R2 is disabled: dropped from the override silently
	got := orderedIDs(ResolveOrder(set))
	if !sameIDs(got, "R3", "R1") {
		t.Errorf("order = %v, want [R3 R1]", got)
	}
}

func TestResolveOrder_UnknownIDsDropped(t *testing.T) {
	set := mustSet(t,
		coRunRule("R1", true),
		overrideRule("O1", true, "ghost", "R1"),
	)

	got := orderedIDs(ResolveOrder(set))
	if !sameIDs(got, "R1") {
		t.Errorf("order = %v, want [R1]", got)
	}
}

func TestResolveOrder_DisabledOverrideIgnored(t *testing.T) {
	set := mustSet(t,
		coRunRule("R1", true),
		coRunRule("R2", true),
		overrideRule("O1", false, "R2", "R1"),
	)

	got := orderedIDs(ResolveOrder(set))
	if !sameIDs(got, "R1", "R2") {
		t.Errorf("order = %v, want [R1 R2]", got)
	}
}

func TestResolveOrder_FirstEnabledOverrideWins(t *testing.T) {
	set := mustSet(t,
		coRunRule("R1", true),
		coRunRule("R2", true),
		overrideRule("O1", true, "R2"),
		overrideRule("O2", true, "R1"),
	)

	got := orderedIDs(ResolveOrder(set))
	if !sameIDs(got, "R2", "R1") {
		t.Errorf("order = %v, want [R2 R1]", got)
	}
}

func TestResolveOrder_EmptyOverrideListFallsBack(t *testing.T) {
	set := mustSet(t,
		coRunRule("R1", true),
		coRunRule("R2", true),
		overrideRule("O1", true),
	)

	got := orderedIDs(ResolveOrder(set))
	if !sameIDs(got, "R1", "R2") {
		t.Errorf("order = %v, want [R1 R2]", got)
	}
}

func TestResolveOrder_OverrideNeverInOutput(t *testing.T) {
	set := mustSet(t,
		coRunRule("R1", true),
		overrideRule("O1", true, "O1", "R1"), // self-reference is just an unknown id
	)

	for _, r := range ResolveOrder(set) {
		if r.Kind == types.RulePrecedenceOverride {
			t.Errorf("override %s leaked into the ordering", r.ID)
		}
	}
}

func TestVisibleRules_ExcludesOverrides(t *testing.T) {
	set := mustSet(t,
		coRunRule("R1", true),
		coRunRule("R2", false), // disabled rules stay visible
		overrideRule("O1", true, "R1"),
	)

	got := orderedIDs(VisibleRules(set))
	if !sameIDs(got, "R1", "R2") {
		t.Errorf("visible = %v, want [R1 R2]", got)
	}
}

// Property-based test: resolution totality and uniqueness
func TestResolveOrder_PropertyTotalUnique(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("every enabled non-override rule appears exactly once", prop.ForAll(
		func(count int, enabledMask int, overridePick int) bool {
			ruleList := make([]types.Rule, 0, count+1)
			for i := 0; i < count; i++ {
				ruleList = append(ruleList,
					coRunRule(fmt.Sprintf("R%d", i), enabledMask&(1<<i) != 0))
			}
			// Override references a mix of real, disabled, and unknown ids
			ruleList = append(ruleList, overrideRule("O", true,
				types.RuleID(fmt.Sprintf("R%d", overridePick%max(count, 1))),
				"ghost",
			))

			set, err := NewRuleSet(ruleList)
			if err != nil {
				return false
			}

			resolved := ResolveOrder(set)
			seen := make(map[types.RuleID]int)
			for _, r := range resolved {
				seen[r.ID]++
			}

			for _, r := range ruleList {
				if r.Kind == types.RulePrecedenceOverride {
					if seen[r.ID] != 0 {
						return false
					}
					continue
				}
				want := 0
				if r.Enabled {
					want = 1
				}
				if seen[r.ID] != want {
					return false
				}
			}
			return len(resolved) == len(seen)
		},
		gen.IntRange(1, 10),
		gen.IntRange(0, 1023),
		gen.IntRange(0, 9),
	))

	properties.TestingRun(t)
}
