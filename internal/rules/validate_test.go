// internal/rules/validate_test.go
package rules

import (
	"errors"
	"testing"

	"github.com/solatis/tablekeeper/internal/types"
)

func TestValidateRule_AcceptsEveryKind(t *testing.T) {
	phase := 2
	tests := []struct {
		name string
		rule types.Rule
	}{
		{
			name: "coRun",
			rule: types.Rule{
				ID: "R1", Kind: types.RuleCoRun, Source: types.SourceManual,
				CoRun: &types.CoRunSpec{TaskIDs: []string{"T1", "T2"}},
			},
		},
		{
			name: "slotRestriction",
			rule: types.Rule{
				ID: "R2", Kind: types.RuleSlotRestriction, Source: types.SourceAI,
				SlotRestriction: &types.SlotRestrictionSpec{
					GroupType:      types.GroupWorkers,
					GroupName:      "backend",
					MinCommonSlots: 2,
				},
			},
		},
		{
			name: "loadLimit",
			rule: types.Rule{
				ID: "R3", Kind: types.RuleLoadLimit, Source: types.SourceManual,
				LoadLimit: &types.LoadLimitSpec{WorkerGroup: "backend", MaxLoad: 5, Phase: &phase},
			},
		},
		{
			name: "phaseWindow with ranges",
			rule: types.Rule{
				ID: "R4", Kind: types.RulePhaseWindow, Source: types.SourceManual,
				PhaseWindow: &types.PhaseWindowSpec{
					TaskID:        "T1",
					AllowedPhases: []types.PhaseRef{{Num: 1}, {Range: "3-5", IsRange: true}},
				},
			},
		},
		{
			name: "patternMatch",
			rule: types.Rule{
				ID: "R5", Kind: types.RulePatternMatch, Source: types.SourceManual,
				PatternMatch: &types.PatternMatchSpec{
					Entity: "tasks", Column: "name", Regex: `^URGENT`,
					Action: types.PatternFlag,
				},
			},
		},
		{
			name: "precedenceOverride",
			rule: types.Rule{
				ID: "R6", Kind: types.RulePrecedenceOverride, Source: types.SourceManual,
				PrecedenceOverride: &types.PrecedenceOverrideSpec{RuleIDs: []types.RuleID{"R1"}},
			},
		},
		{
			name: "naturalLanguage with concrete suggestion",
			rule: types.Rule{
				ID: "R7", Kind: types.RuleNaturalLanguage, Source: types.SourceNaturalLanguage,
				NaturalLanguage: &types.NaturalLanguageSpec{
					OriginalPrompt: "tasks T1 and T2 must run together",
					Confidence:     0.8,
					Suggested: &types.Rule{
						ID: "R7-s", Kind: types.RuleCoRun, Source: types.SourceAI,
						CoRun: &types.CoRunSpec{TaskIDs: []string{"T1", "T2"}},
					},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateRule(tt.rule); err != nil {
				t.Errorf("ValidateRule() error = %v, want nil", err)
			}
		})
	}
}

func TestValidateRule_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		rule    types.Rule
		wantErr error
	}{
		{
			name:    "missing id",
			rule:    types.Rule{Kind: types.RuleCoRun, Source: types.SourceManual, CoRun: &types.CoRunSpec{TaskIDs: []string{}}},
			wantErr: types.ErrStructural,
		},
		{
			name:    "unknown kind",
			rule:    types.Rule{ID: "R1", Kind: "banRule", Source: types.SourceManual},
			wantErr: types.ErrUnknownRuleKind,
		},
		{
			name:    "unknown source",
			rule:    types.Rule{ID: "R1", Kind: types.RuleCoRun, Source: "imported", CoRun: &types.CoRunSpec{TaskIDs: []string{}}},
			wantErr: types.ErrStructural,
		},
		{
			name:    "kind without payload",
			rule:    types.Rule{ID: "R1", Kind: types.RuleCoRun, Source: types.SourceManual},
			wantErr: types.ErrRuleSpecMismatch,
		},
		{
			name: "kind with foreign payload",
			rule: types.Rule{
				ID: "R1", Kind: types.RuleCoRun, Source: types.SourceManual,
				CoRun:     &types.CoRunSpec{TaskIDs: []string{}},
				LoadLimit: &types.LoadLimitSpec{},
			},
			wantErr: types.ErrRuleSpecMismatch,
		},
		{
			name: "coRun taskIds missing",
			rule: types.Rule{
				ID: "R1", Kind: types.RuleCoRun, Source: types.SourceManual,
				CoRun: &types.CoRunSpec{},
			},
			wantErr: types.ErrStructural,
		},
		{
			name: "slotRestriction bad groupType",
			rule: types.Rule{
				ID: "R1", Kind: types.RuleSlotRestriction, Source: types.SourceManual,
				SlotRestriction: &types.SlotRestrictionSpec{GroupType: "teamGroup"},
			},
			wantErr: types.ErrStructural,
		},
		{
			name: "slotRestriction negative slots",
			rule: types.Rule{
				ID: "R1", Kind: types.RuleSlotRestriction, Source: types.SourceManual,
				SlotRestriction: &types.SlotRestrictionSpec{GroupType: types.GroupClients, MinCommonSlots: -1},
			},
			wantErr: types.ErrStructural,
		},
		{
			name: "loadLimit negative maxLoad",
			rule: types.Rule{
				ID: "R1", Kind: types.RuleLoadLimit, Source: types.SourceManual,
				LoadLimit: &types.LoadLimitSpec{WorkerGroup: "g", MaxLoad: -1},
			},
			wantErr: types.ErrStructural,
		},
		{
			name: "phaseWindow inverted range",
			rule: types.Rule{
				ID: "R1", Kind: types.RulePhaseWindow, Source: types.SourceManual,
				PhaseWindow: &types.PhaseWindowSpec{
					TaskID:        "T1",
					AllowedPhases: []types.PhaseRef{{Range: "5-3", IsRange: true}},
				},
			},
			wantErr: types.ErrStructural,
		},
		{
			name: "patternMatch invalid regex",
			rule: types.Rule{
				ID: "R1", Kind: types.RulePatternMatch, Source: types.SourceManual,
				PatternMatch: &types.PatternMatchSpec{Regex: `([`, Action: types.PatternFlag},
			},
			wantErr: types.ErrStructural,
		},
		{
			name: "patternMatch unknown action",
			rule: types.Rule{
				ID: "R1", Kind: types.RulePatternMatch, Source: types.SourceManual,
				PatternMatch: &types.PatternMatchSpec{Regex: `ok`, Action: "delete"},
			},
			wantErr: types.ErrStructural,
		},
		{
			name: "naturalLanguage confidence out of range",
			rule: types.Rule{
				ID: "R1", Kind: types.RuleNaturalLanguage, Source: types.SourceNaturalLanguage,
				NaturalLanguage: &types.NaturalLanguageSpec{Confidence: 1.5},
			},
			wantErr: types.ErrStructural,
		},
		{
			name: "nested naturalLanguage suggestion",
			rule: types.Rule{
				ID: "R1", Kind: types.RuleNaturalLanguage, Source: types.SourceNaturalLanguage,
				NaturalLanguage: &types.NaturalLanguageSpec{
					Confidence: 0.5,
					Suggested: &types.Rule{
						ID: "R1-s", Kind: types.RuleNaturalLanguage, Source: types.SourceAI,
						NaturalLanguage: &types.NaturalLanguageSpec{Confidence: 0.5},
					},
				},
			},
			wantErr: types.ErrNestedNaturalLanguage,
		},
		{
			name: "invalid suggestion rejected recursively",
			rule: types.Rule{
				ID: "R1", Kind: types.RuleNaturalLanguage, Source: types.SourceNaturalLanguage,
				NaturalLanguage: &types.NaturalLanguageSpec{
					Confidence: 0.5,
					Suggested: &types.Rule{
						ID: "R1-s", Kind: types.RuleCoRun, Source: types.SourceAI,
						CoRun: &types.CoRunSpec{},
					},
				},
			},
			wantErr: types.ErrStructural,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRule(tt.rule)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateRule() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewRuleSet_DuplicateIDs(t *testing.T) {
	_, err := NewRuleSet([]types.Rule{coRunRule("R1", true), coRunRule("R1", true)})
	if !errors.Is(err, types.ErrDuplicateRuleID) {
		t.Errorf("err = %v, want ErrDuplicateRuleID", err)
	}
}

func TestRuleSet_Immutability(t *testing.T) {
	set := mustSet(t, coRunRule("R1", true))

	t.Run("Add leaves the original untouched", func(t *testing.T) {
		bigger, err := set.Add(coRunRule("R2", true))
		if err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		if set.Len() != 1 || bigger.Len() != 2 {
			t.Errorf("lengths = %d/%d, want 1/2", set.Len(), bigger.Len())
		}
	})

	t.Run("Add rejects duplicates", func(t *testing.T) {
		if _, err := set.Add(coRunRule("R1", true)); !errors.Is(err, types.ErrDuplicateRuleID) {
			t.Errorf("err = %v, want ErrDuplicateRuleID", err)
		}
	})

	t.Run("Remove unknown id is a no-op", func(t *testing.T) {
		next := set.Remove("ghost")
		if next.Len() != set.Len() {
			t.Errorf("len = %d, want %d", next.Len(), set.Len())
		}
	})

	t.Run("SetEnabled produces a new snapshot", func(t *testing.T) {
		next := set.SetEnabled("R1", false)
		orig, _ := set.Get("R1")
		toggled, _ := next.Get("R1")
		if !orig.Enabled {
			t.Error("original snapshot mutated")
		}
		if toggled.Enabled {
			t.Error("toggle did not apply to new snapshot")
		}
	})

	t.Run("All returns a copy", func(t *testing.T) {
		all := set.All()
		all[0].ID = "mutated"
		fresh, _ := set.Get("R1")
		if fresh.ID != "R1" {
			t.Error("mutating All() result leaked into the set")
		}
	})
}
