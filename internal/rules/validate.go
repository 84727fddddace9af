// internal/rules/validate.go
package rules

import (
	"fmt"
	"regexp"

	"github.com/solatis/tablekeeper/internal/types"
)

/*
 * Structural validation of rules.
 *
 * Rules arrive from manual editing, file import, and AI translation of free
 * text, so every rule is shape-checked before entering a RuleSet: the kind
 * tag must be in the declared union, exactly the matching payload must be
 * populated, enum fields must hold declared values, and a naturalLanguage
 * rule must not wrap another naturalLanguage rule. Validation rejects the
 * whole rule; there is no partial acceptance.
 */

// ValidateRule shape-checks one rule.
func ValidateRule(r types.Rule) error {
	if r.ID == "" {
		return fmt.Errorf("%w: missing id", types.ErrStructural)
	}
	if !types.KnownRuleKind(r.Kind) {
		return fmt.Errorf("%w: %q", types.ErrUnknownRuleKind, r.Kind)
	}
	switch r.Source {
	case types.SourceManual, types.SourceAI, types.SourceNaturalLanguage:
	default:
		return fmt.Errorf("%w: unknown source %q", types.ErrStructural, r.Source)
	}

	if err := validatePayloadMatchesKind(r); err != nil {
		return err
	}

	switch r.Kind {
	case types.RuleCoRun:
		if r.CoRun.TaskIDs == nil {
			return fmt.Errorf("%w: coRun taskIds array missing", types.ErrStructural)
		}
	case types.RuleSlotRestriction:
		s := r.SlotRestriction
		switch s.GroupType {
		case types.GroupClients, types.GroupWorkers:
		default:
			return fmt.Errorf("%w: unknown groupType %q", types.ErrStructural, s.GroupType)
		}
		if s.MinCommonSlots < 0 {
			return fmt.Errorf("%w: minCommonSlots must be >= 0", types.ErrStructural)
		}
	case types.RuleLoadLimit:
		if r.LoadLimit.MaxLoad < 0 {
			return fmt.Errorf("%w: maxLoad must be >= 0", types.ErrStructural)
		}
	case types.RulePhaseWindow:
		s := r.PhaseWindow
		if s.AllowedPhases == nil {
			return fmt.Errorf("%w: phaseWindow allowedPhases array missing", types.ErrStructural)
		}
		if _, err := types.ExpandPhases(s.AllowedPhases); err != nil {
			return fmt.Errorf("%w: %v", types.ErrStructural, err)
		}
	case types.RulePatternMatch:
		s := r.PatternMatch
		switch s.Action {
		case types.PatternFlag, types.PatternTransform:
		default:
			return fmt.Errorf("%w: unknown pattern action %q", types.ErrStructural, s.Action)
		}
		if _, err := regexp.Compile(s.Regex); err != nil {
			return fmt.Errorf("%w: invalid regex: %v", types.ErrStructural, err)
		}
	case types.RulePrecedenceOverride:
		if r.PrecedenceOverride.RuleIDs == nil {
			return fmt.Errorf("%w: precedenceOverride ruleIds array missing", types.ErrStructural)
		}
	case types.RuleNaturalLanguage:
		s := r.NaturalLanguage
		if suggested := s.Suggested; suggested != nil {
			if suggested.Kind == types.RuleNaturalLanguage {
				return types.ErrNestedNaturalLanguage
			}
			if err := ValidateRule(*suggested); err != nil {
				return fmt.Errorf("suggested rule: %w", err)
			}
		}
		if s.Confidence < 0 || s.Confidence > 1 {
			return fmt.Errorf("%w: confidence must be within [0, 1]", types.ErrStructural)
		}
	}

	return nil
}

// validatePayloadMatchesKind enforces exactly one populated variant pointer,
// agreeing with the kind tag.
func validatePayloadMatchesKind(r types.Rule) error {
	populated := map[types.RuleKind]bool{
		types.RuleCoRun:              r.CoRun != nil,
		types.RuleSlotRestriction:    r.SlotRestriction != nil,
		types.RuleLoadLimit:          r.LoadLimit != nil,
		types.RulePhaseWindow:        r.PhaseWindow != nil,
		types.RulePatternMatch:       r.PatternMatch != nil,
		types.RulePrecedenceOverride: r.PrecedenceOverride != nil,
		types.RuleNaturalLanguage:    r.NaturalLanguage != nil,
	}

	for kind, present := range populated {
		if kind == r.Kind && !present {
			return fmt.Errorf("%w: kind %s has no payload", types.ErrRuleSpecMismatch, r.Kind)
		}
		if kind != r.Kind && present {
			return fmt.Errorf("%w: kind %s carries %s payload", types.ErrRuleSpecMismatch, r.Kind, kind)
		}
	}
	return nil
}
