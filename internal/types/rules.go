package types

/*
 * Domain types for business rules.
 *
 * Rule is a tagged union with six concrete kinds plus a provisional
 * naturalLanguage wrapper holding an AI-suggested concrete rule. The wire
 * format is flat (shared fields and the active variant's fields side by
 * side, discriminated by "type") so exported rule files round-trip exactly
 * against the upstream UI and AI collaborators.
 *
 * Structural validation (enum membership, payload/kind agreement, the
 * no-nested-wrapper guard) lives in internal/rules; this file is data and
 * codec only.
 */

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// RuleKind discriminates the Rule union.
type RuleKind string

const (
	RuleCoRun              RuleKind = "coRun"
	RuleSlotRestriction    RuleKind = "slotRestriction"
	RuleLoadLimit          RuleKind = "loadLimit"
	RulePhaseWindow        RuleKind = "phaseWindow"
	RulePatternMatch       RuleKind = "patternMatch"
	RulePrecedenceOverride RuleKind = "precedenceOverride"
	RuleNaturalLanguage    RuleKind = "naturalLanguage"
)

// KnownRuleKind reports whether k is in the declared union.
func KnownRuleKind(k RuleKind) bool {
	switch k {
	case RuleCoRun, RuleSlotRestriction, RuleLoadLimit, RulePhaseWindow,
		RulePatternMatch, RulePrecedenceOverride, RuleNaturalLanguage:
		return true
	default:
		return false
	}
}

// RuleSource records how a rule entered the system.
type RuleSource string

const (
	SourceManual          RuleSource = "manual"
	SourceAI              RuleSource = "ai"
	SourceNaturalLanguage RuleSource = "naturalLanguage"
)

// GroupType scopes a slot restriction to a client or worker group.
type GroupType string

const (
	GroupClients GroupType = "clientGroup"
	GroupWorkers GroupType = "workerGroup"
)

// PatternAction selects what a patternMatch rule does with matching cells.
type PatternAction string

const (
	PatternFlag      PatternAction = "flag"
	PatternTransform PatternAction = "transform"
)

// PhaseRef is one entry of an allowedPhases sequence: either a single phase
// number or a "3-5" style inclusive range string.
type PhaseRef struct {
	Num     int
	Range   string
	IsRange bool
}

// MarshalJSON emits the original wire shape: number or range string.
func (p PhaseRef) MarshalJSON() ([]byte, error) {
	if p.IsRange {
		return json.Marshal(p.Range)
	}
	return json.Marshal(p.Num)
}

// UnmarshalJSON accepts a JSON number or a range string.
func (p *PhaseRef) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if len(s) > 0 && s[0] == '"' {
		var r string
		if err := json.Unmarshal(data, &r); err != nil {
			return err
		}
		*p = PhaseRef{Range: r, IsRange: true}
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = PhaseRef{Num: n}
	return nil
}

// Expand resolves the reference to concrete phase numbers.
// Range strings expand inclusively; "3-5" yields [3 4 5].
func (p PhaseRef) Expand() ([]int, error) {
	if !p.IsRange {
		return []int{p.Num}, nil
	}
	parts := strings.SplitN(p.Range, "-", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPhaseRange, p.Range)
	}
	lo, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPhaseRange, p.Range)
	}
	hi, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPhaseRange, p.Range)
	}
	if lo > hi {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPhaseRange, p.Range)
	}
	out := make([]int, 0, hi-lo+1)
	for n := lo; n <= hi; n++ {
		out = append(out, n)
	}
	return out, nil
}

// ExpandPhases flattens a phase reference sequence to concrete numbers,
// preserving order and duplicates as written.
func ExpandPhases(refs []PhaseRef) ([]int, error) {
	var out []int
	for _, r := range refs {
		ns, err := r.Expand()
		if err != nil {
			return nil, err
		}
		out = append(out, ns...)
	}
	return out, nil
}

// CoRunSpec requires the listed tasks to run together.
type CoRunSpec struct {
	TaskIDs []string `json:"taskIds"`
}

// SlotRestrictionSpec enforces a minimum of common slots across a group.
type SlotRestrictionSpec struct {
	GroupType      GroupType `json:"groupType"`
	GroupName      string    `json:"groupName"`
	MinCommonSlots int       `json:"minCommonSlots"`
	TargetPhases   []int     `json:"targetPhases,omitempty"`
}

// LoadLimitSpec caps the load assigned to a worker group.
type LoadLimitSpec struct {
	WorkerGroup string `json:"workerGroup"`
	MaxLoad     int    `json:"maxLoad"`
	Phase       *int   `json:"phase,omitempty"`
}

// PhaseWindowSpec restricts a task to a set of phases.
type PhaseWindowSpec struct {
	TaskID        string     `json:"taskId"`
	AllowedPhases []PhaseRef `json:"allowedPhases"`
}

// PatternMatchSpec flags or transforms cells matching a regex.
type PatternMatchSpec struct {
	Entity        string        `json:"entity"`
	Column        string        `json:"column"`
	Regex         string        `json:"regex"`
	Action        PatternAction `json:"action"`
	ActionDetails string        `json:"actionDetails,omitempty"`
}

// PrecedenceOverrideSpec encodes an explicit execution ordering over the
// other enabled rules. At most one is meaningful at a time.
type PrecedenceOverrideSpec struct {
	RuleIDs []RuleID `json:"ruleIds"`
}

// NaturalLanguageSpec is the provisional wrapper for a free-text prompt and
// the concrete rule an AI collaborator derived from it. The suggestion must
// never itself be a naturalLanguage rule; internal/rules enforces this.
type NaturalLanguageSpec struct {
	OriginalPrompt string  `json:"originalPrompt"`
	Suggested      *Rule   `json:"suggestedStructuredRule,omitempty"`
	Confidence     float64 `json:"confidence"`
}

// Rule is one persisted business constraint. Exactly one variant pointer is
// populated, matching Kind; the rest are nil.
type Rule struct {
	ID          RuleID
	Kind        RuleKind
	Description string
	Enabled     bool
	Source      RuleSource

	CoRun              *CoRunSpec
	SlotRestriction    *SlotRestrictionSpec
	LoadLimit          *LoadLimitSpec
	PhaseWindow        *PhaseWindowSpec
	PatternMatch       *PatternMatchSpec
	PrecedenceOverride *PrecedenceOverrideSpec
	NaturalLanguage    *NaturalLanguageSpec
}

// ruleEnvelope is the flat wire representation shared by every kind.
type ruleEnvelope struct {
	ID          RuleID     `json:"id"`
	Kind        RuleKind   `json:"type"`
	Description string     `json:"description"`
	Enabled     bool       `json:"isEnabled"`
	Source      RuleSource `json:"source"`

	TaskIDs *[]string `json:"taskIds,omitempty"`

	GroupType      GroupType `json:"groupType,omitempty"`
	GroupName      string    `json:"groupName,omitempty"`
	MinCommonSlots *int      `json:"minCommonSlots,omitempty"`
	TargetPhases   []int     `json:"targetPhases,omitempty"`

	WorkerGroup string `json:"workerGroup,omitempty"`
	MaxLoad     *int   `json:"maxLoad,omitempty"`
	Phase       *int   `json:"phase,omitempty"`

	TaskID        string      `json:"taskId,omitempty"`
	AllowedPhases *[]PhaseRef `json:"allowedPhases,omitempty"`

	Entity        string        `json:"entity,omitempty"`
	Column        string        `json:"column,omitempty"`
	Regex         string        `json:"regex,omitempty"`
	Action        PatternAction `json:"action,omitempty"`
	ActionDetails string        `json:"actionDetails,omitempty"`

	RuleIDs *[]RuleID `json:"ruleIds,omitempty"`

	OriginalPrompt string   `json:"originalPrompt,omitempty"`
	Suggested      *Rule    `json:"suggestedStructuredRule,omitempty"`
	Confidence     *float64 `json:"confidence,omitempty"`
}

// MarshalJSON flattens the active variant into the shared envelope.
func (r Rule) MarshalJSON() ([]byte, error) {
	env := ruleEnvelope{
		ID:          r.ID,
		Kind:        r.Kind,
		Description: r.Description,
		Enabled:     r.Enabled,
		Source:      r.Source,
	}

	switch r.Kind {
	case RuleCoRun:
		if r.CoRun != nil {
			// Pointer-to-slice keeps empty-but-present arrays on the wire;
			// a plain omitempty slice would drop them and break re-import
			env.TaskIDs = &r.CoRun.TaskIDs
		}
	case RuleSlotRestriction:
		if s := r.SlotRestriction; s != nil {
			env.GroupType = s.GroupType
			env.GroupName = s.GroupName
			slots := s.MinCommonSlots
			env.MinCommonSlots = &slots
			env.TargetPhases = s.TargetPhases
		}
	case RuleLoadLimit:
		if s := r.LoadLimit; s != nil {
			env.WorkerGroup = s.WorkerGroup
			load := s.MaxLoad
			env.MaxLoad = &load
			env.Phase = s.Phase
		}
	case RulePhaseWindow:
		if s := r.PhaseWindow; s != nil {
			env.TaskID = s.TaskID
			env.AllowedPhases = &s.AllowedPhases
		}
	case RulePatternMatch:
		if s := r.PatternMatch; s != nil {
			env.Entity = s.Entity
			env.Column = s.Column
			env.Regex = s.Regex
			env.Action = s.Action
			env.ActionDetails = s.ActionDetails
		}
	case RulePrecedenceOverride:
		if s := r.PrecedenceOverride; s != nil {
			env.RuleIDs = &s.RuleIDs
		}
	case RuleNaturalLanguage:
		if s := r.NaturalLanguage; s != nil {
			env.OriginalPrompt = s.OriginalPrompt
			env.Suggested = s.Suggested
			conf := s.Confidence
			env.Confidence = &conf
		}
	}

	return json.Marshal(env)
}

// UnmarshalJSON rebuilds the variant payload selected by the "type" field.
// Unknown kinds fail; a partially recognized rule never enters the system.
func (r *Rule) UnmarshalJSON(data []byte) error {
	var env ruleEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	if !KnownRuleKind(env.Kind) {
		return fmt.Errorf("%w: %q", ErrUnknownRuleKind, env.Kind)
	}

	out := Rule{
		ID:          env.ID,
		Kind:        env.Kind,
		Description: env.Description,
		Enabled:     env.Enabled,
		Source:      env.Source,
	}

	switch env.Kind {
	case RuleCoRun:
		spec := &CoRunSpec{}
		if env.TaskIDs != nil {
			spec.TaskIDs = *env.TaskIDs
		}
		out.CoRun = spec
	case RuleSlotRestriction:
		spec := &SlotRestrictionSpec{
			GroupType:    env.GroupType,
			GroupName:    env.GroupName,
			TargetPhases: env.TargetPhases,
		}
		if env.MinCommonSlots != nil {
			spec.MinCommonSlots = *env.MinCommonSlots
		}
		out.SlotRestriction = spec
	case RuleLoadLimit:
		spec := &LoadLimitSpec{
			WorkerGroup: env.WorkerGroup,
			Phase:       env.Phase,
		}
		if env.MaxLoad != nil {
			spec.MaxLoad = *env.MaxLoad
		}
		out.LoadLimit = spec
	case RulePhaseWindow:
		spec := &PhaseWindowSpec{TaskID: env.TaskID}
		if env.AllowedPhases != nil {
			spec.AllowedPhases = *env.AllowedPhases
		}
		out.PhaseWindow = spec
	case RulePatternMatch:
		out.PatternMatch = &PatternMatchSpec{
			Entity:        env.Entity,
			Column:        env.Column,
			Regex:         env.Regex,
			Action:        env.Action,
			ActionDetails: env.ActionDetails,
		}
	case RulePrecedenceOverride:
		spec := &PrecedenceOverrideSpec{}
		if env.RuleIDs != nil {
			spec.RuleIDs = *env.RuleIDs
		}
		out.PrecedenceOverride = spec
	case RuleNaturalLanguage:
		spec := &NaturalLanguageSpec{
			OriginalPrompt: env.OriginalPrompt,
			Suggested:      env.Suggested,
		}
		if env.Confidence != nil {
			spec.Confidence = *env.Confidence
		}
		out.NaturalLanguage = spec
	}

	*r = out
	return nil
}
