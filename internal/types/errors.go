package types

import "errors"

// Sentinel errors for TableKeeper operations.
var (
	// ErrUnknownCategory indicates a category tag outside clients/workers/tasks.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrStructural indicates a collaborator-supplied instruction or rule is
	// missing required fields or has a field of the wrong shape. Rejection is
	// wholesale; no row is touched.
	ErrStructural = errors.New("structural validation failed")

	// ErrUnknownOperator indicates a filter operator outside the declared set.
	ErrUnknownOperator = errors.New("unknown filter operator")

	// ErrUnknownOperation indicates an action operation outside the declared set.
	ErrUnknownOperation = errors.New("unknown action operation")

	// ErrUnknownRuleKind indicates a rule type outside the declared union.
	ErrUnknownRuleKind = errors.New("unknown rule kind")

	// ErrNestedNaturalLanguage indicates a naturalLanguage rule wrapping
	// another naturalLanguage rule as its structured suggestion.
	ErrNestedNaturalLanguage = errors.New("naturalLanguage rule cannot suggest another naturalLanguage rule")

	// ErrRuleSpecMismatch indicates a rule whose payload does not match its kind tag.
	ErrRuleSpecMismatch = errors.New("rule payload does not match declared kind")

	// ErrDuplicateRuleID indicates two rules sharing an id within one collection.
	ErrDuplicateRuleID = errors.New("duplicate rule id")

	// ErrRuleSetTooLarge indicates a rule collection exceeds MaxRuleSetSize.
	ErrRuleSetTooLarge = errors.New("rule set exceeds maximum size")

	// ErrTooManyRows indicates a dataset exceeds the configured row cap.
	ErrTooManyRows = errors.New("dataset exceeds maximum row count")

	// ErrInvalidPhaseRange indicates a phase range string that is not "N-M" with N <= M.
	ErrInvalidPhaseRange = errors.New("invalid phase range")
)
