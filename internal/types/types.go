// Package types provides domain models shared across TableKeeper components.
//
// The engine operates on dynamically typed cell values coming from spreadsheet
// uploads and AI collaborators. Value replaces ambient interface{} handling
// with a tagged scalar type (string, number, boolean, absent, list) plus an
// opaque kind that preserves raw JSON for payloads the engine does not
// understand, so wire shapes round-trip exactly.
package types

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Category selects which schema checks apply to a dataset.
type Category string

const (
	CategoryClients Category = "clients"
	CategoryWorkers Category = "workers"
	CategoryTasks   Category = "tasks"
)

// PrimaryKey returns the column holding the category's unique identifier.
func (c Category) PrimaryKey() string {
	switch c {
	case CategoryClients:
		return "clientId"
	case CategoryWorkers:
		return "workerId"
	case CategoryTasks:
		return "taskId"
	default:
		return ""
	}
}

// ParseCategory validates a category tag from an external caller.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryClients, CategoryWorkers, CategoryTasks:
		return Category(s), nil
	default:
		return "", ErrUnknownCategory
	}
}

// Kind discriminates the Value union.
type Kind int

const (
	KindAbsent Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindOpaque // non-scalar JSON (object etc.), preserved verbatim
)

// Value is one cell of a row: a scalar, a list of scalars, the absent
// marker, or an opaque raw payload. The zero Value is absent.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	list []Value
	raw  json.RawMessage
}

// Absent returns the absent-value marker.
func Absent() Value { return Value{} }

// String wraps a string scalar.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number wraps a numeric scalar.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Bool wraps a boolean scalar.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// List wraps an ordered sequence of values.
func List(elems ...Value) Value {
	return Value{kind: KindList, list: elems}
}

// Kind returns the discriminator tag.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether the value is the absent marker.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// AsString returns the string payload when the value is a string.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsNumber returns the numeric payload when the value is a number.
func (v Value) AsNumber() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// AsBool returns the boolean payload when the value is a boolean.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsList returns the element sequence when the value is a list.
// The returned slice is shared; callers must not mutate it.
func (v Value) AsList() ([]Value, bool) {
	return v.list, v.kind == KindList
}

// IsEmpty reports whether the value reduces to nothing meaningful:
// absent, a whitespace-only string, or an empty list.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindAbsent:
		return true
	case KindString:
		return strings.TrimSpace(v.str) == ""
	case KindList:
		return len(v.list) == 0
	default:
		return false
	}
}

// Equal performs deep structural equality. Opaque values compare by raw bytes.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindAbsent:
		return true
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case KindOpaque:
		return string(v.raw) == string(o.raw)
	default:
		return false
	}
}

// Clone returns an independent deep copy.
func (v Value) Clone() Value {
	c := v
	if v.kind == KindList {
		c.list = make([]Value, len(v.list))
		for i, e := range v.list {
			c.list[i] = e.Clone()
		}
	}
	if v.kind == KindOpaque {
		c.raw = append(json.RawMessage(nil), v.raw...)
	}
	return c
}

// MarshalJSON implements json.Marshaler. Absent serializes as null and
// opaque values emit their original bytes unchanged.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindAbsent:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		// FormatFloat drops trailing zeros so 42 does not become 42.000000
		return []byte(strconv.FormatFloat(v.num, 'f', -1, 64)), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindList:
		return json.Marshal(v.list)
	case KindOpaque:
		return append([]byte(nil), v.raw...), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler. JSON null maps to absent;
// objects and any other non-scalar payloads are captured as opaque.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*v = Absent()
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
	case '[':
		var elems []Value
		if err := json.Unmarshal(data, &elems); err != nil {
			return err
		}
		*v = List(elems...)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Bool(b)
	case '{':
		*v = Value{kind: KindOpaque, raw: append(json.RawMessage(nil), data...)}
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		*v = Number(f)
	}
	return nil
}

// Row is one flat record representing a client, worker, or task.
// Key insertion order is display-relevant upstream but carries no meaning
// inside the engine.
type Row map[string]Value

// Clone returns an independent deep copy of the row.
func (r Row) Clone() Row {
	c := make(Row, len(r))
	for k, v := range r {
		c[k] = v.Clone()
	}
	return c
}

// CloneRows deep-copies an entire dataset.
func CloneRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}

// Severity classifies a validation issue.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// SuggestedCorrection is an optional AI-proposed fix attached to an issue.
type SuggestedCorrection struct {
	Column   string `json:"column"`
	NewValue Value  `json:"newValue"`
	Reason   string `json:"reason"`
}

// ValidationIssue is one finding from the schema validator or an AI
// collaborator. Issues are returned as data, never thrown, and never
// mutate rows.
type ValidationIssue struct {
	Row          int                  `json:"row"` // 1-based; 0 for dataset-level issues
	Column       string               `json:"column"`
	Message      string               `json:"message"`
	Severity     Severity             `json:"severity"`
	Suggested    *SuggestedCorrection `json:"suggestedCorrection,omitempty"`
	AIIdentified bool                 `json:"isAIIdentified,omitempty"`
	Anomaly      bool                 `json:"isAnomaly,omitempty"`
	AIConfidence float64              `json:"aiConfidence,omitempty"`
}

// FilterOperator enumerates predicate comparison operators.
type FilterOperator string

const (
	OpEq          FilterOperator = "eq"
	OpNeq         FilterOperator = "neq"
	OpGt          FilterOperator = "gt"
	OpLt          FilterOperator = "lt"
	OpGte         FilterOperator = "gte"
	OpLte         FilterOperator = "lte"
	OpContains    FilterOperator = "contains"
	OpNotContains FilterOperator = "not_contains"
	OpStartsWith  FilterOperator = "starts_with"
	OpEndsWith    FilterOperator = "ends_with"
)

// KnownOperator reports whether op is in the declared operator set.
func KnownOperator(op FilterOperator) bool {
	switch op {
	case OpEq, OpNeq, OpGt, OpLt, OpGte, OpLte,
		OpContains, OpNotContains, OpStartsWith, OpEndsWith:
		return true
	default:
		return false
	}
}

// DataFilter is one AND-combined row selection condition.
type DataFilter struct {
	Column   string         `json:"column"`
	Operator FilterOperator `json:"operator"`
	Value    Value          `json:"value"`
}

// ActionOperation enumerates column mutation operations.
// The empty string defaults to set.
type ActionOperation string

const (
	OpSet       ActionOperation = "set"
	OpIncrement ActionOperation = "increment"
	OpDecrement ActionOperation = "decrement"
	OpAppend    ActionOperation = "append"
	OpPrepend   ActionOperation = "prepend"
)

// KnownOperation reports whether op is in the declared operation set.
// The empty string counts as known (defaults to set).
func KnownOperation(op ActionOperation) bool {
	switch op {
	case "", OpSet, OpIncrement, OpDecrement, OpAppend, OpPrepend:
		return true
	default:
		return false
	}
}

// DataModificationAction is one column mutation.
type DataModificationAction struct {
	Column    string          `json:"column"`
	NewValue  Value           `json:"newValue"`
	Operation ActionOperation `json:"operation,omitempty"`
}

// DataModificationInstructions is the declarative filter/action bundle
// supplied by the caller or an AI collaborator.
type DataModificationInstructions struct {
	Filters []DataFilter             `json:"filters"`
	Actions []DataModificationAction `json:"actions"`
}

// SkippedAction reports an action left unapplied due to type incompatibility.
// Non-fatal; the rest of the pipeline continues.
type SkippedAction struct {
	Column    string          `json:"column"`
	Operation ActionOperation `json:"operation"`
	Reason    string          `json:"reason"`
}

// MaxRuleSetSize caps the persisted rule collection.
// 10,000 rules is far beyond realistic manual or AI-assisted authoring and
// bounds store queries and import file size.
const MaxRuleSetSize = 10000
