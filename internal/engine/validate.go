// internal/engine/validate.go
package engine

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/solatis/tablekeeper/internal/types"
)

/*
 * Schema validation.
 *
 * Validate is a pure function from (rows, category) to an ordered issue list.
 * It never mutates rows and is deterministic: per-row columns are visited in
 * sorted order so repeated runs over unchanged input yield identical output
 * (map iteration order must not leak into results).
 *
 * Issue ordering per row: generic empty-value warnings (sorted by column),
 * then primary-key checks, then category-specific checks.
 */

// emailPattern is the standard local@domain shape; intentionally loose,
// full RFC 5322 validation is not the goal.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validStatuses = []string{"active", "inactive", "pending", "vip"}

var validPriorities = []string{"high", "medium", "low", "urgent"}

// maxEpochMillis bounds numeric due dates to the representable calendar
// range of the upstream tooling (±100,000,000 days from the epoch).
const maxEpochMillis = 8.64e15

// Validate checks every row against category-independent and
// category-specific rules, returning an ordered issue list.
func Validate(rows []types.Row, category types.Category) []types.ValidationIssue {
	if len(rows) == 0 {
		return []types.ValidationIssue{{
			Row:      0,
			Column:   "",
			Message:  "no data to validate",
			Severity: types.SeverityWarning,
		}}
	}

	issues := make([]types.ValidationIssue, 0)
	seenKeys := make(map[string]struct{}, len(rows))
	pkColumn := category.PrimaryKey()

	for i, row := range rows {
		rowNum := i + 1

		// Generic empty-value warnings over the row's own columns
		columns := make([]string, 0, len(row))
		for col := range row {
			columns = append(columns, col)
		}
		sort.Strings(columns)
		for _, col := range columns {
			if row[col].IsEmpty() {
				issues = append(issues, types.ValidationIssue{
					Row:      rowNum,
					Column:   col,
					Message:  "missing or empty value",
					Severity: types.SeverityWarning,
				})
			}
		}

		// Primary-key checks: case-sensitive, trim-normalized
		key := strings.TrimSpace(valueText(row[pkColumn]))
		if key == "" {
			issues = append(issues, types.ValidationIssue{
				Row:      rowNum,
				Column:   pkColumn,
				Message:  "missing critical identifier",
				Severity: types.SeverityError,
			})
		} else if _, dup := seenKeys[key]; dup {
			issues = append(issues, types.ValidationIssue{
				Row:      rowNum,
				Column:   pkColumn,
				Message:  fmt.Sprintf("duplicate identifier %q", key),
				Severity: types.SeverityError,
			})
		} else {
			seenKeys[key] = struct{}{}
		}

		switch category {
		case types.CategoryClients:
			issues = append(issues, validateClientRow(rowNum, row)...)
		case types.CategoryWorkers:
			issues = append(issues, validateWorkerRow(rowNum, row)...)
		case types.CategoryTasks:
			issues = append(issues, validateTaskRow(rowNum, row)...)
		}
	}

	return issues
}

// validateClientRow checks email shape and the status enum.
func validateClientRow(rowNum int, row types.Row) []types.ValidationIssue {
	var issues []types.ValidationIssue

	if email, ok := row["email"]; ok && !email.IsEmpty() {
		if !emailPattern.MatchString(valueText(email)) {
			issues = append(issues, types.ValidationIssue{
				Row:      rowNum,
				Column:   "email",
				Message:  "invalid email format",
				Severity: types.SeverityWarning,
			})
		}
	}

	if status, ok := row["status"]; ok && !status.IsEmpty() {
		if !inSetFold(valueText(status), validStatuses) {
			issues = append(issues, types.ValidationIssue{
				Row:      rowNum,
				Column:   "status",
				Message:  "status must be one of: " + strings.Join(validStatuses, ", "),
				Severity: types.SeverityWarning,
			})
		}
	}

	return issues
}

// validateWorkerRow checks that skills are present and hourlyRate is a
// positive number.
func validateWorkerRow(rowNum int, row types.Row) []types.ValidationIssue {
	var issues []types.ValidationIssue

	if skills, ok := row["skills"]; !ok || skills.IsEmpty() {
		issues = append(issues, types.ValidationIssue{
			Row:      rowNum,
			Column:   "skills",
			Message:  "skills must not be empty",
			Severity: types.SeverityWarning,
		})
	}

	if rate, ok := row["hourlyRate"]; ok && !rate.IsEmpty() {
		if f, ok := numericText(rate); !ok || f <= 0 {
			issues = append(issues, types.ValidationIssue{
				Row:      rowNum,
				Column:   "hourlyRate",
				Message:  "hourlyRate must be a positive number",
				Severity: types.SeverityWarning,
			})
		}
	}

	return issues
}

// validateTaskRow checks the priority enum and dueDate parseability.
// A dueDate that is neither string nor number cannot even be interpreted as
// a date, so that case is promoted from warning to error.
func validateTaskRow(rowNum int, row types.Row) []types.ValidationIssue {
	var issues []types.ValidationIssue

	if priority, ok := row["priority"]; ok && !priority.IsEmpty() {
		if !inSetFold(valueText(priority), validPriorities) {
			issues = append(issues, types.ValidationIssue{
				Row:      rowNum,
				Column:   "priority",
				Message:  "priority must be one of: " + strings.Join(validPriorities, ", "),
				Severity: types.SeverityWarning,
			})
		}
	}

	if due, ok := row["dueDate"]; ok && !due.IsAbsent() {
		switch due.Kind() {
		case types.KindString:
			s, _ := due.AsString()
			if strings.TrimSpace(s) != "" && !parseableDate(s) {
				issues = append(issues, types.ValidationIssue{
					Row:      rowNum,
					Column:   "dueDate",
					Message:  "dueDate is not a parseable date",
					Severity: types.SeverityWarning,
				})
			}
		case types.KindNumber:
			f, _ := due.AsNumber()
			if f > maxEpochMillis || f < -maxEpochMillis {
				issues = append(issues, types.ValidationIssue{
					Row:      rowNum,
					Column:   "dueDate",
					Message:  "dueDate is not a parseable date",
					Severity: types.SeverityWarning,
				})
			}
		default:
			issues = append(issues, types.ValidationIssue{
				Row:      rowNum,
				Column:   "dueDate",
				Message:  "dueDate must be a string or number",
				Severity: types.SeverityError,
			})
		}
	}

	return issues
}

// dateLayouts are tried in order for string due dates.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
}

// parseableDate reports whether s parses under any accepted layout.
func parseableDate(s string) bool {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// valueText renders a scalar for identifier and enum checks.
// Lists and opaque payloads have no meaningful text form and yield "".
func valueText(v types.Value) string {
	switch v.Kind() {
	case types.KindString:
		s, _ := v.AsString()
		return s
	case types.KindNumber:
		f, _ := v.AsNumber()
		return strconv.FormatFloat(f, 'f', -1, 64)
	case types.KindBool:
		b, _ := v.AsBool()
		return strconv.FormatBool(b)
	default:
		return ""
	}
}

// numericText reads a value as a number, accepting numeric strings.
func numericText(v types.Value) (float64, bool) {
	if f, ok := v.AsNumber(); ok {
		return f, true
	}
	if s, ok := v.AsString(); ok {
		return parseNumber(s)
	}
	return 0, false
}

// inSetFold reports case-insensitive membership.
func inSetFold(s string, set []string) bool {
	for _, candidate := range set {
		if strings.EqualFold(strings.TrimSpace(s), candidate) {
			return true
		}
	}
	return false
}
