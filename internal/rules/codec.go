// internal/rules/codec.go
package rules

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/solatis/tablekeeper/internal/types"
)

/*
 * Rule export and import.
 *
 * The export format is the ordered rule sequence serialized verbatim,
 * including any precedenceOverride entry, so a downloaded rules file
 * re-imports to an identical collection. Import validates every rule and
 * rejects the whole file on the first invalid entry; a partially imported
 * rule set never exists.
 */

// Export writes the set's rules as a JSON array in insertion order.
func Export(w io.Writer, set RuleSet, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(set.All()); err != nil {
		return fmt.Errorf("failed to encode rules: %w", err)
	}
	return nil
}

// Import reads a JSON rule array and builds a validated RuleSet.
func Import(r io.Reader) (RuleSet, error) {
	var ruleList []types.Rule
	dec := json.NewDecoder(r)
	if err := dec.Decode(&ruleList); err != nil {
		return RuleSet{}, fmt.Errorf("%w: %v", types.ErrStructural, err)
	}
	set, err := NewRuleSet(ruleList)
	if err != nil {
		return RuleSet{}, fmt.Errorf("rule import rejected: %w", err)
	}
	return set, nil
}
