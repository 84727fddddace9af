package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/solatis/tablekeeper/internal/rules"
	"github.com/solatis/tablekeeper/internal/types"
)

/*
 * Rule persistence.
 *
 * The rules table stores each rule's full wire-format JSON in a payload
 * column alongside queryable columns (kind, enabled, position). The position
 * column preserves insertion order so the precedence resolver's fallback
 * ordering survives a round-trip through the database.
 *
 * The store deals in RuleSet snapshots, matching the engine's ownership
 * model: Load produces a validated snapshot, Save replaces the whole
 * collection transactionally. Per-rule helpers exist for the CLI's toggle
 * and delete flows.
 */

// ruleRecord maps one rules-table row.
type ruleRecord struct {
	RuleID    string `db:"rule_id"`
	Kind      string `db:"kind"`
	Enabled   bool   `db:"enabled"`
	Position  int    `db:"position"`
	Payload   string `db:"payload"`
	CreatedAt string `db:"created_at"`
}

// Store persists rule collections.
type Store struct {
	db *sqlx.DB
	q  *Queries
}

// New creates a Store over an open database handle.
func New(db *sqlx.DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	q, err := LoadQueries(db)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, q: q}, nil
}

// Load reads the persisted collection as a validated RuleSet snapshot.
func (s *Store) Load() (rules.RuleSet, error) {
	var records []ruleRecord
	if err := s.q.Select("list-rules", &records); err != nil {
		return rules.RuleSet{}, fmt.Errorf("failed to list rules: %w", err)
	}

	ruleList := make([]types.Rule, 0, len(records))
	for _, rec := range records {
		var r types.Rule
		if err := json.Unmarshal([]byte(rec.Payload), &r); err != nil {
			return rules.RuleSet{}, fmt.Errorf("corrupt rule payload %s: %w", rec.RuleID, err)
		}
		// The enabled column is authoritative: SetEnabled updates it without
		// rewriting the payload
		r.Enabled = rec.Enabled
		ruleList = append(ruleList, r)
	}

	set, err := rules.NewRuleSet(ruleList)
	if err != nil {
		return rules.RuleSet{}, fmt.Errorf("persisted rules failed validation: %w", err)
	}
	return set, nil
}

// Save replaces the persisted collection with the given snapshot.
// Runs in one transaction so a failed write never leaves a partial set.
func (s *Store) Save(set rules.RuleSet) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	deleteAll, err := s.q.dot.Raw("delete-all-rules")
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("query not found: delete-all-rules")
	}
	if _, err := tx.Exec(tx.Rebind(deleteAll)); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to clear rules: %w", err)
	}

	upsert, err := s.q.dot.Raw("upsert-rule")
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("query not found: upsert-rule")
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for position, r := range set.All() {
		payload, err := json.Marshal(r)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to encode rule %s: %w", r.ID, err)
		}
		if _, err := tx.Exec(tx.Rebind(upsert),
			string(r.ID), string(r.Kind), r.Enabled, position, string(payload), now); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to write rule %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rules: %w", err)
	}
	return nil
}

// Delete removes one rule by id. Unknown ids are a no-op.
func (s *Store) Delete(id types.RuleID) error {
	if _, err := s.q.Exec("delete-rule", string(id)); err != nil {
		return fmt.Errorf("failed to delete rule %s: %w", id, err)
	}
	return nil
}

// SetEnabled toggles one rule by id. Unknown ids are a no-op.
func (s *Store) SetEnabled(id types.RuleID, enabled bool) error {
	if _, err := s.q.Exec("set-rule-enabled", enabled, string(id)); err != nil {
		return fmt.Errorf("failed to toggle rule %s: %w", id, err)
	}
	return nil
}

// Count returns the persisted rule count.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.q.Get("count-rules", &n); err != nil {
		return 0, fmt.Errorf("failed to count rules: %w", err)
	}
	return n, nil
}
