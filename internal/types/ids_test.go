package types

import (
	"testing"
	"time"
)

func TestNewRuleID(t *testing.T) {
	a := NewRuleID()
	b := NewRuleID()
	if a == b {
		t.Errorf("NewRuleID() returned %q twice", a)
	}
	if _, err := ParseRuleID(string(a)); err != nil {
		t.Errorf("ParseRuleID(%q) error = %v", a, err)
	}
}

func TestParseRuleID(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"generated id", string(NewRuleID()), false},
		{"hand-written id", "R1", true},
		{"empty", "", true},
		{"truncated uuid", "0190e3a4-ffff-7000", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRuleID(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseRuleID(%q) = %q, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRuleID(%q) error = %v", tt.in, err)
			}
			if string(got) != tt.in {
				t.Errorf("ParseRuleID(%q) = %q", tt.in, got)
			}
		})
	}
}

func TestRuleIDTime(t *testing.T) {
	before := time.Now().Add(-time.Minute)
	id := NewRuleID()
	after := time.Now().Add(time.Minute)

	got := RuleIDTime(id)
	if got.Before(before) || got.After(after) {
		t.Errorf("RuleIDTime(%q) = %v, want within a minute of now", id, got)
	}

	if ts := RuleIDTime("R1"); !ts.IsZero() {
		t.Errorf("RuleIDTime(\"R1\") = %v, want zero time", ts)
	}
}
