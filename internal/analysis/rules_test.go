package analysis

import (
	"testing"
	"time"
)

func ts(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02T15:04:05", value)
	if err != nil {
		t.Fatalf("bad test timestamp %q: %v", value, err)
	}
	return parsed
}

func tx(t *testing.T, stamp, from, to string, amount float64) Transaction {
	t.Helper()
	return Transaction{
		Timestamp:   ts(t, stamp),
		FromAddress: from,
		ToAddress:   to,
		Amount:      amount,
		Hash:        "0xdeadbeef",
	}
}

func TestMixingServiceFinding(t *testing.T) {
	cfg := DefaultRiskConfig()
	subset := []Transaction{
		tx(t, "2024-01-01T10:00:00", "0xaaa", "tornado.cash", 0.0001),
	}

	findings := Evaluate(subset, cfg)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d: %v", len(findings), findings)
	}
	if findings[0].Rule != RuleMixing {
		t.Errorf("expected rule %s, got %s", RuleMixing, findings[0].Rule)
	}
	// Fires regardless of amount, and the finding names the service
	if findings[0].Description != "Interaction with mixing service: tornado.cash" {
		t.Errorf("unexpected description: %q", findings[0].Description)
	}
}

func TestMixingServiceRecipientOnly(t *testing.T) {
	// The heuristic is directional: receiving FROM a mixer is not flagged.
	// Documented asymmetry of the current rule set.
	cfg := DefaultRiskConfig()
	subset := []Transaction{
		tx(t, "2024-01-01T10:00:00", "wasabi", "0xaaa", 3.3),
	}

	if findings := Evaluate(subset, cfg); len(findings) != 0 {
		t.Errorf("inbound mixer transfer should not fire, got %v", findings)
	}
}

func TestMixingServiceOnePerMixer(t *testing.T) {
	cfg := DefaultRiskConfig()
	subset := []Transaction{
		tx(t, "2024-01-01T10:00:00", "0xaaa", "tornado.cash", 1.1),
		tx(t, "2024-01-01T11:00:00", "0xaaa", "tornado.cash", 2.2),
		tx(t, "2024-01-01T12:00:00", "0xaaa", "wasabi", 3.3),
	}

	findings := Evaluate(subset, cfg)
	if len(findings) != 2 {
		t.Fatalf("expected one finding per mixer, got %d: %v", len(findings), findings)
	}
	// Config declaration order, not transaction order
	if findings[0].Description != "Interaction with mixing service: tornado.cash" ||
		findings[1].Description != "Interaction with mixing service: wasabi" {
		t.Errorf("findings out of order: %v", findings)
	}
}

func TestStructuringWindow(t *testing.T) {
	cfg := DefaultRiskConfig()
	cfg.FlagRoundAmounts = false // isolate the structuring rule

	cases := []struct {
		amount float64
		fires  bool
	}{
		{9950, true},
		{9999, true},
		{9900.01, true},
		{9899, false},
		{9900, false},
		{10000, false},
		{10500, false},
	}

	for _, tc := range cases {
		subset := []Transaction{
			tx(t, "2024-01-01T10:00:00", "0xaaa", "0xbbb", tc.amount),
		}
		findings := Evaluate(subset, cfg)
		fired := len(findings) == 1 && findings[0].Rule == RuleStructuring
		if fired != tc.fires {
			t.Errorf("amount %v: fired=%v, want %v (findings: %v)", tc.amount, fired, tc.fires, findings)
		}
	}
}

func TestStructuringFiresOnce(t *testing.T) {
	// Presence check, not a count: many qualifying transactions still
	// produce a single finding.
	cfg := DefaultRiskConfig()
	cfg.FlagRoundAmounts = false
	subset := []Transaction{
		tx(t, "2024-01-01T10:00:00", "0xaaa", "0xbbb", 9901),
		tx(t, "2024-01-01T11:00:00", "0xaaa", "0xccc", 9950),
		tx(t, "2024-01-01T12:00:00", "0xaaa", "0xddd", 9998),
	}

	findings := Evaluate(subset, cfg)
	if len(findings) != 1 {
		t.Errorf("expected exactly 1 structuring finding, got %d: %v", len(findings), findings)
	}
}

func TestRoundAmountRule(t *testing.T) {
	cfg := DefaultRiskConfig()
	subset := []Transaction{
		tx(t, "2024-01-01T10:00:00", "0xaaa", "0xbbb", 1.5),
		tx(t, "2024-01-01T11:00:00", "0xaaa", "0xccc", 2.0),
	}

	findings := Evaluate(subset, cfg)
	if len(findings) != 1 || findings[0].Rule != RuleRoundAmount {
		t.Fatalf("expected round-amount finding for 2.0, got %v", findings)
	}
	if findings[0].Description != "Multiple round-number transactions" {
		t.Errorf("unexpected description: %q", findings[0].Description)
	}
}

func TestRoundAmountDisabled(t *testing.T) {
	cfg := DefaultRiskConfig()
	cfg.FlagRoundAmounts = false
	subset := []Transaction{
		tx(t, "2024-01-01T10:00:00", "0xaaa", "0xbbb", 100),
	}

	if findings := Evaluate(subset, cfg); len(findings) != 0 {
		t.Errorf("round-amount rule should be off, got %v", findings)
	}
}

func TestRuleDeclarationOrder(t *testing.T) {
	// One subset triggering all three rules: mixing findings come first,
	// then structuring, then round-amount.
	cfg := DefaultRiskConfig()
	subset := []Transaction{
		tx(t, "2024-01-01T10:00:00", "0xaaa", "0xbbb", 5000), // round
		tx(t, "2024-01-01T11:00:00", "0xaaa", "0xccc", 9950), // structuring
		tx(t, "2024-01-01T12:00:00", "0xaaa", "samourai", 1.25),
	}

	findings := Evaluate(subset, cfg)
	want := []string{RuleMixing, RuleStructuring, RuleRoundAmount}
	if len(findings) != len(want) {
		t.Fatalf("expected %d findings, got %d: %v", len(want), len(findings), findings)
	}
	for i, rule := range want {
		if findings[i].Rule != rule {
			t.Errorf("finding %d: rule %s, want %s", i, findings[i].Rule, rule)
		}
	}
}

func TestEmptySubsetNoFindings(t *testing.T) {
	if findings := Evaluate(nil, DefaultRiskConfig()); len(findings) != 0 {
		t.Errorf("empty subset should produce no findings, got %v", findings)
	}
}

func TestDescriptions(t *testing.T) {
	if got := Descriptions(nil); got != nil {
		t.Errorf("nil findings should flatten to nil, got %v", got)
	}

	findings := []Finding{
		{Rule: RuleStructuring, Description: "Potential structuring detected"},
		{Rule: RuleRoundAmount, Description: "Multiple round-number transactions"},
	}
	got := Descriptions(findings)
	if len(got) != 2 || got[0] != "Potential structuring detected" || got[1] != "Multiple round-number transactions" {
		t.Errorf("unexpected descriptions: %v", got)
	}
}
