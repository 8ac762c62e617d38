package analysis

import (
	"fmt"
	"math"
)

// Default thresholds for the heuristic rules.
const (
	// DefaultStructuringThreshold sits just below the 10k reporting
	// threshold; amounts hovering under it suggest deliberate splitting.
	DefaultStructuringThreshold = 9999

	// DefaultVelocityThreshold is transactions per hour. Reserved: carried
	// in config for callers that want to post-process velocity metrics,
	// not consulted by the rules below.
	DefaultVelocityThreshold = 5

	// structuringWindow is how far below the reporting threshold an amount
	// still counts as threshold-proximate.
	structuringWindow = 99
)

// RiskConfig is the immutable rule configuration for one evaluation.
// Construct once and share freely; the engine never mutates it.
type RiskConfig struct {
	// MixingServices are known mixer identifiers, matched against
	// recipient addresses.
	MixingServices []string

	// HighRiskJurisdictions is reserved for a future jurisdiction rule.
	HighRiskJurisdictions []string

	// StructuringThreshold is the upper edge of the structuring window.
	StructuringThreshold float64

	// VelocityThreshold is transactions per hour (reserved, see above).
	VelocityThreshold float64

	// FlagRoundAmounts enables the round-amount rule.
	FlagRoundAmounts bool
}

// DefaultRiskConfig returns the stock rule configuration.
func DefaultRiskConfig() RiskConfig {
	return RiskConfig{
		MixingServices:        []string{"tornado.cash", "wasabi", "samourai"},
		HighRiskJurisdictions: []string{"sanctioned-country-1", "sanctioned-country-2"},
		StructuringThreshold:  DefaultStructuringThreshold,
		VelocityThreshold:     DefaultVelocityThreshold,
		FlagRoundAmounts:      true,
	}
}

// Rule names, used as metric labels and stable across finding wording.
const (
	RuleMixing      = "mixing_service"
	RuleStructuring = "structuring"
	RuleRoundAmount = "round_amount"
)

// Finding pairs a rule identifier with its human-readable description.
type Finding struct {
	Rule        string `json:"rule"`
	Description string `json:"description"`
}

// Evaluate runs every rule against a wallet's transaction subset and returns
// the findings in rule-declaration order. Rules are independent presence
// checks: each fires at most once per mixer (mixing rule) or once per subset
// (structuring, round-amount), no matter how many transactions qualify.
// Absence of qualifying data is a non-finding, never an error.
func Evaluate(subset []Transaction, cfg RiskConfig) []Finding {
	var findings []Finding

	// Mixing-service interactions. Only the recipient side is inspected:
	// the heuristic flags funds sent into a mixer, not funds coming out.
	for _, mixer := range cfg.MixingServices {
		for _, tx := range subset {
			if tx.ToAddress == mixer {
				findings = append(findings, Finding{
					Rule:        RuleMixing,
					Description: fmt.Sprintf("Interaction with mixing service: %s", mixer),
				})
				break
			}
		}
	}

	// Structuring: any amount strictly inside the window just below the
	// reporting threshold. One qualifying transaction suffices.
	low := cfg.StructuringThreshold - structuringWindow
	high := cfg.StructuringThreshold + 1
	for _, tx := range subset {
		if tx.Amount > low && tx.Amount < high {
			findings = append(findings, Finding{
				Rule:        RuleStructuring,
				Description: "Potential structuring detected",
			})
			break
		}
	}

	if cfg.FlagRoundAmounts {
		for _, tx := range subset {
			if isWholeNumber(tx.Amount) {
				findings = append(findings, Finding{
					Rule:        RuleRoundAmount,
					Description: "Multiple round-number transactions",
				})
				break
			}
		}
	}

	return findings
}

// Descriptions flattens findings into their description strings, preserving
// order. This is the RiskIndicators shape callers consume.
func Descriptions(findings []Finding) []string {
	if len(findings) == 0 {
		return nil
	}
	out := make([]string, len(findings))
	for i, f := range findings {
		out[i] = f.Description
	}
	return out
}

func isWholeNumber(amount float64) bool {
	return amount == math.Trunc(amount)
}
