package analysis

import (
	"context"
	"time"

	"github.com/mbd888/walletlens/internal/idgen"
)

// Analyzer composes filtering, rule evaluation, velocity, and counterparty
// aggregation into one analysis per address. It holds no mutable state
// between calls; a single Analyzer may serve concurrent analyses over a
// shared transaction set.
type Analyzer struct {
	cfg   RiskConfig
	topN  int
	store Store
}

// NewAnalyzer creates an analyzer with the given rule configuration.
func NewAnalyzer(cfg RiskConfig) *Analyzer {
	return &Analyzer{
		cfg:  cfg,
		topN: DefaultTopCounterparties,
	}
}

// WithTopN overrides how many ranked counterparties each analysis carries.
func (a *Analyzer) WithTopN(n int) *Analyzer {
	if n > 0 {
		a.topN = n
	}
	return a
}

// WithStore attaches an audit store. Completed analyses are recorded
// best-effort and asynchronously; recording failures never affect results.
func (a *Analyzer) WithStore(store Store) *Analyzer {
	a.store = store
	return a
}

// Config returns the analyzer's rule configuration.
func (a *Analyzer) Config() RiskConfig { return a.cfg }

// Analyze produces the composite profile for one address. It always succeeds
// on well-formed input: an address with no relevant transactions yields a
// zero-valued analysis, not an error. Malformed records are rejected by the
// data layer before they reach here.
func (a *Analyzer) Analyze(ctx context.Context, address string, txs []Transaction) *WalletAnalysis {
	done := observeAnalysis()
	subset := FilterByAddress(txs, address)

	var volume float64
	for _, tx := range subset {
		volume += tx.Amount
	}

	findings := Evaluate(subset, a.cfg)

	result := &WalletAnalysis{
		ID:                idgen.WithPrefix("wan_"),
		Address:           address,
		TotalTransactions: len(subset),
		TotalVolume:       volume,
		RiskIndicators:    Descriptions(findings),
		Velocity:          ComputeVelocity(subset),
		Counterparties:    AggregateCounterparties(address, subset, a.topN),
		AnalyzedAt:        time.Now().UTC(),
	}
	done(findings)

	// Persist asynchronously (best-effort audit trail)
	if a.store != nil {
		go func() {
			_ = a.store.Record(context.Background(), result)
		}()
	}

	return result
}
