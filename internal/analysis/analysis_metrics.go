package analysis

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// AnalysesTotal counts completed wallet analyses by outcome.
	AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "walletlens",
			Name:      "analyses_total",
			Help:      "Total wallet analyses by outcome (clean or flagged).",
		},
		[]string{"outcome"},
	)

	// AnalysisDuration observes analysis latency.
	AnalysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "walletlens",
			Name:      "analysis_duration_seconds",
			Help:      "Wallet analysis duration in seconds.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
	)

	// RiskFindingsTotal counts triggered risk rules by rule name.
	RiskFindingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "walletlens",
			Name:      "risk_findings_total",
			Help:      "Total risk findings by rule.",
		},
		[]string{"rule"},
	)
)

func init() {
	prometheus.MustRegister(
		AnalysesTotal,
		AnalysisDuration,
		RiskFindingsTotal,
	)
}

// observeAnalysis starts the duration clock and returns a function that
// records the outcome once the analysis is assembled.
func observeAnalysis() func(findings []Finding) {
	start := time.Now()
	return func(findings []Finding) {
		AnalysisDuration.Observe(time.Since(start).Seconds())
		outcome := "clean"
		if len(findings) > 0 {
			outcome = "flagged"
		}
		AnalysesTotal.WithLabelValues(outcome).Inc()
		for _, f := range findings {
			RiskFindingsTotal.WithLabelValues(f.Rule).Inc()
		}
	}
}
