// Package analysis implements per-wallet transaction analysis.
//
// Given an in-memory set of transfers and a target address, it computes
// volume totals, evaluates heuristic risk indicators (mixing-service
// interaction, structuring near the reporting threshold, round-amount usage),
// derives transaction-velocity metrics, and ranks counterparties by volume.
// All computations are pure functions over the input set; analyses of
// different wallets over the same set may run concurrently.
package analysis

import (
	"context"
	"time"
)

// Transaction is a single transfer record. Created by the data layer
// (internal/source) and never mutated afterwards. Hash is opaque and
// unused by the analysis itself.
type Transaction struct {
	Timestamp   time.Time `json:"timestamp"`
	FromAddress string    `json:"from_address"`
	ToAddress   string    `json:"to_address"`
	Amount      float64   `json:"amount"`
	Hash        string    `json:"transaction_hash"`
}

// Involves reports whether addr appears on either side of the transaction.
func (t Transaction) Involves(addr string) bool {
	return t.FromAddress == addr || t.ToAddress == addr
}

// VelocityMetrics describes how quickly a wallet transacts.
type VelocityMetrics struct {
	HourlyAvg float64 `json:"hourlyAvg"`
	DailyAvg  float64 `json:"dailyAvg"`
}

// CounterpartyVolume pairs a counterparty address with the volume
// exchanged with the analyzed wallet, in either direction.
type CounterpartyVolume struct {
	Address string  `json:"address"`
	Volume  float64 `json:"volume"`
}

// CounterpartyAnalysis summarizes who a wallet transacts with.
type CounterpartyAnalysis struct {
	UniqueCounterparties int                  `json:"uniqueCounterparties"`
	TopCounterparties    []CounterpartyVolume `json:"topCounterparties"`
}

// WalletAnalysis is the composite result of analyzing one address.
type WalletAnalysis struct {
	ID                string               `json:"id"`
	Address           string               `json:"address"`
	TotalTransactions int                  `json:"totalTransactions"`
	TotalVolume       float64              `json:"totalVolume"`
	RiskIndicators    []string             `json:"riskIndicators"`
	Velocity          VelocityMetrics      `json:"transactionVelocity"`
	Counterparties    CounterpartyAnalysis `json:"counterparties"`
	AnalyzedAt        time.Time            `json:"analyzedAt"`
}

// Flagged reports whether the analysis produced any risk indicators.
func (a *WalletAnalysis) Flagged() bool {
	return len(a.RiskIndicators) > 0
}

// Store persists completed analyses for audit trail.
type Store interface {
	Record(ctx context.Context, a *WalletAnalysis) error
	ListByAddress(ctx context.Context, address string, limit int) ([]*WalletAnalysis, error)
}

// FilterByAddress returns the transactions where addr appears as sender or
// recipient, preserving the original relative order. A self-transfer appears
// once in the result. Filtering an empty or non-matching set yields an empty
// (nil) slice, never an error.
func FilterByAddress(txs []Transaction, addr string) []Transaction {
	var subset []Transaction
	for _, tx := range txs {
		if tx.Involves(addr) {
			subset = append(subset, tx)
		}
	}
	return subset
}
