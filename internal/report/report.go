// Package report renders wallet analyses as plain-text reports.
package report

import (
	"fmt"
	"strings"

	"github.com/mbd888/walletlens/internal/analysis"
)

// Render turns an analysis into the labeled plain-text report consumed by
// humans (CLI output, ticket attachments). Volumes and velocity averages are
// formatted to two decimals.
func Render(a *analysis.WalletAnalysis) string {
	var b strings.Builder

	b.WriteString("Wallet Analysis Report\n")
	b.WriteString("=====================\n")
	fmt.Fprintf(&b, "Address: %s\n\n", a.Address)

	b.WriteString("Transaction Summary\n")
	b.WriteString("------------------\n")
	fmt.Fprintf(&b, "Total Transactions: %d\n", a.TotalTransactions)
	fmt.Fprintf(&b, "Total Volume: %.2f ETH\n\n", a.TotalVolume)

	b.WriteString("Risk Indicators\n")
	b.WriteString("--------------\n")
	if len(a.RiskIndicators) == 0 {
		b.WriteString("No risk indicators detected\n")
	} else {
		for _, indicator := range a.RiskIndicators {
			b.WriteString(indicator)
			b.WriteByte('\n')
		}
	}
	b.WriteByte('\n')

	b.WriteString("Transaction Velocity\n")
	b.WriteString("------------------\n")
	fmt.Fprintf(&b, "Hourly Average: %.2f\n", a.Velocity.HourlyAvg)
	fmt.Fprintf(&b, "Daily Average: %.2f\n\n", a.Velocity.DailyAvg)

	b.WriteString("Counterparty Analysis\n")
	b.WriteString("--------------------\n")
	fmt.Fprintf(&b, "Unique Counterparties: %d\n", a.Counterparties.UniqueCounterparties)
	b.WriteString("Top Counterparties by Volume:\n")
	for _, cp := range a.Counterparties.TopCounterparties {
		fmt.Fprintf(&b, "- %s: %.2f ETH\n", cp.Address, cp.Volume)
	}

	return b.String()
}
