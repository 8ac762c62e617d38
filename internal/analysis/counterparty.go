package analysis

import "sort"

// DefaultTopCounterparties is how many ranked counterparties an analysis
// carries unless the caller asks for more.
const DefaultTopCounterparties = 5

// AggregateCounterparties summarizes who addr transacted with. The unique
// count is the size of one combined set: recipients the wallet sent to plus
// senders it received from. The top list is a single-pass fold attributing
// each transaction's amount to the other party, ranked by accumulated volume
// descending; ties keep first-seen order so output is deterministic.
func AggregateCounterparties(addr string, subset []Transaction, topN int) CounterpartyAnalysis {
	if topN <= 0 {
		topN = DefaultTopCounterparties
	}

	volumes := make(map[string]float64)
	var order []string // first-seen order, for deterministic ties

	for _, tx := range subset {
		other := tx.FromAddress
		if tx.FromAddress == addr {
			other = tx.ToAddress
		}
		if _, seen := volumes[other]; !seen {
			order = append(order, other)
		}
		volumes[other] += tx.Amount
	}

	ranked := make([]CounterpartyVolume, 0, len(order))
	for _, cp := range order {
		ranked = append(ranked, CounterpartyVolume{Address: cp, Volume: volumes[cp]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Volume > ranked[j].Volume
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	return CounterpartyAnalysis{
		UniqueCounterparties: len(volumes),
		TopCounterparties:    ranked,
	}
}
