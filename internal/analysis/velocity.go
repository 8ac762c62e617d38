package analysis

// ComputeVelocity derives hourly and daily transaction-rate averages from a
// wallet's subset. The observed span is max(timestamp) - min(timestamp); the
// divisor is floored at one hour (and one day-equivalent) so that a burst of
// N transactions inside a single hour reports at most N per hour. The floor
// is deliberate dampening for near-zero spans, not a rounding artifact.
//
// An empty subset yields the defined zero case {0, 0}.
func ComputeVelocity(subset []Transaction) VelocityMetrics {
	if len(subset) == 0 {
		return VelocityMetrics{}
	}

	earliest, latest := subset[0].Timestamp, subset[0].Timestamp
	for _, tx := range subset[1:] {
		if tx.Timestamp.Before(earliest) {
			earliest = tx.Timestamp
		}
		if tx.Timestamp.After(latest) {
			latest = tx.Timestamp
		}
	}

	hours := latest.Sub(earliest).Hours()
	n := float64(len(subset))

	return VelocityMetrics{
		HourlyAvg: n / maxFloat(hours, 1),
		DailyAvg:  n / maxFloat(hours/24, 1),
	}
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
