package analysis

import (
	"math"
	"testing"
	"time"
)

func TestVelocityEmptySubset(t *testing.T) {
	v := ComputeVelocity(nil)
	if v.HourlyAvg != 0 || v.DailyAvg != 0 {
		t.Errorf("empty subset should yield {0,0}, got %+v", v)
	}
}

func TestVelocityFloorSameMinute(t *testing.T) {
	// 10 transactions inside one minute: the divisor floors at 1 hour
	// (and 1 day-equivalent), so hourly is exactly 10 and daily at most 10.
	base := ts(t, "2024-01-01T10:00:00")
	var subset []Transaction
	for i := 0; i < 10; i++ {
		subset = append(subset, Transaction{
			Timestamp:   base.Add(time.Duration(i) * time.Second),
			FromAddress: "0xaaa",
			ToAddress:   "0xbbb",
			Amount:      1.5,
		})
	}

	v := ComputeVelocity(subset)
	if v.HourlyAvg != 10 {
		t.Errorf("hourly avg = %f, want 10", v.HourlyAvg)
	}
	if v.DailyAvg > 10 {
		t.Errorf("daily avg = %f, want <= 10", v.DailyAvg)
	}
}

func TestVelocityOverMultipleHours(t *testing.T) {
	// 5 transactions spread over exactly 10 hours
	base := ts(t, "2024-01-01T00:00:00")
	var subset []Transaction
	for i := 0; i < 5; i++ {
		subset = append(subset, Transaction{
			Timestamp:   base.Add(time.Duration(i) * 150 * time.Minute),
			FromAddress: "0xaaa",
			ToAddress:   "0xbbb",
			Amount:      1,
		})
	}

	v := ComputeVelocity(subset)
	if math.Abs(v.HourlyAvg-0.5) > 1e-9 {
		t.Errorf("hourly avg = %f, want 0.5", v.HourlyAvg)
	}
	// 10 hours is under a day, so the daily divisor also floors at 1
	if math.Abs(v.DailyAvg-5) > 1e-9 {
		t.Errorf("daily avg = %f, want 5", v.DailyAvg)
	}
}

func TestVelocityOverMultipleDays(t *testing.T) {
	// 6 transactions over exactly 48 hours → 0.125/hour, 3/day
	base := ts(t, "2024-01-01T00:00:00")
	var subset []Transaction
	for i := 0; i < 6; i++ {
		// Evenly spread: 0h, 9.6h, ..., 48h
		subset = append(subset, Transaction{
			Timestamp:   base.Add(time.Duration(float64(i) * 9.6 * float64(time.Hour))),
			FromAddress: "0xaaa",
			ToAddress:   "0xbbb",
			Amount:      1,
		})
	}

	v := ComputeVelocity(subset)
	if math.Abs(v.HourlyAvg-0.125) > 1e-9 {
		t.Errorf("hourly avg = %f, want 0.125", v.HourlyAvg)
	}
	if math.Abs(v.DailyAvg-3) > 1e-9 {
		t.Errorf("daily avg = %f, want 3", v.DailyAvg)
	}
}

func TestVelocityUnorderedTimestamps(t *testing.T) {
	// The span is min/max over the subset, not first/last position.
	subset := []Transaction{
		tx(t, "2024-01-01T05:00:00", "0xaaa", "0xbbb", 1),
		tx(t, "2024-01-01T00:00:00", "0xaaa", "0xbbb", 1),
		tx(t, "2024-01-01T10:00:00", "0xaaa", "0xbbb", 1),
	}

	v := ComputeVelocity(subset)
	if math.Abs(v.HourlyAvg-0.3) > 1e-9 {
		t.Errorf("hourly avg = %f, want 0.3", v.HourlyAvg)
	}
}
