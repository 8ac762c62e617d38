package analysis

import "testing"

func TestAggregateCombinedSet(t *testing.T) {
	// 0xbbb appears both as recipient and sender: one combined set,
	// counted once.
	subset := []Transaction{
		tx(t, "2024-01-01T10:00:00", "0xaaa", "0xbbb", 1.5),
		tx(t, "2024-01-01T11:00:00", "0xbbb", "0xaaa", 2.0),
		tx(t, "2024-01-01T12:00:00", "0xaaa", "0xccc", 3.0),
	}

	result := AggregateCounterparties("0xaaa", subset, 0)
	if result.UniqueCounterparties != 2 {
		t.Errorf("unique counterparties = %d, want 2", result.UniqueCounterparties)
	}
	if result.UniqueCounterparties > len(subset) {
		t.Errorf("unique counterparties %d exceeds subset size %d", result.UniqueCounterparties, len(subset))
	}
}

func TestAggregateVolumeAttribution(t *testing.T) {
	// Both directions accumulate onto the same counterparty.
	subset := []Transaction{
		tx(t, "2024-01-01T10:00:00", "0xaaa", "0xbbb", 1.5),
		tx(t, "2024-01-01T11:00:00", "0xbbb", "0xaaa", 2.0),
	}

	result := AggregateCounterparties("0xaaa", subset, 5)
	if len(result.TopCounterparties) != 1 {
		t.Fatalf("expected 1 ranked counterparty, got %v", result.TopCounterparties)
	}
	top := result.TopCounterparties[0]
	if top.Address != "0xbbb" || top.Volume != 3.5 {
		t.Errorf("top counterparty = %+v, want {0xbbb 3.5}", top)
	}
}

func TestAggregateRankingAndTruncation(t *testing.T) {
	subset := []Transaction{
		tx(t, "2024-01-01T10:00:00", "0xaaa", "0xb1", 10),
		tx(t, "2024-01-01T11:00:00", "0xaaa", "0xb2", 50),
		tx(t, "2024-01-01T12:00:00", "0xaaa", "0xb3", 30),
		tx(t, "2024-01-01T13:00:00", "0xaaa", "0xb4", 40),
		tx(t, "2024-01-01T14:00:00", "0xaaa", "0xb5", 20),
		tx(t, "2024-01-01T15:00:00", "0xaaa", "0xb6", 5),
	}

	result := AggregateCounterparties("0xaaa", subset, 3)
	if result.UniqueCounterparties != 6 {
		t.Errorf("unique counterparties = %d, want 6", result.UniqueCounterparties)
	}
	if len(result.TopCounterparties) != 3 {
		t.Fatalf("top list length = %d, want 3", len(result.TopCounterparties))
	}
	want := []CounterpartyVolume{
		{Address: "0xb2", Volume: 50},
		{Address: "0xb4", Volume: 40},
		{Address: "0xb3", Volume: 30},
	}
	for i, w := range want {
		if result.TopCounterparties[i] != w {
			t.Errorf("rank %d = %+v, want %+v", i, result.TopCounterparties[i], w)
		}
	}
	// Non-increasing by volume
	for i := 1; i < len(result.TopCounterparties); i++ {
		if result.TopCounterparties[i].Volume > result.TopCounterparties[i-1].Volume {
			t.Errorf("top list not sorted descending at %d: %v", i, result.TopCounterparties)
		}
	}
}

func TestAggregateTieBreakFirstSeen(t *testing.T) {
	// Equal volumes keep first-seen order so output is reproducible.
	subset := []Transaction{
		tx(t, "2024-01-01T10:00:00", "0xaaa", "0xfirst", 7),
		tx(t, "2024-01-01T11:00:00", "0xaaa", "0xsecond", 7),
		tx(t, "2024-01-01T12:00:00", "0xaaa", "0xthird", 7),
	}

	result := AggregateCounterparties("0xaaa", subset, 5)
	got := []string{
		result.TopCounterparties[0].Address,
		result.TopCounterparties[1].Address,
		result.TopCounterparties[2].Address,
	}
	if got[0] != "0xfirst" || got[1] != "0xsecond" || got[2] != "0xthird" {
		t.Errorf("tie order not first-seen: %v", got)
	}
}

func TestAggregateDefaultTopN(t *testing.T) {
	var subset []Transaction
	for i := 0; i < 8; i++ {
		subset = append(subset, Transaction{
			Timestamp:   ts(t, "2024-01-01T10:00:00"),
			FromAddress: "0xaaa",
			ToAddress:   string(rune('a'+i)) + "-counterparty",
			Amount:      float64(i + 1),
		})
	}

	result := AggregateCounterparties("0xaaa", subset, 0)
	if len(result.TopCounterparties) != DefaultTopCounterparties {
		t.Errorf("top list length = %d, want default %d", len(result.TopCounterparties), DefaultTopCounterparties)
	}
}

func TestAggregateEmptySubset(t *testing.T) {
	result := AggregateCounterparties("0xaaa", nil, 5)
	if result.UniqueCounterparties != 0 || len(result.TopCounterparties) != 0 {
		t.Errorf("empty subset should yield zero counterparties, got %+v", result)
	}
}
