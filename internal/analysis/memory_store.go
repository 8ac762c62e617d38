package analysis

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory implementation of Store for demo/test use.
type MemoryStore struct {
	mu       sync.RWMutex
	analyses map[string][]*WalletAnalysis // address → analyses, oldest first
}

// NewMemoryStore creates an in-memory analysis audit store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		analyses: make(map[string][]*WalletAnalysis),
	}
}

func (s *MemoryStore) Record(ctx context.Context, a *WalletAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.analyses[a.Address] = append(s.analyses[a.Address], copyAnalysis(a))
	return nil
}

func (s *MemoryStore) ListByAddress(ctx context.Context, address string, limit int) ([]*WalletAnalysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.analyses[address]
	if len(all) == 0 {
		return nil, nil
	}

	// Return most recent first, up to limit
	start := len(all) - limit
	if start < 0 {
		start = 0
	}

	result := make([]*WalletAnalysis, 0, len(all)-start)
	for i := len(all) - 1; i >= start; i-- {
		result = append(result, copyAnalysis(all[i]))
	}
	return result, nil
}

// copyAnalysis deep-copies the slices so callers and the store never share
// backing arrays.
func copyAnalysis(a *WalletAnalysis) *WalletAnalysis {
	c := *a
	if a.RiskIndicators != nil {
		c.RiskIndicators = append([]string(nil), a.RiskIndicators...)
	}
	if a.Counterparties.TopCounterparties != nil {
		c.Counterparties.TopCounterparties = append([]CounterpartyVolume(nil), a.Counterparties.TopCounterparties...)
	}
	return &c
}
