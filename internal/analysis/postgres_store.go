package analysis

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PostgresStore persists wallet analyses in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgreSQL-backed analysis audit store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the wallet_analyses table if it doesn't exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS wallet_analyses (
			id                 VARCHAR(36) PRIMARY KEY,
			address            TEXT NOT NULL,
			total_transactions INTEGER NOT NULL,
			total_volume       DOUBLE PRECISION NOT NULL,
			risk_indicators    JSONB NOT NULL DEFAULT '[]',
			hourly_avg         DOUBLE PRECISION NOT NULL,
			daily_avg          DOUBLE PRECISION NOT NULL,
			counterparties     JSONB NOT NULL DEFAULT '{}',
			analyzed_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_wallet_analyses_address
			ON wallet_analyses (address, analyzed_at DESC);

		CREATE INDEX IF NOT EXISTS idx_wallet_analyses_flagged
			ON wallet_analyses (analyzed_at DESC) WHERE jsonb_array_length(risk_indicators) > 0;
	`)
	return err
}

func (s *PostgresStore) Record(ctx context.Context, a *WalletAnalysis) error {
	indicators := a.RiskIndicators
	if indicators == nil {
		indicators = []string{}
	}
	indicatorsJSON, err := json.Marshal(indicators)
	if err != nil {
		return fmt.Errorf("failed to marshal risk indicators: %w", err)
	}
	counterpartiesJSON, err := json.Marshal(a.Counterparties)
	if err != nil {
		return fmt.Errorf("failed to marshal counterparties: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO wallet_analyses
			(id, address, total_transactions, total_volume, risk_indicators, hourly_avg, daily_avg, counterparties, analyzed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		a.ID,
		a.Address,
		a.TotalTransactions,
		a.TotalVolume,
		indicatorsJSON,
		a.Velocity.HourlyAvg,
		a.Velocity.DailyAvg,
		counterpartiesJSON,
		a.AnalyzedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record wallet analysis: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByAddress(ctx context.Context, address string, limit int) ([]*WalletAnalysis, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, address, total_transactions, total_volume, risk_indicators, hourly_avg, daily_avg, counterparties, analyzed_at
		FROM wallet_analyses
		WHERE address = $1
		ORDER BY analyzed_at DESC
		LIMIT $2
	`, address, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallet analyses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*WalletAnalysis
	for rows.Next() {
		var (
			a                  WalletAnalysis
			indicatorsJSON     []byte
			counterpartiesJSON []byte
		)
		if err := rows.Scan(
			&a.ID,
			&a.Address,
			&a.TotalTransactions,
			&a.TotalVolume,
			&indicatorsJSON,
			&a.Velocity.HourlyAvg,
			&a.Velocity.DailyAvg,
			&counterpartiesJSON,
			&a.AnalyzedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan wallet analysis: %w", err)
		}
		if err := json.Unmarshal(indicatorsJSON, &a.RiskIndicators); err != nil {
			return nil, fmt.Errorf("failed to unmarshal risk indicators: %w", err)
		}
		if err := json.Unmarshal(counterpartiesJSON, &a.Counterparties); err != nil {
			return nil, fmt.Errorf("failed to unmarshal counterparties: %w", err)
		}
		result = append(result, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wallet analyses: %w", err)
	}
	return result, nil
}
