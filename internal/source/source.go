// Package source loads transaction datasets for analysis.
//
// A dataset is a JSON array of transfer records. Records are validated as
// they are decoded: the first malformed record aborts the load with a typed
// error rather than being skipped, since silently dropping records would
// corrupt volume totals and risk findings downstream.
package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mbd888/walletlens/internal/analysis"
)

// -----------------------------------------------------------------------------
// Errors - typed errors for programmatic handling
// -----------------------------------------------------------------------------

var (
	ErrMissingField = errors.New("source: missing required field")
	ErrBadTimestamp = errors.New("source: unparseable timestamp")
	ErrBadAmount    = errors.New("source: invalid amount")
	ErrBadAddress   = errors.New("source: invalid address")
)

// RecordError wraps a per-record validation failure with its position.
type RecordError struct {
	Index int    // zero-based position in the input array
	Field string // offending field name
	Err   error  // underlying sentinel
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("source: record %d field %q: %v", e.Index, e.Field, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// timestampLayouts are accepted in order. The zoneless layout matches the
// common export format and is interpreted as UTC.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// rawRecord is the wire shape of one transfer. Pointers distinguish a
// missing field from a present-but-zero one.
type rawRecord struct {
	Timestamp   *string      `json:"timestamp"`
	FromAddress *string      `json:"from_address"`
	ToAddress   *string      `json:"to_address"`
	Amount      *json.Number `json:"amount"`
	Hash        string       `json:"transaction_hash"`
}

// LoadFile reads and validates a JSON dataset from disk.
func LoadFile(path string) ([]analysis.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("source: open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Decode(f)
}

// Decode reads a JSON array of transfer records and returns validated
// transactions in input order.
func Decode(r io.Reader) ([]analysis.Transaction, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw []rawRecord
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("source: decode dataset: %w", err)
	}

	txs := make([]analysis.Transaction, 0, len(raw))
	for i, rec := range raw {
		tx, err := validate(i, rec)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func validate(index int, rec rawRecord) (analysis.Transaction, error) {
	var tx analysis.Transaction

	if rec.Timestamp == nil {
		return tx, &RecordError{Index: index, Field: "timestamp", Err: ErrMissingField}
	}
	if rec.FromAddress == nil {
		return tx, &RecordError{Index: index, Field: "from_address", Err: ErrMissingField}
	}
	if rec.ToAddress == nil {
		return tx, &RecordError{Index: index, Field: "to_address", Err: ErrMissingField}
	}
	if rec.Amount == nil {
		return tx, &RecordError{Index: index, Field: "amount", Err: ErrMissingField}
	}

	ts, err := parseTimestamp(*rec.Timestamp)
	if err != nil {
		return tx, &RecordError{Index: index, Field: "timestamp", Err: ErrBadTimestamp}
	}

	amount, err := rec.Amount.Float64()
	if err != nil || amount < 0 {
		return tx, &RecordError{Index: index, Field: "amount", Err: ErrBadAmount}
	}

	from, err := NormalizeAddress(*rec.FromAddress)
	if err != nil {
		return tx, &RecordError{Index: index, Field: "from_address", Err: err}
	}
	to, err := NormalizeAddress(*rec.ToAddress)
	if err != nil {
		return tx, &RecordError{Index: index, Field: "to_address", Err: err}
	}

	tx = analysis.Transaction{
		Timestamp:   ts,
		FromAddress: from,
		ToAddress:   to,
		Amount:      amount,
		Hash:        rec.Hash,
	}
	return tx, nil
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, ErrBadTimestamp
}

// NormalizeAddress canonicalizes an address-like identifier. Hex addresses
// are validated with go-ethereum and lowercased; other identifiers (mixer
// labels like "tornado.cash", exchange tags) pass through trimmed and
// lowercased. Empty identifiers are rejected.
func NormalizeAddress(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "", ErrMissingField
	}

	if strings.HasPrefix(addr, "0x") || strings.HasPrefix(addr, "0X") {
		if !common.IsHexAddress(addr) {
			return "", ErrBadAddress
		}
		return strings.ToLower(common.HexToAddress(addr).Hex()), nil
	}

	return strings.ToLower(addr), nil
}
