package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const addrA = "0x1111111111111111111111111111111111111111"
const addrB = "0x2222222222222222222222222222222222222222"

func TestDecodeValidDataset(t *testing.T) {
	input := `[
		{"timestamp": "2024-01-01T10:00:00", "from_address": "` + addrA + `", "to_address": "` + addrB + `", "amount": 1.5, "transaction_hash": "0xabc"},
		{"timestamp": "2024-01-01T11:00:00Z", "from_address": "` + addrB + `", "to_address": "tornado.cash", "amount": 2, "transaction_hash": "0xdef"}
	]`

	txs, err := Decode(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, addrA, txs[0].FromAddress)
	assert.Equal(t, addrB, txs[0].ToAddress)
	assert.Equal(t, 1.5, txs[0].Amount)
	assert.Equal(t, "0xabc", txs[0].Hash)
	assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), txs[0].Timestamp)

	// Order preserved; labels pass through lowercased
	assert.Equal(t, "tornado.cash", txs[1].ToAddress)
}

func TestDecodeMissingField(t *testing.T) {
	input := `[{"timestamp": "2024-01-01T10:00:00", "from_address": "` + addrA + `", "amount": 1}]`

	_, err := Decode(strings.NewReader(input))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingField)

	var recErr *RecordError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, 0, recErr.Index)
	assert.Equal(t, "to_address", recErr.Field)
}

func TestDecodeBadTimestamp(t *testing.T) {
	input := `[{"timestamp": "yesterday", "from_address": "` + addrA + `", "to_address": "` + addrB + `", "amount": 1}]`

	_, err := Decode(strings.NewReader(input))
	assert.ErrorIs(t, err, ErrBadTimestamp)
}

func TestDecodeNegativeAmount(t *testing.T) {
	input := `[{"timestamp": "2024-01-01T10:00:00", "from_address": "` + addrA + `", "to_address": "` + addrB + `", "amount": -5}]`

	_, err := Decode(strings.NewReader(input))
	assert.ErrorIs(t, err, ErrBadAmount)
}

func TestDecodeNonNumericAmount(t *testing.T) {
	input := `[{"timestamp": "2024-01-01T10:00:00", "from_address": "` + addrA + `", "to_address": "` + addrB + `", "amount": "a lot"}]`

	_, err := Decode(strings.NewReader(input))
	require.Error(t, err)
}

func TestDecodeAbortsOnFirstBadRecord(t *testing.T) {
	// A bad record aborts the whole load; the good one before it is not
	// returned. Skipping would corrupt totals downstream.
	input := `[
		{"timestamp": "2024-01-01T10:00:00", "from_address": "` + addrA + `", "to_address": "` + addrB + `", "amount": 1},
		{"timestamp": "2024-01-01T11:00:00", "from_address": "` + addrA + `", "to_address": "` + addrB + `", "amount": -1}
	]`

	txs, err := Decode(strings.NewReader(input))
	require.Error(t, err)
	assert.Nil(t, txs)

	var recErr *RecordError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, 1, recErr.Index)
}

func TestDecodeEmptyArray(t *testing.T) {
	txs, err := Decode(strings.NewReader(`[]`))
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "txs.json")
	data := `[{"timestamp": "2024-01-01T10:00:00", "from_address": "` + addrA + `", "to_address": "` + addrB + `", "amount": 3.25, "transaction_hash": "0x1"}]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	txs, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, 3.25, txs[0].Amount)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestNormalizeAddress(t *testing.T) {
	// Mixed-case hex address lowercases
	got, err := NormalizeAddress("0xABCDEF1234567890ABCDEF1234567890ABCDEF12")
	require.NoError(t, err)
	assert.Equal(t, "0xabcdef1234567890abcdef1234567890abcdef12", got)

	// Labels trim and lowercase
	got, err = NormalizeAddress("  Tornado.Cash ")
	require.NoError(t, err)
	assert.Equal(t, "tornado.cash", got)

	// 0x-prefixed but not a valid address
	_, err = NormalizeAddress("0x123...")
	assert.ErrorIs(t, err, ErrBadAddress)

	// Empty
	_, err = NormalizeAddress("   ")
	assert.ErrorIs(t, err, ErrMissingField)
}
