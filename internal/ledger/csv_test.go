package ledger_test

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-ledger/internal/ledger"
	"ticket-ledger/internal/model"
)

func TestEncodeLedgerCSV(t *testing.T) {
	red := model.Redemption{Month: 6, Amount: dec("5000"), PenaltyPct: dec("2")}
	res := ledger.New().Generate(baseTicket("0", red))

	var buf bytes.Buffer
	require.NoError(t, ledger.EncodeLedgerCSV(&buf, res.Events))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, len(res.Events)+1)

	assert.Equal(t, ledger.LedgerHeader, rows[0])
	assert.Equal(t, []string{"0", "2026-01-01", "ORIGINATION", res.Events[0].Description, "10000.00", "10000.00"}, rows[1])

	redemption := rows[8]
	assert.Equal(t, "REDEMPTION_PARTIAL", redemption[2])
	assert.Equal(t, "2026-07-01", redemption[1])
	assert.Equal(t, "-4900.00", redemption[4])
	assert.Equal(t, "5000.00", redemption[5])

	last := rows[len(rows)-1]
	assert.Equal(t, []string{"CAPITAL_RETURN", "-5000.00", "0.00"}, []string{last[2], last[4], last[5]})
}

func TestWriteLedgerCSV(t *testing.T) {
	res := ledger.New().Generate(baseTicket("100"))
	path := filepath.Join(t.TempDir(), "ledger.csv")

	require.NoError(t, ledger.WriteLedgerCSV(path, res.Events))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "index,date,event,description,amount,balance\n")
	assert.Contains(t, string(raw), "CAPITALIZATION")
}

func TestWriteLedgerCSV_BadPath(t *testing.T) {
	err := ledger.WriteLedgerCSV(filepath.Join(t.TempDir(), "missing", "ledger.csv"), nil)
	assert.Error(t, err)
}
