package ledger

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// LedgerHeader is the column layout of exported ledgers.
var LedgerHeader = []string{
	"index",
	"date",
	"event",
	"description",
	"amount",
	"balance",
}

func WriteLedgerCSV(path string, events []Event) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return EncodeLedgerCSV(f, events)
}

// EncodeLedgerCSV writes the header and one row per event to w.
func EncodeLedgerCSV(w io.Writer, events []Event) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(LedgerHeader); err != nil {
		return err
	}

	for _, e := range events {
		row := []string{
			strconv.Itoa(e.Index),
			fmtDate(e.Date),
			string(e.Kind),
			e.Description,
			fmtAmount(e.Amount),
			fmtAmount(e.Balance),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func fmtDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

func fmtAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
