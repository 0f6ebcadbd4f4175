// Package report renders ticket ledgers for people rather than machines.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"ticket-ledger/internal/ledger"
	"ticket-ledger/internal/model"
)

// WriteTable prints the ledger of res as an aligned table followed by the
// summary totals, formatting amounts in currency.
func WriteTable(w io.Writer, res *ledger.Result, currency string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tdate\tevent\tamount\tbalance\t")
	for _, e := range res.Events {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t\n",
			e.Index,
			e.Date.Format(time.DateOnly),
			e.Kind,
			model.FormatMoney(e.Amount, currency),
			model.FormatMoney(e.Balance, currency),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := res.Summary
	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := []struct {
		label string
		value string
	}{
		{"principal", model.FormatMoney(s.Principal, currency)},
		{"gross interest", model.FormatMoney(s.GrossInterest, currency)},
		{"withholding tax", model.FormatMoney(s.WithholdingTax, currency)},
		{"net interest", model.FormatMoney(s.NetInterest, currency)},
		{"paid out", model.FormatMoney(s.Paid, currency)},
		{"capitalized", model.FormatMoney(s.Capitalized, currency)},
		{"redeemed", model.FormatMoney(s.Redeemed, currency)},
		{"penalties", model.FormatMoney(s.Penalties, currency)},
		{"capital returned", model.FormatMoney(s.CapitalReturned, currency)},
		{"investor cash", model.FormatMoney(s.InvestorCash(), currency)},
		{"terminated by", string(s.Terminal)},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s:\t%s\n", r.label, r.value)
	}
	if len(res.Pending) > 0 {
		fmt.Fprintf(tw, "unexecuted redemptions:\t%d\n", len(res.Pending))
	}
	return tw.Flush()
}

// WriteDescriptions prints one "index  description" line per event. It is
// the companion of WriteTable for readers who want the booking narrative.
func WriteDescriptions(w io.Writer, res *ledger.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, e := range res.Events {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", e.Index, e.Kind, e.Description)
	}
	return tw.Flush()
}
