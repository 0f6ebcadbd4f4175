package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"ticket-ledger/internal/model"
)

// Summary aggregates the cash flows of a ticket's life.
// Gross interest, tax and penalties never appear as ledger amounts of their
// own, so they are tallied while the ledger is generated.
type Summary struct {
	Principal decimal.Decimal

	GrossInterest  decimal.Decimal
	WithholdingTax decimal.Decimal
	NetInterest    decimal.Decimal

	Paid        decimal.Decimal // coupons transferred to the investor
	Capitalized decimal.Decimal

	Redeemed       decimal.Decimal // executed redemption amounts before penalty
	Penalties      decimal.Decimal
	RedemptionCash decimal.Decimal // what the investor received from redemptions

	CapitalReturned decimal.Decimal

	// Forfeited holds sub-cent payouts and capitalizations that were not
	// booked, plus any dust balance cleared by an early liquidation.
	Forfeited decimal.Decimal

	// CashOut is the sum of all negative ledger amounts, as a positive number.
	CashOut decimal.Decimal

	FinalBalance decimal.Decimal

	Periods     int
	Redemptions int
	Terminal    model.EventKind
}

// Reconcile verifies that the ledger is a closed cash-flow account: every
// unit of principal and net interest either left to the investor, was kept
// as a penalty, was forfeited as dust, or is still outstanding.
func (s Summary) Reconcile() error {
	in := s.Principal.Add(s.NetInterest)
	out := s.CashOut.Add(s.Penalties).Add(s.Forfeited).Add(s.FinalBalance)
	if !in.Equal(out) {
		return fmt.Errorf("ledger does not close: principal+net interest=%s, cash out+penalties+forfeited+balance=%s", in, out)
	}

	split := s.Paid.Add(s.Capitalized).Add(s.Forfeited)
	if split.LessThan(s.NetInterest) {
		return fmt.Errorf("net interest %s not fully distributed (paid+capitalized+forfeited=%s)", s.NetInterest, split)
	}

	if !s.GrossInterest.Sub(s.WithholdingTax).Equal(s.NetInterest) {
		return fmt.Errorf("gross interest %s minus tax %s does not equal net interest %s", s.GrossInterest, s.WithholdingTax, s.NetInterest)
	}
	return nil
}

// InvestorCash is everything the investor received over the ticket's life.
func (s Summary) InvestorCash() decimal.Decimal {
	return s.CashOut
}
