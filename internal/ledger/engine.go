package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"ticket-ledger/internal/model"
)

const (
	// PeriodMonths is the fund's bimestral settlement cycle.
	PeriodMonths = 2

	// DayCountBasis is the actual/360 convention denominator.
	DayCountBasis = 360
)

var (
	// WithholdingRate is the flat tax withheld from gross interest.
	WithholdingRate = decimal.RequireFromString("0.05")

	// Dust is the smallest amount that gets booked; payouts and
	// capitalizations at or below it are not emitted.
	Dust = model.Dust

	hundred = decimal.NewFromInt(100)

	// rateBasis turns a percentage rate times days into a year fraction.
	rateBasis = decimal.NewFromInt(100 * DayCountBasis)
)

// Engine generates ticket ledgers. It holds no state between runs and is
// safe for concurrent use.
type Engine struct {
	periodMonths int
}

// New returns an engine settling on the fund's bimestral cycle.
func New() *Engine { return &Engine{periodMonths: PeriodMonths} }

// Generate simulates one ticket from origination to termination.
// It is a pure function of params: the same input always yields the same
// ledger, and params (including its redemption slice) is left untouched.
// Inputs are assumed valid; see model.TicketParams.Validate.
func (e *Engine) Generate(params model.TicketParams) *Result {
	t := model.NewTicket(params)
	g := &generator{ticket: t}
	g.summary.Principal = t.Params.Principal

	start := t.Params.StartDate
	g.emit(start, model.EventOrigination,
		fmt.Sprintf("Ticket origination | rate %s%% | term %dm", t.Params.AnnualRate, t.Params.TermMonths),
		t.Params.Principal)

	cursor := start
	for cursor.Before(t.EndDate) && t.Balance.IsPositive() {
		cut := model.AddMonths(cursor, e.periodMonths)
		if cut.After(t.EndDate) {
			cut = t.EndDate
		}

		// Only the earliest redemption inside (cursor, cut] is considered
		// for this period; later ones wait for a following window.
		redemption := -1
		eventDate := cut
		for i, r := range t.Pending {
			d := t.RedemptionDate(r)
			if d.After(cursor) && !d.After(cut) {
				redemption = i
				eventDate = d
				break
			}
		}

		g.accrue(cursor, eventDate, redemption >= 0)

		if redemption >= 0 {
			if g.redeem(redemption, eventDate) {
				return g.result()
			}
		}
		cursor = eventDate
	}

	if t.Balance.IsPositive() {
		returned := t.Balance
		t.Balance = decimal.Zero
		if returned.LessThanOrEqual(Dust) {
			// Nothing bookable is left, but the ticket still matures.
			g.summary.Forfeited = g.summary.Forfeited.Add(returned)
			returned = decimal.Zero
		}
		g.summary.CapitalReturned = returned
		g.emit(t.EndDate, model.EventCapitalReturn, "Term maturity", returned.Neg())
	}
	return g.result()
}

// generator accumulates ledger events and running totals for one ticket.
type generator struct {
	ticket  *model.Ticket
	events  []Event
	summary Summary
}

func (g *generator) emit(date time.Time, kind model.EventKind, desc string, amount decimal.Decimal) {
	g.events = append(g.events, Event{
		Index:       len(g.events),
		Date:        date,
		Kind:        kind,
		Description: desc,
		Amount:      amount,
		Balance:     g.ticket.Balance,
	})
	if amount.IsNegative() {
		g.summary.CashOut = g.summary.CashOut.Add(amount.Neg())
	}
}

// accrue books the interest earned between from and to and splits the net
// amount between payout and capitalization.
func (g *generator) accrue(from, to time.Time, beforeRedemption bool) {
	t := g.ticket
	g.summary.Periods++

	days := model.DaysBetween(from, to)
	if days < 0 {
		days = 0
	}
	gross := t.Balance.Mul(t.Params.AnnualRate).Mul(decimal.NewFromInt(int64(days))).Div(rateBasis)
	tax := gross.Mul(WithholdingRate)
	net := gross.Sub(tax)

	g.summary.GrossInterest = g.summary.GrossInterest.Add(gross)
	g.summary.WithholdingTax = g.summary.WithholdingTax.Add(tax)
	g.summary.NetInterest = g.summary.NetInterest.Add(net)

	if days > 0 {
		label := "Period close"
		if beforeRedemption {
			label = "Accrual to redemption"
		}
		g.emit(to, model.EventInterestAccrual,
			fmt.Sprintf("%s: interest %d days on %s", label, days, model.FormatAmount(t.Balance)),
			net)
	}

	capitalize := net.Mul(t.Params.CapitalizationPct.Div(hundred))
	payout := net.Sub(capitalize)

	if payout.GreaterThan(Dust) {
		g.summary.Paid = g.summary.Paid.Add(payout)
		g.emit(to, model.EventPayout, "Coupon transfer to investor", payout.Neg())
	} else {
		g.summary.Forfeited = g.summary.Forfeited.Add(payout)
	}

	if capitalize.GreaterThan(Dust) {
		t.Balance = t.Balance.Add(capitalize)
		g.summary.Capitalized = g.summary.Capitalized.Add(capitalize)
		g.emit(to, model.EventCapitalization, "Compound interest reinvested", capitalize)
	} else {
		g.summary.Forfeited = g.summary.Forfeited.Add(capitalize)
	}
}

// redeem executes the pending redemption at index i and reports whether it
// liquidated the ticket.
func (g *generator) redeem(i int, date time.Time) bool {
	t := g.ticket
	r := t.Pending[i]
	t.RemovePending(i)

	requested := r.Amount
	kind := model.EventRedemptionPartial
	if requested.GreaterThanOrEqual(t.Balance) {
		requested = t.Balance
		kind = model.EventRedemptionTotal
	}
	penalty := requested.Mul(r.PenaltyPct.Div(hundred))
	toInvestor := requested.Sub(penalty)

	t.Balance = t.Balance.Sub(requested)
	g.summary.Redemptions++
	g.summary.Redeemed = g.summary.Redeemed.Add(requested)
	g.summary.Penalties = g.summary.Penalties.Add(penalty)
	g.summary.RedemptionCash = g.summary.RedemptionCash.Add(toInvestor)

	g.emit(date, kind,
		fmt.Sprintf("Requested %s | penalty %s%%", model.FormatAmount(requested), r.PenaltyPct),
		toInvestor.Neg())

	if t.Balance.LessThanOrEqual(Dust) {
		g.summary.Forfeited = g.summary.Forfeited.Add(t.Balance)
		t.Balance = decimal.Zero
		g.emit(date, model.EventEarlyLiquidation, "Balance exhausted by redemption", decimal.Zero)
		return true
	}
	return false
}

func (g *generator) result() *Result {
	t := g.ticket
	g.summary.FinalBalance = t.Balance
	if n := len(g.events); n > 0 {
		g.summary.Terminal = g.events[n-1].Kind
	}
	pending := make([]model.Redemption, len(t.Pending))
	copy(pending, t.Pending)
	return &Result{
		Events:       g.events,
		FinalBalance: t.Balance,
		Pending:      pending,
		Summary:      g.summary,
	}
}
