package model

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Redemption is an early-withdrawal request scheduled against a ticket.
// Units:
// - Month: offset in months from the ticket's start date
// - Amount: requested gross amount (clamped to the balance when executed)
// - PenaltyPct: percentage 0..100 of the executed amount kept by the fund
type Redemption struct {
	Month      int             `json:"month"`
	Amount     decimal.Decimal `json:"amount"`
	PenaltyPct decimal.Decimal `json:"penalty_pct"`
}

// TicketParams are the contract terms of one deposit, fixed at creation.
// AnnualRate and CapitalizationPct are percentages (12 means 12%).
type TicketParams struct {
	Name              string
	Currency          string
	Principal         decimal.Decimal
	AnnualRate        decimal.Decimal
	StartDate         time.Time
	TermMonths        int
	CapitalizationPct decimal.Decimal
	Redemptions       []Redemption
}

// Ticket bundles the immutable params with the state evolved by a simulation.
type Ticket struct {
	Params  TicketParams
	EndDate time.Time

	// Balance starts at the principal; it grows only by capitalization and
	// shrinks only by redemptions.
	Balance decimal.Decimal

	// Pending holds redemptions not yet executed, ascending by Month.
	Pending []Redemption
}

// NewTicket snapshots params into a fresh ticket. The caller's redemption
// slice is copied, never reordered in place.
func NewTicket(params TicketParams) *Ticket {
	start := DateOf(params.StartDate)
	params.StartDate = start

	pending := make([]Redemption, len(params.Redemptions))
	copy(pending, params.Redemptions)
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].Month < pending[j].Month
	})

	end := start
	if params.TermMonths > 0 {
		end = AddMonths(start, params.TermMonths)
	}

	return &Ticket{
		Params:  params,
		EndDate: end,
		Balance: params.Principal,
		Pending: pending,
	}
}

// RedemptionDate is the theoretical execution date of r for this ticket.
func (t *Ticket) RedemptionDate(r Redemption) time.Time {
	return AddMonths(t.Params.StartDate, r.Month)
}

// RemovePending drops the pending redemption at index i.
func (t *Ticket) RemovePending(i int) {
	t.Pending = append(t.Pending[:i:i], t.Pending[i+1:]...)
}

var hundred = decimal.NewFromInt(100)

// Dust is the smallest bookable amount. A principal at or below it could
// never be returned to the investor.
var Dust = decimal.RequireFromString("0.01")

// Validate checks the caller-side preconditions of a simulation.
// The ledger engine itself assumes sanitized input and never calls this.
func (p TicketParams) Validate() error {
	if len(p.Currency) != 3 {
		return errors.New("currency must be a 3-letter ISO code")
	}
	if !p.Principal.GreaterThan(Dust) {
		return fmt.Errorf("principal must be > %s", Dust)
	}
	if p.AnnualRate.IsNegative() {
		return errors.New("annual_rate must be >= 0")
	}
	if p.StartDate.IsZero() {
		return errors.New("start_date is required")
	}
	if p.TermMonths <= 0 {
		return errors.New("term_months must be > 0")
	}
	if !inPercentRange(p.CapitalizationPct) {
		return errors.New("capitalization_pct must be in [0, 100]")
	}
	for i, r := range p.Redemptions {
		if r.Month <= 0 || r.Month >= p.TermMonths {
			return fmt.Errorf("redemption %d: month must be in (0, %d)", i, p.TermMonths)
		}
		if !r.Amount.IsPositive() {
			return fmt.Errorf("redemption %d: amount must be > 0", i)
		}
		if !inPercentRange(r.PenaltyPct) {
			return fmt.Errorf("redemption %d: penalty_pct must be in [0, 100]", i)
		}
	}
	return nil
}

func inPercentRange(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(hundred)
}
