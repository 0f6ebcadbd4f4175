package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"ticket-ledger/internal/model"
)

// Event is one line of a ticket ledger.
// This is the primary artifact for "what happened" to a ticket.
//
// Amount is a signed cash flow: negative means cash leaving the fund to the
// investor, positive means capital entering or growing. Balance is the ticket
// balance after the event.
type Event struct {
	Index int

	Date        time.Time
	Kind        model.EventKind
	Description string

	Amount  decimal.Decimal
	Balance decimal.Decimal
}

// Result is the full trace of one simulated ticket.
type Result struct {
	Events []Event

	// FinalBalance is the outstanding balance after the last event. A ticket
	// that ran to termination always ends at zero.
	FinalBalance decimal.Decimal

	// Pending lists redemptions that never fell inside a period window.
	Pending []model.Redemption

	Summary Summary
}

// Last returns the final event of the ledger.
func (r *Result) Last() Event {
	return r.Events[len(r.Events)-1]
}
