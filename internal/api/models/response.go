package models

import (
	"time"

	"github.com/shopspring/decimal"

	"ticket-ledger/internal/ledger"
	"ticket-ledger/internal/model"
	"ticket-ledger/internal/store"
)

// SimulationResponse represents one simulated ticket
type SimulationResponse struct {
	ID        string              `json:"id,omitempty"`
	Status    string              `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
	Name      string              `json:"name,omitempty"`
	Currency  string              `json:"currency"`
	Summary   SimulationSummary   `json:"summary"`
	Pending   []PendingRedemption `json:"pending_redemptions,omitempty"`
	Ledger    []LedgerEvent       `json:"ledger,omitempty"`
}

// SimulationSummary contains the aggregated cash flows of a ticket.
// Amounts are decimal strings with two places.
type SimulationSummary struct {
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	Events          int    `json:"events"`
	Periods         int    `json:"periods"`
	Redemptions     int    `json:"redemptions"`
	Terminal        string `json:"terminal_event"`
	Principal       string `json:"principal"`
	GrossInterest   string `json:"gross_interest"`
	WithholdingTax  string `json:"withholding_tax"`
	NetInterest     string `json:"net_interest"`
	Paid            string `json:"paid"`
	Capitalized     string `json:"capitalized"`
	Redeemed        string `json:"redeemed"`
	Penalties       string `json:"penalties"`
	CapitalReturned string `json:"capital_returned"`
	Forfeited       string `json:"forfeited"`
	InvestorCash    string `json:"investor_cash"`
	FinalBalance    string `json:"final_balance"`
}

// LedgerEvent represents one line of a ticket ledger
type LedgerEvent struct {
	Index       int    `json:"index"`
	Date        string `json:"date"` // YYYY-MM-DD
	Event       string `json:"event"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Balance     string `json:"balance"`
}

// PendingRedemption is a scheduled redemption that never executed
type PendingRedemption struct {
	Month      int    `json:"month"`
	Amount     string `json:"amount"`
	PenaltyPct string `json:"penalty_pct"`
}

// LedgerResponse is the JSON form of GET /simulations/:id/ledger
type LedgerResponse struct {
	ID     string        `json:"id"`
	Ledger []LedgerEvent `json:"ledger"`
}

// CompareResponse represents the response from a comparison
type CompareResponse struct {
	Comparison []ComparisonResult `json:"comparison"`
}

// ComparisonResult contains results for one variation
type ComparisonResult struct {
	Rank    int               `json:"rank"`
	Name    string            `json:"name"`
	Summary SimulationSummary `json:"summary"`
}

// TicketInfo represents information about a ticket preset
type TicketInfo struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	File  string      `json:"file"`
	Terms TicketTerms `json:"terms"`
}

// TicketTerms contains the headline terms of a preset
type TicketTerms struct {
	Currency          string  `json:"currency"`
	Principal         float64 `json:"principal"`
	AnnualRate        float64 `json:"annual_rate"`
	TermMonths        int     `json:"term_months"`
	CapitalizationPct float64 `json:"capitalization_pct"`
	Redemptions       int     `json:"redemptions"`
}

// ChatResponse carries the bot reply and the session ID to send back next time
type ChatResponse struct {
	SessionID string   `json:"session_id"`
	Reply     string   `json:"reply"`
	Step      string   `json:"step"`
	Options   []string `json:"options,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// NewSimulationResponse converts a stored run to its API form.
func NewSimulationResponse(run *store.Run, includeLedger bool) SimulationResponse {
	resp := SimulationResponse{
		ID:        run.ID,
		Status:    "completed",
		CreatedAt: run.CreatedAt,
		Name:      run.Params.Name,
		Currency:  run.Params.Currency,
		Summary:   NewSimulationSummary(run.Params, run.Result),
	}
	for _, r := range run.Result.Pending {
		resp.Pending = append(resp.Pending, PendingRedemption{
			Month:      r.Month,
			Amount:     amount(r.Amount),
			PenaltyPct: r.PenaltyPct.String(),
		})
	}
	if includeLedger {
		resp.Ledger = NewLedger(run.Result.Events)
	}
	return resp
}

func NewSimulationSummary(params model.TicketParams, res *ledger.Result) SimulationSummary {
	s := res.Summary
	out := SimulationSummary{
		StartDate:       model.DateOf(params.StartDate).Format(time.DateOnly),
		EndDate:         model.AddMonths(model.DateOf(params.StartDate), params.TermMonths).Format(time.DateOnly),
		Events:          len(res.Events),
		Periods:         s.Periods,
		Redemptions:     s.Redemptions,
		Terminal:        string(s.Terminal),
		Principal:       amount(s.Principal),
		GrossInterest:   amount(s.GrossInterest),
		WithholdingTax:  amount(s.WithholdingTax),
		NetInterest:     amount(s.NetInterest),
		Paid:            amount(s.Paid),
		Capitalized:     amount(s.Capitalized),
		Redeemed:        amount(s.Redeemed),
		Penalties:       amount(s.Penalties),
		CapitalReturned: amount(s.CapitalReturned),
		Forfeited:       amount(s.Forfeited),
		InvestorCash:    amount(s.InvestorCash()),
		FinalBalance:    amount(res.FinalBalance),
	}
	return out
}

func NewLedger(events []ledger.Event) []LedgerEvent {
	out := make([]LedgerEvent, 0, len(events))
	for _, e := range events {
		out = append(out, LedgerEvent{
			Index:       e.Index,
			Date:        e.Date.Format(time.DateOnly),
			Event:       string(e.Kind),
			Description: e.Description,
			Amount:      amount(e.Amount),
			Balance:     amount(e.Balance),
		})
	}
	return out
}

func amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
