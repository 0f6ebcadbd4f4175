package models

import "ticket-ledger/internal/config"

// SimulationRequest represents the request body for running a simulation
type SimulationRequest struct {
	// TicketFile names a preset from the ticket directory (e.g. "coupon-12m").
	// Fields set in Ticket override the preset.
	TicketFile string              `json:"ticket_file,omitempty"`
	Ticket     config.TicketConfig `json:"ticket"`
	Options    SimulationOptions   `json:"options,omitempty"`
}

// SimulationOptions contains optional simulation parameters
type SimulationOptions struct {
	IncludeLedger bool `json:"include_ledger,omitempty"` // default: false
}

// CompareRequest represents a request to compare ticket variations
type CompareRequest struct {
	BaseFile   string              `json:"base_file,omitempty"`
	Base       config.TicketConfig `json:"base"`
	Variations []TicketVariation   `json:"variations" binding:"required,min=1,dive"`
}

// TicketVariation overrides fields of the comparison's base ticket
type TicketVariation struct {
	Name   string              `json:"name" binding:"required"`
	Ticket config.TicketConfig `json:"ticket"`
}

// ChatRequest carries one investor message. An empty SessionID starts a new
// conversation for Phone; Phone is ignored once a session exists.
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Message   string `json:"message"`
}
