package chatbot

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding is the answer to "which currencies do you hold deposits in".
type Holding int

const (
	HoldingSoles Holding = iota + 1
	HoldingDollars
	HoldingBoth
)

// Participant is the investor record the bot verifies against.
type Participant struct {
	Name    string
	Phone   string
	DNI     string
	Address string
	Holding Holding

	Currency          string
	Balance           decimal.Decimal
	LastDeposit       time.Time
	LastDepositAmount decimal.Decimal
}

// Directory resolves the phone number a message came from.
type Directory interface {
	Lookup(phone string) (Participant, bool)
}

// StaticDirectory is an in-memory Directory. Unknown numbers resolve to
// Fallback when it is set.
type StaticDirectory struct {
	ByPhone  map[string]Participant
	Fallback *Participant
}

func (d StaticDirectory) Lookup(phone string) (Participant, bool) {
	if p, ok := d.ByPhone[phone]; ok {
		return p, true
	}
	if d.Fallback != nil {
		return *d.Fallback, true
	}
	return Participant{}, false
}

// DemoParticipant is the record used by demos and tests.
var DemoParticipant = Participant{
	Name:              "Richard Gutierrez",
	Phone:             "+51999999999",
	DNI:               "70559385",
	Address:           "Av. Javier Prado 123",
	Holding:           HoldingBoth,
	Currency:          "PEN",
	Balance:           decimal.RequireFromString("15430.50"),
	LastDeposit:       time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	LastDepositAmount: decimal.RequireFromString("2500.00"),
}

// DemoDirectory answers every phone number with DemoParticipant.
func DemoDirectory() StaticDirectory {
	p := DemoParticipant
	return StaticDirectory{
		ByPhone:  map[string]Participant{p.Phone: p},
		Fallback: &p,
	}
}
