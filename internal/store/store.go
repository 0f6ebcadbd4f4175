// Package store keeps simulation runs so their ledgers can be fetched after
// the request that computed them. It is a cache of computed reports, not a
// system of record: every run can be regenerated from its params.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"ticket-ledger/internal/ledger"
	"ticket-ledger/internal/model"
)

// ErrNotFound is returned when a run ID is unknown or has expired.
var ErrNotFound = errors.New("run not found")

// Run is one stored simulation.
type Run struct {
	ID        string             `json:"id"`
	CreatedAt time.Time          `json:"created_at"`
	Params    model.TicketParams `json:"params"`
	Result    *ledger.Result     `json:"result"`
}

// NewRun wraps a fresh result under a new random ID.
func NewRun(params model.TicketParams, res *ledger.Result) *Run {
	return &Run{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Params:    params,
		Result:    res,
	}
}

type Store interface {
	Save(ctx context.Context, run *Run) error

	// Get returns ErrNotFound for unknown IDs.
	Get(ctx context.Context, id string) (*Run, error)
}
