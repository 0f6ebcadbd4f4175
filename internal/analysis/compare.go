package analysis

import (
	"sort"

	"ticket-ledger/internal/ledger"
	"ticket-ledger/internal/model"
)

// Variation is one named set of ticket terms to compare.
type Variation struct {
	Name   string
	Params model.TicketParams
}

type RankedVariation struct {
	Rank   int
	Name   string
	Result *ledger.Result
}

// Compare simulates every variation and sorts them descending by the cash
// the investor receives over the ticket's life. Equal totals rank by name.
func Compare(engine *ledger.Engine, variations []Variation) []RankedVariation {
	out := make([]RankedVariation, 0, len(variations))
	for _, v := range variations {
		out = append(out, RankedVariation{
			Name:   v.Name,
			Result: engine.Generate(v.Params),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		ci := out[i].Result.Summary.InvestorCash()
		cj := out[j].Result.Summary.InvestorCash()
		if !ci.Equal(cj) {
			return ci.GreaterThan(cj)
		}
		return out[i].Name < out[j].Name
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
