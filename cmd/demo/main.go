package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"ticket-ledger/internal/ledger"
	"ticket-ledger/internal/model"
	"ticket-ledger/internal/observability"
	"ticket-ledger/internal/report"
)

// Demo:
// - Build the four reference tickets (coupon, compound, partial redemption, early exit)
// - Generate each ledger and print it with its summary
// - Optionally write every ledger as CSV
func main() {
	outDir := flag.String("out", "", "Optional directory to write one ledger CSV per scenario")
	verbose := flag.Bool("v", false, "Also print each event's description")
	flag.Parse()

	observability.InitLogger(observability.LogConfig{Level: os.Getenv("LOG_LEVEL")})

	base := model.TicketParams{
		Currency:          "PEN",
		Principal:         decimal.NewFromInt(10000),
		AnnualRate:        decimal.NewFromInt(12),
		StartDate:         time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		TermMonths:        12,
		CapitalizationPct: decimal.Zero,
	}

	scenarios := []struct {
		id     string
		title  string
		params model.TicketParams
	}{
		{"A", "coupon: all interest paid out", base},
		{"B", "compound: all interest reinvested", with(base, func(p *model.TicketParams) {
			p.CapitalizationPct = decimal.NewFromInt(100)
		})},
		{"C", "partial redemption of 5,000 at month 6, 2% penalty", with(base, func(p *model.TicketParams) {
			p.Redemptions = []model.Redemption{{Month: 6, Amount: decimal.NewFromInt(5000), PenaltyPct: decimal.NewFromInt(2)}}
		})},
		{"D", "over-sized redemption at month 4 liquidates the ticket", with(base, func(p *model.TicketParams) {
			p.Redemptions = []model.Redemption{{Month: 4, Amount: decimal.NewFromInt(25000), PenaltyPct: decimal.NewFromInt(1)}}
		})},
	}

	engine := ledger.New()
	for _, sc := range scenarios {
		sc.params.Name = "scenario-" + sc.id
		res := engine.Generate(sc.params)

		fmt.Printf("=== Scenario %s: %s ===\n", sc.id, sc.title)
		if err := report.WriteTable(os.Stdout, res, sc.params.Currency); err != nil {
			panic(err)
		}
		if *verbose {
			fmt.Println()
			if err := report.WriteDescriptions(os.Stdout, res); err != nil {
				panic(err)
			}
		}
		if err := res.Summary.Reconcile(); err != nil {
			fmt.Printf("!! %v\n", err)
		}
		fmt.Println()

		if *outDir != "" {
			if err := os.MkdirAll(*outDir, 0o755); err != nil {
				panic(err)
			}
			path := filepath.Join(*outDir, sc.params.Name+".csv")
			if err := ledger.WriteLedgerCSV(path, res.Events); err != nil {
				panic(err)
			}
			fmt.Printf("Wrote %d rows to %s\n\n", len(res.Events), path)
		}
	}
}

func with(p model.TicketParams, f func(*model.TicketParams)) model.TicketParams {
	f(&p)
	return p
}
