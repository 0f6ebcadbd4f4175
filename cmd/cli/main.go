package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"ticket-ledger/internal/analysis"
	"ticket-ledger/internal/api/models"
	"ticket-ledger/internal/config"
	"ticket-ledger/internal/ledger"
	"ticket-ledger/internal/metrics"
	"ticket-ledger/internal/model"
	"ticket-ledger/internal/observability"
	"ticket-ledger/internal/report"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	observability.InitLogger(observability.LogConfig{
		Level:  os.Getenv("LOG_LEVEL"),
		Format: os.Getenv("LOG_FORMAT"),
	})

	switch os.Args[1] {
	case "simulate":
		cmdSimulate(os.Args[2:])
	case "compare":
		cmdCompare(os.Args[2:])
	case "chat":
		cmdChat(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli simulate --config examples/tickets/coupon-12m.yaml [--format table|csv|json] [--out results/ledger.csv]")
	fmt.Println("  cli compare --config examples/tickets/coupon-12m.yaml,examples/tickets/compound-12m.yaml")
	fmt.Println("  cli chat [--phone +51999999999] [--seed 1] [--strict]")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - simulate prints the ledger of one ticket; --out also writes it as CSV")
	fmt.Println("  - compare ranks tickets by the total cash the investor receives")
	fmt.Println("  - LOG_LEVEL and LOG_FORMAT control logging (written to stderr)")
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

func cmdSimulate(args []string) {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML ticket config")
	format := fs.String("format", "table", "Output format: table, csv or json")
	outPath := fs.String("out", "", "Optional path to also write the ledger CSV")
	_ = fs.Parse(args)

	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fatal("loading config", err)
	}
	params, err := cfg.Ticket.ToModelParams()
	if err != nil {
		fatal("converting ticket", err)
	}

	rec := metrics.NewRecorder()
	var res *ledger.Result
	err = metrics.Measure(rec, "cli", "ledger", "generate", func() error {
		res = ledger.New().Generate(params)
		return res.Summary.Reconcile()
	})
	if err != nil {
		fatal("ledger does not reconcile", err)
	}
	logTimings(rec)

	if err := writeResult(os.Stdout, *format, params, res); err != nil {
		fatal("writing result", err)
	}

	if *outPath != "" {
		// ensure output dir exists
		if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
			fatal("creating output dir", err)
		}
		if err := ledger.WriteLedgerCSV(*outPath, res.Events); err != nil {
			fatal("writing ledger csv", err)
		}
		slog.Info("ledger written", "rows", len(res.Events), "path", *outPath)
	}
}

func writeResult(w io.Writer, format string, params model.TicketParams, res *ledger.Result) error {
	switch format {
	case "table":
		return report.WriteTable(w, res, params.Currency)
	case "csv":
		return ledger.EncodeLedgerCSV(w, res.Events)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Name    string                   `json:"name,omitempty"`
			Summary models.SimulationSummary `json:"summary"`
			Ledger  []models.LedgerEvent     `json:"ledger"`
		}{
			Name:    params.Name,
			Summary: models.NewSimulationSummary(params, res),
			Ledger:  models.NewLedger(res.Events),
		})
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func cmdCompare(args []string) {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	cfgPaths := fs.String("config", "", "Comma-separated YAML ticket configs or a directory")
	_ = fs.Parse(args)

	paths, err := expandPaths(splitPaths(*cfgPaths))
	if err != nil {
		fatal("listing configs", err)
	}
	if len(paths) == 0 {
		fmt.Println("--config is required")
		os.Exit(2)
	}

	variations := make([]analysis.Variation, 0, len(paths))
	currency := ""
	for _, p := range paths {
		cfg, err := config.Load(p)
		if err != nil {
			fatal("loading config", err)
		}
		params, err := cfg.Ticket.ToModelParams()
		if err != nil {
			fatal("converting ticket", err)
		}
		name := params.Name
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		}
		if currency == "" {
			currency = params.Currency
		} else if currency != params.Currency {
			slog.Warn("comparing tickets in different currencies", "ticket", name, "currency", params.Currency)
		}
		variations = append(variations, analysis.Variation{Name: name, Params: params})
	}

	ranked := analysis.Compare(ledger.New(), variations)

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "rank\tticket\tinvestor cash\tnet interest\tpenalties\tended by")
	for _, r := range ranked {
		s := r.Result.Summary
		cur := variationCurrency(variations, r.Name)
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			r.Rank,
			r.Name,
			model.FormatMoney(s.InvestorCash(), cur),
			model.FormatMoney(s.NetInterest, cur),
			model.FormatMoney(s.Penalties, cur),
			s.Terminal,
		)
	}
	_ = tw.Flush()
}

func variationCurrency(vs []analysis.Variation, name string) string {
	for _, v := range vs {
		if v.Name == name {
			return v.Params.Currency
		}
	}
	return config.DefaultCurrency
}

// expandPaths replaces directories with the YAML files they contain.
func expandPaths(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
				continue
			}
			out = append(out, filepath.Join(p, e.Name()))
		}
	}
	return out, nil
}

func splitPaths(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// logTimings reports what a session-scoped recorder collected.
func logTimings(rec *metrics.Recorder) {
	for _, m := range rec.Records() {
		slog.Debug("timing",
			"source", m.Source,
			"destination", m.Destination,
			"operation", m.Operation,
			"duration", m.Duration,
			"status", m.Status,
		)
	}
}
