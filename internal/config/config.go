package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ticket-ledger/internal/model"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DefaultCurrency is applied when a ticket file leaves currency empty.
const DefaultCurrency = "PEN"

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load ticket terms from a separate YAML (e.g. examples/tickets/*.yaml).
	// If both TicketFile and Ticket are provided, Ticket overrides TicketFile.
	TicketFile string       `yaml:"ticket_file" json:"ticket_file,omitempty"`
	Ticket     TicketConfig `yaml:"ticket" json:"ticket"`
}

// TicketConfig mirrors model.TicketParams with plain numbers and a
// YYYY-MM-DD start date. Rates and percentages are in percent.
// AnnualRate and CapitalizationPct are pointers so an override can set them
// to an explicit 0; nil means "not given".
type TicketConfig struct {
	Name              string             `yaml:"name" json:"name,omitempty"`
	Currency          string             `yaml:"currency" json:"currency,omitempty"`
	Principal         float64            `yaml:"principal" json:"principal"`
	AnnualRate        *float64           `yaml:"annual_rate" json:"annual_rate,omitempty"`
	StartDate         string             `yaml:"start_date" json:"start_date,omitempty"`
	TermMonths        int                `yaml:"term_months" json:"term_months"`
	CapitalizationPct *float64           `yaml:"capitalization_pct" json:"capitalization_pct,omitempty"`
	Redemptions       []RedemptionConfig `yaml:"redemptions" json:"redemptions,omitempty"`
}

type RedemptionConfig struct {
	Month      int     `yaml:"month" json:"month"`
	Amount     float64 `yaml:"amount" json:"amount"`
	PenaltyPct float64 `yaml:"penalty_pct" json:"penalty_pct"`
}

// now is swapped in tests.
var now = time.Now

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.Ticket = c.Ticket.WithDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	// If ticket_file is set, load it and merge in any explicit overrides from c.Ticket.
	if c.TicketFile != "" {
		loaded, err := LoadTicketFile(resolve(path, c.TicketFile))
		if err != nil {
			return nil, err
		}
		c.Ticket = MergeTicket(loaded, c.Ticket)
	}
	return &c, nil
}

// resolve interprets ref relative to the directory of the file that names
// it, falling back to ref as given (relative to cwd) if that doesn't exist.
func resolve(from, ref string) string {
	if filepath.IsAbs(ref) {
		return ref
	}
	cand := filepath.Join(filepath.Dir(from), ref)
	if _, err := os.Stat(cand); err == nil {
		return cand
	}
	return ref
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := c.Ticket.Validate(); err != nil {
		return fmt.Errorf("ticket config invalid: %w", err)
	}
	return nil
}

// WithDefaults fills the currency and start date when they are empty.
// The start date defaults to today (UTC).
func (t TicketConfig) WithDefaults() TicketConfig {
	if t.Currency == "" {
		t.Currency = DefaultCurrency
	}
	if t.StartDate == "" {
		t.StartDate = now().UTC().Format(time.DateOnly)
	}
	return t
}

func (t TicketConfig) Validate() error {
	params, err := t.ToModelParams()
	if err != nil {
		return err
	}
	return params.Validate()
}

func (t TicketConfig) ToModelParams() (model.TicketParams, error) {
	var start time.Time
	if t.StartDate != "" {
		d, err := time.Parse(time.DateOnly, t.StartDate)
		if err != nil {
			return model.TicketParams{}, fmt.Errorf("start_date %q: expected YYYY-MM-DD", t.StartDate)
		}
		start = d
	}

	reds := make([]model.Redemption, 0, len(t.Redemptions))
	for _, r := range t.Redemptions {
		reds = append(reds, model.Redemption{
			Month:      r.Month,
			Amount:     decimal.NewFromFloat(r.Amount),
			PenaltyPct: decimal.NewFromFloat(r.PenaltyPct),
		})
	}

	return model.TicketParams{
		Name:              t.Name,
		Currency:          t.Currency,
		Principal:         decimal.NewFromFloat(t.Principal),
		AnnualRate:        decimal.NewFromFloat(Float(t.AnnualRate)),
		StartDate:         start,
		TermMonths:        t.TermMonths,
		CapitalizationPct: decimal.NewFromFloat(Float(t.CapitalizationPct)),
		Redemptions:       reds,
	}, nil
}

type ticketFileWrapper struct {
	Ticket TicketConfig `yaml:"ticket"`
}

// LoadTicketFile reads a preset file holding a single top-level ticket block.
func LoadTicketFile(path string) (TicketConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return TicketConfig{}, err
	}
	var w ticketFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return TicketConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return w.Ticket, nil
}

// MergeTicket overlays non-zero fields from override onto base. Rate and
// capitalization are overlaid whenever they are set, including to 0.
// This is used when loading a ticket file and then applying overrides from the request.
// A non-empty redemption list replaces the base schedule as a whole.
func MergeTicket(base, override TicketConfig) TicketConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.Currency != "" {
		out.Currency = override.Currency
	}
	if override.Principal != 0 {
		out.Principal = override.Principal
	}
	if override.AnnualRate != nil {
		out.AnnualRate = Pct(*override.AnnualRate)
	}
	if override.StartDate != "" {
		out.StartDate = override.StartDate
	}
	if override.TermMonths != 0 {
		out.TermMonths = override.TermMonths
	}
	if override.CapitalizationPct != nil {
		out.CapitalizationPct = Pct(*override.CapitalizationPct)
	}
	if len(override.Redemptions) > 0 {
		out.Redemptions = append([]RedemptionConfig(nil), override.Redemptions...)
	}
	return out
}

// Pct returns a pointer to v, for filling the optional percentage fields.
func Pct(v float64) *float64 { return &v }

// Float dereferences an optional percentage, treating nil as 0.
func Float(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
