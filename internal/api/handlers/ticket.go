package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"ticket-ledger/internal/api/models"
	"ticket-ledger/internal/config"
)

// errUnknownPreset is returned when a request names a preset that is not in
// the ticket directory.
var errUnknownPreset = errors.New("unknown ticket preset")

// TicketHandler serves the ticket presets of a directory of YAML files.
type TicketHandler struct {
	ticketDir string
}

// NewTicketHandler creates a ticket handler reading presets from dir.
func NewTicketHandler(dir string) *TicketHandler {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	slog.Info("ticket presets", "dir", dir)
	return &TicketHandler{ticketDir: dir}
}

// ListTickets handles GET /api/v1/tickets
func (h *TicketHandler) ListTickets(c *gin.Context) {
	tickets := []models.TicketInfo{}

	entries, err := os.ReadDir(h.ticketDir)
	if err != nil {
		slog.Warn("reading ticket directory", "dir", h.ticketDir, "error", err)
		c.JSON(http.StatusOK, gin.H{"tickets": tickets})
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(h.ticketDir, entry.Name())
		tc, err := config.LoadTicketFile(path)
		if err != nil {
			slog.Warn("skipping ticket preset", "file", path, "error", err)
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ".yaml")
		name := tc.Name
		if name == "" {
			name = id
		}
		tc = tc.WithDefaults()
		tickets = append(tickets, models.TicketInfo{
			ID:   id,
			Name: name,
			File: path,
			Terms: models.TicketTerms{
				Currency:          tc.Currency,
				Principal:         tc.Principal,
				AnnualRate:        config.Float(tc.AnnualRate),
				TermMonths:        tc.TermMonths,
				CapitalizationPct: config.Float(tc.CapitalizationPct),
				Redemptions:       len(tc.Redemptions),
			},
		})
	}
	sort.Slice(tickets, func(i, j int) bool { return tickets[i].ID < tickets[j].ID })

	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

// Resolve merges override onto the preset named id (if any) and applies
// defaults. Preset IDs are file names without the .yaml suffix; path
// elements are stripped so requests cannot leave the ticket directory.
func (h *TicketHandler) Resolve(id string, override config.TicketConfig) (config.TicketConfig, error) {
	tc := override
	if id != "" {
		name := filepath.Base(strings.TrimSuffix(id, ".yaml")) + ".yaml"
		base, err := config.LoadTicketFile(filepath.Join(h.ticketDir, name))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return config.TicketConfig{}, fmt.Errorf("%w: %s", errUnknownPreset, id)
			}
			return config.TicketConfig{}, err
		}
		tc = config.MergeTicket(base, override)
	}
	return tc.WithDefaults(), nil
}
