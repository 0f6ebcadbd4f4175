package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"ticket-ledger/internal/analysis"
	"ticket-ledger/internal/api/models"
	"ticket-ledger/internal/config"
	"ticket-ledger/internal/ledger"
	"ticket-ledger/internal/metrics"
	"ticket-ledger/internal/model"
	"ticket-ledger/internal/store"
)

// SimulationHandler handles simulation-related requests
type SimulationHandler struct {
	engine  *ledger.Engine
	store   store.Store
	tickets *TicketHandler
	sink    metrics.Sink
}

// NewSimulationHandler creates a new simulation handler
func NewSimulationHandler(engine *ledger.Engine, st store.Store, tickets *TicketHandler, sink metrics.Sink) *SimulationHandler {
	if sink == nil {
		sink = metrics.Nop{}
	}
	return &SimulationHandler{engine: engine, store: st, tickets: tickets, sink: sink}
}

// RunSimulation handles POST /api/v1/simulations
func (h *SimulationHandler) RunSimulation(c *gin.Context) {
	var req models.SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}

	params, ok := h.params(c, req.TicketFile, req.Ticket)
	if !ok {
		return
	}

	var res *ledger.Result
	err := metrics.Measure(h.sink, "api", "ledger", "generate", func() error {
		res = h.engine.Generate(params)
		return res.Summary.Reconcile()
	})
	if err != nil {
		slog.Error("ledger failed to reconcile", "ticket", params.Name, "error", err)
		respondError(c, http.StatusInternalServerError, CodeInternal, err.Error())
		return
	}

	run := store.NewRun(params, res)
	err = metrics.Measure(h.sink, "api", "store", "save", func() error {
		return h.store.Save(c.Request.Context(), run)
	})
	if err != nil {
		slog.Error("saving run", "id", run.ID, "error", err)
		respondError(c, http.StatusInternalServerError, CodeStoreError, "failed to store simulation")
		return
	}

	slog.Info("simulation completed",
		"id", run.ID,
		"ticket", params.Name,
		"events", len(res.Events),
		"terminal", res.Summary.Terminal,
	)
	c.JSON(http.StatusCreated, models.NewSimulationResponse(run, req.Options.IncludeLedger))
}

// GetSimulation handles GET /api/v1/simulations/:id
func (h *SimulationHandler) GetSimulation(c *gin.Context) {
	run, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, models.NewSimulationResponse(run, false))
}

// GetLedger handles GET /api/v1/simulations/:id/ledger
// With ?format=csv the ledger is streamed as CSV instead of JSON.
func (h *SimulationHandler) GetLedger(c *gin.Context) {
	run, ok := h.load(c)
	if !ok {
		return
	}

	switch c.DefaultQuery("format", "json") {
	case "csv":
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=ledger-%s.csv", run.ID))
		c.Status(http.StatusOK)
		if err := ledger.EncodeLedgerCSV(c.Writer, run.Result.Events); err != nil {
			slog.Error("writing ledger csv", "id", run.ID, "error", err)
		}
	case "json":
		c.JSON(http.StatusOK, models.LedgerResponse{
			ID:     run.ID,
			Ledger: models.NewLedger(run.Result.Events),
		})
	default:
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, "format must be json or csv")
	}
}

// CompareSimulations handles POST /api/v1/simulations/compare
func (h *SimulationHandler) CompareSimulations(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}

	variations := make([]analysis.Variation, 0, len(req.Variations))
	paramsByName := make(map[string]model.TicketParams, len(req.Variations))
	for _, v := range req.Variations {
		if _, dup := paramsByName[v.Name]; dup {
			respondError(c, http.StatusBadRequest, CodeInvalidRequest, fmt.Sprintf("duplicate variation name %q", v.Name))
			return
		}
		params, ok := h.params(c, req.BaseFile, config.MergeTicket(req.Base, v.Ticket))
		if !ok {
			return
		}
		paramsByName[v.Name] = params
		variations = append(variations, analysis.Variation{Name: v.Name, Params: params})
	}

	var ranked []analysis.RankedVariation
	_ = metrics.Measure(h.sink, "api", "analysis", "compare", func() error {
		ranked = analysis.Compare(h.engine, variations)
		return nil
	})

	resp := models.CompareResponse{Comparison: make([]models.ComparisonResult, 0, len(ranked))}
	for _, r := range ranked {
		resp.Comparison = append(resp.Comparison, models.ComparisonResult{
			Rank:    r.Rank,
			Name:    r.Name,
			Summary: models.NewSimulationSummary(paramsByName[r.Name], r.Result),
		})
	}
	c.JSON(http.StatusOK, resp)
}

// params resolves and validates a ticket, writing the error response when
// it fails.
func (h *SimulationHandler) params(c *gin.Context, preset string, override config.TicketConfig) (model.TicketParams, bool) {
	tc, err := h.tickets.Resolve(preset, override)
	if err != nil {
		if errors.Is(err, errUnknownPreset) {
			respondError(c, http.StatusNotFound, CodeNotFound, err.Error())
		} else {
			respondError(c, http.StatusBadRequest, CodeInvalidTicket, err.Error())
		}
		return model.TicketParams{}, false
	}
	params, err := tc.ToModelParams()
	if err == nil {
		err = params.Validate()
	}
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidTicket, err.Error())
		return model.TicketParams{}, false
	}
	return params, true
}

func (h *SimulationHandler) load(c *gin.Context) (*store.Run, bool) {
	id := c.Param("id")
	var run *store.Run
	err := metrics.Measure(h.sink, "api", "store", "get", func() error {
		var err error
		run, err = h.store.Get(c.Request.Context(), id)
		return err
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(c, http.StatusNotFound, CodeNotFound, fmt.Sprintf("simulation %s not found", id))
		return nil, false
	case err != nil:
		slog.Error("loading run", "id", id, "error", err)
		respondError(c, http.StatusInternalServerError, CodeStoreError, "failed to load simulation")
		return nil, false
	}
	return run, true
}
