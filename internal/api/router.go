// Package api assembles the HTTP server: routes, handlers and middleware.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"ticket-ledger/internal/api/handlers"
	"ticket-ledger/internal/api/middleware"
	"ticket-ledger/internal/chatbot"
	"ticket-ledger/internal/ledger"
	"ticket-ledger/internal/metrics"
	"ticket-ledger/internal/store"
)

// Deps are the collaborators the router wires into its handlers.
type Deps struct {
	Engine      *ledger.Engine
	Store       store.Store
	Bot         *chatbot.Bot
	TicketDir   string
	CORSOrigins []string

	// Prometheus and Gatherer are optional; without them /metrics is not served.
	Prometheus *metrics.Prometheus
	Gatherer   prometheus.Gatherer

	// Sink receives operation timings in addition to Prometheus.
	Sink metrics.Sink
}

func NewRouter(d Deps) *gin.Engine {
	router := gin.New()

	router.Use(middleware.CORS(d.CORSOrigins))
	router.Use(middleware.Logger(d.Prometheus))
	router.Use(middleware.ErrorHandler())
	router.NoRoute(middleware.NotFound())

	sinks := metrics.Multi{d.Sink}
	if d.Prometheus != nil {
		sinks = append(sinks, d.Prometheus)
	}

	ticketHandler := handlers.NewTicketHandler(d.TicketDir)
	simulationHandler := handlers.NewSimulationHandler(d.Engine, d.Store, ticketHandler, sinks)
	chatHandler := handlers.NewChatHandler(d.Bot)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler(d.Gatherer)))
	}

	v1 := router.Group("/api/v1")
	{
		v1.POST("/simulations", simulationHandler.RunSimulation)
		v1.POST("/simulations/compare", simulationHandler.CompareSimulations)
		v1.GET("/simulations/:id", simulationHandler.GetSimulation)
		v1.GET("/simulations/:id/ledger", simulationHandler.GetLedger)

		v1.GET("/tickets", ticketHandler.ListTickets)

		v1.POST("/chat", chatHandler.Chat)
	}

	return router
}
