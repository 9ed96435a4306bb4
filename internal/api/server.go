// Package api exposes the allocation engine over HTTP.
//
// The API mirrors the interactive workflow of the original dispatch tool:
// upload the two tables with an explicit column mapping, get back the
// annotated dispatch table, adjust individual lines, and read the summary
// views. Session state lives in memory only.
package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/prg-tools/dispatch-backend/internal/api/dto"
	"github.com/prg-tools/dispatch-backend/internal/application/service"
	"github.com/prg-tools/dispatch-backend/internal/domain/dispatch"
	"github.com/prg-tools/dispatch-backend/internal/domain/normalizer"
	"github.com/prg-tools/dispatch-backend/internal/infrastructure/config"
	"github.com/prg-tools/dispatch-backend/internal/infrastructure/storage"
)

// Server is the HTTP API server.
type Server struct {
	cfg    *config.Config
	engine *gin.Engine
	store  *storage.SessionStore
	logger *slog.Logger
}

// NewServer wires routes and middleware. The store must not be nil.
func NewServer(cfg *config.Config, store *storage.SessionStore, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	s := &Server{
		cfg:    cfg,
		engine: engine,
		store:  store,
		logger: logger,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/health", s.health)

	api := s.engine.Group("/api")
	api.POST("/sessions", s.createSession)
	api.GET("/sessions/:id", s.getSession)
	api.DELETE("/sessions/:id", s.deleteSession)
	api.PUT("/sessions/:id/records/:lineID", s.overrideRecord)
	api.GET("/sessions/:id/summary", s.getSummary)
}

// Handler exposes the router for tests and custom servers.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the server on the configured port.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	s.logger.Info("starting dispatch API", "addr", addr)
	return s.engine.Run(addr)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.store.Len()})
}

func (s *Server) createSession(c *gin.Context) {
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	svc, err := service.New(s.sessionConfig(req), s.logger)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	orders := normalizer.Dataset{Columns: req.Orders.Columns, Rows: req.Orders.Rows}
	stock := normalizer.Dataset{Columns: req.Stock.Columns, Rows: req.Stock.Rows}
	om := normalizer.OrdersMapping{
		Product:  req.OrdersMapping.Product,
		Client:   req.OrdersMapping.Client,
		Quantity: req.OrdersMapping.Quantity,
		Priority: req.OrdersMapping.Priority,
	}
	sm := normalizer.StockMapping{
		Product:  req.StockMapping.Product,
		Quantity: req.StockMapping.Quantity,
	}

	if _, err := svc.Run(orders, stock, om, sm); err != nil {
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
		return
	}

	session := s.store.Create(svc)
	c.JSON(http.StatusCreated, toSessionResponse(session))
}

func (s *Server) getSession(c *gin.Context) {
	session, ok := s.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "session not found"})
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(session))
}

func (s *Server) deleteSession(c *gin.Context) {
	s.store.Delete(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (s *Server) overrideRecord(c *gin.Context) {
	session, ok := s.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "session not found"})
		return
	}

	var req dto.OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	record, err := session.Override(c.Param("lineID"), req.ToGive)
	if err != nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, toRecordResponse(record))
}

func (s *Server) getSummary(c *gin.Context) {
	session, ok := s.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "session not found"})
		return
	}

	summary := session.Summary()
	resp := dto.SummaryResponse{
		ClientSatisfaction: make([]dto.ClientSatisfactionRow, 0, len(summary.ClientSatisfaction)),
		Audit:              make([]dto.AuditRowResponse, 0, len(summary.Audit)),
		TotalGiven:         summary.TotalGiven,
		TotalRequested:     summary.TotalRequested,
	}
	for client, pct := range summary.ClientSatisfaction {
		resp.ClientSatisfaction = append(resp.ClientSatisfaction, dto.ClientSatisfactionRow{
			Client:       client,
			Satisfaction: pct,
		})
	}
	sort.Slice(resp.ClientSatisfaction, func(i, j int) bool {
		return resp.ClientSatisfaction[i].Client < resp.ClientSatisfaction[j].Client
	})
	for _, row := range summary.Audit {
		resp.Audit = append(resp.Audit, dto.AuditRowResponse{
			Product:     row.Product,
			Requested:   row.Requested,
			Given:       row.Given,
			Available:   row.Available,
			Unallocated: row.Unallocated,
			UnmetDemand: row.UnmetDemand,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// sessionConfig overlays per-request allocation options on the server config.
func (s *Server) sessionConfig(req dto.CreateSessionRequest) *config.Config {
	cfg := *s.cfg
	if req.Strategy != "" {
		cfg.Allocation.Strategy = req.Strategy
	}
	if req.VIPBonusUnits != nil {
		cfg.Allocation.VIPBonusUnits = *req.VIPBonusUnits
	}
	if req.DefaultPriority != "" {
		cfg.Allocation.DefaultPriority = req.DefaultPriority
	}
	return &cfg
}

func toSessionResponse(session *storage.Session) dto.SessionResponse {
	records := session.Records()
	resp := dto.SessionResponse{
		SessionID: session.ID,
		CreatedAt: session.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		Records:   make([]dto.RecordResponse, 0, len(records)),
	}
	for _, r := range records {
		resp.Records = append(resp.Records, toRecordResponse(r))
	}
	return resp
}

func toRecordResponse(r dispatch.Record) dto.RecordResponse {
	return dto.RecordResponse{
		LineID:       r.Line.ID,
		Product:      r.Line.Product,
		Client:       r.Line.Client,
		Requested:    r.Line.Requested,
		Priority:     r.Line.Priority.String(),
		Allocated:    r.Allocated,
		ToGive:       r.ToGive,
		Satisfaction: r.Satisfaction,
	}
}
