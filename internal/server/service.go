// Package server is the thin HTTP surface over the analysis core. It only
// decodes uploads, invokes the analyzer, and encodes the report.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Code4Pete/trade-mvp/internal/common"
	"github.com/Code4Pete/trade-mvp/internal/entity"
	"github.com/Code4Pete/trade-mvp/internal/report"
)

// Analyzer runs one analysis request; satisfied by *report.Analyzer.
type Analyzer interface {
	Analyze(ctx context.Context, req report.Request) (*entity.RiskReport, error)
}

// Exporter renders a report as XLSX bytes; satisfied by *export.Service.
type Exporter interface {
	ExportReportXLSX(rep *entity.RiskReport) ([]byte, error)
}

// Server wires HTTP routes to the analyzer.
type Server struct {
	logger     *slog.Logger
	cfg        common.ServerConfig
	analyzer   Analyzer
	exporter   Exporter
	router     *gin.Engine
	httpServer *http.Server
}

func NewServer(cfg common.ServerConfig, analyzer Analyzer, exporter Exporter, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.MaxUploadBytes > 0 {
		router.MaxMultipartMemory = cfg.MaxUploadBytes
	}

	s := &Server{
		logger:   logger,
		cfg:      cfg,
		analyzer: analyzer,
		exporter: exporter,
		router:   router,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	v1 := s.router.Group("/v1")
	{
		v1.POST("/analyze", s.handleAnalyze)
		v1.POST("/analyze/export", s.handleAnalyzeExport)
	}
}

// Handler exposes the routes for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http serving", "addr", s.cfg.HTTPAddr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	rep, ok := s.analyze(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (s *Server) handleAnalyzeExport(c *gin.Context) {
	rep, ok := s.analyze(c)
	if !ok {
		return
	}
	data, err := s.exporter.ExportReportXLSX(rep)
	if err != nil {
		s.logger.Error("export failed", "report_id", rep.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "risk-report-"+rep.ID.String()+".xlsx"))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (s *Server) analyze(c *gin.Context) (*entity.RiskReport, bool) {
	invoice, err := readUpload(c, "invoice")
	if err != nil {
		badRequest(c, err)
		return nil, false
	}
	packing, err := readUpload(c, "packing_list")
	if err != nil {
		badRequest(c, err)
		return nil, false
	}
	bl, err := readUpload(c, "bill_of_lading")
	if err != nil {
		badRequest(c, err)
		return nil, false
	}

	route, err := routeFromForm(c)
	if err != nil {
		badRequest(c, err)
		return nil, false
	}

	rep, err := s.analyzer.Analyze(c.Request.Context(), report.Request{
		Invoice:      invoice,
		PackingList:  packing,
		BillOfLading: bl,
		Route:        route,
	})
	if err != nil {
		s.logger.Error("analysis failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
		return nil, false
	}
	return rep, true
}

func readUpload(c *gin.Context, field string) ([]byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("missing %q upload", field)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %q upload: %w", field, err)
	}
	defer func(f multipart.File) { _ = f.Close() }(f)
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %q upload: %w", field, err)
	}
	return data, nil
}

// routeFromForm reads optional origin/destination country codes. Both must be
// given together; each must be a 2-letter code.
func routeFromForm(c *gin.Context) (*entity.Route, error) {
	origin := strings.ToUpper(strings.TrimSpace(c.PostForm("origin_country")))
	dest := strings.ToUpper(strings.TrimSpace(c.PostForm("destination_country")))
	if origin == "" && dest == "" {
		return nil, nil
	}
	if len(origin) != 2 || len(dest) != 2 {
		return nil, errors.New("origin_country and destination_country must both be 2-letter codes")
	}
	return &entity.Route{OriginCountry: origin, DestinationCountry: dest}, nil
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
