package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Code4Pete/trade-mvp/internal/common"
	"github.com/Code4Pete/trade-mvp/internal/entity"
	"github.com/Code4Pete/trade-mvp/internal/export"
	"github.com/Code4Pete/trade-mvp/internal/report"
	"github.com/Code4Pete/trade-mvp/internal/rules"
	"github.com/Code4Pete/trade-mvp/internal/server"
	"github.com/Code4Pete/trade-mvp/internal/textacq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	acquirer := textacq.NewAcquirer(textacq.Config{
		Pdftotext:     cfg.OCR.Pdftotext,
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
		MinTextChars:  cfg.OCR.MinTextChars,
	}, logger)

	analyzer := report.NewAnalyzer(report.Config{
		DefaultRoute: entity.Route{
			OriginCountry:      cfg.Analyze.OriginCountry,
			DestinationCountry: cfg.Analyze.DestinationCountry,
		},
		IncludeDebug: cfg.Analyze.IncludeDebug,
		PreviewChars: cfg.Analyze.PreviewChars,
	}, acquirer, rules.NewEngine(logger), logger)

	srv := server.NewServer(cfg.Server, analyzer, export.NewService(logger), logger)

	logger.Info("starting trade document analyzer",
		"addr", cfg.Server.HTTPAddr, "ocr_available", acquirer.OCRAvailable())
	if err := srv.Start(ctx); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}
