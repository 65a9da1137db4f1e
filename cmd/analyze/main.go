// Command analyze runs a one-shot pre-filing analysis of three shipment
// documents and prints the report JSON, optionally writing an XLSX copy.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Code4Pete/trade-mvp/internal/common"
	"github.com/Code4Pete/trade-mvp/internal/entity"
	"github.com/Code4Pete/trade-mvp/internal/export"
	"github.com/Code4Pete/trade-mvp/internal/report"
	"github.com/Code4Pete/trade-mvp/internal/rules"
	"github.com/Code4Pete/trade-mvp/internal/textacq"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		invoicePath = flag.String("invoice", "", "commercial invoice PDF path (required)")
		packingPath = flag.String("packing", "", "packing list PDF path (required)")
		blPath      = flag.String("bl", "", "bill of lading PDF path (required)")
		origin      = flag.String("origin", "", "origin country code (2 letters)")
		dest        = flag.String("dest", "", "destination country code (2 letters)")
		xlsxOut     = flag.String("xlsx", "", "also write the report as XLSX to this path")
		debug       = flag.Bool("debug", false, "include the debug block in the report")
	)
	flag.Parse()

	if *invoicePath == "" || *packingPath == "" || *blPath == "" {
		printError("Error: --invoice, --packing and --bl are required\n")
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()

	var route *entity.Route
	if *origin != "" || *dest != "" {
		if len(*origin) != 2 || len(*dest) != 2 {
			printError("Error: --origin and --dest must both be 2-letter codes\n")
			os.Exit(1)
		}
		route = &entity.Route{
			OriginCountry:      strings.ToUpper(*origin),
			DestinationCountry: strings.ToUpper(*dest),
		}
	}

	readFile := func(path string) []byte {
		data, err := os.ReadFile(path)
		if err != nil {
			printError("Error: reading %s: %v\n", path, err)
			os.Exit(1)
		}
		return data
	}

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
		IncludeDebug: *debug,
		PreviewChars: cfg.Analyze.PreviewChars,
	}, acquirer, rules.NewEngine(logger), logger)

	rep, err := analyzer.Analyze(context.Background(), report.Request{
		Invoice:      readFile(*invoicePath),
		PackingList:  readFile(*packingPath),
		BillOfLading: readFile(*blPath),
		Route:        route,
	})
	if err != nil {
		printError("Error: analysis failed: %v\n", err)
		os.Exit(1)
	}

	if *xlsxOut != "" {
		data, err := export.NewService(logger).ExportReportXLSX(rep)
		if err != nil {
			printError("Error: export failed: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*xlsxOut, data, 0o644); err != nil {
			printError("Error: writing %s: %v\n", *xlsxOut, err)
			os.Exit(1)
		}
	}

	out, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		printError("Error: encoding report: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
