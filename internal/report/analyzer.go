// Package report orchestrates one analysis request: the three document
// pipelines run concurrently, the rule engine joins them, and the scorer and
// readiness estimator produce the final risk report.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Code4Pete/trade-mvp/constants"
	"github.com/Code4Pete/trade-mvp/internal/entity"
	"github.com/Code4Pete/trade-mvp/internal/fields"
	"github.com/Code4Pete/trade-mvp/internal/readiness"
	"github.com/Code4Pete/trade-mvp/internal/rules"
	"github.com/Code4Pete/trade-mvp/internal/scoring"
	"github.com/Code4Pete/trade-mvp/internal/textacq"
)

// Acquirer is the text-acquisition stage; satisfied by *textacq.Acquirer and
// stubbed in tests.
type Acquirer interface {
	Acquire(ctx context.Context, raw []byte) textacq.Result
}

// Config holds report assembly options.
type Config struct {
	DefaultRoute entity.Route
	IncludeDebug bool
	PreviewChars int // default 1500
}

// Request is one analysis input: raw bytes per document class plus an
// optional caller-supplied route.
type Request struct {
	Invoice      []byte
	PackingList  []byte
	BillOfLading []byte
	Route        *entity.Route
}

// Analyzer runs the full pipeline for a request. Each request's data is
// request-scoped; the analyzer itself holds no mutable state.
type Analyzer struct {
	logger *slog.Logger
	cfg    Config
	acq    Acquirer
	engine *rules.Engine
}

func NewAnalyzer(cfg Config, acq Acquirer, engine *rules.Engine, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PreviewChars <= 0 {
		cfg.PreviewChars = 1500
	}
	if engine == nil {
		engine = rules.NewEngine(logger)
	}
	return &Analyzer{logger: logger, cfg: cfg, acq: acq, engine: engine}
}

// Analyze produces a risk report for the three documents. The three
// acquisition+extraction pipelines are independent and run in parallel; the
// rule engine is the synchronization point. Undecodable documents degrade to
// all-unknown fields, so a report is always produced for well-formed input.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*entity.RiskReport, error) {
	reportID := uuid.New()
	start := time.Now()

	docs := []struct {
		docType constants.DocType
		raw     []byte
	}{
		{constants.Invoice, req.Invoice},
		{constants.PackingList, req.PackingList},
		{constants.BillOfLading, req.BillOfLading},
	}

	results := make([]entity.ExtractionResult, len(docs))
	acquired := make([]textacq.Result, len(docs))

	var wg sync.WaitGroup
	for i, d := range docs {
		wg.Add(1)
		go func(i int, docType constants.DocType, raw []byte) {
			defer wg.Done()
			acq := a.acq.Acquire(ctx, raw)
			acquired[i] = acq
			results[i] = fields.Extract(docType, acq.Text)
		}(i, d.docType, d.raw)
	}
	wg.Wait()

	inv, pack, bl := results[0], results[1], results[2]
	issues := a.engine.Evaluate(&inv, &pack, &bl)
	score := scoring.Score(issues)

	route := a.cfg.DefaultRoute
	if req.Route != nil {
		route = *req.Route
	}

	confidences := make([]float64, 0, len(acquired))
	for _, acq := range acquired {
		confidences = append(confidences, acq.Confidence)
	}
	ready := readiness.Estimate(readiness.Input{
		Confidences: confidences,
		Documents:   results,
		Issues:      issues,
	})

	rep := &entity.RiskReport{
		ID:        reportID,
		Route:     route,
		RiskScore: score,
		RiskBand:  scoring.Band(score),
		Issues:    issues,
		ExtractedSummary: entity.ExtractedSummary{
			Invoice:      inv,
			PackingList:  pack,
			BillOfLading: bl,
		},
		Readiness:   &ready,
		GeneratedAt: time.Now().UTC(),
	}

	if a.cfg.IncludeDebug {
		rep.Debug = map[string]entity.DocumentDebug{}
		for i, d := range docs {
			rep.Debug[string(d.docType)] = a.debugFor(acquired[i], results[i])
		}
	}

	if err := a.validate(rep); err != nil {
		return nil, fmt.Errorf("report validation: %w", err)
	}

	a.logger.Info("analysis done",
		"report_id", reportID,
		"risk_score", rep.RiskScore, "risk_band", rep.RiskBand,
		"issues", len(rep.Issues),
		"readiness_level", ready.Level,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return rep, nil
}

func (a *Analyzer) debugFor(acq textacq.Result, res entity.ExtractionResult) entity.DocumentDebug {
	preview := acq.Text
	if len(preview) > a.cfg.PreviewChars {
		preview = preview[:a.cfg.PreviewChars]
	}
	return entity.DocumentDebug{
		Method:      acq.Method,
		TextChars:   len(acq.Text),
		Preview:     preview,
		FieldsFound: fields.Presence(res),
	}
}

func (a *Analyzer) validate(rep *entity.RiskReport) error {
	data, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return ValidateJSONAgainstSchema(BuildReportJSONSchema(), data)
}
