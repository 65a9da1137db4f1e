package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/Code4Pete/trade-mvp/constants"
)

// Route identifies the shipment lane. Supplied by the caller, never derived
// from the documents.
type Route struct {
	OriginCountry      string `json:"origin_country"`
	DestinationCountry string `json:"destination_country"`
}

// ExtractedSummary bundles the three per-document fact records.
type ExtractedSummary struct {
	Invoice      ExtractionResult `json:"invoice"`
	PackingList  ExtractionResult `json:"packing_list"`
	BillOfLading ExtractionResult `json:"bill_of_lading"`
}

// Readiness is the optional explainability overlay: how confident we are the
// filing would go through cleanly, separate from the risk score.
type Readiness struct {
	Score          int                      `json:"score"`
	Level          constants.ReadinessLevel `json:"level"`
	AvgConfidence  float64                  `json:"avg_confidence"`
	MissingFields  []string                 `json:"missing_fields"`
	CriticalIssues int                      `json:"critical_issues"`
}

// DocumentDebug carries diagnostics for one document's extraction pass.
// Diagnostic only, never required for correctness checks.
type DocumentDebug struct {
	Method      string          `json:"extraction_method"`
	TextChars   int             `json:"text_chars"`
	Preview     string          `json:"preview"`
	FieldsFound map[string]bool `json:"fields_found"`
}

// RiskReport is the full analysis output for one request. Constructed once,
// never mutated.
type RiskReport struct {
	ID               uuid.UUID                `json:"id"`
	Route            Route                    `json:"route"`
	RiskScore        int                      `json:"risk_score"`
	RiskBand         constants.RiskBand       `json:"risk_band"`
	Issues           []Issue                  `json:"issues"`
	ExtractedSummary ExtractedSummary         `json:"extracted_summary"`
	Readiness        *Readiness               `json:"readiness,omitempty"`
	Debug            map[string]DocumentDebug `json:"debug,omitempty"`
	GeneratedAt      time.Time                `json:"generated_at"`
}
