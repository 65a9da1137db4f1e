// Package readiness computes the filing-readiness overlay: a separate
// explainability score from extraction confidence, baseline-field
// completeness, and rule-engine criticality. Route-agnostic by design.
package readiness

import (
	"github.com/Code4Pete/trade-mvp/constants"
	"github.com/Code4Pete/trade-mvp/internal/entity"
	"github.com/Code4Pete/trade-mvp/internal/fields"
)

// baselineFields lists the per-document-type required dotted field paths.
var baselineFields = map[constants.DocType][]string{
	constants.Invoice: {
		"commercial_terms.invoice_number",
		"commercial_terms.incoterm",
		"commercial_terms.invoice_value",
		"commercial_terms.currency",
		"cargo.total_quantity",
		"parties.exporter.name",
		"parties.importer.name",
	},
	constants.PackingList: {
		"commercial_terms.packing_list_number",
		"cargo.total_quantity",
		"cargo.total_packages",
		"cargo.total_gross_weight",
		"cargo.total_net_weight",
	},
	constants.BillOfLading: {
		"transport.bl_number",
		"transport.port_of_loading",
		"transport.port_of_discharge",
		"cargo.total_packages",
		"cargo.total_gross_weight",
	},
}

const (
	missingFieldPenalty    = 4
	missingFieldPenaltyCap = 30
	criticalIssuePenalty   = 15
)

// Input carries the route-agnostic signals for one analysis.
type Input struct {
	// Confidences holds externally supplied per-document extraction
	// confidence values in 0..1; may be empty.
	Confidences []float64
	Documents   []entity.ExtractionResult
	Issues      []entity.Issue
}

// Estimate computes the readiness score and level.
func Estimate(in Input) entity.Readiness {
	avg := 0.0
	if len(in.Confidences) > 0 {
		sum := 0.0
		for _, c := range in.Confidences {
			sum += c
		}
		avg = sum / float64(len(in.Confidences))
	}

	missing := MissingBaselineFields(in.Documents)
	criticals := 0
	for _, i := range in.Issues {
		if i.Severity == constants.SeverityCritical {
			criticals++
		}
	}

	score := 100 * avg
	fieldPenalty := missingFieldPenalty * len(missing)
	if fieldPenalty > missingFieldPenaltyCap {
		fieldPenalty = missingFieldPenaltyCap
	}
	score -= float64(fieldPenalty)
	score -= float64(criticalIssuePenalty * criticals)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return entity.Readiness{
		Score:          int(score),
		Level:          level(int(score), criticals),
		AvgConfidence:  avg,
		MissingFields:  missing,
		CriticalIssues: criticals,
	}
}

// MissingBaselineFields returns "<doc_type>.<path>" for every baseline field
// extraction did not find, in checklist order.
func MissingBaselineFields(docs []entity.ExtractionResult) []string {
	missing := make([]string, 0)
	for _, doc := range docs {
		present := fields.Presence(doc)
		for _, path := range baselineFields[doc.DocType] {
			if !present[path] {
				missing = append(missing, string(doc.DocType)+"."+path)
			}
		}
	}
	return missing
}

func level(score, criticals int) constants.ReadinessLevel {
	switch {
	case criticals >= 2:
		return constants.ReadinessLow
	case criticals == 1:
		if score >= 70 {
			return constants.ReadinessMedium
		}
		return constants.ReadinessLow
	case score >= 85:
		return constants.ReadinessHigh
	case score >= 65:
		return constants.ReadinessMedium
	default:
		return constants.ReadinessLow
	}
}
