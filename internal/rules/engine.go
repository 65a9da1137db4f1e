// Package rules cross-checks the three extraction results for consistency and
// completeness. Evaluation is pure and total: every rule handles nil fields,
// rules are additive (no rule suppresses another), and emission order is the
// declaration order of the rule table.
package rules

import (
	"log/slog"
	"math"

	"github.com/Code4Pete/trade-mvp/constants"
	"github.com/Code4Pete/trade-mvp/internal/entity"
)

// weightTolerancePct is the allowed relative gross-weight difference between
// the packing list and the bill of lading.
const weightTolerancePct = 2.0

// epsilon keeps the relative-difference denominator away from zero.
const epsilon = 1e-9

// Rule is one independently evaluable consistency check. Evaluate returns nil
// when the rule does not fire.
type Rule struct {
	Code     string
	Severity constants.Severity
	Evaluate func(inv, pack, bl *entity.ExtractionResult) *entity.Issue
}

// Engine runs the fixed rule table.
type Engine struct {
	logger *slog.Logger
	rules  []Rule
}

func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger, rules: ruleTable()}
}

// Evaluate checks every rule against the three documents and returns the
// issues that fired, in rule-table order.
func (e *Engine) Evaluate(inv, pack, bl *entity.ExtractionResult) []entity.Issue {
	issues := make([]entity.Issue, 0, len(e.rules))
	for _, r := range e.rules {
		if issue := r.Evaluate(inv, pack, bl); issue != nil {
			issues = append(issues, *issue)
		}
	}
	e.logger.Info("rule evaluation done",
		"rules", len(e.rules), "issues", len(issues))
	return issues
}

func ruleTable() []Rule {
	return []Rule{
		{
			Code:     "COO_MISSING",
			Severity: constants.SeverityCritical,
			Evaluate: evalCOOMissing,
		},
		{
			Code:     "INCOTERM_MISSING",
			Severity: constants.SeverityCritical,
			Evaluate: evalIncotermMissing,
		},
		{
			Code:     "QTY_MISMATCH_INV_PACK",
			Severity: constants.SeverityCritical,
			Evaluate: evalQuantityMismatch,
		},
		{
			Code:     "GW_MISMATCH_PACK_BL",
			Severity: constants.SeverityCritical,
			Evaluate: evalGrossWeightMismatch,
		},
		{
			Code:     "HS_ALL_MISSING_OR_INVALID",
			Severity: constants.SeverityHigh,
			Evaluate: evalHSCodes,
		},
		{
			Code:     "NO_ITEMS_EXTRACTED",
			Severity: constants.SeverityHigh,
			Evaluate: evalNoItems,
		},
	}
}

func evalCOOMissing(inv, _, _ *entity.ExtractionResult) *entity.Issue {
	coo := inv.CommercialTerms.CountryOfOrigin
	mention := inv.CommercialTerms.COOMention
	if coo != nil || mention != nil {
		return nil
	}
	return &entity.Issue{
		Severity:       constants.SeverityCritical,
		Code:           "COO_MISSING",
		Title:          "Certificate of Origin missing / not referenced",
		Explanation:    "A Certificate of Origin is commonly required to claim preferential duty benefits and avoid customs queries.",
		Recommendation: "Include a valid Certificate of Origin (or reference it clearly) and ensure COO details match invoice and packing list.",
		Evidence: map[string]any{
			"invoice_country_of_origin": deref(coo),
			"invoice_coo_mention":       deref(mention),
		},
	}
}

func evalIncotermMissing(inv, _, _ *entity.ExtractionResult) *entity.Issue {
	if inv.CommercialTerms.Incoterm != nil {
		return nil
	}
	return &entity.Issue{
		Severity:       constants.SeverityCritical,
		Code:           "INCOTERM_MISSING",
		Title:          "Incoterm missing on commercial invoice",
		Explanation:    "Incoterms affect valuation and responsibility; missing Incoterms often trigger customs queries.",
		Recommendation: "Add an Incoterm (e.g., FOB/CIF/EXW) on the invoice and ensure it matches the booking.",
		Evidence:       map[string]any{},
	}
}

func evalQuantityMismatch(inv, pack, _ *entity.ExtractionResult) *entity.Issue {
	iq := inv.Cargo.TotalQuantity
	pq := pack.Cargo.TotalQuantity
	// Quantities are discrete units: exact equality, no tolerance.
	if iq == nil || pq == nil || *iq == *pq {
		return nil
	}
	return &entity.Issue{
		Severity:       constants.SeverityCritical,
		Code:           "QTY_MISMATCH_INV_PACK",
		Title:          "Total quantity mismatch between invoice and packing list",
		Explanation:    "Customs compares quantities across documents; mismatches frequently cause holds or amendments.",
		Recommendation: "Align quantities on invoice and packing list. If partial shipment, reflect that consistently.",
		Evidence: map[string]any{
			"invoice_total_quantity": *iq,
			"packing_total_quantity": *pq,
		},
	}
}

func evalGrossWeightMismatch(_, pack, bl *entity.ExtractionResult) *entity.Issue {
	pw := pack.Cargo.TotalGrossWeight
	bw := bl.Cargo.TotalGrossWeight
	if pw == nil || bw == nil {
		return nil
	}
	diff := pctDiff(*pw, *bw)
	if diff <= weightTolerancePct {
		return nil
	}
	return &entity.Issue{
		Severity:       constants.SeverityCritical,
		Code:           "GW_MISMATCH_PACK_BL",
		Title:          "Gross weight mismatch between packing list and Bill of Lading",
		Explanation:    "Carrier BL weight should align with packing weights; large deltas trigger inspection or BL amendment.",
		Recommendation: "Confirm weighment and amend BL or packing list before filing.",
		Evidence: map[string]any{
			"packing_gross_weight": *pw,
			"bl_gross_weight":      *bw,
			"pct_diff":             math.Round(diff*100) / 100,
		},
	}
}

func evalHSCodes(inv, _, _ *entity.ExtractionResult) *entity.Issue {
	items := inv.Cargo.Items
	if len(items) == 0 {
		return nil // NO_ITEMS_EXTRACTED covers this case
	}
	invalid := 0
	for _, it := range items {
		if !ValidHSCode(it.HSCode) {
			invalid++
		}
	}
	// Partial invalidity is not flagged at this severity.
	if invalid != len(items) {
		return nil
	}
	return &entity.Issue{
		Severity:       constants.SeverityHigh,
		Code:           "HS_ALL_MISSING_OR_INVALID",
		Title:          "HS codes missing or invalid for invoice items",
		Explanation:    "HS codes drive duty, restrictions, and clearance logic. Missing or invalid HS codes often cause queries.",
		Recommendation: "Add correct HS codes (6-10 digits) aligned to product descriptions.",
		Evidence: map[string]any{
			"items_count":   len(items),
			"invalid_count": invalid,
		},
	}
}

func evalNoItems(inv, _, _ *entity.ExtractionResult) *entity.Issue {
	if len(inv.Cargo.Items) > 0 {
		return nil
	}
	return &entity.Issue{
		Severity:       constants.SeverityHigh,
		Code:           "NO_ITEMS_EXTRACTED",
		Title:          "No line items extracted from invoice",
		Explanation:    "Without item lines, HS/quantity/value checks cannot run reliably.",
		Recommendation: "Upload a clearer invoice so line items can be read.",
		Evidence:       map[string]any{},
	}
}

// pctDiff is the relative difference of a and b as a percentage.
func pctDiff(a, b float64) float64 {
	denom := math.Max(math.Max(math.Abs(a), math.Abs(b)), epsilon)
	return math.Abs(a-b) / denom * 100.0
}

func deref(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
