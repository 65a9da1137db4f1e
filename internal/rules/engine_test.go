package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Code4Pete/trade-mvp/constants"
	"github.com/Code4Pete/trade-mvp/internal/entity"
)

func strp(s string) *string   { return &s }
func intp(n int) *int         { return &n }
func fltp(f float64) *float64 { return &f }

// emptyDoc builds an all-unknown extraction result for a document class.
func emptyDoc(dt constants.DocType) entity.ExtractionResult {
	return entity.ExtractionResult{
		DocType: dt,
		Parties: map[string]entity.Party{},
		Cargo:   entity.Cargo{Items: []entity.Item{}},
	}
}

// completeDocs builds a trio in which no rule fires.
func completeDocs() (entity.ExtractionResult, entity.ExtractionResult, entity.ExtractionResult) {
	inv := emptyDoc(constants.Invoice)
	inv.CommercialTerms.Incoterm = strp("FOB")
	inv.CommercialTerms.CountryOfOrigin = strp("India")
	inv.Cargo.TotalQuantity = intp(1000)
	inv.Cargo.Items = []entity.Item{{HSCode: strp("761699")}}

	pack := emptyDoc(constants.PackingList)
	pack.Cargo.TotalQuantity = intp(1000)
	pack.Cargo.TotalGrossWeight = fltp(1000)

	bl := emptyDoc(constants.BillOfLading)
	bl.Cargo.TotalGrossWeight = fltp(1000)

	return inv, pack, bl
}

func issueCodes(issues []entity.Issue) []string {
	codes := make([]string, 0, len(issues))
	for _, i := range issues {
		codes = append(codes, i.Code)
	}
	return codes
}

func findIssue(issues []entity.Issue, code string) *entity.Issue {
	for i := range issues {
		if issues[i].Code == code {
			return &issues[i]
		}
	}
	return nil
}

func TestEvaluate_CompleteDocsNoIssues(t *testing.T) {
	inv, pack, bl := completeDocs()
	issues := NewEngine(nil).Evaluate(&inv, &pack, &bl)
	assert.Empty(t, issues)
}

func TestEvaluate_EmptyDocsFireInDeclarationOrder(t *testing.T) {
	inv := emptyDoc(constants.Invoice)
	pack := emptyDoc(constants.PackingList)
	bl := emptyDoc(constants.BillOfLading)

	issues := NewEngine(nil).Evaluate(&inv, &pack, &bl)

	assert.Equal(t,
		[]string{"COO_MISSING", "INCOTERM_MISSING", "NO_ITEMS_EXTRACTED"},
		issueCodes(issues))
}

func TestRule_COOMissing(t *testing.T) {
	tests := []struct {
		name    string
		country *string
		mention *string
		fires   bool
	}{
		{"both absent", nil, nil, true},
		{"country present", strp("India"), nil, false},
		{"mention present", nil, strp("Certificate of Origin"), false},
		{"both present", strp("India"), strp("COO"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, pack, bl := completeDocs()
			inv.CommercialTerms.CountryOfOrigin = tt.country
			inv.CommercialTerms.COOMention = tt.mention

			issues := NewEngine(nil).Evaluate(&inv, &pack, &bl)
			issue := findIssue(issues, "COO_MISSING")
			if !tt.fires {
				assert.Nil(t, issue)
				return
			}
			require.NotNil(t, issue)
			assert.Equal(t, constants.SeverityCritical, issue.Severity)
			assert.Contains(t, issue.Evidence, "invoice_country_of_origin")
			assert.Contains(t, issue.Evidence, "invoice_coo_mention")
		})
	}
}

func TestRule_IncotermMissing(t *testing.T) {
	inv, pack, bl := completeDocs()
	inv.CommercialTerms.Incoterm = nil

	issues := NewEngine(nil).Evaluate(&inv, &pack, &bl)
	issue := findIssue(issues, "INCOTERM_MISSING")
	require.NotNil(t, issue)
	assert.Equal(t, constants.SeverityCritical, issue.Severity)
}

func TestRule_QuantityMismatch(t *testing.T) {
	tests := []struct {
		name    string
		invQty  *int
		packQty *int
		fires   bool
	}{
		{"mismatch", intp(1000), intp(950), true},
		{"equal", intp(1000), intp(1000), false},
		{"invoice unknown", nil, intp(950), false},
		{"packing unknown", intp(1000), nil, false},
		{"both unknown", nil, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, pack, bl := completeDocs()
			inv.Cargo.TotalQuantity = tt.invQty
			pack.Cargo.TotalQuantity = tt.packQty

			issues := NewEngine(nil).Evaluate(&inv, &pack, &bl)
			matched := findIssue(issues, "QTY_MISMATCH_INV_PACK")
			if !tt.fires {
				assert.Nil(t, matched)
				return
			}
			require.NotNil(t, matched)
			assert.Equal(t, constants.SeverityCritical, matched.Severity)
			assert.Equal(t, 1000, matched.Evidence["invoice_total_quantity"])
			assert.Equal(t, 950, matched.Evidence["packing_total_quantity"])

			// exactly one
			count := 0
			for _, i := range issues {
				if i.Code == "QTY_MISMATCH_INV_PACK" {
					count++
				}
			}
			assert.Equal(t, 1, count)
		})
	}
}

func TestRule_GrossWeightTolerance(t *testing.T) {
	tests := []struct {
		name    string
		packGW  *float64
		blGW    *float64
		fires   bool
		pctDiff float64
	}{
		{"within tolerance", fltp(1000), fltp(1015), false, 0},
		{"over tolerance", fltp(1000), fltp(1030), true, 2.91},
		{"just under tolerance", fltp(1000), fltp(1020), false, 0},
		{"packing unknown", nil, fltp(1030), false, 0},
		{"bl unknown", fltp(1000), nil, false, 0},
		{"both near zero", fltp(0), fltp(0), false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, pack, bl := completeDocs()
			pack.Cargo.TotalGrossWeight = tt.packGW
			bl.Cargo.TotalGrossWeight = tt.blGW

			issues := NewEngine(nil).Evaluate(&inv, &pack, &bl)
			issue := findIssue(issues, "GW_MISMATCH_PACK_BL")
			if !tt.fires {
				assert.Nil(t, issue)
				return
			}
			require.NotNil(t, issue)
			assert.Equal(t, constants.SeverityCritical, issue.Severity)
			assert.InDelta(t, tt.pctDiff, issue.Evidence["pct_diff"], 0.01)
		})
	}
}

func TestRule_HSCodes(t *testing.T) {
	tests := []struct {
		name  string
		items []entity.Item
		fires bool
	}{
		{"all invalid", []entity.Item{{HSCode: strp("ABC123")}, {HSCode: nil}}, true},
		{"one valid", []entity.Item{{HSCode: strp("761699")}, {HSCode: strp("bad")}}, false},
		{"all valid", []entity.Item{{HSCode: strp("76.16.99")}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, pack, bl := completeDocs()
			inv.Cargo.Items = tt.items

			issues := NewEngine(nil).Evaluate(&inv, &pack, &bl)
			issue := findIssue(issues, "HS_ALL_MISSING_OR_INVALID")
			if !tt.fires {
				assert.Nil(t, issue)
				return
			}
			require.NotNil(t, issue)
			assert.Equal(t, constants.SeverityHigh, issue.Severity)
			assert.Equal(t, len(tt.items), issue.Evidence["items_count"])
		})
	}
}

func TestRule_NoItemsDistinctFromHSRule(t *testing.T) {
	inv, pack, bl := completeDocs()
	inv.Cargo.Items = []entity.Item{}

	issues := NewEngine(nil).Evaluate(&inv, &pack, &bl)
	assert.Nil(t, findIssue(issues, "HS_ALL_MISSING_OR_INVALID"))
	issue := findIssue(issues, "NO_ITEMS_EXTRACTED")
	require.NotNil(t, issue)
	assert.Equal(t, constants.SeverityHigh, issue.Severity)
}

func TestValidHSCode(t *testing.T) {
	tests := []struct {
		name string
		in   *string
		want bool
	}{
		{"six digits", strp("761699"), true},
		{"ten digits", strp("7616991234"), true},
		{"periods stripped", strp("76.16.99"), true},
		{"letters", strp("ABC123"), false},
		{"too short", strp("76169"), false},
		{"too long", strp("76169912345"), false},
		{"empty", strp(""), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidHSCode(tt.in))
		})
	}
}

func TestPctDiff(t *testing.T) {
	assert.InDelta(t, 1.478, pctDiff(1000, 1015), 0.001)
	assert.InDelta(t, 2.913, pctDiff(1000, 1030), 0.001)
	assert.Zero(t, pctDiff(0, 0))
}
