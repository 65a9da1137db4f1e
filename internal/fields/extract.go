// Package fields turns normalized document text into a structured fact
// record. Extraction is deterministic and total: any string input, including
// the empty string, yields a well-formed ExtractionResult in which a field is
// either a typed value or nil.
package fields

import (
	"fmt"
	"strings"

	"github.com/Code4Pete/trade-mvp/constants"
	"github.com/Code4Pete/trade-mvp/internal/entity"
)

// Extract runs the grammar for docType over text. An unrecognized document
// class is a programmer error and panics.
func Extract(docType constants.DocType, text string) entity.ExtractionResult {
	switch docType {
	case constants.Invoice:
		return extractInvoice(text)
	case constants.PackingList:
		return extractPackingList(text)
	case constants.BillOfLading:
		return extractBillOfLading(text)
	}
	panic(fmt.Sprintf("fields: unknown document type %q", docType))
}

func extractInvoice(text string) entity.ExtractionResult {
	res := entity.ExtractionResult{
		DocType: constants.Invoice,
		Parties: map[string]entity.Party{
			entity.RoleExporter: {Name: findParty(exporterLabels, text)},
			entity.RoleImporter: {Name: findParty(importerLabels, text)},
		},
		Cargo: entity.Cargo{Items: []entity.Item{}},
	}

	if v, ok := invoiceNumberChain.find(text); ok {
		res.CommercialTerms.InvoiceNumber = CleanID(v)
	}
	res.CommercialTerms.Incoterm = guessIncoterm(text)
	res.CommercialTerms.Currency = guessCurrency(text)
	if v, ok := totalAmountChain.find(text); ok {
		res.CommercialTerms.InvoiceValue = ToFloat(v)
	}
	if v, ok := countryOfOriginChain.find(text); ok {
		res.CommercialTerms.CountryOfOrigin = cleanLine(v)
	}
	if m := cooMentionRe.FindString(text); m != "" {
		res.CommercialTerms.COOMention = ptr(m)
	}
	if v, ok := quantityChain.find(text); ok {
		res.Cargo.TotalQuantity = ToInt(v)
	}
	return res
}

func extractPackingList(text string) entity.ExtractionResult {
	res := entity.ExtractionResult{
		DocType: constants.PackingList,
		Parties: map[string]entity.Party{
			entity.RoleExporter: {Name: findParty(exporterLabels, text)},
			entity.RoleImporter: {Name: findParty(importerLabels, text)},
		},
		Cargo: entity.Cargo{Items: []entity.Item{}},
	}

	if v, ok := packingListNumberChain.find(text); ok {
		res.CommercialTerms.PackingListNumber = CleanID(v)
	}
	if v, ok := quantityChain.find(text); ok {
		res.Cargo.TotalQuantity = ToInt(v)
	}
	if v, ok := packagesChain.find(text); ok {
		res.Cargo.TotalPackages = ToInt(v)
	}
	if v, ok := grossWeightChain.find(text); ok {
		res.Cargo.TotalGrossWeight = ToFloat(v)
	}
	if v, ok := netWeightChain.find(text); ok {
		res.Cargo.TotalNetWeight = ToFloat(v)
	}
	return res
}

func extractBillOfLading(text string) entity.ExtractionResult {
	res := entity.ExtractionResult{
		DocType: constants.BillOfLading,
		Parties: map[string]entity.Party{
			entity.RoleShipper:   {Name: findParty(shipperLabels, text)},
			entity.RoleConsignee: {Name: findParty(consigneeLabels, text)},
		},
		Cargo: entity.Cargo{Items: []entity.Item{}},
	}

	if v, ok := blNumberChain.find(text); ok {
		res.Transport.BLNumber = CleanID(v)
	}
	if v, ok := packagesChain.find(text); ok {
		res.Cargo.TotalPackages = ToInt(v)
	}
	if v, ok := grossWeightChain.find(text); ok {
		res.Cargo.TotalGrossWeight = ToFloat(v)
	}
	if v, ok := freightTermsChain.find(text); ok {
		res.CommercialTerms.FreightTerms = cleanLine(v)
	}
	if v, ok := portOfLoadingChain.find(text); ok {
		res.Transport.PortOfLoading = cleanLine(v)
	}
	if v, ok := portOfDischargeChain.find(text); ok {
		res.Transport.PortOfDischarge = cleanLine(v)
	}
	if seaModeRe.MatchString(text) {
		res.Transport.Mode = ptr("SEA")
	}
	return res
}

func findParty(c patternChain, text string) *string {
	if v, ok := c.find(text); ok {
		return cleanLine(v)
	}
	return nil
}

// guessCurrency prefers an explicit "Currency: XXX" label, else scans for any
// code from the closed set appearing as a standalone word.
func guessCurrency(text string) *string {
	if v, ok := currencyLabelChain.find(text); ok {
		return ptr(strings.ToUpper(v))
	}
	for i, re := range currencyWordRes {
		if re.MatchString(text) {
			return ptr(currencyCodes[i])
		}
	}
	return nil
}

// guessIncoterm scans for closed-set membership; no label required.
func guessIncoterm(text string) *string {
	for i, re := range incotermWordRes {
		if re.MatchString(text) {
			return ptr(incoterms[i])
		}
	}
	return nil
}
