package fields

import (
	"github.com/Code4Pete/trade-mvp/constants"
	"github.com/Code4Pete/trade-mvp/internal/entity"
)

// Presence reports, per dotted field path, whether extraction found a value.
// Feeds the debug block and the readiness baseline check.
func Presence(res entity.ExtractionResult) map[string]bool {
	ct := res.CommercialTerms
	cg := res.Cargo
	tr := res.Transport

	switch res.DocType {
	case constants.Invoice:
		return map[string]bool{
			"commercial_terms.invoice_number": ct.InvoiceNumber != nil,
			"commercial_terms.incoterm":       ct.Incoterm != nil,
			"commercial_terms.invoice_value":  ct.InvoiceValue != nil,
			"commercial_terms.currency":       ct.Currency != nil,
			"cargo.total_quantity":            cg.TotalQuantity != nil,
			"parties.exporter.name":           partyFound(res, entity.RoleExporter),
			"parties.importer.name":           partyFound(res, entity.RoleImporter),
		}
	case constants.PackingList:
		return map[string]bool{
			"commercial_terms.packing_list_number": ct.PackingListNumber != nil,
			"cargo.total_quantity":                 cg.TotalQuantity != nil,
			"cargo.total_packages":                 cg.TotalPackages != nil,
			"cargo.total_gross_weight":             cg.TotalGrossWeight != nil,
			"cargo.total_net_weight":               cg.TotalNetWeight != nil,
			"parties.exporter.name":                partyFound(res, entity.RoleExporter),
			"parties.importer.name":                partyFound(res, entity.RoleImporter),
		}
	case constants.BillOfLading:
		return map[string]bool{
			"transport.bl_number":            tr.BLNumber != nil,
			"transport.mode":                 tr.Mode != nil,
			"transport.port_of_loading":      tr.PortOfLoading != nil,
			"transport.port_of_discharge":    tr.PortOfDischarge != nil,
			"cargo.total_packages":           cg.TotalPackages != nil,
			"cargo.total_gross_weight":       cg.TotalGrossWeight != nil,
			"commercial_terms.freight_terms": ct.FreightTerms != nil,
			"parties.shipper.name":           partyFound(res, entity.RoleShipper),
			"parties.consignee.name":         partyFound(res, entity.RoleConsignee),
		}
	}
	return map[string]bool{}
}

func partyFound(res entity.ExtractionResult, role string) bool {
	p, ok := res.Parties[role]
	return ok && p.Name != nil
}
