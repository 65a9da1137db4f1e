package entity

import (
	"github.com/Code4Pete/trade-mvp/constants"
)

// Party is one named party on a document. All fields are optional; a nil
// pointer means the field was not found, never an empty string.
type Party struct {
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
	Country *string `json:"country,omitempty"`
}

// Item is a single invoice line item.
type Item struct {
	Description *string  `json:"description,omitempty"`
	HSCode      *string  `json:"hs_code,omitempty"`
	Quantity    *float64 `json:"quantity,omitempty"`
}

// CommercialTerms holds the named scalar commercial fields. Which ones are
// populated depends on the document class.
type CommercialTerms struct {
	InvoiceNumber     *string  `json:"invoice_number,omitempty"`
	Incoterm          *string  `json:"incoterm,omitempty"`
	InvoiceValue      *float64 `json:"invoice_value,omitempty"`
	Currency          *string  `json:"currency,omitempty"`
	PackingListNumber *string  `json:"packing_list_number,omitempty"`
	FreightTerms      *string  `json:"freight_terms,omitempty"`
	CountryOfOrigin   *string  `json:"country_of_origin,omitempty"`
	COOMention        *string  `json:"coo_mention,omitempty"`
}

// Cargo holds shipment totals and line items.
type Cargo struct {
	TotalQuantity    *int     `json:"total_quantity,omitempty"`
	TotalPackages    *int     `json:"total_packages,omitempty"`
	TotalGrossWeight *float64 `json:"total_gross_weight,omitempty"`
	TotalNetWeight   *float64 `json:"total_net_weight,omitempty"`
	Items            []Item   `json:"items"`
}

// Transport holds carriage details (bill of lading only).
type Transport struct {
	BLNumber        *string `json:"bl_number,omitempty"`
	Mode            *string `json:"mode,omitempty"`
	PortOfLoading   *string `json:"port_of_loading,omitempty"`
	PortOfDischarge *string `json:"port_of_discharge,omitempty"`
}

// Party role keys used in ExtractionResult.Parties. Invoice and packing list
// carry exporter/importer; the bill of lading carries shipper/consignee.
const (
	RoleExporter  = "exporter"
	RoleImporter  = "importer"
	RoleShipper   = "shipper"
	RoleConsignee = "consignee"
)

// ExtractionResult is the structured fact record for one document. DocType is
// set exactly once at extraction time. Every leaf field is either a well-typed
// value or nil ("unknown").
type ExtractionResult struct {
	DocType         constants.DocType `json:"doc_type"`
	Parties         map[string]Party  `json:"parties"`
	CommercialTerms CommercialTerms   `json:"commercial_terms"`
	Cargo           Cargo             `json:"cargo"`
	Transport       Transport         `json:"transport"`
}
