package constants

// DocType is the canonical class of a shipment document. It selects the
// extraction grammar and the rule subset that apply.
type DocType string

// Stable values (these exact strings appear in report JSON).
const (
	Invoice      DocType = "invoice"
	PackingList  DocType = "packing_list"
	BillOfLading DocType = "bill_of_lading"
)

// AllDocTypes lists every document class in analysis order.
var AllDocTypes = []DocType{Invoice, PackingList, BillOfLading}

func (d DocType) IsValid() bool {
	switch d {
	case Invoice, PackingList, BillOfLading:
		return true
	}
	return false
}

func (d DocType) String() string {
	return string(d)
}

// AcquisitionMethod tags how document text was obtained.
const (
	MethodNative = "native"
	MethodOCR    = "ocr"
	MethodEmpty  = "empty"
)
