package fields

import "regexp"

// patternChain is an ordered fallback list for one field: most specific label
// first, first match wins. Chains are data so each one is independently
// testable.
type patternChain []*regexp.Regexp

// find returns the first non-empty capture group across the chain.
func (c patternChain) find(text string) (string, bool) {
	for _, re := range c {
		if m := re.FindStringSubmatch(text); m != nil {
			if v := m[1]; v != "" {
				return v, true
			}
		}
	}
	return "", false
}

var (
	invoiceNumberChain = patternChain{
		regexp.MustCompile(`(?i)\bInvoice\s*(?:No|Number)\s*[:#\-]?\s*([A-Z0-9][A-Z0-9\-/]+)`),
		regexp.MustCompile(`(?i)\bInv\s*(?:No|Number)\s*[:#\-]?\s*([A-Z0-9][A-Z0-9\-/]+)`),
	}

	packingListNumberChain = patternChain{
		regexp.MustCompile(`(?i)\bPacking\s*List\s*(?:No|Number)\s*[:#\-]?\s*([A-Z0-9][A-Z0-9\-/]+)`),
		regexp.MustCompile(`(?i)\bP/L\s*(?:No|Number)\s*[:#\-]?\s*([A-Z0-9][A-Z0-9\-/]+)`),
		regexp.MustCompile(`(?i)\bPL\s*(?:No|Number)\s*[:#\-]?\s*([A-Z0-9][A-Z0-9\-/]+)`),
	}

	blNumberChain = patternChain{
		regexp.MustCompile(`(?i)\bB/L\s*(?:No|Number)\s*[:#\-]?\s*([A-Z0-9][A-Z0-9\-/]+)`),
		regexp.MustCompile(`(?i)\bBL\s*(?:No|Number)\s*[:#\-]?\s*([A-Z0-9][A-Z0-9\-/]+)`),
		regexp.MustCompile(`(?i)\bBill\s*of\s*Lading\s*(?:No|Number)\s*[:#\-]?\s*([A-Z0-9][A-Z0-9\-/]+)`),
	}

	// "Total Amount: USD 5,000" / "Grand Total USD 5000" / "Total: 5000"
	totalAmountChain = patternChain{
		regexp.MustCompile(`(?i)\bTotal\s*Amount\s*[:\-]?\s*(?:[A-Z]{3}\s*)?([\d,]+\.\d+|[\d,]+)`),
		regexp.MustCompile(`(?i)\bGrand\s*Total\s*[:\-]?\s*(?:[A-Z]{3}\s*)?([\d,]+\.\d+|[\d,]+)`),
		regexp.MustCompile(`(?i)\bTotal\s*[:\-]?\s*(?:[A-Z]{3}\s*)?([\d,]+\.\d+|[\d,]+)`),
	}

	// Total-level label outranks line-level "Qty" on documents carrying both.
	quantityChain = patternChain{
		regexp.MustCompile(`(?i)\bTotal\s+Quantity\s*[:\-]?\s*([\d,]+)`),
		regexp.MustCompile(`(?i)\bQuantity\s*[:\-]?\s*([\d,]+)`),
		regexp.MustCompile(`(?i)\bQty\s*[:\-]?\s*([\d,]+)`),
	}

	packagesChain = patternChain{
		regexp.MustCompile(`(?i)\bNo\.?\s*of\s*Cartons\s*[:\-]?\s*([\d,]+)`),
		regexp.MustCompile(`(?i)\bNo\.?\s*of\s*Packages\s*[:\-]?\s*([\d,]+)`),
		regexp.MustCompile(`(?i)\bCartons\s*[:\-]?\s*([\d,]+)`),
		regexp.MustCompile(`(?i)\bPackages\s*[:\-]?\s*([\d,]+)`),
	}

	grossWeightChain = patternChain{
		regexp.MustCompile(`(?i)\bGross\s*Weight\s*[:\-]?\s*([\d.,]+)`),
	}

	netWeightChain = patternChain{
		regexp.MustCompile(`(?i)\bNet\s*Weight\s*[:\-]?\s*([\d.,]+)`),
	}

	freightTermsChain = patternChain{
		regexp.MustCompile(`(?i)\bFreight\s*[:\-]?\s*(Prepaid|Collect)\b`),
		regexp.MustCompile(`(?i)\bFreight\s*Terms\s*[:\-]?\s*([A-Za-z ]+)`),
	}

	portOfLoadingChain = patternChain{
		regexp.MustCompile(`(?i)\bPort\s*of\s*Loading\s*[:\-]?\s*(.+)`),
	}

	portOfDischargeChain = patternChain{
		regexp.MustCompile(`(?i)\bPort\s*of\s*Discharge\s*[:\-]?\s*(.+)`),
	}

	countryOfOriginChain = patternChain{
		regexp.MustCompile(`(?i)\bCountry\s*of\s*Origin\s*[:\-]?\s*(.+)`),
	}

	currencyLabelChain = patternChain{
		regexp.MustCompile(`(?i)\bCurrency\s*[:#]?\s*([A-Za-z]{3})\b`),
	}
)

// Party labels, tried in order; value runs to end of line.
var (
	exporterLabels  = partyChain([]string{"Exporter", "Seller", "Shipper"})
	importerLabels  = partyChain([]string{"Importer", "Buyer", "Consignee"})
	shipperLabels   = partyChain([]string{"Shipper", "Exporter"})
	consigneeLabels = partyChain([]string{"Consignee", "Importer"})
)

func partyChain(labels []string) patternChain {
	c := make(patternChain, 0, len(labels))
	for _, lab := range labels {
		c = append(c, regexp.MustCompile(`(?i)\b`+lab+`\s*[:\-]\s*(.+)`))
	}
	return c
}

// cooMentionRe detects any textual Certificate of Origin reference.
var cooMentionRe = regexp.MustCompile(`(?i)\bCertificate\s+of\s+Origin\b|\bC\.?O\.?O\.?\b`)

// seaModeRe is the bill-of-lading sea-freight heuristic.
var seaModeRe = regexp.MustCompile(`(?i)\bVessel\b|\bPort\b|\bBill of Lading\b`)

// currencyCodes is the closed set scanned when no explicit label is present.
var currencyCodes = []string{"USD", "AED", "INR", "EUR", "GBP", "SAR", "OMR", "QAR"}

// incoterms is the closed set of the eleven standard 2020 terms.
var incoterms = []string{"EXW", "FCA", "FAS", "FOB", "CFR", "CIF", "CPT", "CIP", "DAP", "DPU", "DDP"}

var (
	currencyWordRes = compileWordSet(currencyCodes)
	incotermWordRes = compileWordSet(incoterms)
)

func compileWordSet(words []string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(words))
	for _, w := range words {
		res = append(res, regexp.MustCompile(`(?i)\b`+w+`\b`))
	}
	return res
}
