package textacq

import (
	"regexp"

	"github.com/Code4Pete/trade-mvp/constants"
)

var (
	reLabel  = regexp.MustCompile(`(?i)\b(invoice|packing|lading|shipper|consignee|exporter|importer)\b`)
	reAmount = regexp.MustCompile(`\b\d{1,3}(,\d{3})*(\.\d{2})\b|\b\d+\.\d{2}\b`)
	reCode   = regexp.MustCompile(`(?i)\b[A-Z]{3}\b`)
)

// heuristicConfidence grades decoded text in 0..1 from characteristics a real
// shipment document tends to have. Fed to the readiness estimator, never used
// by the rule engine.
func heuristicConfidence(txt, method string) float64 {
	if method == constants.MethodEmpty || txt == "" {
		return 0
	}
	score := 0.2 // base
	if reLabel.MatchString(txt) {
		score += 0.25
	}
	if reAmount.MatchString(txt) {
		score += 0.15
	}
	if reCode.MatchString(txt) {
		score += 0.1
	}
	if len(txt) > 350 {
		score += 0.2
	}
	// OCR text is noisier than a native text layer
	if method == constants.MethodNative {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
