// Package scoring maps rule-engine issues to a bounded risk score and band.
// Severity ranking and score weighting are deliberately separate tables so
// weights can change without touching rule logic.
package scoring

import (
	"github.com/Code4Pete/trade-mvp/constants"
	"github.com/Code4Pete/trade-mvp/internal/entity"
)

// points is the per-severity weight table.
var points = map[constants.Severity]int{
	constants.SeverityCritical: 30,
	constants.SeverityHigh:     15,
	constants.SeverityMedium:   5,
	constants.SeverityLow:      1,
}

// Score sums per-severity points over all issues, clamped to [0,100].
func Score(issues []entity.Issue) int {
	total := 0
	for _, i := range issues {
		total += points[i.Severity]
	}
	if total > 100 {
		return 100
	}
	return total
}

// Band buckets a score: low if <=20, medium if <=50, else high.
func Band(score int) constants.RiskBand {
	switch {
	case score <= 20:
		return constants.BandLow
	case score <= 50:
		return constants.BandMedium
	default:
		return constants.BandHigh
	}
}
