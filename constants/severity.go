package constants

// Severity ranks how serious a compliance issue is.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Rank orders severities for comparison: critical > high > medium > low.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

func (s Severity) IsValid() bool {
	return s.Rank() > 0
}

// RiskBand is the coarse three-level bucket derived from the risk score.
type RiskBand string

const (
	BandLow    RiskBand = "low"
	BandMedium RiskBand = "medium"
	BandHigh   RiskBand = "high"
)

// ReadinessLevel grades filing readiness from the explainability overlay.
type ReadinessLevel string

const (
	ReadinessHigh   ReadinessLevel = "high"
	ReadinessMedium ReadinessLevel = "medium"
	ReadinessLow    ReadinessLevel = "low"
)
