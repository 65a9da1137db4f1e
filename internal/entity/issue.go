package entity

import (
	"github.com/Code4Pete/trade-mvp/constants"
)

// Issue is one finding from the consistency rule engine. Issues are value
// objects: created by the engine, never mutated afterward. Evidence snapshots
// exactly the field values the rule inspected so a firing is reproducible
// from the extraction results alone.
type Issue struct {
	Severity       constants.Severity `json:"severity"`
	Code           string             `json:"code"`
	Title          string             `json:"title"`
	Explanation    string             `json:"explanation"`
	Recommendation string             `json:"recommendation"`
	Evidence       map[string]any     `json:"evidence"`
}
