package report

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildReportJSONSchema returns a JSON-Schema (draft 2020-12 subset) for the
// risk-report payload, as a generic map. Used to validate every report before
// it leaves the analyzer.
func BuildReportJSONSchema() map[string]any {
	issue := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"severity":       map[string]any{"type": "string", "enum": []string{"critical", "high", "medium", "low"}},
			"code":           map[string]any{"type": "string", "minLength": 1},
			"title":          map[string]any{"type": "string"},
			"explanation":    map[string]any{"type": "string"},
			"recommendation": map[string]any{"type": "string"},
			"evidence":       map[string]any{"type": "object"},
		},
		"required": []string{"severity", "code", "title", "explanation", "recommendation", "evidence"},
	}

	route := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"origin_country":      map[string]any{"type": "string", "minLength": 2, "maxLength": 2},
			"destination_country": map[string]any{"type": "string", "minLength": 2, "maxLength": 2},
		},
		"required": []string{"origin_country", "destination_country"},
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":         map[string]any{"type": "string", "minLength": 36, "maxLength": 36},
			"route":      route,
			"risk_score": map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
			"risk_band":  map[string]any{"type": "string", "enum": []string{"low", "medium", "high"}},
			"issues":     map[string]any{"type": "array", "items": issue},
			"extracted_summary": map[string]any{
				"type":     "object",
				"required": []string{"invoice", "packing_list", "bill_of_lading"},
			},
		},
		"required": []string{"id", "route", "risk_score", "risk_band", "issues", "extracted_summary"},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
