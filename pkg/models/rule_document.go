package models

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// RuleDocumentKind tags the two accepted rule document shapes. The
// shape is decided once at parse time, never re-sniffed per evaluation.
type RuleDocumentKind string

const (
	// RuleDocumentStructured is {"rules": [...]} with per-rule metadata.
	RuleDocumentStructured RuleDocumentKind = "structured"
	// RuleDocumentBare is a single legacy expression that must evaluate
	// truthy for the answers to pass.
	RuleDocumentBare RuleDocumentKind = "bare"
)

// RuleDef is one entry of a structured rule document.
type RuleDef struct {
	ID          string             `json:"id,omitempty"`
	Field       string             `json:"field,omitempty"`
	Rule        any                `json:"rule"`
	Message     string             `json:"message,omitempty"`
	Severity    ValidationSeverity `json:"severity,omitempty"`
	AutoReject  bool               `json:"auto_reject,omitempty"`
	AutoApprove bool               `json:"auto_approve,omitempty"`
}

// RuleDocument is the parsed tagged variant of a screening-rule blob.
type RuleDocument struct {
	Kind  RuleDocumentKind
	Rules []RuleDef // structured form
	Bare  any       // bare form
}

// structuredDocumentSchema checks the shape of the structured form
// before any field access. Severity defaults to "error" when omitted.
var structuredDocumentSchema = map[string]any{
	"type":     "object",
	"required": []any{"rules"},
	"properties": map[string]any{
		"rules": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"rule"},
				"properties": map[string]any{
					"id":           map[string]any{"type": "string"},
					"field":        map[string]any{"type": "string"},
					"message":      map[string]any{"type": "string"},
					"severity":     map[string]any{"type": "string", "enum": []any{"error", "warning"}},
					"auto_reject":  map[string]any{"type": "boolean"},
					"auto_approve": map[string]any{"type": "boolean"},
				},
			},
		},
	},
}

// ParseRuleDocument decides which document shape a raw blob carries.
// Any map holding a "rules" key is treated as the structured form and
// schema-checked; everything else is a bare expression.
func ParseRuleDocument(raw any) (*RuleDocument, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: document is empty", ErrInvalidRuleDocument)
	}

	doc, isMap := raw.(map[string]any)
	if !isMap {
		return &RuleDocument{Kind: RuleDocumentBare, Bare: raw}, nil
	}

	if _, hasRules := doc["rules"]; !hasRules {
		return &RuleDocument{Kind: RuleDocumentBare, Bare: raw}, nil
	}

	schemaLoader := gojsonschema.NewGoLoader(structuredDocumentSchema)
	documentLoader := gojsonschema.NewGoLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRuleDocument, err)
	}

	if !result.Valid() {
		detail := ""
		for _, desc := range result.Errors() {
			if detail != "" {
				detail += "; "
			}

			detail += desc.String()
		}

		return nil, fmt.Errorf("%w: %s", ErrInvalidRuleDocument, detail)
	}

	rawRules, _ := doc["rules"].([]any)
	rules := make([]RuleDef, 0, len(rawRules))

	for _, rawRule := range rawRules {
		entry, _ := rawRule.(map[string]any)

		def := RuleDef{Rule: entry["rule"], Severity: SeverityError}

		if id, ok := entry["id"].(string); ok {
			def.ID = id
		}

		if field, ok := entry["field"].(string); ok {
			def.Field = field
		}

		if message, ok := entry["message"].(string); ok {
			def.Message = message
		}

		if severity, ok := entry["severity"].(string); ok {
			parsed, err := ParseValidationSeverity(severity)
			if err != nil {
				return nil, err
			}

			def.Severity = parsed
		}

		if autoReject, ok := entry["auto_reject"].(bool); ok {
			def.AutoReject = autoReject
		}

		if autoApprove, ok := entry["auto_approve"].(bool); ok {
			def.AutoApprove = autoApprove
		}

		rules = append(rules, def)
	}

	return &RuleDocument{Kind: RuleDocumentStructured, Rules: rules}, nil
}
