package rag

import (
	"bytes"
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"fitai/internal/llm"
)

const dishProperties = `{
	"restaurant_name": {"type": "string"},
	"dish": {"type": "string"},
	"serving_size": {"type": "integer"},
	"calories": {"type": "integer"},
	"fat": {"type": "integer"},
	"sat_fat": {"type": "integer"},
	"trans_fat": {"type": "integer"},
	"cholesterol": {"type": "integer"},
	"sodium": {"type": "integer"},
	"carbohydrates": {"type": "integer"},
	"fiber": {"type": "integer"},
	"sugar": {"type": "integer"},
	"protein": {"type": "integer"}
}`

const dishRequired = `["restaurant_name", "dish", "serving_size", "calories", "fat", "sat_fat", "trans_fat", "cholesterol", "sodium", "carbohydrates", "fiber", "sugar", "protein"]`

var dishSchema = `{
	"type": "object",
	"properties": ` + dishProperties + `,
	"required": ` + dishRequired + `,
	"additionalProperties": false
}`

// SchemaNoResult is the shape for the no-candidates reply.
var SchemaNoResult = llm.Schema{Name: "no_result", Raw: json.RawMessage(`{
	"type": "object",
	"properties": {
		"suggestions": {"type": "array", "items": {"type": "string"}},
		"message_res": {"type": "string"}
	},
	"required": ["suggestions", "message_res"],
	"additionalProperties": false
}`)}

var SchemaMenuOnly = llm.Schema{Name: "menu_only", Raw: json.RawMessage(`{
	"type": "object",
	"properties": {
		"menus": {"type": "array", "items": ` + dishSchema + `},
		"message_res": {"type": "string"},
		"suggestions": {"type": "array", "items": {"type": "string"}}
	},
	"required": ["menus", "message_res", "suggestions"],
	"additionalProperties": false
}`)}

var SchemaInfoOnly = llm.Schema{Name: "info_only", Raw: json.RawMessage(`{
	"type": "object",
	"properties": {
		"details": {"type": "string"},
		"message_res": {"type": "string"},
		"suggestions": {"type": "array", "items": {"type": "string"}}
	},
	"required": ["details", "message_res", "suggestions"],
	"additionalProperties": false
}`)}

var SchemaMenuAndInfo = llm.Schema{Name: "menu_and_info", Raw: json.RawMessage(`{
	"type": "object",
	"properties": {
		"details": {"type": "string"},
		"menus": {"type": "array", "items": ` + dishSchema + `},
		"message_res": {"type": "string"},
		"suggestions": {"type": "array", "items": {"type": "string"}}
	},
	"required": ["details", "menus", "message_res", "suggestions"],
	"additionalProperties": false
}`)}

var SchemaExtraction = llm.Schema{Name: "metadata_extraction", Raw: json.RawMessage(`{
	"type": "object",
	"properties": {
		"indexes": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"name": {"type": "string"},
					"entities": {
						"type": "object",
						"properties": {
							"recommended": {"type": "array", "items": {"type": "string"}},
							"exclude": {"type": "array", "items": {"type": "string"}},
							"queries_or_faqs": {"type": "array", "items": {"type": "string"}}
						},
						"required": ["recommended", "exclude", "queries_or_faqs"],
						"additionalProperties": false
					}
				},
				"required": ["name", "entities"],
				"additionalProperties": false
			}
		},
		"query_expansion": {"type": "string"}
	},
	"required": ["indexes", "query_expansion"],
	"additionalProperties": false
}`)}

// validateJSON checks decoded model output against the declared schema.
func validateJSON(schema llm.Schema, data any) (bool, []string) {
	if schema.Raw == nil {
		return true, nil
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(schema.Raw)); err != nil {
		return false, []string{err.Error()}
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return false, []string{err.Error()}
	}
	if err := compiled.Validate(data); err != nil {
		return false, []string{err.Error()}
	}
	return true, nil
}
