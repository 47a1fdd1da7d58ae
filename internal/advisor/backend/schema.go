package backend

import (
	"encoding/json"

	"github.com/MrJamesThe3rd/vault/internal/advisor"
)

// schemas constrain structured output per action. Chat has none and is answered as free text.
var schemas = map[advisor.Action]json.RawMessage{
	advisor.ActionInsight: json.RawMessage(`{
		"type": "object",
		"properties": {
			"analysis": {"type": "string"},
			"monthlySuggestion": {"type": "number"},
			"actionSteps": {"type": "array", "items": {"type": "string"}}
		},
		"required": ["analysis", "monthlySuggestion", "actionSteps"],
		"additionalProperties": false
	}`),
	advisor.ActionInvestments: json.RawMessage(`{
		"type": "object",
		"properties": {
			"recommendations": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"product": {"type": "string"},
						"yield": {"type": "string"},
						"liquidity": {"type": "string"},
						"reasoning": {"type": "string"}
					},
					"required": ["product", "yield", "liquidity", "reasoning"],
					"additionalProperties": false
				}
			}
		},
		"required": ["recommendations"],
		"additionalProperties": false
	}`),
	advisor.ActionSubscriptions: json.RawMessage(`{
		"type": "object",
		"properties": {
			"subscriptions": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"name": {"type": "string"},
						"amount": {"type": "number"},
						"frequency": {"type": "string"},
						"tip": {"type": "string"}
					},
					"required": ["name", "amount", "frequency", "tip"],
					"additionalProperties": false
				}
			}
		},
		"required": ["subscriptions"],
		"additionalProperties": false
	}`),
	advisor.ActionCashFlow: json.RawMessage(`{
		"type": "object",
		"properties": {
			"predictedBalance": {"type": "number"},
			"alert": {"type": "string"},
			"riskLevel": {"type": "string", "enum": ["low", "medium", "high"]}
		},
		"required": ["predictedBalance", "alert", "riskLevel"],
		"additionalProperties": false
	}`),
	advisor.ActionCategorize: json.RawMessage(`{
		"type": "object",
		"properties": {
			"category": {"type": "string"}
		},
		"required": ["category"],
		"additionalProperties": false
	}`),
}
