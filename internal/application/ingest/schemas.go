package ingest

import (
	"github.com/andrescamacho/wargame-go/internal/application/llm"
	"github.com/andrescamacho/wargame-go/internal/domain/space"
)

// Strict JSON schemas for the classify and normalize stages. Every field
// is required; optional values use typed nulls. Enum-typed fields
// enumerate the allowed values exhaustively so the model cannot invent
// variants, and the post-parse coercion in enums.go catches whatever
// slips through anyway.

func schemaString() map[string]interface{} {
	return map[string]interface{}{"type": "string"}
}

func schemaNullableString() map[string]interface{} {
	return map[string]interface{}{"type": []string{"string", "null"}}
}

func schemaNumber() map[string]interface{} {
	return map[string]interface{}{"type": "number"}
}

func schemaNullableNumber() map[string]interface{} {
	return map[string]interface{}{"type": []string{"number", "null"}}
}

func schemaInteger() map[string]interface{} {
	return map[string]interface{}{"type": "integer"}
}

func schemaEnum(values ...string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "enum": values}
}

func schemaObject(properties map[string]interface{}) map[string]interface{} {
	required := make([]string, 0, len(properties))
	for name := range properties {
		required = append(required, name)
	}
	return map[string]interface{}{
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
}

func schemaArray(items map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{"type": "array", "items": items}
}

func capabilityEnum() map[string]interface{} {
	values := make([]string, 0, len(space.AllCapabilities))
	for _, c := range space.AllCapabilities {
		values = append(values, string(c))
	}
	return schemaEnum(values...)
}

// ClassifySchema constrains the classification stage output.
func ClassifySchema() *llm.JSONSchemaFormat {
	return &llm.JSONSchemaFormat{
		Name:   "document_classification",
		Strict: true,
		Schema: schemaObject(map[string]interface{}{
			"hierarchyLevel":   schemaEnum("STRATEGY", "PLANNING", "ORDER", "EVENT_LIST"),
			"documentType":     schemaString(),
			"sourceFormat":     schemaEnum("MEMO", "MESSAGE", "ORDER_TEXT", "TABLE", "FREEFORM"),
			"confidence":       schemaNumber(),
			"title":            schemaString(),
			"issuingAuthority": schemaString(),
			"effectiveDateStr": schemaNullableString(),
		}),
	}
}

// StrategySchema constrains strategy-document normalization.
func StrategySchema() *llm.JSONSchemaFormat {
	return &llm.JSONSchemaFormat{
		Name:   "strategy_document",
		Strict: true,
		Schema: schemaObject(map[string]interface{}{
			"docType":          schemaEnum("NDS", "NMS", "JSCP", "CONPLAN", "OPLAN"),
			"title":            schemaString(),
			"issuingAuthority": schemaString(),
			"authorityLevel":   schemaString(),
			"summary":          schemaString(),
			"priorities": schemaArray(schemaObject(map[string]interface{}{
				"rank":        schemaInteger(),
				"objective":   schemaString(),
				"description": schemaString(),
			})),
		}),
	}
}

// PlanningSchema constrains planning-document normalization.
func PlanningSchema() *llm.JSONSchemaFormat {
	return &llm.JSONSchemaFormat{
		Name:   "planning_document",
		Strict: true,
		Schema: schemaObject(map[string]interface{}{
			"docType":          schemaEnum("JIPTL", "SPINS", "ACO", "MAAP", "MSEL"),
			"title":            schemaString(),
			"issuingAuthority": schemaString(),
			"summary":          schemaString(),
			"priorities": schemaArray(schemaObject(map[string]interface{}{
				"rank":        schemaInteger(),
				"effect":      schemaString(),
				"description": schemaString(),
			})),
		}),
	}
}

// OrderSchema constrains tasking-order normalization.
func OrderSchema() *llm.JSONSchemaFormat {
	waypoint := schemaObject(map[string]interface{}{
		"sequence":     schemaInteger(),
		"waypointType": schemaEnum("DEP", "IP", "CP", "TGT", "EGR", "REC", "ORBIT", "REFUEL", "CAP", "PATROL"),
		"lat":          schemaNumber(),
		"lon":          schemaNumber(),
		"altitudeFt":   schemaNullableNumber(),
		"speedKts":     schemaNullableNumber(),
	})
	window := schemaObject(map[string]interface{}{
		"windowType": schemaEnum("TOT", "ONSTA", "PUSH", "VUL"),
		"startTime":  schemaString(),
		"endTime":    schemaString(),
	})
	target := schemaObject(map[string]interface{}{
		"targetName":  schemaString(),
		"targetType":  schemaString(),
		"lat":         schemaNumber(),
		"lon":         schemaNumber(),
		"description": schemaString(),
	})
	support := schemaObject(map[string]interface{}{
		"supportType": schemaEnum("TANKER", "ISR", "SEAD", "ESCORT", "AEW", "CSAR", "EW"),
		"description": schemaString(),
	})
	need := schemaObject(map[string]interface{}{
		"capabilityType":     capabilityEnum(),
		"priority":           schemaInteger(),
		"startTime":          schemaString(),
		"endTime":            schemaString(),
		"coverageLat":        schemaNullableNumber(),
		"coverageLon":        schemaNullableNumber(),
		"fallbackCapability": schemaNullableString(),
		"missionCriticality": schemaEnum("CRITICAL", "ESSENTIAL", "ENHANCING", "ROUTINE"),
	})
	missionSchema := schemaObject(map[string]interface{}{
		"missionId":           schemaString(),
		"callsign":            schemaString(),
		"domain":              schemaEnum("AIR", "MARITIME", "SPACE", "LAND"),
		"platformType":        schemaString(),
		"platformCount":       schemaInteger(),
		"missionType":         schemaString(),
		"waypoints":           schemaArray(waypoint),
		"timeWindows":         schemaArray(window),
		"targets":             schemaArray(target),
		"supportRequirements": schemaArray(support),
		"spaceNeeds":          schemaArray(need),
	})
	pkg := schemaObject(map[string]interface{}{
		"packageId":     schemaString(),
		"priorityRank":  schemaInteger(),
		"missionType":   schemaString(),
		"effectDesired": schemaString(),
		"missions":      schemaArray(missionSchema),
	})
	return &llm.JSONSchemaFormat{
		Name:   "tasking_order",
		Strict: true,
		Schema: schemaObject(map[string]interface{}{
			"orderType":    schemaEnum("ATO", "MTO", "STO", "OPORD", "EXORD", "FRAGORD", "ACO", "SPINS"),
			"atoDayNumber": schemaInteger(),
			"packages":     schemaArray(pkg),
		}),
	}
}

// EventListSchema constrains MSEL normalization.
func EventListSchema() *llm.JSONSchemaFormat {
	return &llm.JSONSchemaFormat{
		Name:   "event_list",
		Strict: true,
		Schema: schemaObject(map[string]interface{}{
			"title": schemaString(),
			"injects": schemaArray(schemaObject(map[string]interface{}{
				"dtg":         schemaString(),
				"injectType":  schemaEnum("FRICTION", "INTEL", "CRISIS", "SPACE", "INFORMATION", "ACTION", "DECISION_POINT", "CONTINGENCY"),
				"title":       schemaString(),
				"description": schemaString(),
				"impact":      schemaString(),
			})),
		}),
	}
}
