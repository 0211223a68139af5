// Package schema describes the structured output contract of an extraction
// and renders it for the backends that enforce it.
package schema

import "sync"

// Type is a JSON value type.
type Type string

const (
	TypeObject Type = "object"
	TypeArray  Type = "array"
	TypeString Type = "string"
)

// Property is a named member of an object schema. Order is significant:
// backends that honour property ordering emit fields in this order.
type Property struct {
	Name   string
	Schema *Schema
}

// Schema is a small, backend-neutral subset of JSON Schema: objects, arrays
// and strings, each optionally nullable. No property is ever required.
type Schema struct {
	Type        Type
	Description string
	Nullable    bool
	Properties  []Property
	Items       *Schema
}

// PropertyNames returns the object's property names in declaration order.
func (s *Schema) PropertyNames() []string {
	names := make([]string, 0, len(s.Properties))
	for _, p := range s.Properties {
		names = append(names, p.Name)
	}
	return names
}

// Property returns the named property schema, or nil.
func (s *Schema) Property(name string) *Schema {
	for _, p := range s.Properties {
		if p.Name == name {
			return p.Schema
		}
	}
	return nil
}

// Gemini renders the schema in the OpenAPI subset accepted by Gemini's
// responseSchema: upper-case types, a nullable flag and propertyOrdering.
func (s *Schema) Gemini() map[string]interface{} {
	out := map[string]interface{}{
		"type": geminiType(s.Type),
	}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if s.Nullable {
		out["nullable"] = true
	}
	switch s.Type {
	case TypeObject:
		props := make(map[string]interface{}, len(s.Properties))
		for _, p := range s.Properties {
			props[p.Name] = p.Schema.Gemini()
		}
		out["properties"] = props
		out["propertyOrdering"] = s.PropertyNames()
	case TypeArray:
		if s.Items != nil {
			out["items"] = s.Items.Gemini()
		}
	}
	return out
}

func geminiType(t Type) string {
	switch t {
	case TypeObject:
		return "OBJECT"
	case TypeArray:
		return "ARRAY"
	default:
		return "STRING"
	}
}

// JSONSchema renders the schema as a draft 2020-12 JSON Schema fragment.
// Nullable types become a type union with "null".
func (s *Schema) JSONSchema() map[string]interface{} {
	out := map[string]interface{}{}
	if s.Nullable {
		out["type"] = []string{string(s.Type), "null"}
	} else {
		out["type"] = string(s.Type)
	}
	if s.Description != "" {
		out["description"] = s.Description
	}
	switch s.Type {
	case TypeObject:
		props := make(map[string]interface{}, len(s.Properties))
		for _, p := range s.Properties {
			props[p.Name] = p.Schema.JSONSchema()
		}
		out["properties"] = props
	case TypeArray:
		if s.Items != nil {
			out["items"] = s.Items.JSONSchema()
		}
	}
	return out
}

// Document renders the schema as a standalone JSON Schema document.
func (s *Schema) Document() map[string]interface{} {
	doc := s.JSONSchema()
	doc["$schema"] = "https://json-schema.org/draft/2020-12/schema"
	return doc
}

func str(desc string) *Schema {
	return &Schema{Type: TypeString, Description: desc, Nullable: true}
}

func multilingual(desc string) *Schema {
	return &Schema{
		Type:        TypeObject,
		Description: desc,
		Nullable:    true,
		Properties: []Property{
			{Name: "ja", Schema: str("Japanese")},
			{Name: "en", Schema: str("English")},
			{Name: "vi", Schema: str("Vietnamese")},
		},
	}
}

func section(props ...Property) *Schema {
	return &Schema{Type: TypeObject, Nullable: true, Properties: props}
}

var (
	hazardRecordOnce   sync.Once
	hazardRecordSchema *Schema
)

// HazardRecord returns the output contract for one safety data sheet. The
// returned value is shared and must not be modified.
func HazardRecord() *Schema {
	hazardRecordOnce.Do(func() {
		hazardRecordSchema = buildHazardRecord()
	})
	return hazardRecordSchema
}

func buildHazardRecord() *Schema {
	ingredient := &Schema{
		Type: TypeObject,
		Properties: []Property{
			{Name: "name", Schema: multilingual("Chemical name")},
			{Name: "concentration", Schema: str("Concentration or range as written, e.g. 30-40%")},
		},
	}

	return &Schema{
		Type: TypeObject,
		Properties: []Property{
			{Name: "basicInfo", Schema: section(
				Property{Name: "productName", Schema: multilingual("Product name")},
				Property{Name: "companyName", Schema: multilingual("Supplier company name")},
			)},
			{Name: "hazards", Schema: section(
				Property{Name: "ghsClass", Schema: multilingual("GHS classification summary")},
				Property{Name: "ghsPictograms", Schema: &Schema{
					Type:        TypeArray,
					Description: "GHS pictogram codes, e.g. GHS-02",
					Nullable:    true,
					Items:       &Schema{Type: TypeString},
				}},
				Property{Name: "hazardStatements", Schema: multilingual("Hazard statements")},
				Property{Name: "precautionaryStatements", Schema: multilingual("Precautionary statements")},
			)},
			{Name: "composition", Schema: section(
				Property{Name: "ingredients", Schema: &Schema{
					Type:     TypeArray,
					Nullable: true,
					Items:    ingredient,
				}},
			)},
			{Name: "firstAid", Schema: section(
				Property{Name: "inhaled", Schema: multilingual("If inhaled")},
				Property{Name: "skin", Schema: multilingual("On skin contact")},
				Property{Name: "eyes", Schema: multilingual("On eye contact")},
				Property{Name: "swallowed", Schema: multilingual("If swallowed")},
			)},
			{Name: "firefighting", Schema: section(
				Property{Name: "extinguishingMedia", Schema: multilingual("Suitable extinguishing media")},
				Property{Name: "precautions", Schema: multilingual("Firefighting precautions")},
			)},
			{Name: "handlingStorage", Schema: section(
				Property{Name: "handling", Schema: multilingual("Safe handling")},
				Property{Name: "storage", Schema: multilingual("Storage conditions")},
			)},
			{Name: "disposal", Schema: section(
				Property{Name: "method", Schema: multilingual("Disposal method")},
			)},
		},
	}
}
