package domain

import "fmt"

// FieldType is the primitive type of an extraction schema field.
type FieldType string

// Supported field types.
const (
	FieldString FieldType = "string"
	FieldInt    FieldType = "int"
	FieldFloat  FieldType = "float"
)

// Field is a single typed column of an extraction schema.
type Field struct {
	// Name is the JSON key the completion service must emit.
	Name string

	// Type is the expected primitive type.
	Type FieldType

	// Required marks fields that must be present and non-null in every record.
	Required bool
}

// Schema is a named shape for structured extraction. It both instructs
// the completion service and validates its output.
type Schema struct {
	// Name identifies the schema (e.g. "door_schedule").
	Name string

	// Description is included in extraction prompts.
	Description string

	// Keywords trigger intent detection when present in a question.
	Keywords []string

	// Queries are retrieval probes used to gather candidate chunks.
	Queries []string

	// Fields is the fixed set of typed columns.
	Fields []Field
}

// FieldNames returns the schema's field names in declaration order.
func (s Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Record is one extracted row; keys are the schema's field names.
type Record map[string]any

// ExtractionResult is the outcome of a structured extraction request.
type ExtractionResult struct {
	// Schema names the shape that was extracted.
	Schema string

	// Records are the extracted rows.
	Records []Record

	// Sources lists the chunks the extraction drew from, so every row
	// stays traceable to its originating page.
	Sources []Source
}

// ValidateRecord type-checks a record against the schema. Missing optional
// fields and nulls are allowed; required fields must be present with the
// declared type.
func (s Schema) ValidateRecord(r Record) error {
	for _, f := range s.Fields {
		v, ok := r[f.Name]
		if !ok || v == nil {
			if f.Required {
				return fmt.Errorf("%w: field %q missing in record", ErrSchemaValidation, f.Name)
			}
			continue
		}
		switch f.Type {
		case FieldString:
			if _, ok := v.(string); !ok {
				return fmt.Errorf("%w: field %q expected string, got %T", ErrSchemaValidation, f.Name, v)
			}
		case FieldInt:
			switch n := v.(type) {
			case float64:
				if n != float64(int64(n)) {
					return fmt.Errorf("%w: field %q expected integer, got %v", ErrSchemaValidation, f.Name, n)
				}
			case int, int64:
			default:
				return fmt.Errorf("%w: field %q expected integer, got %T", ErrSchemaValidation, f.Name, v)
			}
		case FieldFloat:
			switch v.(type) {
			case float64, int, int64:
			default:
				return fmt.Errorf("%w: field %q expected number, got %T", ErrSchemaValidation, f.Name, v)
			}
		}
	}
	return nil
}

// BuiltinSchemas is the fixed registry of known extraction shapes.
// Adding a new shape means adding an entry here; intent detection,
// retrieval and validation are all driven from this data.
func BuiltinSchemas() []Schema {
	return []Schema{
		{
			Name:        "door_schedule",
			Description: "door marks, locations, dimensions, fire ratings and materials",
			Keywords:    []string{"door schedule", "door table", "list doors", "generate door"},
			Queries: []string{
				"door schedule marks types sizes ratings",
				"door specifications hardware fire rating",
				"door dimensions width height material",
			},
			Fields: []Field{
				{Name: "mark", Type: FieldString, Required: true},
				{Name: "location", Type: FieldString},
				{Name: "width_mm", Type: FieldInt},
				{Name: "height_mm", Type: FieldInt},
				{Name: "fire_rating", Type: FieldString},
				{Name: "material", Type: FieldString},
			},
		},
		{
			Name:        "room_summary",
			Description: "room numbers, names, areas and finishes",
			Keywords:    []string{"room summary", "room list", "list rooms", "room schedule"},
			Queries: []string{
				"room schedule area finishes floor",
			},
			Fields: []Field{
				{Name: "room_number", Type: FieldString, Required: true},
				{Name: "room_name", Type: FieldString},
				{Name: "area_sqft", Type: FieldFloat},
				{Name: "floor_finish", Type: FieldString},
				{Name: "wall_finish", Type: FieldString},
				{Name: "ceiling_finish", Type: FieldString},
			},
		},
		{
			Name:        "equipment_list",
			Description: "mechanical, electrical and plumbing equipment",
			Keywords:    []string{"equipment list", "equipment schedule", "mep equipment"},
			Queries: []string{
				"equipment schedule tag capacity model",
			},
			Fields: []Field{
				{Name: "tag", Type: FieldString, Required: true},
				{Name: "description", Type: FieldString},
				{Name: "location", Type: FieldString},
				{Name: "capacity", Type: FieldString},
			},
		},
	}
}
