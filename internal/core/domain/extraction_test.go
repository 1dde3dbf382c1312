package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doorSchema(t *testing.T) Schema {
	t.Helper()
	for _, s := range BuiltinSchemas() {
		if s.Name == "door_schedule" {
			return s
		}
	}
	t.Fatal("door_schedule schema not registered")
	return Schema{}
}

func TestValidateRecord_Valid(t *testing.T) {
	s := doorSchema(t)

	rec := Record{
		"mark":        "D-101",
		"location":    "Corridor A",
		"width_mm":    float64(900), // JSON numbers decode as float64
		"height_mm":   float64(2100),
		"fire_rating": "90 MIN",
		"material":    "Hollow Metal",
	}
	assert.NoError(t, s.ValidateRecord(rec))
}

func TestValidateRecord_MissingRequired(t *testing.T) {
	s := doorSchema(t)

	err := s.ValidateRecord(Record{"location": "Corridor A"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchemaValidation)
}

func TestValidateRecord_WrongType(t *testing.T) {
	s := doorSchema(t)

	err := s.ValidateRecord(Record{"mark": "D-101", "width_mm": "nine hundred"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchemaValidation)
}

func TestValidateRecord_NonIntegralInt(t *testing.T) {
	s := doorSchema(t)

	err := s.ValidateRecord(Record{"mark": "D-101", "width_mm": 900.5})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchemaValidation)
}

func TestValidateRecord_NullOptionalAllowed(t *testing.T) {
	s := doorSchema(t)

	rec := Record{"mark": "D-101", "fire_rating": nil}
	assert.NoError(t, s.ValidateRecord(rec))
}

func TestBuiltinSchemas_KeywordsAndQueries(t *testing.T) {
	for _, s := range BuiltinSchemas() {
		assert.NotEmpty(t, s.Keywords, "schema %s needs intent keywords", s.Name)
		assert.NotEmpty(t, s.Queries, "schema %s needs retrieval queries", s.Name)
		assert.NotEmpty(t, s.Fields, "schema %s needs fields", s.Name)
	}
}
