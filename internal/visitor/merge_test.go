package visitor_test

import (
	"testing"

	"go-visitor/internal/visitor"
	visitorerrors "go-visitor/internal/visitor/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contactSchema(t *testing.T) visitor.Schema {
	t.Helper()
	s, err := visitor.SchemaFor(visitor.VariantContact)
	require.NoError(t, err)
	return s
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "outtime", visitor.NormalizeKey("Out Time"))
	assert.Equal(t, "outtime", visitor.NormalizeKey("out_time"))
	assert.Equal(t, "outtime", visitor.NormalizeKey(" OUT-time "))
}

func TestSchema_Resolve(t *testing.T) {
	s := contactSchema(t)

	for _, key := range []string{"outTime", "Out Time", "outtime", "OUT_TIME"} {
		f, ok := s.Resolve(key)
		assert.True(t, ok, key)
		assert.Equal(t, visitor.FieldOutTime, f, key)
	}

	_, ok := s.Resolve("idNumber")
	assert.False(t, ok, "id number is not part of the contact schema")
}

func TestApplyUpdate(t *testing.T) {
	s := contactSchema(t)

	t.Run("sets out time and derives status", func(t *testing.T) {
		in := rec(2, "111", "")
		out, changed, err := visitor.ApplyUpdate(in, map[string]any{"Out Time": "18:00"}, s)

		require.NoError(t, err)
		assert.Equal(t, "18:00", out.Get(visitor.FieldOutTime))
		assert.Equal(t, visitor.StatusCheckedOut, out.Get(visitor.FieldStatus))
		assert.ElementsMatch(t, []visitor.Field{visitor.FieldOutTime, visitor.FieldStatus}, changed)
		assert.Equal(t, "", in.Get(visitor.FieldOutTime), "input record must not be mutated")
	})

	t.Run("submitted status is ignored", func(t *testing.T) {
		out, _, err := visitor.ApplyUpdate(rec(2, "111", ""), map[string]any{
			"status":  visitor.StatusCheckedOut,
			"purpose": "Delivery",
		}, s)

		require.NoError(t, err)
		assert.Equal(t, visitor.StatusCheckedIn, out.Get(visitor.FieldStatus))
		assert.Equal(t, "Delivery", out.Get(visitor.FieldPurpose))
	})

	t.Run("unknown keys and nulls are skipped", func(t *testing.T) {
		out, changed, err := visitor.ApplyUpdate(rec(2, "111", ""), map[string]any{
			"favouriteColour": "blue",
			"name":            nil,
			"company":         "Acme",
		}, s)

		require.NoError(t, err)
		assert.Equal(t, []visitor.Field{visitor.FieldCompany}, changed)
		assert.Equal(t, "Acme", out.Get(visitor.FieldCompany))
	})

	t.Run("numbers and booleans are stringified", func(t *testing.T) {
		out, _, err := visitor.ApplyUpdate(rec(2, "111", ""), map[string]any{
			"contact": float64(9990001111),
			"purpose": true,
		}, s)

		require.NoError(t, err)
		assert.Equal(t, "9990001111", out.Get(visitor.FieldContact))
		assert.Equal(t, "true", out.Get(visitor.FieldPurpose))
	})

	t.Run("unchanged value reports nothing", func(t *testing.T) {
		_, changed, err := visitor.ApplyUpdate(rec(2, "111", ""), map[string]any{"contact": "111"}, s)
		require.NoError(t, err)
		assert.Empty(t, changed)
	})

	t.Run("errors", func(t *testing.T) {
		_, _, err := visitor.ApplyUpdate(rec(2, "111", ""), map[string]any{}, s)
		assert.ErrorIs(t, err, visitorerrors.ErrNoUpdateFields)

		_, _, err = visitor.ApplyUpdate(rec(2, "111", ""), map[string]any{"unknown": "x", "status": "Checked Out"}, s)
		assert.ErrorIs(t, err, visitorerrors.ErrNoRecognizedFields)

		_, _, err = visitor.ApplyUpdate(rec(2, "111", ""), map[string]any{"name": map[string]any{"first": "A"}}, s)
		assert.ErrorIs(t, err, visitorerrors.ErrInvalidFieldValue)

		_, _, err = visitor.ApplyUpdate(rec(2, "111", "18:00"), map[string]any{"outTime": ""}, s)
		assert.ErrorIs(t, err, visitorerrors.ErrCannotReopenVisit)
	})
}
