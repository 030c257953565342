package visitor

import (
	"fmt"
	"strings"
	"unicode"
)

type Variant string

const (
	VariantContact  Variant = "contact"
	VariantIDNumber Variant = "id_number"
)

// Schema is the ordered field set of one deployment plus the field used as visitor key.
type Schema struct {
	Variant Variant
	Fields  []Field
	Key     Field
}

var schemas = map[Variant]Schema{
	VariantContact: {
		Variant: VariantContact,
		Fields: []Field{
			FieldDate, FieldName, FieldCompany, FieldInTime, FieldPurpose,
			FieldOutTime, FieldContact, FieldStatus,
		},
		Key: FieldContact,
	},
	VariantIDNumber: {
		Variant: VariantIDNumber,
		Fields: []Field{
			FieldDate, FieldName, FieldCompany, FieldIDNumber, FieldInTime,
			FieldPurpose, FieldOutTime, FieldApprovalPerson, FieldStatus,
		},
		Key: FieldIDNumber,
	},
}

func SchemaFor(v Variant) (Schema, error) {
	s, ok := schemas[Variant(strings.ToLower(strings.TrimSpace(string(v))))]
	if !ok {
		return Schema{}, fmt.Errorf("unknown schema variant %q", v)
	}
	return s, nil
}

// Columns returns the header row for this schema.
func (s Schema) Columns() []string {
	out := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = f.Title()
	}
	return out
}

// Required lists the fields a new visit must carry. Out time is optional and
// status is derived.
func (s Schema) Required() []Field {
	out := make([]Field, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f == FieldOutTime || f == FieldStatus {
			continue
		}
		out = append(out, f)
	}
	return out
}

func (s Schema) Has(f Field) bool {
	for _, sf := range s.Fields {
		if sf == f {
			return true
		}
	}
	return false
}

// Resolve maps an arbitrary client key ("Out Time", "outtime", "out_time") to a
// schema field. Both the json name and the column title are accepted.
func (s Schema) Resolve(key string) (Field, bool) {
	nk := NormalizeKey(key)
	if nk == "" {
		return "", false
	}
	for _, f := range s.Fields {
		if NormalizeKey(string(f)) == nk || NormalizeKey(f.Title()) == nk {
			return f, true
		}
	}
	return "", false
}

// NormalizeKey drops whitespace, underscores and hyphens and lower-cases the rest.
func NormalizeKey(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for _, r := range key {
		if unicode.IsSpace(r) || r == '_' || r == '-' {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
