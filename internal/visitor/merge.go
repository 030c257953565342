package visitor

import (
	"encoding/json"
	"strconv"
	"strings"

	visitorerrors "go-visitor/internal/visitor/errors"
)

// ApplyUpdate merges client updates into a copy of rec. Keys are resolved against
// the schema; unknown keys and null values are skipped, a submitted status is
// ignored and status is derived again from out time. It returns the merged record
// and the fields whose value changed (status included when it flips).
func ApplyUpdate(rec Record, updates map[string]any, schema Schema) (Record, []Field, error) {
	if len(updates) == 0 {
		return Record{}, nil, visitorerrors.ErrNoUpdateFields
	}

	resolved := make(map[Field]string, len(updates))
	for key, raw := range updates {
		f, ok := schema.Resolve(key)
		if !ok || f == FieldStatus {
			continue
		}
		v, present, err := scalarString(raw)
		if err != nil {
			return Record{}, nil, err
		}
		if !present {
			continue
		}
		resolved[f] = v
	}
	if len(resolved) == 0 {
		return Record{}, nil, visitorerrors.ErrNoRecognizedFields
	}

	if v, ok := resolved[FieldOutTime]; ok && strings.TrimSpace(v) == "" && !rec.Active() {
		return Record{}, nil, visitorerrors.ErrCannotReopenVisit
	}

	merged := rec.clone()
	var changed []Field
	for _, f := range schema.Fields {
		v, ok := resolved[f]
		if !ok {
			continue
		}
		if merged.Fields[f] != v {
			changed = append(changed, f)
		}
		merged.Fields[f] = v
	}

	if schema.Has(FieldStatus) {
		status := DeriveStatus(merged.Get(FieldOutTime))
		if merged.Fields[FieldStatus] != status {
			changed = append(changed, FieldStatus)
		}
		merged.Fields[FieldStatus] = status
	}
	return merged, changed, nil
}

// scalarString stringifies a decoded JSON value. present is false for null.
func scalarString(raw any) (string, bool, error) {
	switch v := raw.(type) {
	case nil:
		return "", false, nil
	case string:
		return v, true, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true, nil
	case json.Number:
		return v.String(), true, nil
	case bool:
		return strconv.FormatBool(v), true, nil
	case int:
		return strconv.Itoa(v), true, nil
	case int64:
		return strconv.FormatInt(v, 10), true, nil
	default:
		return "", false, visitorerrors.ErrInvalidFieldValue
	}
}
