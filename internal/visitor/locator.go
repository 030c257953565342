package visitor

import "strings"

// Predicate narrows which records with a matching key qualify.
type Predicate func(Record) bool

// IsActive selects visits that have not checked out yet.
func IsActive(r Record) bool {
	return r.Active()
}

// Locate returns the most recently appended record whose keyField equals key
// and that satisfies pred (nil accepts all). The input slice is never reordered.
func Locate(records []Record, key string, keyField Field, pred Predicate) (Record, bool) {
	want := strings.TrimSpace(key)
	if want == "" {
		return Record{}, false
	}
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		if strings.TrimSpace(r.Get(keyField)) != want {
			continue
		}
		if pred != nil && !pred(r) {
			continue
		}
		return r, true
	}
	return Record{}, false
}
