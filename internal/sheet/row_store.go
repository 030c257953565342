// Package sheet adapts tabular backends (Google Sheets, a local workbook, memory)
// to one row-oriented contract: a header row of column titles followed by data rows.
package sheet

import (
	"context"
	"errors"
	"fmt"
)

// HeaderRow is the sheet row number that holds column titles. Data starts below it.
const HeaderRow = 1

var (
	ErrNoHeader      = errors.New("no values in the header row")
	ErrUnknownColumn = errors.New("column not present in header row")
	ErrRowNotFound   = errors.New("row not found")
)

// Row is one data row. Number is the 1-based position in the sheet, so the
// first data row is HeaderRow+1.
type Row struct {
	Number int
	Values map[string]string
}

func (r Row) Get(column string) string {
	return r.Values[column]
}

//go:generate mockgen -source=row_store.go -destination=mock/row_store_mock.go -package=mock
type RowStore interface {
	LoadHeader(ctx context.Context) ([]string, error)
	WriteHeader(ctx context.Context, columns []string) error
	Append(ctx context.Context, values map[string]string) (int, error)
	Rows(ctx context.Context) ([]Row, error)
	Row(ctx context.Context, number int) (Row, error)
	UpdateRow(ctx context.Context, number int, values map[string]string) error
}

func headerEmpty(header []string) bool {
	for _, h := range header {
		if h != "" {
			return false
		}
	}
	return true
}

func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		if h == "" {
			continue
		}
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	return idx
}

// orderValues lays values out in header order. Missing columns are empty.
func orderValues(header []string, values map[string]string) ([]string, error) {
	idx := columnIndex(header)
	out := make([]string, len(header))
	for col, v := range values {
		i, ok := idx[col]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
		}
		out[i] = v
	}
	return out, nil
}

func rowFromCells(number int, header, cells []string) Row {
	values := make(map[string]string, len(header))
	for i, h := range header {
		if h == "" {
			continue
		}
		if _, seen := values[h]; seen {
			continue
		}
		if i < len(cells) {
			values[h] = cells[i]
		} else {
			values[h] = ""
		}
	}
	return Row{Number: number, Values: values}
}
