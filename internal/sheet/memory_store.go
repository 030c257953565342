package sheet

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps the sheet in process memory. It backs the memory driver and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	header []string
	rows   [][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) LoadHeader(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if headerEmpty(s.header) {
		return nil, ErrNoHeader
	}
	return append([]string(nil), s.header...), nil
}

func (s *MemoryStore) WriteHeader(ctx context.Context, columns []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.header = append([]string(nil), columns...)
	return nil
}

func (s *MemoryStore) Append(ctx context.Context, values map[string]string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if headerEmpty(s.header) {
		return 0, ErrNoHeader
	}
	cells, err := orderValues(s.header, values)
	if err != nil {
		return 0, err
	}
	s.rows = append(s.rows, cells)
	return HeaderRow + len(s.rows), nil
}

func (s *MemoryStore) Rows(ctx context.Context) ([]Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if headerEmpty(s.header) {
		return nil, ErrNoHeader
	}
	out := make([]Row, len(s.rows))
	for i, cells := range s.rows {
		out[i] = rowFromCells(HeaderRow+1+i, s.header, cells)
	}
	return out, nil
}

func (s *MemoryStore) Row(ctx context.Context, number int) (Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := number - HeaderRow - 1
	if i < 0 || i >= len(s.rows) {
		return Row{}, fmt.Errorf("%w: %d", ErrRowNotFound, number)
	}
	return rowFromCells(number, s.header, s.rows[i]), nil
}

func (s *MemoryStore) UpdateRow(ctx context.Context, number int, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := number - HeaderRow - 1
	if i < 0 || i >= len(s.rows) {
		return fmt.Errorf("%w: %d", ErrRowNotFound, number)
	}
	idx := columnIndex(s.header)
	for col := range values {
		if _, ok := idx[col]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownColumn, col)
		}
	}
	cells := s.rows[i]
	if len(cells) < len(s.header) {
		cells = append(cells, make([]string, len(s.header)-len(cells))...)
	}
	for col, v := range values {
		cells[idx[col]] = v
	}
	s.rows[i] = cells
	return nil
}
