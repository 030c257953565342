package sheet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const defaultWorksheet = "Visitors"

// ExcelStore keeps the register in a local .xlsx workbook. Every operation opens
// the file, works on it and saves it back, so the file can be inspected while the
// server runs.
type ExcelStore struct {
	mu        sync.Mutex
	path      string
	worksheet string
	logger    *zap.Logger
}

func NewExcelStore(path, worksheet string, logger ...*zap.Logger) *ExcelStore {
	l := zap.L().Named("sheet.excel")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("sheet.excel")
	}
	if worksheet == "" {
		worksheet = defaultWorksheet
	}
	return &ExcelStore{path: path, worksheet: worksheet, logger: l}
}

func (s *ExcelStore) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Info("workbook not found, creating", zap.String("path", s.path))
		f = excelize.NewFile()
		if err := f.SetSheetName("Sheet1", s.worksheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet: %w", err)
		}
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	idx, err := f.GetSheetIndex(s.worksheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to look up sheet: %w", err)
	}
	if idx == -1 {
		if _, err := f.NewSheet(s.worksheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet: %w", err)
		}
	}
	return f, nil
}

func (s *ExcelStore) save(f *excelize.File) error {
	if err := f.SaveAs(s.path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func (s *ExcelStore) readAll(f *excelize.File) ([]string, [][]string, error) {
	rows, err := f.GetRows(s.worksheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 || headerEmpty(rows[0]) {
		return nil, nil, ErrNoHeader
	}
	return rows[0], rows[1:], nil
}

func (s *ExcelStore) LoadHeader(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	header, _, err := s.readAll(f)
	return header, err
}

func (s *ExcelStore) WriteHeader(ctx context.Context, columns []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open()
	if err != nil {
		return err
	}
	defer f.Close()

	cells := make([]any, len(columns))
	for i, c := range columns {
		cells[i] = c
	}
	if err := f.SetSheetRow(s.worksheet, "A1", &cells); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}
	return s.save(f)
}

func (s *ExcelStore) Append(ctx context.Context, values map[string]string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open()
	if err != nil {
		return 0, err
	}
	defer f.Close()

	header, data, err := s.readAll(f)
	if err != nil {
		return 0, err
	}
	ordered, err := orderValues(header, values)
	if err != nil {
		return 0, err
	}

	number := HeaderRow + len(data) + 1
	cell, err := excelize.CoordinatesToCellName(1, number)
	if err != nil {
		return 0, fmt.Errorf("failed to convert coordinates: %w", err)
	}
	cells := make([]any, len(ordered))
	for i, v := range ordered {
		cells[i] = v
	}
	if err := f.SetSheetRow(s.worksheet, cell, &cells); err != nil {
		return 0, fmt.Errorf("failed to append row %d: %w", number, err)
	}
	if err := s.save(f); err != nil {
		return 0, err
	}
	return number, nil
}

func (s *ExcelStore) Rows(ctx context.Context) ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	header, data, err := s.readAll(f)
	if err != nil {
		return nil, err
	}
	out := make([]Row, len(data))
	for i, cells := range data {
		out[i] = rowFromCells(HeaderRow+1+i, header, cells)
	}
	return out, nil
}

func (s *ExcelStore) Row(ctx context.Context, number int) (Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open()
	if err != nil {
		return Row{}, err
	}
	defer f.Close()

	header, data, err := s.readAll(f)
	if err != nil {
		return Row{}, err
	}
	i := number - HeaderRow - 1
	if i < 0 || i >= len(data) {
		return Row{}, fmt.Errorf("%w: %d", ErrRowNotFound, number)
	}
	return rowFromCells(number, header, data[i]), nil
}

func (s *ExcelStore) UpdateRow(ctx context.Context, number int, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open()
	if err != nil {
		return err
	}
	defer f.Close()

	header, data, err := s.readAll(f)
	if err != nil {
		return err
	}
	if i := number - HeaderRow - 1; i < 0 || i >= len(data) {
		return fmt.Errorf("%w: %d", ErrRowNotFound, number)
	}

	idx := columnIndex(header)
	for col, v := range values {
		i, ok := idx[col]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownColumn, col)
		}
		cell, err := excelize.CoordinatesToCellName(i+1, number)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(s.worksheet, cell, v); err != nil {
			return fmt.Errorf("failed to set cell %s: %w", cell, err)
		}
	}
	return s.save(f)
}
