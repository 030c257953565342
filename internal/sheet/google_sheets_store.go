package sheet

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"google.golang.org/api/sheets/v4"
)

const valueInputRaw = "RAW"

// GoogleSheetsStore reads and writes one worksheet of a spreadsheet through the
// Sheets v4 values API. When no title is configured the first worksheet is used.
type GoogleSheetsStore struct {
	svc           *sheets.Service
	spreadsheetID string
	logger        *zap.Logger

	mu    sync.Mutex
	title string
}

func NewGoogleSheetsStore(svc *sheets.Service, spreadsheetID, title string, logger ...*zap.Logger) *GoogleSheetsStore {
	l := zap.L().Named("sheet.google")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("sheet.google")
	}
	return &GoogleSheetsStore{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		title:         title,
		logger:        l,
	}
}

func (s *GoogleSheetsStore) worksheet(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.title != "" {
		return s.title, nil
	}

	doc, err := s.svc.Spreadsheets.Get(s.spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to load spreadsheet info: %w", err)
	}
	if len(doc.Sheets) == 0 || doc.Sheets[0].Properties == nil {
		return "", fmt.Errorf("spreadsheet %s has no worksheets", s.spreadsheetID)
	}
	s.title = doc.Sheets[0].Properties.Title
	s.logger.Debug("resolved worksheet", zap.String("title", s.title))
	return s.title, nil
}

// a1 quotes the worksheet title so names with spaces or quotes stay valid.
func a1(title, ref string) string {
	quoted := "'" + strings.ReplaceAll(title, "'", "''") + "'"
	if ref == "" {
		return quoted
	}
	return quoted + "!" + ref
}

func cellStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		if v == nil {
			continue
		}
		out[i] = fmt.Sprint(v)
	}
	return out
}

func (s *GoogleSheetsStore) getValues(ctx context.Context, ref string) ([][]string, error) {
	title, err := s.worksheet(ctx)
	if err != nil {
		return nil, err
	}
	vr, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, a1(title, ref)).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", a1(title, ref), err)
	}
	out := make([][]string, len(vr.Values))
	for i, row := range vr.Values {
		out[i] = cellStrings(row)
	}
	return out, nil
}

func (s *GoogleSheetsStore) LoadHeader(ctx context.Context) ([]string, error) {
	values, err := s.getValues(ctx, fmt.Sprintf("%d:%d", HeaderRow, HeaderRow))
	if err != nil {
		return nil, err
	}
	if len(values) == 0 || headerEmpty(values[0]) {
		return nil, ErrNoHeader
	}
	return values[0], nil
}

func (s *GoogleSheetsStore) WriteHeader(ctx context.Context, columns []string) error {
	title, err := s.worksheet(ctx)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(columns))
	for i, c := range columns {
		row[i] = c
	}
	_, err = s.svc.Spreadsheets.Values.Update(s.spreadsheetID, a1(title, "A1"), &sheets.ValueRange{
		Values: [][]interface{}{row},
	}).ValueInputOption(valueInputRaw).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}
	s.logger.Info("header row written", zap.Strings("columns", columns))
	return nil
}

func (s *GoogleSheetsStore) Append(ctx context.Context, values map[string]string) (int, error) {
	header, err := s.LoadHeader(ctx)
	if err != nil {
		return 0, err
	}
	ordered, err := orderValues(header, values)
	if err != nil {
		return 0, err
	}
	row := make([]interface{}, len(ordered))
	for i, v := range ordered {
		row[i] = v
	}

	title, err := s.worksheet(ctx)
	if err != nil {
		return 0, err
	}
	resp, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, a1(title, "A1"), &sheets.ValueRange{
		Values: [][]interface{}{row},
	}).ValueInputOption(valueInputRaw).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("failed to append row: %w", err)
	}
	if resp.Updates == nil {
		return 0, fmt.Errorf("append response carried no updated range")
	}
	return rowFromRange(resp.Updates.UpdatedRange)
}

// rowFromRange extracts the first row number from an A1 range such as 'Visitors'!A7:H7.
func rowFromRange(rng string) (int, error) {
	ref := rng
	if i := strings.LastIndex(ref, "!"); i >= 0 {
		ref = ref[i+1:]
	}
	if i := strings.Index(ref, ":"); i >= 0 {
		ref = ref[:i]
	}
	_, number, err := excelize.CellNameToCoordinates(ref)
	if err != nil {
		return 0, fmt.Errorf("unexpected updated range %q: %w", rng, err)
	}
	return number, nil
}

func (s *GoogleSheetsStore) Rows(ctx context.Context) ([]Row, error) {
	values, err := s.getValues(ctx, "")
	if err != nil {
		return nil, err
	}
	if len(values) == 0 || headerEmpty(values[0]) {
		return nil, ErrNoHeader
	}
	header := values[0]
	out := make([]Row, 0, len(values)-1)
	for i, cells := range values[1:] {
		out = append(out, rowFromCells(HeaderRow+1+i, header, cells))
	}
	return out, nil
}

func (s *GoogleSheetsStore) Row(ctx context.Context, number int) (Row, error) {
	if number <= HeaderRow {
		return Row{}, fmt.Errorf("%w: %d", ErrRowNotFound, number)
	}
	header, err := s.LoadHeader(ctx)
	if err != nil {
		return Row{}, err
	}
	values, err := s.getValues(ctx, fmt.Sprintf("%d:%d", number, number))
	if err != nil {
		return Row{}, err
	}
	if len(values) == 0 {
		return Row{}, fmt.Errorf("%w: %d", ErrRowNotFound, number)
	}
	return rowFromCells(number, header, values[0]), nil
}

func (s *GoogleSheetsStore) UpdateRow(ctx context.Context, number int, values map[string]string) error {
	if number <= HeaderRow {
		return fmt.Errorf("%w: %d", ErrRowNotFound, number)
	}
	header, err := s.LoadHeader(ctx)
	if err != nil {
		return err
	}
	title, err := s.worksheet(ctx)
	if err != nil {
		return err
	}

	existing, err := s.getValues(ctx, fmt.Sprintf("%d:%d", number, number))
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		return fmt.Errorf("%w: %d", ErrRowNotFound, number)
	}

	idx := columnIndex(header)
	data := make([]*sheets.ValueRange, 0, len(values))
	for col, v := range values {
		i, ok := idx[col]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownColumn, col)
		}
		cell, err := excelize.CoordinatesToCellName(i+1, number)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		data = append(data, &sheets.ValueRange{
			Range:  a1(title, cell),
			Values: [][]interface{}{{v}},
		})
	}
	if len(data) == 0 {
		return nil
	}

	_, err = s.svc.Spreadsheets.Values.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateValuesRequest{
		ValueInputOption: valueInputRaw,
		Data:             data,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to update row %d: %w", number, err)
	}
	return nil
}
