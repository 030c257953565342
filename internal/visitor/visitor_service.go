package visitor

import (
	"context"
	"errors"
	"strings"
	"time"

	visitorerrors "go-visitor/internal/visitor/errors"
	"go-visitor/internal/shared/apperror"
	"go-visitor/internal/shared/contextutil"

	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// visit dates written by older clients
var fallbackDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
}

//go:generate mockgen -source=visitor_service.go -destination=mock/visitor_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateVisitorRequest) (CreateVisitorResponse, error)
	GetAll(ctx context.Context) ([]VisitorResponse, error)
	GetRecent(ctx context.Context, days int) ([]VisitorResponse, error)
	Checkout(ctx context.Context, key string, req CheckoutRequest) (CheckoutResponse, error)
	Update(ctx context.Context, key string, updates map[string]any) (map[string]any, error)
}

type ServiceOptions struct {
	// Location decides what "today" means for recent listings. Defaults to UTC.
	Location *time.Location
	Now      func() time.Time
	Logger   *zap.Logger
}

type service struct {
	repo   Repository
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, opts ServiceOptions) Service {
	l := zap.L().Named("visitor.service")
	if opts.Logger != nil {
		l = opts.Logger.Named("visitor.service")
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, loc: loc, now: now, logger: l}
}

// storeErr keeps AppErrors (schema mismatch, conflicts) and wraps everything else.
func storeErr(message string, err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return visitorerrors.StoreFailure(message, err)
}

func (s *service) Create(ctx context.Context, req CreateVisitorRequest) (CreateVisitorResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	schema := s.repo.Schema()
	submitted := req.fields()

	var missing []string
	for _, f := range schema.Required() {
		if strings.TrimSpace(submitted[f]) == "" {
			missing = append(missing, string(f))
		}
	}
	if len(missing) > 0 {
		log.Warn("create visitor missing fields", zap.Strings("missing", missing))
		return CreateVisitorResponse{}, visitorerrors.ErrMissingRequiredFields.WithDetails("missing fields: " + strings.Join(missing, ", "))
	}

	fields := make(map[Field]string, len(schema.Fields))
	for _, f := range schema.Fields {
		fields[f] = submitted[f]
	}
	status := DeriveStatus(fields[FieldOutTime])
	if schema.Has(FieldStatus) {
		fields[FieldStatus] = status
	}

	rowNumber, err := s.repo.Create(ctx, fields)
	if err != nil {
		log.Error("add visitor failed", zap.Error(err))
		return CreateVisitorResponse{}, storeErr("Failed to add visitor entry", err)
	}

	log.Info("visitor checked in",
		zap.Int("row", rowNumber),
		zap.String("key", fields[schema.Key]),
		zap.String("status", status),
	)
	return CreateVisitorResponse{RowNumber: rowNumber, CreateVisitorRequest: req, Status: status}, nil
}

func (s *service) GetAll(ctx context.Context) ([]VisitorResponse, error) {
	records, err := s.repo.FindAll(ctx)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("fetch visitors failed", zap.Error(err))
		return nil, storeErr("Failed to fetch visitors", err)
	}
	schema := s.repo.Schema()
	res := make([]VisitorResponse, len(records))
	for i, r := range records {
		res[i] = mapToResponse(r, schema)
	}
	return res, nil
}

// GetRecent lists visits dated within [today-days-1, today]. The extra day keeps
// late-evening visits from the previous day on the list.
func (s *service) GetRecent(ctx context.Context, days int) ([]VisitorResponse, error) {
	if days < 0 {
		return nil, visitorerrors.ErrInvalidDays
	}

	records, err := s.repo.FindAll(ctx)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("fetch recent visitors failed", zap.Error(err))
		return nil, storeErr("Failed to fetch recent visitors", err)
	}

	now := s.now().In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	start := today.AddDate(0, 0, -days-1)

	schema := s.repo.Schema()
	res := make([]VisitorResponse, 0, len(records))
	for _, r := range records {
		d, ok := parseVisitDate(r.Get(FieldDate), s.loc)
		if !ok || d.Before(start) || d.After(today) {
			continue
		}
		res = append(res, mapToResponse(r, schema))
	}
	return res, nil
}

func (s *service) Checkout(ctx context.Context, key string, req CheckoutRequest) (CheckoutResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	key = strings.TrimSpace(key)
	if key == "" {
		return CheckoutResponse{}, visitorerrors.ErrKeyRequired
	}
	if strings.TrimSpace(req.OutTime) == "" {
		return CheckoutResponse{}, visitorerrors.ErrOutTimeRequired
	}

	schema := s.repo.Schema()
	records, err := s.repo.FindAll(ctx)
	if err != nil {
		log.Error("checkout lookup failed", zap.String("key", key), zap.Error(err))
		return CheckoutResponse{}, storeErr("Failed to update checkout time", err)
	}

	rec, found := Locate(records, key, schema.Key, IsActive)
	if !found {
		log.Info("no active visit for key", zap.String("key", key))
		return CheckoutResponse{}, visitorerrors.ErrActiveVisitorNotFound
	}

	next, changed, err := ApplyUpdate(rec, map[string]any{string(FieldOutTime): req.OutTime}, schema)
	if err != nil {
		return CheckoutResponse{}, err
	}
	if err := s.repo.Update(ctx, rec, changed, next); err != nil {
		log.Error("checkout write failed", zap.String("key", key), zap.Int("row", rec.RowNumber), zap.Error(err))
		return CheckoutResponse{}, storeErr("Failed to update checkout time", err)
	}

	log.Info("visitor checked out", zap.String("key", key), zap.Int("row", rec.RowNumber))
	return CheckoutResponse{
		Key:      key,
		KeyField: string(schema.Key),
		OutTime:  next.Get(FieldOutTime),
		Status:   DeriveStatus(next.Get(FieldOutTime)),
	}, nil
}

func (s *service) Update(ctx context.Context, key string, updates map[string]any) (map[string]any, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, visitorerrors.ErrKeyRequired
	}
	schema := s.repo.Schema()

	// reject unusable payloads before touching the store
	if _, _, err := ApplyUpdate(Record{}, updates, schema); err != nil {
		return nil, err
	}

	records, err := s.repo.FindAll(ctx)
	if err != nil {
		log.Error("update lookup failed", zap.String("key", key), zap.Error(err))
		return nil, storeErr("Failed to update visitor entry", err)
	}

	rec, found := Locate(records, key, schema.Key, nil)
	if !found {
		return nil, visitorerrors.ErrVisitorNotFound
	}

	next, changed, err := ApplyUpdate(rec, updates, schema)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, rec, changed, next); err != nil {
		log.Error("update write failed", zap.String("key", key), zap.Int("row", rec.RowNumber), zap.Error(err))
		return nil, storeErr("Failed to update visitor entry", err)
	}

	log.Info("visitor entry updated",
		zap.String("key", key),
		zap.Int("row", rec.RowNumber),
		zap.Int("changed", len(changed)),
	)
	return updates, nil
}

func parseVisitDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.ParseInLocation(dateLayout, s, loc); err == nil {
		return t, true
	}
	for _, layout := range fallbackDateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			t = t.In(loc)
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), true
		}
	}
	return time.Time{}, false
}

func mapToResponse(r Record, schema Schema) VisitorResponse {
	resp := VisitorResponse{
		Date:    r.Get(FieldDate),
		Name:    r.Get(FieldName),
		Company: r.Get(FieldCompany),
		InTime:  r.Get(FieldInTime),
		Purpose: r.Get(FieldPurpose),
		OutTime: r.Get(FieldOutTime),
		Status:  DeriveStatus(r.Get(FieldOutTime)),
	}
	if schema.Has(FieldIDNumber) {
		v := r.Get(FieldIDNumber)
		resp.IDNumber = &v
	}
	if schema.Has(FieldApprovalPerson) {
		v := r.Get(FieldApprovalPerson)
		resp.ApprovalPerson = &v
	}
	if schema.Has(FieldContact) {
		v := r.Get(FieldContact)
		resp.Contact = &v
	}
	return resp
}
