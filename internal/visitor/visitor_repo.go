package visitor

import (
	"context"
	"errors"
	"fmt"

	"go-visitor/internal/sheet"
	visitorerrors "go-visitor/internal/visitor/errors"
)

//go:generate mockgen -source=visitor_repo.go -destination=mock/visitor_repo_mock.go -package=mock
type Repository interface {
	Schema() Schema
	Create(ctx context.Context, fields map[Field]string) (int, error)
	FindAll(ctx context.Context) ([]Record, error)
	// Update writes the given fields of next at its row. prior is the version the
	// caller read; with the write guard on, a row that no longer matches it is
	// rejected with ErrRowChanged.
	Update(ctx context.Context, prior Record, changed []Field, next Record) error
}

type repository struct {
	store      sheet.RowStore
	bootstrap  *SchemaBootstrap
	writeGuard bool
}

func NewRepository(store sheet.RowStore, bootstrap *SchemaBootstrap, writeGuard bool) Repository {
	return &repository{store: store, bootstrap: bootstrap, writeGuard: writeGuard}
}

func (r *repository) Schema() Schema {
	return r.bootstrap.schema
}

// invalidateOn drops the cached schema handle when the store says the header moved.
func (r *repository) invalidateOn(err error) error {
	if errors.Is(err, sheet.ErrUnknownColumn) || errors.Is(err, sheet.ErrNoHeader) || errors.Is(err, visitorerrors.ErrSchemaMismatch) {
		r.bootstrap.Invalidate()
	}
	return err
}

func (r *repository) Create(ctx context.Context, fields map[Field]string) (int, error) {
	h, err := r.bootstrap.Ensure(ctx)
	if err != nil {
		return 0, err
	}
	n, err := r.store.Append(ctx, h.toValues(fields))
	if err != nil {
		return 0, r.invalidateOn(err)
	}
	return n, nil
}

func (r *repository) FindAll(ctx context.Context) ([]Record, error) {
	h, err := r.bootstrap.Ensure(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := r.store.Rows(ctx)
	if err != nil {
		return nil, r.invalidateOn(err)
	}
	out := make([]Record, len(rows))
	for i, row := range rows {
		out[i] = h.fromRow(row)
	}
	return out, nil
}

func (r *repository) Update(ctx context.Context, prior Record, changed []Field, next Record) error {
	if len(changed) == 0 {
		return nil
	}
	h, err := r.bootstrap.Ensure(ctx)
	if err != nil {
		return err
	}

	if r.writeGuard {
		row, err := r.store.Row(ctx, prior.RowNumber)
		if errors.Is(err, sheet.ErrRowNotFound) {
			return visitorerrors.ErrRowChanged
		}
		if err != nil {
			return r.invalidateOn(err)
		}
		current := h.fromRow(row)
		for _, f := range h.schema.Fields {
			if current.Get(f) != prior.Get(f) {
				return visitorerrors.ErrRowChanged.WithDetails(fmt.Sprintf("%s changed on row %d", f.Title(), prior.RowNumber))
			}
		}
	}

	fields := make(map[Field]string, len(changed))
	for _, f := range changed {
		fields[f] = next.Get(f)
	}
	if err := r.store.UpdateRow(ctx, next.RowNumber, h.toValues(fields)); err != nil {
		return r.invalidateOn(err)
	}
	return nil
}
