package visitor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go-visitor/internal/sheet"
	visitorerrors "go-visitor/internal/visitor/errors"
	"go-visitor/internal/shared/contextutil"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Handle binds schema fields to the column titles actually present in the sheet.
type Handle struct {
	schema  Schema
	columns map[Field]string
}

func (h *Handle) Schema() Schema {
	return h.schema
}

func (h *Handle) Column(f Field) (string, bool) {
	c, ok := h.columns[f]
	return c, ok
}

// toValues converts fields to store values keyed by header title.
func (h *Handle) toValues(fields map[Field]string) map[string]string {
	out := make(map[string]string, len(fields))
	for f, v := range fields {
		if col, ok := h.columns[f]; ok {
			out[col] = v
		}
	}
	return out
}

func (h *Handle) fromRow(row sheet.Row) Record {
	fields := make(map[Field]string, len(h.schema.Fields))
	for _, f := range h.schema.Fields {
		fields[f] = row.Get(h.columns[f])
	}
	return Record{RowNumber: row.Number, Fields: fields}
}

// bind matches header titles to schema fields ignoring case and spacing.
func bind(schema Schema, header []string) (*Handle, error) {
	byKey := make(map[string]string, len(header))
	for _, h := range header {
		if h == "" {
			continue
		}
		if _, dup := byKey[NormalizeKey(h)]; !dup {
			byKey[NormalizeKey(h)] = h
		}
	}

	columns := make(map[Field]string, len(schema.Fields))
	var missing []string
	for _, f := range schema.Fields {
		col, ok := byKey[NormalizeKey(f.Title())]
		if !ok {
			missing = append(missing, f.Title())
			continue
		}
		columns[f] = col
	}
	if len(missing) > 0 {
		return nil, visitorerrors.ErrSchemaMismatch.WithDetails("missing columns: " + strings.Join(missing, ", "))
	}
	return &Handle{schema: schema, columns: columns}, nil
}

type SchemaBootstrap struct {
	store  sheet.RowStore
	schema Schema
	cache  bool
	logger *zap.Logger

	sf     singleflight.Group
	mu     sync.RWMutex
	handle *Handle
}

func NewSchemaBootstrap(store sheet.RowStore, schema Schema, cache bool, logger ...*zap.Logger) *SchemaBootstrap {
	l := zap.L().Named("visitor.schema")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("visitor.schema")
	}
	return &SchemaBootstrap{store: store, schema: schema, cache: cache, logger: l}
}

// Ensure returns a handle for the store, writing the canonical header if the
// sheet has none. Concurrent callers share one round trip.
func (b *SchemaBootstrap) Ensure(ctx context.Context) (*Handle, error) {
	if b.cache {
		b.mu.RLock()
		h := b.handle
		b.mu.RUnlock()
		if h != nil {
			return h, nil
		}
	}

	// the shared load must outlive any single caller; each caller still stops
	// waiting when its own context ends
	ch := b.sf.DoChan("ensure", func() (interface{}, error) {
		return b.load(context.WithoutCancel(ctx))
	})
	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	h := res.Val.(*Handle)

	if b.cache {
		b.mu.Lock()
		b.handle = h
		b.mu.Unlock()
	}
	return h, nil
}

func (b *SchemaBootstrap) load(ctx context.Context) (*Handle, error) {
	log := contextutil.GetLogger(ctx, b.logger)

	header, err := b.store.LoadHeader(ctx)
	if errors.Is(err, sheet.ErrNoHeader) {
		log.Warn("no header found, setting header row", zap.Strings("columns", b.schema.Columns()))
		if err := b.store.WriteHeader(ctx, b.schema.Columns()); err != nil {
			return nil, fmt.Errorf("write header row: %w", err)
		}
		return bind(b.schema, b.schema.Columns())
	}
	if err != nil {
		return nil, fmt.Errorf("load header row: %w", err)
	}

	h, err := bind(b.schema, header)
	if err != nil {
		log.Error("sheet header does not match schema",
			zap.Strings("header", header),
			zap.String("variant", string(b.schema.Variant)),
		)
		return nil, err
	}
	return h, nil
}

// Invalidate drops the cached handle so the next Ensure reloads the header.
func (b *SchemaBootstrap) Invalidate() {
	b.mu.Lock()
	b.handle = nil
	b.mu.Unlock()
}
