package visitor_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"go-visitor/internal/shared/apperror"
	"go-visitor/internal/visitor"
	visitorerrors "go-visitor/internal/visitor/errors"
	visitorMock "go-visitor/internal/visitor/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newServiceWithMock(t *testing.T) (visitor.Service, *visitorMock.MockRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := visitorMock.NewMockRepository(ctrl)
	repo.EXPECT().Schema().Return(contactSchema(t)).AnyTimes()

	svc := visitor.NewService(repo, visitor.ServiceOptions{
		Location: time.UTC,
		Now:      func() time.Time { return fixedNow },
		Logger:   zap.NewNop(),
	})
	return svc, repo
}

func validCreateRequest() visitor.CreateVisitorRequest {
	return visitor.CreateVisitorRequest{
		Date:    "2026-03-10",
		Name:    "Asha",
		Company: "Acme",
		InTime:  "09:30",
		Purpose: "Meeting",
		Contact: "9990001111",
	}
}

func dated(row int, contact, date, outTime string) visitor.Record {
	r := rec(row, contact, outTime)
	r.Fields[visitor.FieldDate] = date
	return r
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("missing fields are rejected before the store", func(t *testing.T) {
		svc, _ := newServiceWithMock(t)
		req := validCreateRequest()
		req.Name = ""
		req.Contact = "  "

		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, visitorerrors.ErrMissingRequiredFields)
		assert.Equal(t, "missing fields: name, contact", apperror.ToHTTP(err).Details)
	})

	t.Run("new visitor is checked in", func(t *testing.T) {
		svc, repo := newServiceWithMock(t)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[visitor.Field]string) (int, error) {
				assert.Equal(t, visitor.StatusCheckedIn, fields[visitor.FieldStatus])
				assert.Equal(t, "9990001111", fields[visitor.FieldContact])
				_, hasID := fields[visitor.FieldIDNumber]
				assert.False(t, hasID)
				return 7, nil
			})

		resp, err := svc.Create(ctx, validCreateRequest())
		require.NoError(t, err)
		assert.Equal(t, 7, resp.RowNumber)
		assert.Equal(t, visitor.StatusCheckedIn, resp.Status)
		assert.Equal(t, "Asha", resp.Name)
	})

	t.Run("out time at creation checks out", func(t *testing.T) {
		svc, repo := newServiceWithMock(t)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(2, nil)

		req := validCreateRequest()
		req.OutTime = "10:00"
		resp, err := svc.Create(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, visitor.StatusCheckedOut, resp.Status)
	})

	t.Run("store failure is a store error", func(t *testing.T) {
		svc, repo := newServiceWithMock(t)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(0, errors.New("sheets unavailable"))

		_, err := svc.Create(ctx, validCreateRequest())
		httpErr := apperror.ToHTTP(err)
		assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
		assert.Equal(t, "Failed to add visitor entry", httpErr.Message)
		assert.Equal(t, "sheets unavailable", httpErr.Details)
	})
}

func TestService_GetRecent(t *testing.T) {
	ctx := context.Background()
	records := []visitor.Record{
		dated(2, "1", "2026-03-10", ""),
		dated(3, "2", "2026-03-09", ""),
		dated(4, "3", "2026-03-08", ""),
		dated(5, "4", "not a date", ""),
		dated(6, "5", "2026-03-11", ""),
		dated(7, "6", "", ""),
	}

	contacts := func(rs []visitor.VisitorResponse) []string {
		out := make([]string, len(rs))
		for i, r := range rs {
			out[i] = *r.Contact
		}
		return out
	}

	t.Run("zero days covers today and yesterday", func(t *testing.T) {
		svc, repo := newServiceWithMock(t)
		repo.EXPECT().FindAll(gomock.Any()).Return(records, nil)

		res, err := svc.GetRecent(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "2"}, contacts(res))
	})

	t.Run("one day reaches two days back", func(t *testing.T) {
		svc, repo := newServiceWithMock(t)
		repo.EXPECT().FindAll(gomock.Any()).Return(records, nil)

		res, err := svc.GetRecent(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "2", "3"}, contacts(res))
	})

	t.Run("negative days never reach the store", func(t *testing.T) {
		svc, _ := newServiceWithMock(t)
		_, err := svc.GetRecent(ctx, -1)
		assert.ErrorIs(t, err, visitorerrors.ErrInvalidDays)
	})

	t.Run("today follows the configured location", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := visitorMock.NewMockRepository(ctrl)
		repo.EXPECT().Schema().Return(contactSchema(t)).AnyTimes()
		repo.EXPECT().FindAll(gomock.Any()).Return(records, nil)

		// 20:00 UTC on the 10th is already the 11th at UTC+5:30
		svc := visitor.NewService(repo, visitor.ServiceOptions{
			Location: time.FixedZone("IST", 5*3600+1800),
			Now:      func() time.Time { return time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC) },
			Logger:   zap.NewNop(),
		})
		res, err := svc.GetRecent(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "5"}, contacts(res))
	})
}

func TestService_GetAll_DerivesStatus(t *testing.T) {
	svc, repo := newServiceWithMock(t)
	stale := rec(2, "111", "18:00")
	stale.Fields[visitor.FieldStatus] = visitor.StatusCheckedIn
	repo.EXPECT().FindAll(gomock.Any()).Return([]visitor.Record{stale}, nil)

	res, err := svc.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, visitor.StatusCheckedOut, res[0].Status)
	assert.Nil(t, res[0].IDNumber)
}

func TestService_Checkout(t *testing.T) {
	ctx := context.Background()

	t.Run("out time is required before lookup", func(t *testing.T) {
		svc, _ := newServiceWithMock(t)
		_, err := svc.Checkout(ctx, "111", visitor.CheckoutRequest{OutTime: " "})
		assert.ErrorIs(t, err, visitorerrors.ErrOutTimeRequired)
	})

	t.Run("active row is chosen even when a later row is checked out", func(t *testing.T) {
		svc, repo := newServiceWithMock(t)
		repo.EXPECT().FindAll(gomock.Any()).Return([]visitor.Record{
			rec(2, "111", ""),
			rec(3, "111", "12:00"),
		}, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, prior visitor.Record, changed []visitor.Field, next visitor.Record) error {
				assert.Equal(t, 2, prior.RowNumber)
				assert.Equal(t, 2, next.RowNumber)
				assert.ElementsMatch(t, []visitor.Field{visitor.FieldOutTime, visitor.FieldStatus}, changed)
				assert.Equal(t, visitor.StatusCheckedOut, next.Get(visitor.FieldStatus))
				return nil
			})

		resp, err := svc.Checkout(ctx, "111", visitor.CheckoutRequest{OutTime: "18:00"})
		require.NoError(t, err)
		assert.Equal(t, visitor.CheckoutResponse{
			Key:      "111",
			KeyField: "contact",
			OutTime:  "18:00",
			Status:   visitor.StatusCheckedOut,
		}, resp)
	})

	t.Run("latest of several active rows", func(t *testing.T) {
		svc, repo := newServiceWithMock(t)
		repo.EXPECT().FindAll(gomock.Any()).Return([]visitor.Record{
			rec(2, "111", ""),
			rec(3, "111", ""),
		}, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, prior visitor.Record, _ []visitor.Field, _ visitor.Record) error {
				assert.Equal(t, 3, prior.RowNumber)
				return nil
			})

		_, err := svc.Checkout(ctx, "111", visitor.CheckoutRequest{OutTime: "18:00"})
		require.NoError(t, err)
	})

	t.Run("no active visit", func(t *testing.T) {
		svc, repo := newServiceWithMock(t)
		repo.EXPECT().FindAll(gomock.Any()).Return([]visitor.Record{rec(2, "111", "12:00")}, nil)

		_, err := svc.Checkout(ctx, "111", visitor.CheckoutRequest{OutTime: "18:00"})
		assert.ErrorIs(t, err, visitorerrors.ErrActiveVisitorNotFound)
	})

	t.Run("write conflict surfaces as conflict", func(t *testing.T) {
		svc, repo := newServiceWithMock(t)
		repo.EXPECT().FindAll(gomock.Any()).Return([]visitor.Record{rec(2, "111", "")}, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(visitorerrors.ErrRowChanged)

		_, err := svc.Checkout(ctx, "111", visitor.CheckoutRequest{OutTime: "18:00"})
		assert.Equal(t, http.StatusConflict, apperror.ToHTTP(err).Status)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("empty payload is rejected before the store", func(t *testing.T) {
		svc, _ := newServiceWithMock(t)
		_, err := svc.Update(ctx, "111", map[string]any{})
		assert.ErrorIs(t, err, visitorerrors.ErrNoUpdateFields)

		_, err = svc.Update(ctx, "111", map[string]any{"shoeSize": "9"})
		assert.ErrorIs(t, err, visitorerrors.ErrNoRecognizedFields)
	})

	t.Run("latest row is updated regardless of status", func(t *testing.T) {
		svc, repo := newServiceWithMock(t)
		repo.EXPECT().FindAll(gomock.Any()).Return([]visitor.Record{
			rec(2, "111", ""),
			rec(3, "111", "12:00"),
		}, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, prior visitor.Record, changed []visitor.Field, next visitor.Record) error {
				assert.Equal(t, 3, prior.RowNumber)
				assert.Equal(t, []visitor.Field{visitor.FieldPurpose}, changed)
				assert.Equal(t, "Interview", next.Get(visitor.FieldPurpose))
				return nil
			})

		updates := map[string]any{"Purpose": "Interview", "status": "Checked In"}
		resp, err := svc.Update(ctx, "111", updates)
		require.NoError(t, err)
		assert.Equal(t, updates, resp)
	})

	t.Run("later of two active rows", func(t *testing.T) {
		svc, repo := newServiceWithMock(t)
		repo.EXPECT().FindAll(gomock.Any()).Return([]visitor.Record{
			rec(2, "111", ""),
			rec(5, "111", ""),
		}, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, prior visitor.Record, _ []visitor.Field, _ visitor.Record) error {
				assert.Equal(t, 5, prior.RowNumber)
				return nil
			})

		_, err := svc.Update(ctx, "111", map[string]any{"company": "Globex"})
		require.NoError(t, err)
	})

	t.Run("unknown key", func(t *testing.T) {
		svc, repo := newServiceWithMock(t)
		repo.EXPECT().FindAll(gomock.Any()).Return([]visitor.Record{rec(2, "111", "")}, nil)

		_, err := svc.Update(ctx, "999", map[string]any{"purpose": "x"})
		assert.ErrorIs(t, err, visitorerrors.ErrVisitorNotFound)
	})

	t.Run("reopening a checked out visit", func(t *testing.T) {
		svc, repo := newServiceWithMock(t)
		repo.EXPECT().FindAll(gomock.Any()).Return([]visitor.Record{rec(2, "111", "12:00")}, nil)

		_, err := svc.Update(ctx, "111", map[string]any{"outTime": ""})
		assert.ErrorIs(t, err, visitorerrors.ErrCannotReopenVisit)
	})
}
