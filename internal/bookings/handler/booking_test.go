package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "slotwise/pkg/errors"
	"slotwise/pkg/logger"
	"slotwise/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockBookingService struct {
	admitFunc   func(ctx context.Context, req *model.BookingRequest) (*model.Booking, error)
	getByIDFunc func(ctx context.Context, id string) (*model.Booking, error)
}

func (m *mockBookingService) Admit(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	return m.admitFunc(ctx, req)
}

func (m *mockBookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, apperrors.NotFoundWithID("Booking", id)
}

func (m *mockBookingService) Search(ctx context.Context, ownerID string, start, end *time.Time, limit int, offset int64) ([]*model.Booking, int64, error) {
	return nil, 0, nil
}

func newTestRouter(svc *mockBookingService) *httprouter.Router {
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
	router := httprouter.New()
	NewBookingHandler(svc, log).RegisterRoutes(router)
	return router
}

func postBooking(t *testing.T, router *httprouter.Router, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreate_Success(t *testing.T) {
	start := time.Date(2026, time.March, 2, 14, 0, 0, 0, time.UTC)
	svc := &mockBookingService{
		admitFunc: func(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
			return &model.Booking{
				ID:          "64f0c2a4b3e1d2c3a4b5c6d8",
				EventTypeID: req.EventTypeID,
				OwnerID:     "owner-1",
				StartTime:   req.Start,
				EndTime:     req.Start.Add(30 * time.Minute),
			}, nil
		},
	}
	router := newTestRouter(svc)

	rec := postBooking(t, router, model.BookingRequest{
		EventTypeID:   "64f0c2a4b3e1d2c3a4b5c6d7",
		Start:         start,
		AttendeeName:  "Dana Smith",
		AttendeeEmail: "dana@example.com",
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Data model.Booking `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.ID == "" {
		t.Error("expected booking ID in response")
	}
}

func TestCreate_InvalidBody(t *testing.T) {
	svc := &mockBookingService{
		admitFunc: func(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
			t.Fatal("service must not be called for malformed body")
			return nil, nil
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestCreate_AdmissionStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"slot conflict", apperrors.SlotConflict("slot taken"), http.StatusConflict},
		{"outside hours", apperrors.OutsideAvailableHours("closed"), http.StatusUnprocessableEntity},
		{"slot in past", apperrors.SlotInPast("too late"), http.StatusUnprocessableEntity},
		{"malformed profile", apperrors.NoRuleFound("owner-1", "Monday"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockBookingService{
				admitFunc: func(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
					return nil, tt.err
				},
			}
			router := newTestRouter(svc)

			rec := postBooking(t, router, model.BookingRequest{
				EventTypeID:   "64f0c2a4b3e1d2c3a4b5c6d7",
				Start:         time.Now().Add(24 * time.Hour),
				AttendeeName:  "Dana Smith",
				AttendeeEmail: "dana@example.com",
			})

			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestGetByID_NotFound(t *testing.T) {
	router := newTestRouter(&mockBookingService{
		admitFunc: func(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/id/64f0c2a4b3e1d2c3a4b5c699", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
