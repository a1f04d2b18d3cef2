package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kiosk-checkout/internal/checkout"
	"kiosk-checkout/internal/coupon"
	"kiosk-checkout/internal/model"
	"kiosk-checkout/internal/payment"
	"kiosk-checkout/internal/receipt"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockKioskService is a mock implementation of KioskService.
type MockKioskService struct {
	mock.Mock
}

func (m *MockKioskService) snap(args mock.Arguments) (checkout.Snapshot, error) {
	return args.Get(0).(checkout.Snapshot), args.Error(1)
}

func (m *MockKioskService) Snapshot(ctx context.Context) checkout.Snapshot {
	return m.Called(ctx).Get(0).(checkout.Snapshot)
}

func (m *MockKioskService) Scan(ctx context.Context, barcode string) (checkout.Snapshot, error) {
	return m.snap(m.Called(ctx, barcode))
}

func (m *MockKioskService) ChangeQuantity(ctx context.Context, barcode string, delta int) (checkout.Snapshot, error) {
	return m.snap(m.Called(ctx, barcode, delta))
}

func (m *MockKioskService) RemoveLine(ctx context.Context, barcode string) (checkout.Snapshot, error) {
	return m.snap(m.Called(ctx, barcode))
}

func (m *MockKioskService) OpenOverlay(ctx context.Context, name string) (checkout.Snapshot, error) {
	return m.snap(m.Called(ctx, name))
}

func (m *MockKioskService) CloseOverlay(ctx context.Context) (checkout.Snapshot, error) {
	return m.snap(m.Called(ctx))
}

func (m *MockKioskService) Checkout(ctx context.Context) (checkout.Snapshot, error) {
	return m.snap(m.Called(ctx))
}

func (m *MockKioskService) SubmitCoupon(ctx context.Context, code string) (checkout.Snapshot, error) {
	return m.snap(m.Called(ctx, code))
}

func (m *MockKioskService) SkipCoupon(ctx context.Context) (checkout.Snapshot, error) {
	return m.snap(m.Called(ctx))
}

func (m *MockKioskService) Coupons(ctx context.Context) []coupon.Offer {
	return m.Called(ctx).Get(0).([]coupon.Offer)
}

func (m *MockKioskService) SelectPointsMethod(ctx context.Context, method string) (checkout.Snapshot, error) {
	return m.snap(m.Called(ctx, method))
}

func (m *MockKioskService) EnrollPhone(ctx context.Context, phone string) (checkout.Snapshot, error) {
	return m.snap(m.Called(ctx, phone))
}

func (m *MockKioskService) EnrollBarcode(ctx context.Context, value string) (checkout.Snapshot, error) {
	return m.snap(m.Called(ctx, value))
}

func (m *MockKioskService) ConfirmPoints(ctx context.Context) (checkout.Snapshot, error) {
	return m.snap(m.Called(ctx))
}

func (m *MockKioskService) SkipPoints(ctx context.Context) (checkout.Snapshot, error) {
	return m.snap(m.Called(ctx))
}

func (m *MockKioskService) SelectPaymentTab(ctx context.Context, tab string) (checkout.Snapshot, error) {
	return m.snap(m.Called(ctx, tab))
}

func (m *MockKioskService) Pay(ctx context.Context, method string) (checkout.Snapshot, error) {
	return m.snap(m.Called(ctx, method))
}

func (m *MockKioskService) InsertCard(ctx context.Context) (checkout.Snapshot, error) {
	return m.snap(m.Called(ctx))
}

func (m *MockKioskService) Previous(ctx context.Context) (checkout.Snapshot, error) {
	return m.snap(m.Called(ctx))
}

func (m *MockKioskService) NewTransaction(ctx context.Context) (checkout.Snapshot, error) {
	return m.snap(m.Called(ctx))
}

func (m *MockKioskService) Receipt(ctx context.Context) (receipt.Receipt, error) {
	args := m.Called(ctx)
	return args.Get(0).(receipt.Receipt), args.Error(1)
}

func sessionRouter(h *SessionHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/session", h.Get)
	r.Post("/api/session/scan", h.Scan)
	r.Post("/api/session/lines/{barcode}/quantity", h.ChangeQuantity)
	r.Delete("/api/session/lines/{barcode}", h.RemoveLine)
	r.Post("/api/session/overlays/{overlay}", h.OpenOverlay)
	r.Post("/api/session/coupon", h.SubmitCoupon)
	r.Get("/api/session/coupons", h.Coupons)
	r.Post("/api/session/points/phone", h.EnrollPhone)
	r.Post("/api/session/payment", h.Pay)
	r.Post("/api/session/previous", h.Previous)
	r.Get("/api/session/receipt", h.Receipt)
	return r
}

func TestSessionHandler_Actions(t *testing.T) {
	scanning := checkout.Snapshot{Step: checkout.StepScanning}

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		setup          func(m *MockKioskService)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:   "Get snapshot",
			method: http.MethodGet,
			path:   "/api/session",
			setup: func(m *MockKioskService) {
				m.On("Snapshot", mock.Anything).Return(scanning)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Scan",
			method: http.MethodPost,
			path:   "/api/session/scan",
			body:   `{"barcode":"8801000000012"}`,
			setup: func(m *MockKioskService) {
				m.On("Scan", mock.Anything, "8801000000012").Return(scanning, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Scan with invalid JSON",
			method:         http.MethodPost,
			path:           "/api/session/scan",
			body:           `{"barcode":`,
			setup:          func(m *MockKioskService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidJSON,
		},
		{
			name:   "Change quantity",
			method: http.MethodPost,
			path:   "/api/session/lines/BAGL/quantity",
			body:   `{"delta":-1}`,
			setup: func(m *MockKioskService) {
				m.On("ChangeQuantity", mock.Anything, "BAGL", -1).Return(scanning, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Zero delta",
			method: http.MethodPost,
			path:   "/api/session/lines/BAGL/quantity",
			body:   `{"delta":0}`,
			setup: func(m *MockKioskService) {
				m.On("ChangeQuantity", mock.Anything, "BAGL", 0).Return(scanning, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Remove line",
			method: http.MethodDelete,
			path:   "/api/session/lines/SBAG",
			setup: func(m *MockKioskService) {
				m.On("RemoveLine", mock.Anything, "SBAG").Return(scanning, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Overlay not allowed",
			method: http.MethodPost,
			path:   "/api/session/overlays/produce",
			setup: func(m *MockKioskService) {
				m.On("OpenOverlay", mock.Anything, "produce").Return(scanning, model.ErrOverlayNotAllowed)
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   model.ErrCodeOverlayNotAllowed,
		},
		{
			name:   "Invalid coupon",
			method: http.MethodPost,
			path:   "/api/session/coupon",
			body:   `{"code":"NOPE"}`,
			setup: func(m *MockKioskService) {
				m.On("SubmitCoupon", mock.Anything, "NOPE").Return(scanning, model.ErrInvalidCoupon)
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidCoupon,
		},
		{
			name:   "Invalid phone",
			method: http.MethodPost,
			path:   "/api/session/points/phone",
			body:   `{"phone":"02012345678"}`,
			setup: func(m *MockKioskService) {
				m.On("EnrollPhone", mock.Anything, "02012345678").Return(scanning, model.ErrInvalidPhone)
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidPhone,
		},
		{
			name:           "Pay without method",
			method:         http.MethodPost,
			path:           "/api/session/payment",
			body:           `{"method":" "}`,
			setup:          func(m *MockKioskService) {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeMissingField,
		},
		{
			name:   "Pay",
			method: http.MethodPost,
			path:   "/api/session/payment",
			body:   `{"method":"Kakao Pay"}`,
			setup: func(m *MockKioskService) {
				m.On("Pay", mock.Anything, "Kakao Pay").Return(checkout.Snapshot{Step: checkout.StepDone}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Previous in wrong step",
			method: http.MethodPost,
			path:   "/api/session/previous",
			setup: func(m *MockKioskService) {
				m.On("Previous", mock.Anything).Return(scanning, model.ErrInvalidTransition)
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   model.ErrCodeInvalidTransition,
		},
		{
			name:   "Unexpected error",
			method: http.MethodPost,
			path:   "/api/session/scan",
			body:   `{"barcode":"8801000000012"}`,
			setup: func(m *MockKioskService) {
				m.On("Scan", mock.Anything, "8801000000012").Return(scanning, errors.New("catalog unavailable"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   model.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockKioskService)
			tt.setup(mockService)
			h := NewSessionHandler(mockService, zerolog.Nop())

			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			sessionRouter(h).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				var resp model.ErrorResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, tt.expectedCode, resp.Error)
			} else {
				var snap map[string]interface{}
				require.NoError(t, json.NewDecoder(w.Body).Decode(&snap))
				assert.Contains(t, snap, "step")
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestSessionHandler_Receipt(t *testing.T) {
	rec := receipt.Receipt{
		TransactionID: uuid.New(),
		StoreName:     "emart self-checkout",
		IssuedAt:      time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC),
		Lines:         []receipt.Line{{Barcode: "SBAG", Name: "Shopping Bag (L)", UnitPrice: 1500, Quantity: 1, Total: 1500}},
		Subtotal:      1500,
		Total:         1500,
		SupplyAmount:  1363,
		VAT:           137,
		Payment:       payment.Result{Method: payment.MethodApplePay, ReferenceSuffix: "9021"},
	}

	tests := []struct {
		name         string
		accept       string
		contentType  string
		bodyContains string
	}{
		{name: "JSON", accept: "application/json", contentType: "application/json", bodyContains: `"supplyAmount":1363`},
		{name: "Plain text", accept: "text/plain", contentType: "text/plain; charset=utf-8", bodyContains: "****9021"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockKioskService)
			mockService.On("Receipt", mock.Anything).Return(rec, nil)
			h := NewSessionHandler(mockService, zerolog.Nop())

			req := httptest.NewRequest(http.MethodGet, "/api/session/receipt", nil)
			req.Header.Set("Accept", tt.accept)
			w := httptest.NewRecorder()

			sessionRouter(h).ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.contentType, w.Header().Get("Content-Type"))
			assert.Contains(t, w.Body.String(), tt.bodyContains)
		})
	}
}

func TestSessionHandler_ReceiptUnavailable(t *testing.T) {
	mockService := new(MockKioskService)
	mockService.On("Receipt", mock.Anything).Return(receipt.Receipt{}, model.ErrReceiptUnavailable)
	h := NewSessionHandler(mockService, zerolog.Nop())

	w := httptest.NewRecorder()
	sessionRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/session/receipt", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSessionHandler_Coupons(t *testing.T) {
	mockService := new(MockKioskService)
	mockService.On("Coupons", mock.Anything).Return([]coupon.Offer{
		{Code: "EM10", Description: "10% off the whole purchase"},
	})
	h := NewSessionHandler(mockService, zerolog.Nop())

	w := httptest.NewRecorder()
	sessionRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/session/coupons", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var offers []coupon.Offer
	require.NoError(t, json.NewDecoder(w.Body).Decode(&offers))
	assert.Equal(t, []coupon.Offer{{Code: "EM10", Description: "10% off the whole purchase"}}, offers)
	mockService.AssertExpectations(t)
}
