package handler

import (
	"net/http"
	"strings"

	"kiosk-checkout/internal/checkout"
	"kiosk-checkout/internal/model"
	"kiosk-checkout/internal/receipt"
	"kiosk-checkout/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type scanRequest struct {
	Barcode string `json:"barcode"`
}

type quantityRequest struct {
	Delta int `json:"delta"`
}

type couponRequest struct {
	Code string `json:"code"`
}

type methodRequest struct {
	Method string `json:"method"`
}

type phoneRequest struct {
	Phone string `json:"phone"`
}

type valueRequest struct {
	Value string `json:"value"`
}

type tabRequest struct {
	Tab string `json:"tab"`
}

// SessionHandler exposes the kiosk checkout session.
type SessionHandler struct {
	service service.KioskService
	logger  zerolog.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(service service.KioskService, logger zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		logger:  logger.With().Str("handler", "session").Logger(),
	}
}

func (h *SessionHandler) respond(w http.ResponseWriter, r *http.Request, snap checkout.Snapshot, err error) {
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, snap, h.logger)
}

// Get handles GET /api/session.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Snapshot(r.Context()), h.logger)
}

// Scan handles POST /api/session/scan.
func (h *SessionHandler) Scan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	snap, err := h.service.Scan(r.Context(), req.Barcode)
	h.respond(w, r, snap, err)
}

// ChangeQuantity handles POST /api/session/lines/{barcode}/quantity.
func (h *SessionHandler) ChangeQuantity(w http.ResponseWriter, r *http.Request) {
	var req quantityRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	snap, err := h.service.ChangeQuantity(r.Context(), chi.URLParam(r, "barcode"), req.Delta)
	h.respond(w, r, snap, err)
}

// RemoveLine handles DELETE /api/session/lines/{barcode}.
func (h *SessionHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.RemoveLine(r.Context(), chi.URLParam(r, "barcode"))
	h.respond(w, r, snap, err)
}

// OpenOverlay handles POST /api/session/overlays/{overlay}.
func (h *SessionHandler) OpenOverlay(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.OpenOverlay(r.Context(), chi.URLParam(r, "overlay"))
	h.respond(w, r, snap, err)
}

// CloseOverlay handles DELETE /api/session/overlays.
func (h *SessionHandler) CloseOverlay(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.CloseOverlay(r.Context())
	h.respond(w, r, snap, err)
}

// Checkout handles POST /api/session/checkout.
func (h *SessionHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Checkout(r.Context())
	h.respond(w, r, snap, err)
}

// SubmitCoupon handles POST /api/session/coupon.
func (h *SessionHandler) SubmitCoupon(w http.ResponseWriter, r *http.Request) {
	var req couponRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	snap, err := h.service.SubmitCoupon(r.Context(), req.Code)
	h.respond(w, r, snap, err)
}

// Coupons handles GET /api/session/coupons.
func (h *SessionHandler) Coupons(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Coupons(r.Context()), h.logger)
}

// SkipCoupon handles POST /api/session/coupon/skip.
func (h *SessionHandler) SkipCoupon(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.SkipCoupon(r.Context())
	h.respond(w, r, snap, err)
}

// SelectPointsMethod handles POST /api/session/points/method.
func (h *SessionHandler) SelectPointsMethod(w http.ResponseWriter, r *http.Request) {
	var req methodRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	snap, err := h.service.SelectPointsMethod(r.Context(), req.Method)
	h.respond(w, r, snap, err)
}

// EnrollPhone handles POST /api/session/points/phone.
func (h *SessionHandler) EnrollPhone(w http.ResponseWriter, r *http.Request) {
	var req phoneRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	snap, err := h.service.EnrollPhone(r.Context(), req.Phone)
	h.respond(w, r, snap, err)
}

// EnrollBarcode handles POST /api/session/points/barcode.
func (h *SessionHandler) EnrollBarcode(w http.ResponseWriter, r *http.Request) {
	var req valueRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	snap, err := h.service.EnrollBarcode(r.Context(), req.Value)
	h.respond(w, r, snap, err)
}

// ConfirmPoints handles POST /api/session/points/confirm.
func (h *SessionHandler) ConfirmPoints(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.ConfirmPoints(r.Context())
	h.respond(w, r, snap, err)
}

// SkipPoints handles POST /api/session/points/skip.
func (h *SessionHandler) SkipPoints(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.SkipPoints(r.Context())
	h.respond(w, r, snap, err)
}

// SelectPaymentTab handles POST /api/session/payment/tab.
func (h *SessionHandler) SelectPaymentTab(w http.ResponseWriter, r *http.Request) {
	var req tabRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	snap, err := h.service.SelectPaymentTab(r.Context(), req.Tab)
	h.respond(w, r, snap, err)
}

// Pay handles POST /api/session/payment.
func (h *SessionHandler) Pay(w http.ResponseWriter, r *http.Request) {
	var req methodRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	if strings.TrimSpace(req.Method) == "" {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeMissingField, "method is required", h.logger)
		return
	}

	snap, err := h.service.Pay(r.Context(), req.Method)
	h.respond(w, r, snap, err)
}

// InsertCard handles POST /api/session/payment/card.
func (h *SessionHandler) InsertCard(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.InsertCard(r.Context())
	h.respond(w, r, snap, err)
}

// Previous handles POST /api/session/previous.
func (h *SessionHandler) Previous(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Previous(r.Context())
	h.respond(w, r, snap, err)
}

// NewTransaction handles POST /api/session/reset.
func (h *SessionHandler) NewTransaction(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.NewTransaction(r.Context())
	h.respond(w, r, snap, err)
}

// Receipt handles GET /api/session/receipt. Clients that accept text/plain
// get the printed form.
func (h *SessionHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.Receipt(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	if !strings.Contains(r.Header.Get("Accept"), "text/plain") {
		writeJSON(w, http.StatusOK, rec, h.logger)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := receipt.Render(w, rec); err != nil {
		h.logger.Error().Err(err).Msg("failed to render receipt")
	}
}
