package service

import (
	"context"
	"errors"

	"kiosk-checkout/internal/checkout"
	"kiosk-checkout/internal/coupon"
	"kiosk-checkout/internal/metrics"
	"kiosk-checkout/internal/model"
	"kiosk-checkout/internal/payment"
	"kiosk-checkout/internal/receipt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// kioskService implements KioskService over a single checkout session.
type kioskService struct {
	session *checkout.Session
	metrics *metrics.Metrics
	tracer  trace.Tracer
	logger  zerolog.Logger
}

// NewKioskService creates a new kiosk service.
func NewKioskService(session *checkout.Session, m *metrics.Metrics, logger zerolog.Logger) KioskService {
	return &kioskService{
		session: session,
		metrics: m,
		tracer:  otel.Tracer("kiosk-checkout/service"),
		logger:  logger.With().Str("service", "kiosk").Logger(),
	}
}

// apply runs one shopper action inside a span and snapshots the result.
// fn receives the span's context so downstream lookups join the trace.
func (s *kioskService) apply(ctx context.Context, action string, fn func(ctx context.Context) error, attrs ...attribute.KeyValue) (checkout.Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "kiosk."+action, trace.WithAttributes(attrs...))
	defer span.End()

	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		// Domain errors are shopper mistakes, anything else is a fault
		var domainErr *model.DomainError
		if errors.As(err, &domainErr) {
			s.metrics.ObserveAction(action, metrics.OutcomeRejected)
			s.logger.Debug().Str("action", action).Str("code", domainErr.Code).Msg("action rejected")
		} else {
			s.metrics.ObserveAction(action, metrics.OutcomeFailed)
			s.logger.Error().Err(err).Str("action", action).Msg("action failed")
		}

		// The kiosk still renders the unchanged session
		return s.session.Snapshot(), err
	}

	s.metrics.ObserveAction(action, metrics.OutcomeOK)

	// Record where the action left the session
	snap := s.session.Snapshot()
	span.SetAttributes(
		attribute.String("checkout.step", snap.Step.String()),
		attribute.String("checkout.overlay", snap.Overlay.String()),
		attribute.Int("checkout.items", snap.ItemCount),
	)
	return snap, nil
}

// plain adapts a session action that does no I/O.
func plain(fn func() error) func(context.Context) error {
	return func(context.Context) error { return fn() }
}

// Snapshot returns the current session state.
func (s *kioskService) Snapshot(ctx context.Context) checkout.Snapshot {
	_, span := s.tracer.Start(ctx, "kiosk.snapshot")
	defer span.End()
	return s.session.Snapshot()
}

// Scan adds one unit of the scanned product. Unknown barcodes leave the
// cart unchanged.
func (s *kioskService) Scan(ctx context.Context, barcode string) (checkout.Snapshot, error) {
	return s.apply(ctx, "scan", func(ctx context.Context) error {
		_, err := s.session.Scan(ctx, barcode)
		return err
	}, attribute.String("barcode", barcode))
}

// ChangeQuantity adjusts a cart line by delta.
func (s *kioskService) ChangeQuantity(ctx context.Context, barcode string, delta int) (checkout.Snapshot, error) {
	return s.apply(ctx, "change_quantity", plain(func() error {
		return s.session.ChangeQuantity(barcode, delta)
	}), attribute.String("barcode", barcode), attribute.Int("delta", delta))
}

// RemoveLine deletes a cart line.
func (s *kioskService) RemoveLine(ctx context.Context, barcode string) (checkout.Snapshot, error) {
	return s.apply(ctx, "remove_line", plain(func() error {
		return s.session.RemoveLine(barcode)
	}), attribute.String("barcode", barcode))
}

// OpenOverlay opens a dialog by name. Unknown names are rejected like a
// dialog that is not allowed in the current step.
func (s *kioskService) OpenOverlay(ctx context.Context, name string) (checkout.Snapshot, error) {
	return s.apply(ctx, "open_overlay", plain(func() error {
		overlay, err := checkout.ParseOverlay(name)
		if err != nil {
			return model.ErrOverlayNotAllowed
		}
		return s.session.OpenOverlay(overlay)
	}), attribute.String("overlay", name))
}

// CloseOverlay closes the open dialog.
func (s *kioskService) CloseOverlay(ctx context.Context) (checkout.Snapshot, error) {
	return s.apply(ctx, "close_overlay", plain(s.session.CloseOverlay))
}

// Checkout opens the coupon dialog.
func (s *kioskService) Checkout(ctx context.Context) (checkout.Snapshot, error) {
	return s.apply(ctx, "checkout", plain(s.session.Checkout))
}

// SubmitCoupon applies a coupon code and moves on to points.
func (s *kioskService) SubmitCoupon(ctx context.Context, code string) (checkout.Snapshot, error) {
	return s.apply(ctx, "submit_coupon", plain(func() error {
		return s.session.SubmitCoupon(code)
	}))
}

// SkipCoupon moves on to points without a coupon.
func (s *kioskService) SkipCoupon(ctx context.Context) (checkout.Snapshot, error) {
	return s.apply(ctx, "skip_coupon", plain(s.session.SkipCoupon))
}

// Coupons lists the codes the coupon dialog accepts.
func (s *kioskService) Coupons(ctx context.Context) []coupon.Offer {
	_, span := s.tracer.Start(ctx, "kiosk.coupons")
	defer span.End()

	offers := s.session.Coupons()
	span.SetAttributes(attribute.Int("coupon.count", len(offers)))
	return offers
}

// SelectPointsMethod picks how the membership will be identified.
func (s *kioskService) SelectPointsMethod(ctx context.Context, method string) (checkout.Snapshot, error) {
	return s.apply(ctx, "select_points_method", plain(func() error {
		return s.session.SelectPointsMethod(model.MembershipMethod(method))
	}), attribute.String("method", method))
}

// EnrollPhone captures a membership by phone number.
func (s *kioskService) EnrollPhone(ctx context.Context, phone string) (checkout.Snapshot, error) {
	return s.apply(ctx, "enroll_phone", plain(func() error {
		return s.session.EnrollPhone(phone)
	}))
}

// EnrollBarcode captures a membership from a scanned card.
func (s *kioskService) EnrollBarcode(ctx context.Context, value string) (checkout.Snapshot, error) {
	return s.apply(ctx, "enroll_barcode", plain(func() error {
		return s.session.EnrollBarcode(value)
	}))
}

// ConfirmPoints accepts the captured membership and moves on to payment.
func (s *kioskService) ConfirmPoints(ctx context.Context) (checkout.Snapshot, error) {
	return s.apply(ctx, "confirm_points", plain(s.session.ConfirmPoints))
}

// SkipPoints moves on to payment without a membership.
func (s *kioskService) SkipPoints(ctx context.Context) (checkout.Snapshot, error) {
	return s.apply(ctx, "skip_points", plain(s.session.SkipPoints))
}

// SelectPaymentTab switches the payment screen tab.
func (s *kioskService) SelectPaymentTab(ctx context.Context, tab string) (checkout.Snapshot, error) {
	return s.apply(ctx, "select_payment_tab", plain(func() error {
		return s.session.SelectPaymentTab(payment.Tab(tab))
	}), attribute.String("tab", tab))
}

// Pay selects a payment method. Card methods start the card insertion.
func (s *kioskService) Pay(ctx context.Context, method string) (checkout.Snapshot, error) {
	return s.apply(ctx, "pay", plain(func() error {
		return s.session.Pay(method)
	}), attribute.String("method", method))
}

// InsertCard restarts the card insertion. Payment completes on a
// scheduler callback, not on this request.
func (s *kioskService) InsertCard(ctx context.Context) (checkout.Snapshot, error) {
	return s.apply(ctx, "insert_card", plain(s.session.InsertCard))
}

// Previous steps back to scanning or cancels a card insertion.
func (s *kioskService) Previous(ctx context.Context) (checkout.Snapshot, error) {
	return s.apply(ctx, "previous", plain(s.session.Previous))
}

// NewTransaction resets a finished session for the next shopper.
func (s *kioskService) NewTransaction(ctx context.Context) (checkout.Snapshot, error) {
	return s.apply(ctx, "new_transaction", plain(s.session.NewTransaction))
}

// Receipt returns the receipt of the paid transaction.
func (s *kioskService) Receipt(ctx context.Context) (receipt.Receipt, error) {
	_, span := s.tracer.Start(ctx, "kiosk.receipt")
	defer span.End()

	r, err := s.session.Receipt()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return receipt.Receipt{}, err
	}

	span.SetAttributes(attribute.String("transaction_id", r.TransactionID.String()))
	return r, nil
}
