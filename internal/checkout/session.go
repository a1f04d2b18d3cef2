// Package checkout implements the self-checkout flow of a single kiosk:
// scanning, coupon entry, points enrollment, payment and the receipt.
//
// A Session is safe for concurrent use. Every operation runs to completion
// under the session lock, and scheduled callbacks take the same lock.
package checkout

import (
	"context"
	"sync"
	"time"

	"kiosk-checkout/internal/cart"
	"kiosk-checkout/internal/coupon"
	"kiosk-checkout/internal/model"
	"kiosk-checkout/internal/payment"
	"kiosk-checkout/internal/points"
	"kiosk-checkout/internal/pricing"
	"kiosk-checkout/internal/receipt"
	"kiosk-checkout/internal/scheduler"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	couponErrorMessage = "Coupon is invalid or not applicable"
	phoneErrorMessage  = "Please check the phone number"
	progressComplete   = 100
	cardMethod         = payment.MethodCard
)

// Timing holds the durations of the scheduled tasks.
type Timing struct {
	RefocusInterval     time.Duration
	CardInsertTick      time.Duration
	CardInsertStep      int
	CardCompletionDelay time.Duration
}

// DefaultTiming returns the kiosk's standard timings.
func DefaultTiming() Timing {
	return Timing{
		RefocusInterval:     time.Second,
		CardInsertTick:      50 * time.Millisecond,
		CardInsertStep:      5,
		CardCompletionDelay: 600 * time.Millisecond,
	}
}

// Option configures a Session.
type Option func(*Session)

// WithStoreName sets the header printed on receipts.
func WithStoreName(name string) Option {
	return func(s *Session) {
		s.storeName = name
	}
}

// WithFocusHandler registers the callback that re-asserts scanner focus.
// It is called outside the session lock.
func WithFocusHandler(fn func(FocusTarget)) Option {
	return func(s *Session) {
		s.onFocus = fn
	}
}

// WithPaymentHandler registers a callback for every completed transaction.
// It runs with the session lock held and must not call back into the session.
func WithPaymentHandler(fn func(receipt.Receipt)) Option {
	return func(s *Session) {
		s.onPaid = fn
	}
}

// Session is the state of one kiosk transaction.
type Session struct {
	mu sync.Mutex

	resolver  coupon.Resolver
	simulator payment.Simulator
	scheduler scheduler.Scheduler
	timing    Timing
	storeName string
	onFocus   func(FocusTarget)
	onPaid    func(receipt.Receipt)
	logger    zerolog.Logger

	id           uuid.UUID
	cart         *cart.Cart
	step         Step
	overlay      Overlay
	coupon       string
	couponError  string
	pointsMethod model.MembershipMethod
	pointsError  string
	membership   model.Membership
	tab          payment.Tab
	cardProgress int
	payment      *payment.Result
	receipt      *receipt.Receipt

	refocus  scheduler.Task
	cardTick scheduler.Task
	cardDone scheduler.Task
	// cardGen invalidates callbacks of a cancelled card insertion.
	cardGen uint64
	closed  bool
}

// NewSession creates a session in the scanning step and starts the
// scanner refocus task.
func NewSession(
	lookup cart.ProductLookup,
	resolver coupon.Resolver,
	simulator payment.Simulator,
	sched scheduler.Scheduler,
	timing Timing,
	logger zerolog.Logger,
	opts ...Option,
) *Session {
	s := &Session{
		resolver:  resolver,
		simulator: simulator,
		scheduler: sched,
		timing:    timing,
		storeName: "emart self-checkout",
		onFocus:   func(FocusTarget) {},
		onPaid:    func(receipt.Receipt) {},
		logger:    logger.With().Str("component", "checkout-session").Logger(),
		cart:      cart.New(lookup),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.resetState()
	s.startRefocus()

	return s
}

// Scan adds one unit of the scanned barcode. Unknown barcodes are ignored
// and reported with added == false.
func (s *Session) Scan(ctx context.Context, barcode string) (added bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cartEditable() {
		return false, model.ErrInvalidTransition
	}

	added, err = s.cart.AddByCode(ctx, barcode)
	if err != nil {
		return false, err
	}
	if !added {
		s.logger.Debug().Str("barcode", barcode).Msg("ignored unknown barcode")
	}
	return added, nil
}

// ChangeQuantity adjusts a line by delta, removing it at zero. A barcode
// that is not in the cart and a zero delta are both ignored.
func (s *Session) ChangeQuantity(barcode string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cartEditable() {
		return model.ErrInvalidTransition
	}
	s.cart.ChangeQuantity(barcode, delta)
	return nil
}

// RemoveLine deletes a line if present.
func (s *Session) RemoveLine(barcode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cartEditable() {
		return model.ErrInvalidTransition
	}
	s.cart.RemoveLine(barcode)
	return nil
}

// OpenOverlay shows a help, picker or coupon dialog. Reopening the current
// overlay is a no-op.
func (s *Session) OpenOverlay(o Overlay) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !o.userOpenable() || !o.ValidIn(s.step) {
		return model.ErrOverlayNotAllowed
	}
	if s.overlay == o {
		return nil
	}
	if s.overlay != OverlayNone {
		return model.ErrOverlayNotAllowed
	}

	if o == OverlayCouponScan {
		s.couponError = ""
	}
	s.setOverlay(o)
	return nil
}

// CloseOverlay dismisses the open overlay without completing its action.
// Closing the card insertion dialog cancels the insertion.
func (s *Session) CloseOverlay() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.overlay {
	case OverlayNone:
		return nil
	case OverlayCardInsert:
		s.cancelCardInsert()
	case OverlayCouponScan:
		s.couponError = ""
		s.setOverlay(OverlayNone)
	default:
		s.setOverlay(OverlayNone)
	}
	return nil
}

// Checkout is the pay button. It always routes through the coupon dialog.
func (s *Session) Checkout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step != StepScanning {
		return model.ErrInvalidTransition
	}
	if s.overlay == OverlayCouponScan {
		return nil
	}
	if s.overlay != OverlayNone {
		return model.ErrOverlayNotAllowed
	}

	s.couponError = ""
	s.setOverlay(OverlayCouponScan)
	return nil
}

// SubmitCoupon applies a scanned or typed coupon. A code that resolves to no
// discount keeps the dialog open with an inline error and leaves the applied
// coupon unchanged. Blank input is ignored.
func (s *Session) SubmitCoupon(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step != StepScanning || s.overlay != OverlayCouponScan {
		return model.ErrInvalidTransition
	}

	normalized := coupon.Normalize(code)
	if normalized == "" {
		return nil
	}

	lines := s.cart.Lines()
	if s.resolver.Resolve(pricing.Subtotal(lines), lines, normalized) == 0 {
		s.couponError = couponErrorMessage
		s.logger.Debug().Str("coupon", normalized).Msg("coupon rejected")
		return model.ErrInvalidCoupon
	}

	s.coupon = normalized
	s.couponError = ""
	s.logger.Debug().Str("coupon", normalized).Msg("coupon applied")
	s.enterPoints()
	return nil
}

// SkipCoupon is the "no coupon" button of the coupon dialog.
func (s *Session) SkipCoupon() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step != StepScanning || s.overlay != OverlayCouponScan {
		return model.ErrInvalidTransition
	}

	s.couponError = ""
	s.enterPoints()
	return nil
}

// SelectPointsMethod chooses how the membership will be captured.
func (s *Session) SelectPointsMethod(method model.MembershipMethod) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step != StepPoints {
		return model.ErrInvalidTransition
	}
	if !method.Valid() {
		return model.ErrPointsMethodMismatch
	}

	s.pointsMethod = method
	s.pointsError = ""
	return nil
}

// EnrollPhone records a phone membership. An invalid number keeps the
// session in the points step with an inline error.
func (s *Session) EnrollPhone(input string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePointsMethod(model.MembershipPhone); err != nil {
		return err
	}

	m, err := points.Phone(input)
	if err != nil {
		s.pointsError = phoneErrorMessage
		s.logger.Debug().Msg("phone number rejected")
		return err
	}

	s.enterPayment(m)
	return nil
}

// EnrollBarcode records a scanned membership barcode. Blank input is ignored.
func (s *Session) EnrollBarcode(value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePointsMethod(model.MembershipBarcode); err != nil {
		return err
	}

	m, ok := points.Barcode(value)
	if !ok {
		return nil
	}

	s.enterPayment(m)
	return nil
}

// ConfirmPoints completes the sensing and co-branded card methods, which
// need no shopper input.
func (s *Session) ConfirmPoints() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step != StepPoints {
		return model.ErrInvalidTransition
	}

	switch s.pointsMethod {
	case model.MembershipSensing:
		s.enterPayment(points.Sensed())
	case model.MembershipCredit:
		s.enterPayment(points.CoBrandedCard())
	default:
		return model.ErrPointsMethodMismatch
	}
	return nil
}

// SkipPoints moves to payment without a membership.
func (s *Session) SkipPoints() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step != StepPoints {
		return model.ErrInvalidTransition
	}

	s.enterPayment(model.Membership{})
	return nil
}

// SelectPaymentTab switches between the card and mobile method lists.
func (s *Session) SelectPaymentTab(tab payment.Tab) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step != StepPayment || s.overlay == OverlayCardInsert {
		return model.ErrInvalidTransition
	}
	if _, err := payment.ParseTab(string(tab)); err != nil {
		return model.ErrUnknownPayment
	}

	s.tab = tab
	return nil
}

// Pay selects a payment method. Methods that need a physical card start the
// card insertion; every other known method completes immediately.
func (s *Session) Pay(method string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step != StepPayment || s.overlay == OverlayCardInsert {
		return model.ErrInvalidTransition
	}

	m, ok := payment.LookupMethod(method)
	if !ok {
		return model.ErrUnknownPayment
	}
	if m.RequiresCardInsert {
		s.startCardInsert()
		return nil
	}

	return s.completePayment(m.Label)
}

// InsertCard starts the card insertion animation.
func (s *Session) InsertCard() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step != StepPayment || s.overlay == OverlayCardInsert {
		return model.ErrInvalidTransition
	}

	s.startCardInsert()
	return nil
}

// Previous is the "previous step" button. From points and payment it
// returns to scanning; during card insertion it cancels the insertion.
func (s *Session) Previous() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.overlay == OverlayCardInsert {
		s.cancelCardInsert()
		return nil
	}

	switch s.step {
	case StepPoints, StepPayment:
		s.pointsMethod = model.MembershipNone
		s.pointsError = ""
		s.setOverlay(OverlayNone)
		s.transition(StepScanning)
		return nil
	}
	return model.ErrInvalidTransition
}

// NewTransaction clears the finished transaction and starts over.
func (s *Session) NewTransaction() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step != StepDone {
		return model.ErrInvalidTransition
	}

	s.stopTasks()
	s.resetState()
	if !s.closed {
		s.startRefocus()
	}
	s.logger.Info().Str("session", s.id.String()).Msg("new transaction started")
	return nil
}

// Coupons lists the codes the coupon dialog accepts.
func (s *Session) Coupons() []coupon.Offer {
	return s.resolver.Offers()
}

// Receipt returns the frozen receipt of a paid transaction.
func (s *Session) Receipt() (receipt.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.receipt == nil {
		return receipt.Receipt{}, model.ErrReceiptUnavailable
	}
	return *s.receipt, nil
}

// Close stops every scheduled task. The session stays readable.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.stopTasks()
}

func (s *Session) cartEditable() bool {
	if s.step != StepScanning {
		return false
	}
	switch s.overlay {
	case OverlayNone, OverlayProduce, OverlayBag:
		return true
	}
	return false
}

func (s *Session) requirePointsMethod(method model.MembershipMethod) error {
	if s.step != StepPoints {
		return model.ErrInvalidTransition
	}
	if s.pointsMethod != method {
		return model.ErrPointsMethodMismatch
	}
	return nil
}

func (s *Session) enterPoints() {
	s.setOverlay(OverlayNone)
	s.pointsMethod = model.MembershipNone
	s.pointsError = ""
	s.transition(StepPoints)
}

func (s *Session) enterPayment(m model.Membership) {
	s.membership = m
	s.pointsError = ""
	s.tab = payment.TabCard
	s.cardProgress = 0
	s.setOverlay(OverlayNone)
	s.transition(StepPayment)
}

func (s *Session) completePayment(method string) error {
	result, err := s.simulator.Authorize(method)
	if err != nil {
		return err
	}

	lines := s.cart.Lines()
	summary := pricing.Compute(s.resolver, lines, s.coupon)
	r := receipt.Build(receipt.Input{
		StoreName:  s.storeName,
		Lines:      lines,
		Summary:    summary,
		Coupon:     s.coupon,
		Membership: s.membership,
		Payment:    result,
	})

	s.payment = &result
	s.receipt = &r
	s.stopCardTasks()
	s.setOverlay(OverlayNone)
	s.transition(StepDone)

	s.logger.Info().
		Str("session", s.id.String()).
		Str("transaction", r.TransactionID.String()).
		Str("method", method).
		Int64("total", summary.Total).
		Msg("transaction paid")

	s.onPaid(r)
	return nil
}

func (s *Session) transition(to Step) {
	if s.step == to {
		return
	}
	s.logger.Debug().Stringer("from", s.step).Stringer("to", to).Msg("step changed")
	s.step = to
}

func (s *Session) setOverlay(o Overlay) {
	if s.overlay == o {
		return
	}
	s.logger.Debug().Stringer("from", s.overlay).Stringer("to", o).Msg("overlay changed")
	s.overlay = o
}

// resetState returns every entity to its empty value. Tasks must already be
// stopped.
func (s *Session) resetState() {
	s.id = uuid.New()
	s.cart.Reset()
	s.step = StepScanning
	s.overlay = OverlayNone
	s.coupon = ""
	s.couponError = ""
	s.pointsMethod = model.MembershipNone
	s.pointsError = ""
	s.membership = model.Membership{}
	s.tab = payment.TabCard
	s.cardProgress = 0
	s.payment = nil
	s.receipt = nil
}

func (s *Session) stopTasks() {
	s.stopCardTasks()
	if s.refocus != nil {
		s.refocus.Stop()
		s.refocus = nil
	}
}
