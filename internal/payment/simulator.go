package payment

import (
	"fmt"
	"math/rand/v2"
	"time"

	"kiosk-checkout/internal/model"

	"github.com/rs/zerolog"
)

// Result is a fabricated authorization. It is never mutated once created.
type Result struct {
	Method          string    `json:"method"`
	ReferenceSuffix string    `json:"referenceSuffix"`
	AuthorizedAt    time.Time `json:"authorizedAt"`
}

// MaskedReference renders the reference the way it is printed on receipts.
func (r Result) MaskedReference() string {
	return "****" + r.ReferenceSuffix
}

// Simulator authorizes payments without any network call.
type Simulator interface {
	// Authorize always succeeds for a known method label.
	Authorize(method string) (Result, error)
}

// Option configures the simulator.
type Option func(*simulator)

// WithReferenceSource overrides the generator of the 4-digit reference.
// The function must return a value in [1000, 9999].
func WithReferenceSource(next func() int) Option {
	return func(s *simulator) {
		s.nextReference = next
	}
}

// WithClock overrides the authorization timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *simulator) {
		s.now = now
	}
}

type simulator struct {
	nextReference func() int
	now           func() time.Time
	logger        zerolog.Logger
}

// NewSimulator creates a payment simulator.
func NewSimulator(logger zerolog.Logger, opts ...Option) Simulator {
	s := &simulator{
		nextReference: func() int { return 1000 + rand.IntN(9000) },
		now:           time.Now,
		logger:        logger.With().Str("component", "payment-simulator").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Authorize fabricates an approval for method.
func (s *simulator) Authorize(method string) (Result, error) {
	if _, ok := LookupMethod(method); !ok {
		s.logger.Debug().Str("method", method).Msg("unknown payment method")
		return Result{}, model.ErrUnknownPayment
	}

	result := Result{
		Method:          method,
		ReferenceSuffix: fmt.Sprintf("%04d", s.nextReference()),
		AuthorizedAt:    s.now(),
	}

	s.logger.Info().
		Str("method", method).
		Str("reference", result.MaskedReference()).
		Msg("payment approved")

	return result, nil
}
