package checkout

import "kiosk-checkout/internal/model"

// focusTarget derives which input should own the scanner.
func (s *Session) focusTarget() FocusTarget {
	switch s.step {
	case StepScanning:
		switch s.overlay {
		case OverlayNone:
			return FocusScan
		case OverlayCouponScan:
			return FocusCoupon
		}
	case StepPoints:
		if s.overlay != OverlayNone {
			return FocusNone
		}
		switch s.pointsMethod {
		case model.MembershipPhone:
			return FocusPhone
		case model.MembershipBarcode:
			return FocusPointsBarcode
		}
	}
	return FocusNone
}

func (s *Session) startRefocus() {
	s.refocus = s.scheduler.Every(s.timing.RefocusInterval, s.refocusTick)
}

func (s *Session) refocusTick() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	target := s.focusTarget()
	s.mu.Unlock()

	if target != FocusNone {
		s.onFocus(target)
	}
}

func (s *Session) startCardInsert() {
	s.stopCardTasks()
	s.cardGen++
	gen := s.cardGen
	s.cardProgress = 0
	s.setOverlay(OverlayCardInsert)

	s.cardTick = s.scheduler.Every(s.timing.CardInsertTick, func() { s.cardInsertTick(gen) })
	s.logger.Debug().Msg("card insertion started")
}

func (s *Session) cardInsertTick(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.cardGen || s.overlay != OverlayCardInsert || s.cardProgress >= progressComplete {
		return
	}

	s.cardProgress = min(s.cardProgress+s.timing.CardInsertStep, progressComplete)
	if s.cardProgress < progressComplete {
		return
	}

	if s.cardTick != nil {
		s.cardTick.Stop()
		s.cardTick = nil
	}
	s.cardDone = s.scheduler.After(s.timing.CardCompletionDelay, func() { s.cardInsertDone(gen) })
}

func (s *Session) cardInsertDone(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.cardGen || s.overlay != OverlayCardInsert || s.step != StepPayment {
		return
	}
	s.cardDone = nil

	if err := s.completePayment(cardMethod); err != nil {
		s.logger.Error().Err(err).Msg("card payment failed")
	}
}

// cancelCardInsert discards progress and returns to payment selection.
func (s *Session) cancelCardInsert() {
	s.stopCardTasks()
	s.cardGen++
	s.cardProgress = 0
	s.setOverlay(OverlayNone)
	s.logger.Debug().Msg("card insertion cancelled")
}

func (s *Session) stopCardTasks() {
	if s.cardTick != nil {
		s.cardTick.Stop()
		s.cardTick = nil
	}
	if s.cardDone != nil {
		s.cardDone.Stop()
		s.cardDone = nil
	}
}
