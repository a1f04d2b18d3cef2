package checkout

import "fmt"

// Step is the primary checkout stage. It only moves backwards through
// Previous and NewTransaction.
type Step int

const (
	StepScanning Step = iota + 1
	StepPoints
	StepPayment
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepScanning:
		return "scanning"
	case StepPoints:
		return "points"
	case StepPayment:
		return "payment"
	case StepDone:
		return "done"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// MarshalText encodes the step by name.
func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Overlay is a dialog shown on top of the current step. At most one is open.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayHelp
	OverlayProduce
	OverlayBag
	OverlayCouponScan
	OverlayCardInsert
)

var overlayNames = map[Overlay]string{
	OverlayNone:       "none",
	OverlayHelp:       "help",
	OverlayProduce:    "produce",
	OverlayBag:        "bag",
	OverlayCouponScan: "coupon",
	OverlayCardInsert: "card-insert",
}

func (o Overlay) String() string {
	if name, ok := overlayNames[o]; ok {
		return name
	}
	return fmt.Sprintf("overlay(%d)", int(o))
}

// MarshalText encodes the overlay by name.
func (o Overlay) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// ParseOverlay resolves the name of a shopper-openable overlay.
func ParseOverlay(name string) (Overlay, error) {
	for o, n := range overlayNames {
		if n == name && o.userOpenable() {
			return o, nil
		}
	}
	return OverlayNone, fmt.Errorf("unknown overlay %q", name)
}

// ValidIn reports whether the overlay may be shown during step s.
func (o Overlay) ValidIn(s Step) bool {
	switch o {
	case OverlayNone:
		return true
	case OverlayHelp:
		return s != StepDone
	case OverlayProduce, OverlayBag, OverlayCouponScan:
		return s == StepScanning
	case OverlayCardInsert:
		return s == StepPayment
	}
	return false
}

// userOpenable excludes overlays that only open as part of another action.
func (o Overlay) userOpenable() bool {
	switch o {
	case OverlayHelp, OverlayProduce, OverlayBag, OverlayCouponScan:
		return true
	}
	return false
}

// FocusTarget names the input that owns the barcode scanner.
type FocusTarget string

const (
	FocusNone          FocusTarget = ""
	FocusScan          FocusTarget = "scan"
	FocusCoupon        FocusTarget = "coupon"
	FocusPhone         FocusTarget = "phone"
	FocusPointsBarcode FocusTarget = "points-barcode"
)
