// Package points validates loyalty enrollment input and builds the
// identifier recorded for each enrollment method.
package points

import (
	"regexp"
	"strings"

	"kiosk-checkout/internal/model"
)

// Korean mobile prefixes followed by a 7 or 8 digit subscriber number.
var mobilePattern = regexp.MustCompile(`^(010|011|016|017|018|019)\d{7,8}$`)

var nonDigits = regexp.MustCompile(`\D+`)

// Fixed identifiers for methods that do not carry shopper input.
const (
	SensingIdentifier = "CARD-SENSE"
	CreditIdentifier  = "COBRANDED-CC"
	barcodePrefix     = "BAR:"
)

// DigitsOnly strips every non-digit character.
func DigitsOnly(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// ValidPhone reports whether s, ignoring separators, is a Korean mobile number.
func ValidPhone(s string) bool {
	return mobilePattern.MatchString(DigitsOnly(s))
}

// Phone builds a phone membership or returns model.ErrInvalidPhone.
func Phone(input string) (model.Membership, error) {
	if !ValidPhone(input) {
		return model.Membership{}, model.ErrInvalidPhone
	}
	return model.Membership{Method: model.MembershipPhone, Identifier: DigitsOnly(input)}, nil
}

// Barcode builds a membership from a scanned loyalty barcode. ok is false
// for blank input.
func Barcode(value string) (m model.Membership, ok bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return model.Membership{}, false
	}
	return model.Membership{Method: model.MembershipBarcode, Identifier: barcodePrefix + value}, true
}

// Sensed builds the membership for a recognised contactless points card.
func Sensed() model.Membership {
	return model.Membership{Method: model.MembershipSensing, Identifier: SensingIdentifier}
}

// CoBrandedCard builds the membership for a linked co-branded credit card.
func CoBrandedCard() model.Membership {
	return model.Membership{Method: model.MembershipCredit, Identifier: CreditIdentifier}
}
