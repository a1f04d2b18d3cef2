package payment

import "fmt"

// Tab groups payment methods on the payment panel.
type Tab string

const (
	TabCard   Tab = "card"
	TabMobile Tab = "mobile"
)

// ParseTab validates a tab name.
func ParseTab(name string) (Tab, error) {
	switch Tab(name) {
	case TabCard, TabMobile:
		return Tab(name), nil
	}
	return "", fmt.Errorf("unknown payment tab %q", name)
}

// Method labels offered by the kiosk.
const (
	MethodCard        = "Credit/Debit Card"
	MethodGiftVoucher = "Gift Voucher"
	MethodCashIC      = "Cash IC Card"
	MethodOnnuri      = "Onnuri Card"
	MethodSamsungPay  = "Samsung Pay"
	MethodNaverPay    = "Naver Pay"
	MethodKakaoPay    = "Kakao Pay"
	MethodApplePay    = "Apple Pay"
)

// Method is a selectable payment means.
type Method struct {
	Label string `json:"label"`
	Tab   Tab    `json:"tab"`
	// RequiresCardInsert is set for methods paid by inserting a physical card.
	RequiresCardInsert bool `json:"requiresCardInsert"`
}

var methods = []Method{
	{Label: MethodCard, Tab: TabCard, RequiresCardInsert: true},
	{Label: MethodGiftVoucher, Tab: TabCard},
	{Label: MethodCashIC, Tab: TabCard},
	{Label: MethodOnnuri, Tab: TabCard},
	{Label: MethodSamsungPay, Tab: TabMobile},
	{Label: MethodNaverPay, Tab: TabMobile},
	{Label: MethodKakaoPay, Tab: TabMobile},
	{Label: MethodApplePay, Tab: TabMobile},
}

// Methods lists every method in display order.
func Methods() []Method {
	out := make([]Method, len(methods))
	copy(out, methods)
	return out
}

// MethodsForTab lists the methods shown under a tab.
func MethodsForTab(tab Tab) []Method {
	var out []Method
	for _, m := range methods {
		if m.Tab == tab {
			out = append(out, m)
		}
	}
	return out
}

// LookupMethod finds a method by label.
func LookupMethod(label string) (Method, bool) {
	for _, m := range methods {
		if m.Label == label {
			return m, true
		}
	}
	return Method{}, false
}
