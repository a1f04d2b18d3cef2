package model

// MembershipMethod identifies how a loyalty identifier was captured.
type MembershipMethod string

const (
	MembershipNone    MembershipMethod = ""
	MembershipPhone   MembershipMethod = "phone"
	MembershipBarcode MembershipMethod = "barcode"
	MembershipSensing MembershipMethod = "sensing"
	MembershipCredit  MembershipMethod = "credit"
)

// Valid reports whether m is one of the selectable enrollment methods.
func (m MembershipMethod) Valid() bool {
	switch m {
	case MembershipPhone, MembershipBarcode, MembershipSensing, MembershipCredit:
		return true
	}
	return false
}

// Membership is the loyalty identifier attached to the current transaction.
type Membership struct {
	Method     MembershipMethod `json:"method"`
	Identifier string           `json:"identifier"`
}

// IsZero reports whether no membership was recorded.
func (m Membership) IsZero() bool {
	return m.Identifier == ""
}
