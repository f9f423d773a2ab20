package models

// Founder roles (7 categories)
const (
	RoleTechnical  = "technical"
	RoleBusiness   = "business"
	RoleProduct    = "product"
	RoleDesign     = "design"
	RoleMarketing  = "marketing"
	RoleOperations = "operations"
	RoleFinance    = "finance"
)

// Commitment levels, ordered from least to most committed
const (
	CommitmentExploring = "exploring"
	CommitmentWeekends  = "weekends"
	CommitmentPartTime  = "part-time"
	CommitmentFullTime  = "full-time"
)

// CommitmentOrdinal maps a commitment level to its position on the
// exploring < weekends < part-time < full-time scale. Unknown levels map to -1.
func CommitmentOrdinal(level string) int {
	switch level {
	case CommitmentExploring:
		return 0
	case CommitmentWeekends:
		return 1
	case CommitmentPartTime:
		return 2
	case CommitmentFullTime:
		return 3
	default:
		return -1
	}
}

// Match request statuses
const (
	RequestStatusPending   = "pending"
	RequestStatusAccepted  = "accepted"
	RequestStatusDeclined  = "declined"
	RequestStatusExpired   = "expired"
	RequestStatusCancelled = "cancelled"
	RequestStatusMatched   = "matched"
)

// Match states. The payment flow creates matches directly in UNLOCKED,
// since both sides have paid by the time the row exists. OPEN is the
// pre-payment state used by rows seeded from admin tooling; the unlock
// payment effect and suggestion re-scoring handle it.
const (
	MatchStateOpen      = "OPEN"
	MatchStateUnlocked  = "UNLOCKED"
	MatchStateLocked    = "LOCKED"
	MatchStateVerified  = "VERIFIED"
	MatchStateCancelled = "CANCELLED"
)

// Per-user match decisions
const (
	DecisionAccepted = "accepted"
	DecisionRejected = "rejected"
	DecisionUnset    = "unset"
)

// Payment types
const (
	PaymentTypeUnlock       = "unlock"
	PaymentTypeVerification = "verification"
	PaymentTypeSubscription = "subscription"
	PaymentTypeMatch        = "match"
	PaymentTypeMatchLimit   = "match_limit"
)

// Payment statuses
const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
)

// Team statuses
const (
	TeamStatusForming = "forming"
	TeamStatusLocked  = "locked"
)

// Cancellation request statuses
const (
	CancellationStatusPending  = "pending"
	CancellationStatusAccepted = "accepted"
	CancellationStatusDeclined = "declined"
	CancellationStatusApproved = "approved"
	CancellationStatusRejected = "rejected"
)

// Verification request statuses
const (
	VerificationStatusPending  = "pending"
	VerificationStatusApproved = "approved"
	VerificationStatusRejected = "rejected"
)
