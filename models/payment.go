package models

// Payment records a single provider transaction. The table is keyed by
// the provider reference so webhook callbacks resolve in one read.
// Metadata carries the correlation ids the confirmation handler needs,
// and Processed is the idempotency marker that keeps redelivered
// webhooks from re-applying side effects.
type Payment struct {
	Reference  string            `dynamodbav:"reference" json:"reference"`
	PaymentID  string            `dynamodbav:"paymentId" json:"paymentId"`
	UserID     string            `dynamodbav:"userId" json:"userId"`
	Amount     int64             `dynamodbav:"amount" json:"amount"` // minor units (kobo)
	Currency   string            `dynamodbav:"currency" json:"currency"`
	Type       string            `dynamodbav:"type" json:"type"`
	Status     string            `dynamodbav:"status" json:"status"`
	Provider   string            `dynamodbav:"provider" json:"provider"`
	Metadata   map[string]string `dynamodbav:"metadata,omitempty" json:"metadata,omitempty"`
	Processed  bool              `dynamodbav:"processed" json:"processed"`
	CreatedAt  string            `dynamodbav:"createdAt" json:"createdAt"`
	VerifiedAt string            `dynamodbav:"verifiedAt,omitempty" json:"verifiedAt,omitempty"`
}

// Meta returns a metadata value or "".
func (p *Payment) Meta(key string) string {
	if p.Metadata == nil {
		return ""
	}
	return p.Metadata[key]
}

// Metadata keys used for correlation
const (
	MetaRequestID = "requestId"
	MetaMatchID   = "matchId"
	MetaPayerID   = "payerId"
)

// PaymentsTable is the DynamoDB table name for payments
const PaymentsTable = "Payments"
