package models

// MatchRequest is a contact request from one founder to another. At most
// one non-terminal request may exist per unordered user pair; the pairId
// attribute backs that check via the PairIndex GSI.
type MatchRequest struct {
	RequestID           string `dynamodbav:"requestId" json:"requestId"`
	PairID              string `dynamodbav:"pairId" json:"pairId"`
	RequesterID         string `dynamodbav:"requesterId" json:"requesterId"`
	RecipientID         string `dynamodbav:"recipientId" json:"recipientId"`
	Status              string `dynamodbav:"status" json:"status"`
	Score               int    `dynamodbav:"score" json:"score"`
	RequesterPaid       bool   `dynamodbav:"requesterPaid" json:"requesterPaid"`
	RecipientPaid       bool   `dynamodbav:"recipientPaid" json:"recipientPaid"`
	RequesterPaymentRef string `dynamodbav:"requesterPaymentRef,omitempty" json:"requesterPaymentRef,omitempty"`
	RecipientPaymentRef string `dynamodbav:"recipientPaymentRef,omitempty" json:"recipientPaymentRef,omitempty"`
	CreatedAt           string `dynamodbav:"createdAt" json:"createdAt"`
	ExpiresAt           string `dynamodbav:"expiresAt" json:"expiresAt"`
	AcceptedAt          string `dynamodbav:"acceptedAt,omitempty" json:"acceptedAt,omitempty"`
	MatchedAt           string `dynamodbav:"matchedAt,omitempty" json:"matchedAt,omitempty"`
}

// IsParty reports whether the given user is one of the two sides of the
// request.
func (r *MatchRequest) IsParty(userID string) bool {
	return r.RequesterID == userID || r.RecipientID == userID
}

// OtherParty returns the counterpart of the given user on this request.
func (r *MatchRequest) OtherParty(userID string) string {
	if r.RequesterID == userID {
		return r.RecipientID
	}
	return r.RequesterID
}

// MatchRequestsTable is the DynamoDB table name for match requests
const MatchRequestsTable = "MatchRequests"

// GSI names on MatchRequests
const (
	RequesterIndex = "requesterId-index"
	RecipientIndex = "recipientId-index"
	PairIndex      = "pairId-index"
)
