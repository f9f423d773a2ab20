package models

// MatchCancellationRequest unwinds a locked match. The requester opens
// it, the recipient accepts or declines, and an accepted request is
// adjudicated by an admin.
type MatchCancellationRequest struct {
	CancellationID string `dynamodbav:"cancellationId" json:"cancellationId"`
	MatchID        string `dynamodbav:"matchId" json:"matchId"`
	RequesterID    string `dynamodbav:"requesterId" json:"requesterId"`
	RecipientID    string `dynamodbav:"recipientId" json:"recipientId"`
	Status         string `dynamodbav:"status" json:"status"`
	Reason         string `dynamodbav:"reason" json:"reason"`
	Response       string `dynamodbav:"response,omitempty" json:"response,omitempty"`
	AdminID        string `dynamodbav:"adminId,omitempty" json:"adminId,omitempty"`
	AdminNote      string `dynamodbav:"adminNote,omitempty" json:"adminNote,omitempty"`
	CreatedAt      string `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt      string `dynamodbav:"updatedAt" json:"updatedAt"`
}

// IsTerminal reports whether the cancellation can no longer move.
func (c *MatchCancellationRequest) IsTerminal() bool {
	switch c.Status {
	case CancellationStatusDeclined, CancellationStatusApproved, CancellationStatusRejected:
		return true
	}
	return false
}

// MatchCancellationsTable is the DynamoDB table name for cancellation requests
const MatchCancellationsTable = "MatchCancellations"
