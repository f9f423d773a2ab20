package models

// VerificationRequest is created when a verification payment succeeds
// and resolved by an admin. Approval re-stamps every locked match
// involving the user to VERIFIED.
type VerificationRequest struct {
	VerificationID string `dynamodbav:"verificationId" json:"verificationId"`
	UserID         string `dynamodbav:"userId" json:"userId"`
	PaymentID      string `dynamodbav:"paymentId" json:"paymentId"`
	Status         string `dynamodbav:"status" json:"status"`
	AdminID        string `dynamodbav:"adminId,omitempty" json:"adminId,omitempty"`
	CreatedAt      string `dynamodbav:"createdAt" json:"createdAt"`
	DecidedAt      string `dynamodbav:"decidedAt,omitempty" json:"decidedAt,omitempty"`
}

// VerificationRequestsTable is the DynamoDB table name for verification requests
const VerificationRequestsTable = "VerificationRequests"
