package models

// Subscription is a premium subscription, upserted per user when a
// subscription payment succeeds. Expiry is one month from activation.
type Subscription struct {
	UserID    string `dynamodbav:"userId" json:"userId"`
	PaymentID string `dynamodbav:"paymentId" json:"paymentId"`
	Active    bool   `dynamodbav:"active" json:"active"`
	StartedAt string `dynamodbav:"startedAt" json:"startedAt"`
	ExpiresAt string `dynamodbav:"expiresAt" json:"expiresAt"`
}

// SubscriptionsTable is the DynamoDB table name for subscriptions
const SubscriptionsTable = "Subscriptions"
