package models

// Notification is a persisted per-user event, keyed by userId with
// createdAt as the sort key.
type Notification struct {
	UserID    string            `dynamodbav:"userId" json:"userId"`
	CreatedAt string            `dynamodbav:"createdAt" json:"createdAt"`
	Type      string            `dynamodbav:"type" json:"type"`
	Message   string            `dynamodbav:"message" json:"message"`
	Data      map[string]string `dynamodbav:"data,omitempty" json:"data,omitempty"`
	Seen      bool              `dynamodbav:"seen" json:"seen"`
}

// Notification types
const (
	NotificationTypeRequest      = "match_request"
	NotificationTypeResponse     = "match_response"
	NotificationTypeMatch        = "match"
	NotificationTypePayment      = "payment"
	NotificationTypeTeam         = "team"
	NotificationTypeCancellation = "cancellation"
	NotificationTypeVerification = "verification"
)

// NotificationsTable is the DynamoDB table name for notifications
const NotificationsTable = "Notifications"
