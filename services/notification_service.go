package services

import (
	"context"
	"log"
	"time"

	"cofoundr_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Emitter pushes an event to a connected user. The socket gateway
// implements it; a nil Emitter means persistence only.
type Emitter interface {
	EmitToUser(userID, event string, payload interface{})
}

// NotificationService persists per-user notifications and pushes them
// over the socket gateway when the user is connected. Delivery is best
// effort: a failed notification never fails the triggering operation.
type NotificationService struct {
	Dynamo  *DynamoService
	Emitter Emitter
}

// Notify stores a notification for a user and emits it.
func (s *NotificationService) Notify(ctx context.Context, userID, notificationType, message string, data map[string]string) {
	notification := models.Notification{
		UserID:    userID,
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
		Type:      notificationType,
		Message:   message,
		Data:      data,
	}

	if err := s.Dynamo.PutItem(ctx, models.NotificationsTable, notification); err != nil {
		log.Printf("⚠️ Failed to persist notification for %s: %v", userID, err)
		return
	}

	if s.Emitter != nil {
		s.Emitter.EmitToUser(userID, "notification", notification)
	}
}

// NotifyMany fans a notification out to several users.
func (s *NotificationService) NotifyMany(ctx context.Context, userIDs []string, notificationType, message string, data map[string]string) {
	for _, userID := range userIDs {
		s.Notify(ctx, userID, notificationType, message, data)
	}
}

// ListNotifications returns a user's notifications, newest first by key order.
func (s *NotificationService) ListNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	keyCondition := "userId = :userId"
	expressionValues := map[string]types.AttributeValue{
		":userId": &types.AttributeValueMemberS{Value: userID},
	}

	items, err := s.Dynamo.QueryItems(ctx, models.NotificationsTable, keyCondition, expressionValues, nil, 100)
	if err != nil {
		return nil, err
	}

	var notifications []models.Notification
	if err := attributevalue.UnmarshalListOfMaps(items, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkSeen flags a single notification as seen.
func (s *NotificationService) MarkSeen(ctx context.Context, userID, createdAt string) error {
	updateExpression := "SET seen = :seen"
	key := map[string]types.AttributeValue{
		"userId":    &types.AttributeValueMemberS{Value: userID},
		"createdAt": &types.AttributeValueMemberS{Value: createdAt},
	}
	expressionValues := map[string]types.AttributeValue{
		":seen": &types.AttributeValueMemberBOOL{Value: true},
	}

	_, err := s.Dynamo.UpdateItem(ctx, models.NotificationsTable, updateExpression, key, expressionValues, nil)
	return err
}
