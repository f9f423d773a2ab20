package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"cofoundr_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// SubscriptionService owns premium subscriptions, keyed per user.
type SubscriptionService struct {
	Dynamo *DynamoService
}

// Activate upserts an active subscription with a one-month expiry from
// now. Called by the payment confirmation handler.
func (s *SubscriptionService) Activate(ctx context.Context, userID, paymentID string) error {
	now := time.Now().UTC()
	subscription := models.Subscription{
		UserID:    userID,
		PaymentID: paymentID,
		Active:    true,
		StartedAt: now.Format(time.RFC3339),
		ExpiresAt: now.AddDate(0, 1, 0).Format(time.RFC3339),
	}

	if err := s.Dynamo.PutItem(ctx, models.SubscriptionsTable, subscription); err != nil {
		return fmt.Errorf("failed to activate subscription for %s: %w", userID, err)
	}

	log.Printf("✅ Subscription active for %s until %s", userID, subscription.ExpiresAt)
	return nil
}

// GetSubscription returns the user's subscription, or nil.
func (s *SubscriptionService) GetSubscription(ctx context.Context, userID string) (*models.Subscription, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
	item, err := s.Dynamo.GetItem(ctx, models.SubscriptionsTable, key)
	if err != nil {
		if err == ErrItemNotFound {
			return nil, nil
		}
		return nil, err
	}

	var subscription models.Subscription
	if err := attributevalue.UnmarshalMap(item, &subscription); err != nil {
		return nil, fmt.Errorf("failed to unmarshal subscription for %s: %w", userID, err)
	}
	return &subscription, nil
}

// IsActive reports whether the user has an unexpired subscription.
func (s *SubscriptionService) IsActive(ctx context.Context, userID string) (bool, error) {
	subscription, err := s.GetSubscription(ctx, userID)
	if err != nil {
		return false, err
	}
	if subscription == nil || !subscription.Active {
		return false, nil
	}

	expiresAt, err := time.Parse(time.RFC3339, subscription.ExpiresAt)
	if err != nil {
		return false, nil
	}
	return time.Now().UTC().Before(expiresAt), nil
}
