package services

import (
	"context"
	"fmt"
	"time"

	"cofoundr_server/config"
	"cofoundr_server/models"
	"cofoundr_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// UserProfileService owns founder profiles. Each profile is mutated only
// by its own user's save operation (admin flag aside).
type UserProfileService struct {
	Dynamo *DynamoService
	Config *config.AppConfig
}

// GetProfile retrieves a founder profile by user id.
func (s *UserProfileService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
	item, err := s.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if err != nil {
		if err == ErrItemNotFound {
			return nil, models.NewServiceError(models.CodeNotFound, fmt.Sprintf("profile not found for user %s", userID))
		}
		return nil, err
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile for %s: %w", userID, err)
	}
	return &profile, nil
}

// SaveProfile creates or replaces the caller's own profile.
func (s *UserProfileService) SaveProfile(ctx context.Context, callerID string, profile *models.UserProfile) error {
	if profile.UserID == "" {
		return models.NewServiceError(models.CodeValidation, "userId is required")
	}
	if profile.UserID != callerID {
		return models.NewServiceError(models.CodeForbidden, "a profile can only be saved by its owner")
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if profile.CreatedAt == "" {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now
	return s.Dynamo.PutItem(ctx, models.UserProfilesTable, profile)
}

// EffectiveMatchLimit resolves the per-user active-match cap: the stored
// limit if one has been purchased, the configured base otherwise.
func (s *UserProfileService) EffectiveMatchLimit(profile *models.UserProfile) int {
	if profile.MatchLimit > 0 {
		return profile.MatchLimit
	}
	return s.Config.BaseMatchLimit
}

// IncreaseMatchLimit raises a user's match limit by the configured
// increment. Callers guard idempotency; this applies the raise once.
func (s *UserProfileService) IncreaseMatchLimit(ctx context.Context, userID string) (int, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return 0, err
	}

	newLimit := s.EffectiveMatchLimit(profile) + s.Config.MatchLimitIncrement
	updateExpression := "SET matchLimit = :limit, updatedAt = :now"
	_, err = s.Dynamo.UpdateItem(ctx, models.UserProfilesTable, updateExpression,
		map[string]types.AttributeValue{"userId": &types.AttributeValueMemberS{Value: userID}},
		map[string]types.AttributeValue{
			":limit": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", newLimit)},
			":now":   &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
		}, nil,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to raise match limit for %s: %w", userID, err)
	}
	return newLimit, nil
}

// RequireAdmin resolves a profile and fails with FORBIDDEN unless it
// carries the admin flag.
func (s *UserProfileService) RequireAdmin(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !profile.IsAdmin {
		return nil, models.NewServiceError(models.CodeForbidden, "admin role required")
	}
	return profile, nil
}

// ListAdmins returns every profile carrying the admin flag.
func (s *UserProfileService) ListAdmins(ctx context.Context) ([]models.UserProfile, error) {
	var admins []models.UserProfile
	err := s.Dynamo.ScanWithFilter(ctx, models.UserProfilesTable, func(item map[string]types.AttributeValue) bool {
		return utils.ExtractBool(item, "isAdmin")
	}, &admins)
	if err != nil {
		return nil, err
	}
	return admins, nil
}

// ListProfiles returns every stored profile. Suggestion filtering is
// applied by the caller.
func (s *UserProfileService) ListProfiles(ctx context.Context) ([]models.UserProfile, error) {
	var profiles []models.UserProfile
	if err := s.Dynamo.ScanWithFilter(ctx, models.UserProfilesTable, nil, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}
