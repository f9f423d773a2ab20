package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"cofoundr_server/models"
	"cofoundr_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// VerificationService owns identity verification requests. Payments
// open them; admins resolve them. Approval re-stamps every locked match
// involving the user to VERIFIED.
type VerificationService struct {
	Dynamo   *DynamoService
	Matches  *MatchService
	Profiles *UserProfileService
	Notifier *NotificationService
	Audit    *AuditService
}

// GetVerification retrieves a verification request by id.
func (s *VerificationService) GetVerification(ctx context.Context, verificationID string) (*models.VerificationRequest, error) {
	key := map[string]types.AttributeValue{
		"verificationId": &types.AttributeValueMemberS{Value: verificationID},
	}
	item, err := s.Dynamo.GetItem(ctx, models.VerificationRequestsTable, key)
	if err != nil {
		if err == ErrItemNotFound {
			return nil, models.NewServiceError(models.CodeNotFound, fmt.Sprintf("verification %s not found", verificationID))
		}
		return nil, err
	}

	var verification models.VerificationRequest
	if err := attributevalue.UnmarshalMap(item, &verification); err != nil {
		return nil, fmt.Errorf("failed to unmarshal verification %s: %w", verificationID, err)
	}
	return &verification, nil
}

// EnsureRequest creates a pending verification request tied to a
// payment if one does not exist yet. Safe to call on webhook replay.
func (s *VerificationService) EnsureRequest(ctx context.Context, userID, paymentID string) error {
	var existing []models.VerificationRequest
	err := s.Dynamo.ScanWithFilter(ctx, models.VerificationRequestsTable, func(item map[string]types.AttributeValue) bool {
		return utils.ExtractString(item, "paymentId") == paymentID
	}, &existing)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	verification := models.VerificationRequest{
		VerificationID: uuid.NewString(),
		UserID:         userID,
		PaymentID:      paymentID,
		Status:         models.VerificationStatusPending,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
	}

	if err := s.Dynamo.PutItem(ctx, models.VerificationRequestsTable, verification); err != nil {
		return fmt.Errorf("failed to create verification request: %w", err)
	}

	log.Printf("✅ Verification request %s opened for %s", verification.VerificationID, userID)
	return nil
}

// Decide resolves a pending verification. Approval re-stamps the user's
// locked matches to VERIFIED.
func (s *VerificationService) Decide(ctx context.Context, adminID, verificationID, decision string) (*models.VerificationRequest, error) {
	if decision != models.VerificationStatusApproved && decision != models.VerificationStatusRejected {
		return nil, models.NewServiceError(models.CodeValidation, "decision must be approved or rejected")
	}

	if _, err := s.Profiles.RequireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	verification, err := s.GetVerification(ctx, verificationID)
	if err != nil {
		return nil, err
	}
	if verification.Status != models.VerificationStatusPending {
		return nil, models.NewServiceError(models.CodeAlreadyHandled,
			fmt.Sprintf("verification is already %s", verification.Status))
	}

	if decision == models.VerificationStatusApproved {
		if err := s.Matches.StampVerified(ctx, verification.UserID); err != nil {
			return nil, err
		}
	}

	verification.Status = decision
	verification.AdminID = adminID
	verification.DecidedAt = time.Now().UTC().Format(time.RFC3339)
	if err := s.Dynamo.PutItem(ctx, models.VerificationRequestsTable, verification); err != nil {
		return nil, fmt.Errorf("failed to record verification decision: %w", err)
	}

	log.Printf("⚖️ Verification %s %s by admin %s", verificationID, decision, adminID)
	s.Audit.Record(ctx, adminID, "verification."+decision, "verification", verificationID, "")
	s.Notifier.Notify(ctx, verification.UserID, models.NotificationTypeVerification,
		fmt.Sprintf("Your verification was %s", decision),
		map[string]string{"verificationId": verificationID})

	return verification, nil
}
