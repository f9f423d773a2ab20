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

// CancellationService unwinds locked matches: requester consent, then
// recipient consent, then admin adjudication.
type CancellationService struct {
	Dynamo   *DynamoService
	Matches  *MatchService
	Teams    *TeamService
	Profiles *UserProfileService
	Notifier *NotificationService
	Audit    *AuditService
}

// GetCancellation retrieves a cancellation request by id.
func (s *CancellationService) GetCancellation(ctx context.Context, cancellationID string) (*models.MatchCancellationRequest, error) {
	key := map[string]types.AttributeValue{
		"cancellationId": &types.AttributeValueMemberS{Value: cancellationID},
	}
	item, err := s.Dynamo.GetItem(ctx, models.MatchCancellationsTable, key)
	if err != nil {
		if err == ErrItemNotFound {
			return nil, models.NewServiceError(models.CodeNotFound, fmt.Sprintf("cancellation %s not found", cancellationID))
		}
		return nil, err
	}

	var cancellation models.MatchCancellationRequest
	if err := attributevalue.UnmarshalMap(item, &cancellation); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cancellation %s: %w", cancellationID, err)
	}
	return &cancellation, nil
}

// openCancellationFor returns a non-terminal cancellation for the
// match, or nil.
func (s *CancellationService) openCancellationFor(ctx context.Context, matchID string) (*models.MatchCancellationRequest, error) {
	var cancellations []models.MatchCancellationRequest
	err := s.Dynamo.ScanWithFilter(ctx, models.MatchCancellationsTable, func(item map[string]types.AttributeValue) bool {
		return utils.ExtractString(item, "matchId") == matchID
	}, &cancellations)
	if err != nil {
		return nil, err
	}

	for i := range cancellations {
		if !cancellations[i].IsTerminal() {
			return &cancellations[i], nil
		}
	}
	return nil, nil
}

// RequestCancellation opens a cancellation against a LOCKED or VERIFIED
// match. Fails if a non-terminal cancellation already exists.
func (s *CancellationService) RequestCancellation(ctx context.Context, userID, matchID, reason string) (*models.MatchCancellationRequest, error) {
	if reason == "" {
		return nil, models.NewServiceError(models.CodeValidation, "a reason is required")
	}

	match, err := s.Matches.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.Involves(userID) {
		return nil, models.NewServiceError(models.CodeForbidden, "caller is not a member of this match")
	}
	if match.State != models.MatchStateLocked && match.State != models.MatchStateVerified {
		return nil, models.NewServiceError(models.CodeInvalidState,
			fmt.Sprintf("only a LOCKED or VERIFIED match can be cancelled, is %s", match.State))
	}

	existing, err := s.openCancellationFor(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewServiceError(models.CodeAlreadyHandled,
			"a cancellation request is already open for this match")
	}

	now := time.Now().UTC().Format(time.RFC3339)
	cancellation := &models.MatchCancellationRequest{
		CancellationID: uuid.NewString(),
		MatchID:        matchID,
		RequesterID:    userID,
		RecipientID:    match.OtherUser(userID),
		Status:         models.CancellationStatusPending,
		Reason:         reason,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.Dynamo.PutItem(ctx, models.MatchCancellationsTable, cancellation); err != nil {
		return nil, fmt.Errorf("failed to create cancellation: %w", err)
	}

	log.Printf("✅ Cancellation %s opened for match %s by %s", cancellation.CancellationID, matchID, userID)
	s.Notifier.Notify(ctx, cancellation.RecipientID, models.NotificationTypeCancellation,
		"Your match partner has requested a cancellation",
		map[string]string{"cancellationId": cancellation.CancellationID, "matchId": matchID})

	return cancellation, nil
}

// RespondToCancellation records the recipient's consent. Declining is
// terminal; accepting hands the request to the admins.
func (s *CancellationService) RespondToCancellation(ctx context.Context, userID, cancellationID, decision, response string) (*models.MatchCancellationRequest, error) {
	if decision != models.CancellationStatusAccepted && decision != models.CancellationStatusDeclined {
		return nil, models.NewServiceError(models.CodeValidation, "decision must be accepted or declined")
	}

	cancellation, err := s.GetCancellation(ctx, cancellationID)
	if err != nil {
		return nil, err
	}
	if cancellation.RecipientID != userID {
		return nil, models.NewServiceError(models.CodeForbidden, "only the addressed recipient may respond")
	}
	if !models.CanTransitionCancellation(cancellation.Status, decision) {
		return nil, models.NewServiceError(models.CodeAlreadyHandled,
			fmt.Sprintf("cancellation is already %s", cancellation.Status))
	}

	previous := cancellation.Status
	cancellation.Status = decision
	cancellation.Response = response
	cancellation.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	err = s.Dynamo.PutItemWithCondition(ctx, models.MatchCancellationsTable, cancellation,
		"#status = :expected",
		map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberS{Value: previous},
		},
		map[string]string{"#status": "status"},
	)
	if err == ErrConditionFailed {
		return nil, models.NewServiceError(models.CodeAlreadyHandled, "cancellation was handled concurrently")
	}
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Cancellation %s %s by %s", cancellationID, decision, userID)
	s.Notifier.Notify(ctx, cancellation.RequesterID, models.NotificationTypeCancellation,
		fmt.Sprintf("Your cancellation request was %s", decision),
		map[string]string{"cancellationId": cancellationID})

	if decision == models.CancellationStatusAccepted {
		admins, err := s.Profiles.ListAdmins(ctx)
		if err != nil {
			log.Printf("⚠️ Failed to list admins for cancellation %s: %v", cancellationID, err)
		} else {
			for _, admin := range admins {
				s.Notifier.Notify(ctx, admin.UserID, models.NotificationTypeCancellation,
					"A match cancellation awaits adjudication",
					map[string]string{"cancellationId": cancellationID})
			}
		}
	}

	return cancellation, nil
}

// DecideCancellation is the admin adjudication. Approval cancels the
// match and reverts any locked team containing both members to forming;
// rejection leaves the match untouched.
func (s *CancellationService) DecideCancellation(ctx context.Context, adminID, cancellationID, decision, note string) (*models.MatchCancellationRequest, error) {
	if decision != models.CancellationStatusApproved && decision != models.CancellationStatusRejected {
		return nil, models.NewServiceError(models.CodeValidation, "decision must be approved or rejected")
	}

	if _, err := s.Profiles.RequireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	cancellation, err := s.GetCancellation(ctx, cancellationID)
	if err != nil {
		return nil, err
	}
	if !models.CanTransitionCancellation(cancellation.Status, decision) {
		return nil, models.NewServiceError(models.CodeInvalidState,
			fmt.Sprintf("cancellation must be accepted before adjudication, is %s", cancellation.Status))
	}

	if decision == models.CancellationStatusApproved {
		if err := s.Matches.CancelMatch(ctx, adminID, cancellation.MatchID, cancellation.Reason); err != nil {
			return nil, err
		}
		if err := s.Teams.ReopenTeamFor(ctx, cancellation.RequesterID, cancellation.RecipientID); err != nil {
			return nil, err
		}
	}

	cancellation.Status = decision
	cancellation.AdminID = adminID
	cancellation.AdminNote = note
	cancellation.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	if err := s.Dynamo.PutItem(ctx, models.MatchCancellationsTable, cancellation); err != nil {
		return nil, fmt.Errorf("failed to record adjudication: %w", err)
	}

	log.Printf("⚖️ Cancellation %s %s by admin %s", cancellationID, decision, adminID)
	s.Audit.Record(ctx, adminID, "cancellation."+decision, "cancellation", cancellationID, note)
	s.Notifier.NotifyMany(ctx, []string{cancellation.RequesterID, cancellation.RecipientID},
		models.NotificationTypeCancellation,
		fmt.Sprintf("The cancellation request was %s", decision),
		map[string]string{"cancellationId": cancellationID, "matchId": cancellation.MatchID})

	return cancellation, nil
}
