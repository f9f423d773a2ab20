package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"cofoundr_server/config"
	"cofoundr_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// RequestService owns the match request ledger: creation gates,
// responses, payment initiation and the lazy TTL expiry every read path
// goes through.
type RequestService struct {
	Dynamo   *DynamoService
	Config   *config.AppConfig
	Profiles *UserProfileService
	Matches  *MatchService
	Provider PaymentProvider
	Notifier *NotificationService
	Audit    *AuditService
}

// RequestList partitions a user's requests by direction.
type RequestList struct {
	Incoming []models.MatchRequest `json:"incoming"`
	Outgoing []models.MatchRequest `json:"outgoing"`
}

// GetRequest retrieves a request by id.
func (s *RequestService) GetRequest(ctx context.Context, requestID string) (*models.MatchRequest, error) {
	key := map[string]types.AttributeValue{
		"requestId": &types.AttributeValueMemberS{Value: requestID},
	}
	item, err := s.Dynamo.GetItem(ctx, models.MatchRequestsTable, key)
	if err != nil {
		if err == ErrItemNotFound {
			return nil, models.NewServiceError(models.CodeNotFound, fmt.Sprintf("request %s not found", requestID))
		}
		return nil, err
	}

	var request models.MatchRequest
	if err := attributevalue.UnmarshalMap(item, &request); err != nil {
		return nil, fmt.Errorf("failed to unmarshal request %s: %w", requestID, err)
	}
	return &request, nil
}

// resolveEffectiveStatus is the single expiry point: a pending request
// past its TTL is flipped to expired in the store and observed as
// expired by every caller. All read paths (list, respond, pay) resolve
// status through here.
func (s *RequestService) resolveEffectiveStatus(ctx context.Context, request *models.MatchRequest) string {
	if request.Status != models.RequestStatusPending {
		return request.Status
	}

	expiresAt, err := time.Parse(time.RFC3339, request.ExpiresAt)
	if err != nil || time.Now().UTC().Before(expiresAt) {
		return request.Status
	}

	request.Status = models.RequestStatusExpired
	err = s.Dynamo.PutItemWithCondition(ctx, models.MatchRequestsTable, request,
		"#status = :pending",
		map[string]types.AttributeValue{
			":pending": &types.AttributeValueMemberS{Value: models.RequestStatusPending},
		},
		map[string]string{"#status": "status"},
	)
	if err != nil && err != ErrConditionFailed {
		log.Printf("⚠️ Failed to persist expiry of request %s: %v", request.RequestID, err)
	}
	return models.RequestStatusExpired
}

// findNonTerminalForPair returns an existing pending/accepted/matched
// request for the unordered pair, in either direction.
func (s *RequestService) findNonTerminalForPair(ctx context.Context, user1, user2 string) (*models.MatchRequest, error) {
	keyCondition := "pairId = :pairId"
	expressionValues := map[string]types.AttributeValue{
		":pairId": &types.AttributeValueMemberS{Value: models.PairIDFor(user1, user2)},
	}

	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.MatchRequestsTable, models.PairIndex, keyCondition, expressionValues, nil, 25)
	if err != nil {
		return nil, err
	}

	var requests []models.MatchRequest
	if err := attributevalue.UnmarshalListOfMaps(items, &requests); err != nil {
		return nil, err
	}

	for i := range requests {
		if !models.IsTerminalRequestStatus(s.resolveEffectiveStatus(ctx, &requests[i])) {
			return &requests[i], nil
		}
	}
	return nil, nil
}

// countRecentRequests counts requests the user created in the trailing 24h.
func (s *RequestService) countRecentRequests(ctx context.Context, requesterID string) (int, error) {
	keyCondition := "requesterId = :requesterId"
	expressionValues := map[string]types.AttributeValue{
		":requesterId": &types.AttributeValueMemberS{Value: requesterID},
	}

	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.MatchRequestsTable, models.RequesterIndex, keyCondition, expressionValues, nil, 100)
	if err != nil {
		return 0, err
	}

	var requests []models.MatchRequest
	if err := attributevalue.UnmarshalListOfMaps(items, &requests); err != nil {
		return 0, err
	}

	cutoff := time.Now().UTC().Add(-24 * time.Hour)
	count := 0
	for _, request := range requests {
		createdAt, err := time.Parse(time.RFC3339, request.CreatedAt)
		if err == nil && createdAt.After(cutoff) {
			count++
		}
	}
	return count, nil
}

// checkMatchLimit fails with MATCH_LIMIT when the user's active-match
// count has reached their effective limit.
func (s *RequestService) checkMatchLimit(ctx context.Context, profile *models.UserProfile) error {
	active, err := s.Matches.ActiveMatchCount(ctx, profile.UserID)
	if err != nil {
		return err
	}
	if active >= s.Profiles.EffectiveMatchLimit(profile) {
		return models.NewServiceError(models.CodeMatchLimit,
			fmt.Sprintf("active match limit of %d reached", s.Profiles.EffectiveMatchLimit(profile)))
	}
	return nil
}

// CreateRequest opens a pending request from requester to recipient.
// Gates, in order: both profiles complete, no non-terminal request for
// the pair, daily creation limit, requester match limit, score threshold.
func (s *RequestService) CreateRequest(ctx context.Context, requesterID, recipientID string) (*models.MatchRequest, error) {
	if requesterID == "" || recipientID == "" || requesterID == recipientID {
		return nil, models.NewServiceError(models.CodeValidation, "requester and recipient must be two distinct users")
	}

	requester, err := s.Profiles.GetProfile(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	recipient, err := s.Profiles.GetProfile(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	if !IsProfileComplete(requester) || !IsProfileComplete(recipient) {
		return nil, models.NewServiceError(models.CodeProfileIncomplete, "both profiles must be complete")
	}

	existing, err := s.findNonTerminalForPair(ctx, requesterID, recipientID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewServiceError(models.CodeRequestExists,
			fmt.Sprintf("an open request already exists for this pair (%s)", existing.Status))
	}

	recent, err := s.countRecentRequests(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if recent >= s.Config.DailyRequestLimit {
		return nil, models.NewServiceError(models.CodeDailyLimit,
			fmt.Sprintf("daily limit of %d requests reached", s.Config.DailyRequestLimit))
	}

	if err := s.checkMatchLimit(ctx, requester); err != nil {
		return nil, err
	}

	score := ScoreProfiles(requester, recipient)
	if score.Total < s.Config.ScoreThreshold {
		return nil, models.NewServiceError(models.CodeLowScore,
			fmt.Sprintf("compatibility score %d is below the threshold of %d", score.Total, s.Config.ScoreThreshold))
	}

	now := time.Now().UTC()
	request := &models.MatchRequest{
		RequestID:   uuid.NewString(),
		PairID:      models.PairIDFor(requesterID, recipientID),
		RequesterID: requesterID,
		RecipientID: recipientID,
		Status:      models.RequestStatusPending,
		Score:       score.Total,
		CreatedAt:   now.Format(time.RFC3339),
		ExpiresAt:   now.Add(s.Config.RequestTTL).Format(time.RFC3339),
	}

	if err := s.Dynamo.PutItem(ctx, models.MatchRequestsTable, request); err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	log.Printf("✅ Request %s created: %s → %s (score %d)", request.RequestID, requesterID, recipientID, score.Total)
	s.Notifier.Notify(ctx, recipientID, models.NotificationTypeRequest,
		fmt.Sprintf("%s wants to connect with you", requester.FullName),
		map[string]string{"requestId": request.RequestID})

	return request, nil
}

// RespondToRequest records the recipient's accept or decline. Only the
// addressed recipient may respond, only while the request is still
// pending; the write is conditional on pending so two concurrent
// responders cannot both win.
func (s *RequestService) RespondToRequest(ctx context.Context, recipientID, requestID, decision string) (*models.MatchRequest, error) {
	if decision != models.RequestStatusAccepted && decision != models.RequestStatusDeclined {
		return nil, models.NewServiceError(models.CodeValidation, "decision must be accepted or declined")
	}

	request, err := s.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.RecipientID != recipientID {
		return nil, models.NewServiceError(models.CodeForbidden, "only the addressed recipient may respond")
	}

	switch s.resolveEffectiveStatus(ctx, request) {
	case models.RequestStatusPending:
		// fall through to the transition
	case models.RequestStatusExpired:
		return nil, models.NewServiceError(models.CodeExpired, "request has expired")
	default:
		return nil, models.NewServiceError(models.CodeAlreadyHandled,
			fmt.Sprintf("request is already %s", request.Status))
	}

	if decision == models.RequestStatusAccepted {
		recipient, err := s.Profiles.GetProfile(ctx, recipientID)
		if err != nil {
			return nil, err
		}
		if err := s.checkMatchLimit(ctx, recipient); err != nil {
			return nil, err
		}
		request.AcceptedAt = time.Now().UTC().Format(time.RFC3339)
	}

	if !models.CanTransitionRequest(request.Status, decision) {
		return nil, models.NewServiceError(models.CodeInvalidState,
			fmt.Sprintf("request cannot move from %s to %s", request.Status, decision))
	}
	request.Status = decision

	err = s.Dynamo.PutItemWithCondition(ctx, models.MatchRequestsTable, request,
		"#status = :pending",
		map[string]types.AttributeValue{
			":pending": &types.AttributeValueMemberS{Value: models.RequestStatusPending},
		},
		map[string]string{"#status": "status"},
	)
	if err == ErrConditionFailed {
		return nil, models.NewServiceError(models.CodeAlreadyHandled, "request was handled concurrently")
	}
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Request %s %s by %s", requestID, decision, recipientID)
	if decision == models.RequestStatusAccepted {
		s.Notifier.Notify(ctx, request.RequesterID, models.NotificationTypeResponse,
			"Your match request was accepted", map[string]string{"requestId": requestID})
	}
	return request, nil
}

// PayForRequest initiates the payer's side of the match fee. Valid only
// from accepted or matched status, once per side, subject to the
// payer's current match limit. The status flip to matched is the
// payment confirmation handler's job, not this call's.
func (s *RequestService) PayForRequest(ctx context.Context, payerID, requestID string) (string, error) {
	request, err := s.GetRequest(ctx, requestID)
	if err != nil {
		return "", err
	}
	if !request.IsParty(payerID) {
		return "", models.NewServiceError(models.CodeForbidden, "only a party to the request may pay")
	}

	status := s.resolveEffectiveStatus(ctx, request)
	if status != models.RequestStatusAccepted && status != models.RequestStatusMatched {
		if status == models.RequestStatusExpired {
			return "", models.NewServiceError(models.CodeExpired, "request has expired")
		}
		return "", models.NewServiceError(models.CodeNotAccepted,
			fmt.Sprintf("request must be accepted before payment, is %s", status))
	}

	if (request.RequesterID == payerID && request.RequesterPaid) ||
		(request.RecipientID == payerID && request.RecipientPaid) {
		return "", models.NewServiceError(models.CodeAlreadyPaid, "this side has already paid")
	}

	payer, err := s.Profiles.GetProfile(ctx, payerID)
	if err != nil {
		return "", err
	}
	// Conditions may have changed since acceptance
	if err := s.checkMatchLimit(ctx, payer); err != nil {
		return "", err
	}

	reference := uuid.NewString()
	payment := models.Payment{
		Reference: reference,
		PaymentID: uuid.NewString(),
		UserID:    payerID,
		Amount:    s.Config.MatchPrice,
		Currency:  s.Config.Currency,
		Type:      models.PaymentTypeMatch,
		Status:    models.PaymentStatusPending,
		Provider:  "paystack",
		Metadata: map[string]string{
			models.MetaRequestID: requestID,
			models.MetaPayerID:   payerID,
		},
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	authorizationURL, err := s.Provider.Initialize(ctx, payer.EmailID, payment.Amount, reference, payment.Metadata)
	if err != nil {
		log.Printf("❌ Provider charge failed for request %s: %v", requestID, err)
		payment.Status = models.PaymentStatusFailed
		if storeErr := s.Dynamo.PutItem(ctx, models.PaymentsTable, payment); storeErr != nil {
			log.Printf("⚠️ Failed to record failed payment: %v", storeErr)
		}
		return "", models.NewServiceError(models.CodePaymentFailed, "payment could not be initiated")
	}

	if err := s.Dynamo.PutItem(ctx, models.PaymentsTable, payment); err != nil {
		return "", fmt.Errorf("failed to record payment: %w", err)
	}

	if request.RequesterID == payerID {
		request.RequesterPaymentRef = reference
	} else {
		request.RecipientPaymentRef = reference
	}
	if err := s.Dynamo.PutItem(ctx, models.MatchRequestsTable, request); err != nil {
		return "", fmt.Errorf("failed to record payment reference: %w", err)
	}

	log.Printf("💳 Payment %s initiated for request %s by %s", reference, requestID, payerID)
	return authorizationURL, nil
}

// MarkPaid flips the paying side's flag for a confirmed payment and
// reports whether both sides have now paid. Setting an already-true
// flag is a no-op, so replays are safe.
func (s *RequestService) MarkPaid(ctx context.Context, request *models.MatchRequest, payerID string) (bool, error) {
	if request.RequesterID == payerID {
		request.RequesterPaid = true
	} else if request.RecipientID == payerID {
		request.RecipientPaid = true
	} else {
		return false, models.NewServiceError(models.CodeForbidden, "payer is not a party to the request")
	}

	if err := s.Dynamo.PutItem(ctx, models.MatchRequestsTable, request); err != nil {
		return false, fmt.Errorf("failed to record paid flag: %w", err)
	}
	return request.RequesterPaid && request.RecipientPaid, nil
}

// MarkMatched moves an accepted, fully paid request to matched.
func (s *RequestService) MarkMatched(ctx context.Context, request *models.MatchRequest) error {
	if request.Status == models.RequestStatusMatched {
		return nil
	}
	if !models.CanTransitionRequest(request.Status, models.RequestStatusMatched) {
		return models.NewServiceError(models.CodeInvalidState,
			fmt.Sprintf("request cannot move from %s to matched", request.Status))
	}

	previous := request.Status
	request.Status = models.RequestStatusMatched
	request.MatchedAt = time.Now().UTC().Format(time.RFC3339)

	err := s.Dynamo.PutItemWithCondition(ctx, models.MatchRequestsTable, request,
		"#status = :expected",
		map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberS{Value: previous},
		},
		map[string]string{"#status": "status"},
	)
	if err == ErrConditionFailed {
		// Another webhook delivery got there first
		return nil
	}
	return err
}

// ListRequests partitions the user's requests into incoming and
// outgoing, resolving lazy expiry and hiding declined entries.
func (s *RequestService) ListRequests(ctx context.Context, userID string) (*RequestList, error) {
	list := &RequestList{
		Incoming: []models.MatchRequest{},
		Outgoing: []models.MatchRequest{},
	}

	outgoing, err := s.queryByIndex(ctx, models.RequesterIndex, "requesterId", userID)
	if err != nil {
		return nil, err
	}
	incoming, err := s.queryByIndex(ctx, models.RecipientIndex, "recipientId", userID)
	if err != nil {
		return nil, err
	}

	for i := range outgoing {
		if s.resolveEffectiveStatus(ctx, &outgoing[i]) == models.RequestStatusDeclined {
			continue
		}
		list.Outgoing = append(list.Outgoing, outgoing[i])
	}
	for i := range incoming {
		if s.resolveEffectiveStatus(ctx, &incoming[i]) == models.RequestStatusDeclined {
			continue
		}
		list.Incoming = append(list.Incoming, incoming[i])
	}

	return list, nil
}

func (s *RequestService) queryByIndex(ctx context.Context, indexName, attribute, userID string) ([]models.MatchRequest, error) {
	keyCondition := fmt.Sprintf("%s = :userId", attribute)
	expressionValues := map[string]types.AttributeValue{
		":userId": &types.AttributeValueMemberS{Value: userID},
	}

	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.MatchRequestsTable, indexName, keyCondition, expressionValues, nil, 100)
	if err != nil {
		return nil, err
	}

	var requests []models.MatchRequest
	if err := attributevalue.UnmarshalListOfMaps(items, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}
