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

// PaymentService reconciles asynchronous provider callbacks against
// pending payments and applies the type-specific effects. Confirmation
// is idempotent: the processed marker short-circuits redelivered
// webhooks to a status re-sync.
type PaymentService struct {
	Dynamo        *DynamoService
	Config        *config.AppConfig
	Requests      *RequestService
	Matches       *MatchService
	Profiles      *UserProfileService
	Verifications *VerificationService
	Subscriptions *SubscriptionService
	Provider      PaymentProvider
	Notifier      *NotificationService
	Audit         *AuditService
}

// GetPayment resolves a payment by its provider reference.
func (s *PaymentService) GetPayment(ctx context.Context, reference string) (*models.Payment, error) {
	key := map[string]types.AttributeValue{
		"reference": &types.AttributeValueMemberS{Value: reference},
	}
	item, err := s.Dynamo.GetItem(ctx, models.PaymentsTable, key)
	if err != nil {
		if err == ErrItemNotFound {
			return nil, models.NewServiceError(models.CodeNotFound, fmt.Sprintf("payment %s not found", reference))
		}
		return nil, err
	}

	var payment models.Payment
	if err := attributevalue.UnmarshalMap(item, &payment); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payment %s: %w", reference, err)
	}
	return &payment, nil
}

// InitiatePayment starts a non-request payment (unlock, match_limit,
// verification, subscription) and returns the provider authorization
// URL. Match payments go through RequestService.PayForRequest instead.
func (s *PaymentService) InitiatePayment(ctx context.Context, userID, paymentType, matchID string) (string, error) {
	var amount int64
	metadata := map[string]string{models.MetaPayerID: userID}

	switch paymentType {
	case models.PaymentTypeUnlock:
		if matchID == "" {
			return "", models.NewServiceError(models.CodeValidation, "matchId is required for an unlock payment")
		}
		match, err := s.Matches.GetMatch(ctx, matchID)
		if err != nil {
			return "", err
		}
		if !match.Involves(userID) {
			return "", models.NewServiceError(models.CodeForbidden, "caller is not a member of this match")
		}
		metadata[models.MetaMatchID] = matchID
		amount = s.Config.UnlockPrice
	case models.PaymentTypeMatchLimit:
		amount = s.Config.MatchLimitPrice
	case models.PaymentTypeVerification:
		amount = s.Config.VerificationPrice
	case models.PaymentTypeSubscription:
		amount = s.Config.SubscriptionPrice
	default:
		return "", models.NewServiceError(models.CodeValidation, fmt.Sprintf("unknown payment type %q", paymentType))
	}

	payer, err := s.Profiles.GetProfile(ctx, userID)
	if err != nil {
		return "", err
	}

	reference := uuid.NewString()
	payment := models.Payment{
		Reference: reference,
		PaymentID: uuid.NewString(),
		UserID:    userID,
		Amount:    amount,
		Currency:  s.Config.Currency,
		Type:      paymentType,
		Status:    models.PaymentStatusPending,
		Provider:  "paystack",
		Metadata:  metadata,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	authorizationURL, err := s.Provider.Initialize(ctx, payer.EmailID, amount, reference, metadata)
	if err != nil {
		log.Printf("❌ Provider charge failed for %s payment by %s: %v", paymentType, userID, err)
		payment.Status = models.PaymentStatusFailed
		if storeErr := s.Dynamo.PutItem(ctx, models.PaymentsTable, payment); storeErr != nil {
			log.Printf("⚠️ Failed to record failed payment: %v", storeErr)
		}
		return "", models.NewServiceError(models.CodePaymentFailed, "payment could not be initiated")
	}

	if err := s.Dynamo.PutItem(ctx, models.PaymentsTable, payment); err != nil {
		return "", fmt.Errorf("failed to record payment: %w", err)
	}

	log.Printf("💳 %s payment %s initiated by %s", paymentType, reference, userID)
	return authorizationURL, nil
}

// ConfirmPayment reconciles a provider callback for a transaction
// reference. The provider is always re-verified rather than trusting
// the callback body. On a verified success the type-specific effect is
// applied exactly once.
func (s *PaymentService) ConfirmPayment(ctx context.Context, reference string) error {
	payment, err := s.GetPayment(ctx, reference)
	if err != nil {
		return err
	}

	providerStatus, err := s.Provider.Verify(ctx, reference)
	if err != nil {
		return fmt.Errorf("failed to verify payment %s with provider: %w", reference, err)
	}

	switch providerStatus {
	case ProviderStatusPending:
		payment.Status = models.PaymentStatusPending
		return s.Dynamo.PutItem(ctx, models.PaymentsTable, payment)
	case ProviderStatusFailed:
		payment.Status = models.PaymentStatusFailed
		log.Printf("❌ Payment %s failed at provider", reference)
		return s.Dynamo.PutItem(ctx, models.PaymentsTable, payment)
	}

	if payment.Processed {
		// Redelivered webhook: re-sync status, no side effects
		log.Printf("🔁 Payment %s already processed, replay ignored", reference)
		if payment.Status != models.PaymentStatusSucceeded {
			payment.Status = models.PaymentStatusSucceeded
			return s.Dynamo.PutItem(ctx, models.PaymentsTable, payment)
		}
		return nil
	}

	if err := s.applyEffect(ctx, payment); err != nil {
		return err
	}

	payment.Processed = true
	payment.Status = models.PaymentStatusSucceeded
	payment.VerifiedAt = time.Now().UTC().Format(time.RFC3339)
	if err := s.Dynamo.PutItem(ctx, models.PaymentsTable, payment); err != nil {
		return fmt.Errorf("failed to finalize payment %s: %w", reference, err)
	}

	s.Audit.Record(ctx, payment.UserID, "payment.confirm", "payment", payment.PaymentID,
		fmt.Sprintf("type=%s amount=%d", payment.Type, payment.Amount))
	s.Notifier.Notify(ctx, payment.UserID, models.NotificationTypePayment,
		"Your payment was confirmed", map[string]string{"reference": reference, "type": payment.Type})

	log.Printf("✅ Payment %s (%s) confirmed and applied", reference, payment.Type)
	return nil
}

func (s *PaymentService) applyEffect(ctx context.Context, payment *models.Payment) error {
	switch payment.Type {
	case models.PaymentTypeMatch:
		return s.applyMatchPayment(ctx, payment)
	case models.PaymentTypeMatchLimit:
		newLimit, err := s.Profiles.IncreaseMatchLimit(ctx, payment.UserID)
		if err != nil {
			return err
		}
		s.Audit.Record(ctx, payment.UserID, "match_limit.raise", "profile", payment.UserID,
			fmt.Sprintf("newLimit=%d", newLimit))
		return nil
	case models.PaymentTypeUnlock:
		matchID := payment.Meta(models.MetaMatchID)
		if matchID == "" {
			return fmt.Errorf("unlock payment %s has no matchId metadata", payment.Reference)
		}
		return s.Matches.Unlock(ctx, matchID, payment.PaymentID)
	case models.PaymentTypeVerification:
		return s.Verifications.EnsureRequest(ctx, payment.UserID, payment.PaymentID)
	case models.PaymentTypeSubscription:
		return s.Subscriptions.Activate(ctx, payment.UserID, payment.PaymentID)
	default:
		return fmt.Errorf("payment %s has unknown type %q", payment.Reference, payment.Type)
	}
}

// applyMatchPayment flips the paying side's flag; when both sides have
// paid it creates the unlocked match and flips the request to matched.
func (s *PaymentService) applyMatchPayment(ctx context.Context, payment *models.Payment) error {
	requestID := payment.Meta(models.MetaRequestID)
	payerID := payment.Meta(models.MetaPayerID)
	if requestID == "" || payerID == "" {
		return fmt.Errorf("match payment %s is missing correlation metadata", payment.Reference)
	}

	request, err := s.Requests.GetRequest(ctx, requestID)
	if err != nil {
		return err
	}

	bothPaid, err := s.Requests.MarkPaid(ctx, request, payerID)
	if err != nil {
		return err
	}
	if !bothPaid || request.Status == models.RequestStatusMatched {
		return nil
	}

	match, err := s.Matches.CreateUnlockedMatch(ctx, request.RequesterID, request.RecipientID, request.Score)
	if err != nil {
		return err
	}
	if match.State == models.MatchStateCancelled {
		// A cancelled pair stays cancelled; the request still closes
		log.Printf("⚠️ Request %s fully paid but pair is cancelled", requestID)
	}

	if err := s.Requests.MarkMatched(ctx, request); err != nil {
		return err
	}

	s.Notifier.NotifyMany(ctx, []string{request.RequesterID, request.RecipientID},
		models.NotificationTypeMatch, "You are matched! Contact details are now unlocked.",
		map[string]string{"matchId": match.MatchID, "requestId": requestID})

	return nil
}
