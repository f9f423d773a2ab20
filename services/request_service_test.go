package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"cofoundr_server/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRequest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProfile(t, founderProfile("alice", models.RoleTechnical))
	env.seedProfile(t, founderProfile("bob", models.RoleBusiness))

	request, err := env.requests.CreateRequest(ctx, "alice", "bob")
	require.NoError(t, err)

	assert.Equal(t, models.RequestStatusPending, request.Status)
	assert.Equal(t, "alice", request.RequesterID)
	assert.Equal(t, "bob", request.RecipientID)
	assert.Equal(t, models.PairIDFor("alice", "bob"), request.PairID)
	assert.GreaterOrEqual(t, request.Score, env.cfg.ScoreThreshold)
	assert.NotEmpty(t, request.ExpiresAt)

	// Recipient is notified
	notifications, err := env.notifications.ListNotifications(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationTypeRequest, notifications[0].Type)
}

func TestCreateRequestRejectsSelfAndEmpty(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.requests.CreateRequest(ctx, "alice", "alice")
	assert.True(t, models.IsCode(err, models.CodeValidation))

	_, err = env.requests.CreateRequest(ctx, "", "bob")
	assert.True(t, models.IsCode(err, models.CodeValidation))
}

func TestCreateRequestRequiresCompleteProfiles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProfile(t, founderProfile("alice", models.RoleTechnical))
	incomplete := founderProfile("bob", models.RoleBusiness)
	incomplete.Location = ""
	env.seedProfile(t, incomplete)

	_, err := env.requests.CreateRequest(ctx, "alice", "bob")
	assert.True(t, models.IsCode(err, models.CodeProfileIncomplete))
}

func TestCreateRequestPairUniqueness(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProfile(t, founderProfile("alice", models.RoleTechnical))
	env.seedProfile(t, founderProfile("bob", models.RoleBusiness))

	_, err := env.requests.CreateRequest(ctx, "alice", "bob")
	require.NoError(t, err)

	_, err = env.requests.CreateRequest(ctx, "alice", "bob")
	assert.True(t, models.IsCode(err, models.CodeRequestExists))

	// The reverse direction is the same pair
	_, err = env.requests.CreateRequest(ctx, "bob", "alice")
	assert.True(t, models.IsCode(err, models.CodeRequestExists))
}

func TestCreateRequestDailyLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProfile(t, founderProfile("alice", models.RoleTechnical))
	for _, id := range []string{"bob", "carol", "dave"} {
		env.seedProfile(t, founderProfile(id, models.RoleBusiness))
	}

	_, err := env.requests.CreateRequest(ctx, "alice", "bob")
	require.NoError(t, err)
	_, err = env.requests.CreateRequest(ctx, "alice", "carol")
	require.NoError(t, err)

	_, err = env.requests.CreateRequest(ctx, "alice", "dave")
	assert.True(t, models.IsCode(err, models.CodeDailyLimit))
}

func TestCreateRequestMatchLimit(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.BaseMatchLimit = 1
	ctx := context.Background()
	env.seedProfile(t, founderProfile("alice", models.RoleTechnical))
	env.seedProfile(t, founderProfile("bob", models.RoleBusiness))
	env.seedMatch(t, "alice", "zed", models.MatchStateUnlocked, 80)

	_, err := env.requests.CreateRequest(ctx, "alice", "bob")
	assert.True(t, models.IsCode(err, models.CodeMatchLimit))
}

func TestCreateRequestLowScore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProfile(t, founderProfile("alice", models.RoleTechnical))

	// Same role, no shared skills, far commitment, different city
	weak := founderProfile("bob", models.RoleTechnical)
	weak.Skills = []string{"sales"}
	weak.Commitment = models.CommitmentExploring
	weak.Location = "Berlin"
	env.seedProfile(t, weak)

	_, err := env.requests.CreateRequest(ctx, "alice", "bob")
	assert.True(t, models.IsCode(err, models.CodeLowScore))
}

func TestRespondToRequest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProfile(t, founderProfile("alice", models.RoleTechnical))
	env.seedProfile(t, founderProfile("bob", models.RoleBusiness))

	request, err := env.requests.CreateRequest(ctx, "alice", "bob")
	require.NoError(t, err)

	// Only the addressed recipient may respond
	_, err = env.requests.RespondToRequest(ctx, "alice", request.RequestID, models.RequestStatusAccepted)
	assert.True(t, models.IsCode(err, models.CodeForbidden))
	_, err = env.requests.RespondToRequest(ctx, "mallory", request.RequestID, models.RequestStatusAccepted)
	assert.True(t, models.IsCode(err, models.CodeForbidden))

	accepted, err := env.requests.RespondToRequest(ctx, "bob", request.RequestID, models.RequestStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusAccepted, accepted.Status)
	assert.NotEmpty(t, accepted.AcceptedAt)

	// A handled request cannot be responded to again
	_, err = env.requests.RespondToRequest(ctx, "bob", request.RequestID, models.RequestStatusDeclined)
	assert.True(t, models.IsCode(err, models.CodeAlreadyHandled))
}

func TestRespondToRequestValidatesDecision(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.requests.RespondToRequest(context.Background(), "bob", "r1", "maybe")
	assert.True(t, models.IsCode(err, models.CodeValidation))
}

func TestRespondToRequestAtMatchLimit(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.BaseMatchLimit = 1
	ctx := context.Background()
	env.seedProfile(t, founderProfile("alice", models.RoleTechnical))
	env.seedProfile(t, founderProfile("bob", models.RoleBusiness))

	request, err := env.requests.CreateRequest(ctx, "alice", "bob")
	require.NoError(t, err)

	env.seedMatch(t, "bob", "zed", models.MatchStateLocked, 80)
	_, err = env.requests.RespondToRequest(ctx, "bob", request.RequestID, models.RequestStatusAccepted)
	assert.True(t, models.IsCode(err, models.CodeMatchLimit))

	// Declining is not limit-gated
	declined, err := env.requests.RespondToRequest(ctx, "bob", request.RequestID, models.RequestStatusDeclined)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusDeclined, declined.Status)
}

func seedExpiredRequest(t *testing.T, env *testEnv, requesterID, recipientID string) *models.MatchRequest {
	t.Helper()
	now := time.Now().UTC()
	request := &models.MatchRequest{
		RequestID:   uuid.NewString(),
		PairID:      models.PairIDFor(requesterID, recipientID),
		RequesterID: requesterID,
		RecipientID: recipientID,
		Status:      models.RequestStatusPending,
		Score:       80,
		CreatedAt:   now.Add(-80 * time.Hour).Format(time.RFC3339),
		ExpiresAt:   now.Add(-8 * time.Hour).Format(time.RFC3339),
	}
	require.NoError(t, env.dynamo.PutItem(context.Background(), models.MatchRequestsTable, request))
	return request
}

func TestRespondToExpiredRequest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	request := seedExpiredRequest(t, env, "alice", "bob")

	_, err := env.requests.RespondToRequest(ctx, "bob", request.RequestID, models.RequestStatusAccepted)
	assert.True(t, models.IsCode(err, models.CodeExpired))

	// The expiry was persisted, not just observed
	stored, err := env.requests.GetRequest(ctx, request.RequestID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusExpired, stored.Status)
}

func TestExpiredPairCanBeRequestedAgain(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProfile(t, founderProfile("alice", models.RoleTechnical))
	env.seedProfile(t, founderProfile("bob", models.RoleBusiness))
	seedExpiredRequest(t, env, "alice", "bob")

	request, err := env.requests.CreateRequest(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusPending, request.Status)
}

func TestPayForRequestGates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProfile(t, founderProfile("alice", models.RoleTechnical))
	env.seedProfile(t, founderProfile("bob", models.RoleBusiness))

	request, err := env.requests.CreateRequest(ctx, "alice", "bob")
	require.NoError(t, err)

	// Pending requests cannot be paid for
	_, err = env.requests.PayForRequest(ctx, "alice", request.RequestID)
	assert.True(t, models.IsCode(err, models.CodeNotAccepted))

	// Outsiders cannot pay
	_, err = env.requests.PayForRequest(ctx, "mallory", request.RequestID)
	assert.True(t, models.IsCode(err, models.CodeForbidden))
}

func TestPayForRequest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProfile(t, founderProfile("alice", models.RoleTechnical))
	env.seedProfile(t, founderProfile("bob", models.RoleBusiness))
	request := env.acceptedRequest(t, "alice", "bob")

	authURL, err := env.requests.PayForRequest(ctx, "alice", request.RequestID)
	require.NoError(t, err)
	assert.Equal(t, env.provider.authURL, authURL)
	assert.Equal(t, env.cfg.MatchPrice, env.provider.lastAmount)

	stored, err := env.requests.GetRequest(ctx, request.RequestID)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.RequesterPaymentRef)

	payment, err := env.payments.GetPayment(ctx, stored.RequesterPaymentRef)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentTypeMatch, payment.Type)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)
	assert.Equal(t, request.RequestID, payment.Meta(models.MetaRequestID))
	assert.Equal(t, "alice", payment.Meta(models.MetaPayerID))
}

func TestPayForRequestAlreadyPaidSide(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProfile(t, founderProfile("alice", models.RoleTechnical))
	env.seedProfile(t, founderProfile("bob", models.RoleBusiness))
	request := env.acceptedRequest(t, "alice", "bob")

	env.payAndConfirm(t, "alice", request.RequestID)

	_, err := env.requests.PayForRequest(ctx, "alice", request.RequestID)
	assert.True(t, models.IsCode(err, models.CodeAlreadyPaid))

	// The other side can still pay
	_, err = env.requests.PayForRequest(ctx, "bob", request.RequestID)
	assert.NoError(t, err)
}

func TestPayForRequestProviderFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProfile(t, founderProfile("alice", models.RoleTechnical))
	env.seedProfile(t, founderProfile("bob", models.RoleBusiness))
	request := env.acceptedRequest(t, "alice", "bob")

	env.provider.initErr = errors.New("provider down")
	_, err := env.requests.PayForRequest(ctx, "alice", request.RequestID)
	assert.True(t, models.IsCode(err, models.CodePaymentFailed))

	// The failed attempt is still on the ledger
	payments := env.paymentsOfType(t, models.PaymentTypeMatch)
	require.Len(t, payments, 1)
	assert.Equal(t, models.PaymentStatusFailed, payments[0].Status)

	// No payment reference was attached to the request
	stored, err := env.requests.GetRequest(ctx, request.RequestID)
	require.NoError(t, err)
	assert.Empty(t, stored.RequesterPaymentRef)
}

func TestListRequests(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedProfile(t, founderProfile("alice", models.RoleTechnical))
	env.seedProfile(t, founderProfile("bob", models.RoleBusiness))
	env.seedProfile(t, founderProfile("carol", models.RoleProduct))

	outgoing, err := env.requests.CreateRequest(ctx, "alice", "bob")
	require.NoError(t, err)
	incoming, err := env.requests.CreateRequest(ctx, "carol", "alice")
	require.NoError(t, err)

	list, err := env.requests.ListRequests(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list.Outgoing, 1)
	require.Len(t, list.Incoming, 1)
	assert.Equal(t, outgoing.RequestID, list.Outgoing[0].RequestID)
	assert.Equal(t, incoming.RequestID, list.Incoming[0].RequestID)

	// Declined requests are hidden from both sides
	_, err = env.requests.RespondToRequest(ctx, "alice", incoming.RequestID, models.RequestStatusDeclined)
	require.NoError(t, err)

	list, err = env.requests.ListRequests(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, list.Incoming)

	list, err = env.requests.ListRequests(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, list.Outgoing)
}

func TestListRequestsResolvesExpiry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	request := seedExpiredRequest(t, env, "alice", "bob")

	list, err := env.requests.ListRequests(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list.Outgoing, 1)
	assert.Equal(t, models.RequestStatusExpired, list.Outgoing[0].Status)

	stored, err := env.requests.GetRequest(ctx, request.RequestID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusExpired, stored.Status)
}
