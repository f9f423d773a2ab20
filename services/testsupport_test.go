package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"cofoundr_server/config"
	"cofoundr_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// tableKeys is the key schema the in-memory store indexes by.
var tableKeys = map[string][]string{
	models.UserProfilesTable:         {"userId"},
	models.MatchRequestsTable:        {"requestId"},
	models.MatchesTable:              {"matchId"},
	models.PaymentsTable:             {"reference"},
	models.TeamsTable:                {"teamId"},
	models.MatchCancellationsTable:   {"cancellationId"},
	models.VerificationRequestsTable: {"verificationId"},
	models.SubscriptionsTable:        {"userId"},
	models.NotificationsTable:        {"userId", "createdAt"},
	models.AuditLogTable:             {"entryId"},
}

// fakeDynamoClient is an in-memory DynamoDBAPI. It supports the subset
// the services use: key get/put/delete, single-equality conditional
// puts, SET-only update expressions, single-equality key conditions and
// full scans.
type fakeDynamoClient struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue
}

func newFakeDynamoClient() *fakeDynamoClient {
	return &fakeDynamoClient{tables: make(map[string]map[string]map[string]types.AttributeValue)}
}

func (f *fakeDynamoClient) table(name string) map[string]map[string]types.AttributeValue {
	if f.tables[name] == nil {
		f.tables[name] = make(map[string]map[string]types.AttributeValue)
	}
	return f.tables[name]
}

func stringAttr(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func itemKeyFor(table string, item map[string]types.AttributeValue) string {
	parts := make([]string, 0, 2)
	for _, attr := range tableKeys[table] {
		parts = append(parts, stringAttr(item[attr]))
	}
	return strings.Join(parts, "|")
}

func copyItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	dup := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		dup[k] = v
	}
	return dup
}

func avEqual(a, b types.AttributeValue) bool {
	if a == nil || b == nil {
		return false
	}
	switch av := a.(type) {
	case *types.AttributeValueMemberS:
		bv, ok := b.(*types.AttributeValueMemberS)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberN:
		bv, ok := b.(*types.AttributeValueMemberN)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberBOOL:
		bv, ok := b.(*types.AttributeValueMemberBOOL)
		return ok && av.Value == bv.Value
	}
	return false
}

// parseEquality resolves an "attr = :value" (or "#attr = :value")
// expression against the supplied name and value maps.
func parseEquality(
	expr string,
	names map[string]string,
	values map[string]types.AttributeValue,
) (string, types.AttributeValue, error) {
	parts := strings.SplitN(expr, "=", 2)
	if len(parts) != 2 {
		return "", nil, fmt.Errorf("unsupported expression %q", expr)
	}
	attr := strings.TrimSpace(parts[0])
	if strings.HasPrefix(attr, "#") {
		resolved, ok := names[attr]
		if !ok {
			return "", nil, fmt.Errorf("unresolved name %q in %q", attr, expr)
		}
		attr = resolved
	}
	valueKey := strings.TrimSpace(parts[1])
	value, ok := values[valueKey]
	if !ok {
		return "", nil, fmt.Errorf("unresolved value %q in %q", valueKey, expr)
	}
	return attr, value, nil
}

func (f *fakeDynamoClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	item, ok := f.table(*params.TableName)[itemKeyFor(*params.TableName, params.Key)]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: copyItem(item)}, nil
}

func (f *fakeDynamoClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	table := f.table(*params.TableName)
	key := itemKeyFor(*params.TableName, params.Item)

	if params.ConditionExpression != nil {
		attr, expected, err := parseEquality(*params.ConditionExpression, params.ExpressionAttributeNames, params.ExpressionAttributeValues)
		if err != nil {
			return nil, err
		}
		existing, found := table[key]
		if !found || !avEqual(existing[attr], expected) {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("condition failed")}
		}
	}

	table[key] = copyItem(params.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamoClient) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	table := f.table(*params.TableName)
	key := itemKeyFor(*params.TableName, params.Key)
	item, ok := table[key]
	if !ok {
		item = copyItem(params.Key)
		table[key] = item
	}

	expr := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(*params.UpdateExpression), "SET "))
	for _, clause := range strings.Split(expr, ",") {
		parts := strings.SplitN(clause, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("unsupported update clause %q", clause)
		}
		attr := strings.TrimSpace(parts[0])
		if strings.HasPrefix(attr, "#") {
			attr = params.ExpressionAttributeNames[attr]
		}
		valueKey := strings.TrimSpace(parts[1])
		value, ok := params.ExpressionAttributeValues[valueKey]
		if !ok {
			return nil, fmt.Errorf("unresolved value %q in update", valueKey)
		}
		item[attr] = value
	}

	return &dynamodb.UpdateItemOutput{Attributes: copyItem(item)}, nil
}

func (f *fakeDynamoClient) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.table(*params.TableName), itemKeyFor(*params.TableName, params.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamoClient) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	attr, expected, err := parseEquality(*params.KeyConditionExpression, params.ExpressionAttributeNames, params.ExpressionAttributeValues)
	if err != nil {
		return nil, err
	}

	var items []map[string]types.AttributeValue
	for _, item := range f.table(*params.TableName) {
		if avEqual(item[attr], expected) {
			items = append(items, copyItem(item))
		}
	}
	return &dynamodb.QueryOutput{Items: items}, nil
}

func (f *fakeDynamoClient) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var items []map[string]types.AttributeValue
	for _, item := range f.table(*params.TableName) {
		items = append(items, copyItem(item))
	}
	return &dynamodb.ScanOutput{Items: items}, nil
}

// fakeProvider is a scriptable PaymentProvider.
type fakeProvider struct {
	mu           sync.Mutex
	authURL      string
	initErr      error
	verifyStatus ProviderStatus
	verifyErr    error
	initCalls    int
	verifyCalls  int
	lastAmount   int64
	lastMeta     map[string]string
}

func (p *fakeProvider) Initialize(ctx context.Context, email string, amount int64, reference string, metadata map[string]string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.initCalls++
	p.lastAmount = amount
	p.lastMeta = metadata
	if p.initErr != nil {
		return "", p.initErr
	}
	return p.authURL, nil
}

func (p *fakeProvider) Verify(ctx context.Context, reference string) (ProviderStatus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.verifyCalls++
	if p.verifyErr != nil {
		return ProviderStatusFailed, p.verifyErr
	}
	return p.verifyStatus, nil
}

type emittedEvent struct {
	UserID string
	Event  string
}

// fakeEmitter records socket pushes.
type fakeEmitter struct {
	mu     sync.Mutex
	events []emittedEvent
}

func (e *fakeEmitter) EmitToUser(userID, event string, payload interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, emittedEvent{UserID: userID, Event: event})
}

// testEnv wires the full service graph over the in-memory store.
type testEnv struct {
	cfg           *config.AppConfig
	dynamo        *DynamoService
	provider      *fakeProvider
	emitter       *fakeEmitter
	profiles      *UserProfileService
	requests      *RequestService
	matches       *MatchService
	teams         *TeamService
	payments      *PaymentService
	cancellations *CancellationService
	verifications *VerificationService
	subscriptions *SubscriptionService
	notifications *NotificationService
	audit         *AuditService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dynamo := &DynamoService{Client: newFakeDynamoClient()}
	cfg := &config.AppConfig{
		ScoreThreshold:      50,
		RequestTTL:          72 * time.Hour,
		DailyRequestLimit:   2,
		BaseMatchLimit:      5,
		MatchLimitIncrement: 3,
		MaxTeamMembers:      5,
		MatchPrice:          500000,
		UnlockPrice:         300000,
		MatchLimitPrice:     200000,
		VerificationPrice:   1000000,
		SubscriptionPrice:   1500000,
		Currency:            "NGN",
	}
	emitter := &fakeEmitter{}
	provider := &fakeProvider{authURL: "https://pay.test/redirect", verifyStatus: ProviderStatusSuccess}

	notifications := &NotificationService{Dynamo: dynamo, Emitter: emitter}
	audit := &AuditService{Dynamo: dynamo}
	profiles := &UserProfileService{Dynamo: dynamo, Config: cfg}
	subscriptions := &SubscriptionService{Dynamo: dynamo}
	matches := &MatchService{
		Dynamo:   dynamo,
		Config:   cfg,
		Profiles: profiles,
		Notifier: notifications,
		Audit:    audit,
	}
	teams := &TeamService{
		Dynamo:   dynamo,
		Config:   cfg,
		Matches:  matches,
		Notifier: notifications,
		Audit:    audit,
	}
	matches.Teams = teams
	requests := &RequestService{
		Dynamo:   dynamo,
		Config:   cfg,
		Profiles: profiles,
		Matches:  matches,
		Provider: provider,
		Notifier: notifications,
		Audit:    audit,
	}
	verifications := &VerificationService{
		Dynamo:   dynamo,
		Matches:  matches,
		Profiles: profiles,
		Notifier: notifications,
		Audit:    audit,
	}
	cancellations := &CancellationService{
		Dynamo:   dynamo,
		Matches:  matches,
		Teams:    teams,
		Profiles: profiles,
		Notifier: notifications,
		Audit:    audit,
	}
	payments := &PaymentService{
		Dynamo:        dynamo,
		Config:        cfg,
		Requests:      requests,
		Matches:       matches,
		Profiles:      profiles,
		Verifications: verifications,
		Subscriptions: subscriptions,
		Provider:      provider,
		Notifier:      notifications,
		Audit:         audit,
	}

	return &testEnv{
		cfg:           cfg,
		dynamo:        dynamo,
		provider:      provider,
		emitter:       emitter,
		profiles:      profiles,
		requests:      requests,
		matches:       matches,
		teams:         teams,
		payments:      payments,
		cancellations: cancellations,
		verifications: verifications,
		subscriptions: subscriptions,
		notifications: notifications,
		audit:         audit,
	}
}

// founderProfile builds a complete profile ready to pass the
// completeness gate.
func founderProfile(userID, role string) *models.UserProfile {
	return &models.UserProfile{
		UserID:     userID,
		FullName:   "Founder " + userID,
		EmailID:    userID + "@example.com",
		Role:       role,
		Skills:     []string{"go", "react"},
		Interests:  "fintech",
		Commitment: models.CommitmentFullTime,
		Location:   "Lagos",
	}
}

func (e *testEnv) seedProfile(t *testing.T, profile *models.UserProfile) {
	t.Helper()
	require.NoError(t, e.dynamo.PutItem(context.Background(), models.UserProfilesTable, profile))
}

func (e *testEnv) seedMatch(t *testing.T, user1, user2, state string, score int) *models.Match {
	t.Helper()
	userA, userB := models.SortPair(user1, user2)
	now := time.Now().UTC().Format(time.RFC3339)
	match := &models.Match{
		MatchID:   uuid.NewString(),
		PairID:    models.PairIDFor(user1, user2),
		UserA:     userA,
		UserB:     userB,
		Score:     score,
		State:     state,
		MatchType: models.MatchTypeCofounder,
		DecisionA: models.DecisionAccepted,
		DecisionB: models.DecisionAccepted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, e.dynamo.PutItem(context.Background(), models.MatchesTable, match))
	return match
}

func (e *testEnv) seedTeam(t *testing.T, ownerID string, memberIDs []string, status string) *models.Team {
	t.Helper()
	now := time.Now().UTC().Format(time.RFC3339)
	team := &models.Team{
		TeamID:     uuid.NewString(),
		OwnerID:    ownerID,
		MemberIDs:  memberIDs,
		Status:     status,
		MaxMembers: e.cfg.MaxTeamMembers,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, e.dynamo.PutItem(context.Background(), models.TeamsTable, team))
	return team
}

// acceptedRequest creates a request and has the recipient accept it.
func (e *testEnv) acceptedRequest(t *testing.T, requesterID, recipientID string) *models.MatchRequest {
	t.Helper()
	ctx := context.Background()
	request, err := e.requests.CreateRequest(ctx, requesterID, recipientID)
	require.NoError(t, err)
	accepted, err := e.requests.RespondToRequest(ctx, recipientID, request.RequestID, models.RequestStatusAccepted)
	require.NoError(t, err)
	return accepted
}

// payAndConfirm drives one side's payment through initiation and
// webhook confirmation.
func (e *testEnv) payAndConfirm(t *testing.T, payerID, requestID string) string {
	t.Helper()
	ctx := context.Background()
	_, err := e.requests.PayForRequest(ctx, payerID, requestID)
	require.NoError(t, err)

	request, err := e.requests.GetRequest(ctx, requestID)
	require.NoError(t, err)
	reference := request.RequesterPaymentRef
	if request.RecipientID == payerID {
		reference = request.RecipientPaymentRef
	}
	require.NotEmpty(t, reference)
	require.NoError(t, e.payments.ConfirmPayment(ctx, reference))
	return reference
}

// paymentsOfType scans the payment ledger for a given type.
func (e *testEnv) paymentsOfType(t *testing.T, paymentType string) []models.Payment {
	t.Helper()
	var payments []models.Payment
	err := e.dynamo.ScanWithFilter(context.Background(), models.PaymentsTable, func(item map[string]types.AttributeValue) bool {
		return stringAttr(item["type"]) == paymentType
	}, &payments)
	require.NoError(t, err)
	return payments
}

func (e *testEnv) allMatches(t *testing.T) []models.Match {
	t.Helper()
	var matches []models.Match
	require.NoError(t, e.dynamo.ScanWithFilter(context.Background(), models.MatchesTable, nil, &matches))
	return matches
}
