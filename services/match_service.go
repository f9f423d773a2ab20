package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"cofoundr_server/config"
	"cofoundr_server/models"
	"cofoundr_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// MatchService owns the canonical match records. A match is stored once
// per pair; both per-user directions are derived views, so the two
// sides can never disagree on state or score.
type MatchService struct {
	Dynamo   *DynamoService
	Config   *config.AppConfig
	Profiles *UserProfileService
	Teams    *TeamService
	Notifier *NotificationService
	Audit    *AuditService
}

// GetMatch retrieves a match by id.
func (s *MatchService) GetMatch(ctx context.Context, matchID string) (*models.Match, error) {
	key := map[string]types.AttributeValue{
		"matchId": &types.AttributeValueMemberS{Value: matchID},
	}
	item, err := s.Dynamo.GetItem(ctx, models.MatchesTable, key)
	if err != nil {
		if err == ErrItemNotFound {
			return nil, models.NewServiceError(models.CodeNotFound, fmt.Sprintf("match %s not found", matchID))
		}
		return nil, err
	}

	var match models.Match
	if err := attributevalue.UnmarshalMap(item, &match); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match %s: %w", matchID, err)
	}
	return &match, nil
}

// GetMatchByPair retrieves the canonical match row for a user pair, or
// nil if none exists.
func (s *MatchService) GetMatchByPair(ctx context.Context, user1, user2 string) (*models.Match, error) {
	keyCondition := "pairId = :pairId"
	expressionValues := map[string]types.AttributeValue{
		":pairId": &types.AttributeValueMemberS{Value: models.PairIDFor(user1, user2)},
	}

	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.MatchesTable, models.MatchPairIndex, keyCondition, expressionValues, nil, 1)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	var match models.Match
	if err := attributevalue.UnmarshalMap(items[0], &match); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match for pair: %w", err)
	}
	return &match, nil
}

// matchesInvolving returns every match row with the user on either side.
func (s *MatchService) matchesInvolving(ctx context.Context, userID string) ([]models.Match, error) {
	var matches []models.Match
	err := s.Dynamo.ScanWithFilter(ctx, models.MatchesTable, func(item map[string]types.AttributeValue) bool {
		return utils.ExtractString(item, "userA") == userID || utils.ExtractString(item, "userB") == userID
	}, &matches)
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// ActiveMatchCount counts the user's matches in a limit-relevant state.
func (s *MatchService) ActiveMatchCount(ctx context.Context, userID string) (int, error) {
	matches, err := s.matchesInvolving(ctx, userID)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, match := range matches {
		if models.IsActiveMatchState(match.State) {
			count++
		}
	}
	return count, nil
}

// CreateUnlockedMatch creates (or upgrades) the canonical match for a
// pair once both sides have paid. A pair whose match was cancelled is
// never resurrected.
func (s *MatchService) CreateUnlockedMatch(ctx context.Context, user1, user2 string, score int) (*models.Match, error) {
	existing, err := s.GetMatchByPair(ctx, user1, user2)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339)

	if existing != nil {
		if existing.State == models.MatchStateCancelled {
			log.Printf("⚠️ Match for pair %s is cancelled, not resurrecting", existing.PairID)
			return existing, nil
		}
		if existing.State == models.MatchStateOpen {
			if err := s.transition(ctx, existing, models.MatchStateUnlocked); err != nil {
				return nil, err
			}
		}
		existing.SetDecision(existing.UserA, models.DecisionAccepted)
		existing.SetDecision(existing.UserB, models.DecisionAccepted)
		existing.UpdatedAt = now
		if err := s.Dynamo.PutItem(ctx, models.MatchesTable, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	userA, userB := models.SortPair(user1, user2)
	match := &models.Match{
		MatchID:   uuid.NewString(),
		PairID:    models.PairIDFor(user1, user2),
		UserA:     userA,
		UserB:     userB,
		Score:     score,
		State:     models.MatchStateUnlocked,
		MatchType: models.MatchTypeCofounder,
		DecisionA: models.DecisionAccepted,
		DecisionB: models.DecisionAccepted,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Dynamo.PutItem(ctx, models.MatchesTable, match); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	log.Printf("🎉 Match %s created for pair %s (score %d)", match.MatchID, match.PairID, score)
	return match, nil
}

// transition moves a match to a new state through the transition table,
// guarding against concurrent writers with a conditional put on the
// previously observed state.
func (s *MatchService) transition(ctx context.Context, match *models.Match, newState string) error {
	if !models.CanTransitionMatch(match.State, newState) {
		return models.NewServiceError(models.CodeInvalidState,
			fmt.Sprintf("match cannot move from %s to %s", match.State, newState))
	}

	previousState := match.State
	match.State = newState
	match.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	err := s.Dynamo.PutItemWithCondition(ctx, models.MatchesTable, match,
		"#state = :expected",
		map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberS{Value: previousState},
		},
		map[string]string{"#state": "state"},
	)
	if err == ErrConditionFailed {
		match.State = previousState
		return models.NewServiceError(models.CodeAlreadyHandled, "match state changed concurrently")
	}
	if err != nil {
		match.State = previousState
		return err
	}

	log.Printf("🔄 Match %s: %s → %s", match.MatchID, previousState, newState)
	return nil
}

// Unlock flips a match to UNLOCKED on a successful unlock payment.
// Already unlocked, locked or verified matches are left alone so a
// replayed payment can never downgrade state.
func (s *MatchService) Unlock(ctx context.Context, matchID, paymentID string) error {
	match, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return err
	}

	switch match.State {
	case models.MatchStateUnlocked, models.MatchStateLocked, models.MatchStateVerified:
		log.Printf("⏭️ Match %s already %s, unlock skipped", matchID, match.State)
		return nil
	case models.MatchStateCancelled:
		return models.NewServiceError(models.CodeInvalidState, "match is cancelled")
	}

	match.UnlockPaymentID = paymentID
	return s.transition(ctx, match, models.MatchStateUnlocked)
}

// LockMatch commits the acting user to a match. The match must be
// UNLOCKED or VERIFIED and the user must not already own a different
// locked team. A VERIFIED match is already binding and stays VERIFIED.
func (s *MatchService) LockMatch(ctx context.Context, userID, matchID string) (*models.MatchView, error) {
	match, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.Involves(userID) {
		return nil, models.NewServiceError(models.CodeForbidden, "caller is not a member of this match")
	}

	if match.State != models.MatchStateUnlocked && match.State != models.MatchStateVerified {
		return nil, models.NewServiceError(models.CodeInvalidState,
			fmt.Sprintf("match must be UNLOCKED or VERIFIED to lock, is %s", match.State))
	}

	lockedTeam, err := s.Teams.LockedTeamOwnedBy(ctx, userID)
	if err != nil {
		return nil, err
	}
	if lockedTeam != nil && !lockedTeam.HasMember(match.OtherUser(userID)) {
		return nil, models.NewServiceError(models.CodeInvalidState, "caller already owns a locked team")
	}

	if match.State == models.MatchStateUnlocked {
		if err := s.transition(ctx, match, models.MatchStateLocked); err != nil {
			return nil, err
		}
	}

	s.Audit.Record(ctx, userID, "match.lock", "match", matchID, "")
	s.Notifier.Notify(ctx, match.OtherUser(userID), models.NotificationTypeMatch,
		"Your match has been locked in", map[string]string{"matchId": matchID})

	view := match.ViewFor(userID)
	return &view, nil
}

// LockPair flips a single pair's match to LOCKED if it is still
// UNLOCKED. Used by the team lock cascade.
func (s *MatchService) LockPair(ctx context.Context, user1, user2 string) error {
	match, err := s.GetMatchByPair(ctx, user1, user2)
	if err != nil {
		return err
	}
	if match == nil || match.State != models.MatchStateUnlocked {
		return nil
	}
	return s.transition(ctx, match, models.MatchStateLocked)
}

// CancelMatch moves a match to CANCELLED with a recorded reason and
// actor. CANCELLED is absorbing; cancelling twice fails.
func (s *MatchService) CancelMatch(ctx context.Context, actorID, matchID, reason string) error {
	match, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return err
	}

	match.CancelReason = reason
	match.CancelledBy = actorID
	if err := s.transition(ctx, match, models.MatchStateCancelled); err != nil {
		return err
	}

	s.Audit.Record(ctx, actorID, "match.cancel", "match", matchID, reason)
	return nil
}

// StampVerified upgrades every LOCKED match involving the user to
// VERIFIED. Called when an admin approves the user's verification.
func (s *MatchService) StampVerified(ctx context.Context, userID string) error {
	matches, err := s.matchesInvolving(ctx, userID)
	if err != nil {
		return err
	}

	for i := range matches {
		if matches[i].State != models.MatchStateLocked {
			continue
		}
		if err := s.transition(ctx, &matches[i], models.MatchStateVerified); err != nil {
			return err
		}
	}
	return nil
}

// ListMatches returns the user's per-direction views of their matches.
func (s *MatchService) ListMatches(ctx context.Context, userID string) ([]models.MatchView, error) {
	matches, err := s.matchesInvolving(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]models.MatchView, 0, len(matches))
	for _, match := range matches {
		views = append(views, match.ViewFor(userID))
	}
	return views, nil
}

// Suggestion is a candidate cofounder with the caller's compatibility
// score against them.
type Suggestion struct {
	Profile models.UserProfile  `json:"profile"`
	Score   CompatibilityResult `json:"score"`
}

// ListSuggestions returns scored candidate profiles for the caller,
// excluding incomplete profiles, blocked users (either direction),
// members of already-locked teams, rejected decisions and cancelled
// pairs. A cached score on an existing open match row is refreshed when
// it has drifted.
func (s *MatchService) ListSuggestions(ctx context.Context, userID string) ([]Suggestion, error) {
	caller, err := s.Profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !IsProfileComplete(caller) {
		return nil, models.NewServiceError(models.CodeProfileIncomplete, "complete your profile to see suggestions")
	}

	profiles, err := s.Profiles.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}

	lockedMembers, err := s.Teams.LockedTeamMembers(ctx)
	if err != nil {
		return nil, err
	}

	var suggestions []Suggestion
	for i := range profiles {
		candidate := profiles[i]
		if candidate.UserID == userID || !IsProfileComplete(&candidate) {
			continue
		}
		if caller.HasBlocked(candidate.UserID) || candidate.HasBlocked(userID) {
			continue
		}
		if _, locked := lockedMembers[candidate.UserID]; locked {
			continue
		}

		match, err := s.GetMatchByPair(ctx, userID, candidate.UserID)
		if err != nil {
			return nil, err
		}

		score := ScoreProfiles(caller, &candidate)

		if match != nil {
			if match.State == models.MatchStateCancelled {
				continue
			}
			if match.DecisionFor(userID) == models.DecisionRejected ||
				match.DecisionFor(candidate.UserID) == models.DecisionRejected {
				continue
			}
			if match.State == models.MatchStateOpen && match.Score != score.Total {
				match.Score = score.Total
				match.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
				if err := s.Dynamo.PutItem(ctx, models.MatchesTable, match); err != nil {
					log.Printf("⚠️ Failed to refresh cached score for match %s: %v", match.MatchID, err)
				}
			}
		}

		suggestions = append(suggestions, Suggestion{Profile: candidate, Score: score})
	}

	return suggestions, nil
}
