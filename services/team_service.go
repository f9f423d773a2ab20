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

// TeamService assembles matched founders into bounded teams. A user
// belongs to at most one team; locking a team is what makes it binding.
type TeamService struct {
	Dynamo   *DynamoService
	Config   *config.AppConfig
	Matches  *MatchService
	Notifier *NotificationService
	Audit    *AuditService
}

// GetTeam retrieves a team by id.
func (s *TeamService) GetTeam(ctx context.Context, teamID string) (*models.Team, error) {
	key := map[string]types.AttributeValue{
		"teamId": &types.AttributeValueMemberS{Value: teamID},
	}
	item, err := s.Dynamo.GetItem(ctx, models.TeamsTable, key)
	if err != nil {
		if err == ErrItemNotFound {
			return nil, models.NewServiceError(models.CodeNotFound, fmt.Sprintf("team %s not found", teamID))
		}
		return nil, err
	}

	var team models.Team
	if err := attributevalue.UnmarshalMap(item, &team); err != nil {
		return nil, fmt.Errorf("failed to unmarshal team %s: %w", teamID, err)
	}
	return &team, nil
}

// TeamFor returns the team the user belongs to, or nil.
func (s *TeamService) TeamFor(ctx context.Context, userID string) (*models.Team, error) {
	var teams []models.Team
	err := s.Dynamo.ScanWithFilter(ctx, models.TeamsTable, func(item map[string]types.AttributeValue) bool {
		for _, member := range utils.ExtractStringList(item, "memberIds") {
			if member == userID {
				return true
			}
		}
		return false
	}, &teams)
	if err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return nil, nil
	}
	return &teams[0], nil
}

// LockedTeamOwnedBy returns the locked team the user owns, or nil.
func (s *TeamService) LockedTeamOwnedBy(ctx context.Context, userID string) (*models.Team, error) {
	team, err := s.TeamFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if team != nil && team.OwnerID == userID && team.Status == models.TeamStatusLocked {
		return team, nil
	}
	return nil, nil
}

// LockedTeamMembers returns the set of users on any locked team.
func (s *TeamService) LockedTeamMembers(ctx context.Context) (map[string]struct{}, error) {
	var teams []models.Team
	err := s.Dynamo.ScanWithFilter(ctx, models.TeamsTable, func(item map[string]types.AttributeValue) bool {
		return utils.ExtractString(item, "status") == models.TeamStatusLocked
	}, &teams)
	if err != nil {
		return nil, err
	}

	members := make(map[string]struct{})
	for _, team := range teams {
		for _, member := range team.MemberIDs {
			members[member] = struct{}{}
		}
	}
	return members, nil
}

// InviteToTeam adds a matched user to the caller's forming team,
// creating the team on first invite. The match must be UNLOCKED or
// VERIFIED and the invitee must not already belong to a team.
func (s *TeamService) InviteToTeam(ctx context.Context, ownerID, matchID string) (*models.Team, error) {
	match, err := s.Matches.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.Involves(ownerID) {
		return nil, models.NewServiceError(models.CodeForbidden, "caller is not a member of this match")
	}
	if match.State != models.MatchStateUnlocked && match.State != models.MatchStateVerified {
		return nil, models.NewServiceError(models.CodeInvalidState,
			fmt.Sprintf("match must be UNLOCKED or VERIFIED to invite, is %s", match.State))
	}

	invitee := match.OtherUser(ownerID)

	inviteeTeam, err := s.TeamFor(ctx, invitee)
	if err != nil {
		return nil, err
	}
	if inviteeTeam != nil {
		return nil, models.NewServiceError(models.CodeInvalidState, "invitee already belongs to a team")
	}

	team, err := s.TeamFor(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if team == nil {
		team = &models.Team{
			TeamID:     uuid.NewString(),
			OwnerID:    ownerID,
			MemberIDs:  []string{ownerID},
			Status:     models.TeamStatusForming,
			MaxMembers: s.Config.MaxTeamMembers,
			CreatedAt:  now,
		}
	}
	if team.OwnerID != ownerID {
		return nil, models.NewServiceError(models.CodeForbidden, "only the team owner may invite")
	}
	if team.Status != models.TeamStatusForming {
		return nil, models.NewServiceError(models.CodeInvalidState, "a locked team cannot accept new members")
	}
	if team.HasMember(invitee) {
		return nil, models.NewServiceError(models.CodeAlreadyHandled, "user is already on the team")
	}
	if len(team.MemberIDs) >= team.MaxMembers {
		return nil, models.NewServiceError(models.CodeInvalidState,
			fmt.Sprintf("team is full (%d members)", team.MaxMembers))
	}

	team.MemberIDs = append(team.MemberIDs, invitee)
	team.UpdatedAt = now
	if err := s.Dynamo.PutItem(ctx, models.TeamsTable, team); err != nil {
		return nil, fmt.Errorf("failed to save team: %w", err)
	}

	log.Printf("👥 %s joined team %s", invitee, team.TeamID)
	s.Notifier.Notify(ctx, invitee, models.NotificationTypeTeam,
		"You have been added to a team", map[string]string{"teamId": team.TeamID})

	return team, nil
}

// LockTeam makes the caller's team binding: the team moves to locked
// and every match between the owner and a member moves to LOCKED.
func (s *TeamService) LockTeam(ctx context.Context, ownerID string) (*models.Team, error) {
	team, err := s.TeamFor(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, models.NewServiceError(models.CodeNotFound, "caller has no team")
	}
	if team.OwnerID != ownerID {
		return nil, models.NewServiceError(models.CodeForbidden, "only the team owner may lock")
	}
	if !models.CanTransitionTeam(team.Status, models.TeamStatusLocked) {
		return nil, models.NewServiceError(models.CodeInvalidState,
			fmt.Sprintf("team cannot be locked from %s", team.Status))
	}
	if len(team.MemberIDs) < 2 {
		return nil, models.NewServiceError(models.CodeInvalidState, "a team needs at least 2 members to lock")
	}

	for _, member := range team.MemberIDs {
		if member == ownerID {
			continue
		}
		if err := s.Matches.LockPair(ctx, ownerID, member); err != nil {
			return nil, err
		}
	}

	team.Status = models.TeamStatusLocked
	team.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	if err := s.Dynamo.PutItem(ctx, models.TeamsTable, team); err != nil {
		return nil, fmt.Errorf("failed to lock team: %w", err)
	}

	log.Printf("🔒 Team %s locked with %d members", team.TeamID, len(team.MemberIDs))
	s.Audit.Record(ctx, ownerID, "team.lock", "team", team.TeamID, "")
	for _, member := range team.MemberIDs {
		if member != ownerID {
			s.Notifier.Notify(ctx, member, models.NotificationTypeTeam,
				"Your team has been locked in", map[string]string{"teamId": team.TeamID})
		}
	}

	return team, nil
}

// ReopenTeamFor reverts a locked team containing both users to forming.
// Called by the cancellation cascade; no-op when no such team exists.
func (s *TeamService) ReopenTeamFor(ctx context.Context, user1, user2 string) error {
	team, err := s.TeamFor(ctx, user1)
	if err != nil {
		return err
	}
	if team == nil || team.Status != models.TeamStatusLocked || !team.HasMember(user2) {
		return nil
	}

	team.Status = models.TeamStatusForming
	team.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	if err := s.Dynamo.PutItem(ctx, models.TeamsTable, team); err != nil {
		return fmt.Errorf("failed to reopen team: %w", err)
	}

	log.Printf("🔓 Team %s reverted to forming", team.TeamID)
	return nil
}
