package models

import "strings"

// Match is the canonical record for a matched pair. It is stored once,
// keyed by the unordered pair id, with UserA/UserB held in sorted order.
// The two per-direction views the API serves are derived at read time,
// so both directions always report the same state and score.
type Match struct {
	MatchID         string `dynamodbav:"matchId" json:"matchId"`
	PairID          string `dynamodbav:"pairId" json:"pairId"`
	UserA           string `dynamodbav:"userA" json:"userA"`
	UserB           string `dynamodbav:"userB" json:"userB"`
	Score           int    `dynamodbav:"score" json:"score"`
	State           string `dynamodbav:"state" json:"state"`
	MatchType       string `dynamodbav:"matchType" json:"matchType"`
	DecisionA       string `dynamodbav:"decisionA" json:"decisionA"`
	DecisionB       string `dynamodbav:"decisionB" json:"decisionB"`
	UnlockPaymentID string `dynamodbav:"unlockPaymentId,omitempty" json:"unlockPaymentId,omitempty"`
	CancelReason    string `dynamodbav:"cancelReason,omitempty" json:"cancelReason,omitempty"`
	CancelledBy     string `dynamodbav:"cancelledBy,omitempty" json:"cancelledBy,omitempty"`
	CreatedAt       string `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt       string `dynamodbav:"updatedAt" json:"updatedAt"`
}

// MatchView is the per-direction read model of a Match.
type MatchView struct {
	MatchID       string `json:"matchId"`
	UserID        string `json:"userId"`
	MatchedUserID string `json:"matchedUserId"`
	Score         int    `json:"score"`
	State         string `json:"state"`
	MatchType     string `json:"matchType"`
	Decision      string `json:"decision"`
}

// PairIDFor builds the unordered pair key for two users.
func PairIDFor(user1, user2 string) string {
	if user1 < user2 {
		return user1 + "#" + user2
	}
	return user2 + "#" + user1
}

// SortPair returns the two users in canonical (sorted) order.
func SortPair(user1, user2 string) (string, string) {
	if user1 < user2 {
		return user1, user2
	}
	return user2, user1
}

// SplitPairID is the inverse of PairIDFor.
func SplitPairID(pairID string) (string, string) {
	parts := strings.SplitN(pairID, "#", 2)
	if len(parts) != 2 {
		return pairID, ""
	}
	return parts[0], parts[1]
}

// Involves reports whether the given user is one side of the match.
func (m *Match) Involves(userID string) bool {
	return m.UserA == userID || m.UserB == userID
}

// OtherUser returns the counterpart of the given user.
func (m *Match) OtherUser(userID string) string {
	if m.UserA == userID {
		return m.UserB
	}
	return m.UserA
}

// DecisionFor returns the stored decision for one side of the match.
func (m *Match) DecisionFor(userID string) string {
	if m.UserA == userID {
		return m.DecisionA
	}
	if m.UserB == userID {
		return m.DecisionB
	}
	return DecisionUnset
}

// SetDecision records a decision for one side of the match.
func (m *Match) SetDecision(userID, decision string) {
	if m.UserA == userID {
		m.DecisionA = decision
	} else if m.UserB == userID {
		m.DecisionB = decision
	}
}

// ViewFor derives the read model for one side of the match.
func (m *Match) ViewFor(userID string) MatchView {
	return MatchView{
		MatchID:       m.MatchID,
		UserID:        userID,
		MatchedUserID: m.OtherUser(userID),
		Score:         m.Score,
		State:         m.State,
		MatchType:     m.MatchType,
		Decision:      m.DecisionFor(userID),
	}
}

// Views derives both per-direction read models.
func (m *Match) Views() (MatchView, MatchView) {
	return m.ViewFor(m.UserA), m.ViewFor(m.UserB)
}

// MatchesTable is the DynamoDB table name for canonical match records
const MatchesTable = "Matches"

// MatchPairIndex is the GSI on Matches keyed by pairId
const MatchPairIndex = "pairId-index"

// MatchTypeCofounder is the default match type
const MatchTypeCofounder = "cofounder"
