package models

// Team groups matched founders. A user belongs to at most one team at a
// time; the owner is always the first member.
type Team struct {
	TeamID     string   `dynamodbav:"teamId" json:"teamId"`
	OwnerID    string   `dynamodbav:"ownerId" json:"ownerId"`
	MemberIDs  []string `dynamodbav:"memberIds" json:"memberIds"`
	Status     string   `dynamodbav:"status" json:"status"`
	MaxMembers int      `dynamodbav:"maxMembers" json:"maxMembers"`
	CreatedAt  string   `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt  string   `dynamodbav:"updatedAt" json:"updatedAt"`
}

// HasMember reports whether the given user is on the team.
func (t *Team) HasMember(userID string) bool {
	for _, member := range t.MemberIDs {
		if member == userID {
			return true
		}
	}
	return false
}

// TeamsTable is the DynamoDB table name for teams
const TeamsTable = "Teams"
