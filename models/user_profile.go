package models

// UserProfile defines the structure for founder profiles
type UserProfile struct {
	UserID         string   `dynamodbav:"userId" json:"userId"`
	FullName       string   `dynamodbav:"fullName,omitempty" json:"fullName,omitempty"`
	EmailID        string   `dynamodbav:"emailId,omitempty" json:"emailId,omitempty"`
	Role           string   `dynamodbav:"role,omitempty" json:"role,omitempty"`
	Skills         []string `dynamodbav:"skills,omitempty" json:"skills,omitempty"`
	Languages      []string `dynamodbav:"languages,omitempty" json:"languages,omitempty"`
	Achievements   []string `dynamodbav:"achievements,omitempty" json:"achievements,omitempty"`
	Interests      string   `dynamodbav:"interests,omitempty" json:"interests,omitempty"`
	Commitment     string   `dynamodbav:"commitment,omitempty" json:"commitment,omitempty"`
	Location       string   `dynamodbav:"location,omitempty" json:"location,omitempty"`
	Phone          string   `dynamodbav:"phone,omitempty" json:"phone,omitempty"`
	LinkedIn       string   `dynamodbav:"linkedin,omitempty" json:"linkedin,omitempty"`
	Completed      *bool    `dynamodbav:"completed,omitempty" json:"completed,omitempty"`
	MatchLimit     int      `dynamodbav:"matchLimit,omitempty" json:"matchLimit,omitempty"`
	BlockedUserIDs []string `dynamodbav:"blockedUserIds,omitempty" json:"blockedUserIds,omitempty"`
	IsAdmin        bool     `dynamodbav:"isAdmin,omitempty" json:"isAdmin,omitempty"`
	CreatedAt      string   `dynamodbav:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt      string   `dynamodbav:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// HasBlocked reports whether this profile has blocked the given user.
func (p *UserProfile) HasBlocked(userID string) bool {
	for _, blocked := range p.BlockedUserIDs {
		if blocked == userID {
			return true
		}
	}
	return false
}

// UserProfilesTable is the DynamoDB table name for founder profiles
const UserProfilesTable = "CofounderProfiles"
