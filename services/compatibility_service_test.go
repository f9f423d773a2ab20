package services

import (
	"testing"

	"cofoundr_server/models"

	"github.com/stretchr/testify/assert"
)

func TestScoreProfilesComplementaryPair(t *testing.T) {
	caller := &models.UserProfile{
		Role:       models.RoleTechnical,
		Skills:     []string{"React", "Node"},
		Commitment: models.CommitmentFullTime,
		Location:   "Lagos",
	}
	candidate := &models.UserProfile{
		Role:       models.RoleBusiness,
		Skills:     []string{"react", "sales"},
		Commitment: models.CommitmentFullTime,
		Location:   "Lagos",
	}

	result := ScoreProfiles(caller, candidate)

	assert.Equal(t, 30, result.Breakdown.Role)
	assert.Equal(t, 15, result.Breakdown.Skills) // 1 of min(2,2) shared
	assert.Equal(t, 20, result.Breakdown.Commitment)
	assert.Equal(t, 20, result.Breakdown.Location)
	assert.Equal(t, 85, result.Total)
	assert.NotEmpty(t, result.Reasons)
}

func TestScoreProfilesSameRoleScoresLow(t *testing.T) {
	caller := &models.UserProfile{Role: models.RoleTechnical}
	candidate := &models.UserProfile{Role: models.RoleTechnical}

	result := ScoreProfiles(caller, candidate)
	assert.Equal(t, 10, result.Breakdown.Role)
}

func TestScoreProfilesNonComplementaryRole(t *testing.T) {
	// operations is not in technical's complement set
	caller := &models.UserProfile{Role: models.RoleTechnical}
	candidate := &models.UserProfile{Role: models.RoleOperations}

	result := ScoreProfiles(caller, candidate)
	assert.Equal(t, 20, result.Breakdown.Role)
}

func TestScoreProfilesRoleReasonMatchesOutcome(t *testing.T) {
	caller := &models.UserProfile{Role: models.RoleTechnical}

	result := ScoreProfiles(caller, &models.UserProfile{Role: models.RoleBusiness})
	assert.Contains(t, result.Reasons, "Role business complements technical")

	result = ScoreProfiles(caller, &models.UserProfile{Role: models.RoleTechnical})
	assert.Contains(t, result.Reasons, "Same role (technical)")

	result = ScoreProfiles(caller, &models.UserProfile{Role: models.RoleOperations})
	assert.Contains(t, result.Reasons, "Roles technical and operations can work together")
	for _, reason := range result.Reasons {
		assert.NotContains(t, reason, "complements")
	}
}

func TestScoreProfilesSkillMatchingIsCaseInsensitive(t *testing.T) {
	caller := &models.UserProfile{Skills: []string{"  Go ", "REACT"}}
	candidate := &models.UserProfile{Skills: []string{"go", "react"}}

	result := ScoreProfiles(caller, candidate)
	assert.Equal(t, 30, result.Breakdown.Skills)
}

func TestScoreProfilesCommitmentDistance(t *testing.T) {
	caller := &models.UserProfile{Commitment: models.CommitmentExploring}
	candidate := &models.UserProfile{Commitment: models.CommitmentFullTime}

	result := ScoreProfiles(caller, candidate)
	assert.Equal(t, 5, result.Breakdown.Commitment) // distance 3

	candidate.Commitment = models.CommitmentWeekends
	result = ScoreProfiles(caller, candidate)
	assert.Equal(t, 15, result.Breakdown.Commitment) // distance 1
}

func TestScoreProfilesLocation(t *testing.T) {
	caller := &models.UserProfile{Location: "Lagos"}

	assert.Equal(t, 20, ScoreProfiles(caller, &models.UserProfile{Location: "lagos"}).Breakdown.Location)
	assert.Equal(t, 10, ScoreProfiles(caller, &models.UserProfile{Location: "Remote"}).Breakdown.Location)
	assert.Equal(t, 10, ScoreProfiles(caller, &models.UserProfile{Location: "Lagos Island"}).Breakdown.Location)
	assert.Equal(t, 0, ScoreProfiles(caller, &models.UserProfile{Location: "Berlin"}).Breakdown.Location)
	assert.Equal(t, 0, ScoreProfiles(caller, &models.UserProfile{}).Breakdown.Location)
}

func TestScoreProfilesBounds(t *testing.T) {
	full := &models.UserProfile{
		Role:       models.RoleTechnical,
		Skills:     []string{"go", "react"},
		Commitment: models.CommitmentFullTime,
		Location:   "Remote",
	}
	counterpart := &models.UserProfile{
		Role:       models.RoleBusiness,
		Skills:     []string{"go", "react"},
		Commitment: models.CommitmentFullTime,
		Location:   "Remote",
	}

	result := ScoreProfiles(full, counterpart)
	assert.LessOrEqual(t, result.Total, 100)
	assert.GreaterOrEqual(t, result.Total, 0)

	empty := ScoreProfiles(&models.UserProfile{}, &models.UserProfile{})
	assert.LessOrEqual(t, empty.Total, 100)
	assert.GreaterOrEqual(t, empty.Total, 0)
}

func TestScoreProfilesIsDeterministic(t *testing.T) {
	caller := founderProfile("a", models.RoleTechnical)
	candidate := founderProfile("b", models.RoleBusiness)

	first := ScoreProfiles(caller, candidate)
	second := ScoreProfiles(caller, candidate)
	assert.Equal(t, first, second)
}

func TestIsProfileComplete(t *testing.T) {
	assert.False(t, IsProfileComplete(nil))

	complete := founderProfile("a", models.RoleTechnical)
	assert.True(t, IsProfileComplete(complete))

	missingSkills := founderProfile("a", models.RoleTechnical)
	missingSkills.Skills = nil
	assert.False(t, IsProfileComplete(missingSkills))

	// The explicit flag overrides field checks in both directions
	flaggedDone := &models.UserProfile{UserID: "a", Completed: boolPtr(true)}
	assert.True(t, IsProfileComplete(flaggedDone))

	flaggedNotDone := founderProfile("a", models.RoleTechnical)
	flaggedNotDone.Completed = boolPtr(false)
	assert.False(t, IsProfileComplete(flaggedNotDone))
}

func boolPtr(b bool) *bool { return &b }
