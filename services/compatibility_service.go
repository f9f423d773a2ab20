package services

import (
	"fmt"
	"strings"

	"cofoundr_server/models"
)

// CompatibilityBreakdown holds the per-dimension contributions to a score.
type CompatibilityBreakdown struct {
	Role       int `json:"role"`
	Skills     int `json:"skills"`
	Commitment int `json:"commitment"`
	Location   int `json:"location"`
}

// CompatibilityResult is the output of scoring two profiles.
type CompatibilityResult struct {
	Total     int                    `json:"total"`
	Breakdown CompatibilityBreakdown `json:"breakdown"`
	Reasons   []string               `json:"reasons"`
}

// roleComplements maps a caller's role to the set of roles that pair
// well with it. The table is directional: it is read from the caller's
// perspective.
var roleComplements = map[string][]string{
	models.RoleTechnical:  {models.RoleBusiness, models.RoleProduct, models.RoleMarketing},
	models.RoleBusiness:   {models.RoleTechnical, models.RoleDesign, models.RoleProduct},
	models.RoleProduct:    {models.RoleTechnical, models.RoleMarketing, models.RoleDesign},
	models.RoleDesign:     {models.RoleTechnical, models.RoleBusiness, models.RoleProduct},
	models.RoleMarketing:  {models.RoleTechnical, models.RoleProduct, models.RoleFinance},
	models.RoleOperations: {models.RoleTechnical, models.RoleBusiness, models.RoleFinance},
	models.RoleFinance:    {models.RoleTechnical, models.RoleBusiness, models.RoleOperations},
}

// ScoreProfiles computes the 0-100 compatibility score of a candidate
// from the caller's perspective. It is pure: same inputs, same output.
func ScoreProfiles(caller, candidate *models.UserProfile) CompatibilityResult {
	result := CompatibilityResult{Reasons: []string{}}

	// Role: 30 complement, 10 identical, 20 otherwise
	roleScore := 20
	if caller.Role == candidate.Role {
		roleScore = 10
	} else if isComplementRole(caller.Role, candidate.Role) {
		roleScore = 30
	}
	result.Breakdown.Role = roleScore
	switch roleScore {
	case 30:
		result.Reasons = append(result.Reasons, fmt.Sprintf("Role %s complements %s", candidate.Role, caller.Role))
	case 10:
		result.Reasons = append(result.Reasons, fmt.Sprintf("Same role (%s)", caller.Role))
	default:
		result.Reasons = append(result.Reasons, fmt.Sprintf("Roles %s and %s can work together", caller.Role, candidate.Role))
	}

	// Skills: round(30 * overlap / max(1, min(|A|, |B|)))
	overlap := skillOverlap(caller.Skills, candidate.Skills)
	smaller := len(normalizeSkills(caller.Skills))
	if n := len(normalizeSkills(candidate.Skills)); n < smaller {
		smaller = n
	}
	if smaller < 1 {
		smaller = 1
	}
	skillScore := int(float64(30*overlap)/float64(smaller) + 0.5)
	result.Breakdown.Skills = skillScore
	if skillScore > 0 {
		result.Reasons = append(result.Reasons, fmt.Sprintf("%d shared skill(s)", overlap))
	}

	// Commitment: max(0, 20 - 5 * ordinal distance)
	distance := models.CommitmentOrdinal(caller.Commitment) - models.CommitmentOrdinal(candidate.Commitment)
	if distance < 0 {
		distance = -distance
	}
	commitmentScore := 20 - 5*distance
	if commitmentScore < 0 {
		commitmentScore = 0
	}
	result.Breakdown.Commitment = commitmentScore
	if commitmentScore > 0 {
		result.Reasons = append(result.Reasons, "Compatible commitment levels")
	}

	// Location: 20 equal, 10 containment or remote, else 0
	locationScore := scoreLocation(caller.Location, candidate.Location)
	result.Breakdown.Location = locationScore
	if locationScore > 0 {
		result.Reasons = append(result.Reasons, "Location overlap")
	}

	total := roleScore + skillScore + commitmentScore + locationScore
	if total > 100 {
		total = 100
	}
	result.Total = total
	return result
}

func isComplementRole(callerRole, candidateRole string) bool {
	for _, role := range roleComplements[callerRole] {
		if role == candidateRole {
			return true
		}
	}
	return false
}

func normalizeSkills(skills []string) map[string]struct{} {
	set := make(map[string]struct{}, len(skills))
	for _, skill := range skills {
		normalized := strings.ToLower(strings.TrimSpace(skill))
		if normalized != "" {
			set[normalized] = struct{}{}
		}
	}
	return set
}

func skillOverlap(a, b []string) int {
	setA := normalizeSkills(a)
	overlap := 0
	for skill := range normalizeSkills(b) {
		if _, ok := setA[skill]; ok {
			overlap++
		}
	}
	return overlap
}

func scoreLocation(a, b string) int {
	locA := strings.ToLower(strings.TrimSpace(a))
	locB := strings.ToLower(strings.TrimSpace(b))
	if locA == "" || locB == "" {
		return 0
	}
	if locA == locB {
		return 20
	}
	if strings.Contains(locA, locB) || strings.Contains(locB, locA) ||
		strings.Contains(locA, "remote") || strings.Contains(locB, "remote") {
		return 10
	}
	return 0
}

// IsProfileComplete gates every match operation. The explicit completed
// flag wins when present; otherwise the essential fields must all be
// non-empty.
func IsProfileComplete(p *models.UserProfile) bool {
	if p == nil {
		return false
	}
	if p.Completed != nil {
		return *p.Completed
	}
	return p.FullName != "" &&
		p.Role != "" &&
		len(p.Skills) > 0 &&
		p.Interests != "" &&
		p.Commitment != "" &&
		p.Location != ""
}
