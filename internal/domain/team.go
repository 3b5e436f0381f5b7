package domain

import "strings"

// Role is a team member's role.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleIntern Role = "intern"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleMember, RoleIntern:
		return true
	}
	return false
}

// TeamMember is a person allowed to log in. Email is the login key.
type TeamMember struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Role           Role   `json:"role"`
	CanManageStock bool   `json:"canManageStock"`
	AvatarColor    string `json:"avatarColor"`
}

func (m TeamMember) EntityID() string { return m.ID }

// IsAdmin reports whether the member holds the admin role.
func (m TeamMember) IsAdmin() bool {
	return m.Role == RoleAdmin
}

// SuperAdminEmail is the reserved address that always resolves to an administrator.
const SuperAdminEmail = "admin@fablab.com"

// SuperAdmin returns the synthesized administrator profile.
func SuperAdmin() TeamMember {
	return TeamMember{
		ID:             "super-admin",
		Name:           "Administrateur Principal",
		Email:          SuperAdminEmail,
		Role:           RoleAdmin,
		CanManageStock: true,
		AvatarColor:    "bg-indigo-600",
	}
}

// AvatarColors is the palette assigned to new members.
var AvatarColors = []string{
	"bg-indigo-500",
	"bg-emerald-500",
	"bg-rose-500",
	"bg-amber-500",
	"bg-blue-500",
	"bg-purple-500",
}

// NormalizeEmail trims and lower-cases an address for comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FindMemberByEmail looks a member up by case-insensitive exact email match.
func FindMemberByEmail(team []TeamMember, email string) (TeamMember, bool) {
	want := NormalizeEmail(email)
	if want == "" {
		return TeamMember{}, false
	}
	for _, m := range team {
		if NormalizeEmail(m.Email) == want {
			return m, true
		}
	}
	return TeamMember{}, false
}

// ResolveMember resolves a login email against the team, synthesizing the super administrator
// for the reserved address when it is not a listed member.
func ResolveMember(team []TeamMember, email string) (TeamMember, bool) {
	if m, ok := FindMemberByEmail(team, email); ok {
		return m, true
	}
	if NormalizeEmail(email) == SuperAdminEmail {
		return SuperAdmin(), true
	}
	return TeamMember{}, false
}

// ResolveMemberByID looks a member up by id, including the synthesized super administrator.
func ResolveMemberByID(team []TeamMember, id string) (TeamMember, bool) {
	if m, ok := Find(team, id); ok {
		return m, true
	}
	if id == SuperAdmin().ID {
		return SuperAdmin(), true
	}
	return TeamMember{}, false
}
