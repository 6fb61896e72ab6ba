package shared

// ══════════════════════════════════════════════════════════════════════════════
// IDENTITY & ROLE
// The acting identity resolved from the access token. Every access-scoped
// query and every write validation takes one of these as input.
// ══════════════════════════════════════════════════════════════════════════════

// Role determines the entity subset and write permissions available to an
// identity.
type Role string

const (
	// RoleStudent - may read own marks, homework and schedule.
	RoleStudent Role = "student"

	// RoleTeacher - may manage lessons, schedules, marks and homework.
	RoleTeacher Role = "teacher"

	// RoleNone - the user has no profile yet; the token carries no role
	// claim and no diary data is visible.
	RoleNone Role = ""
)

// IsValid checks that the role is one of the known profile roles.
func (r Role) IsValid() bool {
	return r == RoleStudent || r == RoleTeacher
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// ParseRole parses a string into a Role. Unknown values map to RoleNone.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleStudent:
		return RoleStudent
	case RoleTeacher:
		return RoleTeacher
	default:
		return RoleNone
	}
}

// Identity is the authenticated caller: user ID plus the role claim carried
// by the access token.
type Identity struct {
	UserID string
	Role   Role
}

// IsTeacher returns true if the identity carries the teacher role.
func (i Identity) IsTeacher() bool {
	return i.Role == RoleTeacher
}

// IsStudent returns true if the identity carries the student role.
func (i Identity) IsStudent() bool {
	return i.Role == RoleStudent
}

// IsZero returns true if no identity was resolved.
func (i Identity) IsZero() bool {
	return i.UserID == ""
}
