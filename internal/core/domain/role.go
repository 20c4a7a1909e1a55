package domain

// Role is the closed set of account roles. Anything outside it is rejected
// when parsed from a token or a request.
type Role string

const (
	RoleUser     Role = "user"
	RoleEmployer Role = "employer"
	RoleAdmin    Role = "admin"
)

var roles = map[Role]struct{}{
	RoleUser:     {},
	RoleEmployer: {},
	RoleAdmin:    {},
}

// ParseRole converts s into a Role, reporting false for unknown values.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	_, ok := roles[r]
	return r, ok
}

func (r Role) Valid() bool {
	_, ok := roles[r]
	return ok
}

// In reports whether r is one of set.
func (r Role) In(set ...Role) bool {
	for _, allowed := range set {
		if r == allowed {
			return true
		}
	}
	return false
}
