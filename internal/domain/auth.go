package domain

// RoleSnapshot is the role portion of a cached login snapshot. Permissions is
// a point-in-time copy of the role's permission names; it does not track later
// role edits until the principal logs in again.
type RoleSnapshot struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// SessionSnapshot is the denormalized logged-in principal stored in the
// session cache, keyed by email. It lets the permission guard authorize
// requests without re-querying the permission graph on every call.
type SessionSnapshot struct {
	Email    string       `json:"email"`
	FullName string       `json:"fullname"`
	Role     RoleSnapshot `json:"role"`
}

// HasPermissions reports whether the snapshot's permission set is a superset
// of required. AND semantics: one missing permission denies the whole request.
func (s *SessionSnapshot) HasPermissions(required []string) bool {
	if len(required) == 0 {
		return true
	}
	owned := make(map[string]struct{}, len(s.Role.Permissions))
	for _, p := range s.Role.Permissions {
		owned[p] = struct{}{}
	}
	for _, want := range required {
		if _, ok := owned[want]; !ok {
			return false
		}
	}
	return true
}
