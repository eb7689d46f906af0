package domain

import "time"

// Permission names a single grantable capability, e.g. "tests:write".
type Permission struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Role groups permissions under a name. Permissions is resolved via the
// role_permissions join when the role is loaded in full.
type Role struct {
	ID          string
	Name        string
	Permissions []Permission
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PermissionNames returns the names of the role's permissions.
func (r *Role) PermissionNames() []string {
	names := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		names = append(names, p.Name)
	}
	return names
}
