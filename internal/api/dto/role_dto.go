package dto

// RoleRequest payload for creating or renaming a role.
type RoleRequest struct {
	Name string `json:"name"`
}

// PermissionRequest payload for creating a permission.
type PermissionRequest struct {
	Name string `json:"name"`
}

// RolePermissionRequest payload for assigning or revoking a permission.
type RolePermissionRequest struct {
	PermissionID string `json:"permission_id"`
}
