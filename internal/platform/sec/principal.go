// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// Principal is the authenticated caller of a request, resolved from the
// account store on every request so that role changes apply immediately.
type Principal struct {
	UserID      int64
	Username    string
	Email       string
	Role        UserRole
	IsStaff     bool
	IsSuperuser bool
}

// IsAdmin reports whether the caller holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// IsModerator reports whether the caller holds the moderator role.
func (p *Principal) IsModerator() bool {
	return p != nil && p.Role == RoleModerator
}

// CanAdminister reports whether the caller may manage the catalogue and accounts.
// Superusers and the admin role carry the same rights.
func (p *Principal) CanAdminister() bool {
	return p != nil && (p.IsSuperuser || p.IsAdmin())
}

// CanModerate reports whether the caller may edit or delete content written by others.
func (p *Principal) CanModerate() bool {
	return p != nil && (p.IsStaff || p.IsSuperuser || p.IsAdmin() || p.IsModerator())
}

// CanAssignRoles reports whether the caller's profile updates may change roles.
func (p *Principal) CanAssignRoles() bool {
	return p != nil && (p.IsStaff || p.IsSuperuser || p.IsAdmin())
}
