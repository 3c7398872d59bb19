package utils

// Permission levels
const (
	ModeratorPermission = "moderator"
	UserPermission      = "user"
)

// Contains checks if a slice of strings contains an element.
func Contains(slice []string, item string) bool {
	for _, a := range slice {
		if a == item {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether any of the user's role IDs appears in the
// configured role list.
func HasAnyRole(userRoleIDs, configuredRoleIDs []string) bool {
	for _, roleID := range userRoleIDs {
		if Contains(configuredRoleIDs, roleID) {
			return true
		}
	}
	return false
}

// CheckPermission returns the highest permission level for a member
// against the configured moderator roles.
func CheckPermission(userRoleIDs []string, moderatorRoleIDs []string) string {
	if HasAnyRole(userRoleIDs, moderatorRoleIDs) {
		return ModeratorPermission
	}
	return UserPermission
}
