package auth

// AuthorizeSelf is the self-only rule: true iff principal is the owner named by
// targetUsername. A nil principal is never authorized.
func AuthorizeSelf(principal *User, targetUsername string) bool {
	if principal == nil || principal.Username == "" {
		return false
	}
	return principal.Username == targetUsername
}
