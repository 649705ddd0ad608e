package auth

// ScopeToOwner reports whether the caller may see or change a resource
// owned by resourceOwnerID. A denied caller must get the same answer as
// for a missing resource, so callers translate false into not-found.
func ScopeToOwner(callerID, resourceOwnerID string) bool {
	return callerID != "" && callerID == resourceOwnerID
}
