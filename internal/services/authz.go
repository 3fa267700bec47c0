package services

// AuthorizeOwner is the single ownership policy for every mutating route:
// the target aggregate is re-fetched by the caller and its owning user id
// compared against the authenticated actor. Anything but an exact match is
// ErrNoAccess.
func AuthorizeOwner(actorID, ownerID int64) error {
	if actorID != ownerID {
		return ErrNoAccess
	}
	return nil
}
