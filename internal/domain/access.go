package domain

// CanAccess reports whether the requester may act on a resource owned by ownerID
func CanAccess(requesterID, ownerID int64) bool {
	return requesterID > 0 && requesterID == ownerID
}
