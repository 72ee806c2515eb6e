package domain

// Car represents a user's car. The booking engine only reads it:
// OwnerID gates access and ID scopes overlap checks.
type Car struct {
	ID           int64
	OwnerID      int64
	CategoryID   *int64
	Name         string
	LicensePlate *string
	VIN          *string
	ModelYear    *int
}
