package domain

import "fmt"

// ServiceType represents the kind of work performed
type ServiceType int

const (
	ServiceTypePeriodic   ServiceType = 1
	ServiceTypeMechanical ServiceType = 2
	ServiceTypeBody       ServiceType = 3
	ServiceTypeDetailing  ServiceType = 4
)

var serviceTypeNames = map[ServiceType]string{
	ServiceTypePeriodic:   "periodic",
	ServiceTypeMechanical: "mechanical",
	ServiceTypeBody:       "body",
	ServiceTypeDetailing:  "detailing",
}

func (t ServiceType) String() string {
	if name, ok := serviceTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(t))
}

// Service represents a service from the catalog
type Service struct {
	ID                  int64
	Title               string
	ServiceType         ServiceType
	IsActive            bool
	BaseDurationMinutes int // default booking duration
	Description         *string
}
