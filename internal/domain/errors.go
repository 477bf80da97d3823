package domain

import "fmt"

// NotFoundError reports an absent package, customer or booking.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with id: %s", e.Resource, e.ID)
}

func NewNotFound(resource string, id int64) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: fmt.Sprintf("%d", id)}
}

// InsufficientCapacityError reports a reservation that does not fit into
// the package's remaining capacity.
type InsufficientCapacityError struct {
	PackageID int64
	Requested int
	Available int
}

func (e *InsufficientCapacityError) Error() string {
	return fmt.Sprintf("package %d does not have enough capacity: requested %d, available %d",
		e.PackageID, e.Requested, e.Available)
}

// BusinessRuleError reports a violated booking rule, such as an illegal
// state transition or an inactive package.
type BusinessRuleError struct {
	Rule string
}

func (e *BusinessRuleError) Error() string {
	return e.Rule
}
