package domain

import (
	"errors"
	"fmt"
)

// Error classes. Planning errors (validation, constraint, infeasible) abort a
// reload; query errors (not found, invalid time) are reported to the caller only.
var (
	ErrValidation        = errors.New("validation error")
	ErrConstraint        = errors.New("constraint error")
	ErrRoutingInfeasible = errors.New("routing infeasible")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTime       = errors.New("invalid time")
	ErrNotReady          = errors.New("no snapshot loaded")
)

// ValidationError reports malformed or inconsistent input data.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ConstraintError reports contradictory or unsatisfiable package constraints.
// PackageID is zero when the problem is not tied to one package.
type ConstraintError struct {
	PackageID int
	Reason    string
}

func (e *ConstraintError) Error() string {
	if e.PackageID == 0 {
		return fmt.Sprintf("constraint error: %s", e.Reason)
	}
	return fmt.Sprintf("constraint error: package %d: %s", e.PackageID, e.Reason)
}

func (e *ConstraintError) Is(target error) bool { return target == ErrConstraint }

func NewConstraintError(packageID int, format string, args ...any) *ConstraintError {
	return &ConstraintError{PackageID: packageID, Reason: fmt.Sprintf(format, args...)}
}

// RoutingInfeasibleError names the first package whose simulated delivery misses its deadline.
type RoutingInfeasibleError struct {
	PackageID   int
	TruckID     int
	DeliveredAt TimeOfDay
	Deadline    TimeOfDay
}

func (e *RoutingInfeasibleError) Error() string {
	return fmt.Sprintf(
		"routing infeasible: package %d on truck %d delivered at %s after deadline %s",
		e.PackageID, e.TruckID, e.DeliveredAt, e.Deadline,
	)
}

func (e *RoutingInfeasibleError) Is(target error) bool { return target == ErrRoutingInfeasible }

// IsPlanningError reports whether err belongs to one of the fatal planning classes.
func IsPlanningError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrConstraint) || errors.Is(err, ErrRoutingInfeasible)
}
