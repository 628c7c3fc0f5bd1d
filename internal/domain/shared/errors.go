package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Placement errors

type PlacementConflictError struct {
	*DomainError
	Cell Cell
}

func NewPlacementConflictError(cell Cell, reason string) *PlacementConflictError {
	return &PlacementConflictError{
		DomainError: &DomainError{Message: fmt.Sprintf("cannot place at %s: %s", cell, reason)},
		Cell:        cell,
	}
}

type UnreachableGoalError struct {
	*DomainError
	Start Cell
	Goal  Cell
}

func NewUnreachableGoalError(start, goal Cell) *UnreachableGoalError {
	return &UnreachableGoalError{
		DomainError: &DomainError{Message: fmt.Sprintf("no path from %s to %s", start, goal)},
		Start:       start,
		Goal:        goal,
	}
}

// Assignment errors

type InvalidAssignmentError struct {
	*DomainError
	RobotID   int
	PackageID int
}

func NewInvalidAssignmentError(message string, robotID, packageID int) *InvalidAssignmentError {
	return &InvalidAssignmentError{
		DomainError: &DomainError{Message: message},
		RobotID:     robotID,
		PackageID:   packageID,
	}
}

// Lookup errors

type NotFoundError struct {
	*DomainError
	Kind string
	ID   int
}

func NewNotFoundError(kind string, id int) *NotFoundError {
	return &NotFoundError{
		DomainError: &DomainError{Message: fmt.Sprintf("%s %d not found", kind, id)},
		Kind:        kind,
		ID:          id,
	}
}

// Invariant violations that indicate a bug rather than bad input

type InternalInconsistencyError struct {
	*DomainError
}

func NewInternalInconsistencyError(message string) *InternalInconsistencyError {
	return &InternalInconsistencyError{DomainError: &DomainError{Message: message}}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
