package shared

import (
	"errors"
	"fmt"
)

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

// Not-found error. Repositories return this (or nil, nil) when a record
// is missing; the simulation loops use IsNotFound to detect concurrent
// scenario deletion and abort the current iteration cleanly.

type NotFoundError struct {
	*DomainError
	Entity string
	ID     string
}

func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{
		DomainError: &DomainError{Message: fmt.Sprintf("%s %s not found", entity, id)},
		Entity:      entity,
		ID:          id,
	}
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// Mission-related errors

type MissionError struct {
	*DomainError
}

func NewMissionError(message string) *MissionError {
	return &MissionError{DomainError: &DomainError{Message: message}}
}

type InvalidTransitionError struct {
	*MissionError
	From string
	To   string
}

func NewInvalidTransitionError(from, to string) *InvalidTransitionError {
	return &InvalidTransitionError{
		MissionError: NewMissionError(fmt.Sprintf("illegal mission transition %s -> %s", from, to)),
		From:         from,
		To:           to,
	}
}

// Simulation errors

type SimulationError struct {
	*DomainError
}

func NewSimulationError(message string) *SimulationError {
	return &SimulationError{DomainError: &DomainError{Message: message}}
}

type SimulationAlreadyRunningError struct {
	*SimulationError
	ScenarioID string
}

func NewSimulationAlreadyRunningError(scenarioID string) *SimulationAlreadyRunningError {
	return &SimulationAlreadyRunningError{
		SimulationError: NewSimulationError(fmt.Sprintf("a simulation is already running for scenario %s", scenarioID)),
		ScenarioID:      scenarioID,
	}
}

// Document errors

type DocumentError struct {
	*DomainError
}

func NewDocumentError(message string) *DocumentError {
	return &DocumentError{DomainError: &DomainError{Message: message}}
}

type InvalidTierChainError struct {
	*DocumentError
	ParentTier int
	ChildTier  int
}

func NewInvalidTierChainError(parentTier, childTier int) *InvalidTierChainError {
	return &InvalidTierChainError{
		DocumentError: NewDocumentError(fmt.Sprintf("strategy parent tier %d must be exactly one above child tier %d", parentTier, childTier)),
		ParentTier:    parentTier,
		ChildTier:     childTier,
	}
}
