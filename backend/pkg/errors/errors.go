package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeNotFound represents lookups of missing asset/relationship/event ids
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeDuplicateKey represents id collisions on insert
	ErrorTypeDuplicateKey ErrorType = "duplicate_key"
	// ErrorTypeValidation represents malformed filter/color/position input
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeGraph represents graph persistence errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeIngest represents filings import errors
	ErrorTypeIngest ErrorType = "ingest"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// ErrorType reports the category; promoted through embedding so the
// typed wrapper structs satisfy the type checks below.
func (e *BaseError) ErrorType() ErrorType {
	return e.Type
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// NotFound Errors

// ErrAssetNotFound is returned when an asset id is absent from the graph
type ErrAssetNotFound struct {
	*BaseError
	AssetID string
}

func NewAssetNotFound(assetID string) *ErrAssetNotFound {
	return &ErrAssetNotFound{
		BaseError: NewBaseError(ErrorTypeNotFound, fmt.Sprintf("asset not found: %s", assetID), nil),
		AssetID:   assetID,
	}
}

// ErrRelationshipNotFound is returned when a relationship id is absent
type ErrRelationshipNotFound struct {
	*BaseError
	RelationshipID string
}

func NewRelationshipNotFound(relID string) *ErrRelationshipNotFound {
	return &ErrRelationshipNotFound{
		BaseError:      NewBaseError(ErrorTypeNotFound, fmt.Sprintf("relationship not found: %s", relID), nil),
		RelationshipID: relID,
	}
}

// ErrEventNotFound is returned when a regulatory event id is absent
type ErrEventNotFound struct {
	*BaseError
	EventID string
}

func NewEventNotFound(eventID string) *ErrEventNotFound {
	return &ErrEventNotFound{
		BaseError: NewBaseError(ErrorTypeNotFound, fmt.Sprintf("regulatory event not found: %s", eventID), nil),
		EventID:   eventID,
	}
}

// DuplicateKey Errors

// ErrDuplicateAsset is returned when an asset id already exists on insert
type ErrDuplicateAsset struct {
	*BaseError
	AssetID string
}

func NewDuplicateAsset(assetID string) *ErrDuplicateAsset {
	return &ErrDuplicateAsset{
		BaseError: NewBaseError(ErrorTypeDuplicateKey, fmt.Sprintf("asset already exists: %s", assetID), nil),
		AssetID:   assetID,
	}
}

// ErrDuplicateRelationship is returned when a relationship id already exists
type ErrDuplicateRelationship struct {
	*BaseError
	RelationshipID string
}

func NewDuplicateRelationship(relID string) *ErrDuplicateRelationship {
	return &ErrDuplicateRelationship{
		BaseError:      NewBaseError(ErrorTypeDuplicateKey, fmt.Sprintf("relationship already exists: %s", relID), nil),
		RelationshipID: relID,
	}
}

// ErrDuplicateEvent is returned when a regulatory event id already exists
type ErrDuplicateEvent struct {
	*BaseError
	EventID string
}

func NewDuplicateEvent(eventID string) *ErrDuplicateEvent {
	return &ErrDuplicateEvent{
		BaseError: NewBaseError(ErrorTypeDuplicateKey, fmt.Sprintf("regulatory event already exists: %s", eventID), nil),
		EventID:   eventID,
	}
}

// Validation Errors

// ErrValidation is returned for malformed filters, colors, or trace inputs
type ErrValidation struct {
	*BaseError
	Field  string
	Reason string
}

func NewValidation(field, reason string) *ErrValidation {
	return &ErrValidation{
		BaseError: NewBaseError(ErrorTypeValidation, fmt.Sprintf("invalid %s: %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// Graph persistence Errors

// ErrGraphConnectionFailed is returned when the Neo4j connection fails
type ErrGraphConnectionFailed struct {
	*BaseError
	URI string
}

func NewGraphConnectionFailed(uri string, err error) *ErrGraphConnectionFailed {
	return &ErrGraphConnectionFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("failed to connect to Neo4j: %s", uri), err),
		URI:       uri,
	}
}

// ErrGraphQueryFailed is returned when a graph persistence query fails
type ErrGraphQueryFailed struct {
	*BaseError
	Query string
}

func NewGraphQueryFailed(query string, err error) *ErrGraphQueryFailed {
	return &ErrGraphQueryFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("query failed: %s", query), err),
		Query:     query,
	}
}

// Ingest Errors

// ErrIngestParseFailed is returned when a filings document cannot be parsed
type ErrIngestParseFailed struct {
	*BaseError
	Source string
}

func NewIngestParseFailed(source string, err error) *ErrIngestParseFailed {
	return &ErrIngestParseFailed{
		BaseError: NewBaseError(ErrorTypeIngest, fmt.Sprintf("failed to parse filings document: %s", source), err),
		Source:    source,
	}
}

// Config Errors

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	if err == nil {
		return false
	}
	if typed, ok := err.(interface{ ErrorType() ErrorType }); ok {
		return typed.ErrorType() == errType
	}
	if wrapped, ok := err.(interface{ Unwrap() error }); ok {
		if inner := wrapped.Unwrap(); inner != nil {
			return IsErrorType(inner, errType)
		}
	}
	return false
}

// IsNotFound checks if an error represents a missing id
func IsNotFound(err error) bool {
	return IsErrorType(err, ErrorTypeNotFound)
}

// IsDuplicateKey checks if an error represents an id collision
func IsDuplicateKey(err error) bool {
	return IsErrorType(err, ErrorTypeDuplicateKey)
}

// IsValidation checks if an error represents malformed input
func IsValidation(err error) bool {
	return IsErrorType(err, ErrorTypeValidation)
}
