// Package errors defines custom error types for better error handling and debugging.
// StreamError provides context-aware error reporting with type classification.
package errors

import (
	"errors"
	"fmt"
)

// StreamError represents errors that occur while discovering or resolving streams
type StreamError struct {
	Type    string
	Message string
	Cause   error
}

func (e *StreamError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *StreamError) Unwrap() error {
	return e.Cause
}

// Error type constants
const (
	ErrorTypeConfigurationInvalid = "CONFIGURATION_INVALID"
	ErrorTypeInvalidID            = "INVALID_ID"
	ErrorTypeMetadataLookup       = "METADATA_LOOKUP_FAILED"
	ErrorTypeSourceUnavailable    = "SOURCE_UNAVAILABLE"
	ErrorTypeResolutionTimeout    = "RESOLUTION_TIMEOUT"
	ErrorTypeRedirectFailed       = "REDIRECT_FAILED"
	ErrorTypeUnsupportedScheme    = "UNSUPPORTED_SCHEME"
	ErrorTypeParseFailure         = "PARSE_FAILURE"
	ErrorTypeTransientResolution  = "TRANSIENT_RESOLUTION"
	ErrorTypeNoMatchingEpisode    = "NO_MATCHING_EPISODE"
)

// NewStreamError creates a new StreamError
func NewStreamError(errorType, message string, cause error) *StreamError {
	return &StreamError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigurationError creates a configuration-related error
func NewConfigurationError(message string, cause error) *StreamError {
	return NewStreamError(ErrorTypeConfigurationInvalid, message, cause)
}

// NewInvalidIDError creates an invalid ID error
func NewInvalidIDError(id string) *StreamError {
	return NewStreamError(ErrorTypeInvalidID, fmt.Sprintf("invalid ID format: %s", id), nil)
}

// NewMetadataLookupError creates an error for a title that no provider could resolve
func NewMetadataLookupError(titleID string, cause error) *StreamError {
	return NewStreamError(ErrorTypeMetadataLookup, fmt.Sprintf("unknown title %s", titleID), cause)
}

// NewSourceUnavailableError creates an error for an indexer that failed to answer
func NewSourceUnavailableError(source string, cause error) *StreamError {
	return NewStreamError(ErrorTypeSourceUnavailable, fmt.Sprintf("source %s unavailable", source), cause)
}

// NewResolutionTimeoutError creates a timeout error
func NewResolutionTimeoutError(operation string) *StreamError {
	return NewStreamError(ErrorTypeResolutionTimeout, fmt.Sprintf("operation timeout: %s", operation), nil)
}

// NewRedirectError creates an error for a redirect chain that did not end on a usable target
func NewRedirectError(message string, cause error) *StreamError {
	return NewStreamError(ErrorTypeRedirectFailed, message, cause)
}

// NewUnsupportedSchemeError creates an error for a link that is neither magnet nor HTTP
func NewUnsupportedSchemeError(uri string) *StreamError {
	return NewStreamError(ErrorTypeUnsupportedScheme, fmt.Sprintf("no HTTP nor magnet URI: %s", uri), nil)
}

// NewParseError creates a magnet or torrent parsing error
func NewParseError(message string, cause error) *StreamError {
	return NewStreamError(ErrorTypeParseFailure, message, cause)
}

// NewTransientError creates an error worth retrying the resolution for
func NewTransientError(message string, cause error) *StreamError {
	return NewStreamError(ErrorTypeTransientResolution, message, cause)
}

// NewNoMatchingEpisodeError creates an error for a series torrent without the requested episode
func NewNoMatchingEpisodeError(season, episode int) *StreamError {
	return NewStreamError(ErrorTypeNoMatchingEpisode, fmt.Sprintf("no file for S%02dE%02d", season, episode), nil)
}

// IsType reports whether err wraps a StreamError of the given type.
func IsType(err error, errorType string) bool {
	var se *StreamError
	if errors.As(err, &se) {
		return se.Type == errorType
	}
	return false
}

// IsTransient reports whether err should trigger another resolution attempt.
func IsTransient(err error) bool {
	return IsType(err, ErrorTypeTransientResolution)
}
