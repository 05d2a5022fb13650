package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrAlreadyResponded     = errors.New("notification already responded")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrConfirmationDeclined = errors.New("confirmation declined")
	ErrPendingApproval      = errors.New("account is pending approval")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInvalidPasscode      = errors.New("invalid passcode")
	ErrMalformedResponse    = errors.New("malformed response from community service")
	ErrInvalidSession       = errors.New("session does not identify a resident")
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationErrors collects every failing field of a request. It is returned
// before anything is sent upstream.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields returns the messages keyed by field name.
func (v ValidationErrors) Fields() map[string]string {
	out := make(map[string]string, len(v))
	for _, fe := range v {
		if _, seen := out[fe.Field]; !seen {
			out[fe.Field] = fe.Message
		}
	}
	return out
}

// Has reports whether field failed validation.
func (v ValidationErrors) Has(field string) bool {
	for _, fe := range v {
		if fe.Field == field {
			return true
		}
	}
	return false
}

func (v ValidationErrors) sorted() ValidationErrors {
	sort.SliceStable(v, func(i, j int) bool { return v[i].Field < v[j].Field })
	return v
}

// TransportError means the community service could not be reached.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// BackendError means the community service answered but refused the request.
type BackendError struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s failed with status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("%s failed with status %d: %s", e.Endpoint, e.Status, e.Message)
}
