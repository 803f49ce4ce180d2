package errors

import (
	// Go internal packages
	"bytes"
	"encoding/json"
	"errors"
)

// Error defines a standard application error.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	// Wrapped underlying error.
	WrappedErr error `json:"wrapped_err,omitempty"`
}

// Error returns the string representation of the error message.
func (e *Error) Error() string {
	var buf bytes.Buffer
	json.NewEncoder(&buf).Encode(e)
	return buf.String()
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.WrappedErr
}

// NewError returns standard go error with given string
func NewError(e string) error {
	return errors.New(e)
}

// Kind defines the kind or class of an error.
type Kind uint8

// Transport agnostic error "kinds". The payment/permit workflow kinds carry
// explicit retryability so handlers can tell the caller whether trying the
// failed stage again can help.
const (
	Other                  Kind = iota // Unclassified error
	Internal                           // Internal error
	Invalid                            // Invalid input, validation error etc
	NotFound                           // Entity does not exist
	MissingReference                   // No transaction reference or permit code on engine entry
	Network                            // Transport failure reaching an external service
	Timeout                            // External call or polling budget exhausted
	Server                             // External service returned a server-side failure
	Authorization                      // Gateway rejected our credentials
	VerificationFailed                 // Gateway explicitly reported the payment as failed
	PermitGenerationFailed             // Payment captured but the permit could not be issued
	RenderFailed                       // Permit document rendering/export failed
)

func (k Kind) String() string {
	switch k {
	case Other:
		return "unclassified error"
	case Internal:
		return "internal error"
	case Invalid:
		return "invalid input"
	case NotFound:
		return "entity not found"
	case MissingReference:
		return "missing transaction reference"
	case Network:
		return "network error"
	case Timeout:
		return "timeout"
	case Server:
		return "server error"
	case Authorization:
		return "authorization error"
	case VerificationFailed:
		return "payment verification failed"
	case PermitGenerationFailed:
		return "permit generation failed"
	case RenderFailed:
		return "document rendering failed"
	default:
		return "unknown error kind"
	}
}

// Code returns the machine-readable code surfaced to API clients.
func (k Kind) Code() string {
	switch k {
	case Invalid:
		return "VALIDATION"
	case NotFound:
		return "NOT_FOUND"
	case MissingReference:
		return "MISSING_REFERENCE"
	case Network:
		return "NETWORK_ERROR"
	case Timeout:
		return "TIMEOUT"
	case Server:
		return "SERVER_ERROR"
	case Authorization:
		return "AUTHORIZATION_ERROR"
	case VerificationFailed:
		return "VERIFICATION_FAILED"
	case PermitGenerationFailed:
		return "PERMIT_GENERATION_FAILED"
	case RenderFailed:
		return "RENDER_FAILED"
	default:
		return "INTERNAL"
	}
}

// Retryable reports whether retrying the failed stage can succeed.
// Authorization failures require restarting from payment initiation,
// missing references are navigation mistakes, and a permit generation
// failure after a captured payment must go to support rather than be
// retried automatically.
func (k Kind) Retryable() bool {
	switch k {
	case Network, Timeout, Server, VerificationFailed, RenderFailed:
		return true
	default:
		return false
	}
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func E(args ...interface{}) error {
	e := &Error{}
	for _, arg := range args {
		switch arg := arg.(type) {
		case Kind:
			e.Kind = arg
		case error:
			e.WrappedErr = arg
		case string:
			e.Message = arg
		}
	}
	return e
}

// KindOf extracts the Kind from err, or Other for plain errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Other
}

// MessageOf returns the human message attached to err, falling back to
// err.Error() for plain errors.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return err.Error()
}

// IsRetryable reports whether the error's kind permits a retry.
func IsRetryable(err error) bool {
	return KindOf(err).Retryable()
}

var (
	As = errors.As
	Is = errors.Is
)
