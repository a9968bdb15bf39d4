package itemstore

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"syscall"
)

// ErrorType represents the category of a remote store failure
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout indicates a request timeout
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates the store refused the connection
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a DNS resolution failure
	ErrTypeDNS
	// ErrTypeHTTP indicates a non-2xx status code
	ErrTypeHTTP
	// ErrTypeParse indicates a malformed response body
	ErrTypeParse
	// ErrTypeNotFound indicates the item does not exist in the store
	ErrTypeNotFound
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeNotFound:
		return "Not Found"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// StoreError is a failure reported by (or while talking to) the remote item
// store. Callers recover from it by rolling local state back.
type StoreError struct {
	Type       ErrorType // Category of error
	Op         string    // Store operation ("list", "create", ...)
	Message    string    // Human-readable error message
	StatusCode int       // HTTP status code (if applicable)
	Err        error     // Underlying error (if any)
	Retryable  bool      // Whether the request may be retried
}

// Error implements the error interface
func (e *StoreError) Error() string {
	prefix := e.Type.String()
	if e.Op != "" {
		prefix = e.Op + ": " + prefix
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *StoreError) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError maps a transport error onto a StoreError.
func ClassifyNetworkError(err error) *StoreError {
	if err == nil {
		return nil
	}

	if os.IsTimeout(err) || errors.Is(err, os.ErrDeadlineExceeded) {
		return &StoreError{Type: ErrTypeTimeout, Message: "request timed out", Err: err, Retryable: true}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &StoreError{
			Type:      ErrTypeDNS,
			Message:   fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Err:       err,
			Retryable: false,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return &StoreError{Type: ErrTypeConnectionRefused, Message: "store refused connection", Err: err, Retryable: true}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil && urlErr.Err != err {
		classified := ClassifyNetworkError(urlErr.Err)
		classified.Err = err
		return classified
	}

	return &StoreError{Type: ErrTypeNetwork, Message: "network error occurred", Err: err, Retryable: true}
}

// NewNetworkError creates a network-level error with automatic classification
func NewNetworkError(op, message string, err error) *StoreError {
	classified := ClassifyNetworkError(err)
	if classified == nil {
		classified = &StoreError{Type: ErrTypeNetwork, Retryable: true}
	}
	classified.Op = op
	classified.Message = message
	return classified
}

// NewHTTPError creates an error for a non-2xx response
func NewHTTPError(op string, statusCode int, message string) *StoreError {
	if statusCode == http.StatusNotFound {
		return &StoreError{Type: ErrTypeNotFound, Op: op, Message: message, StatusCode: statusCode}
	}
	return &StoreError{
		Type:       ErrTypeHTTP,
		Op:         op,
		Message:    message,
		StatusCode: statusCode,
		Retryable:  statusCode >= 500 || statusCode == http.StatusTooManyRequests,
	}
}

// NewParseError creates an error for an undecodable response
func NewParseError(op, message string, err error) *StoreError {
	return &StoreError{Type: ErrTypeParse, Op: op, Message: message, Err: err}
}

// NewNotFoundError creates an error for a missing item
func NewNotFoundError(op string, id int) *StoreError {
	return &StoreError{
		Type:       ErrTypeNotFound,
		Op:         op,
		Message:    fmt.Sprintf("item %d not found", id),
		StatusCode: http.StatusNotFound,
	}
}

func asStoreError(err error) (*StoreError, bool) {
	var se *StoreError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsStoreError checks if an error came from the remote item store
func IsStoreError(err error) bool {
	_, ok := asStoreError(err)
	return ok
}

// IsNetworkError checks if an error is a network error (timeout, refused, DNS included)
func IsNetworkError(err error) bool {
	se, ok := asStoreError(err)
	if !ok {
		return false
	}
	switch se.Type {
	case ErrTypeNetwork, ErrTypeTimeout, ErrTypeConnectionRefused, ErrTypeDNS:
		return true
	}
	return false
}

// IsNotFound checks if an error reports a missing item
func IsNotFound(err error) bool {
	se, ok := asStoreError(err)
	return ok && se.Type == ErrTypeNotFound
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	se, ok := asStoreError(err)
	return ok && se.Type == ErrTypeParse
}

// IsRetryable checks if an error should be retried.
// Unknown errors are not retryable.
func IsRetryable(err error) bool {
	se, ok := asStoreError(err)
	return ok && se.Retryable
}

// ShortMessage returns a concise, user-facing description of err for the status line.
func ShortMessage(err error) string {
	se, ok := asStoreError(err)
	if !ok {
		return err.Error()
	}

	switch se.Type {
	case ErrTypeTimeout:
		return "Store not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Store refused connection - is it running?"
	case ErrTypeDNS:
		return "Cannot resolve store hostname"
	case ErrTypeNetwork:
		return "Network error - check connection"
	case ErrTypeHTTP:
		return fmt.Sprintf("Store error (HTTP %d)", se.StatusCode)
	case ErrTypeParse:
		return "Failed to parse store response"
	case ErrTypeNotFound:
		return "Item no longer exists in the store"
	default:
		return se.Message
	}
}
