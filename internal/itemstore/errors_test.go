package itemstore

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"syscall"
	"testing"
)

func TestClassifyNetworkError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantType  ErrorType
		retryable bool
	}{
		{"deadline", context.DeadlineExceeded, ErrTypeTimeout, true},
		{"os deadline", os.ErrDeadlineExceeded, ErrTypeTimeout, true},
		{"dns", &net.DNSError{Name: "store.invalid", Err: "no such host"}, ErrTypeDNS, false},
		{
			"refused",
			&net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)},
			ErrTypeConnectionRefused, true,
		},
		{
			"refused inside url error",
			&url.Error{Op: "Get", URL: "http://x", Err: &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}},
			ErrTypeConnectionRefused, true,
		},
		{"generic", errors.New("connection reset"), ErrTypeNetwork, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se := ClassifyNetworkError(tt.err)
			if se == nil {
				t.Fatal("ClassifyNetworkError() returned nil")
			}
			if se.Type != tt.wantType {
				t.Errorf("Type = %v, want %v", se.Type, tt.wantType)
			}
			if se.Retryable != tt.retryable {
				t.Errorf("Retryable = %v, want %v", se.Retryable, tt.retryable)
			}
			if !errors.Is(se, tt.err) {
				t.Errorf("classified error should wrap the original")
			}
		})
	}

	if ClassifyNetworkError(nil) != nil {
		t.Error("ClassifyNetworkError(nil) should be nil")
	}
}

func TestNewHTTPError(t *testing.T) {
	tests := []struct {
		status    int
		wantType  ErrorType
		retryable bool
	}{
		{http.StatusBadRequest, ErrTypeHTTP, false},
		{http.StatusNotFound, ErrTypeNotFound, false},
		{http.StatusTooManyRequests, ErrTypeHTTP, true},
		{http.StatusInternalServerError, ErrTypeHTTP, true},
		{http.StatusBadGateway, ErrTypeHTTP, true},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := NewHTTPError("update", tt.status, "failed")
			if err.Type != tt.wantType || err.Retryable != tt.retryable {
				t.Errorf("NewHTTPError(%d) = {%v, %v}, want {%v, %v}",
					tt.status, err.Type, err.Retryable, tt.wantType, tt.retryable)
			}
		})
	}
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("saving item: %w", NewNotFoundError("update", 3))

	if !IsStoreError(err) || !IsNotFound(err) {
		t.Error("wrapped StoreError should still be detected")
	}
	if IsRetryable(err) || IsParseError(err) || IsNetworkError(err) {
		t.Error("not found is not retryable, parse or network")
	}
	if IsRetryable(errors.New("plain")) {
		t.Error("unknown errors are not retryable")
	}
}

func TestShortMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{NewHTTPError("list", 503, "x"), "Store error (HTTP 503)"},
		{NewNotFoundError("delete", 1), "Item no longer exists in the store"},
		{NewParseError("list", "x", nil), "Failed to parse store response"},
		{NewNetworkError("list", "x", context.DeadlineExceeded), "Store not responding (timeout)"},
		{errors.New("plain failure"), "plain failure"},
	}

	for _, tt := range tests {
		if got := ShortMessage(tt.err); got != tt.want {
			t.Errorf("ShortMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestStoreErrorString(t *testing.T) {
	err := NewNotFoundError("delete", 7)
	want := "delete: Not Found: item 7 not found"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
