package integration

import (
	"errors"
	"fmt"
	"strings"

	"github.com/astroselling/falabella-sdk/internal/domain/integration"
)

var (
	// ErrFetchFailed matches every translated Seller Center failure
	ErrFetchFailed = errors.New("integration: seller center call failed")
	// ErrFetchProductFailed matches translated failures of product listings
	ErrFetchProductFailed = errors.New("integration: seller center product fetch failed")
)

// FetchScope tells which family of operations a FetchError came from
type FetchScope string

const (
	FetchScopeGeneric FetchScope = "generic"
	FetchScopeProduct FetchScope = "product"
)

// FetchError is the single failure type callers see for Seller Center calls.
// Transport failures fill Request, Response and ResponseCode; platform error
// bodies fill Type, Action and Message.
type FetchError struct {
	Scope     FetchScope
	Operation string
	Username  string

	// Transport failure
	Request      string
	Response     string
	ResponseCode string

	// Platform error body
	Type    string
	Action  string
	Message string

	// Context carries the input of the failed call (products, update data)
	Context map[string]any

	cause error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "integration: %s failed", e.Operation)
	if e.ResponseCode != "" {
		fmt.Fprintf(&b, " with %s", e.ResponseCode)
	}
	if e.Type != "" || e.Message != "" {
		fmt.Fprintf(&b, " (%s)", strings.TrimSpace(e.Type+" "+e.Message))
	}
	if e.Username != "" {
		fmt.Fprintf(&b, " for %s", e.Username)
	}
	return b.String()
}

// Unwrap exposes the original vendor failure
func (e *FetchError) Unwrap() error {
	return e.cause
}

// Is matches ErrFetchFailed, and ErrFetchProductFailed for product scope
func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrFetchFailed:
		return true
	case ErrFetchProductFailed:
		return e.Scope == FetchScopeProduct
	}
	return false
}

// IsTransport returns true if the failure happened at the HTTP level
func (e *FetchError) IsTransport() bool {
	var transportErr *integration.TransportError
	return errors.As(e.cause, &transportErr)
}

// translator turns vendor failures into FetchErrors for one seller
type translator struct {
	username string
}

// translate maps err to a *FetchError when it is a vendor failure and returns
// any other error unchanged. ctx is attached to transport failures only.
func (t translator) translate(err error, scope FetchScope, operation string, ctx map[string]any) error {
	if err == nil {
		return nil
	}

	var transportErr *integration.TransportError
	if errors.As(err, &transportErr) {
		return &FetchError{
			Scope:        scope,
			Operation:    operation,
			Username:     t.username,
			Request:      transportErr.Request,
			Response:     transportErr.Response,
			ResponseCode: transportErr.StatusLine(),
			Context:      ctx,
			cause:        err,
		}
	}

	var errResp *integration.ErrorResponse
	if errors.As(err, &errResp) {
		return &FetchError{
			Scope:     scope,
			Operation: operation,
			Username:  t.username,
			Type:      errResp.Type,
			Action:    errResp.Action,
			Message:   errResp.Message,
			cause:     err,
		}
	}

	return err
}
