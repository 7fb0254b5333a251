package integration

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astroselling/falabella-sdk/internal/domain/integration"
)

func TestTranslator_TransportError(t *testing.T) {
	tr := translator{username: "seller@example.com"}
	cause := &integration.TransportError{
		Request:      "POST /?Action=ProductRemove HTTP/1.1",
		Response:     "HTTP/1.1 404 Not Found\r\n\r\nno such route",
		StatusCode:   404,
		ReasonPhrase: "Not Found",
	}

	err := tr.translate(cause, FetchScopeGeneric, "DeleteProducts", map[string]any{"products": []string{"SKU-1"}})

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "DeleteProducts", fetchErr.Operation)
	assert.Equal(t, "seller@example.com", fetchErr.Username)
	assert.Equal(t, "404 (Not Found)", fetchErr.ResponseCode)
	assert.Equal(t, cause.Request, fetchErr.Request)
	assert.Equal(t, cause.Response, fetchErr.Response)
	assert.Equal(t, []string{"SKU-1"}, fetchErr.Context["products"])
	assert.True(t, fetchErr.IsTransport())
	assert.Empty(t, fetchErr.Type)

	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.NotErrorIs(t, err, ErrFetchProductFailed)
	assert.ErrorIs(t, err, integration.ErrPlatformRequestFailed)
	assert.Contains(t, err.Error(), "DeleteProducts failed with 404 (Not Found)")
}

func TestTranslator_ErrorResponse(t *testing.T) {
	tr := translator{username: "seller@example.com"}
	cause := &integration.ErrorResponse{
		Type:    "Sender",
		Action:  "GetProducts",
		Code:    5,
		Message: "E005: Invalid Request Format",
	}

	err := tr.translate(cause, FetchScopeProduct, "ListProducts", map[string]any{"ignored": true})

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "Sender", fetchErr.Type)
	assert.Equal(t, "GetProducts", fetchErr.Action)
	assert.Equal(t, "E005: Invalid Request Format", fetchErr.Message)
	assert.Equal(t, "seller@example.com", fetchErr.Username)
	assert.Nil(t, fetchErr.Context)
	assert.False(t, fetchErr.IsTransport())

	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.ErrorIs(t, err, ErrFetchProductFailed)

	var errResp *integration.ErrorResponse
	assert.True(t, errors.As(err, &errResp))
}

func TestTranslator_PassThrough(t *testing.T) {
	tr := translator{username: "u"}

	assert.NoError(t, tr.translate(nil, FetchScopeGeneric, "GetOrder", nil))

	other := errors.New("boom")
	assert.Same(t, other, tr.translate(other, FetchScopeGeneric, "GetOrder", nil))

	var fetchErr *FetchError
	unavailable := tr.translate(integration.ErrPlatformUnavailable, FetchScopeGeneric, "GetOrder", nil)
	assert.False(t, errors.As(unavailable, &fetchErr))
	assert.ErrorIs(t, unavailable, integration.ErrPlatformUnavailable)
}
