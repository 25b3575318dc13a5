package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredicates(t *testing.T) {
	cause := stderrors.New("connection refused")

	tests := []struct {
		name        string
		err         error
		provider    bool
		timeout     bool
		notFound    bool
		invalid     bool
		persistence bool
	}{
		{name: "provider", err: Provider("search", cause), provider: true},
		{name: "timeout is a provider failure", err: Timeout("details", context.DeadlineExceeded), provider: true, timeout: true},
		{name: "not found", err: NotFound("movie 1 not found"), notFound: true},
		{name: "invalid argument", err: InvalidArgument("empty query"), invalid: true},
		{name: "persistence", err: Persistence("set watchlist", cause), persistence: true},
		{name: "plain error", err: cause},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.provider, IsProvider(tt.err))
			assert.Equal(t, tt.timeout, IsTimeout(tt.err))
			assert.Equal(t, tt.notFound, IsNotFound(tt.err))
			assert.Equal(t, tt.invalid, IsInvalidArgument(tt.err))
			assert.Equal(t, tt.persistence, IsPersistence(tt.err))
		})
	}
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("loading home: %w", NotFound("movie 7"))
	assert.True(t, IsNotFound(err))
	assert.Equal(t, ErrorTypeNotFound, TypeOf(err))
}

func TestProviderErrorCarriesOpAndCause(t *testing.T) {
	cause := stderrors.New("status 502")
	err := Provider("fetchByCategory", cause)

	var appErr *AppError
	assert.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, "fetchByCategory", appErr.Op)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "PROVIDER fetchByCategory: status 502", err.Error())
}

func TestErrorMessageFormats(t *testing.T) {
	assert.Equal(t, "NOT_FOUND: movie 3", NotFound("movie 3").Error())
	assert.Equal(t, "TIMEOUT getDetails: request timed out: context deadline exceeded",
		Timeout("getDetails", context.DeadlineExceeded).Error())
	assert.Equal(t, "UNSUPPORTED account: not offered", Unsupported("account", "not offered").Error())
}
