package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/lenawood/shelfmark/internal/service"
)

func TestAsGraphQLErrorExposesAppErrorCode(t *testing.T) {
	err := asGraphQLError(service.NewUnauthenticated("Could not find user"))

	var gqlErr *gqlerror.Error
	assert.True(t, errors.As(err, &gqlErr))
	assert.Equal(t, "Could not find user", gqlErr.Message)
	assert.Equal(t, "UNAUTHENTICATED", gqlErr.Extensions["code"])
}

func TestAsGraphQLErrorMasksUnknownErrors(t *testing.T) {
	err := asGraphQLError(errors.New("pq: connection refused"))

	var gqlErr *gqlerror.Error
	assert.True(t, errors.As(err, &gqlErr))
	assert.Equal(t, "internal server error", gqlErr.Message)
	assert.Equal(t, "INTERNAL", gqlErr.Extensions["code"])
	assert.NotContains(t, gqlErr.Message, "connection refused")
}

func TestAsGraphQLErrorNil(t *testing.T) {
	assert.Nil(t, asGraphQLError(nil))
}
