package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_WithDetailsDoesNotMutateSentinel(t *testing.T) {
	withDetails := ErrInvalidRequest.WithDetails(map[string]interface{}{"field": "min_price"})

	assert.Equal(t, "min_price", withDetails.Details["field"])
	assert.Nil(t, ErrInvalidRequest.Details)
	assert.True(t, stderrors.Is(withDetails, ErrInvalidRequest))
}

func TestAppError_IsThroughWrap(t *testing.T) {
	wrapped := fmt.Errorf("geocode: %w", ErrLocationUnresolvable)

	assert.True(t, stderrors.Is(wrapped, ErrLocationUnresolvable))
	assert.False(t, stderrors.Is(wrapped, ErrQueryFailed))
	assert.Equal(t, "LOCATION_UNRESOLVABLE: Could not resolve property location", ErrLocationUnresolvable.Error())
}
