package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/stockpile/pkg/apperr"
)

func TestStatusFollowsWrappedKind(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{apperr.NotFoundf("Item with slug %s Doesn't Exists", "x"), http.StatusNotFound},
		{fmt.Errorf("service: %w", apperr.Invalidf("bad")), http.StatusBadRequest},
		{apperr.Conflictf("Supplier already exists."), http.StatusConflict},
		{apperr.New(apperr.Insufficient, "short"), http.StatusConflict},
		{apperr.New(apperr.Unauthorized, "Unauthorized AuthKey"), http.StatusForbidden},
		{apperr.New(apperr.Unauthenticated, "Invalid credentials"), http.StatusUnauthorized},
		{apperr.New(apperr.MethodNotAllowed, "nope"), http.StatusMethodNotAllowed},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.code, apperr.Status(tc.err), tc.err.Error())
	}
}

func TestMessageHidesInternalCauses(t *testing.T) {
	assert.Equal(t, "Internal Server Error", apperr.Message(errors.New("pq: relation does not exist")))
	assert.Equal(t, "Internal Server Error", apperr.Message(apperr.Wrap(apperr.Internal, errors.New("x"), "leaky")))

	wrapped := fmt.Errorf("lookup: %w", apperr.NotFoundf("Category with slug %s Doesn't Exists", "tools"))
	assert.Equal(t, "Category with slug tools Doesn't Exists", apperr.Message(wrapped))
}

func TestIsAndUnwrap(t *testing.T) {
	cause := errors.New("constraint failed")
	err := apperr.Wrap(apperr.Conflict, cause, "duplicate sku")

	assert.True(t, apperr.Is(err, apperr.Conflict))
	assert.False(t, apperr.Is(err, apperr.NotFound))
	assert.False(t, apperr.Is(nil, apperr.Internal))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "duplicate sku: constraint failed", err.Error())
}
