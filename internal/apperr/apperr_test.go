package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{Auth("Invalid token", errors.New("expired")), http.StatusUnauthorized},
		{Forbidden("User is not a rider"), http.StatusForbidden},
		{NotFound("User not found"), http.StatusNotFound},
		{Unexpected("Failed to fetch users", errors.New("conn reset")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
		{fmt.Errorf("outer: %w", NotFound("Order not found")), http.StatusNotFound},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Status(tc.err), tc.err.Error())
	}
}

func TestErrorKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Unexpected("Failed to create product", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "connection refused", err.Cause())
	assert.Equal(t, "Failed to create product: connection refused", err.Error())
	assert.Equal(t, "", NotFound("x").Cause())
}
