package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/SscSPs/pocket_ledger_app/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	testCases := []struct {
		err  error
		want int
	}{
		{apperrors.ErrInvalidInput, http.StatusBadRequest},
		{fmt.Errorf("%w: amount must not be negative", apperrors.ErrInvalidInput), http.StatusBadRequest},
		{apperrors.ErrInvalidCredential, http.StatusUnauthorized},
		{apperrors.ErrUnauthorized, http.StatusUnauthorized},
		{apperrors.ErrForbidden, http.StatusForbidden},
		{apperrors.ErrGroupNotFound, http.StatusNotFound},
		{fmt.Errorf("expense 9: %w", apperrors.ErrNotFound), http.StatusNotFound},
		{apperrors.ErrDuplicateIdentity, http.StatusConflict},
		{apperrors.ErrConcurrentAwardRace, http.StatusConflict},
		{fmt.Errorf("ocr: %w", apperrors.ErrCollaboratorUnavailable), http.StatusBadGateway},
		{apperrors.NewGatewayTimeoutError("google timed out"), http.StatusGatewayTimeout},
		{errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}
