package util

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorNil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}

func TestToDomainErrorPassesDomainErrorsThrough(t *testing.T) {
	original := NewForbidden("nope")
	mapped := ToDomainError(original)
	require.NotNil(t, mapped)
	assert.Equal(t, "FORBIDDEN", mapped.Code)
	assert.Equal(t, http.StatusForbidden, mapped.HTTPStatus)
}

func TestToDomainErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{
			name:       "no rows",
			err:        fmt.Errorf("query ticket: %w", pgx.ErrNoRows),
			wantCode:   "NOT_FOUND",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "foreign key violation",
			err:        &pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"},
			wantCode:   "NOT_FOUND",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "connection exception class",
			err:        &pgconn.PgError{Code: "08006", Message: "connection failure"},
			wantCode:   "STORE_UNAVAILABLE",
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "dial failure",
			err:        &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")},
			wantCode:   "STORE_UNAVAILABLE",
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "opaque error",
			err:        errors.New("something odd"),
			wantCode:   "INTERNAL_ERROR",
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := ToDomainError(tt.err)
			require.NotNil(t, mapped)
			assert.Equal(t, tt.wantCode, mapped.Code)
			assert.Equal(t, tt.wantStatus, mapped.HTTPStatus)
		})
	}
}

func TestNewStoreUnavailable(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	mapped := ToDomainError(NewStoreUnavailable(cause))
	require.NotNil(t, mapped)
	assert.Equal(t, "STORE_UNAVAILABLE", mapped.Code)
	assert.Equal(t, http.StatusServiceUnavailable, mapped.HTTPStatus)
	assert.ErrorIs(t, mapped, cause)
}
