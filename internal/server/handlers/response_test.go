package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iudanet/gophtodo/internal/apperr"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		kind apperr.Kind
		want int
	}{
		{apperr.Validation, http.StatusBadRequest},
		{apperr.Conflict, http.StatusConflict},
		{apperr.InvalidCredentials, http.StatusUnauthorized},
		{apperr.NotFound, http.StatusNotFound},
		{apperr.PermissionDenied, http.StatusForbidden},
		{apperr.Internal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.kind))
		})
	}
}

func TestWriteError(t *testing.T) {
	h := responder{logger: setupTestLogger()}

	tests := []struct {
		err         error
		name        string
		wantBody    string
		wantCode    int
		notContains string
	}{
		{
			name:     "kind and message are exposed",
			err:      apperr.New(apperr.NotFound, "todo not found"),
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"NotFound","message":"todo not found"}`,
		},
		{
			name:     "wrapped app error keeps its kind",
			err:      fmt.Errorf("outer: %w", apperr.New(apperr.Conflict, "username already taken")),
			wantCode: http.StatusConflict,
			wantBody: `{"error":"ConflictError","message":"username already taken"}`,
		},
		{
			name:        "plain errors are internal and hidden",
			err:         errors.New("pq: password authentication failed for user admin"),
			wantCode:    http.StatusInternalServerError,
			wantBody:    `{"error":"InternalError","message":"internal server error"}`,
			notContains: "password",
		},
		{
			name:        "internal app error message is hidden",
			err:         apperr.Wrap(apperr.Internal, "failed to insert todo", errors.New("disk I/O error")),
			wantCode:    http.StatusInternalServerError,
			wantBody:    `{"error":"InternalError","message":"internal server error"}`,
			notContains: "disk",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/todo", nil)
			w := httptest.NewRecorder()

			h.writeError(w, req, tt.err)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			if tt.notContains != "" {
				assert.NotContains(t, w.Body.String(), tt.notContains)
			}
		})
	}
}

func TestWriteError_RecordsKindForAccessLog(t *testing.T) {
	h := responder{logger: setupTestLogger()}

	ctx, info := WithRequestInfo(context.Background())
	req := httptest.NewRequest(http.MethodPatch, "/todo", nil).WithContext(ctx)

	h.writeError(httptest.NewRecorder(), req, apperr.New(apperr.PermissionDenied, "nope"))

	assert.Equal(t, "PermissionDenied", info.ErrorKind)
}
