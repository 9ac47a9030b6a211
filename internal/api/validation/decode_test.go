package validation

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/flowdesk-api/internal/api"
)

type createReq struct {
	Handle   string `json:"handle"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
}

func TestDecodeAndValidate(t *testing.T) {
	rs := api.NewResponder(false, slog.New(slog.NewTextHandler(io.Discard, nil)))

	t.Run("valid body fills defaults", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"handle":"jdoe","email":"jdoe@example.com","password":"s3cret-pass"}`))
		w := httptest.NewRecorder()

		var dst createReq
		require.NoError(t, DecodeAndValidate(w, r, accountRules(), &dst))
		assert.Equal(t, "jdoe", dst.Handle)
		assert.Equal(t, "user", dst.Role)
		assert.True(t, dst.Active)
	})

	t.Run("invalid body becomes a 422 envelope", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"handle":"ab","password":"longenough","role":"superuser"}`))
		w := httptest.NewRecorder()

		var dst createReq
		err := DecodeAndValidate(w, r, accountRules(), &dst)
		require.Error(t, err)
		Respond(rs, w, r, err)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		var body struct {
			Success bool         `json:"success"`
			Code    string       `json:"code"`
			Details []ErrorEntry `json:"details"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, api.CodeValidation, body.Code)
		assert.Len(t, body.Details, 3)
	})

	t.Run("malformed JSON is a 400", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"handle":`))
		w := httptest.NewRecorder()

		var dst createReq
		err := DecodeAndValidate(w, r, accountRules(), &dst)
		require.Error(t, err)
		Respond(rs, w, r, err)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), api.CodeBadRequest)
	})

	t.Run("null body is a 400", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`null`))
		w := httptest.NewRecorder()

		var dst createReq
		err := DecodeAndValidate(w, r, accountRules(), &dst)
		require.Error(t, err)
		Respond(rs, w, r, err)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
