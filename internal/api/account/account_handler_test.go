package account

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/flowdesk-api/internal/api"
	"github.com/FACorreiaa/flowdesk-api/internal/api/auth"
	"github.com/FACorreiaa/flowdesk-api/internal/api/validation"
	"github.com/FACorreiaa/flowdesk-api/internal/types"
)

// newTestRouter mounts the handler behind a fixed admin principal.
func newTestRouter(svc AccountService, actor *types.Account) http.Handler {
	h := NewAccountHandler(svc, api.NewResponder(false, discardLogger()), discardLogger())
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := auth.WithPrincipal(req.Context(), auth.Principal{Account: actor, Role: actor.Role})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Get("/accounts", h.ListAccounts)
	r.Post("/accounts", h.CreateAccount)
	r.Get("/accounts/{id}", h.GetAccount)
	r.Patch("/accounts/{id}/role", h.ChangeRole)
	r.Patch("/accounts/{id}/activation", h.SetActivation)
	r.Delete("/accounts/{id}", h.DeleteAccount)
	return r
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, target, &buf))
	return rr
}

type errorEnvelope struct {
	Success bool                    `json:"success"`
	Code    string                  `json:"code"`
	Details []validation.ErrorEntry `json:"details"`
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return env
}

func TestAccountHandler_List(t *testing.T) {
	admin := testAccount("root", types.RoleAdmin)

	t.Run("filters and pagination", func(t *testing.T) {
		svc := new(MockAccountService)
		role := types.RoleUser
		active := true
		unit := "ops"
		want := types.AccountFilter{Role: &role, IsActive: &active, Unit: &unit, Limit: 10, Offset: 90}
		svc.On("List", mock.Anything, want).Return([]types.Account{*testAccount("alice", role)}, 95, nil).Once()

		rr := do(t, newTestRouter(svc, admin), http.MethodGet, "/accounts?page=10&limit=10&role=user&active=true&unit=ops", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var body api.SuccessBody
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		require.NotNil(t, body.Pagination)
		assert.Equal(t, api.Pagination{Page: 10, Limit: 10, Total: 95, TotalPages: 10, HasNext: false, HasPrev: true}, *body.Pagination)
		svc.AssertExpectations(t)
	})

	t.Run("empty listing", func(t *testing.T) {
		svc := new(MockAccountService)
		svc.On("List", mock.Anything, types.AccountFilter{Limit: 10}).Return([]types.Account{}, 0, nil).Once()

		rr := do(t, newTestRouter(svc, admin), http.MethodGet, "/accounts", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"totalPages":0`)
		assert.Contains(t, rr.Body.String(), `"hasNext":false`)
		assert.Contains(t, rr.Body.String(), `"data":[]`)
	})

	t.Run("blank unit is no filter", func(t *testing.T) {
		svc := new(MockAccountService)
		svc.On("List", mock.Anything, mock.MatchedBy(func(f types.AccountFilter) bool {
			return f.Unit == nil && f.Role == nil && f.IsActive == nil
		})).Return([]types.Account{}, 0, nil).Once()

		rr := do(t, newTestRouter(svc, admin), http.MethodGet, "/accounts?unit=%20&role=%20%20", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		svc.AssertExpectations(t)
	})

	t.Run("unit is trimmed", func(t *testing.T) {
		svc := new(MockAccountService)
		unit := "ops"
		svc.On("List", mock.Anything, types.AccountFilter{Unit: &unit, Limit: 10}).Return([]types.Account{}, 0, nil).Once()

		rr := do(t, newTestRouter(svc, admin), http.MethodGet, "/accounts?unit=%20ops%20", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		svc.AssertExpectations(t)
	})

	t.Run("bad query", func(t *testing.T) {
		svc := new(MockAccountService)
		rr := do(t, newTestRouter(svc, admin), http.MethodGet, "/accounts?limit=500&role=superuser", nil)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		env := decodeError(t, rr)
		require.Len(t, env.Details, 2)
		assert.Equal(t, "limit", env.Details[0].Field)
		assert.Equal(t, "role", env.Details[1].Field)
		for _, d := range env.Details {
			assert.Equal(t, validation.InQuery, d.Location)
		}
		svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})
}

func TestAccountHandler_Get(t *testing.T) {
	admin := testAccount("root", types.RoleAdmin)

	t.Run("found", func(t *testing.T) {
		svc := new(MockAccountService)
		target := testAccount("jdoe", types.RoleUser)
		svc.On("Get", mock.Anything, target.ID).Return(target, nil).Once()

		rr := do(t, newTestRouter(svc, admin), http.MethodGet, "/accounts/"+target.ID.String(), nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.NotContains(t, rr.Body.String(), "password")
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(MockAccountService)
		id := uuid.New()
		svc.On("Get", mock.Anything, id).Return(nil, types.ErrNotFound).Once()

		rr := do(t, newTestRouter(svc, admin), http.MethodGet, "/accounts/"+id.String(), nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, api.CodeNotFound, decodeError(t, rr).Code)
	})

	t.Run("bad id", func(t *testing.T) {
		rr := do(t, newTestRouter(new(MockAccountService), admin), http.MethodGet, "/accounts/not-a-uuid", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		env := decodeError(t, rr)
		require.Len(t, env.Details, 1)
		assert.Equal(t, validation.InParam, env.Details[0].Location)
	})
}

func TestAccountHandler_Create(t *testing.T) {
	admin := testAccount("root", types.RoleAdmin)

	t.Run("created with defaults", func(t *testing.T) {
		svc := new(MockAccountService)
		created := testAccount("jdoe", types.RoleUser)
		svc.On("Create", mock.Anything, CreateAccountInput{
			Handle: "jdoe", Password: "s3cret-pass", DisplayName: "John Doe",
			Email: "jdoe@example.com", Role: types.RoleUser, Unit: "", IsActive: true,
		}).Return(created, nil).Once()

		rr := do(t, newTestRouter(svc, admin), http.MethodPost, "/accounts", map[string]any{
			"handle": "jdoe", "password": "s3cret-pass", "display_name": "John Doe", "email": "jdoe@example.com",
		})
		assert.Equal(t, http.StatusCreated, rr.Code)
		svc.AssertExpectations(t)
	})

	t.Run("three problems at once", func(t *testing.T) {
		svc := new(MockAccountService)
		rr := do(t, newTestRouter(svc, admin), http.MethodPost, "/accounts", map[string]any{
			"handle": "ab", "password": "s3cret-pass", "display_name": "Ab", "role": "superuser",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		env := decodeError(t, rr)
		assert.False(t, env.Success)
		assert.Equal(t, api.CodeValidation, env.Code)
		require.Len(t, env.Details, 3)
		assert.Equal(t, "handle", env.Details[0].Field)
		assert.Equal(t, "email", env.Details[1].Field)
		assert.Equal(t, "role", env.Details[2].Field)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("multibyte password over the byte limit", func(t *testing.T) {
		repo := new(MockAccountRepo)
		svc := NewAccountService(repo, discardLogger(), bcrypt.MinCost)
		password := strings.Repeat("é", 40)

		rr := do(t, newTestRouter(svc, admin), http.MethodPost, "/accounts", map[string]any{
			"handle": "jdoe", "password": password, "display_name": "John Doe", "email": "jdoe@example.com",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		env := decodeError(t, rr)
		require.Len(t, env.Details, 1)
		assert.Equal(t, "password", env.Details[0].Field)
		assert.Equal(t, "password must be at most 72 bytes long", env.Details[0].Message)
		assert.Nil(t, env.Details[0].Value)
		assert.NotContains(t, rr.Body.String(), password)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate", func(t *testing.T) {
		svc := new(MockAccountService)
		svc.On("Create", mock.Anything, mock.Anything).Return(nil, types.ErrConflict).Once()

		rr := do(t, newTestRouter(svc, admin), http.MethodPost, "/accounts", map[string]any{
			"handle": "jdoe", "password": "s3cret-pass", "display_name": "John Doe", "email": "jdoe@example.com",
		})
		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, api.CodeConflict, decodeError(t, rr).Code)
	})
}

func TestAccountHandler_RoleAndActivation(t *testing.T) {
	admin := testAccount("root", types.RoleAdmin)
	target := testAccount("jdoe", types.RoleUser)

	t.Run("change role", func(t *testing.T) {
		svc := new(MockAccountService)
		updated := *target
		updated.Role = types.RoleManager
		svc.On("ChangeRole", mock.Anything, admin.ID, target.ID, types.RoleManager).Return(&updated, nil).Once()

		rr := do(t, newTestRouter(svc, admin), http.MethodPatch, "/accounts/"+target.ID.String()+"/role", map[string]any{"role": "manager"})
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"role":"manager"`)
	})

	t.Run("role is required", func(t *testing.T) {
		rr := do(t, newTestRouter(new(MockAccountService), admin), http.MethodPatch, "/accounts/"+target.ID.String()+"/role", map[string]any{})
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("self modification", func(t *testing.T) {
		svc := new(MockAccountService)
		svc.On("SetActivation", mock.Anything, admin.ID, admin.ID, false).Return(nil, ErrSelfModification).Once()

		rr := do(t, newTestRouter(svc, admin), http.MethodPatch, "/accounts/"+admin.ID.String()+"/activation", map[string]any{"is_active": false})
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("activation must be a boolean", func(t *testing.T) {
		rr := do(t, newTestRouter(new(MockAccountService), admin), http.MethodPatch, "/accounts/"+target.ID.String()+"/activation", map[string]any{"is_active": "no"})
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("delete deactivates", func(t *testing.T) {
		svc := new(MockAccountService)
		svc.On("SetActivation", mock.Anything, admin.ID, target.ID, false).Return(target, nil).Once()

		rr := do(t, newTestRouter(svc, admin), http.MethodDelete, "/accounts/"+target.ID.String(), nil)
		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Zero(t, rr.Body.Len())
		svc.AssertExpectations(t)
	})

	t.Run("internal failure hides nothing outside production", func(t *testing.T) {
		svc := new(MockAccountService)
		svc.On("SetActivation", mock.Anything, admin.ID, target.ID, false).Return(nil, errors.New("deadlock detected")).Once()

		rr := do(t, newTestRouter(svc, admin), http.MethodDelete, "/accounts/"+target.ID.String(), nil)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, rr.Body.String(), "deadlock detected")
	})
}
