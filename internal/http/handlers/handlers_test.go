package handlers_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accountd/internal/account"
	httpserver "accountd/internal/http"
	"accountd/internal/http/handlers"
	"accountd/internal/identity"
	"accountd/internal/logging"
	"accountd/internal/models"
	"accountd/internal/org"
	"accountd/internal/store"
)

func orgFixture(id string) *models.Organization {
	return &models.Organization{
		ID:     id,
		Name:   "Acme",
		Plan:   models.PlanFree,
		Status: models.OrgActive,
	}
}

type fakeResolver struct {
	profile identity.Profile
}

func (f *fakeResolver) GetUser(ctx context.Context, externalUserID string) (*identity.Profile, error) {
	p := f.profile
	return &p, nil
}

func setup(jwtSecret string) (*gin.Engine, *store.Memory) {
	gin.SetMode(gin.TestMode)
	mem := store.NewMemory()
	resolver := &fakeResolver{profile: identity.Profile{
		Email:         "jane@example.com",
		FirstName:     "Jane",
		LastName:      "Doe",
		EmailVerified: true,
	}}
	accounts := account.NewService(mem, resolver, logging.NewNop())
	orgs := org.NewService(mem, logging.NewNop())
	return httpserver.NewRouter(accounts, orgs, jwtSecret), mem
}

func do(r *gin.Engine, method, target string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) handlers.Envelope {
	t.Helper()
	var env handlers.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestSyncMissingHeader(t *testing.T) {
	r, _ := setup("")

	w := do(r, http.MethodGet, "/api/v1/users/sync", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	env := decodeEnvelope(t, w)
	assert.Equal(t, handlers.StatusFailure, env.Status)
	require.Len(t, env.Errors, 1)
	assert.NotEmpty(t, env.Errors[0].Message)
}

func TestUserContextAbsentIsBare404(t *testing.T) {
	r, _ := setup("")

	w := do(r, http.MethodGet, "/api/v1/users/context?externalUserId=ext-unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestSignupFlow(t *testing.T) {
	r, _ := setup("")
	caller := map[string]string{handlers.HeaderExternalUserID: "ext-1"}

	// Signup sync creates the account.
	w := do(r, http.MethodGet, "/api/v1/users/sync", caller)
	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, handlers.StatusSuccess, env.Status)

	// Onboarding creates the organization and makes the caller its admin.
	w = do(r, http.MethodPost, "/api/v1/organizations?organizationName=Acme", caller)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Second create-and-attach is rejected, store unchanged.
	w = do(r, http.MethodPost, "/api/v1/organizations?organizationName=Globex", caller)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Full profile now carries the organization and the ADMIN role.
	w = do(r, http.MethodGet, "/api/v1/users/me", caller)
	require.Equal(t, http.StatusOK, w.Code)

	var me struct {
		Response account.UserAccountView `json:"response"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	require.NotNil(t, me.Response.Organization)
	assert.Equal(t, "Acme", me.Response.Organization.Name)
	assert.Equal(t, "ADMIN", me.Response.Role)
	assert.True(t, me.Response.OnboardingCompleted)

	// Bulk membership view lists the one member.
	w = do(r, http.MethodGet, "/api/v1/users/org/"+me.Response.Organization.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var members struct {
		Response []account.UserAccountView `json:"response"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &members))
	assert.Len(t, members.Response, 1)

	// Context view resolves the caller's organization.
	w = do(r, http.MethodGet, "/api/v1/users/context?externalUserId=ext-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var contextView account.UserContextView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &contextView))
	assert.Equal(t, me.Response.Organization.ID, contextView.OrganizationID)
	assert.Equal(t, "ADMIN", contextView.Role)
}

func TestBulkViewUnknownOrganization(t *testing.T) {
	r, _ := setup("")

	w := do(r, http.MethodGet, "/api/v1/users/org/org-missing", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, handlers.StatusFailure, env.Status)
}

func TestAuthSyncMissingToken(t *testing.T) {
	r, _ := setup("")

	w := do(r, http.MethodGet, "/api/v1/auth/sync", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthSyncMalformedToken(t *testing.T) {
	r, _ := setup("")

	w := do(r, http.MethodGet, "/api/v1/auth/sync", map[string]string{
		"Authorization": "Bearer only.two",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthSyncDecodedToken(t *testing.T) {
	r, _ := setup("") // no secret configured: unverified decode path

	seg := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }
	tok := seg(`{"alg":"none"}`) + "." + seg(`{"sub":"ext-9"}`) + "." + seg("sig")

	w := do(r, http.MethodGet, "/api/v1/auth/sync", map[string]string{
		"Authorization": "Bearer " + tok,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(r, http.MethodGet, "/api/v1/users/context?externalUserId=ext-9", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthSyncVerifiedToken(t *testing.T) {
	const secret = "shared-secret"
	r, _ := setup(secret)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "ext-5",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	w := do(r, http.MethodGet, "/api/v1/auth/sync", map[string]string{
		"Authorization": "Bearer " + signed,
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Unsigned tokens are rejected once a secret is configured.
	seg := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }
	unsigned := seg(`{"alg":"none"}`) + "." + seg(`{"sub":"ext-6"}`) + "." + seg("sig")
	w = do(r, http.MethodGet, "/api/v1/auth/sync", map[string]string{
		"Authorization": "Bearer " + unsigned,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthSyncCookieFallback(t *testing.T) {
	r, _ := setup("")

	seg := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }
	tok := seg(`{"alg":"none"}`) + "." + seg(`{"sub":"ext-7"}`) + "." + seg("sig")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/sync", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: tok})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestAuthSyncOrgHintFromToken(t *testing.T) {
	r, mem := setup("")
	require.NoError(t, mem.Organizations().Create(context.Background(), orgFixture("org-42")))

	seg := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }
	tok := seg(`{"alg":"none"}`) + "." + seg(`{"sub":"ext-8","organization_id":"org-42"}`) + "." + seg("sig")

	w := do(r, http.MethodGet, "/api/v1/auth/sync", map[string]string{
		"Authorization": "Bearer " + tok,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var env struct {
		Response account.UserAccountView `json:"response"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NotNil(t, env.Response.Organization)
	assert.Equal(t, "org-42", env.Response.Organization.ID)
	assert.Equal(t, "MEMBER", env.Response.Role)
}
