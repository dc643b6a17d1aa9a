// AngelaMos | 2026
// handler_test.go

package identity

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() chi.Router {
	handler := NewHandler(newTestService(newFakeRepo()))

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func post(
	t *testing.T,
	router chi.Router,
	path, payload string,
) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(
		http.MethodPost,
		path,
		strings.NewReader(payload),
	)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHandlerRegisterVerifyLogin(t *testing.T) {
	router := newTestRouter()

	rec, body := post(t, router, "/auth/register", `{
		"email": "alice@fl1capital.com",
		"password": "password123",
		"fullName": "Alice"
	}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	code, ok := body["verificationCode"].(string)
	require.True(t, ok)
	require.Len(t, code, 6)

	// Login before verification is refused with 403.
	rec, body = post(t, router, "/auth/login", `{
		"email": "alice@fl1capital.com",
		"password": "password123"
	}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "email not verified", body["error"])

	rec, body = post(t, router, "/auth/verify", `{
		"email": "alice@fl1capital.com",
		"verificationCode": "`+code+`"
	}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])

	rec, body = post(t, router, "/auth/login", `{
		"email": "alice@fl1capital.com",
		"password": "password123"
	}`)
	require.Equal(t, http.StatusOK, rec.Code)
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alice@fl1capital.com", user["email"])
	assert.Equal(t, true, user["emailVerified"])
}

func TestHandlerRegisterOutsideDomain(t *testing.T) {
	router := newTestRouter()

	rec, body := post(t, router, "/auth/register", `{
		"email": "alice@gmail.com",
		"password": "password123",
		"fullName": "Alice"
	}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["error"], "permitted domain")
}

func TestHandlerRegisterDuplicate(t *testing.T) {
	router := newTestRouter()

	payload := `{
		"email": "alice@fl1capital.com",
		"password": "password123",
		"fullName": "Alice"
	}`

	rec, _ := post(t, router, "/auth/register", payload)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = post(t, router, "/auth/register", payload)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandlerRegisterValidation(t *testing.T) {
	router := newTestRouter()

	// Password below the 8 character minimum.
	rec, body := post(t, router, "/auth/register", `{
		"email": "alice@fl1capital.com",
		"password": "short",
		"fullName": "Alice"
	}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["error"], "password")
}

func TestHandlerLoginUnknownUser(t *testing.T) {
	router := newTestRouter()

	rec, body := post(t, router, "/auth/login", `{
		"email": "ghost@fl1capital.com",
		"password": "password123"
	}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "user not found", body["error"])
}

func TestHandlerLoginWrongPassword(t *testing.T) {
	router := newTestRouter()

	rec, _ := post(t, router, "/auth/register", `{
		"email": "alice@fl1capital.com",
		"password": "password123",
		"fullName": "Alice"
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var reg struct {
		VerificationCode string `json:"verificationCode"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reg))

	rec, _ = post(t, router, "/auth/verify", `{
		"email": "alice@fl1capital.com",
		"verificationCode": "`+reg.VerificationCode+`"
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := post(t, router, "/auth/login", `{
		"email": "alice@fl1capital.com",
		"password": "wrong password"
	}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid password", body["error"])
}

func TestHandlerResendUnknownUser(t *testing.T) {
	router := newTestRouter()

	rec, _ := post(t, router, "/auth/resend", `{
		"email": "ghost@fl1capital.com"
	}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerVerifyWrongCode(t *testing.T) {
	router := newTestRouter()

	rec, body := post(t, router, "/auth/register", `{
		"email": "alice@fl1capital.com",
		"password": "password123",
		"fullName": "Alice"
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	code, ok := body["verificationCode"].(string)
	require.True(t, ok)
	wrong := "000000"
	if code == wrong {
		wrong = "000001"
	}

	rec, body = post(t, router, "/auth/verify", `{
		"email": "alice@fl1capital.com",
		"verificationCode": "`+wrong+`"
	}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid verification code", body["error"])
}
