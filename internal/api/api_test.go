package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thermolog-dev/thermolog/internal/auth"
	"github.com/thermolog-dev/thermolog/internal/service"
	"github.com/thermolog-dev/thermolog/internal/store"
	"github.com/thermolog-dev/thermolog/pkg/schema"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	tokens := auth.NewTokenIssuer("test-secret")
	h := &Handler{
		Accounts: service.NewAccountService(st, tokens),
		Settings: service.NewSettingsService(st),
		Readings: service.NewReadingService(st),
	}

	r := gin.New()
	h.Routes(r)
	return r
}

func doJSON(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var payload *bytes.Buffer
	if body != nil {
		raw, _ := json.Marshal(body)
		payload = bytes.NewBuffer(raw)
	} else {
		payload = &bytes.Buffer{}
	}
	req, _ := http.NewRequest(method, path, payload)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func register(t *testing.T, r *gin.Engine, username, email, password string) {
	t.Helper()
	w := doJSON(r, "POST", "/auth/register", "", gin.H{
		"username": username, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code, "register %s: %s", username, w.Body.String())
}

func login(t *testing.T, r *gin.Engine, username, password string) (access, refresh string) {
	t.Helper()
	w := doJSON(r, "POST", "/auth/login", "", gin.H{
		"username": username, "password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, "login %s: %s", username, w.Body.String())
	body := decode(t, w)
	return body["access_token"].(string), body["refresh_token"].(string)
}

func TestRegisterValidationAndConflicts(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, "POST", "/auth/register", "", gin.H{"username": "alice"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing required fields", decode(t, w)["error"])

	register(t, r, "alice", "alice@x.com", "pw")

	w = doJSON(r, "POST", "/auth/register", "", gin.H{
		"username": "alice", "email": "other@x.com", "password": "pw",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Username already exists", decode(t, w)["error"])

	w = doJSON(r, "POST", "/auth/register", "", gin.H{
		"username": "bob", "email": "alice@x.com", "password": "pw",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email already exists", decode(t, w)["error"])
}

func TestLoginResponseOmitsCredentialHash(t *testing.T) {
	r := newTestRouter(t)
	register(t, r, "alice", "alice@x.com", "pw")

	w := doJSON(r, "POST", "/auth/login", "", gin.H{"username": "alice", "password": "pw"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "hash")

	user := decode(t, w)["user"].(map[string]any)
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, "admin", user["role"], "first registration is promoted to admin")

	w = doJSON(r, "POST", "/auth/login", "", gin.H{"username": "alice", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// The scripted end-to-end flow: first account becomes admin, second
// stays a user, the admin ingests two readings into the same hour, and
// the daily aggregation returns one bucket with their summary.
func TestEndToEndAggregationScenario(t *testing.T) {
	r := newTestRouter(t)

	register(t, r, "admin", "a@x.com", "pw1")
	register(t, r, "bob", "b@x.com", "pw2")
	adminToken, _ := login(t, r, "admin", "pw1")
	bobToken, _ := login(t, r, "bob", "pw2")

	for _, temp := range []float64{20.0, 24.0} {
		w := doJSON(r, "POST", "/api/temperature", adminToken, gin.H{
			"sensor_id":   "s1",
			"temperature": temp,
			"timestamp":   "2024-01-01T05:00:00Z",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := doJSON(r, "GET", "/api/temperature/s1?timeframe=daily&date=2024-01-01", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result schema.QueryResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "s1", result.SensorID)
	assert.Equal(t, "daily", result.Timeframe)
	require.Len(t, result.Data, 1)
	assert.Equal(t, "05:00", result.Data[0].TimeGroup)
	assert.Equal(t, 22.0, result.Data[0].AvgTemperature)
	assert.Equal(t, 20.0, result.Data[0].MinTemperature)
	assert.Equal(t, 24.0, result.Data[0].MaxTemperature)
	assert.Nil(t, result.Data[0].AvgHumidity)

	// A regular user may not ingest.
	w = doJSON(r, "POST", "/api/temperature", bobToken, gin.H{
		"sensor_id": "s1", "temperature": 30.0,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, "GET", "/api/sensors", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "s1")
}

func TestQueryRejectsBadParameters(t *testing.T) {
	r := newTestRouter(t)
	register(t, r, "admin", "a@x.com", "pw")
	token, _ := login(t, r, "admin", "pw")

	w := doJSON(r, "GET", "/api/temperature/s1?timeframe=hourly", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, "GET", "/api/temperature/s1?timeframe=daily&date=01-01-2024", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid date format. Use YYYY-MM-DD", decode(t, w)["error"])
}

func TestAuthRequired(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{"/api/sensors", "/auth/profile", "/admin/users", "/admin/settings"} {
		w := doJSON(r, "GET", path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "path %s", path)
	}

	w := doJSON(r, "GET", "/api/sensors", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshIssuesNewAccessToken(t *testing.T) {
	r := newTestRouter(t)
	register(t, r, "alice", "alice@x.com", "pw")
	access, refresh := login(t, r, "alice", "pw")

	w := doJSON(r, "POST", "/auth/refresh", refresh, nil)
	require.Equal(t, http.StatusOK, w.Code)
	newAccess := decode(t, w)["access_token"].(string)

	w = doJSON(r, "GET", "/auth/profile", newAccess, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// An access token is not a refresh token.
	w = doJSON(r, "POST", "/auth/refresh", access, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfileRoundTrip(t *testing.T) {
	r := newTestRouter(t)
	register(t, r, "alice", "alice@x.com", "pw")
	token, _ := login(t, r, "alice", "pw")

	w := doJSON(r, "GET", "/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode(t, w)
	assert.Equal(t, "alice", profile["username"])
	assert.Equal(t, "light", profile["theme"])

	w = doJSON(r, "PUT", "/auth/profile", token, gin.H{"theme": "dark"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "dark", decode(t, w)["theme"])

	// Changing the password requires the verified old/new pair.
	w = doJSON(r, "PUT", "/auth/profile", token, gin.H{
		"old_password": "wrong", "new_password": "next",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, "PUT", "/auth/profile", token, gin.H{
		"old_password": "pw", "new_password": "next",
	})
	require.Equal(t, http.StatusOK, w.Code)
	login(t, r, "alice", "next")
}

func TestAdminUserManagement(t *testing.T) {
	r := newTestRouter(t)
	register(t, r, "admin", "a@x.com", "pw")
	register(t, r, "bob", "b@x.com", "pw")
	adminToken, _ := login(t, r, "admin", "pw")
	bobToken, _ := login(t, r, "bob", "pw")

	w := doJSON(r, "GET", "/admin/users", bobToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, "GET", "/admin/users", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	users := decode(t, w)["users"].([]any)
	require.Len(t, users, 2)

	var bobID string
	for _, u := range users {
		entry := u.(map[string]any)
		if entry["username"] == "bob" {
			bobID = entry["id"].(string)
		}
	}
	require.NotEmpty(t, bobID)

	w = doJSON(r, "PUT", "/admin/users/"+bobID, adminToken, gin.H{"role": "overlord"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, "PUT", "/admin/users/"+bobID, adminToken, gin.H{"role": "admin"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", decode(t, w)["role"])

	w = doJSON(r, "DELETE", "/admin/users/"+bobID, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, "DELETE", "/admin/users/"+bobID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSettingsEndpoints(t *testing.T) {
	r := newTestRouter(t)
	register(t, r, "admin", "a@x.com", "pw")
	register(t, r, "bob", "b@x.com", "pw")
	adminToken, _ := login(t, r, "admin", "pw")
	bobToken, _ := login(t, r, "bob", "pw")

	w := doJSON(r, "POST", "/admin/settings", adminToken, gin.H{
		"key": "alert_threshold", "value": "30", "requires_admin": true,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// A duplicate key is rejected without inserting a row.
	w = doJSON(r, "POST", "/admin/settings", adminToken, gin.H{
		"key": "alert_threshold", "value": "99",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, "POST", "/admin/settings", bobToken, gin.H{"key": "x", "value": "y"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, "POST", "/admin/settings", adminToken, gin.H{
		"key": "display_unit", "value": "celsius",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Everyone reads; the flag gates only mutation.
	w = doJSON(r, "GET", "/admin/settings", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["settings"].([]any), 2)

	w = doJSON(r, "PUT", "/admin/settings/alert_threshold", bobToken, gin.H{"value": "25"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, "PUT", "/admin/settings/display_unit", bobToken, gin.H{"value": "fahrenheit"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fahrenheit", decode(t, w)["value"])

	w = doJSON(r, "PUT", "/admin/settings/display_unit", bobToken, gin.H{"requires_admin": true})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, "PUT", "/admin/settings/missing", adminToken, gin.H{"value": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
