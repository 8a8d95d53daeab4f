package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerbook/finance-tracker/internal/api/handler"
	"github.com/ledgerbook/finance-tracker/internal/core/service"
	"github.com/ledgerbook/finance-tracker/internal/infrastructure/db/memory"
	"github.com/ledgerbook/finance-tracker/internal/infrastructure/db/sqlite"
	"github.com/ledgerbook/finance-tracker/internal/infrastructure/http/handlers"
)

type testApp struct {
	t *testing.T
	e *echo.Echo
}

func newTestApp(t *testing.T, allowGlobalDelete bool) *testApp {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Connect(ctx, sqlite.Config{Path: filepath.Join(t.TempDir(), "api.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := zerolog.Nop()
	users := sqlite.NewUserRepository(db)
	categoryRepo := sqlite.NewCategoryRepository(db)
	txRepo := sqlite.NewTransactionRepository(db)

	gate := service.NewSessionGate(users, memory.NewSessionStore(), "test-secret", time.Hour, log)
	categories := service.NewCategoryService(categoryRepo, allowGlobalDelete, nil, log)
	_, err = categories.SeedDefaults(ctx, []string{"Зарплата", "Продукты", "Транспорт"})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	e := NewRouter(Dependencies{
		Auth:         service.NewAuthService(users, gate, nil, log),
		Gate:         gate,
		Categories:   categories,
		Transactions: service.NewTransactionService(txRepo, nil, log),
		Stats:        service.NewStatsService(txRepo),
		Cookie:       handler.CookieConfig{Name: "session", Lifetime: time.Hour},
		Readiness:    []handlers.Dependency{{Name: "sqlite", Check: db.PingContext}},
		Registerer:   reg,
		Gatherer:     reg,
		Log:          log,
	})
	return &testApp{t: t, e: e}
}

// do sends a request with an optional session cookie and decodes the JSON body.
func (a *testApp) do(method, path, body, session string) (int, map[string]any, *httptest.ResponseRecorder) {
	a.t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if session != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: session})
	}

	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	var resp map[string]any
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) && rec.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	}
	return rec.Code, resp, rec
}

// signupAndLogin returns the session token for a fresh user.
func (a *testApp) signupAndLogin(username, password string) string {
	a.t.Helper()
	creds := `{"username":"` + username + `","password":"` + password + `"}`

	code, _, _ := a.do(http.MethodPost, "/api/signup", creds, "")
	require.Equal(a.t, http.StatusCreated, code)

	code, resp, rec := a.do(http.MethodPost, "/api/login", creds, "")
	require.Equal(a.t, http.StatusOK, code)
	require.Equal(a.t, username, resp["username"])

	for _, c := range rec.Result().Cookies() {
		if c.Name == "session" {
			return c.Value
		}
	}
	a.t.Fatal("login did not set a session cookie")
	return ""
}

func TestRouter_SignupLoginMe(t *testing.T) {
	app := newTestApp(t, false)

	code, resp, _ := app.do(http.MethodGet, "/api/me", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, resp["logged_in"])

	token := app.signupAndLogin("alice", "pw")

	_, resp, _ = app.do(http.MethodGet, "/api/me", "", token)
	assert.Equal(t, true, resp["logged_in"])
	assert.Equal(t, "alice", resp["username"])

	code, resp, _ = app.do(http.MethodPost, "/api/signup", `{"username":"alice","password":"other"}`, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "user exists", resp["error"])

	code, resp, _ = app.do(http.MethodPost, "/api/login", `{"username":"alice","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "invalid credentials", resp["error"])

	code, resp, _ = app.do(http.MethodPost, "/api/login", `{"username":"nobody","password":"pw"}`, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "invalid credentials", resp["error"])
}

func TestRouter_BearerTokenAndLogout(t *testing.T) {
	app := newTestApp(t, false)
	token := app.signupAndLogin("alice", "pw")

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	app.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	code, _, _ := app.do(http.MethodPost, "/api/logout", "", token)
	assert.Equal(t, http.StatusOK, code)

	code, resp, _ := app.do(http.MethodGet, "/api/stats", "", token)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "not authenticated", resp["error"])
}

func TestRouter_BearerTokenWinsOverStaleCookie(t *testing.T) {
	app := newTestApp(t, false)
	stale := app.signupAndLogin("alice", "pw")
	fresh := app.signupAndLogin("bob", "pw")

	code, _, _ := app.do(http.MethodPost, "/api/logout", "", stale)
	require.Equal(t, http.StatusOK, code)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: stale})
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+fresh)
	rec := httptest.NewRecorder()
	app.e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["logged_in"])
	assert.Equal(t, "bob", resp["username"])
}

func TestRouter_PrivateRoutesRequireSession(t *testing.T) {
	app := newTestApp(t, false)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/categories"},
		{http.MethodPost, "/api/categories"},
		{http.MethodDelete, "/api/categories/1"},
		{http.MethodGet, "/api/transactions"},
		{http.MethodPost, "/api/transactions"},
		{http.MethodDelete, "/api/transactions/1"},
		{http.MethodGet, "/api/stats"},
	}
	for _, r := range routes {
		code, resp, _ := app.do(r.method, r.path, "", "forged-token")
		assert.Equal(t, http.StatusUnauthorized, code, "%s %s", r.method, r.path)
		assert.Equal(t, "not authenticated", resp["error"], "%s %s", r.method, r.path)
	}
}

func TestRouter_TransactionsAndStatsScenario(t *testing.T) {
	app := newTestApp(t, false)
	alice := app.signupAndLogin("alice", "pw")
	bob := app.signupAndLogin("bob", "pw")

	code, resp, _ := app.do(http.MethodPost, "/api/transactions",
		`{"type":"income","category":"Зарплата","amount":"1000.5","date":"2024-01-01"}`, alice)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, true, resp["ok"])
	txID := int64(resp["id"].(float64))

	_, resp, _ = app.do(http.MethodGet, "/api/stats", "", alice)
	assert.Equal(t, map[string]any{"income": 1000.5, "expense": float64(0), "balance": 1000.5}, resp)

	_, resp, _ = app.do(http.MethodGet, "/api/transactions", "", alice)
	txs := resp["transactions"].([]any)
	require.Len(t, txs, 1)
	assert.Equal(t, map[string]any{
		"id": float64(txID), "type": "income", "category": "Зарплата", "amount": 1000.5, "date": "2024-01-01", "desc": "",
	}, txs[0])

	// bob sees nothing of alice's and cannot delete it.
	_, resp, _ = app.do(http.MethodGet, "/api/transactions", "", bob)
	assert.Empty(t, resp["transactions"])
	_, resp, _ = app.do(http.MethodGet, "/api/stats", "", bob)
	assert.Equal(t, float64(0), resp["balance"])

	path := "/api/transactions/" + jsonNumber(txID)
	foreignCode, foreignResp, _ := app.do(http.MethodDelete, path, "", bob)
	missingCode, missingResp, _ := app.do(http.MethodDelete, "/api/transactions/99999", "", bob)
	assert.Equal(t, http.StatusNotFound, foreignCode)
	assert.Equal(t, missingCode, foreignCode)
	assert.Equal(t, missingResp, foreignResp)

	code, _, _ = app.do(http.MethodDelete, path, "", alice)
	assert.Equal(t, http.StatusOK, code)
	_, resp, _ = app.do(http.MethodGet, "/api/transactions", "", alice)
	assert.Empty(t, resp["transactions"])
}

func TestRouter_TransactionValidation(t *testing.T) {
	app := newTestApp(t, false)
	alice := app.signupAndLogin("alice", "pw")

	code, resp, _ := app.do(http.MethodPost, "/api/transactions",
		`{"type":"income","category":"Salary","amount":"abc","date":"2024-01-01"}`, alice)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid amount", resp["error"])

	code, _, _ = app.do(http.MethodPost, "/api/transactions",
		`{"type":"transfer","category":"Salary","amount":5,"date":"2024-01-01"}`, alice)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _, _ = app.do(http.MethodPost, "/api/transactions",
		`{"type":"income","category":"Salary","amount":5,"date":"2024-01-01","user_id":2}`, alice)
	assert.Equal(t, http.StatusBadRequest, code)

	_, resp, _ = app.do(http.MethodGet, "/api/transactions", "", alice)
	assert.Empty(t, resp["transactions"], "rejected requests must not persist rows")

	code, resp, _ = app.do(http.MethodDelete, "/api/transactions/abc", "", alice)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not found", resp["error"])
}

func TestRouter_TransactionFieldsListBackAsSent(t *testing.T) {
	app := newTestApp(t, false)
	alice := app.signupAndLogin("alice", "pw")

	code, resp, _ := app.do(http.MethodPost, "/api/transactions",
		`{"type":" income ","category":"Salary","amount":"10","date":"2024-01-01"}`, alice)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid type", resp["error"])

	code, resp, _ = app.do(http.MethodPost, "/api/transactions",
		`{"type":"income","category":"  Salary  ","amount":" 10 ","date":" 2024-01-01 ","desc":" bonus "}`, alice)
	require.Equal(t, http.StatusCreated, code)
	txID := resp["id"]

	_, resp, _ = app.do(http.MethodGet, "/api/transactions", "", alice)
	txs := resp["transactions"].([]any)
	require.Len(t, txs, 1)
	assert.Equal(t, map[string]any{
		"id": txID, "type": "income", "category": "  Salary  ", "amount": float64(10), "date": " 2024-01-01 ", "desc": " bonus ",
	}, txs[0])
}

func TestRouter_Categories(t *testing.T) {
	app := newTestApp(t, false)
	alice := app.signupAndLogin("alice", "pw")
	bob := app.signupAndLogin("bob", "pw")

	_, resp, _ := app.do(http.MethodGet, "/api/categories", "", alice)
	assert.Len(t, resp["categories"], 3, "seeded globals")

	code, resp, _ := app.do(http.MethodPost, "/api/categories", `{"name":"Food"}`, alice)
	require.Equal(t, http.StatusCreated, code)
	aliceFood := int64(resp["id"].(float64))
	code, resp, _ = app.do(http.MethodPost, "/api/categories", `{"name":"Food"}`, bob)
	require.Equal(t, http.StatusCreated, code)
	assert.NotEqual(t, float64(aliceFood), resp["id"])

	_, resp, _ = app.do(http.MethodGet, "/api/categories", "", alice)
	cats := resp["categories"].([]any)
	require.Len(t, cats, 4)
	for _, raw := range cats {
		c := raw.(map[string]any)
		if c["user_id"] != nil {
			assert.Equal(t, float64(aliceFood), c["id"])
		}
	}

	code, resp, _ = app.do(http.MethodPost, "/api/categories", `{"name":"   "}`, alice)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "name required", resp["error"])

	code, resp, _ = app.do(http.MethodDelete, "/api/categories/"+jsonNumber(aliceFood), "", bob)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "forbidden", resp["error"])

	code, _, _ = app.do(http.MethodDelete, "/api/categories/1", "", alice)
	assert.Equal(t, http.StatusForbidden, code, "global categories are protected by default")

	code, _, _ = app.do(http.MethodDelete, "/api/categories/"+jsonNumber(aliceFood), "", alice)
	assert.Equal(t, http.StatusOK, code)

	code, resp, _ = app.do(http.MethodDelete, "/api/categories/"+jsonNumber(aliceFood), "", alice)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not found", resp["error"])
}

func TestRouter_GlobalCategoryDeleteWhenAllowed(t *testing.T) {
	app := newTestApp(t, true)
	alice := app.signupAndLogin("alice", "pw")

	code, _, _ := app.do(http.MethodDelete, "/api/categories/1", "", alice)
	assert.Equal(t, http.StatusOK, code)

	_, resp, _ := app.do(http.MethodGet, "/api/categories", "", alice)
	assert.Len(t, resp["categories"], 2)
}

func TestRouter_OperationalRoutes(t *testing.T) {
	app := newTestApp(t, false)

	code, resp, _ := app.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp["status"])

	code, resp, _ = app.do(http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp["status"])

	// Generate one request so the HTTP collectors have samples.
	app.do(http.MethodGet, "/api/me", "", "")
	_, _, rec := app.do(http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "finance_requests_total")

	code, resp, _ = app.do(http.MethodGet, "/api/nope", "", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.NotEmpty(t, resp["error"])
}

func jsonNumber(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
