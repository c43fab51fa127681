package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"shopfront/internal/domain"
	"shopfront/internal/http/handlers"
	"shopfront/internal/repos"
	"shopfront/internal/seed"
	"shopfront/internal/services"
	"shopfront/internal/store"
)

const (
	testSecret    = "test-secret-0123456789abcdef"
	adminEmail    = "admin@shop.test"
	adminPassword = "Passw0rd!"
)

type testEnv struct {
	app  *fiber.App
	db   *sqlx.DB
	st   *store.Store
	auth *services.AuthService
}

// newTestEnv wires the real app over an in-memory SQLite store seeded with the
// demo catalog.
func newTestEnv(t *testing.T, opts ...func(*handlers.AppOptions)) *testEnv {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	st := repos.NewStore(db)
	_, err = seed.Catalog(context.Background(), st.Products)
	require.NoError(t, err)

	auth := services.NewAuthService(st.Users, services.NewTokenIssuer(testSecret, 0))
	auth.Cost = bcrypt.MinCost

	o := handlers.AppOptions{APIPrefix: "/api", LoginRateMax: 100}
	for _, fn := range opts {
		fn(&o)
	}
	app := handlers.NewApp(handlers.NewDeps(st, auth), o)
	return &testEnv{app: app, db: db, st: st, auth: auth}
}

func newRequest(method, path string, body io.Reader) *http.Request {
	return httptest.NewRequest(method, path, body)
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func readAll(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return b
}

func decode[T any](t *testing.T, b []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(b, &v), "body=%s", b)
	return v
}

type authResponse struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

type itemsResponse struct {
	Items []domain.Item `json:"items"`
	Error string        `json:"error"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (e *testEnv) register(t *testing.T, name, email string) authResponse {
	t.Helper()
	status, body := e.do(t, "POST", "/api/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "Passw0rd!",
	})
	require.Equal(t, http.StatusCreated, status, "body=%s", body)
	return decode[authResponse](t, body)
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	_, err := e.auth.EnsureAdmin(context.Background(), "Admin", adminEmail, adminPassword)
	require.NoError(t, err)
	status, body := e.do(t, "POST", "/api/auth/login", "", map[string]string{
		"email": adminEmail, "password": adminPassword,
	})
	require.Equal(t, http.StatusOK, status, "body=%s", body)
	return decode[authResponse](t, body).Token
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	UserID string         `json:"user_id"`
	Err    string         `json:"err"`
	Fields map[string]any `json:"fields"`
}

type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

// captureLogs temporarily replaces the standard logger output and returns
// the JSON entries written while fn ran.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedWriter{w: &buf, mu: &mu})
	log.SetFlags(0) // remove timestamps to make JSON parseable
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
