package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dkeye/Parley/internal/app"
	"github.com/dkeye/Parley/internal/app/auth"
	"github.com/dkeye/Parley/internal/app/orch"
	"github.com/dkeye/Parley/internal/config"
	"github.com/dkeye/Parley/internal/domain"
	"github.com/dkeye/Parley/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testAPI struct {
	t       *testing.T
	router  *gin.Engine
	orch    *orch.Orchestrator
	cookies []*http.Cookie
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	db, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(db) })

	cfg := &config.Config{Mode: "test", StaticPath: t.TempDir(), Secret: "test-secret", TokenTTL: time.Hour}
	o := orch.New(app.NewRegistry(), app.NewRoomRouter(), store.NewMessageRepository(db), nil)
	accounts := auth.NewService(store.NewUserRepository(db), auth.NewPasswordHasher(bcrypt.MinCost), auth.NewTokenManager(cfg.Secret, cfg.TokenTTL))

	return &testAPI{t: t, router: SetupRouter(context.Background(), cfg, o, accounts), orch: o}
}

// do sends a request carrying the cookies from the last response that set any.
func (a *testAPI) do(method, path string, body any) (int, map[string]any) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range a.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	if set := w.Result().Cookies(); len(set) > 0 {
		a.cookies = set
	}

	var out map[string]any
	if w.Body.Len() > 0 && w.Body.Bytes()[0] == '{' {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w.Code, out
}

func TestAuthFlow(t *testing.T) {
	api := newTestAPI(t)

	code, body := api.do(http.MethodPost, "/api/auth/signup", gin.H{"username": "alice", "password": "secret1"})
	require.Equal(t, http.StatusCreated, code)
	user := body["user"].(map[string]any)
	assert.Equal(t, "alice", user["username"])
	assert.NotContains(t, user, "PasswordHash")

	code, body = api.do(http.MethodPost, "/api/auth/signup", gin.H{"username": "alice", "password": "secret1"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "username taken", body["error"])

	code, _ = api.do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = api.do(http.MethodPost, "/api/auth/login", gin.H{"username": "alice", "password": "wrong-pw"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = api.do(http.MethodPost, "/api/auth/login", gin.H{"username": "alice", "password": "secret1"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, user["id"], body["user"].(map[string]any)["id"])

	code, body = api.do(http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "alice", body["user"].(map[string]any)["username"])

	code, _ = api.do(http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = api.do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestContacts(t *testing.T) {
	api := newTestAPI(t)
	_, body := api.do(http.MethodPost, "/api/auth/signup", gin.H{"username": "bob", "password": "secret1"})
	bobID := body["user"].(map[string]any)["id"].(string)
	_, body = api.do(http.MethodPost, "/api/auth/signup", gin.H{"username": "alice", "password": "secret1"})
	aliceID := body["user"].(map[string]any)["id"].(string)
	code, _ := api.do(http.MethodPost, "/api/auth/login", gin.H{"username": "alice", "password": "secret1"})
	require.Equal(t, http.StatusOK, code)

	code, _ = api.do(http.MethodPost, "/api/contacts/add", gin.H{})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = api.do(http.MethodPost, "/api/contacts/add", gin.H{"contactId": aliceID})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = api.do(http.MethodPost, "/api/contacts/add", gin.H{"contactId": "ghost"})
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = api.do(http.MethodPost, "/api/contacts/add", gin.H{"contactId": bobID})
	require.Equal(t, http.StatusOK, code)
	code, _ = api.do(http.MethodPost, "/api/contacts/add", gin.H{"contactId": bobID})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = api.do(http.MethodGet, "/api/contacts/list", nil)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, body["contacts"], 1)

	code, body = api.do(http.MethodGet, "/api/contacts/others", nil)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, body["users"], 1)

	code, body = api.do(http.MethodGet, "/api/rooms/peer/"+bobID, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, string(domain.PeerRoom(domain.UserID(aliceID), domain.UserID(bobID))), body["room"])

	code, _ = api.do(http.MethodDelete, "/api/contacts/remove/"+bobID, nil)
	require.Equal(t, http.StatusOK, code)
	_, body = api.do(http.MethodGet, "/api/contacts/list", nil)
	assert.Empty(t, body["contacts"])
}

func TestHistoryAndPresenceRoutes(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()
	_, err := api.orch.Send(ctx, "one", "alice", "r1")
	require.NoError(t, err)
	_, err = api.orch.Send(ctx, "two", "bob", "r1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/messages/r1", nil)
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var msgs []domain.Message
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msgs))
	require.Len(t, msgs, 2)
	assert.Equal(t, "one", msgs[0].Text)
	assert.Equal(t, "two", msgs[1].Text)

	w = httptest.NewRecorder()
	api.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/messages/empty", nil))
	assert.JSONEq(t, `[]`, w.Body.String())

	code, body := api.do(http.MethodGet, "/api/online", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["users"])

	code, body = api.do(http.MethodGet, "/api/rooms", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["rooms"])
}
