package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"DuoChat/middleware"
	"DuoChat/pkg/services"
	"DuoChat/pkg/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

type client struct {
	t      *testing.T
	router http.Handler
	token  string
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store, err := services.NewDiskStorage(t.TempDir())
	require.NoError(t, err)

	core := services.NewCore(testutil.NewDB(t), services.Options{
		Hasher:    services.BcryptHasher{Cost: bcrypt.MinCost},
		Tokens:    services.NewTokenIssuer("routes-test", time.Hour),
		Artifacts: store,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	limiter := middleware.NewRateLimiter(1000, 1000)
	t.Cleanup(limiter.Close)

	r := gin.New()
	RegisterRoutes(r, core, limiter)
	return r
}

func (c *client) do(method, path string, body io.Reader, contentType string) (*httptest.ResponseRecorder, envelope) {
	c.t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (c *client) json(method, path string, payload any) (*httptest.ResponseRecorder, envelope) {
	c.t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(c.t, err)
		body = bytes.NewReader(raw)
	}
	return c.do(method, path, body, "application/json")
}

func register(t *testing.T, router http.Handler, name string) (*client, uint) {
	t.Helper()
	c := &client{t: t, router: router}
	w, env := c.json(http.MethodPost, "/register", gin.H{
		"email":    name + "@example.com",
		"username": name,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var res struct {
		User  struct{ ID uint } `json:"user"`
		Token string            `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	c.token = res.Token
	return c, res.User.ID
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func TestHealth(t *testing.T) {
	c := &client{t: t, router: newRouter(t)}
	w, env := c.do(http.MethodGet, "/", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
}

func TestSharedFileOverHTTP(t *testing.T) {
	router := newRouter(t)
	u1, _ := register(t, router, "u1")
	u2, id2 := register(t, router, "u2")
	u3, _ := register(t, router, "u3")

	// Upload.
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	content := bytes.Repeat([]byte("a"), 2048)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w, env := u1.do(http.MethodPost, "/files", &buf, mw.FormDataContentType())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	file := decode[struct {
		ID        uint   `json:"id"`
		SizeBytes int64  `json:"size_bytes"`
		MediaType string `json:"media_type"`
	}](t, env)
	assert.EqualValues(t, 2048, file.SizeBytes)
	assert.Contains(t, file.MediaType, "text/plain")

	// Conversation and file message.
	w, env = u1.json(http.MethodPost, "/conversations", gin.H{"user_id": id2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	conv := decode[struct {
		ID uint `json:"id"`
	}](t, env)

	msgPath := fmt.Sprintf("/conversations/%d/messages", conv.ID)
	w, _ = u1.json(http.MethodPost, msgPath, gin.H{"content": "x", "kind": "file"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = u1.json(http.MethodPost, msgPath, gin.H{"content": "hi", "kind": "file", "file_id": file.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Downloads.
	dl := fmt.Sprintf("/files/%d/download", file.ID)
	w, _ = u2.do(http.MethodGet, dl, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, content, w.Body.Bytes())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "notes.txt")

	w, env = u3.do(http.MethodGet, dl, nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "ERR_ACCESS_DENIED", env.Code)

	w, env = u3.do(http.MethodGet, "/files/9999", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ERR_FILE_NOT_FOUND", env.Code)

	// History is private to the two parties.
	w, env = u2.do(http.MethodGet, msgPath+"?limit=10", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]json.RawMessage](t, env), 1)

	w, _ = u3.do(http.MethodGet, msgPath, nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = u2.do(http.MethodGet, msgPath+"?limit=abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = u2.do(http.MethodGet, msgPath+"?limit=101", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ERR_VALIDATION", env.Code)

	w, env = u2.do(http.MethodGet, msgPath+"?limit=0", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestConversationErrorsOverHTTP(t *testing.T) {
	router := newRouter(t)
	u1, id1 := register(t, router, "u1")

	w, env := u1.json(http.MethodPost, "/conversations", gin.H{"user_id": id1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ERR_SELF_CONVERSATION", env.Code)

	w, env = u1.json(http.MethodPost, "/conversations", gin.H{"user_id": 9999})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ERR_UNKNOWN_USER", env.Code)

	w, env = u1.json(http.MethodGet, "/conversations", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestAuthFlowOverHTTP(t *testing.T) {
	router := newRouter(t)
	u1, _ := register(t, router, "u1")
	register(t, router, "u2")

	anon := &client{t: t, router: router}
	w, env := anon.json(http.MethodPost, "/register", gin.H{"email": "u1@example.com", "username": "zzz", "password": "password123"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ERR_EMAIL_TAKEN", env.Code)

	w, env = anon.json(http.MethodPost, "/login", gin.H{"email": "u1@example.com", "password": "nope12345"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "ERR_INVALID_CREDENTIALS", env.Code)

	w, _ = anon.do(http.MethodGet, "/profile", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = u1.do(http.MethodGet, "/users?search=U2", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	users := decode[[]struct {
		Username string `json:"username"`
	}](t, env)
	require.Len(t, users, 1)
	assert.Equal(t, "u2", users[0].Username)

	w, env = u1.do(http.MethodGet, "/users", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]json.RawMessage](t, env), 1)

	w, _ = u1.do(http.MethodGet, "/profile", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = u1.do(http.MethodPost, "/logout", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = u1.do(http.MethodGet, "/profile", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "ERR_UNAUTHORIZED", env.Code)
}
