package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vedran77/tasty/internal/repository/memory"
	"github.com/vedran77/tasty/internal/service"
	transporthttp "github.com/vedran77/tasty/internal/transport/http"
	"github.com/vedran77/tasty/internal/transport/http/handlers"
)

const testJWTSecret = "test-secret"

type testServer struct {
	router   http.Handler
	userRepo *memory.UserRepo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	userRepo := memory.NewUserRepo()
	recipeRepo := memory.NewRecipeRepo(userRepo)
	tokenRepo := memory.NewTokenRepo()

	authService := service.NewAuthService(userRepo, tokenRepo, testJWTSecret, 15*time.Minute, time.Hour, "email")
	userService := service.NewUserService(userRepo)
	recipeService := service.NewRecipeService(recipeRepo, userRepo, nil)

	router := transporthttp.NewRouter(
		handlers.NewAuthHandler(authService),
		handlers.NewUserHandler(userService),
		handlers.NewRecipeHandler(recipeService),
		nil,
		testJWTSecret,
	)

	return &testServer{router: router, userRepo: userRepo}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp := httptest.NewRecorder()
	ts.router.ServeHTTP(resp, req)
	return resp
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	return out
}

// register creates a user and returns the response body.
func (ts *testServer) register(t *testing.T, username, email, password string) map[string]any {
	t.Helper()
	resp := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username": username,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, resp.Code, "register failed: %s", resp.Body.String())
	return decodeBody(t, resp)
}

// login returns (access, refresh).
func (ts *testServer) login(t *testing.T, identifier, password string) (string, string) {
	t.Helper()
	resp := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"identifier": identifier,
		"password":   password,
	})
	require.Equal(t, http.StatusOK, resp.Code, "login failed: %s", resp.Body.String())

	body := decodeBody(t, resp)
	tokens, ok := body["tokens"].(map[string]any)
	require.True(t, ok, "missing tokens in %v", body)

	access, _ := tokens["access"].(string)
	refresh, _ := tokens["refresh"].(string)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	return access, refresh
}

// signup registers and logs in, returning the access token.
func (ts *testServer) signup(t *testing.T, username, email, password string) string {
	t.Helper()
	ts.register(t, username, email, password)
	access, _ := ts.login(t, email, password)
	return access
}

func errorCode(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	body := decodeBody(t, resp)
	errObj, ok := body["error"].(map[string]any)
	require.True(t, ok, "missing error in %v", body)
	code, _ := errObj["code"].(string)
	return code
}
