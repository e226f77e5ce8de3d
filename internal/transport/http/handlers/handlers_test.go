package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterNormalizesEmailDomain(t *testing.T) {
	ts := newTestServer(t)

	body := ts.register(t, "alice", "A@Example.COM", "password123")
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)

	assert.Equal(t, "A@example.com", user["email"])
	assert.Equal(t, "alice", user["username"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "password_hash")
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username": "alice",
		"email":    "not-an-email",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, resp))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice", "A@Example.COM", "password123")

	resp := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username": "bob",
		"email":    "A@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, "EMAIL_TAKEN", errorCode(t, resp))
}

func TestLoginReturnsBothTokens(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice", "alice@example.com", "password123")

	access, refresh := ts.login(t, "alice@example.com", "password123")
	assert.NotEqual(t, access, refresh)
}

func TestLoginBadCredentials(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice", "alice@example.com", "password123")

	resp := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"identifier": "alice@example.com",
		"password":   "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLogoutThenRefreshFails(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice", "alice@example.com", "password123")
	_, refresh := ts.login(t, "alice@example.com", "password123")

	resp := ts.do(t, http.MethodPost, "/api/v1/auth/logout", "", map[string]any{"refresh": refresh})
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]any{"refresh": refresh})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "INVALID_TOKEN", errorCode(t, resp))
}

func TestRefreshIssuesAccessToken(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice", "alice@example.com", "password123")
	_, refresh := ts.login(t, "alice@example.com", "password123")

	resp := ts.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]any{"refresh": refresh})
	require.Equal(t, http.StatusOK, resp.Code)

	body := decodeBody(t, resp)
	access, _ := body["access"].(string)
	assert.NotEmpty(t, access)

	// The fresh access token authenticates requests.
	resp = ts.do(t, http.MethodGet, "/api/v1/user", access, nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestProfilePatch(t *testing.T) {
	ts := newTestServer(t)
	access := ts.signup(t, "alice", "alice@example.com", "password123")

	resp := ts.do(t, http.MethodPatch, "/api/v1/user", access, map[string]any{
		"bio":       "I cook",
		"full_name": "Alice Cooker",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	body := decodeBody(t, resp)
	user := body["user"].(map[string]any)
	assert.Equal(t, "I cook", user["bio"])
	assert.Equal(t, "Alice Cooker", user["full_name"])
	assert.Equal(t, false, user["is_staff"])
}

func TestProfilePatchCannotGrantStaff(t *testing.T) {
	ts := newTestServer(t)
	access := ts.signup(t, "alice", "alice@example.com", "password123")

	resp := ts.do(t, http.MethodPatch, "/api/v1/user", access, map[string]any{
		"is_staff": true,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	body := decodeBody(t, resp)
	user := body["user"].(map[string]any)
	assert.Equal(t, false, user["is_staff"])
}

func TestProfileRequiresAuth(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodGet, "/api/v1/user", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestCreateRecipeNegativePreparationTime(t *testing.T) {
	ts := newTestServer(t)
	access := ts.signup(t, "alice", "alice@example.com", "password123")

	resp := ts.do(t, http.MethodPost, "/api/v1/recipes", access, map[string]any{
		"title":            "Broken Bread",
		"preparation_time": -1,
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, resp))
}

func TestRecipeCRUDRoundTrip(t *testing.T) {
	ts := newTestServer(t)
	access := ts.signup(t, "alice", "alice@example.com", "password123")

	resp := ts.do(t, http.MethodPost, "/api/v1/recipes", access, map[string]any{
		"title":            "Sunday Roast",
		"preparation_time": 30,
		"cooking_time":     90,
		"servings":         4,
		"ingredients":      "one chicken",
		"instructions":     "roast it",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	body := decodeBody(t, resp)
	recipe := body["recipe"].(map[string]any)
	id := recipe["id"].(string)
	assert.Equal(t, "alice", recipe["author"])
	assert.Equal(t, true, recipe["is_active"])

	// Owner reads it back.
	resp = ts.do(t, http.MethodGet, "/api/v1/recipes/"+id, access, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	// Patch it.
	resp = ts.do(t, http.MethodPatch, "/api/v1/recipes/"+id, access, map[string]any{
		"title": "Monday Roast",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	body = decodeBody(t, resp)
	assert.Equal(t, "Monday Roast", body["recipe"].(map[string]any)["title"])

	// Soft delete.
	resp = ts.do(t, http.MethodDelete, "/api/v1/recipes/"+id, access, nil)
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.do(t, http.MethodGet, "/api/v1/recipes/"+id, access, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestNonOwnerCannotMutate(t *testing.T) {
	ts := newTestServer(t)
	aliceToken := ts.signup(t, "alice", "alice@example.com", "password123")
	bobToken := ts.signup(t, "bob", "bob@example.com", "password123")

	resp := ts.do(t, http.MethodPost, "/api/v1/recipes", aliceToken, map[string]any{
		"title": "Alice Only",
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	id := decodeBody(t, resp)["recipe"].(map[string]any)["id"].(string)

	resp = ts.do(t, http.MethodPatch, "/api/v1/recipes/"+id, bobToken, map[string]any{
		"title": "Bob Was Here",
	})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.do(t, http.MethodDelete, "/api/v1/recipes/"+id, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestAnonymousCannotMutate(t *testing.T) {
	ts := newTestServer(t)
	access := ts.signup(t, "alice", "alice@example.com", "password123")

	resp := ts.do(t, http.MethodPost, "/api/v1/recipes", access, map[string]any{"title": "Guarded"})
	require.Equal(t, http.StatusCreated, resp.Code)
	id := decodeBody(t, resp)["recipe"].(map[string]any)["id"].(string)

	resp = ts.do(t, http.MethodPatch, "/api/v1/recipes/"+id, "", map[string]any{"title": "Anon"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.do(t, http.MethodDelete, "/api/v1/recipes/"+id, "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestAnonymousListingHidesPrivate(t *testing.T) {
	ts := newTestServer(t)
	access := ts.signup(t, "alice", "alice@example.com", "password123")

	resp := ts.do(t, http.MethodPost, "/api/v1/recipes", access, map[string]any{"title": "Public Dish"})
	require.Equal(t, http.StatusCreated, resp.Code)
	resp = ts.do(t, http.MethodPost, "/api/v1/recipes", access, map[string]any{"title": "Private Dish", "is_private": true})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = ts.do(t, http.MethodGet, "/api/v1/recipes", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	recipes := decodeBody(t, resp)["recipes"].([]any)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Public Dish", recipes[0].(map[string]any)["title"])
}

func TestPublishedFeedLimitAndOrder(t *testing.T) {
	ts := newTestServer(t)
	access := ts.signup(t, "alice", "alice@example.com", "password123")

	for i := 1; i <= 11; i++ {
		resp := ts.do(t, http.MethodPost, "/api/v1/recipes", access, map[string]any{
			"title":        fmt.Sprintf("Feed Recipe %02d", i),
			"is_published": true,
		})
		require.Equal(t, http.StatusCreated, resp.Code)
	}

	resp := ts.do(t, http.MethodGet, "/api/v1/published-recipes?limit=10", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	recipes := decodeBody(t, resp)["recipes"].([]any)
	require.Len(t, recipes, 10)
	assert.Equal(t, "Feed Recipe 11", recipes[0].(map[string]any)["title"])
	assert.Equal(t, "Feed Recipe 02", recipes[9].(map[string]any)["title"])
}

func TestPublishedFeedExcludesDeleted(t *testing.T) {
	ts := newTestServer(t)
	access := ts.signup(t, "alice", "alice@example.com", "password123")

	resp := ts.do(t, http.MethodPost, "/api/v1/recipes", access, map[string]any{
		"title":        "Doomed Dish",
		"is_published": true,
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	id := decodeBody(t, resp)["recipe"].(map[string]any)["id"].(string)

	resp = ts.do(t, http.MethodDelete, "/api/v1/recipes/"+id, access, nil)
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.do(t, http.MethodGet, "/api/v1/published-recipes", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, decodeBody(t, resp)["recipes"])
}

func TestLikeAndAverageRating(t *testing.T) {
	ts := newTestServer(t)
	aliceToken := ts.signup(t, "alice", "alice@example.com", "password123")

	resp := ts.do(t, http.MethodPost, "/api/v1/recipes", aliceToken, map[string]any{
		"title":        "Crowd Pleaser",
		"is_published": true,
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	id := decodeBody(t, resp)["recipe"].(map[string]any)["id"].(string)

	// Accumulate a rating of 10: two contributions of 5.
	resp = ts.do(t, http.MethodPost, "/api/v1/recipes/"+id+"/rate", aliceToken, map[string]any{"score": 5})
	require.Equal(t, http.StatusOK, resp.Code)
	resp = ts.do(t, http.MethodPost, "/api/v1/recipes/"+id+"/rate", aliceToken, map[string]any{"score": 5})
	require.Equal(t, http.StatusOK, resp.Code)

	// Four likers.
	for i := 0; i < 4; i++ {
		token := ts.signup(t, fmt.Sprintf("liker%d", i), fmt.Sprintf("liker%d@example.com", i), "password123")
		resp = ts.do(t, http.MethodPost, "/api/v1/recipes/"+id+"/like", token, nil)
		require.Equal(t, http.StatusOK, resp.Code)
	}

	resp = ts.do(t, http.MethodGet, "/api/v1/recipes/"+id, aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	recipe := decodeBody(t, resp)["recipe"].(map[string]any)
	assert.Equal(t, 4.0, recipe["total_likes"])
	assert.Equal(t, 2.5, recipe["average_rating"])
}

func TestRateOutOfRange(t *testing.T) {
	ts := newTestServer(t)
	access := ts.signup(t, "alice", "alice@example.com", "password123")

	resp := ts.do(t, http.MethodPost, "/api/v1/recipes", access, map[string]any{"title": "Bounded"})
	require.Equal(t, http.StatusCreated, resp.Code)
	id := decodeBody(t, resp)["recipe"].(map[string]any)["id"].(string)

	resp = ts.do(t, http.MethodPost, "/api/v1/recipes/"+id+"/rate", access, map[string]any{"score": 6})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, resp))
}

func TestSearchAndOrdering(t *testing.T) {
	ts := newTestServer(t)
	access := ts.signup(t, "alice", "alice@example.com", "password123")

	for _, title := range []string{"Garlic Bread", "Tomato Soup", "Garlic Chicken"} {
		resp := ts.do(t, http.MethodPost, "/api/v1/recipes", access, map[string]any{"title": title})
		require.Equal(t, http.StatusCreated, resp.Code)
	}

	resp := ts.do(t, http.MethodGet, "/api/v1/recipes?search=garlic&ordering=created_at", access, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	recipes := decodeBody(t, resp)["recipes"].([]any)
	require.Len(t, recipes, 2)
	assert.Equal(t, "Garlic Bread", recipes[0].(map[string]any)["title"])
	assert.Equal(t, "Garlic Chicken", recipes[1].(map[string]any)["title"])
}

func TestGarbageTokenRejected(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodGet, "/api/v1/recipes", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
