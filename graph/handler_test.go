package graph_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/blogql-go/auth"
	"github.com/user/blogql-go/graph"
)

func newServer(t *testing.T, fx *fixture) http.Handler {
	t.Helper()
	schema, err := graph.NewSchema(fx.resolvers)
	require.NoError(t, err)
	// The full gateway chain: verdict middleware in front of the handler.
	return auth.Middleware(fx.credentials)(graph.NewHandler(schema))
}

type gqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

func post(t *testing.T, handler http.Handler, req gqlRequest, token string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)

	httpReq := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httpReq)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

const createUserMutation = `
mutation($input: UserInputData!) {
  createUser(userInput: $input) { id email name }
}`

func TestHandler_CreateUser(t *testing.T) {
	fx := newFixture()
	server := newServer(t, fx)

	rec := post(t, server, gqlRequest{
		Query: createUserMutation,
		Variables: map[string]interface{}{
			"input": map[string]interface{}{
				"email":    "user@example.com",
				"name":     "Ada",
				"password": "secret123",
			},
		},
	}, "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := decode(t, rec)["data"].(map[string]interface{})
	created := data["createUser"].(map[string]interface{})
	assert.Equal(t, "user@example.com", created["email"])
	assert.Equal(t, "Ada", created["name"])
	assert.NotEmpty(t, created["id"])
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestHandler_ValidationErrorEnvelope(t *testing.T) {
	fx := newFixture()
	server := newServer(t, fx)

	rec := post(t, server, gqlRequest{
		Query: createUserMutation,
		Variables: map[string]interface{}{
			"input": map[string]interface{}{
				"email":    "nope",
				"name":     "Ada",
				"password": "x",
			},
		},
	}, "")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "invalid input", body["message"])
	data := body["data"].([]interface{})
	require.Len(t, data, 2)
	assert.Equal(t, "email is invalid", data[0].(map[string]interface{})["message"])
}

func TestHandler_CreatePostUnauthenticated(t *testing.T) {
	fx := newFixture()
	server := newServer(t, fx)

	rec := post(t, server, gqlRequest{
		Query: `mutation {
			createPost(postInput: {title: "A fine title", content: "Plenty of content"}) { id }
		}`,
	}, "")

	require.Equal(t, http.StatusUnauthorized, rec.Code, rec.Body.String())
	assert.Equal(t, "not authenticated", decode(t, rec)["message"])
}

func TestHandler_LoginThenCreatePost(t *testing.T) {
	fx := newFixture()
	server := newServer(t, fx)

	rec := post(t, server, gqlRequest{
		Query: createUserMutation,
		Variables: map[string]interface{}{
			"input": map[string]interface{}{
				"email":    "user@example.com",
				"name":     "Ada",
				"password": "secret123",
			},
		},
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = post(t, server, gqlRequest{
		Query: `mutation {
			login(email: "user@example.com", password: "secret123") { token userId }
		}`,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	payload := decode(t, rec)["data"].(map[string]interface{})["login"].(map[string]interface{})
	token := payload["token"].(string)
	require.NotEmpty(t, token)

	rec = post(t, server, gqlRequest{
		Query: `mutation {
			createPost(postInput: {title: "A fine title", content: "Plenty of content"}) {
				id title createdAt creator { id email }
			}
		}`,
	}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decode(t, rec)["data"].(map[string]interface{})["createPost"].(map[string]interface{})
	assert.Equal(t, "A fine title", created["title"])
	creator := created["creator"].(map[string]interface{})
	assert.Equal(t, payload["userId"], creator["id"])
	assert.Equal(t, "user@example.com", creator["email"])
}

func TestHandler_WrongLogin(t *testing.T) {
	fx := newFixture()
	server := newServer(t, fx)

	_, err := fx.resolvers.CreateUser(context.Background(), graph.UserInput{
		Email: "user@example.com", Name: "Ada", Password: "secret123",
	})
	require.NoError(t, err)

	rec := post(t, server, gqlRequest{
		Query: `mutation { login(email: "user@example.com", password: "bad") { token userId } }`,
	}, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "wrong password", decode(t, rec)["message"])
}

func TestHandler_MalformedQuery(t *testing.T) {
	fx := newFixture()
	server := newServer(t, fx)

	rec := post(t, server, gqlRequest{Query: "mutation { nope("}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_InvalidBody(t *testing.T) {
	fx := newFixture()
	server := newServer(t, fx)

	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	fx := newFixture()
	server := newServer(t, fx)

	req := httptest.NewRequest(http.MethodGet, "/graphql", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
