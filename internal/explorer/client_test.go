// ABOUTME: Tests for the saved-articles API client
// ABOUTME: Uses an httptest server emulating the collection, auth and profile endpoints

package explorer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/newsdesk/internal/models"
	"github.com/harper/newsdesk/internal/remote"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	authed := func(r *http.Request) bool {
		c, err := r.Cookie(TokenCookie)
		return err == nil && c.Value == "secret"
	}

	mux.HandleFunc("GET /articles", func(w http.ResponseWriter, r *http.Request) {
		if !authed(r) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"authorization required"}`))
			return
		}
		w.Write([]byte(`{"data":[{"_id":"a1","keyword":"rust","title":"T","text":"S","date":"2024-01-02T00:00:00Z","source":"Src","link":"https://x/1","image":"https://x/1.png"}]}`))
	})
	mux.HandleFunc("POST /articles", func(w http.ResponseWriter, r *http.Request) {
		var item models.SavedItem
		if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
			t.Errorf("decode create body: %v", err)
		}
		if item.Title == "nested" {
			w.Write([]byte(`{"data":{"_id":"n1"}}`))
			return
		}
		if item.Title == "empty" {
			w.Write([]byte(`{}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"_id":"42"}`))
	})
	mux.HandleFunc("DELETE /articles/{id}", func(w http.ResponseWriter, r *http.Request) {
		switch r.PathValue("id") {
		case "gone":
			w.WriteHeader(http.StatusNotFound)
		case "locked":
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"message":"not your article"}`))
		default:
			w.Write([]byte(`{}`))
		}
	})
	mux.HandleFunc("POST /signin", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Errorf("decode signin body: %v", err)
		}
		if creds["password"] != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: TokenCookie, Value: "secret", Path: "/", HttpOnly: true})
		w.Write([]byte(`{}`))
	})
	mux.HandleFunc("POST /signup", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"user exists"}`))
	})
	mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, r *http.Request) {
		if !authed(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"data":{"name":"Ada","email":"ada@example.com"}}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestFetchSaved(t *testing.T) {
	server := newTestServer(t)
	c, err := New(server.URL, "secret")
	require.NoError(t, err)

	items, err := c.FetchSaved(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "a1", items[0].ID)
	assert.Equal(t, "S", items[0].Fields().Summary)
}

func TestFetchSaved_Unauthorized(t *testing.T) {
	server := newTestServer(t)
	c, err := New(server.URL, "")
	require.NoError(t, err)

	_, err = c.FetchSaved(context.Background())
	require.Error(t, err)
	assert.True(t, remote.IsUnauthorized(err))
	rerr, _ := remote.As(err)
	assert.Equal(t, "authorization required", rerr.Message)
	assert.Equal(t, OpGetArticles, rerr.Op)
}

func TestCreateSaved(t *testing.T) {
	server := newTestServer(t)
	c, err := New(server.URL, "secret")
	require.NoError(t, err)

	id, err := c.CreateSaved(context.Background(), models.NewArticle(models.Fields{Title: "flat"}))
	require.NoError(t, err)
	assert.Equal(t, "42", id)

	id, err = c.CreateSaved(context.Background(), models.NewArticle(models.Fields{Title: "nested"}))
	require.NoError(t, err)
	assert.Equal(t, "n1", id)

	_, err = c.CreateSaved(context.Background(), models.NewArticle(models.Fields{Title: "empty"}))
	rerr, ok := remote.As(err)
	require.True(t, ok)
	assert.Equal(t, remote.KindParse, rerr.Kind)
}

func TestDeleteSaved(t *testing.T) {
	server := newTestServer(t)
	c, err := New(server.URL, "secret")
	require.NoError(t, err)

	assert.NoError(t, c.DeleteSaved(context.Background(), "a1"))
	assert.NoError(t, c.DeleteSaved(context.Background(), "gone"), "404 is treated as success")

	err = c.DeleteSaved(context.Background(), "locked")
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, remote.StatusCode(err))
}

func TestSignInAndProfile(t *testing.T) {
	server := newTestServer(t)
	c, err := New(server.URL, "")
	require.NoError(t, err)

	_, err = c.SignIn(context.Background(), "ada@example.com", "wrong")
	assert.True(t, remote.IsUnauthorized(err))

	token, err := c.SignIn(context.Background(), "ada@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "secret", token)
	assert.Equal(t, "secret", c.Token())

	profile, err := c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.Name)
}

func TestSignUp_Conflict(t *testing.T) {
	server := newTestServer(t)
	c, err := New(server.URL, "")
	require.NoError(t, err)

	err = c.SignUp(context.Background(), "Ada", "ada@example.com", "pw")
	rerr, ok := remote.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, rerr.StatusCode)
	assert.Equal(t, "user exists", rerr.Message)
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := New("://bad", "")
	assert.Error(t, err)
}
