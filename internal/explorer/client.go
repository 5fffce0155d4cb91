// ABOUTME: HTTP client for the saved-articles API (collection, auth and profile endpoints)
// ABOUTME: Authenticates with the "token" cookie; a 404 on delete counts as success

package explorer

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"golang.org/x/net/publicsuffix"

	"github.com/harper/newsdesk/internal/config"
	"github.com/harper/newsdesk/internal/fetch"
	"github.com/harper/newsdesk/internal/models"
	"github.com/harper/newsdesk/internal/remote"
)

// Error prefixes reported in remote errors.
const (
	OpDeleteArticle = "Error deleting article"
	OpGetArticles   = "Error getting saved articles"
	OpGetProfile    = "Error getting user's profile"
	OpSaveArticle   = "Error saving article"
	OpSignIn        = "Error during login"
	OpSignUp        = "Error during sign up"
)

// TokenCookie is the name of the session cookie issued on sign-in.
const TokenCookie = "token"

// Profile is the signed-in user's profile.
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Client talks to the saved-articles API.
type Client struct {
	base *url.URL
	http *http.Client
	jar  http.CookieJar
}

// New creates a client for baseURL. A non-empty token is installed as the session cookie.
func New(baseURL, token string) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid explorer URL: %w", err)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	c := &Client{
		base: base,
		http: fetch.NewHTTPClient(config.DefaultHTTPTimeout, jar),
		jar:  jar,
	}
	if token != "" {
		c.SetToken(token)
	}
	return c, nil
}

// SetToken installs token as the session cookie. An empty token removes it.
func (c *Client) SetToken(token string) {
	cookie := &http.Cookie{Name: TokenCookie, Value: token, Path: "/"}
	if token == "" {
		cookie.MaxAge = -1
	}
	c.jar.SetCookies(c.base, []*http.Cookie{cookie})
}

// Token returns the current session cookie value, if any.
func (c *Client) Token() string {
	for _, cookie := range c.jar.Cookies(c.base) {
		if cookie.Name == TokenCookie {
			return cookie.Value
		}
	}
	return ""
}

func (c *Client) endpoint(path string) string {
	return c.base.ResolveReference(&url.URL{Path: path}).String()
}

// FetchSaved loads the user's saved articles.
func (c *Client) FetchSaved(ctx context.Context) ([]models.SavedItem, error) {
	resp, err := fetch.Do(ctx, c.http, fetch.Request{
		URL: c.endpoint("articles"),
		Op:  OpGetArticles,
	})
	if err != nil {
		return nil, err
	}

	var payload struct {
		Data []models.SavedItem `json:"data"`
	}
	if err := fetch.DecodeJSON(OpGetArticles, resp, &payload); err != nil {
		return nil, err
	}
	return payload.Data, nil
}

// CreateSaved stores a in the user's collection and returns the server id.
func (c *Client) CreateSaved(ctx context.Context, a *models.Article) (string, error) {
	resp, err := fetch.Do(ctx, c.http, fetch.Request{
		Method: http.MethodPost,
		URL:    c.endpoint("articles"),
		Body:   models.ToSavedItem(a),
		Op:     OpSaveArticle,
	})
	if err != nil {
		return "", err
	}

	// The server answers either {"_id": ...} or {"data": {"_id": ...}}
	var payload struct {
		ID   string `json:"_id"`
		Data struct {
			ID string `json:"_id"`
		} `json:"data"`
	}
	if err := fetch.DecodeJSON(OpSaveArticle, resp, &payload); err != nil {
		return "", err
	}

	id := payload.ID
	if id == "" {
		id = payload.Data.ID
	}
	if id == "" {
		return "", remote.Parse(OpSaveArticle, resp.StatusCode, fmt.Errorf("response has no article id"))
	}
	return id, nil
}

// DeleteSaved removes remoteID from the user's collection.
// An already-deleted article (404) is not an error.
func (c *Client) DeleteSaved(ctx context.Context, remoteID string) error {
	_, err := fetch.Do(ctx, c.http, fetch.Request{
		Method: http.MethodDelete,
		URL:    c.endpoint("articles/" + remoteID),
		Op:     OpDeleteArticle,
	})
	if err != nil && !remote.IsNotFound(err) {
		return err
	}
	return nil
}

// SignIn authenticates and returns the session token set by the server.
func (c *Client) SignIn(ctx context.Context, email, password string) (string, error) {
	resp, err := fetch.Do(ctx, c.http, fetch.Request{
		Method: http.MethodPost,
		URL:    c.endpoint("signin"),
		Body:   map[string]string{"email": email, "password": password},
		Op:     OpSignIn,
	})
	if err != nil {
		return "", err
	}

	if token := c.Token(); token != "" {
		return token, nil
	}

	// Some deployments return the token in the body instead of a cookie
	var payload struct {
		Token string `json:"token"`
	}
	if err := fetch.DecodeJSON(OpSignIn, resp, &payload); err == nil && payload.Token != "" {
		c.SetToken(payload.Token)
		return payload.Token, nil
	}
	return "", remote.Parse(OpSignIn, resp.StatusCode, fmt.Errorf("no session token in response"))
}

// SignUp registers a new user.
func (c *Client) SignUp(ctx context.Context, name, email, password string) error {
	_, err := fetch.Do(ctx, c.http, fetch.Request{
		Method: http.MethodPost,
		URL:    c.endpoint("signup"),
		Body:   map[string]string{"name": name, "email": email, "password": password},
		Op:     OpSignUp,
	})
	return err
}

// Profile loads the signed-in user's profile.
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	resp, err := fetch.Do(ctx, c.http, fetch.Request{
		URL: c.endpoint("users/me"),
		Op:  OpGetProfile,
	})
	if err != nil {
		return nil, err
	}

	var payload struct {
		Data Profile `json:"data"`
	}
	if err := fetch.DecodeJSON(OpGetProfile, resp, &payload); err != nil {
		return nil, err
	}
	return &payload.Data, nil
}
