package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"devsocial/internal/errs"
	"devsocial/internal/models"
)

// Client is a typed HTTP client for the devsocial API. It attaches the
// session's bearer token to guarded requests and signs the session out
// when the server reports the token expired or invalid.
type Client struct {
	baseURL string
	http    *http.Client
	session *Session
}

// New creates an API client bound to a session
func New(baseURL string, session *Session) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		session: session,
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	return c.send(ctx, method, path, body, out, true)
}

// doAnon issues a request without the bearer token. The auth endpoints
// use it: a 401 there means bad credentials, not a dead token, and must
// leave any existing session untouched.
func (c *Client) doAnon(ctx context.Context, method, path string, body, out any) error {
	return c.send(ctx, method, path, body, out, false)
}

func (c *Client) send(ctx context.Context, method, path string, body, out any, authed bool) error {
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		if tok := c.session.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var eb errorBody
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		return c.mapError(resp.StatusCode, eb.Error, authed)
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// mapError turns an HTTP failure into a layer sentinel. An expired or
// invalid token also ends the local session, mirroring a logout.
func (c *Client) mapError(status int, message string, authed bool) error {
	switch status {
	case http.StatusUnauthorized:
		if authed && c.session.Token() != "" {
			c.session.SignOut()
			return errs.ErrTokenExpired
		}
		return errs.ErrUnauthorized
	case http.StatusForbidden:
		if authed && strings.Contains(strings.ToLower(message), "token") {
			c.session.SignOut()
			return errs.ErrTokenInvalid
		}
		return errs.ErrForbidden
	case http.StatusNotFound:
		return errs.ErrNotFound
	case http.StatusConflict:
		return errs.ErrAlreadyExists
	case http.StatusBadRequest:
		if message != "" {
			return fmt.Errorf("%w: %s", errs.ErrValidation, message)
		}
		return errs.ErrValidation
	default:
		if message == "" {
			message = http.StatusText(status)
		}
		return fmt.Errorf("server error (%d): %s", status, message)
	}
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates an account and signs the session in
func (c *Client) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	var resp authResponse
	err := c.doAnon(ctx, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.session.SignIn(resp.Token, resp.User)
	return resp.User, nil
}

// Login exchanges credentials for a token and signs the session in
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	var resp authResponse
	err := c.doAnon(ctx, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.session.SignIn(resp.Token, resp.User)
	return resp.User, nil
}

// Me resolves the session token to the current profile
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/api/v1/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// MyLikes lists the ids of the posts the current user likes
func (c *Client) MyLikes(ctx context.Context) ([]models.PostRef, error) {
	var refs []models.PostRef
	if err := c.do(ctx, http.MethodGet, "/api/v1/users/me/likes", nil, &refs); err != nil {
		return nil, err
	}
	return refs, nil
}

// MyFavorites lists the ids of the posts the current user favorited
func (c *Client) MyFavorites(ctx context.Context) ([]models.PostRef, error) {
	var refs []models.PostRef
	if err := c.do(ctx, http.MethodGet, "/api/v1/users/me/favorites", nil, &refs); err != nil {
		return nil, err
	}
	return refs, nil
}

// MyPosts lists the current user's posts
func (c *Client) MyPosts(ctx context.Context) ([]*models.Post, error) {
	var posts []*models.Post
	if err := c.do(ctx, http.MethodGet, "/api/v1/users/me/posts", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Feed lists posts, optionally filtered by a text query
func (c *Client) Feed(ctx context.Context, query string, limit, offset int) ([]*models.Post, error) {
	params := url.Values{}
	if query != "" {
		params.Set("q", query)
	}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))
	path := "/api/v1/posts?" + params.Encode()
	var posts []*models.Post
	if err := c.do(ctx, http.MethodGet, path, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost retrieves a single post
func (c *Client) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, http.MethodGet, "/api/v1/posts/"+postID, nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// CreatePost publishes a new post
func (c *Client) CreatePost(ctx context.Context, title, content string, imageURL *string) (*models.Post, error) {
	var post models.Post
	err := c.do(ctx, http.MethodPost, "/api/v1/posts", map[string]any{
		"title":     title,
		"content":   content,
		"image_url": imageURL,
	}, &post)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Comments lists a post's comments
func (c *Client) Comments(ctx context.Context, postID string) ([]*models.Comment, error) {
	var comments []*models.Comment
	if err := c.do(ctx, http.MethodGet, "/api/v1/posts/"+postID+"/comments", nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment appends a comment to a post
func (c *Client) AddComment(ctx context.Context, postID, content string) (*models.Comment, error) {
	var comment models.Comment
	err := c.do(ctx, http.MethodPost, "/api/v1/posts/"+postID+"/comments", map[string]string{
		"content": content,
	}, &comment)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ToggleLike flips the current user's like on a post
func (c *Client) ToggleLike(ctx context.Context, postID string) (*models.ToggleResult, error) {
	return c.toggle(ctx, postID, "like")
}

// ToggleFavorite flips the current user's favorite on a post
func (c *Client) ToggleFavorite(ctx context.Context, postID string) (*models.ToggleResult, error) {
	return c.toggle(ctx, postID, "favorite")
}

func (c *Client) toggle(ctx context.Context, postID, kind string) (*models.ToggleResult, error) {
	var result models.ToggleResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/posts/"+postID+"/"+kind, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
