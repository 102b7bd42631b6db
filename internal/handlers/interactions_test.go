package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"devsocial/internal/errs"
	"devsocial/internal/middleware"
	"devsocial/internal/models"
	"devsocial/internal/repository"
	"devsocial/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

// memInteractions keeps relation rows in memory with the same semantics as
// the SQL engine: unique (user, post) rows, count equals cardinality.
type memInteractions struct {
	rows  map[repository.Kind]map[[2]string]bool
	posts map[string]bool
}

var _ services.InteractionStore = (*memInteractions)(nil)

func newMemInteractions(postIDs ...string) *memInteractions {
	m := &memInteractions{
		rows: map[repository.Kind]map[[2]string]bool{
			repository.KindLike:     {},
			repository.KindFavorite: {},
		},
		posts: map[string]bool{},
	}
	for _, id := range postIDs {
		m.posts[id] = true
	}
	return m
}

func (m *memInteractions) Toggle(_ context.Context, kind repository.Kind, userID, postID string) (*models.ToggleResult, error) {
	if !m.posts[postID] {
		return nil, errs.ErrNotFound
	}
	key := [2]string{userID, postID}
	set := m.rows[kind]
	active := !set[key]
	if active {
		set[key] = true
	} else {
		delete(set, key)
	}
	var count int64
	for k := range set {
		if k[1] == postID {
			count++
		}
	}
	return &models.ToggleResult{Active: active, Count: count}, nil
}

func (m *memInteractions) ListPostIDs(_ context.Context, kind repository.Kind, userID string) ([]models.PostRef, error) {
	refs := make([]models.PostRef, 0)
	for k := range m.rows[kind] {
		if k[0] == userID {
			refs = append(refs, models.PostRef{PostID: k[1]})
		}
	}
	return refs, nil
}

func newToggleRouter(store services.InteractionStore) chi.Router {
	h := NewInteractionHandler(services.NewInteractionService(store))
	r := chi.NewRouter()
	r.Post("/posts/{post_id}/like", h.ToggleLike)
	r.Post("/posts/{post_id}/favorite", h.ToggleFavorite)
	return r
}

func doToggle(t *testing.T, r http.Handler, path, userID string) (int, models.ToggleResult) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var result models.ToggleResult
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	}
	return rec.Code, result
}

func TestToggleLike_OnThenOff(t *testing.T) {
	r := newToggleRouter(newMemInteractions("post-7"))

	code, result := doToggle(t, r, "/posts/post-7/like", "user-1")
	require.Equal(t, http.StatusOK, code)
	require.True(t, result.Active)
	require.Equal(t, int64(1), result.Count)

	code, result = doToggle(t, r, "/posts/post-7/like", "user-1")
	require.Equal(t, http.StatusOK, code)
	require.False(t, result.Active)
	require.Equal(t, int64(0), result.Count)
}

func TestToggleLike_TwoUsers(t *testing.T) {
	r := newToggleRouter(newMemInteractions("post-7"))

	code, _ := doToggle(t, r, "/posts/post-7/like", "user-a")
	require.Equal(t, http.StatusOK, code)

	code, result := doToggle(t, r, "/posts/post-7/like", "user-b")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, int64(2), result.Count)

	code, result = doToggle(t, r, "/posts/post-7/like", "user-a")
	require.Equal(t, http.StatusOK, code)
	require.False(t, result.Active)
	require.Equal(t, int64(1), result.Count)
}

func TestToggleLike_PostNotFound(t *testing.T) {
	r := newToggleRouter(newMemInteractions("post-7"))

	code, _ := doToggle(t, r, "/posts/post-999/like", "user-1")
	require.Equal(t, http.StatusNotFound, code)
}

func TestToggleLike_NoUserInContext(t *testing.T) {
	r := newToggleRouter(newMemInteractions("post-7"))

	req := httptest.NewRequest(http.MethodPost, "/posts/post-7/like", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestToggleFavorite_IndependentOfLike(t *testing.T) {
	r := newToggleRouter(newMemInteractions("post-7"))

	code, result := doToggle(t, r, "/posts/post-7/like", "user-1")
	require.Equal(t, http.StatusOK, code)
	require.True(t, result.Active)

	code, result = doToggle(t, r, "/posts/post-7/favorite", "user-1")
	require.Equal(t, http.StatusOK, code)
	require.True(t, result.Active)
	require.Equal(t, int64(1), result.Count)
}
