package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"devsocial/internal/errs"
	"devsocial/internal/models"

	"github.com/stretchr/testify/require"
)

func newAuthedClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	sess := NewSession(NewFileStorageAt(t.TempDir()))
	sess.SignIn("test-token", nil)
	return New(baseURL, sess)
}

// toggleServer mimics the toggle endpoint over in-memory relation sets
type toggleServer struct {
	mu      sync.Mutex
	rows    map[string]map[string]bool // kind -> postID -> active
	posts   map[string]bool
	gate    chan struct{} // when non-nil, handlers wait on it
	started chan struct{} // when non-nil, receives once per request
}

func newToggleServer(postIDs ...string) *toggleServer {
	s := &toggleServer{
		rows:  map[string]map[string]bool{"like": {}, "favorite": {}},
		posts: map[string]bool{},
	}
	for _, id := range postIDs {
		s.posts[id] = true
	}
	return s
}

func (s *toggleServer) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.started != nil {
			s.started <- struct{}{}
		}
		if s.gate != nil {
			<-s.gate
		}
		// /api/v1/posts/{post_id}/{kind}
		parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/v1/posts/"), "/")
		if len(parts) != 2 {
			http.NotFound(w, r)
			return
		}
		postID, kind := parts[0], parts[1]

		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.posts[postID] {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "not found"})
			return
		}
		active := !s.rows[kind][postID]
		s.rows[kind][postID] = active
		var count int64
		if active {
			count = 1
		}
		json.NewEncoder(w).Encode(models.ToggleResult{Active: active, Count: count})
	})
}

func TestCache_Seed(t *testing.T) {
	cache := NewCache()
	posts := []*models.Post{
		{ID: "p1", LikesCount: 3, FavoritesCount: 1},
		{ID: "p2", LikesCount: 0, FavoritesCount: 0},
	}
	cache.Seed(posts,
		[]models.PostRef{{PostID: "p1"}, {PostID: "p9"}},
		[]models.PostRef{{PostID: "p2"}},
	)

	require.True(t, cache.Liked("p1"))
	require.False(t, cache.Liked("p2"))
	require.False(t, cache.Favorited("p1"))
	require.True(t, cache.Favorited("p2"))
	require.Equal(t, int64(3), cache.Count(KindLike, "p1"))
	require.Equal(t, int64(1), cache.Count(KindFavorite, "p1"))
}

func TestCache_ToggleAppliesConfirmedState(t *testing.T) {
	srv := httptest.NewServer(newToggleServer("p1").handler())
	defer srv.Close()

	api := newAuthedClient(t, srv.URL)
	cache := NewCache()

	res, err := cache.Toggle(context.Background(), api, KindLike, "p1")
	require.NoError(t, err)
	require.True(t, res.Active)
	require.True(t, cache.Liked("p1"))
	require.Equal(t, int64(1), cache.Count(KindLike, "p1"))

	res, err = cache.Toggle(context.Background(), api, KindLike, "p1")
	require.NoError(t, err)
	require.False(t, res.Active)
	require.False(t, cache.Liked("p1"))
	require.Equal(t, int64(0), cache.Count(KindLike, "p1"))
}

func TestCache_LikeAndFavoriteAreIndependent(t *testing.T) {
	srv := httptest.NewServer(newToggleServer("p1").handler())
	defer srv.Close()

	api := newAuthedClient(t, srv.URL)
	cache := NewCache()

	_, err := cache.Toggle(context.Background(), api, KindLike, "p1")
	require.NoError(t, err)
	_, err = cache.Toggle(context.Background(), api, KindFavorite, "p1")
	require.NoError(t, err)

	require.True(t, cache.Liked("p1"))
	require.True(t, cache.Favorited("p1"))
}

func TestCache_FailedToggleLeavesStateUnchanged(t *testing.T) {
	srv := httptest.NewServer(newToggleServer("p1").handler())
	defer srv.Close()

	api := newAuthedClient(t, srv.URL)
	cache := NewCache()
	cache.Seed([]*models.Post{{ID: "p999", LikesCount: 5}}, nil, nil)

	_, err := cache.Toggle(context.Background(), api, KindLike, "p999")
	require.ErrorIs(t, err, errs.ErrNotFound)

	require.False(t, cache.Liked("p999"))
	require.Equal(t, int64(5), cache.Count(KindLike, "p999"))
}

func TestCache_InFlightGuard(t *testing.T) {
	ts := newToggleServer("p1")
	ts.gate = make(chan struct{})
	ts.started = make(chan struct{}, 1)
	srv := httptest.NewServer(ts.handler())
	defer srv.Close()

	api := newAuthedClient(t, srv.URL)
	cache := NewCache()

	errCh := make(chan error, 1)
	go func() {
		_, err := cache.Toggle(context.Background(), api, KindLike, "p1")
		errCh <- err
	}()

	// wait until the first toggle's request is on the wire
	select {
	case <-ts.started:
	case <-time.After(2 * time.Second):
		t.Fatal("first toggle never reached the server")
	}

	// re-triggering the same toggle while the first awaits its response
	// is rejected before touching the network
	_, err := cache.Toggle(context.Background(), api, KindLike, "p1")
	require.ErrorIs(t, err, ErrToggleInFlight)

	close(ts.gate)
	require.NoError(t, <-errCh)
	require.True(t, cache.Liked("p1"))
}
