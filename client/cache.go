package client

import (
	"context"
	"errors"
	"sync"

	"devsocial/internal/models"
)

// Kind selects which relation a cache entry or toggle refers to
type Kind string

const (
	KindLike     Kind = "like"
	KindFavorite Kind = "favorite"
)

// ErrToggleInFlight is returned when a toggle for the same (post, kind)
// is already awaiting its response; the caller should ignore the action.
var ErrToggleInFlight = errors.New("toggle already in flight")

// Cache mirrors the server's view of "which posts does the current user
// like/favorite" plus the displayed counts. It is never updated
// optimistically: only a server-confirmed toggle response mutates it, so
// a failed call leaves the state exactly as it was.
type Cache struct {
	mu        sync.Mutex
	liked     map[string]bool
	favorited map[string]bool
	counts    map[Kind]map[string]int64
	inflight  map[string]bool
}

// NewCache creates an empty interaction cache
func NewCache() *Cache {
	return &Cache{
		liked:     make(map[string]bool),
		favorited: make(map[string]bool),
		counts: map[Kind]map[string]int64{
			KindLike:     {},
			KindFavorite: {},
		},
		inflight: make(map[string]bool),
	}
}

// Seed populates the cache by cross-referencing the user's like and
// favorite sets against the displayed posts: a flag is true iff the post
// id appears in the corresponding set.
func (c *Cache) Seed(posts []*models.Post, likes, favorites []models.PostRef) {
	likeSet := make(map[string]bool, len(likes))
	for _, ref := range likes {
		likeSet[ref.PostID] = true
	}
	favSet := make(map[string]bool, len(favorites))
	for _, ref := range favorites {
		favSet[ref.PostID] = true
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, post := range posts {
		c.liked[post.ID] = likeSet[post.ID]
		c.favorited[post.ID] = favSet[post.ID]
		c.counts[KindLike][post.ID] = post.LikesCount
		c.counts[KindFavorite][post.ID] = post.FavoritesCount
	}
}

// Liked reports whether the current user likes the post
func (c *Cache) Liked(postID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.liked[postID]
}

// Favorited reports whether the current user favorited the post
func (c *Cache) Favorited(postID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.favorited[postID]
}

// Count returns the displayed count for the post and kind
func (c *Cache) Count(kind Kind, postID string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[kind][postID]
}

// Toggle calls the toggle endpoint and applies the server-confirmed state
// and count. While a toggle for the same (post, kind) is outstanding,
// further calls fail with ErrToggleInFlight. On any other error the cache
// is left unchanged.
func (c *Cache) Toggle(ctx context.Context, api *Client, kind Kind, postID string) (*models.ToggleResult, error) {
	key := string(kind) + ":" + postID

	c.mu.Lock()
	if c.inflight[key] {
		c.mu.Unlock()
		return nil, ErrToggleInFlight
	}
	c.inflight[key] = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.inflight, key)
		c.mu.Unlock()
	}()

	var result *models.ToggleResult
	var err error
	if kind == KindFavorite {
		result, err = api.ToggleFavorite(ctx, postID)
	} else {
		result, err = api.ToggleLike(ctx, postID)
	}
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if kind == KindFavorite {
		c.favorited[postID] = result.Active
	} else {
		c.liked[postID] = result.Active
	}
	c.counts[kind][postID] = result.Count
	c.mu.Unlock()

	return result, nil
}
