package client

import (
	"errors"
	"testing"

	"devsocial/internal/models"

	"github.com/stretchr/testify/require"
)

type brokenStorage struct {
	values map[string][]byte
}

var _ Storage = (*brokenStorage)(nil)

func (b *brokenStorage) Read(key string) ([]byte, error) {
	if data, ok := b.values[key]; ok {
		return data, nil
	}
	return nil, errors.New("storage unavailable")
}
func (b *brokenStorage) Write(string, []byte) error { return errors.New("storage unavailable") }
func (b *brokenStorage) Delete(string) error        { return errors.New("storage unavailable") }

func TestSession_LoadWithValidToken(t *testing.T) {
	store := NewFileStorageAt(t.TempDir())
	require.NoError(t, store.Write("token", []byte("a.real.token")))

	sess := NewSession(store)
	require.Equal(t, StateUninitialized, sess.State())

	require.Equal(t, StateAuthenticated, sess.Load())
	require.Equal(t, "a.real.token", sess.Token())
}

func TestSession_LoadPurgesPlaceholderToken(t *testing.T) {
	store := NewFileStorageAt(t.TempDir())
	require.NoError(t, store.Write("token", []byte("mock_token_123")))
	require.NoError(t, store.Write("user.json", []byte(`{"id":"u1"}`)))

	sess := NewSession(store)
	require.Equal(t, StateAnonymous, sess.Load())
	require.Empty(t, sess.Token())

	// both artifacts are gone from storage
	_, err := store.Read("token")
	require.Error(t, err)
	_, err = store.Read("user.json")
	require.Error(t, err)
}

func TestSession_LoadWithoutToken(t *testing.T) {
	sess := NewSession(NewFileStorageAt(t.TempDir()))
	require.Equal(t, StateAnonymous, sess.Load())
}

func TestSession_SignInPersistsAndRestores(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStorageAt(dir)

	sess := NewSession(store)
	sess.Load()
	sess.SignIn("tok-1", &models.User{ID: "u1", Username: "alice"})
	require.Equal(t, StateAuthenticated, sess.State())

	// a fresh session over the same storage restores the state
	sess2 := NewSession(NewFileStorageAt(dir))
	require.Equal(t, StateAuthenticated, sess2.Load())
	require.Equal(t, "tok-1", sess2.Token())
	require.Equal(t, "alice", sess2.User().Username)
}

func TestSession_SignInSurvivesStorageFailure(t *testing.T) {
	sess := NewSession(&brokenStorage{})
	sess.SignIn("tok-1", &models.User{ID: "u1"})

	require.Equal(t, StateAuthenticated, sess.State())
	require.Equal(t, "tok-1", sess.Token())
}

func TestSession_SignOutSurvivesStorageFailure(t *testing.T) {
	store := &brokenStorage{values: map[string][]byte{"token": []byte("tok-1")}}
	sess := NewSession(store)
	require.Equal(t, StateAuthenticated, sess.Load())

	sess.SignOut()
	require.Equal(t, StateAnonymous, sess.State())
	require.Empty(t, sess.Token())
	require.Nil(t, sess.User())
}
