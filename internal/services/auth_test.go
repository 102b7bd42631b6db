package services

import (
	"context"
	"testing"
	"time"

	"devsocial/internal/errs"
	"devsocial/internal/models"
	"devsocial/internal/token"

	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	byID map[string]*models.User
}

var _ UserStore = (*fakeUsers)(nil)

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[string]*models.User{}}
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	for _, ex := range f.byID {
		if ex.Username == u.Username || ex.Email == u.Email {
			return errs.ErrAlreadyExists
		}
	}
	cpy := *u
	f.byID[u.ID] = &cpy
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeUsers) UsernameTaken(_ context.Context, username, excludeUserID string) (bool, error) {
	for id, u := range f.byID {
		if u.Username == username && id != excludeUserID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsers) EmailTaken(_ context.Context, email, excludeUserID string) (bool, error) {
	for id, u := range f.byID {
		if u.Email == email && id != excludeUserID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsers) Update(_ context.Context, u *models.User) error {
	if _, ok := f.byID[u.ID]; !ok {
		return errs.ErrNotFound
	}
	cpy := *u
	f.byID[u.ID] = &cpy
	return nil
}

func newAuthService() (*AuthService, *fakeUsers) {
	users := newFakeUsers()
	return NewAuthService(users, token.New("test-secret", time.Hour)), users
}

func TestRegister_ThenLogin(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	tok, user, err := svc.Register(ctx, "alice", "alice@example.com", "pw123")
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	require.Equal(t, "alice", user.Username)

	tok2, user2, err := svc.Login(ctx, "alice@example.com", "pw123")
	require.NoError(t, err)
	require.NotEmpty(t, tok2)
	require.Equal(t, user.ID, user2.ID)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "alice", "alice@example.com", "pw123")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "alice", "other@example.com", "pw123")
	require.ErrorIs(t, err, errs.ErrAlreadyExists)
}

func TestRegister_MissingFields(t *testing.T) {
	svc, _ := newAuthService()
	_, _, err := svc.Register(context.Background(), "", "a@b.c", "pw")
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestLogin_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "alice", "alice@example.com", "pw123")
	require.NoError(t, err)

	_, _, errWrong := svc.Login(ctx, "alice@example.com", "nope")
	require.ErrorIs(t, errWrong, errs.ErrUnauthorized)

	_, _, errUnknown := svc.Login(ctx, "ghost@example.com", "pw123")
	require.ErrorIs(t, errUnknown, errs.ErrUnauthorized)

	require.Equal(t, errWrong.Error(), errUnknown.Error())
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	_, alice, err := svc.Register(ctx, "alice", "alice@example.com", "pw123")
	require.NoError(t, err)
	_, _, err = svc.Register(ctx, "bob", "bob@example.com", "pw123")
	require.NoError(t, err)

	// taken username is rejected
	_, err = svc.UpdateProfile(ctx, alice.ID, ProfileUpdate{Username: "bob"})
	require.ErrorIs(t, err, errs.ErrAlreadyExists)

	// password change requires the old password
	_, err = svc.UpdateProfile(ctx, alice.ID, ProfileUpdate{NewPassword: "new"})
	require.ErrorIs(t, err, errs.ErrValidation)

	_, err = svc.UpdateProfile(ctx, alice.ID, ProfileUpdate{OldPassword: "wrong", NewPassword: "new"})
	require.ErrorIs(t, err, errs.ErrUnauthorized)

	updated, err := svc.UpdateProfile(ctx, alice.ID, ProfileUpdate{
		Username:    "alice2",
		OldPassword: "pw123",
		NewPassword: "pw456",
	})
	require.NoError(t, err)
	require.Equal(t, "alice2", updated.Username)

	_, _, err = svc.Login(ctx, "alice@example.com", "pw456")
	require.NoError(t, err)
}
