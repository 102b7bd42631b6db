package token

import (
	"testing"
	"time"

	"devsocial/internal/errs"

	"github.com/stretchr/testify/require"
)

func TestIssueVerify_RoundTrip(t *testing.T) {
	svc := New("test-secret", time.Hour)

	tok, err := svc.Issue("user-1")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	uid, err := svc.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, "user-1", uid)

	// same token resolves to the same user id
	uid2, err := svc.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, uid, uid2)
}

func TestVerify_Expired(t *testing.T) {
	svc := New("test-secret", -time.Minute)

	tok, err := svc.Issue("user-1")
	require.NoError(t, err)

	_, err = svc.Verify(tok)
	require.ErrorIs(t, err, errs.ErrTokenExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	tok, err := New("secret-a", time.Hour).Issue("user-1")
	require.NoError(t, err)

	_, err = New("secret-b", time.Hour).Verify(tok)
	require.ErrorIs(t, err, errs.ErrTokenInvalid)
}

func TestVerify_Malformed(t *testing.T) {
	svc := New("test-secret", time.Hour)

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.Verify(tok)
		require.ErrorIs(t, err, errs.ErrTokenInvalid)
	}
}
