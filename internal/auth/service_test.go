package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func newTestService(t *testing.T, secret string) *Service {
	t.Helper()

	hash, err := HashPassword("hunter22aa")
	assert.NoError(t, err)

	users := NewMemoryUserStore([]User{
		{ID: "user-1", Email: "seller@example.com", PasswordHash: hash},
	})
	return NewService(users, zaptest.NewLogger(t), secret, time.Hour)
}

func TestSignIn_IssuesVerifiableToken(t *testing.T) {
	svc := newTestService(t, "test-secret")

	token, err := svc.SignIn("seller@example.com", "hunter22aa")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	userID, err := svc.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestSignIn_EmailIsCaseInsensitive(t *testing.T) {
	svc := newTestService(t, "test-secret")

	_, err := svc.SignIn("Seller@Example.COM", "hunter22aa")
	assert.NoError(t, err)
}

func TestSignIn_WrongPassword(t *testing.T) {
	svc := newTestService(t, "test-secret")

	token, err := svc.SignIn("seller@example.com", "wrong")
	assert.Empty(t, token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignIn_UnknownEmail(t *testing.T) {
	svc := newTestService(t, "test-secret")

	token, err := svc.SignIn("nobody@example.com", "hunter22aa")
	assert.Empty(t, token)
	// Indistinguishable from a wrong password.
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerify_RejectsGarbage(t *testing.T) {
	svc := newTestService(t, "test-secret")

	_, err := svc.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Verify("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsForeignSignature(t *testing.T) {
	issuer := newTestService(t, "secret-a")
	verifier := newTestService(t, "secret-b")

	token, err := issuer.SignIn("seller@example.com", "hunter22aa")
	assert.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMemoryUserStore_FindByEmail(t *testing.T) {
	store := NewMemoryUserStore([]User{
		{ID: "user-1", Email: "seller@example.com", PasswordHash: "x"},
	})

	u, err := store.FindByEmail("seller@example.com")
	assert.NoError(t, err)
	assert.Equal(t, "user-1", u.ID)

	_, err = store.FindByEmail("nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
