package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessions(secret string) *SessionService {
	return NewSessionService(SessionConfig{SecretKey: secret, TTL: 7 * 24 * time.Hour, Issuer: "lecturehub"})
}

func TestSession_IssueVerify(t *testing.T) {
	s := newTestSessions("secret")

	token, expiresAt, err := s.Issue(42, "PF001234")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), expiresAt, time.Minute)

	claims, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.LecturerID)
	assert.Equal(t, "PF001234", claims.PFNumber)
	assert.Equal(t, "42", claims.Subject)

	id, ok := s.Identify(token)
	require.True(t, ok)
	assert.Equal(t, int64(42), id.LecturerID)
}

func TestSession_Expired(t *testing.T) {
	s := newTestSessions("secret")
	s.now = func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }
	token, _, err := s.Issue(1, "PF1")
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)

	_, ok := s.Identify(token)
	assert.False(t, ok)
}

func TestSession_Rejects(t *testing.T) {
	s := newTestSessions("secret")
	other := newTestSessions("another-secret")
	foreign, _, err := other.Issue(1, "PF1")
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{LecturerID: 1}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-token"},
		{name: "bad signature", token: foreign},
		{name: "alg none", token: noneToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			_, ok := s.Identify(tt.token)
			assert.False(t, ok)
		})
	}
}

func TestSessionCookies(t *testing.T) {
	rec := httptest.NewRecorder()
	SetSessionCookie(rec, "auth-token", "abc", 7*24*time.Hour, true)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, "auth-token", c.Name)
	assert.Equal(t, "abc", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 604800, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)

	rec = httptest.NewRecorder()
	ClearSessionCookie(rec, "auth-token", false)
	header := rec.Header().Get("Set-Cookie")
	assert.Contains(t, header, "auth-token=;")
	assert.Contains(t, header, "Max-Age=0")
	assert.NotContains(t, header, "Secure")
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("validpass")
	require.NoError(t, err)
	assert.NotEqual(t, "validpass", hash)
	assert.True(t, CheckPassword(hash, "validpass"))
	assert.False(t, CheckPassword(hash, "wrongpass"))
}
