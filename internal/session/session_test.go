package session

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/blogmanager/internal/models"
)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("secret"))
	require.NoError(t, err)
	return s
}

func TestStore_SetCurrentClear(t *testing.T) {
	st := NewStore()
	_, ok := st.Current()
	assert.False(t, ok)

	st.Set(Session{User: models.User{ID: 7, Username: "alice", Role: models.RoleEditor}, Token: "tok"})
	s, ok := st.Current()
	require.True(t, ok)
	assert.Equal(t, int64(7), s.User.ID)
	assert.Equal(t, "tok", s.Token)

	// the returned value is a copy
	s.Token = "changed"
	again, _ := st.Current()
	assert.Equal(t, "tok", again.Token)

	st.Clear()
	_, ok = st.Current()
	assert.False(t, ok)
}

func TestExpired(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"opaque token", "abc123", false},
		{"future exp", signed(t, now.Add(time.Hour)), false},
		{"past exp", signed(t, now.Add(-time.Minute)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Expired(tt.token, now))
		})
	}
}

func TestSession_Usable(t *testing.T) {
	now := time.Now()
	var nilSession *Session
	assert.False(t, nilSession.Usable(now))
	assert.Nil(t, nilSession.Identity())
	assert.False(t, (&Session{}).Usable(now))
	assert.True(t, (&Session{Token: "opaque"}).Usable(now))
	assert.False(t, (&Session{Token: signed(t, now.Add(-time.Hour))}).Usable(now))
}
