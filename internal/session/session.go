// Package session holds the authenticated identity and bearer token of the
// running client.
package session

import (
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/atinyakov/blogmanager/internal/models"
)

// Session is the identity and credential obtained at login or registration.
type Session struct {
	User  models.User
	Token string
}

// Provider exposes the current session. ok is false when nobody is logged in.
type Provider interface {
	Current() (s *Session, ok bool)
}

// Store is the in-process Provider. It is written by login and logout only.
type Store struct {
	mu  sync.RWMutex
	cur *Session
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Current returns a copy of the held session.
func (st *Store) Current() (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if st.cur == nil {
		return nil, false
	}
	cp := *st.cur
	return &cp, true
}

// Set replaces the held session.
func (st *Store) Set(s Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.cur = &s
}

// Clear drops the held session.
func (st *Store) Clear() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.cur = nil
}

// Identity returns the user of s, or nil when s is nil.
func (s *Session) Identity() *models.User {
	if s == nil {
		return nil
	}
	u := s.User
	return &u
}

// Usable reports whether s carries a token that has not visibly expired.
func (s *Session) Usable(now time.Time) bool {
	return s != nil && s.Token != "" && !Expired(s.Token, now)
}

// Expired reports whether token is a JWT whose exp claim is in the past.
// The signature is not checked; that is the server's job. Opaque tokens
// never expire on the client.
func Expired(token string, now time.Time) bool {
	claims := jwt.RegisteredClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, &claims)
	if err != nil {
		return false
	}
	return claims.ExpiresAt != nil && !now.Before(claims.ExpiresAt.Time)
}
