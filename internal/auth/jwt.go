// Package auth issues and verifies the bearer tokens of the blog API and
// hashes account passwords.
package auth

import (
	"errors"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/atinyakov/blogmanager/internal/models"
)

// Principal is the authenticated caller carried by a token.
type Principal struct {
	UserID   int64
	Username string
	Role     models.Role
}

// User returns the principal as a user value for the access policy.
func (p *Principal) User() *models.User {
	if p == nil {
		return nil
	}
	return &models.User{ID: p.UserID, Username: p.Username, Role: p.Role}
}

type claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Tokens signs and parses HS256 tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens returns a Tokens using secret. A zero ttl issues tokens without expiry.
func NewTokens(secret string, ttl time.Duration) (*Tokens, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue returns a signed token for u.
func (t *Tokens) Issue(u models.User) (string, error) {
	now := t.now()
	rc := jwt.RegisteredClaims{
		Subject:  strconv.FormatInt(u.ID, 10),
		IssuedAt: jwt.NewNumericDate(now),
	}
	if t.ttl > 0 {
		rc.ExpiresAt = jwt.NewNumericDate(now.Add(t.ttl))
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Username:         u.Username,
		Role:             string(u.Role),
		RegisteredClaims: rc,
	})
	return tok.SignedString(t.secret)
}

// Parse validates tokenStr and returns its principal.
func (t *Tokens) Parse(tokenStr string) (*Principal, error) {
	c := &claims{}
	tok, err := jwt.ParseWithClaims(tokenStr, c, func(tk *jwt.Token) (interface{}, error) {
		if tk.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !tok.Valid {
		if err == nil {
			err = errors.New("invalid token")
		}
		return nil, err
	}
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id < 1 || c.Username == "" {
		return nil, errors.New("invalid claims")
	}
	return &Principal{UserID: id, Username: c.Username, Role: models.Role(c.Role)}, nil
}
