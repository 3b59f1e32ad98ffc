package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrBadCredentials is returned for any username/password mismatch. The
// handler maps it to a single 401 so callers cannot probe which half failed.
var ErrBadCredentials = errors.New("auth: invalid credentials")

// Service checks staff credentials and issues HMAC-signed session tokens.
type Service struct {
	username    string
	password    string
	secret      []byte
	sessionTTL  time.Duration
	rememberTTL time.Duration
	now         func() time.Time
}

// NewService creates an auth service. sessionTTL covers normal logins;
// rememberTTL applies when the caller asks to stay signed in.
func NewService(username, password, secret string, sessionTTL, rememberTTL time.Duration) *Service {
	return &Service{
		username:    username,
		password:    password,
		secret:      []byte(secret),
		sessionTTL:  sessionTTL,
		rememberTTL: rememberTTL,
		now:         time.Now,
	}
}

// Login verifies the credentials and returns a signed token plus its expiry.
func (s *Service) Login(username, password string, remember bool) (string, time.Time, error) {
	if s.username == "" || s.password == "" || len(s.secret) == 0 {
		return "", time.Time{}, errors.New("auth: staff login not configured")
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
	if !userOK || !passOK {
		return "", time.Time{}, ErrBadCredentials
	}

	ttl := s.sessionTTL
	if remember {
		ttl = s.rememberTTL
	}
	now := s.now()
	expiry := now.Add(ttl)
	claims := jwt.RegisteredClaims{
		Subject:   s.username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiry),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return token, expiry, nil
}
