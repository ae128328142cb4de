package auth

import (
	"crypto/subtle"
	"errors"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTOTPRequired       = errors.New("a valid authenticator code is required")
	ErrLocked             = errors.New("too many failed attempts, try again later")
)

// Admin is the single account allowed into the inbox.
type Admin struct {
	Username     string
	PasswordHash string
	TOTPSecret   string // empty disables the second factor
}

// Authenticator checks admin logins and issues session tokens.
type Authenticator struct {
	admin   Admin
	secret  string
	ttl     time.Duration
	lockout *LockoutTracker
}

func NewAuthenticator(admin Admin, secret string, ttl time.Duration, lockout *LockoutTracker) *Authenticator {
	return &Authenticator{admin: admin, secret: secret, ttl: ttl, lockout: lockout}
}

// TOTPEnabled reports whether logins need an authenticator code.
func (a *Authenticator) TOTPEnabled() bool {
	return a.admin.TOTPSecret != ""
}

// Login verifies credentials for the client identified by key and returns a
// signed session token.
func (a *Authenticator) Login(key, username, password, code string) (string, error) {
	if a.lockout != nil && a.lockout.IsLocked(key) {
		return "", ErrLocked
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.admin.Username)) == 1
	passOK := CheckPassword(a.admin.PasswordHash, password)
	if !userOK || !passOK {
		a.fail(key)
		return "", ErrInvalidCredentials
	}
	if a.TOTPEnabled() && !ValidateTOTPCode(code, a.admin.TOTPSecret) {
		a.fail(key)
		return "", ErrTOTPRequired
	}

	if a.lockout != nil {
		a.lockout.Reset(key)
	}
	return GenerateToken(a.admin.Username, a.secret, a.ttl)
}

// Secret is the key sessions are signed with.
func (a *Authenticator) Secret() string {
	return a.secret
}

// TTL is how long issued sessions stay valid.
func (a *Authenticator) TTL() time.Duration {
	return a.ttl
}

func (a *Authenticator) fail(key string) {
	if a.lockout != nil {
		a.lockout.RecordFailure(key)
	}
}
