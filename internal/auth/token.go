package auth

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Password reset tokens are always valid for 24 hours.
const passwordResetTTL = 24 * time.Hour

const typePasswordReset = "password_reset"

var (
	// ErrInvalidToken is returned for tokens with a bad signature, an
	// expiry in the past or a not-before in the future.
	ErrInvalidToken = errors.New("could not validate credentials")

	// ErrMalformedPayload is returned when a token validates but required
	// claims are absent or unusable.
	ErrMalformedPayload = errors.New("the token payload is malformed")
)

// claims is the payload carried by every token. Tokens are never
// persisted, the payload is reconstructed from the signed string on
// each request.
type claims struct {
	Type string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// Signer issues and verifies bearer tokens. It is purely functional
// given its secret and the clock.
type Signer struct {
	secret    []byte
	accessTTL time.Duration
}

// NewSigner returns a Signer using the given server secret.
func NewSigner(secret string, accessTTL time.Duration) *Signer {
	return &Signer{
		secret:    []byte(secret),
		accessTTL: accessTTL,
	}
}

// IssueAccess creates a signed access token for a user.
func (s *Signer) IssueAccess(userID uint) (string, error) {
	return s.issue(strconv.FormatUint(uint64(userID), 10), "", s.accessTTL)
}

// IssuePasswordReset creates a signed password reset token. The subject
// is the account email, not the user ID.
func (s *Signer) IssuePasswordReset(email string) (string, error) {
	return s.issue(email, typePasswordReset, passwordResetTTL)
}

func (s *Signer) issue(subject, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})

	return token.SignedString(s.secret)
}

// VerifyAccess validates an access token and returns the user ID it
// was issued for.
func (s *Signer) VerifyAccess(tokenString string) (uint, error) {
	payload, err := s.verify(tokenString)
	if err != nil {
		return 0, err
	}

	// Password reset tokens are not usable as access tokens
	if payload.Type != "" {
		return 0, ErrInvalidToken
	}

	id, err := strconv.ParseUint(payload.Subject, 10, 64)
	if err != nil {
		return 0, ErrMalformedPayload
	}

	return uint(id), nil
}

// VerifyPasswordReset validates a password reset token and returns the
// email it was issued for.
func (s *Signer) VerifyPasswordReset(tokenString string) (string, error) {
	payload, err := s.verify(tokenString)
	if err != nil {
		return "", err
	}

	if payload.Type != typePasswordReset {
		return "", ErrInvalidToken
	}

	return payload.Subject, nil
}

func (s *Signer) verify(tokenString string) (claims, error) {
	var payload claims

	token, err := jwt.ParseWithClaims(tokenString, &payload, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return claims{}, ErrInvalidToken
	}

	if strings.TrimSpace(payload.Subject) == "" {
		return claims{}, ErrMalformedPayload
	}

	return payload, nil
}
