package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rmartinsanz/gin-userbase-api/internal/models"
)

// Identity is the decoded subject of a verified token. The middleware attaches
// it to the request context for downstream handlers.
type Identity struct {
	UserID uint
	Email  string
	Role   string
}

// TokenIssuer signs and verifies the bearer tokens that back a session.
// The signing secret and expiry window are injected at startup rather than
// being package constants.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	method jwt.SigningMethod
}

// NewTokenIssuer creates a TokenIssuer signing with HMAC-SHA256.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		method: jwt.SigningMethodHS256,
	}
}

// TTL returns the configured expiry window.
func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue generates a signed token for the given user. The token carries the
// subject id, email and role, and expires a fixed window after issuance.
func (i *TokenIssuer) Issue(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   fmt.Sprintf("%d", user.ID),
		"email": user.Email,
		"role":  user.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(i.ttl).Unix(),
	}

	token := jwt.NewWithClaims(i.method, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify parses the token string, validates its signature and time claims,
// and returns the embedded identity.
func (i *TokenIssuer) Verify(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method to prevent algorithm confusion attacks
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v. Expected HMAC", token.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("token parsing failed: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims format")
	}

	if err := validateTimeClaims(claims); err != nil {
		return nil, err
	}

	return extractIdentity(claims)
}

// validateTimeClaims checks exp and iat beyond what jwt.Parse already enforces.
func validateTimeClaims(claims jwt.MapClaims) error {
	now := time.Now()

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return fmt.Errorf("invalid exp claim: %w", err)
	}
	if exp == nil {
		return fmt.Errorf("token missing required 'exp' claim")
	}
	if exp.Before(now) {
		return fmt.Errorf("token has expired")
	}

	// Reject tokens issued in the future
	iat, err := claims.GetIssuedAt()
	if err != nil {
		return fmt.Errorf("invalid iat claim: %w", err)
	}
	if iat != nil && iat.After(now) {
		return fmt.Errorf("token issued in the future")
	}

	return nil
}

// extractIdentity pulls the subject id, email and role out of the claims.
// The subject is required; a token without one is not valid for this API.
func extractIdentity(claims jwt.MapClaims) (*Identity, error) {
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("token missing required 'sub' claim")
	}

	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return nil, fmt.Errorf("invalid sub claim: must be a positive numeric string, got: %s", sub)
	}

	email, _ := claims["email"].(string)
	if email == "" {
		return nil, fmt.Errorf("token missing required 'email' claim")
	}

	role, _ := claims["role"].(string)

	return &Identity{UserID: uint(userID), Email: email, Role: role}, nil
}
