package auth

import (
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/dirkit/user-directory/internal/domain"
)

var (
	ErrMissingSecret         = errors.New("token signing secret is empty")
	ErrMissingToken          = errors.New("missing token")
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrTokenExpired          = errors.New("token expired")
)

// TokenManager handles issuing and validating JWT tokens. It is immutable
// once built and safe for concurrent use.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a new manager. An empty secret is rejected.
func NewTokenManager(secret string, ttlMinutes int) (*TokenManager, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &TokenManager{
		secret: []byte(secret),
		ttl:    time.Duration(ttlMinutes) * time.Minute,
		now:    time.Now,
	}, nil
}

// Claims describes JWT payload.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Issue builds and signs a JWT bound to the user.
func (tm *TokenManager) Issue(userID string) (domain.Token, error) {
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(tm.ttl)
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return domain.Token{}, err
	}
	return domain.Token{
		Value:     tokenString,
		UserID:    userID,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify validates the token and returns the user id it was issued for.
func (tm *TokenManager) Verify(tokenStr string) (string, error) {
	parser := tm.parser()
	parsed, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) && signatureSegmentDamaged(parser, tokenStr) {
			return "", ErrTokenSignatureInvalid
		}
		return "", classify(err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == "" {
		return "", ErrTokenMalformed
	}
	return claims.UserID, nil
}

// parser rejects non-canonical base64, so every altered signature
// character changes the decoded signature or fails to decode.
func (tm *TokenManager) parser() *jwt.Parser {
	return jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(tm.now),
	)
}

// signatureSegmentDamaged reports whether header and claims still decode,
// which puts the fault in the signature segment.
func signatureSegmentDamaged(parser *jwt.Parser, tokenStr string) bool {
	parts := strings.SplitN(tokenStr, ".", 3)
	if len(parts) != 3 {
		return false
	}
	_, _, err := parser.ParseUnverified(parts[0]+"."+parts[1]+".", &Claims{})
	return err == nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrTokenSignatureInvalid
	default:
		return ErrTokenMalformed
	}
}
