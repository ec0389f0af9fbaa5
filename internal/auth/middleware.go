package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/dirkit/user-directory/pkg/util/errorutil"
)

const identityKey = "auth_identity"

// Identity is the caller resolved from a verified bearer token. It lives
// for a single request.
type Identity struct {
	UserID string
}

// AuthMiddleware validates bearer tokens. It trusts the token's claim and
// does not look the user up.
type AuthMiddleware struct {
	tokens *TokenManager
	logger *zap.Logger
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, logger *zap.Logger) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{tokens: tokens, logger: logger}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	raw := bearerToken(c.Get(fiber.HeaderAuthorization))
	if raw == "" {
		return m.reject(c, ErrMissingToken)
	}

	userID, err := m.tokens.Verify(raw)
	if err != nil {
		return m.reject(c, err)
	}

	c.Locals(identityKey, Identity{UserID: userID})
	return c.Next()
}

// Every rejection renders the same body; the reason is only logged.
func (m *AuthMiddleware) reject(c *fiber.Ctx, reason error) error {
	m.logger.Debug("request rejected",
		zap.String("path", c.Path()),
		zap.String("reason", reason.Error()))
	return apperrors.NewUnauthorized("unauthorized", reason)
}

// bearerToken accepts "Bearer <token>" with any scheme casing, or the bare token.
func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	scheme, rest, found := strings.Cut(header, " ")
	if found && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(rest)
	}
	if strings.EqualFold(header, "Bearer") {
		return ""
	}
	return header
}

// IdentityFromContext retrieves the authenticated caller.
func IdentityFromContext(c *fiber.Ctx) (Identity, bool) {
	identity, ok := c.Locals(identityKey).(Identity)
	if !ok || identity.UserID == "" {
		return Identity{}, false
	}
	return identity, true
}

// WithIdentity adapts a handler that needs the caller's identity. Requests
// that did not pass through Handle are rejected.
func WithIdentity(next func(*fiber.Ctx, Identity) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("unauthorized", ErrMissingToken)
		}
		return next(c, identity)
	}
}
