package middleware

import (
	"errors"
	"strings"

	"anoa.com/complainthub/internal/entity"
	"anoa.com/complainthub/pkg/apperror"
	"anoa.com/complainthub/pkg/response"
	"anoa.com/complainthub/pkg/token"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	identityKey = "identity"
	claimsKey   = "token_claims"
)

type AuthMiddleware struct {
	tokens   *token.Manager
	denylist *token.Denylist
	log      *zap.Logger
}

func NewAuthMiddleware(tokens *token.Manager, denylist *token.Denylist, log *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:   tokens,
		denylist: denylist,
		log:      log,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")

		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		// Fallback to query parameter "token" (useful for WebSockets)
		if tokenString == "" && c.GetHeader("Upgrade") != "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			response.ResponseError(c, apperror.Unauthorized("Token not provided or invalid format"))
			return
		}

		claims, err := m.tokens.Parse(tokenString)
		if err != nil {
			if errors.Is(err, token.ErrExpired) {
				response.ResponseError(c, apperror.Forbidden("Token expired"))
				return
			}
			response.ResponseError(c, apperror.Forbidden("Invalid token"))
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			response.ResponseError(c, apperror.Forbidden("Invalid token"))
			return
		}
		role, err := entity.ParseRole(claims.Role)
		if err != nil {
			response.ResponseError(c, apperror.Forbidden("Invalid token"))
			return
		}

		revoked, err := m.denylist.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			// fail open when redis is unavailable
			m.log.Warn("token denylist lookup failed", zap.Error(err))
		}
		if revoked {
			response.ResponseError(c, apperror.Unauthorized("Token has been revoked"))
			return
		}

		c.Set("user_id", userID.String())
		c.Set(identityKey, entity.Identity{UserID: userID, Role: role})
		c.Set(claimsKey, claims)
		c.Next()
	}
}

func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := GetIdentity(c)
		if err != nil {
			response.ResponseError(c, apperror.Unauthorized("Token not provided or invalid format"))
			return
		}

		if !identity.IsAdmin() {
			response.ResponseError(c, apperror.Forbidden("Only admin can perform this action"))
			return
		}

		c.Next()
	}
}

// GetIdentity returns the caller set by RequireAuth.
func GetIdentity(c *gin.Context) (entity.Identity, error) {
	v, ok := c.Get(identityKey)
	if !ok {
		return entity.Identity{}, apperror.ErrUnauthorized
	}
	identity, ok := v.(entity.Identity)
	if !ok {
		return entity.Identity{}, apperror.ErrUnauthorized
	}
	return identity, nil
}

// GetClaims returns the verified token claims set by RequireAuth.
func GetClaims(c *gin.Context) (*token.Claims, error) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, apperror.ErrUnauthorized
	}
	claims, ok := v.(*token.Claims)
	if !ok {
		return nil, apperror.ErrUnauthorized
	}
	return claims, nil
}
