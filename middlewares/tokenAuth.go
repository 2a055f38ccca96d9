package middlewares

import (
	"ChemoOrder/utils"
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// contextKey defines a custom context key type to store the identity in the
// request context.
type contextKey string

const identityKey contextKey = "identity"

// Identity is the resolved caller: user id, display name, role and the ward
// scoping every order/patient read. WardID is empty for unrestricted users.
type Identity struct {
	UserID   string
	FullName string
	Role     string
	WardID   string
}

// TokenAuthMiddleware validates the bearer token and adds the resolved
// identity to the request context. Absence or invalidity yields 401.
func TokenAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token"})
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid Authorization header format"})
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, token failed"})
			c.Abort()
			return
		}

		identity := Identity{
			UserID:   claims.UserID,
			FullName: claims.FullName,
			Role:     claims.Role,
			WardID:   claims.WardID,
		}
		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), identity))

		c.Next()
	}
}

// RoleAuthMiddleware restricts access to users with the specified role.
func RoleAuthMiddleware(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := ExtractIdentity(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Identity not found in context"})
			c.Abort()
			return
		}

		if identity.Role != requiredRole {
			c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden: insufficient privileges"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// WithIdentity returns a context carrying the resolved identity.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// ExtractIdentity retrieves the resolved identity from the context.
func ExtractIdentity(ctx context.Context) (Identity, error) {
	identity, ok := ctx.Value(identityKey).(Identity)
	if !ok {
		return Identity{}, errors.New("identity not found in context")
	}
	return identity, nil
}
