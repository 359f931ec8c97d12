package middlewares

import (
	"context"
	"foodievent/src/repository"
	"foodievent/src/utils"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Revocations reports whether a token id was logged out before it expired.
type Revocations interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

func unauthorized(ctx *gin.Context) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
}

// NewAuthMiddleware accepts "Authorization: Bearer <jwt>". On success the
// context carries id, email, jti and exp for the handlers.
func NewAuthMiddleware(secret []byte, users repository.UserRepository, revoked Revocations) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		bearerToken := ctx.Request.Header.Get("Authorization")
		reqToken, ok := strings.CutPrefix(bearerToken, "Bearer ")
		if !ok || strings.TrimSpace(reqToken) == "" {
			unauthorized(ctx)
			return
		}
		claims, err := utils.ParseJWT(secret, strings.TrimSpace(reqToken))
		if err != nil {
			log.Printf("token error: %s\n", err.Error())
			unauthorized(ctx)
			return
		}
		if revoked != nil {
			isRevoked, err := revoked.IsRevoked(ctx.Request.Context(), claims.ID)
			if err != nil {
				log.Printf("[Auth] revocation check failed: %s\n", err.Error())
				ctx.AbortWithStatus(http.StatusServiceUnavailable)
				return
			}
			if isRevoked {
				unauthorized(ctx)
				return
			}
		}
		uid, err := utils.UserIDFromClaims(claims)
		if err != nil {
			log.Println("error parsing claims:", err.Error())
			unauthorized(ctx)
			return
		}
		user, err := users.GetUser(ctx.Request.Context(), uid)
		if err != nil {
			unauthorized(ctx)
			return
		}

		ctx.Set("id", user.ID)
		ctx.Set("email", user.Email)
		ctx.Set("jti", claims.ID)
		if claims.ExpiresAt != nil {
			ctx.Set("exp", claims.ExpiresAt.Time)
		}
		ctx.Next()
	}
}
