package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"nhl-fan-insights/domain/model"
	"nhl-fan-insights/domain/repository"
	"nhl-fan-insights/infrastructure/logger"
	"nhl-fan-insights/usecase"
)

const identityKey = "identity"

// Auth verifies the bearer token and stores the caller identity on the context. When users is
// set the caller is upserted and banned accounts are refused.
func Auth(verifier repository.IAuthVerifier, users usecase.IUserUsecase) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authorization := ctx.Request.Header.Get("Authorization")
		token, ok := strings.CutPrefix(authorization, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		identity, err := verifier.Verify(ctx.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			logger.WithContext(ctx.Request.Context()).WithField("error", err).Info("Token rejected")
			status := http.StatusUnauthorized
			if !errors.Is(err, model.ErrUnauthorized) {
				status = http.StatusBadGateway
			}
			ctx.AbortWithStatusJSON(status, gin.H{"error": "invalid or expired session"})
			return
		}

		if users != nil {
			if _, err := users.Sync(ctx.Request.Context(), identity); err != nil {
				if errors.Is(err, model.ErrForbidden) {
					ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account is banned"})
					return
				}
				// a failed upsert does not block an otherwise verified caller
				logger.WithContext(ctx.Request.Context()).WithField("error", err).Warn("User sync failed")
			}
		}

		ctx.Set(identityKey, identity)
		ctx.Next()
	}
}

// RequireAdmin must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		identity, ok := CurrentIdentity(ctx)
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if !identity.IsAdmin {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		ctx.Next()
	}
}

func CurrentIdentity(ctx *gin.Context) (*model.Identity, bool) {
	v, ok := ctx.Get(identityKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*model.Identity)
	return identity, ok && identity != nil
}

// SetIdentity is used by tests and by handlers mounted behind a custom authenticator.
func SetIdentity(ctx *gin.Context, identity *model.Identity) {
	ctx.Set(identityKey, identity)
}
