package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/festivapp/festival-api/internal/domain"
)

// ContextKeyFestival is where VerifyAPIKey stores the resolved festival.
const ContextKeyFestival = "festival"

// HeaderAPIKey carries the festival's API key on public routes.
const HeaderAPIKey = "X-API-Key"

// FestivalResolver looks a festival up by its API key.
type FestivalResolver interface {
	GetFestivalByAPIKey(ctx context.Context, apiKey string) (domain.Festival, error)
}

type APIKeyAuthenticator struct {
	resolver FestivalResolver
}

func NewAPIKeyAuthenticator(resolver FestivalResolver) *APIKeyAuthenticator {
	return &APIKeyAuthenticator{
		resolver: resolver,
	}
}

// VerifyAPIKey authenticates public integration requests. Only
// published festivals are served.
func (a *APIKeyAuthenticator) VerifyAPIKey() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		apiKey := ctx.GetHeader(HeaderAPIKey)
		if apiKey == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status_code": http.StatusUnauthorized,
				"error":       "missing API key",
			})

			return
		}

		festival, err := a.resolver.GetFestivalByAPIKey(ctx.Request.Context(), apiKey)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status_code": http.StatusUnauthorized,
				"error":       "invalid API key",
			})

			return
		}

		if festival.Status != domain.FestivalPublished {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"status_code": http.StatusForbidden,
				"error":       "festival is not published",
			})

			return
		}

		festival.APIKey = ""
		ctx.Set(ContextKeyFestival, festival)
		ctx.Next()
	}
}
