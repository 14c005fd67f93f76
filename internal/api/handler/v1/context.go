package v1

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/festivapp/festival-api/internal/api/handler/v1/response"
	"github.com/festivapp/festival-api/internal/api/middleware"
	"github.com/festivapp/festival-api/internal/domain"
)

// getUserFromContext loads the authenticated user from the user ID the
// JWT middleware stored on the request.
func getUserFromContext(ctx *gin.Context, svc UserService) (domain.User, *response.Err) {
	value, exists := ctx.Get(middleware.ContextKeyUserID)
	if !exists {
		return domain.User{}, response.ErrUnauthorized("not authenticated")
	}

	userID, ok := value.(uint)
	if !ok {
		return domain.User{}, response.ErrInternalServerError(fmt.Errorf("invalid user ID in context: %v", value))
	}

	user, err := svc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		return domain.User{}, response.ErrInternalServerError(fmt.Errorf("svc.GetUser -> %w", err))
	}

	return user, nil
}

// parseIDParam reads a positive integer path parameter.
func parseIDParam(ctx *gin.Context, name string) (uint, *response.Err) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, response.ErrBadRequest(errors.New("invalid " + name))
	}

	return uint(id), nil
}

// getFestivalFromContext returns the festival resolved by the API key
// middleware on public routes.
func getFestivalFromContext(ctx *gin.Context) (domain.Festival, *response.Err) {
	value, exists := ctx.Get(middleware.ContextKeyFestival)
	if !exists {
		return domain.Festival{}, response.ErrUnauthorized("missing API key")
	}

	festival, ok := value.(domain.Festival)
	if !ok {
		return domain.Festival{}, response.ErrInternalServerError(fmt.Errorf("invalid festival in context: %v", value))
	}

	return festival, nil
}
