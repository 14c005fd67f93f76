package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/festivapp/festival-api/internal/api/handler/v1/request"
	"github.com/festivapp/festival-api/internal/api/handler/v1/response"
	"github.com/festivapp/festival-api/internal/domain"
	"github.com/festivapp/festival-api/internal/service"
)

type FestivalService interface {
	CreateFestival(ctx context.Context, festival domain.Festival, organizerID uint) (domain.Festival, error)
	GetFestival(ctx context.Context, id uint) (domain.Festival, error)
	ListFestivals(ctx context.Context, viewer domain.User, limit, offset int) ([]domain.Festival, int64, error)
	UpdateFestival(ctx context.Context, id uint, upd domain.FestivalUpdate) (domain.Festival, error)
	DeleteFestival(ctx context.Context, id uint) error
	RegenerateAPIKey(ctx context.Context, id uint) (domain.Festival, error)
	IsOrganizer(ctx context.Context, festivalID, userID uint) (bool, error)
}

type FestivalHandler struct {
	svc  FestivalService
	uSvc UserService
}

func NewFestivalHandler(svc FestivalService, uSvc UserService) *FestivalHandler {
	return &FestivalHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// requireOrganizer allows the festival's organizer and admins through.
func (h *FestivalHandler) requireOrganizer(ctx *gin.Context, festivalID uint) (domain.User, *response.Err) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		return domain.User{}, respErr
	}

	if user.Role == domain.RoleAdmin {
		return user, nil
	}

	isOrganizer, err := h.svc.IsOrganizer(ctx.Request.Context(), festivalID, user.ID)
	if err != nil {
		if errors.Is(err, service.ErrFestivalNotFound) {
			return domain.User{}, response.ErrNotFound(service.ErrFestivalNotFound)
		}

		return domain.User{}, response.ErrInternalServerError(fmt.Errorf("h.svc.IsOrganizer -> %w", err))
	}
	if !isOrganizer {
		return domain.User{}, response.ErrPermissionDenied()
	}

	return user, nil
}

// HandleCreateFestival godoc
// @Summary      Create a festival
// @Tags         festivals
// @Produce      json
// @Param        request   body      request.CreateFestivalRequest true "request body"
// @Success      201      {object}   domain.Festival
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /festivals [post]
// @Security     BearerAuth
func (h *FestivalHandler) HandleCreateFestival(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if user.Role != domain.RoleOrganizer && user.Role != domain.RoleAdmin {
		response.RenderErr(ctx, response.ErrPermissionDenied())

		return
	}

	var req request.CreateFestivalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	festival, err := h.svc.CreateFestival(ctx.Request.Context(), domain.Festival{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		TokenName:   req.TokenName,
	}, user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateFestival -> h.svc.CreateFestival -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, festival)
}

// HandleListFestivals godoc
// @Summary      List festivals
// @Tags         festivals
// @Produce      json
// @Param        page      query     int false "page number"
// @Param        per_page  query     int false "items per page"
// @Success      200      {object}   response.Paginated[domain.Festival]
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /festivals [get]
// @Security     BearerAuth
func (h *FestivalHandler) HandleListFestivals(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	page := request.NewPagination(ctx)

	festivals, total, err := h.svc.ListFestivals(ctx.Request.Context(), user, page.Limit(), page.Offset())
	if err != nil {
		err = fmt.Errorf("v1.HandleListFestivals -> h.svc.ListFestivals -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	for i := range festivals {
		festivals[i].APIKey = ""
	}

	ctx.JSON(http.StatusOK, response.NewPaginated(festivals, total, page.Page, page.PerPage))
}

// HandleGetFestival godoc
// @Summary      Get a festival by ID
// @Tags         festivals
// @Produce      json
// @Param        festivalID   path      int  true "festival ID"
// @Success      200      {object}   domain.Festival
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /festivals/{festivalID} [get]
// @Security     BearerAuth
func (h *FestivalHandler) HandleGetFestival(ctx *gin.Context) {
	festivalID, respErr := parseIDParam(ctx, "festivalID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	festival, err := h.svc.GetFestival(ctx.Request.Context(), festivalID)
	if err != nil {
		if errors.Is(err, service.ErrFestivalNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrFestivalNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleGetFestival -> h.svc.GetFestival -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	isOwner := festival.OrganizerID == user.ID || user.Role == domain.RoleAdmin

	// A festival exists for outsiders only once it is published.
	if festival.Status != domain.FestivalPublished && !isOwner {
		response.RenderErr(ctx, response.ErrNotFound(service.ErrFestivalNotFound))

		return
	}

	// The API key is only shown to the organizer.
	if !isOwner {
		festival.APIKey = ""
	}

	ctx.JSON(http.StatusOK, festival)
}

// HandleUpdateFestival godoc
// @Summary      Update a festival
// @Tags         festivals
// @Produce      json
// @Param        festivalID   path    int  true "festival ID"
// @Param        request   body      request.UpdateFestivalRequest true "request body"
// @Success      200      {object}   domain.Festival
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /festivals/{festivalID} [put]
// @Security     BearerAuth
func (h *FestivalHandler) HandleUpdateFestival(ctx *gin.Context) {
	festivalID, respErr := parseIDParam(ctx, "festivalID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if _, respErr = h.requireOrganizer(ctx, festivalID); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.UpdateFestivalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	festival, err := h.svc.UpdateFestival(ctx.Request.Context(), festivalID, req.ToDomain())
	if err != nil {
		if errors.Is(err, service.ErrFestivalNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrFestivalNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleUpdateFestival -> h.svc.UpdateFestival -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, festival)
}

// HandleDeleteFestival godoc
// @Summary      Delete a festival
// @Tags         festivals
// @Produce      json
// @Param        festivalID   path      int  true "festival ID"
// @Success      204
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /festivals/{festivalID} [delete]
// @Security     BearerAuth
func (h *FestivalHandler) HandleDeleteFestival(ctx *gin.Context) {
	festivalID, respErr := parseIDParam(ctx, "festivalID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if _, respErr = h.requireOrganizer(ctx, festivalID); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if err := h.svc.DeleteFestival(ctx.Request.Context(), festivalID); err != nil {
		if errors.Is(err, service.ErrFestivalNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrFestivalNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleDeleteFestival -> h.svc.DeleteFestival -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleRegenerateAPIKey godoc
// @Summary      Rotate the festival's public API key
// @Tags         festivals
// @Produce      json
// @Param        festivalID   path      int  true "festival ID"
// @Success      200      {object}   domain.Festival
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /festivals/{festivalID}/api-key [post]
// @Security     BearerAuth
func (h *FestivalHandler) HandleRegenerateAPIKey(ctx *gin.Context) {
	festivalID, respErr := parseIDParam(ctx, "festivalID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if _, respErr = h.requireOrganizer(ctx, festivalID); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	festival, err := h.svc.RegenerateAPIKey(ctx.Request.Context(), festivalID)
	if err != nil {
		if errors.Is(err, service.ErrFestivalNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrFestivalNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleRegenerateAPIKey -> h.svc.RegenerateAPIKey -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, festival)
}
