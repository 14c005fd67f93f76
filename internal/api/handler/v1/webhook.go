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

type WebhookService interface {
	CreateEndpoint(ctx context.Context, festivalID uint, url string, events []string) (domain.WebhookEndpoint, error)
	GetEndpoint(ctx context.Context, id uint) (domain.WebhookEndpoint, error)
	ListEndpoints(ctx context.Context, festivalID uint) ([]domain.WebhookEndpoint, error)
	UpdateEndpoint(ctx context.Context, id uint, upd service.WebhookEndpointUpdate) (domain.WebhookEndpoint, error)
	DeleteEndpoint(ctx context.Context, id uint) error
	ListDeliveries(ctx context.Context, endpointID uint, limit, offset int) ([]domain.WebhookDelivery, int64, error)
}

type WebhookHandler struct {
	svc  WebhookService
	fSvc FestivalService
	uSvc UserService
}

func NewWebhookHandler(svc WebhookService, fSvc FestivalService, uSvc UserService) *WebhookHandler {
	return &WebhookHandler{
		svc:  svc,
		fSvc: fSvc,
		uSvc: uSvc,
	}
}

func (h *WebhookHandler) requireOrganizer(ctx *gin.Context, festivalID uint) *response.Err {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		return respErr
	}
	if user.Role == domain.RoleAdmin {
		return nil
	}

	isOrganizer, err := h.fSvc.IsOrganizer(ctx.Request.Context(), festivalID, user.ID)
	if err != nil {
		if errors.Is(err, service.ErrFestivalNotFound) {
			return response.ErrNotFound(service.ErrFestivalNotFound)
		}

		return response.ErrInternalServerError(fmt.Errorf("h.fSvc.IsOrganizer -> %w", err))
	}
	if !isOrganizer {
		return response.ErrPermissionDenied()
	}

	return nil
}

// requireEndpointAccess resolves the endpoint and checks the caller
// organizes its festival.
func (h *WebhookHandler) requireEndpointAccess(ctx *gin.Context, endpointID uint) (domain.WebhookEndpoint, *response.Err) {
	endpoint, err := h.svc.GetEndpoint(ctx.Request.Context(), endpointID)
	if err != nil {
		if errors.Is(err, service.ErrEndpointNotFound) {
			return domain.WebhookEndpoint{}, response.ErrNotFound(service.ErrEndpointNotFound)
		}

		return domain.WebhookEndpoint{}, response.ErrInternalServerError(fmt.Errorf("h.svc.GetEndpoint -> %w", err))
	}

	if respErr := h.requireOrganizer(ctx, endpoint.FestivalID); respErr != nil {
		return domain.WebhookEndpoint{}, respErr
	}

	return endpoint, nil
}

// HandleCreateWebhook godoc
// @Summary      Register a webhook endpoint
// @Description  The signing secret is returned once in this response and never again.
// @Tags         webhooks
// @Produce      json
// @Param        festivalID   path    int  true "festival ID"
// @Param        request   body      request.CreateWebhookRequest true "request body"
// @Success      201      {object}   domain.WebhookEndpoint
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /festivals/{festivalID}/webhooks [post]
// @Security     BearerAuth
func (h *WebhookHandler) HandleCreateWebhook(ctx *gin.Context) {
	festivalID, respErr := parseIDParam(ctx, "festivalID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if respErr = h.requireOrganizer(ctx, festivalID); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.CreateWebhookRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	endpoint, err := h.svc.CreateEndpoint(ctx.Request.Context(), festivalID, req.URL, req.Events)
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateWebhook -> h.svc.CreateEndpoint -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, endpoint)
}

// HandleListWebhooks godoc
// @Summary      List a festival's webhook endpoints
// @Tags         webhooks
// @Produce      json
// @Param        festivalID   path      int  true "festival ID"
// @Success      200      {array}    domain.WebhookEndpoint
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /festivals/{festivalID}/webhooks [get]
// @Security     BearerAuth
func (h *WebhookHandler) HandleListWebhooks(ctx *gin.Context) {
	festivalID, respErr := parseIDParam(ctx, "festivalID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if respErr = h.requireOrganizer(ctx, festivalID); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	endpoints, err := h.svc.ListEndpoints(ctx.Request.Context(), festivalID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListWebhooks -> h.svc.ListEndpoints -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, endpoints)
}

// HandleGetWebhook godoc
// @Summary      Get a webhook endpoint by ID
// @Tags         webhooks
// @Produce      json
// @Param        endpointID   path      int  true "endpoint ID"
// @Success      200      {object}   domain.WebhookEndpoint
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /webhooks/{endpointID} [get]
// @Security     BearerAuth
func (h *WebhookHandler) HandleGetWebhook(ctx *gin.Context) {
	endpointID, respErr := parseIDParam(ctx, "endpointID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	endpoint, respErr := h.requireEndpointAccess(ctx, endpointID)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	ctx.JSON(http.StatusOK, endpoint)
}

// HandleUpdateWebhook godoc
// @Summary      Update a webhook endpoint
// @Tags         webhooks
// @Produce      json
// @Param        endpointID   path    int  true "endpoint ID"
// @Param        request   body      request.UpdateWebhookRequest true "request body"
// @Success      200      {object}   domain.WebhookEndpoint
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /webhooks/{endpointID} [put]
// @Security     BearerAuth
func (h *WebhookHandler) HandleUpdateWebhook(ctx *gin.Context) {
	endpointID, respErr := parseIDParam(ctx, "endpointID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if _, respErr = h.requireEndpointAccess(ctx, endpointID); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.UpdateWebhookRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	endpoint, err := h.svc.UpdateEndpoint(ctx.Request.Context(), endpointID, service.WebhookEndpointUpdate{
		URL:      req.URL,
		Events:   req.Events,
		IsActive: req.IsActive,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleUpdateWebhook -> h.svc.UpdateEndpoint -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, endpoint)
}

// HandleDeleteWebhook godoc
// @Summary      Delete a webhook endpoint
// @Tags         webhooks
// @Produce      json
// @Param        endpointID   path      int  true "endpoint ID"
// @Success      204
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /webhooks/{endpointID} [delete]
// @Security     BearerAuth
func (h *WebhookHandler) HandleDeleteWebhook(ctx *gin.Context) {
	endpointID, respErr := parseIDParam(ctx, "endpointID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if _, respErr = h.requireEndpointAccess(ctx, endpointID); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if err := h.svc.DeleteEndpoint(ctx.Request.Context(), endpointID); err != nil {
		err = fmt.Errorf("v1.HandleDeleteWebhook -> h.svc.DeleteEndpoint -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleListDeliveries godoc
// @Summary      List deliveries of a webhook endpoint
// @Tags         webhooks
// @Produce      json
// @Param        endpointID  path    int true "endpoint ID"
// @Param        page        query   int false "page number"
// @Param        per_page    query   int false "items per page"
// @Success      200      {object}   response.Paginated[domain.WebhookDelivery]
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /webhooks/{endpointID}/deliveries [get]
// @Security     BearerAuth
func (h *WebhookHandler) HandleListDeliveries(ctx *gin.Context) {
	endpointID, respErr := parseIDParam(ctx, "endpointID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if _, respErr = h.requireEndpointAccess(ctx, endpointID); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	page := request.NewPagination(ctx)

	deliveries, total, err := h.svc.ListDeliveries(ctx.Request.Context(), endpointID, page.Limit(), page.Offset())
	if err != nil {
		err = fmt.Errorf("v1.HandleListDeliveries -> h.svc.ListDeliveries -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.NewPaginated(deliveries, total, page.Page, page.PerPage))
}
