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

type TicketService interface {
	CreateTicketType(ctx context.Context, ticketType domain.TicketType) (domain.TicketType, error)
	ListTicketTypes(ctx context.Context, festivalID uint) ([]domain.TicketType, error)
	PurchaseTicket(ctx context.Context, ticketTypeID, userID uint, paymentMethodID string) (domain.Ticket, error)
	GetTicketByCode(ctx context.Context, festivalID uint, code string) (domain.Ticket, error)
	ScanTicket(ctx context.Context, festivalID uint, code string, scannedBy uint) (domain.Ticket, error)
	CancelTicket(ctx context.Context, festivalID uint, code string) (domain.Ticket, error)
	GetUserTickets(ctx context.Context, userID, festivalID uint) ([]domain.Ticket, error)
}

type TicketHandler struct {
	svc  TicketService
	fSvc FestivalService
	uSvc UserService
}

func NewTicketHandler(svc TicketService, fSvc FestivalService, uSvc UserService) *TicketHandler {
	return &TicketHandler{
		svc:  svc,
		fSvc: fSvc,
		uSvc: uSvc,
	}
}

func (h *TicketHandler) requireOrganizer(ctx *gin.Context, festivalID uint) *response.Err {
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

// HandleCreateTicketType godoc
// @Summary      Create a ticket type for a festival
// @Tags         tickets
// @Produce      json
// @Param        festivalID   path    int  true "festival ID"
// @Param        request   body      request.CreateTicketTypeRequest true "request body"
// @Success      201      {object}   domain.TicketType
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /festivals/{festivalID}/ticket-types [post]
// @Security     BearerAuth
func (h *TicketHandler) HandleCreateTicketType(ctx *gin.Context) {
	festivalID, respErr := parseIDParam(ctx, "festivalID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if respErr = h.requireOrganizer(ctx, festivalID); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.CreateTicketTypeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	ticketType, err := h.svc.CreateTicketType(ctx.Request.Context(), req.ToDomain(festivalID))
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateTicketType -> h.svc.CreateTicketType -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, ticketType)
}

// HandleListTicketTypes godoc
// @Summary      List ticket types of a festival
// @Tags         tickets
// @Produce      json
// @Param        festivalID   path      int  true "festival ID"
// @Success      200      {array}    domain.TicketType
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /festivals/{festivalID}/ticket-types [get]
// @Security     BearerAuth
func (h *TicketHandler) HandleListTicketTypes(ctx *gin.Context) {
	festivalID, respErr := parseIDParam(ctx, "festivalID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	types, err := h.svc.ListTicketTypes(ctx.Request.Context(), festivalID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListTicketTypes -> h.svc.ListTicketTypes -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, types)
}

// HandlePurchaseTicket godoc
// @Summary      Buy a ticket
// @Tags         tickets
// @Produce      json
// @Param        festivalID   path    int  true "festival ID"
// @Param        request   body      request.PurchaseTicketRequest true "request body"
// @Success      201      {object}   domain.Ticket
// @Failure      400      {object}   response.Err
// @Failure      402      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      422      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /festivals/{festivalID}/tickets/purchase [post]
// @Security     BearerAuth
func (h *TicketHandler) HandlePurchaseTicket(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.PurchaseTicketRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	ticket, err := h.svc.PurchaseTicket(ctx.Request.Context(), req.TicketTypeID, user.ID, req.PaymentMethodID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTicketTypeNotFound):
			response.RenderErr(ctx, response.ErrNotFound(service.ErrTicketTypeNotFound))
		case errors.Is(err, service.ErrSaleNotOpen):
			response.RenderErr(ctx, response.ErrUnprocessable(service.ErrSaleNotOpen))
		case errors.Is(err, service.ErrQuotaExhausted):
			response.RenderErr(ctx, response.ErrUnprocessable(service.ErrQuotaExhausted))
		case errors.Is(err, service.ErrPaymentFailed):
			response.RenderErr(ctx, &response.Err{
				StatusCode: http.StatusPaymentRequired,
				ErrorMsg:   service.ErrPaymentFailed.Error(),
			})
		default:
			err = fmt.Errorf("v1.HandlePurchaseTicket -> h.svc.PurchaseTicket -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusCreated, ticket)
}

// HandleGetMyTickets godoc
// @Summary      List the current user's tickets for a festival
// @Tags         tickets
// @Produce      json
// @Param        festivalID   path      int  true "festival ID"
// @Success      200      {array}    domain.Ticket
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /festivals/{festivalID}/tickets [get]
// @Security     BearerAuth
func (h *TicketHandler) HandleGetMyTickets(ctx *gin.Context) {
	festivalID, respErr := parseIDParam(ctx, "festivalID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	tickets, err := h.svc.GetUserTickets(ctx.Request.Context(), user.ID, festivalID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetMyTickets -> h.svc.GetUserTickets -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, tickets)
}

// HandleScanTicket godoc
// @Summary      Scan a ticket at the gate
// @Tags         tickets
// @Produce      json
// @Param        festivalID   path    int  true "festival ID"
// @Param        request   body      request.ScanTicketRequest true "request body"
// @Success      200      {object}   domain.Ticket
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /festivals/{festivalID}/tickets/scan [post]
// @Security     BearerAuth
func (h *TicketHandler) HandleScanTicket(ctx *gin.Context) {
	festivalID, respErr := parseIDParam(ctx, "festivalID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.ScanTicketRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	ticket, err := h.svc.ScanTicket(ctx.Request.Context(), festivalID, req.Code, user.ID)
	if err != nil {
		h.renderTicketErr(ctx, "v1.HandleScanTicket", err)

		return
	}

	ctx.JSON(http.StatusOK, ticket)
}

// HandleCancelTicket godoc
// @Summary      Cancel a valid ticket
// @Tags         tickets
// @Produce      json
// @Param        festivalID   path    int  true "festival ID"
// @Param        request   body      request.ScanTicketRequest true "request body"
// @Success      200      {object}   domain.Ticket
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /festivals/{festivalID}/tickets/cancel [post]
// @Security     BearerAuth
func (h *TicketHandler) HandleCancelTicket(ctx *gin.Context) {
	festivalID, respErr := parseIDParam(ctx, "festivalID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if respErr = h.requireOrganizer(ctx, festivalID); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.ScanTicketRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	ticket, err := h.svc.CancelTicket(ctx.Request.Context(), festivalID, req.Code)
	if err != nil {
		h.renderTicketErr(ctx, "v1.HandleCancelTicket", err)

		return
	}

	ctx.JSON(http.StatusOK, ticket)
}

func (h *TicketHandler) renderTicketErr(ctx *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrTicketNotFound):
		response.RenderErr(ctx, response.ErrNotFound(service.ErrTicketNotFound))
	case errors.Is(err, service.ErrTicketAlreadyUsed):
		response.RenderErr(ctx, response.ErrConflict(service.ErrTicketAlreadyUsed))
	case errors.Is(err, service.ErrTicketCancelled):
		response.RenderErr(ctx, response.ErrConflict(service.ErrTicketCancelled))
	default:
		response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("%s -> %w", op, err)))
	}
}
