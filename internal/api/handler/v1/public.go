package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/festivapp/festival-api/internal/api/handler/v1/request"
	"github.com/festivapp/festival-api/internal/api/handler/v1/response"
	"github.com/festivapp/festival-api/internal/domain"
	"github.com/festivapp/festival-api/internal/service"
)

// PublicHandler serves the integration API authenticated by the
// festival's API key instead of a user token.
type PublicHandler struct {
	standSvc  StandService
	ticketSvc TicketService
	walletSvc WalletService
}

func NewPublicHandler(standSvc StandService, ticketSvc TicketService, walletSvc WalletService) *PublicHandler {
	return &PublicHandler{
		standSvc:  standSvc,
		ticketSvc: ticketSvc,
		walletSvc: walletSvc,
	}
}

// HandleGetFestival godoc
// @Summary      Get the festival behind the API key
// @Tags         public
// @Produce      json
// @Success      200      {object}   domain.Festival
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Router       /public/festival [get]
// @Security     APIKeyAuth
func (h *PublicHandler) HandleGetFestival(ctx *gin.Context) {
	festival, respErr := getFestivalFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	ctx.JSON(http.StatusOK, festival)
}

// HandleListStands godoc
// @Summary      List the festival's active stands
// @Tags         public
// @Produce      json
// @Param        category  query     string  false "filter by category"
// @Success      200      {array}    domain.Stand
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /public/stands [get]
// @Security     APIKeyAuth
func (h *PublicHandler) HandleListStands(ctx *gin.Context) {
	festival, respErr := getFestivalFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	category := domain.StandCategory(ctx.Query("category"))

	stands, err := h.standSvc.ListStands(ctx.Request.Context(), festival.ID, category)
	if err != nil {
		err = fmt.Errorf("v1.PublicHandler.HandleListStands -> h.standSvc.ListStands -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	active := make([]domain.Stand, 0, len(stands))
	for _, stand := range stands {
		if stand.Status == domain.StandActive {
			active = append(active, stand)
		}
	}

	ctx.JSON(http.StatusOK, active)
}

// HandleListStandProducts godoc
// @Summary      List a stand's products
// @Tags         public
// @Produce      json
// @Param        standID   path      int  true "stand ID"
// @Success      200      {array}    domain.Product
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /public/stands/{standID}/products [get]
// @Security     APIKeyAuth
func (h *PublicHandler) HandleListStandProducts(ctx *gin.Context) {
	festival, respErr := getFestivalFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	standID, respErr := parseIDParam(ctx, "standID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	stand, err := h.standSvc.GetStand(ctx.Request.Context(), standID)
	if err != nil || stand.FestivalID != festival.ID {
		response.RenderErr(ctx, response.ErrNotFound(fmt.Errorf("stand %d not found", standID)))

		return
	}

	products, err := h.standSvc.ListProducts(ctx.Request.Context(), standID)
	if err != nil {
		err = fmt.Errorf("v1.PublicHandler.HandleListStandProducts -> h.standSvc.ListProducts -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, products)
}

// HandleListTicketTypes godoc
// @Summary      List the festival's ticket types
// @Tags         public
// @Produce      json
// @Success      200      {array}    domain.TicketType
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /public/ticket-types [get]
// @Security     APIKeyAuth
func (h *PublicHandler) HandleListTicketTypes(ctx *gin.Context) {
	festival, respErr := getFestivalFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	types, err := h.ticketSvc.ListTicketTypes(ctx.Request.Context(), festival.ID)
	if err != nil {
		err = fmt.Errorf("v1.PublicHandler.HandleListTicketTypes -> h.ticketSvc.ListTicketTypes -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, types)
}

// HandleScanTicket godoc
// @Summary      Scan a ticket at the gate
// @Tags         public
// @Accept       json
// @Produce      json
// @Param        request  body       request.ScanTicketRequest true "ticket code"
// @Success      200      {object}   domain.Ticket
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Router       /public/tickets/scan [post]
// @Security     APIKeyAuth
func (h *PublicHandler) HandleScanTicket(ctx *gin.Context) {
	festival, respErr := getFestivalFromContext(ctx)
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

	// Integration scans carry no staff identity.
	ticket, err := h.ticketSvc.ScanTicket(ctx.Request.Context(), festival.ID, req.Code, 0)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTicketNotFound):
			response.RenderErr(ctx, response.ErrNotFound(service.ErrTicketNotFound))
		case errors.Is(err, service.ErrTicketAlreadyUsed):
			response.RenderErr(ctx, response.ErrConflict(service.ErrTicketAlreadyUsed))
		case errors.Is(err, service.ErrTicketCancelled):
			response.RenderErr(ctx, response.ErrConflict(service.ErrTicketCancelled))
		default:
			response.RenderErr(ctx, response.ErrInternalServerError(
				fmt.Errorf("v1.PublicHandler.HandleScanTicket -> %w", err)))
		}

		return
	}

	ctx.JSON(http.StatusOK, ticket)
}

// HandleGetWalletByQRCode godoc
// @Summary      Look a wallet up by its QR code
// @Tags         public
// @Produce      json
// @Param        qrCode   path       string  true "wallet QR code"
// @Success      200      {object}   domain.Wallet
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /public/wallets/qr/{qrCode} [get]
// @Security     APIKeyAuth
func (h *PublicHandler) HandleGetWalletByQRCode(ctx *gin.Context) {
	festival, respErr := getFestivalFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	wallet, err := h.walletSvc.GetWalletByQRCode(ctx.Request.Context(), ctx.Param("qrCode"))
	if err != nil || wallet.FestivalID != festival.ID {
		response.RenderErr(ctx, response.ErrNotFound(fmt.Errorf("wallet not found")))

		return
	}

	ctx.JSON(http.StatusOK, wallet)
}
