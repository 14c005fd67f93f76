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

type WalletService interface {
	GetOrCreateWallet(ctx context.Context, userID, festivalID uint) (domain.Wallet, error)
	GetWallet(ctx context.Context, id uint) (domain.Wallet, error)
	GetWalletByQRCode(ctx context.Context, qrCode string) (domain.Wallet, error)
	TopUp(ctx context.Context, walletID uint, amount int64, paymentMethodID string) (domain.Wallet, domain.WalletTransaction, error)
	Credit(ctx context.Context, walletID uint, amount int64, note string, performedBy *uint) (domain.Wallet, domain.WalletTransaction, error)
	Debit(ctx context.Context, req service.DebitRequest) (domain.Wallet, domain.WalletTransaction, error)
	Refund(ctx context.Context, walletID, transactionID uint, amount int64, note string, performedBy *uint) (domain.Wallet, domain.WalletTransaction, error)
	Freeze(ctx context.Context, walletID uint) (domain.Wallet, error)
	Unfreeze(ctx context.Context, walletID uint) (domain.Wallet, error)
	ListTransactions(ctx context.Context, walletID uint, limit, offset int) ([]domain.WalletTransaction, int64, error)
}

type WalletHandler struct {
	svc  WalletService
	fSvc FestivalService
	uSvc UserService
}

func NewWalletHandler(svc WalletService, fSvc FestivalService, uSvc UserService) *WalletHandler {
	return &WalletHandler{
		svc:  svc,
		fSvc: fSvc,
		uSvc: uSvc,
	}
}

// TransactionResponse pairs the updated wallet with the ledger entry
// the operation wrote.
type TransactionResponse struct {
	Wallet      domain.Wallet            `json:"wallet"`
	Transaction domain.WalletTransaction `json:"transaction"`
}

// requireWalletAccess allows the wallet's owner, the festival's
// organizer and admins through.
func (h *WalletHandler) requireWalletAccess(ctx *gin.Context, walletID uint) (domain.Wallet, domain.User, *response.Err) {
	wallet, err := h.svc.GetWallet(ctx.Request.Context(), walletID)
	if err != nil {
		if errors.Is(err, service.ErrWalletNotFound) {
			return domain.Wallet{}, domain.User{}, response.ErrNotFound(service.ErrWalletNotFound)
		}

		return domain.Wallet{}, domain.User{}, response.ErrInternalServerError(fmt.Errorf("h.svc.GetWallet -> %w", err))
	}

	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		return domain.Wallet{}, domain.User{}, respErr
	}
	if wallet.UserID == user.ID || user.Role == domain.RoleAdmin {
		return wallet, user, nil
	}

	isOrganizer, err := h.fSvc.IsOrganizer(ctx.Request.Context(), wallet.FestivalID, user.ID)
	if err != nil {
		return domain.Wallet{}, domain.User{}, response.ErrInternalServerError(fmt.Errorf("h.fSvc.IsOrganizer -> %w", err))
	}
	if !isOrganizer {
		return domain.Wallet{}, domain.User{}, response.ErrPermissionDenied()
	}

	return wallet, user, nil
}

// HandleGetOrCreateWallet godoc
// @Summary      Get or create the current user's wallet for a festival
// @Tags         wallets
// @Produce      json
// @Param        festivalID   path      int  true "festival ID"
// @Success      200      {object}   domain.Wallet
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /festivals/{festivalID}/wallet [post]
// @Security     BearerAuth
func (h *WalletHandler) HandleGetOrCreateWallet(ctx *gin.Context) {
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

	wallet, err := h.svc.GetOrCreateWallet(ctx.Request.Context(), user.ID, festivalID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetOrCreateWallet -> h.svc.GetOrCreateWallet -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, wallet)
}

// HandleGetWallet godoc
// @Summary      Get a wallet by ID
// @Tags         wallets
// @Produce      json
// @Param        walletID   path      int  true "wallet ID"
// @Success      200      {object}   domain.Wallet
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /wallets/{walletID} [get]
// @Security     BearerAuth
func (h *WalletHandler) HandleGetWallet(ctx *gin.Context) {
	walletID, respErr := parseIDParam(ctx, "walletID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	wallet, _, respErr := h.requireWalletAccess(ctx, walletID)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	ctx.JSON(http.StatusOK, wallet)
}

// HandleGetWalletByQRCode godoc
// @Summary      Resolve a wallet from a scanned QR code
// @Tags         wallets
// @Produce      json
// @Param        qrCode   path      string  true "wallet QR code"
// @Success      200      {object}   domain.Wallet
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /wallets/qr/{qrCode} [get]
// @Security     BearerAuth
func (h *WalletHandler) HandleGetWalletByQRCode(ctx *gin.Context) {
	qrCode := ctx.Param("qrCode")
	if qrCode == "" {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid qrCode")))

		return
	}

	wallet, err := h.svc.GetWalletByQRCode(ctx.Request.Context(), qrCode)
	if err != nil {
		if errors.Is(err, service.ErrWalletNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrWalletNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleGetWalletByQRCode -> h.svc.GetWalletByQRCode -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, wallet)
}

// HandleTopUp godoc
// @Summary      Buy tokens with a card payment
// @Tags         wallets
// @Produce      json
// @Param        walletID   path      int  true "wallet ID"
// @Param        request   body      request.TopUpRequest true "request body"
// @Success      200      {object}   TransactionResponse
// @Failure      400      {object}   response.Err
// @Failure      402      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      422      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /wallets/{walletID}/topup [post]
// @Security     BearerAuth
func (h *WalletHandler) HandleTopUp(ctx *gin.Context) {
	walletID, respErr := parseIDParam(ctx, "walletID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if _, _, respErr = h.requireWalletAccess(ctx, walletID); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.TopUpRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	wallet, entry, err := h.svc.TopUp(ctx.Request.Context(), walletID, req.Amount, req.PaymentMethodID)
	if err != nil {
		h.renderWalletErr(ctx, "v1.HandleTopUp", err)

		return
	}

	ctx.JSON(http.StatusOK, TransactionResponse{Wallet: wallet, Transaction: entry})
}

// HandleCredit godoc
// @Summary      Credit tokens without a card payment
// @Tags         wallets
// @Produce      json
// @Param        walletID   path      int  true "wallet ID"
// @Param        request   body      request.CreditRequest true "request body"
// @Success      200      {object}   TransactionResponse
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      422      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /wallets/{walletID}/credit [post]
// @Security     BearerAuth
func (h *WalletHandler) HandleCredit(ctx *gin.Context) {
	walletID, respErr := parseIDParam(ctx, "walletID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	wallet, user, respErr := h.requireWalletAccess(ctx, walletID)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}
	// Manual credits are an organizer action, not a self-service one.
	if wallet.UserID == user.ID && user.Role != domain.RoleAdmin {
		isOrganizer, err := h.fSvc.IsOrganizer(ctx.Request.Context(), wallet.FestivalID, user.ID)
		if err != nil || !isOrganizer {
			response.RenderErr(ctx, response.ErrPermissionDenied())

			return
		}
	}

	var req request.CreditRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	performedBy := user.ID
	updated, entry, err := h.svc.Credit(ctx.Request.Context(), walletID, req.Amount, req.Note, &performedBy)
	if err != nil {
		h.renderWalletErr(ctx, "v1.HandleCredit", err)

		return
	}

	ctx.JSON(http.StatusOK, TransactionResponse{Wallet: updated, Transaction: entry})
}

// HandleDebit godoc
// @Summary      Charge a wallet for a stand purchase
// @Tags         wallets
// @Produce      json
// @Param        walletID   path      int  true "wallet ID"
// @Param        request   body      request.DebitRequest true "request body"
// @Success      200      {object}   TransactionResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      422      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /wallets/{walletID}/debit [post]
// @Security     BearerAuth
func (h *WalletHandler) HandleDebit(ctx *gin.Context) {
	walletID, respErr := parseIDParam(ctx, "walletID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.DebitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	wallet, entry, err := h.svc.Debit(ctx.Request.Context(), service.DebitRequest{
		WalletID:    walletID,
		StandID:     req.StandID,
		ProductID:   req.ProductID,
		Quantity:    req.Quantity,
		Amount:      req.Amount,
		PerformedBy: user.ID,
		PIN:         req.PIN,
	})
	if err != nil {
		if errors.Is(err, service.ErrStaffNotFound) {
			response.RenderErr(ctx, response.ErrPermissionDenied())

			return
		}
		if errors.Is(err, service.ErrInvalidPIN) {
			response.RenderErr(ctx, response.ErrUnauthorized("staff PIN validation failed"))

			return
		}
		if errors.Is(err, service.ErrStandNotFound) || errors.Is(err, service.ErrProductNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(err))

			return
		}

		h.renderWalletErr(ctx, "v1.HandleDebit", err)

		return
	}

	ctx.JSON(http.StatusOK, TransactionResponse{Wallet: wallet, Transaction: entry})
}

// HandleRefund godoc
// @Summary      Refund (part of) a previous debit
// @Tags         wallets
// @Produce      json
// @Param        walletID   path      int  true "wallet ID"
// @Param        request   body      request.RefundRequest true "request body"
// @Success      200      {object}   TransactionResponse
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      422      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /wallets/{walletID}/refund [post]
// @Security     BearerAuth
func (h *WalletHandler) HandleRefund(ctx *gin.Context) {
	walletID, respErr := parseIDParam(ctx, "walletID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	_, user, respErr := h.requireWalletAccess(ctx, walletID)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.RefundRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	performedBy := user.ID
	wallet, entry, err := h.svc.Refund(ctx.Request.Context(), walletID, req.TransactionID, req.Amount, req.Note, &performedBy)
	if err != nil {
		if errors.Is(err, service.ErrTransactionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrTransactionNotFound))

			return
		}
		if errors.Is(err, service.ErrRefundExceedsOriginal) {
			response.RenderErr(ctx, response.ErrUnprocessable(service.ErrRefundExceedsOriginal))

			return
		}

		h.renderWalletErr(ctx, "v1.HandleRefund", err)

		return
	}

	ctx.JSON(http.StatusOK, TransactionResponse{Wallet: wallet, Transaction: entry})
}

// HandleFreeze godoc
// @Summary      Freeze a wallet
// @Tags         wallets
// @Produce      json
// @Param        walletID   path      int  true "wallet ID"
// @Success      200      {object}   domain.Wallet
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /wallets/{walletID}/freeze [post]
// @Security     BearerAuth
func (h *WalletHandler) HandleFreeze(ctx *gin.Context) {
	h.handleSetWalletStatus(ctx, h.svc.Freeze)
}

// HandleUnfreeze godoc
// @Summary      Unfreeze a wallet
// @Tags         wallets
// @Produce      json
// @Param        walletID   path      int  true "wallet ID"
// @Success      200      {object}   domain.Wallet
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /wallets/{walletID}/unfreeze [post]
// @Security     BearerAuth
func (h *WalletHandler) HandleUnfreeze(ctx *gin.Context) {
	h.handleSetWalletStatus(ctx, h.svc.Unfreeze)
}

func (h *WalletHandler) handleSetWalletStatus(ctx *gin.Context, set func(context.Context, uint) (domain.Wallet, error)) {
	walletID, respErr := parseIDParam(ctx, "walletID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if _, _, respErr = h.requireWalletAccess(ctx, walletID); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	wallet, err := set(ctx.Request.Context(), walletID)
	if err != nil {
		h.renderWalletErr(ctx, "v1.handleSetWalletStatus", err)

		return
	}

	ctx.JSON(http.StatusOK, wallet)
}

// HandleListTransactions godoc
// @Summary      List a wallet's ledger entries
// @Tags         wallets
// @Produce      json
// @Param        walletID  path      int true "wallet ID"
// @Param        page      query     int false "page number"
// @Param        per_page  query     int false "items per page"
// @Success      200      {object}   response.Paginated[domain.WalletTransaction]
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /wallets/{walletID}/transactions [get]
// @Security     BearerAuth
func (h *WalletHandler) HandleListTransactions(ctx *gin.Context) {
	walletID, respErr := parseIDParam(ctx, "walletID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if _, _, respErr = h.requireWalletAccess(ctx, walletID); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	page := request.NewPagination(ctx)

	entries, total, err := h.svc.ListTransactions(ctx.Request.Context(), walletID, page.Limit(), page.Offset())
	if err != nil {
		err = fmt.Errorf("v1.HandleListTransactions -> h.svc.ListTransactions -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.NewPaginated(entries, total, page.Page, page.PerPage))
}

// renderWalletErr maps the wallet business errors onto HTTP statuses.
func (h *WalletHandler) renderWalletErr(ctx *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrWalletNotFound):
		response.RenderErr(ctx, response.ErrNotFound(service.ErrWalletNotFound))
	case errors.Is(err, service.ErrWalletFrozen):
		response.RenderErr(ctx, response.ErrUnprocessable(service.ErrWalletFrozen))
	case errors.Is(err, service.ErrInsufficientBalance):
		response.RenderErr(ctx, response.ErrUnprocessable(service.ErrInsufficientBalance))
	case errors.Is(err, service.ErrInsufficientStock):
		response.RenderErr(ctx, response.ErrUnprocessable(service.ErrInsufficientStock))
	case errors.Is(err, service.ErrStandClosed):
		response.RenderErr(ctx, response.ErrUnprocessable(service.ErrStandClosed))
	case errors.Is(err, service.ErrPaymentFailed):
		response.RenderErr(ctx, &response.Err{
			StatusCode: http.StatusPaymentRequired,
			ErrorMsg:   service.ErrPaymentFailed.Error(),
		})
	default:
		response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("%s -> %w", op, err)))
	}
}
