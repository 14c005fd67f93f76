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

type StandService interface {
	CreateStand(ctx context.Context, stand domain.Stand) (domain.Stand, error)
	GetStand(ctx context.Context, id uint) (domain.Stand, error)
	ListStands(ctx context.Context, festivalID uint, category domain.StandCategory) ([]domain.Stand, error)
	UpdateStand(ctx context.Context, id uint, upd domain.StandUpdate) (domain.Stand, error)
	DeleteStand(ctx context.Context, id uint) error
	ActivateStand(ctx context.Context, id uint) (domain.Stand, error)
	DeactivateStand(ctx context.Context, id uint) (domain.Stand, error)
	AssignStaff(ctx context.Context, standID, userID uint, role domain.StaffRole, pin string) (domain.StandStaff, error)
	RemoveStaff(ctx context.Context, standID, userID uint) error
	GetStaff(ctx context.Context, standID uint) ([]domain.StandStaff, error)
	GetUserStands(ctx context.Context, userID uint) ([]domain.Stand, error)
	ValidateStaffPIN(ctx context.Context, standID, userID uint, pin string) error
	CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	GetProduct(ctx context.Context, id uint) (domain.Product, error)
	ListProducts(ctx context.Context, standID uint) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, id uint, upd domain.ProductUpdate) (domain.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
	IsStandManager(ctx context.Context, standID, userID uint) (bool, error)
}

type StandHandler struct {
	svc  StandService
	fSvc FestivalService
	uSvc UserService
}

func NewStandHandler(svc StandService, fSvc FestivalService, uSvc UserService) *StandHandler {
	return &StandHandler{
		svc:  svc,
		fSvc: fSvc,
		uSvc: uSvc,
	}
}

// requireStandAccess allows admins, the festival's organizer and the
// stand's manager through.
func (h *StandHandler) requireStandAccess(ctx *gin.Context, standID uint) (domain.Stand, *response.Err) {
	stand, err := h.svc.GetStand(ctx.Request.Context(), standID)
	if err != nil {
		if errors.Is(err, service.ErrStandNotFound) {
			return domain.Stand{}, response.ErrNotFound(service.ErrStandNotFound)
		}

		return domain.Stand{}, response.ErrInternalServerError(fmt.Errorf("h.svc.GetStand -> %w", err))
	}

	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		return domain.Stand{}, respErr
	}
	if user.Role == domain.RoleAdmin {
		return stand, nil
	}

	isOrganizer, err := h.fSvc.IsOrganizer(ctx.Request.Context(), stand.FestivalID, user.ID)
	if err != nil {
		return domain.Stand{}, response.ErrInternalServerError(fmt.Errorf("h.fSvc.IsOrganizer -> %w", err))
	}
	if isOrganizer {
		return stand, nil
	}

	isManager, err := h.svc.IsStandManager(ctx.Request.Context(), standID, user.ID)
	if err != nil {
		return domain.Stand{}, response.ErrInternalServerError(fmt.Errorf("h.svc.IsStandManager -> %w", err))
	}
	if !isManager {
		return domain.Stand{}, response.ErrPermissionDenied()
	}

	return stand, nil
}

// HandleCreateStand godoc
// @Summary      Create a stand in a festival
// @Tags         stands
// @Produce      json
// @Param        festivalID   path    int  true "festival ID"
// @Param        request   body      request.CreateStandRequest true "request body"
// @Success      201      {object}   domain.Stand
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /festivals/{festivalID}/stands [post]
// @Security     BearerAuth
func (h *StandHandler) HandleCreateStand(ctx *gin.Context) {
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
	if user.Role != domain.RoleAdmin {
		isOrganizer, err := h.fSvc.IsOrganizer(ctx.Request.Context(), festivalID, user.ID)
		if err != nil {
			if errors.Is(err, service.ErrFestivalNotFound) {
				response.RenderErr(ctx, response.ErrNotFound(service.ErrFestivalNotFound))

				return
			}

			err = fmt.Errorf("v1.HandleCreateStand -> h.fSvc.IsOrganizer -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))

			return
		}
		if !isOrganizer {
			response.RenderErr(ctx, response.ErrPermissionDenied())

			return
		}
	}

	var req request.CreateStandRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	stand, err := h.svc.CreateStand(ctx.Request.Context(), req.ToDomain(festivalID))
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateStand -> h.svc.CreateStand -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, stand)
}

// HandleListStands godoc
// @Summary      List stands of a festival
// @Tags         stands
// @Produce      json
// @Param        festivalID   path      int     true  "festival ID"
// @Param        category     query     string  false "filter by category"
// @Success      200      {array}    domain.Stand
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /festivals/{festivalID}/stands [get]
// @Security     BearerAuth
func (h *StandHandler) HandleListStands(ctx *gin.Context) {
	festivalID, respErr := parseIDParam(ctx, "festivalID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	category := domain.StandCategory(ctx.Query("category"))

	stands, err := h.svc.ListStands(ctx.Request.Context(), festivalID, category)
	if err != nil {
		err = fmt.Errorf("v1.HandleListStands -> h.svc.ListStands -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, stands)
}

// HandleGetStand godoc
// @Summary      Get a stand by ID
// @Tags         stands
// @Produce      json
// @Param        standID   path      int  true "stand ID"
// @Success      200      {object}   domain.Stand
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /stands/{standID} [get]
// @Security     BearerAuth
func (h *StandHandler) HandleGetStand(ctx *gin.Context) {
	standID, respErr := parseIDParam(ctx, "standID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	stand, err := h.svc.GetStand(ctx.Request.Context(), standID)
	if err != nil {
		if errors.Is(err, service.ErrStandNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrStandNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleGetStand -> h.svc.GetStand -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, stand)
}

// HandleUpdateStand godoc
// @Summary      Update a stand
// @Tags         stands
// @Produce      json
// @Param        standID   path      int  true "stand ID"
// @Param        request   body      request.UpdateStandRequest true "request body"
// @Success      200      {object}   domain.Stand
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /stands/{standID} [put]
// @Security     BearerAuth
func (h *StandHandler) HandleUpdateStand(ctx *gin.Context) {
	standID, respErr := parseIDParam(ctx, "standID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if _, respErr = h.requireStandAccess(ctx, standID); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.UpdateStandRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	stand, err := h.svc.UpdateStand(ctx.Request.Context(), standID, req.ToDomain())
	if err != nil {
		err = fmt.Errorf("v1.HandleUpdateStand -> h.svc.UpdateStand -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, stand)
}

// HandleDeleteStand godoc
// @Summary      Delete a stand
// @Tags         stands
// @Produce      json
// @Param        standID   path      int  true "stand ID"
// @Success      204
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /stands/{standID} [delete]
// @Security     BearerAuth
func (h *StandHandler) HandleDeleteStand(ctx *gin.Context) {
	standID, respErr := parseIDParam(ctx, "standID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if _, respErr = h.requireStandAccess(ctx, standID); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if err := h.svc.DeleteStand(ctx.Request.Context(), standID); err != nil {
		err = fmt.Errorf("v1.HandleDeleteStand -> h.svc.DeleteStand -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleActivateStand godoc
// @Summary      Activate a stand
// @Tags         stands
// @Produce      json
// @Param        standID   path      int  true "stand ID"
// @Success      200      {object}   domain.Stand
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /stands/{standID}/activate [post]
// @Security     BearerAuth
func (h *StandHandler) HandleActivateStand(ctx *gin.Context) {
	h.handleSetStandStatus(ctx, h.svc.ActivateStand)
}

// HandleDeactivateStand godoc
// @Summary      Deactivate a stand
// @Tags         stands
// @Produce      json
// @Param        standID   path      int  true "stand ID"
// @Success      200      {object}   domain.Stand
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /stands/{standID}/deactivate [post]
// @Security     BearerAuth
func (h *StandHandler) HandleDeactivateStand(ctx *gin.Context) {
	h.handleSetStandStatus(ctx, h.svc.DeactivateStand)
}

func (h *StandHandler) handleSetStandStatus(ctx *gin.Context, set func(context.Context, uint) (domain.Stand, error)) {
	standID, respErr := parseIDParam(ctx, "standID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if _, respErr = h.requireStandAccess(ctx, standID); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	stand, err := set(ctx.Request.Context(), standID)
	if err != nil {
		err = fmt.Errorf("v1.handleSetStandStatus -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, stand)
}

// HandleAssignStaff godoc
// @Summary      Assign a user as stand staff
// @Tags         stands
// @Produce      json
// @Param        standID   path      int  true "stand ID"
// @Param        request   body      request.AssignStaffRequest true "request body"
// @Success      201      {object}   domain.StandStaff
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /stands/{standID}/staff [post]
// @Security     BearerAuth
func (h *StandHandler) HandleAssignStaff(ctx *gin.Context) {
	standID, respErr := parseIDParam(ctx, "standID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if _, respErr = h.requireStandAccess(ctx, standID); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.AssignStaffRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	staff, err := h.svc.AssignStaff(ctx.Request.Context(), standID, req.UserID, domain.StaffRole(req.Role), req.PIN)
	if err != nil {
		if errors.Is(err, service.ErrStaffAlreadyAssigned) {
			response.RenderErr(ctx, response.ErrConflict(service.ErrStaffAlreadyAssigned))

			return
		}
		if errors.Is(err, service.ErrStandNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrStandNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleAssignStaff -> h.svc.AssignStaff -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, staff)
}

// HandleRemoveStaff godoc
// @Summary      Remove a staff member from a stand
// @Tags         stands
// @Produce      json
// @Param        standID   path      int  true "stand ID"
// @Param        userID    path      int  true "user ID"
// @Success      204
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /stands/{standID}/staff/{userID} [delete]
// @Security     BearerAuth
func (h *StandHandler) HandleRemoveStaff(ctx *gin.Context) {
	standID, respErr := parseIDParam(ctx, "standID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}
	userID, respErr := parseIDParam(ctx, "userID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if _, respErr = h.requireStandAccess(ctx, standID); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if err := h.svc.RemoveStaff(ctx.Request.Context(), standID, userID); err != nil {
		if errors.Is(err, service.ErrStaffNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrStaffNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleRemoveStaff -> h.svc.RemoveStaff -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleGetStaff godoc
// @Summary      List staff of a stand
// @Tags         stands
// @Produce      json
// @Param        standID   path      int  true "stand ID"
// @Success      200      {array}    domain.StandStaff
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /stands/{standID}/staff [get]
// @Security     BearerAuth
func (h *StandHandler) HandleGetStaff(ctx *gin.Context) {
	standID, respErr := parseIDParam(ctx, "standID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if _, respErr = h.requireStandAccess(ctx, standID); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	staff, err := h.svc.GetStaff(ctx.Request.Context(), standID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetStaff -> h.svc.GetStaff -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, staff)
}

// HandleValidatePIN godoc
// @Summary      Validate a staff member's PIN
// @Tags         stands
// @Produce      json
// @Param        standID   path      int  true "stand ID"
// @Param        request   body      request.ValidatePINRequest true "request body"
// @Success      200      {object}   map[string]bool
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /stands/{standID}/staff/validate-pin [post]
// @Security     BearerAuth
func (h *StandHandler) HandleValidatePIN(ctx *gin.Context) {
	standID, respErr := parseIDParam(ctx, "standID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.ValidatePINRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	err := h.svc.ValidateStaffPIN(ctx.Request.Context(), standID, req.UserID, req.PIN)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPIN) {
			ctx.JSON(http.StatusOK, gin.H{"valid": false})

			return
		}
		if errors.Is(err, service.ErrStaffNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrStaffNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleValidatePIN -> h.svc.ValidateStaffPIN -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"valid": true})
}

// HandleGetMyStands godoc
// @Summary      List the stands the current user staffs
// @Tags         stands
// @Produce      json
// @Success      200      {array}    domain.Stand
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /me/stands [get]
// @Security     BearerAuth
func (h *StandHandler) HandleGetMyStands(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	stands, err := h.svc.GetUserStands(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetMyStands -> h.svc.GetUserStands -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, stands)
}

// HandleCreateProduct godoc
// @Summary      Add a product to a stand
// @Tags         products
// @Produce      json
// @Param        standID   path      int  true "stand ID"
// @Param        request   body      request.CreateProductRequest true "request body"
// @Success      201      {object}   domain.Product
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /stands/{standID}/products [post]
// @Security     BearerAuth
func (h *StandHandler) HandleCreateProduct(ctx *gin.Context) {
	standID, respErr := parseIDParam(ctx, "standID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if _, respErr = h.requireStandAccess(ctx, standID); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.CreateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	product, err := h.svc.CreateProduct(ctx.Request.Context(), req.ToDomain(standID))
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateProduct -> h.svc.CreateProduct -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, product)
}

// HandleListProducts godoc
// @Summary      List products of a stand
// @Tags         products
// @Produce      json
// @Param        standID   path      int  true "stand ID"
// @Success      200      {array}    domain.Product
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /stands/{standID}/products [get]
// @Security     BearerAuth
func (h *StandHandler) HandleListProducts(ctx *gin.Context) {
	standID, respErr := parseIDParam(ctx, "standID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	products, err := h.svc.ListProducts(ctx.Request.Context(), standID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListProducts -> h.svc.ListProducts -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, products)
}

// HandleUpdateProduct godoc
// @Summary      Update a product
// @Tags         products
// @Produce      json
// @Param        productID   path      int  true "product ID"
// @Param        request   body      request.UpdateProductRequest true "request body"
// @Success      200      {object}   domain.Product
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /products/{productID} [put]
// @Security     BearerAuth
func (h *StandHandler) HandleUpdateProduct(ctx *gin.Context) {
	productID, respErr := parseIDParam(ctx, "productID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	product, err := h.svc.GetProduct(ctx.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrProductNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleUpdateProduct -> h.svc.GetProduct -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	if _, respErr = h.requireStandAccess(ctx, product.StandID); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	var req request.UpdateProductRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	updated, err := h.svc.UpdateProduct(ctx.Request.Context(), productID, req.ToDomain())
	if err != nil {
		err = fmt.Errorf("v1.HandleUpdateProduct -> h.svc.UpdateProduct -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDeleteProduct godoc
// @Summary      Delete a product
// @Tags         products
// @Produce      json
// @Param        productID   path      int  true "product ID"
// @Success      204
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /products/{productID} [delete]
// @Security     BearerAuth
func (h *StandHandler) HandleDeleteProduct(ctx *gin.Context) {
	productID, respErr := parseIDParam(ctx, "productID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	product, err := h.svc.GetProduct(ctx.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrProductNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleDeleteProduct -> h.svc.GetProduct -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	if _, respErr = h.requireStandAccess(ctx, product.StandID); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if err = h.svc.DeleteProduct(ctx.Request.Context(), productID); err != nil {
		err = fmt.Errorf("v1.HandleDeleteProduct -> h.svc.DeleteProduct -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.Status(http.StatusNoContent)
}
