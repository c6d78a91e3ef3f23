package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/badnails/mfs-ledger/internal/core/ports/services"
	"github.com/badnails/mfs-ledger/internal/dto"
	"github.com/badnails/mfs-ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{accountService: as}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("/me", h.getOwnAccount)
		accounts.GET("/me/balance", h.getOwnBalance)
		accounts.GET("/:id", h.getAccount)
		accounts.GET("", h.listAccounts)
		accounts.PUT("/:id/status", h.updateAccountStatus)
	}
}

// getOwnAccount godoc
// @Summary Get own account
// @Description Returns the authenticated caller's account.
// @Tags accounts
// @Produce json
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/me [get]
func (h *accountHandler) getOwnAccount(c *gin.Context) {
	accountID, ok := callerAccountID(c)
	if !ok {
		return
	}

	account, err := h.accountService.GetAccountByID(c.Request.Context(), accountID)
	if err != nil {
		respondServiceError(c, err, "Failed to get account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// getOwnBalance godoc
// @Summary Get own balance
// @Description Returns the authenticated caller's available and current balances.
// @Tags accounts
// @Produce json
// @Success 200 {object} dto.BalanceResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/me/balance [get]
func (h *accountHandler) getOwnBalance(c *gin.Context) {
	accountID, ok := callerAccountID(c)
	if !ok {
		return
	}

	account, err := h.accountService.GetAccountByID(c.Request.Context(), accountID)
	if err != nil {
		respondServiceError(c, err, "Failed to get balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceResponse(account))
}

// getAccount godoc
// @Summary Get account by ID
// @Description Returns an account by its ID. Callers see their own account; admins see any.
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/{id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	actingID, ok := callerAccountID(c)
	if !ok {
		return
	}
	targetID := c.Param("id")

	if targetID != actingID {
		acting, err := h.accountService.GetAccountByID(c.Request.Context(), actingID)
		if err != nil {
			respondServiceError(c, err, "Failed to get account")
			return
		}
		if !acting.IsAdmin() {
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
			return
		}
	}

	account, err := h.accountService.GetAccountByID(c.Request.Context(), targetID)
	if err != nil {
		respondServiceError(c, err, "Failed to get account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List accounts
// @Description Returns a paginated account listing. Admin only.
// @Tags accounts
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} dto.AccountResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	actingID, ok := callerAccountID(c)
	if !ok {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), actingID, limit, offset)
	if err != nil {
		respondServiceError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// updateAccountStatus godoc
// @Summary Update account status
// @Description Transitions an account's lifecycle status (UNVERIFIED/ACTIVE/SUSPENDED). Admin only.
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param status body dto.UpdateAccountStatusRequest true "New status"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/{id}/status [put]
func (h *accountHandler) updateAccountStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actingID, ok := callerAccountID(c)
	if !ok {
		return
	}

	var req dto.UpdateAccountStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateAccountStatus", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	account, err := h.accountService.UpdateAccountStatus(c.Request.Context(), actingID, c.Param("id"), req.Status)
	if err != nil {
		respondServiceError(c, err, "Failed to update account status")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}
