package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/badnails/mfs-ledger/internal/core/domain"
	portssvc "github.com/badnails/mfs-ledger/internal/core/ports/services"
	"github.com/badnails/mfs-ledger/internal/dto"
	"github.com/badnails/mfs-ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler handles HTTP requests for money movement and transaction history.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// RegisterLedgerRoutes registers the money movement and history routes.
func RegisterLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	rg.POST("/transfers", h.transfer)

	agent := rg.Group("/agent")
	{
		agent.POST("/cash-in", h.cashIn)
		agent.POST("/cash-out", h.cashOut)
	}

	bills := rg.Group("/bills")
	{
		bills.POST("", h.issueBill)
		bills.POST("/:id/pay", h.payBill)
		bills.POST("/:id/cancel", h.cancelBill)
	}

	admin := rg.Group("/admin")
	{
		admin.POST("/adjustments", h.adminAdjust)
		admin.GET("/reports/daily-volume", h.dailyVolume)
	}

	transactions := rg.Group("/transactions")
	{
		transactions.GET("", h.listTransactions)
		transactions.GET("/:id", h.getTransaction)
	}
}

// transfer godoc
// @Summary Peer transfer
// @Description Moves the amount from the caller's account to the destination account.
// @Tags ledger
// @Accept json
// @Produce json
// @Param transfer body dto.TransferRequest true "Transfer details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Insufficient funds"
// @Security BearerAuth
// @Router /transfers [post]
func (h *ledgerHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sourceID, ok := callerAccountID(c)
	if !ok {
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for transfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	txn, err := h.ledgerService.Transfer(c.Request.Context(), sourceID, req)
	if err != nil {
		respondServiceError(c, err, "Failed to execute transfer")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// cashIn godoc
// @Summary Agent cash-in
// @Description Moves float from the calling agent to a personal customer account; commission is minted to the agent.
// @Tags ledger
// @Accept json
// @Produce json
// @Param cashIn body dto.CashRequest true "Cash-in details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Insufficient funds"
// @Security BearerAuth
// @Router /agent/cash-in [post]
func (h *ledgerHandler) cashIn(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	agentID, ok := callerAccountID(c)
	if !ok {
		return
	}

	var req dto.CashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for cash-in", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	txn, err := h.ledgerService.CashIn(c.Request.Context(), agentID, req)
	if err != nil {
		respondServiceError(c, err, "Failed to execute cash-in")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// cashOut godoc
// @Summary Agent cash-out
// @Description Moves balance from a personal customer account to the calling agent; commission is minted to the agent.
// @Tags ledger
// @Accept json
// @Produce json
// @Param cashOut body dto.CashRequest true "Cash-out details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Insufficient funds"
// @Security BearerAuth
// @Router /agent/cash-out [post]
func (h *ledgerHandler) cashOut(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	agentID, ok := callerAccountID(c)
	if !ok {
		return
	}

	var req dto.CashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for cash-out", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	txn, err := h.ledgerService.CashOut(c.Request.Context(), agentID, req)
	if err != nil {
		respondServiceError(c, err, "Failed to execute cash-out")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// issueBill godoc
// @Summary Issue a bill
// @Description Pre-creates a PENDING payment owed by the debtor to the calling biller. No money moves.
// @Tags ledger
// @Accept json
// @Produce json
// @Param bill body dto.IssueBillRequest true "Bill details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /bills [post]
func (h *ledgerHandler) issueBill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	billerID, ok := callerAccountID(c)
	if !ok {
		return
	}

	var req dto.IssueBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for issueBill", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	txn, err := h.ledgerService.IssueBill(c.Request.Context(), billerID, req)
	if err != nil {
		respondServiceError(c, err, "Failed to issue bill")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// payBill godoc
// @Summary Pay a bill
// @Description Completes a PENDING payment as the debtor, moving the money.
// @Tags ledger
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Bill no longer pending"
// @Failure 422 {object} ErrorResponse "Insufficient funds"
// @Security BearerAuth
// @Router /bills/{id}/pay [post]
func (h *ledgerHandler) payBill(c *gin.Context) {
	debtorID, ok := callerAccountID(c)
	if !ok {
		return
	}

	txn, err := h.ledgerService.PayBill(c.Request.Context(), debtorID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to pay bill")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// cancelBill godoc
// @Summary Cancel a bill
// @Description Fails a PENDING payment without moving money. Callable by the issuing biller.
// @Tags ledger
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Bill no longer pending"
// @Security BearerAuth
// @Router /bills/{id}/cancel [post]
func (h *ledgerHandler) cancelBill(c *gin.Context) {
	billerID, ok := callerAccountID(c)
	if !ok {
		return
	}

	txn, err := h.ledgerService.CancelBill(c.Request.Context(), billerID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to cancel bill")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// adminAdjust godoc
// @Summary Admin balance adjustment
// @Description Mints or burns balance on the target account. Admin only.
// @Tags admin
// @Accept json
// @Produce json
// @Param adjustment body dto.AdminAdjustRequest true "Adjustment details"
// @Success 201 {object} dto.AdjustmentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Burn exceeds available balance"
// @Security BearerAuth
// @Router /admin/adjustments [post]
func (h *ledgerHandler) adminAdjust(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	adminID, ok := callerAccountID(c)
	if !ok {
		return
	}

	var req dto.AdminAdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for adminAdjust", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.ledgerService.AdminAdjust(c.Request.Context(), adminID, req)
	if err != nil {
		respondServiceError(c, err, "Failed to execute adjustment")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// getTransaction godoc
// @Summary Get transaction by ID
// @Description Returns a transaction visible to the caller (party to it, or admin).
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/{id} [get]
func (h *ledgerHandler) getTransaction(c *gin.Context) {
	actingID, ok := callerAccountID(c)
	if !ok {
		return
	}

	txn, err := h.ledgerService.GetTransactionByID(c.Request.Context(), actingID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to get transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List transactions
// @Description Returns the caller's transaction history, newest first, with token pagination. Admin callers see all accounts.
// @Tags transactions
// @Produce json
// @Param status query string false "Filter by status"
// @Param type query string false "Filter by transaction type"
// @Param from query string false "Inclusive RFC3339 lower bound on initiation time"
// @Param to query string false "Exclusive RFC3339 upper bound on initiation time"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions [get]
func (h *ledgerHandler) listTransactions(c *gin.Context) {
	actingID, ok := callerAccountID(c)
	if !ok {
		return
	}

	params, err := parseListTransactionsParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := h.ledgerService.ListTransactions(c.Request.Context(), actingID, params)
	if err != nil {
		respondServiceError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// dailyVolume godoc
// @Summary Daily transaction volume
// @Description Aggregates completed transaction volume per day. Admin only.
// @Tags admin
// @Produce json
// @Param type query string false "Filter by transaction type"
// @Param from query string false "Inclusive RFC3339 lower bound"
// @Param to query string false "Exclusive RFC3339 upper bound"
// @Success 200 {array} dto.DailyVolumeResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/reports/daily-volume [get]
func (h *ledgerHandler) dailyVolume(c *gin.Context) {
	actingID, ok := callerAccountID(c)
	if !ok {
		return
	}

	params, err := parseListTransactionsParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	rows, err := h.ledgerService.SummarizeDailyVolume(c.Request.Context(), actingID, params)
	if err != nil {
		respondServiceError(c, err, "Failed to summarize daily volume")
		return
	}
	c.JSON(http.StatusOK, dto.ToDailyVolumeResponse(rows))
}

// parseListTransactionsParams reads the history filter query parameters.
func parseListTransactionsParams(c *gin.Context) (dto.ListTransactionsParams, error) {
	params := dto.ListTransactionsParams{Limit: 20}

	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err == nil && limit > 0 && limit <= 100 {
			params.Limit = limit
		}
	}
	if v := c.Query("nextToken"); v != "" {
		params.NextToken = &v
	}
	if v := c.Query("status"); v != "" {
		status := domain.TransactionStatus(v)
		params.Status = &status
	}
	if v := c.Query("type"); v != "" {
		txnType := domain.TransactionType(v)
		params.Type = &txnType
	}
	if v := c.Query("from"); v != "" {
		from, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return params, err
		}
		params.From = &from
	}
	if v := c.Query("to"); v != "" {
		to, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return params, err
		}
		params.To = &to
	}
	return params, nil
}
