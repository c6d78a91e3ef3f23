package handlers

import (
	"net/http"

	portssvc "github.com/badnails/mfs-ledger/internal/core/ports/services"
	"github.com/badnails/mfs-ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

// reversalHandler handles HTTP requests for the reversal engine.
type reversalHandler struct {
	reversalService portssvc.ReversalSvcFacade
}

func newReversalHandler(rs portssvc.ReversalSvcFacade) *reversalHandler {
	return &reversalHandler{reversalService: rs}
}

// registerReversalRoutes registers the reversal routes under /transactions.
func registerReversalRoutes(rg *gin.RouterGroup, reversalService portssvc.ReversalSvcFacade) {
	h := newReversalHandler(reversalService)

	transactions := rg.Group("/transactions")
	{
		transactions.GET("/:id/revert-eligibility", h.checkEligibility)
		transactions.POST("/:id/revert", h.executeRevert)
	}
}

// checkEligibility godoc
// @Summary Check revert eligibility
// @Description Reports whether the transaction can be reverted now, with projected balances and any shortfall. Read-only.
// @Tags reversals
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.RevertEligibilityResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/{id}/revert-eligibility [get]
func (h *reversalHandler) checkEligibility(c *gin.Context) {
	if _, ok := callerAccountID(c); !ok {
		return
	}
	transactionID := c.Param("id")

	eligibility, err := h.reversalService.CheckEligibility(c.Request.Context(), transactionID)
	if err != nil {
		respondServiceError(c, err, "Failed to check revert eligibility")
		return
	}
	c.JSON(http.StatusOK, dto.ToRevertEligibilityResponse(transactionID, eligibility))
}

// executeRevert godoc
// @Summary Revert a transaction
// @Description Performs the compensating movement and flips the original transaction to REVERTED. Admin only.
// @Tags reversals
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 201 {object} dto.TransactionResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already reverted or not completed"
// @Failure 422 {object} ErrorResponse "Funds already spent onward"
// @Security BearerAuth
// @Router /transactions/{id}/revert [post]
func (h *reversalHandler) executeRevert(c *gin.Context) {
	adminID, ok := callerAccountID(c)
	if !ok {
		return
	}

	reversal, err := h.reversalService.ExecuteRevert(c.Request.Context(), c.Param("id"), adminID)
	if err != nil {
		respondServiceError(c, err, "Failed to revert transaction")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(reversal))
}
