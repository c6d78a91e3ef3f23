package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/badnails/mfs-ledger/internal/core/domain"
	portssvc "github.com/badnails/mfs-ledger/internal/core/ports/services"
	"github.com/badnails/mfs-ledger/internal/dto"
	"github.com/badnails/mfs-ledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// maxFloatDocumentBytes caps the supporting document upload size.
const maxFloatDocumentBytes = 5 << 20

// floatHandler handles HTTP requests for the agent float top-up workflow.
type floatHandler struct {
	floatService portssvc.FloatSvcFacade
}

func newFloatHandler(fs portssvc.FloatSvcFacade) *floatHandler {
	return &floatHandler{floatService: fs}
}

// registerFloatRoutes registers the float request routes.
func registerFloatRoutes(rg *gin.RouterGroup, floatService portssvc.FloatSvcFacade) {
	h := newFloatHandler(floatService)

	floats := rg.Group("/float-requests")
	{
		floats.POST("", h.submitFloatRequest)
		floats.GET("", h.listFloatRequests)
		floats.GET("/:id", h.getFloatRequest)
		floats.GET("/:id/document", h.downloadDocument)
		floats.POST("/:id/process", h.processFloatRequest)
	}
}

// submitFloatRequest godoc
// @Summary Submit a float request
// @Description Records a PENDING top-up request for the calling agent. Multipart upload: "amount" field plus "document" file.
// @Tags float
// @Accept mpfd
// @Produce json
// @Param amount formData string true "Requested amount"
// @Param document formData file true "Supporting document (deposit slip)"
// @Success 201 {object} dto.FloatRequestResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /float-requests [post]
func (h *floatHandler) submitFloatRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	agentID, ok := callerAccountID(c)
	if !ok {
		return
	}

	amount, err := decimal.NewFromString(c.PostForm("amount"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid amount"})
		return
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Supporting document is required"})
		return
	}
	if fileHeader.Size > maxFloatDocumentBytes {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Document exceeds the 5MB size limit"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded document", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to read document"})
		return
	}
	defer file.Close()

	document, err := io.ReadAll(io.LimitReader(file, maxFloatDocumentBytes))
	if err != nil {
		logger.Error("Failed to read uploaded document", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to read document"})
		return
	}

	req := dto.SubmitFloatRequest{
		Amount:       amount,
		Document:     document,
		DocumentMime: fileHeader.Header.Get("Content-Type"),
		DocumentName: fileHeader.Filename,
	}

	request, err := h.floatService.SubmitFloatRequest(c.Request.Context(), agentID, req)
	if err != nil {
		respondServiceError(c, err, "Failed to submit float request")
		return
	}
	c.JSON(http.StatusCreated, dto.ToFloatRequestResponse(request))
}

// processFloatRequest godoc
// @Summary Process a float request
// @Description Approves or rejects a PENDING request. Approval mints the requested amount atomically. Admin only.
// @Tags float
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param decision body dto.ProcessFloatRequestRequest true "APPROVE or REJECT"
// @Success 200 {object} dto.FloatRequestResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already processed"
// @Security BearerAuth
// @Router /float-requests/{id}/process [post]
func (h *floatHandler) processFloatRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	adminID, ok := callerAccountID(c)
	if !ok {
		return
	}

	var req dto.ProcessFloatRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for processFloatRequest", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	request, err := h.floatService.ProcessFloatRequest(c.Request.Context(), c.Param("id"), adminID, req.Decision)
	if err != nil {
		respondServiceError(c, err, "Failed to process float request")
		return
	}
	c.JSON(http.StatusOK, dto.ToFloatRequestResponse(request))
}

// getFloatRequest godoc
// @Summary Get float request by ID
// @Description Returns a float request visible to the caller (owner or admin).
// @Tags float
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} dto.FloatRequestResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /float-requests/{id} [get]
func (h *floatHandler) getFloatRequest(c *gin.Context) {
	actingID, ok := callerAccountID(c)
	if !ok {
		return
	}

	request, err := h.floatService.GetFloatRequestByID(c.Request.Context(), actingID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to get float request")
		return
	}
	c.JSON(http.StatusOK, dto.ToFloatRequestResponse(request))
}

// downloadDocument godoc
// @Summary Download a float request's supporting document
// @Description Streams the stored document. Visible to the owner or an admin.
// @Tags float
// @Produce octet-stream
// @Param id path string true "Request ID"
// @Success 200 {file} binary
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /float-requests/{id}/document [get]
func (h *floatHandler) downloadDocument(c *gin.Context) {
	actingID, ok := callerAccountID(c)
	if !ok {
		return
	}

	request, err := h.floatService.GetFloatRequestByID(c.Request.Context(), actingID, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to get float request")
		return
	}

	mime := request.DocumentMime
	if mime == "" {
		mime = "application/octet-stream"
	}
	c.Header("Content-Disposition", `attachment; filename="`+request.DocumentName+`"`)
	c.Data(http.StatusOK, mime, request.Document)
}

// listFloatRequests godoc
// @Summary List float requests
// @Description Returns the caller's float requests, newest first. Admin callers see all.
// @Tags float
// @Produce json
// @Param status query string false "Filter by status (PENDING/APPROVED/REJECTED)"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination token from the previous page"
// @Success 200 {object} dto.ListFloatRequestsResponse
// @Security BearerAuth
// @Router /float-requests [get]
func (h *floatHandler) listFloatRequests(c *gin.Context) {
	actingID, ok := callerAccountID(c)
	if !ok {
		return
	}

	params := dto.ListFloatRequestsParams{Limit: 20}
	if v := c.Query("limit"); v != "" {
		if limit, err := parsePositiveInt(v, 100); err == nil {
			params.Limit = limit
		}
	}
	if v := c.Query("nextToken"); v != "" {
		params.NextToken = &v
	}
	if v := c.Query("status"); v != "" {
		status := domain.FloatRequestStatus(v)
		params.Status = &status
	}

	resp, err := h.floatService.ListFloatRequests(c.Request.Context(), actingID, params)
	if err != nil {
		respondServiceError(c, err, "Failed to list float requests")
		return
	}
	c.JSON(http.StatusOK, resp)
}
