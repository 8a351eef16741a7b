package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sales_tracker/internal/sales"
)

// salesHandler holds the sales service and implements HTTP handlers for sales operations.
type salesHandler struct {
	salesService *sales.Service
	logger       *zap.Logger
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(salesService *sales.Service, logger *zap.Logger) *salesHandler {
	return &salesHandler{
		salesService: salesService,
		logger:       logger,
	}
}

// handleCreateSale handles the POST /sales endpoint. Requires an
// authenticated user; the new sale always starts as "not called".
func (h *salesHandler) handleCreateSale(ctx *gin.Context) {
	var req struct {
		Name        string `json:"name"`
		Number      string `json:"number"`
		InstallDate string `json:"install_date"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	// A bare date parses to midnight, so today's date counts as past
	// once the day has started. Matches the dashboard this replaces.
	var installDate time.Time
	if req.InstallDate != "" {
		var err error
		installDate, err = time.Parse("2006-01-02", req.InstallDate)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid install_date, expected YYYY-MM-DD"})
			return
		}
	}

	sale, err := h.salesService.CreateSale(req.Name, req.Number, installDate, currentUserID(ctx))
	if err != nil {
		h.logger.Error("failed to create sale", zap.Error(err))
		switch {
		case errors.Is(err, sales.ErrValidation):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, sales.ErrUnauthenticated):
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		case errors.Is(err, sales.ErrDataAccess):
			ctx.JSON(http.StatusBadGateway, gin.H{"error": "failed to save sale"})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create sale"})
		}
		return
	}

	ctx.JSON(http.StatusCreated, sale)
}

// handleUpdateStatus handles PATCH /sales/:id/status. Any of the four
// status values is a valid target regardless of the current one.
func (h *salesHandler) handleUpdateStatus(ctx *gin.Context) {
	saleID := ctx.Param("id")
	var req struct {
		Status string `json:"status"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.salesService.UpdateSaleStatus(saleID, req.Status); err != nil {
		switch {
		case errors.Is(err, sales.ErrNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "sale not found"})
		case errors.Is(err, sales.ErrInvalidStatus), errors.Is(err, sales.ErrEmptyID):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, sales.ErrDataAccess):
			ctx.JSON(http.StatusBadGateway, gin.H{"error": "failed to update sale status"})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"id": saleID, "status": req.Status})
}

// handleListSales handles GET /sales. Without filters it returns every
// sale in the store; user_id and status narrow the result.
func (h *salesHandler) handleListSales(ctx *gin.Context) {
	userID := ctx.Query("user_id")
	status := ctx.Query("status")

	results, metadata, err := h.salesService.SearchSales(userID, status)
	if err != nil {
		h.logger.Error("error searching sales",
			zap.String("user_id_filter", userID),
			zap.String("status_filter", status),
			zap.Error(err),
		)
		switch {
		case errors.Is(err, sales.ErrInvalidStatus):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, sales.ErrDataAccess):
			ctx.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch sales"})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search sales"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"results": results, "metadata": metadata})
}

// handleEarnings handles GET /earnings: the payout estimate over the
// current sale list, computed at request time.
func (h *salesHandler) handleEarnings(ctx *gin.Context) {
	list, err := h.salesService.ListSales()
	if err != nil {
		h.logger.Error("failed to fetch sales for earnings", zap.Error(err))
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch sales"})
		return
	}

	ctx.JSON(http.StatusOK, sales.ComputeEarningsReport(list, time.Now()))
}
