package controller

import (
	"net/http"
	"strconv"

	"github.com/ramazansancar/stock-cost-calculator/internal/ledger"
	"github.com/ramazansancar/stock-cost-calculator/internal/models"
	"github.com/ramazansancar/stock-cost-calculator/internal/profile"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type TransactionListResponse struct {
	Transactions []models.Transaction `json:"transactions"`
	Total        int                  `json:"total"`
	Limit        int                  `json:"limit"`
	Offset       int                  `json:"offset"`
}

type ClearRequest struct {
	Confirmation string `json:"confirmation"`
}

// ListTransactions godoc
// @Summary List transactions
// @Description Page through the active profile's log, newest first
// @Tags transactions
// @Produce json
// @Param limit query int false "Page size, 0 for all"
// @Param offset query int false "Items to skip"
// @Success 200 {object} TransactionListResponse
// @Router /api/transactions [get]
func (c *Controller) ListTransactions(ctx *gin.Context) {
	var limit, offset int
	if limitStr := ctx.Query("limit"); limitStr != "" {
		if v, err := strconv.Atoi(limitStr); err == nil {
			limit = v
		}
	}
	if offsetStr := ctx.Query("offset"); offsetStr != "" {
		if v, err := strconv.Atoi(offsetStr); err == nil {
			offset = v
		}
	}

	txs, total := c.ledger.History(limit, offset)
	ctx.JSON(http.StatusOK, TransactionListResponse{
		Transactions: txs,
		Total:        total,
		Limit:        limit,
		Offset:       offset,
	})
}

// CreateTransaction godoc
// @Summary Add a transaction
// @Description Validate and append a buy or sell to the active profile
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body ledger.Draft true "Transaction draft"
// @Success 201 {object} models.Transaction
// @Failure 400 {object} APIError
// @Failure 404 {object} APIError
// @Failure 422 {object} APIError
// @Router /api/transactions [post]
func (c *Controller) CreateTransaction(ctx *gin.Context) {
	var draft ledger.Draft
	if err := ctx.ShouldBindJSON(&draft); err != nil {
		badRequestWithDetails(ctx, "invalid input", err.Error())
		return
	}

	tx, err := c.ledger.Add(draft)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidDraft) {
			unprocessable(ctx, "invalid transaction", err.Error())
			return
		}
		if errors.Is(err, profile.ErrProfileNotFound) {
			notFound(ctx, "active profile not found")
			return
		}
		c.logger.Error("failed to add transaction", "error", err)
		internalError(ctx, "failed to add transaction")
		return
	}
	ctx.JSON(http.StatusCreated, tx)
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Tags transactions
// @Param id path string true "Transaction ID"
// @Success 204
// @Failure 404 {object} APIError
// @Router /api/transactions/{id} [delete]
func (c *Controller) DeleteTransaction(ctx *gin.Context) {
	if err := c.ledger.Remove(ctx.Param("id")); err != nil {
		if errors.Is(err, ledger.ErrTransactionNotFound) {
			notFound(ctx, "transaction not found")
			return
		}
		if errors.Is(err, profile.ErrProfileNotFound) {
			notFound(ctx, "active profile not found")
			return
		}
		c.logger.Error("failed to delete transaction", "error", err)
		internalError(ctx, "failed to delete transaction")
		return
	}
	ctx.Status(http.StatusNoContent)
}

// ClearTransactions godoc
// @Summary Clear the active log
// @Description Remove every transaction of the active profile once the confirmation word matches
// @Tags transactions
// @Accept json
// @Param body body ClearRequest true "Typed confirmation word"
// @Success 204
// @Failure 400 {object} APIError
// @Failure 404 {object} APIError
// @Router /api/transactions/clear [post]
func (c *Controller) ClearTransactions(ctx *gin.Context) {
	var req ClearRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequestWithDetails(ctx, "invalid input", err.Error())
		return
	}

	if err := c.ledger.ClearAll(req.Confirmation); err != nil {
		if errors.Is(err, ledger.ErrConfirmationMismatch) {
			badRequestWithDetails(ctx, "confirmation does not match", "type "+strconv.Quote(c.ledger.ConfirmWord())+" to confirm")
			return
		}
		if errors.Is(err, profile.ErrProfileNotFound) {
			notFound(ctx, "active profile not found")
			return
		}
		c.logger.Error("failed to clear transactions", "error", err)
		internalError(ctx, "failed to clear transactions")
		return
	}
	ctx.Status(http.StatusNoContent)
}
