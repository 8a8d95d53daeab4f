package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ledgerbook/finance-tracker/internal/api/metrics"
	"github.com/ledgerbook/finance-tracker/internal/core/domain"
	"github.com/ledgerbook/finance-tracker/internal/core/ports"
)

// TransactionHandler handles the ledger endpoints and the stats summary.
type TransactionHandler struct {
	service ports.TransactionService
	stats   ports.StatsService
}

func NewTransactionHandler(service ports.TransactionService, stats ports.StatsService) *TransactionHandler {
	return &TransactionHandler{service: service, stats: stats}
}

// List returns the caller's transactions, newest date first.
//
// @Summary      List transactions
// @Tags         transactions
// @Produce      json
// @Success      200  {object}  transactionListResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/transactions [get]
func (h *TransactionHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	txs, err := h.service.List(c.Request().Context(), user)
	if err != nil {
		return err
	}
	if txs == nil {
		txs = []domain.Transaction{}
	}
	return c.JSON(http.StatusOK, transactionListResponse{Transactions: txs})
}

// Create records a transaction for the caller.
//
// @Summary      Create transaction
// @Description  amount may be a JSON number or a numeric string.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        body  body      createTransactionRequest  true  "Transaction"
// @Success      201   {object}  transactionCreatedResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/transactions [post]
func (h *TransactionHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createTransactionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	created, err := h.service.Create(c.Request().Context(), user, ports.CreateTransactionInput{
		Type:     req.Type,
		Category: req.Category,
		Amount:   string(req.Amount),
		Date:     req.Date,
		Desc:     req.Desc,
	})
	if err != nil {
		return err
	}

	metrics.TransactionsCreatedTotal.WithLabelValues(string(created.Type)).Inc()
	return c.JSON(http.StatusCreated, transactionCreatedResponse{OK: true, ID: created.ID})
}

// Delete removes one of the caller's transactions.
//
// @Summary      Delete transaction
// @Tags         transactions
// @Produce      json
// @Param        id   path      int  true  "Transaction ID"
// @Success      200  {object}  okResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id, user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, okResponse{OK: true})
}

// Stats returns income, expense and balance over all of the caller's
// transactions.
//
// @Summary      Stats
// @Tags         transactions
// @Produce      json
// @Success      200  {object}  domain.Stats
// @Failure      401  {object}  errorResponse
// @Router       /api/stats [get]
func (h *TransactionHandler) Stats(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	stats, err := h.stats.ComputeStats(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
