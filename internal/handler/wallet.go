package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ridebooking/internal/domain"
	"ridebooking/internal/service"
)

// WalletHandler handles HTTP requests for wallets and the transaction ledger.
type WalletHandler struct {
	walletService *service.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletService *service.WalletService) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

// TopUpRequest is the HTTP request body for a wallet top-up.
type TopUpRequest struct {
	Amount      float64 `json:"amount"`
	PaymentType string  `json:"payment_type,omitempty"` // cash, electronic
}

// WithdrawRequest is the HTTP request body for a wallet withdrawal.
type WithdrawRequest struct {
	Amount float64 `json:"amount"`
}

// BalanceResponse is the HTTP response for a balance query.
type BalanceResponse struct {
	UserID  string  `json:"user_id"`
	Balance float64 `json:"balance"`
}

// TransactionResponse is the HTTP response for a single ledger entry.
type TransactionResponse struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	Amount    float64 `json:"amount"`
	Type      string  `json:"type"`
	PaymentID string  `json:"payment_id,omitempty"`
	Date      string  `json:"date"`
}

// WalletMutationResponse is the HTTP response for top-ups and withdrawals.
type WalletMutationResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	NewBalance  float64             `json:"new_balance"`
}

// GetBalance handles GET /v1/users/:id/wallet
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID := c.Param("id")

	balance, err := h.walletService.BalanceOf(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, BalanceResponse{UserID: userID, Balance: balance})
}

// TopUp handles POST /v1/users/:id/wallet/topup
func (h *WalletHandler) TopUp(c *gin.Context) {
	var req TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	paymentType := domain.PaymentTypeElectronic
	if req.PaymentType != "" {
		paymentType = domain.PaymentType(req.PaymentType)
	}

	result, err := h.walletService.TopUp(c.Request.Context(), c.Param("id"), req.Amount, paymentType)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, WalletMutationResponse{
		Transaction: toTransactionResponse(result.Transaction),
		NewBalance:  result.NewBalance,
	})
}

// Withdraw handles POST /v1/users/:id/wallet/withdraw
func (h *WalletHandler) Withdraw(c *gin.Context) {
	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.walletService.Withdraw(c.Request.Context(), c.Param("id"), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, WalletMutationResponse{
		Transaction: toTransactionResponse(result.Transaction),
		NewBalance:  result.NewBalance,
	})
}

// ListTransactions handles GET /v1/users/:id/transactions
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	limit, offset := pageParams(c)

	txns, err := h.walletService.ListTransactions(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]TransactionResponse, 0, len(txns))
	for _, txn := range txns {
		out = append(out, toTransactionResponse(txn))
	}

	respondJSON(c, http.StatusOK, out)
}

func toTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:        txn.ID,
		UserID:    txn.UserID,
		Amount:    txn.Amount,
		Type:      string(txn.Type),
		PaymentID: txn.PaymentID,
		Date:      txn.Date.Format(time.RFC3339),
	}
}
