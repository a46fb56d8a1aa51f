package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/Xausdorf/account-hub/internal/domain/entity"
	"github.com/Xausdorf/account-hub/internal/domain/repository"
	"github.com/Xausdorf/account-hub/internal/usecase/account"
	"github.com/Xausdorf/account-hub/internal/usecase/generateqr"
	"github.com/Xausdorf/account-hub/internal/usecase/transfer"
)

const transferSuccessful = "Transfer successful"

type Handler struct {
	accountUC    *account.UseCase
	transferUC   *transfer.UseCase
	generateQRUC *generateqr.UseCase
}

func NewHandler(accountUC *account.UseCase, transferUC *transfer.UseCase, generateQRUC *generateqr.UseCase) *Handler {
	return &Handler{
		accountUC:    accountUC,
		transferUC:   transferUC,
		generateQRUC: generateQRUC,
	}
}

type CreateAccountRequest struct {
	AccountID string           `json:"accountId"`
	Balance   *decimal.Decimal `json:"balance"`
}

type AccountResponse struct {
	AccountID string      `json:"accountId"`
	Balance   json.Number `json:"balance"`
}

type TransferRequest struct {
	AccountFromID string           `json:"accountFromId"`
	AccountToID   string           `json:"accountToId"`
	Amount        *decimal.Decimal `json:"amount"`
}

type TransferResponse struct {
	Message            string      `json:"message"`
	TransferID         string      `json:"transferId"`
	AccountFromBalance json.Number `json:"accountFromBalance"`
	AccountToBalance   json.Number `json:"accountToBalance"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) HandleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.AccountID == "" {
		writeError(w, http.StatusBadRequest, "accountId is required")
		return
	}
	if req.Balance == nil {
		writeError(w, http.StatusBadRequest, "balance is required")
		return
	}

	acc, err := h.accountUC.Create(r.Context(), req.AccountID, *req.Balance)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, toAccountResponse(acc))
}

func (h *Handler) HandleGetAccount(w http.ResponseWriter, r *http.Request) {
	acc, err := h.accountUC.Get(r.Context(), chi.URLParam(r, "accountId"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(acc))
}

func (h *Handler) HandleResetAccounts(w http.ResponseWriter, r *http.Request) {
	if err := h.accountUC.Reset(r.Context()); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.AccountFromID == "" || req.AccountToID == "" {
		writeError(w, http.StatusBadRequest, "accountFromId and accountToId are required")
		return
	}
	if req.Amount == nil {
		writeError(w, http.StatusBadRequest, "amount is required")
		return
	}

	resp, err := h.transferUC.Execute(r.Context(), transfer.Request{
		FromAccountID: req.AccountFromID,
		ToAccountID:   req.AccountToID,
		Amount:        *req.Amount,
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, TransferResponse{
		Message:            transferSuccessful,
		TransferID:         resp.TransferID,
		AccountFromBalance: json.Number(resp.FromBalance.String()),
		AccountToBalance:   json.Number(resp.ToBalance.String()),
	})
}

func (h *Handler) HandleQR(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountId")

	amountStr := r.URL.Query().Get("amount")
	if amountStr == "" {
		writeError(w, http.StatusBadRequest, "amount query param required")
		return
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	png, err := h.generateQRUC.Execute(r.Context(), generateqr.Request{
		AccountID: accountID,
		Amount:    amount,
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(png)
}

func toAccountResponse(acc entity.Account) AccountResponse {
	return AccountResponse{
		AccountID: acc.ID(),
		Balance:   json.Number(acc.Balance().String()),
	}
}

// statusFor maps domain errors to client errors; duplicates are conflicts.
func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrInvalidAmount),
		errors.Is(err, entity.ErrInsufficientBalance),
		errors.Is(err, entity.ErrSameAccount),
		errors.Is(err, entity.ErrNegativeBalance),
		errors.Is(err, entity.ErrEmptyAccountID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, ErrorResponse{Error: msg})
}
