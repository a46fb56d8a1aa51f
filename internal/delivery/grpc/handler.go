package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Xausdorf/account-hub/internal/domain/entity"
	"github.com/Xausdorf/account-hub/internal/domain/repository"
	"github.com/Xausdorf/account-hub/internal/usecase/account"
	"github.com/Xausdorf/account-hub/internal/usecase/transfer"
)

type Handler struct {
	accountUC  *account.UseCase
	transferUC *transfer.UseCase
	allowReset bool
}

func NewHandler(accountUC *account.UseCase, transferUC *transfer.UseCase, allowReset bool) *Handler {
	return &Handler{
		accountUC:  accountUC,
		transferUC: transferUC,
		allowReset: allowReset,
	}
}

func (h *Handler) CreateAccount(ctx context.Context, req *CreateAccountRequest) (*Account, error) {
	acc, err := h.accountUC.Create(ctx, req.AccountID, req.Balance)
	if err != nil {
		return nil, toStatus(err)
	}
	return &Account{AccountID: acc.ID(), Balance: acc.Balance()}, nil
}

func (h *Handler) GetAccount(ctx context.Context, req *GetAccountRequest) (*Account, error) {
	if req.AccountID == "" {
		return nil, status.Error(codes.InvalidArgument, "account_id is required")
	}
	acc, err := h.accountUC.Get(ctx, req.AccountID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &Account{AccountID: acc.ID(), Balance: acc.Balance()}, nil
}

func (h *Handler) Transfer(ctx context.Context, req *TransferRequest) (*TransferResponse, error) {
	if req.FromAccountID == "" || req.ToAccountID == "" {
		return nil, status.Error(codes.InvalidArgument, "from_account_id and to_account_id are required")
	}

	resp, err := h.transferUC.Execute(ctx, transfer.Request{
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        req.Amount,
	})
	if err != nil {
		return nil, toStatus(err)
	}

	return &TransferResponse{
		TransferID:  resp.TransferID,
		FromBalance: resp.FromBalance,
		ToBalance:   resp.ToBalance,
	}, nil
}

func (h *Handler) ResetAccounts(ctx context.Context, _ *ResetAccountsRequest) (*ResetAccountsResponse, error) {
	if !h.allowReset {
		return nil, status.Error(codes.Unimplemented, "account reset is disabled")
	}
	if err := h.accountUC.Reset(ctx); err != nil {
		return nil, toStatus(err)
	}
	return &ResetAccountsResponse{}, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, repository.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, entity.ErrInsufficientBalance):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, entity.ErrInvalidAmount),
		errors.Is(err, entity.ErrSameAccount),
		errors.Is(err, entity.ErrNegativeBalance),
		errors.Is(err, entity.ErrEmptyAccountID):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Errorf(codes.Internal, "internal error: %v", err)
	}
}
