package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Xausdorf/account-hub/internal/domain/entity"
	"github.com/Xausdorf/account-hub/internal/domain/notification"
	"github.com/Xausdorf/account-hub/internal/domain/repository"
)

const (
	OutcomeSuccess             = "success"
	OutcomeInvalidAmount       = "invalid_amount"
	OutcomeSameAccount         = "same_account"
	OutcomeNotFound            = "not_found"
	OutcomeInsufficientBalance = "insufficient_balance"
	OutcomeError               = "error"
)

const successMessage = "Transfer successful. Your new balance is %s"

type Request struct {
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
}

type Response struct {
	TransferID  string
	FromBalance decimal.Decimal
	ToBalance   decimal.Decimal
}

type Recorder interface {
	RecordTransfer(outcome string, elapsed time.Duration)
}

type Option func(*UseCase)

func WithLogger(logger *slog.Logger) Option {
	return func(uc *UseCase) {
		uc.logger = logger
	}
}

func WithRecorder(recorder Recorder) Option {
	return func(uc *UseCase) {
		uc.recorder = recorder
	}
}

type UseCase struct {
	uow      repository.UnitOfWork
	notifier notification.Notifier
	logger   *slog.Logger
	recorder Recorder
}

func NewUseCase(uow repository.UnitOfWork, notifier notification.Notifier, opts ...Option) *UseCase {
	uc := &UseCase{
		uow:      uow,
		notifier: notifier,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute moves req.Amount from the source to the destination account. On
// any error no balance has changed. Every successful call is a separate
// transfer; there is no deduplication of repeated requests.
func (uc *UseCase) Execute(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	sender, receiver, t, err := uc.commit(ctx, req)
	if uc.recorder != nil {
		uc.recorder.RecordTransfer(Outcome(err), time.Since(start))
	}
	if err != nil {
		uc.logger.WarnContext(ctx, "transfer rejected",
			"from_account", req.FromAccountID,
			"to_account", req.ToAccountID,
			"amount", req.Amount.String(),
			"error", err,
		)
		return nil, err
	}

	uc.logger.InfoContext(ctx, "transfer committed",
		"transfer_id", t.ID().String(),
		"from_account", sender.ID(),
		"to_account", receiver.ID(),
		"amount", t.Amount().String(),
	)

	uc.notify(ctx, t, sender)
	uc.notify(ctx, t, receiver)

	return &Response{
		TransferID:  t.ID().String(),
		FromBalance: sender.Balance(),
		ToBalance:   receiver.Balance(),
	}, nil
}

func (uc *UseCase) commit(ctx context.Context, req Request) (entity.Account, entity.Account, *entity.Transfer, error) {
	t, err := entity.NewTransfer(req.FromAccountID, req.ToAccountID, req.Amount)
	if err != nil {
		return entity.Account{}, entity.Account{}, nil, err
	}

	tx, err := uc.uow.Begin(ctx, t.FromAccount(), t.ToAccount())
	if err != nil {
		return entity.Account{}, entity.Account{}, nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	sender, err := tx.Accounts().FindByID(ctx, t.FromAccount())
	if err != nil {
		return entity.Account{}, entity.Account{}, nil, err
	}

	receiver, err := tx.Accounts().FindByID(ctx, t.ToAccount())
	if err != nil {
		return entity.Account{}, entity.Account{}, nil, err
	}

	sender, err = sender.Debit(t.Amount())
	if err != nil {
		return entity.Account{}, entity.Account{}, nil, err
	}

	receiver, err = receiver.Credit(t.Amount())
	if err != nil {
		return entity.Account{}, entity.Account{}, nil, err
	}

	if err := tx.Accounts().UpdateBalance(ctx, sender.ID(), sender.Balance()); err != nil {
		return entity.Account{}, entity.Account{}, nil, err
	}

	if err := tx.Accounts().UpdateBalance(ctx, receiver.ID(), receiver.Balance()); err != nil {
		return entity.Account{}, entity.Account{}, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return entity.Account{}, entity.Account{}, nil, fmt.Errorf("commit transfer %s: %w", t.ID(), err)
	}

	return sender, receiver, t, nil
}

// notify runs after the commit. A failed notification is logged and never
// affects the transfer result.
func (uc *UseCase) notify(ctx context.Context, t *entity.Transfer, account entity.Account) {
	msg := fmt.Sprintf(successMessage, account.Balance().String())
	if err := uc.notifier.Notify(ctx, account, msg); err != nil {
		uc.logger.ErrorContext(ctx, "transfer notification failed",
			"transfer_id", t.ID().String(),
			"account_id", account.ID(),
			"error", err,
		)
	}
}

func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, entity.ErrInvalidAmount):
		return OutcomeInvalidAmount
	case errors.Is(err, entity.ErrSameAccount):
		return OutcomeSameAccount
	case errors.Is(err, repository.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, entity.ErrInsufficientBalance):
		return OutcomeInsufficientBalance
	default:
		return OutcomeError
	}
}
