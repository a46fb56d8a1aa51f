package notifier

import (
	"context"
	"log/slog"

	"github.com/Xausdorf/account-hub/internal/domain/entity"
)

// LogNotifier writes notifications to the structured log instead of
// delivering them to the account holder.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, account entity.Account, message string) error {
	n.logger.InfoContext(ctx, "account notification",
		"account_id", account.ID(),
		"balance", account.Balance().String(),
		"message", message,
	)
	return nil
}
