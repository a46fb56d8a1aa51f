package notification

import (
	"context"

	"github.com/Xausdorf/account-hub/internal/domain/entity"
)

//go:generate mockgen -source=notification.go -destination=../../usecase/transfer/mocks/mock_notification.go -package=mocks

// Notifier informs an account holder about a change to their account.
// Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, account entity.Account, message string) error
}
