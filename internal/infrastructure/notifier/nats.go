package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/shopspring/decimal"

	"github.com/Xausdorf/account-hub/internal/domain/entity"
)

const (
	natsReconnectWait  = time.Second
	natsMaxReconnects  = 10
	natsConnectionName = "account-hub"
)

type Message struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
	Message   string          `json:"message"`
	SentAt    time.Time       `json:"sent_at"`
}

type publisher interface {
	Publish(subject string, data []byte) error
}

// NATSNotifier publishes each notification as a JSON message. Publishing is
// fire-and-forget; delivery to the account holder is up to subscribers.
type NATSNotifier struct {
	conn    publisher
	subject string
	now     func() time.Time
	closeFn func()
}

func NewNATSNotifier(url, subject string, logger *slog.Logger) (*NATSNotifier, error) {
	opts := []nats.Option{
		nats.Name(natsConnectionName),
		nats.ReconnectWait(natsReconnectWait),
		nats.MaxReconnects(natsMaxReconnects),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	n := newNATSNotifier(conn, subject)
	n.closeFn = conn.Close
	return n, nil
}

func newNATSNotifier(conn publisher, subject string) *NATSNotifier {
	return &NATSNotifier{conn: conn, subject: subject, now: time.Now}
}

func (n *NATSNotifier) Notify(_ context.Context, account entity.Account, message string) error {
	data, err := json.Marshal(Message{
		AccountID: account.ID(),
		Balance:   account.Balance(),
		Message:   message,
		SentAt:    n.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	if err := n.conn.Publish(n.subject, data); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

func (n *NATSNotifier) Close() {
	if n.closeFn != nil {
		n.closeFn()
	}
}
