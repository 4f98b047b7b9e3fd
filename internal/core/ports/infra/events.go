package infra

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionPostedEvent is emitted after a posting commits.
type TransactionPostedEvent struct {
	TransactionID int64           `json:"transactionID"`
	VoucherNo     string          `json:"voucherNo,omitempty"`
	Category      string          `json:"category"`
	FromOwnerID   string          `json:"fromOwnerID"`
	ToOwnerID     string          `json:"toOwnerID"`
	Amount        decimal.Decimal `json:"amount"`
	PostedBy      string          `json:"postedBy"`
	PostedAt      time.Time       `json:"postedAt"`
}

// EventPublisher delivers posting events to downstream consumers (notifications).
type EventPublisher interface {
	PublishTransactionPosted(ctx context.Context, event TransactionPostedEvent) error
}
