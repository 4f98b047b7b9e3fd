package events

import (
	"context"

	"github.com/SscSPs/trust_ledger/internal/core/ports/infra"
)

// NoopPublisher drops events. Used when no topic is configured.
type NoopPublisher struct{}

var _ infra.EventPublisher = NoopPublisher{}

func (NoopPublisher) PublishTransactionPosted(context.Context, infra.TransactionPostedEvent) error {
	return nil
}
