package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"cloud.google.com/go/pubsub"
	"github.com/SscSPs/trust_ledger/internal/core/ports/infra"
	"google.golang.org/api/option"
)

// EventTransactionPosted is the "event" attribute of posting messages.
const EventTransactionPosted = "transaction.posted"

// PubSubPublisher publishes posting events to a Google Cloud Pub/Sub topic.
type PubSubPublisher struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

var _ infra.EventPublisher = (*PubSubPublisher)(nil)

// NewPubSubPublisher connects to projectID and makes sure the topic exists.
func NewPubSubPublisher(ctx context.Context, projectID, topicID, credentialsJSON string) (*PubSubPublisher, error) {
	var opts []option.ClientOption
	if strings.TrimSpace(credentialsJSON) != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}
	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	topic := client.Topic(topicID)
	ok, err := topic.Exists(ctx)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to check topic %q: %w", topicID, err)
	}
	if !ok {
		if topic, err = client.CreateTopic(ctx, topicID); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("create topic %q: %w", topicID, err)
		}
	}
	return &PubSubPublisher{client: client, topic: topic}, nil
}

// NewMessage builds the Pub/Sub message for a posting event.
func NewMessage(event infra.TransactionPostedEvent) (*pubsub.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal posting event: %w", err)
	}
	return &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"event":         EventTransactionPosted,
			"transactionID": strconv.FormatInt(event.TransactionID, 10),
			"category":      event.Category,
		},
	}, nil
}

// PublishTransactionPosted publishes and waits for the server ack.
func (p *PubSubPublisher) PublishTransactionPosted(ctx context.Context, event infra.TransactionPostedEvent) error {
	msg, err := NewMessage(event)
	if err != nil {
		return err
	}
	if _, err := p.topic.Publish(ctx, msg).Get(ctx); err != nil {
		return fmt.Errorf("failed to publish posting event for transaction %d: %w", event.TransactionID, err)
	}
	return nil
}

// Close flushes pending messages and closes the client.
func (p *PubSubPublisher) Close() error {
	p.topic.Stop()
	return p.client.Close()
}
