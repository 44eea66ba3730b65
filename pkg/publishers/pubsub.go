package publishers

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// pubsubPublisher publishes room events to a GCP topic, ordered per room.
type pubsubPublisher struct {
	sink
	client *pubsub.Client
	topic  *pubsub.Topic
}

func newPubSubPublisher(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.PubSub == nil {
		return nil, fmt.Errorf("publisher %q missing pubsub configuration", cfg.ID)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var opts []option.ClientOption
	if cfg.PubSub.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.PubSub.CredentialsFile))
	}
	client, err := pubsub.NewClient(ctx, cfg.PubSub.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}

	topic := client.Topic(cfg.PubSub.Topic)
	topic.EnableMessageOrdering = true
	return &pubsubPublisher{
		sink:   newSink(cfg.ID, TypePubSub, log),
		client: client,
		topic:  topic,
	}, nil
}

// Publish waits for the server to acknowledge the message.
func (p *pubsubPublisher) Publish(ctx context.Context, evt Event) error {
	body, err := evt.MarshalBody()
	if err != nil {
		return p.report(evt, "encode room event", err, nil)
	}

	res := p.topic.Publish(ctx, &pubsub.Message{
		Data:        body,
		Attributes:  evt.attributes(),
		OrderingKey: evt.Room.ID,
	})
	id, err := res.Get(ctx)
	if err != nil {
		// A failed key is paused until resumed; the next poll retries it.
		p.topic.ResumePublish(evt.Room.ID)
		return p.report(evt, "publish to pubsub", err, nil)
	}
	return p.report(evt, "", nil, map[string]any{"message_id": id})
}

// Close flushes pending messages and releases the client.
func (p *pubsubPublisher) Close() error {
	p.topic.Stop()
	return p.client.Close()
}
