package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/prasetya/ridelink/internal/pkg/errs"
	"github.com/prasetya/ridelink/internal/pkg/logger"
	"github.com/prasetya/ridelink/internal/pkg/models"
)

// streamDefinition describes one JetStream stream and the subject space it
// captures. Events are published to "<topic>.<rideID>" so JetStream keeps
// per-ride ordering inside the stream.
type streamDefinition struct {
	name     string
	subjects []string
	maxAge   time.Duration
}

var streamDefinitions = []streamDefinition{
	{name: "RIDES", subjects: []string{"rides.>"}, maxAge: 7 * 24 * time.Hour},
	{name: "DRIVERS", subjects: []string{"drivers.>"}, maxAge: 2 * time.Hour},
	{name: "PAYMENTS", subjects: []string{"payments.>"}, maxAge: 7 * 24 * time.Hour},
	{name: "NOTIFICATIONS", subjects: []string{"notifications.>"}, maxAge: 24 * time.Hour},
}

// JetStreamBus is the NATS JetStream implementation of the event bus
type JetStreamBus struct {
	conn     *nats.Conn
	js       jetstream.JetStream
	contexts []jetstream.ConsumeContext
}

// NewJetStreamBus connects to NATS and ensures the streams exist
func NewJetStreamBus(url string) (*JetStreamBus, error) {
	conn, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS server: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	bus := &JetStreamBus{conn: conn, js: js}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := bus.ensureStreams(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	return bus, nil
}

func (b *JetStreamBus) ensureStreams(ctx context.Context) error {
	for _, def := range streamDefinitions {
		_, err := b.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
			Name:      def.name,
			Subjects:  def.subjects,
			Retention: jetstream.LimitsPolicy,
			Storage:   jetstream.FileStorage,
			MaxAge:    def.maxAge,
			Discard:   jetstream.DiscardOld,
		})
		if err != nil {
			return fmt.Errorf("failed to create stream %s: %w", def.name, err)
		}
	}
	return nil
}

func streamForTopic(topic string) (string, error) {
	for _, def := range streamDefinitions {
		prefix := strings.TrimSuffix(def.subjects[0], ">")
		if strings.HasPrefix(topic+".", prefix) {
			return def.name, nil
		}
	}
	return "", fmt.Errorf("no stream configured for topic %s", topic)
}

// subjectFor appends the partition key to the topic so related events share
// a subject and unrelated rides do not contend for ordering.
func subjectFor(topic, key string) string {
	return topic + "." + strings.ReplaceAll(key, ".", "_")
}

// Publish sends an event and waits for broker acknowledgment, honoring the
// caller's deadline. Events must carry a partition key: consumers filter on
// "<topic>.>", so a keyless event would land on the bare topic subject and
// never be delivered.
func (b *JetStreamBus) Publish(ctx context.Context, topic string, ev models.Event) error {
	if ev.Key() == "" {
		return fmt.Errorf("%w: event partition key is required on %s", errs.ErrInvalidInput, topic)
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	_, err = b.js.Publish(ctx, subjectFor(topic, ev.Key()), data)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, nats.ErrTimeout) {
			return fmt.Errorf("%w: topic %s", errs.ErrPublishTimeout, topic)
		}
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

// Subscribe creates a durable consumer for the (topic, group) pair and
// starts delivering events to the handler. Handler failures are Nak'd for
// redelivery; undecodable payloads are acknowledged and skipped.
func (b *JetStreamBus) Subscribe(topic, group string, handler Handler) error {
	stream, err := streamForTopic(topic)
	if err != nil {
		return err
	}

	durable := group + "-" + strings.ReplaceAll(topic, ".", "-")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	consumer, err := b.js.CreateOrUpdateConsumer(ctx, stream, jetstream.ConsumerConfig{
		Durable:       durable,
		FilterSubject: topic + ".>",
		AckPolicy:     jetstream.AckExplicitPolicy,
		DeliverPolicy: jetstream.DeliverAllPolicy,
		AckWait:       30 * time.Second,
		MaxDeliver:    5,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer %s: %w", durable, err)
	}

	consumeCtx, err := consumer.Consume(func(msg jetstream.Msg) {
		var ev models.Event
		if err := json.Unmarshal(msg.Data(), &ev); err != nil {
			logger.Warn("skipping malformed event",
				logger.String("subject", msg.Subject()),
				logger.Err(err))
			_ = msg.Ack()
			return
		}

		if err := handler(context.Background(), ev); err != nil {
			logger.Error("event handler failed, requesting redelivery",
				logger.String("subject", msg.Subject()),
				logger.String("event_type", ev.Type),
				logger.String("ride_id", ev.RideID),
				logger.Err(err))
			_ = msg.Nak()
			return
		}

		_ = msg.Ack()
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming %s: %w", durable, err)
	}

	b.contexts = append(b.contexts, consumeCtx)
	return nil
}

// IsConnected reports whether the underlying NATS connection is up
func (b *JetStreamBus) IsConnected() bool {
	return b.conn != nil && b.conn.IsConnected()
}

// Close stops all consumers and closes the connection
func (b *JetStreamBus) Close() {
	for _, cc := range b.contexts {
		cc.Stop()
	}
	if b.conn != nil {
		b.conn.Close()
	}
}
