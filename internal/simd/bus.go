package simd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/GoSim-25-26J-441/queueing-core/pkg/models"
)

// TopicRunEvents carries every run status change.
const TopicRunEvents = "queueing.runs"

// RunEvent is published on each status transition.
type RunEvent struct {
	RunID    string           `json:"run_id"`
	Kind     models.RunKind   `json:"kind"`
	Status   models.RunStatus `json:"status"`
	Previous models.RunStatus `json:"previous,omitempty"`
	Error    string           `json:"error,omitempty"`
	At       time.Time        `json:"at"`
}

// EventBus is an in-process pub/sub for run events. Subscribers only see
// events published after they subscribed, and each subscriber sees them in
// publish order. Publish returns once every subscriber has taken the event,
// so a subscriber that stops reading holds up publishers until its context
// is done.
type EventBus struct {
	pubSub *gochannel.GoChannel
	logger *slog.Logger
}

// NewEventBus creates a bus backed by a watermill go channel.
func NewEventBus(log *slog.Logger) *EventBus {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            64,
			BlockPublishUntilSubscriberAck: true,
		},
		watermill.NewSlogLogger(log),
	)
	return &EventBus{pubSub: pubSub, logger: log}
}

// Publish sends ev to all current subscribers.
func (b *EventBus) Publish(ev RunEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding run event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("run_id", ev.RunID)
	if err := b.pubSub.Publish(TopicRunEvents, msg); err != nil {
		return fmt.Errorf("publishing run event: %w", err)
	}
	return nil
}

// Subscribe streams run events until ctx is done; the channel is then closed.
func (b *EventBus) Subscribe(ctx context.Context) (<-chan RunEvent, error) {
	messages, err := b.pubSub.Subscribe(ctx, TopicRunEvents)
	if err != nil {
		return nil, fmt.Errorf("subscribing to run events: %w", err)
	}

	out := make(chan RunEvent, 16)
	go func() {
		defer close(out)
		for msg := range messages {
			var ev RunEvent
			if err := json.Unmarshal(msg.Payload, &ev); err != nil {
				b.logger.Warn("dropping malformed run event", "message_id", msg.UUID, "error", err)
				msg.Ack()
				continue
			}
			msg.Ack()
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// Close shuts the bus down and closes every subscription.
func (b *EventBus) Close() error {
	return b.pubSub.Close()
}
