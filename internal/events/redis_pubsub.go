package events

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RedisPublisher struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisPublisher(client *redis.Client, log *zap.Logger) *RedisPublisher {
	return &RedisPublisher{client: client, log: log}
}

// Publish is fire-and-forget for callers: failures are logged and returned,
// and services ignore them.
func (p *RedisPublisher) Publish(ctx context.Context, channel string, event Event) error {
	event.Channel = channel
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, channel, data).Err(); err != nil {
		p.log.Warn("event publish failed", zap.String("channel", channel), zap.String("type", event.Type), zap.Error(err))
		return err
	}
	return nil
}

type RedisSubscriber struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisSubscriber(client *redis.Client, log *zap.Logger) *RedisSubscriber {
	return &RedisSubscriber{client: client, log: log}
}

func (s *RedisSubscriber) Subscribe(ctx context.Context, handler func(Event), channels ...string) error {
	if len(channels) == 0 {
		return errors.New("no channels to subscribe")
	}
	pubsub := s.client.Subscribe(ctx, channels...)
	// Ждём подтверждения подписки, иначе первые события теряются
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return err
	}
	ch := pubsub.Channel()

	go func() {
		defer pubsub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				event, err := decode(msg.Channel, msg.Payload)
				if err != nil {
					s.log.Error("failed to unmarshal event", zap.String("channel", msg.Channel), zap.Error(err))
					continue
				}
				handler(event)
			}
		}
	}()

	return nil
}

func decode(channel, payload string) (Event, error) {
	var event Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return Event{}, err
	}
	event.Channel = channel
	return event, nil
}
