package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"eapmetrics/internal/model"
)

// ResponseEvent announces a stored response
type ResponseEvent struct {
	SurveyID   string       `json:"surveyId"`
	ResponseID string       `json:"responseId"`
	Branch     model.Branch `json:"branch"`
	At         time.Time    `json:"at"`
}

// ChangeFeed carries response notifications over Redis Pub/Sub
type ChangeFeed interface {
	Publish(ctx context.Context, ev *ResponseEvent) error
	// Subscribe delivers events until ctx is done or the returned stop is called
	Subscribe(ctx context.Context) (<-chan ResponseEvent, func() error)
}

type changeFeed struct {
	client  *redis.Client
	channel string
}

// NewChangeFeed creates a change feed on the given channel
func NewChangeFeed(client *redis.Client, channel string) ChangeFeed {
	return &changeFeed{
		client:  client,
		channel: channel,
	}
}

func (f *changeFeed) Publish(ctx context.Context, ev *ResponseEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return f.client.Publish(ctx, f.channel, data).Err()
}

func (f *changeFeed) Subscribe(ctx context.Context) (<-chan ResponseEvent, func() error) {
	sub := f.client.Subscribe(ctx, f.channel)
	out := make(chan ResponseEvent, 64)

	go func() {
		defer close(out)
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev ResponseEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					slog.Warn("dropping malformed change event", slog.String("error", err.Error()))
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, sub.Close
}
