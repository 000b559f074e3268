package notifications

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
	"golang.org/x/sys/unix"

	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/logging"
	"github.com/smartdetector/iot-alerting/pkg/types"
)

const eventSource string = "github.com/smartdetector/iot-alerting"

type subscriber struct {
	endpoint string
	patterns []*regexp.Regexp
}

// interested reports whether the subscriber wants alerts from deviceID. A
// subscriber without id patterns gets everything.
func (s subscriber) interested(deviceID string) bool {
	if len(s.patterns) == 0 {
		return true
	}

	for _, p := range s.patterns {
		if p.MatchString(deviceID) {
			return true
		}
	}

	return false
}

type cloudEventSender struct {
	client      cloudevents.Client
	subscribers map[string][]subscriber
}

// NewCloudEventSender posts alerts as cloud events to the subscribers
// configured for the event type.
func NewCloudEventSender(cfg *Config) (Notifier, error) {
	c, err := cloudevents.NewClientHTTP()
	if err != nil {
		return nil, err
	}

	e := &cloudEventSender{
		client:      c,
		subscribers: make(map[string][]subscriber),
	}

	if cfg == nil {
		return e, nil
	}

	for _, n := range cfg.Notifications {
		for _, s := range n.Subscribers {
			sub := subscriber{endpoint: s.Endpoint}

			for _, info := range s.Information {
				for _, entity := range info.Entities {
					if entity.IDPattern == "" {
						continue
					}

					p, err := regexp.Compile(entity.IDPattern)
					if err != nil {
						return nil, fmt.Errorf("invalid id pattern for subscriber %s: %w", s.Endpoint, err)
					}
					sub.patterns = append(sub.patterns, p)
				}
			}

			e.subscribers[n.Type] = append(e.subscribers[n.Type], sub)
		}
	}

	return e, nil
}

func (e *cloudEventSender) Notify(ctx context.Context, msg *types.AlertCreated) error {
	subscribers, ok := e.subscribers[msg.TopicName()]
	if !ok || len(subscribers) == 0 {
		return nil
	}

	event := cloudevents.NewEvent()
	event.SetID(uuid.NewString())
	event.SetTime(msg.Timestamp)
	event.SetSource(eventSource)
	event.SetType(msg.TopicName())
	event.SetSubject(msg.DeviceID)

	err := event.SetData(msg.ContentType(), msg)
	if err != nil {
		return err
	}

	logger := logging.GetFromContext(ctx)

	var errs []error

	for _, s := range subscribers {
		if !s.interested(msg.DeviceID) {
			continue
		}

		ctxWithTarget := cloudevents.ContextWithTarget(ctx, s.endpoint)

		result := e.client.Send(ctxWithTarget, event)
		if cloudevents.IsUndelivered(result) || errors.Is(result, unix.ECONNREFUSED) || !cloudevents.IsACK(result) {
			logger.Error().Err(result).Msgf("failed to send event to %s", s.endpoint)
			errs = append(errs, fmt.Errorf("%s: %w", s.endpoint, result))
		}
	}

	return errors.Join(errs...)
}
