package notifications

import (
	"context"

	kafkautil "shuttle/pkg/kafka"
	"shuttle/pkg/logger"
)

// Dispatcher hands booking events to the notification pipeline. Callers
// treat it as best-effort: errors are logged and swallowed, never returned
// to the booking path.
type Dispatcher interface {
	Notify(ctx context.Context, event *Event) error
}

type kafkaDispatcher struct {
	producer *kafkautil.Producer
	source   string
	log      *logger.Logger
}

func NewKafkaDispatcher(producer *kafkautil.Producer, source string, log *logger.Logger) Dispatcher {
	return &kafkaDispatcher{
		producer: producer,
		source:   source,
		log:      log,
	}
}

func (d *kafkaDispatcher) Notify(ctx context.Context, event *Event) error {
	msg := kafkautil.NewMessage().
		WithKey(event.Key()).
		WithValue(event).
		WithEventType(event.Type).
		WithSource(d.source).
		Build()

	if err := d.producer.Publish(ctx, msg); err != nil {
		return err
	}

	d.log.Debug("Notification event published",
		"event_type", event.Type,
		"key", event.Key(),
	)
	return nil
}

// NoopDispatcher drops events. Used in tests and when no broker is
// configured.
type NoopDispatcher struct{}

func (NoopDispatcher) Notify(ctx context.Context, event *Event) error {
	return nil
}
