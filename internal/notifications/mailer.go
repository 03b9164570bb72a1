package notifications

import (
	"context"
	"fmt"

	kafkautil "shuttle/pkg/kafka"
	"shuttle/pkg/logger"
)

// Mailer renders and delivers one notification. The SMTP hop itself lives
// outside this service; LogMailer records what would be sent and is the
// default delivery target of the notifier worker.
type Mailer interface {
	Deliver(ctx context.Context, event *Event) error
}

type LogMailer struct {
	log *logger.Logger
}

func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Deliver(ctx context.Context, event *Event) error {
	if event.Employee == nil || event.Employee.Email == "" {
		m.log.Info("Skipping notification, employee has no email",
			"event_type", event.Type,
		)
		return nil
	}

	m.log.Info("Notification rendered",
		"to", event.Employee.Email,
		"subject", Subject(event),
		"body", Body(event),
	)
	return nil
}

func Subject(event *Event) string {
	switch event.Type {
	case EventBookingConfirmed:
		return "Your shuttle seat is confirmed"
	case EventBookingCancelled:
		return "Your shuttle booking was cancelled"
	default:
		return "Shuttle booking update"
	}
}

func Body(event *Event) string {
	if event.Reservation == nil {
		return "Your shuttle booking has been updated."
	}
	switch event.Type {
	case EventBookingConfirmed:
		return fmt.Sprintf("Hi %s, your seat for %s is confirmed. Reservation reference: %s.",
			event.Employee.Name, event.Reservation.Date, event.Reservation.ID)
	case EventBookingCancelled:
		return fmt.Sprintf("Hi %s, your booking for %s has been cancelled. Reservation reference: %s.",
			event.Employee.Name, event.Reservation.Date, event.Reservation.ID)
	default:
		return fmt.Sprintf("Hi %s, your booking for %s has been updated.",
			event.Employee.Name, event.Reservation.Date)
	}
}

// NewEventHandler adapts a Mailer into a Kafka message handler for the
// notifier worker.
func NewEventHandler(mailer Mailer, log *logger.Logger) kafkautil.MessageHandler {
	return func(ctx context.Context, msg kafkautil.Message) error {
		var event Event
		if err := msg.DecodeValue(&event); err != nil {
			// Undecodable events can never succeed; let the consumer DLQ them.
			return fmt.Errorf("failed to decode notification event: %w", err)
		}

		log.Debug("Notification event received",
			"event_type", event.Type,
			"event_id", msg.GetEventID(),
		)
		return mailer.Deliver(ctx, &event)
	}
}
