package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"shuttle/internal/notifications"
	kafkautil "shuttle/pkg/kafka"
	kafkaconfig "shuttle/pkg/kafka/config"
	"shuttle/pkg/logger"
)

const (
	ServiceName   = "shuttle-notifier"
	ConsumerGroup = "shuttle-notifier"
)

func main() {
	log := logger.New(logger.Config{
		Level:   "info",
		Format:  "json",
		Service: ServiceName,
	})

	kafkaCfg, err := kafkaconfig.Load()
	if err != nil {
		log.Fatal("Failed to load Kafka configuration", "error", err)
	}

	handler := notifications.NewEventHandler(notifications.NewLogMailer(log), log)

	consumer, err := kafkautil.NewConsumer(
		kafkaCfg,
		kafkaCfg.NotificationsTopic,
		ConsumerGroup,
		kafkaCfg.NotificationsDLQ,
		handler,
		log,
	)
	if err != nil {
		log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("Notifier started", "topic", kafkaCfg.NotificationsTopic, "group", ConsumerGroup)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Consumer stopped with error", "error", err)
	}
	log.Info("Notifier stopped")
}
