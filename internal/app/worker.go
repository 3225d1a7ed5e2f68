package app

import (
	"context"
	"fmt"

	"e-approval/internal/config"
	"e-approval/internal/messaging/kafka"
	"e-approval/internal/messaging/kafka/producer"
	"e-approval/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker relays outbox rows to Kafka until ctx is cancelled.
func RunWorker(ctx context.Context, cfg *config.Config) error {
	logger := zap.L().Named("app.worker")

	if !cfg.Kafka.OutboxEnabled() {
		return fmt.Errorf("kafka.brokers (APP_KAFKA_BROKERS) is required for the outbox worker")
	}

	infra, err := connect(cfg, false, logger)
	if err != nil {
		return err
	}
	defer infra.Close()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.Kafka.Brokers, cfg.Database.MaxRetries)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(infra.sqlDB)

	producer.ProcessOutboxEvents(ctx, outboxRepo, kafkaWriter, zap.L(), cfg.Kafka.PollInterval)

	logger.Info("worker shutting down")
	return nil
}
