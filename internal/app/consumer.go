package app

import (
	"context"
	"fmt"

	"e-approval/internal/config"
	"e-approval/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer delivers lifecycle notifications from Kafka until ctx is cancelled.
func RunConsumer(ctx context.Context, cfg *config.Config) error {
	logger := zap.L().Named("app.consumer")

	if !cfg.Kafka.OutboxEnabled() {
		return fmt.Errorf("kafka.brokers (APP_KAFKA_BROKERS) is required for the consumer")
	}

	infra, err := connect(cfg, true, logger)
	if err != nil {
		return err
	}
	defer infra.Close()

	m, err := buildModules(cfg, infra.sqlDB, infra.gormDB, infra.redis, zap.L())
	if err != nil {
		return err
	}

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        cfg.Kafka.Brokers,
		Topic:          cfg.Kafka.Topic,
		GroupID:        cfg.Kafka.GroupID,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	consumer.ConsumeRequestLifecycle(ctx, reader, m.dispatcher, zap.L())

	logger.Info("consumer shutting down")
	return nil
}
