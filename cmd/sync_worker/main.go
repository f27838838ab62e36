package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-scheduler/config"
	"github.com/oksasatya/go-ddd-scheduler/internal/application"
	"github.com/oksasatya/go-ddd-scheduler/internal/container"
	"github.com/oksasatya/go-ddd-scheduler/pkg/helpers"
)

// sync_worker replays queued back-reference repairs and periodically
// reconciles every user's event set.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-sync", cfg.Env)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := container.OpenStore(ctx, cfg, logger, false)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer store.Close()

	sync := application.NewSynchronizer(store.Users(), store.Events(), logger, nil)

	sched := cron.New()
	if cfg.ReconcileCron != "" {
		_, err := sched.AddFunc(cfg.ReconcileCron, func() {
			rctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
			defer cancel()
			if err := sync.ReconcileAll(rctx); err != nil {
				helpers.LogError(logger, "reconcile failed", err, nil)
			}
		})
		if err != nil {
			log.Fatalf("invalid RECONCILE_CRON %q: %v", cfg.ReconcileCron, err)
		}
		sched.Start()
		defer func() { <-sched.Stop().Done() }()
	}

	done := make(chan struct{})
	if cfg.SyncRepairEnabled {
		consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQSyncQueue, 16)
		if err != nil {
			log.Fatalf("failed to connect to rabbitmq: %v", err)
		}
		defer consumer.Close()
		msgs, err := consumer.Deliveries()
		if err != nil {
			log.Fatalf("consume: %v", err)
		}
		runner := application.NewRepairRunner(sync, application.RetryPolicy{
			MaxAttempts: cfg.SyncRetryMax,
			BaseDelay:   cfg.SyncRetryBaseDelay,
			MaxDelay:    cfg.SyncRetryMaxDelay,
		}, logger)
		go func() {
			defer close(done)
			for msg := range msgs {
				handle(ctx, runner, consumer, logger, msg)
			}
		}()
		helpers.LogInfo(logger, "sync worker listening", logrus.Fields{
			"queue":       cfg.RabbitMQSyncQueue,
			"retry_queue": helpers.RetryQueue(cfg.RabbitMQSyncQueue),
			"dead_queue":  helpers.DeadQueue(cfg.RabbitMQSyncQueue),
		})
	} else {
		close(done)
		logger.Info("SYNC_REPAIR_ENABLED=false; only periodic reconcile runs")
	}

	<-ctx.Done()
	logger.Info("shutting down...")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

func handle(ctx context.Context, runner *application.RepairRunner, consumer *helpers.RabbitConsumer, logger *logrus.Logger, msg amqp.Delivery) {
	jctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	attempts := helpers.RetryCount(msg.Headers)
	outcome, delay := runner.Handle(jctx, msg.Body, attempts)

	var err error
	switch outcome {
	case application.RepairDone:
		err = msg.Ack(false)
	case application.RepairRetry:
		err = consumer.Retry(jctx, msg, attempts+1, delay)
	case application.RepairGiveUp:
		err = consumer.DeadLetter(jctx, msg, attempts+1)
	default:
		err = msg.Nack(false, false)
	}
	if err != nil {
		// broker trouble; leave the message with the broker and slow down
		helpers.LogError(logger, "sync message settle failed", err, logrus.Fields{"outcome": outcome.String()})
		_ = msg.Nack(false, true)
		select {
		case <-ctx.Done():
		case <-time.After(time.Second):
		}
	}
}
