package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"resume-tailor/internal/shared/telemetry"
)

// ConsumerConfig configures Consume.
type ConsumerConfig struct {
	URL      string
	Queue    string
	Prefetch int
	// Concurrency bounds in-flight handlers.
	Concurrency int
}

// Consume delivers messages to handle until ctx is cancelled, reconnecting with backoff.
// Messages are acked on success. Undecodable bodies and permanent failures are dropped;
// transient failures are requeued once.
func Consume(ctx context.Context, cfg ConsumerConfig, handle Handler) error {
	if strings.TrimSpace(cfg.URL) == "" {
		return errors.New("AMQP_URL is required")
	}
	if strings.TrimSpace(cfg.Queue) == "" {
		cfg.Queue = DefaultQueue
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.Prefetch <= 0 {
		cfg.Prefetch = cfg.Concurrency * 2
	}

	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return nil
		}
		conn, err := amqp.Dial(cfg.URL)
		if err != nil {
			telemetry.Error("queue.dial.failed", map[string]any{"error": err, "retry_in_ms": backoff.Milliseconds()})
			if !sleep(ctx, backoff) {
				return nil
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, cfg, handle)
		_ = conn.Close()
		if ctx.Err() != nil {
			return nil
		}
		telemetry.Warn("queue.consume.restart", map[string]any{"error": err})
		if !sleep(ctx, 2*time.Second) {
			return nil
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, cfg ConsumerConfig, handle Handler) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(cfg.Prefetch, 0, false); err != nil {
		telemetry.Warn("queue.qos.failed", map[string]any{"error": err})
	}
	if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	deliveries, err := ch.Consume(cfg.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	telemetry.Info("queue.consume.start", map[string]any{"queue": cfg.Queue, "concurrency": cfg.Concurrency})

	sem := make(chan struct{}, cfg.Concurrency)
	defer func() {
		// drain in-flight handlers before the channel closes
		for i := 0; i < cap(sem); i++ {
			sem <- struct{}{}
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				_ = d.Nack(false, true)
				return ctx.Err()
			}
			go func(d amqp.Delivery) {
				defer func() { <-sem }()
				dispatch(ctx, d.Body, d.Redelivered, d, handle)
			}(d)
		}
	}
}

type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func dispatch(ctx context.Context, body []byte, redelivered bool, ack acknowledger, handle Handler) {
	msg, err := DecodeMessage(body)
	if err != nil {
		telemetry.Error("queue.message.decode_failed", map[string]any{"error": err, "bytes": len(body)})
		_ = ack.Nack(false, false)
		return
	}
	if err := handle(ctx, msg); err != nil {
		requeue := !IsPermanent(err) && !redelivered
		telemetry.Error("queue.message.failed", map[string]any{
			"resume_id":  msg.ResumeID,
			"request_id": msg.RequestID,
			"requeue":    requeue,
			"error":      err,
		})
		_ = ack.Nack(false, requeue)
		return
	}
	_ = ack.Ack(false)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
