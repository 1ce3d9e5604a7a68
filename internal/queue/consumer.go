package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "log/slog"
    "os"
    "path/filepath"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
)

// TripLogFile is the file, inside the consumer's log directory, that trip
// events are appended to.
const TripLogFile = "trips.log"

// StartTripConsumer connects to RabbitMQ, declares the trip.saved queue and
// appends every event to <logDir>/trips.log in a single-line format.  It
// reconnects with exponential backoff and returns only when ctx is done.
// Undecodable messages are rejected without requeue so they cannot loop.
func StartTripConsumer(ctx context.Context, url, logDir string, logger *slog.Logger) error {
    backoff := time.Second
    for {
        conn, err := dial(url, 5*time.Second)
        if err != nil {
            logger.Warn("trip-consumer: failed to dial broker", "error", err, "retry_in", backoff)
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        err = consumeLoop(ctx, conn, logDir, logger)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        logger.Warn("trip-consumer: consume loop ended, reconnecting", "error", err)
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
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

func consumeLoop(ctx context.Context, conn *amqp.Connection, logDir string, logger *slog.Logger) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        logger.Warn("trip-consumer: set QoS failed", "error", err)
    }
    if err := declare(ch); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    msgs, err := ch.Consume(TripSavedQueue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := HandleMessage(logDir, d.Body); err != nil {
                logger.Error("trip-consumer: handle message failed", "error", err)
                _ = d.Nack(false, false)
                continue
            }
            _ = d.Ack(false)
        }
    }
}

// HandleMessage decodes a TripSavedEvent and appends one line for it to
// <logDir>/trips.log.
func HandleMessage(logDir string, body []byte) error {
    var ev TripSavedEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if ev.TripID == 0 || ev.UserID == 0 {
        return errors.New("event is missing trip_id or user_id")
    }
    if err := os.MkdirAll(logDir, 0o755); err != nil {
        return fmt.Errorf("mkdir logs: %w", err)
    }
    f, err := os.OpenFile(filepath.Join(logDir, TripLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    if _, err := f.WriteString(FormatEvent(ev)); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

// FormatEvent renders ev as a single log line ending in a newline.
func FormatEvent(ev TripSavedEvent) string {
    return fmt.Sprintf("[%s] Trip saved | trip_id=%d | user_id=%d | destination=%q | days=%d | budget=%q | travelers=%d\n",
        ev.SavedAt, ev.TripID, ev.UserID, ev.Destination, ev.TravelDays, ev.Budget, ev.Travelers)
}
