package queue

import (
    "context"
    "encoding/json"
    "fmt"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher publishes trip events to RabbitMQ.  Each publish opens its own
// connection, so a broker outage only affects the publish that hits it.
type Publisher struct {
    URL         string
    DialTimeout time.Duration
}

// NewPublisher returns a Publisher for url with a 2s dial timeout.
func NewPublisher(url string) *Publisher {
    return &Publisher{URL: url, DialTimeout: 2 * time.Second}
}

func dial(url string, timeout time.Duration) (*amqp.Connection, error) {
    if timeout <= 0 {
        return amqp.Dial(url)
    }
    return amqp.DialConfig(url, amqp.Config{
        Heartbeat: 10 * time.Second,
        Locale:    "en_US",
        Dial:      amqp.DefaultDial(timeout),
    })
}

// declare ensures the queue exists (idempotent).  Durable so messages
// survive broker restarts.
func declare(ch *amqp.Channel) error {
    _, err := ch.QueueDeclare(
        TripSavedQueue, // name
        true,           // durable
        false,          // autoDelete
        false,          // exclusive
        false,          // noWait
        nil,            // args
    )
    return err
}

// PublishTripSaved publishes ev to the trip.saved queue as a persistent
// JSON message.
func (p *Publisher) PublishTripSaved(ctx context.Context, ev TripSavedEvent) error {
    body, err := json.Marshal(ev)
    if err != nil {
        return fmt.Errorf("marshal event: %w", err)
    }

    conn, err := dial(p.URL, p.DialTimeout)
    if err != nil {
        return fmt.Errorf("dial broker: %w", err)
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := declare(ch); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent, // store on disk
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx,
        "",             // default exchange
        TripSavedQueue, // routing key = queue name
        false,          // mandatory
        false,          // immediate
        pub,
    ); err != nil {
        return fmt.Errorf("publish: %w", err)
    }
    return nil
}
