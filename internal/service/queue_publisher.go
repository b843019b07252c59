package service

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/parksmart-reservation/internal/logger"
    "github.com/iliyamo/parksmart-reservation/internal/metrics"
    "github.com/iliyamo/parksmart-reservation/internal/queue"
)

// EventPublisher hands committed activity events to a broker.  Publishing
// is best effort: callers log failures and carry on.
type EventPublisher interface {
    PublishActivity(ctx context.Context, ev queue.ActivityEvent) error
}

// NopPublisher drops every event.  It is used when events are disabled.
type NopPublisher struct{}

func (NopPublisher) PublishActivity(context.Context, queue.ActivityEvent) error { return nil }

// ErrPublishBufferFull is returned when the publisher cannot keep up with
// committed transitions; the event is dropped.
var ErrPublishBufferFull = errors.New("activity event buffer full")

const (
    publishDialTimeout = 3 * time.Second
    publishRedialDelay = 5 * time.Second
)

// AMQPPublisher publishes events to the durable parking.activity queue.
// PublishActivity only enqueues; Run owns a single long-lived connection
// and drains the buffer, so request latency never depends on the broker.
type AMQPPublisher struct {
    url    string
    events chan queue.ActivityEvent

    // owned by Run
    conn     *amqp.Connection
    ch       *amqp.Channel
    redialAt time.Time
}

// NewAMQPPublisher returns a publisher for the broker at url buffering up
// to buffer events.
func NewAMQPPublisher(url string, buffer int) *AMQPPublisher {
    if buffer < 1 {
        buffer = 1
    }
    return &AMQPPublisher{url: url, events: make(chan queue.ActivityEvent, buffer)}
}

// PublishActivity enqueues ev without blocking.
func (p *AMQPPublisher) PublishActivity(_ context.Context, ev queue.ActivityEvent) error {
    select {
    case p.events <- ev:
        return nil
    default:
        return ErrPublishBufferFull
    }
}

// Run publishes buffered events until ctx is cancelled.  A failed publish
// drops the connection; the next event redials, at most once per
// publishRedialDelay.
func (p *AMQPPublisher) Run(ctx context.Context) {
    defer p.disconnect()
    for {
        select {
        case <-ctx.Done():
            return
        case ev := <-p.events:
            if err := p.publish(ctx, ev); err != nil {
                metrics.EventPublishFailures.Inc()
                logger.Warn("activity event publish failed",
                    "spot", ev.SpotName, "action", ev.Action, "error", err)
            }
        }
    }
}

func (p *AMQPPublisher) publish(ctx context.Context, ev queue.ActivityEvent) error {
    if err := p.connect(); err != nil {
        return err
    }
    body, err := json.Marshal(ev)
    if err != nil {
        return fmt.Errorf("marshal activity event: %w", err)
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent, // store on disk
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    pctx, cancel := context.WithTimeout(ctx, publishDialTimeout)
    defer cancel()
    if err := p.ch.PublishWithContext(pctx,
        "",                      // default exchange
        queue.ActivityQueueName, // routing key = queue name
        false,                   // mandatory
        false,                   // immediate
        pub,
    ); err != nil {
        p.disconnect()
        return fmt.Errorf("rabbitmq publish: %w", err)
    }
    return nil
}

// connect reuses the open channel or dials a new one.
func (p *AMQPPublisher) connect() error {
    if p.conn != nil && !p.conn.IsClosed() && p.ch != nil {
        return nil
    }
    p.disconnect()
    if time.Now().Before(p.redialAt) {
        return errors.New("rabbitmq unavailable, waiting to redial")
    }

    conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(publishDialTimeout)})
    if err != nil {
        p.redialAt = time.Now().Add(publishRedialDelay)
        return fmt.Errorf("rabbitmq dial: %w", err)
    }
    ch, err := conn.Channel()
    if err != nil {
        _ = conn.Close()
        p.redialAt = time.Now().Add(publishRedialDelay)
        return fmt.Errorf("rabbitmq channel open: %w", err)
    }
    // Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(
        queue.ActivityQueueName, // name
        true,                    // durable
        false,                   // autoDelete
        false,                   // exclusive
        false,                   // noWait
        nil,                     // args
    ); err != nil {
        _ = ch.Close()
        _ = conn.Close()
        p.redialAt = time.Now().Add(publishRedialDelay)
        return fmt.Errorf("rabbitmq queue declare: %w", err)
    }
    p.conn, p.ch = conn, ch
    return nil
}

func (p *AMQPPublisher) disconnect() {
    if p.ch != nil {
        _ = p.ch.Close()
        p.ch = nil
    }
    if p.conn != nil {
        _ = p.conn.Close()
        p.conn = nil
    }
}
