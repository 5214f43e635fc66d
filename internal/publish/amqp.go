package publish

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/muurk/devscan/internal/logging"
)

const (
	reconnectDelay = 5 * time.Second // Wait between reconnect attempts
	confirmTimeout = 5 * time.Second // Wait for a broker ack before resending
	resendTimes    = 3               // Publish attempts per message
)

// AMQPPublisher publishes each message to a durable queue with publisher
// confirms, reconnecting in the background when the channel closes.
type AMQPPublisher struct {
	name string
	addr string

	mu            sync.Mutex
	connection    *amqp.Connection
	channel       *amqp.Channel
	notifyClose   chan *amqp.Error
	notifyConfirm chan amqp.Confirmation
	isConnected   bool

	done      chan struct{}
	closeOnce sync.Once
}

// NewAMQPPublisher connects to addr and declares the queue name.
func NewAMQPPublisher(name, addr string) (*AMQPPublisher, error) {
	p := &AMQPPublisher{
		name: name,
		addr: addr,
		done: make(chan struct{}),
	}
	if err := p.connect(); err != nil {
		return nil, err
	}

	logging.Info("Connected to AMQP broker", zap.String("queue", name))
	go p.handleReconnect()
	return p, nil
}

// connect dials the broker, puts the channel in confirm mode and declares
// the queue.
func (p *AMQPPublisher) connect() error {
	conn, err := amqp.Dial(p.addr)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("amqp channel: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		_ = conn.Close()
		return fmt.Errorf("amqp confirm mode: %w", err)
	}
	_, err = ch.QueueDeclare(
		p.name,
		true,  // Durable
		false, // Delete when unused
		false, // Exclusive
		false, // No-wait
		nil,   // Arguments
	)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("amqp queue declare: %w", err)
	}

	p.mu.Lock()
	select {
	case <-p.done:
		p.mu.Unlock()
		_ = conn.Close()
		return errAlreadyClosed
	default:
	}
	p.connection = conn
	p.channel = ch
	p.notifyClose = ch.NotifyClose(make(chan *amqp.Error, 1))
	p.notifyConfirm = ch.NotifyPublish(make(chan amqp.Confirmation, 1))
	p.isConnected = true
	p.mu.Unlock()
	return nil
}

func (p *AMQPPublisher) handleReconnect() {
	for {
		p.mu.Lock()
		notifyClose := p.notifyClose
		p.mu.Unlock()

		select {
		case <-p.done:
			return
		case err := <-notifyClose:
			p.mu.Lock()
			p.isConnected = false
			p.mu.Unlock()
			logging.Warn("AMQP channel closed, reconnecting", zap.Any("reason", err))
		}

		for {
			select {
			case <-p.done:
				return
			case <-time.After(reconnectDelay):
			}
			if err := p.connect(); err != nil {
				logging.Debug("AMQP reconnect failed", zap.Error(err))
				continue
			}
			logging.Info("Reconnected to AMQP broker")
			break
		}
	}
}

// Push implements Publisher. The message is resent until the broker acks
// it, up to three attempts.
func (p *AMQPPublisher) Push(ctx context.Context, data []byte) error {
	var lastErr error
	for attempt := 1; attempt <= resendTimes; attempt++ {
		confirm, err := p.publish(data)
		if err != nil {
			lastErr = err
			logging.Debug("AMQP push failed", zap.Int("attempt", attempt), zap.Error(err))
			continue
		}

		select {
		case c, ok := <-confirm:
			if ok && c.Ack {
				return nil
			}
			lastErr = fmt.Errorf("broker nacked message")
		case <-time.After(confirmTimeout):
			lastErr = fmt.Errorf("no confirmation within %s", confirmTimeout)
		case <-ctx.Done():
			return ctx.Err()
		}
		logging.Debug("AMQP push not confirmed", zap.Int("attempt", attempt), zap.Error(lastErr))
	}
	return lastErr
}

// publish sends data without waiting for the broker's confirmation.
func (p *AMQPPublisher) publish(data []byte) (<-chan amqp.Confirmation, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.isConnected {
		return nil, errNotConnected
	}
	err := p.channel.Publish(
		"",     // Exchange
		p.name, // Routing key
		false,  // Mandatory
		false,  // Immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         data,
			Timestamp:    time.Now(),
		},
	)
	return p.notifyConfirm, err
}

// Close implements Publisher
func (p *AMQPPublisher) Close() error {
	closed := false
	p.closeOnce.Do(func() {
		close(p.done)
		closed = true
	})
	if !closed {
		return errAlreadyClosed
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.isConnected {
		return nil
	}
	p.isConnected = false

	if err := p.channel.Close(); err != nil {
		return err
	}
	return p.connection.Close()
}
