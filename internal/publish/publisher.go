package publish

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/devscan/internal/logging"
	"github.com/muurk/devscan/internal/output"
	"github.com/muurk/devscan/internal/scanner"
)

// DefaultQueue is the list or queue name used when none is configured.
const DefaultQueue = "devscan"

var (
	// ErrUnsupportedScheme is returned for broker URLs other than redis and amqp.
	ErrUnsupportedScheme = errors.New("unsupported broker scheme")

	errNotConnected  = errors.New("not connected to the broker")
	errAlreadyClosed = errors.New("already closed: not connected to the broker")
)

// Publisher pushes encoded devices to a message broker.
type Publisher interface {
	Push(ctx context.Context, data []byte) error
	Close() error
}

// New connects to the broker named by rawURL. The scheme picks the
// transport: redis:// and rediss:// push onto a list, amqp:// and
// amqps:// publish to a durable queue.
func New(ctx context.Context, rawURL, queue string) (Publisher, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid broker URL: %w", err)
	}
	if queue == "" {
		queue = DefaultQueue
	}

	switch u.Scheme {
	case "redis", "rediss":
		return NewRedisPublisher(ctx, queue, rawURL)
	case "amqp", "amqps":
		return NewAMQPPublisher(queue, rawURL)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
}

// Run publishes every device received on in until the channel closes. A
// failed push is logged and counted but does not stop the stream. It
// returns the number of devices published.
func Run(ctx context.Context, pub Publisher, in <-chan scanner.Device) (int, error) {
	published := 0
	var failed int

	for d := range in {
		data, err := output.MarshalRecord(output.NewRecord(d, time.Now()))
		if err != nil {
			failed++
			logging.Warn("Failed to encode device", zap.String("address", d.Address), zap.Error(err))
			continue
		}
		if err := pub.Push(ctx, data); err != nil {
			failed++
			logging.Warn("Failed to publish device", zap.String("address", d.Address), zap.Error(err))
			continue
		}
		published++
	}

	if failed > 0 {
		return published, fmt.Errorf("%d of %d devices not published", failed, published+failed)
	}
	return published, nil
}
