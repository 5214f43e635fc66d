package publish

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/muurk/devscan/internal/logging"
)

// RedisPublisher pushes each message onto the head of a Redis list.
type RedisPublisher struct {
	name   string
	client *redis.Client

	mu          sync.Mutex
	isConnected bool
}

// NewRedisPublisher connects to addr (a redis:// URL) and checks the
// connection with PING.
func NewRedisPublisher(ctx context.Context, name, addr string) (*RedisPublisher, error) {
	opt, err := redis.ParseURL(addr)
	if err != nil {
		return nil, fmt.Errorf("could not parse redis url: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	logging.Info("Connected to Redis", zap.String("addr", opt.Addr), zap.String("list", name))
	return &RedisPublisher{name: name, client: client, isConnected: true}, nil
}

// Push implements Publisher
func (p *RedisPublisher) Push(ctx context.Context, data []byte) error {
	p.mu.Lock()
	connected := p.isConnected
	p.mu.Unlock()
	if !connected {
		return errNotConnected
	}

	if err := p.client.LPush(ctx, p.name, data).Err(); err != nil {
		return fmt.Errorf("lpush %s: %w", p.name, err)
	}
	return nil
}

// Close implements Publisher
func (p *RedisPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.isConnected {
		return errAlreadyClosed
	}
	p.isConnected = false
	return p.client.Close()
}
