// Package queue provides the Redis-backed FIFO work queue that hands jobs
// to renderer-driving workers. Delivery is at-least-once; consumers must
// tolerate duplicates.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultName is the queue key jobs are pushed to
const DefaultName = "visa_jobs"

// Message is the wire format handed to workers
type Message struct {
	JobID     string `json:"job_id"`
	PackageID string `json:"package_id"`
}

// Queue wraps a Redis list used as a FIFO queue
type Queue struct {
	client *redis.Client
	name   string
}

// New connects to Redis and returns a queue bound to name.
// An empty name selects DefaultName.
func New(redisURL, name string) (*Queue, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	if name == "" {
		name = DefaultName
	}
	return &Queue{client: redis.NewClient(opts), name: name}, nil
}

// Enqueue pushes a message onto the queue
func (q *Queue) Enqueue(ctx context.Context, msg Message) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal queue message: %w", err)
	}
	if err := q.client.LPush(ctx, q.name, b).Err(); err != nil {
		return fmt.Errorf("failed to enqueue message: %w", err)
	}
	return nil
}

// Pop blocks up to timeout for the next message. Returns (nil, nil) when the
// wait expires with nothing to deliver, so consumers poll in bounded steps
// instead of blocking indefinitely.
func (q *Queue) Pop(ctx context.Context, timeout time.Duration) (*Message, error) {
	res, err := q.client.BRPop(ctx, timeout, q.name).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to pop message: %w", err)
	}
	// BRPop returns [key, value]
	if len(res) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply length: %d", len(res))
	}
	var msg Message
	if err := json.Unmarshal([]byte(res[1]), &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal queue message: %w", err)
	}
	return &msg, nil
}

// Ping verifies the Redis connection
func (q *Queue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}

// Close releases the Redis client
func (q *Queue) Close() error {
	return q.client.Close()
}
