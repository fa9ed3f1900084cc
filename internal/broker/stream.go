package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pitchside/matchpipe/internal/errors"
)

const (
	// readBackoffMin and readBackoffMax bound the backoff applied when
	// reads from the stream fail.
	readBackoffMin = 100 * time.Millisecond
	readBackoffMax = 30 * time.Second

	// reclaimBatchSize caps how many pending entries are inspected per
	// reclaim pass.
	reclaimBatchSize = 100
)

// Client is the subset of redis commands the broker uses.
type Client interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	XGroupCreateMkStream(ctx context.Context, stream, group, start string) *redis.StatusCmd
	XReadGroup(ctx context.Context, a *redis.XReadGroupArgs) *redis.XStreamSliceCmd
	XAck(ctx context.Context, stream, group string, ids ...string) *redis.IntCmd
	XDel(ctx context.Context, stream string, ids ...string) *redis.IntCmd
	XPendingExt(ctx context.Context, a *redis.XPendingExtArgs) *redis.XPendingExtCmd
	XClaim(ctx context.Context, a *redis.XClaimArgs) *redis.XMessageSliceCmd
	XRange(ctx context.Context, stream, start, stop string) *redis.XMessageSliceCmd
	XRevRangeN(ctx context.Context, stream, start, stop string, count int64) *redis.XMessageSliceCmd
	XLen(ctx context.Context, stream string) *redis.IntCmd
	ZAdd(ctx context.Context, key string, members ...redis.Z) *redis.IntCmd
	ZRangeByScore(ctx context.Context, key string, opt *redis.ZRangeBy) *redis.StringSliceCmd
	ZRem(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// Config holds the stream topology and consumption knobs.
type Config struct {
	// Stream is the processing stream messages are published to.
	Stream string
	// Group is the consumer group name.
	Group string
	// Consumer is this instance's consumer name within the group. When
	// empty a unique name is generated from the hostname.
	Consumer string
	// QuarantineStream receives dead-lettered messages.
	QuarantineStream string
	// BlockTime is how long a read blocks waiting for new entries.
	BlockTime time.Duration
	// BatchSize is the maximum number of entries fetched per read.
	BatchSize int
	// DelayInterval is how often the delay index is drained.
	DelayInterval time.Duration
	// ClaimInterval is how often pending entries of dead consumers are
	// checked for reclaim.
	ClaimInterval time.Duration
	// ClaimMinIdle is how long an entry must sit unacked before another
	// consumer may claim it.
	ClaimMinIdle time.Duration
}

// Stream is the broker client. Publish adds messages to the processing
// stream; Consume leases them to exactly one consumer in the group until an
// explicit Ack, Requeue or Quarantine settles the delivery.
type Stream struct {
	client Client
	config Config
	logger *slog.Logger
}

// NewStream returns a broker client for the configured topology.
func NewStream(client Client, config Config, logger *slog.Logger) *Stream {
	if config.Consumer == "" {
		config.Consumer = defaultConsumerName()
	}
	if config.QuarantineStream == "" {
		config.QuarantineStream = config.Stream + ":quarantine"
	}
	if config.BlockTime <= 0 {
		config.BlockTime = 5 * time.Second
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 16
	}
	if config.DelayInterval <= 0 {
		config.DelayInterval = time.Second
	}
	if config.ClaimInterval <= 0 {
		config.ClaimInterval = 30 * time.Second
	}
	if config.ClaimMinIdle <= 0 {
		config.ClaimMinIdle = time.Minute
	}
	return &Stream{
		client: client,
		config: config,
		logger: logger,
	}
}

func defaultConsumerName() string {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "worker"
	}
	return fmt.Sprintf("%s-%s", hostname, uuid.Must(uuid.NewV7()).String()[:8])
}

// delayKey is the sorted set holding requeued messages keyed by their
// delivery time.
func (s *Stream) delayKey() string {
	return s.config.Stream + ":delayed"
}

// Consumer returns this instance's consumer name within the group.
func (s *Stream) Consumer() string {
	return s.config.Consumer
}

// Health reports whether the broker connection is usable.
func (s *Stream) Health(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, "broker ping")
	}
	return nil
}

// EnsureGroup creates the consumer group on the processing stream, creating
// the stream if it does not exist. An already existing group is not an
// error.
func (s *Stream) EnsureGroup(ctx context.Context) error {
	err := s.client.XGroupCreateMkStream(ctx, s.config.Stream, s.config.Group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return errors.Wrap(err, "create consumer group")
	}
	return nil
}

// Publish adds a new message to the processing stream and returns its entry
// ID.
func (s *Stream) Publish(ctx context.Context, payload []byte) (string, error) {
	return s.publish(ctx, payload, 0, time.Now())
}

func (s *Stream) publish(ctx context.Context, payload []byte, attempt int, enqueuedAt time.Time) (string, error) {
	id, err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.config.Stream,
		Values: deliveryValues(payload, attempt, enqueuedAt),
	}).Result()
	if err != nil {
		return "", errors.Wrap(err, "publish message")
	}
	return id, nil
}

// Consume starts consuming the processing stream and returns the delivery
// channel. It runs the read loop, the delay mover and the pending-entry
// reclaimer until ctx is cancelled, then closes the channel once all of
// them have stopped. Deliveries stay pending in the group until settled, so
// a consumer that stops mid-flight leaves its messages for redelivery.
func (s *Stream) Consume(ctx context.Context) (<-chan Delivery, error) {
	if err := s.EnsureGroup(ctx); err != nil {
		return nil, err
	}

	deliveries := make(chan Delivery)
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		s.readLoop(ctx, deliveries)
	}()
	go func() {
		defer wg.Done()
		s.delayLoop(ctx)
	}()
	go func() {
		defer wg.Done()
		s.reclaimLoop(ctx, deliveries)
	}()
	go func() {
		wg.Wait()
		close(deliveries)
	}()
	return deliveries, nil
}

// readLoop reads this consumer's leftover pending entries first, then new
// entries, pushing each onto the delivery channel. Read failures back off
// exponentially with jitter.
func (s *Stream) readLoop(ctx context.Context, deliveries chan<- Delivery) {
	backoff := readBackoffMin
	cursor := "0"
	for {
		if ctx.Err() != nil {
			return
		}

		messages, err := s.readOnce(ctx, cursor)
		switch {
		case err == redis.Nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			backoff = readBackoffMin
			if cursor != ">" {
				cursor = ">"
			}
			continue
		case err != nil:
			s.logger.Error("broker read failed", slog.String("stream", s.config.Stream), slog.Any("error", err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(jitterDuration(backoff)):
			}
			backoff *= 2
			if backoff > readBackoffMax {
				backoff = readBackoffMax
			}
			continue
		}
		backoff = readBackoffMin

		if cursor != ">" {
			if len(messages) == 0 {
				cursor = ">"
				continue
			}
			// Advance past the dispatched backlog. Leftover entries stay
			// pending until settled, so re-reading from "0" would hand the
			// same entries out again before the first worker finishes.
			cursor = messages[len(messages)-1].ID
		}
		now := time.Now()
		for _, message := range messages {
			select {
			case <-ctx.Done():
				return
			case deliveries <- parseDelivery(message.ID, message.Values, now):
			}
		}
	}
}

func (s *Stream) readOnce(ctx context.Context, cursor string) ([]redis.XMessage, error) {
	streams, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    s.config.Group,
		Consumer: s.config.Consumer,
		Streams:  []string{s.config.Stream, cursor},
		Count:    int64(s.config.BatchSize),
		Block:    s.config.BlockTime,
	}).Result()
	if err != nil {
		return nil, err
	}
	var messages []redis.XMessage
	for _, stream := range streams {
		messages = append(messages, stream.Messages...)
	}
	return messages, nil
}

// Ack acknowledges a settled delivery and removes its entry from the
// stream. The removal is best effort; a leftover acked entry is invisible
// to the group.
func (s *Stream) Ack(ctx context.Context, delivery Delivery) error {
	if err := s.client.XAck(ctx, s.config.Stream, s.config.Group, delivery.ID).Err(); err != nil {
		return errors.Wrap(err, "ack message")
	}
	if err := s.client.XDel(ctx, s.config.Stream, delivery.ID).Err(); err != nil {
		s.logger.Warn("delete acked entry failed", slog.String("id", delivery.ID), slog.Any("error", err))
	}
	return nil
}

// delayedEntry is the delay index member for a requeued message. The
// original delivery ID keeps members unique.
type delayedEntry struct {
	ID         string    `json:"id"`
	Payload    string    `json:"payload"`
	Attempt    int       `json:"attempt"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// Requeue schedules a delivery for redelivery after delay with its attempt
// counter incremented, then acknowledges the current delivery. The message
// waits in the delay index, not in a worker goroutine, so it survives
// restarts. If the ack fails after the schedule the delivery is eventually
// redelivered as well; the idempotent upsert absorbs the duplicate.
func (s *Stream) Requeue(ctx context.Context, delivery Delivery, delay time.Duration) error {
	member, err := json.Marshal(delayedEntry{
		ID:         delivery.ID,
		Payload:    string(delivery.Payload),
		Attempt:    delivery.Attempt + 1,
		EnqueuedAt: delivery.EnqueuedAt,
	})
	if err != nil {
		return errors.Wrap(err, "encode delayed entry")
	}
	deliverAt := time.Now().Add(delay)
	err = s.client.ZAdd(ctx, s.delayKey(), redis.Z{
		Score:  float64(deliverAt.UnixMilli()),
		Member: string(member),
	}).Err()
	if err != nil {
		return errors.Wrap(err, "schedule redelivery")
	}
	return s.Ack(ctx, delivery)
}

// delayLoop periodically moves due entries from the delay index back onto
// the processing stream. A crash between the add and the remove redelivers
// the entry once more, which the idempotent upsert absorbs.
func (s *Stream) delayLoop(ctx context.Context) {
	ticker := time.NewTicker(s.config.DelayInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.moveDueEntries(ctx); err != nil && !errors.Is(err, context.Canceled) {
				s.logger.Error("move delayed entries failed", slog.Any("error", err))
			}
		}
	}
}

func (s *Stream) moveDueEntries(ctx context.Context) error {
	members, err := s.client.ZRangeByScore(ctx, s.delayKey(), &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(time.Now().UnixMilli(), 10),
		Count: int64(s.config.BatchSize),
	}).Result()
	if err != nil {
		return errors.Wrap(err, "read delay index")
	}
	for _, member := range members {
		var entry delayedEntry
		if err := json.Unmarshal([]byte(member), &entry); err != nil {
			s.logger.Error("drop undecodable delayed entry", slog.Any("error", err))
			if err := s.client.ZRem(ctx, s.delayKey(), member).Err(); err != nil {
				return errors.Wrap(err, "remove delayed entry")
			}
			continue
		}
		if _, err := s.publish(ctx, []byte(entry.Payload), entry.Attempt, entry.EnqueuedAt); err != nil {
			return err
		}
		if err := s.client.ZRem(ctx, s.delayKey(), member).Err(); err != nil {
			return errors.Wrap(err, "remove delayed entry")
		}
	}
	return nil
}

// reclaimLoop periodically claims entries left pending by consumers that
// stopped without settling them and feeds them back onto the delivery
// channel.
func (s *Stream) reclaimLoop(ctx context.Context, deliveries chan<- Delivery) {
	ticker := time.NewTicker(s.config.ClaimInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.reclaimOnce(ctx, deliveries); err != nil && !errors.Is(err, context.Canceled) {
				s.logger.Error("reclaim pending entries failed", slog.Any("error", err))
			}
		}
	}
}

func (s *Stream) reclaimOnce(ctx context.Context, deliveries chan<- Delivery) error {
	pending, err := s.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: s.config.Stream,
		Group:  s.config.Group,
		Start:  "-",
		End:    "+",
		Count:  reclaimBatchSize,
		Idle:   s.config.ClaimMinIdle,
	}).Result()
	if err != nil {
		return errors.Wrap(err, "read pending entries")
	}

	var ids []string
	for _, entry := range pending {
		if entry.Consumer == s.config.Consumer {
			continue
		}
		ids = append(ids, entry.ID)
	}
	if len(ids) == 0 {
		return nil
	}

	messages, err := s.client.XClaim(ctx, &redis.XClaimArgs{
		Stream:   s.config.Stream,
		Group:    s.config.Group,
		Consumer: s.config.Consumer,
		MinIdle:  s.config.ClaimMinIdle,
		Messages: ids,
	}).Result()
	if err != nil {
		return errors.Wrap(err, "claim pending entries")
	}

	s.logger.Info("reclaimed pending entries", slog.Int("count", len(messages)))
	now := time.Now()
	for _, message := range messages {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case deliveries <- parseDelivery(message.ID, message.Values, now):
		}
	}
	return nil
}

// jitterDuration returns a random duration in [d/2, d).
func jitterDuration(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	half := d / 2
	return half + time.Duration(rand.Int63n(int64(half)))
}
