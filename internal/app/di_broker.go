package app

import (
	"fmt"
	"sync"

	"github.com/pitchside/matchpipe/internal/broker"
)

// brokerComponents holds the redis streams broker client.
type brokerComponents struct {
	stream     *broker.Stream
	streamInit sync.Once
}

// Stream returns the redis streams broker client.
func (c *Container) Stream() (*broker.Stream, error) {
	c.streamInit.Do(func() {
		stream, err := c.initStream()
		if err != nil {
			c.initErrors["stream"] = err
			return
		}
		c.stream = stream
	})
	if storedErr, exists := c.initErrors["stream"]; exists {
		return nil, storedErr
	}
	return c.stream, nil
}

// initStream creates the broker client from the configured topology.
func (c *Container) initStream() (*broker.Stream, error) {
	client, err := c.Redis()
	if err != nil {
		return nil, fmt.Errorf("failed to get redis client for broker: %w", err)
	}

	return broker.NewStream(client, broker.Config{
		Stream:           c.config.BrokerStream,
		Group:            c.config.BrokerGroup,
		Consumer:         c.config.BrokerConsumer,
		QuarantineStream: c.config.BrokerQuarantineStream,
		BlockTime:        c.config.BrokerBlockTime,
		BatchSize:        c.config.BrokerBatchSize,
		DelayInterval:    c.config.BrokerDelayInterval,
		ClaimInterval:    c.config.BrokerClaimInterval,
		ClaimMinIdle:     c.config.BrokerClaimMinIdle,
	}, c.Logger()), nil
}
