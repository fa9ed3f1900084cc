package app

import (
	"fmt"
	"sync"

	"github.com/pitchside/matchpipe/internal/status"
)

// statusComponents holds the per-message status reporter.
type statusComponents struct {
	statusReporter     *status.RedisReporter
	statusReporterInit sync.Once
}

// StatusReporter returns the redis-backed status reporter.
func (c *Container) StatusReporter() (*status.RedisReporter, error) {
	c.statusReporterInit.Do(func() {
		reporter, err := c.initStatusReporter()
		if err != nil {
			c.initErrors["statusReporter"] = err
			return
		}
		c.statusReporter = reporter
	})
	if storedErr, exists := c.initErrors["statusReporter"]; exists {
		return nil, storedErr
	}
	return c.statusReporter, nil
}

// initStatusReporter creates the status reporter on the shared redis client.
func (c *Container) initStatusReporter() (*status.RedisReporter, error) {
	client, err := c.Redis()
	if err != nil {
		return nil, fmt.Errorf("failed to get redis client for status reporter: %w", err)
	}
	return status.NewRedisReporter(client, c.config.StatusKeyPrefix, c.config.StatusWriteTimeout), nil
}
