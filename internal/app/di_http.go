package app

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/pitchside/matchpipe/internal/http"
	ingesthttp "github.com/pitchside/matchpipe/internal/ingest/http"
	"github.com/pitchside/matchpipe/internal/metrics"
)

// httpComponents holds the operational API server and the metrics server.
type httpComponents struct {
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	httpServerInit    sync.Once
	metricsServerInit sync.Once
}

// HTTPServer returns the operational API server with all routes attached.
func (c *Container) HTTPServer() (*http.Server, error) {
	c.httpServerInit.Do(func() {
		server, err := c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}
		c.httpServer = server
	})
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the Prometheus metrics server.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		server, err := c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		c.metricsServer = server
	})
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// initHTTPServer creates the API server with its handlers and middleware.
func (c *Container) initHTTPServer() (*http.Server, error) {
	gin.SetMode(c.config.GetGinMode())
	logger := c.Logger()

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	stream, err := c.Stream()
	if err != nil {
		return nil, fmt.Errorf("failed to get broker for http server: %w", err)
	}

	reporter, err := c.StatusReporter()
	if err != nil {
		return nil, fmt.Errorf("failed to get status reporter for http server: %w", err)
	}

	matchRepo, err := c.MatchRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get match repository for http server: %w", err)
	}

	var metricsMiddleware gin.HandlerFunc
	if c.config.MetricsEnabled {
		provider, err := c.MetricsProvider()
		if err != nil {
			return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
		}
		metricsMiddleware = metrics.HTTPMetricsMiddleware(provider.MeterProvider(), c.config.MetricsNamespace)
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, logger)
	server.SetBrokerHealth(stream)
	server.SetupRouter(
		http.RouterConfig{
			CORSEnabled:       c.config.CORSEnabled,
			CORSAllowOrigins:  c.config.CORSAllowOrigins,
			MetricsMiddleware: metricsMiddleware,
		},
		ingesthttp.NewStatusHandler(reporter, logger),
		ingesthttp.NewMatchHandler(matchRepo, logger),
		ingesthttp.NewQuarantineHandler(stream, logger),
	)

	return server, nil
}

// initMetricsServer creates the metrics server.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}

	server := http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider)
	if c.config.MetricsPprofEnabled {
		server.EnablePprof()
	}
	return server, nil
}
