package app

import (
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"github.com/pitchside/matchpipe/internal/ingest/domain"
	"github.com/pitchside/matchpipe/internal/ingest/repository"
	"github.com/pitchside/matchpipe/internal/ingest/usecase"
)

// ingestComponents holds the match ingestion pipeline stages.
type ingestComponents struct {
	keyDeriver     *domain.KeyDeriver
	matchRepo      usecase.MatchRepository
	referenceRepo  usecase.ReferenceRepository
	matchValidator *usecase.MatchValidator
	matchProcessor usecase.MatchProcessor
	retryPolicy    *usecase.RetryPolicy
	deadLetter     usecase.DeadLetterRouter
	consumer       *usecase.Consumer

	keyDeriverInit     sync.Once
	matchRepoInit      sync.Once
	referenceRepoInit  sync.Once
	matchValidatorInit sync.Once
	matchProcessorInit sync.Once
	retryPolicyInit    sync.Once
	deadLetterInit     sync.Once
	consumerInit       sync.Once
}

// KeyDeriver returns the idempotency key deriver configured from the
// normalized field list.
func (c *Container) KeyDeriver() (*domain.KeyDeriver, error) {
	c.keyDeriverInit.Do(func() {
		deriver, err := domain.NewKeyDeriver(domain.ParseKeyFields(c.config.IdempotencyKeyFields))
		if err != nil {
			c.initErrors["keyDeriver"] = fmt.Errorf("failed to create key deriver: %w", err)
			return
		}
		c.keyDeriver = deriver
	})
	if storedErr, exists := c.initErrors["keyDeriver"]; exists {
		return nil, storedErr
	}
	return c.keyDeriver, nil
}

// MatchRepository returns the match repository instance.
func (c *Container) MatchRepository() (usecase.MatchRepository, error) {
	c.matchRepoInit.Do(func() {
		repo, err := c.initMatchRepository()
		if err != nil {
			c.initErrors["matchRepo"] = err
			return
		}
		c.matchRepo = repo
	})
	if storedErr, exists := c.initErrors["matchRepo"]; exists {
		return nil, storedErr
	}
	return c.matchRepo, nil
}

// ReferenceRepository returns the reference data repository instance.
func (c *Container) ReferenceRepository() (usecase.ReferenceRepository, error) {
	c.referenceRepoInit.Do(func() {
		repo, err := c.initReferenceRepository()
		if err != nil {
			c.initErrors["referenceRepo"] = err
			return
		}
		c.referenceRepo = repo
	})
	if storedErr, exists := c.initErrors["referenceRepo"]; exists {
		return nil, storedErr
	}
	return c.referenceRepo, nil
}

// MatchValidator returns the match validator.
func (c *Container) MatchValidator() (*usecase.MatchValidator, error) {
	c.matchValidatorInit.Do(func() {
		references, err := c.ReferenceRepository()
		if err != nil {
			c.initErrors["matchValidator"] = fmt.Errorf("failed to get reference repository for validator: %w", err)
			return
		}
		c.matchValidator = usecase.NewMatchValidator(references)
	})
	if storedErr, exists := c.initErrors["matchValidator"]; exists {
		return nil, storedErr
	}
	return c.matchValidator, nil
}

// MatchProcessor returns the processing pipeline for one delivery, wrapped
// with business metrics.
func (c *Container) MatchProcessor() (usecase.MatchProcessor, error) {
	c.matchProcessorInit.Do(func() {
		processor, err := c.initMatchProcessor()
		if err != nil {
			c.initErrors["matchProcessor"] = err
			return
		}
		c.matchProcessor = processor
	})
	if storedErr, exists := c.initErrors["matchProcessor"]; exists {
		return nil, storedErr
	}
	return c.matchProcessor, nil
}

// RetryPolicy returns the backoff policy for failed deliveries.
func (c *Container) RetryPolicy() *usecase.RetryPolicy {
	c.retryPolicyInit.Do(func() {
		c.retryPolicy = usecase.NewRetryPolicy(
			c.config.RetryBaseDelay,
			c.config.RetryMaxDelay,
			c.config.RetryMaxAttempts,
		)
	})
	return c.retryPolicy
}

// DeadLetterRouter returns the quarantine router.
func (c *Container) DeadLetterRouter() (usecase.DeadLetterRouter, error) {
	c.deadLetterInit.Do(func() {
		stream, err := c.Stream()
		if err != nil {
			c.initErrors["deadLetter"] = fmt.Errorf("failed to get broker for dead letter router: %w", err)
			return
		}
		c.deadLetter = usecase.NewDeadLetterRouter(stream, c.Logger())
	})
	if storedErr, exists := c.initErrors["deadLetter"]; exists {
		return nil, storedErr
	}
	return c.deadLetter, nil
}

// Consumer returns the worker pool consuming broker deliveries.
func (c *Container) Consumer() (*usecase.Consumer, error) {
	c.consumerInit.Do(func() {
		consumer, err := c.initConsumer()
		if err != nil {
			c.initErrors["consumer"] = err
			return
		}
		c.consumer = consumer
	})
	if storedErr, exists := c.initErrors["consumer"]; exists {
		return nil, storedErr
	}
	return c.consumer, nil
}

// initMatchRepository creates the match repository instance.
func (c *Container) initMatchRepository() (usecase.MatchRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for match repository: %w", err)
	}

	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for match repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return repository.NewMySQLMatchRepository(db, txManager), nil
	case "postgres":
		return repository.NewPostgreSQLMatchRepository(db, txManager), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initReferenceRepository creates the reference data repository instance.
func (c *Container) initReferenceRepository() (usecase.ReferenceRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for reference repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return repository.NewMySQLReferenceRepository(db), nil
	case "postgres":
		return repository.NewPostgreSQLReferenceRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initMatchProcessor creates the processor with all its dependencies.
func (c *Container) initMatchProcessor() (usecase.MatchProcessor, error) {
	deriver, err := c.KeyDeriver()
	if err != nil {
		return nil, fmt.Errorf("failed to get key deriver for processor: %w", err)
	}

	validator, err := c.MatchValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to get validator for processor: %w", err)
	}

	matchRepo, err := c.MatchRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get match repository for processor: %w", err)
	}

	reporter, err := c.StatusReporter()
	if err != nil {
		return nil, fmt.Errorf("failed to get status reporter for processor: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for processor: %w", err)
	}

	processor := usecase.NewMatchProcessor(deriver, validator, matchRepo, reporter, c.Logger())
	return usecase.NewMatchProcessorWithMetrics(processor, businessMetrics), nil
}

// initConsumer creates the consumer with all its dependencies.
func (c *Container) initConsumer() (*usecase.Consumer, error) {
	processor, err := c.MatchProcessor()
	if err != nil {
		return nil, fmt.Errorf("failed to get processor for consumer: %w", err)
	}

	stream, err := c.Stream()
	if err != nil {
		return nil, fmt.Errorf("failed to get broker for consumer: %w", err)
	}

	router, err := c.DeadLetterRouter()
	if err != nil {
		return nil, fmt.Errorf("failed to get dead letter router for consumer: %w", err)
	}

	reporter, err := c.StatusReporter()
	if err != nil {
		return nil, fmt.Errorf("failed to get status reporter for consumer: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for consumer: %w", err)
	}

	return usecase.NewConsumer(
		processor,
		stream,
		router,
		c.RetryPolicy(),
		reporter,
		businessMetrics,
		c.Logger(),
		usecase.ConsumerConfig{
			Workers:        c.config.WorkerCount,
			ProcessTimeout: c.config.ProcessTimeout,
			RateLimit:      rate.Limit(c.config.IngestRateLimit),
			RateBurst:      c.config.IngestRateBurst,
		},
	), nil
}
