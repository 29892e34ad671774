package campaignsync

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/orangecat/campaignsync/pkg/campaign"
	"github.com/orangecat/campaignsync/pkg/logger"
	"github.com/orangecat/campaignsync/pkg/metrics"
	"github.com/orangecat/campaignsync/pkg/store"
	"github.com/orangecat/campaignsync/pkg/store/bolt"
	"github.com/orangecat/campaignsync/pkg/store/memory"
	"github.com/orangecat/campaignsync/pkg/store/postgres"
	"github.com/orangecat/campaignsync/pkg/store/redis"
	"github.com/orangecat/campaignsync/pkg/store/supabase"
	"github.com/orangecat/campaignsync/pkg/store/surrealdb"
)

// App holds the application state: the configured stores, the service over
// them and the shared logger and metrics.
type App struct {
	config   *Config
	logData  *logger.LogData
	log      zerolog.Logger
	metrics  *metrics.Metrics
	store    *store.ReadOnlyStore
	drafts   store.DraftStore
	service  *campaign.Service
	readOnly atomic.Bool
}

// New opens the configured stores and builds the service. Everything opened
// so far is closed again when a later step fails.
func New(ctx context.Context, config *Config) (_ *App, err error) {
	logData, err := logger.New().
		FromPath(config.Log.Path).
		WithLevel(config.Log.Level).
		Console(config.Log.Console).
		WithField("service", "campaignsync").
		Make()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	a := &App{
		config:  config,
		logData: logData,
		log:     logData.Logger,
		metrics: metrics.New(),
	}
	a.readOnly.Store(config.ReadOnly)
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	campaigns, err := openCampaignStore(ctx, config)
	if err != nil {
		return nil, err
	}
	a.store = store.NewReadOnlyStore(campaigns, a.IsReadOnly)
	a.log.Info().Str("backend", config.Backend).Bool("read_only", config.ReadOnly).Msg("campaign store ready")

	a.drafts, err = openDraftStore(ctx, config)
	if err != nil {
		return nil, err
	}
	a.log.Info().Str("drafts", config.Drafts).Msg("draft store ready")

	a.service = campaign.NewService(a.store, a.drafts,
		campaign.WithLogger(a.log),
		campaign.WithMetrics(a.metrics),
		campaign.WithWriteTimeout(config.WriteTimeout),
	)
	return a, nil
}

func openCampaignStore(ctx context.Context, config *Config) (store.CampaignStore, error) {
	switch config.Backend {
	case BackendMemory:
		return memory.NewCampaignStore(), nil
	case BackendPostgres:
		s, err := postgres.NewPostgresStore(config.Postgres.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		return s, nil
	case BackendSurrealDB:
		c := config.SurrealDB
		s, err := surrealdb.NewSurrealStore(ctx, c.URL, c.Namespace, c.Database, c.User, c.Pass)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
		}
		return s, nil
	case BackendSupabase:
		c := config.Supabase
		s, err := supabase.New(supabase.Config{
			URL:       c.URL,
			APIKey:    c.APIKey,
			Timeout:   c.Timeout,
			RateLimit: c.RateLimit,
			Burst:     c.Burst,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to configure Supabase: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", config.Backend)
	}
}

func openDraftStore(ctx context.Context, config *Config) (store.DraftStore, error) {
	switch config.Drafts {
	case DraftsMemory:
		return memory.NewDraftStore(), nil
	case DraftsBolt:
		s, err := bolt.Open(config.Bolt.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open draft file: %w", err)
		}
		return s, nil
	case DraftsRedis:
		s, err := redis.Dial(ctx, config.Redis.URL,
			redis.WithPrefix(config.Redis.Prefix),
			redis.WithTTL(config.Redis.TTL),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown draft store %q", config.Drafts)
	}
}

// Close releases the stores and the log file. It is safe on a partially
// built App.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	var errs []error
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	if a.drafts != nil {
		errs = append(errs, a.drafts.Close())
	}
	if a.logData != nil {
		errs = append(errs, a.logData.Close())
	}
	return errors.Join(errs...)
}

// Service returns the campaign service.
func (a *App) Service() *campaign.Service {
	return a.service
}

// SetReadOnly switches durable writes off or back on at runtime. Reads and
// the local draft slot keep working while read-only.
func (a *App) SetReadOnly(readOnly bool) {
	a.readOnly.Store(readOnly)
	a.log.Warn().Bool("read_only", readOnly).Msg("read-only mode changed")
}

// IsReadOnly reports whether durable writes are currently rejected.
func (a *App) IsReadOnly() bool {
	return a.readOnly.Load()
}
