package campaign

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/orangecat/campaignsync/pkg/metrics"
	"github.com/orangecat/campaignsync/pkg/models"
	"github.com/orangecat/campaignsync/pkg/store"
)

// DefaultWriteTimeout bounds a durable write once it has been detached from
// the caller's context.
const DefaultWriteTimeout = 30 * time.Second

// Service reconciles owners' local drafts with their durable campaigns and
// coordinates every write to both stores. Build one per process with
// NewService and share it; it is safe for concurrent use.
type Service struct {
	campaigns    store.CampaignStore
	drafts       *DraftCache
	log          zerolog.Logger
	metrics      *metrics.Metrics
	now          func() time.Time
	writeTimeout time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger for swallowed local failures and write outcomes.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithMetrics records remote operations and draft failures on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock replaces time.Now for draft timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithWriteTimeout bounds each durable write. Zero disables the bound.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Service) { s.writeTimeout = d }
}

// NewService builds a Service over the durable campaign store and the local
// draft store. Without options it logs nowhere and keeps no metrics.
func NewService(campaigns store.CampaignStore, drafts store.DraftStore, opts ...Option) *Service {
	s := &Service{
		campaigns:    campaigns,
		log:          zerolog.Nop(),
		now:          time.Now,
		writeTimeout: DefaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.drafts = NewDraftCache(drafts, s.log)
	return s
}

// Drafts exposes the draft cache.
func (s *Service) Drafts() *DraftCache {
	return s.drafts
}

// detach returns a context that outlives the caller's cancellation. Once a
// save or publish has started, both stores see it through even if the
// caller goes away.
func (s *Service) detach(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = context.WithoutCancel(ctx)
	if s.writeTimeout > 0 {
		return context.WithTimeout(ctx, s.writeTimeout)
	}
	return ctx, func() {}
}

// observe times a durable store call and records its outcome.
func (s *Service) observe(op string, start time.Time, err error) {
	result := metrics.ResultOK
	switch {
	case errors.Is(err, store.ErrNotFound):
		result = metrics.ResultNotFound
	case err != nil:
		result = metrics.ResultError
	}
	s.metrics.ObserveRemote(op, result, time.Since(start))
}

// writeError maps a durable store write failure onto the service taxonomy.
func writeError(op string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFoundOrForbidden)
	}
	return &RemoteWriteError{Op: op, Err: err}
}

// draftFailure logs a swallowed local store failure.
func (s *Service) draftFailure(op string, owner models.OwnerID, err error) {
	s.metrics.DraftFailure(op)
	s.log.Warn().Err(err).Str("op", op).Str("owner", owner.String()).Msg("local draft store failure ignored")
}
