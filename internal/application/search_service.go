package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/vnda/vnda-cli/internal/domain"
	"github.com/vnda/vnda-cli/internal/ports"
)

// SearchService answers queries from the cache when it can and from the
// remote otherwise, writing every fetched item back to the cache.
type SearchService struct {
	cache  ports.CacheStore
	remote ports.Remote
	clock  ports.Clock
	logger zerolog.Logger
}

func NewSearchService(cache ports.CacheStore, remote ports.Remote, clock ports.Clock, logger zerolog.Logger) *SearchService {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &SearchService{
		cache:  cache,
		remote: remote,
		clock:  clock,
		logger: logger.With().Str("component", "search").Logger(),
	}
}

// Search runs one query. Direct id queries ("v17") consult the cache first;
// free-text queries always go to the network.
func (s *SearchService) Search(ctx context.Context, raw string, flags domain.Flags, fallback domain.EntityType) (domain.Results, error) {
	q, err := domain.ParseQuery(raw, flags, fallback)
	if err != nil {
		return domain.Results{}, err
	}

	if q.Direct() {
		record, ok, err := s.cache.Lookup(ctx, q.Type, "id", q.Filter.ID, q.Flags)
		if err != nil {
			return domain.Results{}, fmt.Errorf("cache lookup: %w", err)
		}
		if ok {
			s.logger.Debug().Str("type", string(q.Type)).Int64("id", q.Filter.ID).Msg("cache hit")
			return domain.ResultsFromRecord(record), nil
		}
		s.logger.Debug().Str("type", string(q.Type)).Int64("id", q.Filter.ID).Msg("cache miss")
	}

	results, err := s.fetch(ctx, q.Request())
	if err != nil {
		return domain.Results{}, err
	}

	if err := s.store(ctx, q, results); err != nil {
		return domain.Results{}, err
	}

	return results, nil
}

// fetch issues the request, recovering once from needlogin (log in, retry)
// and throttled (the wait already happened, retry). A second failure is
// returned as-is.
func (s *SearchService) fetch(ctx context.Context, req domain.GetRequest) (domain.Results, error) {
	results, err := s.remote.Get(ctx, req)
	switch {
	case err == nil:
		return results, nil
	case errors.Is(err, domain.ErrNeedLogin):
		s.logger.Debug().Msg("server asked for login, retrying once")
		if loginErr := s.remote.Login(ctx); loginErr != nil {
			return domain.Results{}, fmt.Errorf("login: %w", loginErr)
		}
	case errors.Is(err, domain.ErrThrottled):
		if ctx.Err() != nil {
			return domain.Results{}, err
		}
		s.logger.Debug().Msg("throttle wait over, retrying once")
	default:
		return domain.Results{}, err
	}

	results, err = s.remote.Get(ctx, req)
	if err != nil {
		return domain.Results{}, fmt.Errorf("retry %s lookup: %w", req.Type, err)
	}
	return results, nil
}

func (s *SearchService) store(ctx context.Context, q domain.Query, results domain.Results) error {
	now := s.clock.Now()
	for _, item := range results.Items {
		record, err := domain.RecordFromItem(q.Type, item, q.Flags, now)
		if err != nil {
			s.logger.Warn().Err(err).Str("type", string(q.Type)).Msg("result item not cached")
			continue
		}

		if err := s.cache.Save(ctx, record); err != nil {
			return fmt.Errorf("cache %s %d: %w", record.Type, record.ID, err)
		}
	}

	return nil
}
