package search

import (
	"context"
	"strings"
	"time"

	"github.com/jonwraymond/typeahead/cache"
	"github.com/jonwraymond/typeahead/observe"
	"github.com/jonwraymond/typeahead/resilience"
	"github.com/jonwraymond/typeahead/users"
)

// DefaultTTL is how long a fetched listing answers suggestions.
const DefaultTTL = 10 * time.Second

// Namespace names the users memo in events, spans and health checks.
const Namespace = "users"

// Lister fetches the full users listing. *users.Client implements it.
type Lister interface {
	List(ctx context.Context) ([]users.User, error)
}

// Config configures a Service. Only Lister is required.
type Config struct {
	// TTL overrides DefaultTTL. It is clamped by the cache policy.
	TTL time.Duration

	Mode Mode

	// Limit caps suggestions per query. Zero means no cap.
	Limit int

	// Policy overrides cache.UnboundedPolicy().
	Policy *cache.Policy

	// Executor wraps every upstream call. Nil calls the Lister directly.
	Executor *resilience.Executor

	// Observer receives memo events, typically an *observe.CacheObserver.
	Observer cache.Observer

	// Middleware traces and logs each fill.
	Middleware *observe.Middleware

	// Upstream labels fill spans, usually the listing URL.
	Upstream string

	Logger observe.Logger
}

// Service answers typeahead queries from a cached users listing. All
// concurrent queries that miss share one upstream call.
type Service struct {
	memo     *cache.Memo[*Directory]
	key      string
	ttl      time.Duration
	mode     Mode
	limit    int
	producer cache.Producer[*Directory]
	logger   observe.Logger
}

// NewService creates a Service over lister.
func NewService(lister Lister, cfg Config) (*Service, error) {
	if lister == nil {
		return nil, ErrNilLister
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeContains
	}
	if _, err := ParseMode(string(cfg.Mode)); err != nil {
		return nil, err
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}

	key, err := cache.Encode("GET", "USERS")
	if err != nil {
		return nil, err
	}

	var producer cache.Producer[*Directory] = func(ctx context.Context) (*Directory, error) {
		list, err := resilience.Call(ctx, cfg.Executor, lister.List)
		if err != nil {
			return nil, err
		}
		return NewDirectory(list), nil
	}
	producer = observe.InstrumentProducer(cfg.Middleware, observe.FillMeta{
		Namespace: Namespace,
		Key:       key,
		Upstream:  cfg.Upstream,
	}, producer)

	opts := []cache.Option{cache.WithNamespace(Namespace), cache.WithObserver(cfg.Observer)}
	if cfg.Policy != nil {
		opts = append(opts, cache.WithPolicy(*cfg.Policy))
	}

	return &Service{
		memo:     cache.New[*Directory](opts...),
		key:      key,
		ttl:      cfg.TTL,
		mode:     cfg.Mode,
		limit:    cfg.Limit,
		producer: producer,
		logger:   cfg.Logger,
	}, nil
}

// Memo exposes the underlying cache for health checks and stats.
func (s *Service) Memo() *cache.Memo[*Directory] { return s.memo }

// Mode returns the match mode.
func (s *Service) Mode() Mode { return s.mode }

// Suggest returns the users matching query using the configured limit.
func (s *Service) Suggest(ctx context.Context, query string) ([]users.User, error) {
	return s.SuggestN(ctx, query, s.limit)
}

// SuggestN is Suggest with an explicit limit; zero means no cap. A blank
// query returns an empty list without touching the cache.
func (s *Service) SuggestN(ctx context.Context, query string, limit int) ([]users.User, error) {
	if blank(query) {
		return []users.User{}, nil
	}

	dir, err := s.memo.Do(ctx, s.key, s.ttl, s.producer)
	if err != nil {
		s.logFailure(ctx, query, err)
		return nil, err
	}
	return dir.Match(query, s.mode, limit), nil
}

// SuggestAsync delivers the suggestions for query to fn without blocking.
// A cached listing answers on the calling goroutine; otherwise fn runs on
// the goroutine that completes the fetch, after earlier waiters.
func (s *Service) SuggestAsync(ctx context.Context, query string, fn func([]users.User, error)) {
	if blank(query) {
		fn([]users.User{}, nil)
		return
	}
	limit := s.limit
	s.memo.Request(ctx, s.key, s.ttl, s.producer, func(r cache.Result[*Directory]) {
		if r.Err != nil {
			s.logFailure(ctx, query, r.Err)
			fn(nil, r.Err)
			return
		}
		fn(r.Value.Match(query, s.mode, limit), nil)
	})
}

func (s *Service) logFailure(ctx context.Context, query string, err error) {
	s.logger.Warn(ctx, "suggestions unavailable",
		observe.Field{Key: "query", Value: query},
		observe.Field{Key: "error", Value: err},
	)
}

func blank(query string) bool {
	return strings.TrimSpace(query) == ""
}
