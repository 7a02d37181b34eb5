// Package cache decorates a generation service with a Redis-backed cache of
// Generate responses keyed by prompt.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-widgetgen/internal/logger"
	"github.com/goliatone/go-widgetgen/pkg/genservice"
)

// DefaultTTL is how long a generated widget is served from cache.
const DefaultTTL = time.Hour

// KeyPrefix namespaces cached widgets.
const KeyPrefix = "widget:"

// Lookup outcomes reported to a Recorder.
const (
	LookupHit   = "hit"
	LookupMiss  = "miss"
	LookupError = "error"
)

// Recorder observes cache lookups.
type Recorder interface {
	CacheLookup(outcome string)
}

type Option func(*Service)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithLogger sets the logger used to report cache failures.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRecorder reports lookup outcomes.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

// Service caches Generate responses. Edit and Examples pass through. Redis
// failures never fail a request: they are logged and the wrapped service is
// called directly.
type Service struct {
	next     genservice.Service
	client   redis.Cmdable
	ttl      time.Duration
	log      logger.Logger
	recorder Recorder
}

var _ genservice.Service = (*Service)(nil)

// New wraps next with a cache stored in client.
func New(next genservice.Service, client redis.Cmdable, opts ...Option) (*Service, error) {
	if next == nil {
		return nil, errors.New("cache: service is nil")
	}
	if client == nil {
		return nil, errors.New("cache: redis client is nil")
	}
	s := &Service{
		next:   next,
		client: client,
		ttl:    DefaultTTL,
		log:    logger.NewNoOpLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Key returns the cache key for a prompt.
func Key(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return KeyPrefix + hex.EncodeToString(sum[:])
}

// Generate serves a cached response for the same prompt when present.
func (s *Service) Generate(ctx context.Context, req genservice.GenerateRequest) (genservice.Response, error) {
	if err := req.Validate(); err != nil {
		return genservice.Response{}, err
	}
	key := Key(req.Prompt)

	if resp, ok := s.lookup(ctx, key); ok {
		return resp, nil
	}

	resp, err := s.next.Generate(ctx, req)
	if err != nil {
		return genservice.Response{}, err
	}
	s.store(ctx, key, resp)
	return resp, nil
}

// Edit delegates to the wrapped service.
func (s *Service) Edit(ctx context.Context, req genservice.EditRequest) (genservice.Response, error) {
	return s.next.Edit(ctx, req)
}

// Examples delegates to the wrapped service.
func (s *Service) Examples(ctx context.Context) ([]string, error) {
	return s.next.Examples(ctx)
}

func (s *Service) lookup(ctx context.Context, key string) (genservice.Response, bool) {
	raw, err := s.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		s.record(LookupMiss)
		return genservice.Response{}, false
	case err != nil:
		s.record(LookupError)
		s.log.WithError(err).Warn("widget cache read failed", map[string]any{"key": key})
		return genservice.Response{}, false
	}

	var resp genservice.Response
	if err := sonic.ConfigStd.Unmarshal(raw, &resp); err != nil {
		s.record(LookupError)
		s.log.WithError(err).Warn("widget cache entry is corrupt", map[string]any{"key": key})
		return genservice.Response{}, false
	}
	s.record(LookupHit)
	s.log.Debug("widget cache hit", map[string]any{"key": key, "widget_id": resp.WidgetID})
	return resp, true
}

func (s *Service) store(ctx context.Context, key string, resp genservice.Response) {
	payload, err := Encode(resp)
	if err != nil {
		s.log.WithError(err).Warn("widget cache encode failed", map[string]any{"key": key})
		return
	}
	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		s.log.WithError(err).Warn("widget cache write failed", map[string]any{"key": key})
	}
}

func (s *Service) record(outcome string) {
	if s.recorder != nil {
		s.recorder.CacheLookup(outcome)
	}
}

// Encode serializes a response the way it is stored in the cache.
func Encode(resp genservice.Response) ([]byte, error) {
	payload, err := sonic.ConfigStd.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("cache: encode response: %w", err)
	}
	return payload, nil
}
