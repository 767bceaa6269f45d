package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/momotired/servo-msg-demo/internal/model"
	"github.com/momotired/servo-msg-demo/internal/repository"
	"github.com/momotired/servo-msg-demo/internal/visibility"
)

const visibleCacheKey = "messages:visible"

// MessageService orchestrates message posting, listing and moderation.
type MessageService struct {
	deps     dependencies
	cacheTTL time.Duration
	logger   *log.Logger
	state    atomic.Int32
}

type dependencies struct {
	repo  repository.MessageRepository
	redis redis.Cmdable
}

// Dependencies groups constructor requirements for MessageService. Redis
// is optional; when nil the listing cache is disabled.
type Dependencies struct {
	Repo  repository.MessageRepository
	Redis redis.Cmdable
}

// MessageServiceOptions configures MessageService.
type MessageServiceOptions struct {
	CacheTTL time.Duration
	Logger   *log.Logger
}

// NewMessageService builds a MessageService. The service starts in the
// Initializing state; the caller marks it Ready or Failed once schema
// setup has run.
func NewMessageService(deps Dependencies, opts MessageServiceOptions) *MessageService {
	cacheTTL := opts.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stdout, "message-service ", log.LstdFlags)
	}

	return &MessageService{
		deps: dependencies{
			repo:  deps.Repo,
			redis: deps.Redis,
		},
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// SetState records the outcome of storage initialization.
func (s *MessageService) SetState(state State) {
	s.state.Store(int32(state))
}

// State reports the current readiness state.
func (s *MessageService) State() State {
	return State(s.state.Load())
}

func (s *MessageService) ready() error {
	if s.State() != StateReady {
		return ErrStorageNotReady
	}
	return nil
}

// PostMessage validates and persists a new message, returning its id.
// Visibility defaults to visible when the request does not specify it.
func (s *MessageService) PostMessage(ctx context.Context, user, content string, visible *bool) (int64, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}

	if strings.TrimSpace(user) == "" {
		return 0, &ValidationError{Field: "user"}
	}
	if strings.TrimSpace(content) == "" {
		return 0, &ValidationError{Field: "content"}
	}

	id, err := s.deps.repo.Insert(ctx, user, content, visibility.Default(visible))
	if err != nil {
		return 0, fmt.Errorf("insert message: %w", err)
	}

	s.invalidateCache(ctx)
	return id, nil
}

// ListVisibleMessages returns the publicly visible messages, most recent
// first, served from the redis cache when fresh.
func (s *MessageService) ListVisibleMessages(ctx context.Context) ([]model.Message, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	if cached, ok := s.cachedVisible(ctx); ok {
		return cached, nil
	}

	messages, err := s.deps.repo.ListVisible(ctx)
	if err != nil {
		return nil, fmt.Errorf("list visible messages: %w", err)
	}

	s.storeVisible(ctx, messages)
	return messages, nil
}

// ListAllMessages returns every message regardless of visibility. Reachable
// only through the admin routes.
func (s *MessageService) ListAllMessages(ctx context.Context) ([]model.Message, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	messages, err := s.deps.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all messages: %w", err)
	}
	return messages, nil
}

// SetMessageVisibility flips the moderation flag on one message.
func (s *MessageService) SetMessageVisibility(ctx context.Context, id int64, visible bool) error {
	if err := s.ready(); err != nil {
		return err
	}

	if err := s.deps.repo.SetVisibility(ctx, id, visible); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("set visibility of message %d: %w", id, err)
	}

	s.invalidateCache(ctx)
	return nil
}

// Cache access is best effort: a redis failure is logged and the request
// carries on against the database.

func (s *MessageService) cachedVisible(ctx context.Context) ([]model.Message, bool) {
	if s.deps.redis == nil {
		return nil, false
	}

	payload, err := s.deps.redis.Get(ctx, visibleCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Printf("cache read failed: %v", err)
		}
		return nil, false
	}

	var messages []model.Message
	if err := json.Unmarshal(payload, &messages); err != nil {
		s.logger.Printf("cache payload corrupt, dropping: %v", err)
		s.invalidateCache(ctx)
		return nil, false
	}
	return messages, true
}

func (s *MessageService) storeVisible(ctx context.Context, messages []model.Message) {
	if s.deps.redis == nil {
		return
	}

	payload, err := json.Marshal(messages)
	if err != nil {
		s.logger.Printf("cache encode failed: %v", err)
		return
	}
	if err := s.deps.redis.Set(ctx, visibleCacheKey, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Printf("cache write failed: %v", err)
	}
}

func (s *MessageService) invalidateCache(ctx context.Context) {
	if s.deps.redis == nil {
		return
	}
	if err := s.deps.redis.Del(ctx, visibleCacheKey).Err(); err != nil {
		s.logger.Printf("cache invalidation failed: %v", err)
	}
}
