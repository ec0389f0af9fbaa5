package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/dirkit/user-directory/internal/domain"
	"github.com/dirkit/user-directory/internal/events"
	"github.com/dirkit/user-directory/internal/repository"
)

// DirectoryService answers the public name search.
type DirectoryService struct {
	users  repository.UserRepository
	cache  repository.DirectoryCache
	logger *zap.Logger
}

// NewDirectoryService creates the service. A nil cache disables caching.
func NewDirectoryService(users repository.UserRepository, cache repository.DirectoryCache, logger *zap.Logger) *DirectoryService {
	if cache == nil {
		cache = repository.NewNopDirectoryCache()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryService{users: users, cache: cache, logger: logger}
}

// Search returns the redacted entries whose first or last name contains
// filter. An empty filter matches everyone; no match is an empty slice.
func (s *DirectoryService) Search(ctx context.Context, filter string) ([]domain.DirectoryEntry, error) {
	key, cached, hit, err := s.cache.Lookup(ctx, filter)
	if err != nil {
		s.logger.Warn("directory cache read failed", zap.Error(err))
		key = ""
	} else if hit {
		return cached, nil
	}

	users, err := s.users.Search(ctx, filter)
	if err != nil {
		return nil, repositoryError(err)
	}

	entries := make([]domain.DirectoryEntry, 0, len(users))
	for _, user := range users {
		entries = append(entries, user.Entry())
	}

	if key != "" {
		if err := s.cache.Store(ctx, key, entries); err != nil {
			s.logger.Warn("directory cache write failed", zap.Error(err))
		}
	}
	return entries, nil
}

// RegisterHandlers invalidates cached results whenever a user is added or changed.
func (s *DirectoryService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventUserRegistered, s.invalidate)
	dispatcher.Subscribe(events.EventUserUpdated, s.invalidate)
}

func (s *DirectoryService) invalidate(ctx context.Context, event events.Event) error {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("directory cache invalidation failed",
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		return err
	}
	return nil
}
