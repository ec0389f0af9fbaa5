package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dirkit/user-directory/internal/api/dto"
	"github.com/dirkit/user-directory/internal/auth"
	"github.com/dirkit/user-directory/internal/config"
	"github.com/dirkit/user-directory/internal/domain"
	"github.com/dirkit/user-directory/internal/events"
	"github.com/dirkit/user-directory/internal/repository"
	apperrors "github.com/dirkit/user-directory/pkg/util/errorutil"
)

// AuthService coordinates signup, signin and self-updates.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
}

// AuthDependencies encapsulates collaborators of the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAuthService builds the service. It fails when no signing secret is configured.
func NewAuthService(cfg config.Config, deps AuthDependencies) (*AuthService, error) {
	tokenMgr, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	if err != nil {
		return nil, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   tokenMgr,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		bcryptCost: cfg.Auth.BcryptCost,
	}, nil
}

// Signup registers a new account and returns a token bound to it.
func (s *AuthService) Signup(ctx context.Context, req dto.SignupRequest) (domain.Token, error) {
	if err := req.Validate(); err != nil {
		return domain.Token{}, invalidInput(err)
	}

	// The unique index is authoritative; this lookup only spares a bcrypt round.
	if _, err := s.users.GetByUsername(ctx, req.Username); err == nil {
		return domain.Token{}, usernameTaken()
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return domain.Token{}, repositoryError(err)
	}

	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return domain.Token{}, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		PasswordHash: hash,
		FirstName:    *req.FirstName,
		LastName:     *req.LastName,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return domain.Token{}, usernameTaken()
		}
		return domain.Token{}, repositoryError(err)
	}

	token, err := s.tokenMgr.Issue(user.ID)
	if err != nil {
		return domain.Token{}, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.NewEvent(events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}))
	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return token, nil
}

// Signin authenticates an existing account.
func (s *AuthService) Signin(ctx context.Context, req dto.SigninRequest) (domain.Token, error) {
	if err := req.Validate(); err != nil {
		return domain.Token{}, invalidInput(err)
	}

	user, err := s.users.GetByUsername(ctx, req.Username)
	if errors.Is(err, repository.ErrUserNotFound) {
		return domain.Token{}, userNotFound()
	}
	if err != nil {
		return domain.Token{}, repositoryError(err)
	}

	if err := auth.ComparePassword(user.PasswordHash, req.Password); err != nil {
		return domain.Token{}, invalidCredentials()
	}

	token, err := s.tokenMgr.Issue(user.ID)
	if err != nil {
		return domain.Token{}, apperrors.NewInternalError(err)
	}
	return token, nil
}

// UpdateSelf applies a partial update to the caller's own record. The
// target id comes from the verified identity only.
func (s *AuthService) UpdateSelf(ctx context.Context, identity auth.Identity, req dto.UpdateRequest) error {
	if err := req.Validate(); err != nil {
		return invalidInput(err)
	}

	patch := domain.UserPatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password, s.bcryptCost)
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		patch.PasswordHash = &hash
	}
	if patch.Empty() {
		return nil
	}

	if err := s.users.Update(ctx, identity.UserID, patch); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return userNotFound()
		}
		return repositoryError(err)
	}

	s.publish(ctx, events.NewEvent(events.EventUserUpdated, identity.UserID, events.UserUpdatedPayload{
		Fields: patch.Fields(),
	}))
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed",
			zap.String("event_type", string(event.Type)),
			zap.String("user_id", event.UserID),
			zap.Error(err))
	}
}
