package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"notebuddy/internal/auth/domain/entities"
	"notebuddy/internal/auth/ports/api"
	"notebuddy/internal/auth/ports/repositories"
	"notebuddy/pkg/logger"
)

const (
	methodProfile = "Profile"

	msgRequestingProfile   = "requesting user profile"
	msgEmptyUserIDProvided = "empty user ID provided"
	msgProfileRetrieved    = "user profile successfully retrieved"

	msgErrFindingUserByID = "failed to find user by ID"

	errCtxValidatingUserID = "validating user ID"
	errCtxFetchingProfile  = "fetching user profile"
)

// UserUseCaseImpl реализует интерфейс UserUseCase.
type UserUseCaseImpl struct {
	userRepo repositories.UserRepository
}

var _ api.UserUseCase = (*UserUseCaseImpl)(nil)

// NewUserUseCase создает новый экземпляр сервиса пользователя.
func NewUserUseCase(userRepo repositories.UserRepository) *UserUseCaseImpl {
	return &UserUseCaseImpl{userRepo: userRepo}
}

// Profile получает профиль пользователя по ID.
func (u *UserUseCaseImpl) Profile(ctx context.Context, userID string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodProfile), zap.String("userID", userID))
	log.Debug(ctx, msgRequestingProfile)

	if userID == "" {
		log.Debug(ctx, msgEmptyUserIDProvided)
		return nil, fmt.Errorf("%s: %w", errCtxValidatingUserID, entities.ErrEmptyUserID)
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		log.Debug(ctx, msgErrFindingUserByID, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFetchingProfile, err)
	}

	log.Debug(ctx, msgProfileRetrieved)
	return user, nil
}
