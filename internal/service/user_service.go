package service

import (
	"context"
	"errors"
	"fmt"

	"petcare-store/internal/apperr"
	"petcare-store/internal/models"
	"petcare-store/internal/store"
	"petcare-store/internal/util"
	"petcare-store/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const userExists = "User already exists"

// UserService registers customers
type UserService struct {
	repo       store.UserRepository
	bcryptCost int
	logger     *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(repo store.UserRepository) *UserService {
	return &UserService{
		repo:       repo,
		bcryptCost: bcrypt.DefaultCost,
		logger:     util.GetLogger(),
	}
}

// Register validates the request and stores a user with a hashed password
func (s *UserService) Register(ctx context.Context, req models.RegisterUserRequest) (*models.User, error) {
	ctx, span := util.StartSpan(ctx, "UserService.Register")
	defer span.End()

	result := validation.User(req)
	if !result.Valid() {
		util.ValidationFailuresTotal.WithLabelValues("user").Inc()
		return nil, result.Err()
	}
	req = result.Value

	_, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err == nil {
		return nil, apperr.Conflict(userExists, store.ErrDuplicate)
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, apperr.Internal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to hash password: %w", err))
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Conflict(userExists, err)
		}
		util.RecordError(span, err)
		return nil, apperr.Internal(fmt.Errorf("failed to create user: %w", err))
	}

	util.UsersRegisteredTotal.Inc()
	s.logger.Info("User registered", zap.String("user_id", user.ID))
	return user, nil
}

// CheckPassword reports whether password matches the user's hash
func CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}
