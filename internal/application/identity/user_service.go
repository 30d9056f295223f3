package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/gudang/backend/internal/domain/identity"
	"github.com/gudang/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UserService handles user administration. Every operation here is reserved
// for admins.
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

// Create registers a new user
func (s *UserService) Create(ctx context.Context, caller identity.Actor, input CreateUserInput) (*UserInfo, error) {
	if caller.Role != identity.RoleAdmin {
		return nil, shared.ErrForbidden
	}

	if _, err := s.userRepo.FindByUsername(ctx, input.Username); err == nil {
		return nil, shared.NewDomainError("USERNAME_TAKEN", "Username is already in use")
	}

	user, err := identity.NewUser(input.Username, input.Password, identity.Role(input.Role))
	if err != nil {
		return nil, err
	}
	if input.DisplayName != "" {
		if err := user.SetDisplayName(input.DisplayName); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		zap.String("username", user.Username),
		zap.String("role", user.Role.String()))

	info := toUserInfo(user)
	return &info, nil
}

// List returns every registered user
func (s *UserService) List(ctx context.Context, caller identity.Actor) ([]UserInfo, error) {
	if caller.Role != identity.RoleAdmin {
		return nil, shared.ErrForbidden
	}

	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	infos := make([]UserInfo, 0, len(users))
	for _, user := range users {
		infos = append(infos, toUserInfo(user))
	}
	return infos, nil
}

// Deactivate disables a user account
func (s *UserService) Deactivate(ctx context.Context, caller identity.Actor, userID uuid.UUID) error {
	if caller.Role != identity.RoleAdmin {
		return shared.ErrForbidden
	}
	if caller.UserID == userID.String() {
		return shared.NewDomainError("SELF_DEACTIVATION", "Cannot deactivate your own account")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := user.Deactivate(); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info("user deactivated", zap.String("username", user.Username))
	return nil
}

// ResetPassword sets a new password without checking the old one
func (s *UserService) ResetPassword(ctx context.Context, caller identity.Actor, userID uuid.UUID, newPassword string) error {
	if caller.Role != identity.RoleAdmin {
		return shared.ErrForbidden
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info("password reset", zap.String("username", user.Username))
	return nil
}
