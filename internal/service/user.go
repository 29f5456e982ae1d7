package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/fixdesk/fixdesk/internal/domain"
	"github.com/fixdesk/fixdesk/internal/store/sqlite"
	"github.com/fixdesk/fixdesk/pkg/idgen"
)

// UserService handles dashboard accounts.
type UserService struct {
	userRepo  *sqlite.UserRepository
	auditRepo *sqlite.AuditRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo *sqlite.UserRepository, auditRepo *sqlite.AuditRepository) *UserService {
	return &UserService{userRepo: userRepo, auditRepo: auditRepo}
}

// CreateUserInput contains the input for creating a user. Field formats are
// checked by the request layer.
type CreateUserInput struct {
	Username string
	FullName string
	Email    string
	Phone    string
	Role     domain.Role
	Password string
}

// Create creates a user with a bcrypt-hashed password.
func (s *UserService) Create(ctx context.Context, input CreateUserInput, actor string) (*domain.User, error) {
	taken, err := s.userRepo.ExistsUsername(ctx, input.Username)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	if taken {
		return nil, domain.NewFieldValidationError(map[string]string{
			"username": fmt.Sprintf("username %s is already taken", input.Username),
		})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}

	id, err := idgen.Generate(idgen.PrefixUser)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}

	user := &domain.User{
		ID:           id,
		Username:     input.Username,
		FullName:     input.FullName,
		Email:        input.Email,
		Phone:        input.Phone,
		Role:         input.Role,
		Active:       true,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.NewConflictError("Username already taken", map[string]interface{}{"username": input.Username})
		}
		return nil, domain.NewInternalError(err)
	}

	entry := domain.NewAuditEntry(domain.EntityUser, id, domain.ActionCreate, actor)
	s.auditRepo.Log(ctx, &entry)
	return user, nil
}

// Get retrieves a user by ID.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, domain.NewUserNotFoundError(id))
	}
	return user, nil
}

// ListUsersInput contains the input for listing users.
type ListUsersInput struct {
	Role    *domain.Role
	Page    int
	PerPage int
}

// List retrieves users with pagination.
func (s *UserService) List(ctx context.Context, input ListUsersInput) ([]*domain.User, int, error) {
	users, total, err := s.userRepo.List(ctx, input.Role, input.Page, input.PerPage)
	if err != nil {
		return nil, 0, domain.NewInternalError(err)
	}
	return users, total, nil
}

// CheckPassword reports whether password matches the user's stored hash.
func CheckPassword(user *domain.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}
