package auth

import (
	"context"
	"fmt"
	"unicode"

	"github.com/google/uuid"

	"github.com/Kushal-prime/kushalwearback/internal/users"
	authpkg "github.com/Kushal-prime/kushalwearback/pkg/auth"
	"github.com/Kushal-prime/kushalwearback/pkg/db"
	"github.com/Kushal-prime/kushalwearback/pkg/db/models"
	"github.com/Kushal-prime/kushalwearback/pkg/enums"
	apperrors "github.com/Kushal-prime/kushalwearback/pkg/errors"
	"github.com/Kushal-prime/kushalwearback/pkg/security"
)

// UserRepository is the persistence surface the auth service needs.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, updates map[string]any) error
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
}

// ServiceParams wires the auth service dependencies.
type ServiceParams struct {
	Users  UserRepository
	Hasher *security.Hasher
	Tokens *authpkg.TokenManager
}

// Service implements signup, login and profile management.
type Service struct {
	users  UserRepository
	hasher *security.Hasher
	tokens *authpkg.TokenManager
}

// NewService validates params and builds the service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("auth service requires a user repository")
	}
	if params.Hasher == nil {
		return nil, fmt.Errorf("auth service requires a password hasher")
	}
	if params.Tokens == nil {
		return nil, fmt.Errorf("auth service requires a token manager")
	}
	return &Service{
		users:  params.Users,
		hasher: params.Hasher,
		tokens: params.Tokens,
	}, nil
}

// Signup registers a new account and returns a session token.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	if err := checkPasswordStrength(req.Password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         enums.UserRoleUser,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperrors.New(apperrors.CodeConflict, "an account with this email already exists")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "create user")
	}

	token, err := s.tokens.Mint(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "mint token")
	}

	return &AuthResponse{
		Message: "Account created successfully",
		Token:   token,
		User:    users.ToDTO(user),
	}, nil
}

// Login verifies credentials and returns a session token. Unknown email
// and wrong password produce the same response.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeUnauthorized, "Invalid credentials")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "lookup user")
	}

	if !user.Active {
		return nil, apperrors.New(apperrors.CodeUnauthorized, "Account is deactivated")
	}

	ok, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, apperrors.New(apperrors.CodeUnauthorized, "Invalid credentials")
	}

	// The login itself stands even if the stamp fails.
	_ = s.users.TouchLastLogin(ctx, user.ID)

	token, err := s.tokens.Mint(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "mint token")
	}

	return &AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    users.ToDTO(user),
	}, nil
}

// Me returns the authenticated user's profile.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "user not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "lookup user")
	}
	dto := users.ToDTO(user)
	return &dto, nil
}

// UpdateProfile applies partial profile changes and returns the result.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*users.UserDTO, error) {
	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}

	if len(updates) > 0 {
		if err := s.users.UpdateProfile(ctx, userID, updates); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInternal, err, "update profile")
		}
	}
	return s.Me(ctx, userID)
}

// ChangePassword rotates the password after verifying the current one.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return apperrors.New(apperrors.CodeNotFound, "user not found")
		}
		return apperrors.Wrap(apperrors.CodeInternal, err, "lookup user")
	}

	ok, err := s.hasher.Verify(req.CurrentPassword, user.PasswordHash)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return apperrors.New(apperrors.CodeUnauthorized, "current password is incorrect")
	}

	if err := checkPasswordStrength(req.NewPassword); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "hash password")
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "store password")
	}
	return nil
}

// checkPasswordStrength requires at least one lowercase letter, one
// uppercase letter and one digit on top of the length validation.
func checkPasswordStrength(password string) error {
	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !lower || !upper || !digit {
		return apperrors.New(apperrors.CodeValidation,
			"Password must contain at least one uppercase letter, one lowercase letter, and one number")
	}
	return nil
}
