package service

import (
	"errors"

	"magazine-pro-api/internal/model"
	"magazine-pro-api/internal/repository"
	"magazine-pro-api/pkg/jwt"
	"magazine-pro-api/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
)

type AuthService interface {
	Login(email, password string) (*LoginResponse, error)
	Register(email, password, fullName string) (*LoginResponse, error)
	ResetPassword(email, oldPassword, newPassword string) error
	ValidateToken(tokenString string) (*TokenValidationResponse, error)
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
	Role  *model.Role        `json:"role"`
}

type TokenValidationResponse struct {
	User model.UserResponse `json:"user"`
	Role *model.Role        `json:"role"`
}

type authService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
}

func NewAuthService(userRepo repository.UserRepository, roleRepo repository.RoleRepository) AuthService {
	return &authService{
		userRepo: userRepo,
		roleRepo: roleRepo,
	}
}

func (s *authService) issueToken(user *model.User) (*LoginResponse, error) {
	// Single session: a fresh token version invalidates older tokens
	user.TokenVersion = uuid.New().String()
	if err := s.userRepo.Update(user); err != nil {
		return nil, errors.New("failed to update session")
	}

	token, err := jwt.GenerateToken(user.ID, user.Email, user.FullName, user.RoleCode(), user.TokenVersion)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		Token: token,
		User:  user.ToResponse(),
		Role:  user.Role,
	}, nil
}

func (s *authService) Login(email, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(user)
}

// Register creates an OPERATOR account and signs it in. Admin accounts are
// only created by the seed step, never through sign-up.
func (s *authService) Register(email, password, fullName string) (*LoginResponse, error) {
	if len(password) < 6 {
		return nil, ErrWeakPassword
	}

	if existing, _ := s.userRepo.FindByEmail(email); existing != nil {
		return nil, ErrEmailTaken
	}

	role, err := s.roleRepo.FindByCode(model.RoleOperator)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:    email,
		FullName: fullName,
		RoleID:   &role.ID,
		Role:     role,
		IsActive: true,
	}
	if errs := validator.ValidateStruct(user); len(errs) > 0 {
		return nil, ErrInvalidCredentials
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(user); err != nil {
		// Concurrent sign-up for the same address lands on the unique index
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return s.issueToken(user)
}

func (s *authService) ResetPassword(email, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return ErrUserNotFound
	}

	if !user.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}

	if len(newPassword) < 6 {
		return ErrWeakPassword
	}

	if err := user.SetPassword(newPassword); err != nil {
		return errors.New("failed to hash new password")
	}

	return s.userRepo.Update(user)
}

func (s *authService) ValidateToken(tokenString string) (*TokenValidationResponse, error) {
	claims, err := jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	if user.TokenVersion != claims.TokenVersion {
		return nil, errors.New("session expired (logged in on another device)")
	}

	return &TokenValidationResponse{
		User: user.ToResponse(),
		Role: user.Role,
	}, nil
}
