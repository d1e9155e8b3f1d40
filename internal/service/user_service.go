package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/internal/model"
	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/internal/repository"
	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/pkg/apperr"
)

const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

// DTOs for request validation

type CreateUserRequest struct {
	Name         string `json:"name" binding:"required"`
	Username     string `json:"username" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=6"`
	Role         string `json:"role" binding:"required"`
	DepartmentID string `json:"department_id" binding:"required"`
}

type UpdateUserRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email" binding:"omitempty,email"`
	Role         string `json:"role"`
	DepartmentID string `json:"department_id"`
	Active       *bool  `json:"active"`
}

type LoginUserRequest struct {
	Username string `json:"username" binding:"required"` // Username or e-mail
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type TokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// DTO for returning User without exposing sensitive data (e.g. password)
type UserResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	DepartmentID   uuid.UUID `json:"department_id"`
	DepartmentName string    `json:"department_name"`
	Active         bool      `json:"active"`
	CreatedAt      string    `json:"created_at"`
	UpdatedAt      string    `json:"updated_at"`
}

// UserService defines the interface for business logic related to User
type UserService interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error)
	Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (*TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	GetUserByID(ctx context.Context, id string) (*UserResponse, error)
	ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error)
	UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, id string) error
}

type userService struct {
	repo      repository.UserRepository
	jwtSecret []byte
}

// NewUserService returns a new instance of UserService
func NewUserService(repo repository.UserRepository, jwtSecret []byte) UserService {
	return &userService{repo: repo, jwtSecret: jwtSecret}
}

// Helper: check if role is allowed
func validateRole(role string) bool {
	switch role {
	case model.RoleUser, model.RoleManager, model.RoleApprover, model.RoleAdmin:
		return true
	}
	return false
}

// Helper: parse model to standard json API response
func mapToResponse(user *model.User) *UserResponse {
	resp := &UserResponse{
		ID:           user.ID,
		Name:         user.Name,
		Username:     user.Username,
		Email:        user.Email,
		Role:         user.Role,
		DepartmentID: user.DepartmentID,
		Active:       user.Active,
		CreatedAt:    user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    user.UpdatedAt.Format(time.RFC3339),
	}
	if user.Department != nil {
		resp.DepartmentName = user.Department.Name
	}
	return resp
}

func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	if !validateRole(req.Role) {
		return nil, apperr.Validation("invalid role: must be USER, MANAGER, APPROVER or ADMIN")
	}

	departmentID, err := uuid.Parse(req.DepartmentID)
	if err != nil {
		return nil, apperr.Validation("invalid department id")
	}

	if _, err := s.repo.GetByUsername(ctx, req.Username); err == nil {
		return nil, apperr.Conflict("username already exists")
	}
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperr.Conflict("email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:         req.Name,
		Username:     req.Username,
		Email:        req.Email,
		Password:     string(hashedPassword),
		Role:         req.Role,
		DepartmentID: departmentID,
		Active:       true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return mapToResponse(user), nil
}

func (s *userService) Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error) {
	user, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		// Fallback: the login field also accepts the e-mail address
		user, err = s.repo.GetByEmail(ctx, req.Username)
		if err != nil {
			return nil, apperr.Unauthorized("invalid username or password")
		}
	}

	if !user.Active {
		return nil, apperr.Unauthorized("invalid username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperr.Unauthorized("invalid username or password")
	}

	return s.issueTokens(ctx, user)
}

func (s *userService) RefreshToken(ctx context.Context, req RefreshTokenRequest) (*TokenResponse, error) {
	stored, err := s.repo.GetRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, apperr.Unauthorized("invalid or expired refresh token")
	}

	user, err := s.repo.GetByID(ctx, stored.UserID.String())
	if err != nil || !user.Active {
		return nil, apperr.Unauthorized("invalid or expired refresh token")
	}

	// Rotate: the presented token is consumed regardless of what happens next
	if err := s.repo.DeleteRefreshToken(ctx, req.RefreshToken); err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return s.issueTokens(ctx, user)
}

func (s *userService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.repo.DeleteRefreshToken(ctx, refreshToken)
}

// issueTokens signs a new access token and persists a fresh refresh token
func (s *userService) issueTokens(ctx context.Context, user *model.User) (*TokenResponse, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"dept": user.DepartmentID.String(),
		"name": user.Name,
		"iat":  now.Unix(),
		"exp":  now.Add(accessTokenTTL).Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	refresh := &model.RefreshToken{
		UserID:    user.ID,
		Token:     hex.EncodeToString(raw),
		ExpiresAt: now.Add(refreshTokenTTL),
	}
	if err := s.repo.SaveRefreshToken(ctx, refresh); err != nil {
		return nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return &TokenResponse{Token: tokenString, RefreshToken: refresh.Token}, nil
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return mapToResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	users, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	var responses []UserResponse
	for _, u := range users {
		responses = append(responses, *mapToResponse(&u))
	}

	return responses, total, nil
}

func (s *userService) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("user not found")
	}

	if req.Role != "" {
		if !validateRole(req.Role) {
			return nil, apperr.Validation("invalid role: must be USER, MANAGER, APPROVER or ADMIN")
		}
		user.Role = req.Role
	}

	if req.Name != "" {
		user.Name = req.Name
	}

	if req.Email != "" && req.Email != user.Email {
		if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
			return nil, apperr.Conflict("email already exists")
		}
		user.Email = req.Email
	}

	if req.DepartmentID != "" {
		departmentID, parseErr := uuid.Parse(req.DepartmentID)
		if parseErr != nil {
			return nil, apperr.Validation("invalid department id")
		}
		user.DepartmentID = departmentID
	}

	if req.Active != nil {
		user.Active = *req.Active
		if !user.Active {
			// Deactivation revokes all sessions
			if err := s.repo.DeleteUserRefreshTokens(ctx, user.ID); err != nil {
				return nil, fmt.Errorf("failed to revoke sessions: %w", err)
			}
		}
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return mapToResponse(user), nil
}

func (s *userService) DeleteUser(ctx context.Context, id string) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return apperr.NotFound("user not found")
	}
	if err := s.repo.DeleteUserRefreshTokens(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}
	return s.repo.Delete(ctx, id)
}
