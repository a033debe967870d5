package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lshigami/Quizdesk/internal/auth"
	"github.com/lshigami/Quizdesk/internal/dto"
	"github.com/lshigami/Quizdesk/internal/model"
	"github.com/lshigami/Quizdesk/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenPairResponse, error)
	Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.AccessTokenResponse, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenService
}

func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenService) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, FieldError("username", "This field may not be blank.")
	}
	if !req.Role.Valid() {
		return nil, FieldError("role", fmt.Sprintf("%q is not a valid choice.", req.Role))
	}

	_, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil {
		return nil, FieldError("username", "A user with that username already exists.")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("looking up username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: string(hash),
		Role:         req.Role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		log.Error().Err(err).Str("username", username).Msg("Failed to create user")
		return nil, fmt.Errorf("creating user: %w", err)
	}
	log.Info().Uint("userID", user.ID).Str("role", string(user.Role)).Msg("User registered")

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenPairResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrBadCredentials
	}

	pair, err := s.tokens.IssuePair(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &dto.TokenPairResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
		User:    toUserResponse(user),
	}, nil
}

// Refresh issues a new access token. The user is re-read so a deleted
// account cannot keep refreshing.
func (s *authService) Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.AccessTokenResponse, error) {
	claims, err := s.tokens.Parse(req.Refresh, auth.TokenTypeRefresh)
	if err != nil {
		log.Debug().Err(err).Msg("Refresh token rejected")
		return nil, Unauthorized("Token is invalid or expired")
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, Unauthorized("Token is invalid or expired")
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Unauthorized("User not found")
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}

	access, err := s.tokens.IssueAccess(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &dto.AccessTokenResponse{Access: access}, nil
}
