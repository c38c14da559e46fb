package service

import (
	"strings"
	"time"

	"github.com/elvinq/carbazar/internal/models"
	"github.com/elvinq/carbazar/internal/repository"
	"github.com/elvinq/carbazar/internal/utils"
	"github.com/elvinq/carbazar/pkg/logger"
	"go.uber.org/zap"
)

type AuthService struct {
	userRepo      *repository.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration
}

func NewAuthService(userRepo *repository.UserRepository, jwtSecret string, jwtExpiration time.Duration) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// Register creates a new user account and issues a bearer token. Usernames
// are trimmed, emails are trimmed and lower-cased before the uniqueness check.
func (s *AuthService) Register(username, email, password string) (*models.User, string, error) {
	start := time.Now()

	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	logger.Log.Debug("Processing user registration",
		zap.String("username", username),
		zap.String("email", email),
	)

	if username == "" {
		return nil, "", newValidationError("username", "must not be empty")
	}
	if email == "" {
		return nil, "", newValidationError("email", "must not be empty")
	}
	if password == "" {
		return nil, "", newValidationError("password", "must not be empty")
	}

	exists, err := s.userRepo.ExistsByEmailOrUsername(email, username)
	if err != nil {
		logger.Log.Error("Failed to check user existence",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, "", err
	}
	if exists {
		logger.Log.Warn("Registration rejected: email or username taken",
			zap.String("username", username),
			zap.String("email", email),
		)
		return nil, "", ErrUserExists
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		logger.Log.Error("Failed to hash password", zap.Error(err))
		return nil, "", err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         models.RoleUser,
	}
	if err := s.userRepo.CreateUser(user); err != nil {
		logger.Log.Error("Failed to create user in database",
			zap.String("username", username),
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, "", err
	}

	token, err := utils.GenerateToken(user, s.jwtSecret, s.jwtExpiration)
	if err != nil {
		logger.Log.Error("Failed to generate token",
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
		return nil, "", err
	}

	logger.Log.Info("User registered successfully",
		zap.Uint("user_id", user.ID),
		zap.String("username", username),
		zap.Duration("total_duration", time.Since(start)),
	)

	return user, token, nil
}

// Login authenticates by email and password and issues a bearer token.
// Blocked users are rejected here; tokens they already hold stay valid until
// expiry.
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	start := time.Now()

	email = strings.ToLower(strings.TrimSpace(email))

	logger.Log.Debug("Processing user login", zap.String("email", email))

	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		logger.Log.Error("Failed to get user by email",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, "", err
	}
	if user == nil {
		logger.Log.Warn("Login failed: user not found", zap.String("email", email))
		return nil, "", ErrInvalidCredentials
	}

	if user.IsBlocked {
		logger.Log.Warn("Login rejected: user blocked",
			zap.Uint("user_id", user.ID),
		)
		return nil, "", ErrUserBlocked
	}

	valid, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		logger.Log.Error("Failed to verify password",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, "", err
	}
	if !valid {
		logger.Log.Warn("Login failed: invalid password",
			zap.Uint("user_id", user.ID),
		)
		return nil, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user, s.jwtSecret, s.jwtExpiration)
	if err != nil {
		logger.Log.Error("Failed to generate token",
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
		return nil, "", err
	}

	logger.Log.Info("User logged in successfully",
		zap.Uint("user_id", user.ID),
		zap.String("username", user.Username),
		zap.Duration("total_duration", time.Since(start)),
	)

	return user, token, nil
}
