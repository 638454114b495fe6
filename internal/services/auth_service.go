package services

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/stayhub/booking-backend/internal/models"
	"github.com/stayhub/booking-backend/pkg/jwt"
	"github.com/stayhub/booking-backend/pkg/mailer"
)

// AuthService handles registration, login and profile lookup
type AuthService struct {
	users      UserStore
	jwtService *jwt.Service
	notifier   mailer.Notifier
	bcryptCost int
	logger     *logrus.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users UserStore, jwtService *jwt.Service, notifier mailer.Notifier, bcryptCost int, logger *logrus.Logger) *AuthService {
	return &AuthService{
		users:      users,
		jwtService: jwtService,
		notifier:   notifier,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register creates a new user account
func (s *AuthService) Register(req *models.RegisterRequest) (*models.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.users.EmailExists(email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}

	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("User registered")

	// Welcome email is best-effort
	body := fmt.Sprintf("Hi %s,\n\nWelcome to StayHub. Happy travels!\n\nStayHub", user.Name)
	if err := s.notifier.Send(user.Email, "Welcome to StayHub", body); err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Warn("Failed to send welcome email")
	}

	response := user.PublicView()
	return &response, nil
}

// Login authenticates a user and issues a token pair. Unknown emails and
// wrong passwords return the same error so the endpoint does not leak
// which accounts exist.
func (s *AuthService) Login(req *models.LoginRequest) (*models.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &models.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		User:         user.PublicView(),
	}, nil
}

// GetProfile retrieves the public view of a user
func (s *AuthService) GetProfile(userID string) (*models.UserResponse, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}

	response := user.PublicView()
	return &response, nil
}
