package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"burningbros/internal/apperror"
	"burningbros/internal/models"
	"burningbros/internal/repositories"
	"burningbros/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTokenDuration is how long issued tokens stay valid when no duration is configured.
const DefaultTokenDuration = 24 * time.Hour

// tokenClaims is the JWT payload. It identifies the user and never carries credentials.
type tokenClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo      repositories.UserRepository
	jwtSecret     []byte
	tokenDuration time.Duration
	now           func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, tokenDuration time.Duration) *AuthService {
	if tokenDuration <= 0 {
		tokenDuration = DefaultTokenDuration
	}
	return &AuthService{
		userRepo:      userRepo,
		jwtSecret:     []byte(jwtSecret),
		tokenDuration: tokenDuration,
		now:           time.Now,
	}
}

// Register creates a user with a bcrypt-hashed password. Usernames are
// case-insensitive and must be unique.
func (s *AuthService) Register(ctx context.Context, input models.RegisterInput) error {
	input.Username = models.NormalizeUsername(input.Username)
	if err := validation.Struct(input); err != nil {
		return err
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return apperror.Internal(fmt.Errorf("failed to check username: %w", err))
	}
	if exists {
		return apperror.New(apperror.CodeUserAlreadyExists)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return apperror.Internal(fmt.Errorf("failed to hash password: %w", err))
	}

	user := &models.User{
		Username: input.Username,
		Password: string(hashedPassword),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration of the same name.
		if errors.Is(err, repositories.ErrDuplicate) {
			return apperror.New(apperror.CodeUserAlreadyExists).WithCause(err)
		}
		return apperror.Internal(fmt.Errorf("failed to register user: %w", err))
	}
	return nil
}

// Login authenticates a user and returns a signed JWT.
func (s *AuthService) Login(ctx context.Context, input models.LoginInput) (string, error) {
	if err := validation.Struct(input); err != nil {
		return "", err
	}

	user, err := s.userRepo.GetByUsername(ctx, models.NormalizeUsername(input.Username))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", apperror.New(apperror.CodeUserNotFound)
		}
		return "", apperror.Internal(fmt.Errorf("failed to load user: %w", err))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return "", apperror.New(apperror.CodeIncorrectPassword)
	}

	return s.issueToken(user)
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	now := s.now()
	claims := tokenClaims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenDuration)),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", apperror.Internal(fmt.Errorf("failed to generate token: %w", err))
	}
	return tokenString, nil
}

// ValidateToken parses and verifies a JWT, returning the identity it carries.
func (s *AuthService) ValidateToken(tokenString string) (*models.AuthUser, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, apperror.New(apperror.CodeAuthenticationRequired).WithCause(fmt.Errorf("invalid token: %w", err))
	}

	if claims.Subject == "" {
		return nil, apperror.New(apperror.CodeAuthenticationRequired).WithCause(errors.New("token has no subject"))
	}
	return &models.AuthUser{ID: claims.Subject, Username: claims.Username}, nil
}
