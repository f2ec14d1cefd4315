package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"ecommerce-api/apperror"
	"ecommerce-api/config"
	"ecommerce-api/models"
	"ecommerce-api/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenTypeAccess = "access"
	tokenTypeReset  = "reset_password"
)

// ErrBadCredentials is returned by Login for an unknown email or wrong password.
var ErrBadCredentials = apperror.Validation("incorrect credentials")

type tokenClaims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// AuthService hashes passwords, issues tokens and resolves bearer tokens to users.
type AuthService struct {
	users        *repository.UserRepository
	secret       []byte
	method       jwt.SigningMethod
	accessExpire time.Duration
	resetExpire  time.Duration
	timeout      time.Duration
	log          logrus.FieldLogger
	now          func() time.Time
}

func NewAuthService(cfg config.Config, users *repository.UserRepository, log logrus.FieldLogger) *AuthService {
	return &AuthService{
		users:        users,
		secret:       []byte(cfg.SecretKey),
		method:       jwt.GetSigningMethod(cfg.Algorithm),
		accessExpire: cfg.AccessTokenExpire,
		resetExpire:  cfg.ResetTokenExpire,
		timeout:      cfg.DBTimeout,
		log:          log,
		now:          time.Now,
	}
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func VerifyPassword(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}

// Login checks the credentials and returns a signed access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return "", ErrBadCredentials
		}
		return "", err
	}
	if !VerifyPassword(user.HashedPassword, password) {
		s.log.WithField("user_id", user.ID).Info("login rejected: wrong password")
		return "", ErrBadCredentials
	}
	return s.issue(user.ID, tokenTypeAccess, s.accessExpire)
}

// Authenticate resolves a bearer token to a known user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.parse(token, tokenTypeAccess)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.ErrUnauthenticated
		}
		return nil, err
	}
	return user, nil
}

// RequireActive fails with ErrInactiveAccount for a deactivated user.
func RequireActive(user *models.User) error {
	if !user.IsActive {
		return &apperror.Error{Kind: apperror.ErrInactiveAccount, Message: "inactive user"}
	}
	return nil
}

// RequireAdmin fails unless the user is active and an administrator.
func RequireAdmin(user *models.User) error {
	if err := RequireActive(user); err != nil {
		return err
	}
	if !user.IsAdmin {
		return apperror.Forbidden("permission denied, administrator privileges required")
	}
	return nil
}

// IssueResetToken returns a short-lived password reset token for the email,
// or ErrNotFound when no such user exists.
func (s *AuthService) IssueResetToken(ctx context.Context, email string) (*models.User, string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	token, err := s.issue(user.ID, tokenTypeReset, s.resetExpire)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ResetPassword validates a reset token and stores the new password hash.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	userID, err := s.parse(token, tokenTypeReset)
	if err != nil {
		return apperror.Validation("invalid or expired token")
	}
	hashed, err := HashPassword(password)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if _, err := s.users.Update(ctx, userID, map[string]any{"hashed_password": hashed}); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.Validation("user not found")
		}
		return err
	}
	return nil
}

func (s *AuthService) issue(userID uint, tokenType string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := tokenClaims{
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("could not generate token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) parse(tokenString, tokenType string) (uint, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{s.method.Alg()}), jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		s.log.WithError(err).Debug("token rejected")
		return 0, apperror.ErrUnauthenticated
	}
	if claims.Type != tokenType {
		return 0, apperror.ErrUnauthenticated
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.ErrUnauthenticated
	}
	return uint(id), nil
}
