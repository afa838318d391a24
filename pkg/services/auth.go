package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"DuoChat/models"
	"DuoChat/pkg/apperr"
	tokenstore "DuoChat/pkg/token"

	"gorm.io/gorm"
)

// bcrypt reads at most this many bytes of a password.
const maxPasswordBytes = 72

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Username string `json:"username" validate:"required,min=3,max=30"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password"`
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User  models.PublicUser `json:"user"`
	Token string            `json:"token"`
}

type AuthService struct {
	db      *gorm.DB
	hasher  PasswordHasher
	tokens  *TokenIssuer
	revoked tokenstore.Store
	log     *slog.Logger
}

func NewAuthService(db *gorm.DB, hasher PasswordHasher, tokens *TokenIssuer, revoked tokenstore.Store, logger *slog.Logger) *AuthService {
	return &AuthService{
		db:      db,
		hasher:  hasher,
		tokens:  tokens,
		revoked: revoked,
		log:     logger.With("component", "auth"),
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, apperr.Newf(apperr.Validation, "password must be at most %d bytes", maxPasswordBytes)
	}
	db := s.db.WithContext(ctx)

	if err := s.checkAvailable(db, in.Email, in.Username); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, storeError(s.log, "hash password", err)
	}
	user := models.User{Email: in.Email, Username: in.Username, PasswordHash: hash}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race with a concurrent registration; report which field.
			if takenErr := s.checkAvailable(db, in.Email, in.Username); takenErr != nil {
				return nil, takenErr
			}
		}
		return nil, storeError(s.log, "create user", err)
	}

	s.log.Info("user registered", "user_id", user.ID)
	return s.issue(&user)
}

// Login never reveals whether the email or the password was wrong.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", in.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.InvalidCredentials)
	}
	if err != nil {
		return nil, storeError(s.log, "find user", err)
	}
	if in.Password == "" || !s.hasher.Verify(user.PasswordHash, in.Password) {
		return nil, apperr.New(apperr.InvalidCredentials)
	}
	return s.issue(&user)
}

// Verify parses a bearer token and rejects it if it was logged out.
func (s *AuthService) Verify(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, storeError(s.log, "check revocation", err)
	}
	if revoked {
		return nil, apperr.Newf(apperr.Unauthorized, "token has been revoked")
	}
	return claims, nil
}

// Logout revokes the token's jti until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.ID == "" {
		return apperr.New(apperr.Unauthorized)
	}
	until := s.tokens.now()
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	if err := s.revoked.Revoke(ctx, claims.ID, until); err != nil {
		return storeError(s.log, "revoke token", err)
	}
	s.log.Info("user logged out", "user_id", claims.UserID)
	return nil
}

func (s *AuthService) Me(ctx context.Context, userID uint) (*models.PublicUser, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.UnknownUser)
	}
	if err != nil {
		return nil, storeError(s.log, "get user", err)
	}
	pub := user.Public()
	return &pub, nil
}

func (s *AuthService) checkAvailable(db *gorm.DB, email, username string) error {
	var n int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return storeError(s.log, "check email", err)
	}
	if n > 0 {
		return apperr.New(apperr.DuplicateEmail)
	}
	if err := db.Model(&models.User{}).Where("username = ?", username).Count(&n).Error; err != nil {
		return storeError(s.log, "check username", err)
	}
	if n > 0 {
		return apperr.New(apperr.DuplicateUsername)
	}
	return nil
}

func (s *AuthService) issue(u *models.User) (*AuthResult, error) {
	token, _, err := s.tokens.Issue(u)
	if err != nil {
		return nil, storeError(s.log, "sign token", err)
	}
	return &AuthResult{User: u.Public(), Token: token}, nil
}
