package services

import (
	"errors"
	"log/slog"
	"time"

	"DuoChat/pkg/apperr"
	tokenstore "DuoChat/pkg/token"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Options carries the collaborators the core depends on. Zero values
// get production defaults except Artifacts, which callers must supply.
type Options struct {
	Hasher    PasswordHasher
	Tokens    *TokenIssuer
	Revoked   tokenstore.Store
	Artifacts ArtifactStore
	Auditor   Auditor
	Logger    *slog.Logger
	Now       func() time.Time
}

// Core bundles every service the HTTP layer talks to.
type Core struct {
	Auth          *AuthService
	Users         *UserDirectory
	Conversations *ConversationRegistry
	Messages      *MessageLog
	Files         *FileGateway
	Artifacts     ArtifactStore
}

func NewCore(db *gorm.DB, opts Options) *Core {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	if opts.Hasher == nil {
		opts.Hasher = NewBcryptHasher()
	}
	if opts.Tokens == nil {
		// Tokens from a throwaway secret die with the process.
		opts.Tokens = NewTokenIssuer(uuid.NewString(), DefaultTokenTTL)
	}
	if opts.Revoked == nil {
		opts.Revoked = tokenstore.NewMemoryStore()
	}
	if opts.Auditor == nil {
		opts.Auditor = LogAuditor{Logger: opts.Logger}
	}

	return &Core{
		Auth:          NewAuthService(db, opts.Hasher, opts.Tokens, opts.Revoked, opts.Logger),
		Users:         NewUserDirectory(db),
		Conversations: NewConversationRegistry(db, opts.Now, opts.Logger),
		Messages:      NewMessageLog(db, opts.Now, opts.Logger),
		Files:         NewFileGateway(db, opts.Artifacts, opts.Auditor, opts.Now, opts.Logger),
		Artifacts:     opts.Artifacts,
	}
}

// storeError passes domain errors through and wraps everything else as
// Internal, logging the cause once.
func storeError(logger *slog.Logger, op string, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	logger.Error("store failure", "op", op, "err", err)
	return apperr.Wrap(err, apperr.Internal)
}
