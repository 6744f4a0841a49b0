// Package services contains server-side business logic. This file implements
// UserService: the credential store behind registration, login and the
// authentication gate's subject lookup.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/artvault/internal/common"
	"github.com/dmitrijs2005/artvault/internal/dbx"
	"github.com/dmitrijs2005/artvault/internal/logging"
	"github.com/dmitrijs2005/artvault/internal/server/auth"
	"github.com/dmitrijs2005/artvault/internal/server/metrics"
	"github.com/dmitrijs2005/artvault/internal/server/models"
	"github.com/dmitrijs2005/artvault/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const (
	MinNameLength     = 2
	MinPasswordLength = 6
)

// UserService provides authentication-related operations:
//   - Register: create an account and open a session
//   - Login: check credentials and open a session
//   - FindByID: resolve a token subject for the Gate
type UserService struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenService
	logger      logging.Logger

	// dummyHash is compared against when the email is unknown so that a
	// missing account costs the same bcrypt round as a wrong password.
	dummyHash string
}

// NewUserService constructs a UserService using repositories and the token service.
func NewUserService(db dbx.DBTX, m repomanager.RepositoryManager, tokens *auth.TokenService, l logging.Logger) *UserService {
	s := &UserService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		logger:      l.With("module", "user_service"),
	}

	seed, err := common.MakeRandHexString(16)
	if err != nil {
		seed = "artvault-unknown-account"
	}
	if s.dummyHash, err = auth.HashPassword(seed); err != nil {
		s.logger.Error(context.Background(), "prepare dummy hash", "error", err)
	}

	return s
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrorInvalidInput, fmt.Sprintf(format, args...))
}

// NormalizeEmail is the canonical form emails are stored and compared in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateRegistration(name, email, password string) error {
	if utf8.RuneCountInString(name) < MinNameLength {
		return invalid("name must be at least %d characters", MinNameLength)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return invalid("email is not valid")
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return invalid("password must be at least %d characters", MinPasswordLength)
	}
	if len(password) > auth.MaxPasswordBytes {
		return invalid("password must be at most %d bytes", auth.MaxPasswordBytes)
	}
	return nil
}

// Register creates a new account and returns a session for it. A second
// account with the same email, in any letter case, fails with
// common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.Session, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)

	if err := validateRegistration(name, email, password); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "invalid").Inc()
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Error(ctx, "hash password", "error", err)
		return nil, common.ErrorInternal
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}

	repo := s.repomanager.Users(s.db)

	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			metrics.AuthAttemptsTotal.WithLabelValues("register", "duplicate").Inc()
			return nil, common.ErrorAlreadyExists
		}
		s.logger.Error(ctx, "create user", "error", err)
		metrics.AuthAttemptsTotal.WithLabelValues("register", "error").Inc()
		return nil, common.ErrorInternal
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "ok").Inc()
	s.logger.Info(ctx, "user registered", "user_id", user.ID)

	return s.openSession(ctx, user.Identity())
}

// Verify checks email and password. An unknown email and a wrong password
// both yield common.ErrorInvalidCredentials.
func (s *UserService) Verify(ctx context.Context, email, password string) (*models.Identity, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			auth.ComparePassword(s.dummyHash, password)
			return nil, common.ErrorInvalidCredentials
		}
		s.logger.Error(ctx, "lookup user by email", "error", err)
		return nil, common.ErrorInternal
	}

	if !auth.ComparePassword(user.PasswordHash, password) {
		return nil, common.ErrorInvalidCredentials
	}

	return user.Identity(), nil
}

// Login verifies credentials and returns a fresh session.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	identity, err := s.Verify(ctx, email, password)
	if err != nil {
		result := "error"
		if errors.Is(err, common.ErrorInvalidCredentials) {
			result = "invalid_credentials"
			s.logger.Warn(ctx, "login rejected", "email", NormalizeEmail(email))
		}
		metrics.AuthAttemptsTotal.WithLabelValues("login", result).Inc()
		return nil, err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "ok").Inc()
	return s.openSession(ctx, identity)
}

// FindByID returns the public identity for id, or common.ErrorNotFound.
func (s *UserService) FindByID(ctx context.Context, id string) (*models.Identity, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	user, err := s.repomanager.Users(s.db).GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "lookup user by id", "user_id", id, "error", err)
		return nil, common.ErrorInternal
	}

	return user.Identity(), nil
}

func (s *UserService) openSession(ctx context.Context, identity *models.Identity) (*models.Session, error) {
	token, err := s.tokens.Issue(identity.ID)
	if err != nil {
		s.logger.Error(ctx, "issue token", "user_id", identity.ID, "error", err)
		return nil, common.ErrorInternal
	}
	return &models.Session{Token: token, Identity: identity}, nil
}
