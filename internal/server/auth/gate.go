package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/artvault/internal/common"
	"github.com/dmitrijs2005/artvault/internal/logging"
	"github.com/dmitrijs2005/artvault/internal/server/metrics"
	"github.com/dmitrijs2005/artvault/internal/server/models"
)

// IdentityFinder resolves a token subject to a live account. It returns
// common.ErrorNotFound when the account does not exist.
type IdentityFinder interface {
	FindByID(ctx context.Context, id string) (*models.Identity, error)
}

// Gate authenticates bearer credentials. It never authorizes: callers past
// the Gate only know the identity is a real account holding a valid token.
type Gate struct {
	tokens *TokenService
	users  IdentityFinder
	logger logging.Logger
}

func NewGate(tokens *TokenService, users IdentityFinder, l logging.Logger) *Gate {
	return &Gate{
		tokens: tokens,
		users:  users,
		logger: l.With("module", "auth_gate"),
	}
}

// ExtractBearer returns the token from an "Authorization: Bearer <token>"
// value. The scheme is matched case-insensitively.
func ExtractBearer(authorization string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(authorization), " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Authenticate resolves the identity behind an Authorization value.
//
// Every rejection is common.ErrorUnauthorized; the precise reason (missing,
// invalid, expired, subject gone) is only logged. Storage failures while
// resolving the subject yield common.ErrorInternal.
func (g *Gate) Authenticate(ctx context.Context, authorization string) (*models.Identity, error) {
	token, ok := ExtractBearer(authorization)
	if !ok {
		g.reject(ctx, "missing_token")
		return nil, common.ErrorUnauthorized
	}

	subjectID, err := g.tokens.Verify(token)
	if err != nil {
		reason := "invalid_token"
		if errors.Is(err, common.ErrTokenExpired) {
			reason = "expired_token"
		}
		g.reject(ctx, reason, "error", err)
		return nil, common.ErrorUnauthorized
	}

	identity, err := g.users.FindByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			g.reject(ctx, "unknown_subject", "user_id", subjectID)
			return nil, common.ErrorUnauthorized
		}
		g.logger.Error(ctx, "resolve token subject", "user_id", subjectID, "error", err)
		metrics.AuthAttemptsTotal.WithLabelValues("gate", "error").Inc()
		return nil, common.ErrorInternal
	}

	metrics.AuthAttemptsTotal.WithLabelValues("gate", "ok").Inc()
	return identity, nil
}

func (g *Gate) reject(ctx context.Context, reason string, args ...any) {
	g.logger.Warn(ctx, "authentication rejected", append([]any{"reason", reason}, args...)...)
	metrics.AuthAttemptsTotal.WithLabelValues("gate", reason).Inc()
}
