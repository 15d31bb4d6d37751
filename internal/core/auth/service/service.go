package authapp

import (
	"context"
	"errors"
	"minisocial/internal/apperror"
	"minisocial/internal/core/user"
	authPort "minisocial/internal/ports/auth"
	userPort "minisocial/internal/ports/user"
	"strings"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

const tokenType = "bearer"

// Authorization failure reasons handed back to clients.
var (
	ErrMissingCredentials = apperror.Unauthorized("missing credentials")
	ErrInvalidToken       = apperror.Unauthorized("invalid token")
	ErrTokenExpired       = apperror.Unauthorized("token expired")
	ErrUserNotFound       = apperror.Unauthorized("user not found")
)

// AuthService resolves a bearer token into a User. It keeps no state between
// calls.
type AuthService struct {
	users  userPort.UserRepository
	tokens authPort.TokenService
	logger *zap.Logger
}

func NewAuthService(users userPort.UserRepository, tokens authPort.TokenService, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, logger: logger}
}

// Authenticate validates an Authorization header value of the form
// "Bearer <token>".
func (s *AuthService) Authenticate(ctx context.Context, header string) (*user.User, error) {
	raw, ok := ParseBearer(header)
	if !ok {
		return nil, ErrMissingCredentials
	}

	subject, err := s.tokens.VerifyToken(raw)
	if err != nil {
		if errors.Is(err, authPort.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	id, err := uuid.FromString(subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("Error loading token subject", zap.String("userID", subject), zap.Error(err))
		return nil, apperror.Internal("could not load user", err)
	}
	return u, nil
}

// IssueToken signs an access token for userID.
func (s *AuthService) IssueToken(userID uuid.UUID) (*userPort.AuthToken, error) {
	raw, expiresAt, err := s.tokens.IssueToken(userID.String())
	if err != nil {
		s.logger.Error("Error generating JWT", zap.Error(err))
		return nil, apperror.Internal("could not generate token", err)
	}
	return &userPort.AuthToken{
		AccessToken: raw,
		TokenType:   tokenType,
		ExpiresAt:   expiresAt,
	}, nil
}

// ParseBearer extracts the token from a "Bearer <token>" header. The scheme
// is matched case-insensitively.
func ParseBearer(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
