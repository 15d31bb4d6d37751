package userapp

import (
	"context"
	"minisocial/internal/apperror"
	userEntity "minisocial/internal/core/user"
	"minisocial/internal/core/validation"
	authPort "minisocial/internal/ports/auth"
	mediaPort "minisocial/internal/ports/media"
	postPort "minisocial/internal/ports/post"
	userPort "minisocial/internal/ports/user"
	"strings"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

var (
	ErrEmailTaken         = apperror.Duplicate("email already registered")
	ErrUsernameTaken      = apperror.Duplicate("username already taken")
	ErrInvalidCredentials = apperror.Unauthorized("invalid credentials")
	ErrUserNotFound       = apperror.NotFound("user not found")
)

// TokenIssuer signs an access token for a user.
type TokenIssuer interface {
	IssueToken(userID uuid.UUID) (*userPort.AuthToken, error)
}

type RegisterInput struct {
	Username string `validate:"required,notblank,max=50"`
	Email    string `validate:"required,email,max=255"`
	Password string `validate:"required,min=6,max=72"`
}

type LoginInput struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

// UserService owns registration, login and account lifecycle.
type UserService struct {
	UserRepository userPort.UserRepository
	PostRepository postPort.PostRepository
	hasher         authPort.PasswordHasher
	tokens         TokenIssuer
	storage        mediaPort.Storage
	logger         *zap.Logger
}

func NewUserService(
	users userPort.UserRepository,
	posts postPort.PostRepository,
	hasher authPort.PasswordHasher,
	tokens TokenIssuer,
	storage mediaPort.Storage,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		UserRepository: users,
		PostRepository: posts,
		hasher:         hasher,
		tokens:         tokens,
		storage:        storage,
		logger:         logger,
	}
}

// RegisterUser creates an account and logs it in. The email and username
// pre-checks give friendly errors; the unique indexes remain the real guard.
func (s *UserService) RegisterUser(ctx context.Context, username, email, password string) (*userPort.AuthToken, error) {
	in := RegisterInput{
		Username: strings.TrimSpace(username),
		Email:    normalizeEmail(email),
		Password: password,
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	if _, err := s.UserRepository.FindByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !apperror.IsNotFound(err) {
		return nil, apperror.Internal("could not check email", err)
	}
	if _, err := s.UserRepository.FindByUsername(ctx, in.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !apperror.IsNotFound(err) {
		return nil, apperror.Internal("could not check username", err)
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperror.Internal("could not hash password", err)
	}

	u, err := s.UserRepository.Create(ctx, &userEntity.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: digest,
	})
	if err != nil {
		if apperror.IsDuplicateKey(err) {
			s.logger.Info("Concurrent registration lost the race", zap.String("email", in.Email))
			return nil, apperror.Duplicate("username or email already registered").Wrap(err)
		}
		s.logger.Error("Error creating user", zap.Error(err))
		return nil, apperror.Internal("could not create user", err)
	}

	s.logger.Info("User registered", zap.String("userID", u.ID.String()))
	return s.tokens.IssueToken(u.ID)
}

// LoginUser checks the credentials and issues a token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *UserService) LoginUser(ctx context.Context, email, password string) (*userPort.AuthToken, error) {
	in := LoginInput{Email: normalizeEmail(email), Password: password}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	u, err := s.UserRepository.FindByEmail(ctx, in.Email)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, apperror.Internal("could not load user", err)
	}
	if !s.hasher.Verify(in.Password, u.PasswordHash) {
		s.logger.Debug("invalid password", zap.String("userID", u.ID.String()))
		return nil, ErrInvalidCredentials
	}
	return s.tokens.IssueToken(u.ID)
}

func (s *UserService) FindByID(ctx context.Context, id uuid.UUID) (*userEntity.User, error) {
	u, err := s.UserRepository.FindByID(ctx, id)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, apperror.Internal("could not load user", err)
	}
	return u, nil
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*userEntity.User, error) {
	u, err := s.UserRepository.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, apperror.Internal("could not load user", err)
	}
	return u, nil
}

func (s *UserService) GetPublicProfile(ctx context.Context, id uuid.UUID) (*userPort.UserPublic, error) {
	u, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return userPort.ToPublic(u), nil
}

func (s *UserService) OwnerView(u *userEntity.User) *userPort.UserOwner {
	return userPort.ToOwner(u)
}

// DeleteAccount removes the user with everything it owns. Image files are
// removed after the rows; a file that cannot be removed is only logged.
func (s *UserService) DeleteAccount(ctx context.Context, u *userEntity.User) error {
	paths, err := s.PostRepository.ImagePathsByUserID(ctx, u.ID)
	if err != nil {
		return apperror.Internal("could not list user images", err)
	}

	if err := s.UserRepository.Delete(ctx, u.ID); err != nil {
		if apperror.IsNotFound(err) {
			return ErrUserNotFound
		}
		s.logger.Error("Error deleting user", zap.String("userID", u.ID.String()), zap.Error(err))
		return apperror.Internal("could not delete user", err)
	}

	for _, p := range paths {
		if err := s.storage.Delete(ctx, p); err != nil {
			s.logger.Warn("Error removing image of deleted user", zap.String("path", p), zap.Error(err))
		}
	}
	s.logger.Info("User deleted", zap.String("userID", u.ID.String()), zap.Int("images", len(paths)))
	return nil
}

// normalizeEmail lower-cases email so uniqueness does not depend on the
// database collation.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
