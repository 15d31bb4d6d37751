package user

import (
	"context"
	"minisocial/internal/core/user"
	"time"

	"github.com/gofrs/uuid"
)

// UserRepository is the port to the identity store.
type UserRepository interface {
	Create(ctx context.Context, user *user.User) (*user.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	FindByUsername(ctx context.Context, username string) (*user.User, error)
	// Delete removes the user and, in the same transaction, every like,
	// comment and post that depends on it.
	Delete(ctx context.Context, id uuid.UUID) error
}

// DTOs returned to the transport layer

// AuthToken is the login/registration response.
type AuthToken struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// UserPublic is what other users may see.
type UserPublic struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// UserOwner is what the account owner sees about themself.
type UserOwner struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func ToPublic(u *user.User) *UserPublic {
	return &UserPublic{ID: u.ID.String(), Username: u.Username}
}

func ToOwner(u *user.User) *UserOwner {
	return &UserOwner{ID: u.ID.String(), Username: u.Username, Email: u.Email, CreatedAt: u.CreatedAt}
}
