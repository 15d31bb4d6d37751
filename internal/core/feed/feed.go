package feed

import (
	"time"

	"github.com/gofrs/uuid"
)

const (
	DefaultLimit = 10
	MaxLimit     = 50
)

// ScopeKind selects which posts a feed is built from.
type ScopeKind int

const (
	ScopeGlobal ScopeKind = iota
	ScopeUser
)

type Scope struct {
	Kind   ScopeKind
	UserID uuid.UUID
}

func Global() Scope { return Scope{Kind: ScopeGlobal} }

func ByUser(userID uuid.UUID) Scope { return Scope{Kind: ScopeUser, UserID: userID} }

// Query is a page request over a scope. Limit and Offset are validated by the
// feed service.
type Query struct {
	Scope  Scope
	Limit  int `validate:"gte=1,lte=50"`
	Offset int `validate:"gte=0"`
}

// PostRow is one row of the page query: a post joined with its owner's
// username.
type PostRow struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Content   string
	ImagePath *string
	CreatedAt time.Time
	UpdatedAt time.Time
	Username  string
}

// EnrichedPost is the read-time projection of a post with its derived social
// state. It is assembled by the feed service and never written back.
type EnrichedPost struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Content       string
	ImagePath     *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Username      string
	LikesCount    int64
	CommentsCount int64
	LikedByMe     bool
}
