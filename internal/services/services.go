package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/HuongNV13/moodle-block-todo/internal/models"
)

var (
	ErrItemNotFound      = errors.New("todo item not found")
	ErrEmptyItemText     = errors.New("todo item text must not be empty")
	ErrInvalidSortKey    = errors.New("invalid sort key")
	ErrForbidden         = errors.New("capability check failed")
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrPasswordMismatch  = errors.New("user password mismatch")
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionExpired    = errors.New("session expired")
)

// SortKey selects the ordering of a todo item listing. Values arrive
// from the client and must be parsed through ParseSortKey before they
// get anywhere near a query.
type SortKey string

const (
	SortByCreatedDate SortKey = "createddate"
	SortByDueDate     SortKey = "duedate"
	SortByText        SortKey = "todotext"
)

// ParseSortKey validates a caller-supplied sort key against the
// allow-list. Anything else is ErrInvalidSortKey; raw input is never
// interpolated into SQL.
func ParseSortKey(s string) (SortKey, error) {
	switch key := SortKey(s); key {
	case SortByCreatedDate, SortByDueDate, SortByText:
		return key, nil
	default:
		return "", ErrInvalidSortKey
	}
}

// RequestContext carries the identity of one RPC call. It is built by
// the delivery layer from the authenticated session and passed
// explicitly; services never read identity from ambient state.
type RequestContext struct {
	UserID    string
	ContextID int64
}

// ItemService is the todo item store. Every operation is scoped to the
// owner: a foreign id and a missing id are both ErrItemNotFound, so a
// caller cannot probe for other users' items.
type ItemService interface {
	// ListItems returns all items owned by ownerID ordered by the
	// given sort key. The full list is returned on every call; the
	// ordering is recomputed, never persisted.
	ListItems(ctx context.Context, ownerID string, key SortKey) ([]*models.TodoItem, error)

	// CreateItem inserts a new not-done item owned by ownerID.
	CreateItem(ctx context.Context, ownerID, text string, dueDate *time.Time) (*models.TodoItem, error)

	// ToggleItem flips the done flag of the item and returns the
	// updated row.
	ToggleItem(ctx context.Context, ownerID string, id int64) (*models.TodoItem, error)

	// DeleteItem permanently removes the item. There is no soft
	// delete and no undo.
	DeleteItem(ctx context.Context, ownerID string, id int64) error
}

// Authorizer answers whether a user may manage the todo widget within
// the given context. Implementations can be swapped for testing.
type Authorizer interface {
	CanManage(ctx context.Context, userID string, contextID int64) (bool, error)
}

// ContextResolver resolves the caller's own context, the scope every
// capability check of this widget is evaluated against.
type ContextResolver interface {
	ResolveUserContext(ctx context.Context, userID string) (int64, error)
}

type AuthService interface {
	// Login authenticates the user by email and password.
	//
	// It deletes all sessions with the same user ID, creates a new
	// session and generates a fresh JWT token pair.
	//
	// It returns ErrUserNotFound if no user has the given email or
	// ErrPasswordMismatch if the password does not match.
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)

	// Refresh rotates the session with the given refresh token.
	//
	// It returns ErrSessionNotFound if no session matches the token
	// and fingerprint, or ErrSessionExpired if the session is stale.
	Refresh(ctx context.Context, params RefreshParams) (*LoginResult, error)

	// Register creates a user with the given email and password,
	// plus a session with a fresh JWT token pair.
	//
	// It returns ErrUserAlreadyExists on a duplicate email.
	Register(ctx context.Context, params LoginParams) (*LoginResult, error)

	// Logout invalidates all sessions of the given user.
	Logout(ctx context.Context, userID string) error

	// ParseJWTToken parses an access token and returns its
	// registered claims, or jwt.ErrTokenExpired when it is expired.
	ParseJWTToken(token string) (*jwt.RegisteredClaims, error)
}

type SessionService interface {
	GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error)
}

type LoginParams struct {
	Email       string
	Password    string
	Fingerprint string
}

type LoginResult struct {
	UserID                string
	SessionID             string
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

type RefreshParams struct {
	RefreshToken string
	Fingerprint  string
}
