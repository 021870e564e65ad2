package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// CapabilityManageTodo is the capability a user must hold in the
// resolved context to use the todo widget at all.
const CapabilityManageTodo = "todo:manage"

type capabilityAuthorizer struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

// NewCapabilityAuthorizer returns an Authorizer that looks up grants
// in the capabilities table.
func NewCapabilityAuthorizer(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) Authorizer {
	return &capabilityAuthorizer{
		logger: logger,
		pgPool: pgPool,
	}
}

func (a *capabilityAuthorizer) CanManage(ctx context.Context, userID string, contextID int64) (bool, error) {
	const selectCapabilityQuery = `
SELECT EXISTS (
    SELECT 1
    FROM capabilities
    WHERE user_id = $1 AND
          capability = $2 AND
          context_id = $3
)
`
	var granted bool
	err := a.pgPool.QueryRow(
		ctx,
		selectCapabilityQuery,
		userID,
		CapabilityManageTodo,
		contextID,
	).Scan(&granted)
	if err != nil {
		a.logger.Error().
			Err(err).
			Str("user_id", userID).
			Int64("context_id", contextID).
			Msg("failed to check capability")
		return false, err
	}

	a.logger.Debug().
		Str("user_id", userID).
		Int64("context_id", contextID).
		Bool("granted", granted).
		Msg("checked capability")
	return granted, nil
}

var ErrContextNotFound = errors.New("context not found")

type contextResolverImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

// NewContextResolver returns a ContextResolver backed by the contexts
// table. Every user gets exactly one row there at registration.
func NewContextResolver(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) ContextResolver {
	return &contextResolverImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (r *contextResolverImpl) ResolveUserContext(ctx context.Context, userID string) (int64, error) {
	const selectContextQuery = `
SELECT id
FROM contexts
WHERE user_id = $1
`
	var contextID int64
	err := r.pgPool.QueryRow(
		ctx,
		selectContextQuery,
		userID,
	).Scan(&contextID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn().
				Str("user_id", userID).
				Msg("context not found")
			return 0, ErrContextNotFound
		}

		r.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to resolve user context")
		return 0, err
	}

	return contextID, nil
}
