// Package store provides an optional Postgres archive of chat interactions
// and failed queries. The in-memory stores remain the source of truth for
// matching; the archive is a durable copy for offline analysis, enabled only
// when DATABASE_URL is configured.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NovaEd-Consulting/atlas/internal/interaction"
)

type Archive struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Archive, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Archive{pool: pool}, nil
}

func (a *Archive) Close() {
	a.pool.Close()
}

// WriteInteraction archives a processed chat turn.
func (a *Archive) WriteInteraction(ctx context.Context, rec interaction.Record) error {
	_, err := a.pool.Exec(ctx, `
		INSERT INTO interactions (id, session_id, input, response, entry_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.SessionID, rec.Input, rec.Response, rec.EntryID, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}
	return nil
}

// MarkFeedback records feedback against an archived interaction.
func (a *Archive) MarkFeedback(ctx context.Context, rec interaction.Record) error {
	if rec.WasHelpful == nil {
		return nil
	}
	rating := 0
	if rec.Rating != nil {
		rating = *rec.Rating
	}
	_, err := a.pool.Exec(ctx, `
		UPDATE interactions SET was_helpful = $1, rating = $2, rated_at = now()
		WHERE id = $3`,
		*rec.WasHelpful, rating, rec.ID,
	)
	if err != nil {
		return fmt.Errorf("update interaction feedback: %w", err)
	}
	return nil
}

// WriteFailedQuery archives a query no catalog entry could answer.
func (a *Archive) WriteFailedQuery(ctx context.Context, sessionID, query string, at time.Time) error {
	_, err := a.pool.Exec(ctx, `
		INSERT INTO failed_queries (session_id, query, created_at)
		VALUES ($1, $2, $3)`,
		sessionID, query, at,
	)
	if err != nil {
		return fmt.Errorf("insert failed query: %w", err)
	}
	return nil
}
