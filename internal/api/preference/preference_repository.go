package preference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ Repository = (*PostgresRepository)(nil)

// Repository defines the persistence contract for user preferences.
type Repository interface {
	SavePreference(ctx context.Context, pref types.UserPreference) (int, error)
	GetPreference(ctx context.Context, id int) (*types.UserPreference, error)
}

// PgxPool is the subset of pgxpool.Pool the repository needs. Declared so
// tests can substitute pgxmock.
type PgxPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepository struct {
	logger *slog.Logger
	pgpool PgxPool
}

func NewPostgresRepository(pgpool *pgxpool.Pool, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{
		logger: logger,
		pgpool: pgpool,
	}
}

// NewPostgresRepositoryWithPool builds a repository over any PgxPool, used in tests.
func NewPostgresRepositoryWithPool(pgpool PgxPool, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresRepository) SavePreference(ctx context.Context, pref types.UserPreference) (int, error) {
	query := `
        INSERT INTO user_preferences (
            source, destination, duration, budget, interests, halal, vegetarian, travel_date
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id
    `
	var id int
	err := r.pgpool.QueryRow(ctx, query,
		pref.Source, pref.Destination, pref.Duration, pref.Budget,
		pref.Interests, pref.Halal, pref.Vegetarian, pref.TravelDate,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert user preference: %w", err)
	}
	return id, nil
}

func (r *PostgresRepository) GetPreference(ctx context.Context, id int) (*types.UserPreference, error) {
	query := `
        SELECT id, source, destination, duration, budget, interests, halal, vegetarian, travel_date
        FROM user_preferences
        WHERE id = $1
    `
	var pref types.UserPreference
	err := r.pgpool.QueryRow(ctx, query, id).Scan(
		&pref.ID, &pref.Source, &pref.Destination, &pref.Duration, &pref.Budget,
		&pref.Interests, &pref.Halal, &pref.Vegetarian, &pref.TravelDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user preference: %w", err)
	}
	return &pref, nil
}
