package preference

import (
	"context"
	"testing"
	"time"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	return NewPostgresRepositoryWithPool(mockPool, testLogger()), mockPool
}

func TestPostgresRepository_SavePreference(t *testing.T) {
	ctx := context.Background()
	travelDate := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	pref := types.UserPreference{
		Source:      "Berlin",
		Destination: "Paris",
		Duration:    3,
		Budget:      floatPtr(2000),
		Interests:   "art,food",
		Halal:       true,
		TravelDate:  &travelDate,
	}

	t.Run("returns the generated id", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		mockPool.ExpectQuery(`INSERT INTO user_preferences`).
			WithArgs(pref.Source, pref.Destination, pref.Duration, pref.Budget,
				pref.Interests, pref.Halal, pref.Vegetarian, pref.TravelDate).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(11))

		id, err := repo.SavePreference(ctx, pref)
		require.NoError(t, err)
		assert.Equal(t, 11, id)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("wraps insert errors", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		mockPool.ExpectQuery(`INSERT INTO user_preferences`).
			WithArgs(pref.Source, pref.Destination, pref.Duration, pref.Budget,
				pref.Interests, pref.Halal, pref.Vegetarian, pref.TravelDate).
			WillReturnError(assert.AnError)

		id, err := repo.SavePreference(ctx, pref)
		require.Error(t, err)
		assert.Zero(t, id)
	})
}

func TestPostgresRepository_GetPreference(t *testing.T) {
	ctx := context.Background()
	columns := []string{"id", "source", "destination", "duration", "budget", "interests", "halal", "vegetarian", "travel_date"}

	t.Run("scans the full row", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		budget := 1500.0
		mockPool.ExpectQuery(`SELECT id, source, destination`).
			WithArgs(5).
			WillReturnRows(pgxmock.NewRows(columns).
				AddRow(5, "Porto", "Madrid", 2, &budget, "history", false, true, (*time.Time)(nil)))

		pref, err := repo.GetPreference(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, 5, pref.ID)
		assert.Equal(t, "Madrid", pref.Destination)
		assert.True(t, pref.Vegetarian)
		require.NotNil(t, pref.Budget)
		assert.Equal(t, 1500.0, *pref.Budget)
		assert.Nil(t, pref.TravelDate)
	})

	t.Run("maps missing rows to not found", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		mockPool.ExpectQuery(`SELECT id, source, destination`).
			WithArgs(99).
			WillReturnError(pgx.ErrNoRows)

		pref, err := repo.GetPreference(ctx, 99)
		require.ErrorIs(t, err, types.ErrNotFound)
		assert.Nil(t, pref)
	})
}
