package repository

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"casino-bot/internal/model"
)

// checkDockerAvailable checks if Docker is available and running
func checkDockerAvailable() bool {
	cmd := exec.Command("docker", "info")
	return cmd.Run() == nil
}

// setupTestDB starts a PostgreSQL container and returns a migrated pool.
// Skips the test if Docker is not available.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if !checkDockerAvailable() {
		t.Skip("Docker is not available, skipping integration test")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, Migrate(ctx, pool))
	// Second run must be a no-op.
	require.NoError(t, Migrate(ctx, pool))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

func TestProfileRepository_GetOrCreate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProfileRepository(pool)
	ctx := context.Background()

	p, created, err := repo.GetOrCreate(ctx, 42)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(42), p.UserID)
	assert.Equal(t, model.DefaultMoney, p.Money)
	assert.Equal(t, int64(0), p.Affection)
	assert.Equal(t, 0, p.Streak)
	assert.True(t, p.LastDaily.IsZero())
	assert.Empty(t, p.Titles)
	assert.NotNil(t, p.Titles)

	again, created, err := repo.GetOrCreate(ctx, 42)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, p.UserID, again.UserID)
}

func TestProfileRepository_GetByID_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := NewProfileRepository(pool).GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestProfileRepository_CreateConflict(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProfileRepository(pool)
	ctx := context.Background()

	first, err := repo.Create(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := repo.Create(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, second)
}

func TestProfileRepository_UpdateRoundTrip(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProfileRepository(pool)
	ctx := context.Background()

	p, _, err := repo.GetOrCreate(ctx, 1)
	require.NoError(t, err)

	p.Money = 12345
	p.Affection = 80
	p.Streak = 7
	p.LastDaily = model.Date{Year: 2024, Month: time.March, Day: 9}
	p.Titles = []string{"regular", "seasoned"}
	p.GambleCount = 201
	p.TotalLogins = 15
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(12345), got.Money)
	assert.Equal(t, int64(80), got.Affection)
	assert.Equal(t, 7, got.Streak)
	assert.Equal(t, model.Date{Year: 2024, Month: time.March, Day: 9}, got.LastDaily)
	assert.Equal(t, []string{"regular", "seasoned"}, got.Titles)
	assert.Equal(t, int64(201), got.GambleCount)
	assert.Equal(t, int64(15), got.TotalLogins)
}

func TestProfileRepository_UpdateMissing(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	err := NewProfileRepository(pool).Update(context.Background(), model.NewProfile(404))
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestTransactionRepository_GetByUserID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	_, _, err := NewProfileRepository(pool).GetOrCreate(ctx, 5)
	require.NoError(t, err)

	repo := NewTransactionRepository(pool)
	for i := int64(1); i <= 7; i++ {
		tx := model.NewTransaction(5, i*10, model.TxTypeSlot, "")
		require.NoError(t, repo.Create(ctx, tx))
		assert.NotZero(t, tx.ID)
	}

	txs, err := repo.GetByUserID(ctx, 5, 5)
	require.NoError(t, err)
	require.Len(t, txs, 5)
	assert.Equal(t, int64(70), txs[0].Amount)
	assert.Nil(t, txs[0].Description)
}

func TestStore_SaveWritesProfileAndJournal(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewStore(pool)
	ctx := context.Background()
	require.NoError(t, store.Ping(ctx))

	p, err := store.GetOrCreate(ctx, 10)
	require.NoError(t, err)

	p.Money += 200
	p.TotalLogins++
	require.NoError(t, store.Save(ctx, p, []*model.Transaction{
		model.NewTransaction(10, 200, model.TxTypeDaily, "streak 1"),
	}))

	got, err := store.GetOrCreate(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(700), got.Money)
	assert.Equal(t, int64(1), got.TotalLogins)

	recent, err := store.Recent(ctx, 10, 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, model.TxTypeDaily, recent[0].Type)
	require.NotNil(t, recent[0].Description)
	assert.Equal(t, "streak 1", *recent[0].Description)
}

func TestStore_SaveRollsBackOnJournalFailure(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewStore(pool)
	ctx := context.Background()

	p, err := store.GetOrCreate(ctx, 11)
	require.NoError(t, err)

	p.Money = 9999
	// Journal row for a user that does not exist violates the foreign key.
	err = store.Save(ctx, p, []*model.Transaction{
		model.NewTransaction(12, 1, model.TxTypeCoinflip, ""),
	})
	require.Error(t, err)

	got, err := store.GetOrCreate(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultMoney, got.Money)
}
