//go:build integration

package repository_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/gallery_booking/internal/app"
	"github.com/Freeeeeet/gallery_booking/internal/model"
	"github.com/Freeeeeet/gallery_booking/internal/repository"
	"github.com/Freeeeeet/gallery_booking/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Запуск: TEST_DB_DSN=postgres://... go test -tags integration ./internal/repository/...
// База очищается перед каждым тестом.

var errSlotFull = errors.New("slot full")

type integrationEnv struct {
	pool         *pgxpool.Pool
	transactor   *base.Transactor
	users        *repository.UserRepository
	bookings     *repository.BookingRepository
	exhibitionID int64
	capacity     int
}

func newIntegrationEnv(t *testing.T) *integrationEnv {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN is not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	migrator, err := app.NewMigrator(pool, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, migrator.Run(ctx))
	require.NoError(t, migrator.Close())

	_, err = pool.Exec(ctx, `TRUNCATE booking_events, bookings, exhibitions, users, admins RESTART IDENTITY`)
	require.NoError(t, err)

	env := &integrationEnv{
		pool:       pool,
		transactor: base.NewTransactor(pool),
		users:      repository.NewUserRepository(pool),
		bookings:   repository.NewBookingRepository(pool),
		capacity:   2,
	}

	err = pool.QueryRow(ctx,
		`INSERT INTO exhibitions (name, capacity) VALUES ('Тени', $1) RETURNING id`, env.capacity,
	).Scan(&env.exhibitionID)
	require.NoError(t, err)

	return env
}

func (e *integrationEnv) user(t *testing.T, telegramID int64) *model.User {
	t.Helper()
	phone := "+79990000000"
	u, err := e.users.Upsert(context.Background(), model.Identity{TelegramID: telegramID, FirstName: "Гость"}, &phone)
	require.NoError(t, err)
	return u
}

// book повторяет последовательность Create: блокировка слота, подсчёт, вставка
func (e *integrationEnv) book(ctx context.Context, userID int64, key model.SlotKey) (*model.Booking, error) {
	var created *model.Booking
	err := e.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := e.bookings.LockSlot(ctx, key); err != nil {
			return err
		}
		count, err := e.bookings.CountActiveInSlot(ctx, key, 0)
		if err != nil {
			return err
		}
		if count >= e.capacity {
			return errSlotFull
		}

		created = &model.Booking{
			UserID:       userID,
			ExhibitionID: key.ExhibitionID,
			BookingDate:  key.Date,
			BookingTime:  key.Time,
			Status:       model.BookingStatusConfirmed,
			Phone:        "+79990000000",
		}
		return e.bookings.Create(ctx, created)
	})
	return created, err
}

func TestBookingRepository_SlotLockSerialisesCreates(t *testing.T) {
	env := newIntegrationEnv(t)
	ctx := context.Background()

	day, _ := model.ParseDate("2030-01-05")
	key := model.SlotKey{ExhibitionID: env.exhibitionID, Date: day, Time: "12:00"}

	const workers = 12
	users := make([]*model.User, workers)
	for i := range users {
		users[i] = env.user(t, int64(5000+i))
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
		full    int
	)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			<-start
			_, err := env.book(ctx, userID, key)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				success++
			case errors.Is(err, errSlotFull):
				full++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(users[i].ID)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, env.capacity, success)
	assert.Equal(t, workers-env.capacity, full)

	count, err := env.bookings.CountActiveInSlot(ctx, key, 0)
	require.NoError(t, err)
	assert.Equal(t, env.capacity, count)
}

func TestBookingRepository_CountExcludesOwnBookingAndCancelled(t *testing.T) {
	env := newIntegrationEnv(t)
	ctx := context.Background()

	day, _ := model.ParseDate("2030-01-05")
	key := model.SlotKey{ExhibitionID: env.exhibitionID, Date: day, Time: "13:00"}

	a, err := env.book(ctx, env.user(t, 1).ID, key)
	require.NoError(t, err)
	b, err := env.book(ctx, env.user(t, 2).ID, key)
	require.NoError(t, err)

	count, err := env.bookings.CountActiveInSlot(ctx, key, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = env.bookings.UpdateStatus(ctx, b.ID, model.BookingStatusCancelled)
	require.NoError(t, err)

	count, err = env.bookings.CountActiveInSlot(ctx, key, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestBookingRepository_CancelByOwner(t *testing.T) {
	env := newIntegrationEnv(t)
	ctx := context.Background()

	day, _ := model.ParseDate("2030-01-05")
	key := model.SlotKey{ExhibitionID: env.exhibitionID, Date: day, Time: "14:00"}

	owner := env.user(t, 1)
	stranger := env.user(t, 2)
	booking, err := env.book(ctx, owner.ID, key)
	require.NoError(t, err)

	got, err := env.bookings.CancelByOwner(ctx, booking.ID, stranger.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = env.bookings.CancelByOwner(ctx, booking.ID, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.BookingStatusCancelled, got.Status)

	got, err = env.bookings.CancelByOwner(ctx, booking.ID, owner.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	completed, err := env.book(ctx, owner.ID, key)
	require.NoError(t, err)
	_, err = env.bookings.UpdateStatus(ctx, completed.ID, model.BookingStatusCompleted)
	require.NoError(t, err)

	got, err = env.bookings.CancelByOwner(ctx, completed.ID, owner.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBookingRepository_ClaimDueRemindersOnce(t *testing.T) {
	env := newIntegrationEnv(t)
	ctx := context.Background()

	tomorrow, _ := model.ParseDate("2030-01-06")
	other, _ := model.ParseDate("2030-01-07")
	guest := env.user(t, 1)

	due, err := env.book(ctx, guest.ID, model.SlotKey{ExhibitionID: env.exhibitionID, Date: tomorrow, Time: "12:00"})
	require.NoError(t, err)
	cancelled, err := env.book(ctx, guest.ID, model.SlotKey{ExhibitionID: env.exhibitionID, Date: tomorrow, Time: "13:00"})
	require.NoError(t, err)
	_, err = env.bookings.UpdateStatus(ctx, cancelled.ID, model.BookingStatusCancelled)
	require.NoError(t, err)
	_, err = env.book(ctx, guest.ID, model.SlotKey{ExhibitionID: env.exhibitionID, Date: other, Time: "12:00"})
	require.NoError(t, err)

	claimed, err := env.bookings.ClaimDueReminders(ctx, tomorrow)
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, due.ID, claimed[0].BookingID)
	assert.Equal(t, int64(1), claimed[0].TelegramID)
	assert.Equal(t, "Тени", claimed[0].ExhibitionName)
	assert.True(t, tomorrow.Equal(claimed[0].BookingDate))

	again, err := env.bookings.ClaimDueReminders(ctx, tomorrow)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestTransactor_RollbackOnError(t *testing.T) {
	env := newIntegrationEnv(t)
	ctx := context.Background()

	day, _ := model.ParseDate("2030-01-05")
	key := model.SlotKey{ExhibitionID: env.exhibitionID, Date: day, Time: "15:00"}
	guest := env.user(t, 1)

	boom := errors.New("boom")
	err := env.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := env.bookings.Create(ctx, &model.Booking{
			UserID:       guest.ID,
			ExhibitionID: key.ExhibitionID,
			BookingDate:  key.Date,
			BookingTime:  key.Time,
			Status:       model.BookingStatusConfirmed,
			Phone:        "+79990000000",
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	count, err := env.bookings.CountActiveInSlot(ctx, key, 0)
	require.NoError(t, err)
	assert.Zero(t, count)
}
