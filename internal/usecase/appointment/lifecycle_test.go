package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/agenda-engine/internal/audit"
	"github.com/BruksfildServices01/agenda-engine/internal/cache"
	"github.com/BruksfildServices01/agenda-engine/internal/feed"
	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

type lifecycleDeps struct {
	repo    *stubRepo
	confirm *ConfirmAppointment
	cancel  *CancelAppointment
	done    *CompleteAppointment
}

func newLifecycle(t *testing.T) *lifecycleDeps {
	t.Helper()

	repo := newStubRepo()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Discard,
	})
	require.NoError(t, err)

	dispatcher := audit.NewDispatcher(audit.New(gdb))
	broker := feed.NewBroker(rdb)
	slotCache := cache.NewSlotCache(rdb, time.Minute)

	return &lifecycleDeps{
		repo:    repo,
		confirm: NewConfirmAppointment(repo, dispatcher),
		cancel:  NewCancelAppointment(repo, dispatcher, broker, slotCache),
		done:    NewCompleteAppointment(repo, dispatcher, broker, slotCache),
	}
}

func seedAppointment(t *testing.T, repo *stubRepo) *models.Appointment {
	t.Helper()

	start := time.Date(2026, 9, 14, 9, 35, 0, 0, time.UTC)
	ap := &models.Appointment{
		PublicID:    "a6a6e7b4-0000-0000-0000-000000000000",
		BarberID:    2,
		ClientID:    1,
		StartTime:   start,
		EndTime:     start.Add(25 * time.Minute),
		DurationMin: 25,
		Status:      "scheduled",
	}
	require.NoError(t, repo.CreateAppointmentIfFree(context.Background(), ap))
	return ap
}

func TestConfirmThenComplete(t *testing.T) {
	deps := newLifecycle(t)
	ap := seedAppointment(t, deps.repo)
	ctx := context.Background()

	got, err := deps.confirm.Execute(ctx, 1, 2, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", got.Status)
	assert.NotNil(t, got.ConfirmedAt)

	got, err = deps.done.Execute(ctx, 1, 2, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", got.Status)
	assert.NotNil(t, got.CompletedAt)
}

func TestCancelReleasesConflictSet(t *testing.T) {
	deps := newLifecycle(t)
	ap := seedAppointment(t, deps.repo)
	ctx := context.Background()

	got, err := deps.cancel.Execute(ctx, 1, 2, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", got.Status)

	day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	conflicts, err := deps.repo.ListConflictingAppointmentsForDay(ctx, 2, day, day.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestLifecycleInvalidTransitions(t *testing.T) {
	deps := newLifecycle(t)
	ap := seedAppointment(t, deps.repo)
	ctx := context.Background()

	_, err := deps.cancel.Execute(ctx, 1, 2, ap.ID)
	require.NoError(t, err)

	// cancelado é terminal
	_, err = deps.confirm.Execute(ctx, 1, 2, ap.ID)
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))

	_, err = deps.done.Execute(ctx, 1, 2, ap.ID)
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
}

func TestLifecycleUnknownAppointment(t *testing.T) {
	deps := newLifecycle(t)

	_, err := deps.confirm.Execute(context.Background(), 1, 2, 999)
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))
}

func TestLifecycleWrongBarber(t *testing.T) {
	deps := newLifecycle(t)
	ap := seedAppointment(t, deps.repo)

	_, err := deps.confirm.Execute(context.Background(), 1, 77, ap.ID)
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))
}
