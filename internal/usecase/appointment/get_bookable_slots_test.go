package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/agenda-engine/internal/cache"
	"github.com/BruksfildServices01/agenda-engine/internal/domain/schedule"
	"github.com/BruksfildServices01/agenda-engine/internal/dto"
	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

func newGetBookableSlots(t *testing.T, clock schedule.Clock) (*GetBookableSlots, *stubRepo, *cache.SlotCache) {
	t.Helper()

	repo := newStubRepo()
	repo.slots = []models.AvailabilitySlot{
		{BarberID: 2, Weekday: 1, StartTime: "09:10"},
		{BarberID: 2, Weekday: 1, StartTime: "09:35"},
		{BarberID: 2, Weekday: 1, StartTime: "10:00"},
	}

	gen := schedule.NewGenerator(schedule.NewGrid(25), 22*60, repo, clock, func(string, ...any) {})

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	slotCache := cache.NewSlotCache(rdb, time.Minute)
	return NewGetBookableSlots(repo, gen, slotCache), repo, slotCache
}

var slotsMonday = time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

func TestGetBookableSlotsReturnsStartEndPairs(t *testing.T) {
	uc, _, _ := newGetBookableSlots(t, bookClock)

	out, err := uc.Execute(context.Background(), GetBookableSlotsInput{
		BarbershopID: 1, BarberID: 2, ProductID: 11, Date: slotsMonday,
	})
	require.NoError(t, err)

	// 50min: 10:00 precisaria da célula 10:25, fora da agenda
	assert.Equal(t, []dto.TimeSlot{
		{Start: "09:10", End: "10:00"},
		{Start: "09:35", End: "10:25"},
	}, out)
}

func TestGetBookableSlotsUnknownProduct(t *testing.T) {
	uc, _, _ := newGetBookableSlots(t, bookClock)

	_, err := uc.Execute(context.Background(), GetBookableSlotsInput{
		BarbershopID: 1, BarberID: 2, ProductID: 99, Date: slotsMonday,
	})
	assert.True(t, httperr.IsBusiness(err, "product_not_found"))
}

func TestGetBookableSlotsServesFromCache(t *testing.T) {
	uc, repo, _ := newGetBookableSlots(t, bookClock)
	ctx := context.Background()

	in := GetBookableSlotsInput{BarbershopID: 1, BarberID: 2, ProductID: 10, Date: slotsMonday}

	first, err := uc.Execute(ctx, in)
	require.NoError(t, err)
	require.Len(t, first, 3)

	// muda a agenda por fora, sem invalidar: a resposta cacheada continua
	// valendo até o TTL ou até uma escrita passar pelo fluxo normal
	repo.slots = nil

	second, err := uc.Execute(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGetBookableSlotsInvalidationRefreshes(t *testing.T) {
	uc, repo, slotCache := newGetBookableSlots(t, bookClock)
	ctx := context.Background()

	in := GetBookableSlotsInput{BarbershopID: 1, BarberID: 2, ProductID: 10, Date: slotsMonday}

	_, err := uc.Execute(ctx, in)
	require.NoError(t, err)

	repo.slots = repo.slots[:1] // só 09:10
	slotCache.Invalidate(ctx, 2)

	out, err := uc.Execute(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, []dto.TimeSlot{{Start: "09:10", End: "09:35"}}, out)
}

// Item de cache ainda dentro do TTL pode conter horário que acabou de
// passar; a resposta refiltra contra o relógio a cada chamada.
func TestGetBookableSlotsRefiltersCachedPastStarts(t *testing.T) {
	morning := schedule.FixedClock{T: time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)}
	uc, repo, slotCache := newGetBookableSlots(t, morning)
	ctx := context.Background()

	// semeia o cache como se tivesse sido calculado às 09:00
	slotCache.Set(ctx, 2, "2026-09-14", 25, []string{"09:10", "09:35", "10:00"})

	out, err := uc.Execute(ctx, GetBookableSlotsInput{
		BarbershopID: 1, BarberID: 2, ProductID: 10, Date: slotsMonday,
	})
	require.NoError(t, err)
	require.Len(t, out, 3)

	// mesmo cache, relógio já em 09:40
	later := schedule.FixedClock{T: time.Date(2026, 9, 14, 9, 40, 0, 0, time.UTC)}
	uc = NewGetBookableSlots(repo, schedule.NewGenerator(
		schedule.NewGrid(25), 22*60, repo, later, func(string, ...any) {},
	), slotCache)

	out, err = uc.Execute(ctx, GetBookableSlotsInput{
		BarbershopID: 1, BarberID: 2, ProductID: 10, Date: slotsMonday,
	})
	require.NoError(t, err)
	assert.Equal(t, []dto.TimeSlot{{Start: "10:00", End: "10:25"}}, out)
}

func TestGetBookableSlotsEmptyDayIsNotAnError(t *testing.T) {
	uc, repo, _ := newGetBookableSlots(t, bookClock)
	repo.slots = nil

	out, err := uc.Execute(context.Background(), GetBookableSlotsInput{
		BarbershopID: 1, BarberID: 2, ProductID: 10, Date: slotsMonday,
	})
	require.NoError(t, err)
	assert.Empty(t, out)
}
