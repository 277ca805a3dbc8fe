package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

func dayAppointment(id uint, dayStart time.Time, startMinutes, durationMin int) models.Appointment {
	start := dayStart.Add(time.Duration(startMinutes) * time.Minute)
	return models.Appointment{
		ID:          id,
		BarberID:    1,
		StartTime:   start,
		EndTime:     start.Add(time.Duration(durationMin) * time.Minute),
		DurationMin: durationMin,
	}
}

func TestAppointmentIndexHalfOpenOverlap(t *testing.T) {
	dayStart := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	idx := NewAppointmentIndex([]models.Appointment{
		dayAppointment(1, dayStart, 600, 50), // [10:00, 10:50)
	}, dayStart, func(string, ...any) {})

	require.Equal(t, 1, idx.Len())

	// dentro do intervalo
	assert.True(t, idx.Overlaps(600, 25))
	assert.True(t, idx.Overlaps(625, 25))
	assert.True(t, idx.Overlaps(575, 50)) // invade o começo
	assert.True(t, idx.Overlaps(625, 50)) // invade o fim

	// limites que apenas se tocam não conflitam
	assert.False(t, idx.Overlaps(575, 25)) // termina exatamente em 600
	assert.False(t, idx.Overlaps(650, 25)) // começa exatamente em 650
}

func TestAppointmentIndexDerivesDurationFromEndTime(t *testing.T) {
	dayStart := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	// dado antigo: DurationMin zerado, só EndTime
	ap := dayAppointment(7, dayStart, 600, 50)
	ap.DurationMin = 0

	idx := NewAppointmentIndex([]models.Appointment{ap}, dayStart, func(string, ...any) {})

	assert.True(t, idx.Overlaps(625, 25))
	assert.False(t, idx.Overlaps(650, 25))
}

func TestAppointmentIndexSkipsUnusableRowsWithWarn(t *testing.T) {
	dayStart := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	noStart := models.Appointment{ID: 11, DurationMin: 25}
	noDuration := models.Appointment{
		ID:        12,
		StartTime: dayStart.Add(10 * time.Hour),
		EndTime:   dayStart.Add(10 * time.Hour), // duração derivada = 0
	}

	var warns []string
	idx := NewAppointmentIndex(
		[]models.Appointment{noStart, noDuration},
		dayStart,
		collectWarns(&warns),
	)

	assert.Equal(t, 0, idx.Len())
	assert.False(t, idx.Overlaps(600, 25))
	require.Len(t, warns, 2)
}

func TestAppointmentIndexNormalizesTimezones(t *testing.T) {
	loc := time.FixedZone("-03", -3*3600)
	dayStart := time.Date(2026, 9, 14, 0, 0, 0, 0, loc)

	// mesmo instante gravado em UTC: 10:00 local = 13:00 UTC
	ap := models.Appointment{
		ID:          3,
		StartTime:   time.Date(2026, 9, 14, 13, 0, 0, 0, time.UTC),
		DurationMin: 50,
	}

	idx := NewAppointmentIndex([]models.Appointment{ap}, dayStart, func(string, ...any) {})

	assert.True(t, idx.Overlaps(600, 25))  // 10:00 local
	assert.False(t, idx.Overlaps(550, 25)) // 09:10 local
}
