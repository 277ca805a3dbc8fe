package schedule

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

func slotRow(weekday int, start string) models.AvailabilitySlot {
	return models.AvailabilitySlot{BarberID: 1, Weekday: weekday, StartTime: start}
}

func collectWarns(warns *[]string) WarnFunc {
	return func(format string, args ...any) {
		*warns = append(*warns, fmt.Sprintf(format, args...))
	}
}

func TestBuildPatternSortsAndDedupes(t *testing.T) {
	g := NewGrid(25)

	rows := []models.AvailabilitySlot{
		slotRow(1, "10:25"),
		slotRow(1, "09:10"),
		slotRow(1, "10:25"), // duplicata
		slotRow(3, "14:35"),
	}

	var warns []string
	p := BuildPattern(rows, g, collectWarns(&warns))

	require.Empty(t, warns)
	assert.Equal(t, []int{550, 625}, p[time.Monday])
	assert.Equal(t, []int{875}, p[time.Wednesday])
	assert.Nil(t, p[time.Tuesday])
}

// Linha ilegível vinda do banco é descartada com aviso, igual às entradas
// fora da grade: um registro quebrado não pode derrubar a leitura do
// barbeiro inteiro.
func TestBuildPatternSkipsMalformedWithWarn(t *testing.T) {
	g := NewGrid(25)

	rows := []models.AvailabilitySlot{
		slotRow(1, "09h30"),
		slotRow(1, "morning"),
		slotRow(1, ""),
		slotRow(1, "09:10"),
	}

	var warns []string
	var p WeeklyPattern
	require.NotPanics(t, func() {
		p = BuildPattern(rows, g, collectWarns(&warns))
	})

	assert.Equal(t, []int{550}, p[time.Monday])
	require.Len(t, warns, 3)
	assert.Contains(t, warns[0], "09h30")
}

func TestBuildPatternSkipsOffGridWithWarn(t *testing.T) {
	g := NewGrid(25)

	rows := []models.AvailabilitySlot{
		slotRow(2, "09:10"),
		slotRow(2, "09:30"), // 570 não é múltiplo de 25
		slotRow(9, "10:00"), // weekday inválido
	}

	var warns []string
	p := BuildPattern(rows, g, collectWarns(&warns))

	assert.Equal(t, []int{550}, p[time.Tuesday])
	require.Len(t, warns, 2)
	assert.Contains(t, warns[0], "09:30")
	assert.Contains(t, warns[1], "weekday inválido")
}

func TestSlotsForDateFiltersByTreatmentFit(t *testing.T) {
	g := NewGrid(25)
	dayEnd := 22 * 60 // 1320

	p := WeeklyPattern{
		time.Monday: {550, 1250, 1275}, // 09:10, 20:50, 21:15
	}

	monday := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC) // segunda-feira

	// tratamento de 50min: 21:15 + 50 = 22:05 > 22:00, não cabe
	got := p.SlotsForDate(g, monday, dayEnd, 50)
	assert.Equal(t, []int{550, 1250}, got)

	// tratamento de 25min: todos cabem
	got = p.SlotsForDate(g, monday, dayEnd, 25)
	assert.Equal(t, []int{550, 1250, 1275}, got)
}

// Dia sem entrada no padrão produz sequência vazia, nunca um horário
// inventado a partir de alguma janela padrão.
func TestSlotsForDateNoFallbackForEmptyDay(t *testing.T) {
	g := NewGrid(25)

	p := WeeklyPattern{
		time.Monday: {550},
	}

	sunday := time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC)
	assert.Nil(t, p.SlotsForDate(g, sunday, 22*60, 25))

	empty := WeeklyPattern{}
	assert.Nil(t, empty.SlotsForDate(g, sunday, 22*60, 25))
}

func TestPatternContains(t *testing.T) {
	p := WeeklyPattern{
		time.Friday: {550, 575},
	}

	friday := time.Date(2026, 9, 18, 0, 0, 0, 0, time.UTC)
	saturday := time.Date(2026, 9, 19, 0, 0, 0, 0, time.UTC)

	assert.True(t, p.Contains(friday, 550))
	assert.False(t, p.Contains(friday, 600))
	assert.False(t, p.Contains(saturday, 550))
}

func TestPatternIsEmpty(t *testing.T) {
	assert.True(t, WeeklyPattern{}.IsEmpty())
	assert.True(t, WeeklyPattern{time.Monday: {}}.IsEmpty())
	assert.False(t, WeeklyPattern{time.Monday: {550}}.IsEmpty())
}
