package schedule

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

func TestExpandLegacyWindows(t *testing.T) {
	g := NewGrid(25)

	rows := []models.WorkingHours{
		{
			BarberID:  1,
			Weekday:   1,
			StartTime: "09:00", // 540, fora da grade → avança para 09:10
			EndTime:   "11:00", // 660
			Active:    true,
		},
	}

	var warns []string
	p := ExpandLegacyWindows(rows, g, collectWarns(&warns))

	// 550, 575, 600, 625: a última célula inteira termina em 650 <= 660
	assert.Equal(t, []int{550, 575, 600, 625}, p[time.Monday])

	// toda expansão legada avisa divergência de sincronização
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0], "divergiram")
}

func TestExpandLegacyWindowsSkipsLunchCells(t *testing.T) {
	g := NewGrid(25)

	rows := []models.WorkingHours{
		{
			BarberID:   1,
			Weekday:    2,
			StartTime:  "09:10", // 550, já na grade
			EndTime:    "13:00", // 780
			LunchStart: "11:00", // 660
			LunchEnd:   "12:00", // 720
			Active:     true,
		},
	}

	var warns []string
	p := ExpandLegacyWindows(rows, g, collectWarns(&warns))

	// 550, 575, 600, 625: 10:25+25 = 10:50 <= 11:00 ainda cabe;
	// 650 (10:50) termina 11:15, cruza o almoço; 675 e 700 idem;
	// 725 (12:05) é a primeira célula inteiramente após o almoço.
	assert.Equal(t, []int{550, 575, 600, 625, 725, 750}, p[time.Tuesday])
}

func TestExpandLegacyWindowsIgnoresInactiveAndInvalid(t *testing.T) {
	g := NewGrid(25)

	rows := []models.WorkingHours{
		{BarberID: 1, Weekday: 1, StartTime: "09:00", EndTime: "10:00", Active: false},
		{BarberID: 1, Weekday: 8, StartTime: "09:00", EndTime: "10:00", Active: true},
		{BarberID: 1, Weekday: 1, StartTime: "", EndTime: "", Active: true},
	}

	var warns []string
	p := ExpandLegacyWindows(rows, g, collectWarns(&warns))

	assert.True(t, p.IsEmpty())
	// só a linha com weekday inválido gera aviso; inativa e vazia são
	// simplesmente puladas
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0], "weekday inválido")
}

// O formato legado é o menos confiável dos dois; janela com horário
// ilegível é pulada com aviso em vez de derrubar a expansão.
func TestExpandLegacyWindowsSkipsMalformedWindows(t *testing.T) {
	g := NewGrid(25)

	rows := []models.WorkingHours{
		{BarberID: 1, Weekday: 1, StartTime: "morning", EndTime: "12:00", Active: true},
		{BarberID: 1, Weekday: 1, StartTime: "09:10", EndTime: "meio-dia", Active: true},
		{
			BarberID: 1, Weekday: 1, Active: true,
			StartTime: "09:10", EndTime: "12:00",
			LunchStart: "11h", LunchEnd: "12:00",
		},
		{BarberID: 1, Weekday: 2, StartTime: "09:10", EndTime: "10:00", Active: true},
	}

	var warns []string
	var p WeeklyPattern
	require.NotPanics(t, func() {
		p = ExpandLegacyWindows(rows, g, collectWarns(&warns))
	})

	// as três janelas quebradas de segunda caem fora; a de terça expande
	assert.Nil(t, p[time.Monday])
	assert.Equal(t, []int{550, 575}, p[time.Tuesday])

	var malformed int
	for _, w := range warns {
		if strings.Contains(w, "malformada") {
			malformed++
		}
	}
	assert.Equal(t, 3, malformed)
}

func TestExpandLegacyWindowsMergesMultipleWindows(t *testing.T) {
	g := NewGrid(25)

	rows := []models.WorkingHours{
		{BarberID: 1, Weekday: 1, StartTime: "14:10", EndTime: "15:00", Active: true},
		{BarberID: 1, Weekday: 1, StartTime: "09:10", EndTime: "10:00", Active: true},
		// sobrepõe a primeira janela: duplicatas precisam sumir
		{BarberID: 1, Weekday: 1, StartTime: "14:10", EndTime: "15:25", Active: true},
	}

	var warns []string
	p := ExpandLegacyWindows(rows, g, collectWarns(&warns))

	assert.Equal(t, []int{550, 575, 850, 875, 900}, p[time.Monday])
}
