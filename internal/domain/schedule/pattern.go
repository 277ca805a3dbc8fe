package schedule

import (
	"sort"
	"time"

	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

// WeeklyPattern é a projeção em memória da agenda semanal de um barbeiro:
// por dia da semana, os inícios disponíveis em minutos-desde-meia-noite,
// ordenados e sem duplicatas. Toda entrada está na grade.
type WeeklyPattern map[time.Weekday][]int

// WarnFunc recebe avisos de qualidade de dados (nunca interrompe a leitura).
type WarnFunc func(format string, args ...any)

// BuildPattern monta o WeeklyPattern a partir das linhas explícitas.
// Entradas malformadas ou fora da grade são descartadas com aviso: o
// invariante de escrita garante alinhamento, então a presença delas indica
// escrita fora do fluxo.
func BuildPattern(rows []models.AvailabilitySlot, g Grid, warn WarnFunc) WeeklyPattern {
	p := make(WeeklyPattern)
	seen := make(map[time.Weekday]map[int]bool)

	for _, row := range rows {
		if row.Weekday < 0 || row.Weekday > 6 {
			warn("availability: weekday inválido %d (barber %d)", row.Weekday, row.BarberID)
			continue
		}

		m, err := g.ParseMinutes(row.StartTime)
		if err != nil {
			warn("availability: entrada malformada %q (barber %d): %v", row.StartTime, row.BarberID, err)
			continue
		}
		if !g.OnGrid(m) {
			warn("availability: entrada fora da grade %q (barber %d)", row.StartTime, row.BarberID)
			continue
		}

		wd := time.Weekday(row.Weekday)
		if seen[wd] == nil {
			seen[wd] = make(map[int]bool)
		}
		if seen[wd][m] {
			continue
		}
		seen[wd][m] = true
		p[wd] = append(p[wd], m)
	}

	for wd := range p {
		sort.Ints(p[wd])
	}

	return p
}

// SlotsForDate projeta o padrão semanal sobre uma data concreta, já
// filtrando entradas em que o tratamento não cabe antes do fim do
// expediente. Dia sem entrada produz sequência vazia, sem fallback para
// horário gerado: isso contradiria silenciosamente a agenda configurada.
func (p WeeklyPattern) SlotsForDate(g Grid, date time.Time, dayEndMinutes, treatmentDuration int) []int {
	entries := p[date.Weekday()]
	if len(entries) == 0 {
		return nil
	}

	out := make([]int, 0, len(entries))
	for _, m := range entries {
		if g.FitsBeforeBoundary(m, treatmentDuration, dayEndMinutes) {
			out = append(out, m)
		}
	}
	return out
}

// Contains testa se o início está no padrão para o dia da semana da data.
func (p WeeklyPattern) Contains(date time.Time, startMinutes int) bool {
	for _, m := range p[date.Weekday()] {
		if m == startMinutes {
			return true
		}
	}
	return false
}

// IsEmpty é verdadeiro quando não há nenhuma entrada em nenhum dia.
func (p WeeklyPattern) IsEmpty() bool {
	for _, entries := range p {
		if len(entries) > 0 {
			return false
		}
	}
	return true
}
