package schedule

import (
	"context"
	"log"
	"time"

	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/timezone"
)

// ======================================================
// SLOT GENERATOR
// ======================================================

// Generator produz a lista ordenada de inícios agendáveis para
// (barbeiro, data, duração do tratamento). Caminho puramente de leitura:
// seguro rodar em paralelo entre barbeiros/datas, nunca bloqueia no lock
// de escrita. Por isso BookSlot sempre revalida no commit.
type Generator struct {
	grid          Grid
	dayEndMinutes int
	repo          Repository
	clock         Clock
	warn          WarnFunc
}

func NewGenerator(
	grid Grid,
	dayEndMinutes int,
	repo Repository,
	clock Clock,
	warn WarnFunc,
) *Generator {
	if warn == nil {
		warn = log.Printf
	}
	return &Generator{
		grid:          grid,
		dayEndMinutes: dayEndMinutes,
		repo:          repo,
		clock:         clock,
		warn:          warn,
	}
}

func (gen *Generator) Grid() Grid { return gen.grid }

func (gen *Generator) Clock() Clock { return gen.clock }

func (gen *Generator) DayEndMinutes() int { return gen.dayEndMinutes }

// ValidateDuration rejeita duração não positiva ou fora da grade antes de
// qualquer I/O. Nunca coagida em silêncio.
func (gen *Generator) ValidateDuration(durationMinutes int) error {
	if durationMinutes <= 0 || !gen.grid.OnGrid(durationMinutes) {
		return httperr.ErrBusiness("invalid_duration")
	}
	return nil
}

// BookableSlots devolve os inícios agendáveis do dia, como "HH:MM"
// ascendente. Lista vazia é resultado normal: barbeiro sem agenda
// configurada (ou sem horário em que o tratamento caiba) naquela data.
func (gen *Generator) BookableSlots(
	ctx context.Context,
	barberID uint,
	date time.Time,
	treatmentDuration int,
) ([]string, error) {

	minutes, err := gen.bookableMinutes(ctx, barberID, date, treatmentDuration)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(minutes))
	for _, m := range minutes {
		out = append(out, gen.grid.TimeString(m))
	}
	return out, nil
}

// CanBook reexecuta a mesma regra de aceitação para um único início.
// Usado pela transação de reserva na revalidação de commit.
func (gen *Generator) CanBook(
	ctx context.Context,
	barberID uint,
	date time.Time,
	startMinutes int,
	treatmentDuration int,
) (bool, error) {

	minutes, err := gen.bookableMinutes(ctx, barberID, date, treatmentDuration)
	if err != nil {
		return false, err
	}

	for _, m := range minutes {
		if m == startMinutes {
			return true, nil
		}
	}
	return false, nil
}

func (gen *Generator) bookableMinutes(
	ctx context.Context,
	barberID uint,
	date time.Time,
	treatmentDuration int,
) ([]int, error) {

	if err := gen.ValidateDuration(treatmentDuration); err != nil {
		return nil, err
	}

	pattern, err := gen.LoadPattern(ctx, barberID)
	if err != nil {
		return nil, err
	}

	candidates := pattern.SlotsForDate(gen.grid, date, gen.dayEndMinutes, treatmentDuration)
	if len(candidates) == 0 {
		return nil, nil
	}

	loc := date.Location()
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.Add(24 * time.Hour)

	appointments, err := gen.repo.ListConflictingAppointmentsForDay(ctx, barberID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	idx := NewAppointmentIndex(appointments, dayStart, gen.warn)

	// Conjunto para a checagem célula a célula: a lista de candidatos não
	// é garantidamente contígua. Filtrado por encaixe de UMA célula: uma
	// célula interna válida não precisa caber o tratamento inteiro, só o
	// próprio passo.
	cellSet := make(map[int]bool)
	for _, m := range pattern.SlotsForDate(gen.grid, date, gen.dayEndMinutes, gen.grid.StepMinutes) {
		cellSet[m] = true
	}

	now := gen.clock.Now().In(loc)
	today := timezone.SameDay(now, dayStart)
	nowMinutes := now.Hour()*60 + now.Minute()

	cells := gen.grid.SlotsNeeded(treatmentDuration)

	var out []int
	for _, candidate := range candidates {
		// nunca agendar no passado: hoje, só inícios estritamente depois
		// do instante atual
		if today && candidate <= nowMinutes {
			continue
		}

		if cells == 1 {
			if !idx.Overlaps(candidate, treatmentDuration) {
				out = append(out, candidate)
			}
			continue
		}

		// Tratamento multi-célula: cada uma das n células consecutivas
		// precisa (a) ser ela mesma candidata e (b) estar livre por um
		// passo. O intervalo inteiro também precisa estar livre, para
		// pegar agendamento que começou no meio do span (entrada manual).
		ok := true
		for i := 0; i < cells; i++ {
			cell := candidate + i*gen.grid.StepMinutes
			if !cellSet[cell] || idx.Overlaps(cell, gen.grid.StepMinutes) {
				ok = false
				break
			}
		}
		if ok && !idx.Overlaps(candidate, treatmentDuration) {
			out = append(out, candidate)
		}
	}

	return out, nil
}

// LoadPattern lê a disponibilidade canônica; sem nenhuma entrada explícita,
// cai no adaptador de janelas legadas (com aviso de divergência). Sem nada
// nos dois formatos, padrão vazio: dia não agendável, sem fallback.
func (gen *Generator) LoadPattern(ctx context.Context, barberID uint) (WeeklyPattern, error) {
	rows, err := gen.repo.GetWeeklySlots(ctx, barberID)
	if err != nil {
		return nil, err
	}

	if len(rows) > 0 {
		return BuildPattern(rows, gen.grid, gen.warn), nil
	}

	legacy, err := gen.repo.GetLegacyWorkingHours(ctx, barberID)
	if err != nil {
		return nil, err
	}
	if len(legacy) == 0 {
		return WeeklyPattern{}, nil
	}

	return ExpandLegacyWindows(legacy, gen.grid, gen.warn), nil
}
