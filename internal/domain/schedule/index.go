package schedule

import (
	"time"

	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

type interval struct {
	start int
	end   int
}

// AppointmentIndex responde consultas de conflito para um barbeiro em um
// dia, em minutos-desde-meia-noite locais daquele dia. Só agendamentos com
// status scheduled/confirmed entram aqui (o chamador filtra na carga;
// cancelados e concluídos liberam o horário).
type AppointmentIndex struct {
	intervals []interval
}

// NewAppointmentIndex projeta os agendamentos do dia sobre o eixo de
// minutos locais. Linha sem início utilizável é pulada com aviso, nunca
// tratada em silêncio como horário livre.
func NewAppointmentIndex(appointments []models.Appointment, dayStart time.Time, warn WarnFunc) *AppointmentIndex {
	idx := &AppointmentIndex{}

	for _, ap := range appointments {
		if ap.StartTime.IsZero() {
			warn("appointments: agendamento %d sem horário de início utilizável, ignorado no cálculo de conflito", ap.ID)
			continue
		}

		start := int(ap.StartTime.In(dayStart.Location()).Sub(dayStart).Minutes())

		dur := ap.DurationMin
		if dur <= 0 {
			// dados antigos só têm EndTime
			dur = int(ap.EndTime.Sub(ap.StartTime).Minutes())
		}
		if dur <= 0 {
			warn("appointments: agendamento %d sem duração utilizável, ignorado no cálculo de conflito", ap.ID)
			continue
		}

		idx.intervals = append(idx.intervals, interval{start: start, end: start + dur})
	}

	return idx
}

// Overlaps testa sobreposição de intervalos meio-abertos: limites que
// apenas se tocam não contam como conflito.
func (idx *AppointmentIndex) Overlaps(candidateStart, candidateDuration int) bool {
	candidateEnd := candidateStart + candidateDuration
	for _, iv := range idx.intervals {
		if candidateStart < iv.end && candidateEnd > iv.start {
			return true
		}
	}
	return false
}

func (idx *AppointmentIndex) Len() int {
	return len(idx.intervals)
}
