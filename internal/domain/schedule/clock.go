package schedule

import (
	"time"

	"github.com/BruksfildServices01/agenda-engine/internal/timezone"
)

// Clock abstrai "agora" para que o filtro de horários passados e a detecção
// de "hoje" sejam determinísticos em teste.
type Clock interface {
	Now() time.Time
}

type SystemClock struct {
	TZ string
}

func (c SystemClock) Now() time.Time {
	return timezone.NowIn(c.TZ)
}

// FixedClock devolve sempre o mesmo instante (uso em testes).
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }
