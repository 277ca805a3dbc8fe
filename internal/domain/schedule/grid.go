package schedule

import (
	"fmt"
	"time"
)

// Passo padrão da grade de horários, em minutos.
const DefaultStepMinutes = 25

// Grid concentra toda a aritmética de grade de horários. Todos os horários
// retornados pelo motor são múltiplos do passo em minutos-desde-meia-noite.
type Grid struct {
	StepMinutes int
}

func NewGrid(stepMinutes int) Grid {
	if stepMinutes <= 0 {
		panic(fmt.Sprintf("schedule: grid step inválido: %d", stepMinutes))
	}
	return Grid{StepMinutes: stepMinutes}
}

// ParseMinutes converte "HH:MM" em minutos desde a meia-noite, devolvendo
// erro em entrada malformada. Caminho para dados vindos de fora (linhas de
// banco), em que o chamador decide pular com aviso.
func (g Grid) ParseMinutes(hhmm string) (int, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, fmt.Errorf("schedule: horário malformado %q: %w", hhmm, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Minutes converte "HH:MM" em minutos desde a meia-noite.
// Entrada malformada é erro de programação do chamador.
func (g Grid) Minutes(hhmm string) int {
	m, err := g.ParseMinutes(hhmm)
	if err != nil {
		panic(err.Error())
	}
	return m
}

// TimeString converte minutos desde a meia-noite em "HH:MM".
func (g Grid) TimeString(minutes int) string {
	if minutes < 0 {
		panic(fmt.Sprintf("schedule: minutos negativos: %d", minutes))
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// SnapMinutes arredonda para o ponto de grade mais próximo; empate no meio
// vai para o ponto seguinte. Com passo 25, medido a partir de uma hora
// alinhada à grade: offset 0–12 → o próprio ponto, 13–37 → o ponto ":25",
// 38–62 → o ponto ":50", 63+ → o ":15" da hora seguinte. Esse mapeamento é
// contrato: a geração de slots depende de snapping determinístico. Não
// "arrumar" a regra.
func (g Grid) SnapMinutes(minutes int) int {
	r := minutes % g.StepMinutes
	if 2*r < g.StepMinutes {
		return minutes - r
	}
	return minutes - r + g.StepMinutes
}

// Snap aplica SnapMinutes a um instante de relógio, zerando segundos.
func (g Grid) Snap(t time.Time) time.Time {
	m := g.SnapMinutes(t.Hour()*60 + t.Minute())
	return time.Date(t.Year(), t.Month(), t.Day(), 0, m, 0, 0, t.Location())
}

// SlotsNeeded devolve quantas células de grade o tratamento ocupa.
func (g Grid) SlotsNeeded(durationMinutes int) int {
	return (durationMinutes + g.StepMinutes - 1) / g.StepMinutes
}

func (g Grid) OnGrid(minutes int) bool {
	return minutes%g.StepMinutes == 0
}

// NextOnGrid avança para o primeiro ponto de grade >= minutes. Usado para
// normalizar inícios de janela legada, que podem ser arbitrários.
func (g Grid) NextOnGrid(minutes int) int {
	if r := minutes % g.StepMinutes; r != 0 {
		return minutes - r + g.StepMinutes
	}
	return minutes
}

// FitsBeforeBoundary testa se o tratamento cabe antes do fim do expediente
// (comparação exclusiva no fim: start + duration <= dayEnd).
func (g Grid) FitsBeforeBoundary(startMinutes, durationMinutes, dayEndMinutes int) bool {
	return startMinutes+durationMinutes <= dayEndMinutes
}
