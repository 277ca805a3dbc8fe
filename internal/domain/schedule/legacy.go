package schedule

import (
	"sort"
	"time"

	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

// ExpandLegacyWindows converte o formato legado de disponibilidade (janela
// início/fim com pausa de almoço por dia) na lista explícita canônica: o
// início da janela é avançado para o primeiro ponto de grade e cada célula
// inteira dentro da janela vira uma entrada. Células que cruzam o almoço
// são puladas.
//
// Este adaptador só deve rodar quando o barbeiro não tem nenhuma entrada
// explícita, e cada uso é divergência de sincronização entre quem escreve
// e quem lê a disponibilidade. O chamador é obrigado a passar warn para que
// a divergência chegue aos operadores em vez de ser consertada em silêncio.
// Janela ilegível é pulada com aviso, nunca derruba a leitura.
func ExpandLegacyWindows(rows []models.WorkingHours, g Grid, warn WarnFunc) WeeklyPattern {
	p := make(WeeklyPattern)

	for _, wh := range rows {
		if !wh.Active || wh.StartTime == "" || wh.EndTime == "" {
			continue
		}
		if wh.Weekday < 0 || wh.Weekday > 6 {
			warn("availability: janela legada com weekday inválido %d (barber %d)", wh.Weekday, wh.BarberID)
			continue
		}

		warn("availability: expandindo janela legada para barber %d weekday %d: caminho de escrita e de leitura divergiram",
			wh.BarberID, wh.Weekday)

		rawStart, err := g.ParseMinutes(wh.StartTime)
		if err != nil {
			warn("availability: janela legada malformada (barber %d weekday %d): %v", wh.BarberID, wh.Weekday, err)
			continue
		}
		windowEnd, err := g.ParseMinutes(wh.EndTime)
		if err != nil {
			warn("availability: janela legada malformada (barber %d weekday %d): %v", wh.BarberID, wh.Weekday, err)
			continue
		}
		windowStart := g.NextOnGrid(rawStart)

		hasLunch := wh.LunchStart != "" && wh.LunchEnd != ""
		var lunchStart, lunchEnd int
		if hasLunch {
			lunchStart, err = g.ParseMinutes(wh.LunchStart)
			if err == nil {
				lunchEnd, err = g.ParseMinutes(wh.LunchEnd)
			}
			if err != nil {
				// almoço ilegível: pula a janela inteira em vez de
				// arriscar oferecer células dentro da pausa
				warn("availability: pausa de almoço malformada (barber %d weekday %d): %v", wh.BarberID, wh.Weekday, err)
				continue
			}
		}

		wd := time.Weekday(wh.Weekday)
		for m := windowStart; m+g.StepMinutes <= windowEnd; m += g.StepMinutes {
			if hasLunch && m < lunchEnd && m+g.StepMinutes > lunchStart {
				continue
			}
			p[wd] = append(p[wd], m)
		}
	}

	// Mais de uma janela por dia é possível no legado; normaliza para o
	// invariante do WeeklyPattern (ordenado, sem duplicatas).
	for wd, entries := range p {
		p[wd] = dedupeSorted(entries)
	}

	return p
}

func dedupeSorted(entries []int) []int {
	sort.Ints(entries)
	out := entries[:0]
	prev := -1
	for _, m := range entries {
		if m != prev {
			out = append(out, m)
			prev = m
		}
	}
	return out
}
