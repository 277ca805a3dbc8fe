package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/agenda-engine/internal/cache"
	"github.com/BruksfildServices01/agenda-engine/internal/domain/schedule"
	"github.com/BruksfildServices01/agenda-engine/internal/dto"
	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type GetBookableSlotsInput struct {
	BarbershopID uint
	BarberID     uint
	ProductID    uint
	Date         time.Time
}

// ======================================================
// USE CASE
// ======================================================

// GetBookableSlots é o ponto de entrada de leitura: resolve o tratamento,
// consulta o cache e delega o cálculo ao gerador. Lista vazia é resultado
// normal (barbeiro sem agenda naquele dia), não erro.
type GetBookableSlots struct {
	repo  schedule.Repository
	gen   *schedule.Generator
	cache *cache.SlotCache
}

func NewGetBookableSlots(
	repo schedule.Repository,
	gen *schedule.Generator,
	slotCache *cache.SlotCache,
) *GetBookableSlots {
	return &GetBookableSlots{
		repo:  repo,
		gen:   gen,
		cache: slotCache,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *GetBookableSlots) Execute(
	ctx context.Context,
	in GetBookableSlotsInput,
) ([]dto.TimeSlot, error) {

	product, err := uc.repo.GetProduct(ctx, in.BarbershopID, in.ProductID)
	if err != nil {
		return nil, httperr.ErrBusiness("product_not_found")
	}

	dateKey := in.Date.Format("2006-01-02")

	starts, hit := uc.cache.Get(ctx, in.BarberID, dateKey, product.DurationMin)
	if !hit {
		starts, err = uc.gen.BookableSlots(ctx, in.BarberID, in.Date, product.DurationMin)
		if err != nil {
			return nil, err
		}
		uc.cache.Set(ctx, in.BarberID, dateKey, product.DurationMin, starts)
	}

	g := uc.gen.Grid()

	// hoje, um item de cache ainda dentro do TTL pode conter horário que
	// acabou de passar; refiltra contra o relógio a cada chamada
	now := uc.gen.Clock().Now().In(in.Date.Location())
	today := timezone.SameDay(now, in.Date)
	nowMinutes := now.Hour()*60 + now.Minute()

	out := make([]dto.TimeSlot, 0, len(starts))
	for _, start := range starts {
		m := g.Minutes(start)
		if today && m <= nowMinutes {
			continue
		}
		out = append(out, dto.TimeSlot{
			Start: start,
			End:   g.TimeString(m + product.DurationMin),
		})
	}

	return out, nil
}
