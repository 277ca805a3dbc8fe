package appointment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-engine/internal/audit"
	"github.com/BruksfildServices01/agenda-engine/internal/cache"
	domain "github.com/BruksfildServices01/agenda-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-engine/internal/domain/schedule"
	"github.com/BruksfildServices01/agenda-engine/internal/feed"
	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
	"github.com/BruksfildServices01/agenda-engine/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type BookSlotInput struct {
	BarbershopID uint
	BarberID     uint

	ClientName  string
	ClientPhone string
	ClientEmail string

	ProductID uint

	Date  string // YYYY-MM-DD
	Time  string // HH:MM
	Notes string
}

// ======================================================
// USE CASE
// ======================================================

// BookSlot é a transação de reserva: revalida a disponibilidade no commit
// (a lista que o cliente viu pode estar velha) e cria o agendamento de
// forma atômica. slot_taken aqui é desfecho normal: o chamador reconsulta
// os horários e o usuário escolhe de novo.
type BookSlot struct {
	repo  schedule.Repository
	gen   *schedule.Generator
	audit *audit.Dispatcher
	feed  *feed.Broker
	cache *cache.SlotCache

	// serializa commits por (barbeiro, dia) mesmo se a camada de
	// persistência não oferecer check-and-create atômico
	mu    sync.Mutex
	locks map[string]*dayLock
}

// dayLock é contado por referência: a entrada some do mapa quando o último
// commit do dia solta o lock, senão o mapa cresceria para sempre (uma
// entrada por barbeiro por dia já reservado).
type dayLock struct {
	mu   sync.Mutex
	refs int
}

func NewBookSlot(
	repo schedule.Repository,
	gen *schedule.Generator,
	auditDispatcher *audit.Dispatcher,
	broker *feed.Broker,
	slotCache *cache.SlotCache,
) *BookSlot {
	return &BookSlot{
		repo:  repo,
		gen:   gen,
		audit: auditDispatcher,
		feed:  broker,
		cache: slotCache,
		locks: make(map[string]*dayLock),
	}
}

func (uc *BookSlot) lockDay(barberID uint, day string) func() {
	key := fmt.Sprintf("%d:%s", barberID, day)

	uc.mu.Lock()
	l, ok := uc.locks[key]
	if !ok {
		l = &dayLock{}
		uc.locks[key] = l
	}
	l.refs++
	uc.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		uc.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(uc.locks, key)
		}
		uc.mu.Unlock()
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *BookSlot) Execute(
	ctx context.Context,
	in BookSlotInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1. Barbearia (timezone do dia)
	// --------------------------------------------------
	shop, err := uc.repo.GetBarbershopByID(ctx, in.BarbershopID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(shop.Timezone)

	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		in.Date+" "+in.Time,
		loc,
	)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	// --------------------------------------------------
	// 2. Validação de grade (nunca coagir em silêncio)
	// --------------------------------------------------
	g := uc.gen.Grid()
	startMinutes := start.Hour()*60 + start.Minute()

	if !g.OnGrid(startMinutes) {
		return nil, httperr.ErrBusiness("off_grid_time")
	}

	product, err := uc.repo.GetProduct(ctx, in.BarbershopID, in.ProductID)
	if err != nil {
		return nil, httperr.ErrBusiness("product_not_found")
	}

	if err := uc.gen.ValidateDuration(product.DurationMin); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3. Antecedência mínima (e nunca no passado)
	// --------------------------------------------------
	now := uc.gen.Clock().Now().In(loc)
	minAllowed := now.Add(time.Duration(shop.MinAdvanceMinutes) * time.Minute)
	if !start.After(minAllowed) {
		return nil, httperr.ErrBusiness("too_soon")
	}

	// --------------------------------------------------
	// 4. Dentro da agenda configurada?
	// --------------------------------------------------
	pattern, err := uc.gen.LoadPattern(ctx, in.BarberID)
	if err != nil {
		return nil, err
	}

	cells := g.SlotsNeeded(product.DurationMin)
	for i := 0; i < cells; i++ {
		cell := startMinutes + i*g.StepMinutes
		if !pattern.Contains(start, cell) {
			return nil, httperr.ErrBusiness("outside_working_hours")
		}
	}
	if !g.FitsBeforeBoundary(startMinutes, product.DurationMin, uc.gen.DayEndMinutes()) {
		return nil, httperr.ErrBusiness("outside_working_hours")
	}

	// --------------------------------------------------
	// 5. Cliente (get or create)
	// --------------------------------------------------
	client, err := uc.repo.GetOrCreateClient(
		ctx,
		in.BarbershopID,
		in.ClientName,
		in.ClientPhone,
		in.ClientEmail,
	)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 6. Revalidação + criação atômica
	// --------------------------------------------------
	unlock := uc.lockDay(in.BarberID, in.Date)
	defer unlock()

	ok, err := uc.gen.CanBook(ctx, in.BarberID, start, startMinutes, product.DurationMin)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, httperr.ErrSlotTaken()
	}

	ap := &models.Appointment{
		PublicID:        uuid.NewString(),
		BarbershopID:    in.BarbershopID,
		BarberID:        in.BarberID,
		ClientID:        client.ID,
		BarberProductID: product.ID,
		StartTime:       start,
		EndTime:         start.Add(time.Duration(product.DurationMin) * time.Minute),
		DurationMin:     product.DurationMin,
		Status:          string(domain.InitialStatus()),
		Notes:           in.Notes,
	}

	// a palavra final é a checagem sob FOR UPDATE dentro da transação
	if err := uc.repo.CreateAppointmentIfFree(ctx, ap); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 7. Invalidação + feed + auditoria
	// --------------------------------------------------
	uc.cache.Invalidate(ctx, in.BarberID)
	uc.feed.Publish(ctx, in.BarberID, feed.KindAppointments)

	uc.audit.Dispatch(audit.Event{
		BarbershopID: in.BarbershopID,
		UserID:       &in.BarberID,
		Action:       audit.ActionAppointmentBooked,
		Entity:       "appointment",
		EntityID:     &ap.ID,
	})

	return ap, nil
}
