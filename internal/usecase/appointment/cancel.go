package appointment

import (
	"context"

	"github.com/BruksfildServices01/agenda-engine/internal/audit"
	"github.com/BruksfildServices01/agenda-engine/internal/cache"
	domain "github.com/BruksfildServices01/agenda-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-engine/internal/domain/schedule"
	"github.com/BruksfildServices01/agenda-engine/internal/feed"
	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
	"github.com/BruksfildServices01/agenda-engine/internal/timezone"
)

type CancelAppointment struct {
	repo  schedule.Repository
	audit *audit.Dispatcher
	feed  *feed.Broker
	cache *cache.SlotCache
}

func NewCancelAppointment(
	repo schedule.Repository,
	auditDispatcher *audit.Dispatcher,
	broker *feed.Broker,
	slotCache *cache.SlotCache,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		audit: auditDispatcher,
		feed:  broker,
		cache: slotCache,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	barbershopID uint,
	barberID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	shop, err := uc.repo.GetBarbershopByID(ctx, barbershopID)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetAppointmentForBarber(ctx, appointmentID, barberID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	now := timezone.NowIn(shop.Timezone)
	if err := domain.Cancel(ap, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	// cancelamento libera o horário: listas calculadas ficam velhas
	uc.cache.Invalidate(ctx, barberID)
	uc.feed.Publish(ctx, barberID, feed.KindAppointments)

	uc.audit.Dispatch(audit.Event{
		BarbershopID: barbershopID,
		UserID:       &barberID,
		Action:       audit.ActionAppointmentCancelled,
		Entity:       "appointment",
		EntityID:     &ap.ID,
	})

	return ap, nil
}
