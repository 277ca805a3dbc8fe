package schedule

import (
	"context"
	"time"

	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

// Repository é a fronteira com o colaborador de persistência. O motor só
// depende destas formas; a implementação gorm vive em internal/infra.
type Repository interface {
	// -------- Barbershop --------
	GetBarbershopByID(
		ctx context.Context,
		id uint,
	) (*models.Barbershop, error)

	GetBarbershopBySlug(
		ctx context.Context,
		slug string,
	) (*models.Barbershop, error)

	// -------- Product (tratamento) --------
	GetProduct(
		ctx context.Context,
		barbershopID uint,
		productID uint,
	) (*models.BarberProduct, error)

	// -------- Client --------
	GetOrCreateClient(
		ctx context.Context,
		barbershopID uint,
		name string,
		phone string,
		email string,
	) (*models.Client, error)

	// -------- Disponibilidade semanal --------
	GetWeeklySlots(
		ctx context.Context,
		barberID uint,
	) ([]models.AvailabilitySlot, error)

	GetLegacyWorkingHours(
		ctx context.Context,
		barberID uint,
	) ([]models.WorkingHours, error)

	ReplaceWeeklySlots(
		ctx context.Context,
		barberID uint,
		slots []models.AvailabilitySlot,
	) error

	// -------- Appointment (leitura) --------
	ListConflictingAppointmentsForDay(
		ctx context.Context,
		barberID uint,
		dayStart time.Time,
		dayEnd time.Time,
	) ([]models.Appointment, error)

	ListAppointmentsForPeriod(
		ctx context.Context,
		barberID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	GetAppointmentForBarber(
		ctx context.Context,
		appointmentID uint,
		barberID uint,
	) (*models.Appointment, error)

	// -------- Appointment (escrita) --------

	// CreateAppointmentIfFree faz a checagem de conflito e a inserção como
	// unidade serializável única; devolve slot_taken quando já existe
	// agendamento scheduled/confirmed sobreposto.
	CreateAppointmentIfFree(
		ctx context.Context,
		ap *models.Appointment,
	) error

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error
}
