package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/agenda-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-engine/internal/domain/schedule"
	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

// --------------------------------------------------
// Barbershop
// --------------------------------------------------

func (r *ScheduleGormRepository) GetBarbershopByID(
	ctx context.Context,
	id uint,
) (*models.Barbershop, error) {

	var shop models.Barbershop
	if err := r.db.WithContext(ctx).First(&shop, id).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *ScheduleGormRepository) GetBarbershopBySlug(
	ctx context.Context,
	slug string,
) (*models.Barbershop, error) {

	var shop models.Barbershop
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

// --------------------------------------------------
// Product (tratamento)
// --------------------------------------------------

func (r *ScheduleGormRepository) GetProduct(
	ctx context.Context,
	barbershopID uint,
	productID uint,
) (*models.BarberProduct, error) {

	var product models.BarberProduct
	if err := r.db.WithContext(ctx).
		Where("id = ? AND barbershop_id = ?", productID, barbershopID).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *ScheduleGormRepository) GetOrCreateClient(
	ctx context.Context,
	barbershopID uint,
	name string,
	phone string,
	email string,
) (*models.Client, error) {

	var client models.Client
	err := r.db.WithContext(ctx).
		Where("barbershop_id = ? AND phone = ?", barbershopID, phone).
		First(&client).Error

	if err == nil {
		return &client, nil
	}

	client = models.Client{
		BarbershopID: barbershopID,
		Name:         name,
		Phone:        phone,
		Email:        email,
	}

	if err := r.db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, err
	}

	return &client, nil
}

// --------------------------------------------------
// Disponibilidade semanal
// --------------------------------------------------

func (r *ScheduleGormRepository) GetWeeklySlots(
	ctx context.Context,
	barberID uint,
) ([]models.AvailabilitySlot, error) {

	var slots []models.AvailabilitySlot
	if err := r.db.WithContext(ctx).
		Where("barber_id = ?", barberID).
		Order("weekday ASC, start_time ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}

	return slots, nil
}

func (r *ScheduleGormRepository) GetLegacyWorkingHours(
	ctx context.Context,
	barberID uint,
) ([]models.WorkingHours, error) {

	var hours []models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("barber_id = ?", barberID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {
		return nil, err
	}

	return hours, nil
}

// ReplaceWeeklySlots troca a agenda inteira do barbeiro em uma transação
// (delete-all-then-insert, mesma semântica da edição de expediente).
func (r *ScheduleGormRepository) ReplaceWeeklySlots(
	ctx context.Context,
	barberID uint,
	slots []models.AvailabilitySlot,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("barber_id = ?", barberID).
			Delete(&models.AvailabilitySlot{}).Error; err != nil {
			return err
		}

		if len(slots) == 0 {
			return nil
		}

		return tx.Create(&slots).Error
	})
}

// --------------------------------------------------
// Appointment (leitura)
// --------------------------------------------------

func (r *ScheduleGormRepository) ListConflictingAppointmentsForDay(
	ctx context.Context,
	barberID uint,
	dayStart time.Time,
	dayEnd time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("id", "start_time", "end_time", "duration_min").
		Where(
			"barber_id = ? AND status IN ? AND start_time >= ? AND start_time < ?",
			barberID, domain.ConflictStatuses(), dayStart, dayEnd,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *ScheduleGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	barberID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment

	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("BarberProduct").
		Where(
			"barber_id = ? AND start_time >= ? AND start_time < ?",
			barberID,
			start,
			end,
		).
		Order("start_time ASC").
		Find(&apps).Error

	if err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *ScheduleGormRepository) GetAppointmentForBarber(
	ctx context.Context,
	appointmentID uint,
	barberID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND barber_id = ?", appointmentID, barberID).
		First(&ap).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

// --------------------------------------------------
// Appointment (escrita)
// --------------------------------------------------

// CreateAppointmentIfFree executa checagem de conflito + inserção como
// unidade única: a contagem com FOR UPDATE segura as linhas sobrepostas até
// o commit, então de duas tentativas concorrentes para o mesmo intervalo
// exatamente uma insere e a outra recebe slot_taken.
func (r *ScheduleGormRepository) CreateAppointmentIfFree(
	ctx context.Context,
	ap *models.Appointment,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.
			Model(&models.Appointment{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(
				"barber_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
				ap.BarberID,
				domain.ConflictStatuses(),
				ap.EndTime,
				ap.StartTime,
			).
			Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return httperr.ErrSlotTaken()
		}

		if err := tx.Create(ap).Error; err != nil {
			// corrida perdida contra uma constraint do banco também é
			// conflito de reserva, não falha de sistema
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return httperr.ErrSlotTaken()
			}
			return err
		}
		return nil
	})
}

func (r *ScheduleGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

// Compile-time check
var _ schedule.Repository = (*ScheduleGormRepository)(nil)
