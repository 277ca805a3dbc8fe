package routes

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-engine/internal/audit"
	"github.com/BruksfildServices01/agenda-engine/internal/cache"
	"github.com/BruksfildServices01/agenda-engine/internal/config"
	"github.com/BruksfildServices01/agenda-engine/internal/domain/schedule"
	"github.com/BruksfildServices01/agenda-engine/internal/feed"
	"github.com/BruksfildServices01/agenda-engine/internal/handlers"
	infraRepo "github.com/BruksfildServices01/agenda-engine/internal/infra/repository"
	"github.com/BruksfildServices01/agenda-engine/internal/middleware"
	"github.com/BruksfildServices01/agenda-engine/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/agenda-engine/internal/usecase/appointment"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client, cfg *config.Config) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	grid := schedule.NewGrid(cfg.GridStepMinutes)
	clock := schedule.SystemClock{TZ: timezone.DefaultTimezone}

	scheduleRepo := infraRepo.NewScheduleGormRepository(db)

	broker := feed.NewBroker(rdb)
	slotCache := cache.NewSlotCache(rdb, time.Duration(cfg.SlotCacheTTLSeconds)*time.Second)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	// avisos de qualidade de dados do motor vão para o log e para a
	// trilha de auditoria, para os operadores verem a divergência
	warn := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		log.Println(msg)
		auditDispatcher.Dispatch(audit.Event{
			Action:   audit.ActionSyncDivergence,
			Entity:   "availability",
			Metadata: msg,
		})
	}

	generator := schedule.NewGenerator(
		grid,
		cfg.DayEndMinutes(),
		scheduleRepo,
		clock,
		warn,
	)

	// ======================================================
	// 🧠 USE CASES — APPOINTMENTS
	// ======================================================
	getBookableSlotsUC := ucAppointment.NewGetBookableSlots(
		scheduleRepo,
		generator,
		slotCache,
	)

	bookSlotUC := ucAppointment.NewBookSlot(
		scheduleRepo,
		generator,
		auditDispatcher,
		broker,
		slotCache,
	)

	confirmAppointmentUC := ucAppointment.NewConfirmAppointment(
		scheduleRepo,
		auditDispatcher,
	)

	cancelAppointmentUC := ucAppointment.NewCancelAppointment(
		scheduleRepo,
		auditDispatcher,
		broker,
		slotCache,
	)

	completeAppointmentUC := ucAppointment.NewCompleteAppointment(
		scheduleRepo,
		auditDispatcher,
		broker,
		slotCache,
	)

	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(
		scheduleRepo,
	)

	listAppointmentsByMonthUC := ucAppointment.NewListAppointmentsByMonth(
		scheduleRepo,
	)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	publicHandler := handlers.NewPublicHandler(
		db,
		getBookableSlotsUC,
		bookSlotUC,
		broker,
	)

	weeklySlotsHandler := handlers.NewWeeklySlotsHandler(
		grid,
		scheduleRepo,
		auditDispatcher,
		broker,
		slotCache,
	)

	appointmentHandler := handlers.NewAppointmentHandler(
		listAppointmentsByDateUC,
		listAppointmentsByMonthUC,
		confirmAppointmentUC,
		cancelAppointmentUC,
		completeAppointmentUC,
	)

	productHandler := handlers.NewBarberProductHandler(db, grid)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// 🌐 ROTAS PÚBLICAS (clientes, por slug da barbearia)
	// ======================================================
	public := r.Group("/api/public/:slug")
	{
		public.GET("/products", publicHandler.ListProducts)
		public.GET("/availability", publicHandler.Availability)
		public.GET("/availability/stream", publicHandler.AvailabilityStream)
		public.POST("/appointments", publicHandler.BookSlot)
	}

	// ======================================================
	// 🗓️ ROTAS DE GESTÃO (equipe da barbearia)
	// ======================================================
	shop := r.Group("/api/shops/:shopId")
	{
		shop.GET("/products", productHandler.List)
		shop.POST("/products", productHandler.Create)
		shop.PUT("/products/:id", productHandler.Update)

		shop.GET("/audit-logs", auditLogsHandler.List)

		barber := shop.Group("/barbers/:barberId")
		{
			barber.GET("/weekly-slots", weeklySlotsHandler.Get)
			barber.PUT("/weekly-slots", weeklySlotsHandler.Update)

			barber.GET("/appointments", appointmentHandler.ListByDate)
			barber.GET("/appointments/month", appointmentHandler.ListByMonth)

			barber.PATCH("/appointments/:id/confirm", appointmentHandler.Confirm)
			barber.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			barber.PATCH("/appointments/:id/complete", appointmentHandler.Complete)
		}
	}
}
