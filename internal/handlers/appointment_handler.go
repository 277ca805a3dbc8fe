package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/httpresp"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
	ucAppointment "github.com/BruksfildServices01/agenda-engine/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	listByDate  *ucAppointment.ListAppointmentsByDate
	listByMonth *ucAppointment.ListAppointmentsByMonth
	confirm     *ucAppointment.ConfirmAppointment
	cancel      *ucAppointment.CancelAppointment
	complete    *ucAppointment.CompleteAppointment
}

func NewAppointmentHandler(
	listByDate *ucAppointment.ListAppointmentsByDate,
	listByMonth *ucAppointment.ListAppointmentsByMonth,
	confirm *ucAppointment.ConfirmAppointment,
	cancel *ucAppointment.CancelAppointment,
	complete *ucAppointment.CompleteAppointment,
) *AppointmentHandler {
	return &AppointmentHandler{
		listByDate:  listByDate,
		listByMonth: listByMonth,
		confirm:     confirm,
		cancel:      cancel,
		complete:    complete,
	}
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	shopID, ok := uintParam(c, "shopId")
	if !ok {
		httperr.BadRequest(c, "invalid_shop_id", "Barbearia inválida.")
		return
	}

	barberID, ok := uintParam(c, "barberId")
	if !ok {
		httperr.BadRequest(c, "invalid_barber_id", "Barbeiro inválido.")
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}

	// o use case reancora a data no timezone da barbearia
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	out, err := h.listByDate.Execute(c.Request.Context(), barberID, shopID, date)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Erro ao listar agendamentos.")
		return
	}

	httpresp.List(c, out)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	shopID, ok := uintParam(c, "shopId")
	if !ok {
		httperr.BadRequest(c, "invalid_shop_id", "Barbearia inválida.")
		return
	}

	barberID, ok := uintParam(c, "barberId")
	if !ok {
		httperr.BadRequest(c, "invalid_barber_id", "Barbeiro inválido.")
		return
	}

	year, err1 := strconv.Atoi(c.Query("year"))
	month, err2 := strconv.Atoi(c.Query("month"))
	if err1 != nil || err2 != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Ano/mês inválidos.")
		return
	}

	out, err := h.listByMonth.Execute(c.Request.Context(), barberID, shopID, year, month)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Erro ao listar agendamentos.")
		return
	}

	httpresp.List(c, out)
}

// ======================================================
// STATE CHANGES
// ======================================================

type stateChangeFn func(c *gin.Context, shopID, barberID, appointmentID uint) (*models.Appointment, error)

func (h *AppointmentHandler) stateChange(c *gin.Context, fn stateChangeFn) {
	shopID, ok := uintParam(c, "shopId")
	if !ok {
		httperr.BadRequest(c, "invalid_shop_id", "Barbearia inválida.")
		return
	}

	barberID, ok := uintParam(c, "barberId")
	if !ok {
		httperr.BadRequest(c, "invalid_barber_id", "Barbeiro inválido.")
		return
	}

	appointmentID, ok := uintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_appointment_id", "Agendamento inválido.")
		return
	}

	ap, err := fn(c, shopID, barberID, appointmentID)
	if err != nil {
		switch {
		case httperr.IsBusiness(err, "appointment_not_found"):
			httperr.NotFound(c, "appointment_not_found", "Agendamento não encontrado.")
		case httperr.IsBusiness(err, "invalid_state"):
			httperr.Conflict(c, "invalid_state", "Agendamento não permite essa transição.")
		default:
			httperr.Internal(c, "state_change_failed", "Erro ao atualizar agendamento.")
		}
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	h.stateChange(c, func(c *gin.Context, shopID, barberID, appointmentID uint) (*models.Appointment, error) {
		return h.confirm.Execute(c.Request.Context(), shopID, barberID, appointmentID)
	})
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.stateChange(c, func(c *gin.Context, shopID, barberID, appointmentID uint) (*models.Appointment, error) {
		return h.cancel.Execute(c.Request.Context(), shopID, barberID, appointmentID)
	})
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.stateChange(c, func(c *gin.Context, shopID, barberID, appointmentID uint) (*models.Appointment, error) {
		return h.complete.Execute(c.Request.Context(), shopID, barberID, appointmentID)
	})
}
