package handlers

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/agenda-engine/internal/audit"
	"github.com/BruksfildServices01/agenda-engine/internal/cache"
	"github.com/BruksfildServices01/agenda-engine/internal/domain/schedule"
	"github.com/BruksfildServices01/agenda-engine/internal/feed"
	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

// WeeklySlotsHandler expõe a agenda semanal canônica (lista explícita de
// inícios por dia). A troca é sempre em bloco: apaga tudo do barbeiro e
// insere a lista nova, e toda escrita dispara o feed de mudança.
type WeeklySlotsHandler struct {
	grid  schedule.Grid
	audit *audit.Dispatcher
	feed  *feed.Broker
	cache *cache.SlotCache
	repo  schedule.Repository
}

func NewWeeklySlotsHandler(
	grid schedule.Grid,
	repo schedule.Repository,
	auditDispatcher *audit.Dispatcher,
	broker *feed.Broker,
	slotCache *cache.SlotCache,
) *WeeklySlotsHandler {
	return &WeeklySlotsHandler{
		grid:  grid,
		repo:  repo,
		audit: auditDispatcher,
		feed:  broker,
		cache: slotCache,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type WeeklySlotEntry struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	StartTime string `json:"start_time" binding:"required"`
}

type WeeklySlotsUpdateRequest struct {
	Slots []WeeklySlotEntry `json:"slots" binding:"required"`
}

// ======================================================
// GET / PUT
// ======================================================

func (h *WeeklySlotsHandler) Get(c *gin.Context) {
	barberID, ok := uintParam(c, "barberId")
	if !ok {
		httperr.BadRequest(c, "invalid_barber_id", "Barbeiro inválido.")
		return
	}

	slots, err := h.repo.GetWeeklySlots(c.Request.Context(), barberID)
	if err != nil {
		httperr.Internal(c, "failed_to_get_weekly_slots", "Erro ao buscar agenda semanal.")
		return
	}

	c.JSON(http.StatusOK, slots)
}

func (h *WeeklySlotsHandler) Update(c *gin.Context) {
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

	var req WeeklySlotsUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	toCreate, err := h.normalize(barberID, req.Slots)
	if err != nil {
		httperr.BadRequest(c, "invalid_start_time", "Horário de início inválido.")
		return
	}

	if err := h.repo.ReplaceWeeklySlots(c.Request.Context(), barberID, toCreate); err != nil {
		httperr.Internal(c, "failed_to_save_weekly_slots", "Erro ao salvar agenda semanal.")
		return
	}

	h.cache.Invalidate(c.Request.Context(), barberID)
	h.feed.Publish(c.Request.Context(), barberID, feed.KindWeeklyPattern)

	h.audit.Dispatch(audit.Event{
		BarbershopID: shopID,
		UserID:       &barberID,
		Action:       audit.ActionWeeklySlotsReplaced,
		Entity:       "availability_slot",
		Metadata:     gin.H{"count": len(toCreate)},
	})

	c.JSON(http.StatusOK, gin.H{"status": "ok", "count": len(toCreate)})
}

// normalize aplica o snap de grade a cada entrada enviada (a regra de
// arredondamento é contrato, ver schedule.Grid.SnapMinutes) e remove
// duplicatas por dia.
func (h *WeeklySlotsHandler) normalize(barberID uint, entries []WeeklySlotEntry) ([]models.AvailabilitySlot, error) {
	seen := make(map[[2]int]bool)
	var out []models.AvailabilitySlot

	for _, e := range entries {
		t, err := time.Parse("15:04", e.StartTime)
		if err != nil {
			return nil, err
		}

		m := h.grid.SnapMinutes(t.Hour()*60 + t.Minute())

		key := [2]int{e.Weekday, m}
		if seen[key] {
			continue
		}
		seen[key] = true

		out = append(out, models.AvailabilitySlot{
			BarberID:  barberID,
			Weekday:   e.Weekday,
			StartTime: h.grid.TimeString(m),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Weekday != out[j].Weekday {
			return out[i].Weekday < out[j].Weekday
		}
		return out[i].StartTime < out[j].StartTime
	})

	return out, nil
}
