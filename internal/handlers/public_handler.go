package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-engine/internal/feed"
	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
	"github.com/BruksfildServices01/agenda-engine/internal/usecase/appointment"
	"github.com/BruksfildServices01/agenda-engine/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type PublicHandler struct {
	db     *gorm.DB
	slots  *appointment.GetBookableSlots
	book   *appointment.BookSlot
	broker *feed.Broker
}

func NewPublicHandler(
	db *gorm.DB,
	slots *appointment.GetBookableSlots,
	book *appointment.BookSlot,
	broker *feed.Broker,
) *PublicHandler {
	return &PublicHandler{
		db:     db,
		slots:  slots,
		book:   book,
		broker: broker,
	}
}

// ======================================================
// DTOs
// ======================================================

type PublicBookSlotRequest struct {
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ClientEmail string `json:"client_email"`
	ProductID   uint   `json:"product_id" binding:"required"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	Time        string `json:"time" binding:"required"` // HH:MM
	Notes       string `json:"notes"`
}

// ======================================================
// HELPERS
// ======================================================

func (h *PublicHandler) shopAndBarber(c *gin.Context) (*models.Barbershop, *models.User, bool) {
	slug := c.Param("slug")

	var shop models.Barbershop
	if err := h.db.Where("slug = ?", slug).First(&shop).Error; err != nil {
		httperr.NotFound(c, "barbershop_not_found", "Barbearia não encontrada.")
		return nil, nil, false
	}

	var barber models.User
	if err := h.db.
		Where("barbershop_id = ? AND role = ?", shop.ID, "owner").
		First(&barber).Error; err != nil {

		httperr.BadRequest(c, "barber_not_found", "Barbeiro não encontrado.")
		return nil, nil, false
	}

	return &shop, &barber, true
}

// ======================================================
// PRODUCTS
// ======================================================

func (h *PublicHandler) ListProducts(c *gin.Context) {
	slug := c.Param("slug")

	var shop models.Barbershop
	if err := h.db.Where("slug = ?", slug).First(&shop).Error; err != nil {
		httperr.NotFound(c, "barbershop_not_found", "Barbearia não encontrada.")
		return
	}

	q := h.db.Where("barbershop_id = ? AND active = true", shop.ID)

	if category := strings.TrimSpace(strings.ToLower(c.Query("category"))); category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	var products []models.BarberProduct
	if err := q.Order("id ASC").Find(&products).Error; err != nil {
		httperr.Internal(c, "failed_to_list_products", "Erro ao listar produtos.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"barbershop": shop,
		"products":   products,
	})
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *PublicHandler) Availability(c *gin.Context) {
	dateStr := c.Query("date")
	productIDStr := c.Query("product_id")

	if dateStr == "" || productIDStr == "" {
		httperr.BadRequest(c, "missing_params", "Data e serviço obrigatórios.")
		return
	}

	productID, err := strconv.ParseUint(productIDStr, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_product_id", "Serviço inválido.")
		return
	}

	shop, barber, ok := h.shopAndBarber(c)
	if !ok {
		return
	}

	date, err := parseDateInShop(shop, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	slots, err := h.slots.Execute(
		c.Request.Context(),
		appointment.GetBookableSlotsInput{
			BarbershopID: shop.ID,
			BarberID:     barber.ID,
			ProductID:    uint(productID),
			Date:         date,
		},
	)

	if err != nil {
		if httperr.IsBusiness(err, "product_not_found") {
			httperr.BadRequest(c, "product_not_found", "Serviço inválido.")
			return
		}
		if httperr.IsBusiness(err, "invalid_duration") {
			httperr.BadRequest(c, "invalid_duration", "Duração do serviço fora da grade.")
			return
		}

		httperr.Internal(c, "availability_failed", "Erro ao calcular horários.")
		return
	}

	// lista vazia é resposta válida: sem agenda configurada nesse dia
	c.JSON(http.StatusOK, gin.H{
		"date":  dateStr,
		"slots": slots,
	})
}

// ======================================================
// BOOK SLOT
// ======================================================

func (h *PublicHandler) BookSlot(c *gin.Context) {
	shop, barber, ok := h.shopAndBarber(c)
	if !ok {
		return
	}

	var req PublicBookSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if req.ClientEmail != "" && !validators.IsEmailDomainValid(req.ClientEmail) {
		httperr.BadRequest(c, "invalid_email", "E-mail inválido.")
		return
	}

	ap, err := h.book.Execute(
		c.Request.Context(),
		appointment.BookSlotInput{
			BarbershopID: shop.ID,
			BarberID:     barber.ID,
			ClientName:   req.ClientName,
			ClientPhone:  req.ClientPhone,
			ClientEmail:  req.ClientEmail,
			ProductID:    req.ProductID,
			Date:         req.Date,
			Time:         req.Time,
			Notes:        req.Notes,
		},
	)

	if err != nil {
		mapBookErrors(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}

func mapBookErrors(c *gin.Context, err error) {
	switch {
	case httperr.IsSlotTaken(err):
		// desfecho esperado: o cliente reconsulta e escolhe outro horário
		httperr.Conflict(c, httperr.CodeSlotTaken, "Esse horário acabou de ser reservado. Escolha outro.")
	case httperr.IsBusiness(err, "invalid_date_or_time"):
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
	case httperr.IsBusiness(err, "off_grid_time"):
		httperr.BadRequest(c, "off_grid_time", "Horário fora da grade de agendamento.")
	case httperr.IsBusiness(err, "invalid_duration"):
		httperr.BadRequest(c, "invalid_duration", "Duração do serviço fora da grade.")
	case httperr.IsBusiness(err, "too_soon"):
		httperr.BadRequest(c, "too_soon", "Esse horário já passou ou está muito em cima da hora.")
	case httperr.IsBusiness(err, "outside_working_hours"):
		httperr.BadRequest(c, "outside_working_hours", "Horário fora da agenda do barbeiro.")
	case httperr.IsBusiness(err, "product_not_found"):
		httperr.BadRequest(c, "product_not_found", "Serviço inválido.")
	default:
		httperr.Internal(c, "booking_failed", "Erro ao criar agendamento.")
	}
}

// ======================================================
// AVAILABILITY STREAM (SSE)
// ======================================================

// AvailabilityStream mantém uma assinatura do feed de mudanças enquanto o
// cliente estiver conectado. Cada evento significa "recalcule os horários",
// nunca um diff. A assinatura morre junto com a conexão.
func (h *PublicHandler) AvailabilityStream(c *gin.Context) {
	_, barber, ok := h.shopAndBarber(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	events := make(chan feed.Event, 16)

	unsubscribe, err := h.broker.Subscribe(ctx, barber.ID, func(ev feed.Event) {
		select {
		case events <- ev:
		default:
			// consumidor lento: o próximo evento ainda força recálculo,
			// então descartar aqui não perde informação
		}
	})
	if err != nil {
		httperr.Unavailable(c, "feed_unavailable", "Feed de disponibilidade indisponível.")
		return
	}
	defer unsubscribe()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case ev := <-events:
			payload, err := json.Marshal(ev)
			if err != nil {
				return true
			}
			c.SSEvent("availability", string(payload))
			return true
		}
	})
}
