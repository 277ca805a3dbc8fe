package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-engine/internal/domain/schedule"
	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

type BarberProductHandler struct {
	db   *gorm.DB
	grid schedule.Grid
}

func NewBarberProductHandler(db *gorm.DB, grid schedule.Grid) *BarberProductHandler {
	return &BarberProductHandler{db: db, grid: grid}
}

// --------- Requests ---------

type CreateBarberProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	DurationMin int     `json:"duration_min" binding:"required,min=1"`
	Price       float64 `json:"price" binding:"required"`
	Category    string  `json:"category"`
}

type UpdateBarberProductRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	DurationMin *int     `json:"duration_min,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Active      *bool    `json:"active,omitempty"`
}

// durationOnGrid impede criar tratamento que o motor rejeitaria depois:
// duração tem que ser múltiplo positivo do passo da grade.
func (h *BarberProductHandler) durationOnGrid(durationMin int) bool {
	return durationMin > 0 && h.grid.OnGrid(durationMin)
}

// --------- Handlers ---------

func (h *BarberProductHandler) List(c *gin.Context) {
	shopID, ok := uintParam(c, "shopId")
	if !ok {
		httperr.BadRequest(c, "invalid_shop_id", "Barbearia inválida.")
		return
	}

	category := strings.ToLower(strings.TrimSpace(c.Query("category")))
	activeStr := strings.TrimSpace(c.Query("active")) // "true", "false" ou vazio

	q := h.db.Where("barbershop_id = ?", shopID)

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	if activeStr == "true" {
		q = q.Where("active = ?", true)
	} else if activeStr == "false" {
		q = q.Where("active = ?", false)
	}

	var products []models.BarberProduct
	if err := q.
		Order("id ASC").
		Find(&products).Error; err != nil {

		httperr.Internal(c, "failed_to_list_products", "Erro ao listar produtos.")
		return
	}

	c.JSON(http.StatusOK, products)
}

func (h *BarberProductHandler) Create(c *gin.Context) {
	shopID, ok := uintParam(c, "shopId")
	if !ok {
		httperr.BadRequest(c, "invalid_shop_id", "Barbearia inválida.")
		return
	}

	var req CreateBarberProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if !h.durationOnGrid(req.DurationMin) {
		httperr.BadRequest(c, "invalid_duration", "Duração precisa ser múltiplo do passo da grade.")
		return
	}

	product := models.BarberProduct{
		BarbershopID: shopID,
		Name:         req.Name,
		Description:  req.Description,
		DurationMin:  req.DurationMin,
		Price:        req.Price,
		Active:       true,
		Category:     strings.ToLower(req.Category),
	}

	if err := h.db.Create(&product).Error; err != nil {
		httperr.Internal(c, "failed_to_create_product", "Erro ao criar produto.")
		return
	}

	c.JSON(http.StatusCreated, product)
}

func (h *BarberProductHandler) Update(c *gin.Context) {
	shopID, ok := uintParam(c, "shopId")
	if !ok {
		httperr.BadRequest(c, "invalid_shop_id", "Barbearia inválida.")
		return
	}

	id := c.Param("id")

	var product models.BarberProduct
	if err := h.db.
		Where("id = ? AND barbershop_id = ?", id, shopID).
		First(&product).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "product_not_found", "Produto não encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_product", "Erro ao buscar produto.")
		return
	}

	var req UpdateBarberProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.DurationMin != nil && !h.durationOnGrid(*req.DurationMin) {
		httperr.BadRequest(c, "invalid_duration", "Duração precisa ser múltiplo do passo da grade.")
		return
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.DurationMin != nil {
		product.DurationMin = *req.DurationMin
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := h.db.Save(&product).Error; err != nil {
		httperr.Internal(c, "failed_to_update_product", "Erro ao atualizar produto.")
		return
	}

	c.JSON(http.StatusOK, product)
}
