package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/agenda-engine/internal/models"
	"github.com/BruksfildServices01/agenda-engine/internal/timezone"
)

// --------------------------------------------------
// Timezone centralizado por barbearia
// --------------------------------------------------

func locationFromShop(shop *models.Barbershop) *time.Location {
	if shop != nil {
		return timezone.Location(shop.Timezone)
	}
	return timezone.Location("")
}

func parseDateInShop(shop *models.Barbershop, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		locationFromShop(shop),
	)
}

// --------------------------------------------------
// Params
// --------------------------------------------------

func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(v), true
}
