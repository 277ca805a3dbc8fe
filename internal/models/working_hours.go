package models

import "time"

// Formato legado de disponibilidade (janela início/fim + almoço por dia).
// Mantido apenas para leitura: quando um barbeiro não tem AvailabilitySlot
// o leitor expande estas janelas, e isso é sinal de divergência de dados
// entre o caminho de escrita e o de leitura (ver schedule.ExpandLegacyWindows).
type WorkingHours struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	BarberID uint `json:"barber_id"`

	Weekday int `json:"weekday"`

	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	LunchStart string `json:"lunch_start"`
	LunchEnd   string `json:"lunch_end"`
	Active     bool   `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
