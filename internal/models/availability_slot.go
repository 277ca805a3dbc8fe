package models

import "time"

// Representação canônica de disponibilidade: um horário de início explícito
// ("HH:MM", alinhado à grade) por dia da semana. Substituída em bloco
// (delete-all-then-insert) quando o barbeiro edita a agenda semanal.
type AvailabilitySlot struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	BarberID uint `gorm:"index:idx_availability_slots_barber_weekday" json:"barber_id"`

	// 0–6, domingo = 0 (mesma convenção de time.Weekday)
	Weekday int `gorm:"index:idx_availability_slots_barber_weekday" json:"weekday"`

	StartTime string `gorm:"size:5;not null" json:"start_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
