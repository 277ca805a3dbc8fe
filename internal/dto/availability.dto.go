package dto

// Um horário agendável, já formatado para o cliente.
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}
