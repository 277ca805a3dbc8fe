package httperr

import "errors"

// BusinessError é resultado esperado de regra de negócio (horário tomado,
// duração inválida, estado inválido), nunca tratado como falha de sistema.
type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// CodeSlotTaken marca conflito de reserva: o chamador deve reconsultar a
// disponibilidade e deixar o usuário escolher de novo.
const CodeSlotTaken = "slot_taken"

func ErrSlotTaken() error {
	return BusinessError{Code: CodeSlotTaken}
}

func IsSlotTaken(err error) bool {
	return IsBusiness(err, CodeSlotTaken)
}
