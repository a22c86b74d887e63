package workflow

import (
	"errors"
	"strings"
)

// Режим подписи клиента: нарисованная (data URI с канваса) или текстовая (ФИО).
type SignatureMode string

const (
	SignatureDrawn SignatureMode = "drawn"
	SignatureTyped SignatureMode = "typed"
)

var (
	ErrEmptySignature = errors.New("подпись не может быть пустой")
	ErrBadMode        = errors.New("неизвестный режим подписи")
	ErrEmptyNotes     = errors.New("комментарий обязателен при отклонении")
)

type Signature struct {
	Mode    SignatureMode
	Payload string
}

// NewSignature учитывает только содержимое активного режима:
// при переключении режима ввод второго режима отбрасывается.
// Пустой канвас и пустой текст равнозначны отсутствию подписи.
func NewSignature(mode SignatureMode, drawn, typed string) (Signature, error) {
	switch mode {
	case SignatureDrawn:
		if strings.TrimSpace(drawn) == "" {
			return Signature{}, ErrEmptySignature
		}
		return Signature{Mode: SignatureDrawn, Payload: drawn}, nil
	case SignatureTyped:
		typed = strings.TrimSpace(typed)
		if typed == "" {
			return Signature{}, ErrEmptySignature
		}
		return Signature{Mode: SignatureTyped, Payload: typed}, nil
	default:
		return Signature{}, ErrBadMode
	}
}

// ValidateRejection — комментарий руководителя обязателен в обоих
// процессах (и для смет, и для счетов).
func ValidateRejection(notes string) error {
	if strings.TrimSpace(notes) == "" {
		return ErrEmptyNotes
	}
	return nil
}
