package workflow

import "fmt"

// Статусы согласования смет и счетов. Единый жизненный цикл
// для Quote и Invoice — процесс у них одинаковый.
type Status string

const (
	StatusPendingSupervisor Status = "pending_supervisor_approval"
	StatusPendingSignature  Status = "pending_client_signature"
	StatusApproved          Status = "approved"
	StatusRejected          Status = "rejected"
)

// таблица допустимых переходов; approved и rejected — терминальные
var transitions = map[Status][]Status{
	StatusPendingSupervisor: {StatusPendingSignature, StatusRejected},
	StatusPendingSignature:  {StatusApproved},
}

type ErrInvalidTransition struct {
	From Status
	To   Status
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("недопустимый переход статуса: %s -> %s", e.From, e.To)
}

func ValidStatus(s Status) bool {
	switch s {
	case StatusPendingSupervisor, StatusPendingSignature, StatusApproved, StatusRejected:
		return true
	}
	return false
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition проверяет переход по таблице. Любая запись статуса в БД
// должна проходить через эту проверку — произвольные строки не пишем.
func Transition(from, to Status) error {
	if !ValidStatus(from) || !ValidStatus(to) {
		return &ErrInvalidTransition{From: from, To: to}
	}
	if !CanTransition(from, to) {
		return &ErrInvalidTransition{From: from, To: to}
	}
	return nil
}
