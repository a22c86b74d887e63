package workflow

// Общие операции согласования. Quote и Invoice живут по одному
// процессу, поэтому логика одна, параметризованная статусом.

// Approve — руководитель одобрил документ, дальше подпись клиента.
// Корректировка суммы и комментарий — дело вызывающего, здесь только статус.
func Approve(current Status) (Status, error) {
	if err := Transition(current, StatusPendingSignature); err != nil {
		return current, err
	}
	return StatusPendingSignature, nil
}

// Reject — отклонение требует непустого комментария в обоих процессах.
func Reject(current Status, notes string) (Status, error) {
	if err := ValidateRejection(notes); err != nil {
		return current, err
	}
	if err := Transition(current, StatusRejected); err != nil {
		return current, err
	}
	return StatusRejected, nil
}

// Sign — подпись клиента переводит документ в терминальный approved.
func Sign(current Status, mode SignatureMode, drawn, typed string) (Status, Signature, error) {
	sig, err := NewSignature(mode, drawn, typed)
	if err != nil {
		return current, Signature{}, err
	}
	if err := Transition(current, StatusApproved); err != nil {
		return current, Signature{}, err
	}
	return StatusApproved, sig, nil
}
