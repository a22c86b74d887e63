package workflow

import (
	"errors"
	"testing"
)

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		from Status
		to   Status
		ok   bool
	}{
		{StatusPendingSupervisor, StatusPendingSignature, true},
		{StatusPendingSupervisor, StatusRejected, true},
		{StatusPendingSignature, StatusApproved, true},

		{StatusPendingSupervisor, StatusApproved, false},
		{StatusPendingSignature, StatusRejected, false},
		{StatusPendingSignature, StatusPendingSupervisor, false},

		// терминальные статусы
		{StatusApproved, StatusPendingSupervisor, false},
		{StatusApproved, StatusPendingSignature, false},
		{StatusApproved, StatusRejected, false},
		{StatusRejected, StatusPendingSupervisor, false},
		{StatusRejected, StatusApproved, false},
	}

	for _, tc := range cases {
		err := Transition(tc.from, tc.to)
		if tc.ok && err != nil {
			t.Errorf("Transition(%s, %s) = %v, want nil", tc.from, tc.to, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("Transition(%s, %s) = nil, want error", tc.from, tc.to)
		}
	}
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
	if err := Transition("draft", StatusApproved); err == nil {
		t.Error("expected error for unknown source status")
	}

	var invalid *ErrInvalidTransition
	err := Transition(StatusApproved, StatusRejected)
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if invalid.From != StatusApproved || invalid.To != StatusRejected {
		t.Errorf("unexpected error fields: %+v", invalid)
	}
}

func TestApprove(t *testing.T) {
	status, err := Approve(StatusPendingSupervisor)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if status != StatusPendingSignature {
		t.Errorf("got %s, want %s", status, StatusPendingSignature)
	}

	if _, err := Approve(StatusApproved); err == nil {
		t.Error("expected error approving a terminal document")
	}
	if _, err := Approve(StatusRejected); err == nil {
		t.Error("expected error approving a rejected document")
	}
}

func TestRejectRequiresNotes(t *testing.T) {
	if _, err := Reject(StatusPendingSupervisor, ""); !errors.Is(err, ErrEmptyNotes) {
		t.Errorf("empty notes: got %v, want ErrEmptyNotes", err)
	}
	if _, err := Reject(StatusPendingSupervisor, "   "); !errors.Is(err, ErrEmptyNotes) {
		t.Errorf("blank notes: got %v, want ErrEmptyNotes", err)
	}

	status, err := Reject(StatusPendingSupervisor, "слишком дорого")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if status != StatusRejected {
		t.Errorf("got %s, want %s", status, StatusRejected)
	}

	// из rejected выхода нет
	if _, err := Reject(StatusRejected, "ещё раз"); err == nil {
		t.Error("expected error rejecting twice")
	}
}

func TestSign(t *testing.T) {
	status, sig, err := Sign(StatusPendingSignature, SignatureTyped, "", "Иванов И.И.")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if status != StatusApproved {
		t.Errorf("got %s, want %s", status, StatusApproved)
	}
	if sig.Mode != SignatureTyped || sig.Payload != "Иванов И.И." {
		t.Errorf("unexpected signature: %+v", sig)
	}

	// из pending_supervisor_approval подписать нельзя
	if _, _, err := Sign(StatusPendingSupervisor, SignatureTyped, "", "Иванов"); err == nil {
		t.Error("expected error signing before approval")
	}
	if _, _, err := Sign(StatusApproved, SignatureTyped, "", "Иванов"); err == nil {
		t.Error("expected error signing an approved document")
	}
}

func TestNewSignature(t *testing.T) {
	// пустой ввод в обоих режимах отклоняется
	if _, err := NewSignature(SignatureDrawn, "", "whatever"); !errors.Is(err, ErrEmptySignature) {
		t.Errorf("empty canvas: got %v, want ErrEmptySignature", err)
	}
	if _, err := NewSignature(SignatureTyped, "data:image/png;base64,xxx", "  "); !errors.Is(err, ErrEmptySignature) {
		t.Errorf("empty typed: got %v, want ErrEmptySignature", err)
	}

	// учитывается только активный режим
	sig, err := NewSignature(SignatureDrawn, "data:image/png;base64,abc", "Иванов")
	if err != nil {
		t.Fatalf("NewSignature(drawn): %v", err)
	}
	if sig.Mode != SignatureDrawn || sig.Payload != "data:image/png;base64,abc" {
		t.Errorf("unexpected signature: %+v", sig)
	}

	sig, err = NewSignature(SignatureTyped, "data:image/png;base64,abc", "  Иванов  ")
	if err != nil {
		t.Fatalf("NewSignature(typed): %v", err)
	}
	if sig.Payload != "Иванов" {
		t.Errorf("typed payload not trimmed: %q", sig.Payload)
	}

	if _, err := NewSignature("stamp", "x", "y"); !errors.Is(err, ErrBadMode) {
		t.Errorf("unknown mode: got %v, want ErrBadMode", err)
	}
}
