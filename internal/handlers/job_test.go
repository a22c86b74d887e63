package handlers

import (
	"testing"

	"fieldops/internal/models"
)

func TestCanChangeJobStatus(t *testing.T) {
	cases := []struct {
		role    models.UserRole
		current models.JobStatus
		next    models.JobStatus
		want    bool
	}{
		// терминальные статусы — выхода нет ни у кого
		{models.RoleAdmin, models.JobCompleted, models.JobInProgress, false},
		{models.RoleAdmin, models.JobCancelled, models.JobScheduled, false},
		{models.RoleSupervisor, models.JobCompleted, models.JobScheduled, false},

		// переход в тот же статус бессмыслен
		{models.RoleAdmin, models.JobScheduled, models.JobScheduled, false},

		// админ меняет всё остальное
		{models.RoleAdmin, models.JobScheduled, models.JobCancelled, true},
		{models.RoleAdmin, models.JobInProgress, models.JobScheduled, true},

		// руководитель: назад в scheduled только из in_progress
		{models.RoleSupervisor, models.JobScheduled, models.JobInProgress, true},
		{models.RoleSupervisor, models.JobInProgress, models.JobScheduled, true},
		{models.RoleSupervisor, models.JobScheduled, models.JobCancelled, true},

		// мастер идёт только вперёд по своей цепочке
		{models.RoleWorker, models.JobScheduled, models.JobInProgress, true},
		{models.RoleWorker, models.JobInProgress, models.JobCompleted, true},
		{models.RoleWorker, models.JobScheduled, models.JobCompleted, false},
		{models.RoleWorker, models.JobScheduled, models.JobCancelled, false},
		{models.RoleWorker, models.JobInProgress, models.JobScheduled, false},
	}

	for _, tc := range cases {
		got := canChangeJobStatus(tc.role, tc.current, tc.next)
		if got != tc.want {
			t.Errorf("canChangeJobStatus(%s, %s -> %s) = %v, want %v",
				tc.role, tc.current, tc.next, got, tc.want)
		}
	}
}
