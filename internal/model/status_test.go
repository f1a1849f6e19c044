package model

import "testing"

func TestTaskStatus_IsFinished(t *testing.T) {
	tests := []struct {
		status TaskStatus
		want   bool
	}{
		{TaskStatusDownloading, false},
		{TaskStatusCompleted, true},
		{TaskStatusError, true},
		{TaskStatus(""), false},
	}

	for _, tt := range tests {
		if got := tt.status.IsFinished(); got != tt.want {
			t.Errorf("%q.IsFinished() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestTaskStatus_MatchesStyleClasses(t *testing.T) {
	// the activity table styles rows with status-<value>
	for status, want := range map[TaskStatus]string{
		TaskStatusCompleted: "Completed",
		TaskStatusError:     "Error",
	} {
		if status.String() != want {
			t.Errorf("Expected %q, got %q", want, status.String())
		}
	}
}
