package dto

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusNotStarted Status = "Not Started"
	StatusRunning    Status = "Running"
	StatusCompleted  Status = "Completed Successfully"
	StatusFailed     Status = "Failed"
)

// PhaseError attributes a fatal error to the phase that raised it.
type PhaseError struct {
	Phase   string `json:"phase"`
	Message string `json:"message"`
}

// RunSummary is returned by the orchestrator after every run, successful or
// not. Errors are ordered by phase execution order.
type RunSummary struct {
	PipelineName    string       `json:"pipeline_name"`
	RunID           uuid.UUID    `json:"run_id"`
	Status          Status       `json:"status"`
	StartTime       time.Time    `json:"start_time"`
	EndTime         time.Time    `json:"end_time"`
	DurationSeconds float64      `json:"duration_seconds"`
	Errors          []PhaseError `json:"errors,omitempty"`
}

// ExitCode implements the process exit contract: 0 iff the run completed
// successfully.
func (s RunSummary) ExitCode() int {
	if s.Status == StatusCompleted {
		return 0
	}
	return 1
}
