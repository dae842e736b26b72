package producer

import "time"

type PhasePayload struct {
	RunID  string `json:"run_id"`
	Phase  string `json:"phase"`
	Status string `json:"status"` // completed | failed
	Error  string `json:"error,omitempty"`
}

type SummaryPayload struct {
	PipelineName    string  `json:"pipeline_name"`
	RunID           string  `json:"run_id"`
	Status          string  `json:"status"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	DurationSeconds float64 `json:"duration_seconds"`
	Errors          []struct {
		Phase   string `json:"phase"`
		Message string `json:"message"`
	} `json:"errors,omitempty"`
}

type Envelope[T any] struct {
	Kind      string    `json:"kind"` // phase | summary
	MessageID string    `json:"message_id"`
	RunID     string    `json:"run_id"`
	Payload   T         `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
}
