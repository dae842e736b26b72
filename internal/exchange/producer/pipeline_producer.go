// Package producer publishes pipeline run events to Kafka so downstream
// teams can react to fresh gold materializations without polling the layer
// directories. The producer is optional: with no bootstrap configured all
// sends are no-ops.
package producer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/HebaAhmedDahab/employee-data-pipeline/internal/dto"
)

type PipelineProducer struct {
	sp     sarama.SyncProducer
	topic  string
	source string
	log    zerolog.Logger
}

type Config struct {
	TopicRuns string
	Source    string
}

func NewPipelineProducer(sp sarama.SyncProducer, cfg Config, log zerolog.Logger) *PipelineProducer {
	return &PipelineProducer{
		sp:     sp,
		topic:  cfg.TopicRuns,
		source: cfg.Source,
		log:    log.With().Str("component", "PipelineProducer").Logger(),
	}
}

func (p *PipelineProducer) Close() error {
	if p == nil || p.sp == nil {
		return nil
	}
	return p.sp.Close()
}

func (p *PipelineProducer) PublishPhase(ctx context.Context, runID uuid.UUID, phase string, phaseErr error) error {
	status := "completed"
	errMsg := ""
	if phaseErr != nil {
		status = "failed"
		errMsg = phaseErr.Error()
	}

	env := Envelope[PhasePayload]{
		Kind:      "phase",
		MessageID: uuid.New().String(),
		RunID:     runID.String(),
		Payload: PhasePayload{
			RunID:  runID.String(),
			Phase:  phase,
			Status: status,
			Error:  errMsg,
		},
		Timestamp: time.Now().UTC(),
		Source:    p.source,
	}

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal phase event: %w", err)
	}

	return p.send(ctx, runID.String(), body, map[string]string{
		"event-kind":   "phase",
		"source":       p.source,
		"content-type": "application/json",
	})
}

func (p *PipelineProducer) PublishSummary(ctx context.Context, summary dto.RunSummary) error {
	payload := SummaryPayload{
		PipelineName:    summary.PipelineName,
		RunID:           summary.RunID.String(),
		Status:          string(summary.Status),
		StartTime:       summary.StartTime.Format(time.RFC3339),
		EndTime:         summary.EndTime.Format(time.RFC3339),
		DurationSeconds: summary.DurationSeconds,
	}
	for _, pe := range summary.Errors {
		payload.Errors = append(payload.Errors, struct {
			Phase   string `json:"phase"`
			Message string `json:"message"`
		}{Phase: pe.Phase, Message: pe.Message})
	}

	env := Envelope[SummaryPayload]{
		Kind:      "summary",
		MessageID: uuid.New().String(),
		RunID:     summary.RunID.String(),
		Payload:   payload,
		Timestamp: time.Now().UTC(),
		Source:    p.source,
	}

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal run summary: %w", err)
	}

	return p.send(ctx, summary.RunID.String(), body, map[string]string{
		"event-kind":   "summary",
		"source":       p.source,
		"content-type": "application/json",
	})
}

func (p *PipelineProducer) send(_ context.Context, key string, value []byte, headers map[string]string) error {
	if p == nil || p.sp == nil {
		return errors.New("sync producer is not initialized")
	}

	var hs []sarama.RecordHeader
	for k, v := range headers {
		hs = append(hs, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}

	msg := &sarama.ProducerMessage{
		Topic:   p.topic,
		Key:     sarama.StringEncoder(key),
		Value:   sarama.ByteEncoder(value),
		Headers: hs,
	}

	part, off, err := p.sp.SendMessage(msg)
	if err != nil {
		p.log.Error().
			Err(err).
			Str("topic", p.topic).
			Str("key", key).
			Int("bytes", len(value)).
			Msg("failed to send kafka message")
		return fmt.Errorf("send kafka message: %w", err)
	}

	p.log.Info().
		Str("topic", p.topic).
		Str("key", key).
		Int32("partition", part).
		Int64("offset", off).
		Int("bytes", len(value)).
		Msg("kafka message sent")
	return nil
}
