package producer_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/HebaAhmedDahab/employee-data-pipeline/internal/dto"
	"github.com/HebaAhmedDahab/employee-data-pipeline/internal/exchange/producer"
)

func newProducer(t *testing.T) (*producer.PipelineProducer, *mocks.SyncProducer) {
	t.Helper()
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	sp := mocks.NewSyncProducer(t, cfg)

	p := producer.NewPipelineProducer(sp, producer.Config{
		TopicRuns: "hr.pipeline.runs",
		Source:    "employee-data-pipeline",
	}, zerolog.Nop())
	return p, sp
}

func TestPublishPhase(t *testing.T) {
	p, sp := newProducer(t)

	runID := uuid.New()
	sp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(body []byte) error {
		var env producer.Envelope[producer.PhasePayload]
		if err := json.Unmarshal(body, &env); err != nil {
			return err
		}
		require.Equal(t, "phase", env.Kind)
		require.Equal(t, runID.String(), env.RunID)
		require.Equal(t, "Transform", env.Payload.Phase)
		require.Equal(t, "failed", env.Payload.Status)
		require.Equal(t, "silver write refused", env.Payload.Error)
		return nil
	})

	err := p.PublishPhase(context.Background(), runID, "Transform", errors.New("silver write refused"))
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestPublishSummary(t *testing.T) {
	p, sp := newProducer(t)

	summary := dto.RunSummary{
		PipelineName: "Employee Data Pipeline",
		RunID:        uuid.New(),
		Status:       dto.StatusCompleted,
		StartTime:    time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
		EndTime:      time.Date(2024, 1, 15, 9, 1, 30, 0, time.UTC),
	}

	sp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(body []byte) error {
		var env producer.Envelope[producer.SummaryPayload]
		if err := json.Unmarshal(body, &env); err != nil {
			return err
		}
		require.Equal(t, "summary", env.Kind)
		require.Equal(t, summary.RunID.String(), env.Payload.RunID)
		require.Equal(t, "Completed Successfully", env.Payload.Status)
		require.Empty(t, env.Payload.Errors)
		return nil
	})

	require.NoError(t, p.PublishSummary(context.Background(), summary))
	require.NoError(t, p.Close())
}

func TestPublishSurfacesBrokerErrors(t *testing.T) {
	p, sp := newProducer(t)

	sp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	err := p.PublishPhase(context.Background(), uuid.New(), "Extract", nil)
	require.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}

func TestNilProducerIsSafe(t *testing.T) {
	var p *producer.PipelineProducer
	require.NoError(t, p.Close())
}
