// Package pipeline sequences the Extract → Transform → Load phases and owns
// the run's failure semantics: phases run strictly in order, the first
// unrecovered error halts the rest, and every fatal error is attributed to
// its phase in the run summary.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/HebaAhmedDahab/employee-data-pipeline/internal/dto"
)

// Pinger is the pre-flight connectivity check against the source system.
// Failure aborts the run before any phase is attempted.
type Pinger interface {
	Ping(ctx context.Context) error
}

// EventPublisher surfaces run progress to an external sink. Publish failures
// are advisory and never fail the run.
type EventPublisher interface {
	PublishPhase(ctx context.Context, runID uuid.UUID, phase string, phaseErr error) error
	PublishSummary(ctx context.Context, summary dto.RunSummary) error
}

// Phase is one orchestrated pipeline step.
type Phase struct {
	Name string
	Run  func(ctx context.Context) error
}

type Deps struct {
	Name      string
	Pinger    Pinger
	Phases    []Phase
	Publisher EventPublisher
	Clock     func() time.Time
}

type Pipeline struct {
	name      string
	pinger    Pinger
	phases    []Phase
	publisher EventPublisher
	clock     func() time.Time
	log       zerolog.Logger
}

func New(deps Deps, log zerolog.Logger) *Pipeline {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Pipeline{
		name:      deps.Name,
		pinger:    deps.Pinger,
		phases:    deps.Phases,
		publisher: deps.Publisher,
		clock:     clock,
		log:       log.With().Str("component", "pipeline").Str("pipeline", deps.Name).Logger(),
	}
}

// Run executes the pipeline end to end and always returns a summary, even
// when the run fails before the first phase.
func (p *Pipeline) Run(ctx context.Context) dto.RunSummary {
	summary := dto.RunSummary{
		PipelineName: p.name,
		RunID:        uuid.New(),
		Status:       dto.StatusRunning,
		StartTime:    p.clock(),
	}

	log := p.log.With().Str("run_id", summary.RunID.String()).Logger()
	log.Info().Time("start_time", summary.StartTime).Msg("starting pipeline")

	if err := p.preflight(ctx, log); err != nil {
		summary.Status = dto.StatusFailed
		summary.Errors = append(summary.Errors, dto.PhaseError{
			Phase:   "Preflight",
			Message: err.Error(),
		})
		p.finish(ctx, &summary, log)
		return summary
	}

	for _, phase := range p.phases {
		log.Info().Str("phase", phase.Name).Msg("phase started")

		err := phase.Run(ctx)
		p.publishPhase(ctx, summary.RunID, phase.Name, err, log)

		if err != nil {
			log.Error().Err(err).Str("phase", phase.Name).Msg("phase failed")
			summary.Status = dto.StatusFailed
			summary.Errors = append(summary.Errors, dto.PhaseError{
				Phase:   phase.Name,
				Message: err.Error(),
			})
			break
		}

		log.Info().Str("phase", phase.Name).Msg("phase completed")
	}

	if summary.Status != dto.StatusFailed {
		summary.Status = dto.StatusCompleted
	}

	p.finish(ctx, &summary, log)
	return summary
}

func (p *Pipeline) preflight(ctx context.Context, log zerolog.Logger) error {
	if p.pinger == nil {
		return nil
	}

	log.Info().Msg("testing source connection")
	if err := p.pinger.Ping(ctx); err != nil {
		log.Error().Err(err).Msg("pipeline aborted: source connection failed")
		return err
	}

	log.Info().Msg("source connection successful")
	return nil
}

func (p *Pipeline) finish(ctx context.Context, summary *dto.RunSummary, log zerolog.Logger) {
	summary.EndTime = p.clock()
	summary.DurationSeconds = summary.EndTime.Sub(summary.StartTime).Seconds()

	p.printSummary(*summary, log)

	if p.publisher != nil {
		if err := p.publisher.PublishSummary(ctx, *summary); err != nil {
			log.Warn().Err(err).Msg("failed to publish run summary")
		}
	}
}

func (p *Pipeline) publishPhase(ctx context.Context, runID uuid.UUID, phase string, phaseErr error, log zerolog.Logger) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.PublishPhase(ctx, runID, phase, phaseErr); err != nil {
		log.Warn().Err(err).Str("phase", phase).Msg("failed to publish phase event")
	}
}

func (p *Pipeline) printSummary(summary dto.RunSummary, log zerolog.Logger) {
	event := log.Info()
	if summary.Status == dto.StatusFailed {
		event = log.Error()
	}

	event.
		Str("status", string(summary.Status)).
		Time("start_time", summary.StartTime).
		Time("end_time", summary.EndTime).
		Float64("duration_seconds", summary.DurationSeconds).
		Int("errors", len(summary.Errors)).
		Msg("pipeline execution summary")

	for _, pe := range summary.Errors {
		log.Error().Str("phase", pe.Phase).Msg(pe.Message)
	}
}
