package commands

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/andrescamacho/wargame-go/internal/application/ingest"
	"github.com/andrescamacho/wargame-go/internal/application/mediator"
)

// GenerateScenario asks the generator to build (or resume) a scenario.
type GenerateScenario struct {
	ScenarioID string
	FromStep   string
}

// IngestDocument runs the three-stage ingest pipeline over raw text.
type IngestDocument struct {
	ScenarioID string
	Text       string
	SourceHint string
}

// ScenarioGenerator is the generator surface the command layer wraps.
type ScenarioGenerator interface {
	Generate(ctx context.Context, scenarioID, fromStep string) error
}

// DocumentIngester is the pipeline surface the command layer wraps.
type DocumentIngester interface {
	Ingest(ctx context.Context, scenarioID, rawText, sourceHint string) (*ingest.Result, error)
}

type generateHandler struct {
	generator ScenarioGenerator
}

func (h *generateHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(GenerateScenario)
	if !ok {
		return nil, fmt.Errorf("unexpected request type %T", request)
	}
	return nil, h.generator.Generate(ctx, cmd.ScenarioID, cmd.FromStep)
}

type ingestHandler struct {
	ingester DocumentIngester
}

func (h *ingestHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(IngestDocument)
	if !ok {
		return nil, fmt.Errorf("unexpected request type %T", request)
	}
	return h.ingester.Ingest(ctx, cmd.ScenarioID, cmd.Text, cmd.SourceHint)
}

// Register wires the command handlers into the mediator.
func Register(m mediator.Mediator, generator ScenarioGenerator, ingester DocumentIngester) error {
	if err := mediator.RegisterHandler[GenerateScenario](m, &generateHandler{generator: generator}); err != nil {
		return err
	}
	return mediator.RegisterHandler[IngestDocument](m, &ingestHandler{ingester: ingester})
}

// LoggingMiddleware logs every dispatched command with its duration.
func LoggingMiddleware(log *zap.Logger) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		start := time.Now()
		resp, err := next(ctx, request)
		fields := []zap.Field{
			zap.String("command", fmt.Sprintf("%T", request)),
			zap.Duration("duration", time.Since(start)),
		}
		if err != nil {
			log.Warn("command failed", append(fields, zap.Error(err))...)
		} else {
			log.Debug("command handled", fields...)
		}
		return resp, err
	}
}

// Dispatcher adapts mediator dispatch onto the narrow interfaces the HTTP
// surface consumes.
type Dispatcher struct {
	m mediator.Mediator
}

// NewDispatcher wraps a mediator.
func NewDispatcher(m mediator.Mediator) *Dispatcher {
	return &Dispatcher{m: m}
}

// Generate dispatches a GenerateScenario command.
func (d *Dispatcher) Generate(ctx context.Context, scenarioID, fromStep string) error {
	_, err := d.m.Send(ctx, GenerateScenario{ScenarioID: scenarioID, FromStep: fromStep})
	return err
}

// Ingest dispatches an IngestDocument command.
func (d *Dispatcher) Ingest(ctx context.Context, scenarioID, rawText, sourceHint string) (*ingest.Result, error) {
	resp, err := d.m.Send(ctx, IngestDocument{ScenarioID: scenarioID, Text: rawText, SourceHint: sourceHint})
	if err != nil {
		return nil, err
	}
	result, ok := resp.(*ingest.Result)
	if !ok {
		return nil, fmt.Errorf("unexpected response type %T", resp)
	}
	return result, nil
}
