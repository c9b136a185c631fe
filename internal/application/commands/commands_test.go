package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/andrescamacho/wargame-go/internal/application/commands"
	"github.com/andrescamacho/wargame-go/internal/application/ingest"
	"github.com/andrescamacho/wargame-go/internal/application/mediator"
)

type stubGenerator struct {
	scenarioID string
	fromStep   string
	err        error
}

func (g *stubGenerator) Generate(ctx context.Context, scenarioID, fromStep string) error {
	g.scenarioID = scenarioID
	g.fromStep = fromStep
	return g.err
}

type stubIngester struct {
	scenarioID string
	text       string
	sourceHint string
	result     *ingest.Result
	err        error
}

func (i *stubIngester) Ingest(ctx context.Context, scenarioID, rawText, sourceHint string) (*ingest.Result, error) {
	i.scenarioID = scenarioID
	i.text = rawText
	i.sourceHint = sourceHint
	return i.result, i.err
}

func newDispatcher(t *testing.T, gen *stubGenerator, ing *stubIngester) *commands.Dispatcher {
	t.Helper()
	m := mediator.New()
	require.NoError(t, commands.Register(m, gen, ing))
	return commands.NewDispatcher(m)
}

func TestDispatcher_Generate(t *testing.T) {
	gen := &stubGenerator{}
	d := newDispatcher(t, gen, &stubIngester{})

	err := d.Generate(context.Background(), "scn-1", "orbat")

	require.NoError(t, err)
	assert.Equal(t, "scn-1", gen.scenarioID)
	assert.Equal(t, "orbat", gen.fromStep)
}

func TestDispatcher_GeneratePropagatesError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("generation exploded")}
	d := newDispatcher(t, gen, &stubIngester{})

	err := d.Generate(context.Background(), "scn-1", "")

	assert.EqualError(t, err, "generation exploded")
}

func TestDispatcher_Ingest(t *testing.T) {
	ing := &stubIngester{result: &ingest.Result{
		IngestID:     "ing-1",
		DocumentType: "OPORD",
		Confidence:   0.88,
	}}
	d := newDispatcher(t, &stubGenerator{}, ing)

	result, err := d.Ingest(context.Background(), "scn-1", "OPORD 26-004", "opord")

	require.NoError(t, err)
	assert.Equal(t, "OPORD", result.DocumentType)
	assert.Equal(t, "scn-1", ing.scenarioID)
	assert.Equal(t, "OPORD 26-004", ing.text)
	assert.Equal(t, "opord", ing.sourceHint)
}

func TestDispatcher_IngestPropagatesError(t *testing.T) {
	ing := &stubIngester{err: errors.New("pipeline stalled")}
	d := newDispatcher(t, &stubGenerator{}, ing)

	result, err := d.Ingest(context.Background(), "scn-1", "text", "")

	assert.Nil(t, result)
	assert.EqualError(t, err, "pipeline stalled")
}

func TestRegister_RejectsDuplicateRegistration(t *testing.T) {
	m := mediator.New()
	require.NoError(t, commands.Register(m, &stubGenerator{}, &stubIngester{}))

	err := commands.Register(m, &stubGenerator{}, &stubIngester{})

	assert.Error(t, err)
}

func TestLoggingMiddleware_PassesThrough(t *testing.T) {
	gen := &stubGenerator{}
	m := mediator.New()
	require.NoError(t, commands.Register(m, gen, &stubIngester{}))
	m.RegisterMiddleware(commands.LoggingMiddleware(zap.NewNop()))
	d := commands.NewDispatcher(m)

	err := d.Generate(context.Background(), "scn-1", "")

	require.NoError(t, err)
	assert.Equal(t, "scn-1", gen.scenarioID)
}

func TestLoggingMiddleware_PreservesErrors(t *testing.T) {
	ing := &stubIngester{err: errors.New("bad input")}
	m := mediator.New()
	require.NoError(t, commands.Register(m, &stubGenerator{}, ing))
	m.RegisterMiddleware(commands.LoggingMiddleware(zap.NewNop()))
	d := commands.NewDispatcher(m)

	_, err := d.Ingest(context.Background(), "scn-1", "text", "")

	assert.EqualError(t, err, "bad input")
}
