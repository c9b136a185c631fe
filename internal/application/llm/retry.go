package llm

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/andrescamacho/wargame-go/internal/domain/shared"
)

// AttemptStatus is the audit taxonomy for LLM attempts.
type AttemptStatus string

const (
	StatusSuccess     AttemptStatus = "success"
	StatusPlaceholder AttemptStatus = "placeholder"
	StatusError       AttemptStatus = "error"
	StatusRetry       AttemptStatus = "retry"
)

// tokenEscalationStep widens the completion budget on every retry.
const tokenEscalationStep = 4000

// backoffBase is the first retry delay; attempt k waits backoffBase*2^k.
const backoffBase = 1000 * time.Millisecond

// AttemptLog is one audit row for a generation attempt.
type AttemptLog struct {
	ScenarioID   string
	Step         string
	Artifact     string
	Attempt      int
	Status       AttemptStatus
	Model        string
	TokenBudget  int
	OutputLength int
	PromptTokens int
	OutputTokens int
	DurationMs   int64
	Message      string
}

// AttemptLogger persists generation audit rows. Writes are best-effort;
// the retry loop never propagates logger failures.
type AttemptLogger interface {
	LogAttempt(ctx context.Context, entry *AttemptLog) error
}

// ArtifactResult is the terminal progress event for one artifact.
type ArtifactResult struct {
	Step         string        `json:"step"`
	Artifact     string        `json:"artifact"`
	Status       AttemptStatus `json:"status"`
	OutputLength int           `json:"outputLength"`
	Message      string        `json:"message,omitempty"`
}

// ResultBroadcaster publishes artifact results to the scenario room.
type ResultBroadcaster interface {
	BroadcastArtifactResult(scenarioID string, result ArtifactResult)
}

// RetryRequest parameterizes one retried generation call.
type RetryRequest struct {
	Model           string
	Messages        []Message
	MaxTokens       int
	ReasoningEffort string
	Schema          *JSONSchemaFormat
	MinOutputLength int
	// MaxRetries is the number of retries after the first attempt.
	// Negative means default (2).
	MaxRetries int
	ScenarioID string
	Step       string
	Artifact   string
}

// RetryResult is the final outcome across all attempts.
type RetryResult struct {
	Content      string
	Status       AttemptStatus
	PromptTokens int
	OutputTokens int
	DurationMs   int64
	Retries      int
}

// Retrier runs bounded-retry LLM calls with escalating token budgets,
// best-of-N content retention and per-attempt audit logging.
type Retrier struct {
	client      ChatClient
	logger      AttemptLogger
	broadcaster ResultBroadcaster
	clock       shared.Clock
	log         *zap.Logger
}

// NewRetrier creates a Retrier. A nil clock uses the real clock; logger
// and broadcaster may be nil (both are best-effort).
func NewRetrier(client ChatClient, logger AttemptLogger, broadcaster ResultBroadcaster, clock shared.Clock, log *zap.Logger) *Retrier {
	if clock == nil {
		clock = shared.NewWallClock()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Retrier{client: client, logger: logger, broadcaster: broadcaster, clock: clock, log: log}
}

// Call runs the request with up to 1+MaxRetries attempts. Attempt k gets
// a token budget of MaxTokens + 4000*k. Across attempts the longest
// content is retained as best; on exhaustion the result status is
// placeholder when best content is non-empty, error otherwise. Terminal
// statuses are logged once and broadcast; per-attempt retry logs are not
// broadcast.
func (r *Retrier) Call(ctx context.Context, req RetryRequest) (*RetryResult, error) {
	maxRetries := req.MaxRetries
	if maxRetries < 0 {
		maxRetries = 2
	}

	var (
		bestContent      string
		bestPromptTokens int
		bestOutputTokens int
		totalDurationMs  int64
		retries          int
	)

	for attempt := 0; attempt <= maxRetries; attempt++ {
		tokenBudget := req.MaxTokens + tokenEscalationStep*attempt
		started := r.clock.Now()

		result, err := r.client.Chat(ctx, ChatRequest{
			Model:           req.Model,
			Messages:        req.Messages,
			MaxTokens:       tokenBudget,
			ReasoningEffort: req.ReasoningEffort,
			Schema:          req.Schema,
		})
		attemptMs := r.clock.Now().Sub(started).Milliseconds()
		totalDurationMs += attemptMs

		if err != nil {
			r.log.Warn("llm attempt failed",
				zap.String("artifact", req.Artifact),
				zap.Int("attempt", attempt),
				zap.Error(err))
			r.logBestEffort(ctx, &AttemptLog{
				ScenarioID:  req.ScenarioID,
				Step:        req.Step,
				Artifact:    req.Artifact,
				Attempt:     attempt,
				Status:      StatusRetry,
				Model:       req.Model,
				TokenBudget: tokenBudget,
				DurationMs:  attemptMs,
				Message:     err.Error(),
			})
			if attempt < maxRetries {
				retries++
				r.clock.Sleep(backoffBase << attempt)
			}
			continue
		}

		if len(result.Content) > len(bestContent) {
			bestContent = result.Content
			bestPromptTokens = result.Usage.PromptTokens
			bestOutputTokens = result.Usage.CompletionTokens
		}

		if len(result.Content) >= req.MinOutputLength {
			r.logBestEffort(ctx, &AttemptLog{
				ScenarioID:   req.ScenarioID,
				Step:         req.Step,
				Artifact:     req.Artifact,
				Attempt:      attempt,
				Status:       StatusSuccess,
				Model:        req.Model,
				TokenBudget:  tokenBudget,
				OutputLength: len(result.Content),
				PromptTokens: result.Usage.PromptTokens,
				OutputTokens: result.Usage.CompletionTokens,
				DurationMs:   totalDurationMs,
			})
			r.broadcast(req, StatusSuccess, len(result.Content), "")
			return &RetryResult{
				Content:      result.Content,
				Status:       StatusSuccess,
				PromptTokens: result.Usage.PromptTokens,
				OutputTokens: result.Usage.CompletionTokens,
				DurationMs:   totalDurationMs,
				Retries:      retries,
			}, nil
		}

		// Too short: escalate and retry.
		r.logBestEffort(ctx, &AttemptLog{
			ScenarioID:   req.ScenarioID,
			Step:         req.Step,
			Artifact:     req.Artifact,
			Attempt:      attempt,
			Status:       StatusRetry,
			Model:        req.Model,
			TokenBudget:  tokenBudget,
			OutputLength: len(result.Content),
			DurationMs:   attemptMs,
			Message:      "output below minimum length",
		})
		if attempt < maxRetries {
			retries++
			r.clock.Sleep(backoffBase << attempt)
		}
	}

	status := StatusError
	message := "all attempts failed"
	if bestContent != "" {
		status = StatusPlaceholder
		message = "best attempt below minimum length"
	}
	r.logBestEffort(ctx, &AttemptLog{
		ScenarioID:   req.ScenarioID,
		Step:         req.Step,
		Artifact:     req.Artifact,
		Attempt:      maxRetries,
		Status:       status,
		Model:        req.Model,
		TokenBudget:  req.MaxTokens + tokenEscalationStep*maxRetries,
		OutputLength: len(bestContent),
		PromptTokens: bestPromptTokens,
		OutputTokens: bestOutputTokens,
		DurationMs:   totalDurationMs,
		Message:      message,
	})
	r.broadcast(req, status, len(bestContent), message)

	return &RetryResult{
		Content:      bestContent,
		Status:       status,
		PromptTokens: bestPromptTokens,
		OutputTokens: bestOutputTokens,
		DurationMs:   totalDurationMs,
		Retries:      retries,
	}, nil
}

func (r *Retrier) logBestEffort(ctx context.Context, entry *AttemptLog) {
	if r.logger == nil {
		return
	}
	if err := r.logger.LogAttempt(ctx, entry); err != nil {
		r.log.Warn("generation log write failed", zap.Error(err))
	}
}

func (r *Retrier) broadcast(req RetryRequest, status AttemptStatus, outputLength int, message string) {
	if r.broadcaster == nil {
		return
	}
	r.broadcaster.BroadcastArtifactResult(req.ScenarioID, ArtifactResult{
		Step:         req.Step,
		Artifact:     req.Artifact,
		Status:       status,
		OutputLength: outputLength,
		Message:      message,
	})
}
