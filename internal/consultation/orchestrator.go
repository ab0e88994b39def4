// Package consultation turns free text into a legal process consultation:
// it extracts an identifier, starts a search on the Web Justice API, polls it
// to completion and fetches the results.
package consultation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nexconsult/justice-tools/internal/identifier"
	logging "github.com/nexconsult/justice-tools/internal/logger"
	"github.com/nexconsult/justice-tools/internal/polling"
	"github.com/nexconsult/justice-tools/internal/webjustice"
)

// ErrClientInit wraps failures to obtain a usable API client.
var ErrClientInit = errors.New("failed to initialize API client")

// Collaborator is the part of the Web Justice API a consultation needs.
type Collaborator interface {
	InitiateSearch(ctx context.Context, document string, searchType webjustice.SearchType) (*webjustice.InitiateResponse, error)
	GetSearchStatus(ctx context.Context, jobID string) (*webjustice.SearchStatus, error)
	GetProcesses(ctx context.Context, identifier string) (*webjustice.ResultSet, error)
	Close() error
}

// Authenticator is implemented by collaborators that can verify their
// credentials up front.
type Authenticator interface {
	TestAuthentication(ctx context.Context) error
}

// Dialer opens a collaborator for a single consultation. The orchestrator
// closes it when the consultation ends.
type Dialer func(ctx context.Context) (Collaborator, error)

// ClientDialer dials Web Justice API clients.
func ClientDialer(cfg webjustice.Config, logger logrus.FieldLogger, opts ...webjustice.Option) Dialer {
	return func(context.Context) (Collaborator, error) {
		client, err := webjustice.New(cfg, logger, opts...)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// StatusHook observes every status check made while polling.
type StatusHook func(status *webjustice.SearchStatus, err error)

// Orchestrator runs consultations. It holds no per-call state and is safe
// for concurrent use.
type Orchestrator struct {
	dial       Dialer
	poller     *polling.Poller
	logger     logrus.FieldLogger
	verifyAuth bool
	statusHook StatusHook
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithAuthCheck makes every consultation verify the API key before starting
// the search.
func WithAuthCheck(enabled bool) Option {
	return func(o *Orchestrator) {
		o.verifyAuth = enabled
	}
}

// WithStatusHook registers a StatusHook.
func WithStatusHook(hook StatusHook) Option {
	return func(o *Orchestrator) {
		o.statusHook = hook
	}
}

// New creates an Orchestrator.
func New(dial Dialer, poller *polling.Poller, logger logrus.FieldLogger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = logging.Discard()
	}

	o := &Orchestrator{
		dial:   dial,
		poller: poller,
		logger: logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Consult extracts the first identifier of kind from text and consults it.
// It always returns a Result; failures are reported in Result.Error.
func (o *Orchestrator) Consult(ctx context.Context, text string, kind identifier.Kind) *Result {
	o.logger.WithFields(logrus.Fields{
		"kind":  kind.String(),
		"input": preview(text),
	}).Info("Processing consultation request")

	id, ok := identifier.ExtractFirst(text, kind)
	if !ok {
		o.logger.WithField("kind", kind.String()).Warn("No identifier found in input")
		return NoIdentifier(kind)
	}

	return o.ConsultIdentifier(ctx, id)
}

// ConsultIdentifier consults an already extracted identifier.
func (o *Orchestrator) ConsultIdentifier(ctx context.Context, id identifier.Identifier) (result *Result) {
	tool := ToolFor(id.Kind)
	logger := o.logger.WithFields(logrus.Fields{
		"tool":       tool,
		"identifier": id.Formatted,
	})

	defer func() {
		if r := recover(); r != nil {
			logger.WithField("panic", r).Error("Unexpected panic during consultation")
			result = ErrorResult(tool, CodeUnexpected, fmt.Sprintf("An unexpected error occurred: %v", r))
		}
	}()

	start := time.Now()
	result, err := o.run(ctx, logger, id)
	if err != nil {
		code, message := classify(err)
		logger.WithError(err).WithField("code", code).Error("Consultation failed")
		return ErrorResult(tool, code, message)
	}

	logger.WithFields(logrus.Fields{
		"status":   result.Status,
		"duration": time.Since(start).String(),
	}).Info("Consultation finished")
	return result
}

func (o *Orchestrator) run(ctx context.Context, logger logrus.FieldLogger, id identifier.Identifier) (*Result, error) {
	collab, err := o.open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := collab.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close API client")
		}
	}()

	target, searchType := searchTarget(id)

	initiated, err := collab.InitiateSearch(ctx, target, searchType)
	if err != nil {
		return nil, fmt.Errorf("failed to initiate search: %w", err)
	}
	if initiated == nil || initiated.JobID == "" {
		logger.Warn("Search initiated without a job id")
		return ErrorResult(ToolFor(id.Kind), CodeInitiationFailed, "Failed to initiate search - no job ID returned"), nil
	}

	jobID := string(initiated.JobID)
	logger = logger.WithField("job_id", jobID)

	check := func(ctx context.Context) (*webjustice.SearchStatus, error) {
		status, err := collab.GetSearchStatus(ctx, jobID)
		if o.statusHook != nil {
			o.statusHook(status, err)
		}
		return status, err
	}
	ready := func(status *webjustice.SearchStatus) bool {
		return status != nil && status.IsReadyForConsultation
	}
	progress := ProgressLogger(logger, fmt.Sprintf("%s %s search", kindLabel(id.Kind), id.Formatted))

	if _, err := polling.PollUntilComplete(ctx, o.poller, check, ready, progress); err != nil {
		if errors.Is(err, polling.ErrTimeout) {
			return nil, fmt.Errorf("search timed out: %w", err)
		}
		return nil, fmt.Errorf("error during polling: %w", err)
	}

	results, err := collab.GetProcesses(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve results: %w", err)
	}

	return successResult(id, searchType, initiated, results), nil
}

// open dials a collaborator and, when enabled, verifies its credentials.
func (o *Orchestrator) open(ctx context.Context) (Collaborator, error) {
	collab, err := o.dial(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrClientInit, err)
	}

	if !o.verifyAuth {
		return collab, nil
	}

	auth, ok := collab.(Authenticator)
	if !ok {
		return collab, nil
	}
	if err := auth.TestAuthentication(ctx); err != nil {
		_ = collab.Close()
		if !errors.Is(err, webjustice.ErrAuthentication) {
			err = fmt.Errorf("%w: %w", webjustice.ErrAuthentication, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrClientInit, err)
	}
	return collab, nil
}

// classify maps an error to its code and user facing message. Failures the
// consultation knows how to describe are CONSULTATION_ERROR; anything else is
// UNEXPECTED_ERROR.
func classify(err error) (ErrorCode, string) {
	var (
		apiErr        *webjustice.APIError
		timeoutErr    *polling.TimeoutError
		validationErr *identifier.ValidationError
	)

	switch {
	case errors.As(err, &apiErr),
		errors.As(err, &timeoutErr),
		errors.As(err, &validationErr),
		errors.Is(err, webjustice.ErrAuthentication),
		errors.Is(err, ErrClientInit),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return CodeConsultation, err.Error()
	}
	return CodeUnexpected, "An unexpected error occurred: " + err.Error()
}

func kindLabel(kind identifier.Kind) string {
	if kind == identifier.KindCNJ {
		return "Process"
	}
	return kind.String()
}

func preview(text string) string {
	const limit = 100
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
