// Package chat runs one conversational turn: read the session transcript,
// fill the prompt, ask the model, record the exchange.
package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/antoniostano/chatbridge/internal/llm"
	"github.com/antoniostano/chatbridge/internal/observability"
	"github.com/antoniostano/chatbridge/internal/policy"
	"github.com/antoniostano/chatbridge/internal/prompt"
	"github.com/antoniostano/chatbridge/internal/reliability"
	"github.com/antoniostano/chatbridge/internal/session"
)

// ErrorReplyPrefix starts the reply sent back when the model call fails.
const ErrorReplyPrefix = "LLM error: "

// Turn outcomes reported as metric labels.
const (
	OutcomeOK       = "ok"
	OutcomeLLMError = "llm_error"
)

type Service struct {
	store    session.Store
	template prompt.Template
	client   llm.Client
	metrics  *observability.Metrics
	logger   zerolog.Logger
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func NewService(store session.Store, tmpl prompt.Template, client llm.Client, opts ...Option) *Service {
	s := &Service{
		store:    store,
		template: tmpl,
		client:   client,
		logger:   zerolog.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Model reports the model answering turns.
func (s *Service) Model() string {
	return s.client.Model()
}

// Reply answers message within session id. A model failure is not an error:
// the reply carries the failure text, with credentials masked, and is
// recorded like any other turn. Only store failures are returned.
func (s *Service) Reply(ctx context.Context, id, message string) (string, error) {
	turnID := uuid.NewString()
	log := s.logger.With().
		Str("session_id", id).
		Str("turn_id", turnID).
		Str("provider", s.client.Name()).
		Logger()

	// The turn completes and is recorded even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	history, err := s.store.Context(ctx, id)
	if err != nil {
		return "", fmt.Errorf("load session context: %w", err)
	}

	started := s.now()
	res, err := s.client.Complete(ctx, s.template.Format(history, message))
	elapsed := s.now().Sub(started)
	if s.metrics != nil {
		s.metrics.ObserveLLMLatency(s.client.Name(), elapsed)
	}

	outcome := OutcomeOK
	var reply string
	if err != nil {
		outcome = OutcomeLLMError
		detail := policy.RedactSecrets(err.Error())
		reply = ErrorReplyPrefix + detail

		status, _ := llm.StatusCode(err)
		class := reliability.ClassifyError(err, status)
		log.Error().
			Str("error", detail).
			Str("class", class).
			Int("status", status).
			Bool("retryable", reliability.IsRetryableHTTPStatus(status)).
			Dur("elapsed", elapsed).
			Msg("llm call failed")
		if s.metrics != nil {
			s.metrics.ProviderErrors.WithLabelValues(s.client.Name(), class).Inc()
		}
	} else {
		reply = res.Reply()
	}

	created, err := s.store.Update(ctx, id, message, reply)
	if err != nil {
		return "", fmt.Errorf("update session: %w", err)
	}

	if s.metrics != nil {
		s.metrics.ChatTurns.WithLabelValues(outcome).Inc()
		if created {
			s.metrics.SessionEvents.WithLabelValues("created").Inc()
		}
		s.metrics.ActiveSessions.Set(float64(s.store.Len()))
	}
	log.Debug().
		Str("outcome", outcome).
		Dur("elapsed", elapsed).
		Str("message", policy.Preview(message, 80)).
		Int("reply_len", len(reply)).
		Msg("turn complete")
	return reply, nil
}

// Reset forgets session id. Unknown ids are not an error.
func (s *Service) Reset(ctx context.Context, id string) error {
	if err := s.store.Reset(ctx, id); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	if s.metrics != nil {
		s.metrics.SessionEvents.WithLabelValues("reset").Inc()
		s.metrics.ActiveSessions.Set(float64(s.store.Len()))
	}
	s.logger.Debug().Str("session_id", id).Msg("session reset")
	return nil
}
