// Package chat holds the state of one UI session: the transcript, the
// selected model and the selected system prompt.
package chat

import (
	"context"
	"iter"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/diogo/llmchat/internal/api"
	"github.com/diogo/llmchat/internal/config"
	apierrors "github.com/diogo/llmchat/internal/errors"
	"github.com/diogo/llmchat/internal/logging"
	"github.com/diogo/llmchat/internal/models"
)

// Session maintains conversation context across messages
type Session struct {
	catalog *config.Catalog
	replier api.Replier
	logger  *zap.Logger

	mu         sync.RWMutex // Protects transcript, model, prompt, generation
	transcript *models.Transcript
	model      models.ModelID
	prompt     string
	generation uint64 // bumped whenever the transcript is wiped
}

// Option configures a Session
type Option func(*Session)

// WithLogger sets the session logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// NewSession creates a session for model using the catalog's prompts.
// The session starts with an empty transcript and the model's first prompt.
func NewSession(catalog *config.Catalog, replier api.Replier, model models.ModelID, opts ...Option) (*Session, error) {
	prompt, err := catalog.FirstPrompt(model)
	if err != nil {
		return nil, err
	}

	s := &Session{
		catalog:    catalog,
		replier:    replier,
		transcript: models.NewTranscript(),
		model:      model,
		prompt:     prompt,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrNop(s.logger)

	return s, nil
}

// Models returns the models that can be selected
func (s *Session) Models() []models.ModelID {
	return s.catalog.Models()
}

// ModelDescription returns the catalog description of id
func (s *Session) ModelDescription(id models.ModelID) string {
	return s.catalog.Description(id)
}

// Model returns the selected model
func (s *Session) Model() models.ModelID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

// Prompt returns the selected system prompt
func (s *Session) Prompt() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prompt
}

// Prompts returns the prompt options of the selected model
func (s *Session) Prompts() []string {
	s.mu.RLock()
	model := s.model
	s.mu.RUnlock()

	prompts, _ := s.catalog.Prompts(model)
	return prompts
}

// PromptIndex returns the position of the selected prompt among the model's
// options
func (s *Session) PromptIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prompts, _ := s.catalog.Prompts(s.model)
	return slices.Index(prompts, s.prompt)
}

// Transcript returns a copy of the conversation so far
func (s *Session) Transcript() []models.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transcript.Turns()
}

// LastReply returns the most recent assistant reply
func (s *Session) LastReply() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transcript.LastAssistant()
}

// SelectModel switches to id. The transcript is cleared and the prompt is
// reset to the model's first option, even when id is already selected.
// An unknown model is rejected and leaves the session untouched.
func (s *Session) SelectModel(id models.ModelID) error {
	prompt, err := s.catalog.FirstPrompt(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	prev := s.model
	dropped := s.transcript.Len()
	s.model = id
	s.prompt = prompt
	s.transcript.Clear()
	s.generation++
	s.mu.Unlock()

	s.logger.Info("model selected",
		zap.String("model", string(id)),
		zap.String("previous", string(prev)),
		zap.Int("dropped_turns", dropped),
	)
	return nil
}

// SelectPrompt switches the system prompt. It must be one of the selected
// model's options. The transcript is kept.
func (s *Session) SelectPrompt(prompt string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prompts, err := s.catalog.Prompts(s.model)
	if err != nil {
		return err
	}
	idx := slices.Index(prompts, prompt)
	if idx < 0 {
		return apierrors.NewConfigError("", "prompt is not an option for model "+string(s.model), nil)
	}

	s.prompt = prompt
	s.logger.Info("prompt selected", zap.String("model", string(s.model)), zap.Int("index", idx))
	return nil
}

// SelectPromptIndex selects the i-th prompt option of the selected model
func (s *Session) SelectPromptIndex(i int) error {
	prompts := s.Prompts()
	if i < 0 || i >= len(prompts) {
		return apierrors.NewConfigError("", "prompt index out of range", nil)
	}
	return s.SelectPrompt(prompts[i])
}

// Clear drops the conversation but keeps the model and prompt
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript.Clear()
	s.generation++
}

// Send appends message and an empty assistant turn to the transcript and
// streams the reply. Every yielded value is the full reply so far, and it
// also becomes the content of the assistant turn. On failure the error is
// yielded once and the transcript keeps whatever text had arrived.
//
// Each range over the returned sequence is a new exchange.
func (s *Session) Send(ctx context.Context, message string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if strings.TrimSpace(message) == "" {
			yield("", apierrors.ErrEmptyMessage)
			return
		}

		s.mu.Lock()
		req := api.ReplyRequest{
			Model:        s.model,
			SystemPrompt: s.prompt,
			History:      s.transcript.Turns(),
			Message:      message,
			ExchangeID:   uuid.NewString(),
		}
		s.transcript.Append(models.UserTurn(message), models.AssistantTurn(""))
		gen := s.generation
		s.mu.Unlock()

		log := s.logger.With(zap.String("exchange_id", req.ExchangeID))
		log.Info("exchange started",
			zap.String("model", string(req.Model)),
			zap.Int("history_turns", len(req.History)),
		)

		for text, err := range s.replier.Reply(ctx, req) {
			if err != nil {
				log.Warn("exchange failed", zap.Error(err))
				yield("", err)
				return
			}

			s.mu.Lock()
			if s.generation == gen {
				s.transcript.SetLastContent(text)
			}
			s.mu.Unlock()

			if !yield(text, nil) {
				return
			}
		}
	}
}
