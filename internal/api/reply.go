package api

import (
	"context"
	"errors"
	"io"
	"iter"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	apierrors "github.com/diogo/llmchat/internal/errors"
	"github.com/diogo/llmchat/internal/models"
)

// ReplyRequest is everything needed to ask for one assistant reply
type ReplyRequest struct {
	Model        models.ModelID
	SystemPrompt string
	History      []models.Turn // prior transcript, without the new user turn
	Message      string
	ExchangeID   string // only used for log correlation
}

// Replier produces streamed assistant replies
type Replier interface {
	Reply(ctx context.Context, req ReplyRequest) iter.Seq2[string, error]
}

var _ Replier = (*Client)(nil)

// BuildMessages returns [system, history..., user]
func BuildMessages(systemPrompt string, history []models.Turn, message string) []models.Turn {
	turns := make([]models.Turn, 0, len(history)+2)
	turns = append(turns, models.SystemTurn(systemPrompt))
	turns = append(turns, history...)
	turns = append(turns, models.UserTurn(message))
	return turns
}

// BuildRequest converts a ReplyRequest into the streamed completion request
func BuildRequest(req ReplyRequest) openai.ChatCompletionRequest {
	turns := BuildMessages(req.SystemPrompt, req.History, req.Message)
	messages := make([]openai.ChatCompletionMessage, len(turns))
	for i, t := range turns {
		messages[i] = openai.ChatCompletionMessage{
			Role:    string(t.Role),
			Content: t.Content,
		}
	}

	return openai.ChatCompletionRequest{
		Model:    string(req.Model),
		Messages: messages,
		Stream:   true,
	}
}

// Reply streams the assistant's answer to req. Each value is the full reply
// accumulated so far, not the raw delta; chunks without text produce nothing.
//
// The sequence ends when the service signals completion. Ranging over it
// again sends a new request. A failure is yielded once as ("", err) and ends
// the sequence; a failure after the stream opened is a *errors.StreamError
// carrying the text received before it. Breaking out of the range closes the
// underlying stream.
func (c *Client) Reply(ctx context.Context, req ReplyRequest) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		log := c.logger.With(
			zap.String("exchange_id", req.ExchangeID),
			zap.String("model", string(req.Model)),
		)
		start := time.Now()

		stream, err := c.streamer.OpenStream(ctx, BuildRequest(req))
		if err != nil {
			err = apierrors.FromProvider(c.endpoint, err)
			log.Error("failed to open completion stream", zap.Error(err))
			yield("", err)
			return
		}
		defer func() { _ = stream.Close() }()

		log.Debug("completion stream opened", zap.Int("history_turns", len(req.History)))

		var acc Accumulator
		for {
			chunk, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				log.Info("completion finished",
					zap.Int("chunks", acc.Chunks()),
					zap.Int("chars", acc.Len()),
					zap.Duration("elapsed", time.Since(start)),
				)
				return
			}
			if err != nil {
				streamErr := &apierrors.StreamError{
					Partial: acc.Text(),
					Err:     apierrors.FromProvider(c.endpoint, err),
				}
				log.Error("completion stream failed", zap.Error(streamErr), zap.Int("chunks", acc.Chunks()))
				yield("", streamErr)
				return
			}

			text, ok := acc.Add(ChunkText(chunk))
			if !ok {
				continue
			}
			if !yield(text, nil) {
				log.Debug("completion abandoned", zap.Int("chunks", acc.Chunks()))
				return
			}
		}
	}
}

// ChunkText returns the text fragment of the first choice, or "" when the
// chunk carries none.
func ChunkText(chunk openai.ChatCompletionStreamResponse) string {
	if len(chunk.Choices) == 0 {
		return ""
	}
	return chunk.Choices[0].Delta.Content
}

// Accumulator rebuilds the reply text from streamed deltas
type Accumulator struct {
	buf    strings.Builder
	chunks int
}

// Add appends delta and returns the accumulated text. It reports false and
// leaves the buffer untouched when delta is empty.
func (a *Accumulator) Add(delta string) (string, bool) {
	if delta == "" {
		return "", false
	}
	a.buf.WriteString(delta)
	a.chunks++
	return a.buf.String(), true
}

// Text returns the accumulated reply
func (a *Accumulator) Text() string {
	return a.buf.String()
}

// Len returns the accumulated reply length in bytes
func (a *Accumulator) Len() int {
	return a.buf.Len()
}

// Chunks returns how many text-bearing chunks were added
func (a *Accumulator) Chunks() int {
	return a.chunks
}
