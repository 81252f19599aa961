// Package session owns the conversation history of one chat session and drives
// each user turn through the completion endpoint.
package session

import (
	"context"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/longkey1/omnichat/internal/omnichat"
	"github.com/longkey1/omnichat/internal/omnichat/stream"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Assembler turns raw user text into message content.
type Assembler interface {
	Assemble(text string) []omnichat.ContentBlock
}

// Reply is the outcome of one completion.
type Reply struct {
	Text  string // Accumulated assistant text
	Usage string // Last usage object reported by the endpoint (raw JSON), may be empty
}

// Conversation appends user turns to a session, requests completions and
// commits the assistant replies. A turn either completes and adds exactly one
// user and one assistant message, or leaves the history as it was.
type Conversation struct {
	session      *Session
	systemPrompt string
	assembler    Assembler
	transport    omnichat.Transport
	logger       *zap.SugaredLogger
	includeUsage bool
	output       io.Writer
	onUsage      func(usage string)
}

// NewConversation creates a conversation with a fresh session.
func NewConversation(model, systemPrompt string, assembler Assembler, transport omnichat.Transport, logger *zap.SugaredLogger) *Conversation {
	return &Conversation{
		session:      NewSession(model, systemPrompt),
		systemPrompt: systemPrompt,
		assembler:    assembler,
		transport:    transport,
		logger:       logger,
		includeUsage: true,
		output:       io.Discard,
	}
}

// SetOutput sets the writer receiving assistant text as it arrives.
func (c *Conversation) SetOutput(w io.Writer) {
	c.output = w
}

// SetUsageHandler registers a callback for usage reports.
func (c *Conversation) SetUsageHandler(fn func(usage string)) {
	c.onUsage = fn
}

// SetIncludeUsage controls stream_options.include_usage on streaming requests.
func (c *Conversation) SetIncludeUsage(enabled bool) {
	c.includeUsage = enabled
}

// Session returns the current session.
func (c *Conversation) Session() *Session {
	return c.session
}

// History returns a copy of the message history.
func (c *Conversation) History() []omnichat.Message {
	return c.session.Messages()
}

// Reset replaces the session with a new one holding only the system message.
func (c *Conversation) Reset() {
	c.session = NewSession(c.session.Model, c.systemPrompt)
}

// SubmitUserTurn assembles raw and appends it as a user message. Whitespace-only
// input is not submitted and false is returned.
func (c *Conversation) SubmitUserTurn(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}
	c.session.AddMessage(omnichat.RoleUser, c.assembler.Assemble(raw))
	return true
}

// RequestCompletion posts the current history as a streaming request and
// returns the decoded event stream.
func (c *Conversation) RequestCompletion(ctx context.Context) (iter.Seq2[stream.Event, error], error) {
	req := omnichat.NewCompletionRequest(c.session.Model, c.session.Messages(), true, c.includeUsage)
	lines, err := c.transport.StreamCompletion(ctx, req)
	if err != nil {
		return nil, err
	}
	return stream.Decode(lines, c.logger), nil
}

// Consume folds events into the reply text. Each delta is written to the
// output as soon as it arrives; usage reports go to the diagnostic channel only.
func (c *Conversation) Consume(events iter.Seq2[stream.Event, error]) (Reply, error) {
	var reply Reply
	var text strings.Builder

	for ev, err := range events {
		if err != nil {
			return Reply{}, err
		}
		if delta, ok := ev.Delta(); ok {
			text.WriteString(delta)
			fmt.Fprint(c.output, delta)
		}
		if usage, ok := ev.Usage(); ok {
			reply.Usage = usage
			c.reportUsage(usage)
		}
	}

	reply.Text = text.String()
	return reply, nil
}

// Turn runs one complete streaming turn for raw user input.
func (c *Conversation) Turn(ctx context.Context, raw string) (Reply, error) {
	mark := c.session.MessageCount()
	if !c.SubmitUserTurn(raw) {
		return Reply{}, nil
	}

	events, err := c.RequestCompletion(ctx)
	if err != nil {
		c.session.truncate(mark)
		return Reply{}, fmt.Errorf("completion request failed: %w", err)
	}

	reply, err := c.Consume(events)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		c.session.truncate(mark)
		return Reply{}, fmt.Errorf("reading completion stream: %w", err)
	}

	return c.commit(mark, reply), nil
}

// CompleteTurn runs one turn with a non-streaming request. The whole reply is
// written to the output at once.
func (c *Conversation) CompleteTurn(ctx context.Context, raw string) (Reply, error) {
	mark := c.session.MessageCount()
	if !c.SubmitUserTurn(raw) {
		return Reply{}, nil
	}

	req := omnichat.NewCompletionRequest(c.session.Model, c.session.Messages(), false, c.includeUsage)
	body, err := c.transport.Complete(ctx, req)
	if err != nil {
		c.session.truncate(mark)
		return Reply{}, fmt.Errorf("completion request failed: %w", err)
	}

	var reply Reply
	if content := gjson.GetBytes(body, "choices.0.message.content"); content.Type == gjson.String {
		reply.Text = content.String()
		fmt.Fprint(c.output, reply.Text)
	}
	if usage := gjson.GetBytes(body, "usage"); usage.IsObject() {
		reply.Usage = usage.Raw
		c.reportUsage(usage.Raw)
	}

	return c.commit(mark, reply), nil
}

// commit appends the assistant reply, or rolls the turn back when the reply is empty.
func (c *Conversation) commit(mark int, reply Reply) Reply {
	if reply.Text == "" {
		c.logger.Warnw("Empty completion, turn discarded", "session", c.session.GetShortID())
		c.session.truncate(mark)
		return reply
	}
	c.session.AddMessage(omnichat.RoleAssistant, []omnichat.ContentBlock{omnichat.Text(reply.Text)})
	return reply
}

func (c *Conversation) reportUsage(usage string) {
	c.logger.Infow("Token usage", "session", c.session.GetShortID(), "usage", usage)
	if c.onUsage != nil {
		c.onUsage(usage)
	}
}
