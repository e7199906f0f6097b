// Package conversation runs the per-conversation command state machine of the dream bot.
package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/at-ishikawa/sonnik/internal/config"
	"github.com/at-ishikawa/sonnik/internal/interpretation"
	"github.com/at-ishikawa/sonnik/internal/report"
)

//go:generate mockgen -source=dispatcher.go -destination=../mocks/conversation/mock_dispatcher.go -package=mock_conversation

type State int

const (
	StateIdle State = iota
	StateAwaitingDream
	StateAwaitingSymbol
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingDream:
		return "awaiting_dream"
	case StateAwaitingSymbol:
		return "awaiting_symbol"
	}
	return "unknown"
}

const statsTopTerms = 3

// Message is one inbound chat message.
type Message struct {
	ConversationID string
	RequesterID    int64
	FirstName      string
	Text           string
}

type ReportBuilder interface {
	Build(ctx context.Context, text string, requesterID int64) (report.Report, error)
}

type SymbolResolver interface {
	Resolve(ctx context.Context, requesterID int64, term string) (interpretation.Result, error)
}

type StatsReader interface {
	Stats(ctx context.Context, topTerms int) (interpretation.Stats, error)
}

type session struct {
	// lock admits one message at a time
	lock  chan struct{}
	refs  int
	state State
	since time.Time
}

// Dispatcher routes messages to commands according to the state of their conversation.
// Messages of one conversation are handled one at a time; different conversations run concurrently.
type Dispatcher struct {
	builder     ReportBuilder
	resolver    SymbolResolver
	stats       StatsReader
	idleTimeout time.Duration
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

func NewDispatcher(builder ReportBuilder, resolver SymbolResolver, stats StatsReader, cfg config.ConversationConfig) *Dispatcher {
	return &Dispatcher{
		builder:     builder,
		resolver:    resolver,
		stats:       stats,
		idleTimeout: cfg.IdleTimeout,
		now:         time.Now,
		sessions:    make(map[string]*session),
	}
}

// Handle returns the reply to msg. It only fails when ctx ends while waiting for
// an earlier message of the same conversation.
func (d *Dispatcher) Handle(ctx context.Context, msg Message) (string, error) {
	s, err := d.acquire(ctx, msg.ConversationID)
	if err != nil {
		return "", fmt.Errorf("acquire(%s) > %w", msg.ConversationID, err)
	}

	d.mu.Lock()
	current, since := s.state, s.since
	d.mu.Unlock()
	if d.idleTimeout > 0 && current != StateIdle && d.now().Sub(since) > d.idleTimeout {
		slog.Default().Debug("Conversation expired",
			"conversation_id", msg.ConversationID,
			"state", current)
		current = StateIdle
	}

	reply, next := d.handle(ctx, current, msg)
	d.release(msg.ConversationID, s, next)
	return reply, nil
}

// State reports the current state of a conversation.
func (d *Dispatcher) State(conversationID string) State {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.sessions[conversationID]
	if !ok {
		return StateIdle
	}
	return s.state
}

func (d *Dispatcher) acquire(ctx context.Context, conversationID string) (*session, error) {
	d.mu.Lock()
	s, ok := d.sessions[conversationID]
	if !ok {
		s = &session{lock: make(chan struct{}, 1)}
		d.sessions[conversationID] = s
	}
	s.refs++
	d.mu.Unlock()

	select {
	case s.lock <- struct{}{}:
		return s, nil
	case <-ctx.Done():
		d.mu.Lock()
		d.unref(conversationID, s)
		d.mu.Unlock()
		return nil, ctx.Err()
	}
}

func (d *Dispatcher) release(conversationID string, s *session, next State) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s.state = next
	if next != StateIdle {
		s.since = d.now()
	}
	d.unref(conversationID, s)
	<-s.lock
}

// unref must be called with d.mu held.
func (d *Dispatcher) unref(conversationID string, s *session) {
	s.refs--
	if s.refs == 0 && s.state == StateIdle {
		delete(d.sessions, conversationID)
	}
}

func (d *Dispatcher) handle(ctx context.Context, current State, msg Message) (reply string, next State) {
	defer func() {
		if p := recover(); p != nil {
			slog.Default().Error("Failed to handle message",
				"conversation_id", msg.ConversationID,
				"state", current,
				"error", fmt.Errorf("panic: %v", p))
			reply, next = GenericErrorMessage, StateIdle
		}
	}()

	text := strings.TrimSpace(msg.Text)
	if command, args, ok := parseCommand(text); ok {
		return d.handleCommand(ctx, msg, command, args)
	}

	switch current {
	case StateAwaitingDream:
		return d.analyze(ctx, msg.RequesterID, text), StateIdle
	case StateAwaitingSymbol:
		return d.interpret(ctx, msg.RequesterID, text), StateIdle
	}
	return UsageMessage, StateIdle
}

func (d *Dispatcher) handleCommand(ctx context.Context, msg Message, command, args string) (string, State) {
	switch command {
	case "start":
		return greetingMessage(msg.FirstName), StateIdle
	case "help":
		return helpMessage(), StateIdle
	case "cancel":
		return CancelMessage, StateIdle
	case "stats":
		stats, err := d.stats.Stats(ctx, statsTopTerms)
		if err != nil {
			slog.Default().Error("Failed to read statistics", "error", err)
			return GenericErrorMessage, StateIdle
		}
		return statsMessage(stats), StateIdle
	case "analyze":
		if args != "" {
			return d.analyze(ctx, msg.RequesterID, args), StateIdle
		}
		return AnalyzePromptMessage, StateAwaitingDream
	case "interpret":
		if args != "" {
			return d.interpret(ctx, msg.RequesterID, args), StateIdle
		}
		return InterpretPromptMessage, StateAwaitingSymbol
	}
	return unknownCommandMessage(), StateIdle
}

func (d *Dispatcher) analyze(ctx context.Context, requesterID int64, text string) string {
	r, err := d.builder.Build(ctx, text, requesterID)
	if err != nil {
		slog.Default().Error("Failed to analyze dream", "requester_id", requesterID, "error", err)
		return AnalyzeErrorMessage
	}
	return r.Text
}

func (d *Dispatcher) interpret(ctx context.Context, requesterID int64, text string) string {
	symbol := strings.ToLower(strings.TrimSpace(text))
	if symbol == "" {
		return EmptySymbolMessage
	}

	result, err := d.resolver.Resolve(ctx, requesterID, symbol)
	if err != nil {
		slog.Default().Error("Failed to interpret symbol", "symbol", symbol, "error", err)
		return InterpretErrorMessage
	}
	switch {
	case result.IsFound():
		return symbolMessage(symbol, result.Text)
	case result.Status == interpretation.StatusNotFound:
		return symbolMessage(symbol, NotFoundMessage)
	}
	return InterpretErrorMessage
}

// parseCommand splits "/analyze@sonnik_bot text" into "analyze" and "text".
func parseCommand(text string) (string, string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}
	head, args := text[1:], ""
	if i := strings.IndexFunc(head, unicode.IsSpace); i >= 0 {
		head, args = head[:i], head[i:]
	}
	head, _, _ = strings.Cut(head, "@")
	if head == "" {
		return "", "", false
	}
	return strings.ToLower(head), strings.TrimSpace(args), true
}
