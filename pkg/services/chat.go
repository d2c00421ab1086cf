package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kerbaras/bookshelf/pkg/data"
	"go.uber.org/zap"
)

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrSendInFlight = errors.New("previous message is still being answered")
)

const (
	ThinkingText = "Thinking..."
	ErrorReply   = "Sorry, I ran into a problem. Please try again later."
)

func greeting(book data.Book) string {
	return fmt.Sprintf("Hi! I'm your reading assistant. Ask me anything about %q.", book.Title)
}

func defaultReply(book data.Book, chapter data.Chapter) string {
	return fmt.Sprintf("About %q, %s: here is what I think...", book.Title, chapter.Title)
}

// ChatSession is the assistant's transcript. At most one question is in
// flight; while it is, the last entry is the thinking placeholder.
//
// A send is split into Begin and Resolve so an event loop can run the
// callback in between without holding the session. Send does all three steps
// inline.
type ChatSession struct {
	mu         sync.Mutex
	book       data.Book
	chapter    data.Chapter
	transcript []data.ChatMessage
	pending    bool
	answer     AnswerFunc
	timeout    time.Duration
	onChange   func()
	logger     *zap.Logger
}

func NewChatSession(book data.Book, chapter data.Chapter, answer AnswerFunc, logger *zap.Logger) *ChatSession {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatSession{
		book:       book,
		chapter:    chapter,
		answer:     answer,
		logger:     logger,
		transcript: []data.ChatMessage{{Role: data.RoleAssistant, Text: greeting(book)}},
	}
}

// OnChange registers fn to run after every transcript mutation.
func (s *ChatSession) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// SetTimeout bounds each callback invocation. Zero means wait forever.
func (s *ChatSession) SetTimeout(d time.Duration) {
	s.mu.Lock()
	s.timeout = d
	s.mu.Unlock()
}

// SetContext changes the book and chapter used for the default reply and
// for callbacks created afterwards.
func (s *ChatSession) SetContext(book data.Book, chapter data.Chapter, answer AnswerFunc) {
	s.mu.Lock()
	s.book, s.chapter = book, chapter
	if answer != nil {
		s.answer = answer
	}
	s.mu.Unlock()
}

func (s *ChatSession) Transcript() []data.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]data.ChatMessage, len(s.transcript))
	copy(out, s.transcript)
	return out
}

func (s *ChatSession) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Begin validates text, appends the user message and the placeholder, and
// marks the session busy. It returns the trimmed question.
func (s *ChatSession) Begin(text string) (string, error) {
	question := strings.TrimSpace(text)

	s.mu.Lock()
	switch {
	case question == "":
		s.mu.Unlock()
		return "", ErrEmptyMessage
	case s.pending:
		s.mu.Unlock()
		return "", ErrSendInFlight
	}
	s.transcript = append(s.transcript,
		data.ChatMessage{Role: data.RoleUser, Text: question},
		data.ChatMessage{Role: data.RoleAssistant, Text: ThinkingText},
	)
	s.pending = true
	notify := s.onChange
	s.mu.Unlock()

	if notify != nil {
		notify()
	}
	return question, nil
}

// Ask invokes the callback for a question returned by Begin.
func (s *ChatSession) Ask(ctx context.Context, question string) (string, error) {
	s.mu.Lock()
	answer, timeout := s.answer, s.timeout
	s.mu.Unlock()

	if answer == nil {
		return "", nil
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return answer(ctx, question)
}

// Resolve replaces the placeholder with the reply, the templated default when
// the reply is empty, or the apology when err is set. It is a no-op when
// nothing is pending.
func (s *ChatSession) Resolve(reply string, err error) {
	s.mu.Lock()
	if !s.pending {
		s.mu.Unlock()
		return
	}

	text := strings.TrimSpace(reply)
	switch {
	case err != nil:
		s.logger.Error("question callback failed", zap.String("book", s.book.ID), zap.Error(err))
		text = ErrorReply
	case text == "":
		text = defaultReply(s.book, s.chapter)
	}
	s.transcript[len(s.transcript)-1] = data.ChatMessage{Role: data.RoleAssistant, Text: text}
	s.pending = false
	notify := s.onChange
	s.mu.Unlock()

	if notify != nil {
		notify()
	}
}

// Send runs a full question round trip.
func (s *ChatSession) Send(ctx context.Context, text string) error {
	question, err := s.Begin(text)
	if err != nil {
		return err
	}
	reply, err := s.Ask(ctx, question)
	s.Resolve(reply, err)
	return nil
}
