package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/kerbaras/bookshelf/pkg/data"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
)

// AnswerFunc is the question callback the chat session delegates to. An empty
// reply with a nil error means the answerer had nothing to say.
type AnswerFunc func(ctx context.Context, question string) (string, error)

// Answerer answers questions about a chapter of a book.
type Answerer interface {
	Answer(ctx context.Context, book data.Book, chapter data.Chapter, question string) (string, error)
}

// Bind fixes the book and chapter an Answerer is asked about.
func Bind(a Answerer, book data.Book, chapter data.Chapter) AnswerFunc {
	return func(ctx context.Context, question string) (string, error) {
		return a.Answer(ctx, book, chapter, question)
	}
}

// OpenAIAnswerer asks a chat completion model, giving it the chapter text as
// context.
type OpenAIAnswerer struct {
	client openai.Client
	model  string
	logger *zap.Logger
}

func NewOpenAIAnswerer(apiKey, model, baseURL string, logger *zap.Logger) *OpenAIAnswerer {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if model == "" {
		model = string(openai.ChatModelGPT4oMini)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenAIAnswerer{
		client: openai.NewClient(opts...),
		model:  model,
		logger: logger,
	}
}

func (o *OpenAIAnswerer) Answer(ctx context.Context, book data.Book, chapter data.Chapter, question string) (string, error) {
	system := fmt.Sprintf(
		"You are a reading companion for %q by %s. Answer questions about the chapter %q using only the text below. Keep answers short.\n\n%s",
		book.Title, book.Author, chapter.Title, chapter.Content,
	)

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(question),
		},
	})
	if err != nil {
		o.logger.Error("OpenAI answer failed", zap.String("book", book.ID), zap.Error(err))
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenAI response")
	}

	o.logger.Debug("OpenAI answer received",
		zap.String("book", book.ID),
		zap.Int64("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int64("completion_tokens", resp.Usage.CompletionTokens),
	)
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// ExcerptAnswerer works offline: it replies with the chapter sentence sharing
// the most words with the question, or nothing when no sentence matches.
type ExcerptAnswerer struct{}

var (
	sentenceSplit = regexp.MustCompile(`[^.!?]+[.!?]*`)
	wordPattern   = regexp.MustCompile(`[\p{L}\p{N}']+`)
)

// Words this short or this common say nothing about the question.
var stopWords = map[string]bool{
	"the": true, "and": true, "what": true, "who": true, "why": true, "how": true,
	"does": true, "did": true, "this": true, "that": true, "with": true, "from": true,
	"about": true, "chapter": true, "book": true, "are": true, "was": true, "for": true,
}

func (ExcerptAnswerer) Answer(_ context.Context, _ data.Book, chapter data.Chapter, question string) (string, error) {
	terms := keywords(question)
	if len(terms) == 0 {
		return "", nil
	}

	best, bestScore := "", 0
	for _, sentence := range sentenceSplit.FindAllString(chapter.Content, -1) {
		score := 0
		for w := range keywords(sentence) {
			if terms[w] {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = strings.TrimSpace(sentence), score
		}
	}
	return best, nil
}

func keywords(text string) map[string]bool {
	out := make(map[string]bool)
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if len(w) < 3 || stopWords[w] {
			continue
		}
		out[w] = true
	}
	return out
}
