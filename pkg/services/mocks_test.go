package services

import (
	"context"
	"sync"

	"github.com/kerbaras/bookshelf/pkg/data"
	"github.com/kerbaras/bookshelf/pkg/integrations"
	"github.com/kerbaras/bookshelf/pkg/wallet"
)

// Mock implementations for testing

type mockGateway struct {
	ownerFunc   func(ctx context.Context) (string, error)
	balanceFunc func(ctx context.Context, owner string) (int, error)
	tokenFunc   func(ctx context.Context, owner string, index int) (string, error)
	metaFunc    func(ctx context.Context, tokenID string) (wallet.Metadata, error)
}

func (m *mockGateway) Owner(ctx context.Context) (string, error) {
	if m.ownerFunc != nil {
		return m.ownerFunc(ctx)
	}
	return "0xowner", nil
}

func (m *mockGateway) BalanceOf(ctx context.Context, owner string) (int, error) {
	if m.balanceFunc != nil {
		return m.balanceFunc(ctx, owner)
	}
	return 0, nil
}

func (m *mockGateway) TokenOfOwnerByIndex(ctx context.Context, owner string, index int) (string, error) {
	if m.tokenFunc != nil {
		return m.tokenFunc(ctx, owner, index)
	}
	return "", nil
}

func (m *mockGateway) Metadata(ctx context.Context, tokenID string) (wallet.Metadata, error) {
	if m.metaFunc != nil {
		return m.metaFunc(ctx, tokenID)
	}
	return wallet.Metadata{}, nil
}

type mockAnswerer struct {
	mu         sync.Mutex
	calls      int
	lastBook   data.Book
	lastChap   data.Chapter
	answerFunc func(ctx context.Context, question string) (string, error)
}

func (m *mockAnswerer) Answer(ctx context.Context, book data.Book, chapter data.Chapter, question string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.lastBook, m.lastChap = book, chapter
	fn := m.answerFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, question)
	}
	return "", nil
}

type mockBuilder struct {
	mu         sync.Mutex
	exportFunc func(book data.Book, chapters []data.Chapter, cover *integrations.CoverData) (string, error)
	covers     map[string]*integrations.CoverData
}

func (m *mockBuilder) Export(book data.Book, chapters []data.Chapter, cover *integrations.CoverData) (string, error) {
	m.mu.Lock()
	if m.covers == nil {
		m.covers = make(map[string]*integrations.CoverData)
	}
	m.covers[book.ID] = cover
	m.mu.Unlock()
	if m.exportFunc != nil {
		return m.exportFunc(book, chapters, cover)
	}
	return "/tmp/" + book.ID + ".epub", nil
}

func testBook() (data.Book, data.Chapter) {
	book, _ := data.NewCatalogue().GetBook("2")
	return book, book.Chapters[0]
}

func newTestPrefs() *data.Preferences {
	return data.NewPreferences(data.NewMemoryStore())
}
