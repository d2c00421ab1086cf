package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kerbaras/bookshelf/pkg/data"
	"github.com/kerbaras/bookshelf/pkg/integrations"
	"github.com/kerbaras/bookshelf/pkg/utils"
	"go.uber.org/zap"
)

// ExportProgress is one step of a book export.
type ExportProgress struct {
	BookID string
	Title  string
	Status string // "exporting", "complete", "error"
	Path   string
	Error  error
}

// Exporter writes catalogue books to EPub files, a few at a time.
type Exporter struct {
	catalogue    *data.Catalogue
	builder      integrations.Exporter
	api          *utils.API
	rateLimiter  *time.Ticker
	progressChan chan ExportProgress
	done         chan struct{}
	mu           sync.Mutex
	closed       bool
	logger       *zap.Logger
}

var errExporterClosed = errors.New("exporter closed")

func NewExporter(catalogue *data.Catalogue, builder integrations.Exporter, api *utils.API, logger *zap.Logger) *Exporter {
	if api == nil {
		api = utils.NewAPI("")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{
		catalogue:    catalogue,
		builder:      builder,
		api:          api,
		rateLimiter:  time.NewTicker(250 * time.Millisecond), // cover fetches, 4 req/sec
		progressChan: make(chan ExportProgress, 100),
		done:         make(chan struct{}),
		logger:       logger,
	}
}

// Progress returns the channel for receiving export updates.
func (e *Exporter) Progress() <-chan ExportProgress {
	return e.progressChan
}

// ExportBooks exports each book and returns the written paths by book id.
// A failed book does not stop the others; the first error is returned.
func (e *Exporter) ExportBooks(ctx context.Context, ids []string) (map[string]string, error) {
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		firstErr  error
		paths     = make(map[string]string, len(ids))
		semaphore = make(chan struct{}, 3)
	)

	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			path, err := e.ExportBook(ctx, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("book %s: %w", id, err)
				}
				return
			}
			paths[id] = path
		}(id)
	}

	wg.Wait()
	return paths, firstErr
}

// ExportBook exports a single book. A missing cover is not an error.
func (e *Exporter) ExportBook(ctx context.Context, id string) (string, error) {
	book, err := e.catalogue.GetBook(id)
	if err != nil {
		e.sendProgress(ExportProgress{BookID: id, Status: "error", Error: err})
		return "", err
	}
	e.sendProgress(ExportProgress{BookID: id, Title: book.Title, Status: "exporting"})

	var cover *integrations.CoverData
	if book.CoverURL != "" {
		if c, err := e.fetchCover(ctx, book.CoverURL); err != nil {
			e.logger.Warn("cover download failed", zap.String("book", id), zap.Error(err))
		} else {
			cover = c
		}
	}

	path, err := e.builder.Export(book, book.Chapters, cover)
	if err != nil {
		err = fmt.Errorf("failed to export %q: %w", book.Title, err)
		e.sendProgress(ExportProgress{BookID: id, Title: book.Title, Status: "error", Error: err})
		return "", err
	}

	e.logger.Info("book exported", zap.String("book", id), zap.String("path", path))
	e.sendProgress(ExportProgress{BookID: id, Title: book.Title, Status: "complete", Path: path})
	return path, nil
}

func (e *Exporter) fetchCover(ctx context.Context, url string) (*integrations.CoverData, error) {
	select {
	case <-e.rateLimiter.C:
	case <-e.done:
		return nil, errExporterClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	content, contentType, err := e.api.GetBytes(ctx, url)
	if err != nil {
		return nil, err
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return &integrations.CoverData{Content: content, ContentType: contentType}, nil
}

// sendProgress sends a progress update (non-blocking). Updates after Close
// are dropped.
func (e *Exporter) sendProgress(progress ExportProgress) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	select {
	case e.progressChan <- progress:
	default:
	}
}

// Close ends the progress stream. Exports still running finish without
// reporting and skip their cover download.
func (e *Exporter) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.rateLimiter.Stop()
	close(e.done)
	close(e.progressChan)
}
