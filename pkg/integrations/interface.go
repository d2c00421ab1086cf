package integrations

import (
	"context"

	"github.com/kerbaras/bookshelf/pkg/data"
)

// Exporter writes a book to a file and returns its path.
type Exporter interface {
	Export(book data.Book, chapters []data.Chapter, cover *CoverData) (string, error)
}

// ImageRenderer turns an image URL into terminal cells.
type ImageRenderer interface {
	Render(ctx context.Context, url string) (string, error)
}
