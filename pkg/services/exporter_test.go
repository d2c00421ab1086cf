package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/kerbaras/bookshelf/pkg/data"
	"github.com/kerbaras/bookshelf/pkg/integrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogueWithCovers(t *testing.T, coverURL string) *data.Catalogue {
	t.Helper()
	var books []data.Book
	for _, b := range data.NewCatalogue().GetAllBooks() {
		b.CoverURL = coverURL
		books = append(books, b)
	}
	return data.CatalogueOf(books)
}

func TestExporterExportBook(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png-bytes"))
	}))
	defer server.Close()

	builder := &mockBuilder{}
	e := NewExporter(catalogueWithCovers(t, server.URL+"/cover.png"), builder, nil, nil)
	defer e.Close()

	path, err := e.ExportBook(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/1.epub", path)
	assert.Equal(t, int32(1), hits.Load())

	cover := builder.covers["1"]
	require.NotNil(t, cover)
	assert.Equal(t, "image/png", cover.ContentType)
	assert.Equal(t, []byte("png-bytes"), cover.Content)

	var statuses []string
	for len(e.Progress()) > 0 {
		statuses = append(statuses, (<-e.Progress()).Status)
	}
	assert.Equal(t, []string{"exporting", "complete"}, statuses)
}

func TestExporterCoverFailureIsNotFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	builder := &mockBuilder{}
	e := NewExporter(catalogueWithCovers(t, server.URL+"/missing.png"), builder, nil, nil)
	defer e.Close()

	_, err := e.ExportBook(context.Background(), "2")
	require.NoError(t, err)
	assert.Nil(t, builder.covers["2"])
}

func TestExporterUnknownBook(t *testing.T) {
	e := NewExporter(catalogueWithCovers(t, ""), &mockBuilder{}, nil, nil)
	defer e.Close()

	_, err := e.ExportBook(context.Background(), "nope")
	assert.ErrorIs(t, err, data.ErrNotFound)
}

func TestExporterExportBooks(t *testing.T) {
	builder := &mockBuilder{exportFunc: func(book data.Book, chapters []data.Chapter, _ *integrations.CoverData) (string, error) {
		if book.ID == "2" {
			return "", errors.New("disk full")
		}
		assert.Equal(t, book.Chapters, chapters)
		return "/out/" + book.ID + ".epub", nil
	}}
	e := NewExporter(catalogueWithCovers(t, ""), builder, nil, nil)
	defer e.Close()

	paths, err := e.ExportBooks(context.Background(), []string{"1", "2", "3"})
	assert.Error(t, err)
	assert.Equal(t, map[string]string{"1": "/out/1.epub", "3": "/out/3.epub"}, paths)
}

func TestExporterCloseTwice(t *testing.T) {
	e := NewExporter(data.NewCatalogue(), &mockBuilder{}, nil, nil)
	e.Close()
	assert.NotPanics(t, e.Close)
}

func TestExporterExportAfterClose(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("png-bytes"))
	}))
	defer server.Close()

	builder := &mockBuilder{}
	e := NewExporter(catalogueWithCovers(t, server.URL+"/cover.png"), builder, nil, nil)
	e.Close()

	var (
		path string
		err  error
	)
	assert.NotPanics(t, func() {
		path, err = e.ExportBook(context.Background(), "1")
	})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/1.epub", path)
	assert.Nil(t, builder.covers["1"])

	_, open := <-e.Progress()
	assert.False(t, open)
}
