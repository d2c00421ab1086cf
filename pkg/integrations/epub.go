package integrations

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-shiori/go-epub"
	"github.com/kerbaras/bookshelf/pkg/data"
	"github.com/vincent-petithory/dataurl"
)

// CoverData is a downloaded cover image.
type CoverData struct {
	Content     []byte
	ContentType string
}

type EPubExporter struct {
	outputDir string
}

// NewEPubExporter writes books to outputDir, or to a fresh temp dir when
// outputDir is empty.
func NewEPubExporter(outputDir string) *EPubExporter {
	if outputDir == "" {
		outputDir, _ = os.MkdirTemp("", "bookshelf-epub-*")
	}
	return &EPubExporter{outputDir: outputDir}
}

func (p *EPubExporter) OutputDir() string { return p.outputDir }

// Export compiles the chapters of a book, in order, into a single EPub file.
// A nil cover is fine.
func (p *EPubExporter) Export(book data.Book, chapters []data.Chapter, cover *CoverData) (string, error) {
	if len(chapters) == 0 {
		return "", fmt.Errorf("no chapters to compile")
	}

	if err := os.MkdirAll(p.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	e, err := epub.NewEpub(book.Title)
	if err != nil {
		return "", fmt.Errorf("failed to create EPub: %w", err)
	}
	e.SetAuthor(book.Author)
	e.SetLang("en")
	e.SetIdentifier("urn:bookshelf:" + book.ID)

	if cover != nil && len(cover.Content) > 0 {
		if err := p.addCover(e, cover); err != nil {
			return "", err
		}
	}

	for _, chapter := range chapters {
		if _, err := e.AddSection(chapterHTML(chapter), chapter.Title, "", ""); err != nil {
			return "", fmt.Errorf("failed to add chapter %s: %w", chapter.ID, err)
		}
	}

	outputPath := filepath.Join(p.outputDir, sanitizeFilename(book.Title)+".epub")
	if err := e.Write(outputPath); err != nil {
		return "", fmt.Errorf("failed to write EPub: %w", err)
	}

	return outputPath, nil
}

func (p *EPubExporter) addCover(e *epub.Epub, cover *CoverData) error {
	contentType := cover.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	source := dataurl.New(cover.Content, contentType).String()

	internalPath, err := e.AddImage(source, "cover"+extensionFor(contentType))
	if err != nil {
		return fmt.Errorf("failed to add cover image: %w", err)
	}
	e.SetCover(internalPath, "")
	return nil
}

// chapterHTML renders plain chapter text as a heading and paragraphs.
func chapterHTML(chapter data.Chapter) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(chapter.Title))
	for _, para := range strings.Split(chapter.Content, "\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(para))
	}
	return b.String()
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}

// sanitizeFilename removes characters that are invalid in filenames
func sanitizeFilename(name string) string {
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	result := name
	for _, char := range invalid {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.TrimSpace(result)
	result = strings.Trim(result, ".")
	if result == "" {
		result = "book"
	}
	return result
}
