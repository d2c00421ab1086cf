package integrations

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kerbaras/bookshelf/pkg/data"
)

func createTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 40), G: uint8(y * 40), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

// readEPub concatenates every xhtml file in the archive.
func readEPub(t *testing.T, path string) (string, []string) {
	t.Helper()
	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("Failed to open EPub: %v", err)
	}
	defer r.Close()

	var text strings.Builder
	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
		if !strings.HasSuffix(f.Name, ".xhtml") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("Failed to open %s: %v", f.Name, err)
		}
		b, _ := io.ReadAll(rc)
		rc.Close()
		text.Write(b)
	}
	return text.String(), names
}

func TestNewEPubExporter(t *testing.T) {
	exporter := NewEPubExporter("")
	if exporter == nil {
		t.Fatal("Expected exporter to be created")
	}
	defer os.RemoveAll(exporter.OutputDir())

	if exporter.OutputDir() == "" {
		t.Error("Expected a temp output dir")
	}

	exporter = NewEPubExporter("/tmp/test")
	if exporter.OutputDir() != "/tmp/test" {
		t.Errorf("Expected outputDir '/tmp/test', got '%s'", exporter.OutputDir())
	}
}

func TestExportBook(t *testing.T) {
	outputDir := t.TempDir()
	book, err := data.NewCatalogue().GetBook("2")
	if err != nil {
		t.Fatalf("GetBook() error = %v", err)
	}

	epubPath, err := NewEPubExporter(outputDir).Export(book, book.Chapters, nil)
	if err != nil {
		t.Fatalf("Failed to create EPub: %v", err)
	}

	if filepath.Dir(epubPath) != outputDir {
		t.Errorf("Expected EPub in %s, got %s", outputDir, filepath.Dir(epubPath))
	}
	if filepath.Base(epubPath) != book.Title+".epub" {
		t.Errorf("Unexpected filename %s", filepath.Base(epubPath))
	}

	text, _ := readEPub(t, epubPath)
	for _, chapter := range book.Chapters {
		if !strings.Contains(text, chapter.Title) {
			t.Errorf("EPub is missing chapter %q", chapter.Title)
		}
	}
	if !strings.Contains(text, "Third, empathy.") {
		t.Error("EPub is missing chapter text")
	}
}

func TestExportEscapesMarkup(t *testing.T) {
	book := data.Book{ID: "x", Title: "Tags", Author: "Someone"}
	chapters := []data.Chapter{{ID: "x-1", Title: "A <b> & C", Content: "1 < 2 && 3 > 2"}}

	epubPath, err := NewEPubExporter(t.TempDir()).Export(book, chapters, nil)
	if err != nil {
		t.Fatalf("Failed to create EPub: %v", err)
	}

	text, _ := readEPub(t, epubPath)
	if !strings.Contains(text, "1 &lt; 2 &amp;&amp; 3 &gt; 2") {
		t.Error("Expected chapter text to be escaped")
	}
}

func TestExportWithCover(t *testing.T) {
	book := data.Book{ID: "c", Title: "Covered", Author: "Someone"}
	chapters := []data.Chapter{{ID: "c-1", Title: "One", Content: "Hello."}}
	cover := &CoverData{Content: createTestPNG(t, 4, 4), ContentType: "image/png"}

	epubPath, err := NewEPubExporter(t.TempDir()).Export(book, chapters, cover)
	if err != nil {
		t.Fatalf("Failed to create EPub: %v", err)
	}

	_, names := readEPub(t, epubPath)
	found := false
	for _, name := range names {
		if strings.HasSuffix(name, "cover.png") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected cover image in archive, got %v", names)
	}
}

func TestExportNoChapters(t *testing.T) {
	_, err := NewEPubExporter(t.TempDir()).Export(data.Book{ID: "e", Title: "Empty"}, nil, nil)
	if err == nil {
		t.Error("Expected error when creating EPub with no chapters")
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Normal Title", "Normal Title"},
		{"Title/With/Slashes", "Title_With_Slashes"},
		{"Title:With:Colons", "Title_With_Colons"},
		{"Title*With?Special<Chars>", "Title_With_Special_Chars_"},
		{"  Spaces Around  ", "Spaces Around"},
		{".Hidden File.", "Hidden File"},
		{"...", "book"},
	}

	for _, tt := range tests {
		result := sanitizeFilename(tt.input)
		if result != tt.expected {
			t.Errorf("sanitizeFilename(%q) = %q, expected %q", tt.input, result, tt.expected)
		}
	}
}

func TestChapterHTML(t *testing.T) {
	out := chapterHTML(data.Chapter{Title: "T", Content: "first\n\n  second  \n"})
	if strings.Count(out, "<p>") != 2 {
		t.Errorf("Expected two paragraphs, got %q", out)
	}
	if !strings.Contains(out, "<p>second</p>") {
		t.Errorf("Expected trimmed paragraph, got %q", out)
	}
}
