package integrations

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"golang.org/x/image/bmp"
)

func TestRenderBytesHalfBlocks(t *testing.T) {
	th := NewThumbnailer(nil, 4, 2)

	out, err := th.RenderBytes(createTestPNG(t, 4, 4))
	if err != nil {
		t.Fatalf("RenderBytes() error = %v", err)
	}

	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(lines))
	}
	if n := strings.Count(out, "▀"); n != 8 {
		t.Errorf("Expected 8 cells, got %d", n)
	}
}

func TestRenderBytesScalesDown(t *testing.T) {
	th := NewThumbnailer(nil, 5, 5)

	out, err := th.RenderBytes(createTestPNG(t, 40, 20))
	if err != nil {
		t.Fatalf("RenderBytes() error = %v", err)
	}
	for _, line := range strings.Split(out, "\n") {
		if n := strings.Count(line, "▀"); n > 5 {
			t.Errorf("Row wider than 5 cells: %d", n)
		}
	}
}

func TestRenderBytesBMP(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, img); err != nil {
		t.Fatalf("bmp.Encode() error = %v", err)
	}

	if _, err := NewThumbnailer(nil, 4, 4).RenderBytes(buf.Bytes()); err != nil {
		t.Errorf("Expected BMP to decode, got %v", err)
	}
}

func TestRenderBytesInvalid(t *testing.T) {
	if _, err := NewThumbnailer(nil, 4, 4).RenderBytes([]byte("<svg/>")); err == nil {
		t.Error("Expected decode error")
	}
}

func TestRenderFetchesAndCaches(t *testing.T) {
	var hits atomic.Int32
	pngData := createTestPNG(t, 2, 2)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/png")
		w.Write(pngData)
	}))
	defer server.Close()

	th := NewThumbnailer(nil, 4, 4)
	first, err := th.Render(context.Background(), server.URL+"/a.png")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	second, err := th.Render(context.Background(), server.URL+"/a.png")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if first != second {
		t.Error("Expected cached render to match")
	}
	if hits.Load() != 1 {
		t.Errorf("Expected 1 fetch, got %d", hits.Load())
	}
}

func TestRenderFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	if _, err := NewThumbnailer(nil, 4, 4).Render(context.Background(), server.URL+"/gone.png"); err == nil {
		t.Error("Expected fetch error")
	}
}

func TestFitDimensions(t *testing.T) {
	tests := []struct {
		w, h, maxW, maxH int
		wantW, wantH     int
	}{
		{4, 4, 8, 8, 4, 4},
		{100, 50, 10, 10, 10, 5},
		{50, 100, 10, 10, 5, 10},
		{1000, 1, 10, 10, 10, 1},
		{0, 10, 10, 10, 0, 0},
	}
	for _, tt := range tests {
		w, h := fitDimensions(tt.w, tt.h, tt.maxW, tt.maxH)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("fitDimensions(%d,%d,%d,%d) = %d,%d, want %d,%d", tt.w, tt.h, tt.maxW, tt.maxH, w, h, tt.wantW, tt.wantH)
		}
	}
}
