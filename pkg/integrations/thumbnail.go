package integrations

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/bookshelf/pkg/utils"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Thumbnailer fetches images and renders them as terminal cells, two pixels
// per cell using the upper half block.
type Thumbnailer struct {
	api   *utils.API
	cols  int
	rows  int
	mu    sync.Mutex
	cache map[string]string
}

func NewThumbnailer(api *utils.API, cols, rows int) *Thumbnailer {
	if api == nil {
		api = utils.NewAPI("")
	}
	return &Thumbnailer{api: api, cols: cols, rows: rows, cache: make(map[string]string)}
}

// Render returns the cells for the image at url. Any fetch or decode failure
// is returned so the caller can fall back to a placeholder.
func (t *Thumbnailer) Render(ctx context.Context, url string) (string, error) {
	t.mu.Lock()
	cached, ok := t.cache[url]
	t.mu.Unlock()
	if ok {
		return cached, nil
	}

	content, _, err := t.api.GetBytes(ctx, url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch image: %w", err)
	}
	out, err := t.RenderBytes(content)
	if err != nil {
		return "", err
	}

	t.mu.Lock()
	t.cache[url] = out
	t.mu.Unlock()
	return out, nil
}

func (t *Thumbnailer) RenderBytes(content []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	b := img.Bounds()
	w, h := fitDimensions(b.Dx(), b.Dy(), t.cols, t.rows*2)
	if w == 0 || h == 0 {
		return "", fmt.Errorf("image has no pixels")
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)

	var sb strings.Builder
	for y := 0; y < h; y += 2 {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < w; x++ {
			style := lipgloss.NewStyle().Foreground(hexColor(dst.RGBAAt(x, y)))
			if y+1 < h {
				style = style.Background(hexColor(dst.RGBAAt(x, y+1)))
			}
			sb.WriteString(style.Render("▀"))
		}
	}
	return sb.String(), nil
}

// fitDimensions scales width x height to fit inside maxW x maxH, keeping the
// aspect ratio.
func fitDimensions(width, height, maxW, maxH int) (int, int) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	if width <= maxW && height <= maxH {
		return width, height
	}

	widthScale := float64(maxW) / float64(width)
	heightScale := float64(maxH) / float64(height)
	scale := min(widthScale, heightScale)

	return max(int(float64(width)*scale), 1), max(int(float64(height)*scale), 1)
}

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
